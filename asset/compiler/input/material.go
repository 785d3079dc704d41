package input

import "github.com/go-gl/mathgl/mgl64"

type MaterialType int32

// Supported material types. The values are shared with the shader.
const (
	Diffuse MaterialType = iota
	Dielectric
	Metal
	Glossy
)

var materialTypeNames = [...]string{"diffuse", "dielectric", "metal", "glossy"}

func (t MaterialType) String() string {
	if t < 0 || int(t) >= len(materialTypeNames) {
		return "unknown"
	}
	return materialTypeNames[t]
}

// A surface material. Materials are appended to the scene and referenced by
// primitives through their index.
type Material struct {
	Name string
	Type MaterialType

	BaseColor mgl64.Vec3
	Emission  mgl64.Vec3

	// Chance of a specular bounce for glossy surfaces.
	SpecularPercent float64

	// Metal surface perturbation.
	Fuzz float64

	Roughness float64

	// Index of refraction for dielectrics.
	IOR float64
}

// Returns true if the material emits light.
func (m *Material) IsEmissive() bool {
	return m.Emission[0] > 0 || m.Emission[1] > 0 || m.Emission[2] > 0
}
