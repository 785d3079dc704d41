package presets

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/achilleasa/gputrace/asset/compiler/input"
	"github.com/achilleasa/gputrace/types"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/olekukonko/tablewriter"
)

var ErrUnknownPreset = errors.New("presets: unknown scene")

// A built-in scene.
type Preset struct {
	Name        string
	Description string
	build       func() (*input.Scene, error)
}

var registry = map[string]Preset{
	"cornell": {
		Name:        "cornell",
		Description: "Cornell box with an area light, two spheres and two transformed boxes",
		build:       cornellBox,
	},
	"sphere-grid": {
		Name:        "sphere-grid",
		Description: "10x10 grid of spheres with mixed materials on a ground quad",
		build:       sphereGrid,
	},
	"sphere-line": {
		Name:        "sphere-line",
		Description: "64 spheres along the X axis under a light",
		build:       sphereLine,
	},
}

// Get all presets sorted by name.
func List() []Preset {
	list := make([]Preset, 0, len(registry))
	for _, preset := range registry {
		list = append(list, preset)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Build the named preset scene. The scene is not baked.
func Load(name string) (*input.Scene, error) {
	preset, exists := registry[name]
	if !exists {
		return nil, fmt.Errorf("%w %q", ErrUnknownPreset, name)
	}
	return preset.build()
}

// Build a tabular listing of the available presets.
func Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Scene", "Description"})
	for _, preset := range List() {
		table.Append([]string{preset.Name, preset.Description})
	}
	table.Render()
	return buf.String()
}

func cornellBox() (*input.Scene, error) {
	sc := input.NewScene("cornell")

	white := sc.AddMaterial("white", input.Material{Type: input.Diffuse, BaseColor: mgl64.Vec3{0.73, 0.73, 0.73}})
	grey := sc.AddMaterial("back", input.Material{Type: input.Diffuse, BaseColor: mgl64.Vec3{0.3, 0.3, 0.3}})
	red := sc.AddMaterial("left", input.Material{Type: input.Diffuse, BaseColor: mgl64.Vec3{1, 0, 0}})
	green := sc.AddMaterial("right", input.Material{Type: input.Diffuse, BaseColor: mgl64.Vec3{0, 1, 0}})
	blue := sc.AddMaterial("front", input.Material{Type: input.Diffuse, BaseColor: mgl64.Vec3{0, 0, 1}})
	light := sc.AddMaterial("light", input.Material{Type: input.Diffuse, Emission: mgl64.Vec3{13, 13, 13}})
	glass := sc.AddMaterial("glass", input.Material{Type: input.Dielectric, BaseColor: mgl64.Vec3{1, 1, 1}, IOR: 1.5})
	metal := sc.AddMaterial("metal", input.Material{Type: input.Metal, BaseColor: mgl64.Vec3{0.8, 0.8, 0.9}, Fuzz: 0.05})
	glossy := sc.AddMaterial("glossy", input.Material{Type: input.Glossy, BaseColor: mgl64.Vec3{0.9, 0.6, 0.3}, SpecularPercent: 0.2, Roughness: 0.3})

	// Walls
	sc.AddQuad(mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{0, 2, 0}, grey)
	sc.AddQuad(mgl64.Vec3{-1, -1, 1}, mgl64.Vec3{0, 0, -2}, mgl64.Vec3{0, 2, 0}, red)
	sc.AddQuad(mgl64.Vec3{1, -1, -1}, mgl64.Vec3{0, 0, 2}, mgl64.Vec3{0, 2, 0}, green)
	sc.AddQuad(mgl64.Vec3{-1, 1, -1}, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{0, 0, 2}, white)
	sc.AddQuad(mgl64.Vec3{1, -1, -1}, mgl64.Vec3{-2, 0, 0}, mgl64.Vec3{0, 0, 2}, white)
	sc.AddQuad(mgl64.Vec3{1, -1, 1}, mgl64.Vec3{-2, 0, 0}, mgl64.Vec3{0, 2, 0}, blue)

	// Ceiling light, slightly below the ceiling
	sc.AddQuad(mgl64.Vec3{-0.35, 0.999, -0.3}, mgl64.Vec3{0.7, 0, 0}, mgl64.Vec3{0, 0, 0.6}, light)

	if _, err := sc.AddSphere(mgl64.Vec3{-0.5, -0.7, 0.5}, 0.3, glass); err != nil {
		return nil, err
	}
	if _, err := sc.AddSphere(mgl64.Vec3{0.6, -0.75, -0.5}, 0.25, metal); err != nil {
		return nil, err
	}

	vertices, normals := cubeMesh(0.2)

	tall, err := sc.AddMesh("tall box", vertices, normals, glossy)
	if err != nil {
		return nil, err
	}
	err = tall.Transform.Update(
		types.Scale(1, 2.5, 1),
		types.Rotate(math.Pi/8, mgl64.Vec3{0, 1, 0}),
		types.Translate(-0.45, -0.5, -0.4),
	)
	if err != nil {
		return nil, err
	}

	short, err := sc.AddMesh("short box", vertices, normals, white)
	if err != nil {
		return nil, err
	}
	err = short.Transform.Update(
		types.Rotate(-math.Pi/9, mgl64.Vec3{0, 1, 0}),
		types.Translate(0.28, -0.8, 0.45),
	)
	if err != nil {
		return nil, err
	}

	return sc, nil
}

func sphereGrid() (*input.Scene, error) {
	const gridSize = 10
	sc := input.NewScene("sphere-grid")

	ground := sc.AddMaterial("ground", input.Material{Type: input.Diffuse, BaseColor: mgl64.Vec3{0.5, 0.5, 0.5}})
	light := sc.AddMaterial("light", input.Material{Type: input.Diffuse, Emission: mgl64.Vec3{4, 4, 4}})
	mats := []int{
		sc.AddMaterial("diffuse", input.Material{Type: input.Diffuse, BaseColor: mgl64.Vec3{0.8, 0.3, 0.3}}),
		sc.AddMaterial("metal", input.Material{Type: input.Metal, BaseColor: mgl64.Vec3{0.8, 0.8, 0.8}, Fuzz: 0.1}),
		sc.AddMaterial("glass", input.Material{Type: input.Dielectric, BaseColor: mgl64.Vec3{1, 1, 1}, IOR: 1.5}),
		sc.AddMaterial("glossy", input.Material{Type: input.Glossy, BaseColor: mgl64.Vec3{0.2, 0.4, 0.8}, SpecularPercent: 0.3, Roughness: 0.2}),
	}

	sc.AddQuad(mgl64.Vec3{-20, 0, -20}, mgl64.Vec3{0, 0, 40}, mgl64.Vec3{40, 0, 0}, ground)
	sc.AddQuad(mgl64.Vec3{-5, 10, -5}, mgl64.Vec3{10, 0, 0}, mgl64.Vec3{0, 0, 10}, light)

	for x := 0; x < gridSize; x++ {
		for z := 0; z < gridSize; z++ {
			radius := 0.2 + 0.03*float64((x+z)%5)
			center := mgl64.Vec3{float64(x-gridSize/2) * 1.2, radius, float64(z-gridSize/2) * 1.2}
			if _, err := sc.AddSphere(center, radius, mats[(x*gridSize+z)%len(mats)]); err != nil {
				return nil, err
			}
		}
	}

	return sc, nil
}

func sphereLine() (*input.Scene, error) {
	const count = 64
	sc := input.NewScene("sphere-line")

	diffuse := sc.AddMaterial("diffuse", input.Material{Type: input.Diffuse, BaseColor: mgl64.Vec3{0.7, 0.7, 0.7}})
	sun := sc.AddMaterial("sun", input.Material{Type: input.Diffuse, Emission: mgl64.Vec3{30, 30, 30}})

	for i := 0; i < count; i++ {
		if _, err := sc.AddSphere(mgl64.Vec3{float64(i), 0, 0}, 0.4, diffuse); err != nil {
			return nil, err
		}
	}
	if _, err := sc.AddSphere(mgl64.Vec3{count / 2, 100, 0}, 10, sun); err != nil {
		return nil, err
	}

	return sc, nil
}
