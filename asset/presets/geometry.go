package presets

import "github.com/go-gl/mathgl/mgl64"

// Generate an axis-aligned cube centered at the origin. Every face is split
// into two triangles with flat per-vertex normals.
func cubeMesh(halfSize float64) (vertices, normals []mgl64.Vec3) {
	h := halfSize
	faces := []struct {
		normal  mgl64.Vec3
		corners [4]mgl64.Vec3
	}{
		{mgl64.Vec3{0, 0, 1}, [4]mgl64.Vec3{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{mgl64.Vec3{0, 0, -1}, [4]mgl64.Vec3{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}},
		{mgl64.Vec3{1, 0, 0}, [4]mgl64.Vec3{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}}},
		{mgl64.Vec3{-1, 0, 0}, [4]mgl64.Vec3{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}},
		{mgl64.Vec3{0, 1, 0}, [4]mgl64.Vec3{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}},
		{mgl64.Vec3{0, -1, 0}, [4]mgl64.Vec3{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
	}

	vertices = make([]mgl64.Vec3, 0, 36)
	normals = make([]mgl64.Vec3, 0, 36)
	for _, face := range faces {
		c := face.corners
		vertices = append(vertices, c[0], c[1], c[2], c[0], c[2], c[3])
		for i := 0; i < 6; i++ {
			normals = append(normals, face.normal)
		}
	}
	return vertices, normals
}
