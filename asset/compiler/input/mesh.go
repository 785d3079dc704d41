package input

import "github.com/achilleasa/gputrace/types"

// A mesh is a list of triangle primitives sharing a material and a transform.
type Mesh struct {
	Name          string
	GlobalID      int32
	LocalID       int32
	MaterialIndex int32

	// Index of the first mesh triangle in the scene-wide triangle list.
	TriangleOffset int32

	Triangles []*Primitive
	Transform *types.Transform
}

// Transform all mesh triangles into world space. Triangles that were already
// baked are left untouched so calling this method twice is safe.
func (m *Mesh) BakeTransforms() {
	for _, tri := range m.Triangles {
		tri.Bake(m.Transform)
	}
}

// Returns true if every mesh triangle has been baked.
func (m *Mesh) Baked() bool {
	for _, tri := range m.Triangles {
		if !tri.Baked() {
			return false
		}
	}
	return true
}

// Get mesh bounding box. The result is only meaningful after the mesh has
// been baked.
func (m *Mesh) BBox() types.AABB {
	box := types.EmptyAABB()
	for _, tri := range m.Triangles {
		box = box.Merge(tri.BBox())
	}
	return box
}
