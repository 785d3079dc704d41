package scene

import (
	"math"

	"github.com/achilleasa/gputrace/types"
)

// Primitive type tags stored in PrimitiveRef and BvhNode records.
const (
	SpherePrimitive   int32 = 0
	QuadPrimitive     int32 = 1
	TrianglePrimitive int32 = 2

	// Leaf tag for leaves whose items have different primitive types.
	MixedPrimitive int32 = 3
)

// All records are encoded as little endian 4-byte words in field order.
// Blank fields are zero padding that keeps vec3 fields 16-byte aligned for
// WGSL storage buffers.

// A material record (48 bytes).
type Material struct {
	BaseColor       types.Vec3
	SpecularPercent float32
	Emission        types.Vec3
	Fuzz            float32
	IOR             float32
	Type            int32
	Roughness       float32
	_               int32
}

// A sphere record (32 bytes).
type Sphere struct {
	Center     types.Vec3
	Radius     float32
	GlobalID   int32
	LocalID    int32
	MaterialID int32
	_          int32
}

// A quad record (80 bytes). Normal, D and W are precomputed for planar
// intersection tests.
type Quad struct {
	Q          types.Vec3
	_          int32
	U          types.Vec3
	LocalID    int32
	V          types.Vec3
	GlobalID   int32
	Normal     types.Vec3
	D          float32
	W          types.Vec3
	MaterialID int32
}

// A triangle record (96 bytes). Vertices and normals are in world space.
type Triangle struct {
	A          types.Vec3
	LocalID    int32
	B          types.Vec3
	MeshID     int32
	C          types.Vec3
	MaterialID int32
	NA         types.Vec3
	_          int32
	NB         types.Vec3
	_          int32
	NC         types.Vec3
	_          int32
}

// A mesh record (16 bytes). Mesh triangles occupy the range
// [TriangleOffset, TriangleOffset+TriangleCount) of the triangle list.
type Mesh struct {
	TriangleCount  int32
	TriangleOffset int32
	GlobalID       int32
	MaterialID     int32
}

// A transform record (128 bytes) with column-major model and inverse model
// matrices. Transforms are indexed by global primitive id.
type Transform struct {
	Model   [16]float32
	Inverse [16]float32
}

// A reference to a primitive record (16 bytes). BVH leaves index a range of
// the primitive reference list; LocalID indexes the list selected by Type.
type PrimitiveRef struct {
	Type       int32
	LocalID    int32
	GlobalID   int32
	MaterialID int32
}

// A flattened BVH node (48 bytes). Nodes are stored in pre-order.
//
// Internal nodes:
//   - PrimitiveType, LeafStart and LeafCount are -1
//   - RightChild is the index of the right child; the left child is the
//     next node
//   - SplitAxis is 0, 1 or 2
//
// Leaves:
//   - RightChild and SplitAxis are -1
//   - LeafStart and LeafCount select a range of the PrimitiveRef list
//   - PrimitiveType is the common type of the range items or MixedPrimitive
//
// Miss is the node to continue with after a box miss (or after processing a
// leaf); -1 ends the traversal.
type BvhNode struct {
	Min           types.Vec3
	RightChild    int32
	Max           types.Vec3
	PrimitiveType int32
	LeafStart     int32
	LeafCount     int32
	Miss          int32
	SplitAxis     int32
}

// Set bounding box. Bounds are rounded outwards so the single precision box
// always contains the double precision one.
func (n *BvhNode) SetBBox(bbox types.AABB) {
	for axis := 0; axis < 3; axis++ {
		n.Min[axis] = roundDown(bbox.Min[axis])
		n.Max[axis] = roundUp(bbox.Max[axis])
	}
}

func roundDown(v float64) float32 {
	f := float32(v)
	if float64(f) > v {
		f = math.Nextafter32(f, float32(math.Inf(-1)))
	}
	return f
}

func roundUp(v float64) float32 {
	f := float32(v)
	if float64(f) < v {
		f = math.Nextafter32(f, float32(math.Inf(1)))
	}
	return f
}

// Returns true if this is a leaf node.
func (n *BvhNode) IsLeaf() bool {
	return n.RightChild < 0
}

// Get the index of the node visited after a box hit.
func (n *BvhNode) Hit(index int32) int32 {
	if n.IsLeaf() {
		return n.Miss
	}
	return index + 1
}
