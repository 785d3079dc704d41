package input

import (
	"github.com/achilleasa/gputrace/types"
	"github.com/go-gl/mathgl/mgl64"
)

type PrimitiveType int32

// Primitive type tags. The values are part of the GPU record format.
const (
	SpherePrimitive PrimitiveType = iota
	QuadPrimitive
	TrianglePrimitive
)

func (t PrimitiveType) String() string {
	switch t {
	case SpherePrimitive:
		return "sphere"
	case QuadPrimitive:
		return "quad"
	case TrianglePrimitive:
		return "triangle"
	}
	return "unknown"
}

// A scene primitive. The Type field selects which of the geometry fields are
// meaningful:
//   - spheres use Center and Radius
//   - quads use Q, U and V
//   - triangles use Vertices, Normals and MeshIndex
//
// Spheres and quads own a Transform. Triangles are transformed by the
// transform of their mesh when the mesh is baked.
type Primitive struct {
	Type          PrimitiveType
	GlobalID      int32
	LocalID       int32
	MaterialIndex int32

	// Sphere
	Center mgl64.Vec3
	Radius float64

	// Quad
	Q mgl64.Vec3
	U mgl64.Vec3
	V mgl64.Vec3

	// Triangle
	Vertices  [3]mgl64.Vec3
	Normals   [3]mgl64.Vec3
	MeshIndex int32

	Transform *types.Transform

	bbox  types.AABB
	baked bool

	// The sphere/quad model matrix that bbox was computed with.
	bboxModel mgl64.Mat4
}

func newSphere(center mgl64.Vec3, radius float64) *Primitive {
	prim := &Primitive{
		Type:      SpherePrimitive,
		Center:    center,
		Radius:    radius,
		MeshIndex: -1,
		Transform: types.NewTransform(),
		bboxModel: mgl64.Ident4(),
	}
	prim.bbox = prim.localBBox().Pad(types.DefaultPadding)
	return prim
}

func newQuad(q, u, v mgl64.Vec3) *Primitive {
	prim := &Primitive{
		Type:      QuadPrimitive,
		Q:         q,
		U:         u,
		V:         v,
		MeshIndex: -1,
		Transform: types.NewTransform(),
		bboxModel: mgl64.Ident4(),
	}
	prim.bbox = prim.localBBox().Pad(types.DefaultPadding)
	return prim
}

func newTriangle(a, b, c mgl64.Vec3, normals [3]mgl64.Vec3) *Primitive {
	return &Primitive{
		Type:     TrianglePrimitive,
		Vertices: [3]mgl64.Vec3{a, b, c},
		Normals:  normals,
		bbox:     types.EmptyAABB(),
	}
}

func (prim *Primitive) localBBox() types.AABB {
	switch prim.Type {
	case SpherePrimitive:
		r := mgl64.Vec3{prim.Radius, prim.Radius, prim.Radius}
		return types.AABBFromPoints(prim.Center.Sub(r), prim.Center.Add(r))
	case QuadPrimitive:
		return types.AABBFromPoints(prim.Q, prim.Q.Add(prim.U)).
			Grow(prim.Q.Add(prim.V)).
			Grow(prim.Q.Add(prim.U).Add(prim.V))
	default:
		return types.AABBFromTriangle(prim.Vertices[0], prim.Vertices[1], prim.Vertices[2])
	}
}

// Bake the primitive into world space and update its bounding box.
//
// Spheres and quads keep their local geometry and bound the transformed local
// box using their own transform; the tr argument is ignored for them.
// Triangle vertices and normals are transformed by tr in place. Baking a
// triangle more than once is a no-op.
func (prim *Primitive) Bake(tr *types.Transform) {
	switch prim.Type {
	case SpherePrimitive, QuadPrimitive:
		model := prim.model()
		box := prim.localBBox()
		if !model.ApproxEqual(mgl64.Ident4()) {
			box = box.Transform(model)
		}
		prim.bbox = box.Pad(types.DefaultPadding)
		prim.bboxModel = model
	case TrianglePrimitive:
		if prim.baked {
			return
		}
		if tr != nil {
			for i := 0; i < 3; i++ {
				prim.Vertices[i] = tr.Point(prim.Vertices[i])
				prim.Normals[i] = tr.Normal(prim.Normals[i])
			}
		}
		prim.bbox = prim.localBBox().Pad(types.DefaultPadding)
	}
	prim.baked = true
}

// Get the sphere/quad model matrix; a nil transform is the identity.
func (prim *Primitive) model() mgl64.Mat4 {
	if prim.Transform == nil {
		return mgl64.Ident4()
	}
	return prim.Transform.Model
}

// Returns true if the primitive bounding box matches its world space
// geometry. Triangles must be baked by their mesh. Sphere and quad boxes
// track the model matrix they were computed with: a new sphere or quad is
// baked while its transform stays the identity, and becomes stale once its
// transform changes until Bake is called again.
func (prim *Primitive) Baked() bool {
	if prim.Type == TrianglePrimitive {
		return prim.baked
	}
	return prim.bboxModel == prim.model()
}

// Get the primitive AABB.
func (prim *Primitive) BBox() types.AABB {
	return prim.bbox
}

// Get the quad plane normal normalize(u x v).
func (prim *Primitive) QuadNormal() mgl64.Vec3 {
	n := prim.U.Cross(prim.V)
	if n.Len() == 0 {
		return n
	}
	return n.Normalize()
}

// Get the quad plane constant dot(normal, Q).
func (prim *Primitive) QuadD() float64 {
	return prim.QuadNormal().Dot(prim.Q)
}

// Get the quad reciprocal vector (u x v) / dot(u x v, u x v) used for
// computing planar hit coordinates.
func (prim *Primitive) QuadW() mgl64.Vec3 {
	n := prim.U.Cross(prim.V)
	nn := n.Dot(n)
	if nn == 0 {
		return mgl64.Vec3{}
	}
	return n.Mul(1 / nn)
}
