package input

import (
	"errors"
	"fmt"

	"github.com/achilleasa/gputrace/types"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrInvalidMesh   = errors.New("input: mesh vertex count must be a non-zero multiple of 3")
	ErrNormalCount   = errors.New("input: mesh normal count must match the vertex count")
	ErrInvalidRadius = errors.New("input: sphere radius must be positive")
)

// Hands out primitive ids. Global ids are unique across spheres, quads and
// meshes; local ids are per primitive type. All triangles of a mesh share the
// global id of the mesh.
type idAllocator struct {
	global   int32
	sphere   int32
	quad     int32
	mesh     int32
	triangle int32
}

func (a *idAllocator) nextSphere() (global, local int32) {
	global, local = a.global, a.sphere
	a.global++
	a.sphere++
	return global, local
}

func (a *idAllocator) nextQuad() (global, local int32) {
	global, local = a.global, a.quad
	a.global++
	a.quad++
	return global, local
}

// Reserve ids for a mesh with count triangles. The returned triangle id is
// the local id of the first mesh triangle.
func (a *idAllocator) nextMesh(count int32) (global, local, firstTriangle int32) {
	global, local, firstTriangle = a.global, a.mesh, a.triangle
	a.global++
	a.mesh++
	a.triangle += count
	return global, local, firstTriangle
}

// The scene contains all elements that are processed and optimized by the
// scene compiler.
type Scene struct {
	Name string

	Materials []*Material
	Spheres   []*Primitive
	Quads     []*Primitive
	Meshes    []*Mesh

	materialIndex map[string]int
	ids           idAllocator
}

// Create a new scene.
func NewScene(name string) *Scene {
	return &Scene{
		Name:          name,
		Materials:     make([]*Material, 0),
		Spheres:       make([]*Primitive, 0),
		Quads:         make([]*Primitive, 0),
		Meshes:        make([]*Mesh, 0),
		materialIndex: make(map[string]int),
	}
}

// Append a material and return its index. Registering a name twice appends a
// new material and points the name at it.
func (sc *Scene) AddMaterial(name string, mat Material) int {
	mat.Name = name
	sc.Materials = append(sc.Materials, &mat)
	index := len(sc.Materials) - 1
	sc.materialIndex[name] = index
	return index
}

// Lookup a material index by name.
func (sc *Scene) MaterialIndex(name string) (int, bool) {
	index, exists := sc.materialIndex[name]
	return index, exists
}

// Add a sphere.
func (sc *Scene) AddSphere(center mgl64.Vec3, radius float64, materialIndex int) (*Primitive, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w (got %v)", ErrInvalidRadius, radius)
	}

	prim := newSphere(center, radius)
	prim.GlobalID, prim.LocalID = sc.ids.nextSphere()
	prim.MaterialIndex = int32(materialIndex)
	sc.Spheres = append(sc.Spheres, prim)
	return prim, nil
}

// Add a quad with corner q and edges u and v.
func (sc *Scene) AddQuad(q, u, v mgl64.Vec3, materialIndex int) *Primitive {
	prim := newQuad(q, u, v)
	prim.GlobalID, prim.LocalID = sc.ids.nextQuad()
	prim.MaterialIndex = int32(materialIndex)
	sc.Quads = append(sc.Quads, prim)
	return prim
}

// Add a triangle mesh. Every 3 consecutive vertices define a triangle.
// Normals are optional; when omitted each triangle gets its face normal.
// Triangle bounding boxes remain invalid until the mesh is baked.
func (sc *Scene) AddMesh(name string, vertices, normals []mgl64.Vec3, materialIndex int) (*Mesh, error) {
	if len(vertices) == 0 || len(vertices)%3 != 0 {
		return nil, fmt.Errorf("%w (mesh %q has %d vertices)", ErrInvalidMesh, name, len(vertices))
	}
	if len(normals) != 0 && len(normals) != len(vertices) {
		return nil, fmt.Errorf("%w (mesh %q has %d vertices and %d normals)", ErrNormalCount, name, len(vertices), len(normals))
	}

	triCount := int32(len(vertices) / 3)
	mesh := &Mesh{
		Name:          name,
		MaterialIndex: int32(materialIndex),
		Triangles:     make([]*Primitive, triCount),
		Transform:     types.NewTransform(),
	}

	var firstTriangle int32
	mesh.GlobalID, mesh.LocalID, firstTriangle = sc.ids.nextMesh(triCount)
	mesh.TriangleOffset = firstTriangle

	for i := int32(0); i < triCount; i++ {
		a, b, c := vertices[i*3], vertices[i*3+1], vertices[i*3+2]

		var triNormals [3]mgl64.Vec3
		if len(normals) != 0 {
			triNormals = [3]mgl64.Vec3{normals[i*3], normals[i*3+1], normals[i*3+2]}
		} else {
			n := b.Sub(a).Cross(c.Sub(a))
			if n.Len() != 0 {
				n = n.Normalize()
			}
			triNormals = [3]mgl64.Vec3{n, n, n}
		}

		tri := newTriangle(a, b, c, triNormals)
		tri.GlobalID = mesh.GlobalID
		tri.LocalID = firstTriangle + i
		tri.MeshIndex = mesh.LocalID
		tri.MaterialIndex = mesh.MaterialIndex
		mesh.Triangles[i] = tri
	}

	sc.Meshes = append(sc.Meshes, mesh)
	return mesh, nil
}

// Bake all scene geometry into world space. Must be called after all
// transforms have been set up and before the scene is compiled.
func (sc *Scene) Bake() {
	for _, prim := range sc.Spheres {
		prim.Bake(nil)
	}
	for _, prim := range sc.Quads {
		prim.Bake(nil)
	}
	for _, mesh := range sc.Meshes {
		mesh.BakeTransforms()
	}
}

// Get the total number of mesh triangles.
func (sc *Scene) TriangleCount() int {
	count := 0
	for _, mesh := range sc.Meshes {
		count += len(mesh.Triangles)
	}
	return count
}

// Get a list of all scene primitives: spheres, then quads, then the triangles
// of each mesh in mesh order.
func (sc *Scene) Primitives() []*Primitive {
	prims := make([]*Primitive, 0, len(sc.Spheres)+len(sc.Quads)+sc.TriangleCount())
	prims = append(prims, sc.Spheres...)
	prims = append(prims, sc.Quads...)
	for _, mesh := range sc.Meshes {
		prims = append(prims, mesh.Triangles...)
	}
	return prims
}
