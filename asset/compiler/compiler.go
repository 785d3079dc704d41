package compiler

import (
	"errors"
	"fmt"
	"time"

	"github.com/achilleasa/gputrace/asset/compiler/bvh"
	"github.com/achilleasa/gputrace/asset/compiler/input"
	"github.com/achilleasa/gputrace/asset/scene"
	"github.com/achilleasa/gputrace/log"
	"github.com/achilleasa/gputrace/types"
)

var (
	ErrUnbakedTriangle      = errors.New("compiler: triangle has not been baked")
	ErrUnbakedPrimitive     = errors.New("compiler: primitive transform changed since it was baked")
	ErrInvalidMaterialIndex = errors.New("compiler: material index out of range")
)

// Compiler options.
type Options struct {
	BVH bvh.Options

	// Bake scene geometry before compiling it. When false, the scene must
	// already be baked.
	Bake bool
}

// Get the default compiler options.
func DefaultOptions() Options {
	return Options{
		BVH:  bvh.DefaultOptions(),
		Bake: true,
	}
}

type sceneCompiler struct {
	parsedScene    *input.Scene
	optimizedScene *scene.Scene
	opts           Options
	logger         log.Logger
}

// Compile a scene into a GPU-friendly optimized scene format.
func Compile(parsedScene *input.Scene, opts Options) (*scene.Scene, error) {
	compiler := &sceneCompiler{
		parsedScene: parsedScene,
		optimizedScene: &scene.Scene{
			Name: parsedScene.Name,
		},
		opts:   opts,
		logger: log.New("scene compiler"),
	}

	start := time.Now()
	compiler.logger.Noticef("compiling scene %q", parsedScene.Name)

	if opts.Bake {
		parsedScene.Bake()
	}

	var err error
	err = compiler.validate()
	if err != nil {
		return nil, err
	}

	compiler.convertMaterials()
	compiler.convertGeometry()
	compiler.convertTransforms()

	err = compiler.partitionGeometry()
	if err != nil {
		return nil, err
	}

	if err = compiler.optimizedScene.Validate(); err != nil {
		return nil, fmt.Errorf("compiler: generated an invalid scene: %w", err)
	}

	compiler.logger.Noticef("compiled scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return compiler.optimizedScene, nil
}

// Ensure that all material references are valid and that all primitive
// bounding boxes match their world space geometry.
func (sc *sceneCompiler) validate() error {
	matCount := int32(len(sc.parsedScene.Materials))
	checkMaterial := func(kind string, globalID, localID, matIndex int32) error {
		if matIndex < 0 || matIndex >= matCount {
			return fmt.Errorf("%w: %s %d (global id %d) references material %d; scene defines %d materials",
				ErrInvalidMaterialIndex, kind, localID, globalID, matIndex, matCount)
		}
		return nil
	}

	for _, prim := range sc.parsedScene.Primitives() {
		if err := checkMaterial(prim.Type.String(), prim.GlobalID, prim.LocalID, prim.MaterialIndex); err != nil {
			return err
		}
		if prim.Baked() {
			continue
		}
		if prim.Type == input.TrianglePrimitive {
			return fmt.Errorf("%w: triangle %d of mesh %d", ErrUnbakedTriangle, prim.LocalID, prim.MeshIndex)
		}
		return fmt.Errorf("%w: %s %d (global id %d)", ErrUnbakedPrimitive, prim.Type, prim.LocalID, prim.GlobalID)
	}
	for _, mesh := range sc.parsedScene.Meshes {
		if err := checkMaterial("mesh", mesh.GlobalID, mesh.LocalID, mesh.MaterialIndex); err != nil {
			return err
		}
	}

	return nil
}

func (sc *sceneCompiler) convertMaterials() {
	sc.logger.Infof("processing %d materials", len(sc.parsedScene.Materials))

	emissive := false
	sc.optimizedScene.Materials = make([]scene.Material, len(sc.parsedScene.Materials))
	for index, mat := range sc.parsedScene.Materials {
		sc.optimizedScene.Materials[index] = scene.Material{
			BaseColor:       types.Vec3f(mat.BaseColor),
			SpecularPercent: float32(mat.SpecularPercent),
			Emission:        types.Vec3f(mat.Emission),
			Fuzz:            float32(mat.Fuzz),
			IOR:             float32(mat.IOR),
			Type:            int32(mat.Type),
			Roughness:       float32(mat.Roughness),
		}
		emissive = emissive || mat.IsEmissive()
	}

	if !emissive {
		sc.logger.Warning("the scene contains no emissive materials; output will appear black!")
	}
}

func (sc *sceneCompiler) convertGeometry() {
	ps := sc.parsedScene
	out := sc.optimizedScene
	sc.logger.Infof("processing %d spheres, %d quads and %d meshes (%d triangles)", len(ps.Spheres), len(ps.Quads), len(ps.Meshes), ps.TriangleCount())

	out.Spheres = make([]scene.Sphere, len(ps.Spheres))
	for index, prim := range ps.Spheres {
		out.Spheres[index] = scene.Sphere{
			Center:     types.Vec3f(prim.Center),
			Radius:     float32(prim.Radius),
			GlobalID:   prim.GlobalID,
			LocalID:    prim.LocalID,
			MaterialID: prim.MaterialIndex,
		}
	}

	out.Quads = make([]scene.Quad, len(ps.Quads))
	for index, prim := range ps.Quads {
		out.Quads[index] = scene.Quad{
			Q:          types.Vec3f(prim.Q),
			U:          types.Vec3f(prim.U),
			V:          types.Vec3f(prim.V),
			Normal:     types.Vec3f(prim.QuadNormal()),
			D:          float32(prim.QuadD()),
			W:          types.Vec3f(prim.QuadW()),
			LocalID:    prim.LocalID,
			GlobalID:   prim.GlobalID,
			MaterialID: prim.MaterialIndex,
		}
	}

	out.Meshes = make([]scene.Mesh, len(ps.Meshes))
	out.Triangles = make([]scene.Triangle, 0, ps.TriangleCount())
	for index, mesh := range ps.Meshes {
		out.Meshes[index] = scene.Mesh{
			TriangleCount:  int32(len(mesh.Triangles)),
			TriangleOffset: mesh.TriangleOffset,
			GlobalID:       mesh.GlobalID,
			MaterialID:     mesh.MaterialIndex,
		}

		for _, tri := range mesh.Triangles {
			out.Triangles = append(out.Triangles, scene.Triangle{
				A:          types.Vec3f(tri.Vertices[0]),
				B:          types.Vec3f(tri.Vertices[1]),
				C:          types.Vec3f(tri.Vertices[2]),
				NA:         types.Vec3f(tri.Normals[0]),
				NB:         types.Vec3f(tri.Normals[1]),
				NC:         types.Vec3f(tri.Normals[2]),
				LocalID:    tri.LocalID,
				MeshID:     tri.MeshIndex,
				MaterialID: tri.MaterialIndex,
			})
		}
	}
}

// Collect object transforms indexed by global id.
func (sc *sceneCompiler) convertTransforms() {
	var maxID int32 = -1
	set := func(globalID int32, tr *types.Transform) {
		if globalID >= int32(len(sc.optimizedScene.Transforms)) {
			grown := make([]scene.Transform, globalID+1)
			copy(grown, sc.optimizedScene.Transforms)
			sc.optimizedScene.Transforms = grown
		}
		if tr == nil {
			tr = types.NewTransform()
		}
		sc.optimizedScene.Transforms[globalID] = scene.Transform{
			Model:   types.Mat4f(tr.Model),
			Inverse: types.Mat4f(tr.Inverse),
		}
		if globalID > maxID {
			maxID = globalID
		}
	}

	for _, prim := range sc.parsedScene.Spheres {
		set(prim.GlobalID, prim.Transform)
	}
	for _, prim := range sc.parsedScene.Quads {
		set(prim.GlobalID, prim.Transform)
	}
	for _, mesh := range sc.parsedScene.Meshes {
		set(mesh.GlobalID, mesh.Transform)
	}

	sc.logger.Infof("processed %d transforms", maxID+1)
}

// Build and flatten the scene BVH.
func (sc *sceneCompiler) partitionGeometry() error {
	start := time.Now()
	sc.logger.Notice("partitioning geometry")

	prims := sc.parsedScene.Primitives()
	volList := make([]bvh.BoundedVolume, len(prims))
	for index, prim := range prims {
		volList[index] = prim
	}

	sc.logger.Infof("building scene BVH tree (%d primitives, strategy: %s)", len(prims), sc.opts.BVH.Strategy)
	tree, err := bvh.Build(volList, sc.opts.BVH)
	if err != nil {
		return fmt.Errorf("compiler: could not build scene BVH: %w", err)
	}
	sc.logger.Debugf("BVH statistics\n%s", tree.Stats.Table())

	ordered := bvh.Reorder(tree, prims)
	sc.optimizedScene.Primitives = make([]scene.PrimitiveRef, len(ordered))
	for index, prim := range ordered {
		sc.optimizedScene.Primitives[index] = scene.PrimitiveRef{
			Type:       int32(prim.Type),
			LocalID:    prim.LocalID,
			GlobalID:   prim.GlobalID,
			MaterialID: prim.MaterialIndex,
		}
	}

	linearNodes := bvh.Linearize(tree)
	sc.optimizedScene.BvhNodes = make([]scene.BvhNode, len(linearNodes))
	for index, ln := range linearNodes {
		node := scene.BvhNode{
			RightChild:    ln.Right,
			PrimitiveType: -1,
			LeafStart:     ln.Start,
			LeafCount:     ln.Count,
			Miss:          ln.Miss,
			SplitAxis:     ln.Axis,
		}
		node.SetBBox(ln.BBox)
		if ln.IsLeaf() {
			node.PrimitiveType = leafPrimitiveType(ordered[ln.Start : ln.Start+ln.Count])
		}
		sc.optimizedScene.BvhNodes[index] = node
	}

	sc.logger.Noticef("partitioned geometry into %d BVH nodes in %d ms", len(linearNodes), time.Since(start).Nanoseconds()/1e6)
	return nil
}

// Get the common primitive type of a leaf or scene.MixedPrimitive.
func leafPrimitiveType(prims []*input.Primitive) int32 {
	leafType := int32(prims[0].Type)
	for _, prim := range prims[1:] {
		if int32(prim.Type) != leafType {
			return scene.MixedPrimitive
		}
	}
	return leafType
}
