package types

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/math/f32"
)

// Single precision vectors used by GPU-bound records. All CPU-side geometry
// uses the double precision mgl64 types.
type Vec2 f32.Vec2
type Vec3 f32.Vec3
type Vec4 f32.Vec4

// Define a 3 component single precision vector.
func XYZ(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// Convert a double precision vector into a single precision Vec3.
func Vec3f(v mgl64.Vec3) Vec3 {
	return Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// Expand a 3 component vector to a Vec4.
func (v Vec3) Vec4(w float32) Vec4 {
	return Vec4{v[0], v[1], v[2], w}
}

// Convert back to a double precision vector.
func (v Vec3) Vec64() mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

// Reduce a 4 component vector to a Vec3.
func (v Vec4) Vec3() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// Flatten a column-major 4x4 matrix into single precision floats.
func Mat4f(m mgl64.Mat4) [16]float32 {
	var out [16]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

// Calc min component from two vectors.
func MinVec3(v1, v2 mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		math.Min(v1[0], v2[0]),
		math.Min(v1[1], v2[1]),
		math.Min(v1[2], v2[2]),
	}
}

// Calc max component from two vectors.
func MaxVec3(v1, v2 mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		math.Max(v1[0], v2[0]),
		math.Max(v1[1], v2[1]),
		math.Max(v1[2], v2[2]),
	}
}
