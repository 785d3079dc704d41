package types

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

// The default padding applied to degenerate boxes. An axis whose extent is
// below this value is widened by half of it on each side.
const DefaultPadding = 1e-4

// AABB is an axis-aligned bounding box. It is a plain value; all operations
// return a new box.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Create an empty AABB. The empty box is the identity element of Merge.
func EmptyAABB() AABB {
	return AABB{
		Min: mgl64.Vec3{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64},
		Max: mgl64.Vec3{-math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64},
	}
}

// Create the AABB spanned by two opposite corners.
func AABBFromPoints(a, b mgl64.Vec3) AABB {
	return AABB{Min: MinVec3(a, b), Max: MaxVec3(a, b)}
}

// Create the AABB that bounds a triangle.
func AABBFromTriangle(a, b, c mgl64.Vec3) AABB {
	return AABB{
		Min: MinVec3(a, MinVec3(b, c)),
		Max: MaxVec3(a, MaxVec3(b, c)),
	}
}

// Merge two boxes (componentwise min/max).
func Merge(a, b AABB) AABB {
	return AABB{Min: MinVec3(a.Min, b.Min), Max: MaxVec3(a.Max, b.Max)}
}

// Merge b into this box and return the result.
func (box AABB) Merge(b AABB) AABB {
	return Merge(box, b)
}

// Extend the box so it contains p.
func (box AABB) Grow(p mgl64.Vec3) AABB {
	return AABB{Min: MinVec3(box.Min, p), Max: MaxVec3(box.Max, p)}
}

// Returns true if Min > Max along any axis.
func (box AABB) IsEmpty() bool {
	return box.Min[0] > box.Max[0] || box.Min[1] > box.Max[1] || box.Min[2] > box.Max[2]
}

// Widen every axis whose extent is below epsilon so that the box never has
// zero thickness. Empty boxes are returned unchanged.
func (box AABB) Pad(epsilon float64) AABB {
	if box.IsEmpty() {
		return box
	}

	delta := epsilon / 2
	for axis := 0; axis < 3; axis++ {
		if box.Max[axis]-box.Min[axis] < epsilon {
			box.Min[axis] -= delta
			box.Max[axis] += delta
		}
	}
	return box
}

// Get the box side lengths.
func (box AABB) Extent() mgl64.Vec3 {
	return box.Max.Sub(box.Min)
}

// Get the box center along one axis.
func (box AABB) Centroid(axis Axis) float64 {
	return (box.Min[axis] + box.Max[axis]) * 0.5
}

// Get the box center.
func (box AABB) Center() mgl64.Vec3 {
	return box.Min.Add(box.Max).Mul(0.5)
}

// Get the axis with the largest extent. Ties resolve to the lowest axis.
func (box AABB) LongestAxis() Axis {
	ext := box.Extent()
	axis := XAxis
	if ext[1] > ext[axis] {
		axis = YAxis
	}
	if ext[2] > ext[axis] {
		axis = ZAxis
	}
	return axis
}

// Get the relative surface area ex*ey + ey*ez + ez*ex. This is half of the
// real surface area; SAH costs only compare areas against each other so the
// factor of two is dropped everywhere. Empty boxes have zero area.
func (box AABB) SurfaceArea() float64 {
	if box.IsEmpty() {
		return 0
	}
	ext := box.Extent()
	return ext[0]*ext[1] + ext[1]*ext[2] + ext[2]*ext[0]
}

// Transform the box by m and return the AABB of the 8 transformed corners.
func (box AABB) Transform(m mgl64.Mat4) AABB {
	if box.IsEmpty() {
		return box
	}

	out := EmptyAABB()
	for corner := 0; corner < 8; corner++ {
		p := box.Min
		if corner&1 != 0 {
			p[0] = box.Max[0]
		}
		if corner&2 != 0 {
			p[1] = box.Max[1]
		}
		if corner&4 != 0 {
			p[2] = box.Max[2]
		}
		out = out.Grow(mgl64.TransformCoordinate(p, m))
	}
	return out
}
