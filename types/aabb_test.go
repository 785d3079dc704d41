package types

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestAABBFromPointsOrdersCorners(t *testing.T) {
	box := AABBFromPoints(mgl64.Vec3{1, -2, 3}, mgl64.Vec3{-1, 2, -3})

	expMin := mgl64.Vec3{-1, -2, -3}
	expMax := mgl64.Vec3{1, 2, 3}
	if box.Min != expMin || box.Max != expMax {
		t.Fatalf("expected box to be [%v, %v]; got [%v, %v]", expMin, expMax, box.Min, box.Max)
	}
}

func TestAABBFromTriangle(t *testing.T) {
	box := AABBFromTriangle(
		mgl64.Vec3{0, 0, 0},
		mgl64.Vec3{2, -1, 0},
		mgl64.Vec3{1, 3, 0.5},
	)

	expMin := mgl64.Vec3{0, -1, 0}
	expMax := mgl64.Vec3{2, 3, 0.5}
	if box.Min != expMin || box.Max != expMax {
		t.Fatalf("expected box to be [%v, %v]; got [%v, %v]", expMin, expMax, box.Min, box.Max)
	}
}

func TestMergeAlgebra(t *testing.T) {
	a := AABBFromPoints(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1})
	b := AABBFromPoints(mgl64.Vec3{-2, 0.5, 0}, mgl64.Vec3{0.5, 3, 0.2})
	c := AABBFromPoints(mgl64.Vec3{5, -5, 5}, mgl64.Vec3{6, -4, 7})

	if Merge(a, b) != Merge(b, a) {
		t.Fatal("expected merge to be commutative")
	}
	if Merge(Merge(a, b), c) != Merge(a, Merge(b, c)) {
		t.Fatal("expected merge to be associative")
	}
	if Merge(a, a) != a {
		t.Fatal("expected merge to be idempotent")
	}
	if Merge(EmptyAABB(), a) != a {
		t.Fatal("expected the empty box to be the merge identity")
	}

	m := Merge(a, b)
	for axis := 0; axis < 3; axis++ {
		if m.Min[axis] > m.Max[axis] {
			t.Fatalf("expected min <= max along axis %d; got %v > %v", axis, m.Min[axis], m.Max[axis])
		}
	}
}

func TestPadDegenerateBox(t *testing.T) {
	p := mgl64.Vec3{1, 2, 3}
	box := AABBFromPoints(p, p).Pad(DefaultPadding)

	for axis := 0; axis < 3; axis++ {
		ext := box.Max[axis] - box.Min[axis]
		if math.Abs(ext-DefaultPadding) > 1e-12 {
			t.Fatalf("expected padded extent along axis %d to be %v; got %v", axis, DefaultPadding, ext)
		}
		if math.Abs(box.Centroid(Axis(axis))-p[axis]) > 1e-12 {
			t.Fatalf("expected padding to keep the box centered at %v; got %v", p[axis], box.Centroid(Axis(axis)))
		}
	}

	if box.SurfaceArea() <= 0 {
		t.Fatalf("expected padded box to have a positive surface area; got %v", box.SurfaceArea())
	}
}

func TestPadLeavesThickAxesAlone(t *testing.T) {
	box := AABBFromPoints(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 2, 0}).Pad(DefaultPadding)

	if box.Min[0] != 0 || box.Max[0] != 2 || box.Min[1] != 0 || box.Max[1] != 2 {
		t.Fatalf("expected x/y axes to be untouched; got [%v, %v]", box.Min, box.Max)
	}
	if box.Max[2]-box.Min[2] < DefaultPadding-1e-12 {
		t.Fatalf("expected z axis to be padded; got extent %v", box.Max[2]-box.Min[2])
	}
}

func TestSurfaceArea(t *testing.T) {
	box := AABBFromPoints(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 2, 3})

	// 1*2 + 2*3 + 3*1
	var expArea float64 = 11
	if box.SurfaceArea() != expArea {
		t.Fatalf("expected surface area to be %v; got %v", expArea, box.SurfaceArea())
	}

	if EmptyAABB().SurfaceArea() != 0 {
		t.Fatalf("expected empty box area to be 0; got %v", EmptyAABB().SurfaceArea())
	}
}

func TestLongestAxisAndCentroid(t *testing.T) {
	box := AABBFromPoints(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 4, 2})

	if box.LongestAxis() != YAxis {
		t.Fatalf("expected longest axis to be %d; got %d", YAxis, box.LongestAxis())
	}
	if box.Centroid(YAxis) != 2 {
		t.Fatalf("expected y centroid to be 2; got %v", box.Centroid(YAxis))
	}
}

func TestTransformBox(t *testing.T) {
	box := AABBFromPoints(mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{1, 1, 1})

	moved := box.Transform(Translate(10, 0, 0).Mul4(Scale(2, 1, 1)))
	expMin := mgl64.Vec3{8, -1, -1}
	expMax := mgl64.Vec3{12, 1, 1}
	if !moved.Min.ApproxEqual(expMin) || !moved.Max.ApproxEqual(expMax) {
		t.Fatalf("expected transformed box to be [%v, %v]; got [%v, %v]", expMin, expMax, moved.Min, moved.Max)
	}

	// A 45 degree rotation around Y grows the x/z extents to sqrt(2)
	rotated := box.Transform(Rotate(math.Pi/4, mgl64.Vec3{0, 1, 0}))
	if math.Abs(rotated.Max[0]-math.Sqrt2) > 1e-9 || math.Abs(rotated.Max[2]-math.Sqrt2) > 1e-9 {
		t.Fatalf("expected rotated box max x/z to be %v; got %v", math.Sqrt2, rotated.Max)
	}
}
