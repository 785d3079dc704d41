package types

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrSingularTransform = errors.New("transform: model matrix is not invertible")

// Transform holds a model matrix and its inverse. A transform starts as the
// identity and only changes on explicit calls to Update.
type Transform struct {
	Model   mgl64.Mat4
	Inverse mgl64.Mat4
}

// Create an identity transform.
func NewTransform() *Transform {
	return &Transform{
		Model:   mgl64.Ident4(),
		Inverse: mgl64.Ident4(),
	}
}

// Build a translation matrix.
func Translate(x, y, z float64) mgl64.Mat4 {
	return mgl64.Translate3D(x, y, z)
}

// Build a scaling matrix.
func Scale(x, y, z float64) mgl64.Mat4 {
	return mgl64.Scale3D(x, y, z)
}

// Build a rotation matrix for a rotation of theta radians around axis. The
// axis does not need to be normalized.
func Rotate(theta float64, axis mgl64.Vec3) mgl64.Mat4 {
	if axis.Len() == 0 {
		return mgl64.Ident4()
	}
	return mgl64.HomogRotate3D(theta, axis.Normalize())
}

// Recompose the model matrix from the given matrices. Matrices are applied in
// argument order so Update(scale, rotate, translate) yields T*R*S. Calling
// Update without arguments leaves the transform untouched.
func (t *Transform) Update(transforms ...mgl64.Mat4) error {
	if len(transforms) == 0 {
		return nil
	}

	m := mgl64.Ident4()
	for _, tm := range transforms {
		m = tm.Mul4(m)
	}

	if math.Abs(m.Det()) < 1e-12 {
		return ErrSingularTransform
	}

	t.Model = m
	t.Inverse = m.Inv()
	return nil
}

// Returns true if the model matrix is the identity.
func (t *Transform) IsIdentity() bool {
	return t.Model.ApproxEqual(mgl64.Ident4())
}

// Transform a point into world space.
func (t *Transform) Point(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, t.Model)
}

// Transform a normal into world space using the inverse transpose of the
// model matrix. The result is normalized.
func (t *Transform) Normal(n mgl64.Vec3) mgl64.Vec3 {
	out := mgl64.TransformNormal(n, t.Inverse.Transpose())
	if out.Len() == 0 {
		return out
	}
	return out.Normalize()
}
