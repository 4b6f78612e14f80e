// Package geometry implements the affine transform and point/projection
// types used to place items in a diagram's coordinate space.
package geometry

import (
	"fmt"
	"math"
)

// singularEpsilon bounds how close to zero a matrix's determinant can be
// before Invert refuses to produce a result.
const singularEpsilon = 1e-12

// SingularMatrixError is returned by Invert when the matrix's determinant
// is too close to zero to invert reliably.
type SingularMatrixError struct {
	Matrix Matrix
}

func (e *SingularMatrixError) Error() string {
	return fmt.Sprintf("geometry: matrix %v is singular and cannot be inverted", e.Matrix)
}

// Matrix is an immutable 2D affine transform in the row-vector convention:
//
//	[x' y' 1] = [x y 1] * [ a  b  0 ]
//	                      [ c  d  0 ]
//	                      [tx ty  1 ]
//
// Every operation on a Matrix returns a new value rather than mutating the
// receiver; the owning Item's field is then assigned the result through
// Item.Matrix(). No observable event is emitted for that assignment or
// for any Matrix operation.
type Matrix struct {
	A, B, C, D, TX, TY float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// NewMatrix builds a Matrix from its six affine coefficients.
func NewMatrix(a, b, c, d, tx, ty float64) Matrix {
	return Matrix{A: a, B: b, C: c, D: d, TX: tx, TY: ty}
}

// Transform applies the matrix to a point, returning the transformed
// coordinates.
func (m Matrix) Transform(x, y float64) (float64, float64) {
	return x*m.A + y*m.C + m.TX, x*m.B + y*m.D + m.TY
}

// TransformDistance applies only the linear part of the matrix (no
// translation), suitable for transforming a vector rather than a point.
func (m Matrix) TransformDistance(dx, dy float64) (float64, float64) {
	return dx*m.A + dy*m.C, dx*m.B + dy*m.D
}

// Determinant returns the matrix's determinant.
func (m Matrix) Determinant() float64 {
	return m.A*m.D - m.B*m.C
}

// Invert returns the matrix that undoes m, or a SingularMatrixError if m's
// determinant is too close to zero.
func (m Matrix) Invert() (Matrix, error) {
	det := m.Determinant()
	if math.Abs(det) < singularEpsilon {
		return Matrix{}, &SingularMatrixError{Matrix: m}
	}
	inv := 1 / det
	a := m.D * inv
	b := -m.B * inv
	c := -m.C * inv
	d := m.A * inv
	tx := -(m.TX*a + m.TY*c)
	ty := -(m.TX*b + m.TY*d)
	return Matrix{A: a, B: b, C: c, D: d, TX: tx, TY: ty}, nil
}

// Multiply composes m with other, producing the transform that applies m
// first and then other: Multiply(other).Transform(p) ==
// other.Transform(m.Transform(p)).
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A:  m.A*other.A + m.B*other.C,
		B:  m.A*other.B + m.B*other.D,
		C:  m.C*other.A + m.D*other.C,
		D:  m.C*other.B + m.D*other.D,
		TX: m.TX*other.A + m.TY*other.C + other.TX,
		TY: m.TX*other.B + m.TY*other.D + other.TY,
	}
}

// Translate returns m with an additional translation by (dx, dy) applied
// after m.
func (m Matrix) Translate(dx, dy float64) Matrix {
	return m.Multiply(Matrix{A: 1, D: 1, TX: dx, TY: dy})
}

// Scale returns m with an additional scale by (sx, sy) applied after m.
func (m Matrix) Scale(sx, sy float64) Matrix {
	return m.Multiply(Matrix{A: sx, D: sy})
}

// Rotate returns m with an additional rotation by theta radians applied
// after m.
func (m Matrix) Rotate(theta float64) Matrix {
	sin, cos := math.Sin(theta), math.Cos(theta)
	return m.Multiply(Matrix{A: cos, B: sin, C: -sin, D: cos})
}

// String renders the matrix's six coefficients.
func (m Matrix) String() string {
	return fmt.Sprintf("[%g %g %g %g %g %g]", m.A, m.B, m.C, m.D, m.TX, m.TY)
}
