// Package linalg provides the closed-form 2x2 inverse used by two-variable
// Newton steps.
package linalg

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/copyleftdev/optiviz/internal/optimization"
)

// Invert2x2 inverts [[a, b], [c, d]]. It reports false when the determinant
// is non-finite or its magnitude is below optimization.Epsilon.
func Invert2x2(a, b, c, d float64) (optimization.Mat2, bool) {
	det := a*d - b*c
	if math.IsNaN(det) || math.IsInf(det, 0) || math.Abs(det) < optimization.Epsilon {
		return optimization.Mat2{}, false
	}
	inv := 1 / det
	return optimization.Mat2{
		XX: d * inv,
		XY: -b * inv,
		YX: -c * inv,
		YY: a * inv,
	}, true
}

// MulVec returns m·v.
func MulVec(m optimization.Mat2, v optimization.Vec2) optimization.Vec2 {
	a := mat.NewDense(2, 2, []float64{m.XX, m.XY, m.YX, m.YY})
	x := mat.NewVecDense(2, []float64{v.X, v.Y})

	var out mat.VecDense
	out.MulVec(a, x)
	return optimization.Vec2{X: out.AtVec(0), Y: out.AtVec(1)}
}

// NewtonStep solves H·Δ = g for Δ through the closed-form inverse of h.
// It reports false when h is singular.
func NewtonStep(h optimization.Mat2, g optimization.Vec2) (optimization.Vec2, bool) {
	inv, ok := Invert2x2(h.XX, h.XY, h.YX, h.YY)
	if !ok {
		return optimization.Vec2{}, false
	}
	return MulVec(inv, g), true
}
