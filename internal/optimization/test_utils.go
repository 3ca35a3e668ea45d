package optimization

import (
	"math"
	"testing"
)

// Quadratic1D is f(x) = x² with exact derivatives.
func Quadratic1D() Funcs1D {
	return Funcs1D{
		ValueFunc:    func(x float64) float64 { return x * x },
		GradientFunc: func(x float64) float64 { return 2 * x },
		HessianFunc:  func(x float64) float64 { return 2 },
	}
}

// Bowl2D is f(x, y) = x² + y² with exact derivatives.
func Bowl2D() Funcs2D {
	return Funcs2D{
		ValueFunc:    func(x, y float64) float64 { return x*x + y*y },
		GradientFunc: func(x, y float64) Vec2 { return Vec2{X: 2 * x, Y: 2 * y} },
		HessianFunc:  func(x, y float64) Mat2 { return Mat2{XX: 2, YY: 2} },
	}
}

// Elliptic2D is f(x, y) = a·x² + b·y², a convex quadratic with unequal axes.
func Elliptic2D(a, b float64) Funcs2D {
	return Funcs2D{
		ValueFunc:    func(x, y float64) float64 { return a*x*x + b*y*y },
		GradientFunc: func(x, y float64) Vec2 { return Vec2{X: 2 * a * x, Y: 2 * b * y} },
		HessianFunc:  func(x, y float64) Mat2 { return Mat2{XX: 2 * a, YY: 2 * b} },
	}
}

// NaNGradient1D wraps value with a derivative that is never finite.
func NaNGradient1D(value func(float64) float64) Funcs1D {
	return Funcs1D{
		ValueFunc:    value,
		GradientFunc: func(float64) float64 { return math.NaN() },
		HessianFunc:  func(float64) float64 { return math.NaN() },
	}
}

// NaNGradient2D wraps value with partials that are never finite.
func NaNGradient2D(value func(x, y float64) float64) Funcs2D {
	return Funcs2D{
		ValueFunc:    value,
		GradientFunc: func(x, y float64) Vec2 { return Vec2{X: math.NaN(), Y: math.NaN()} },
		HessianFunc:  func(x, y float64) Mat2 { return Mat2{XX: math.NaN(), XY: math.NaN(), YX: math.NaN(), YY: math.NaN()} },
	}
}

// AssertFloat64SlicesEqual checks if two float64 slices are approximately equal
func AssertFloat64SlicesEqual(t *testing.T, got, want []float64, tol float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			t.Fatalf("at index %d: got %v, want %v (tolerance %v)", i, got[i], want[i], tol)
		}
	}
}

// AssertBitIdentical checks that two slices hold exactly the same bits.
func AssertBitIdentical(t *testing.T, got, want []float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		if math.Float64bits(got[i]) != math.Float64bits(want[i]) {
			t.Fatalf("at index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
