package optimization

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		fn    func() (float64, error)
		want  float64
		valid bool
	}{
		{"finite", func() (float64, error) { return 2.5, nil }, 2.5, true},
		{"zero", func() (float64, error) { return 0, nil }, 0, true},
		{"error", func() (float64, error) { return 1, errors.New("bad") }, 0, false},
		{"nan", func() (float64, error) { return math.NaN(), nil }, 0, false},
		{"positive infinity", func() (float64, error) { return math.Inf(1), nil }, 0, false},
		{"negative infinity", func() (float64, error) { return math.Inf(-1), nil }, 0, false},
		{"panic", func() (float64, error) { panic("evaluator exploded") }, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.fn)
			assert.Equal(t, tt.valid, got.IsValid())
			if tt.valid {
				v, _ := got.Float()
				assert.Equal(t, tt.want, v)
			} else {
				assert.Equal(t, Invalid, got)
			}
		})
	}
}

func TestSafeEvaluators1D(t *testing.T) {
	f := Quadratic1D()
	assert.Equal(t, NewScalar(9), Value1D(f, 3))
	assert.Equal(t, NewScalar(6), Gradient1D(f, 3))
	assert.Equal(t, NewScalar(2), Hessian1D(f, 3))

	missing := Funcs1D{ValueFunc: func(x float64) float64 { return x }}
	assert.Equal(t, Invalid, Gradient1D(missing, 1))
	assert.Equal(t, Invalid, Hessian1D(missing, 1))
}

func TestSafeEvaluators2D(t *testing.T) {
	f := Bowl2D()
	assert.Equal(t, NewScalar(5), Value2D(f, 1, 2))

	g := EvalGradient2D(f, 1, 2)
	assert.True(t, g.Valid())
	assert.Equal(t, NewScalar(2), g.X)
	assert.Equal(t, NewScalar(4), g.Y)

	h := EvalHessian2D(f, 1, 2)
	assert.True(t, h.Valid())
	assert.Equal(t, NewScalar(0), h.XY)

	partial := Funcs2D{
		GradientFunc: func(x, y float64) Vec2 { return Vec2{X: 1, Y: math.Inf(1)} },
		HessianFunc:  func(x, y float64) Mat2 { return Mat2{XX: 1, XY: math.NaN(), YX: 0, YY: 1} },
	}
	g = EvalGradient2D(partial, 0, 0)
	assert.True(t, g.X.IsValid())
	assert.False(t, g.Y.IsValid())
	assert.False(t, g.Valid())

	h = EvalHessian2D(partial, 0, 0)
	assert.False(t, h.Valid())
	assert.True(t, h.XX.IsValid())

	panicking := Funcs2D{
		GradientFunc: func(x, y float64) Vec2 { panic("nope") },
	}
	assert.False(t, EvalGradient2D(panicking, 0, 0).X.IsValid())
	assert.False(t, EvalHessian2D(panicking, 0, 0).YY.IsValid())
	assert.Equal(t, Invalid, Value2D(panicking, 0, 0))
}
