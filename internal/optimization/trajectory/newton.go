package trajectory

import (
	"math"

	"github.com/copyleftdev/optiviz/internal/optimization"
	"github.com/copyleftdev/optiviz/internal/optimization/linalg"
)

// newtonStep1D returns x − g(x)/h(x). Curvature below Epsilon in magnitude
// stalls the step.
func newtonStep1D(f optimization.Function1D, c optimization.Curvature1D, x float64) (float64, bool) {
	g, ok := optimization.Gradient1D(f, x).Float()
	if !ok {
		return x, false
	}
	h, ok := optimization.Hessian1D(c, x).Float()
	if !ok || math.Abs(h) < optimization.Epsilon {
		return x, false
	}
	return finite(x - g/h)
}

// newtonStep2D returns p − H⁻¹·g. Any of the six scalars being invalid, or a
// singular Hessian, stalls the step.
func newtonStep2D(f optimization.Function2D, c optimization.Curvature2D, cur optimization.Vec2) (optimization.Vec2, bool) {
	g := optimization.EvalGradient2D(f, cur.X, cur.Y)
	h := optimization.EvalHessian2D(c, cur.X, cur.Y)
	if !g.Valid() || !h.Valid() {
		return cur, false
	}

	delta, ok := linalg.NewtonStep(
		optimization.Mat2{
			XX: h.XX.Float64(),
			XY: h.XY.Float64(),
			YX: h.YX.Float64(),
			YY: h.YY.Float64(),
		},
		optimization.Vec2{X: g.X.Float64(), Y: g.Y.Float64()},
	)
	if !ok {
		return cur, false
	}

	return finite2(optimization.Vec2{
		X: cur.X - delta.X,
		Y: cur.Y - delta.Y,
	})
}
