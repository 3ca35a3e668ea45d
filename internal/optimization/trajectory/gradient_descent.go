package trajectory

import (
	"github.com/copyleftdev/optiviz/internal/optimization"
)

// gradientDescentStep1D returns x − lr·g(x) + momentum·(x − prev). prev is
// x itself at step 0, which zeroes the momentum term.
func gradientDescentStep1D(f optimization.Function1D, s optimization.Settings, x, prev float64) (float64, bool) {
	g, ok := optimization.Gradient1D(f, x).Float()
	if !ok {
		return x, false
	}
	return finite(x - s.LearningRate*g + s.Momentum*(x-prev))
}

// gradientDescentStep2D applies the 1D rule per axis, each with its own
// momentum term. Either partial being invalid stalls both axes.
func gradientDescentStep2D(f optimization.Function2D, s optimization.Settings, cur, prev optimization.Vec2) (optimization.Vec2, bool) {
	g := optimization.EvalGradient2D(f, cur.X, cur.Y)
	if !g.Valid() {
		return cur, false
	}
	gx, _ := g.X.Float()
	gy, _ := g.Y.Float()

	return finite2(optimization.Vec2{
		X: cur.X - s.LearningRate*gx + s.Momentum*(cur.X-prev.X),
		Y: cur.Y - s.LearningRate*gy + s.Momentum*(cur.Y-prev.Y),
	})
}
