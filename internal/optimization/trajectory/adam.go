package trajectory

import (
	"math"

	"github.com/copyleftdev/optiviz/internal/optimization"
)

// adamMoments are the running first and second moment estimates. They live
// for a single trajectory computation.
type adamMoments struct {
	mx, my float64
	vx, vy float64
}

// adamStep performs the Adam update for step i (bias corrections use i+1).
// On a stall the returned moments equal m.
func adamStep(f optimization.Function2D, s optimization.Settings, m adamMoments, i int, cur optimization.Vec2) (optimization.Vec2, adamMoments, bool) {
	g := optimization.EvalGradient2D(f, cur.X, cur.Y)
	if !g.Valid() {
		return cur, m, false
	}
	gx, _ := g.X.Float()
	gy, _ := g.Y.Float()

	next := adamMoments{
		mx: s.Beta1*m.mx + (1-s.Beta1)*gx,
		my: s.Beta1*m.my + (1-s.Beta1)*gy,
		vx: s.Beta2*m.vx + (1-s.Beta2)*gx*gx,
		vy: s.Beta2*m.vy + (1-s.Beta2)*gy*gy,
	}

	c1 := biasCorrection(s.Beta1, i+1)
	c2 := biasCorrection(s.Beta2, i+1)

	pos, ok := finite2(optimization.Vec2{
		X: cur.X - s.LearningRate*(next.mx/c1)/(math.Sqrt(next.vx/c2)+optimization.AdamEpsilon),
		Y: cur.Y - s.LearningRate*(next.my/c1)/(math.Sqrt(next.vy/c2)+optimization.AdamEpsilon),
	})
	if !ok {
		return cur, m, false
	}
	return pos, next, true
}

// biasCorrection returns 1 − beta^t, substituting Epsilon when its
// magnitude falls below Epsilon.
func biasCorrection(beta float64, t int) float64 {
	c := 1 - math.Pow(beta, float64(t))
	if math.Abs(c) < optimization.Epsilon {
		return optimization.Epsilon
	}
	return c
}
