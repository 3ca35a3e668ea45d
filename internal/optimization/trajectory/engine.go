// Package trajectory computes fixed-length optimizer trajectories over
// analysed one- and two-variable objectives.
//
// Computation is a pure function of the evaluators and the settings: no
// state survives between calls, so independent trajectories may be computed
// concurrently. Numeric failures inside a step never abort the computation.
// They stall the iterate in place and are reported through Point.Stalled.
package trajectory

import (
	"math"

	"github.com/copyleftdev/optiviz/internal/optimization"
)

// Compute1D runs the selected optimizer for s.NumSteps iterations starting
// at s.InitialX. Gradient Descent and Newton are supported; anything else is
// a configuration error returned before any step runs.
func Compute1D(f optimization.Function1D, s optimization.Settings) (*Trajectory1D, error) {
	if err := s.Validate(optimization.OneD); err != nil {
		return nil, err
	}

	var step func(x, prev float64) (float64, bool)
	switch s.OptimizerType {
	case optimization.GradientDescent:
		step = func(x, prev float64) (float64, bool) {
			return gradientDescentStep1D(f, s, x, prev)
		}
	case optimization.Newton:
		c, ok := f.(optimization.Curvature1D)
		if !ok {
			return nil, optimization.NewConfigurationError("Compute1D", "%s requires a Hessian evaluator", s.OptimizerType)
		}
		step = func(x, _ float64) (float64, bool) {
			return newtonStep1D(f, c, x)
		}
	default:
		return nil, optimization.NewConfigurationError("Compute1D", "unsupported optimiser type %q", s.OptimizerType)
	}

	points := make([]Point1D, s.NumSteps+1)
	points[0] = Point1D{
		Step:  0,
		X:     s.InitialX,
		Value: optimization.Value1D(f, s.InitialX),
	}

	prev := s.InitialX
	for i := 0; i < s.NumSteps; i++ {
		cur := points[i]
		next, ok := step(cur.X, prev)
		if !ok {
			next = cur.X
		}
		// The objective is re-evaluated even on a stall; an invalid value
		// falls back to the previous step's.
		points[i+1] = Point1D{
			Step:    i + 1,
			X:       next,
			Value:   optimization.Value1D(f, next).Or(cur.Value),
			Stalled: !ok,
		}
		prev = cur.X
	}

	return &Trajectory1D{settings: s, points: points}, nil
}

// Compute2D runs the selected optimizer for s.NumSteps iterations starting
// at (s.InitialX, s.InitialY). Gradient Descent, Adam and Newton are
// supported.
func Compute2D(f optimization.Function2D, s optimization.Settings) (*Trajectory2D, error) {
	if err := s.Validate(optimization.TwoD); err != nil {
		return nil, err
	}

	var step func(i int, cur, prev optimization.Vec2) (optimization.Vec2, bool)
	switch s.OptimizerType {
	case optimization.GradientDescent:
		step = func(_ int, cur, prev optimization.Vec2) (optimization.Vec2, bool) {
			return gradientDescentStep2D(f, s, cur, prev)
		}
	case optimization.Adam:
		var moments adamMoments
		step = func(i int, cur, _ optimization.Vec2) (optimization.Vec2, bool) {
			next, m, ok := adamStep(f, s, moments, i, cur)
			moments = m
			return next, ok
		}
	case optimization.Newton:
		c, ok := f.(optimization.Curvature2D)
		if !ok {
			return nil, optimization.NewConfigurationError("Compute2D", "%s requires a Hessian evaluator", s.OptimizerType)
		}
		step = func(_ int, cur, _ optimization.Vec2) (optimization.Vec2, bool) {
			return newtonStep2D(f, c, cur)
		}
	default:
		return nil, optimization.NewConfigurationError("Compute2D", "unsupported optimiser type %q", s.OptimizerType)
	}

	points := make([]Point2D, s.NumSteps+1)
	points[0] = Point2D{
		Step:  0,
		X:     s.InitialX,
		Y:     s.InitialY,
		Value: optimization.Value2D(f, s.InitialX, s.InitialY),
	}

	prev := optimization.Vec2{X: s.InitialX, Y: s.InitialY}
	for i := 0; i < s.NumSteps; i++ {
		cur := optimization.Vec2{X: points[i].X, Y: points[i].Y}
		next, ok := step(i, cur, prev)
		if !ok {
			next = cur
		}
		points[i+1] = Point2D{
			Step:    i + 1,
			X:       next.X,
			Y:       next.Y,
			Value:   optimization.Value2D(f, next.X, next.Y).Or(points[i].Value),
			Stalled: !ok,
		}
		prev = cur
	}

	return &Trajectory2D{settings: s, points: points}, nil
}

func finite(v float64) (float64, bool) {
	return v, !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finite2(v optimization.Vec2) (optimization.Vec2, bool) {
	_, okX := finite(v.X)
	_, okY := finite(v.Y)
	return v, okX && okY
}
