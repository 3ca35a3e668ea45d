package analysis

import (
	"github.com/copyleftdev/optiviz/internal/optimization"
	"github.com/copyleftdev/optiviz/internal/optimization/trajectory"
)

// Point is one iterate of a Result. Y is nil for single-variable objectives.
type Point struct {
	Step    int                 `json:"step"`
	X       float64             `json:"x"`
	Y       *float64            `json:"y,omitempty"`
	Value   optimization.Scalar `json:"value"`
	Stalled bool                `json:"stalled,omitempty"`
}

// Result is a trajectory flattened to the same shape for either dimension.
type Result struct {
	Dimension optimization.Dimension `json:"dimension"`
	Settings  optimization.Settings  `json:"settings"`
	Points    []Point                `json:"points"`
	Stalls    []int                  `json:"stalls"`
	Bounds    trajectory.Bounds      `json:"bounds"`
}

// Run analyses text and computes its trajectory under s. A zero dim is
// inferred with Dimension. Settings are validated before the objective is
// analysed, so configuration errors win over derivative parse errors.
func Run(text string, dim optimization.Dimension, s optimization.Settings, opts Options) (*Result, error) {
	if dim == 0 {
		d, err := Dimension(text)
		if err != nil {
			return nil, err
		}
		dim = d
	}
	if err := s.Validate(dim); err != nil {
		return nil, err
	}

	res := &Result{Dimension: dim, Settings: s, Stalls: []int{}}

	if dim == optimization.OneD {
		f, err := Parse1D(text, opts)
		if err != nil {
			return nil, err
		}
		t, err := trajectory.Compute1D(f, s)
		if err != nil {
			return nil, err
		}
		for _, p := range t.Points() {
			res.Points = append(res.Points, Point{Step: p.Step, X: p.X, Value: p.Value, Stalled: p.Stalled})
		}
		res.Stalls = append(res.Stalls, t.Stalls()...)
		res.Bounds = t.Bounds()
		return res, nil
	}

	f, err := Parse2D(text, opts)
	if err != nil {
		return nil, err
	}
	t, err := trajectory.Compute2D(f, s)
	if err != nil {
		return nil, err
	}
	for _, p := range t.Points() {
		y := p.Y
		res.Points = append(res.Points, Point{Step: p.Step, X: p.X, Y: &y, Value: p.Value, Stalled: p.Stalled})
	}
	res.Stalls = append(res.Stalls, t.Stalls()...)
	res.Bounds = t.Bounds()
	return res, nil
}
