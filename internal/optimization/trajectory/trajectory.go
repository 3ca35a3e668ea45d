package trajectory

import (
	"gonum.org/v1/gonum/floats"

	"github.com/copyleftdev/optiviz/internal/optimization"
)

// Point1D is one iterate of a single-variable trajectory.
type Point1D struct {
	Step    int                 `json:"step"`
	X       float64             `json:"x"`
	Value   optimization.Scalar `json:"value"`
	Stalled bool                `json:"stalled,omitempty"`
}

// Point2D is one iterate of a two-variable trajectory.
type Point2D struct {
	Step    int                 `json:"step"`
	X       float64             `json:"x"`
	Y       float64             `json:"y"`
	Value   optimization.Scalar `json:"value"`
	Stalled bool                `json:"stalled,omitempty"`
}

// Range is a closed interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Bounds is the extent of a trajectory. Value is nil when no iterate has a
// valid objective value.
type Bounds struct {
	X     Range  `json:"x"`
	Y     *Range `json:"y,omitempty"`
	Value *Range `json:"value,omitempty"`
}

// Trajectory1D is an immutable sequence of NumSteps+1 iterates.
type Trajectory1D struct {
	settings optimization.Settings
	points   []Point1D
}

// Len returns the number of iterates, NumSteps+1.
func (t *Trajectory1D) Len() int { return len(t.points) }

// At returns the iterate at step i.
func (t *Trajectory1D) At(i int) Point1D { return t.points[i] }

// Settings returns the settings the trajectory was computed with.
func (t *Trajectory1D) Settings() optimization.Settings { return t.settings }

// Points returns a copy of all iterates.
func (t *Trajectory1D) Points() []Point1D {
	return append([]Point1D(nil), t.points...)
}

// Xs returns the positions in step order.
func (t *Trajectory1D) Xs() []float64 {
	xs := make([]float64, len(t.points))
	for i, p := range t.points {
		xs[i] = p.X
	}
	return xs
}

// Values returns the objective values in step order.
func (t *Trajectory1D) Values() []optimization.Scalar {
	vs := make([]optimization.Scalar, len(t.points))
	for i, p := range t.points {
		vs[i] = p.Value
	}
	return vs
}

// Stalled reports whether step i kept its predecessor's position.
func (t *Trajectory1D) Stalled(i int) bool { return t.points[i].Stalled }

// Stalls returns the steps whose position was frozen.
func (t *Trajectory1D) Stalls() []int {
	var steps []int
	for _, p := range t.points {
		if p.Stalled {
			steps = append(steps, p.Step)
		}
	}
	return steps
}

// Bounds returns the extent of positions and valid objective values.
func (t *Trajectory1D) Bounds() Bounds {
	return Bounds{
		X:     span(t.Xs()),
		Value: validSpan(t.Values()),
	}
}

// Trajectory2D is an immutable sequence of NumSteps+1 iterates.
type Trajectory2D struct {
	settings optimization.Settings
	points   []Point2D
}

func (t *Trajectory2D) Len() int                        { return len(t.points) }
func (t *Trajectory2D) At(i int) Point2D                { return t.points[i] }
func (t *Trajectory2D) Settings() optimization.Settings { return t.settings }

// Points returns a copy of all iterates.
func (t *Trajectory2D) Points() []Point2D {
	return append([]Point2D(nil), t.points...)
}

// Xs returns the x coordinates in step order.
func (t *Trajectory2D) Xs() []float64 {
	xs := make([]float64, len(t.points))
	for i, p := range t.points {
		xs[i] = p.X
	}
	return xs
}

// Ys returns the y coordinates in step order.
func (t *Trajectory2D) Ys() []float64 {
	ys := make([]float64, len(t.points))
	for i, p := range t.points {
		ys[i] = p.Y
	}
	return ys
}

// Values returns the objective values in step order.
func (t *Trajectory2D) Values() []optimization.Scalar {
	vs := make([]optimization.Scalar, len(t.points))
	for i, p := range t.points {
		vs[i] = p.Value
	}
	return vs
}

// Stalled reports whether step i kept its predecessor's position.
func (t *Trajectory2D) Stalled(i int) bool { return t.points[i].Stalled }

// Stalls returns the steps whose position was frozen.
func (t *Trajectory2D) Stalls() []int {
	var steps []int
	for _, p := range t.points {
		if p.Stalled {
			steps = append(steps, p.Step)
		}
	}
	return steps
}

// Bounds returns the extent of positions and valid objective values.
func (t *Trajectory2D) Bounds() Bounds {
	y := span(t.Ys())
	return Bounds{
		X:     span(t.Xs()),
		Y:     &y,
		Value: validSpan(t.Values()),
	}
}

func span(xs []float64) Range {
	return Range{Min: floats.Min(xs), Max: floats.Max(xs)}
}

func validSpan(vs []optimization.Scalar) *Range {
	valid := make([]float64, 0, len(vs))
	for _, v := range vs {
		if f, ok := v.Float(); ok {
			valid = append(valid, f)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	r := span(valid)
	return &r
}
