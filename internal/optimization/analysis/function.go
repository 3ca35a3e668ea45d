package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/copyleftdev/optiviz/internal/optimization"
)

// Derivatives are optional explicit derivative expressions. Any component
// left empty is approximated by finite differences.
type Derivatives struct {
	// Gradient and Hessian apply to single-variable objectives.
	Gradient string `json:"gradient,omitempty"`
	Hessian  string `json:"hessian,omitempty"`

	// The remaining fields apply to two-variable objectives.
	GX  string `json:"gx,omitempty"`
	GY  string `json:"gy,omitempty"`
	HXX string `json:"hxx,omitempty"`
	HXY string `json:"hxy,omitempty"`
	HYX string `json:"hyx,omitempty"`
	HYY string `json:"hyy,omitempty"`
}

// Options configure Parse1D and Parse2D.
type Options struct {
	// Step is the finite-difference step. Zero selects the default step of
	// each gonum formula.
	Step        float64
	Derivatives Derivatives
}

func (o Options) validate() error {
	if o.Step < 0 || math.IsNaN(o.Step) || math.IsInf(o.Step, 0) {
		return fmt.Errorf("finite-difference step must be a non-negative number, got %v", o.Step)
	}
	return nil
}

// Function1D is an analysed objective of x. It implements
// optimization.Function1D and optimization.Curvature1D.
type Function1D struct {
	value    *expression
	gradient *expression
	hessian  *expression
	step     float64
}

// Parse1D analyses text as an objective of x.
func Parse1D(text string, opts Options) (*Function1D, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	value, err := compile(text, "x")
	if err != nil {
		return nil, err
	}
	f := &Function1D{value: value, step: opts.Step}
	if f.gradient, err = optional(opts.Derivatives.Gradient, "x"); err != nil {
		return nil, err
	}
	if f.hessian, err = optional(opts.Derivatives.Hessian, "x"); err != nil {
		return nil, err
	}
	return f, nil
}

// Expression returns the source text of the objective.
func (f *Function1D) Expression() string { return f.value.text }

func (f *Function1D) Value(x float64) (float64, error) {
	return f.value.eval(map[string]float64{"x": x})
}

func (f *Function1D) Gradient(x float64) (float64, error) {
	if f.gradient != nil {
		return f.gradient.eval(map[string]float64{"x": x})
	}
	return fd.Derivative(f.objective, x, &fd.Settings{Formula: fd.Central, Step: f.step}), nil
}

func (f *Function1D) Hessian(x float64) (float64, error) {
	if f.hessian != nil {
		return f.hessian.eval(map[string]float64{"x": x})
	}
	return fd.Derivative(f.objective, x, &fd.Settings{Formula: fd.Central2nd, Step: f.step}), nil
}

// objective adapts Value for gonum, mapping failures to NaN.
func (f *Function1D) objective(x float64) float64 {
	v, err := f.Value(x)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Function2D is an analysed objective of x and y. It implements
// optimization.Function2D and optimization.Curvature2D.
type Function2D struct {
	value              *expression
	gx, gy             *expression
	hxx, hxy, hyx, hyy *expression
	step               float64
}

// Parse2D analyses text as an objective of x and y.
func Parse2D(text string, opts Options) (*Function2D, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	value, err := compile(text, "x", "y")
	if err != nil {
		return nil, err
	}
	f := &Function2D{value: value, step: opts.Step}

	d := opts.Derivatives
	targets := []struct {
		dst  **expression
		text string
	}{
		{&f.gx, d.GX}, {&f.gy, d.GY},
		{&f.hxx, d.HXX}, {&f.hxy, d.HXY}, {&f.hyx, d.HYX}, {&f.hyy, d.HYY},
	}
	for _, t := range targets {
		if *t.dst, err = optional(t.text, "x", "y"); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Expression returns the source text of the objective.
func (f *Function2D) Expression() string { return f.value.text }

func (f *Function2D) Value(x, y float64) (float64, error) {
	return f.value.eval(map[string]float64{"x": x, "y": y})
}

func (f *Function2D) Gradient(x, y float64) (optimization.Vec2, error) {
	var numeric []float64
	if f.gx == nil || f.gy == nil {
		numeric = fd.Gradient(nil, f.objective, []float64{x, y}, &fd.Settings{Formula: fd.Central, Step: f.step})
	}

	gx, err := component(f.gx, numeric, 0, x, y)
	if err != nil {
		return optimization.Vec2{}, err
	}
	gy, err := component(f.gy, numeric, 1, x, y)
	if err != nil {
		return optimization.Vec2{}, err
	}
	return optimization.Vec2{X: gx, Y: gy}, nil
}

func (f *Function2D) Hessian(x, y float64) (optimization.Mat2, error) {
	var numeric []float64
	if f.hxx == nil || f.hxy == nil || f.hyx == nil || f.hyy == nil {
		h := mat.NewSymDense(2, nil)
		fd.Hessian(h, f.objective, []float64{x, y}, &fd.Settings{Formula: fd.Central, Step: f.step})
		numeric = []float64{h.At(0, 0), h.At(0, 1), h.At(1, 0), h.At(1, 1)}
	}

	var out [4]float64
	for i, e := range []*expression{f.hxx, f.hxy, f.hyx, f.hyy} {
		v, err := component(e, numeric, i, x, y)
		if err != nil {
			return optimization.Mat2{}, err
		}
		out[i] = v
	}
	return optimization.Mat2{XX: out[0], XY: out[1], YX: out[2], YY: out[3]}, nil
}

func (f *Function2D) objective(p []float64) float64 {
	v, err := f.Value(p[0], p[1])
	if err != nil {
		return math.NaN()
	}
	return v
}

// component evaluates e when present and falls back to numeric[i].
func component(e *expression, numeric []float64, i int, x, y float64) (float64, error) {
	if e != nil {
		return e.eval(map[string]float64{"x": x, "y": y})
	}
	return numeric[i], nil
}

func optional(text string, vars ...string) (*expression, error) {
	if text == "" {
		return nil, nil
	}
	return compile(text, vars...)
}
