package optimization

// Vec2 is a gradient of a two-variable objective.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Mat2 is a 2x2 matrix laid out as [[XX, XY], [YX, YY]].
type Mat2 struct {
	XX float64 `json:"xx"`
	XY float64 `json:"xy"`
	YX float64 `json:"yx"`
	YY float64 `json:"yy"`
}

// Function1D is an analysed single-variable objective. Implementations must
// be pure: no mutable state, callable any number of times in any order.
type Function1D interface {
	Value(x float64) (float64, error)
	Gradient(x float64) (float64, error)
}

// Curvature1D is implemented by single-variable objectives that can report
// their second derivative. Newton requires it.
type Curvature1D interface {
	Hessian(x float64) (float64, error)
}

// Function2D is an analysed two-variable objective.
type Function2D interface {
	Value(x, y float64) (float64, error)
	Gradient(x, y float64) (Vec2, error)
}

// Curvature2D is implemented by two-variable objectives that can report
// their full Hessian.
type Curvature2D interface {
	Hessian(x, y float64) (Mat2, error)
}

// Funcs1D adapts plain functions to Function1D and Curvature1D. A nil
// HessianFunc makes every Hessian evaluation fail.
type Funcs1D struct {
	ValueFunc    func(x float64) float64
	GradientFunc func(x float64) float64
	HessianFunc  func(x float64) float64
}

func (f Funcs1D) Value(x float64) (float64, error)    { return call1(f.ValueFunc, x, "value") }
func (f Funcs1D) Gradient(x float64) (float64, error) { return call1(f.GradientFunc, x, "gradient") }
func (f Funcs1D) Hessian(x float64) (float64, error)  { return call1(f.HessianFunc, x, "hessian") }

func call1(fn func(float64) float64, x float64, name string) (float64, error) {
	if fn == nil {
		return 0, NewErrorf("%s evaluator not provided", name)
	}
	return fn(x), nil
}

// Funcs2D adapts plain functions to Function2D and Curvature2D.
type Funcs2D struct {
	ValueFunc    func(x, y float64) float64
	GradientFunc func(x, y float64) Vec2
	HessianFunc  func(x, y float64) Mat2
}

func (f Funcs2D) Value(x, y float64) (float64, error) {
	if f.ValueFunc == nil {
		return 0, NewError("value evaluator not provided")
	}
	return f.ValueFunc(x, y), nil
}

func (f Funcs2D) Gradient(x, y float64) (Vec2, error) {
	if f.GradientFunc == nil {
		return Vec2{}, NewError("gradient evaluator not provided")
	}
	return f.GradientFunc(x, y), nil
}

func (f Funcs2D) Hessian(x, y float64) (Mat2, error) {
	if f.HessianFunc == nil {
		return Mat2{}, NewError("hessian evaluator not provided")
	}
	return f.HessianFunc(x, y), nil
}
