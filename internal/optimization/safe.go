package optimization

// Gradient2D holds the safely evaluated partial derivatives at a point.
type Gradient2D struct {
	X, Y Scalar
}

// Valid reports whether both partials are usable.
func (g Gradient2D) Valid() bool {
	return g.X.IsValid() && g.Y.IsValid()
}

// Hessian2D holds the safely evaluated second partials at a point.
type Hessian2D struct {
	XX, XY, YX, YY Scalar
}

// Valid reports whether all four second partials are usable.
func (h Hessian2D) Valid() bool {
	return h.XX.IsValid() && h.XY.IsValid() && h.YX.IsValid() && h.YY.IsValid()
}

// guard calls fn, reporting false if it returns an error or panics.
func guard[T any](fn func() (T, error)) (v T, ok bool) {
	defer func() {
		if recover() != nil {
			var zero T
			v, ok = zero, false
		}
	}()
	v, err := fn()
	if err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// Evaluate runs an evaluator call and converts errors, panics and non-finite
// results into Invalid. It never panics and never logs.
func Evaluate(fn func() (float64, error)) Scalar {
	v, ok := guard(fn)
	if !ok {
		return Invalid
	}
	return NewScalar(v)
}

// Value1D safely evaluates f at x.
func Value1D(f Function1D, x float64) Scalar {
	return Evaluate(func() (float64, error) { return f.Value(x) })
}

// Gradient1D safely evaluates the derivative of f at x.
func Gradient1D(f Function1D, x float64) Scalar {
	return Evaluate(func() (float64, error) { return f.Gradient(x) })
}

// Hessian1D safely evaluates the second derivative at x.
func Hessian1D(c Curvature1D, x float64) Scalar {
	return Evaluate(func() (float64, error) { return c.Hessian(x) })
}

// Value2D safely evaluates f at (x, y).
func Value2D(f Function2D, x, y float64) Scalar {
	return Evaluate(func() (float64, error) { return f.Value(x, y) })
}

// EvalGradient2D safely evaluates both partial derivatives at (x, y). Each
// component is checked independently.
func EvalGradient2D(f Function2D, x, y float64) Gradient2D {
	g, ok := guard(func() (Vec2, error) { return f.Gradient(x, y) })
	if !ok {
		return Gradient2D{X: Invalid, Y: Invalid}
	}
	return Gradient2D{X: NewScalar(g.X), Y: NewScalar(g.Y)}
}

// EvalHessian2D safely evaluates the four second partials at (x, y).
func EvalHessian2D(c Curvature2D, x, y float64) Hessian2D {
	h, ok := guard(func() (Mat2, error) { return c.Hessian(x, y) })
	if !ok {
		return Hessian2D{XX: Invalid, XY: Invalid, YX: Invalid, YY: Invalid}
	}
	return Hessian2D{
		XX: NewScalar(h.XX),
		XY: NewScalar(h.XY),
		YX: NewScalar(h.YX),
		YY: NewScalar(h.YY),
	}
}
