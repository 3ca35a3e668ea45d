// Package analysis turns objective expression text into the evaluators the
// trajectory engine consumes. Expressions are parsed with govaluate;
// derivatives come from explicit derivative expressions when supplied and
// from central finite differences otherwise.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/copyleftdev/optiviz/internal/optimization"
)

var (
	// ErrParse is returned for expressions govaluate cannot parse.
	ErrParse = errors.New("expression parse error")
	// ErrUnknownVariable is returned for expressions referencing variables
	// other than x (and y for two-variable objectives).
	ErrUnknownVariable = errors.New("unknown variable")
	// ErrNonNumeric is returned when an expression evaluates to something
	// other than a number, such as a comparison.
	ErrNonNumeric = errors.New("non-numeric result")
)

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

var functions = map[string]govaluate.ExpressionFunction{
	"sin":   unary(math.Sin),
	"cos":   unary(math.Cos),
	"tan":   unary(math.Tan),
	"asin":  unary(math.Asin),
	"acos":  unary(math.Acos),
	"atan":  unary(math.Atan),
	"sinh":  unary(math.Sinh),
	"cosh":  unary(math.Cosh),
	"tanh":  unary(math.Tanh),
	"exp":   unary(math.Exp),
	"log":   unary(math.Log),
	"ln":    unary(math.Log),
	"log10": unary(math.Log10),
	"sqrt":  unary(math.Sqrt),
	"abs":   unary(math.Abs),
	"pow":   binary(math.Pow),
	"min":   binary(math.Min),
	"max":   binary(math.Max),
}

func unary(fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected 1 argument, got %d", len(args))
		}
		x, err := toFloat(args[0])
		if err != nil {
			return nil, err
		}
		return fn(x), nil
	}
}

func binary(fn func(float64, float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("expected 2 arguments, got %d", len(args))
		}
		a, err := toFloat(args[0])
		if err != nil {
			return nil, err
		}
		b, err := toFloat(args[1])
		if err != nil {
			return nil, err
		}
		return fn(a, b), nil
	}
}

func toFloat(v interface{}) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	default:
		return math.NaN(), fmt.Errorf("%w: %T", ErrNonNumeric, v)
	}
}

// expression is a compiled objective or derivative.
type expression struct {
	text string
	expr *govaluate.EvaluableExpression
}

// compile parses text, accepting only the listed variables and the named
// constants. See normalize for the accepted syntax.
func compile(text string, vars ...string) (*expression, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrParse)
	}
	normalized, err := normalize(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrParse, text, err)
	}

	parsed, err := govaluate.NewEvaluableExpressionWithFunctions(normalized, functions)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrParse, text, err)
	}

	allowed := make(map[string]bool, len(vars)+len(constants))
	for _, v := range vars {
		allowed[v] = true
	}
	for c := range constants {
		allowed[c] = true
	}
	var unknown []string
	for _, v := range parsed.Vars() {
		if !allowed[v] {
			unknown = append(unknown, v)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %q uses %s", ErrUnknownVariable, text, strings.Join(unknown, ", "))
	}

	return &expression{text: text, expr: parsed}, nil
}

// eval evaluates the expression with a fresh parameter map, so concurrent
// calls never share state.
func (e *expression) eval(vars map[string]float64) (float64, error) {
	params := make(map[string]interface{}, len(vars)+len(constants))
	for k, v := range constants {
		params[k] = v
	}
	for k, v := range vars {
		params[k] = v
	}

	out, err := e.expr.Evaluate(params)
	if err != nil {
		return math.NaN(), err
	}
	return toFloat(out)
}

// references reports whether the expression mentions variable name.
func (e *expression) references(name string) bool {
	for _, v := range e.expr.Vars() {
		if v == name {
			return true
		}
	}
	return false
}

// Dimension reports whether text is an objective of x alone or of x and y.
func Dimension(text string) (optimization.Dimension, error) {
	e, err := compile(text, "x", "y")
	if err != nil {
		return 0, err
	}
	if e.references("y") {
		return optimization.TwoD, nil
	}
	return optimization.OneD, nil
}
