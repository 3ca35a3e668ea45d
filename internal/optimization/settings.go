package optimization

import (
	"math"
	"strings"
)

// OptimizerType selects the update rule used to build a trajectory.
type OptimizerType string

const (
	// GradientDescent is first-order descent with an optional momentum term.
	GradientDescent OptimizerType = "Gradient Descent"
	// Newton divides the gradient by the local curvature.
	Newton OptimizerType = "Newton"
	// Adam is adaptive moment estimation. Only available for two variables.
	Adam OptimizerType = "Adam"
)

// Dimension is the number of variables of an objective.
type Dimension int

const (
	// OneD objectives take a single variable x.
	OneD Dimension = 1
	// TwoD objectives take the variables x and y.
	TwoD Dimension = 2
)

const (
	// Epsilon guards divisions by near-zero curvature, determinants and
	// Adam bias corrections.
	Epsilon = 1e-9
	// AdamEpsilon is the stabilizer added to the root of the second moment.
	AdamEpsilon = 1e-8
	// DefaultNumSteps is the iteration budget used when none is configured.
	DefaultNumSteps = 20
)

var supported = map[Dimension][]OptimizerType{
	OneD: {GradientDescent, Newton},
	TwoD: {GradientDescent, Adam, Newton},
}

// aliases maps lower-cased spellings accepted from user input.
var aliases = map[string]OptimizerType{
	"gradient descent": GradientDescent,
	"gradientdescent":  GradientDescent,
	"gd":               GradientDescent,
	"newton":           Newton,
	"adam":             Adam,
}

// SupportedOptimizers returns the optimizers available for dim.
func SupportedOptimizers(dim Dimension) []OptimizerType {
	return append([]OptimizerType(nil), supported[dim]...)
}

// Supports reports whether t is available for dim.
func (t OptimizerType) Supports(dim Dimension) bool {
	for _, s := range supported[dim] {
		if s == t {
			return true
		}
	}
	return false
}

// ParseOptimizerType resolves a user supplied optimizer name. Matching is
// case-insensitive and accepts the short forms "gd", "newton" and "adam".
func ParseOptimizerType(name string) (OptimizerType, error) {
	if t, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t, nil
	}
	return "", NewConfigurationError("ParseOptimizerType", "unrecognized optimiser type %q", name)
}

// Settings is the algorithm selector plus its hyperparameters.
type Settings struct {
	OptimizerType OptimizerType `json:"optimiserType"`
	InitialX      float64       `json:"initialX"`
	InitialY      float64       `json:"initialY"`
	LearningRate  float64       `json:"learningRate"`
	Momentum      float64       `json:"momentum"`
	Beta1         float64       `json:"beta1"`
	Beta2         float64       `json:"beta2"`
	// NumSteps is the number of iterations after step 0.
	NumSteps int `json:"numSteps"`
}

// DefaultSettings returns gradient descent from the origin with the
// conventional Adam decay rates.
func DefaultSettings() Settings {
	return Settings{
		OptimizerType: GradientDescent,
		LearningRate:  0.1,
		Momentum:      0,
		Beta1:         0.9,
		Beta2:         0.999,
		NumSteps:      DefaultNumSteps,
	}
}

// Validate checks that s can drive a trajectory over dim variables. Every
// failure is a configuration error.
func (s Settings) Validate(dim Dimension) error {
	if _, ok := supported[dim]; !ok {
		return NewConfigurationError("Validate", "unsupported dimension %d", dim)
	}
	if !s.OptimizerType.Supports(dim) {
		return NewConfigurationError("Validate", "unsupported optimiser type %q for %dD objective", s.OptimizerType, dim)
	}
	if s.NumSteps < 0 {
		return NewConfigurationError("Validate", "numSteps must be non-negative, got %d", s.NumSteps)
	}

	params := map[string]float64{
		"initialX":     s.InitialX,
		"learningRate": s.LearningRate,
		"momentum":     s.Momentum,
		"beta1":        s.Beta1,
		"beta2":        s.Beta2,
	}
	if dim == TwoD {
		params["initialY"] = s.InitialY
	}
	for name, v := range params {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewConfigurationError("Validate", "%s must be finite, got %v", name, v)
		}
	}
	return nil
}
