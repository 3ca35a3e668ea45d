package server

import (
	"time"

	"github.com/copyleftdev/optiviz/internal/errors"
	"github.com/copyleftdev/optiviz/internal/metrics"
	"github.com/copyleftdev/optiviz/internal/optimization"
	"github.com/copyleftdev/optiviz/internal/optimization/analysis"
)

// TrajectoryRequest asks for the trajectory of an optimizer over an
// objective expression. Dimension 0 infers the dimension from the
// variables the expression references.
type TrajectoryRequest struct {
	Expression  string               `json:"expression"`
	Dimension   int                  `json:"dimension,omitempty"`
	Settings    SettingsOverrides    `json:"settings"`
	Derivatives analysis.Derivatives `json:"derivatives"`
}

// SettingsOverrides holds the settings a request supplies. Omitted fields
// keep the configured defaults.
type SettingsOverrides struct {
	OptimizerType *string  `json:"optimiserType,omitempty"`
	InitialX      *float64 `json:"initialX,omitempty"`
	InitialY      *float64 `json:"initialY,omitempty"`
	LearningRate  *float64 `json:"learningRate,omitempty"`
	Momentum      *float64 `json:"momentum,omitempty"`
	Beta1         *float64 `json:"beta1,omitempty"`
	Beta2         *float64 `json:"beta2,omitempty"`
	NumSteps      *int     `json:"numSteps,omitempty"`
}

// TrajectoryResponse is a computed trajectory.
type TrajectoryResponse struct {
	Optimiser optimization.OptimizerType `json:"optimiser"`
	*analysis.Result
}

// OptimizersResponse lists the optimizers available per dimension.
type OptimizersResponse struct {
	OneD []optimization.OptimizerType `json:"1d"`
	TwoD []optimization.OptimizerType `json:"2d"`
}

func listOptimizers() OptimizersResponse {
	return OptimizersResponse{
		OneD: optimization.SupportedOptimizers(optimization.OneD),
		TwoD: optimization.SupportedOptimizers(optimization.TwoD),
	}
}

// settings applies the request overrides to the configured defaults.
func (s *Server) settings(o SettingsOverrides) (optimization.Settings, error) {
	st := s.cfg.DefaultSettings()
	if o.OptimizerType != nil {
		t, err := optimization.ParseOptimizerType(*o.OptimizerType)
		if err != nil {
			return st, err
		}
		st.OptimizerType = t
	}
	for _, f := range []struct {
		dst *float64
		src *float64
	}{
		{&st.InitialX, o.InitialX},
		{&st.InitialY, o.InitialY},
		{&st.LearningRate, o.LearningRate},
		{&st.Momentum, o.Momentum},
		{&st.Beta1, o.Beta1},
		{&st.Beta2, o.Beta2},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	if o.NumSteps != nil {
		st.NumSteps = *o.NumSteps
	}
	if st.NumSteps > s.cfg.Optimizer.MaxNumSteps {
		return st, optimization.NewConfigurationError("settings",
			"numSteps %d exceeds the limit of %d", st.NumSteps, s.cfg.Optimizer.MaxNumSteps)
	}
	return st, nil
}

// errorKind classifies a computeTrajectory failure for metrics.
func errorKind(err error) string {
	switch {
	case optimization.IsConfigurationError(err):
		return metrics.KindConfiguration
	case errors.Is(err, analysis.ErrParse), errors.Is(err, analysis.ErrUnknownVariable):
		return metrics.KindAnalysis
	default:
		return metrics.KindRequest
	}
}

// computeTrajectory analyses the request expression and runs the engine.
// Every error it returns is caused by the request.
func (s *Server) computeTrajectory(req TrajectoryRequest) (*TrajectoryResponse, error) {
	start := time.Now()
	resp, err := s.compute(req)
	if err != nil {
		s.recorder.ObserveError(errorKind(err))
		return nil, err
	}
	s.recorder.ObserveTrajectory(int(resp.Dimension), string(resp.Optimiser), len(resp.Stalls), time.Since(start))

	s.logger.Debug("Trajectory computed", map[string]interface{}{
		"dimension": int(resp.Dimension),
		"optimizer": string(resp.Optimiser),
		"steps":     resp.Settings.NumSteps,
		"stalls":    len(resp.Stalls),
	})
	return resp, nil
}

func (s *Server) compute(req TrajectoryRequest) (*TrajectoryResponse, error) {
	if req.Expression == "" {
		return nil, errors.New("expression is required").WithOperation("trajectory.compute")
	}

	st, err := s.settings(req.Settings)
	if err != nil {
		return nil, err
	}

	opts := analysis.Options{Step: s.cfg.Analysis.FDStep, Derivatives: req.Derivatives}
	res, err := analysis.Run(req.Expression, optimization.Dimension(req.Dimension), st, opts)
	if err != nil {
		if optimization.IsConfigurationError(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, "analyse expression").WithOperation("trajectory.compute")
	}
	return &TrajectoryResponse{Optimiser: st.OptimizerType, Result: res}, nil
}
