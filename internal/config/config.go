package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/copyleftdev/optiviz/internal/optimization"
)

type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	HTTP        struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}
	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}
	Optimizer struct {
		DefaultNumSteps     int     `env:"OPT_DEFAULT_NUM_STEPS" envDefault:"20"`
		MaxNumSteps         int     `env:"OPT_MAX_NUM_STEPS" envDefault:"10000"`
		DefaultLearningRate float64 `env:"OPT_DEFAULT_LEARNING_RATE" envDefault:"0.1"`
		DefaultMomentum     float64 `env:"OPT_DEFAULT_MOMENTUM" envDefault:"0"`
		DefaultBeta1        float64 `env:"OPT_DEFAULT_BETA1" envDefault:"0.9"`
		DefaultBeta2        float64 `env:"OPT_DEFAULT_BETA2" envDefault:"0.999"`
	}
	Analysis struct {
		// FDStep is the finite-difference step; 0 uses gonum's defaults.
		FDStep float64 `env:"ANALYSIS_FD_STEP" envDefault:"0"`
	}
}

func Load() (*Config, error) {
	cfg := &Config{}

	// Parse environment variables
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Set default logging level based on environment
	if cfg.Environment == "development" && cfg.Logging.Level == "" {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the optimizer limits and defaults for consistency.
func (c *Config) Validate() error {
	o := c.Optimizer
	if o.MaxNumSteps <= 0 {
		return fmt.Errorf("OPT_MAX_NUM_STEPS must be positive, got %d", o.MaxNumSteps)
	}
	if o.DefaultNumSteps < 0 || o.DefaultNumSteps > o.MaxNumSteps {
		return fmt.Errorf("OPT_DEFAULT_NUM_STEPS must be within [0, %d], got %d", o.MaxNumSteps, o.DefaultNumSteps)
	}
	for name, beta := range map[string]float64{"OPT_DEFAULT_BETA1": o.DefaultBeta1, "OPT_DEFAULT_BETA2": o.DefaultBeta2} {
		if beta < 0 || beta >= 1 {
			return fmt.Errorf("%s must be within [0, 1), got %v", name, beta)
		}
	}
	if c.Analysis.FDStep < 0 {
		return fmt.Errorf("ANALYSIS_FD_STEP must be non-negative, got %v", c.Analysis.FDStep)
	}
	return nil
}

// DefaultSettings returns the optimizer settings requests start from.
func (c *Config) DefaultSettings() optimization.Settings {
	s := optimization.DefaultSettings()
	s.NumSteps = c.Optimizer.DefaultNumSteps
	s.LearningRate = c.Optimizer.DefaultLearningRate
	s.Momentum = c.Optimizer.DefaultMomentum
	s.Beta1 = c.Optimizer.DefaultBeta1
	s.Beta2 = c.Optimizer.DefaultBeta2
	return s
}
