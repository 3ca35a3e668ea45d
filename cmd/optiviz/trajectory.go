package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/copyleftdev/optiviz/internal/config"
	"github.com/copyleftdev/optiviz/internal/optimization"
	"github.com/copyleftdev/optiviz/internal/optimization/analysis"
)

type trajectoryFlags struct {
	expr      string
	dimension int
	optimizer string
	x, y      float64
	lr        float64
	momentum  float64
	beta1     float64
	beta2     float64
	steps     int
	format    string
}

var trajFlags trajectoryFlags

var trajectoryCmd = &cobra.Command{
	Use:   "trajectory",
	Short: "Compute and print an optimizer trajectory",
	Long: `Computes the iterates of the selected optimizer over an expression of x
(or of x and y). Settings not given on the command line come from the
OPT_DEFAULT_* environment variables.`,
	Example: `  optiviz trajectory --expr "x^2" --optimizer newton --x 3
  optiviz trajectory --expr "(x-1)^2 + 10*(y+2)^2" --optimizer adam --lr 0.3 --steps 50`,
	RunE: runTrajectory,
}

func init() {
	f := trajectoryCmd.Flags()
	f.StringVar(&trajFlags.expr, "expr", "", "Objective expression in x, or x and y (required)")
	f.IntVar(&trajFlags.dimension, "dimension", 0, "Force 1 or 2 variables; 0 infers from the expression")
	f.StringVar(&trajFlags.optimizer, "optimizer", string(optimization.GradientDescent), "Optimizer: gd, adam, newton")
	f.Float64Var(&trajFlags.x, "x", 0, "Initial x")
	f.Float64Var(&trajFlags.y, "y", 0, "Initial y")
	f.Float64Var(&trajFlags.lr, "lr", 0.1, "Learning rate")
	f.Float64Var(&trajFlags.momentum, "momentum", 0, "Gradient descent momentum")
	f.Float64Var(&trajFlags.beta1, "beta1", 0.9, "Adam first moment decay")
	f.Float64Var(&trajFlags.beta2, "beta2", 0.999, "Adam second moment decay")
	f.IntVar(&trajFlags.steps, "steps", optimization.DefaultNumSteps, "Number of steps after the initial point")
	f.StringVar(&trajFlags.format, "format", "table", "Output format: table, json")

	trajectoryCmd.MarkFlagRequired("expr")
	rootCmd.AddCommand(trajectoryCmd)
}

type result struct {
	Expression string `json:"expression"`
	*analysis.Result
}

func runTrajectory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	st, err := resolveSettings(cfg.DefaultSettings(), cmd.Flags(), trajFlags)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := compute(trajFlags.expr, optimization.Dimension(trajFlags.dimension), st, cfg.Analysis.FDStep)
	if err != nil {
		return err
	}
	logger.Info("Trajectory computed",
		zap.String("optimizer", string(st.OptimizerType)),
		zap.Int("dimension", int(res.Dimension)),
		zap.Int("steps", st.NumSteps),
		zap.Int("stalls", len(res.Stalls)),
		zap.Duration("elapsed", time.Since(start)),
	)

	switch trajFlags.format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "table":
		return writeTable(cmd.OutOrStdout(), res)
	default:
		return fmt.Errorf("unknown format: %s", trajFlags.format)
	}
}

// resolveSettings overlays the flags the user set on the configured defaults.
func resolveSettings(st optimization.Settings, fs *pflag.FlagSet, f trajectoryFlags) (optimization.Settings, error) {
	if fs.Changed("optimizer") {
		t, err := optimization.ParseOptimizerType(f.optimizer)
		if err != nil {
			return st, err
		}
		st.OptimizerType = t
	}
	if fs.Changed("x") {
		st.InitialX = f.x
	}
	if fs.Changed("y") {
		st.InitialY = f.y
	}
	if fs.Changed("lr") {
		st.LearningRate = f.lr
	}
	if fs.Changed("momentum") {
		st.Momentum = f.momentum
	}
	if fs.Changed("beta1") {
		st.Beta1 = f.beta1
	}
	if fs.Changed("beta2") {
		st.Beta2 = f.beta2
	}
	if fs.Changed("steps") {
		st.NumSteps = f.steps
	}
	return st, nil
}

func compute(expr string, dim optimization.Dimension, st optimization.Settings, fdStep float64) (*result, error) {
	res, err := analysis.Run(expr, dim, st, analysis.Options{Step: fdStep})
	if err != nil {
		return nil, err
	}
	return &result{Expression: expr, Result: res}, nil
}

func writeTable(w io.Writer, res *result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := "STEP\tX\tVALUE\tSTALLED"
	if res.Dimension == optimization.TwoD {
		header = "STEP\tX\tY\tVALUE\tSTALLED"
	}
	fmt.Fprintln(tw, header)

	for _, p := range res.Points {
		stalled := ""
		if p.Stalled {
			stalled = "yes"
		}
		if p.Y != nil {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.Step, formatFloat(p.X), formatFloat(*p.Y), p.Value, stalled)
		} else {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.Step, formatFloat(p.X), p.Value, stalled)
		}
	}
	return tw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}
