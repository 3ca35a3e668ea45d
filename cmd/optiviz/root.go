package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/copyleftdev/optiviz/internal/logging"
)

var (
	logLevel string
	logger   = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "optiviz",
	Short: "Compute optimizer trajectories over objective expressions",
	Long: `optiviz runs Gradient Descent, Adam or Newton for a fixed number of steps
over a one or two variable objective and prints every iterate.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		base, err := logging.NewLogger(&logging.Config{
			Level:  logLevel,
			Format: "text",
			Output: "stderr",
		})
		if err != nil {
			return err
		}
		logger = logging.NewZapLogger(base)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}
