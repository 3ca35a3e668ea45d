package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/copyleftdev/optiviz/internal/optimization"
)

var optimizersCmd = &cobra.Command{
	Use:   "optimizers",
	Short: "List the optimizers available per dimension",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, dim := range []optimization.Dimension{optimization.OneD, optimization.TwoD} {
			names := make([]string, 0, 3)
			for _, t := range optimization.SupportedOptimizers(dim) {
				names = append(names, string(t))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%dD: %s\n", dim, strings.Join(names, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(optimizersCmd)
}
