// Package cli defines the casaflow command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "casaflow",
	Short: "Household finance movement entry",
	Long: `casaflow records household money movements: shared expenses, splits
between members and contacts, loans and repayments, and income.

Run 'casaflow movimiento' to open the entry form, or 'casaflow serve'
to start the backend it talks to. Configuration lives in
~/.casaflow/config.toml (CASAFLOW_CONFIG overrides the path).`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
