// Package cli implements the kisaan command line using Cobra.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kisaan",
	Short: "kisaan turns farming problems into tracked action plans",
	Long: `kisaan serves the farming action-plan API and offers offline commands
to generate a plan, export a plan's schedule and fill the knowledge base.

Configuration comes from KISAAN_CONFIG (TOML), .env and the environment.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
