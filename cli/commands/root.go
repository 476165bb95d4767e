// Package commands wires the queryforge CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/queryforge/cli/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "queryforge",
	Short:         "Dynamic SQL query construction engine",
	Long:          "queryforge compiles declarative query descriptions into parameterized SQL statements.",
	Version:       version.Get().String(),
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
