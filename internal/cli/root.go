package cli

import (
	"github.com/spf13/cobra"

	"github.com/pablasso/vigil/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "vigil",
	Short:         "Quality gate for agent-driven development",
	Long:          `Vigil evaluates quality checks against build, lint, git, and plan signals, classifies the result into a verdict, and records every verdict in an audit log.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(gateCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(logCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
