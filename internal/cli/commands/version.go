package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display leapview version and build information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "leapview v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "CSV and SQL explorer built with Go and DuckDB (%s)\n", runtime.Version())
		},
	}
}
