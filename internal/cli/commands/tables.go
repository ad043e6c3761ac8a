package commands

import (
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables and their columns",
		Long: `Import the data directory and list every tracked table with its
columns and their engine types.`,
		Example: `  leapview tables -d ./data
  leapview tables -d ./data -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := cc.ImportDataDir(cmd.Context()); err != nil {
				return err
			}
			return renderTables(cc.Renderer, cc.Session.Tables())
		},
	}
}
