package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapview/internal/plot"
	"github.com/leapstack-labs/leapview/internal/tui"
)

// NewTUICommand creates the tui command.
func NewTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the full-screen explorer",
		Long: `Open the full-screen explorer: the table tree, a SQL editor, the result
table or a chart of it, and a log of table and error notifications.

Keys:
  ctrl+r      run the statement in the editor
  tab         switch between editor, results and tables
  enter       on a table, write a SELECT for it into the editor
  ctrl+p      cycle the chart (line, scatter, off)
  ctrl+x/y    choose the x/y column
  ctrl+l      show or hide the log
  ctrl+c      quit`,
		Example: `  leapview tui -d ./data
  leapview -d ./data --database explore.duckdb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunTUI(cmd)
		},
	}
}

// RunTUI opens a session for the current configuration and runs the
// full-screen explorer on it. Notifications go to the UI's log pane, not
// to stderr.
func RunTUI(cmd *cobra.Command) error {
	cc := NewCommandContextWithoutSession(cmd)
	if cc.Cfg.DataDir != "" {
		if err := cc.Cfg.ValidateDataDir(); err != nil {
			return err
		}
	}

	kind, err := plot.ParseKind(cc.Cfg.Plot.Kind)
	if err != nil {
		return err
	}

	sess, err := openSession(cmd.Context(), cc.Cfg, cc.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	return tui.Run(cmd.Context(), sess, tui.Options{
		DataDir:  cc.Cfg.DataDir,
		MaxRows:  cc.Cfg.MaxRows,
		PlotKind: kind,
		Logger:   cc.Logger,
	})
}
