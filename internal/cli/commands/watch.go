package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapview/internal/catalog"
	"github.com/leapstack-labs/leapview/internal/notifier"
	"github.com/leapstack-labs/leapview/internal/watch"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Import CSV files as they appear in the data directory",
		Long: `Import the data directory, then keep watching it and import every new
CSV file as a table. Each table and error notification is printed until the
command is interrupted.`,
		Example: `  leapview watch -d ./data`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if cc.Cfg.DataDir == "" {
				return fmt.Errorf("watch needs a data directory (use --data-dir or data_dir in leapview.yaml)")
			}

			r := cc.Renderer
			unsubscribe := cc.Session.Subscribe(notifier.Funcs{
				OnTableAdded: func(t catalog.Table) {
					r.StatusLine(t.Name, "success", fmt.Sprintf("added (%d columns)", len(t.Columns)))
				},
				OnTableDropped: func(t catalog.Table) {
					r.StatusLine(t.Name, "skipped", "dropped")
				},
			})
			defer unsubscribe()

			if err := cc.ImportDataDir(cmd.Context()); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			r.Muted(fmt.Sprintf("Watching %s (Ctrl+C to stop)", cc.Cfg.DataDir))

			w := watch.New(cc.Session, watch.Config{
				Dir:      cc.Cfg.DataDir,
				Debounce: debounce,
				Logger:   cc.Logger,
			})
			return w.Run(ctx)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Wait this long after the last change before importing a file")

	return cmd
}
