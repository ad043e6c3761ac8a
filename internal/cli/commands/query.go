package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Input string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run SQL against the loaded data",
		Long: `Run SQL against an embedded DuckDB database.

CSV files in the data directory (--data-dir) are imported as tables first,
one table per file, named after the file. Statements that create or drop
tables update the tracked table list.

When invoked without arguments and with a terminal on stdin, enters
interactive REPL mode.`,
		Example: `  # Execute SQL directly
  leapview query -d ./data "SELECT * FROM people"

  # Read SQL from a file
  leapview query -d ./data --input report.sql

  # Pipe SQL through stdin
  echo "SELECT 42" | leapview query

  # Output as JSON
  leapview query "SELECT * FROM range(3)" -o json

  # Interactive mode
  leapview query -d ./data`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	// Determine SQL source before opening the database
	var sqlQuery string
	repl := false

	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(cmd.InOrStdin()):
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		repl = true
	}

	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := cc.ImportDataDir(cmd.Context()); err != nil {
		return err
	}

	if repl {
		return runQueryREPL(cmd, cc)
	}

	if strings.TrimSpace(sqlQuery) == "" {
		return fmt.Errorf("no SQL given")
	}
	return cc.Execute(cmd.Context(), sqlQuery)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
