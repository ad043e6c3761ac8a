package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapview/internal/cli/config"
	"github.com/leapstack-labs/leapview/internal/cli/output"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new leapview project",
		Long: `Initialize a leapview project with a configuration file and a data directory.

This creates:
  - leapview.yaml configuration file
  - data/ directory whose CSV files are imported at startup
  - .gitignore for the REPL history and database files

Use --example to add sample CSV files to explore right away.`,
		Example: `  # Initialize in current directory
  leapview init

  # Initialize with sample data
  leapview init --example

  # Initialize in a new directory
  leapview init my-project --example

  # Force overwrite existing config
  leapview init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

			template := "minimal"
			if example {
				template = "example"
			}
			return runInit(r, dir, template, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&example, "example", false, "Add sample CSV files to the data directory")

	return cmd
}

func runInit(r *output.Renderer, dir, template string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, config.ConfigFileNames[0])
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.ConfigFileNames[0])
	}

	if err := copyTemplate(template, dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, _ := listTemplateFiles(template)
	groups := groupTemplateFiles(files)

	r.Header(2, "Configuration")
	for _, f := range groups["config"] {
		r.StatusLine(f, "success", "")
	}
	r.Println("")
	r.Header(2, "Data")
	for _, f := range groups["data"] {
		r.StatusLine(f, "success", "")
	}

	r.Println("")
	r.Success("leapview project initialized!")
	r.Println("")
	r.Println("Next steps:")
	if template == "example" {
		r.Println("  leapview tables                             List the imported tables")
		r.Println(`  leapview query "SELECT * FROM sales"         Run a query`)
		r.Println(`  leapview plot --y revenue "SELECT day, sum(revenue) AS revenue FROM sales GROUP BY day ORDER BY day"`)
	} else {
		r.Println("  1. Copy CSV files into data/")
		r.Println("  2. Run 'leapview' to explore them")
	}
	return nil
}
