package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapview/internal/adapter"
	"github.com/leapstack-labs/leapview/internal/cli/config"
	"github.com/leapstack-labs/leapview/internal/cli/output"
	"github.com/leapstack-labs/leapview/internal/notifier"
	"github.com/leapstack-labs/leapview/internal/session"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, json
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the configuration, data directory and database",
		Long: `Check that leapview can start with the current configuration.

The doctor command reports:
- which configuration file is used
- whether the data directory exists and which CSV files it holds
- whether each CSV file imports cleanly (into a scratch in-memory database)
- whether the database opens, and how many tables it already has

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Run health check
  leapview doctor -d ./data

  # Output as JSON
  leapview doctor --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	ConfigFile   string        `json:"config_file,omitempty"`
	DataDir      string        `json:"data_dir,omitempty"`
	Database     string        `json:"database"`
	HealthChecks []HealthCheck `json:"health_checks"`
	IssueCount   int           `json:"issue_count"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	Name    string   `json:"name"`
	Status  string   `json:"status"` // "pass", "warn", "error"
	Summary string   `json:"summary"`
	Details []string `json:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cc := NewCommandContextWithoutSession(cmd)
	r := cc.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	report := buildDoctorOutput(cmd.Context(), cc)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(report)
	case output.ModeMarkdown:
		renderDoctorMarkdown(r, report)
	default:
		renderDoctorText(r, report)
	}
	return nil
}

func buildDoctorOutput(ctx context.Context, cc *CommandContext) *DoctorOutput {
	cfg := cc.Cfg
	out := &DoctorOutput{
		ConfigFile: config.GetConfigFileUsed(),
		DataDir:    cfg.DataDir,
		Database:   cfg.Database,
	}
	if cfg.InMemory() {
		out.Database = config.MemoryDatabase
	}

	out.HealthChecks = []HealthCheck{
		checkConfigFile(out.ConfigFile),
		checkDataDir(cfg),
		checkImports(ctx, cfg, cc),
		checkDatabase(ctx, cfg, cc),
	}
	for _, check := range out.HealthChecks {
		if check.Status != "pass" {
			out.IssueCount++
		}
	}
	return out
}

func checkConfigFile(path string) HealthCheck {
	if path == "" {
		return HealthCheck{
			Name:    "Configuration",
			Status:  "warn",
			Summary: "no leapview.yaml found, using defaults",
			Details: []string{"run 'leapview init' to create one"},
		}
	}
	return HealthCheck{Name: "Configuration", Status: "pass", Summary: path}
}

func checkDataDir(cfg *config.Config) HealthCheck {
	check := HealthCheck{Name: "Data directory"}
	if cfg.DataDir == "" {
		check.Status = "warn"
		check.Summary = "no data directory configured"
		check.Details = []string{"use --data-dir or data_dir in leapview.yaml"}
		return check
	}
	if err := cfg.ValidateDataDir(); err != nil {
		check.Status = "error"
		check.Summary = strings.SplitN(err.Error(), "\n", 2)[0]
		return check
	}

	files, err := session.DataFiles(cfg.DataDir)
	if err != nil {
		check.Status = "error"
		check.Summary = err.Error()
		return check
	}
	if len(files) == 0 {
		check.Status = "warn"
		check.Summary = fmt.Sprintf("%s holds no %s files", cfg.DataDir, session.DataFileExt)
		return check
	}

	check.Status = "pass"
	check.Summary = fmt.Sprintf("%d %s files in %s", len(files), session.DataFileExt, cfg.DataDir)
	for _, f := range files {
		check.Details = append(check.Details, filepath.Base(f))
	}
	return check
}

// checkImports imports the data directory into a scratch in-memory
// database so that a database file is never modified.
func checkImports(ctx context.Context, cfg *config.Config, cc *CommandContext) HealthCheck {
	check := HealthCheck{Name: "CSV import"}
	if cfg.DataDir == "" || cfg.ValidateDataDir() != nil {
		check.Status = "warn"
		check.Summary = "skipped, no usable data directory"
		return check
	}

	scratch, err := session.Open(ctx, adapter.Config{Type: "duckdb", Path: config.MemoryDatabase}, session.Config{Logger: cc.Logger})
	if err != nil {
		check.Status = "error"
		check.Summary = err.Error()
		return check
	}
	defer func() { _ = scratch.Close() }()

	var messages []string
	unsubscribe := scratch.Subscribe(notifier.Funcs{
		OnError: func(msg string) { messages = append(messages, msg) },
	})
	defer unsubscribe()

	report, err := scratch.CreateTablesFromDirectory(ctx, cfg.DataDir)
	if err != nil {
		check.Status = "error"
		check.Summary = err.Error()
		return check
	}

	check.Summary = fmt.Sprintf("%d imported, %d failed", len(report.Imported), len(report.Failed))
	for _, tbl := range report.Imported {
		check.Details = append(check.Details, fmt.Sprintf("%s (%d columns)", tbl.Name, len(tbl.Columns)))
	}
	check.Details = append(check.Details, messages...)
	check.Status = "pass"
	if len(report.Failed) > 0 {
		check.Status = "error"
	}
	return check
}

func checkDatabase(ctx context.Context, cfg *config.Config, cc *CommandContext) HealthCheck {
	check := HealthCheck{Name: "Database"}

	if !cfg.InMemory() {
		if _, err := os.Stat(cfg.Database); os.IsNotExist(err) {
			check.Status = "pass"
			check.Summary = fmt.Sprintf("%s will be created on first use", cfg.Database)
			return check
		}
	}

	sess, err := openSession(ctx, cfg, cc.Logger)
	if err != nil {
		check.Status = "error"
		check.Summary = adapter.EngineMessage(err)
		return check
	}
	defer func() { _ = sess.Close() }()

	check.Status = "pass"
	name := cfg.Database
	if cfg.InMemory() {
		name = config.MemoryDatabase
	}
	check.Summary = fmt.Sprintf("%s opened with %d tables", name, len(sess.Tables()))
	for _, tbl := range sess.Tables() {
		check.Details = append(check.Details, tbl.Name)
	}
	return check
}

func statusWord(status string) string {
	switch status {
	case "warn":
		return "WARN"
	case "error":
		return "ERROR"
	default:
		return "PASS"
	}
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header.Render("leapview Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	for _, check := range out.HealthChecks {
		icon := styles.Success.Render("✓")
		switch check.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.Error.Render("✗")
		}
		r.Printf("   %s %s: %s\n", icon, check.Name, check.Summary)

		// Show first 5 details
		for i, detail := range check.Details {
			if i >= 5 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-5)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	if out.IssueCount == 0 {
		r.Success("No issues found")
	} else {
		r.Println(styles.Warning.Render(fmt.Sprintf("   %d of %d checks need attention", out.IssueCount, len(out.HealthChecks))))
	}
	r.Println("")
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) {
	r.Println("# leapview Health Report")
	r.Println("")

	r.Println("## Summary")
	r.Println("")
	if out.ConfigFile != "" {
		r.Println(output.FormatKeyValue("Config", out.ConfigFile))
	}
	if out.DataDir != "" {
		r.Println(output.FormatKeyValue("Data directory", out.DataDir))
	}
	r.Println(output.FormatKeyValue("Database", out.Database))
	r.Println("")

	r.Println("## Health Checks")
	r.Println("")
	for _, check := range out.HealthChecks {
		r.Printf("- **[%s]** %s: %s\n", statusWord(check.Status), check.Name, check.Summary)
		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")
	r.Printf("**%d issues**\n", out.IssueCount)
}
