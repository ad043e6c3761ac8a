package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapview/internal/adapter"
	"github.com/leapstack-labs/leapview/internal/catalog"
	"github.com/leapstack-labs/leapview/internal/cli/config"
	"github.com/leapstack-labs/leapview/internal/cli/output"
	"github.com/leapstack-labs/leapview/internal/notifier"
	"github.com/leapstack-labs/leapview/internal/session"
)

// ErrStatementFailed is returned by one-shot commands after the engine
// rejected a statement. The engine's message has already been printed.
var ErrStatementFailed = errors.New("statement failed")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Session  *session.Session
	Renderer *output.Renderer

	failures int
}

// NewCommandContext creates a CommandContext with an open session and a
// renderer. Engine errors reported by the session are printed to stderr.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cc := NewCommandContextWithoutSession(cmd)

	sess, err := openSession(cmd.Context(), cc.Cfg, cc.Logger)
	if err != nil {
		return nil, nil, err
	}
	cc.Session = sess

	unsubscribe := sess.Subscribe(notifier.Funcs{
		OnTableAdded: func(t catalog.Table) {
			cc.Logger.Info("table added", "table", t.Name, "columns", len(t.Columns))
		},
		OnTableDropped: func(t catalog.Table) {
			cc.Logger.Info("table dropped", "table", t.Name)
		},
		OnError: cc.reportError,
	})

	cleanup := func() {
		unsubscribe()
		_ = sess.Close()
	}

	return cc, cleanup, nil
}

// NewCommandContextWithoutSession creates a CommandContext without a session.
// Useful for commands that don't need database access.
func NewCommandContextWithoutSession(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

func (cc *CommandContext) reportError(message string) {
	cc.failures++
	cc.Renderer.Error(message)
}

// Failures returns how many errors the session reported so far.
func (cc *CommandContext) Failures() int {
	return cc.failures
}

// ImportDataDir imports the configured data directory, if any.
func (cc *CommandContext) ImportDataDir(ctx context.Context) error {
	if cc.Cfg.DataDir == "" {
		return nil
	}
	if err := cc.Cfg.ValidateDataDir(); err != nil {
		return err
	}

	report, err := cc.Session.CreateTablesFromDirectory(ctx, cc.Cfg.DataDir)
	if err != nil {
		return err
	}
	cc.Logger.Debug("imported data directory",
		"dir", report.Dir,
		"tables", len(report.Imported),
		"failed", len(report.Failed))
	return nil
}

// Execute runs stmt and renders its result. It returns ErrStatementFailed
// when the engine rejected the statement.
func (cc *CommandContext) Execute(ctx context.Context, stmt string) error {
	before := cc.failures
	set, err := cc.Session.Execute(ctx, stmt)
	if err != nil {
		return err
	}
	if cc.failures > before {
		return ErrStatementFailed
	}
	if set == nil {
		return nil
	}
	return renderSet(cc.Renderer, set)
}

// Helper functions shared across commands

// getConfig returns the current configuration, or defaults if none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

func openSession(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*session.Session, error) {
	dbCfg := adapter.Config{Type: "duckdb", Path: cfg.Database}
	if cfg.InMemory() {
		dbCfg.Path = config.MemoryDatabase
	}

	sess, err := session.Open(ctx, dbCfg, session.Config{
		MaxRows:       cfg.MaxRows,
		DetectChanges: cfg.DetectChanges,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return sess, nil
}
