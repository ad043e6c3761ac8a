// Package session ties the engine, the schema tracker and the result model
// together: it executes statements and imports data files, keeps the tracked
// catalog current and reports what changed.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leapview/internal/adapter"
	"github.com/leapstack-labs/leapview/internal/catalog"
	"github.com/leapstack-labs/leapview/internal/notifier"
	"github.com/leapstack-labs/leapview/internal/result"
)

// Config holds session options.
type Config struct {
	// MaxRows caps how many rows of a result are fetched (0 = default).
	MaxRows int
	// DetectChanges reports tables whose columns changed as dropped+added.
	DetectChanges bool
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Session is the query executor. It is meant to be driven from a single
// goroutine: statements, imports and refreshes never run concurrently.
type Session struct {
	db       adapter.Adapter
	tracker  *catalog.Tracker
	notifier *notifier.Notifier
	results  *result.Model
	logger   *slog.Logger
	maxRows  int
}

// New creates a session over an already connected adapter.
func New(db adapter.Adapter, cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	n := notifier.New()
	maxRows := cfg.MaxRows
	if maxRows <= 0 {
		maxRows = result.DefaultMaxRows
	}

	return &Session{
		db: db,
		tracker: catalog.NewTracker(db, n,
			catalog.WithLogger(logger),
			catalog.WithChangeDetection(cfg.DetectChanges)),
		notifier: n,
		results:  result.NewModel(maxRows),
		logger:   logger,
		maxRows:  maxRows,
	}
}

// Open creates and connects an adapter of dbCfg.Type, then wraps it in a
// session. Tables already present in a file-backed database are picked up
// by an initial refresh.
func Open(ctx context.Context, dbCfg adapter.Config, cfg Config) (*Session, error) {
	if dbCfg.Type == "" {
		dbCfg.Type = "duckdb"
	}

	db, err := adapter.New(dbCfg.Type, cfg.Logger)
	if err != nil {
		return nil, err
	}
	if err := db.Connect(ctx, dbCfg); err != nil {
		return nil, err
	}

	s := New(db, cfg)
	if err := s.tracker.Refresh(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Session) Close() error {
	return s.db.Close()
}

// Subscribe registers l for table and error notifications and returns a
// function that removes it.
func (s *Session) Subscribe(l notifier.Listener) (unsubscribe func()) {
	return s.notifier.Subscribe(l)
}

// Tables returns the tracked tables ordered by name.
func (s *Session) Tables() []catalog.Table {
	return s.tracker.Tables()
}

// Reference returns a quoted SQL reference for a tracked table name.
func (s *Session) Reference(name string) string {
	return s.db.Reference(name)
}

// Table returns the tracked table with the given name.
func (s *Session) Table(name string) (catalog.Table, bool) {
	return s.tracker.Lookup(name)
}

// Results returns the model holding the latest successful result.
func (s *Session) Results() *result.Model {
	return s.results
}

// Refresh reconciles the tracked tables with the catalog.
func (s *Session) Refresh(ctx context.Context) error {
	return s.tracker.Refresh(ctx)
}

// Execute runs one statement (or a semicolon separated batch, whose last
// statement provides the result).
//
// On success the tracked tables are refreshed and the result, if the
// statement produced one, replaces the current result and is returned.
// Statements without a result set return nil.
//
// If the engine rejects the statement, the refresh is skipped, exactly one
// error notification carrying the engine's message is sent, nil is returned
// and the current result is left as it was.
//
// The error return is reserved for catalog failures during the refresh.
func (s *Session) Execute(ctx context.Context, stmt string) (*result.Set, error) {
	if strings.TrimSpace(stmt) == "" {
		return nil, nil
	}

	s.logger.Debug("executing statement", "sql", stmt)

	set, err := s.query(ctx, stmt)
	if err != nil {
		s.reportError(err)
		return nil, nil
	}

	if err := s.tracker.Refresh(ctx); err != nil {
		return nil, err
	}

	if set == nil {
		return nil, nil
	}
	s.results.SetResult(set)
	return set, nil
}

// query runs stmt and reads its rows completely before returning, so the
// catalog can be queried afterwards. The set is nil when the statement has
// no result set.
func (s *Session) query(ctx context.Context, stmt string) (*result.Set, error) {
	var set *result.Set
	_, err := s.db.Run(ctx, stmt, func(rows result.RowScanner) error {
		var scanErr error
		set, scanErr = result.Scan(rows, s.maxRows)
		return scanErr
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func (s *Session) reportError(err error) {
	msg := adapter.EngineMessage(err)
	s.logger.Warn("statement failed", "error", msg, "catalog", adapter.IsCatalogError(err))
	s.notifier.Error(msg)
}

// String describes the session for logs.
func (s *Session) String() string {
	return fmt.Sprintf("%s session (%d tables)", s.db.Name(), s.tracker.Len())
}
