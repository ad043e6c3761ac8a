package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver

	"github.com/leapstack-labs/leapview/internal/catalog"
)

func init() {
	Register("duckdb", func(logger *slog.Logger) Adapter { return NewDuckDBAdapter(logger) })
}

// DuckDBAdapter implements the Adapter interface for DuckDB.
type DuckDBAdapter struct {
	db     *sql.DB
	config Config
	logger *slog.Logger

	mu        sync.Mutex
	relations map[string]relation // by tracked name, from the last ListTables
}

// NewDuckDBAdapter creates a new DuckDB adapter instance.
func NewDuckDBAdapter(logger *slog.Logger) *DuckDBAdapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DuckDBAdapter{logger: logger}
}

// NewDuckDBAdapterFromDB wraps an already opened database handle.
func NewDuckDBAdapterFromDB(db *sql.DB, logger *slog.Logger) *DuckDBAdapter {
	a := NewDuckDBAdapter(logger)
	a.db = db
	return a
}

// Connect establishes a connection to DuckDB.
// Use ":memory:" (or an empty path) for an in-memory database.
func (a *DuckDBAdapter) Connect(ctx context.Context, cfg Config) error {
	dsn := duckDBDSN(cfg)

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	// Temporary tables, USE and SET are scoped to a DuckDB connection, so the
	// session keeps exactly one.
	db.SetMaxOpenConns(1)

	a.db = db
	a.config = cfg
	a.logger.Debug("connected to duckdb", "path", displayPath(cfg.Path))

	return nil
}

// duckDBDSN builds the driver DSN: the database path followed by options as
// query parameters.
func duckDBDSN(cfg Config) string {
	path := cfg.Path
	if path == ":memory:" {
		path = ""
	}
	if len(cfg.Options) == 0 {
		return path
	}
	params := url.Values{}
	for k, v := range cfg.Options {
		params.Set(k, v)
	}
	return path + "?" + params.Encode()
}

func displayPath(path string) string {
	if path == "" {
		return ":memory:"
	}
	return path
}

// Close closes the DuckDB connection.
func (a *DuckDBAdapter) Close() error {
	if a.db != nil {
		a.logger.Debug("closing database connection")
		return a.db.Close()
	}
	return nil
}

// Name returns "duckdb".
func (a *DuckDBAdapter) Name() string {
	return "duckdb"
}

// Exec executes a SQL statement that doesn't return rows.
func (a *DuckDBAdapter) Exec(ctx context.Context, sqlStr string) error {
	if a.db == nil {
		return fmt.Errorf("database connection not established")
	}

	_, err := a.db.ExecContext(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}

	return nil
}

// Query executes a SQL statement that returns rows.
func (a *DuckDBAdapter) Query(ctx context.Context, sqlStr string) (*Rows, error) {
	if a.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := a.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	return &Rows{Rows: rows}, nil
}

// relation locates a table or view in the engine catalog.
type relation struct {
	catalog string
	schema  string
	name    string

	// parts is how many of catalog, schema and name the tracked name
	// carries, counted from the right.
	parts int
}

// qualify sets parts for the current database and schema: the bare name
// inside the current schema (including temporary tables), qualified
// otherwise.
func (r *relation) qualify(currentDB, currentSchema string) {
	inDB := r.catalog == currentDB || r.catalog == tempCatalog
	switch {
	case inDB && r.schema == currentSchema:
		r.parts = 1
	case inDB:
		r.parts = 2
	default:
		r.parts = 3
	}
}

func (r relation) displayName() string {
	switch r.parts {
	case 1:
		return r.name
	case 2:
		return qualifyPart(r.schema) + "." + qualifyPart(r.name)
	default:
		return qualifyPart(r.catalog) + "." + qualifyPart(r.schema) + "." + qualifyPart(r.name)
	}
}

func (r relation) reference() string {
	switch r.parts {
	case 1:
		return QuoteIdent(r.name)
	case 2:
		return QuoteIdent(r.schema) + "." + QuoteIdent(r.name)
	default:
		return QuoteIdent(r.catalog) + "." + QuoteIdent(r.schema) + "." + QuoteIdent(r.name)
	}
}

const tempCatalog = "temp"

var simpleIdent = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func qualifyPart(s string) string {
	if simpleIdent.MatchString(s) {
		return s
	}
	return QuoteIdent(s)
}

// ListTables returns the names of the tables and views in every attached
// catalog and schema. Names in the current schema are bare; others are
// qualified as schema.table (or catalog.schema.table outside the current
// database). A temporary table shadows a permanent one of the same name.
func (a *DuckDBAdapter) ListTables(ctx context.Context) ([]string, error) {
	if a.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT table_catalog, table_schema, table_name,
		       current_database(), current_schema()
		FROM information_schema.tables
		ORDER BY table_catalog = 'temp' DESC, table_catalog, table_schema, table_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query table names: %w", err)
	}
	defer func() { _ = rows.Close() }()

	relations := make(map[string]relation)
	var names []string
	for rows.Next() {
		var rel relation
		var currentDB, currentSchema string
		if err := rows.Scan(&rel.catalog, &rel.schema, &rel.name, &currentDB, &currentSchema); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		rel.qualify(currentDB, currentSchema)
		name := rel.displayName()
		if _, dup := relations[name]; dup {
			continue
		}
		relations[name] = rel
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating table names: %w", err)
	}

	sort.Strings(names)

	a.mu.Lock()
	a.relations = relations
	a.mu.Unlock()

	return names, nil
}

func (a *DuckDBAdapter) lookup(name string) (relation, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rel, ok := a.relations[name]
	return rel, ok
}

// Reference returns a fully quoted SQL reference for a name returned by
// ListTables. Names not seen in the last listing are quoted as a single
// identifier.
func (a *DuckDBAdapter) Reference(name string) string {
	if rel, ok := a.lookup(name); ok {
		return rel.reference()
	}
	return QuoteIdent(name)
}

// Columns returns the ordered column names and types of a table. Names from
// the last ListTables call are resolved to their catalog and schema; other
// names are looked up in the current schema.
func (a *DuckDBAdapter) Columns(ctx context.Context, table string) ([]catalog.Column, error) {
	if a.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	rel, ok := a.lookup(table)
	if !ok {
		rel = relation{name: table}
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_catalog = coalesce(nullif(?, ''), current_database())
		  AND table_schema = coalesce(nullif(?, ''), current_schema())
		  AND table_name = ?
		ORDER BY ordinal_position
	`, rel.catalog, rel.schema, rel.name)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []catalog.Column
	for rows.Next() {
		var col catalog.Column
		if err := rows.Scan(&col.Name, &col.Type); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	return columns, nil
}

// LoadCSV creates a table from a CSV file.
// DuckDB infers the header and column types from the file contents.
func (a *DuckDBAdapter) LoadCSV(ctx context.Context, tableName string, filePath string) error {
	if a.db == nil {
		return fmt.Errorf("database connection not established")
	}

	// Get absolute path for the file
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	query := fmt.Sprintf(
		"CREATE TABLE %s AS SELECT * FROM read_csv_auto(%s)",
		QuoteIdent(tableName),
		quoteLiteral(absPath),
	)

	a.logger.Debug("loading csv", "table", tableName, "path", absPath)
	if err := a.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to load CSV: %w", err)
	}

	return nil
}

// QuoteIdent quotes a SQL identifier.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Ensure DuckDBAdapter implements Adapter interface
var _ Adapter = (*DuckDBAdapter)(nil)
