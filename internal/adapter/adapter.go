// Package adapter provides the database engine behind leapview: an
// interface for executing SQL and reading the catalog, and its DuckDB
// implementation.
package adapter

import (
	"context"
	"database/sql"

	"github.com/leapstack-labs/leapview/internal/catalog"
	"github.com/leapstack-labs/leapview/internal/result"
)

// Config holds the configuration for opening a database.
type Config struct {
	// Type specifies the engine (e.g., "duckdb")
	Type string

	// Path is the database file. Empty or ":memory:" opens an in-memory
	// database that lives only as long as the session.
	Path string

	// Options contains additional driver-specific settings passed as
	// DSN query parameters (e.g. threads, access_mode)
	Options map[string]string
}

// Rows wraps sql.Rows to provide a consistent interface across adapters.
type Rows struct {
	*sql.Rows
}

// Adapter is the engine as seen by the session: statement execution plus
// the catalog queries the schema tracker reconciles against.
type Adapter interface {
	catalog.Source

	// Connect opens the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement and returns its rows. DuckDB answers
	// every statement with rows; DDL yields a single status column.
	Query(ctx context.Context, sql string) (*Rows, error)

	// Run executes a statement or batch and passes the rows of the last
	// statement to scan only if it produces a result set, reporting whether
	// it did.
	Run(ctx context.Context, sql string, scan func(result.RowScanner) error) (bool, error)

	// LoadCSV materializes a CSV file as a new table, letting the engine
	// infer column types. It fails if the table already exists.
	LoadCSV(ctx context.Context, tableName string, filePath string) error

	// Reference returns a quoted SQL reference for a listed table name.
	Reference(name string) string

	// Name returns the engine name (e.g. "duckdb").
	Name() string
}
