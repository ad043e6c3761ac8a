package adapter

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/marcboeker/go-duckdb"

	"github.com/leapstack-labs/leapview/internal/result"
)

// Run executes a statement, or a semicolon separated batch whose last
// statement decides the outcome. If that statement produces a result set,
// scan is called with its rows before they are closed. Run reports whether
// scan was called.
//
// DDL and other statements that only report a status (DuckDB answers CREATE
// with a Count column and DROP with a Success column) do not count as a
// result set.
func (a *DuckDBAdapter) Run(ctx context.Context, sqlStr string, scan func(result.RowScanner) error) (bool, error) {
	if a.db == nil {
		return false, fmt.Errorf("database connection not established")
	}

	if _, ok := a.db.Driver().(duckdb.Driver); !ok {
		return a.runGeneric(ctx, sqlStr, scan)
	}

	conn, err := a.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	var scanned bool
	err = conn.Raw(func(dc any) error {
		duck, ok := dc.(*duckdb.Conn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", dc)
		}
		var runErr error
		scanned, runErr = runDuckDB(ctx, duck, sqlStr, scan)
		return runErr
	})
	return scanned, err
}

func runDuckDB(ctx context.Context, conn *duckdb.Conn, sqlStr string, scan func(result.RowScanner) error) (bool, error) {
	// Preparing a batch executes every statement but the last.
	prepared, err := conn.PrepareContext(ctx, sqlStr)
	if err != nil {
		return false, err
	}
	stmt, ok := prepared.(*duckdb.Stmt)
	if !ok {
		_ = prepared.Close()
		return false, fmt.Errorf("unexpected statement type %T", prepared)
	}
	defer func() { _ = stmt.Close() }()

	kind, err := stmt.StatementType()
	if err != nil {
		return false, err
	}
	if !producesRows(kind) {
		_, err := stmt.ExecContext(ctx, nil)
		return false, err
	}

	rows, err := stmt.QueryContext(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()

	cols := rows.Columns()
	if kind != duckdb.STATEMENT_TYPE_SELECT && isStatusColumns(cols) {
		return false, drain(rows, len(cols))
	}
	return true, scan(&driverRows{rows: rows, values: make([]driver.Value, len(cols))})
}

// runGeneric serves drivers other than DuckDB (test doubles) by looking at
// the returned columns only.
func (a *DuckDBAdapter) runGeneric(ctx context.Context, sqlStr string, scan func(result.RowScanner) error) (bool, error) {
	rows, err := a.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return false, err
	}
	if isStatusColumns(cols) {
		return false, nil
	}
	return true, scan(rows)
}

// producesRows reports whether a statement of kind t can answer with rows
// worth showing. DML is included for RETURNING clauses; its plain row count
// is filtered out by isStatusColumns. SHOW, DESCRIBE and SUMMARIZE parse as
// SELECT.
func producesRows(t duckdb.StmtType) bool {
	switch t {
	case duckdb.STATEMENT_TYPE_SELECT,
		duckdb.STATEMENT_TYPE_EXPLAIN,
		duckdb.STATEMENT_TYPE_PRAGMA,
		duckdb.STATEMENT_TYPE_CALL,
		duckdb.STATEMENT_TYPE_RELATION,
		duckdb.STATEMENT_TYPE_EXECUTE,
		duckdb.STATEMENT_TYPE_INSERT,
		duckdb.STATEMENT_TYPE_UPDATE,
		duckdb.STATEMENT_TYPE_DELETE:
		return true
	}
	return false
}

func isStatusColumns(cols []string) bool {
	return len(cols) == 0 || slices.Equal(cols, []string{"Count"}) || slices.Equal(cols, []string{"Success"})
}

func drain(rows driver.Rows, n int) error {
	dest := make([]driver.Value, n)
	for {
		if err := rows.Next(dest); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// driverRows presents driver rows through the subset of *sql.Rows that
// result.Scan reads. Destinations must be *any.
type driverRows struct {
	rows   driver.Rows
	values []driver.Value
	err    error
	done   bool
}

func (r *driverRows) Columns() ([]string, error) {
	return r.rows.Columns(), nil
}

func (r *driverRows) Next() bool {
	if r.done {
		return false
	}
	if err := r.rows.Next(r.values); err != nil {
		r.done = true
		if !errors.Is(err, io.EOF) {
			r.err = err
		}
		return false
	}
	return true
}

func (r *driverRows) Scan(dest ...any) error {
	if len(dest) != len(r.values) {
		return fmt.Errorf("expected %d destinations, got %d", len(r.values), len(dest))
	}
	for i, d := range dest {
		p, ok := d.(*any)
		if !ok {
			return fmt.Errorf("unsupported scan destination %T", d)
		}
		if b, ok := r.values[i].([]byte); ok {
			*p = slices.Clone(b)
			continue
		}
		*p = r.values[i]
	}
	return nil
}

func (r *driverRows) Err() error {
	return r.err
}
