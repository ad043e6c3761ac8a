// Package result holds query results and the capped, row/column addressable
// view the presentation layer reads them through.
package result

import (
	"fmt"
	"time"
)

// DefaultMaxRows caps how many rows of a result are fetched and displayed.
const DefaultMaxRows = 1000

// Set is the tabular result of one statement.
type Set struct {
	Columns []string
	Rows    [][]any

	// Truncated is set when the statement produced more rows than were
	// fetched.
	Truncated bool
}

// RowScanner is the subset of *sql.Rows that Scan needs.
type RowScanner interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// Scan reads at most maxRows rows. It looks ahead by one row to detect
// truncation and never reads further. A maxRows <= 0 uses DefaultMaxRows.
func Scan(rows RowScanner, maxRows int) (*Set, error) {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	set := &Set{Columns: cols}
	for rows.Next() {
		if len(set.Rows) == maxRows {
			set.Truncated = true
			break
		}

		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}

		for i, v := range values {
			// Convert []byte to string for readability
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		set.Rows = append(set.Rows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating result rows: %w", err)
	}

	return set, nil
}

// Empty reports whether the set has no columns, i.e. the statement did not
// produce a result set.
func (s *Set) Empty() bool {
	return s == nil || len(s.Columns) == 0
}

// ColumnIndex returns the index of the named column, or -1.
func (s *Set) ColumnIndex(name string) int {
	for i, c := range s.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// FormatValue renders a scanned value for display.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format(time.DateOnly)
		}
		return val.Format(time.DateTime)
	default:
		return fmt.Sprintf("%v", val)
	}
}
