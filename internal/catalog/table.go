// Package catalog keeps an in-memory view of the tables in the database
// catalog and reports which tables appear and disappear between refreshes.
package catalog

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
)

// Column is a single column of a table as reported by the engine.
// Type is the engine's native type label (e.g. "VARCHAR", "BIGINT") and is
// never reinterpreted.
type Column struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Table is the tracked view of one catalog table: its name and the column
// schema it had when it was observed.
type Table struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []Column `json:"columns" yaml:"columns"`
}

// SameSchema reports whether both tables have the same ordered columns.
func (t Table) SameSchema(other Table) bool {
	return slices.Equal(t.Columns, other.Columns)
}

// Source is the live catalog the tracker reconciles against.
type Source interface {
	// ListTables returns the names of all tables currently in the catalog.
	ListTables(ctx context.Context) ([]string, error)

	// Columns returns the ordered columns of a table.
	Columns(ctx context.Context, table string) ([]Column, error)
}

// Observer receives table lifecycle notifications from a Tracker.
type Observer interface {
	TableAdded(t Table)
	TableDropped(t Table)
}

// TableNameFromPath derives a table name from a data file path: the file
// stem with hyphens replaced by underscores.
func TableNameFromPath(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(stem, "-", "_")
}

// Describe builds a Table record for name by reading its columns from src.
func Describe(ctx context.Context, src Source, name string) (Table, error) {
	cols, err := src.Columns(ctx, name)
	if err != nil {
		return Table{}, err
	}
	return Table{Name: name, Columns: cols}, nil
}
