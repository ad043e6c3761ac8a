package adapter

import (
	"errors"

	"github.com/marcboeker/go-duckdb"
)

// EngineMessage returns the engine's own error text for err, without any
// wrapping added on the way up (e.g. `Catalog Error: Table with name x does
// not exist!`).
func EngineMessage(err error) string {
	if err == nil {
		return ""
	}

	var dErr *duckdb.Error
	if errors.As(err, &dErr) {
		return dErr.Msg
	}

	// Innermost error of the wrap chain.
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// IsCatalogError reports whether err is a DuckDB catalog error, such as a
// missing or duplicate relation.
func IsCatalogError(err error) bool {
	var dErr *duckdb.Error
	return errors.As(err, &dErr) && dErr.Type == duckdb.ErrorTypeCatalog
}
