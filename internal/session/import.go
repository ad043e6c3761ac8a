package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leapview/internal/adapter"
	"github.com/leapstack-labs/leapview/internal/catalog"
)

// DataFileExt is the extension of files picked up by directory imports.
const DataFileExt = ".csv"

// ImportReport summarizes a directory import.
type ImportReport struct {
	Dir      string          `json:"dir" yaml:"dir"`
	Imported []catalog.Table `json:"imported" yaml:"imported"`
	Failed   []FileError     `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// FileError is a data file that could not be imported.
type FileError struct {
	Path    string `json:"path" yaml:"path"`
	Message string `json:"message" yaml:"message"`
}

// IsDataFile reports whether path has the data file extension.
func IsDataFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), DataFileExt)
}

// DataFiles lists the data files directly inside dir (non-recursive),
// ordered by name.
func DataFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !IsDataFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// CreateTablesFromDirectory imports every data file directly inside dir as
// a table. A file that fails to import is reported through the error
// notification and the import carries on with the next file. The returned
// error is only for a directory that cannot be read.
func (s *Session) CreateTablesFromDirectory(ctx context.Context, dir string) (ImportReport, error) {
	report := ImportReport{Dir: dir}

	files, err := DataFiles(dir)
	if err != nil {
		return report, err
	}

	s.logger.Debug("importing data directory", "dir", dir, "files", len(files))

	for _, path := range files {
		tbl, err := s.importFile(ctx, path)
		if err != nil {
			report.Failed = append(report.Failed, FileError{Path: path, Message: err.Error()})
			continue
		}
		report.Imported = append(report.Imported, tbl)
	}

	s.logger.Info("data directory imported",
		"dir", dir,
		"imported", len(report.Imported),
		"failed", len(report.Failed))
	return report, nil
}

// CreateTableFromFile imports a single data file as a table named after the
// file. Failures are reported through the error notification and the
// second result is false.
func (s *Session) CreateTableFromFile(ctx context.Context, path string) (*catalog.Table, bool) {
	tbl, err := s.importFile(ctx, path)
	if err != nil {
		return nil, false
	}
	return &tbl, true
}

// importFile loads path, tracks the new table and reports failures. The
// returned error carries the already reported message.
func (s *Session) importFile(ctx context.Context, path string) (catalog.Table, error) {
	name := catalog.TableNameFromPath(path)

	if err := s.db.LoadCSV(ctx, name, path); err != nil {
		return catalog.Table{}, s.reportFileError(path, err)
	}

	tbl, err := catalog.Describe(ctx, s.db, name)
	if err != nil {
		return catalog.Table{}, s.reportFileError(path, err)
	}

	s.tracker.Track(tbl)
	s.logger.Debug("data file imported", "table", name, "path", path)
	return tbl, nil
}

func (s *Session) reportFileError(path string, err error) error {
	msg := fmt.Sprintf("%s: %s", filepath.Base(path), adapter.EngineMessage(err))
	s.logger.Warn("data file import failed", "path", path, "error", adapter.EngineMessage(err))
	s.notifier.Error(msg)
	return errors.New(msg)
}
