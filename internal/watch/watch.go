// Package watch imports data files as they appear in a directory.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapview/internal/catalog"
	"github.com/leapstack-labs/leapview/internal/session"
)

// DefaultDebounce is how long a file must be quiet before it is imported.
const DefaultDebounce = 250 * time.Millisecond

// Importer creates tables from files.
type Importer interface {
	CreateTableFromFile(ctx context.Context, path string) (*catalog.Table, bool)
	Table(name string) (catalog.Table, bool)
}

// Config holds watcher options.
type Config struct {
	Dir      string
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher imports new data files in a directory (non-recursive). Files whose
// table is already tracked are skipped, so rewriting an imported file has no
// effect.
type Watcher struct {
	importer Importer
	dir      string
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a Watcher.
func New(importer Importer, cfg Config) *Watcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		importer: importer,
		dir:      cfg.Dir,
		debounce: debounce,
		logger:   logger,
	}
}

// Run watches until ctx is cancelled. Imports happen on a single goroutine,
// the one draining the ready channel, so the importer is never used
// concurrently.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Debug("watching data directory", "dir", w.dir)

	ready := make(chan string)
	eg, egctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer close(ready)
		return w.collect(egctx, fw, ready)
	})

	eg.Go(func() error {
		for path := range ready {
			w.importFile(egctx, path)
		}
		return nil
	})

	return eg.Wait()
}

// collect gathers data file events and sends each path to ready once it
// has been quiet for the debounce interval.
func (w *Watcher) collect(ctx context.Context, fw *fsnotify.Watcher, ready chan<- string) error {
	pending := map[string]struct{}{}
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !session.IsDataFile(event.Name) {
				continue
			}
			switch {
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				pending[event.Name] = struct{}{}
				timer.Reset(w.debounce)
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				delete(pending, event.Name)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}
			clear(pending)
			slices.Sort(paths)

			for _, path := range paths {
				select {
				case ready <- path:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}
}

func (w *Watcher) importFile(ctx context.Context, path string) {
	name := catalog.TableNameFromPath(path)
	if _, tracked := w.importer.Table(name); tracked {
		w.logger.Debug("table already tracked, skipping", "table", name, "path", path)
		return
	}
	if _, ok := w.importer.CreateTableFromFile(ctx, path); ok {
		w.logger.Info("imported data file", "table", name, "path", path)
	}
}
