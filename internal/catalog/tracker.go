package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

// Tracker holds the set of known tables and keeps it consistent with a
// Source. It is not safe for concurrent use; all calls are expected to come
// from the goroutine that owns the session.
type Tracker struct {
	src      Source
	observer Observer
	logger   *slog.Logger
	tables   map[string]Table

	// detectChanges re-reads the columns of tables present on both sides
	// and reports a changed schema as a drop followed by an add.
	detectChanges bool
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the tracker's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithChangeDetection enables reporting of tables whose columns changed
// while their name stayed the same.
func WithChangeDetection(enabled bool) Option {
	return func(t *Tracker) {
		t.detectChanges = enabled
	}
}

// NewTracker creates a tracker with an empty known set. A nil observer is
// allowed and discards notifications.
func NewTracker(src Source, observer Observer, opts ...Option) *Tracker {
	t := &Tracker{
		src:      src,
		observer: observer,
		logger:   slog.New(slog.DiscardHandler),
		tables:   make(map[string]Table),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tables returns the known tables ordered by name.
func (t *Tracker) Tables() []Table {
	out := make([]Table, 0, len(t.tables))
	for _, tbl := range t.tables {
		out = append(out, tbl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the known table names ordered by name.
func (t *Tracker) Names() []string {
	return sortedKeys(t.tables)
}

// Lookup returns the known table with the given name.
func (t *Tracker) Lookup(name string) (Table, bool) {
	tbl, ok := t.tables[name]
	return tbl, ok
}

// Len returns the number of known tables.
func (t *Tracker) Len() int {
	return len(t.tables)
}

// Track adds a table built outside of Refresh (e.g. by a file import) and
// reports it as added. It returns false without notifying if a table with
// the same name is already known.
func (t *Tracker) Track(tbl Table) bool {
	if _, ok := t.tables[tbl.Name]; ok {
		return false
	}
	t.tables[tbl.Name] = tbl
	t.logger.Debug("table tracked", "table", tbl.Name, "columns", len(tbl.Columns))
	t.emitAdded(tbl)
	return true
}

// Refresh re-reads the catalog and reconciles the known set with it.
// Tables only in the catalog are described and reported as added, then
// tables no longer in the catalog are removed and reported as dropped.
// Every name is processed once. Catalog errors are returned as-is and leave
// the known set unchanged.
func (t *Tracker) Refresh(ctx context.Context) error {
	names, err := t.src.ListTables(ctx)
	if err != nil {
		return fmt.Errorf("failed to list catalog tables: %w", err)
	}

	current := make(map[string]struct{}, len(names))
	for _, name := range names {
		current[name] = struct{}{}
	}

	// Describe everything first so a failing column lookup cannot leave
	// the set half-reconciled.
	var added []Table
	var changed [][2]Table
	for _, name := range sortedKeys(current) {
		old, known := t.tables[name]
		if known && !t.detectChanges {
			continue
		}
		tbl, err := Describe(ctx, t.src, name)
		if err != nil {
			return fmt.Errorf("failed to describe table %s: %w", name, err)
		}
		switch {
		case !known:
			added = append(added, tbl)
		case !old.SameSchema(tbl):
			changed = append(changed, [2]Table{old, tbl})
		}
	}

	var dropped []Table
	for _, name := range sortedKeys(t.tables) {
		if _, ok := current[name]; !ok {
			dropped = append(dropped, t.tables[name])
		}
	}

	for _, tbl := range added {
		t.tables[tbl.Name] = tbl
		t.emitAdded(tbl)
	}
	for _, tbl := range dropped {
		delete(t.tables, tbl.Name)
		t.emitDropped(tbl)
	}
	for _, pair := range changed {
		t.tables[pair[1].Name] = pair[1]
		t.emitDropped(pair[0])
		t.emitAdded(pair[1])
	}

	if len(added)+len(dropped)+len(changed) > 0 {
		t.logger.Debug("catalog reconciled",
			"added", len(added),
			"dropped", len(dropped),
			"changed", len(changed),
			"tables", len(t.tables))
	}
	return nil
}

func (t *Tracker) emitAdded(tbl Table) {
	if t.observer != nil {
		t.observer.TableAdded(tbl)
	}
}

func (t *Tracker) emitDropped(tbl Table) {
	if t.observer != nil {
		t.observer.TableDropped(tbl)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
