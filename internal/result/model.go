package result

// Model exposes the latest result as a read model for a passive view.
// Rows past the display cap are never exposed.
type Model struct {
	set     *Set
	maxRows int
	onReset []func()
}

// NewModel creates an empty model capped at maxRows (DefaultMaxRows if <= 0).
func NewModel(maxRows int) *Model {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &Model{set: &Set{}, maxRows: maxRows}
}

// MaxRows returns the display cap.
func (m *Model) MaxRows() int {
	return m.maxRows
}

// SetResult replaces the current result and notifies reset observers.
func (m *Model) SetResult(s *Set) {
	if s == nil {
		s = &Set{}
	}
	m.set = s
	for _, fn := range m.onReset {
		fn()
	}
}

// OnReset registers fn to be called whenever the result is replaced.
func (m *Model) OnReset(fn func()) {
	m.onReset = append(m.onReset, fn)
}

// Result returns the current result.
func (m *Model) Result() *Set {
	return m.set
}

// Columns returns the column names of the current result.
func (m *Model) Columns() []string {
	return m.set.Columns
}

// RowCount returns the number of displayable rows.
func (m *Model) RowCount() int {
	return min(len(m.set.Rows), m.maxRows)
}

// ColumnCount returns the number of columns.
func (m *Model) ColumnCount() int {
	return len(m.set.Columns)
}

// Header returns the name of column col, or "" if out of range.
func (m *Model) Header(col int) string {
	if col < 0 || col >= len(m.set.Columns) {
		return ""
	}
	return m.set.Columns[col]
}

// Value returns the raw value at (row, col). ok is false outside the
// displayable range.
func (m *Model) Value(row, col int) (v any, ok bool) {
	if row < 0 || row >= m.RowCount() || col < 0 || col >= m.ColumnCount() {
		return nil, false
	}
	return m.set.Rows[row][col], true
}

// Text returns the display text at (row, col), or "" outside the range.
func (m *Model) Text(row, col int) string {
	v, ok := m.Value(row, col)
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// Truncated reports whether rows were left out of the current result.
func (m *Model) Truncated() bool {
	return m.set.Truncated || len(m.set.Rows) > m.maxRows
}
