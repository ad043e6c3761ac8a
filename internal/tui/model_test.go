package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapview/internal/adapter"
	"github.com/leapstack-labs/leapview/internal/plot"
	"github.com/leapstack-labs/leapview/internal/session"
	"github.com/leapstack-labs/leapview/internal/testutil"
)

var ctrlR = tea.KeyMsg{Type: tea.KeyCtrlR}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()

	sess, err := session.Open(context.Background(),
		adapter.Config{Type: "duckdb", Path: ":memory:"},
		session.Config{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	m := New(context.Background(), sess, opts)
	t.Cleanup(m.Close)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

// execute types stmt into the editor, presses ctrl+r and feeds the
// statement's completion message back into the model.
func execute(t *testing.T, m Model, stmt string) Model {
	t.Helper()
	m.editor.SetValue(stmt)
	m, cmd := update(t, m, ctrlR)
	require.NotNil(t, cmd)
	require.True(t, m.executing)

	m, _ = update(t, m, m.runStatement(stmt)())
	require.False(t, m.executing)
	return m
}

func TestModel_CreateTableAddsNode(t *testing.T) {
	m := newTestModel(t, Options{})
	m = execute(t, m, "CREATE TABLE people (id INTEGER, name VARCHAR)")

	require.Equal(t, 1, m.tree.len())
	sel, ok := m.tree.selected()
	require.True(t, ok)
	assert.Equal(t, "people", sel.Name)
	assert.Len(t, sel.Columns, 2)
	assert.Equal(t, 0, m.log.errorCount())
	assert.Equal(t, "CREATE TABLE people (id INTEGER, name VARCHAR)", m.lastStmt)

	m = execute(t, m, "DROP TABLE people")
	assert.Equal(t, 0, m.tree.len())
}

func TestModel_QueryFillsTable(t *testing.T) {
	m := newTestModel(t, Options{})
	m = execute(t, m, "SELECT range AS n, range * 2 AS doubled FROM range(3)")

	assert.Equal(t, 3, m.results.RowCount())
	cols := m.table.Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, "n", cols[0].Title)
	assert.Equal(t, "doubled", cols[1].Title)

	rows := m.table.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "2", rows[1][1])

	// fewer columns than before must not leave stale cells behind
	m = execute(t, m, "SELECT 42 AS answer")
	require.Len(t, m.table.Columns(), 1)
	assert.Equal(t, []string{"42"}, []string(m.table.Rows()[0]))
}

func TestModel_FailureLogsErrorAndKeepsResult(t *testing.T) {
	m := newTestModel(t, Options{})
	m = execute(t, m, "SELECT 1 AS one")
	m = execute(t, m, "SELECT * FROM missing_table")

	assert.Equal(t, 1, m.log.errorCount())
	assert.Contains(t, m.log.entries[len(m.log.entries)-1].text, "missing_table")
	assert.Equal(t, []string{"one"}, m.results.Columns())
	assert.NoError(t, m.Err())
}

func TestModel_MaxRows(t *testing.T) {
	m := newTestModel(t, Options{MaxRows: 10})
	m = execute(t, m, "SELECT * FROM range(50)")

	assert.Equal(t, 10, m.results.RowCount())
	assert.True(t, m.results.Truncated())
	assert.Len(t, m.table.Rows(), 10)
	assert.Contains(t, m.resultsTitle(), "first 10 rows")
}

func TestModel_BlankStatementDoesNothing(t *testing.T) {
	m := newTestModel(t, Options{})
	m.editor.SetValue("   ")
	m, cmd := update(t, m, ctrlR)
	assert.Nil(t, cmd)
	assert.False(t, m.executing)
}

func TestModel_IgnoresInputWhileExecuting(t *testing.T) {
	m := newTestModel(t, Options{})
	m.editor.SetValue("SELECT 1")
	m, _ = update(t, m, ctrlR)
	require.True(t, m.executing)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Equal(t, "SELECT 1", m.editor.Value())
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, Options{})
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_ImportOnStart(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"people.csv":         "id,name\n1,Alice\n2,Bob\n",
		"test-with-dash.csv": "day,value\n1,10\n",
		"animals.csv":        "name\nCat\n",
	})

	m := newTestModel(t, Options{DataDir: dir})
	assert.True(t, m.executing)
	require.NotNil(t, m.Init())

	// a table that already exists makes its file fail to import
	_, err := m.sess.Execute(context.Background(), "CREATE TABLE animals (id INTEGER)")
	require.NoError(t, err)

	m, _ = update(t, m, m.importDir(dir)())
	assert.False(t, m.executing)

	var names []string
	for _, tbl := range m.tree.tables {
		names = append(names, tbl.Name)
	}
	assert.ElementsMatch(t, []string{"animals", "people", "test_with_dash"}, names)
	assert.Equal(t, 1, m.log.errorCount())
	assert.Contains(t, m.log.entries[len(m.log.entries)-1].text, "imported 2 of 3 files")
}

func TestModel_ImportMissingDir(t *testing.T) {
	m := newTestModel(t, Options{DataDir: "/does/not/exist"})
	m, _ = update(t, m, m.importDir("/does/not/exist")())
	assert.False(t, m.executing)
	assert.Equal(t, 1, m.log.errorCount())
}

func TestModel_TreeEnterWritesSelect(t *testing.T) {
	m := newTestModel(t, Options{})
	m = execute(t, m, `CREATE TABLE "my table" (a INTEGER)`)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusTree, m.focus)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, `SELECT * FROM "my table";`, m.editor.Value())
	assert.Equal(t, focusEditor, m.focus)
}

func TestModel_TreeEnterQualifiesOtherSchemas(t *testing.T) {
	m := newTestModel(t, Options{})
	m = execute(t, m, "CREATE SCHEMA s2; CREATE TABLE s2.other (a INTEGER)")

	sel, ok := m.tree.selected()
	require.True(t, ok)
	assert.Equal(t, "s2.other", sel.Name)

	m.setFocus(focusTree)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, `SELECT * FROM "s2"."other";`, m.editor.Value())
}

func TestModel_PlotToggle(t *testing.T) {
	m := newTestModel(t, Options{PlotKind: plot.KindScatter})
	ctrlP := tea.KeyMsg{Type: tea.KeyCtrlP}

	m, _ = update(t, m, ctrlP)
	assert.Equal(t, plot.KindScatter, m.plotKind)
	m, _ = update(t, m, ctrlP)
	assert.Equal(t, plot.KindLine, m.plotKind)
	m, _ = update(t, m, ctrlP)
	assert.Equal(t, plot.Kind(""), m.plotKind)
}

func TestModel_PlotColumns(t *testing.T) {
	m := newTestModel(t, Options{})
	m = execute(t, m, "SELECT range AS x, range * range AS sq, 1 AS one FROM range(5)")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Contains(t, m.resultsTitle(), "x=x, y=sq")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, 2, m.mapper.Y)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, 0, m.mapper.Y)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Equal(t, 1, m.mapper.X)

	// a narrower result resets a mapping that no longer fits
	m.mapper = plot.Mapper{X: 2, Y: 1}
	m = execute(t, m, "SELECT 1 AS a, 2 AS b")
	assert.Equal(t, plot.DefaultMapper(), m.mapper)
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = execute(t, m, "CREATE TABLE people (id INTEGER, name VARCHAR)")
	m = execute(t, m, "SELECT 1 AS x, 2 AS y")

	view := m.View()
	assert.Contains(t, view, "leapview")
	assert.Contains(t, view, "Tables")
	assert.Contains(t, view, "people")
	assert.Contains(t, view, "Results")
	assert.Contains(t, view, "Log")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.False(t, m.showLog)
	assert.NotContains(t, m.View(), "table people added")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Contains(t, m.View(), "Plot: line")
}

func TestModel_PlotViewReportsBadColumns(t *testing.T) {
	m := newTestModel(t, Options{})
	m = execute(t, m, "SELECT 1 AS v")
	out := m.plotView(60, 10)
	assert.Contains(t, out, "nothing to plot")
}
