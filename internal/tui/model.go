// Package tui is the full-screen terminal interface: a table tree, a SQL
// editor, the result table or chart, and a log of notifications.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/leapview/internal/adapter"
	"github.com/leapstack-labs/leapview/internal/highlight"
	"github.com/leapstack-labs/leapview/internal/plot"
	"github.com/leapstack-labs/leapview/internal/result"
	"github.com/leapstack-labs/leapview/internal/session"
)

type focus int

const (
	focusEditor focus = iota
	focusResults
	focusTree
	focusCount
)

const (
	editorHeight = 5
	logHeight    = 6
	minColWidth  = 6
	maxColWidth  = 30
)

// Options configures the UI.
type Options struct {
	// DataDir is imported when the UI starts (optional).
	DataDir string
	// MaxRows caps the rows kept for display.
	MaxRows int
	// PlotKind is the chart kind shown first when plotting is switched on.
	PlotKind plot.Kind
	Logger   *slog.Logger
}

// Model represents the application state.
type Model struct {
	ctx         context.Context
	sess        *session.Session
	events      *eventBuffer
	unsubscribe func()
	logger      *slog.Logger
	dataDir     string

	editor      textarea.Model
	table       table.Model
	spinner     spinner.Model
	help        help.Model
	highlighter *highlight.Highlighter
	keys        keyMap

	tree    tree
	log     logPane
	results *result.Model

	plotKind      plot.Kind // empty while the chart is off
	preferredKind plot.Kind
	mapper        plot.Mapper

	width        int
	height       int
	focus        focus
	showLog      bool
	showHelp     bool
	executing    bool
	lastStmt     string
	lastDuration time.Duration
	fatal        error
}

// New creates the model and subscribes it to sess. Tables already tracked
// by the session are listed right away.
func New(ctx context.Context, sess *session.Session, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = result.DefaultMaxRows
	}
	kind := opts.PlotKind
	if kind == "" {
		kind = plot.KindLine
	}

	ta := textarea.New()
	ta.Placeholder = "Enter SQL, then press ctrl+r to run it..."
	ta.CharLimit = 0
	ta.ShowLineNumbers = true
	ta.SetHeight(editorHeight)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle().Background(bgLight)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(textMuted)
	ta.FocusedStyle.Text = lipgloss.NewStyle().Foreground(textPrimary)
	ta.FocusedStyle.LineNumber = lipgloss.NewStyle().Foreground(textMuted)
	ta.Focus()

	t := table.New(
		table.WithColumns([]table.Column{{Title: "Results", Width: 20}}),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(primaryColor).
		BorderBottom(true).
		Bold(true).
		Foreground(primaryColor)
	s.Selected = s.Selected.
		Foreground(bgDark).
		Background(secondaryColor).
		Bold(false)
	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	events := &eventBuffer{}
	m := Model{
		ctx:           ctx,
		sess:          sess,
		events:        events,
		unsubscribe:   sess.Subscribe(events),
		logger:        logger,
		dataDir:       opts.DataDir,
		editor:        ta,
		table:         t,
		spinner:       sp,
		help:          help.New(),
		highlighter:   highlight.New(),
		keys:          keys,
		log:           newLogPane(),
		results:       result.NewModel(maxRows),
		preferredKind: kind,
		mapper:        plot.DefaultMapper(),
		width:         100,
		height:        30,
		showLog:       true,
		executing:     opts.DataDir != "",
	}
	for _, tbl := range sess.Tables() {
		_ = m.tree.add(tbl)
	}
	m.updateLayout()
	return m
}

// Close unsubscribes the model from the session.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Err returns the catalog failure that stopped the UI, if any.
func (m Model) Err() error {
	return m.fatal
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.dataDir != "" {
		cmds = append(cmds, m.spinner.Tick, m.importDir(m.dataDir))
	}
	return tea.Batch(cmds...)
}

type execDoneMsg struct {
	stmt     string
	set      *result.Set
	err      error
	events   []event
	duration time.Duration
}

type importDoneMsg struct {
	dir    string
	report session.ImportReport
	err    error
	events []event
}

// runStatement executes stmt off the UI goroutine. Input is gated while it
// runs, so the session is never used concurrently.
func (m Model) runStatement(stmt string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		set, err := m.sess.Execute(m.ctx, stmt)
		return execDoneMsg{
			stmt:     stmt,
			set:      set,
			err:      err,
			events:   m.events.drain(),
			duration: time.Since(start),
		}
	}
}

func (m Model) importDir(dir string) tea.Cmd {
	return func() tea.Msg {
		report, err := m.sess.CreateTablesFromDirectory(m.ctx, dir)
		return importDoneMsg{dir: dir, report: report, err: err, events: m.events.drain()}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.executing {
			return m, nil // Ignore input while executing
		}
		return m.handleKey(msg)

	case execDoneMsg:
		m.executing = false
		m.applyEvents(msg.events)
		if msg.err != nil {
			m.logger.Error("catalog refresh failed", "error", msg.err)
			m.fatal = msg.err
			m.log.error(adapter.EngineMessage(msg.err))
			return m, tea.Quit
		}
		m.lastStmt = msg.stmt
		m.lastDuration = msg.duration
		if msg.set != nil {
			m.setResult(msg.set)
		}
		return m, nil

	case importDoneMsg:
		m.executing = false
		m.applyEvents(msg.events)
		if msg.err != nil {
			m.log.error(msg.err.Error())
			return m, nil
		}
		m.log.info(fmt.Sprintf("imported %d of %d files from %s",
			len(msg.report.Imported), len(msg.report.Imported)+len(msg.report.Failed), msg.dir))
		return m, nil

	case spinner.TickMsg:
		if m.executing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Execute):
		stmt := m.editor.Value()
		if strings.TrimSpace(stmt) == "" {
			return m, nil
		}
		m.executing = true
		return m, tea.Batch(m.spinner.Tick, m.runStatement(stmt))

	case key.Matches(msg, m.keys.Clear):
		m.editor.Reset()

	case key.Matches(msg, m.keys.NextPane):
		m.setFocus((m.focus + 1) % focusCount)

	case key.Matches(msg, m.keys.ToggleLog):
		m.showLog = !m.showLog
		m.updateLayout()

	case key.Matches(msg, m.keys.Plot):
		m.togglePlot()

	case key.Matches(msg, m.keys.PlotX):
		m.mapper.X = m.nextColumn(m.mapper.X)

	case key.Matches(msg, m.keys.PlotY):
		m.mapper.Y = m.nextColumn(m.mapper.Y)

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp

	default:
		return m.updateFocused(msg)
	}
	return m, nil
}

func (m Model) updateFocused(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusEditor:
		m.editor, cmd = m.editor.Update(msg)
	case focusResults:
		m.table, cmd = m.table.Update(msg)
	case focusTree:
		switch msg.String() {
		case "up", "k":
			m.tree.moveUp()
		case "down", "j":
			m.tree.moveDown()
		case "enter":
			if tbl, ok := m.tree.selected(); ok {
				m.editor.SetValue(fmt.Sprintf("SELECT * FROM %s;", m.sess.Reference(tbl.Name)))
				m.setFocus(focusEditor)
			}
		}
	}
	return m, cmd
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	if f == focusEditor {
		m.editor.Focus()
	} else {
		m.editor.Blur()
	}
	if f == focusResults {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

// applyEvents mirrors session notifications into the tree and the log.
func (m *Model) applyEvents(events []event) {
	for _, e := range events {
		switch e.kind {
		case eventAdded:
			if err := m.tree.add(e.table); err != nil {
				m.log.error(err.Error())
				continue
			}
			m.log.info(fmt.Sprintf("table %s added (%d columns)", e.table.Name, len(e.table.Columns)))
		case eventDropped:
			if err := m.tree.remove(e.table.Name); err != nil {
				m.log.error(err.Error())
				continue
			}
			m.log.info(fmt.Sprintf("table %s dropped", e.table.Name))
		case eventError:
			m.log.error(e.message)
		}
	}
}

func (m *Model) setResult(set *result.Set) {
	m.results.SetResult(set)
	if m.mapper.Validate(m.results.Result()) != nil {
		m.mapper = plot.DefaultMapper()
	}
	m.refreshTable()
}

// refreshTable copies the result model into the table widget.
func (m *Model) refreshTable() {
	cols := make([]table.Column, m.results.ColumnCount())
	for c := range cols {
		width := len(m.results.Header(c)) + 2
		for r := 0; r < m.results.RowCount(); r++ {
			width = max(width, len([]rune(m.results.Text(r, c)))+2)
		}
		cols[c] = table.Column{Title: m.results.Header(c), Width: min(max(width, minColWidth), maxColWidth)}
	}

	rows := make([]table.Row, m.results.RowCount())
	for r := range rows {
		row := make(table.Row, len(cols))
		for c := range cols {
			row[c] = m.results.Text(r, c)
		}
		rows[r] = row
	}

	// rows must never have more cells than the table has columns
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// togglePlot cycles off -> preferred kind -> other kind -> off.
func (m *Model) togglePlot() {
	switch {
	case m.plotKind == "":
		m.plotKind = m.preferredKind
	case m.plotKind.Next() == m.preferredKind:
		m.plotKind = ""
	default:
		m.plotKind = m.plotKind.Next()
	}
}

func (m Model) nextColumn(i int) int {
	n := m.results.ColumnCount()
	if n == 0 {
		return i
	}
	return (i + 1) % n
}

type layout struct {
	treeWidth     int
	treeHeight    int
	rightWidth    int
	resultsHeight int
}

func (m Model) layout() layout {
	treeWidth := min(max(m.width/4, 20), 40)
	rightWidth := max(m.width-treeWidth-4, 20)

	// header, status bar, editor box, results box title and border
	resultsHeight := m.height - 2 - (editorHeight + 2) - 3
	if m.showLog {
		resultsHeight -= logHeight + 2
	}
	if m.showHelp {
		resultsHeight -= 3
	}

	return layout{
		treeWidth:     treeWidth,
		treeHeight:    max(m.height-4, 1),
		rightWidth:    rightWidth,
		resultsHeight: max(resultsHeight, 3),
	}
}

func (m *Model) updateLayout() {
	l := m.layout()
	m.editor.SetWidth(l.rightWidth)
	m.table.SetWidth(l.rightWidth)
	m.table.SetHeight(l.resultsHeight)
	m.help.Width = m.width
}
