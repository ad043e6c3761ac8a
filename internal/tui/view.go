package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/leapview/internal/plot"
)

// View implements tea.Model.
func (m Model) View() string {
	l := m.layout()

	left := m.pane("Tables", m.tree.View(l.treeWidth, l.treeHeight-1, m.focus == focusTree),
		l.treeWidth, l.treeHeight, m.focus == focusTree)

	right := []string{
		m.pane("SQL", m.editor.View(), l.rightWidth, editorHeight+1, m.focus == focusEditor),
		m.pane(m.resultsTitle(), m.resultsView(l), l.rightWidth, l.resultsHeight+1, m.focus == focusResults),
	}
	if m.showLog {
		title := "Log"
		if n := m.log.errorCount(); n > 0 {
			title = fmt.Sprintf("Log (%d errors)", n)
		}
		right = append(right, m.pane(title, m.log.View(l.rightWidth, logHeight-1), l.rightWidth, logHeight, false))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, lipgloss.JoinVertical(lipgloss.Left, right...))

	sections := []string{m.headerView(), body, m.statusView()}
	if m.showHelp {
		sections = append(sections, m.help.FullHelpView(m.keys.FullHelp()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) pane(title, content string, width, height int, focused bool) string {
	style := paneStyle
	if focused {
		style = focusedPaneStyle
	}
	inner := paneTitleStyle.Render(title) + "\n" + content
	return style.Width(width).Height(height).MaxHeight(height + 2).Render(inner)
}

func (m Model) headerView() string {
	title := titleStyle.Render("leapview")
	stats := mutedStyle.Render(fmt.Sprintf("  %d tables  |  %d rows", m.tree.len(), m.results.RowCount()))
	return title + stats
}

func (m Model) resultsTitle() string {
	if m.plotKind == "" {
		if m.results.Truncated() {
			return fmt.Sprintf("Results (first %d rows)", m.results.RowCount())
		}
		return "Results"
	}
	x, y := m.mapper.Labels(m.results.Result())
	return fmt.Sprintf("Plot: %s (x=%s, y=%s)", m.plotKind, x, y)
}

func (m Model) resultsView(l layout) string {
	if m.plotKind != "" {
		return m.plotView(l.rightWidth, l.resultsHeight)
	}
	if m.results.ColumnCount() == 0 {
		return mutedStyle.Render("No results yet. Run a query to see rows here.")
	}
	return m.table.View()
}

func (m Model) plotView(width, height int) string {
	set := m.results.Result()
	if err := m.mapper.Validate(set); err != nil {
		return errorStyle.Render(err.Error())
	}
	points, err := m.mapper.Points(set)
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	x, y := m.mapper.Labels(set)
	chart := plot.Chart{Kind: m.plotKind, Width: width, Height: height, XLabel: x, YLabel: y}
	return chart.Render(points)
}

func (m Model) statusView() string {
	var status string
	switch {
	case m.executing:
		status = m.spinner.View() + " running..."
	case m.lastStmt != "":
		stmt := strings.Join(strings.Fields(m.lastStmt), " ")
		status = successStyle.Render("✓") + " " +
			m.highlighter.Highlight(truncate(stmt, max(m.width/2, 10))) +
			mutedStyle.Render(fmt.Sprintf("  %s", m.lastDuration.Round(time.Millisecond)))
	default:
		status = mutedStyle.Render("ready")
	}
	return statusBarStyle.Width(m.width).Render(status + "  " + m.help.ShortHelpView(m.keys.ShortHelp()))
}
