package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapview/internal/catalog"
)

// tree is the table list: one node per table with a "column  TYPE" child
// per column. Nodes keep the order their tables were added in.
type tree struct {
	tables []catalog.Table
	cursor int
	offset int
}

func (t *tree) index(name string) int {
	return slices.IndexFunc(t.tables, func(tbl catalog.Table) bool { return tbl.Name == name })
}

// add appends a node. A name can only appear once.
func (t *tree) add(tbl catalog.Table) error {
	if t.index(tbl.Name) >= 0 {
		return fmt.Errorf("table %s is already listed", tbl.Name)
	}
	t.tables = append(t.tables, tbl)
	return nil
}

// remove deletes the node for name, which must exist exactly once.
func (t *tree) remove(name string) error {
	i := t.index(name)
	if i < 0 {
		return fmt.Errorf("table %s is not listed", name)
	}
	t.tables = slices.Delete(t.tables, i, i+1)
	if t.cursor >= len(t.tables) {
		t.cursor = max(len(t.tables)-1, 0)
	}
	return nil
}

func (t *tree) len() int {
	return len(t.tables)
}

func (t *tree) selected() (catalog.Table, bool) {
	if t.cursor < 0 || t.cursor >= len(t.tables) {
		return catalog.Table{}, false
	}
	return t.tables[t.cursor], true
}

func (t *tree) moveUp() {
	if t.cursor > 0 {
		t.cursor--
	}
}

func (t *tree) moveDown() {
	if t.cursor < len(t.tables)-1 {
		t.cursor++
	}
}

// lines renders every node and child, returning the line index of the
// selected node.
func (t *tree) lines(width int, focused bool) ([]string, int) {
	var out []string
	selectedLine := 0
	for i, tbl := range t.tables {
		name := truncate(tbl.Name, width-2)
		if i == t.cursor && focused {
			selectedLine = len(out)
			out = append(out, selectedTableStyle.Render("▾ "+name))
		} else {
			if i == t.cursor {
				selectedLine = len(out)
			}
			out = append(out, tableNameStyle.Render("▾ "+name))
		}

		colWidth := 0
		for _, col := range tbl.Columns {
			colWidth = max(colWidth, len(col.Name))
		}
		for _, col := range tbl.Columns {
			child := fmt.Sprintf("  %-*s  %s", colWidth, col.Name, col.Type)
			if width > 0 && len([]rune(child)) > width {
				out = append(out, columnTypeStyle.Render(truncate(child, width)))
				continue
			}
			out = append(out, fmt.Sprintf("  %-*s  %s", colWidth, col.Name, columnTypeStyle.Render(col.Type)))
		}
	}
	return out, selectedLine
}

// View renders the tree into height lines, scrolling to keep the selected
// node visible.
func (t *tree) View(width, height int, focused bool) string {
	if len(t.tables) == 0 {
		return mutedStyle.Render("No tables yet.")
	}

	lines, selected := t.lines(width, focused)
	if selected < t.offset {
		t.offset = selected
	}
	if height > 0 && selected >= t.offset+height {
		t.offset = selected - height + 1
	}
	end := len(lines)
	if height > 0 {
		end = min(t.offset+height, len(lines))
	}
	return strings.Join(lines[t.offset:end], "\n")
}

func truncate(s string, width int) string {
	if width <= 0 || len([]rune(s)) <= width {
		return s
	}
	runes := []rune(s)
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
