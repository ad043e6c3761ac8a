package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapview/internal/catalog"
	"github.com/leapstack-labs/leapview/internal/cli/output"
	"github.com/leapstack-labs/leapview/internal/result"
)

// renderSet writes a result in the renderer's effective mode.
func renderSet(r *output.Renderer, set *result.Set) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(setRecords(set)); err != nil {
			return err
		}
	case output.ModeYAML:
		if err := renderYAML(r, setRecords(set)); err != nil {
			return err
		}
	case output.ModeCSV:
		setTable(r, set).RenderCSV()
	case output.ModeMarkdown:
		setTable(r, set).RenderMarkdown()
		r.Println()
		r.Println(fmt.Sprintf("_%s_", r.Count(len(set.Rows), "row")))
	default:
		renderSetText(r, set)
	}

	if set.Truncated {
		r.Warning(fmt.Sprintf("result truncated to the first %s", r.Count(len(set.Rows), "row")))
	}
	return nil
}

func renderSetText(r *output.Renderer, set *result.Set) {
	if len(set.Rows) == 0 {
		r.Println(strings.Join(set.Columns, " | "))
		r.Muted("(0 rows)")
		return
	}

	t := setTable(r, set)
	t.SetStyle(table.StyleLight)
	t.Render()
	r.Muted(fmt.Sprintf("(%s)", r.Count(len(set.Rows), "row")))
}

func setTable(r *output.Renderer, set *result.Set) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())

	header := make(table.Row, len(set.Columns))
	for i, col := range set.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, values := range set.Rows {
		row := make(table.Row, len(values))
		for i, v := range values {
			row[i] = result.FormatValue(v)
		}
		t.AppendRow(row)
	}
	return t
}

// setRecords converts rows to column-keyed records for JSON and YAML.
func setRecords(set *result.Set) []map[string]any {
	records := make([]map[string]any, 0, len(set.Rows))
	for _, values := range set.Rows {
		record := make(map[string]any, len(set.Columns))
		for i, col := range set.Columns {
			record[col] = values[i]
		}
		records = append(records, record)
	}
	return records
}

func renderYAML(r *output.Renderer, v any) error {
	enc := yaml.NewEncoder(r.Writer())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// renderTables lists tables with their columns.
func renderTables(r *output.Renderer, tables []catalog.Table) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		if tables == nil {
			tables = []catalog.Table{}
		}
		return r.JSON(tables)
	case output.ModeYAML:
		return renderYAML(r, tables)
	case output.ModeCSV:
		t := table.NewWriter()
		t.SetOutputMirror(r.Writer())
		t.AppendHeader(table.Row{"table", "column", "type"})
		for _, tbl := range tables {
			for _, col := range tbl.Columns {
				t.AppendRow(table.Row{tbl.Name, col.Name, col.Type})
			}
		}
		t.RenderCSV()
		return nil
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, fmt.Sprintf("Tables (%d total)", len(tables))))
		for _, tbl := range tables {
			r.Println()
			r.Println(output.FormatHeader(2, tbl.Name))
			r.Println()
			for _, col := range tbl.Columns {
				r.Println(output.FormatKeyValue(col.Name, col.Type))
			}
		}
		return nil
	default:
		if len(tables) == 0 {
			r.Muted("No tables.")
			return nil
		}
		for _, tbl := range tables {
			renderTableText(r, tbl)
		}
		return nil
	}
}

// renderTableText writes a table node and its "column  TYPE" children.
func renderTableText(r *output.Renderer, tbl catalog.Table) {
	styles := r.Styles()
	r.Println(styles.TableName.Render(tbl.Name))

	width := 0
	for _, col := range tbl.Columns {
		width = max(width, len(col.Name))
	}
	for _, col := range tbl.Columns {
		r.Printf("  %s  %s\n",
			styles.Column.Render(col.Name+strings.Repeat(" ", width-len(col.Name))),
			styles.Type.Render(col.Type))
	}
}

// renderSchema writes one table's columns.
func renderSchema(r *output.Renderer, tbl catalog.Table) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(tbl)
	case output.ModeYAML:
		return renderYAML(r, tbl)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.AppendHeader(table.Row{"Column", "Type"})
	for _, col := range tbl.Columns {
		t.AppendRow(table.Row{col.Name, col.Type})
	}

	switch r.EffectiveMode() {
	case output.ModeCSV:
		t.RenderCSV()
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(2, tbl.Name))
		r.Println()
		t.RenderMarkdown()
	default:
		r.Header(1, "Table: "+tbl.Name)
		t.SetStyle(table.StyleLight)
		t.Render()
	}
	return nil
}
