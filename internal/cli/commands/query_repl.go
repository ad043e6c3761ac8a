package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapview/internal/plot"
	"github.com/leapstack-labs/leapview/internal/session"
)

const (
	replPrompt     = "leapview> "
	replContPrompt = "     ...> "
)

var dotCommands = []string{".help", ".tables", ".schema", ".import", ".plot", ".clear", ".quit", ".exit"}

func runQueryREPL(cmd *cobra.Command, cc *CommandContext) error {
	ctx := cmd.Context()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     cc.Cfg.HistoryFile,
		AutoComplete:    &tableCompleter{sess: cc.Session},
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	database := cc.Cfg.Database
	if cc.Cfg.InMemory() {
		database = "in-memory"
	}
	cc.Renderer.Printf("leapview query REPL (database: %s, %s)\n", database, cc.Renderer.Count(len(cc.Session.Tables()), "table"))
	cc.Renderer.Println("Type .help for commands, .quit to exit")
	cc.Renderer.Println()

	repl := newREPL(cc)

	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Dot-commands only start a statement, never continue one
		if multiLineBuffer.Len() == 0 && strings.HasPrefix(line, ".") {
			if quit := repl.handleDotCommand(ctx, line); quit {
				break
			}
			continue
		}

		// Accumulate multi-line SQL until semicolon
		multiLineBuffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			multiLineBuffer.WriteString("\n")
			rl.SetPrompt(replContPrompt)
			continue
		}
		rl.SetPrompt(replPrompt)

		stmt := multiLineBuffer.String()
		multiLineBuffer.Reset()

		if err := cc.Execute(ctx, stmt); err != nil && !errors.Is(err, ErrStatementFailed) {
			// catalog failures leave the tracked tables unknown
			return err
		}
		cc.Renderer.Println()
	}

	return nil
}

// repl holds REPL state that outlives a single line.
type repl struct {
	cc     *CommandContext
	kind   plot.Kind
	width  int
	height int
}

func newREPL(cc *CommandContext) *repl {
	kind, err := plot.ParseKind(cc.Cfg.Plot.Kind)
	if err != nil {
		kind = plot.KindLine
	}
	return &repl{cc: cc, kind: kind, width: cc.Cfg.Plot.Width, height: cc.Cfg.Plot.Height}
}

// dotCommand is a parsed REPL command such as ".schema people".
type dotCommand struct {
	Name string
	Args []string
}

func parseDotCommand(line string) (dotCommand, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 || !strings.HasPrefix(parts[0], ".") {
		return dotCommand{}, fmt.Errorf("not a command: %q", line)
	}
	name := strings.ToLower(parts[0])
	if !slices.Contains(dotCommands, name) {
		return dotCommand{}, fmt.Errorf("unknown command: %s (type .help for commands)", name)
	}
	return dotCommand{Name: name, Args: parts[1:]}, nil
}

// handleDotCommand runs a dot-command and reports whether the REPL should exit.
func (s *repl) handleDotCommand(ctx context.Context, line string) bool {
	r := s.cc.Renderer

	command, err := parseDotCommand(line)
	if err != nil {
		r.Error(err.Error())
		return false
	}

	switch command.Name {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(r.Writer())

	case ".tables":
		if err := renderTables(r, s.cc.Session.Tables()); err != nil {
			r.Error(fmt.Sprintf("Error: %v", err))
		}

	case ".schema":
		if len(command.Args) != 1 {
			r.Error("Usage: .schema <table>")
			return false
		}
		tbl, ok := s.cc.Session.Table(command.Args[0])
		if !ok {
			r.Error(fmt.Sprintf("no such table: %s", command.Args[0]))
			return false
		}
		if err := renderSchema(r, tbl); err != nil {
			r.Error(fmt.Sprintf("Error: %v", err))
		}

	case ".import":
		if len(command.Args) != 1 {
			r.Error("Usage: .import <dir|file.csv>")
			return false
		}
		s.importPath(ctx, command.Args[0])

	case ".plot":
		if err := s.plot(command.Args); err != nil {
			r.Error(err.Error())
		}

	case ".clear":
		_, _ = fmt.Fprint(r.Writer(), "\033[H\033[2J")
	}
	return false
}

func (s *repl) importPath(ctx context.Context, path string) {
	r := s.cc.Renderer

	info, err := os.Stat(path)
	if err != nil {
		r.Error(fmt.Sprintf("Error: %v", err))
		return
	}

	if !info.IsDir() {
		if tbl, ok := s.cc.Session.CreateTableFromFile(ctx, path); ok {
			r.StatusLine(tbl.Name, "success", fmt.Sprintf("(%d columns)", len(tbl.Columns)))
		}
		return
	}

	report, err := s.cc.Session.CreateTablesFromDirectory(ctx, path)
	if err != nil {
		r.Error(fmt.Sprintf("Error: %v", err))
		return
	}
	for _, tbl := range report.Imported {
		r.StatusLine(tbl.Name, "success", fmt.Sprintf("(%d columns)", len(tbl.Columns)))
	}
	r.Muted(fmt.Sprintf("%s imported, %d failed", r.Count(len(report.Imported), "table"), len(report.Failed)))
}

// plot charts the latest result. Arguments are an optional kind followed by
// optional x and y columns, each a zero-based index or a column name.
func (s *repl) plot(args []string) error {
	set := s.cc.Session.Results().Result()
	if set.Empty() {
		return fmt.Errorf("nothing to plot: run a query first")
	}

	if len(args) > 0 {
		if kind, err := plot.ParseKind(args[0]); err == nil {
			s.kind = kind
			args = args[1:]
		}
	}
	if len(args) > 2 {
		return fmt.Errorf("usage: .plot [line|scatter] [x] [y]")
	}

	mapper := plot.DefaultMapper()
	var err error
	if len(args) > 0 {
		if mapper.X, err = resolveColumn(set.Columns, args[0]); err != nil {
			return err
		}
	}
	if len(args) > 1 {
		if mapper.Y, err = resolveColumn(set.Columns, args[1]); err != nil {
			return err
		}
	}

	points, err := mapper.Points(set)
	if err != nil {
		return err
	}
	x, y := mapper.Labels(set)
	chart := plot.Chart{Kind: s.kind, Width: s.width, Height: s.height, XLabel: x, YLabel: y}
	s.cc.Renderer.Println(chart.Render(points))
	return nil
}

// resolveColumn accepts a zero-based column index or a column name.
func resolveColumn(columns []string, ref string) (int, error) {
	if isDigits(ref) {
		if idx, err := strconv.Atoi(ref); err == nil && idx < len(columns) {
			return idx, nil
		}
		return 0, fmt.Errorf("column %s out of range (result has %d columns)", ref, len(columns))
	}
	for i, col := range columns {
		if strings.EqualFold(col, ref) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no column named %q", ref)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help                       Show this help message
  .tables                     List tables and their columns
  .schema <name>              Show the columns of a table
  .import <dir|file.csv>      Import CSV files as tables
  .plot [line|scatter] [x] [y]
                              Chart two columns of the last result
                              (columns by index or name, default 0 and 1)
  .clear                      Clear the screen
  .quit / .exit               Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for table names, columns and commands
`
	_, _ = fmt.Fprintln(w, help)
}

// tableCompleter completes the word before the cursor with tracked table
// names, their columns and dot-commands. Candidates are read on each call so
// tables created during the session are offered.
type tableCompleter struct {
	sess *session.Session
}

func (c *tableCompleter) candidates() []string {
	seen := map[string]bool{}
	var out []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, tbl := range c.sess.Tables() {
		add(tbl.Name)
		for _, col := range tbl.Columns {
			add(col.Name)
		}
	}
	for _, cmd := range dotCommands {
		add(cmd)
	}
	return out
}

// Do implements readline.AutoCompleter.
func (c *tableCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	start := pos
	for start > 0 && isCompletionRune(line[start-1]) {
		start--
	}
	prefix := strings.ToLower(string(line[start:pos]))
	if prefix == "" {
		return nil, 0
	}

	n := len([]rune(prefix))
	for _, candidate := range c.candidates() {
		runes := []rune(candidate)
		if len(runes) > n && strings.HasPrefix(strings.ToLower(candidate), prefix) {
			newLine = append(newLine, runes[n:])
		}
	}
	return newLine, n
}

func isCompletionRune(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
