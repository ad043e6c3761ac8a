// Package highlight colours SQL text for terminal display.
package highlight

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

var (
	keywords = []string{
		"SELECT", "FROM", "WHERE", "JOIN", "LEFT", "RIGHT", "INNER", "OUTER",
		"FULL", "CROSS", "ON", "USING", "AS", "INSERT", "INTO", "VALUES",
		"UPDATE", "SET", "DELETE", "CREATE", "REPLACE", "TABLE", "VIEW",
		"DROP", "ALTER", "ADD", "COLUMN", "RENAME", "TO", "PRIMARY", "KEY",
		"FOREIGN", "REFERENCES", "INDEX", "UNIQUE", "NOT", "NULL", "DEFAULT",
		"AND", "OR", "IN", "IS", "EXISTS", "BETWEEN", "LIKE", "ILIKE", "LIMIT",
		"OFFSET", "ORDER", "BY", "GROUP", "HAVING", "DISTINCT", "ALL", "UNION",
		"EXCEPT", "INTERSECT", "CASE", "WHEN", "THEN", "ELSE", "END", "BEGIN",
		"COMMIT", "ROLLBACK", "TRANSACTION", "IF", "WITH", "RECURSIVE", "ASC",
		"DESC", "TRUE", "FALSE", "COPY", "DESCRIBE", "SHOW", "PRAGMA", "QUALIFY",
		"WINDOW", "OVER", "PARTITION", "INTEGER", "BIGINT", "VARCHAR", "DOUBLE",
		"BOOLEAN", "DATE", "TIMESTAMP",
	}

	functions = []string{
		"COUNT", "SUM", "AVG", "MIN", "MAX", "LENGTH", "SUBSTR", "UPPER",
		"LOWER", "TRIM", "CONCAT", "ROUND", "ABS", "NOW", "CURRENT_DATE",
		"CURRENT_TIMESTAMP", "COALESCE", "CAST", "TRY_CAST", "STRFTIME",
		"DATE_TRUNC", "READ_CSV_AUTO", "READ_CSV", "READ_PARQUET", "RANGE",
	}
)

// Kind classifies a token.
type Kind int

const (
	Text Kind = iota
	Space
	Keyword
	Function
	String
	Identifier
	Number
	Operator
	Comment
)

// Token is a run of source text with its classification.
type Token struct {
	Kind Kind
	Text string
}

// Highlighter renders SQL with one lipgloss style per token kind.
type Highlighter struct {
	keywords  map[string]bool
	functions map[string]bool
	styles    map[Kind]lipgloss.Style
}

// New creates a highlighter using the default lipgloss renderer.
func New() *Highlighter {
	return NewWithRenderer(lipgloss.DefaultRenderer())
}

// NewWithRenderer creates a highlighter whose styles render through r.
func NewWithRenderer(r *lipgloss.Renderer) *Highlighter {
	h := &Highlighter{
		keywords:  make(map[string]bool, len(keywords)),
		functions: make(map[string]bool, len(functions)),
	}
	for _, kw := range keywords {
		h.keywords[kw] = true
	}
	for _, fn := range functions {
		h.functions[fn] = true
	}

	h.styles = map[Kind]lipgloss.Style{
		Keyword:    r.NewStyle().Foreground(lipgloss.Color("#FF79C6")).Bold(true),
		Function:   r.NewStyle().Foreground(lipgloss.Color("#8BE9FD")),
		String:     r.NewStyle().Foreground(lipgloss.Color("#F1FA8C")),
		Identifier: r.NewStyle().Foreground(lipgloss.Color("#50FA7B")),
		Number:     r.NewStyle().Foreground(lipgloss.Color("#BD93F9")),
		Operator:   r.NewStyle().Foreground(lipgloss.Color("#FFB86C")),
		Comment:    r.NewStyle().Foreground(lipgloss.Color("#6272A4")).Italic(true),
	}
	return h
}

// Highlight returns sql with ANSI styling. Whitespace and line breaks are
// preserved.
func (h *Highlighter) Highlight(sql string) string {
	var b strings.Builder
	for _, tok := range h.Tokenize(sql) {
		style, ok := h.styles[tok.Kind]
		if !ok {
			b.WriteString(tok.Text)
			continue
		}
		// style line by line so a multi-line comment or string keeps its
		// breaks intact
		for i, part := range strings.Split(tok.Text, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if part != "" {
				b.WriteString(style.Render(part))
			}
		}
	}
	return b.String()
}

// Tokenize splits sql into tokens. Concatenating the token texts gives back
// sql unchanged.
func (h *Highlighter) Tokenize(sql string) []Token {
	var tokens []Token
	src := []rune(sql)

	for i := 0; i < len(src); {
		start := i
		r := src[i]
		var kind Kind

		switch {
		case unicode.IsSpace(r):
			for i < len(src) && unicode.IsSpace(src[i]) {
				i++
			}
			kind = Space

		case r == '-' && peek(src, i+1) == '-':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			kind = Comment

		case r == '/' && peek(src, i+1) == '*':
			i += 2
			for i < len(src) && !(src[i] == '*' && peek(src, i+1) == '/') {
				i++
			}
			i = min(i+2, len(src))
			kind = Comment

		case r == '\'':
			i = scanQuoted(src, i, '\'')
			kind = String

		case r == '"':
			i = scanQuoted(src, i, '"')
			kind = Identifier

		case unicode.IsDigit(r) || (r == '.' && unicode.IsDigit(peek(src, i+1))):
			for i < len(src) && (unicode.IsDigit(src[i]) || src[i] == '.' || src[i] == '_') {
				i++
			}
			kind = Number

		case isWordRune(r):
			for i < len(src) && (isWordRune(src[i]) || unicode.IsDigit(src[i])) {
				i++
			}
			kind = h.classifyWord(string(src[start:i]))

		case strings.ContainsRune("=<>!+-*/%|:", r):
			i++
			for i < len(src) && strings.ContainsRune("=<>|:", src[i]) {
				i++
			}
			kind = Operator

		default:
			i++
			kind = Text
		}

		tokens = append(tokens, Token{Kind: kind, Text: string(src[start:i])})
	}
	return tokens
}

func (h *Highlighter) classifyWord(word string) Kind {
	upper := strings.ToUpper(word)
	switch {
	case h.functions[upper]:
		return Function
	case h.keywords[upper]:
		return Keyword
	default:
		return Text
	}
}

// scanQuoted returns the index after the closing quote starting at i. A
// doubled quote is an escaped quote. Unterminated text runs to the end.
func scanQuoted(src []rune, i int, quote rune) int {
	i++
	for i < len(src) {
		if src[i] == quote {
			if peek(src, i+1) == quote {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return i
}

func peek(src []rune, i int) rune {
	if i < len(src) {
		return src[i]
	}
	return 0
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
