package highlight

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func colorHighlighter() *Highlighter {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	return NewWithRenderer(r)
}

func plainHighlighter() *Highlighter {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	return NewWithRenderer(r)
}

func significant(tokens []Token) []Token {
	var out []Token
	for _, tok := range tokens {
		if tok.Kind != Space {
			out = append(out, tok)
		}
	}
	return out
}

func TestTokenize(t *testing.T) {
	h := New()

	tokens := significant(h.Tokenize("select count(*), \"my col\" from t where name = 'it''s' and x >= 1.5 -- tail"))

	assert.Equal(t, []Token{
		{Keyword, "select"},
		{Function, "count"},
		{Text, "("},
		{Operator, "*"},
		{Text, ")"},
		{Text, ","},
		{Identifier, `"my col"`},
		{Keyword, "from"},
		{Text, "t"},
		{Keyword, "where"},
		{Text, "name"},
		{Operator, "="},
		{String, "'it''s'"},
		{Keyword, "and"},
		{Text, "x"},
		{Operator, ">="},
		{Number, "1.5"},
		{Comment, "-- tail"},
	}, tokens)
}

func TestTokenize_RoundTrip(t *testing.T) {
	h := New()
	inputs := []string{
		"",
		"SELECT 1;",
		"SELECT *\n  FROM read_csv_auto('a.csv')\n /* block\ncomment */ LIMIT 10",
		"SELECT 'unterminated",
		"SELECT x::VARCHAR, a <> b, c || d FROM \"weird \"\" name\"",
		"SELECT héllo, ünïcode FROM t",
	}

	for _, in := range inputs {
		var b strings.Builder
		for _, tok := range h.Tokenize(in) {
			b.WriteString(tok.Text)
		}
		assert.Equal(t, in, b.String())
	}
}

func TestTokenize_BlockComment(t *testing.T) {
	tokens := significant(New().Tokenize("/* a\nb */ SELECT"))
	assert.Equal(t, []Token{{Comment, "/* a\nb */"}, {Keyword, "SELECT"}}, tokens)
}

func TestTokenize_Cast(t *testing.T) {
	tokens := significant(New().Tokenize("a::INTEGER"))
	assert.Equal(t, []Token{{Text, "a"}, {Operator, "::"}, {Keyword, "INTEGER"}}, tokens)
}

func TestHighlight_AddsStyling(t *testing.T) {
	out := colorHighlighter().Highlight("SELECT 1")
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "SELECT")
}

func TestHighlight_PreservesLayout(t *testing.T) {
	in := "SELECT a,\n       b\nFROM t -- note\nWHERE s = 'x'"
	assert.Equal(t, in, plainHighlighter().Highlight(in))

	colored := colorHighlighter().Highlight(in)
	assert.Equal(t, strings.Count(in, "\n"), strings.Count(colored, "\n"))
}
