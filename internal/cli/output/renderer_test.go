package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTest(mode OutputMode, tty bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, tty, mode), out, errOut
}

func TestMode(t *testing.T) {
	tests := map[string]OutputMode{
		"":         ModeAuto,
		"auto":     ModeAuto,
		"table":    ModeText,
		"TEXT":     ModeText,
		"md":       ModeMarkdown,
		"markdown": ModeMarkdown,
		"json":     ModeJSON,
		"csv":      ModeCSV,
		"yml":      ModeYAML,
		"bogus":    ModeAuto,
	}
	for in, want := range tests {
		assert.Equal(t, want, Mode(in), "Mode(%q)", in)
	}
}

func TestEffectiveMode(t *testing.T) {
	r, _, _ := newTest(ModeAuto, true)
	assert.Equal(t, ModeText, r.EffectiveMode())

	r, _, _ = newTest(ModeAuto, false)
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())

	r, _, _ = newTest(ModeJSON, true)
	assert.Equal(t, ModeJSON, r.EffectiveMode())
	assert.Equal(t, ModeJSON, r.Mode())
}

func TestHeader(t *testing.T) {
	r, out, _ := newTest(ModeMarkdown, false)
	r.Header(2, "Tables")
	assert.Equal(t, "## Tables\n", out.String())

	r, out, _ = newTest(ModeText, false)
	r.Header(1, "Tables")
	assert.Equal(t, "Tables\n", out.String())
}

func TestNonTTYHasNoANSI(t *testing.T) {
	r, out, errOut := newTest(ModeText, false)

	r.Success("done")
	r.Muted("quiet")
	r.StatusLine("people.csv", "error", "(duplicate)")
	r.Error("boom")
	r.Warning("careful")

	assert.NotContains(t, out.String(), "\x1b[")
	assert.NotContains(t, errOut.String(), "\x1b[")
	assert.Equal(t, "✓ done\nquiet\n✗ people.csv (duplicate)\n", out.String())
	assert.Equal(t, "boom\n! careful\n", errOut.String())
}

func TestJSON(t *testing.T) {
	r, out, _ := newTest(ModeJSON, false)
	require.NoError(t, r.JSON(map[string]int{"rows": 2}))
	assert.JSONEq(t, `{"rows": 2}`, out.String())
}

func TestCount(t *testing.T) {
	r, _, _ := newTest(ModeText, false)
	assert.Equal(t, "1 row", r.Count(1, "row"))
	assert.Equal(t, "0 rows", r.Count(0, "row"))
	assert.Equal(t, "1,000 rows", r.Count(1000, "row"))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(1, "Title"))
	assert.Equal(t, "### Deep", FormatHeader(3, "Deep"))
	assert.Equal(t, "# Zero", FormatHeader(0, "Zero"))
	assert.Equal(t, "- **Rows**: 3", FormatKeyValue("Rows", "3"))
}

func TestWidthDefault(t *testing.T) {
	r, _, _ := newTest(ModeText, true)
	assert.Equal(t, defaultWidth, r.Width())
	assert.True(t, r.IsTTY())
}
