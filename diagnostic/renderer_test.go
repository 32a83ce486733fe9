// Copyright © 2024 The StrataRegula authors

package diagnostic

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRenderer returns a Renderer with colors disabled and a fake source reader.
func testRenderer(sources map[string]string) *Renderer {
	return &Renderer{
		Color: ColorNever,
		SourceReader: func(name string) ([]byte, error) {
			s, ok := sources[name]
			if !ok {
				return nil, errors.New("not found: " + name)
			}
			return []byte(s), nil
		},
	}
}

func render(t *testing.T, r *Renderer, d Diagnostic) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	return buf.String()
}

func TestRenderDecodeError(t *testing.T) {
	r := testRenderer(map[string]string{
		"bad.yaml": "a: 1\n\tb: 2\n",
	})
	err := errors.New("yaml: line 2: found character that cannot start any token")

	got := render(t, r, FromDecodeError("bad.yaml", err, SeverityError))
	assert.Contains(t, got, "error: yaml: line 2: found character that cannot start any token")
	assert.Contains(t, got, "--> bad.yaml:2:1")
	assert.Contains(t, got, "2 |      b: 2", "tabs expand to four spaces")
	assert.Contains(t, got, "^^^^^")
	assert.NotContains(t, got, "note:")
}

func TestRenderWarningWithNote(t *testing.T) {
	r := testRenderer(map[string]string{"bad.yaml": "key: [1, 2\n"})
	err := errors.New("yaml: line 1: did not find expected ',' or ']'")

	got := render(t, r, FromDecodeError("bad.yaml", err, SeverityWarning))
	assert.Contains(t, got, "warning: yaml: line 1")
	assert.Contains(t, got, "= note: no patterns were learned from this file")
}

func TestRenderNoSource(t *testing.T) {
	r := testRenderer(nil)
	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Message:  "some error",
		Spans:    []Span{{File: "<stdin>", Line: 5, Col: 3}},
	})
	assert.Contains(t, got, "error: some error")
	assert.Contains(t, got, "--> <stdin>:5:3")
	assert.Contains(t, got, "|")
	assert.NotContains(t, got, "^")
}

func TestRenderDecodeErrorWithoutLine(t *testing.T) {
	r := testRenderer(map[string]string{"x.yaml": "a: 1\n"})
	got := render(t, r, FromDecodeError("x.yaml", errors.New("unexpected EOF"), SeverityError))
	assert.Contains(t, got, "--> x.yaml")
	assert.NotContains(t, got, "x.yaml:")
	assert.NotContains(t, got, "^")
}

func TestRenderAutoDetectEndCol(t *testing.T) {
	r := testRenderer(map[string]string{"svc.yaml": "frontend:\n  port: abc\n"})
	got := render(t, r, Diagnostic{
		Severity: SeverityWarning,
		Message:  "port is not a number",
		Spans:    []Span{{File: "svc.yaml", Line: 2, Col: 9, Label: "expected an integer"}},
	})
	assert.Contains(t, got, "^^^ expected an integer")
	assert.NotContains(t, got, "^^^^")
}

func TestRenderMultipleDiagnostics(t *testing.T) {
	r := testRenderer(nil)
	var buf bytes.Buffer
	require.NoError(t, r.RenderAll(&buf, []Diagnostic{
		{Severity: SeverityError, Message: "first"},
		{Severity: SeverityNote, Message: "second"},
	}))
	parts := strings.Split(buf.String(), "\n\n")
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0], "error: first")
	assert.Contains(t, parts[1], "note: second")
}

func TestRenderNoSpans(t *testing.T) {
	got := render(t, testRenderer(nil), Diagnostic{
		Severity: SeverityError,
		Message:  "config file not found",
	})
	assert.Equal(t, "error: config file not found\n", got)
}

func TestRenderColorAlways(t *testing.T) {
	r := testRenderer(nil)
	r.Color = ColorAlways
	got := render(t, r, Diagnostic{Severity: SeverityError, Message: "boom"})
	assert.Contains(t, got, "\x1b[")
}

func TestErrorLine(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"yaml syntax", errors.New("yaml: line 7: mapping values are not allowed in this context"), 7},
		{"wrapped", errors.New("decoding document: yaml: line 12: did not find expected key"), 12},
		{"no line", errors.New("unexpected EOF"), 0},
		{"nil", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorLine(tt.err))
		})
	}
}

func TestParseColorMode(t *testing.T) {
	assert.Equal(t, ColorAlways, ParseColorMode("always"))
	assert.Equal(t, ColorNever, ParseColorMode("never"))
	assert.Equal(t, ColorAuto, ParseColorMode("auto"))
	assert.Equal(t, ColorAuto, ParseColorMode("bogus"))
	assert.Equal(t, "warning", SeverityWarning.String())
}
