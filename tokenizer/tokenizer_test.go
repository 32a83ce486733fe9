// Copyright © 2024 The StrataRegula authors

package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContextDepth(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"blank with spaces", "      ", 0},
		{"root key", "services", 0},
		{"indented key", "  frontend", 1},
		{"same-line value adds one", "    host: 5432", 3},
		{"trailing colon", "    database:", 2},
		{"dotted", "  prod.", 1},
		{"odd indentation rounds down", "   key", 1},
		{"tab counts as whitespace", "\t\tkey", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseContext(tt.text).Depth)
		})
	}
}

func TestParseContextCurrentPattern(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", ""},
		{"partial key", "  fron", "fron"},
		{"trailing dot", "prod.", "prod"},
		{"dotted partial", "config.db.ho", "config.db"},
		{"key value", "  host: localhost", "host"},
		{"key only", "database:", "database"},
		{"dot wins over colon", "  route: web.fr", "route: web"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseContext(tt.text).CurrentPattern)
		})
	}
}

func TestParseContextPosition(t *testing.T) {
	ctx := ParseContext("services:\n  front")
	assert.Equal(t, Position{Line: 1, Column: 7}, ctx.Position)

	ctx = ParseContext("")
	assert.Equal(t, Position{}, ctx.Position)

	ctx = ParseContext("a:\n  héllo")
	assert.Equal(t, 7, ctx.Position.Column)
}

func TestParseContextAncestors(t *testing.T) {
	t.Run("nested with comments and blanks", func(t *testing.T) {
		text := "services:\n  frontend:\n    # replicas below\n\n    repl"
		assert.Equal(t, []string{"services", "frontend"}, ParseContext(text).ParentPatterns)
	})
	t.Run("siblings skipped", func(t *testing.T) {
		text := "db:\n  host: x\n  port: 1\n  us"
		assert.Equal(t, []string{"db"}, ParseContext(text).ParentPatterns)
	})
	t.Run("stops at root", func(t *testing.T) {
		text := "x: 1\ny:\n  z"
		assert.Equal(t, []string{"y"}, ParseContext(text).ParentPatterns)
	})
	t.Run("root line has no ancestors", func(t *testing.T) {
		text := "a:\n  b: 1\nc"
		assert.Empty(t, ParseContext(text).ParentPatterns)
	})
	t.Run("empty current line is unbounded", func(t *testing.T) {
		text := "a:\n  b:\n"
		assert.Equal(t, []string{"a", "b"}, ParseContext(text).ParentPatterns)
	})
	t.Run("list items are skipped", func(t *testing.T) {
		text := "routes:\n  - name: web\n    wei"
		assert.Equal(t, []string{"routes"}, ParseContext(text).ParentPatterns)
	})
	t.Run("hyphenated keys", func(t *testing.T) {
		text := "payment-service:\n  replicas"
		assert.Equal(t, []string{"payment-service"}, ParseContext(text).ParentPatterns)
	})
}

func TestAncestorIndentationIncreases(t *testing.T) {
	doc := strings.Join([]string{
		"prod:",
		"  # comment",
		"  services:",
		"",
		"    api:",
		"      replicas: 2",
		"      database:",
		"        host: db",
		"        po",
	}, "\n")
	lines := strings.Split(doc, "\n")
	indentOf := map[string]int{}
	for _, l := range lines[:len(lines)-1] {
		if m := ancestorKeyRe.FindStringSubmatch(strings.TrimSpace(l)); m != nil {
			indentOf[m[1]] = leadingWhitespace(l)
		}
	}

	parents := ParseContext(doc).ParentPatterns
	require.Equal(t, []string{"prod", "services", "api", "database"}, parents)
	for i := 1; i < len(parents); i++ {
		assert.Less(t, indentOf[parents[i-1]], indentOf[parents[i]])
	}
}

func TestIsValuePosition(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"dotted value", "target: web.", true},
		{"dotted value partial", "  target: web.fr", true},
		{"plain value", "name: x", false},
		{"key only", "name:", false},
		{"indented under colon", "database:\n  ", true},
		{"indented partial under colon", "database:\n  ho", true},
		{"not indented under colon", "database:\nho", false},
		{"previous not colon", "a: 1\n  b", false},
		{"plain key", "services", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValuePosition(tt.text))
		})
	}
}

func TestTextBeforeCursor(t *testing.T) {
	text := "services:\n  frontend:\n    replicas: 3"
	assert.Equal(t, "services:\n  fron", TextBeforeCursor(text, Position{Line: 1, Column: 6}))
	assert.Equal(t, "", TextBeforeCursor(text, Position{Line: 0, Column: 0}))
	assert.Equal(t, "services:", TextBeforeCursor(text, Position{Line: 0, Column: 99}))
	assert.Equal(t, text, TextBeforeCursor(text, Position{Line: 5, Column: 0}))
	assert.Equal(t, "é", TextBeforeCursor("éa", Position{Line: 0, Column: 1}))
}

func TestOffsetAt(t *testing.T) {
	text := "ab\ncd\nef"
	assert.Equal(t, 0, OffsetAt(text, Position{}))
	assert.Equal(t, 4, OffsetAt(text, Position{Line: 1, Column: 1}))
	assert.Equal(t, 5, OffsetAt(text, Position{Line: 1, Column: 10}))
	assert.Equal(t, len(text), OffsetAt(text, Position{Line: 9}))
}
