// Copyright © 2024 The StrataRegula authors

package tokenizer

import (
	"strings"
	"unicode/utf8"
)

// TokenType classifies a token of a single line.
type TokenType int

const (
	TokenKey TokenType = iota
	TokenValue
	TokenPartialKey
	TokenPartialValue
	TokenListItem
)

func (t TokenType) String() string {
	switch t {
	case TokenKey:
		return "key"
	case TokenValue:
		return "value"
	case TokenPartialKey:
		return "partial_key"
	case TokenPartialValue:
		return "partial_value"
	case TokenListItem:
		return "list_item"
	default:
		return "unknown"
	}
}

// TokenContext is one token on one line. Offset is the character column
// where the token starts. CompletionPoint marks tokens after which more
// text can be inserted (an empty value, a trailing dot).
type TokenContext struct {
	Token           string
	Type            TokenType
	Depth           int
	Offset          int
	CompletionPoint bool
}

// End is the column just past the token.
func (t TokenContext) End() int {
	return t.Offset + utf8.RuneCountInString(t.Token)
}

// TokenizeLine splits a line into a key token and, when the line has a
// colon, a value token one level deeper. A "- " marker before a key is
// not part of the key token. An empty value is a zero-length
// completion point at the end of the line. Lines without a colon are a
// single partial key (or list item when they start with a dash). Blank
// lines have no tokens.
func TokenizeLine(line string) []TokenContext {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	lead := leadingWhitespace(line)
	depth := lead / IndentWidth

	colon := strings.Index(trimmed, ":")
	if colon < 0 {
		typ := TokenPartialKey
		if strings.HasPrefix(trimmed, "-") {
			typ = TokenListItem
		}
		return []TokenContext{{
			Token:           trimmed,
			Type:            typ,
			Depth:           depth,
			Offset:          lead,
			CompletionPoint: strings.HasSuffix(trimmed, "."),
		}}
	}

	key, marker := trimListMarker(trimmed[:colon])
	tokens := []TokenContext{{
		Token:  strings.TrimSpace(key),
		Type:   TokenKey,
		Depth:  depth,
		Offset: lead + marker,
	}}

	rest := trimmed[colon+1:]
	value := strings.TrimSpace(rest)
	if value == "" {
		return append(tokens, TokenContext{
			Type:            TokenValue,
			Depth:           depth + 1,
			Offset:          utf8.RuneCountInString(line),
			CompletionPoint: true,
		})
	}

	typ := TokenValue
	partial := strings.HasSuffix(value, ".")
	if partial {
		typ = TokenPartialValue
	}
	offset := lead + utf8.RuneCountInString(trimmed[:colon+1]) + leadingWhitespace(rest)
	return append(tokens, TokenContext{
		Token:           value,
		Type:            typ,
		Depth:           depth + 1,
		Offset:          offset,
		CompletionPoint: partial,
	})
}

// trimListMarker strips a leading "- " sequence marker from the key part
// of a line and returns the key and the marker's width in characters.
func trimListMarker(key string) (string, int) {
	if !strings.HasPrefix(key, "-") {
		return key, 0
	}
	rest := key[1:]
	n := leadingWhitespace(rest)
	if n == 0 {
		return key, 0
	}
	return rest[n:], 1 + n
}

// FindCompletionContext returns the token under a byte offset of text.
// When no token spans the offset's column, an empty partial-key
// completion point at that column is synthesized. It reports false only
// when offset lies outside text.
func FindCompletionContext(text string, offset int) (TokenContext, bool) {
	if offset < 0 || offset > len(text) {
		return TokenContext{}, false
	}
	start := 0
	for _, line := range strings.Split(text, "\n") {
		end := start + len(line)
		if offset <= end {
			column := utf8.RuneCountInString(line[:offset-start])
			for _, tok := range TokenizeLine(line) {
				if tok.Offset <= column && column <= tok.End() {
					return tok, true
				}
			}
			return TokenContext{
				Type:            TokenPartialKey,
				Depth:           indentLevel(line),
				Offset:          column,
				CompletionPoint: true,
			}, true
		}
		start = end + 1
	}
	return TokenContext{}, false
}

// OffsetAt converts a line/column position of text to a byte offset. The
// column is clamped to the line; lines past the end map to len(text).
func OffsetAt(text string, pos Position) int {
	lines := strings.Split(text, "\n")
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(lines) {
		return len(text)
	}
	offset := 0
	for _, line := range lines[:pos.Line] {
		offset += len(line) + 1
	}
	return offset + len(clampColumn(lines[pos.Line], pos.Column))
}

// TextBeforeCursor returns text up to the cursor: all lines before the
// cursor line plus the cursor line cut at the column. A line past the end
// returns the whole text.
func TextBeforeCursor(text string, pos Position) string {
	lines := strings.Split(text, "\n")
	if pos.Line >= len(lines) {
		return text
	}
	if pos.Line < 0 {
		return ""
	}
	before := append([]string{}, lines[:pos.Line]...)
	before = append(before, clampColumn(lines[pos.Line], pos.Column))
	return strings.Join(before, "\n")
}

// clampColumn returns the prefix of line holding the first column
// characters.
func clampColumn(line string, column int) string {
	if column <= 0 {
		return ""
	}
	n := 0
	for i := range line {
		if n == column {
			return line[:i]
		}
		n++
	}
	return line
}
