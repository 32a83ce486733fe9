// Copyright © 2024 The StrataRegula authors

// Package tokenizer reconstructs the completion context of a cursor from
// raw StrataRegula text. It is heuristic and line/indentation based: every
// input, however irregular, produces a structurally valid result.
package tokenizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// IndentWidth is the assumed number of whitespace characters per nesting
// level. Irregular indentation rounds down.
const IndentWidth = 2

// Position is a 0-based line and character column.
type Position struct {
	Line   int
	Column int
}

// PatternContext describes what the cursor sits in: its depth, the pattern
// fragment being typed and the enclosing keys, outermost first.
type PatternContext struct {
	Depth          int
	CurrentPattern string
	ParentPatterns []string
	Position       Position
}

// HasParent reports whether key is one of the context's ancestors.
func (c PatternContext) HasParent(key string) bool {
	for _, p := range c.ParentPatterns {
		if p == key {
			return true
		}
	}
	return false
}

// ancestorKeyRe matches the leading identifier of a trimmed line.
var ancestorKeyRe = regexp.MustCompile(`^([A-Za-z_][\w-]*):?`)

// ParseContext builds the PatternContext for text that ends at the cursor.
// The caller slices the document down to the cursor first.
func ParseContext(textBeforeCursor string) PatternContext {
	lines := strings.Split(textBeforeCursor, "\n")
	current := lines[len(lines)-1]
	previous := lines[:len(lines)-1]

	return PatternContext{
		Depth:          cursorDepth(current),
		CurrentPattern: currentPattern(current),
		ParentPatterns: ancestors(previous, current),
		Position: Position{
			Line:   len(lines) - 1,
			Column: utf8.RuneCountInString(current),
		},
	}
}

// cursorDepth is the indentation level of line, plus one when the line
// already holds a same-line "key: value" (the cursor is then at value
// level).
func cursorDepth(line string) int {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return 0
	}
	level := indentLevel(line)
	if strings.Contains(trimmed, ":") && !strings.HasSuffix(trimmed, ":") {
		return level + 1
	}
	return level
}

// currentPattern returns the fragment being typed. Dotted input drops its
// last (incomplete) segment; "key: ..." yields the key; anything else is a
// partial key.
func currentPattern(line string) string {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return ""
	case strings.Contains(trimmed, "."):
		return trimmed[:strings.LastIndex(trimmed, ".")]
	case strings.Contains(trimmed, ":"):
		return strings.TrimSpace(trimmed[:strings.Index(trimmed, ":")])
	default:
		return trimmed
	}
}

// ancestors scans previous lines bottom-up and collects keys that are
// strictly less indented than the last one recorded, starting from the
// current line's indentation. An empty current line sets no bound.
// Scanning stops after a key at column 0.
func ancestors(previous []string, current string) []string {
	anchor := leadingWhitespace(current)
	bounded := current != ""

	var parents []string
	for i := len(previous) - 1; i >= 0; i-- {
		line := previous[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		indent := leadingWhitespace(line)
		if bounded && indent >= anchor {
			continue
		}
		m := ancestorKeyRe.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		parents = append([]string{m[1]}, parents...)
		anchor, bounded = indent, true
		if indent == 0 {
			break
		}
	}
	return parents
}

// IsValuePosition reports whether the cursor is typing a value: either the
// current line has a colon followed by nothing or by a dotted fragment, or
// the preceding line ends with a colon and the current line is indented
// further.
func IsValuePosition(textBeforeCursor string) bool {
	lines := strings.Split(textBeforeCursor, "\n")
	current := lines[len(lines)-1]
	trimmed := strings.TrimSpace(current)

	if i := strings.Index(trimmed, ":"); i >= 0 && !strings.HasSuffix(trimmed, ":") {
		after := strings.TrimSpace(trimmed[i+1:])
		if after == "" || strings.Contains(after, ".") {
			return true
		}
	}

	if len(lines) > 1 {
		prev := lines[len(lines)-2]
		if strings.HasSuffix(strings.TrimSpace(prev), ":") {
			return leadingWhitespace(current) > leadingWhitespace(prev)
		}
	}
	return false
}

// leadingWhitespace counts the whitespace characters that start line.
func leadingWhitespace(line string) int {
	n := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n
}

func indentLevel(line string) int {
	return leadingWhitespace(line) / IndentWidth
}
