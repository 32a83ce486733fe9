// Copyright © 2024 The StrataRegula authors

package lsp

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/strataregula/strataregula-lsp/pattern"
	"github.com/strataregula/strataregula-lsp/tokenizer"
)

// textDocumentHover handles the textDocument/hover request. Hovering a
// key shows what has been learned about its dotted path.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	content, _, _ := doc.snapshot()

	path, ok := keyPathAt(content, cursorPosition(params.Position))
	if !ok {
		return nil, nil
	}
	p, ok := s.store.Get(path)
	if !ok {
		return nil, nil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: buildHoverContent(p),
		},
	}, nil
}

// keyPathAt returns the dotted path of the key under pos: its ancestor
// keys followed by the key itself. Keys inside sequence items carry the
// item index, as in "routes[0].weight".
func keyPathAt(content string, pos tokenizer.Position) (string, bool) {
	tok, ok := tokenizer.FindCompletionContext(content, tokenizer.OffsetAt(content, pos))
	if !ok || tok.Token == "" {
		return "", false
	}
	if tok.Type != tokenizer.TokenKey && tok.Type != tokenizer.TokenPartialKey {
		return "", false
	}
	lines := strings.Split(content, "\n")
	if pos.Line < 0 || pos.Line >= len(lines) {
		return "", false
	}

	segments := []string{tok.Token}
	anchor := tok.Offset
	// itemCol is the dash column of the innermost sequence item found so
	// far, or -1 once its owning key has been found.
	itemCol := -1
	if cur := scanLine(lines[pos.Line]); cur.item && cur.indent < anchor {
		segments = append([]string{itemIndex(lines, pos.Line, cur.indent)}, segments...)
		anchor, itemCol = cur.indent, cur.indent
	}

	for i := pos.Line - 1; i >= 0; i-- {
		l := scanLine(lines[i])
		if l.blank {
			continue
		}
		if itemCol >= 0 {
			// A sequence may sit at its key's own column.
			if l.indent > itemCol || (l.indent == itemCol && l.item) {
				continue
			}
		} else if l.indent >= anchor {
			continue
		}

		if l.item {
			owns := l.keyCol < anchor || (itemCol >= 0 && l.keyCol == itemCol)
			if l.key != "" && l.opens && owns {
				segments = append([]string{l.key}, segments...)
			}
			segments = append([]string{itemIndex(lines, i, l.indent)}, segments...)
			anchor, itemCol = l.indent, l.indent
			continue
		}
		if l.key == "" {
			continue
		}
		segments = append([]string{l.key}, segments...)
		anchor, itemCol = l.indent, -1
		if l.indent == 0 {
			break
		}
	}
	return joinKeyPath(segments), true
}

// keyLine is the outline of one line as seen by keyPathAt.
type keyLine struct {
	blank  bool
	indent int
	item   bool
	key    string
	keyCol int
	// opens reports a key with no inline value.
	opens bool
}

func scanLine(line string) keyLine {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return keyLine{blank: true}
	}
	l := keyLine{
		indent: utf8.RuneCountInString(line) - utf8.RuneCountInString(strings.TrimLeftFunc(line, unicode.IsSpace)),
		item:   trimmed == "-" || strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "-\t"),
	}
	toks := tokenizer.TokenizeLine(line)
	if len(toks) > 0 && toks[0].Type == tokenizer.TokenKey {
		l.key = toks[0].Token
		l.keyCol = toks[0].Offset
		l.opens = len(toks) == 2 && toks[1].Token == ""
	}
	return l
}

// itemIndex returns the "[i]" segment of the sequence item whose dash sits
// at col on line, counting the earlier items of the same sequence.
func itemIndex(lines []string, line, col int) string {
	n := 0
	for i := line - 1; i >= 0; i-- {
		l := scanLine(lines[i])
		if l.blank || l.indent > col {
			continue
		}
		if l.indent < col || !l.item {
			break
		}
		n++
	}
	return "[" + strconv.Itoa(n) + "]"
}

func joinKeyPath(segments []string) string {
	var b strings.Builder
	for _, seg := range segments {
		if b.Len() > 0 && !strings.HasPrefix(seg, "[") {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

func buildHoverContent(p pattern.LearnedPattern) string {
	var b strings.Builder
	fmt.Fprintf(&b, "```\n%s\n```\n\n", p.Pattern)
	fmt.Fprintf(&b, "Learned pattern seen **%d** time(s), confidence %.1f\n\n", p.Frequency, p.Confidence)
	fmt.Fprintf(&b, "- depth: %d\n", p.Depth)
	if p.Context != "" {
		fmt.Fprintf(&b, "- context: `%s`\n", p.Context)
	}
	if len(p.Services) > 0 {
		fmt.Fprintf(&b, "- services: %s\n", strings.Join(p.Services, ", "))
	}
	return b.String()
}
