// Copyright © 2024 The StrataRegula authors

package lsp

import (
	"context"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.opentelemetry.io/otel/attribute"

	"github.com/strataregula/strataregula-lsp/completion"
)

// textDocumentCompletion handles the textDocument/completion request.
// An unknown document yields an empty list.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	_, span := tracer().Start(context.Background(), "strataregula.completion")
	defer span.End()

	items := []protocol.CompletionItem{}
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return items, nil
	}
	content, _, _ := doc.snapshot()

	cands := s.provider.Provide(content, cursorPosition(params.Position))
	if limit := s.cfg.MaxItems(); limit >= 0 && len(cands) > limit {
		cands = cands[:limit]
	}
	span.SetAttributes(
		attribute.String("document.uri", doc.URI),
		attribute.Int("completion.items", len(cands)),
	)

	showDocs := s.cfg.ShowDocumentation()
	for _, c := range cands {
		items = append(items, completionItem(c, showDocs))
	}
	return items, nil
}

func completionItem(c completion.Candidate, showDocs bool) protocol.CompletionItem {
	kind := mapCompletionItemKind(c.Kind)
	item := protocol.CompletionItem{
		Label:    c.Label,
		Kind:     &kind,
		SortText: strPtr(c.SortText),
	}
	if c.Detail != "" {
		item.Detail = strPtr(c.Detail)
	}
	if showDocs && c.Documentation != "" {
		if c.Markdown {
			item.Documentation = protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: c.Documentation,
			}
		} else {
			item.Documentation = c.Documentation
		}
	}
	if c.InsertText != "" {
		item.InsertText = strPtr(c.InsertText)
	}
	if c.Snippet {
		format := protocol.InsertTextFormatSnippet
		item.InsertTextFormat = &format
	}
	return item
}

// mapCompletionItemKind maps candidate kinds to LSP completion kinds.
func mapCompletionItemKind(k completion.Kind) protocol.CompletionItemKind {
	switch k {
	case completion.KindService:
		return protocol.CompletionItemKindModule
	case completion.KindEnvironment:
		return protocol.CompletionItemKindEnum
	case completion.KindConfigType:
		return protocol.CompletionItemKindClass
	case completion.KindField:
		return protocol.CompletionItemKindProperty
	case completion.KindWildcard:
		return protocol.CompletionItemKindKeyword
	case completion.KindSnippet:
		return protocol.CompletionItemKindSnippet
	default:
		return protocol.CompletionItemKindText
	}
}
