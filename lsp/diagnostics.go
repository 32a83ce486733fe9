// Copyright © 2024 The StrataRegula authors

package lsp

import (
	"context"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/strataregula/strataregula-lsp/diagnostic"
)

const (
	defaultDebounceDelay = 300 * time.Millisecond
	diagnosticSource     = "strataregula"
)

// textDocumentDidOpen handles the textDocument/didOpen notification.
func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	s.analyzeAndPublish(doc)
	return nil
}

// textDocumentDidChange handles the textDocument/didChange notification.
// Analysis only runs on edits when validation.on_change is set.
func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}

	doc := s.docs.Change(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		content,
	)

	if !s.cfg.OnChange() {
		return nil
	}

	// Debounce: delay analysis to avoid thrashing during rapid edits.
	s.debounceMu.Lock()
	if t, ok := s.debounce[doc.URI]; ok {
		t.Stop()
	}
	s.debounce[doc.URI] = time.AfterFunc(s.debounceDelay, func() {
		defer func() { _ = recover() }() // don't crash the server on analysis panic
		if d := s.docs.Get(doc.URI); d != nil {
			s.analyzeAndPublish(d)
		}
	})
	s.debounceMu.Unlock()
	return nil
}

// textDocumentDidSave handles the textDocument/didSave notification.
func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	s.cancelDebounce(params.TextDocument.URI)

	if !s.cfg.OnSave() {
		return nil
	}
	if doc := s.docs.Get(params.TextDocument.URI); doc != nil {
		s.analyzeAndPublish(doc)
	}
	return nil
}

// textDocumentDidClose handles the textDocument/didClose notification.
func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.cancelDebounce(params.TextDocument.URI)

	// Clear diagnostics for the closed file.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})

	s.docs.Close(params.TextDocument.URI)
	return nil
}

func (s *Server) cancelDebounce(uri string) {
	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
		delete(s.debounce, uri)
	}
	s.debounceMu.Unlock()
}

// analyzeAndPublish learns patterns from a document, when learning is
// enabled, and publishes its parse diagnostics. A document that fails to
// decode contributes no patterns.
func (s *Server) analyzeAndPublish(doc *Document) {
	_, span := tracer().Start(context.Background(), "strataregula.analyze")
	defer span.End()

	content, tree, parseErr := doc.snapshot()
	span.SetAttributes(attribute.String("document.uri", doc.URI))

	diags := []protocol.Diagnostic{}
	switch {
	case parseErr != nil:
		s.logger.Warn("document not analyzed", "uri", doc.URI, "err", parseErr)
		span.RecordError(parseErr)
		span.SetStatus(codes.Error, "decode failed")
		diags = append(diags, protocol.Diagnostic{
			Range:    parseErrorRange(parseErr, content),
			Severity: severity(protocol.DiagnosticSeverityError),
			Source:   strPtr(diagnosticSource),
			Message:  parseErr.Error(),
		})
	case s.cfg.LearningEnabled():
		patterns := s.learner.Analyze(tree, doc.Label())
		span.SetAttributes(
			attribute.Int("patterns.discovered", len(patterns)),
			attribute.Int("patterns.stored", s.store.Len()),
		)
		s.logger.Debug("learned patterns", "uri", doc.URI, "discovered", len(patterns), "stored", s.store.Len())
	}

	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: diags,
	})
}

// parseErrorRange spans the line a decode error names, or the first line
// when the message carries none.
func parseErrorRange(err error, content string) protocol.Range {
	line := 0
	if n := diagnostic.ErrorLine(err); n > 0 {
		line = n - 1
	}
	return protocol.Range{
		Start: protocol.Position{Line: safeUint(line), Character: 0},
		End:   protocol.Position{Line: safeUint(line), Character: safeUint(lineLength(content, line))},
	}
}

func severity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func strPtr(s string) *string {
	return &s
}
