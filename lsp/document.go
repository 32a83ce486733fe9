// Copyright © 2024 The StrataRegula authors

package lsp

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/strataregula/strataregula-lsp/pattern"
)

// Document represents an open text document tracked by the LSP server.
// Content is always the full snapshot last delivered by the client.
type Document struct {
	mu       sync.Mutex
	URI      string
	Version  int32
	Content  string
	tree     any
	parseErr error
}

// parse decodes the document content and caches the tree or the error.
func (d *Document) parse() {
	d.tree, d.parseErr = pattern.Decode([]byte(d.Content))
}

// Label is the context label patterns learned from this document carry:
// its file name without extension.
func (d *Document) Label() string {
	return documentLabel(d.URI)
}

// snapshot returns the content, tree and parse error under the lock.
func (d *Document) snapshot() (content string, tree any, parseErr error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Content, d.tree, d.parseErr
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open adds a document to the store and parses it.
func (s *DocumentStore) Open(uri string, version int32, content string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Content: content,
	}
	doc.parse()
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change replaces a document's content (full sync) and re-parses it.
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.Version = version
	doc.Content = content
	doc.parse()
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// Len returns the number of open documents.
func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func documentLabel(uri string) string {
	base := filepath.Base(uriToPath(uri))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
