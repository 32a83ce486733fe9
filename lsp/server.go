// Copyright © 2024 The StrataRegula authors

// Package lsp implements a Language Server Protocol server for
// StrataRegula configuration files. It learns key patterns from the
// documents it sees and offers pattern completions, hover and parse
// diagnostics.
package lsp

import (
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tliron/glsp"
	glspserver "github.com/tliron/glsp/server"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/strataregula/strataregula-lsp/completion"
	"github.com/strataregula/strataregula-lsp/config"
	"github.com/strataregula/strataregula-lsp/logging"
	"github.com/strataregula/strataregula-lsp/pattern"
)

const (
	serverName    = "strataregula-lsp"
	serverVersion = "0.1.0"
)

// Server is the StrataRegula language server.
type Server struct {
	handler  protocol.Handler
	glspSrv  *glspserver.Server
	docs     *DocumentStore
	rootURI  string
	rootPath string

	cfg      *config.Config
	store    *pattern.Store
	learner  *pattern.Learner
	provider *completion.Provider
	logger   *log.Logger

	// Debouncer for didChange notifications.
	debounceMu    sync.Mutex
	debounce      map[string]*time.Timer
	debounceDelay time.Duration

	// Context for sending notifications (captured from latest request).
	notifyMu sync.Mutex
	notify   glsp.NotifyFunc

	// exitFn is called on the LSP exit notification. Defaults to os.Exit.
	// Overridable for testing.
	exitFn func(int)
}

// Option configures the LSP server.
type Option func(*Server)

// WithConfig injects settings. Defaults are used otherwise.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) { s.cfg = cfg }
}

// WithStore injects the pattern store shared by the learner and the
// completion provider, e.g. one pre-seeded from workspace files.
func WithStore(store *pattern.Store) Option {
	return func(s *Server) { s.store = store }
}

// WithLogger sets the server logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithDebounceDelay sets how long didChange analysis waits for quiet.
func WithDebounceDelay(d time.Duration) Option {
	return func(s *Server) { s.debounceDelay = d }
}

// New creates a new StrataRegula LSP server.
func New(opts ...Option) *Server {
	s := &Server{
		docs:          NewDocumentStore(),
		debounce:      make(map[string]*time.Timer),
		debounceDelay: defaultDebounceDelay,
		exitFn:        os.Exit,
	}
	for _, o := range opts {
		o(s)
	}
	if s.cfg == nil {
		s.cfg = config.New()
	}
	if s.store == nil {
		s.store = pattern.NewStore()
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	s.learner = pattern.NewLearner(s.store)
	s.provider = completion.NewProvider(s.store)

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		Exit:        s.exit,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentCompletion: s.textDocumentCompletion,
		TextDocumentHover:      s.textDocumentHover,
	}

	s.glspSrv = glspserver.NewServer(&s.handler, serverName, false)
	return s
}

// Store returns the server's pattern store.
func (s *Server) Store() *pattern.Store {
	return s.store
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	return s.glspSrv.RunStdio()
}

// RunTCP starts the server listening on the given address.
func (s *Server) RunTCP(addr string) error {
	return s.glspSrv.RunTCP(addr)
}

// RunWebSocket starts the server accepting WebSocket clients on addr.
func (s *Server) RunWebSocket(addr string) error {
	return s.glspSrv.RunWebSocket(addr)
}

// initialize handles the LSP initialize request.
func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.captureNotify(ctx)

	if params.RootURI != nil {
		s.rootURI = *params.RootURI
		s.rootPath = uriToPath(s.rootURI)
	} else if params.RootPath != nil {
		s.rootPath = *params.RootPath
		s.rootURI = pathToURI(s.rootPath)
	}

	// Client settings arrive as initializationOptions and override the
	// loaded configuration.
	if opts, ok := params.InitializationOptions.(map[string]any); ok {
		if err := s.cfg.Merge(opts); err != nil {
			s.logger.Warn("ignoring initialization options", "err", err)
		}
	}

	capabilities := s.handler.CreateServerCapabilities()

	// Override text document sync to full.
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(false)},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{".", ":"},
	}

	version := serverVersion
	s.logger.Info("initialized", "root", s.rootPath)
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, _ *protocol.InitializedParams) error {
	s.captureNotify(ctx)
	return nil
}

// shutdown handles the LSP shutdown request. The pattern store is torn
// down with the session.
func (s *Server) shutdown(_ *glsp.Context) error {
	s.debounceMu.Lock()
	for _, t := range s.debounce {
		t.Stop()
	}
	s.debounce = make(map[string]*time.Timer)
	s.debounceMu.Unlock()

	s.logger.Info("shutting down", "patterns", s.store.Len())
	s.store.Close()
	return nil
}

// exit handles the LSP exit notification by terminating the process.
func (s *Server) exit(_ *glsp.Context) error {
	s.exitFn(0)
	return nil
}

// setTrace handles the $/setTrace notification (required by some clients).
func (s *Server) setTrace(_ *glsp.Context, _ *protocol.SetTraceParams) error {
	return nil
}

// captureNotify stores the notification function from the context for
// async use (e.g., publishing diagnostics after a debounce).
func (s *Server) captureNotify(ctx *glsp.Context) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	s.notifyMu.Lock()
	s.notify = ctx.Notify
	s.notifyMu.Unlock()
}

// sendNotification sends a notification to the client.
func (s *Server) sendNotification(method string, params any) {
	s.notifyMu.Lock()
	fn := s.notify
	s.notifyMu.Unlock()
	if fn != nil {
		fn(method, params)
	}
}

func boolPtr(b bool) *bool {
	return &b
}
