// Copyright © 2024 The StrataRegula authors

package cmd

import (
	"errors"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/strataregula/strataregula-lsp/lsp"
	"github.com/strataregula/strataregula-lsp/pattern"
)

// LSPCommand creates the "lsp" cobra command with optional embedder
// configuration.
func LSPCommand(opts ...Option) *cobra.Command {
	c := newCmdConfig(opts)

	var (
		stdio bool
		host  string
		port  int
		ws    bool
		learn []string
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the StrataRegula Language Server Protocol server",
		Long: `Start an LSP server for StrataRegula configuration files.

The server learns key patterns from every document it opens or saves and
offers completions ranked by what it has learned, hover details for learned
keys, and diagnostics for documents that fail to parse.

Transport modes:
  --stdio         Use stdin/stdout for LSP communication (default)
  --port N        Listen for an LSP client on TCP port N
  --port N --ws   Accept WebSocket clients on port N
  --host H        Bind TCP and WebSocket listeners to H (default 127.0.0.1)

Examples:
  strataregula-lsp lsp                           Start with stdio transport
  strataregula-lsp lsp --port 7998               Start with TCP on port 7998
  strataregula-lsp lsp --learn ./configs/...     Pre-seed learned patterns`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if ws && port <= 0 {
				return errors.New("--ws requires --port")
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			logger := newLogger()
			store := c.resolveStore()

			if len(learn) > 0 {
				paths, err := expandArgs(learn)
				if err != nil {
					return err
				}
				if err := learnFiles(pattern.NewLearner(store), paths, logger, cmd.ErrOrStderr()); err != nil {
					return err
				}
				logger.Info("pre-seeded patterns", "files", len(paths), "patterns", store.Len())
			}

			srv := lsp.New(
				lsp.WithConfig(cfg),
				lsp.WithStore(store),
				lsp.WithLogger(logger),
			)

			if stdio || port <= 0 {
				return srv.RunStdio()
			}
			addr := listenAddr(host, port)
			if ws {
				logger.Info("StrataRegula LSP server accepting WebSocket clients", "addr", addr)
				return srv.RunWebSocket(addr)
			}
			logger.Info("StrataRegula LSP server listening", "addr", addr)
			return srv.RunTCP(addr)
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().StringVar(&host, "host", "127.0.0.1",
		"Host to bind with --port")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")
	cmd.Flags().BoolVar(&ws, "ws", false,
		"Serve WebSocket clients on --port instead of raw TCP")
	cmd.Flags().StringArrayVar(&learn, "learn", nil,
		"YAML files to learn from before serving; dir/... expands recursively (may be repeated)")

	return cmd
}

// listenAddr joins host and port, bracketing IPv6 hosts.
func listenAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
