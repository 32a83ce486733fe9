// Copyright © 2024 The StrataRegula authors

package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/strataregula/strataregula-lsp/config"
	"github.com/strataregula/strataregula-lsp/logging"
)

var (
	cfgFile   string
	logLevel  string
	colorFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "strataregula-lsp",
	Short: "StrataRegula pattern learning language server",
	Long: `strataregula-lsp learns key patterns from StrataRegula YAML
configuration files and uses them to offer pattern-aware completions.

Getting started:
  strataregula-lsp lsp                          Serve LSP over stdio
  strataregula-lsp patterns ./configs/...       Show patterns learned from files
  strataregula-lsp complete --line 3 --col 4 f.yaml
                                                Print completions at a position

Configuration is read from the file given with --config (YAML, JSON or
TOML) and from STRATAREGULA_* environment variables, for example
STRATAREGULA_COMPLETION_MAX_ITEMS=20.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (YAML, JSON or TOML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		`Log level: "debug", "info", "warn" or "error".`)
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
}

// loadConfig returns the defaults overlaid with the --config file, if any.
// An embedder-supplied config takes precedence over both.
func loadConfig(c *cmdConfig) (*config.Config, error) {
	if c != nil && c.cfg != nil {
		return c.cfg, nil
	}
	cfg := config.New()
	if cfgFile != "" {
		if err := cfg.Load(cfgFile); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newLogger writes to stderr; stdout is reserved for command output and
// the stdio transport.
func newLogger() *log.Logger {
	return logging.New("strataregula", os.Stderr, logging.ParseLevel(logLevel))
}
