// Copyright © 2024 The StrataRegula authors

package cmd

import (
	"github.com/strataregula/strataregula-lsp/config"
	"github.com/strataregula/strataregula-lsp/pattern"
)

// Option configures an exported command factory (LSPCommand,
// PatternsCommand, CompleteCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	store *pattern.Store
	cfg   *config.Config
}

// WithStore injects the pattern store commands learn into. Embedders use
// it to share one corpus between several commands or to pre-seed it.
func WithStore(store *pattern.Store) Option {
	return func(c *cmdConfig) { c.store = store }
}

// WithConfig injects settings, bypassing the --config flag.
func WithConfig(cfg *config.Config) Option {
	return func(c *cmdConfig) { c.cfg = cfg }
}

func newCmdConfig(opts []Option) *cmdConfig {
	c := &cmdConfig{}
	for _, o := range opts {
		o(c)
	}
	return c
}

// resolveStore returns the injected store or a fresh one.
func (c *cmdConfig) resolveStore() *pattern.Store {
	if c.store != nil {
		return c.store
	}
	return pattern.NewStore()
}
