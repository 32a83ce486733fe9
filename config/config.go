// Copyright © 2024 The StrataRegula authors

// Package config holds the language server settings: a small
// dot-addressed key/value store backed by viper, seeded from a fixed
// default table and deep-merged with user overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Recognized keys.
const (
	ValidationOnChange       = "validation.on_change"
	ValidationOnSave         = "validation.on_save"
	CompletionMaxItems       = "completion.max_items"
	CompletionShowDocs       = "completion.show_documentation"
	PatternLearningEnabled   = "pattern_learning.enabled"
	PatternLearningCacheSize = "pattern_learning.cache_size"
)

// EnvPrefix prefixes environment overrides, e.g.
// STRATAREGULA_COMPLETION_MAX_ITEMS.
const EnvPrefix = "STRATAREGULA"

// Defaults is the default table. pattern_learning.cache_size is advisory;
// nothing is evicted against it.
func Defaults() map[string]any {
	return map[string]any{
		"validation": map[string]any{
			"on_change": false,
			"on_save":   true,
		},
		"completion": map[string]any{
			"max_items":          50,
			"show_documentation": true,
		},
		"pattern_learning": map[string]any{
			"enabled":    true,
			"cache_size": 1000,
		},
	}
}

// Config is a settings store. It is safe for concurrent reads once
// loaded; writes (Load, Merge, Set) happen during startup and
// initialization.
type Config struct {
	v *viper.Viper
}

// New creates a config holding the default table.
func New() *Config {
	v := viper.New()
	setDefaults(v, "", Defaults())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Config{v: v}
}

func setDefaults(v *viper.Viper, prefix string, table map[string]any) {
	for k, val := range table {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok {
			setDefaults(v, key, sub)
			continue
		}
		v.SetDefault(key, val)
	}
}

// Load reads a config file (YAML, JSON or TOML by extension) and deep
// merges it over the current values.
func (c *Config) Load(path string) error {
	c.v.SetConfigFile(path)
	if err := c.v.MergeInConfig(); err != nil {
		return fmt.Errorf("loading config %s: %w", path, err)
	}
	return nil
}

// Merge deep merges overrides, a nested map as clients send it, over the
// current values. A nil map is a no-op.
func (c *Config) Merge(overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	if err := c.v.MergeConfigMap(overrides); err != nil {
		return fmt.Errorf("merging config overrides: %w", err)
	}
	return nil
}

// Set overrides a single dot-addressed key.
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// Get returns the value at key, or def when the key is unknown.
func (c *Config) Get(key string, def any) any {
	if !c.v.IsSet(key) {
		return def
	}
	return c.v.Get(key)
}

// Bool returns the boolean at key, or def when the key is unknown.
func (c *Config) Bool(key string, def bool) bool {
	if !c.v.IsSet(key) {
		return def
	}
	return c.v.GetBool(key)
}

// Int returns the integer at key, or def when the key is unknown.
func (c *Config) Int(key string, def int) int {
	if !c.v.IsSet(key) {
		return def
	}
	return c.v.GetInt(key)
}

// ConfigFileUsed returns the last file passed to Load.
func (c *Config) ConfigFileUsed() string {
	return c.v.ConfigFileUsed()
}

// OnChange reports whether documents are re-analyzed on every edit.
func (c *Config) OnChange() bool { return c.Bool(ValidationOnChange, false) }

// OnSave reports whether documents are re-analyzed on save.
func (c *Config) OnSave() bool { return c.Bool(ValidationOnSave, true) }

// MaxItems is the completion list limit; a negative value disables it.
func (c *Config) MaxItems() int { return c.Int(CompletionMaxItems, 50) }

// ShowDocumentation reports whether completion items carry documentation.
func (c *Config) ShowDocumentation() bool { return c.Bool(CompletionShowDocs, true) }

// LearningEnabled reports whether documents feed the pattern store.
func (c *Config) LearningEnabled() bool { return c.Bool(PatternLearningEnabled, true) }
