// Copyright © 2024 The StrataRegula authors

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataregula/strataregula-lsp/logging"
	"github.com/strataregula/strataregula-lsp/pattern"
)

// writeFiles creates files under dir from a name → content map.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func TestExpandArgs_Recursive(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.yaml":        "a: 1\n",
		"sub/b.yml":     "b: 1\n",
		"sub/notes.txt": "not yaml",
		"sub/c.json":    "{}",
	})

	got, err := expandArgs([]string{dir + "/..."})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "sub", "b.yml"),
	}, got)
}

func TestExpandArgs_PassThrough(t *testing.T) {
	got, err := expandArgs([]string{"x.yaml", "y.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x.yaml", "y.txt"}, got)

	got, err = expandArgs(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExpandArgs_MissingDir(t *testing.T) {
	_, err := expandArgs([]string{filepath.Join(t.TempDir(), "missing") + "/..."})
	assert.Error(t, err)
}

func TestFileLabel(t *testing.T) {
	assert.Equal(t, "services", fileLabel("/etc/sr/services.yaml"))
	assert.Equal(t, "app.prod", fileLabel("app.prod.yml"))
}

func TestLearnFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"good.yaml": "cache:\n  ttl: 60\n",
		"bad.yaml":  "a:\n\tb: 1\n",
	})
	store := pattern.NewStore()
	l := pattern.NewLearner(store)

	var errOut bytes.Buffer
	err := learnFiles(l, []string{
		filepath.Join(dir, "good.yaml"),
		filepath.Join(dir, "bad.yaml"),
	}, logging.Discard(), &errOut)
	require.NoError(t, err, "undecodable files are skipped")
	assert.Contains(t, errOut.String(), "warning: decoding document: yaml: line 2")
	assert.Contains(t, errOut.String(), filepath.Join(dir, "bad.yaml")+":2:1")
	assert.Contains(t, errOut.String(), "no patterns were learned from this file")
	assert.Equal(t, 2, store.Len())
	p, ok := store.Get("cache.ttl")
	require.True(t, ok)
	assert.Equal(t, "good", p.Context)

	err = learnFiles(l, []string{filepath.Join(dir, "missing.yaml")}, logging.Discard(), &errOut)
	assert.Error(t, err)
}
