// Copyright © 2024 The StrataRegula authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/strataregula/strataregula-lsp/diagnostic"
	"github.com/strataregula/strataregula-lsp/pattern"
)

// expandArgs expands arguments, resolving patterns ending with "/..." to all
// .yaml and .yml files found recursively under the given directory.
// Non-pattern arguments pass through unchanged.
func expandArgs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if dir, ok := strings.CutSuffix(arg, "/..."); ok {
			if dir == "" {
				dir = "."
			}
			files, err := findYAMLFiles(dir)
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			out = append(out, files...)
		} else {
			out = append(out, arg)
		}
	}
	return out, nil
}

func findYAMLFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// fileLabel is the context label of patterns learned from path.
func fileLabel(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// learnFiles analyzes every file into the learner's store. Files that fail
// to decode are reported to errOut and skipped; unreadable files are an
// error.
func learnFiles(l *pattern.Learner, paths []string, logger *log.Logger, errOut io.Writer) error {
	r := &diagnostic.Renderer{Color: diagnostic.ParseColorMode(colorFlag)}
	for _, path := range paths {
		src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		patterns, err := l.AnalyzeSource(src, fileLabel(path))
		if err != nil {
			d := diagnostic.FromDecodeError(path, err, diagnostic.SeverityWarning)
			if rerr := r.Render(errOut, d); rerr != nil {
				return rerr
			}
			continue
		}
		logger.Debug("learned patterns", "path", path, "discovered", len(patterns))
	}
	return nil
}
