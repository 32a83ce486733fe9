// Copyright © 2024 The StrataRegula authors

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strataregula/strataregula-lsp/pattern"
)

// PatternsCommand creates the "patterns" command, which learns from YAML
// files and prints the resulting patterns.
func PatternsCommand(opts ...Option) *cobra.Command {
	c := newCmdConfig(opts)

	var (
		prefix   string
		maxDepth int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "patterns [flags] files...",
		Short: "Learn patterns from YAML files and print them",
		Long: `Learn key patterns from StrataRegula YAML files and print them,
highest confidence first.

Each unique dotted key path becomes one pattern. Seeing a path again in
another file raises its frequency and confidence. Files that fail to parse
are reported and skipped.

Examples:
  strataregula-lsp patterns services.yaml
  strataregula-lsp patterns ./configs/...                 # All .yaml/.yml files
  strataregula-lsp patterns --prefix frontend ./configs/...
  strataregula-lsp patterns --max-depth 1 --json a.yaml b.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandArgs(args)
			if err != nil {
				return err
			}
			store := c.resolveStore()
			if err := learnFiles(pattern.NewLearner(store), paths, newLogger(), cmd.ErrOrStderr()); err != nil {
				return err
			}

			patterns := store.Query(prefix, maxDepth)
			if asJSON {
				return writePatternsJSON(cmd.OutOrStdout(), patterns)
			}
			writePatterns(cmd.OutOrStdout(), patterns)
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "",
		"Only print patterns starting with this prefix (case-sensitive).")
	cmd.Flags().IntVar(&maxDepth, "max-depth", pattern.NoDepthLimit,
		"Only print patterns at most this deep (0 is top level; -1 for no limit).")
	cmd.Flags().BoolVar(&asJSON, "json", false,
		"Output patterns as JSON.")

	return cmd
}

func writePatterns(w io.Writer, patterns []pattern.LearnedPattern) {
	for _, p := range patterns {
		line := fmt.Sprintf("%s\tdepth=%d freq=%d confidence=%.1f context=%s",
			p.Pattern, p.Depth, p.Frequency, p.Confidence, p.Context)
		if len(p.Services) > 0 {
			line += " services=" + strings.Join(p.Services, ",")
		}
		fmt.Fprintln(w, line)
	}
}

func writePatternsJSON(w io.Writer, patterns []pattern.LearnedPattern) error {
	if patterns == nil {
		patterns = []pattern.LearnedPattern{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(patterns)
}

func init() {
	rootCmd.AddCommand(PatternsCommand())
}
