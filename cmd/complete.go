// Copyright © 2024 The StrataRegula authors

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/strataregula/strataregula-lsp/completion"
	"github.com/strataregula/strataregula-lsp/pattern"
	"github.com/strataregula/strataregula-lsp/tokenizer"
)

// CompleteCommand creates the "complete" command, which prints the
// completions the language server would offer at a position.
func CompleteCommand(opts ...Option) *cobra.Command {
	c := newCmdConfig(opts)

	var (
		line   int
		col    int
		learn  []string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "complete [flags] file",
		Short: "Print completions for a position in a YAML file",
		Long: `Print the completion candidates offered at a 0-based line and
column of a file, best first.

Patterns are learned from the --learn files and from the file itself
before completing, the same way the language server learns from open
documents. completion.max_items and completion.show_documentation from
the configuration apply.

Examples:
  strataregula-lsp complete --line 0 --col 3 services.yaml
  strataregula-lsp complete --line 4 --col 6 --learn ./configs/... new.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			logger := newLogger()
			store := c.resolveStore()
			learner := pattern.NewLearner(store)

			learnPaths, err := expandArgs(learn)
			if err != nil {
				return err
			}
			if err := learnFiles(learner, learnPaths, logger, cmd.ErrOrStderr()); err != nil {
				return err
			}

			path := args[0]
			src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if cfg.LearningEnabled() {
				if _, err := learner.AnalyzeSource(src, fileLabel(path)); err != nil {
					logger.Warn("not learning from target file", "path", path, "err", err)
				}
			}

			provider := completion.NewProvider(store)
			cands := provider.Provide(string(src), tokenizer.Position{Line: line, Column: col})
			if limit := cfg.MaxItems(); limit >= 0 && len(cands) > limit {
				cands = cands[:limit]
			}
			if !cfg.ShowDocumentation() {
				for i := range cands {
					cands[i].Documentation = ""
				}
			}

			if asJSON {
				return writeCandidatesJSON(cmd.OutOrStdout(), cands)
			}
			writeCandidates(cmd.OutOrStdout(), cands)
			return nil
		},
	}

	cmd.Flags().IntVar(&line, "line", 0, "0-based line of the cursor.")
	cmd.Flags().IntVar(&col, "col", 0, "0-based column of the cursor.")
	cmd.Flags().StringArrayVar(&learn, "learn", nil,
		"YAML files to learn from first; dir/... expands recursively (may be repeated).")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output candidates as JSON.")

	return cmd
}

type candidateJSON struct {
	Label         string `json:"label"`
	Kind          string `json:"kind"`
	Detail        string `json:"detail,omitempty"`
	Documentation string `json:"documentation,omitempty"`
	InsertText    string `json:"insertText"`
	Snippet       bool   `json:"snippet,omitempty"`
	SortText      string `json:"sortText"`
}

func writeCandidates(w io.Writer, cands []completion.Candidate) {
	for _, c := range cands {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.Label, c.Kind, c.Detail)
	}
}

func writeCandidatesJSON(w io.Writer, cands []completion.Candidate) error {
	out := make([]candidateJSON, len(cands))
	for i, c := range cands {
		out[i] = candidateJSON{
			Label:         c.Label,
			Kind:          c.Kind.String(),
			Detail:        c.Detail,
			Documentation: c.Documentation,
			InsertText:    c.Text(),
			Snippet:       c.Snippet,
			SortText:      c.SortText,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func init() {
	rootCmd.AddCommand(CompleteCommand())
}
