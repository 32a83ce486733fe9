// Copyright © 2024 The StrataRegula authors

package pattern

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Learner extracts patterns from document trees and merges them into a
// Store. It is the store's only writer.
type Learner struct {
	store *Store
	rules []ServiceRule
}

// LearnerOption configures a Learner.
type LearnerOption func(*Learner)

// WithServiceRules replaces the default service extraction rules.
func WithServiceRules(rules ...ServiceRule) LearnerOption {
	return func(l *Learner) { l.rules = rules }
}

// NewLearner creates a learner writing into store.
func NewLearner(store *Store, opts ...LearnerOption) *Learner {
	l := &Learner{
		store: store,
		rules: DefaultServiceRules(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Store returns the store the learner writes into.
func (l *Learner) Store() *Store {
	return l.store
}

// Analyze extracts every pattern of tree, merges each into the store and
// returns the patterns discovered in this document (as first
// observations, before merging). A nil or non-mapping tree yields no
// patterns.
func (l *Learner) Analyze(tree any, label string) map[string]LearnedPattern {
	patterns := Extract(tree, label, l.rules)
	for _, p := range patterns {
		l.store.Merge(p)
	}
	return patterns
}

// AnalyzeSource decodes YAML source and analyzes the resulting tree. On a
// decode error it returns an empty map and the error, and the store is
// not touched.
func (l *Learner) AnalyzeSource(src []byte, label string) (map[string]LearnedPattern, error) {
	tree, err := Decode(src)
	if err != nil {
		return map[string]LearnedPattern{}, err
	}
	return l.Analyze(tree, label), nil
}

// Decode parses YAML source into a tree of map[string]any / []any values.
func Decode(src []byte) (any, error) {
	var tree any
	if err := yaml.Unmarshal(src, &tree); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return tree, nil
}

// Extract walks tree pre-order and returns one first-observation pattern
// per dotted key path. Mapping values recurse one level deeper; mapping
// elements of sequences recurse under "path[i]". It does not touch any
// store.
func Extract(tree any, label string, rules []ServiceRule) map[string]LearnedPattern {
	patterns := make(map[string]LearnedPattern)
	var walk func(node any, path string, depth int)
	walk = func(node any, path string, depth int) {
		forEachEntry(node, func(key string, value any) {
			current := key
			if path != "" {
				current = path + "." + key
			}
			patterns[current] = newObservation(current, depth, label, ExtractServices(value, rules))

			switch v := value.(type) {
			case map[string]any, map[any]any:
				walk(v, current, depth+1)
			case []any:
				for i, item := range v {
					if isMapping(item) {
						walk(item, current+"["+strconv.Itoa(i)+"]", depth+1)
					}
				}
			}
		})
	}
	walk(tree, "", 0)
	return patterns
}

func isMapping(v any) bool {
	switch v.(type) {
	case map[string]any, map[any]any:
		return true
	}
	return false
}

// forEachEntry calls fn for every key of a mapping node. Non-string keys
// are formatted with fmt.Sprint.
func forEachEntry(node any, fn func(key string, value any)) {
	switch m := node.(type) {
	case map[string]any:
		for k, v := range m {
			fn(k, v)
		}
	case map[any]any:
		for k, v := range m {
			fn(fmt.Sprint(k), v)
		}
	}
}
