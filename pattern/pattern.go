// Copyright © 2024 The StrataRegula authors

// Package pattern learns the dotted hierarchical keys of StrataRegula
// configuration documents and keeps them, with frequency and confidence
// statistics, in a prefix-indexed Store.
package pattern

import (
	"math"
	"sort"
)

const (
	// InitialConfidence is the confidence of a pattern on first observation.
	InitialConfidence = 0.8
	// ConfidenceStep is added on every re-observation of a pattern.
	ConfidenceStep = 0.1
	// MaxConfidence caps the confidence score.
	MaxConfidence = 1.0
)

// LearnedPattern is one unique dotted key observed across analyzed
// documents, e.g. "services.frontend.replicas".
type LearnedPattern struct {
	Pattern    string  `json:"pattern"`
	Depth      int     `json:"depth"`
	Frequency  int     `json:"frequency"`
	Context    string  `json:"context"`
	Confidence float64 `json:"confidence"`
	// Services is sorted and free of duplicates.
	Services []string `json:"services,omitempty"`
}

// newObservation returns the pattern as seen for the first time.
func newObservation(path string, depth int, context string, services []string) LearnedPattern {
	return LearnedPattern{
		Pattern:    path,
		Depth:      depth,
		Frequency:  1,
		Context:    context,
		Confidence: InitialConfidence,
		Services:   normalizeServices(services),
	}
}

// HasService reports whether name is one of the pattern's services.
func (p LearnedPattern) HasService(name string) bool {
	i := sort.SearchStrings(p.Services, name)
	return i < len(p.Services) && p.Services[i] == name
}

// Merge folds a fresh observation into an existing pattern and returns the
// result. Frequency grows by one, confidence by ConfidenceStep up to
// MaxConfidence, and services are unioned. The context becomes the most
// recent one. Neither argument is modified.
func Merge(old, observed LearnedPattern) LearnedPattern {
	merged := old
	merged.Frequency = old.Frequency + 1
	merged.Confidence = math.Min(MaxConfidence, roundConfidence(old.Confidence+ConfidenceStep))
	if observed.Context != "" {
		merged.Context = observed.Context
	}
	merged.Services = unionServices(old.Services, observed.Services)
	return merged
}

// roundConfidence keeps repeated 0.1 steps from drifting.
func roundConfidence(c float64) float64 {
	return math.Round(c*1000) / 1000
}

func normalizeServices(services []string) []string {
	return unionServices(nil, services)
}

func unionServices(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
