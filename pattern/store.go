// Copyright © 2024 The StrataRegula authors

package pattern

import (
	"slices"
	"sort"
	"sync"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Store maps pattern strings to learned patterns. It is created at server
// start, injected into the Learner (the only writer) and the completion
// provider (a reader), and emptied by Close.
//
// The index is a patricia trie so prefix queries only visit the matching
// subtree. Entries are values; updates replace them whole.
type Store struct {
	mu   sync.RWMutex
	trie *patricia.Trie
	size int
}

// NewStore creates an empty pattern store.
func NewStore() *Store {
	return &Store{trie: patricia.NewTrie()}
}

// Get returns the stored pattern for key.
func (s *Store) Get(key string) (LearnedPattern, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item := s.trie.Get(patricia.Prefix(key))
	if item == nil {
		return LearnedPattern{}, false
	}
	return item.(LearnedPattern).clone(), true
}

// Len returns the number of stored patterns.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// Merge inserts p, or replaces the existing entry for p.Pattern with
// Merge(existing, p). It returns the stored value.
func (s *Store) Merge(p LearnedPattern) LearnedPattern {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := patricia.Prefix(p.Pattern)
	if item := s.trie.Get(key); item != nil {
		merged := Merge(item.(LearnedPattern), p)
		s.trie.Set(key, merged)
		return merged.clone()
	}
	s.trie.Insert(key, p.clone())
	s.size++
	return p
}

// Query returns every stored pattern whose key starts with prefix
// (case-sensitive) and, when maxDepth is non-negative, whose depth is at
// most maxDepth. Results are sorted by confidence, then frequency, both
// descending. Use NoDepthLimit to disable the depth bound.
func (s *Store) Query(prefix string, maxDepth int) []LearnedPattern {
	s.mu.RLock()
	var matches []LearnedPattern
	visit := func(_ patricia.Prefix, item patricia.Item) error {
		p := item.(LearnedPattern)
		if maxDepth >= 0 && p.Depth > maxDepth {
			return nil
		}
		matches = append(matches, p.clone())
		return nil
	}
	if prefix == "" {
		_ = s.trie.Visit(visit)
	} else {
		_ = s.trie.VisitSubtree(patricia.Prefix(prefix), visit)
	}
	s.mu.RUnlock()

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		return matches[i].Frequency > matches[j].Frequency
	})
	return matches
}

// clone copies p so callers never share the stored Services array.
func (p LearnedPattern) clone() LearnedPattern {
	p.Services = slices.Clone(p.Services)
	return p
}

// NoDepthLimit disables the depth bound of Query.
const NoDepthLimit = -1

// Close drops every entry. The store stays usable but starts empty.
func (s *Store) Close() {
	s.mu.Lock()
	s.trie = patricia.NewTrie()
	s.size = 0
	s.mu.Unlock()
}
