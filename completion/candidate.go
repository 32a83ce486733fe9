// Copyright © 2024 The StrataRegula authors

package completion

import (
	"fmt"
	"sort"
)

// Kind is the presentation kind of a candidate.
type Kind int

const (
	KindService Kind = iota
	KindEnvironment
	KindConfigType
	KindField
	KindWildcard
	KindSnippet
)

func (k Kind) String() string {
	switch k {
	case KindService:
		return "service"
	case KindEnvironment:
		return "environment"
	case KindConfigType:
		return "config-type"
	case KindField:
		return "field"
	case KindWildcard:
		return "wildcard"
	case KindSnippet:
		return "snippet"
	default:
		return "unknown"
	}
}

// Priority is a ranking bucket; lower ranks first.
type Priority int

const (
	PriorityLearned     Priority = 0
	PriorityService     Priority = 1
	PriorityEnvironment Priority = 2
	PriorityConfigType  Priority = 3
	PriorityField       Priority = 4
	PrioritySnippet     Priority = 5
	PriorityWildcard    Priority = 9
)

// Candidate is one completion offered to the client.
type Candidate struct {
	Label         string
	Detail        string
	Documentation string
	// Markdown marks Documentation as Markdown rather than plain text.
	Markdown bool
	// InsertText defaults to Label when empty.
	InsertText string
	// Snippet marks InsertText as a multi-field template with ${n:default}
	// placeholders.
	Snippet  bool
	Kind     Kind
	Priority Priority
	// SortText orders candidates: bucket first, then position within the
	// bucket's vocabulary.
	SortText string
}

// Text returns what the client inserts.
func (c Candidate) Text() string {
	if c.InsertText == "" {
		return c.Label
	}
	return c.InsertText
}

// bucket assigns priority and sort tags to candidates of one bucket, in
// the order given.
func bucket(p Priority, cands []Candidate) []Candidate {
	for i := range cands {
		cands[i].Priority = p
		cands[i].SortText = fmt.Sprintf("%d_%03d_%s", p, i, cands[i].Label)
	}
	return cands
}

func sortCandidates(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].SortText < cands[j].SortText
	})
}
