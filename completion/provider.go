// Copyright © 2024 The StrataRegula authors

// Package completion ranks completion candidates for a cursor position by
// combining learned patterns with a static StrataRegula vocabulary.
package completion

import (
	"fmt"
	"sort"
	"strings"

	"github.com/strataregula/strataregula-lsp/pattern"
	"github.com/strataregula/strataregula-lsp/tokenizer"
)

// MaxLearnedServices caps learned service candidates per request.
const MaxLearnedServices = 10

// learnedQueryDepth bounds the store query for learned services to the
// top two levels of the hierarchy.
const learnedQueryDepth = 1

// Provider produces completion candidates. It only reads the store.
type Provider struct {
	store *pattern.Store
}

// NewProvider creates a provider reading learned patterns from store.
func NewProvider(store *pattern.Store) *Provider {
	return &Provider{store: store}
}

// Provide returns ranked candidates for the cursor at pos in text. It
// returns nil when the cursor has neither a current pattern nor a value
// position to anchor on.
func (p *Provider) Provide(text string, pos tokenizer.Position) []Candidate {
	before := tokenizer.TextBeforeCursor(text, pos)
	ctx := tokenizer.ParseContext(before)
	if ctx.CurrentPattern == "" && !tokenizer.IsValuePosition(before) {
		return nil
	}
	cands := p.Generate(ctx, p.LearnedServices(ctx.CurrentPattern))
	sortCandidates(cands)
	return cands
}

// Generate builds the candidates for ctx, tiered by depth. When no tier
// yields anything it falls back to the service vocabulary with an empty
// prefix.
func (p *Provider) Generate(ctx tokenizer.PatternContext, learned []string) []Candidate {
	var cands []Candidate
	switch {
	case ctx.Depth <= 1:
		cands = append(cands, serviceCandidates(ctx.CurrentPattern, learned)...)
		cands = append(cands, snippetCandidates(ctx.CurrentPattern)...)
		cands = append(cands, wildcardCandidates()...)
	case ctx.Depth == 2:
		cands = append(cands, configTypeCandidates(ctx.CurrentPattern)...)
	default:
		cands = append(cands, nestedCandidates(ctx)...)
	}
	if len(cands) == 0 {
		cands = serviceCandidates("", learned)
	}
	return cands
}

// LearnedServices returns the services recorded on stored patterns that
// start with prefix, limited to the top two levels, deduplicated, sorted
// and capped at MaxLearnedServices. An empty prefix yields nothing.
func (p *Provider) LearnedServices(prefix string) []string {
	if prefix == "" || p.store == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var services []string
	for _, lp := range p.store.Query(prefix, learnedQueryDepth) {
		for _, s := range lp.Services {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			services = append(services, s)
		}
	}
	sort.Strings(services)
	if len(services) > MaxLearnedServices {
		services = services[:MaxLearnedServices]
	}
	return services
}

// serviceCandidates offers learned services, then static services not
// already learned, then environments, each filtered by a case-insensitive
// prefix.
func serviceCandidates(prefix string, learned []string) []Candidate {
	var fromCorpus, static, envs []Candidate
	for _, s := range learned {
		if !hasPrefixFold(s, prefix) {
			continue
		}
		fromCorpus = append(fromCorpus, Candidate{
			Label:         s,
			Detail:        "Learned service pattern",
			Documentation: fmt.Sprintf("Service: %s (learned from existing configurations)", s),
			Kind:          KindService,
		})
	}
	for _, s := range Services {
		if !hasPrefixFold(s, prefix) || containsFold(learned, s) {
			continue
		}
		static = append(static, Candidate{
			Label:         s,
			Detail:        "Standard service type",
			Documentation: fmt.Sprintf("Common service pattern: %s", s),
			Kind:          KindService,
		})
	}
	for _, env := range Environments {
		if !hasPrefixFold(env, prefix) {
			continue
		}
		envs = append(envs, environmentCandidate(env, "Environment name"))
	}

	out := bucket(PriorityLearned, fromCorpus)
	out = append(out, bucket(PriorityService, static)...)
	return append(out, bucket(PriorityEnvironment, envs)...)
}

func environmentCandidate(env, detail string) Candidate {
	return Candidate{
		Label:         env,
		Detail:        detail,
		Documentation: fmt.Sprintf("Environment: %s", env),
		Kind:          KindEnvironment,
	}
}

func snippetCandidates(prefix string) []Candidate {
	var cands []Candidate
	for _, sn := range Snippets {
		if !hasPrefixFold(sn.Name, prefix) {
			continue
		}
		cands = append(cands, Candidate{
			Label:         sn.Name,
			Detail:        "StrataRegula snippet",
			Documentation: sn.Documentation,
			Markdown:      true,
			InsertText:    sn.Body,
			Snippet:       true,
			Kind:          KindSnippet,
		})
	}
	return bucket(PrioritySnippet, cands)
}

func wildcardCandidates() []Candidate {
	cands := make([]Candidate, len(Wildcards))
	for i, w := range Wildcards {
		cands[i] = Candidate{
			Label:         w,
			Detail:        "Wildcard pattern",
			Documentation: fmt.Sprintf("Matches multiple services: %s", w),
			Kind:          KindWildcard,
		}
		if doc, ok := wildcardDocs[w]; ok {
			cands[i].Documentation = doc
			cands[i].Markdown = true
		}
	}
	return bucket(PriorityWildcard, cands)
}

func configTypeCandidates(prefix string) []Candidate {
	var cands []Candidate
	for _, ct := range ConfigTypes {
		if !hasPrefixFold(ct, prefix) {
			continue
		}
		cands = append(cands, Candidate{
			Label:         ct,
			Detail:        fmt.Sprintf("%s configuration", strings.ToUpper(ct[:1])+ct[1:]),
			Documentation: fmt.Sprintf("Configuration block for %s service", ct),
			InsertText:    Template(ct),
			Snippet:       true,
			Kind:          KindConfigType,
		})
	}
	return bucket(PriorityConfigType, cands)
}

// nestedCandidates serves depths below the config type level: environment
// names when an environment encloses the cursor, database fields under a
// "database" key.
func nestedCandidates(ctx tokenizer.PatternContext) []Candidate {
	var envs, fields []Candidate
	for _, parent := range ctx.ParentPatterns {
		if !isEnvironment(parent) {
			continue
		}
		for _, env := range Environments {
			if hasPrefixFold(env, ctx.CurrentPattern) {
				envs = append(envs, environmentCandidate(env, "Environment: "+env))
			}
		}
		break
	}
	if ctx.HasParent("database") {
		for _, key := range DatabaseFields {
			if !hasPrefixFold(key, ctx.CurrentPattern) {
				continue
			}
			fields = append(fields, Candidate{
				Label:      key,
				Detail:     "Database " + key,
				InsertText: key + ": ",
				Kind:       KindField,
			})
		}
	}
	return append(bucket(PriorityEnvironment, envs), bucket(PriorityField, fields)...)
}

func hasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
