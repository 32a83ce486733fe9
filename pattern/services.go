// Copyright © 2024 The StrataRegula authors

package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

// ServiceRule extracts service names from a string value.
type ServiceRule func(value string) []string

// regexpRule returns a rule yielding submatch group of every match of re.
func regexpRule(re *regexp.Regexp, group int) ServiceRule {
	return func(value string) []string {
		var out []string
		for _, m := range re.FindAllStringSubmatch(value, -1) {
			if group < len(m) && m[group] != "" {
				out = append(out, m[group])
			}
		}
		return out
	}
}

var (
	serviceNounRe   = regexp.MustCompile(`(?i)\b(frontend|backend|api|worker|database|cache|queue)\b`)
	serviceSuffixRe = regexp.MustCompile(`(?i)\b(\w+)[-_]service\b`)
	svcSuffixRe     = regexp.MustCompile(`(?i)\b(\w+)[-_](?:api|svc)\b`)
)

// DefaultServiceRules are evaluated in order and their results unioned:
// known service nouns, "<name>-service", then "<name>-svc" / "<name>-api".
func DefaultServiceRules() []ServiceRule {
	return []ServiceRule{
		regexpRule(serviceNounRe, 1),
		regexpRule(serviceSuffixRe, 1),
		regexpRule(svcSuffixRe, 1),
	}
}

// serviceKeyMarkers flag mapping keys that name a service.
var serviceKeyMarkers = []string{"service", "svc", "app"}

// ExtractServices infers the service names carried by a document value.
// Strings are run through rules; for mappings, every key containing one
// of "service", "svc" or "app" is itself a service. Other values carry
// none.
func ExtractServices(value any, rules []ServiceRule) []string {
	var found []string
	switch v := value.(type) {
	case string:
		for _, rule := range rules {
			found = append(found, rule(v)...)
		}
	case map[string]any:
		for key := range v {
			if isServiceKey(key) {
				found = append(found, key)
			}
		}
	case map[any]any:
		for key := range v {
			if k := fmt.Sprint(key); isServiceKey(k) {
				found = append(found, k)
			}
		}
	}
	return normalizeServices(found)
}

func isServiceKey(key string) bool {
	lower := strings.ToLower(key)
	for _, marker := range serviceKeyMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
