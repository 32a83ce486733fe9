// Copyright © 2024 The StrataRegula authors

package completion

import (
	"fmt"
	"strings"
)

// Static vocabulary offered alongside learned patterns. Order is the
// order candidates are presented in within their bucket.
var (
	Services     = []string{"frontend", "backend", "api", "worker", "database", "cache", "queue", "proxy", "web"}
	Environments = []string{"prod", "dev", "test", "staging", "local"}
	ConfigTypes  = []string{"database", "redis", "kafka", "elasticsearch", "monitoring"}
	Wildcards    = []string{"*", "**", "service.*", "*.prod", "prod.*"}

	// DatabaseFields are offered for keys nested under a "database" block.
	DatabaseFields = []string{"host", "port", "name", "user", "password", "ssl", "pool_size"}
)

// SnippetDef is a whole top-level block inserted as a snippet.
type SnippetDef struct {
	Name          string
	Body          string
	Documentation string
}

// Snippets are offered at the service level, filtered by name.
var Snippets = []SnippetDef{
	{
		Name:          "service_times",
		Body:          "service_times:\n  ${1:service}.${2:*}.${3:metric}: ${4:100}",
		Documentation: "Service timing configuration with wildcard patterns",
	},
	{
		Name:          "resource_limits",
		Body:          "resource_limits:\n  ${1:service}.${2:*}.cpu: ${3:80}\n  ${1:service}.${2:*}.memory: ${4:512}",
		Documentation: "Resource limit configuration for services",
	},
	{
		Name:          "traffic_routing",
		Body:          "traffic_routing:\n  ${1:source}.${2:*} -> ${3:destination}.${4:*}: ${5:weight}",
		Documentation: "Traffic routing configuration with patterns",
	},
	{
		Name:          "regions",
		Body:          "regions:\n  ${1:region_name}:",
		Documentation: "Region block keyed by region name",
	},
	{
		Name:          "environments",
		Body:          "environments:\n  ${1:env_name}:",
		Documentation: "Environment block keyed by environment name",
	},
}

// wildcardDocs holds Markdown for wildcards that need more than a one-line
// description.
var wildcardDocs = map[string]string{
	"*": "**Single-level wildcard**: Matches one hierarchy level\n\n" +
		"Example: `web.*.response` matches `web.frontend.response` but not `web.api.v1.response`",
	"**": "**Recursive wildcard**: Matches multiple hierarchy levels\n\n" +
		"Example: `api.**.timeout` matches both `api.v1.timeout` and `api.v1.users.timeout`",
}

// TemplateField is one line of a config type template.
type TemplateField struct {
	Name    string
	Default string
}

var configTemplates = map[string][]TemplateField{
	"database": {
		{"host", "localhost"},
		{"port", "5432"},
		{"name", "dbname"},
		{"user", "username"},
		{"password", "password"},
	},
	"redis": {
		{"host", "localhost"},
		{"port", "6379"},
		{"db", "0"},
		{"password", ""},
	},
	"kafka": {
		{"brokers", "localhost:9092"},
		{"topic", "events"},
		{"group_id", "consumer-group"},
	},
	"elasticsearch": {
		{"hosts", "localhost:9200"},
		{"index", "logs"},
		{"timeout", "30s"},
	},
	"monitoring": {
		{"enabled", "true"},
		{"interval", "30s"},
		{"endpoint", "/metrics"},
	},
}

// TemplateFields returns the fields of a config type's template, or nil
// for unknown types.
func TemplateFields(configType string) []TemplateField {
	return configTemplates[configType]
}

// Template renders the snippet inserted for a config type, one
// "field: ${n:default}" line per field. Unknown types get a single
// "<type>: ${1:value}" placeholder.
func Template(configType string) string {
	fields, ok := configTemplates[configType]
	if !ok {
		return fmt.Sprintf("%s: ${1:value}", configType)
	}
	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = fmt.Sprintf("%s: ${%d:%s}", f.Name, i+1, f.Default)
	}
	return strings.Join(lines, "\n")
}

func isEnvironment(name string) bool {
	for _, env := range Environments {
		if env == name {
			return true
		}
	}
	return false
}
