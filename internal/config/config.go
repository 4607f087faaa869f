// Package config resolves per-rule severities from built-in defaults,
// an optional JSON configuration file and command-line severity specs.
// Later layers override earlier ones: defaults, then file, then flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/Typographe/core/errors"
	"github.com/FocuswithJustin/Typographe/core/rules"
)

// RuleNames lists every configurable rule name.
var RuleNames = []string{
	"abbreviation",
	"ordinal",
	"casing",
	"spacing",
	"quotes",
	"units",
	"ligatures",
	"diacritics",
	"foreign",
	"admonitions",
}

// defaultLevels holds the published default severity of each rule.
var defaultLevels = Map{
	"abbreviation": rules.SeverityFix,
	"ordinal":      rules.SeverityFix,
	"casing":       rules.SeverityWarn,
	"spacing":      rules.SeverityFix,
	"quotes":       rules.SeverityFix,
	"units":        rules.SeverityFix,
	"ligatures":    rules.SeverityIgnore,
	"diacritics":   rules.SeverityWarn,
	"foreign":      rules.SeverityFix,
	"admonitions":  rules.SeverityFix,
}

// Map assigns a severity to each rule name. A Map may be partial; Level
// falls back to the rule's default for names it does not contain.
type Map map[string]rules.Severity

// Defaults returns a fresh Map holding the default severity of every rule.
func Defaults() Map {
	return defaultLevels.Clone()
}

// Clone returns an independent copy of the map.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for name, level := range m {
		out[name] = level
	}
	return out
}

// Apply copies every assignment from overrides into m.
func (m Map) Apply(overrides Map) {
	for name, level := range overrides {
		m[name] = level
	}
}

// Level returns the severity configured for the named rule, falling back
// to the rule's default, then to ignore for unknown names.
func (m Map) Level(name string) rules.Severity {
	if level, ok := m[name]; ok {
		return level
	}
	if level, ok := defaultLevels[name]; ok {
		return level
	}
	return rules.SeverityIgnore
}

// Lookup adapts the map to the orchestrator's severity resolver.
func (m Map) Lookup() rules.SeverityLookup {
	return func(r rules.Rule) rules.Severity {
		return m.Level(r.Name())
	}
}

// String renders the map as a canonical severity spec, rule names in
// catalogue order. Names outside the catalogue are appended sorted.
func (m Map) String() string {
	var parts []string
	for _, name := range RuleNames {
		if level, ok := m[name]; ok {
			parts = append(parts, name+"="+string(level))
		}
	}
	var extra []string
	for name := range m {
		if !IsRuleName(name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		parts = append(parts, name+"="+string(m[name]))
	}
	return strings.Join(parts, ",")
}

// IsRuleName reports whether name is part of the rule catalogue.
func IsRuleName(name string) bool {
	for _, known := range RuleNames {
		if name == known {
			return true
		}
	}
	return false
}

// severitySpec is the participle grammar for command-line severity specs.
// Examples: "spacing=warn", "all=fix,casing=warn", "quotes = ignore"
//
//nolint:govet // participle grammar tags are not standard struct tags
type severitySpec struct {
	Entries []*severityEntry `@@ ( "," @@ )*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type severityEntry struct {
	Rule  string `@Ident "="`
	Level string `@Ident`
}

// severityLexer defines the lexer for severity specs.
var severityLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9-]*`},
	{Name: "Punct", Pattern: `[=,]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// severityParser is the participle parser for severity specs.
var severityParser = participle.MustBuild[severitySpec](
	participle.Lexer(severityLexer),
	participle.Elide("Whitespace"),
)

// ParseSeverities parses a severity spec such as "all=fix,casing=warn"
// into the assignments it makes. The special name "all" assigns every
// rule except admonitions and is applied before the explicit names
// regardless of its position, so explicit assignments always win. An
// empty spec yields an empty map. Unknown rule names and invalid levels
// are rejected.
func ParseSeverities(spec string) (Map, error) {
	out := Map{}
	if strings.TrimSpace(spec) == "" {
		return out, nil
	}

	parsed, err := severityParser.ParseString("", spec)
	if err != nil {
		return nil, errors.NewValidation("rules", fmt.Sprintf("invalid severity spec %q: expected name=level pairs separated by commas", spec))
	}

	// Wildcard pass first so that explicit names override it.
	for _, entry := range parsed.Entries {
		if !strings.EqualFold(entry.Rule, "all") {
			continue
		}
		level, err := rules.ParseSeverity(entry.Level)
		if err != nil {
			return nil, err
		}
		for _, name := range RuleNames {
			if name == "admonitions" {
				continue
			}
			out[name] = level
		}
	}
	for _, entry := range parsed.Entries {
		if strings.EqualFold(entry.Rule, "all") {
			continue
		}
		if err := assign(out, entry.Rule, entry.Level); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// assign validates one name=level pair and records it in m.
func assign(m Map, name, level string) error {
	key := strings.ToLower(strings.TrimSpace(name))
	if !IsRuleName(key) {
		return errors.NewValidation("rules", fmt.Sprintf("unknown rule %q", name))
	}
	parsed, err := rules.ParseSeverity(level)
	if err != nil {
		return err
	}
	// Admonition handling is a rewrite-only concern with no detection
	// pass, so warn has nothing to report.
	if key == "admonitions" && parsed == rules.SeverityWarn {
		return errors.NewValidation("admonitions", `"warn" is not supported, use ignore or fix`)
	}
	m[key] = parsed
	return nil
}

// File is the optional JSON configuration file (typographe.json).
type File struct {
	// Lexicon is the path to an external lexicon artifact.
	Lexicon string `json:"lexicon,omitempty"`

	// LogLevel selects the logging verbosity (debug, info, warning, error).
	LogLevel string `json:"log_level,omitempty"`

	// LogFormat selects the log output format (text or json).
	LogFormat string `json:"log_format,omitempty"`

	// Rules maps rule names (or "all") to severity levels.
	Rules map[string]string `json:"rules,omitempty"`

	// AdmonitionTranslations overrides admonition title translations.
	// An empty value disables the type.
	AdmonitionTranslations map[string]string `json:"admonition_translations,omitempty"`
}

// LoadFile reads and decodes a JSON configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.NewParse("JSON", path, err.Error())
	}
	return &f, nil
}

// SeverityMap validates the file's rule assignments and returns them as
// a Map. The "all" key behaves as in ParseSeverities.
func (f *File) SeverityMap() (Map, error) {
	if f == nil {
		return Map{}, nil
	}
	return SeverityMap(f.Rules)
}

// SeverityMap validates a raw name-to-level mapping, as carried by
// config files and API requests, and returns it as a Map. The "all" key
// behaves as in ParseSeverities.
func SeverityMap(raw map[string]string) (Map, error) {
	out := Map{}
	if len(raw) == 0 {
		return out, nil
	}
	if level, ok := wildcardLevel(raw); ok {
		parsed, err := rules.ParseSeverity(level)
		if err != nil {
			return nil, err
		}
		for _, name := range RuleNames {
			if name == "admonitions" {
				continue
			}
			out[name] = parsed
		}
	}
	for name, level := range raw {
		if strings.EqualFold(name, "all") {
			continue
		}
		if err := assign(out, name, level); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// wildcardLevel extracts the "all" assignment from a raw rule map.
func wildcardLevel(raw map[string]string) (string, bool) {
	for name, level := range raw {
		if strings.EqualFold(name, "all") {
			return level, true
		}
	}
	return "", false
}
