package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/FocuswithJustin/Typographe/core/errors"
	"github.com/FocuswithJustin/Typographe/core/rules"
)

// checkLevels fails unless got holds exactly the assignments in want.
func checkLevels(t *testing.T, got, want Map) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("map has %d assignments, want %d: %v", len(got), len(want), got)
	}
	for name, level := range want {
		if got[name] != level {
			t.Errorf("level[%q] = %q, want %q", name, got[name], level)
		}
	}
}

// TestDefaults checks the published default severity of each rule and
// that returned maps are independent copies.
func TestDefaults(t *testing.T) {
	d := Defaults()
	if len(d) != len(RuleNames) {
		t.Fatalf("Defaults() has %d entries, want %d", len(d), len(RuleNames))
	}
	for name, want := range map[string]rules.Severity{
		"abbreviation": rules.SeverityFix,
		"casing":       rules.SeverityWarn,
		"ligatures":    rules.SeverityIgnore,
		"diacritics":   rules.SeverityWarn,
		"admonitions":  rules.SeverityFix,
	} {
		if d[name] != want {
			t.Errorf("Defaults()[%q] = %q, want %q", name, d[name], want)
		}
	}

	d["casing"] = rules.SeverityFix
	if Defaults()["casing"] != rules.SeverityWarn {
		t.Error("mutating a returned map changed the defaults")
	}
}

// TestParseSeverities covers explicit assignments, the all wildcard and
// whitespace tolerance.
func TestParseSeverities(t *testing.T) {
	allExceptAdmonitions := func(level rules.Severity) Map {
		m := Map{}
		for _, name := range RuleNames {
			if name != "admonitions" {
				m[name] = level
			}
		}
		return m
	}

	tests := []struct {
		name string
		spec string
		want Map
	}{
		{"empty", "", Map{}},
		{"blank", "   ", Map{}},
		{"single", "spacing=warn", Map{"spacing": rules.SeverityWarn}},
		{"multiple", "spacing=warn,quotes=ignore", Map{
			"spacing": rules.SeverityWarn,
			"quotes":  rules.SeverityIgnore,
		}},
		{"spaces around tokens", " spacing = warn , quotes = ignore ", Map{
			"spacing": rules.SeverityWarn,
			"quotes":  rules.SeverityIgnore,
		}},
		{"case insensitive", "Casing=Warn", Map{"casing": rules.SeverityWarn}},
		{"wildcard", "all=fix", allExceptAdmonitions(rules.SeverityFix)},
		{"explicit overrides wildcard", "all=fix,casing=warn", func() Map {
			m := allExceptAdmonitions(rules.SeverityFix)
			m["casing"] = rules.SeverityWarn
			return m
		}()},
		{"wildcard after explicit still loses", "casing=warn,all=fix", func() Map {
			m := allExceptAdmonitions(rules.SeverityFix)
			m["casing"] = rules.SeverityWarn
			return m
		}()},
		{"admonitions fix", "admonitions=fix", Map{"admonitions": rules.SeverityFix}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSeverities(tt.spec)
			if err != nil {
				t.Fatalf("ParseSeverities(%q) error: %v", tt.spec, err)
			}
			checkLevels(t, got, tt.want)
		})
	}
}

// TestParseSeveritiesErrors checks that malformed specs, unknown rules
// and invalid levels are rejected as validation errors.
func TestParseSeveritiesErrors(t *testing.T) {
	tests := []struct {
		name string
		spec string
	}{
		{"unknown rule", "bogus=fix"},
		{"invalid level", "spacing=sometimes"},
		{"admonitions warn", "admonitions=warn"},
		{"wildcard invalid level", "all=loud"},
		{"missing level", "spacing"},
		{"missing name", "=fix"},
		{"trailing comma", "spacing=fix,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeverities(tt.spec)
			if err == nil {
				t.Fatalf("ParseSeverities(%q) succeeded, want error", tt.spec)
			}
			if !stderrors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("ParseSeverities(%q) error = %v, want ErrInvalidInput", tt.spec, err)
			}
		})
	}
}

// TestLevelFallback checks the default and unknown-name fallbacks.
func TestLevelFallback(t *testing.T) {
	m := Map{"spacing": rules.SeverityIgnore}

	if got := m.Level("spacing"); got != rules.SeverityIgnore {
		t.Errorf("Level(spacing) = %q, want ignore", got)
	}
	if got := m.Level("casing"); got != rules.SeverityWarn {
		t.Errorf("Level(casing) = %q, want the warn default", got)
	}
	if got := m.Level("nonsense"); got != rules.SeverityIgnore {
		t.Errorf("Level(nonsense) = %q, want ignore", got)
	}
}

// TestLookup checks that the orchestrator adapter resolves severities by
// rule name.
func TestLookup(t *testing.T) {
	m := Map{"spacing": rules.SeverityIgnore}
	lookup := m.Lookup()

	if got := lookup(rules.NewSpacingRule()); got != rules.SeverityIgnore {
		t.Errorf("lookup(spacing) = %q, want ignore", got)
	}
	if got := lookup(rules.NewQuotesRule()); got != rules.SeverityFix {
		t.Errorf("lookup(quotes) = %q, want the fix default", got)
	}
}

// TestMapString checks the canonical rendering order.
func TestMapString(t *testing.T) {
	m := Map{
		"quotes":  rules.SeverityIgnore,
		"casing":  rules.SeverityWarn,
		"spacing": rules.SeverityFix,
	}
	want := "casing=warn,spacing=fix,quotes=ignore"
	if got := m.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

// TestApply checks the override layering used for file-under-flags merges.
func TestApply(t *testing.T) {
	m := Defaults()
	m.Apply(Map{"casing": rules.SeverityFix, "units": rules.SeverityIgnore})

	if m["casing"] != rules.SeverityFix {
		t.Errorf("casing = %q after Apply, want fix", m["casing"])
	}
	if m["units"] != rules.SeverityIgnore {
		t.Errorf("units = %q after Apply, want ignore", m["units"])
	}
	if m["spacing"] != rules.SeverityFix {
		t.Errorf("spacing = %q after Apply, want untouched fix default", m["spacing"])
	}
}

// TestLoadFile checks JSON decoding and its error taxonomy.
func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "typographe.json")
	data := `{
		"lexicon": "morphalou.json.xz",
		"log_level": "debug",
		"log_format": "json",
		"rules": {"all": "fix", "casing": "warn"}
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if f.Lexicon != "morphalou.json.xz" {
		t.Errorf("Lexicon = %q, want morphalou.json.xz", f.Lexicon)
	}
	if f.LogLevel != "debug" || f.LogFormat != "json" {
		t.Errorf("log settings = %q/%q, want debug/json", f.LogLevel, f.LogFormat)
	}

	m, err := f.SeverityMap()
	if err != nil {
		t.Fatalf("SeverityMap() error: %v", err)
	}
	if m["casing"] != rules.SeverityWarn {
		t.Errorf("casing = %q, want the explicit warn", m["casing"])
	}
	if m["quotes"] != rules.SeverityFix {
		t.Errorf("quotes = %q, want fix from the wildcard", m["quotes"])
	}
	if _, ok := m["admonitions"]; ok {
		t.Error("wildcard assigned admonitions")
	}

	if _, err := LoadFile(filepath.Join(dir, "absent.json")); err == nil {
		t.Error("LoadFile(absent) succeeded, want error")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(bad); !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("LoadFile(bad) error = %v, want ErrInvalidInput", err)
	}
}

// TestSeverityMapRejectsInvalid checks file-level rule validation.
func TestSeverityMapRejectsInvalid(t *testing.T) {
	f := &File{Rules: map[string]string{"bogus": "fix"}}
	if _, err := f.SeverityMap(); !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("SeverityMap() error = %v, want ErrInvalidInput", err)
	}

	f = &File{Rules: map[string]string{"admonitions": "warn"}}
	if _, err := f.SeverityMap(); !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("SeverityMap(admonitions=warn) error = %v, want ErrInvalidInput", err)
	}
}
