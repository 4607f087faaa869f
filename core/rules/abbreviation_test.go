package rules

import (
	"strings"
	"testing"
)

// TestAbbreviationFix tests canonical abbreviation rewrites.
func TestAbbreviationFix(t *testing.T) {
	r := NewAbbreviationRule()

	tests := []struct {
		in   string
		want string
	}{
		{"cad", "c.-à-d."},
		{"c.a.d", "c.-à-d."},
		{"c-a-d", "c.-à-d."},
		{"C A D", "c.-à-d."},
		{"c.-à-d.", "c.-à-d."},
		{"p ex", "p. ex."},
		{"p. ex.", "p. ex."},
		{"P.Ex.", "p. ex."},
		{"n.b.", "N. B."},
		{"N. B.", "N. B."},
		{"etc.. etc... ETC... EtC…", "etc. etc. ETC. Etc."},
		{"etc.", "etc."},
		{"et cetera", "et cetera"},
		{"cadre", "cadre"},
		{"pexiste", "pexiste"},
	}
	for _, tt := range tests {
		if got := r.Fix(tt.in); got != tt.want {
			t.Errorf("Fix(%q) = %q, want %q", tt.in, got, tt.want)
		}
		checkIdempotent(t, r, tt.in)
	}
}

// TestAbbreviationFixInSentence tests rewrites embedded in prose.
func TestAbbreviationFixInSentence(t *testing.T) {
	r := NewAbbreviationRule()

	in := "Il viendra, cad demain, p ex vers midi, etc..."
	want := "Il viendra, c.-à-d. demain, p. ex. vers midi, etc."
	if got := r.Fix(in); got != want {
		t.Errorf("Fix(%q) = %q, want %q", in, got, want)
	}
}

// TestAbbreviationDetect tests messages and previews for each
// abbreviation family.
func TestAbbreviationDetect(t *testing.T) {
	r := NewAbbreviationRule()

	findings := r.Detect("cad et p ex et n.b. et etc...")
	if len(findings) != 4 {
		t.Fatalf("expected 4 findings, got %d: %v", len(findings), findings)
	}
	wantPreviews := []string{"c.-à-d.", "p. ex.", "N. B.", "etc."}
	for i, want := range wantPreviews {
		if findings[i].Preview != want {
			t.Errorf("finding %d preview = %q, want %q", i, findings[i].Preview, want)
		}
	}
	if !strings.Contains(findings[0].Message, "attendu «c.-à-d.»") {
		t.Errorf("cad message = %q", findings[0].Message)
	}
	if !strings.Contains(findings[3].Message, "Ponctuation superflue") {
		t.Errorf("etc message = %q", findings[3].Message)
	}
}
