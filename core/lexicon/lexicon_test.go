package lexicon

import (
	"reflect"
	"testing"
)

// hasWord reports whether the lexicon attests the exact form.
func hasWord(t *testing.T, lx *Lexicon, word string) bool {
	t.Helper()
	for _, w := range lx.Words() {
		if w == word {
			return true
		}
	}
	return false
}

// TestNewFiltersEntries tests that junk entries are dropped and valid ones
// trimmed on construction.
func TestNewFiltersEntries(t *testing.T) {
	lx := New([]string{"  été  ", "", "   ", "two\nlines", "côté"})

	if !hasWord(t, lx, "été") {
		t.Error("trimmed entry should be attested")
	}
	if !hasWord(t, lx, "côté") {
		t.Error("plain entry should be attested")
	}
	if hasWord(t, lx, "two\nlines") {
		t.Error("multi-line entry should be filtered out")
	}
}

// TestFallbackAlwaysMerged tests that the safety words are attested even
// when the caller supplies its own list.
func TestFallbackAlwaysMerged(t *testing.T) {
	lx := New([]string{"bonjour"})

	for _, w := range []string{"cœur", "œuvre", "élève", "évaluation"} {
		if !hasWord(t, lx, w) {
			t.Errorf("fallback word %q should be attested", w)
		}
	}
	if !hasWord(t, lx, "bonjour") {
		t.Error("caller word should be attested")
	}
}

// TestLigaturize tests digraph replacement with casing preserved.
func TestLigaturize(t *testing.T) {
	lx := NewFallback()

	tests := []struct {
		in   string
		want string
	}{
		{"coeur", "cœur"},
		{"Coeur", "Cœur"},
		{"COEUR", "CŒUR"},
		{"oeuvre", "œuvre"},
		{"Oedipe", "Œdipe"},
		{"OEDIPE", "ŒDIPE"},
		{"aequo", "æquo"},
		{"oeil", "œil"},
		// Already ligatured input is stable.
		{"cœur", "cœur"},
		{"Œdipe", "Œdipe"},
		// Unknown words are untouched.
		{"oeting", "oeting"},
		{"bonjour", "bonjour"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := lx.Ligaturize(tt.in); got != tt.want {
			t.Errorf("Ligaturize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestLigaturizeInflections tests that singular and plural forms index
// under separate ASCII keys.
func TestLigaturizeInflections(t *testing.T) {
	lx := New([]string{"nœud", "nœuds"})

	if got := lx.Ligaturize("noeud"); got != "nœud" {
		t.Errorf("Ligaturize(noeud) = %q, want nœud", got)
	}
	if got := lx.Ligaturize("noeuds"); got != "nœuds" {
		t.Errorf("Ligaturize(noeuds) = %q, want nœuds", got)
	}
}

// TestAccentize tests single-candidate diacritic restoration.
func TestAccentize(t *testing.T) {
	lx := NewFallback()

	tests := []struct {
		in   string
		want string
	}{
		{"EVALUATION", "ÉVALUATION"},
		{"Evaluation", "Évaluation"},
		{"evaluation", "évaluation"},
		{"NOEL", "NOËL"},
		{"ECOLE", "ÉCOLE"},
		{"FRANCAIS", "FRANÇAIS"},
		// eleve resolves to both élève and élevé, so nothing happens.
		{"ELEVE", "ELEVE"},
		{"Eleve", "Eleve"},
		{"eleve", "eleve"},
		// Words already carrying their diacritics are stable.
		{"ÉLÈVE", "ÉLÈVE"},
		{"élève", "élève"},
		{"élevé", "élevé"},
		// Unknown words are untouched.
		{"XYZZY", "XYZZY"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := lx.Accentize(tt.in); got != tt.want {
			t.Errorf("Accentize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestAccentizeCompatibility tests that existing diacritics in the input
// narrow the candidate set instead of being overwritten.
func TestAccentizeCompatibility(t *testing.T) {
	lx := New([]string{"cote", "coté", "côte", "côté"})

	// Bare input: three accented candidates, ambiguous.
	if got := lx.Accentize("COTE"); got != "COTE" {
		t.Errorf("Accentize(COTE) = %q, want COTE", got)
	}
	// An existing circumflex still leaves côte and côté in play.
	if got := lx.Accentize("CÔTE"); got != "CÔTE" {
		t.Errorf("Accentize(CÔTE) = %q, want CÔTE", got)
	}
	// The acute rules out côte but coté and côté both remain.
	if got := lx.Accentize("COTÉ"); got != "COTÉ" {
		t.Errorf("Accentize(COTÉ) = %q, want COTÉ", got)
	}
	// Both marks present leaves a single candidate, which is the input.
	if got := lx.Accentize("CÔTÉ"); got != "CÔTÉ" {
		t.Errorf("Accentize(CÔTÉ) = %q, want CÔTÉ", got)
	}
}

// TestContainsFragment tests the case-insensitive diagnostic lookup.
func TestContainsFragment(t *testing.T) {
	lx := New([]string{"château", "châteaux", "chat"})

	got := lx.ContainsFragment("châtea")
	want := []string{"château", "châteaux"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ContainsFragment(châtea) = %v, want %v", got, want)
	}

	got = lx.ContainsFragment("CHAT")
	if len(got) < 3 {
		t.Errorf("ContainsFragment(CHAT) = %v, want at least chat, château, châteaux", got)
	}

	if got := lx.ContainsFragment(""); got != nil {
		t.Errorf("ContainsFragment(\"\") = %v, want nil", got)
	}
	if got := lx.ContainsFragment("zzzz"); len(got) != 0 {
		t.Errorf("ContainsFragment(zzzz) = %v, want empty", got)
	}
}

// TestIndexAccessorsCopy tests that the index accessors hand out copies,
// not the internal maps.
func TestIndexAccessorsCopy(t *testing.T) {
	lx := NewFallback()

	lig := lx.LigatureIndex()
	lig["coeur"] = "tampered"
	if got := lx.Ligaturize("coeur"); got != "cœur" {
		t.Errorf("Ligaturize(coeur) after tampering = %q, want cœur", got)
	}

	acc := lx.AccentIndex()
	for k := range acc {
		acc[k] = nil
	}
	if got := lx.Accentize("EVALUATION"); got != "ÉVALUATION" {
		t.Errorf("Accentize(EVALUATION) after tampering = %q, want ÉVALUATION", got)
	}
}

// TestWordsSorted tests that Words returns a sorted copy.
func TestWordsSorted(t *testing.T) {
	lx := New([]string{"zèbre", "abeille"})
	words := lx.Words()
	if len(words) == 0 {
		t.Fatal("expected a non-empty word list")
	}
	for i := 1; i < len(words); i++ {
		if words[i-1] > words[i] {
			t.Fatalf("word list not sorted at %d: %q > %q", i, words[i-1], words[i])
		}
	}
	if lx.WordCount() != len(words) {
		t.Errorf("WordCount() = %d, want %d", lx.WordCount(), len(words))
	}
}
