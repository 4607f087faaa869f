package foreign

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/Typographe/core/segment"
)

// TestMatches tests occurrence lookup with outer boundary guards.
func TestMatches(t *testing.T) {
	matches := Matches("Il a agi de facto.", nil)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d: %v", len(matches), matches)
	}
	m := matches[0]
	if m.Text != "de facto" || m.Start != 9 || m.End != 17 {
		t.Errorf("match = %+v", m)
	}
	if m.Italic {
		t.Error("italic flag must start false")
	}

	// Case-insensitive, original casing preserved.
	matches = Matches("De Facto, c'est ainsi.", nil)
	if len(matches) != 1 || matches[0].Text != "De Facto" {
		t.Errorf("matches = %v", matches)
	}

	// Glued to word characters or hyphens on either side.
	for _, text := range []string{
		"un de factoïde",
		"pseudo-de facto",
		"de facto-isme",
		"code_de facto",
	} {
		if got := Matches(text, nil); len(got) != 0 {
			t.Errorf("Matches(%q) = %v, want none", text, got)
		}
	}

	// Several locutions in one sentence.
	matches = Matches("Décidé de facto et reporté sine die.", nil)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %v", matches)
	}
	if matches[0].Text != "de facto" || matches[1].Text != "sine die" {
		t.Errorf("matches = %v", matches)
	}
}

// TestMatchesIgnoresProtectedRanges tests that occurrences overlapping a
// protected span are dropped.
func TestMatchesIgnoresProtectedRanges(t *testing.T) {
	text := "voir `de facto` et de facto"
	ignore := []segment.Range{{Start: 5, End: 15}}

	matches := Matches(text, ignore)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %v", matches)
	}
	if matches[0].Start != 19 {
		t.Errorf("match = %+v, want the occurrence outside the code span", matches[0])
	}
}

// TestWrapMarkdownRoman tests emphasis wrapping in roman context.
func TestWrapMarkdownRoman(t *testing.T) {
	text := "Il a agi de facto."
	got := WrapMarkdown(text, MarkdownMatches(text, nil))
	if want := "Il a agi _de facto_."; got != want {
		t.Errorf("WrapMarkdown = %q, want %q", got, want)
	}

	text = "Décidé de facto et reporté sine die."
	got = WrapMarkdown(text, MarkdownMatches(text, nil))
	if want := "Décidé _de facto_ et reporté _sine die_."; got != want {
		t.Errorf("WrapMarkdown = %q, want %q", got, want)
	}
}

// TestWrapMarkdownItalicContext tests the counter-style span inside
// already-italic prose.
func TestWrapMarkdownItalicContext(t *testing.T) {
	text := "*Il a agi de facto hier.*"
	matches := MarkdownMatches(text, nil)
	if len(matches) != 1 || !matches[0].Italic {
		t.Fatalf("matches = %v, want one italic match", matches)
	}
	got := WrapMarkdown(text, matches)
	want := "*Il a agi " + CounterSpanOpen + "de facto" + CounterSpanClose + " hier.*"
	if got != want {
		t.Errorf("WrapMarkdown = %q, want %q", got, want)
	}
}

// TestWrapMarkdownIdempotent tests that a second pass leaves both wrap
// forms alone.
func TestWrapMarkdownIdempotent(t *testing.T) {
	for _, text := range []string{
		"Il a agi de facto.",
		"*Il a agi de facto hier.*",
	} {
		once := WrapMarkdown(text, MarkdownMatches(text, nil))
		twice := WrapMarkdown(once, MarkdownMatches(once, nil))
		if once != twice {
			t.Errorf("second pass changed %q into %q", once, twice)
		}
	}
}

// TestMarkdownMatchesSkipsHandled tests the already-wrapped skips.
func TestMarkdownMatchesSkipsHandled(t *testing.T) {
	for _, text := range []string{
		"Il a agi *de facto* hier.",
		"Il a agi <em>de facto</em> hier.",
		"Il a agi <i>de facto</i> hier.",
		"*Il a agi " + CounterSpanOpen + "de facto" + CounterSpanClose + " hier.*",
	} {
		if got := MarkdownMatches(text, nil); len(got) != 0 {
			t.Errorf("MarkdownMatches(%q) = %v, want none", text, got)
		}
	}
}

// TestWarnMessage tests the diagnostic wording.
func TestWarnMessage(t *testing.T) {
	got := WarnMessage("de facto")
	if !strings.Contains(got, "Locution étrangère non italique") || !strings.Contains(got, "«de facto»") {
		t.Errorf("WarnMessage = %q", got)
	}
}
