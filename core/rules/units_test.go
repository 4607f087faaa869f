package rules

import (
	"strings"
	"testing"
)

// TestUnitsFix tests the narrow non-breaking space between numbers and
// units, currencies included.
func TestUnitsFix(t *testing.T) {
	r := NewUnitsRule()

	tests := []struct {
		in   string
		want string
	}{
		{"Il fait 20°C et 50kg.", "Il fait 20 °C et 50 kg."},
		{"20 °C", "20 °C"},
		{"100%", "100 %"},
		{"3 CHF", "3 CHF"},
		{"10 kWh", "10 kWh"},
		{"Il a 3 min de retard", "Il a 3 min de retard"},
		{"20,5 €", "20,5 €"},
		// An ordinary breaking space that is already U+00A0 gets narrowed.
		{"20 kg", "20 kg"},
		// Already correct.
		{"20 °C", "20 °C"},
		// Unit glued to a following word character is not a unit.
		{"50kgs", "50kgs"},
		// No unit at all.
		{"Page 3 du livre", "Page 3 du livre"},
	}
	for _, tt := range tests {
		if got := r.Fix(tt.in); got != tt.want {
			t.Errorf("Fix(%q) = %q, want %q", tt.in, got, tt.want)
		}
		checkIdempotent(t, r, tt.in)
	}
}

// TestUnitsFixRescansRejectedSpan tests that a pair glued to a word still
// yields the shorter valid pair hiding in its decimals.
func TestUnitsFixRescansRejectedSpan(t *testing.T) {
	r := NewUnitsRule()

	if got := r.Fix("x1.5kg"); got != "x1.5 kg" {
		t.Errorf("Fix(x1.5kg) = %q, want x1.5 kg", got)
	}
}

// TestUnitsDetect tests messages and the acceptance of both non-breaking
// space widths.
func TestUnitsDetect(t *testing.T) {
	r := NewUnitsRule()

	findings := r.Detect("Il fait 20°C et 50kg.")
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d: %v", len(findings), findings)
	}
	if !strings.Contains(findings[0].Message, "«20°C» → «20 °C»") {
		t.Errorf("message = %q", findings[0].Message)
	}
	if findings[1].Preview != "50 kg" {
		t.Errorf("preview = %q, want 50 kg", findings[1].Preview)
	}

	for _, text := range []string{"20 °C", "20 kg"} {
		if findings := r.Detect(text); len(findings) != 0 {
			t.Errorf("Detect(%q) = %v, want none", text, findings)
		}
	}
}

// TestUnitsLongestAlternativeWins tests that compound units are preferred
// over their prefixes.
func TestUnitsLongestAlternativeWins(t *testing.T) {
	r := NewUnitsRule()

	findings := r.Detect("10 kWh")
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d: %v", len(findings), findings)
	}
	if got := findings[0].Preview; got != "10 kWh" {
		t.Errorf("preview = %q, want 10 kWh", got)
	}
}
