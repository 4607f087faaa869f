// Package rules implements the French typographic rule chain: detection
// and correction of spacing, quotes, abbreviations, ordinals, casing,
// ligatures, diacritics and unit spacing issues.
//
// Every rule is pure: Detect never mutates its input and Fix is
// idempotent, so severities can change between runs and already corrected
// files can be scanned again safely.
package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/FocuswithJustin/Typographe/core/errors"
)

// reLetters tokenizes maximal Unicode letter sequences.
var reLetters = regexp.MustCompile(`\pL+`)

// Typographic characters inserted by the rules.
const (
	// NBSP is the non-breaking space placed before colons.
	NBSP = " "
	// NNBSP is the narrow non-breaking space placed before high
	// punctuation and inside guillemets.
	NNBSP = " "
	// Ellipsis is the single-codepoint horizontal ellipsis.
	Ellipsis = "…"
)

// Severity controls how the orchestrator applies a rule.
type Severity string

const (
	// SeverityIgnore skips the rule entirely.
	SeverityIgnore Severity = "ignore"
	// SeverityWarn reports findings without mutating the text.
	SeverityWarn Severity = "warn"
	// SeverityFix rewrites the text and reports nothing.
	SeverityFix Severity = "fix"
)

// Valid reports whether the severity is one of the three known values.
func (s Severity) Valid() bool {
	switch s {
	case SeverityIgnore, SeverityWarn, SeverityFix:
		return true
	}
	return false
}

// ParseSeverity validates a severity name supplied by configuration.
func ParseSeverity(value string) (Severity, error) {
	s := Severity(strings.ToLower(strings.TrimSpace(value)))
	if !s.Valid() {
		return "", errors.NewValidation("severity", fmt.Sprintf("%q must be ignore, warn or fix", value))
	}
	return s, nil
}

// Finding is a single issue reported by a rule: a half-open byte range
// into the scanned text, a human-readable message and an optional
// suggested replacement.
type Finding struct {
	Start   int
	End     int
	Message string
	Preview string
}

// Rule is one typographic concern. Implementations are stateless apart
// from compiled patterns shared for the process lifetime.
type Rule interface {
	// Name identifies the rule in warnings and configuration.
	Name() string
	// Detect returns all findings in text without modifying it.
	Detect(text string) []Finding
	// Fix returns the corrected text. Fix(Fix(x)) == Fix(x).
	Fix(text string) string
}

// spaceClass matches ASCII whitespace plus the two non-breaking spaces
// the rules themselves insert, so reapplying a fix collapses its own
// output instead of stacking spaces.
const spaceClass = `[\s\x{00A0}\x{202F}]`

// isWordRune mirrors the regex \w class over the full Unicode range:
// letters, numbers and the underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// noWordBefore reports whether the byte offset sits at a word boundary on
// its left side.
func noWordBefore(text string, offset int) bool {
	r, size := utf8.DecodeLastRuneInString(text[:offset])
	if size == 0 {
		return true
	}
	return !isWordRune(r)
}

// noWordAfter reports whether the byte offset sits at a word boundary on
// its right side.
func noWordAfter(text string, offset int) bool {
	r, size := utf8.DecodeRuneInString(text[offset:])
	if size == 0 {
		return true
	}
	return !isWordRune(r)
}

// replacement is one span rewrite collected during a fix pass.
type replacement struct {
	start int
	end   int
	text  string
}

// applyReplacements rebuilds text from non-overlapping replacements
// sorted by start offset.
func applyReplacements(text string, repls []replacement) string {
	if len(repls) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, r := range repls {
		b.WriteString(text[last:r.start])
		b.WriteString(r.text)
		last = r.end
	}
	b.WriteString(text[last:])
	return b.String()
}

// letterRuns returns the byte spans of maximal letter sequences that are
// not glued to digits or underscores, the way a Unicode-aware word
// pattern would tokenize prose.
func letterRuns(text string) [][2]int {
	var runs [][2]int
	for _, span := range reLetters.FindAllStringIndex(text, -1) {
		if !noWordBefore(text, span[0]) || !noWordAfter(text, span[1]) {
			continue
		}
		runs = append(runs, [2]int{span[0], span[1]})
	}
	return runs
}
