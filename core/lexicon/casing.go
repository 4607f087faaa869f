package lexicon

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// combiningMarks matches Unicode combining marks (category Mn).
var combiningMarks = runes.In(unicode.Mn)

// StripDiacritics removes accent marks from a string: NFD decomposition,
// drop combining marks, NFC recomposition.
func StripDiacritics(s string) string {
	// A fresh transformer per call: chains carry internal buffers and must
	// not be shared across goroutines.
	t := transform.Chain(norm.NFD, runes.Remove(combiningMarks), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeASCII replaces œ/æ ligatures with their ASCII digraphs.
func NormalizeASCII(s string) string {
	if !containsLigature(s) {
		return s
	}
	r := strings.NewReplacer("Œ", "OE", "œ", "oe", "Æ", "AE", "æ", "ae")
	return r.Replace(s)
}

func containsLigature(s string) bool {
	return strings.ContainsAny(s, "œŒæÆ")
}

// isUpperString reports whether s has at least one cased rune and every
// cased rune is uppercase (Python str.isupper semantics).
func isUpperString(s string) bool {
	hasCased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasCased = true
		}
	}
	return hasCased
}

// isLowerString reports whether s has at least one cased rune and every
// cased rune is lowercase.
func isLowerString(s string) bool {
	hasCased := false
	for _, r := range s {
		if unicode.IsUpper(r) {
			return false
		}
		if unicode.IsLower(r) {
			hasCased = true
		}
	}
	return hasCased
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// applyCasePattern transfers the casing of original onto the lowercase
// suggestion: all-upper originals uppercase the suggestion, all-lower
// originals keep it as is, originals with a leading capital capitalize the
// first letter only.
func applyCasePattern(original, suggestion string) string {
	if suggestion == "" {
		return suggestion
	}
	if isUpperString(original) {
		return strings.ToUpper(suggestion)
	}
	if isLowerString(original) {
		return suggestion
	}
	first, _ := utf8.DecodeRuneInString(original)
	if unicode.IsUpper(first) {
		return upperFirst(suggestion)
	}
	return suggestion
}

// isPotentialWord reports whether text looks like a lexical entry: trimmed
// non-empty, single line, at most 64 runes.
func isPotentialWord(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if strings.ContainsAny(trimmed, "\n\r") {
		return false
	}
	if utf8.RuneCountInString(trimmed) > 64 {
		return false
	}
	return true
}
