package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var mois = []string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

var jours = []string{
	"lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi", "dimanche",
}

var langues = []string{
	"français", "anglais", "espagnol", "allemand", "italien", "portugais",
	"néerlandais", "chinois", "japonais", "arabe", "russe",
}

var pays = []string{
	"France", "Suisse", "Allemagne", "Italie", "Espagne", "Portugal",
	"Belgique", "Luxembourg", "États-Unis", "Royaume-Uni",
}

// lowercaseTarget is one word that must stay lowercase mid-sentence,
// matched through its capitalized form.
type lowercaseTarget struct {
	word    string
	pattern *regexp.Regexp
}

// countryTarget is one country name enforced in its canonical casing.
type countryTarget struct {
	canonical string
	pattern   *regexp.Regexp
}

var (
	lowercaseTargets []lowercaseTarget
	countryTargets   []countryTarget
)

func init() {
	for _, word := range append(append(append([]string{}, mois...), jours...), langues...) {
		capitalized := capitalizeFirst(word)
		lowercaseTargets = append(lowercaseTargets, lowercaseTarget{
			word:    word,
			pattern: regexp.MustCompile(regexp.QuoteMeta(capitalized)),
		})
	}
	for _, country := range pays {
		countryTargets = append(countryTargets, countryTarget{
			canonical: country,
			pattern:   regexp.MustCompile(`(?i)` + regexp.QuoteMeta(country)),
		})
	}
}

// CasingRule lowercases month, weekday and language names that are not at
// a sentence start and restores the canonical casing of country names.
type CasingRule struct{}

// NewCasingRule returns the casing rule.
func NewCasingRule() *CasingRule {
	return &CasingRule{}
}

// Name implements Rule.
func (r *CasingRule) Name() string { return "casing" }

// Detect implements Rule.
func (r *CasingRule) Detect(text string) []Finding {
	var findings []Finding
	for _, target := range lowercaseTargets {
		for _, span := range boundedMatches(text, target.pattern) {
			if isSentenceStart(text, span[0]) {
				continue
			}
			findings = append(findings, Finding{
				Start:   span[0],
				End:     span[1],
				Message: fmt.Sprintf("Casse incorrecte pour «%s»", text[span[0]:span[1]]),
				Preview: target.word,
			})
		}
	}
	for _, target := range countryTargets {
		for _, span := range boundedMatches(text, target.pattern) {
			if text[span[0]:span[1]] == target.canonical {
				continue
			}
			findings = append(findings, Finding{
				Start:   span[0],
				End:     span[1],
				Message: fmt.Sprintf("Casse incorrecte pour le pays «%s»", text[span[0]:span[1]]),
				Preview: target.canonical,
			})
		}
	}
	return findings
}

// Fix implements Rule.
func (r *CasingRule) Fix(text string) string {
	for _, target := range lowercaseTargets {
		var repls []replacement
		for _, span := range boundedMatches(text, target.pattern) {
			if isSentenceStart(text, span[0]) {
				continue
			}
			repls = append(repls, replacement{span[0], span[1], target.word})
		}
		text = applyReplacements(text, repls)
	}
	for _, target := range countryTargets {
		var repls []replacement
		for _, span := range boundedMatches(text, target.pattern) {
			if text[span[0]:span[1]] == target.canonical {
				continue
			}
			repls = append(repls, replacement{span[0], span[1], target.canonical})
		}
		text = applyReplacements(text, repls)
	}
	return text
}

// boundedMatches returns pattern matches that form whole words.
func boundedMatches(text string, pattern *regexp.Regexp) [][2]int {
	var out [][2]int
	for _, span := range pattern.FindAllStringIndex(text, -1) {
		if !noWordBefore(text, span[0]) || !noWordAfter(text, span[1]) {
			continue
		}
		out = append(out, [2]int{span[0], span[1]})
	}
	return out
}

// isSentenceStart reports whether the offset begins a sentence: only
// whitespace between it and either the text start or a sentence
// terminator.
func isSentenceStart(text string, offset int) bool {
	pos := offset
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:pos])
		if !unicode.IsSpace(r) {
			break
		}
		pos -= size
	}
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return strings.ContainsRune(".!?:(", r)
}

// capitalizeFirst uppercases the first rune of a lowercase word.
func capitalizeFirst(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if size == 0 {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}
