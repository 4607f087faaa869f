package rules

import (
	"fmt"
	"unicode"

	"github.com/FocuswithJustin/Typographe/core/lexicon"
)

// DiacriticsRule restores missing accents on fully uppercase words, a
// frequent casualty of legacy typewriter habits. Lowercase and mixed-case
// words are left to the author.
type DiacriticsRule struct {
	lx *lexicon.Lexicon
}

// NewDiacriticsRule returns the diacritic restoration rule backed by the
// given lexicon.
func NewDiacriticsRule(lx *lexicon.Lexicon) *DiacriticsRule {
	return &DiacriticsRule{lx: lx}
}

// Name implements Rule.
func (r *DiacriticsRule) Name() string { return "diacritics" }

// allUpper reports whether the word has at least one cased rune and no
// lowercase ones.
func allUpper(word string) bool {
	cased := false
	for _, r := range word {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// Detect implements Rule.
func (r *DiacriticsRule) Detect(text string) []Finding {
	var findings []Finding
	for _, run := range letterRuns(text) {
		word := text[run[0]:run[1]]
		if !allUpper(word) {
			continue
		}
		accented := r.lx.Accentize(word)
		if accented == word {
			continue
		}
		findings = append(findings, Finding{
			Start:   run[0],
			End:     run[1],
			Message: fmt.Sprintf("Diacritique manquant : «%s» → «%s»", word, accented),
			Preview: accented,
		})
	}
	return findings
}

// Fix implements Rule.
func (r *DiacriticsRule) Fix(text string) string {
	var repls []replacement
	for _, run := range letterRuns(text) {
		word := text[run[0]:run[1]]
		if !allUpper(word) {
			continue
		}
		accented := r.lx.Accentize(word)
		if accented == word {
			continue
		}
		repls = append(repls, replacement{run[0], run[1], accented})
	}
	return applyReplacements(text, repls)
}
