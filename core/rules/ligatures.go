package rules

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/Typographe/core/lexicon"
)

// LigaturesRule replaces oe/ae digraphs with the œ/æ ligatures for words
// the lexicon attests.
type LigaturesRule struct {
	lx *lexicon.Lexicon
}

// NewLigaturesRule returns the ligature rule backed by the given lexicon.
func NewLigaturesRule(lx *lexicon.Lexicon) *LigaturesRule {
	return &LigaturesRule{lx: lx}
}

// Name implements Rule.
func (r *LigaturesRule) Name() string { return "ligatures" }

// needsLigature gates the lexicon lookup on the presence of a candidate
// digraph.
func needsLigature(word string) bool {
	lowered := strings.ToLower(word)
	return strings.Contains(lowered, "oe") || strings.Contains(lowered, "ae")
}

// Detect implements Rule.
func (r *LigaturesRule) Detect(text string) []Finding {
	var findings []Finding
	for _, run := range letterRuns(text) {
		word := text[run[0]:run[1]]
		if !needsLigature(word) {
			continue
		}
		ligatured := r.lx.Ligaturize(word)
		if ligatured == word {
			continue
		}
		findings = append(findings, Finding{
			Start:   run[0],
			End:     run[1],
			Message: fmt.Sprintf("Ligature : «%s» → «%s»", word, ligatured),
			Preview: ligatured,
		})
	}
	return findings
}

// Fix implements Rule.
func (r *LigaturesRule) Fix(text string) string {
	var repls []replacement
	for _, run := range letterRuns(text) {
		word := text[run[0]:run[1]]
		if !needsLigature(word) {
			continue
		}
		ligatured := r.lx.Ligaturize(word)
		if ligatured == word {
			continue
		}
		repls = append(repls, replacement{run[0], run[1], ligatured})
	}
	return applyReplacements(text, repls)
}
