package rules

import (
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"
)

var (
	reAbbrCad = regexp.MustCompile(`(?i)c` + spaceClass + `*[-.]?` + spaceClass + `*a` + spaceClass + `*[-.]?` + spaceClass + `*d`)
	reAbbrPex = regexp.MustCompile(`(?i)(p` + spaceClass + `*\.?` + spaceClass + `*ex)\.?`)
	reAbbrNb  = regexp.MustCompile(`(?i)(n` + spaceClass + `*\.?` + spaceClass + `*b)\.?`)
	reEtcBad  = regexp.MustCompile(`(?i)(etc)(?:` + spaceClass + `*\.(?:` + spaceClass + `*\.)+|` + spaceClass + `*…+)`)
)

// AbbreviationRule normalizes frequent French abbreviations (c.-à-d.,
// p. ex., N. B.) and strips redundant punctuation after etc.
type AbbreviationRule struct{}

// NewAbbreviationRule returns the abbreviation rule.
func NewAbbreviationRule() *AbbreviationRule {
	return &AbbreviationRule{}
}

// Name implements Rule.
func (r *AbbreviationRule) Name() string { return "abbreviation" }

// Detect implements Rule.
func (r *AbbreviationRule) Detect(text string) []Finding {
	var findings []Finding
	for _, m := range cadMatches(text) {
		findings = append(findings, Finding{
			Start:   m[0],
			End:     m[1],
			Message: fmt.Sprintf("Abréviation mauvaise : «%s» ; attendu «c.-à-d.»", text[m[0]:m[1]]),
			Preview: "c.-à-d.",
		})
	}
	for _, m := range dottedAbbrMatches(text, reAbbrPex) {
		findings = append(findings, Finding{
			Start:   m[0],
			End:     m[1],
			Message: fmt.Sprintf("Abréviation : «%s» ; attendu «p. ex.»", text[m[0]:m[1]]),
			Preview: "p. ex.",
		})
	}
	for _, m := range dottedAbbrMatches(text, reAbbrNb) {
		findings = append(findings, Finding{
			Start:   m[0],
			End:     m[1],
			Message: fmt.Sprintf("Abréviation : «%s» ; attendu «N. B.»", text[m[0]:m[1]]),
			Preview: "N. B.",
		})
	}
	for _, m := range etcMatches(text) {
		repl := etcReplacement(text[m[2]:m[3]])
		findings = append(findings, Finding{
			Start:   m[0],
			End:     m[1],
			Message: fmt.Sprintf("Ponctuation superflue après «%s» ; utiliser «%s»", text[m[0]:m[1]], repl),
			Preview: repl,
		})
	}
	return findings
}

// Fix implements Rule.
func (r *AbbreviationRule) Fix(text string) string {
	var repls []replacement
	for _, m := range cadMatches(text) {
		repls = append(repls, replacement{m[0], m[1], "c.-à-d."})
	}
	text = applyReplacements(text, repls)

	repls = repls[:0]
	for _, m := range dottedAbbrMatches(text, reAbbrPex) {
		repls = append(repls, replacement{m[0], m[1], "p. ex."})
	}
	text = applyReplacements(text, repls)

	repls = repls[:0]
	for _, m := range dottedAbbrMatches(text, reAbbrNb) {
		repls = append(repls, replacement{m[0], m[1], "N. B."})
	}
	text = applyReplacements(text, repls)

	repls = repls[:0]
	for _, m := range etcMatches(text) {
		repls = append(repls, replacement{m[0], m[1], etcReplacement(text[m[2]:m[3]])})
	}
	return applyReplacements(text, repls)
}

// cadMatches returns spans of c-a-d variants bounded by word boundaries.
func cadMatches(text string) [][2]int {
	var out [][2]int
	for _, span := range reAbbrCad.FindAllStringIndex(text, -1) {
		if !noWordBefore(text, span[0]) || !noWordAfter(text, span[1]) {
			continue
		}
		out = append(out, [2]int{span[0], span[1]})
	}
	return out
}

// dottedAbbrMatches returns spans for abbreviation patterns whose word
// boundary sits before an optional trailing dot (captured as group 1).
func dottedAbbrMatches(text string, re *regexp.Regexp) [][2]int {
	var out [][2]int
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		if !noWordBefore(text, m[0]) || !noWordAfter(text, m[3]) {
			continue
		}
		out = append(out, [2]int{m[0], m[1]})
	}
	return out
}

// etcMatches returns submatch indices for etc followed by surplus dots or
// ellipses, provided the sequence ends the word.
func etcMatches(text string) [][]int {
	var out [][]int
	for _, m := range reEtcBad.FindAllStringSubmatchIndex(text, -1) {
		if !noWordBefore(text, m[0]) || !noWordAfter(text, m[1]) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// etcReplacement mirrors the casing of the etc token onto the canonical
// form.
func etcReplacement(word string) string {
	upper, lower := false, false
	for _, r := range word {
		if unicode.IsUpper(r) {
			upper = true
		} else if unicode.IsLower(r) {
			lower = true
		}
	}
	if upper && !lower {
		return "ETC."
	}
	first, _ := utf8.DecodeRuneInString(word)
	if unicode.IsUpper(first) {
		return "Etc."
	}
	return "etc."
}
