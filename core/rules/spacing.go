package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	rePunctHigh   = regexp.MustCompile(spaceClass + `*([;!?»])`)
	reColon       = regexp.MustCompile(spaceClass + `*:`)
	reGuilOpen    = regexp.MustCompile(`«` + spaceClass + `*`)
	reGuilClose   = regexp.MustCompile(spaceClass + `*»`)
	reEllipsis    = regexp.MustCompile(`\.\.\.`)
	reBarePunct   = regexp.MustCompile(`[:;!?»]`)
	reFinalDot    = regexp.MustCompile(`([!?])(` + spaceClass + `*)\.`)
	reCommaBefore = regexp.MustCompile(`,` + spaceClass + `*(\.\.\.|…)`)
	reHyphenRun   = regexp.MustCompile(`-+`)
)

// SpacingRule inserts the French non-breaking spaces around punctuation
// and guillemets, curls apostrophes, and normalizes ellipses, stray
// terminal dots and double hyphens.
type SpacingRule struct{}

// NewSpacingRule returns the spacing and punctuation rule.
func NewSpacingRule() *SpacingRule {
	return &SpacingRule{}
}

// Name implements Rule.
func (r *SpacingRule) Name() string { return "spacing" }

// Detect implements Rule.
func (r *SpacingRule) Detect(text string) []Finding {
	var findings []Finding

	// Punctuation missing its non-breaking space.
	for _, span := range reBarePunct.FindAllStringIndex(text, -1) {
		prev, _ := utf8.DecodeLastRuneInString(text[:span[0]])
		if prev == ' ' || prev == ' ' {
			continue
		}
		char := text[span[0]:span[1]]
		kind := "fine"
		if char == ":" {
			kind = "insécable"
		}
		findings = append(findings, Finding{
			Start:   span[0],
			End:     span[1],
			Message: fmt.Sprintf("Espace %s manquante avant «%s»", kind, char),
		})
	}

	// Guillemets missing their inner thin space, reported once per text.
	if missingAfterOpenGuillemet(text) {
		findings = append(findings, Finding{Message: "Espace fine après « manquante"})
	}
	if missingBeforeCloseGuillemet(text) {
		findings = append(findings, Finding{Message: "Espace fine avant » manquante"})
	}

	for _, span := range reEllipsis.FindAllStringIndex(text, -1) {
		findings = append(findings, Finding{
			Start:   span[0],
			End:     span[1],
			Message: "Ellipse ASCII «...», utiliser … (U+2026)",
			Preview: Ellipsis,
		})
	}

	for _, m := range r.finalDotMatches(text) {
		findings = append(findings, Finding{
			Start:   m[0],
			End:     m[1],
			Message: fmt.Sprintf("Ponctuation finale superflue après «%s»", text[m[2]:m[3]]),
			Preview: text[m[2]:m[3]] + text[m[4]:m[5]],
		})
	}

	for _, m := range reCommaBefore.FindAllStringSubmatchIndex(text, -1) {
		findings = append(findings, Finding{
			Start:   m[0],
			End:     m[1],
			Message: "Virgule superflue avant ellipse",
			Preview: Ellipsis,
		})
	}

	for _, span := range doubleHyphens(text) {
		findings = append(findings, Finding{
			Start:   span[0],
			End:     span[1],
			Message: "Utiliser un tiret cadratin (—) à la place de «--»",
			Preview: "—",
		})
	}

	return findings
}

// Fix implements Rule.
func (r *SpacingRule) Fix(text string) string {
	// Drop the stray terminal dot after ! or ?.
	var repls []replacement
	for _, m := range r.finalDotMatches(text) {
		repls = append(repls, replacement{m[0], m[1], text[m[2]:m[3]] + text[m[4]:m[5]]})
	}
	text = applyReplacements(text, repls)

	text = reCommaBefore.ReplaceAllString(text, "${1}")

	repls = repls[:0]
	for _, span := range doubleHyphens(text) {
		repls = append(repls, replacement{span[0], span[1], "—"})
	}
	text = applyReplacements(text, repls)

	text = curlApostrophes(text)
	text = reEllipsis.ReplaceAllString(text, Ellipsis)

	// Spacing insertion collapses any existing whitespace run, which
	// keeps the pass idempotent.
	text = rePunctHigh.ReplaceAllString(text, NNBSP+"${1}")
	text = reColon.ReplaceAllString(text, NBSP+":")
	text = reGuilOpen.ReplaceAllString(text, "«"+NNBSP)
	text = reGuilClose.ReplaceAllString(text, NNBSP+"»")
	return text
}

// finalDotMatches returns submatch indices of "!." / "?." sequences whose
// dot ends a clause: the dot must be followed by whitespace, the end of
// the text, or a closing quote character.
func (r *SpacingRule) finalDotMatches(text string) [][]int {
	var out [][]int
	for _, m := range reFinalDot.FindAllStringSubmatchIndex(text, -1) {
		next, size := utf8.DecodeRuneInString(text[m[1]:])
		if size != 0 && !unicode.IsSpace(next) && !strings.ContainsRune(`»"')`, next) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// doubleHyphens returns spans of exactly two hyphens; longer runs are
// intentional (e.g. table rules) and stay untouched.
func doubleHyphens(text string) [][2]int {
	var out [][2]int
	for _, span := range reHyphenRun.FindAllStringIndex(text, -1) {
		if span[1]-span[0] != 2 {
			continue
		}
		out = append(out, [2]int{span[0], span[1]})
	}
	return out
}

// curlApostrophes rewrites straight apostrophes between two word
// characters as the typographic apostrophe.
func curlApostrophes(text string) string {
	if !strings.Contains(text, "'") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] != '\'' || !wordBefore(text, i) || !wordAfter(text, i+1) {
			b.WriteByte(text[i])
			continue
		}
		b.WriteString("’")
	}
	return b.String()
}

func wordBefore(text string, offset int) bool {
	r, size := utf8.DecodeLastRuneInString(text[:offset])
	return size != 0 && isWordRune(r)
}

func wordAfter(text string, offset int) bool {
	r, size := utf8.DecodeRuneInString(text[offset:])
	return size != 0 && isWordRune(r)
}

// missingAfterOpenGuillemet reports an opening guillemet not followed by
// the narrow non-breaking space.
func missingAfterOpenGuillemet(text string) bool {
	for i := 0; ; {
		j := strings.Index(text[i:], "«")
		if j < 0 {
			return false
		}
		after := i + j + len("«")
		if !strings.HasPrefix(text[after:], NNBSP) {
			return true
		}
		i = after
	}
}

// missingBeforeCloseGuillemet reports a closing guillemet not preceded by
// the narrow non-breaking space.
func missingBeforeCloseGuillemet(text string) bool {
	for i := 0; ; {
		j := strings.Index(text[i:], "»")
		if j < 0 {
			return false
		}
		at := i + j
		if !strings.HasSuffix(text[:at], NNBSP) {
			return true
		}
		i = at + len("»")
	}
}
