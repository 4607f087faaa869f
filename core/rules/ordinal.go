package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// ordinalSuffixes lists every recognized spelled-out suffix. Order
// matters: alternation is tried left to right, so longer variants come
// before their prefixes.
var ordinalSuffixes = []string{
	"ières", "ière", "ieres", "iere",
	"èmes", "ème", "iemes", "ieme", "ièmes", "ième",
	"eres", "ere", "ères", "ère", "ers", "er",
	"ires", "ire", "res", "re",
	"emes", "eme", "es", "e",
}

var reOrdinal = regexp.MustCompile(
	`(?i)(\d+)(` + spaceClass + `*)(` + strings.Join(ordinalSuffixes, "|") + `)`)

// suffixRewrites collapses accented and archaic spellings step by step,
// longest pattern first. Rewrites chain: ières → ires → res.
var suffixRewrites = []struct{ from, to string }{
	{"ières", "ires"},
	{"ieres", "ires"},
	{"ièmes", "iemes"},
	{"ière", "ire"},
	{"iere", "ire"},
	{"ième", "ieme"},
	{"èmes", "emes"},
	{"ires", "res"},
	{"ères", "res"},
	{"ème", "eme"},
	{"ire", "re"},
	{"ère", "re"},
}

// firstSuffixMap resolves suffixes attached to the number 1, which is the
// only ordinal with masculine and feminine short forms.
var firstSuffixMap = map[string]string{
	"er":   "er",
	"ier":  "er",
	"ers":  "ers",
	"iers": "ers",
	"re":   "re",
	"ire":  "re",
	"res":  "res",
	"ires": "res",
	"ere":  "re",
	"eres": "res",
	"eme":  "er",
	"emes": "ers",
	"e":    "er",
	"es":   "ers",
}

// firstOnlySuffixes are valid on 1 only; on any other number the text is
// left alone rather than guessed at.
var firstOnlySuffixes = map[string]struct{}{
	"er": {}, "ers": {}, "re": {}, "res": {},
	"ier": {}, "iers": {}, "ire": {}, "ires": {},
}

// generalSuffixMap resolves suffixes for numbers other than 1.
var generalSuffixMap = map[string]string{
	"eme":   "e",
	"emes":  "es",
	"e":     "e",
	"es":    "es",
	"ieme":  "e",
	"iemes": "es",
}

// OrdinalRule rewrites spelled-out ordinal suffixes into caret notation
// such as 1^er^ and 2^e^.
type OrdinalRule struct{}

// NewOrdinalRule returns the ordinal notation rule.
func NewOrdinalRule() *OrdinalRule {
	return &OrdinalRule{}
}

// Name implements Rule.
func (r *OrdinalRule) Name() string { return "ordinal" }

// Detect implements Rule.
func (r *OrdinalRule) Detect(text string) []Finding {
	var findings []Finding
	for _, m := range ordinalMatches(text) {
		number := text[m[2]:m[3]]
		suffix := text[m[6]:m[7]]
		normalized := normalizeOrdinalSuffix(number, suffix)
		if normalized == "" {
			continue
		}
		repl := number + "^" + normalized + "^"
		findings = append(findings, Finding{
			Start:   m[0],
			End:     m[1],
			Message: fmt.Sprintf("Ordinal «%s» → «%s»", text[m[0]:m[1]], repl),
			Preview: repl,
		})
	}
	return findings
}

// Fix implements Rule.
func (r *OrdinalRule) Fix(text string) string {
	var repls []replacement
	for _, m := range ordinalMatches(text) {
		number := text[m[2]:m[3]]
		suffix := text[m[6]:m[7]]
		normalized := normalizeOrdinalSuffix(number, suffix)
		if normalized == "" {
			continue
		}
		repls = append(repls, replacement{m[0], m[1], number + "^" + normalized + "^"})
	}
	return applyReplacements(text, repls)
}

// ordinalMatches returns submatch indices for number-suffix pairs bounded
// by word boundaries on both sides.
func ordinalMatches(text string) [][]int {
	var out [][]int
	for _, m := range reOrdinal.FindAllStringSubmatchIndex(text, -1) {
		if !noWordBefore(text, m[0]) || !noWordAfter(text, m[1]) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// normalizeOrdinalSuffix maps a raw suffix to its caret form, or returns
// the empty string when the occurrence must stay untouched.
func normalizeOrdinalSuffix(number, suffix string) string {
	normalized := strings.ToLower(suffix)
	for _, rw := range suffixRewrites {
		normalized = strings.ReplaceAll(normalized, rw.from, rw.to)
	}

	if number == "1" {
		return firstSuffixMap[normalized]
	}
	if _, firstOnly := firstOnlySuffixes[normalized]; firstOnly {
		return ""
	}
	return generalSuffixMap[normalized]
}
