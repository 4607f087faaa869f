// Package foreign finds foreign locutions in French prose and italicizes
// them according to typographic convention: emphasized when the
// surrounding text is roman, set upright through a counter-style span
// when the surrounding text is already italic.
package foreign

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/FocuswithJustin/Typographe/core/segment"
)

// Locutions is the fixed list of foreign expressions the italicizer
// recognizes.
var Locutions = []string{
	"a capella",
	"de facto",
	"honoris causa",
	"ipso facto",
	"manu militari",
	"sine die",
}

// Counter-style markup used when a locution already sits inside italics.
const (
	CounterSpanOpen  = `<span style="font-style: normal;">`
	CounterSpanClose = `</span>`
)

var rePattern = regexp.MustCompile(`(?i)(` + locutionAlternation() + `)`)

func locutionAlternation() string {
	escaped := make([]string, len(Locutions))
	for i, loc := range Locutions {
		escaped[i] = regexp.QuoteMeta(loc)
	}
	return strings.Join(escaped, "|")
}

// Match is one locution occurrence. Italic reports whether the occurrence
// lies inside an italic context, which decides the wrapping direction.
type Match struct {
	Start  int
	End    int
	Text   string
	Italic bool
}

// WarnMessage renders the diagnostic for an occurrence left unwrapped.
func WarnMessage(locution string) string {
	return fmt.Sprintf("Locution étrangère non italique : «%s»", locution)
}

// Matches returns the leftmost non-overlapping locution occurrences whose
// boundaries are not glued to word characters or hyphens, skipping any
// occurrence that touches a protected range. Italic flags are left false;
// callers with context information fill them in.
func Matches(text string, ignore []segment.Range) []Match {
	var out []Match
	for _, m := range rePattern.FindAllStringIndex(text, -1) {
		if !clearBoundary(text, m[0], m[1]) {
			continue
		}
		if overlapsRange(ignore, m[0], m[1]) {
			continue
		}
		out = append(out, Match{Start: m[0], End: m[1], Text: text[m[0]:m[1]]})
	}
	return out
}

// clearBoundary reports whether the span is free of word characters and
// hyphens on both outer sides.
func clearBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isBoundaryRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isBoundaryRune(r) {
			return false
		}
	}
	return true
}

func isBoundaryRune(r rune) bool {
	return r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// overlapsRange reports whether [start, end) intersects any range.
// Ranges must be sorted by start.
func overlapsRange(ranges []segment.Range, start, end int) bool {
	for _, r := range ranges {
		if r.Start >= end {
			break
		}
		if r.End > start {
			return true
		}
	}
	return false
}

// MarkdownMatches locates locutions in raw Markdown: boundary-checked
// occurrences outside the protected ranges, with italic context resolved
// by the emphasis scanner and already-handled occurrences dropped.
func MarkdownMatches(text string, ignore []segment.Range) []Match {
	matches := Matches(text, ignore)
	if len(matches) == 0 {
		return nil
	}
	italics := ItalicRanges(text, ignore)

	var out []Match
	for _, m := range matches {
		if alreadyHandled(text, m.Start, m.End) {
			continue
		}
		m.Italic = insideRange(italics, m.Start, m.End)
		out = append(out, m)
	}
	return out
}

// alreadyHandled reports whether the span is wrapped exactly: by the
// counter-style span, by a matched pair of the same emphasis character,
// or by a bare inline emphasis tag.
func alreadyHandled(text string, start, end int) bool {
	before := text[:start]
	after := text[end:]

	if strings.HasSuffix(before, CounterSpanOpen) && strings.HasPrefix(after, CounterSpanClose) {
		return true
	}
	for _, delim := range []string{"*", "_"} {
		if strings.HasSuffix(before, delim) && strings.HasPrefix(after, delim) {
			return true
		}
	}
	lowerBefore := strings.ToLower(before)
	lowerAfter := strings.ToLower(after)
	if strings.HasSuffix(lowerBefore, "<em>") && strings.HasPrefix(lowerAfter, "</em>") {
		return true
	}
	if strings.HasSuffix(lowerBefore, "<i>") && strings.HasPrefix(lowerAfter, "</i>") {
		return true
	}
	return false
}

// insideRange reports whether the whole span lies inside one range.
func insideRange(ranges []segment.Range, start, end int) bool {
	for _, r := range ranges {
		if r.Start <= start && end <= r.End {
			return true
		}
	}
	return false
}

// WrapMarkdown rewrites the text in one left-to-right pass, wrapping each
// match in emphasis or, inside italics, in the counter-style span.
// Matches must be ordered and non-overlapping, as Matches returns them.
func WrapMarkdown(text string, matches []Match) string {
	if len(matches) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		if m.Start < last {
			continue
		}
		b.WriteString(text[last:m.Start])
		if m.Italic {
			b.WriteString(CounterSpanOpen)
			b.WriteString(m.Text)
			b.WriteString(CounterSpanClose)
		} else {
			b.WriteString("_")
			b.WriteString(m.Text)
			b.WriteString("_")
		}
		last = m.End
	}
	b.WriteString(text[last:])
	return b.String()
}
