package segment

import (
	"regexp"
	"strings"
)

// Directive markers recognized inside comments, compared case-insensitively
// after trimming.
const (
	DirectiveIgnore      = "fr-typo-ignore"
	DirectiveIgnoreStart = "fr-typo-ignore-start"
	DirectiveIgnoreEnd   = "fr-typo-ignore-end"
)

var (
	reComment   = regexp.MustCompile(`(?s)<!--.*?-->`)
	reBlankLine = regexp.MustCompile(`\n[ \t\r]*\n`)
	reTickRun   = regexp.MustCompile("`+")
)

// directiveKind distinguishes the three ignore markers.
type directiveKind int

const (
	directiveNone directiveKind = iota
	directiveSingle
	directiveStart
	directiveEnd
)

// directive is one recognized marker with the span of its host comment.
type directive struct {
	kind  directiveKind
	start int
	end   int
}

// MarkdownIgnoreRanges computes every span of a raw Markdown document
// that must be protected from rule processing: fenced code blocks, inline
// code spans, comments, and the spans selected by ignore directives. The
// result is merged and disjoint.
func MarkdownIgnoreRanges(text string) []Range {
	fenced := FencedCodeRanges(text)
	comments := commentRanges(text, fenced)

	ranges := append([]Range{}, fenced...)
	ranges = append(ranges, comments...)
	ranges = append(ranges, InlineCodeRanges(text, Merge(append(append([]Range{}, fenced...), comments...)))...)
	ranges = append(ranges, DirectiveRanges(text, comments)...)
	return Merge(ranges)
}

// FencedCodeRanges returns the spans of fenced code blocks. A fence opens
// on a line starting with up to three spaces of indentation followed by
// at least three backticks or tildes, and closes on a line whose fence
// uses the same character with at least the opening run length and
// nothing but whitespace after it. An unclosed fence runs to the end of
// the document.
func FencedCodeRanges(text string) []Range {
	var ranges []Range
	var fenceChar byte
	fenceLen := 0
	fenceStart := -1

	pos := 0
	for pos <= len(text) {
		lineEnd := strings.IndexByte(text[pos:], '\n')
		var next int
		if lineEnd < 0 {
			lineEnd = len(text)
			next = len(text) + 1
		} else {
			lineEnd += pos
			next = lineEnd + 1
		}
		line := text[pos:lineEnd]

		ch, runLen, ok := fenceMarker(line)
		if fenceStart < 0 {
			if ok {
				fenceChar, fenceLen, fenceStart = ch, runLen, pos
			}
		} else if ok && ch == fenceChar && runLen >= fenceLen && isClosingFence(line) {
			end := lineEnd
			if end < len(text) {
				end++
			}
			ranges = append(ranges, Range{fenceStart, end})
			fenceStart = -1
		}
		pos = next
	}
	if fenceStart >= 0 {
		ranges = append(ranges, Range{fenceStart, len(text)})
	}
	return ranges
}

// fenceMarker reports whether the line opens or closes a fence: at most
// three spaces of indentation, then a run of three or more backticks or
// tildes.
func fenceMarker(line string) (byte, int, bool) {
	i := 0
	for i < len(line) && i < 3 && line[i] == ' ' {
		i++
	}
	if i >= len(line) || (line[i] != '`' && line[i] != '~') {
		return 0, 0, false
	}
	ch := line[i]
	run := 0
	for i+run < len(line) && line[i+run] == ch {
		run++
	}
	if run < 3 {
		return 0, 0, false
	}
	return ch, run, true
}

// isClosingFence reports whether the line carries nothing after its fence
// run. Opening fences may carry an info string; closing fences may not.
func isClosingFence(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	trimmed = strings.TrimLeft(trimmed, "`~")
	return strings.TrimSpace(trimmed) == ""
}

// InlineCodeRanges returns the spans of inline code: a run of backticks
// opens a span closed by the next run of exactly the same length. Runs
// inside the excluded ranges never open or close a span, and an opening
// run with no closing partner protects nothing.
func InlineCodeRanges(text string, exclude []Range) []Range {
	var ranges []Range
	runs := reTickRun.FindAllStringIndex(text, -1)

	for i := 0; i < len(runs); i++ {
		open := runs[i]
		if Contains(exclude, open[0]) {
			continue
		}
		want := open[1] - open[0]
		for j := i + 1; j < len(runs); j++ {
			closing := runs[j]
			if Contains(exclude, closing[0]) {
				continue
			}
			if closing[1]-closing[0] == want {
				ranges = append(ranges, Range{open[0], closing[1]})
				i = j
				break
			}
		}
	}
	return ranges
}

// commentRanges returns the spans of comments outside fenced code, where
// comment syntax is literal text.
func commentRanges(text string, fenced []Range) []Range {
	merged := Merge(append([]Range{}, fenced...))
	var ranges []Range
	for _, m := range reComment.FindAllStringIndex(text, -1) {
		if Contains(merged, m[0]) {
			continue
		}
		ranges = append(ranges, Range{m[0], m[1]})
	}
	return ranges
}

// parseDirectives classifies each comment span, keeping document order.
func parseDirectives(text string, comments []Range) []directive {
	var out []directive
	for _, c := range comments {
		body := text[c.Start:c.End]
		body = strings.TrimPrefix(body, "<!--")
		body = strings.TrimSuffix(body, "-->")
		var kind directiveKind
		switch strings.ToLower(strings.TrimSpace(body)) {
		case DirectiveIgnore:
			kind = directiveSingle
		case DirectiveIgnoreStart:
			kind = directiveStart
		case DirectiveIgnoreEnd:
			kind = directiveEnd
		default:
			continue
		}
		out = append(out, directive{kind: kind, start: c.Start, end: c.End})
	}
	return out
}

// DirectiveRanges resolves ignore directives found in the given comment
// spans into protected ranges. Start and end markers pair through a
// stack: an end marker closes the most recent open start marker and the
// span between the two markers, markers included, is protected. A start
// with no end, or an end with no start, protects nothing. A single-shot
// marker protects the next non-blank content unit: the text from the
// first non-whitespace character after the marker up to the next blank
// line or the end of the document.
func DirectiveRanges(text string, comments []Range) []Range {
	var ranges []Range
	var stack []directive

	for _, d := range parseDirectives(text, comments) {
		switch d.kind {
		case directiveStart:
			stack = append(stack, d)
		case directiveEnd:
			if len(stack) == 0 {
				continue
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			ranges = append(ranges, Range{open.start, d.end})
		case directiveSingle:
			if r, ok := singleShotRange(text, d.end); ok {
				ranges = append(ranges, r)
			}
		}
	}
	return ranges
}

// singleShotRange locates the content unit a single-shot directive
// protects. Returns false when only whitespace remains.
func singleShotRange(text string, from int) (Range, bool) {
	start := from
	for start < len(text) {
		c := text[start]
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			break
		}
		start++
	}
	if start >= len(text) {
		return Range{}, false
	}
	if m := reBlankLine.FindStringIndex(text[start:]); m != nil {
		return Range{start, start + m[0]}, true
	}
	return Range{start, len(text)}, true
}
