package foreign

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/FocuswithJustin/Typographe/core/segment"
)

var reItalicTag = regexp.MustCompile(`^(?i)</?(?:em|i)(?:\s[^>]*)?>`)

// openDelim is an emphasis delimiter waiting for its closer.
type openDelim struct {
	ch         byte
	innerStart int
}

// ItalicRanges scans raw Markdown and returns the spans rendered in
// italics: single or triple emphasis-delimiter runs paired through a
// stack, plus the content of inline em and i tags. Double runs are bold
// and contribute nothing. Escaped characters and the protected ranges
// are skipped. An opener with no closer produces no span.
func ItalicRanges(text string, skip []segment.Range) []segment.Range {
	var ranges []segment.Range
	var delims []openDelim
	var tags []openDelim

	pos := 0
	for pos < len(text) {
		if segment.Contains(skip, pos) {
			pos++
			continue
		}
		switch c := text[pos]; c {
		case '\\':
			pos += 2
		case '<':
			tag := reItalicTag.FindString(text[pos:])
			if tag == "" {
				pos++
				continue
			}
			if tag[1] == '/' {
				if len(tags) > 0 {
					open := tags[len(tags)-1]
					tags = tags[:len(tags)-1]
					ranges = append(ranges, segment.Range{Start: open.innerStart, End: pos})
				}
			} else {
				tags = append(tags, openDelim{ch: '<', innerStart: pos + len(tag)})
			}
			pos += len(tag)
		case '*', '_':
			run := pos
			for run < len(text) && text[run] == c {
				run++
			}
			length := run - pos
			if length == 1 || length == 3 {
				if closes(text, c, pos, run) && len(delims) > 0 && delims[len(delims)-1].ch == c {
					open := delims[len(delims)-1]
					delims = delims[:len(delims)-1]
					ranges = append(ranges, segment.Range{Start: open.innerStart, End: pos})
				} else if opens(text, c, pos, run) {
					delims = append(delims, openDelim{ch: c, innerStart: run})
				}
			}
			pos = run
		default:
			pos++
		}
	}
	return segment.Merge(ranges)
}

// opens reports whether the run at [start, end) can open emphasis: the
// inner side must not be whitespace and, for underscores, the outer side
// must not be alphanumeric so mid-word underscores stay literal.
func opens(text string, ch byte, start, end int) bool {
	next, ok := runeAt(text, end)
	if !ok || unicode.IsSpace(next) {
		return false
	}
	if ch == '_' {
		if prev, ok := runeBefore(text, start); ok && isAlphanumeric(prev) {
			return false
		}
	}
	return true
}

// closes reports whether the run at [start, end) can close emphasis: the
// inner side must not be whitespace and, for underscores, the outer side
// must not be alphanumeric.
func closes(text string, ch byte, start, end int) bool {
	prev, ok := runeBefore(text, start)
	if !ok || unicode.IsSpace(prev) {
		return false
	}
	if ch == '_' {
		if next, ok := runeAt(text, end); ok && isAlphanumeric(next) {
			return false
		}
	}
	return true
}

func runeAt(text string, pos int) (rune, bool) {
	if pos >= len(text) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return r, true
}

func runeBefore(text string, pos int) (rune, bool) {
	if pos <= 0 {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return r, true
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
