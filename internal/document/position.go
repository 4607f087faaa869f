package document

import (
	"strings"
	"unicode/utf8"
)

// Position converts a byte offset into 1-based line and column numbers.
// Columns count runes from the start of the line, so multi-byte
// characters advance the column by one. Out-of-range offsets clamp to
// the nearest document edge.
func Position(text string, offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	prefix := text[:offset]
	line = 1 + strings.Count(prefix, "\n")
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	column = 1 + utf8.RuneCountInString(prefix[lineStart:])
	return line, column
}
