// Package segment computes the spans of a document that must never be
// mutated and splits the document into alternating protected and active
// parts. Protected spans come from paired ignore directives, single-shot
// directives, code regions and raw comments; rule processing only ever
// sees the active parts.
package segment

import (
	"sort"
	"strings"
)

// Range is a half-open [Start, End) byte interval into a document.
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes the range covers.
func (r Range) Len() int { return r.End - r.Start }

// Segment is one slice of a partitioned document. Concatenating the Text
// of every segment in order reproduces the document byte for byte.
type Segment struct {
	Text    string
	Ignored bool
}

// Merge sorts ranges by start offset and coalesces every range whose
// start lies at or before the running merged end, producing a minimal
// disjoint set. Empty and inverted ranges are dropped.
func Merge(ranges []Range) []Range {
	valid := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.End > r.Start {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	sort.Slice(valid, func(i, j int) bool {
		if valid[i].Start != valid[j].Start {
			return valid[i].Start < valid[j].Start
		}
		return valid[i].End < valid[j].End
	})

	merged := []Range{valid[0]}
	for _, r := range valid[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// Partition splits text at the boundaries of the merged protected ranges
// into a strictly alternating sequence of active and ignored segments.
// Ranges are clamped to the text; zero-length segments are omitted.
func Partition(text string, ranges []Range) []Segment {
	clamped := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.Start < 0 {
			r.Start = 0
		}
		if r.End > len(text) {
			r.End = len(text)
		}
		clamped = append(clamped, r)
	}

	var segments []Segment
	pos := 0
	for _, r := range Merge(clamped) {
		if r.Start > pos {
			segments = append(segments, Segment{Text: text[pos:r.Start]})
		}
		segments = append(segments, Segment{Text: text[r.Start:r.End], Ignored: true})
		pos = r.End
	}
	if pos < len(text) {
		segments = append(segments, Segment{Text: text[pos:]})
	}
	return segments
}

// Join reassembles a partitioned document.
func Join(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Apply rewrites every active segment through transform and reassembles
// the document, leaving ignored segments untouched.
func Apply(segments []Segment, transform func(string) string) string {
	var b strings.Builder
	for _, s := range segments {
		if s.Ignored {
			b.WriteString(s.Text)
			continue
		}
		b.WriteString(transform(s.Text))
	}
	return b.String()
}

// Contains reports whether offset falls inside any of the merged ranges.
// Ranges must already be merged or at least sorted by start.
func Contains(ranges []Range, offset int) bool {
	i := sort.Search(len(ranges), func(i int) bool { return ranges[i].End > offset })
	return i < len(ranges) && ranges[i].Start <= offset
}
