package document

import (
	"github.com/FocuswithJustin/Typographe/core/foreign"
	"github.com/FocuswithJustin/Typographe/core/rules"
	"github.com/FocuswithJustin/Typographe/core/segment"
)

// ProcessMarkdown corrects a Markdown document. Protected spans (code,
// comments, ignore directives) are never mutated. Every enabled rule
// reports its findings before fixing, so a check run lists exactly what
// a fix run would change. The error return is always nil; it exists for
// signature parity with ProcessHTML.
func (p *Processor) ProcessMarkdown(file, text string) (*Result, error) {
	res := &Result{}

	// Admonition titles first: the rewrite is line-anchored and must see
	// the document before punctuation changes.
	working := text
	if p.levels.Level("admonitions") == rules.SeverityFix {
		protected := segment.MarkdownIgnoreRanges(working)
		rewritten, n := translateAdmonitions(working, p.translations, protected)
		if n > 0 {
			working = rewritten
		}
	}

	// Admonition opening lines stay protected whatever the admonitions
	// level: their quoted titles are syntax the quote rule must not eat.
	protected := append(segment.MarkdownIgnoreRanges(working), admonitionLineRanges(working)...)
	segments := segment.Partition(working, segment.Merge(protected))

	for _, rule := range p.chain {
		level := p.levels.Level(rule.Name())
		if level == rules.SeverityIgnore {
			continue
		}

		// Findings are located against the buffer as it stands when
		// this rule runs, fixes from earlier rules included.
		current := segment.Join(segments)
		offset := 0
		for _, seg := range segments {
			if !seg.Ignored {
				for _, f := range rule.Detect(seg.Text) {
					line, column := Position(current, offset+f.Start)
					res.Diagnostics = append(res.Diagnostics, Diagnostic{
						File:    file,
						Line:    line,
						Column:  column,
						Rule:    rule.Name(),
						Message: f.Message,
						Preview: f.Preview,
					})
				}
			}
			offset += len(seg.Text)
		}

		if level == rules.SeverityFix {
			for i := range segments {
				if !segments[i].Ignored {
					segments[i].Text = rule.Fix(segments[i].Text)
				}
			}
		}
	}

	current := segment.Join(segments)

	if level := p.levels.Level("foreign"); level != rules.SeverityIgnore {
		matches := foreign.MarkdownMatches(current, ignoredRanges(segments))
		for _, m := range matches {
			line, column := Position(current, m.Start)
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				File:    file,
				Line:    line,
				Column:  column,
				Rule:    "foreign",
				Message: foreign.WarnMessage(m.Text),
				Preview: m.Text,
			})
		}
		if level == rules.SeverityFix {
			current = foreign.WrapMarkdown(current, matches)
		}
	}

	res.Output = current
	res.Changed = current != text
	return res, nil
}

// ignoredRanges maps the ignored segments to absolute ranges in the
// concatenated text. Fixes change segment lengths, so the ranges are
// recomputed from the current segment state rather than the input.
func ignoredRanges(segments []segment.Segment) []segment.Range {
	var ranges []segment.Range
	cursor := 0
	for _, seg := range segments {
		if seg.Ignored {
			ranges = append(ranges, segment.Range{Start: cursor, End: cursor + len(seg.Text)})
		}
		cursor += len(seg.Text)
	}
	return ranges
}
