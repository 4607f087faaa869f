package document

import (
	"regexp"

	"github.com/FocuswithJustin/Typographe/core/foreign"
	"github.com/FocuswithJustin/Typographe/core/rules"
	"github.com/FocuswithJustin/Typographe/internal/markup"
)

// reDocumentRoot distinguishes full HTML documents from fragments.
var reDocumentRoot = regexp.MustCompile(`(?i)<!doctype\s|<html[\s>]`)

// ProcessHTML corrects rendered HTML. Text under skip tags, opted-out
// elements and ignore comments is untouched. Warn-level rules report,
// fix-level rules rewrite silently, matching the rendering pipeline this
// flow serves. HTML diagnostics carry an element path instead of line
// and column, since rendered markup has no source mapping.
func (p *Processor) ProcessHTML(file, input string) (*Result, error) {
	var doc *markup.Document
	var err error
	if reDocumentRoot.MatchString(input) {
		doc, err = markup.Parse([]byte(input))
	} else {
		doc, err = markup.ParseFragment([]byte(input))
	}
	if err != nil {
		return nil, err
	}
	doc.ResolveIgnores()

	res := &Result{}
	lookup := p.levels.Lookup()
	foreignLevel := p.levels.Level("foreign")

	for _, node := range doc.ActiveTextNodes() {
		text := node.Text()

		processed, warnings, err := p.orch.Process(text, lookup)
		if err != nil {
			return nil, err
		}
		for _, w := range warnings {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				File:    file,
				Rule:    w.Rule,
				Message: w.Message,
				Preview: w.Preview,
				Where:   node.Path(),
			})
		}

		if foreignLevel != rules.SeverityIgnore {
			replaced := p.foreignNode(res, file, node, processed, foreignLevel)
			if replaced {
				res.Changed = true
				continue
			}
		}

		if processed != text {
			node.SetText(processed)
			res.Changed = true
		}
	}

	out, err := doc.Render()
	if err != nil {
		return nil, err
	}
	res.Output = string(out)
	return res, nil
}

// foreignNode handles foreign locutions inside one text node: warnings
// at warn level, emphasis or counter-style wrapping at fix level. The
// return value reports that the node was replaced in the tree, in which
// case the caller must not touch it again.
func (p *Processor) foreignNode(res *Result, file string, node *markup.Node, text string, level rules.Severity) bool {
	matches := foreign.Matches(text, nil)
	if len(matches) == 0 {
		return false
	}

	// An emphasis element wrapping exactly one locution is prior work,
	// the author's or an earlier run's. Leave it alone.
	if len(matches) == 1 && matches[0].Start == 0 && matches[0].End == len(text) {
		if parent := node.Parent(); parent != nil && (parent.Tag() == "em" || parent.Tag() == "i") {
			return false
		}
	}

	if level == rules.SeverityWarn {
		for _, m := range matches {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				File:    file,
				Rule:    "foreign",
				Message: foreign.WarnMessage(m.Text),
				Preview: m.Text,
				Where:   node.Path(),
			})
		}
		return false
	}

	italic := node.HasAncestor("em", "i")
	var replacements []*markup.Node
	last := 0
	for _, m := range matches {
		if m.Start < last {
			continue
		}
		if before := text[last:m.Start]; before != "" {
			replacements = append(replacements, markup.NewText(before))
		}
		if italic {
			replacements = append(replacements, markup.NewCounterSpan(m.Text))
		} else {
			replacements = append(replacements, markup.NewEmphasis(m.Text))
		}
		last = m.End
	}
	if tail := text[last:]; tail != "" {
		replacements = append(replacements, markup.NewText(tail))
	}
	node.ReplaceWith(replacements...)
	return true
}
