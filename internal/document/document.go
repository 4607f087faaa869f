// Package document runs the typographic rule chain over whole documents.
// Markdown sources are segmented around protected spans and corrected in
// place; rendered HTML is corrected node by node through the markup
// facade. Issues come back as file-addressed diagnostics.
package document

import (
	"github.com/FocuswithJustin/Typographe/core/lexicon"
	"github.com/FocuswithJustin/Typographe/core/rules"
	"github.com/FocuswithJustin/Typographe/internal/config"
)

// Diagnostic is one reported issue, addressed for display.
type Diagnostic struct {
	// File is the path the caller associated with the document.
	File string `json:"file"`

	// Line and Column locate the issue in Markdown sources, 1-based.
	// Both are zero for HTML documents, which carry no source mapping.
	Line   int `json:"line,omitempty"`
	Column int `json:"column,omitempty"`

	// Rule names the rule that produced the diagnostic.
	Rule string `json:"rule"`

	// Message describes the issue.
	Message string `json:"message"`

	// Preview is the suggested replacement, when one exists.
	Preview string `json:"preview,omitempty"`

	// Where is the element path for HTML diagnostics ("div > p > em").
	Where string `json:"where,omitempty"`
}

// Result is the outcome of processing one document.
type Result struct {
	// Output is the corrected document. HTML output is re-rendered from
	// the parsed tree, so byte equality with the input is not meaningful
	// there; use Changed.
	Output string `json:"output"`

	// Diagnostics lists every detected issue.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`

	// Changed reports whether any correction was applied.
	Changed bool `json:"changed"`
}

// Options configures a Processor.
type Options struct {
	// Lexicon backs the ligature and diacritic rules. Defaults to the
	// embedded artifact.
	Lexicon *lexicon.Lexicon

	// Levels assigns severities by rule name, overriding the defaults.
	Levels config.Map

	// Translations adds admonition title translations, merged over the
	// built-in table. An empty value disables the type.
	Translations map[string]string
}

// Processor applies the rule chain, the foreign-locution pass and
// admonition translation to documents. A Processor is immutable after
// construction and safe for concurrent use.
type Processor struct {
	levels       config.Map
	chain        []rules.Rule
	orch         *rules.Orchestrator
	translations map[string]string
}

// NewProcessor builds a Processor. Zero-value options select the
// embedded lexicon and the default severities.
func NewProcessor(opts Options) *Processor {
	lx := opts.Lexicon
	if lx == nil {
		lx = lexicon.LoadDefault()
	}
	levels := config.Defaults()
	if opts.Levels != nil {
		levels.Apply(opts.Levels)
	}
	chain := rules.AllRules(lx)
	return &Processor{
		levels:       levels,
		chain:        chain,
		orch:         rules.NewOrchestrator(chain),
		translations: mergeTranslations(opts.Translations),
	}
}

// Levels returns a copy of the severity map the processor resolved at
// construction.
func (p *Processor) Levels() config.Map {
	return p.levels.Clone()
}
