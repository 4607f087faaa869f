package rules

import (
	"fmt"

	"github.com/FocuswithJustin/Typographe/core/errors"
	"github.com/FocuswithJustin/Typographe/core/lexicon"
	"github.com/FocuswithJustin/Typographe/internal/logging"
)

// Warning is a Finding tagged with the rule that produced it.
type Warning struct {
	Rule    string
	Start   int
	End     int
	Message string
	Preview string
}

// SeverityLookup resolves the severity for a rule at call time. Severity
// lives in configuration, never on the rule itself.
type SeverityLookup func(Rule) Severity

// Orchestrator applies an ordered rule chain to a text buffer. Order
// matters: abbreviation and casing run before spacing so punctuation
// normalization sees already normalized tokens.
type Orchestrator struct {
	rules []Rule
}

// NewOrchestrator returns an orchestrator over the given rule chain.
func NewOrchestrator(ruleChain []Rule) *Orchestrator {
	return &Orchestrator{rules: append([]Rule{}, ruleChain...)}
}

// Rules returns a copy of the managed rule chain.
func (o *Orchestrator) Rules() []Rule {
	return append([]Rule{}, o.rules...)
}

// Process runs every rule against the buffer according to its severity:
// ignore skips the rule, warn collects findings against the current
// buffer state without mutating it, fix rewrites the buffer and reports
// nothing. An unknown severity is caller misuse and is rejected.
func (o *Orchestrator) Process(text string, levels SeverityLookup) (string, []Warning, error) {
	current := text
	var warnings []Warning

	for _, rule := range o.rules {
		severity := levels(rule)
		switch severity {
		case SeverityIgnore:
			continue
		case SeverityWarn:
			findings := rule.Detect(current)
			for _, f := range findings {
				warnings = append(warnings, Warning{
					Rule:    rule.Name(),
					Start:   f.Start,
					End:     f.End,
					Message: f.Message,
					Preview: f.Preview,
				})
			}
			logging.RuleEvent(rule.Name(), "detect", len(findings))
		case SeverityFix:
			current = rule.Fix(current)
		default:
			return text, nil, errors.NewValidation("severity", fmt.Sprintf("%q must be ignore, warn or fix", string(severity)))
		}
	}
	return current, warnings, nil
}

// MarkdownRules returns the chain applied to Markdown sources.
func MarkdownRules(lx *lexicon.Lexicon) []Rule {
	return []Rule{
		NewAbbreviationRule(),
		NewCasingRule(),
		NewDiacriticsRule(lx),
	}
}

// HTMLRules returns the chain applied to rendered HTML text nodes.
func HTMLRules(lx *lexicon.Lexicon) []Rule {
	return []Rule{
		NewOrdinalRule(),
		NewLigaturesRule(lx),
		NewSpacingRule(),
		NewQuotesRule(),
		NewUnitsRule(),
	}
}

// AllRules returns the full historical chain: the Markdown rules followed
// by the HTML rules.
func AllRules(lx *lexicon.Lexicon) []Rule {
	return append(MarkdownRules(lx), HTMLRules(lx)...)
}
