package rules

import (
	"fmt"
	"regexp"
)

var reASCIIQuotes = regexp.MustCompile(`"([^"\n]+)"`)

// QuotesRule converts straight double quotes to French guillemets with
// narrow non-breaking spaces inside.
type QuotesRule struct{}

// NewQuotesRule returns the quote conversion rule.
func NewQuotesRule() *QuotesRule {
	return &QuotesRule{}
}

// Name implements Rule.
func (r *QuotesRule) Name() string { return "quotes" }

// Detect implements Rule.
func (r *QuotesRule) Detect(text string) []Finding {
	var findings []Finding
	for _, m := range reASCIIQuotes.FindAllStringSubmatchIndex(text, -1) {
		quoted := text[m[2]:m[3]]
		findings = append(findings, Finding{
			Start:   m[0],
			End:     m[1],
			Message: fmt.Sprintf(`Guillemets anglais → français « … » : "%s"`, quoted),
			Preview: "«" + NNBSP + quoted + NNBSP + "»",
		})
	}
	return findings
}

// Fix implements Rule.
func (r *QuotesRule) Fix(text string) string {
	return reASCIIQuotes.ReplaceAllString(text, "«"+NNBSP+"${1}"+NNBSP+"»")
}
