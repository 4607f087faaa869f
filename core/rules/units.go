package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var siPrefixes = []string{
	"Y", "Z", "E", "P", "T", "G", "M", "k", "h", "da",
	"d", "c", "m", "µ", "u", "n", "p", "f", "a", "z", "y",
}

var prefixedBaseUnits = []string{
	"m", "g", "s", "A", "K", "mol", "cd", "Hz", "N", "Pa",
	"J", "W", "C", "V", "F", "Ω", "Ohm", "S", "Wb", "T", "H",
	"L", "l", "B", "bit",
}

var nonPrefixedUnits = []string{
	"%", "‰", "ppm", "ppb", "°C", "°F", "°", "rad", "sr",
	"min", "h", "bar", "atm", "mmHg", "Pa", "dB", "g", "kg",
	"L", "mL", "kWh", "Wh",
}

var currencyUnits = []string{"€", "$", "£", "¥", "CHF", "CAD", "USD"}

var (
	reUnit      *regexp.Regexp
	sortedUnits []string
)

func init() {
	reUnit, sortedUnits = buildUnitPattern()
}

// buildUnitPattern expands the SI prefix and base unit cross product,
// merges the non-prefixable and currency units, and compiles a single
// alternation. Longest units come first so kWh wins over Wh and W; this
// ordering is load-bearing, not cosmetic.
func buildUnitPattern() (*regexp.Regexp, []string) {
	set := make(map[string]struct{})
	for _, base := range prefixedBaseUnits {
		set[base] = struct{}{}
		for _, prefix := range siPrefixes {
			set[prefix+base] = struct{}{}
		}
	}
	for _, unit := range nonPrefixedUnits {
		set[unit] = struct{}{}
	}
	for _, unit := range currencyUnits {
		set[unit] = struct{}{}
	}

	units := make([]string, 0, len(set))
	for unit := range set {
		units = append(units, unit)
	}
	sort.Slice(units, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(units[i]), utf8.RuneCountInString(units[j])
		if li != lj {
			return li > lj
		}
		return units[i] < units[j]
	})

	escaped := make([]string, len(units))
	for i, unit := range units {
		escaped[i] = regexp.QuoteMeta(unit)
	}
	pattern := regexp.MustCompile(
		`(\d+(?:[.,]\d+)?)(` + spaceClass + `*)(` + strings.Join(escaped, "|") + `)`)
	return pattern, units
}

// UnitsRule enforces the narrow non-breaking space between a number and
// its unit or currency symbol.
type UnitsRule struct{}

// NewUnitsRule returns the unit spacing rule.
func NewUnitsRule() *UnitsRule {
	return &UnitsRule{}
}

// Name implements Rule.
func (r *UnitsRule) Name() string { return "units" }

// Detect implements Rule.
func (r *UnitsRule) Detect(text string) []Finding {
	var findings []Finding
	for _, m := range unitMatches(text) {
		sep := text[m[4]:m[5]]
		if strings.Contains(sep, NBSP) || strings.Contains(sep, NNBSP) {
			continue
		}
		number := text[m[2]:m[3]]
		unit := text[m[6]:m[7]]
		preview := number + NNBSP + unit
		findings = append(findings, Finding{
			Start:   m[0],
			End:     m[1],
			Message: fmt.Sprintf("Unités : «%s» → «%s»", text[m[0]:m[1]], preview),
			Preview: preview,
		})
	}
	return findings
}

// Fix implements Rule.
func (r *UnitsRule) Fix(text string) string {
	var repls []replacement
	for _, m := range unitMatches(text) {
		number := text[m[2]:m[3]]
		unit := text[m[6]:m[7]]
		repls = append(repls, replacement{m[0], m[1], number + NNBSP + unit})
	}
	return applyReplacements(text, repls)
}

// unitMatches returns submatch indices for number-unit pairs: the number
// must not be glued to a preceding word character and the unit must not
// be followed by a word, percent or degree character. A rejected match is
// re-scanned from its second rune, since a shorter number inside it (the
// decimals of 1.5kg, say) can still anchor a valid pair.
func unitMatches(text string) [][]int {
	var out [][]int
	pos := 0
	for pos < len(text) {
		m := reUnit.FindStringSubmatchIndex(text[pos:])
		if m == nil {
			break
		}
		for i := range m {
			if m[i] >= 0 {
				m[i] += pos
			}
		}

		valid := noWordBefore(text, m[0])
		if valid {
			next, size := utf8.DecodeRuneInString(text[m[1]:])
			if size != 0 && (isWordRune(next) || next == '%' || next == '°') {
				valid = false
			}
		}
		if valid {
			out = append(out, m)
			pos = m[1]
			continue
		}
		_, size := utf8.DecodeRuneInString(text[m[0]:])
		if size == 0 {
			size = 1
		}
		pos = m[0] + size
	}
	return out
}
