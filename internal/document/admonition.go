package document

import (
	"regexp"
	"strings"

	"github.com/FocuswithJustin/Typographe/core/segment"
)

// DefaultTranslations maps admonition types to their French titles.
var DefaultTranslations = map[string]string{
	"note":     "Note",
	"abstract": "Résumé",
	"info":     "Info",
	"tip":      "Astuce",
	"success":  "Succès",
	"question": "Question",
	"warning":  "Avertissement",
	"failure":  "Échec",
	"danger":   "Danger",
	"bug":      "Bogue",
	"example":  "Exemple",
	"quote":    "Citation",
	"cite":     "Citation",
	"exercise": "Exercice",
}

// reAdmonition matches an admonition opening line: indent, !!! or ??? or
// ???+ marker, type, option tokens, optional quoted title. The options
// group is lazy so a trailing quoted string binds to the title group; a
// quote-led option token means the line has no well-formed title and is
// rejected after matching.
var reAdmonition = regexp.MustCompile(`^(\s*)(!!!|\?\?\?\+?)\s+([A-Za-z0-9_-]+)((?:\s+\S+)*?)(?:\s+"([^"]*)")?\s*$`)

// mergeTranslations overlays extra entries on the default table. Keys
// compare lowercased. An empty value removes the type, which disables
// title injection for it.
func mergeTranslations(extra map[string]string) map[string]string {
	merged := make(map[string]string, len(DefaultTranslations)+len(extra))
	for key, value := range DefaultTranslations {
		merged[key] = value
	}
	for key, value := range extra {
		k := strings.ToLower(key)
		if value == "" {
			delete(merged, k)
			continue
		}
		merged[k] = value
	}
	return merged
}

// admonitionLineRanges returns one range per admonition opening line.
// Those lines are extension syntax, not prose: the rule passes must not
// touch them or the quote conversion would eat the title delimiters.
func admonitionLineRanges(text string) []segment.Range {
	var ranges []segment.Range
	start := 0
	for start <= len(text) {
		end := strings.IndexByte(text[start:], '\n')
		var raw string
		if end < 0 {
			raw = text[start:]
		} else {
			raw = text[start : start+end+1]
		}
		if raw == "" {
			break
		}
		body := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		if reAdmonition.MatchString(body) {
			ranges = append(ranges, segment.Range{Start: start, End: start + len(raw)})
		}
		start += len(raw)
	}
	return ranges
}

// translateAdmonitions adds French titles to untitled admonition opening
// lines. Lines that start inside a protected range, carry a non-blank
// title already, or use a type without a translation pass through
// unchanged. Returns the rewritten text and the number of lines changed.
func translateAdmonitions(text string, translations map[string]string, protected []segment.Range) (string, int) {
	var b strings.Builder
	b.Grow(len(text))
	changed := 0

	start := 0
	for start <= len(text) {
		end := strings.IndexByte(text[start:], '\n')
		var raw string
		if end < 0 {
			raw = text[start:]
		} else {
			raw = text[start : start+end+1]
		}
		if raw == "" {
			break
		}

		b.WriteString(rewriteAdmonitionLine(raw, start, translations, protected, &changed))
		start += len(raw)
	}
	return b.String(), changed
}

// rewriteAdmonitionLine returns the replacement for one raw line
// (terminator included), bumping changed when the line was rewritten.
func rewriteAdmonitionLine(raw string, offset int, translations map[string]string, protected []segment.Range, changed *int) string {
	if segment.Contains(protected, offset) {
		return raw
	}

	body := strings.TrimSuffix(raw, "\n")
	terminator := raw[len(body):]
	if strings.HasSuffix(body, "\r") {
		terminator = "\r" + terminator
		body = body[:len(body)-1]
	}

	m := reAdmonition.FindStringSubmatch(body)
	if m == nil {
		return raw
	}
	indent, marker, kind, options, title := m[1], m[2], m[3], m[4], m[5]

	for _, token := range strings.Fields(options) {
		if strings.HasPrefix(token, `"`) {
			return raw
		}
	}

	translation, ok := translations[strings.ToLower(kind)]
	if !ok || strings.TrimSpace(title) != "" {
		return raw
	}

	rewritten := indent + marker + " " + kind + options + ` "` + translation + `"` + terminator
	if rewritten != raw {
		*changed++
	}
	return rewritten
}
