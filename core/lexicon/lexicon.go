// Package lexicon provides the word list and derived indices backing the
// ligature and diacritic correction rules.
//
// A Lexicon is immutable once constructed and safe for concurrent readers.
// Lookups never guess: when a ligature or accent restoration would be
// ambiguous the input is returned unchanged.
package lexicon

import (
	"sort"
	"strings"
)

// Lexicon is an in-memory set of attested word forms plus two derived
// indices: an ASCII-digraph key to canonical ligature spelling map, and a
// diacritic-stripped base form to ordered variant list map.
type Lexicon struct {
	words    map[string]struct{}
	ligature map[string]string
	accent   map[string][]string
}

// New builds a Lexicon from a raw word list. Entries are trimmed and
// filtered to plausible forms, the safety fallback words are merged in, and
// both indices are built from the resulting set.
func New(words []string) *Lexicon {
	lx := &Lexicon{
		words:    make(map[string]struct{}, len(words)+len(fallbackWords)),
		ligature: make(map[string]string),
		accent:   make(map[string][]string),
	}
	for _, w := range words {
		trimmed := strings.TrimSpace(w)
		if !isPotentialWord(trimmed) {
			continue
		}
		lx.words[trimmed] = struct{}{}
	}
	for _, w := range fallbackWords {
		lx.words[w] = struct{}{}
	}
	lx.buildIndexes()
	return lx
}

// NewFallback builds a Lexicon containing only the safety word list.
func NewFallback() *Lexicon {
	return New(nil)
}

// buildIndexes derives the ligature and accent indices from the word set.
func (lx *Lexicon) buildIndexes() {
	ligatureCandidates := make(map[string]map[string]struct{})
	accentVariants := make(map[string]map[string]struct{})
	bareAttested := make(map[string]struct{})

	for word := range lx.words {
		lower := strings.ToLower(word)
		if containsLigature(word) {
			key := NormalizeASCII(lower)
			set, ok := ligatureCandidates[key]
			if !ok {
				set = make(map[string]struct{})
				ligatureCandidates[key] = set
			}
			set[lower] = struct{}{}
		}

		base := StripDiacritics(lower)
		if base == "" {
			continue
		}
		if lower != base {
			set, ok := accentVariants[base]
			if !ok {
				set = make(map[string]struct{})
				accentVariants[base] = set
			}
			set[lower] = struct{}{}
		} else {
			bareAttested[base] = struct{}{}
			if _, ok := accentVariants[base]; !ok {
				accentVariants[base] = make(map[string]struct{})
			}
		}
	}

	lx.ligature = make(map[string]string, len(ligatureCandidates))
	for key, values := range ligatureCandidates {
		// Ties broken by the lexicographically smallest spelling.
		var canonical string
		for v := range values {
			if canonical == "" || v < canonical {
				canonical = v
			}
		}
		lx.ligature[key] = canonical
	}

	lx.accent = make(map[string][]string, len(accentVariants))
	for base, variants := range accentVariants {
		if len(variants) == 0 {
			continue
		}
		ordered := make([]string, 0, len(variants)+1)
		if _, ok := bareAttested[base]; ok {
			ordered = append(ordered, base)
		}
		accented := make([]string, 0, len(variants))
		for v := range variants {
			accented = append(accented, v)
		}
		sort.Strings(accented)
		lx.accent[base] = append(ordered, accented...)
	}
}

// augmentWithFallbacks injects the safety words into both indices. Used
// after loading precomputed indices from an artifact so the fallback
// vocabulary is always resolvable.
func (lx *Lexicon) augmentWithFallbacks() {
	for _, word := range fallbackWords {
		lower := strings.ToLower(word)
		if containsLigature(word) {
			key := NormalizeASCII(lower)
			if _, ok := lx.ligature[key]; !ok {
				lx.ligature[key] = lower
			}
		}

		base := StripDiacritics(lower)
		if base == "" {
			continue
		}
		merged := append([]string{}, lx.accent[base]...)
		merged = append(merged, lower)
		lx.accent[base] = normalizeAccentEntry(base, merged)
	}
}

// normalizeAccentEntry deduplicates accent variants and orders them with
// the bare base form first, then the rest alphabetically.
func normalizeAccentEntry(base string, variants []string) []string {
	seen := make(map[string]struct{}, len(variants))
	var bare []string
	var accented []string
	for _, item := range variants {
		candidate := strings.TrimSpace(item)
		if candidate == "" {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		if candidate == base {
			bare = append(bare, candidate)
		} else {
			accented = append(accented, candidate)
		}
	}
	sort.Strings(accented)
	return append(bare, accented...)
}

// Ligaturize replaces oe/ae digraphs with their ligature when the lexicon
// has a canonical spelling for the word. The input casing pattern is
// reapplied to the suggestion. Unknown words are returned unchanged.
func (lx *Lexicon) Ligaturize(word string) string {
	if word == "" {
		return word
	}
	key := strings.ToLower(NormalizeASCII(word))
	canonical, ok := lx.ligature[key]
	if !ok {
		return word
	}
	return applyCasePattern(word, canonical)
}

// Accentize restores missing diacritics when exactly one attested variant
// is compatible with the input. Ambiguity (zero or several compatible
// candidates) returns the input unchanged.
func (lx *Lexicon) Accentize(word string) string {
	if word == "" {
		return word
	}
	lower := strings.ToLower(word)
	base := StripDiacritics(lower)
	candidates := lx.accent[base]
	if len(candidates) == 0 {
		return word
	}

	var compatible []string
	for _, variant := range candidates {
		if variant == base {
			continue
		}
		if isCompatibleWithExistingDiacritics(lower, variant) {
			compatible = append(compatible, variant)
		}
	}
	if len(compatible) != 1 {
		return word
	}
	return applyCasePattern(word, compatible[0])
}

// isCompatibleWithExistingDiacritics reports whether candidate agrees with
// every diacritic already present in the original: same rune length, same
// stripped skeleton, and any accented original rune must match the
// candidate rune at that position.
func isCompatibleWithExistingDiacritics(originalLower, candidateLower string) bool {
	orig := []rune(originalLower)
	cand := []rune(candidateLower)
	if len(orig) != len(cand) {
		return false
	}
	for i := range orig {
		origStripped := StripDiacritics(string(orig[i]))
		candStripped := StripDiacritics(string(cand[i]))
		if origStripped != candStripped {
			return false
		}
		if string(orig[i]) != origStripped && orig[i] != cand[i] {
			return false
		}
	}
	return true
}

// ContainsFragment returns the sorted list of words containing the
// fragment, case-insensitively. Diagnostic helper.
func (lx *Lexicon) ContainsFragment(fragment string) []string {
	if fragment == "" {
		return nil
	}
	fragLower := strings.ToLower(fragment)
	var matches []string
	for word := range lx.words {
		if strings.Contains(strings.ToLower(word), fragLower) {
			matches = append(matches, word)
		}
	}
	sort.Strings(matches)
	return matches
}

// WordCount returns the number of attested word forms.
func (lx *Lexicon) WordCount() int {
	return len(lx.words)
}

// Words returns a sorted copy of the word list.
func (lx *Lexicon) Words() []string {
	out := make([]string, 0, len(lx.words))
	for w := range lx.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// LigatureIndex returns a copy of the ligature index.
func (lx *Lexicon) LigatureIndex() map[string]string {
	out := make(map[string]string, len(lx.ligature))
	for k, v := range lx.ligature {
		out[k] = v
	}
	return out
}

// AccentIndex returns a copy of the accent index.
func (lx *Lexicon) AccentIndex() map[string][]string {
	out := make(map[string][]string, len(lx.accent))
	for k, v := range lx.accent {
		out[k] = append([]string{}, v...)
	}
	return out
}
