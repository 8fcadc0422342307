package dictionary

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shuddhi-ai/shuddhi/pkg/correction"
)

// Strategy selects how dictionary entries are matched against text.
type Strategy string

const (
	// StrategyLiteral replaces every literal occurrence of an entry's
	// Original regardless of surrounding characters. Fast, but can corrupt
	// substrings inside longer words ("परम्परा" inside "परम्पराओं"). Kept for
	// callers that knowingly substitute free-form fragments.
	StrategyLiteral Strategy = "literal"

	// StrategyWordBoundary only accepts matches flanked by whitespace,
	// punctuation or string edges, using a Devanagari-aware notion of a word
	// character (standard \b regex boundaries do not recognise non-Latin
	// scripts). Entries are applied in descending Original length order and
	// each matched span is claimed once per pass, so a shorter entry can
	// never re-match inside a longer entry's replacement. This is the
	// default and the correct general strategy.
	StrategyWordBoundary Strategy = "word_boundary"

	// StrategyLongestMatch applies entries longest-first with span claiming
	// like StrategyWordBoundary but without the boundary requirement. Used
	// as a final cleanup pass for fragments that legitimately occur inside
	// larger tokens.
	StrategyLongestMatch Strategy = "longest_match"
)

// IsValid reports whether s is a recognised strategy.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyLiteral, StrategyWordBoundary, StrategyLongestMatch:
		return true
	}
	return false
}

// Apply runs the dictionary substitution pass over text and returns the
// corrected text plus one [correction.Correction] per distinct entry that
// matched at least once — never one per occurrence. No-op entries
// (Original == Replacement) and empty Originals are skipped entirely.
//
// Matching is performed by a plain substring scanner, so regex
// metacharacters in entries are inherently inert; nothing is compiled and
// nothing can panic on a malformed entry. Matches are located against the
// input text only and replacements are woven in afterwards in a single
// sweep, which makes the pass idempotent: an entry's replacement can never
// be re-matched by another entry within the same pass, and at most one
// substitution per entry occurrence is ever made.
func Apply(text string, entries []Entry, strategy Strategy) (string, []correction.Correction) {
	if text == "" || len(entries) == 0 {
		return text, nil
	}

	entries = Dedupe(entries)

	if strategy == StrategyWordBoundary || strategy == StrategyLongestMatch {
		// Longest Original first so overlapping shorter entries lose.
		// sort.SliceStable keeps table order among equal lengths.
		sorted := make([]Entry, len(entries))
		copy(sorted, entries)
		sort.SliceStable(sorted, func(i, j int) bool {
			return len(sorted[i].Original) > len(sorted[j].Original)
		})
		entries = sorted
	}

	if strategy == StrategyLiteral {
		return applyLiteral(text, entries)
	}
	return applyScanned(text, entries, strategy == StrategyWordBoundary)
}

// applyLiteral performs sequential global literal replacement per entry.
func applyLiteral(text string, entries []Entry) (string, []correction.Correction) {
	var corrections []correction.Correction
	for _, e := range entries {
		if e.Original == e.Replacement {
			continue
		}
		if !strings.Contains(text, e.Original) {
			continue
		}
		text = strings.ReplaceAll(text, e.Original, e.Replacement)
		corrections = append(corrections, entryCorrection(e))
	}
	return text, corrections
}

// match is one accepted occurrence of an entry in the input text.
type match struct {
	start, end int // byte offsets into the input text
	entry      int // index into the entry list
}

// applyScanned collects all accepted matches against the input text, then
// rebuilds the output in one left-to-right sweep.
func applyScanned(text string, entries []Entry, requireBoundary bool) (string, []correction.Correction) {
	var accepted []match
	matched := make([]bool, len(entries))

	for i, e := range entries {
		if e.Original == e.Replacement {
			continue
		}
		for from := 0; ; {
			idx := strings.Index(text[from:], e.Original)
			if idx < 0 {
				break
			}
			start := from + idx
			end := start + len(e.Original)
			from = start + 1

			if requireBoundary && !boundedAt(text, start, end) {
				continue
			}
			if overlapsAny(accepted, start, end) {
				continue
			}
			accepted = append(accepted, match{start: start, end: end, entry: i})
			matched[i] = true
			from = end
		}
	}

	if len(accepted) == 0 {
		return text, nil
	}

	sort.Slice(accepted, func(i, j int) bool { return accepted[i].start < accepted[j].start })

	var sb strings.Builder
	sb.Grow(len(text))
	prev := 0
	for _, m := range accepted {
		sb.WriteString(text[prev:m.start])
		sb.WriteString(entries[m.entry].Replacement)
		prev = m.end
	}
	sb.WriteString(text[prev:])

	// One correction per entry that matched, in entry application order.
	var corrections []correction.Correction
	for i, e := range entries {
		if matched[i] {
			corrections = append(corrections, entryCorrection(e))
		}
	}
	return sb.String(), corrections
}

// overlapsAny reports whether [start, end) intersects any already-accepted span.
func overlapsAny(accepted []match, start, end int) bool {
	for _, m := range accepted {
		if start < m.end && m.start < end {
			return true
		}
	}
	return false
}

// boundedAt reports whether the span [start, end) of text is flanked by word
// boundaries: the string edge, or a rune that is not a word character.
func boundedAt(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

// isWordRune reports whether r is part of a word for boundary purposes.
// The Devanagari range check is essential: vowel signs and other combining
// marks (category Mn) are not letters, yet "परम्परा" followed by the matra of
// "ओं" is still mid-word.
func isWordRune(r rune) bool {
	return unicode.Is(unicode.Devanagari, r) || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// entryCorrection builds the Correction record for a matched entry.
func entryCorrection(e Entry) correction.Correction {
	return correction.Correction{
		Incorrect: e.Original,
		Correct:   e.Replacement,
		Reason:    "शब्दकोश के अनुसार वर्तनी सुधार",
		Type:      correction.TypeSpelling,
		Source:    correction.SourceDictionary,
	}
}
