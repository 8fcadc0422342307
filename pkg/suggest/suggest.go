// Package suggest offers spelling suggestions for Devanagari tokens that the
// dictionary pass did not recognise. A fuzzy model trained on the
// dictionary's corrected forms generates candidates; Levenshtein distance
// ranks them. The service is advisory only — it never rewrites text, it
// feeds the editor's suggestion dropdown.
package suggest

import (
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/sajari/fuzzy"

	"github.com/shuddhi-ai/shuddhi/pkg/dictionary"
)

const (
	// maxDistance is the largest edit distance still offered as a
	// suggestion. Beyond two edits, Devanagari candidates are rarely the
	// intended word.
	maxDistance = 2

	// defaultLimit caps how many suggestions Suggest returns when the
	// caller passes max <= 0.
	defaultLimit = 3

	// modelDepth is the edit depth the fuzzy model indexes. Matches
	// maxDistance.
	modelDepth = 2
)

// Service suggests corrected forms for unknown words. Safe for concurrent
// read use after construction; do not train it afterwards.
type Service struct {
	model *fuzzy.Model
	known map[string]struct{}
}

// NewFromEntries builds a Service whose vocabulary is the corrected
// (replacement) side of the given dictionary entries. Incorrect originals
// are remembered only to recognise them as "known to be wrong" — they are
// never suggested.
func NewFromEntries(entries []dictionary.Entry) *Service {
	model := fuzzy.NewModel()
	model.SetDepth(modelDepth)

	known := make(map[string]struct{}, len(entries))
	words := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Replacement == "" {
			continue
		}
		words = append(words, e.Replacement)
		known[e.Replacement] = struct{}{}
	}
	model.Train(words)

	return &Service{model: model, known: known}
}

// Known reports whether word is a vocabulary word (an already-correct form).
func (s *Service) Known(word string) bool {
	_, ok := s.known[word]
	return ok
}

// Suggest returns up to max candidate corrections for word, nearest first.
// A known word yields no suggestions. Candidates are generated by the fuzzy
// model and ranked by exact Levenshtein distance, ties broken
// lexicographically so output is deterministic.
func (s *Service) Suggest(word string, max int) []string {
	if word == "" || s.Known(word) {
		return nil
	}
	if max <= 0 {
		max = defaultLimit
	}

	type candidate struct {
		word string
		dist int
	}
	var candidates []candidate
	seen := make(map[string]struct{})
	for _, c := range s.model.Suggestions(word, false) {
		if _, dup := seen[c]; dup || c == word {
			continue
		}
		seen[c] = struct{}{}
		d := levenshtein.ComputeDistance(word, c)
		if d > maxDistance {
			continue
		}
		candidates = append(candidates, candidate{word: c, dist: d})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].word < candidates[j].word
	})

	if len(candidates) > max {
		candidates = candidates[:max]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.word
	}
	return out
}
