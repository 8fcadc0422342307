// Package dictionary implements the deterministic half of the Shuddhi
// pipeline: an ordered substitution table of (original, replacement) pairs,
// a time-boxed cached provider that loads it from a remote source with a
// static built-in fallback, and a corrector that applies the table to
// Devanagari text under several matching strategies.
package dictionary

// Entry is one substitution pair from the dictionary table.
type Entry struct {
	// Original is the incorrect form to search for.
	Original string `json:"original"`

	// Replacement is the corrected form.
	Replacement string `json:"replacement"`
}

// Dedupe removes duplicate entries by Original key. The source table does not
// guarantee uniqueness; under naive sequential substitution duplicates would
// silently apply last-wins, so that is made the explicit policy here: the
// last Replacement seen for an Original wins, while the entry keeps the list
// position of its first occurrence so overall ordering stays stable.
//
// Entries with an empty Original are dropped — they can never match and
// would otherwise loop forever in a scanner.
func Dedupe(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	seen := make(map[string]int, len(entries))
	for _, e := range entries {
		if e.Original == "" {
			continue
		}
		if i, ok := seen[e.Original]; ok {
			out[i].Replacement = e.Replacement
			continue
		}
		seen[e.Original] = len(out)
		out = append(out, e)
	}
	return out
}
