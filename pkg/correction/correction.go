// Package correction defines the shared data model of the Shuddhi correction
// pipeline: the Correction record emitted by every pass and the Result shape
// consumed by the rest of the application.
//
// All values are immutable once created. A pass appends Corrections to its
// output and never modifies Corrections produced by an earlier pass.
package correction

// Type categorises what kind of mistake a Correction fixes.
type Type string

const (
	TypeGrammar     Type = "grammar"
	TypeSpelling    Type = "spelling"
	TypePunctuation Type = "punctuation"
	TypeSyntax      Type = "syntax"
	// TypeVocabulary covers word-selection fixes. Providers transmit this as
	// the wire literal "word_selection"; see ParseType.
	TypeVocabulary Type = "vocabulary"
)

// IsValid reports whether t is a recognised correction type.
func (t Type) IsValid() bool {
	switch t {
	case TypeGrammar, TypeSpelling, TypePunctuation, TypeSyntax, TypeVocabulary:
		return true
	}
	return false
}

// ParseType maps a wire-format type literal to a Type. Providers send
// "grammar", "spelling", "punctuation", "syntax" or "word_selection";
// anything unrecognised maps to TypeGrammar so a sloppy provider reply never
// drops a correction.
func ParseType(s string) Type {
	switch s {
	case "grammar":
		return TypeGrammar
	case "spelling":
		return TypeSpelling
	case "punctuation":
		return TypePunctuation
	case "syntax":
		return TypeSyntax
	case "word_selection", "vocabulary":
		return TypeVocabulary
	}
	return TypeGrammar
}

// Source identifies which component produced a Correction.
type Source string

const (
	// SourceDictionary marks corrections made by a deterministic dictionary
	// substitution pass.
	SourceDictionary Source = "dictionary"

	// SourceLLM marks corrections returned by the grammar provider.
	SourceLLM Source = "llm"
)

// Correction is one detected change: an incorrect span, its replacement, and
// metadata describing why and where it was made.
//
// Incorrect may be a bracketed placeholder such as "[absent]" when the change
// is a pure insertion with no literal source text; highlighting skips such
// tokens (see package highlight).
type Correction struct {
	// Incorrect is the original token or phrase that was replaced.
	Incorrect string `json:"incorrect"`

	// Correct is the replacement token or phrase.
	Correct string `json:"correct"`

	// Reason is a human-readable, localised explanation of the change.
	Reason string `json:"reason"`

	// Type is the correction category.
	Type Type `json:"type"`

	// Source records which component produced this correction.
	Source Source `json:"source"`

	// Step is the pipeline stage identifier ("step1", "step2", …). Empty
	// until stamped by the transformation tracker if the emitting pass did
	// not set it.
	Step string `json:"step,omitempty"`
}

// IsNoop reports whether the correction changes nothing. Passes must not emit
// no-op corrections; this is the guard they use.
func (c Correction) IsNoop() bool {
	return c.Incorrect == c.Correct
}

// Result is the consumer-facing outcome of a full pipeline run.
type Result struct {
	// CorrectedText is the output of the final pass.
	CorrectedText string `json:"correctedText"`

	// Corrections aggregates every pass's corrections in pass order, then
	// within-pass detection order. Consumers rely on this ordering for
	// "most recent wins" display logic.
	Corrections []Correction `json:"corrections"`
}
