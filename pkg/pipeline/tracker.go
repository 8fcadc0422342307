package pipeline

import (
	"fmt"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/shuddhi-ai/shuddhi/pkg/correction"
	"github.com/shuddhi-ai/shuddhi/pkg/highlight"
)

// TextTransformation records one pipeline pass: its input, output and the
// corrections it produced. Immutable once appended to a Tracker.
type TextTransformation struct {
	// Step is the 1-based pass number.
	Step int

	// StepName is the human-readable stage label.
	StepName string

	// InputText is the text the pass received.
	InputText string

	// OutputText is the text the pass produced.
	OutputText string

	// Corrections are the corrections emitted by this pass, in detection
	// order.
	Corrections []correction.Correction
}

// Position is a byte-offset span within a text.
type Position struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// WordMapping links one corrected word's position in a pass's input text to
// its replacement's position in that pass's output text. Derived, not
// authoritative: it is a pure function of the transformation list and safe
// to discard and recompute at any time.
type WordMapping struct {
	OriginalWord       string          `json:"originalWord"`
	FinalWord          string          `json:"finalWord"`
	OriginalPosition   Position        `json:"originalPosition"`
	FinalPosition      Position        `json:"finalPosition"`
	TransformationStep int             `json:"transformationStep"`
	CorrectionType     correction.Type `json:"correctionType"`
	CorrectionReason   string          `json:"correctionReason"`

	// Confidence is the Jaro-Winkler similarity between the original and
	// final word. Pairing occurrences by index is a heuristic; renderers
	// that need trustworthy spans can drop low-confidence mappings.
	Confidence float64 `json:"confidence"`
}

// Tracker is the append-only log of a single pipeline run's passes. It is
// call-scoped state: one Tracker per run, not safe for concurrent use.
type Tracker struct {
	transformations []TextTransformation
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Add appends one pass's record. The step number is assigned from the
// current log length, so passes must be added in execution order.
func (t *Tracker) Add(stepName, inputText, outputText string, corrections []correction.Correction) {
	t.transformations = append(t.transformations, TextTransformation{
		Step:        len(t.transformations) + 1,
		StepName:    stepName,
		InputText:   inputText,
		OutputText:  outputText,
		Corrections: corrections,
	})
}

// Transformations returns the recorded passes in execution order. The
// returned slice is a copy; the records themselves are shared and must not
// be mutated.
func (t *Tracker) Transformations() []TextTransformation {
	out := make([]TextTransformation, len(t.transformations))
	copy(out, t.transformations)
	return out
}

// AllCorrections flattens every pass's corrections in insertion order,
// stamping each correction's Step from its owning transformation when the
// emitting pass did not set one.
func (t *Tracker) AllCorrections() []correction.Correction {
	var out []correction.Correction
	for _, tr := range t.transformations {
		for _, c := range tr.Corrections {
			if c.Step == "" {
				c.Step = fmt.Sprintf("step%d", tr.Step)
			}
			out = append(out, c)
		}
	}
	return out
}

// FinalText returns the output of the last recorded pass, or "" when no
// pass has been recorded.
func (t *Tracker) FinalText() string {
	if len(t.transformations) == 0 {
		return ""
	}
	return t.transformations[len(t.transformations)-1].OutputText
}

// OriginalText returns the input of the first recorded pass, or "".
func (t *Tracker) OriginalText() string {
	if len(t.transformations) == 0 {
		return ""
	}
	return t.transformations[0].InputText
}

// Reset discards all recorded passes.
func (t *Tracker) Reset() {
	t.transformations = nil
}

// WordMappings derives word-level position mappings for every correction in
// every recorded pass: all occurrences of the incorrect word in the pass's
// input are paired positionally with all occurrences of the correct word in
// the pass's output (first with first, second with second, …).
//
// This is a best-effort heuristic, not exact tracking through
// position-shifting edits: when a token occurs more often on one side than
// the other, the unpaired tail is dropped, and nothing guarantees the nth
// occurrence on each side really corresponds. The Confidence field exists so
// downstream renderers can filter accordingly.
func (t *Tracker) WordMappings() []WordMapping {
	var out []WordMapping
	for _, tr := range t.transformations {
		for _, c := range tr.Corrections {
			if highlight.IsPlaceholder(c.Incorrect) || highlight.IsPlaceholder(c.Correct) {
				continue
			}
			in := occurrences(tr.InputText, c.Incorrect)
			fin := occurrences(tr.OutputText, c.Correct)
			n := len(in)
			if len(fin) < n {
				n = len(fin)
			}
			for i := 0; i < n; i++ {
				out = append(out, WordMapping{
					OriginalWord:       c.Incorrect,
					FinalWord:          c.Correct,
					OriginalPosition:   in[i],
					FinalPosition:      fin[i],
					TransformationStep: tr.Step,
					CorrectionType:     c.Type,
					CorrectionReason:   c.Reason,
					Confidence:         matchr.JaroWinkler(c.Incorrect, c.Correct, false),
				})
			}
		}
	}
	return out
}

// occurrences returns the byte spans of every non-overlapping occurrence of
// token in text, left to right.
func occurrences(text, token string) []Position {
	if token == "" {
		return nil
	}
	var out []Position
	for from := 0; ; {
		idx := strings.Index(text[from:], token)
		if idx < 0 {
			return out
		}
		start := from + idx
		out = append(out, Position{Start: start, End: start + len(token)})
		from = start + len(token)
	}
}
