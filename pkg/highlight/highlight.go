// Package highlight reconciles a flat correction list back onto a text,
// producing an ordered list of renderable segments. It locates every
// non-overlapping occurrence of each correction's token, resolves
// overlapping and duplicate-occurrence ambiguity deterministically, and tags
// each segment normal, incorrect or correct.
//
// For identical inputs the segment output is byte-identical across runs:
// corrections are processed strictly in list order, occurrences are scanned
// left to right, and accepted spans are sorted by start position — no map
// iteration is involved anywhere.
package highlight

import (
	"sort"
	"strings"

	"github.com/shuddhi-ai/shuddhi/pkg/correction"
)

// Side selects which side of a correction is being rendered.
type Side string

const (
	// SideOriginal highlights each correction's incorrect token in the
	// original text.
	SideOriginal Side = "original"

	// SideCorrected highlights each correction's correct token in the
	// corrected text.
	SideCorrected Side = "corrected"
)

// SegmentType tags a segment for rendering.
type SegmentType string

const (
	SegmentNormal    SegmentType = "normal"
	SegmentIncorrect SegmentType = "incorrect"
	SegmentCorrect   SegmentType = "correct"
)

// NoCorrection is the CorrectionIndex value of segments not tied to any
// correction.
const NoCorrection = -1

// Segment is one contiguous run of text tagged for rendering. Constructed
// fresh per render; never persisted.
type Segment struct {
	// Text is the literal run of text.
	Text string `json:"text"`

	// IsHighlighted is true iff this segment's CorrectionIndex equals the
	// currently selected correction (see Highlighter.ToggleCorrection).
	IsHighlighted bool `json:"isHighlighted"`

	// Type is normal, incorrect or correct.
	Type SegmentType `json:"type"`

	// CorrectionIndex is the index into the input corrections slice that
	// produced this segment, or NoCorrection for plain text. UIs use it to
	// cross-highlight the matching entry on hover or click.
	CorrectionIndex int `json:"correctionIndex"`

	// Source is the producing component of the underlying correction;
	// empty for plain text segments.
	Source correction.Source `json:"source,omitempty"`
}

// IsPlaceholder reports whether token is a bracket marker such as "[absent]"
// or "[removed]" — an insertion or deletion with no literal text to
// underline. Placeholders are skipped from occurrence search entirely.
func IsPlaceholder(token string) bool {
	return len(token) >= 2 && strings.HasPrefix(token, "[") && strings.HasSuffix(token, "]")
}

// Highlighter holds the externally-tracked "currently selected correction"
// used to set IsHighlighted on built segments. The zero value has no
// selection; use New for clarity. Not safe for concurrent use — one
// Highlighter per rendering session.
type Highlighter struct {
	selected int
}

// New returns a Highlighter with no selection.
func New() *Highlighter {
	return &Highlighter{selected: NoCorrection}
}

// ToggleCorrection selects the correction at index, or clears the selection
// when index is already selected (toggle semantics).
func (h *Highlighter) ToggleCorrection(index int) {
	if h.selected == index {
		h.selected = NoCorrection
		return
	}
	h.selected = index
}

// Selected returns the selected correction index, or NoCorrection.
func (h *Highlighter) Selected() int { return h.selected }

// Clear removes any selection.
func (h *Highlighter) Clear() { h.selected = NoCorrection }

// BuildSegments is like the package-level BuildSegments but marks segments
// whose CorrectionIndex equals the current selection as highlighted.
func (h *Highlighter) BuildSegments(text string, corrections []correction.Correction, side Side) []Segment {
	return buildSegments(text, corrections, side, h.selected)
}

// BuildSegments splits text into ordered segments tagged per side with no
// selection applied.
func BuildSegments(text string, corrections []correction.Correction, side Side) []Segment {
	return buildSegments(text, corrections, side, NoCorrection)
}

// claim is one accepted token occurrence.
type claim struct {
	start, end int
	index      int // index into the corrections slice
}

func buildSegments(text string, corrections []correction.Correction, side Side, selected int) []Segment {
	segType := SegmentIncorrect
	if side == SideCorrected {
		segType = SegmentCorrect
	}

	// Collect accepted occurrences, first-claim-wins: earlier corrections in
	// the list take priority over later ones when spans collide, so a short
	// token can never re-highlight inside a longer, already-claimed span.
	var claims []claim
	for i, c := range corrections {
		token := c.Incorrect
		if side == SideCorrected {
			token = c.Correct
		}
		if token == "" || IsPlaceholder(token) {
			continue
		}
		for from := 0; ; {
			idx := strings.Index(text[from:], token)
			if idx < 0 {
				break
			}
			start := from + idx
			end := start + len(token)
			if overlapsClaim(claims, start, end) {
				from = start + 1
				continue
			}
			claims = append(claims, claim{start: start, end: end, index: i})
			from = end
		}
	}

	// Segments are emitted in text order, not correction-list order.
	sort.Slice(claims, func(i, j int) bool { return claims[i].start < claims[j].start })

	segments := make([]Segment, 0, 2*len(claims)+1)
	prev := 0
	for _, cl := range claims {
		if cl.start > prev {
			segments = append(segments, normalSegment(text[prev:cl.start]))
		}
		segments = append(segments, Segment{
			Text:            text[cl.start:cl.end],
			IsHighlighted:   selected != NoCorrection && cl.index == selected,
			Type:            segType,
			CorrectionIndex: cl.index,
			Source:          corrections[cl.index].Source,
		})
		prev = cl.end
	}
	if prev < len(text) {
		segments = append(segments, normalSegment(text[prev:]))
	}
	return segments
}

func normalSegment(text string) Segment {
	return Segment{
		Text:            text,
		Type:            SegmentNormal,
		CorrectionIndex: NoCorrection,
	}
}

func overlapsClaim(claims []claim, start, end int) bool {
	for _, c := range claims {
		if start < c.end && c.start < end {
			return true
		}
	}
	return false
}
