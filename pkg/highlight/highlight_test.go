package highlight

import (
	"reflect"
	"strings"
	"testing"

	"github.com/shuddhi-ai/shuddhi/pkg/correction"
)

func joinSegments(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestBuildSegments_OriginalSide(t *testing.T) {
	text := "मै कल जाउंगा"
	corrections := []correction.Correction{
		{Incorrect: "मै", Correct: "मैं", Source: correction.SourceLLM},
		{Incorrect: "जाउंगा", Correct: "जाऊँगा", Source: correction.SourceDictionary},
	}

	segments := BuildSegments(text, corrections, SideOriginal)
	if joinSegments(segments) != text {
		t.Fatalf("segments do not reassemble the text: %q", joinSegments(segments))
	}

	var tagged []Segment
	for _, s := range segments {
		if s.Type == SegmentIncorrect {
			tagged = append(tagged, s)
		}
	}
	if len(tagged) != 2 {
		t.Fatalf("incorrect segments = %d, want 2", len(tagged))
	}
	if tagged[0].Text != "मै" || tagged[0].CorrectionIndex != 0 || tagged[0].Source != correction.SourceLLM {
		t.Errorf("tagged[0] = %+v", tagged[0])
	}
	if tagged[1].Text != "जाउंगा" || tagged[1].CorrectionIndex != 1 {
		t.Errorf("tagged[1] = %+v", tagged[1])
	}
}

func TestBuildSegments_CorrectedSide(t *testing.T) {
	text := "मैं कल जाऊँगा"
	corrections := []correction.Correction{
		{Incorrect: "मै", Correct: "मैं"},
	}

	segments := BuildSegments(text, corrections, SideCorrected)
	if joinSegments(segments) != text {
		t.Fatalf("segments do not reassemble the text")
	}
	if segments[0].Text != "मैं" || segments[0].Type != SegmentCorrect {
		t.Errorf("segments[0] = %+v", segments[0])
	}
}

func TestBuildSegments_FirstClaimWins(t *testing.T) {
	// "रामायण" contains "राम"; the earlier correction claims the full span,
	// and the later short token must not re-highlight inside it.
	text := "रामायण पढ़ो"
	corrections := []correction.Correction{
		{Incorrect: "रामायण", Correct: "रामायण ग्रंथ"},
		{Incorrect: "राम", Correct: "श्रीराम"},
	}

	segments := BuildSegments(text, corrections, SideOriginal)
	if joinSegments(segments) != text {
		t.Fatalf("segments do not reassemble the text")
	}

	var tagged []Segment
	for _, s := range segments {
		if s.Type == SegmentIncorrect {
			tagged = append(tagged, s)
		}
	}
	if len(tagged) != 1 {
		t.Fatalf("incorrect segments = %d, want 1: %+v", len(tagged), tagged)
	}
	if tagged[0].Text != "रामायण" || tagged[0].CorrectionIndex != 0 {
		t.Errorf("tagged[0] = %+v", tagged[0])
	}
}

func TestBuildSegments_AllOccurrencesClaimed(t *testing.T) {
	text := "मै हूँ और मै रहूँगा"
	corrections := []correction.Correction{
		{Incorrect: "मै", Correct: "मैं"},
	}

	segments := BuildSegments(text, corrections, SideOriginal)
	count := 0
	for _, s := range segments {
		if s.Type == SegmentIncorrect {
			count++
		}
	}
	if count != 2 {
		t.Errorf("incorrect segments = %d, want one per occurrence", count)
	}
}

func TestBuildSegments_PlaceholdersSkipped(t *testing.T) {
	text := "वह घर गया"
	corrections := []correction.Correction{
		{Incorrect: "[absent]", Correct: "घर"},
		{Incorrect: "ही", Correct: "[removed]"},
	}

	// On the original side both corrections resolve to nothing highlightable:
	// the first's original-side token is a placeholder, the second's does not
	// occur in the text.
	segments := BuildSegments(text, corrections, SideOriginal)
	if len(segments) != 1 || segments[0].Type != SegmentNormal {
		t.Errorf("original side = %+v, want one normal segment", segments)
	}

	// On the corrected side the insertion's "घर" is highlightable, the
	// removal's placeholder is not.
	segments = BuildSegments(text, corrections, SideCorrected)
	var tagged []Segment
	for _, s := range segments {
		if s.Type == SegmentCorrect {
			tagged = append(tagged, s)
		}
	}
	if len(tagged) != 1 || tagged[0].Text != "घर" || tagged[0].CorrectionIndex != 0 {
		t.Errorf("corrected side tagged = %+v", tagged)
	}
}

func TestBuildSegments_Deterministic(t *testing.T) {
	text := "मै कल जाउंगा और मै फिर आऊंगा"
	corrections := []correction.Correction{
		{Incorrect: "मै", Correct: "मैं"},
		{Incorrect: "जाउंगा", Correct: "जाऊँगा"},
		{Incorrect: "आऊंगा", Correct: "आऊँगा"},
	}

	first := BuildSegments(text, corrections, SideOriginal)
	for i := 0; i < 10; i++ {
		if got := BuildSegments(text, corrections, SideOriginal); !reflect.DeepEqual(got, first) {
			t.Fatal("segment output varies across runs")
		}
	}
}

func TestHighlighter_ToggleSelection(t *testing.T) {
	h := New()
	if h.Selected() != NoCorrection {
		t.Fatalf("fresh highlighter selected = %d", h.Selected())
	}

	h.ToggleCorrection(1)
	if h.Selected() != 1 {
		t.Errorf("selected = %d, want 1", h.Selected())
	}

	// Toggling the same index clears; toggling another switches.
	h.ToggleCorrection(1)
	if h.Selected() != NoCorrection {
		t.Errorf("selected = %d, want cleared", h.Selected())
	}
	h.ToggleCorrection(0)
	h.ToggleCorrection(2)
	if h.Selected() != 2 {
		t.Errorf("selected = %d, want 2", h.Selected())
	}
	h.Clear()
	if h.Selected() != NoCorrection {
		t.Errorf("selected = %d after Clear", h.Selected())
	}
}

func TestHighlighter_BuildSegmentsMarksSelection(t *testing.T) {
	text := "मै कल जाउंगा"
	corrections := []correction.Correction{
		{Incorrect: "मै", Correct: "मैं"},
		{Incorrect: "जाउंगा", Correct: "जाऊँगा"},
	}

	h := New()
	h.ToggleCorrection(1)
	segments := h.BuildSegments(text, corrections, SideOriginal)

	for _, s := range segments {
		want := s.CorrectionIndex == 1
		if s.IsHighlighted != want {
			t.Errorf("segment %+v: IsHighlighted = %v, want %v", s, s.IsHighlighted, want)
		}
	}
}

func TestIsPlaceholder(t *testing.T) {
	for token, want := range map[string]bool{
		"[absent]":  true,
		"[removed]": true,
		"[x]":       true,
		"मैं":       false,
		"[":         false,
		"":          false,
	} {
		if got := IsPlaceholder(token); got != want {
			t.Errorf("IsPlaceholder(%q) = %v, want %v", token, got, want)
		}
	}
}
