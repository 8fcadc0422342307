package grammar

import (
	"encoding/json"
	"log/slog"
	"strings"
	"unicode"

	"github.com/shuddhi-ai/shuddhi/pkg/correction"
)

// minFallbackRunes is the minimum length of a free-text line considered a
// plausible corrected text in the fallback path.
const minFallbackRunes = 20

// wireCorrection is the JSON shape providers are instructed to return for a
// single correction.
type wireCorrection struct {
	Incorrect string `json:"incorrect"`
	Correct   string `json:"correct"`
	Reason    string `json:"reason"`
	Type      string `json:"type"`
}

// wireResult is the JSON shape providers are instructed to return.
type wireResult struct {
	CorrectedText string           `json:"correctedText"`
	Corrections   []wireCorrection `json:"corrections"`
}

// ParseResponse interprets a raw model reply for CorrectGrammar.
//
// The strict path expects the JSON object from CorrectionPrompt, optionally
// wrapped in a markdown code fence or surrounded by prose. When no JSON can
// be recovered, the fallback selects the first line that is at least 20
// runes long, contains Devanagari codepoints, and does not look like a
// bullet or header, and treats it as the corrected text with an empty
// corrections list — structured corrections cannot be reliably recovered
// from prose. Persistent fallback triggering is a prompt-contract problem,
// not something to harden further; it is logged as a warning each time.
//
// Returns ErrEmptyResponse when neither path yields usable text.
func ParseResponse(raw string) (*correction.Result, error) {
	if payload, ok := extractJSON(raw); ok {
		var wire wireResult
		if err := json.Unmarshal([]byte(payload), &wire); err == nil && wire.CorrectedText != "" {
			return fromWire(wire), nil
		}
	}

	if line, ok := extractDevanagariLine(raw); ok {
		slog.Warn("grammar reply was not valid JSON, recovered free-text corrected text",
			"reply_len", len(raw))
		return &correction.Result{CorrectedText: line, Corrections: nil}, nil
	}

	return nil, ErrEmptyResponse
}

// fromWire converts a decoded wire result into the domain shape, dropping
// no-op corrections and stamping the LLM source.
func fromWire(wire wireResult) *correction.Result {
	res := &correction.Result{CorrectedText: wire.CorrectedText}
	for _, wc := range wire.Corrections {
		c := correction.Correction{
			Incorrect: wc.Incorrect,
			Correct:   wc.Correct,
			Reason:    wc.Reason,
			Type:      correction.ParseType(wc.Type),
			Source:    correction.SourceLLM,
		}
		if c.IsNoop() {
			continue
		}
		res.Corrections = append(res.Corrections, c)
	}
	return res
}

// extractJSON locates the JSON object inside raw: either the whole trimmed
// string, the body of a ```json fence, or the outermost {...} span.
func extractJSON(raw string) (string, bool) {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.Index(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// extractDevanagariLine returns the first line of raw that plausibly is the
// corrected Hindi text: ≥20 runes, contains Devanagari, and is not shaped
// like a bullet, header or numbered list item.
func extractDevanagariLine(raw string) (string, bool) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if len([]rune(line)) < minFallbackRunes {
			continue
		}
		if looksLikeMarkup(line) {
			continue
		}
		if containsDevanagari(line) {
			return line, true
		}
	}
	return "", false
}

// looksLikeMarkup reports whether line starts like a bullet, header or
// numbered list item rather than prose.
func looksLikeMarkup(line string) bool {
	switch {
	case strings.HasPrefix(line, "-"), strings.HasPrefix(line, "*"),
		strings.HasPrefix(line, "#"), strings.HasPrefix(line, ">"),
		strings.HasPrefix(line, "`"):
		return true
	}
	// "1.", "2)" style list markers.
	if i := strings.IndexAny(line, ".)"); i > 0 && i <= 3 {
		allDigits := true
		for _, r := range line[:i] {
			if !unicode.IsDigit(r) {
				allDigits = false
				break
			}
		}
		if allDigits {
			return true
		}
	}
	return false
}

// containsDevanagari reports whether s has at least one Devanagari codepoint.
func containsDevanagari(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Devanagari, r) {
			return true
		}
	}
	return false
}
