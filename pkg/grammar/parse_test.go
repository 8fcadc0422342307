package grammar

import (
	"errors"
	"testing"

	"github.com/shuddhi-ai/shuddhi/pkg/correction"
)

const strictReply = `{
  "correctedText": "मैं कल जाऊँगा।",
  "corrections": [
    {"incorrect": "मै", "correct": "मैं", "reason": "अनुस्वार की त्रुटि", "type": "spelling"},
    {"incorrect": "जाउंगा", "correct": "जाऊँगा", "reason": "मात्रा की त्रुटि", "type": "grammar"}
  ]
}`

func TestParseResponse_StrictJSON(t *testing.T) {
	res, err := ParseResponse(strictReply)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if res.CorrectedText != "मैं कल जाऊँगा।" {
		t.Errorf("correctedText = %q", res.CorrectedText)
	}
	if len(res.Corrections) != 2 {
		t.Fatalf("corrections = %d, want 2", len(res.Corrections))
	}
	c := res.Corrections[0]
	if c.Incorrect != "मै" || c.Correct != "मैं" || c.Type != correction.TypeSpelling {
		t.Errorf("corrections[0] = %+v", c)
	}
	if c.Source != correction.SourceLLM {
		t.Errorf("source = %q, want llm", c.Source)
	}
}

func TestParseResponse_CodeFence(t *testing.T) {
	res, err := ParseResponse("```json\n" + strictReply + "\n```")
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if res.CorrectedText != "मैं कल जाऊँगा।" {
		t.Errorf("correctedText = %q", res.CorrectedText)
	}
}

func TestParseResponse_JSONWithSurroundingProse(t *testing.T) {
	raw := "यह रहा सुधारा हुआ परिणाम:\n" + strictReply + "\nआशा है यह सहायक होगा।"
	res, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if res.CorrectedText != "मैं कल जाऊँगा।" {
		t.Errorf("correctedText = %q", res.CorrectedText)
	}
	if len(res.Corrections) != 2 {
		t.Errorf("corrections = %d, want 2", len(res.Corrections))
	}
}

func TestParseResponse_DropsNoopCorrections(t *testing.T) {
	raw := `{
  "correctedText": "ठीक पाठ है यह",
  "corrections": [
    {"incorrect": "वही", "correct": "वही", "reason": "", "type": "grammar"},
    {"incorrect": "गलत", "correct": "सही", "reason": "r", "type": "grammar"}
  ]
}`
	res, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if len(res.Corrections) != 1 {
		t.Fatalf("corrections = %d, want 1 (no-op dropped)", len(res.Corrections))
	}
	if res.Corrections[0].Incorrect != "गलत" {
		t.Errorf("kept correction = %+v", res.Corrections[0])
	}
}

func TestParseResponse_UnknownTypeNormalized(t *testing.T) {
	raw := `{
  "correctedText": "कुछ सुधारा हुआ पाठ",
  "corrections": [
    {"incorrect": "अ", "correct": "आ", "reason": "r", "type": "word_choice"}
  ]
}`
	res, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if got := res.Corrections[0].Type; got != correction.ParseType("word_choice") {
		t.Errorf("type = %q, want ParseType's normalization", got)
	}
}

func TestParseResponse_FreeTextFallback(t *testing.T) {
	raw := "सुधार के बाद:\n\nमैं कल विद्यालय जाऊँगा और अपने मित्रों से मिलूँगा।\n"
	res, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if res.CorrectedText != "मैं कल विद्यालय जाऊँगा और अपने मित्रों से मिलूँगा।" {
		t.Errorf("correctedText = %q", res.CorrectedText)
	}
	if res.Corrections != nil {
		t.Errorf("fallback must not fabricate corrections, got %v", res.Corrections)
	}
}

func TestParseResponse_FallbackSkipsMarkupAndShortLines(t *testing.T) {
	raw := `# सुधार
- मै -> मैं
1. वर्तनी ठीक की गई है यहाँ पर
छोटा वाक्य
यह वाक्य पर्याप्त लंबा है और सुधारा हुआ पाठ है।`
	res, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if res.CorrectedText != "यह वाक्य पर्याप्त लंबा है और सुधारा हुआ पाठ है।" {
		t.Errorf("correctedText = %q", res.CorrectedText)
	}
}

func TestParseResponse_NoDevanagariIsEmpty(t *testing.T) {
	_, err := ParseResponse("I am sorry, I cannot help with that request today.")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestParseResponse_EmptyInput(t *testing.T) {
	_, err := ParseResponse("")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestProviderError_Unwrap(t *testing.T) {
	cause := errors.New("429 too many requests")
	err := &ProviderError{Provider: "openai", Op: "correct_grammar", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("Unwrap chain lost the cause")
	}
	msg := err.Error()
	if msg != "grammar: openai correct_grammar: 429 too many requests" {
		t.Errorf("Error() = %q", msg)
	}
}
