// Package grammar defines the Provider interface for LLM-backed Hindi
// grammar and style correction.
//
// A grammar provider wraps a remote model API (e.g., OpenAI, or any backend
// reachable through any-llm-go) and exposes two operations: CorrectGrammar,
// which returns corrected text plus structured corrections, and EnhanceStyle,
// which returns only a stylistically improved text. Implementations are
// stateless between calls, never mutate their input, and must be safe for
// concurrent use.
//
// Response parsing is shared across implementations (see ParseResponse):
// strict JSON first, with a Devanagari free-text fallback that recovers the
// corrected text but no structured corrections.
package grammar

import (
	"context"
	"errors"
	"fmt"

	"github.com/shuddhi-ai/shuddhi/pkg/correction"
)

// ErrEmptyResponse indicates the provider returned no usable text at all.
var ErrEmptyResponse = errors.New("grammar: provider returned no usable text")

// ProviderError is the fatal error surfaced when the provider call fails or
// its reply cannot be salvaged. The pipeline aborts the whole run on it —
// silently returning uncorrected text would be a correctness regression the
// user must be told about.
type ProviderError struct {
	// Provider is the implementation name (e.g., "openai").
	Provider string

	// Op is the operation that failed ("correct_grammar" or "enhance_style").
	Op string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("grammar: %s %s: %v", e.Provider, e.Op, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *ProviderError) Unwrap() error { return e.Err }

// Provider is the abstraction over any grammar-correction backend.
type Provider interface {
	// CorrectGrammar sends text to the model with the fixed correction
	// taxonomy prompt and returns the corrected text plus structured
	// corrections. Returns a *ProviderError when the call fails or no
	// usable text can be recovered from the reply.
	CorrectGrammar(ctx context.Context, text string) (*correction.Result, error)

	// EnhanceStyle sends text to the model with the style prompt and
	// returns only the improved text.
	EnhanceStyle(ctx context.Context, text string) (string, error)

	// Name identifies the implementation in logs and errors.
	Name() string
}
