package resilience

import (
	"context"

	"github.com/shuddhi-ai/shuddhi/pkg/correction"
	"github.com/shuddhi-ai/shuddhi/pkg/grammar"
)

// GrammarFallback implements [grammar.Provider] with automatic failover
// across multiple LLM backends. Each backend has its own circuit breaker;
// when the primary fails or its breaker is open, the next healthy fallback
// is tried in registration order.
type GrammarFallback struct {
	group *FallbackGroup[grammar.Provider]
}

// Compile-time interface assertion.
var _ grammar.Provider = (*GrammarFallback)(nil)

// NewGrammarFallback creates a [GrammarFallback] with primary as the
// preferred backend.
func NewGrammarFallback(primary grammar.Provider, cfg FallbackConfig) *GrammarFallback {
	return &GrammarFallback{
		group: NewFallbackGroup(primary, primary.Name(), cfg),
	}
}

// AddFallback registers an additional grammar provider as a fallback.
func (f *GrammarFallback) AddFallback(provider grammar.Provider) {
	f.group.AddFallback(provider.Name(), provider)
}

// CorrectGrammar sends the text to the first healthy provider and returns its
// parsed result. If the primary fails, subsequent fallbacks are tried.
func (f *GrammarFallback) CorrectGrammar(ctx context.Context, text string) (*correction.Result, error) {
	return ExecuteWithResult(f.group, func(p grammar.Provider) (*correction.Result, error) {
		return p.CorrectGrammar(ctx, text)
	})
}

// EnhanceStyle sends the text to the first healthy provider.
func (f *GrammarFallback) EnhanceStyle(ctx context.Context, text string) (string, error) {
	return ExecuteWithResult(f.group, func(p grammar.Provider) (string, error) {
		return p.EnhanceStyle(ctx, text)
	})
}

// Name reports the primary's name. Static metadata, no failover involved.
func (f *GrammarFallback) Name() string {
	if len(f.group.entries) > 0 {
		return f.group.entries[0].value.Name()
	}
	return "none"
}
