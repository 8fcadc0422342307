package observe

import (
	"context"

	"github.com/shuddhi-ai/shuddhi/pkg/correction"
	"github.com/shuddhi-ai/shuddhi/pkg/grammar"
)

// GrammarProvider decorates a [grammar.Provider] with request and error
// counters. Wrap each concrete backend before registering it with a fallback
// group so calls are attributed to the backend that actually served them.
type GrammarProvider struct {
	next    grammar.Provider
	metrics *Metrics
}

// Compile-time interface check.
var _ grammar.Provider = (*GrammarProvider)(nil)

// InstrumentGrammar wraps next so every call increments
// shuddhi.provider.requests (and shuddhi.provider.errors on failure). A nil
// metrics uses [DefaultMetrics].
func InstrumentGrammar(next grammar.Provider, metrics *Metrics) *GrammarProvider {
	if metrics == nil {
		metrics = DefaultMetrics()
	}
	return &GrammarProvider{next: next, metrics: metrics}
}

// CorrectGrammar implements grammar.Provider.
func (g *GrammarProvider) CorrectGrammar(ctx context.Context, text string) (*correction.Result, error) {
	res, err := g.next.CorrectGrammar(ctx, text)
	g.record(ctx, "correct_grammar", err)
	return res, err
}

// EnhanceStyle implements grammar.Provider.
func (g *GrammarProvider) EnhanceStyle(ctx context.Context, text string) (string, error) {
	out, err := g.next.EnhanceStyle(ctx, text)
	g.record(ctx, "enhance_style", err)
	return out, err
}

// Name implements grammar.Provider.
func (g *GrammarProvider) Name() string { return g.next.Name() }

func (g *GrammarProvider) record(ctx context.Context, op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		g.metrics.RecordProviderError(ctx, g.next.Name(), op)
	}
	g.metrics.RecordProviderRequest(ctx, g.next.Name(), op, status)
}
