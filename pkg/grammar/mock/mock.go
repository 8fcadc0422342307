// Package mock provides a test double for the grammar.Provider interface.
//
// Use Provider in unit tests to verify what text the pipeline sends to the
// model and to feed controlled corrections without a live backend. All
// fields are safe to set before calling any method; mutating them during a
// concurrent call is the caller's responsibility.
//
// Example:
//
//	p := &mock.Provider{
//	    CorrectResult: &correction.Result{CorrectedText: "मैं कल जाऊँगा"},
//	}
//	res, err := p.CorrectGrammar(ctx, text)
package mock

import (
	"context"
	"sync"

	"github.com/shuddhi-ai/shuddhi/pkg/correction"
	"github.com/shuddhi-ai/shuddhi/pkg/grammar"
)

// CorrectCall records a single invocation of CorrectGrammar.
type CorrectCall struct {
	// Ctx is the context passed to CorrectGrammar.
	Ctx context.Context
	// Text is the input text passed to CorrectGrammar.
	Text string
}

// StyleCall records a single invocation of EnhanceStyle.
type StyleCall struct {
	// Ctx is the context passed to EnhanceStyle.
	Ctx context.Context
	// Text is the input text passed to EnhanceStyle.
	Text string
}

// Provider is a mock implementation of grammar.Provider.
//
// When CorrectResult is nil and CorrectErr is nil, CorrectGrammar echoes its
// input unchanged with no corrections — the "nothing to fix" reply. When
// StyleResult is empty and StyleErr is nil, EnhanceStyle echoes its input.
type Provider struct {
	mu sync.Mutex

	// --- Configurable responses ---

	// CorrectResult is returned by CorrectGrammar when set.
	CorrectResult *correction.Result

	// CorrectErr, if non-nil, is returned as the error from CorrectGrammar.
	CorrectErr error

	// StyleResult is returned by EnhanceStyle when non-empty.
	StyleResult string

	// StyleErr, if non-nil, is returned as the error from EnhanceStyle.
	StyleErr error

	// --- Call records (read after test) ---

	// CorrectCalls records every invocation of CorrectGrammar in order.
	CorrectCalls []CorrectCall

	// StyleCalls records every invocation of EnhanceStyle in order.
	StyleCalls []StyleCall
}

// Compile-time interface check.
var _ grammar.Provider = (*Provider)(nil)

// CorrectGrammar implements grammar.Provider.
func (p *Provider) CorrectGrammar(ctx context.Context, text string) (*correction.Result, error) {
	p.mu.Lock()
	p.CorrectCalls = append(p.CorrectCalls, CorrectCall{Ctx: ctx, Text: text})
	p.mu.Unlock()

	if p.CorrectErr != nil {
		return nil, p.CorrectErr
	}
	if p.CorrectResult == nil {
		return &correction.Result{CorrectedText: text}, nil
	}
	// Copy so a test mutating the returned value cannot corrupt later calls.
	res := &correction.Result{
		CorrectedText: p.CorrectResult.CorrectedText,
		Corrections:   append([]correction.Correction(nil), p.CorrectResult.Corrections...),
	}
	return res, nil
}

// EnhanceStyle implements grammar.Provider.
func (p *Provider) EnhanceStyle(ctx context.Context, text string) (string, error) {
	p.mu.Lock()
	p.StyleCalls = append(p.StyleCalls, StyleCall{Ctx: ctx, Text: text})
	p.mu.Unlock()

	if p.StyleErr != nil {
		return "", p.StyleErr
	}
	if p.StyleResult == "" {
		return text, nil
	}
	return p.StyleResult, nil
}

// Name implements grammar.Provider.
func (p *Provider) Name() string { return "mock" }
