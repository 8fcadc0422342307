// Package anyllm provides a grammar provider backed by
// github.com/mozilla-ai/any-llm-go, a unified multi-provider interface that
// supports OpenAI, Anthropic, Gemini, Ollama, DeepSeek, Mistral, Groq, and
// more.
//
// Usage:
//
//	p, err := anyllm.New("anthropic", "claude-sonnet-4-5", anyllmlib.WithAPIKey("sk-ant-..."))
//	res, err := p.CorrectGrammar(ctx, "मै कल जाउंगा")
package anyllm

import (
	"context"
	"fmt"
	"strings"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/anthropic"
	"github.com/mozilla-ai/any-llm-go/providers/deepseek"
	"github.com/mozilla-ai/any-llm-go/providers/gemini"
	"github.com/mozilla-ai/any-llm-go/providers/groq"
	"github.com/mozilla-ai/any-llm-go/providers/llamacpp"
	"github.com/mozilla-ai/any-llm-go/providers/llamafile"
	"github.com/mozilla-ai/any-llm-go/providers/mistral"
	"github.com/mozilla-ai/any-llm-go/providers/ollama"
	anyllmoai "github.com/mozilla-ai/any-llm-go/providers/openai"

	"github.com/shuddhi-ai/shuddhi/pkg/correction"
	"github.com/shuddhi-ai/shuddhi/pkg/grammar"
)

// correctionTemperature keeps correction output near-deterministic across
// backends.
const correctionTemperature = 0.2

// Provider implements grammar.Provider by wrapping any-llm-go.
type Provider struct {
	backend anyllmlib.Provider
	name    string
	model   string
}

// Compile-time interface check.
var _ grammar.Provider = (*Provider)(nil)

// New creates a Provider backed by the given LLM provider name.
//
// providerName is one of: "openai", "anthropic", "gemini", "ollama",
// "deepseek", "mistral", "groq", "llamacpp", "llamafile".
//
// opts are any-llm-go configuration options (e.g., anyllmlib.WithAPIKey,
// anyllmlib.WithBaseURL). If no API key option is provided, the backend
// falls back to its environment variable (OPENAI_API_KEY,
// ANTHROPIC_API_KEY, …).
func New(providerName string, model string, opts ...anyllmlib.Option) (*Provider, error) {
	if providerName == "" {
		return nil, fmt.Errorf("anyllm: providerName must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("anyllm: model must not be empty")
	}

	backend, err := createBackend(providerName, opts...)
	if err != nil {
		return nil, fmt.Errorf("anyllm: create %q backend: %w", providerName, err)
	}

	return &Provider{backend: backend, name: "anyllm/" + strings.ToLower(providerName), model: model}, nil
}

// createBackend creates the underlying any-llm-go provider for the given name.
func createBackend(providerName string, opts ...anyllmlib.Option) (anyllmlib.Provider, error) {
	switch strings.ToLower(providerName) {
	case "openai":
		return anyllmoai.New(opts...)
	case "anthropic":
		return anthropic.New(opts...)
	case "gemini":
		return gemini.New(opts...)
	case "ollama":
		return ollama.New(opts...)
	case "deepseek":
		return deepseek.New(opts...)
	case "mistral":
		return mistral.New(opts...)
	case "groq":
		return groq.New(opts...)
	case "llamacpp":
		return llamacpp.New(opts...)
	case "llamafile":
		return llamafile.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported provider %q; supported: openai, anthropic, gemini, ollama, deepseek, mistral, groq, llamacpp, llamafile", providerName)
	}
}

// CorrectGrammar implements grammar.Provider.
func (p *Provider) CorrectGrammar(ctx context.Context, text string) (*correction.Result, error) {
	content, err := p.complete(ctx, grammar.CorrectionPrompt, text)
	if err != nil {
		return nil, &grammar.ProviderError{Provider: p.name, Op: "correct_grammar", Err: err}
	}

	res, err := grammar.ParseResponse(content)
	if err != nil {
		return nil, &grammar.ProviderError{Provider: p.name, Op: "correct_grammar", Err: err}
	}
	return res, nil
}

// EnhanceStyle implements grammar.Provider.
func (p *Provider) EnhanceStyle(ctx context.Context, text string) (string, error) {
	content, err := p.complete(ctx, grammar.StylePrompt, text)
	if err != nil {
		return "", &grammar.ProviderError{Provider: p.name, Op: "enhance_style", Err: err}
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", &grammar.ProviderError{Provider: p.name, Op: "enhance_style", Err: grammar.ErrEmptyResponse}
	}
	return content, nil
}

// Name implements grammar.Provider.
func (p *Provider) Name() string { return p.name }

// complete performs one completion and returns the assistant content.
func (p *Provider) complete(ctx context.Context, systemPrompt, text string) (string, error) {
	temp := correctionTemperature
	params := anyllmlib.CompletionParams{
		Model: p.model,
		Messages: []anyllmlib.Message{
			{Role: anyllmlib.RoleSystem, Content: systemPrompt},
			{Role: anyllmlib.RoleUser, Content: text},
		},
		Temperature: &temp,
	}

	resp, err := p.backend.Completion(ctx, params)
	if err != nil {
		return "", fmt.Errorf("completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty choices in response")
	}
	return resp.Choices[0].Message.ContentString(), nil
}
