// Package openai provides a grammar provider backed by the OpenAI API.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/shuddhi-ai/shuddhi/pkg/correction"
	"github.com/shuddhi-ai/shuddhi/pkg/grammar"
)

// correctionTemperature keeps correction output near-deterministic; the task
// is transformation, not generation.
const correctionTemperature = 0.2

// Provider implements grammar.Provider using the OpenAI API.
type Provider struct {
	client oai.Client
	model  string
}

// Compile-time interface check.
var _ grammar.Provider = (*Provider)(nil)

// config holds optional configuration for the provider.
type config struct {
	baseURL string
	timeout time.Duration
}

// Option is a functional option for Provider.
type Option func(*config)

// WithBaseURL overrides the default OpenAI API base URL.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// New constructs a new OpenAI grammar Provider.
func New(apiKey string, model string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: apiKey must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("openai: model must not be empty")
	}

	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: cfg.timeout,
		}))
	}

	client := oai.NewClient(reqOpts...)
	return &Provider{client: client, model: model}, nil
}

// CorrectGrammar implements grammar.Provider.
func (p *Provider) CorrectGrammar(ctx context.Context, text string) (*correction.Result, error) {
	content, err := p.complete(ctx, grammar.CorrectionPrompt, text)
	if err != nil {
		return nil, &grammar.ProviderError{Provider: p.Name(), Op: "correct_grammar", Err: err}
	}

	res, err := grammar.ParseResponse(content)
	if err != nil {
		return nil, &grammar.ProviderError{Provider: p.Name(), Op: "correct_grammar", Err: err}
	}
	return res, nil
}

// EnhanceStyle implements grammar.Provider.
func (p *Provider) EnhanceStyle(ctx context.Context, text string) (string, error) {
	content, err := p.complete(ctx, grammar.StylePrompt, text)
	if err != nil {
		return "", &grammar.ProviderError{Provider: p.Name(), Op: "enhance_style", Err: err}
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", &grammar.ProviderError{Provider: p.Name(), Op: "enhance_style", Err: grammar.ErrEmptyResponse}
	}
	return content, nil
}

// Name implements grammar.Provider.
func (p *Provider) Name() string { return "openai" }

// complete performs one chat completion and returns the assistant content.
func (p *Provider) complete(ctx context.Context, systemPrompt, text string) (string, error) {
	params := oai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(systemPrompt),
			oai.UserMessage(text),
		},
		Temperature: param.NewOpt(correctionTemperature),
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
