package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shuddhi-ai/shuddhi/internal/config"
	"github.com/shuddhi-ai/shuddhi/pkg/dictionary"
	"github.com/shuddhi-ai/shuddhi/pkg/grammar/mock"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{ListenAddr: "127.0.0.1:0"},
		Provider: config.ProviderEntry{
			Name:  "openai",
			Model: "gpt-4o-mini",
		},
	}
}

func staticSource(entries ...dictionary.Entry) dictionary.Source {
	return dictionary.SourceFunc(func(_ context.Context) ([]dictionary.Entry, error) {
		return entries, nil
	})
}

func TestNew_WithInjectedDoubles(t *testing.T) {
	a, err := New(context.Background(), testConfig(), config.NewRegistry(),
		WithDictionarySource(staticSource(dictionary.Entry{Original: "जाउंगा", Replacement: "जाऊँगा"})),
		WithGrammarProvider(&mock.Provider{}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.server == nil {
		t.Fatal("server not initialised")
	}
}

func TestNew_UnregisteredProviderFails(t *testing.T) {
	_, err := New(context.Background(), testConfig(), config.NewRegistry(),
		WithDictionarySource(staticSource()),
	)
	if err == nil {
		t.Fatal("New succeeded with an empty registry and no injected provider")
	}
}

func TestApp_ServesCorrectEndpoint(t *testing.T) {
	a, err := New(context.Background(), testConfig(), config.NewRegistry(),
		WithDictionarySource(staticSource(dictionary.Entry{Original: "कृप्या", Replacement: "कृपया"})),
		WithGrammarProvider(&mock.Provider{}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	req := httptest.NewRequest("POST", "/v1/correct",
		strings.NewReader(`{"text":"नमस्ते"}`))
	rec := httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestPasses_VariantSelection(t *testing.T) {
	cfg := testConfig()
	a := &App{cfg: cfg}

	if got := len(a.passes()); got != 3 {
		t.Errorf("default passes = %d, want 3", got)
	}

	cfg.Pipeline.Variant = config.VariantFourStep
	if got := len(a.passes()); got != 4 {
		t.Errorf("four_step passes = %d, want 4", got)
	}
}

func TestShutdown_Idempotent(t *testing.T) {
	a, err := New(context.Background(), testConfig(), config.NewRegistry(),
		WithDictionarySource(staticSource()),
		WithGrammarProvider(&mock.Provider{}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.Shutdown(ctx); err != nil {
		t.Fatalf("first Shutdown: %v", err)
	}
	if err := a.Shutdown(ctx); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
}
