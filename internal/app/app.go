// Package app wires all Shuddhi subsystems into a running HTTP service.
//
// The App struct owns the full lifecycle: New creates and connects all
// subsystems, Run serves HTTP until the context is cancelled, and Shutdown
// tears everything down in order.
//
// For testing, inject doubles via functional options (WithDictionarySource,
// WithGrammarProvider). When an option is not provided, New creates real
// implementations from the config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/shuddhi-ai/shuddhi/internal/config"
	"github.com/shuddhi-ai/shuddhi/internal/health"
	"github.com/shuddhi-ai/shuddhi/internal/httpapi"
	"github.com/shuddhi-ai/shuddhi/internal/observe"
	"github.com/shuddhi-ai/shuddhi/internal/resilience"
	"github.com/shuddhi-ai/shuddhi/pkg/dictionary"
	dictpg "github.com/shuddhi-ai/shuddhi/pkg/dictionary/postgres"
	"github.com/shuddhi-ai/shuddhi/pkg/grammar"
	"github.com/shuddhi-ai/shuddhi/pkg/pipeline"
	"github.com/shuddhi-ai/shuddhi/pkg/suggest"
)

// App owns all subsystem lifetimes of the Shuddhi correction service.
type App struct {
	cfg *config.Config
	reg *config.Registry

	// Subsystems — initialised in New, torn down in Shutdown.
	store    *dictpg.Store
	dict     *dictionary.Provider
	provider grammar.Provider
	metrics  *observe.Metrics
	server   *http.Server

	// Injected test doubles.
	dictSource dictionary.Source

	// closers are called in order during Shutdown.
	closers []func() error

	// stopOnce guards the Shutdown path.
	stopOnce sync.Once
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*App)

// WithDictionarySource injects a dictionary source instead of connecting to
// PostgreSQL.
func WithDictionarySource(s dictionary.Source) Option {
	return func(a *App) { a.dictSource = s }
}

// WithGrammarProvider injects a grammar provider instead of creating one via
// the registry.
func WithGrammarProvider(p grammar.Provider) Option {
	return func(a *App) { a.provider = p }
}

// WithMetrics injects a metrics instance instead of the package default.
func WithMetrics(m *observe.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// ─── New ─────────────────────────────────────────────────────────────────────

// New creates an App by wiring all subsystems together: the dictionary store
// and provider, the grammar provider chain (primary plus circuit-broken
// fallbacks), the suggestion service, and the HTTP server.
func New(ctx context.Context, cfg *config.Config, reg *config.Registry, opts ...Option) (*App, error) {
	a := &App{
		cfg: cfg,
		reg: reg,
	}
	for _, o := range opts {
		o(a)
	}
	if a.metrics == nil {
		a.metrics = observe.DefaultMetrics()
	}

	// ── 1. Dictionary ────────────────────────────────────────────────────
	if err := a.initDictionary(ctx); err != nil {
		return nil, fmt.Errorf("app: init dictionary: %w", err)
	}

	// ── 2. Grammar provider chain ────────────────────────────────────────
	if err := a.initProvider(); err != nil {
		return nil, fmt.Errorf("app: init provider: %w", err)
	}

	// ── 3. HTTP server ───────────────────────────────────────────────────
	a.initServer(ctx)

	return a, nil
}

// ─── Init helpers ────────────────────────────────────────────────────────────

// initDictionary connects the PostgreSQL store (unless a source was injected
// or no DSN is configured) and builds the caching provider over it.
func (a *App) initDictionary(ctx context.Context) error {
	source := a.dictSource
	if source == nil && a.cfg.Dictionary.PostgresDSN != "" {
		store, err := dictpg.NewStore(ctx, a.cfg.Dictionary.PostgresDSN)
		if err != nil {
			return err
		}
		a.store = store
		source = store
		a.closers = append(a.closers, func() error {
			store.Close()
			return nil
		})
	}
	if source == nil {
		slog.Warn("no dictionary source configured, serving the static fallback list")
	}

	provOpts := []dictionary.ProviderOption{
		dictionary.WithFallbackNotify(func() {
			a.metrics.RecordDictionaryFallback(context.Background())
		}),
	}
	if a.cfg.Dictionary.CacheTTL > 0 {
		provOpts = append(provOpts, dictionary.WithTTL(a.cfg.Dictionary.CacheTTL))
	}
	a.dict = dictionary.NewProvider(source, provOpts...)
	return nil
}

// initProvider builds the grammar provider chain from the config: the primary
// plus any fallbacks, each behind its own circuit breaker.
func (a *App) initProvider() error {
	if a.provider != nil {
		return nil // injected
	}

	created, err := a.reg.CreateGrammar(a.cfg.Provider)
	if err != nil {
		return fmt.Errorf("create provider %q: %w", a.cfg.Provider.Name, err)
	}
	slog.Info("grammar provider created", "name", a.cfg.Provider.Name, "model", a.cfg.Provider.Model)

	// Each backend is instrumented individually so request and error counts
	// are attributed to the backend that served the call, not to the chain.
	primary := observe.InstrumentGrammar(created, a.metrics)

	if len(a.cfg.Fallbacks) == 0 {
		a.provider = primary
		return nil
	}

	chain := resilience.NewGrammarFallback(primary, resilience.FallbackConfig{})
	for _, entry := range a.cfg.Fallbacks {
		p, err := a.reg.CreateGrammar(entry)
		if err != nil {
			return fmt.Errorf("create fallback provider %q: %w", entry.Name, err)
		}
		chain.AddFallback(observe.InstrumentGrammar(p, a.metrics))
		slog.Info("fallback provider created", "name", entry.Name, "model", entry.Model)
	}
	a.provider = chain
	return nil
}

// initServer assembles the HTTP API over the wired subsystems.
func (a *App) initServer(ctx context.Context) {
	suggester := suggest.NewFromEntries(a.dict.Entries(ctx))

	var storePinger health.Pinger
	if a.store != nil {
		storePinger = a.store
	}
	healthHandler := health.New(
		health.DictionaryChecker(storePinger),
		health.ProviderChecker(a.provider),
	)

	api := httpapi.NewServer(httpapi.Config{
		Dict:      a.dict,
		Provider:  a.provider,
		Passes:    a.passes(),
		Suggester: suggester,
		Metrics:   a.metrics,
		Health:    healthHandler,
	})

	addr := a.cfg.Server.ListenAddr
	if addr == "" {
		addr = ":8080"
	}
	a.server = &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// passes maps the configured variant to a pass list.
func (a *App) passes() []pipeline.Pass {
	if a.cfg.Pipeline.Variant == config.VariantFourStep {
		return pipeline.FourStepPasses()
	}
	return pipeline.ThreeStepPasses()
}

// ─── Run ─────────────────────────────────────────────────────────────────────

// Run serves HTTP and blocks until ctx is cancelled or the listener fails.
// On cancellation it returns ctx.Err; callers follow with Shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("app: serve: %w", err)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ─── Shutdown ────────────────────────────────────────────────────────────────

// Shutdown drains the HTTP server, then tears down all subsystems in order.
// It respects the context deadline: if ctx expires before all closers finish,
// remaining closers are skipped and the context error is returned.
func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error
	a.stopOnce.Do(func() {
		slog.Info("shutting down", "closers", len(a.closers))

		if a.server != nil {
			if err := a.server.Shutdown(ctx); err != nil {
				slog.Warn("http server shutdown error", "err", err)
			}
		}

		for i, closer := range a.closers {
			select {
			case <-ctx.Done():
				slog.Warn("shutdown deadline exceeded", "remaining", len(a.closers)-i)
				shutdownErr = ctx.Err()
				return
			default:
			}
			if err := closer(); err != nil {
				slog.Warn("closer error", "index", i, "err", err)
			}
		}

		slog.Info("shutdown complete")
	})
	return shutdownErr
}
