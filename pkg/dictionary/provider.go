package dictionary

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// defaultTTL is how long a successful remote fetch stays cached.
const defaultTTL = 5 * time.Minute

// Source is the remote dictionary table. Implementations return the active
// entries in insertion order.
type Source interface {
	// ActiveEntries returns all active substitution pairs, ordered by
	// insertion. An error or an empty result makes the provider fall back
	// to its static list.
	ActiveEntries(ctx context.Context) ([]Entry, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(ctx context.Context) ([]Entry, error)

// ActiveEntries implements Source.
func (f SourceFunc) ActiveEntries(ctx context.Context) ([]Entry, error) { return f(ctx) }

// Provider serves the substitution table to correction passes. It keeps a
// single in-process snapshot with a fixed TTL, refreshes it from the remote
// Source when stale, and degrades to the static fallback list when the
// remote is unreachable or empty — it never returns an error to callers
// performing corrections.
//
// Provider is safe for concurrent use. Concurrent refreshes are coalesced
// into one remote fetch via singleflight; the last successful fetch simply
// overwrites the snapshot.
type Provider struct {
	source     Source
	ttl        time.Duration
	fallback   []Entry
	now        func() time.Time
	onFallback func()

	group singleflight.Group

	mu        sync.RWMutex
	entries   []Entry
	fetchedAt time.Time
}

// ProviderOption is a functional option for configuring a Provider.
type ProviderOption func(*Provider)

// WithTTL overrides the default 5-minute cache TTL.
func WithTTL(d time.Duration) ProviderOption {
	return func(p *Provider) { p.ttl = d }
}

// WithFallback replaces the static fallback list. The default is
// [FallbackEntries].
func WithFallback(entries []Entry) ProviderOption {
	return func(p *Provider) { p.fallback = entries }
}

// WithClock replaces the time source. Tests use this to expire the cache
// without sleeping.
func WithClock(now func() time.Time) ProviderOption {
	return func(p *Provider) { p.now = now }
}

// WithFallbackNotify registers a hook invoked whenever a call degrades to the
// static fallback list because the remote source failed or returned nothing.
// Used for metrics; must not block.
func WithFallbackNotify(fn func()) ProviderOption {
	return func(p *Provider) { p.onFallback = fn }
}

// NewProvider creates a Provider reading from source. A nil source is valid
// and makes every call serve the fallback list.
func NewProvider(source Source, opts ...ProviderOption) *Provider {
	p := &Provider{
		source:   source,
		ttl:      defaultTTL,
		fallback: FallbackEntries(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Entries returns the current substitution table, de-duplicated by Original
// (last write wins). The cached snapshot is served while younger than the
// TTL; otherwise the remote source is fetched and, on success with at least
// one entry, cached with the fetch timestamp. Fetch failures and empty
// results are logged and degrade to the fallback list without caching it, so
// the next call retries the remote.
//
// The returned slice is a copy; callers may modify it freely.
func (p *Provider) Entries(ctx context.Context) []Entry {
	p.mu.RLock()
	if p.entries != nil && p.now().Sub(p.fetchedAt) < p.ttl {
		snapshot := p.entries
		p.mu.RUnlock()
		return copyEntries(snapshot)
	}
	p.mu.RUnlock()

	if p.source == nil {
		return Dedupe(copyEntries(p.fallback))
	}

	// Coalesce concurrent refreshes into a single remote fetch. The shared
	// key is fine: there is exactly one table per provider.
	v, err, _ := p.group.Do("dictionary", func() (any, error) {
		entries, err := p.source.ActiveEntries(ctx)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			slog.Warn("dictionary source returned no entries, using fallback")
			return nil, nil
		}
		entries = Dedupe(entries)
		p.mu.Lock()
		p.entries = entries
		p.fetchedAt = p.now()
		p.mu.Unlock()
		return entries, nil
	})
	if err != nil {
		slog.Warn("dictionary fetch failed, using fallback", "err", err)
		p.notifyFallback()
		return Dedupe(copyEntries(p.fallback))
	}
	if v == nil {
		p.notifyFallback()
		return Dedupe(copyEntries(p.fallback))
	}
	return copyEntries(v.([]Entry))
}

// ClearCache discards the cached snapshot so the next Entries call refetches
// from the remote source.
func (p *Provider) ClearCache() {
	p.mu.Lock()
	p.entries = nil
	p.fetchedAt = time.Time{}
	p.mu.Unlock()
}

func (p *Provider) notifyFallback() {
	if p.onFallback != nil {
		p.onFallback()
	}
}

func copyEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
