package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shuddhi-ai/shuddhi/pkg/grammar"
)

// ErrProviderNotRegistered is returned by CreateGrammar when no factory has
// been registered under the requested provider name.
var ErrProviderNotRegistered = errors.New("config: provider not registered")

// Registry maps provider names to their constructor functions. It is safe
// for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	grammar map[string]func(ProviderEntry) (grammar.Provider, error)
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{
		grammar: make(map[string]func(ProviderEntry) (grammar.Provider, error)),
	}
}

// RegisterGrammar registers a grammar provider factory under name.
// Subsequent calls with the same name overwrite the previous registration.
func (r *Registry) RegisterGrammar(name string, factory func(ProviderEntry) (grammar.Provider, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grammar[name] = factory
}

// CreateGrammar instantiates a grammar provider using the factory registered
// under entry.Name. Returns [ErrProviderNotRegistered] if no factory has been
// registered for that name.
func (r *Registry) CreateGrammar(entry ProviderEntry) (grammar.Provider, error) {
	r.mu.RLock()
	factory, ok := r.grammar[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: grammar/%q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}
