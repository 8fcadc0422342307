package health

import (
	"context"
	"fmt"
)

// Pinger is anything with a Ping method, such as the dictionary's postgres
// store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DictionaryChecker probes the dictionary database. A nil store (service
// running on the static fallback list only) always reports healthy.
func DictionaryChecker(store Pinger) Checker {
	return Checker{
		Name: "dictionary",
		Check: func(ctx context.Context) error {
			if store == nil {
				return nil
			}
			if err := store.Ping(ctx); err != nil {
				return fmt.Errorf("ping dictionary store: %w", err)
			}
			return nil
		},
	}
}

// Named is anything that reports a name, such as a grammar provider.
type Named interface {
	Name() string
}

// ProviderChecker reports whether a grammar provider is configured. It does
// not issue a live API call — burning provider quota on every readiness probe
// is not acceptable.
func ProviderChecker(p Named) Checker {
	return Checker{
		Name: "provider",
		Check: func(ctx context.Context) error {
			if p == nil {
				return fmt.Errorf("no grammar provider configured")
			}
			return nil
		},
	}
}
