package health

import (
	"context"
	"errors"
	"testing"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(_ context.Context) error { return f.err }

func TestDictionaryChecker_HealthyStore(t *testing.T) {
	c := DictionaryChecker(&fakePinger{})
	if c.Name != "dictionary" {
		t.Errorf("name = %q, want %q", c.Name, "dictionary")
	}
	if err := c.Check(context.Background()); err != nil {
		t.Errorf("Check = %v, want nil", err)
	}
}

func TestDictionaryChecker_FailingStore(t *testing.T) {
	cause := errors.New("connection refused")
	c := DictionaryChecker(&fakePinger{err: cause})
	err := c.Check(context.Background())
	if !errors.Is(err, cause) {
		t.Errorf("Check = %v, want wrapped %v", err, cause)
	}
}

func TestDictionaryChecker_NilStoreIsHealthy(t *testing.T) {
	// Fallback-only deployments have no database to probe.
	c := DictionaryChecker(nil)
	if err := c.Check(context.Background()); err != nil {
		t.Errorf("Check = %v, want nil", err)
	}
}

type fakeNamed struct{}

func (fakeNamed) Name() string { return "openai" }

func TestProviderChecker(t *testing.T) {
	c := ProviderChecker(fakeNamed{})
	if c.Name != "provider" {
		t.Errorf("name = %q, want %q", c.Name, "provider")
	}
	if err := c.Check(context.Background()); err != nil {
		t.Errorf("Check = %v, want nil", err)
	}

	if err := ProviderChecker(nil).Check(context.Background()); err == nil {
		t.Error("Check with nil provider = nil, want error")
	}
}
