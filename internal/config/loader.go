package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ValidProviderNames lists known grammar provider names. Used by [Validate]
// to warn about unrecognised names — unknown names still fail later at
// registry lookup, but the warning points at the config line.
var ValidProviderNames = []string{
	"openai", "anthropic", "gemini", "ollama", "deepseek", "mistral",
	"groq", "llamacpp", "llamafile",
}

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader] and
// [Validate]. Environment variables in the file (e.g. ${OPENAI_API_KEY})
// are expanded before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	cfg, err := LoadFromReader(newExpandedReader(data))
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// newExpandedReader returns a reader over data with ${VAR} references
// replaced by their environment values.
func newExpandedReader(data []byte) io.Reader {
	expanded := os.ExpandEnv(string(data))
	return &byteReader{data: []byte(expanded)}
}

type byteReader struct {
	data []byte
	off  int
}

func (r *byteReader) Read(p []byte) (int, error) {
	if r.off >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.off:])
	r.off += n
	return n, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	if cfg.Pipeline.Variant != "" && !cfg.Pipeline.Variant.IsValid() {
		errs = append(errs, fmt.Errorf("pipeline.variant %q is invalid; valid values: three_step, four_step", cfg.Pipeline.Variant))
	}

	if cfg.Provider.Name == "" {
		errs = append(errs, errors.New("provider.name is required"))
	} else {
		validateProviderName("provider", cfg.Provider)
	}
	for i, entry := range cfg.Fallbacks {
		prefix := fmt.Sprintf("fallback_providers[%d]", i)
		if entry.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
			continue
		}
		validateProviderName(prefix, entry)
	}

	if cfg.Dictionary.PostgresDSN == "" {
		slog.Warn("dictionary.postgres_dsn is empty; only the static fallback list will be used")
	}
	if cfg.Dictionary.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("dictionary.cache_ttl %s must not be negative", cfg.Dictionary.CacheTTL))
	}

	return errors.Join(errs...)
}

// validateProviderName warns about provider names not in the known list and
// missing models. Warnings rather than errors: a newer backend name should
// not hard-fail an older binary's config parse.
func validateProviderName(prefix string, entry ProviderEntry) {
	if !slices.Contains(ValidProviderNames, entry.Name) {
		slog.Warn("unrecognised provider name",
			"field", prefix, "name", entry.Name, "known", ValidProviderNames)
	}
	if entry.Model == "" {
		slog.Warn("provider has no model configured; the backend default will be used",
			"field", prefix, "name", entry.Name)
	}
}
