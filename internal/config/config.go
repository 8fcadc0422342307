// Package config provides the configuration schema, loader, and provider
// registry for the Shuddhi correction service.
package config

import "time"

// LogLevel controls log verbosity for the Shuddhi server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Variant selects the pipeline pass preset.
type Variant string

const (
	// VariantThreeStep runs dictionary → LLM grammar → dictionary.
	VariantThreeStep Variant = "three_step"

	// VariantFourStep appends a final overlap-suppressing dictionary
	// cleanup pass.
	VariantFourStep Variant = "four_step"
)

// IsValid reports whether v is a recognised pipeline variant.
func (v Variant) IsValid() bool {
	return v == VariantThreeStep || v == VariantFourStep
}

// Config is the root configuration structure for Shuddhi.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Provider   ProviderEntry    `yaml:"provider"`
	Fallbacks  []ProviderEntry  `yaml:"fallback_providers"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
}

// ServerConfig holds network and logging settings for the Shuddhi server.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`
}

// ProviderEntry configures one grammar provider backend. The Name field is
// used to look up the constructor in the [Registry].
type ProviderEntry struct {
	// Name selects the registered provider implementation (e.g., "openai",
	// "anthropic", "ollama").
	Name string `yaml:"name"`

	// APIKey is the authentication key for the provider's API if any.
	// Supports ${ENV_VAR} expansion at load time.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider's default API endpoint.
	BaseURL string `yaml:"base_url"`

	// Model selects a specific model within the provider
	// (e.g., "gpt-4o-mini", "claude-sonnet-4-5").
	Model string `yaml:"model"`

	// Timeout is the per-request timeout. Zero means the provider default.
	Timeout time.Duration `yaml:"timeout"`
}

// DictionaryConfig configures the remote substitution table and its cache.
type DictionaryConfig struct {
	// PostgresDSN is the connection string of the dictionary database.
	// Empty means the static fallback list only.
	PostgresDSN string `yaml:"postgres_dsn"`

	// CacheTTL is how long a fetched table snapshot is served before a
	// refetch. Zero means the built-in 5-minute default.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// PipelineConfig selects the pass preset for full correction runs.
type PipelineConfig struct {
	// Variant is "three_step" (default) or "four_step".
	Variant Variant `yaml:"variant"`
}
