package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

// providerSpec describes a supported backend. The order of providerSpecs is
// the key discovery order.
type providerSpec struct {
	name    string
	keyEnv  string
	model   string
	baseURL string
}

var providerSpecs = []providerSpec{
	{name: ProviderGemini, keyEnv: "GEMINI_API_KEY", model: "gemini-flash"},
	{name: ProviderOpenAI, keyEnv: "OPENAI_API_KEY", model: "gpt-4o-mini"},
	{name: ProviderAnthropic, keyEnv: "ANTHROPIC_API_KEY", model: "claude-haiku"},
	{name: ProviderOpenRouter, keyEnv: "OPENROUTER_API_KEY", model: "google/gemini-2.5-flash",
		baseURL: "https://openrouter.ai/api/v1"},
}

func lookupSpec(name string) (providerSpec, bool) {
	for _, s := range providerSpecs {
		if s.name == name {
			return s, true
		}
	}
	return providerSpec{}, false
}

// ProviderNames lists the supported providers in discovery order.
func ProviderNames() []string {
	names := make([]string, len(providerSpecs))
	for i, s := range providerSpecs {
		names[i] = s.name
	}
	return names
}

// modelAliases maps short names to concrete model IDs. Unlisted names are
// sent as written.
var modelAliases = map[string]string{
	"claude-haiku":  "claude-haiku-4-5-20251001",
	"claude-sonnet": "claude-sonnet-4-5-20250929",
	"gemini-flash":  "gemini-2.5-flash",
	"gemini-pro":    "gemini-2.5-pro",
}

// ResolveModel expands a model alias.
func ResolveModel(name string) string {
	if id, ok := modelAliases[name]; ok {
		return id
	}
	return name
}

// ProviderConfig holds the credentials and model of one provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional; ignored by gemini
}

// Config selects and configures the narrative model. It is populated by
// the config package from the config file and AYURAI_* variables.
type Config struct {
	// Provider is one of ProviderNames. Empty disables AI features.
	Provider  string
	Providers map[string]ProviderConfig
	Retry     RetryConfig

	// Timeout bounds one Generate call, retries included.
	Timeout time.Duration
}

// RetryConfig configures retries of transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the default models with no provider selected.
func DefaultConfig() Config {
	cfg := Config{
		Providers: make(map[string]ProviderConfig, len(providerSpecs)),
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 60 * time.Second,
	}
	for _, s := range providerSpecs {
		cfg.Providers[s.name] = ProviderConfig{Model: s.model, BaseURL: s.baseURL}
	}
	return cfg
}

// Selected returns the configuration of the chosen provider with defaults
// filled in.
func (c Config) Selected() ProviderConfig {
	pc := c.Providers[c.Provider]
	if spec, ok := lookupSpec(c.Provider); ok {
		if pc.Model == "" {
			pc.Model = spec.model
		}
		if pc.BaseURL == "" {
			pc.BaseURL = spec.baseURL
		}
	}
	return pc
}

// DiscoverConfig selects the first provider whose well-known API key
// variable is set (GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY,
// OPENROUTER_API_KEY). It returns (base, false) when none is.
func DiscoverConfig(base Config) (Config, bool) {
	for _, s := range providerSpecs {
		key := os.Getenv(s.keyEnv)
		if key == "" {
			continue
		}
		cfg := base
		cfg.Providers = make(map[string]ProviderConfig, len(base.Providers)+1)
		for name, pc := range base.Providers {
			cfg.Providers[name] = pc
		}
		pc := cfg.Providers[s.name]
		pc.APIKey = key
		cfg.Providers[s.name] = pc
		cfg.Provider = s.name
		return cfg, true
	}
	return base, false
}

// HasKey reports whether the selected provider is usable.
func (c Config) HasKey() bool {
	return c.Validate() == nil
}

// Validate checks that the selected provider is known and has a key.
func (c Config) Validate() error {
	if _, ok := lookupSpec(c.Provider); !ok {
		return fmt.Errorf("unknown LLM provider %q (want one of %s)", c.Provider, strings.Join(ProviderNames(), ", "))
	}
	if c.Providers[c.Provider].APIKey == "" {
		return fmt.Errorf("AYURAI_LLM_%s_API_KEY is required for the %s provider", strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
