// Package config loads application settings from an optional YAML file and
// AYURAI_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ayurai/ayurai/internal/llm"
)

// EnvPrefix is prepended to every environment variable, with dots in keys
// replaced by underscores: llm.gemini.api_key → AYURAI_LLM_GEMINI_API_KEY.
const EnvPrefix = "AYURAI"

// DefaultUser is the profile used when no user is configured.
const DefaultUser = "default"

// Config is the resolved application configuration.
type Config struct {
	// DBPath overrides the database location. Empty means the default path.
	DBPath string
	// UserID selects whose data commands operate on.
	UserID string
	// GuidanceMode is the default narrative mode.
	GuidanceMode string
	// BankPath optionally replaces the built-in question bank.
	BankPath string

	Log       LogConfig
	LLM       llm.Config
	Narrative NarrativeConfig

	// File is the config file that was read, if any.
	File string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string
	// File is the log destination. Empty means ayurai.log in the data
	// directory; "stderr" logs to standard error.
	File string
}

// NarrativeConfig tunes narrative generation.
type NarrativeConfig struct {
	CacheSize int
	CacheTTL  time.Duration
	MaxTokens int
}

// Load reads configuration. path selects an explicit config file; when
// empty, config.yaml is looked up in the user config directory and a
// missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		DBPath:       v.GetString("db"),
		UserID:       v.GetString("user"),
		GuidanceMode: v.GetString("guidance_mode"),
		BankPath:     v.GetString("bank"),
		Log: LogConfig{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
		LLM: llm.Config{
			Provider:  v.GetString("llm.provider"),
			Providers: make(map[string]llm.ProviderConfig),
			Retry: llm.RetryConfig{
				MaxAttempts: v.GetInt("llm.retry.max_attempts"),
				InitialWait: v.GetDuration("llm.retry.initial_wait"),
				MaxWait:     v.GetDuration("llm.retry.max_wait"),
				Multiplier:  v.GetFloat64("llm.retry.multiplier"),
			},
			Timeout: v.GetDuration("llm.timeout"),
		},
		Narrative: NarrativeConfig{
			CacheSize: v.GetInt("narrative.cache_size"),
			CacheTTL:  v.GetDuration("narrative.cache_ttl"),
			MaxTokens: v.GetInt("narrative.max_tokens"),
		},
		File: v.ConfigFileUsed(),
	}
	for _, name := range llm.ProviderNames() {
		key := "llm." + name + "."
		cfg.LLM.Providers[name] = llm.ProviderConfig{
			APIKey:  v.GetString(key + "api_key"),
			Model:   v.GetString(key + "model"),
			BaseURL: v.GetString(key + "base_url"),
		}
	}

	// Without an explicit provider, fall back to well-known API key vars.
	if cfg.LLM.Provider == "" {
		if discovered, ok := llm.DiscoverConfig(cfg.LLM); ok {
			cfg.LLM = discovered
		}
	}

	if cfg.UserID == "" {
		cfg.UserID = DefaultUser
	}
	return cfg, nil
}

// LLMConfigured reports whether a provider is selected and has its key.
func (c *Config) LLMConfigured() bool {
	return c.LLM.Provider != "" && c.LLM.HasKey()
}

func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()

	v.SetDefault("user", DefaultUser)
	v.SetDefault("guidance_mode", "Integrated")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", d.Timeout)
	for name, pc := range d.Providers {
		v.SetDefault("llm."+name+".model", pc.Model)
		v.SetDefault("llm."+name+".base_url", pc.BaseURL)
		// Registered so AutomaticEnv resolves it without a config file.
		v.SetDefault("llm."+name+".api_key", "")
	}
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)

	v.SetDefault("narrative.cache_size", 64)
	v.SetDefault("narrative.cache_ttl", 30*time.Minute)
	v.SetDefault("narrative.max_tokens", 2048)

	v.SetDefault("db", "")
	v.SetDefault("bank", "")
}

// Dir resolves the configuration directory:
// 1. $XDG_CONFIG_HOME/ayurai
// 2. ~/.config/ayurai
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "ayurai"), nil
}
