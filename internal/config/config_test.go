package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points config lookup at an empty directory and clears provider
// discovery variables.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"AYURAI_USER", "AYURAI_DB", "AYURAI_LLM_PROVIDER", "AYURAI_LLM_GEMINI_API_KEY",
		"AYURAI_LLM_OPENROUTER_API_KEY", "AYURAI_LLM_OPENROUTER_BASE_URL",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultUser, cfg.UserID)
	assert.Equal(t, "Integrated", cfg.GuidanceMode)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "", cfg.LLM.Provider)
	assert.False(t, cfg.LLMConfigured())
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 64, cfg.Narrative.CacheSize)
	assert.Empty(t, cfg.File)
}

func TestLoad_File(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "ayurai.yaml")
	data := `
user: asha
guidance_mode: Traditional
log:
  level: debug
  file: stderr
llm:
  provider: openai
  timeout: 15s
  openai:
    api_key: sk-file
    model: gpt-4.1-mini
narrative:
  cache_size: 8
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "asha", cfg.UserID)
	assert.Equal(t, "Traditional", cfg.GuidanceMode)
	assert.Equal(t, "stderr", cfg.Log.File)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-file", cfg.LLM.Providers["openai"].APIKey)
	assert.Equal(t, "gpt-4.1-mini", cfg.LLM.Providers["openai"].Model)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 8, cfg.Narrative.CacheSize)
	assert.True(t, cfg.LLMConfigured())
	assert.Equal(t, path, cfg.File)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user: fromfile\n"), 0o644))
	t.Setenv("AYURAI_USER", "fromenv")
	t.Setenv("AYURAI_LLM_PROVIDER", "gemini")
	t.Setenv("AYURAI_LLM_GEMINI_API_KEY", "g-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fromenv", cfg.UserID)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "g-env", cfg.LLM.Providers["gemini"].APIKey)
	assert.Equal(t, "gemini-flash", cfg.LLM.Providers["gemini"].Model)
}

func TestLoad_OpenRouterBaseURL(t *testing.T) {
	isolate(t)
	t.Setenv("AYURAI_LLM_PROVIDER", "openrouter")
	t.Setenv("AYURAI_LLM_OPENROUTER_API_KEY", "sk-or")
	t.Setenv("AYURAI_LLM_OPENROUTER_BASE_URL", "http://localhost:8080/v1")

	cfg, err := Load("")
	require.NoError(t, err)

	pc := cfg.LLM.Selected()
	assert.Equal(t, "sk-or", pc.APIKey)
	assert.Equal(t, "google/gemini-2.5-flash", pc.Model)
	assert.Equal(t, "http://localhost:8080/v1", pc.BaseURL)
	assert.True(t, cfg.LLMConfigured())
}

func TestLoad_DiscoversProvider(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-discovered")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-discovered", cfg.LLM.Providers["openai"].APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Providers["openai"].Model)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_ConfigDirFile(t *testing.T) {
	isolate(t)
	dir, err := Dir()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("guidance_mode: Modern\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Modern", cfg.GuidanceMode)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.File)
}
