package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ayurai/ayurai/internal/store"
)

// NewProvider builds the configured provider. Calls pass through retry,
// then event logging, then the backend, so every attempt is recorded.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, logger *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pc := cfg.Selected()

	var b backend
	switch cfg.Provider {
	case ProviderAnthropic:
		b = newAnthropicBackend(pc)
	case ProviderOpenAI, ProviderOpenRouter:
		b = newOpenAIBackend(pc)
	case ProviderGemini:
		gb, err := newGeminiBackend(ctx, pc)
		if err != nil {
			return nil, err
		}
		b = gb
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}

	base := &client{backend: b, model: ResolveModel(pc.Model)}
	return WithRetry(WithLogging(base, cfg.Provider, events, logger), cfg.Retry, cfg.Timeout), nil
}
