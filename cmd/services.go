package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayurai/ayurai/internal/assessment"
	"github.com/ayurai/ayurai/internal/habits"
	"github.com/ayurai/ayurai/internal/llm"
	"github.com/ayurai/ayurai/internal/narrative"
	"github.com/ayurai/ayurai/internal/profile"
	"github.com/ayurai/ayurai/internal/questionbank"
	"github.com/ayurai/ayurai/internal/screens/deps"
	"github.com/ayurai/ayurai/internal/store"
	"github.com/ayurai/ayurai/internal/vitals"
)

// services opens the store and wires every domain service for the
// selected user. The caller must Close it.
type services struct {
	*deps.Deps
	store *store.Store
}

func (s *services) Close() error {
	return s.store.Close()
}

// openServices builds the dependency set. When withLLM is set and a
// provider is configured, narrative generation is enabled.
func openServices(cmd *cobra.Command, withLLM bool) (*services, error) {
	mode, err := resolveMode(cmd)
	if err != nil {
		return nil, err
	}
	bank, err := loadBank(cmd)
	if err != nil {
		return nil, err
	}

	st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}

	profiles := profile.NewService(st.ProfileRepo(), logger)
	d := &deps.Deps{
		Sources: narrative.Sources{
			Profiles:    profiles,
			Assessments: assessment.NewService(st.AssessmentRepo(), profiles, logger),
			Vitals:      vitals.NewService(st.VitalRepo(), logger),
			Habits:      habits.NewService(st.PlanRepo(), logger),
		},
		UserID: resolveUser(cmd),
		Bank:   bank,
		Mode:   mode,
		Logger: logger,
	}

	if withLLM {
		provider := newProvider(cmd.Context(), st.EventRepo())
		if provider != nil {
			d.Narrative = narrative.NewService(provider, st.ReportRepo(), narrativeConfig(), logger)
		}
	}

	return &services{Deps: d, store: st}, nil
}

// newProvider returns nil when no LLM is configured or it fails to
// initialize; both cases are reported on stderr.
func newProvider(ctx context.Context, events store.EventRepo) llm.Provider {
	if ctx == nil {
		ctx = context.Background()
	}
	if !cfg.LLMConfigured() {
		fmt.Fprintln(os.Stderr, "LLM provider not configured (set AYURAI_LLM_PROVIDER and an API key).")
		fmt.Fprintln(os.Stderr, "AI features will be unavailable.")
		return nil
	}
	provider, err := llm.NewProvider(ctx, cfg.LLM, events, logger)
	if err != nil {
		logger.Warn("llm provider unavailable", zap.Error(err))
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI features will be unavailable.")
		return nil
	}
	logger.Info("llm provider ready", zap.String("provider", cfg.LLM.Provider), zap.String("model", provider.ModelID()))
	return provider
}

func narrativeConfig() narrative.Config {
	nc := narrative.DefaultConfig()
	if cfg.Narrative.MaxTokens > 0 {
		nc.MaxTokens = cfg.Narrative.MaxTokens
	}
	if cfg.Narrative.CacheSize > 0 {
		nc.CacheSize = cfg.Narrative.CacheSize
	}
	if cfg.Narrative.CacheTTL > 0 {
		nc.CacheTTL = cfg.Narrative.CacheTTL
	}
	return nc
}

// loadBank returns the --bank file, the configured bank file, or the
// built-in bank.
func loadBank(cmd *cobra.Command) (*questionbank.Bank, error) {
	path, _ := cmd.Flags().GetString("bank")
	if path == "" {
		path = cfg.BankPath
	}
	if path == "" {
		return questionbank.Default(), nil
	}
	b, err := questionbank.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	logger.Info("custom question bank loaded", zap.String("path", path), zap.Int("questions", b.Len()))
	return b, nil
}

// resolveMode returns the --mode flag, falling back to the configured mode.
func resolveMode(cmd *cobra.Command) (narrative.Mode, error) {
	m, _ := cmd.Flags().GetString("mode")
	if m == "" {
		m = cfg.GuidanceMode
	}
	return narrative.ParseMode(m)
}
