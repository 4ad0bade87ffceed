package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ayurai/ayurai/internal/assessment"
	"github.com/ayurai/ayurai/internal/habits"
	"github.com/ayurai/ayurai/internal/llm"
	"github.com/ayurai/ayurai/internal/store"
)

var (
	// ErrUnavailable is returned when no LLM provider is configured.
	ErrUnavailable = errors.New("AI guidance is unavailable: no LLM provider configured")
	// ErrNotAssessed is returned when the profile has no baseline result.
	ErrNotAssessed = errors.New("complete an assessment first (run: ayurai assess)")
	// ErrEmptyResponse is returned when the model produced no usable text.
	ErrEmptyResponse = errors.New("the model returned an empty response")
)

const (
	maxSuggestions = 3
	maxPlanItems   = 6
)

// Config tunes generation.
type Config struct {
	MaxTokens   int
	Temperature float64
	CacheSize   int
	CacheTTL    time.Duration
	// KeepReports is how many saved reports are retained per user.
	KeepReports int
}

// DefaultConfig returns the default generation settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   2048,
		Temperature: 0.7,
		CacheSize:   defaultCacheSize,
		CacheTTL:    defaultCacheTTL,
		KeepReports: 10,
	}
}

// Service generates narratives through an LLM provider.
type Service struct {
	provider llm.Provider
	reports  store.ReportRepo
	cache    *responseCache
	cfg      Config
	logger   *zap.Logger
}

// NewService creates a narrative service. provider may be nil, in which case
// every generation returns ErrUnavailable. reports may be nil to skip saving.
func NewService(provider llm.Provider, reports store.ReportRepo, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		provider: provider,
		reports:  reports,
		cache:    newResponseCache(cfg.CacheSize, cfg.CacheTTL),
		cfg:      cfg,
		logger:   logger,
	}
}

// Available reports whether a provider is configured.
func (s *Service) Available() bool {
	return s.provider != nil
}

// PrakritiReport describes the user's baseline constitution in Markdown.
func (s *Service) PrakritiReport(ctx context.Context, in Input) (string, error) {
	if err := requireAssessed(in); err != nil {
		return "", err
	}
	mode := in.mode()
	req := llm.Request{
		System:      systemPrompt(mode, prakritiTask),
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildPrakritiMessage(in)}},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}
	text, fresh, err := s.generateText(ctx, PurposePrakriti, req, nil)
	if err != nil {
		return "", fmt.Errorf("prakriti report: %w", err)
	}
	if fresh {
		s.save(ctx, in.Profile.UserID, KindPrakriti, mode, text)
	}
	return text, nil
}

// ComparativeAnalysis explains how the current state differs from the
// baseline. It requires in.Comparison.
func (s *Service) ComparativeAnalysis(ctx context.Context, in Input) (string, error) {
	if err := requireAssessed(in); err != nil {
		return "", err
	}
	if in.Comparison == nil {
		return "", assessment.ErrNoComparison
	}
	mode := in.mode()
	req := llm.Request{
		System:      systemPrompt(mode, comparativeTask),
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildComparativeMessage(in)}},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}
	text, fresh, err := s.generateText(ctx, PurposeComparative, req, nil)
	if err != nil {
		return "", fmt.Errorf("comparative analysis: %w", err)
	}
	if fresh {
		s.save(ctx, in.Profile.UserID, KindComparative, mode, text)
	}
	return text, nil
}

// FullReport generates the prakriti report and, when a comparison exists,
// the comparative analysis concurrently. Only a prakriti failure fails the
// whole report.
func (s *Service) FullReport(ctx context.Context, in Input) (*Report, error) {
	rep := &Report{Mode: in.mode()}

	var g errgroup.Group
	g.Go(func() error {
		text, err := s.PrakritiReport(ctx, in)
		if err != nil {
			return err
		}
		rep.Prakriti = text
		return nil
	})
	if in.Comparison != nil {
		g.Go(func() error {
			rep.Comparative, rep.ComparativeErr = s.ComparativeAnalysis(ctx, in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rep, nil
}

// QuickSuggestions returns up to three short suggestions for today.
func (s *Service) QuickSuggestions(ctx context.Context, in Input) ([]string, error) {
	if err := requireAssessed(in); err != nil {
		return nil, err
	}
	req := llm.Request{
		System:      systemPrompt(in.mode(), suggestionsTask),
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildSuggestionsMessage(in)}},
		Schema:      SuggestionsSchema,
		MaxTokens:   512,
		Temperature: s.cfg.Temperature,
	}
	var (
		out  suggestionsOutput
		tips []string
	)
	err := s.generateJSON(ctx, PurposeSuggestions, req, &out, func() error {
		tips = tips[:0]
		for _, t := range out.Suggestions {
			if t = strings.TrimSpace(t); t != "" {
				tips = append(tips, t)
			}
			if len(tips) == maxSuggestions {
				break
			}
		}
		if len(tips) == 0 {
			return ErrEmptyResponse
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("suggestions: %w", err)
	}
	return tips, nil
}

// SuggestPlan proposes habit items. Categories outside the closed set map
// to Routine. Returned items are not persisted.
func (s *Service) SuggestPlan(ctx context.Context, in Input) ([]habits.Item, error) {
	if err := requireAssessed(in); err != nil {
		return nil, err
	}
	req := llm.Request{
		System:      systemPrompt(in.mode(), planTask),
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildPlanMessage(in)}},
		Schema:      PlanSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}
	var (
		out   planOutput
		items []habits.Item
	)
	err := s.generateJSON(ctx, PurposePlan, req, &out, func() error {
		items = items[:0]
		for _, o := range out.Items {
			title := strings.TrimSpace(o.Title)
			if title == "" {
				continue
			}
			items = append(items, habits.Item{
				Category:    habits.ParseCategory(o.Category),
				Title:       title,
				Description: strings.TrimSpace(o.Description),
				Benefits:    strings.TrimSpace(o.Benefits),
			})
			if len(items) == maxPlanItems {
				break
			}
		}
		if len(items) == 0 {
			return ErrEmptyResponse
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("plan suggestions: %w", err)
	}
	return items, nil
}

// Chat answers message given the prior conversation. Replies are never
// cached.
func (s *Service) Chat(ctx context.Context, in Input, history []Turn, message string) (string, error) {
	if s.provider == nil {
		return "", ErrUnavailable
	}
	if in.Profile == nil {
		return "", ErrNotAssessed
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("message must not be empty")
	}

	msgs := make([]llm.Message, 0, len(history)+1)
	for _, t := range history {
		msgs = append(msgs, llm.Message{Role: t.Role, Content: t.Content})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: message})

	req := llm.Request{
		System:      systemPrompt(in.mode(), chatTask) + "\n\n" + buildChatContext(in),
		Messages:    msgs,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}
	resp, err := s.provider.Generate(llm.WithPurpose(ctx, PurposeChat), req)
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("chat: %w", ErrEmptyResponse)
	}
	return text, nil
}

// LastReport returns the newest saved report of kind, or nil.
func (s *Service) LastReport(ctx context.Context, userID, kind string) (*store.Report, error) {
	if s.reports == nil {
		return nil, nil
	}
	return s.reports.Latest(ctx, userID, kind)
}

// ClearCache drops every cached response so the next call regenerates.
func (s *Service) ClearCache() {
	s.cache.purge()
}

// generateText returns cached text when available. accept, when non-nil,
// checks every result; fresh text is cached only once it passes. fresh
// reports whether the text was just generated.
func (s *Service) generateText(ctx context.Context, purpose string, req llm.Request, accept func(string) error) (text string, fresh bool, err error) {
	if s.provider == nil {
		return "", false, ErrUnavailable
	}
	key := cacheKey(purpose, req)
	if cached, ok := s.cache.get(key); ok {
		if accept == nil || accept(cached) == nil {
			s.logger.Debug("narrative cache hit", zap.String("purpose", purpose))
			return cached, false, nil
		}
		s.cache.remove(key)
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, purpose), req)
	if err != nil {
		return "", false, err
	}
	text = resp.Text()
	if text == "" {
		return "", false, ErrEmptyResponse
	}
	if accept != nil {
		if err := accept(text); err != nil {
			return "", false, err
		}
	}
	s.cache.put(key, text)
	return text, true, nil
}

// generateJSON decodes the response into out and runs check on it. A
// response that fails to decode or check is not cached.
func (s *Service) generateJSON(ctx context.Context, purpose string, req llm.Request, out any, check func() error) error {
	_, _, err := s.generateText(ctx, purpose, req, func(raw string) error {
		if err := json.Unmarshal([]byte(raw), out); err != nil {
			return fmt.Errorf("parse %s response: %w", purpose, err)
		}
		return check()
	})
	return err
}

// save stores a generated report. Failures are logged, not returned.
func (s *Service) save(ctx context.Context, userID, kind string, mode Mode, content string) {
	if s.reports == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	err := s.reports.Save(ctx, &store.Report{
		UserID:  userID,
		Kind:    kind,
		Mode:    string(mode),
		Content: content,
	})
	if err == nil && s.cfg.KeepReports > 0 {
		err = s.reports.Prune(ctx, userID, s.cfg.KeepReports)
	}
	if err != nil {
		s.logger.Warn("failed to save report", zap.String("kind", kind), zap.Error(err))
	}
}

func requireAssessed(in Input) error {
	if !in.Profile.Assessed() {
		return ErrNotAssessed
	}
	return nil
}

func (in Input) mode() Mode {
	if in.Mode == "" {
		return DefaultMode
	}
	return in.Mode
}
