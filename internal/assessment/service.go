package assessment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ayurai/ayurai/internal/dosha"
	"github.com/ayurai/ayurai/internal/profile"
	"github.com/ayurai/ayurai/internal/store"
)

var ErrNoComparison = errors.New("a baseline and a current assessment are both required")

// Comparison pairs the user's first baseline with their latest current
// record.
type Comparison struct {
	Baseline Record
	Current  Record
	Delta    dosha.Tally
}

// Service persists completed sessions and reads assessment history.
type Service struct {
	records  store.AssessmentRepo
	profiles *profile.Service
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates an assessment service. A nil logger discards output.
func NewService(records store.AssessmentRepo, profiles *profile.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		records:  records,
		profiles: profiles,
		logger:   logger,
		now:      time.Now,
	}
}

// Complete appends both records to the user's history and sets the profile
// prakriti from the baseline result, all in one transaction. bio is used
// only when the user has no profile yet.
func (s *Service) Complete(ctx context.Context, userID string, bio profile.Bio, baseline, current Record) (*profile.Profile, error) {
	if baseline.Type != Baseline || current.Type != Current {
		return nil, fmt.Errorf("complete: expected baseline and current records, got %s and %s", baseline.Type, current.Type)
	}

	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &profile.Profile{UserID: userID, Bio: bio}
	}

	p.Prakriti = baseline.Dominant
	p.PrakritiScores = baseline.Scores
	p.LastUpdated = s.now()

	baseline.UserID, current.UserID = userID, userID
	bd, cd := baseline.data(), current.data()
	if err := s.records.AppendWithProfile(ctx, []*store.AssessmentData{bd, cd}, p.Data()); err != nil {
		return nil, fmt.Errorf("save assessment: %w", err)
	}

	s.logger.Info("assessment completed",
		zap.String("user", userID),
		zap.String("prakriti", string(baseline.Dominant)),
		zap.String("vikriti", string(current.Dominant)),
		zap.Int("answers", len(baseline.Answers)+len(current.Answers)),
	)
	return p, nil
}

// History returns all records of the user, oldest first.
func (s *Service) History(ctx context.Context, userID string) ([]Record, error) {
	return s.list(ctx, userID, "")
}

// FirstBaseline returns the user's earliest baseline record, or nil.
func (s *Service) FirstBaseline(ctx context.Context, userID string) (*Record, error) {
	recs, err := s.records.List(ctx, userID, string(Baseline), store.QueryOpts{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("load baseline: %w", err)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	r := recordFromData(recs[0])
	return &r, nil
}

// LatestBaseline returns the user's most recent baseline record, or nil.
func (s *Service) LatestBaseline(ctx context.Context, userID string) (*Record, error) {
	return s.latest(ctx, userID, Baseline)
}

// LatestCurrent returns the user's most recent current record, or nil.
func (s *Service) LatestCurrent(ctx context.Context, userID string) (*Record, error) {
	return s.latest(ctx, userID, Current)
}

// Comparison returns the first baseline, the latest current record, and
// their delta. It returns ErrNoComparison when either is missing.
func (s *Service) Comparison(ctx context.Context, userID string) (*Comparison, error) {
	base, err := s.FirstBaseline(ctx, userID)
	if err != nil {
		return nil, err
	}
	cur, err := s.LatestCurrent(ctx, userID)
	if err != nil {
		return nil, err
	}
	if base == nil || cur == nil {
		return nil, ErrNoComparison
	}
	return &Comparison{
		Baseline: *base,
		Current:  *cur,
		Delta:    dosha.Delta(base.Scores, cur.Scores),
	}, nil
}

func (s *Service) latest(ctx context.Context, userID string, pass Pass) (*Record, error) {
	recs, err := s.list(ctx, userID, pass)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	r := recs[len(recs)-1]
	return &r, nil
}

func (s *Service) list(ctx context.Context, userID string, pass Pass) ([]Record, error) {
	data, err := s.records.List(ctx, userID, string(pass), store.QueryOpts{})
	if err != nil {
		return nil, fmt.Errorf("load assessment history: %w", err)
	}
	out := make([]Record, 0, len(data))
	for _, d := range data {
		out = append(out, recordFromData(d))
	}
	return out, nil
}
