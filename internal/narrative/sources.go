package narrative

import (
	"context"
	"errors"
	"time"

	"github.com/ayurai/ayurai/internal/assessment"
	"github.com/ayurai/ayurai/internal/habits"
	"github.com/ayurai/ayurai/internal/profile"
	"github.com/ayurai/ayurai/internal/vitals"
)

// Sources loads what a narrative needs to know about one user.
type Sources struct {
	Profiles    *profile.Service
	Assessments *assessment.Service
	Vitals      *vitals.Service
	Habits      *habits.Service
}

// Collect assembles an Input for userID. A missing comparison leaves
// Input.Comparison nil. Nil services are skipped.
func (s Sources) Collect(ctx context.Context, userID string, mode Mode, now time.Time) (Input, error) {
	in := Input{Mode: mode, Now: now}

	if s.Profiles != nil {
		p, err := s.Profiles.Get(ctx, userID)
		if err != nil {
			return in, err
		}
		in.Profile = p
	}

	if s.Assessments != nil {
		cmp, err := s.Assessments.Comparison(ctx, userID)
		switch {
		case err == nil:
			in.Comparison = cmp
		case !errors.Is(err, assessment.ErrNoComparison):
			return in, err
		}
	}

	if s.Vitals != nil {
		latest, err := s.Vitals.LatestAll(ctx, userID)
		if err != nil {
			return in, err
		}
		in.Vitals = latest
	}

	if s.Habits != nil {
		items, err := s.Habits.List(ctx, userID)
		if err != nil {
			return in, err
		}
		in.Plan = items
	}
	return in, nil
}
