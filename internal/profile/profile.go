// Package profile holds the user's bio and constitutional nature.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ayurai/ayurai/internal/dosha"
	"github.com/ayurai/ayurai/internal/store"
)

// DateLayout is the format of Bio.DOB.
const DateLayout = "2006-01-02"

var ErrInvalidDOB = errors.New("date of birth must be YYYY-MM-DD and not in the future")

// Bio is the personal information collected before the first assessment.
type Bio struct {
	Name            string
	DOB             string
	BirthPlace      string
	CurrentLocation string
}

// Validate checks the DOB format when one is given. Every field is optional.
func (b Bio) Validate(now time.Time) error {
	if strings.TrimSpace(b.DOB) == "" {
		return nil
	}
	dob, err := time.Parse(DateLayout, strings.TrimSpace(b.DOB))
	if err != nil || dob.After(now) {
		return ErrInvalidDOB
	}
	return nil
}

// Profile is a user's bio plus the prakriti from their latest baseline pass.
type Profile struct {
	UserID         string
	Bio            Bio
	Prakriti       dosha.Dosha
	PrakritiScores dosha.Tally
	LastUpdated    time.Time
}

// Assessed reports whether a baseline result has been recorded.
func (p *Profile) Assessed() bool {
	return p != nil && p.Prakriti.Valid()
}

// Age returns the age in whole years at now, or -1 if DOB is unset or invalid.
func (p *Profile) Age(now time.Time) int {
	dob, err := time.Parse(DateLayout, strings.TrimSpace(p.Bio.DOB))
	if err != nil || dob.After(now) {
		return -1
	}
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

// FromData converts a stored profile.
func FromData(d *store.ProfileData) *Profile {
	if d == nil {
		return nil
	}
	return &Profile{
		UserID: d.UserID,
		Bio: Bio{
			Name:            d.Name,
			DOB:             d.DOB,
			BirthPlace:      d.BirthPlace,
			CurrentLocation: d.CurrentLocation,
		},
		Prakriti:       dosha.Dosha(d.Prakriti),
		PrakritiScores: d.Scores,
		LastUpdated:    d.LastUpdated,
	}
}

// Data converts p to its stored form.
func (p *Profile) Data() *store.ProfileData {
	return &store.ProfileData{
		UserID:          p.UserID,
		Name:            p.Bio.Name,
		DOB:             p.Bio.DOB,
		BirthPlace:      p.Bio.BirthPlace,
		CurrentLocation: p.Bio.CurrentLocation,
		Prakriti:        string(p.Prakriti),
		Scores:          p.PrakritiScores,
		LastUpdated:     p.LastUpdated,
	}
}

// Service reads and writes profiles.
type Service struct {
	repo   store.ProfileRepo
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a profile service. A nil logger discards output.
func NewService(repo store.ProfileRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Get returns the user's profile, or nil if none exists yet.
func (s *Service) Get(ctx context.Context, userID string) (*Profile, error) {
	d, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return FromData(d), nil
}

// Save persists p, stamping LastUpdated.
func (s *Service) Save(ctx context.Context, p *Profile) error {
	p.LastUpdated = s.now()
	if err := s.repo.Upsert(ctx, p.Data()); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	s.logger.Debug("profile saved", zap.String("user", p.UserID), zap.String("prakriti", string(p.Prakriti)))
	return nil
}

// UpdateBio replaces the bio fields that are non-empty in bio, creating the
// profile if needed. The prakriti is left untouched.
func (s *Service) UpdateBio(ctx context.Context, userID string, bio Bio) (*Profile, error) {
	if err := bio.Validate(s.now()); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &Profile{UserID: userID}
	}
	merge(&p.Bio.Name, bio.Name)
	merge(&p.Bio.DOB, bio.DOB)
	merge(&p.Bio.BirthPlace, bio.BirthPlace)
	merge(&p.Bio.CurrentLocation, bio.CurrentLocation)

	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func merge(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
