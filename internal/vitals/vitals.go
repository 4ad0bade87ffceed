// Package vitals logs manually entered health measurements.
package vitals

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayurai/ayurai/internal/store"
)

// Kind is the type of a measurement.
type Kind string

const (
	BP        Kind = "BP"
	Sugar     Kind = "Sugar"
	HeartRate Kind = "HeartRate"
	Weight    Kind = "Weight"
	Height    Kind = "Height"
)

var (
	ErrUnknownKind         = errors.New("unknown vital kind")
	ErrInvalidValue        = errors.New("vital values must be positive numbers")
	ErrMissingDiastolic    = errors.New("blood pressure needs a diastolic value")
	ErrUnexpectedSecondary = errors.New("only blood pressure takes a second value")
)

// AllKinds returns every kind in display order.
func AllKinds() []Kind {
	return []Kind{BP, Sugar, HeartRate, Weight, Height}
}

// ParseKind matches s case-insensitively against kind names and a few
// common aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bp", "blood-pressure", "bloodpressure":
		return BP, nil
	case "sugar", "glucose":
		return Sugar, nil
	case "heartrate", "heart-rate", "hr", "pulse":
		return HeartRate, nil
	case "weight":
		return Weight, nil
	case "height":
		return Height, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Unit returns the unit values of this kind are recorded in.
func (k Kind) Unit() string {
	switch k {
	case BP:
		return "mmHg"
	case Sugar:
		return "mg/dL"
	case HeartRate:
		return "bpm"
	case Weight:
		return "kg"
	case Height:
		return "cm"
	default:
		return ""
	}
}

// Label returns a human-readable name.
func (k Kind) Label() string {
	switch k {
	case BP:
		return "Blood Pressure"
	case Sugar:
		return "Blood Sugar"
	case HeartRate:
		return "Heart Rate"
	default:
		return string(k)
	}
}

// Vital is one measurement. For BP, Value is systolic and Secondary is
// diastolic.
type Vital struct {
	ID        string
	UserID    string
	Kind      Kind
	Value     float64
	Secondary *float64
	Timestamp time.Time
	Notes     string
}

// New validates and builds a vital.
func New(kind Kind, value float64, secondary *float64, notes string, now time.Time) (Vital, error) {
	if kind.Unit() == "" {
		return Vital{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if !positive(value) {
		return Vital{}, ErrInvalidValue
	}
	switch {
	case kind == BP && secondary == nil:
		return Vital{}, ErrMissingDiastolic
	case kind != BP && secondary != nil:
		return Vital{}, ErrUnexpectedSecondary
	case secondary != nil && !positive(*secondary):
		return Vital{}, ErrInvalidValue
	}

	v := Vital{
		ID:        uuid.NewString(),
		Kind:      kind,
		Value:     value,
		Timestamp: now,
		Notes:     strings.TrimSpace(notes),
	}
	if secondary != nil {
		s := *secondary
		v.Secondary = &s
	}
	return v, nil
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Display formats the reading with its unit, e.g. "120/80 mmHg".
func (v Vital) Display() string {
	if v.Secondary != nil {
		return fmt.Sprintf("%s/%s %s", trim(v.Value), trim(*v.Secondary), v.Kind.Unit())
	}
	return fmt.Sprintf("%s %s", trim(v.Value), v.Kind.Unit())
}

func trim(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", f), "0"), ".")
}

// BMI computes body mass index from weight in kg and height in cm.
// It returns 0 when either input is not positive.
func BMI(weightKg, heightCm float64) float64 {
	if !positive(weightKg) || !positive(heightCm) {
		return 0
	}
	m := heightCm / 100
	return weightKg / (m * m)
}

// Service stores and reads a user's vitals.
type Service struct {
	repo   store.VitalRepo
	logger *zap.Logger
}

// NewService creates a vitals service. A nil logger discards output.
func NewService(repo store.VitalRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Log persists v for userID.
func (s *Service) Log(ctx context.Context, userID string, v Vital) error {
	v.UserID = userID
	d := &store.VitalData{
		ID:        v.ID,
		UserID:    userID,
		Timestamp: v.Timestamp,
		Kind:      string(v.Kind),
		Value:     v.Value,
		Secondary: v.Secondary,
		Notes:     v.Notes,
	}
	if err := s.repo.Append(ctx, d); err != nil {
		return fmt.Errorf("log vital: %w", err)
	}
	s.logger.Debug("vital logged", zap.String("user", userID), zap.String("kind", string(v.Kind)))
	return nil
}

// List returns the user's vitals newest first. An empty kind lists all
// kinds; limit 0 means no limit.
func (s *Service) List(ctx context.Context, userID string, kind Kind, limit int) ([]Vital, error) {
	data, err := s.repo.List(ctx, userID, string(kind), store.QueryOpts{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list vitals: %w", err)
	}
	out := make([]Vital, 0, len(data))
	for _, d := range data {
		out = append(out, Vital{
			ID:        d.ID,
			UserID:    d.UserID,
			Kind:      Kind(d.Kind),
			Value:     d.Value,
			Secondary: d.Secondary,
			Timestamp: d.Timestamp,
			Notes:     d.Notes,
		})
	}
	return out, nil
}

// Latest returns the newest vital of kind, or nil.
func (s *Service) Latest(ctx context.Context, userID string, kind Kind) (*Vital, error) {
	vs, err := s.List(ctx, userID, kind, 1)
	if err != nil {
		return nil, err
	}
	if len(vs) == 0 {
		return nil, nil
	}
	return &vs[0], nil
}

// LatestAll returns the newest vital of each kind that has one, in
// AllKinds order.
func (s *Service) LatestAll(ctx context.Context, userID string) ([]Vital, error) {
	var out []Vital
	for _, k := range AllKinds() {
		v, err := s.Latest(ctx, userID, k)
		if err != nil {
			return nil, err
		}
		if v != nil {
			out = append(out, *v)
		}
	}
	return out, nil
}
