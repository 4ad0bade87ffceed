// Package assessment runs the dual-pass questionnaire and keeps its
// append-only history.
package assessment

import (
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/ayurai/ayurai/internal/dosha"
	"github.com/ayurai/ayurai/internal/store"
)

// Pass identifies which state a questionnaire pass measures.
type Pass string

const (
	// Baseline is the innate constitution (Prakriti).
	Baseline Pass = "Baseline"
	// Current is the present state of balance (Vikriti).
	Current Pass = "Current"
)

// Passes returns both passes in the order they are administered.
func Passes() []Pass {
	return []Pass{Baseline, Current}
}

// Framing returns the instruction shown above every question of the pass.
func (p Pass) Framing() string {
	switch p {
	case Baseline:
		return "Answer for how you have always been, since childhood."
	case Current:
		return "Answer for how you feel right now, over the last few weeks."
	default:
		return ""
	}
}

// Term returns the traditional name of what the pass measures.
func (p Pass) Term() string {
	if p == Current {
		return "Vikriti"
	}
	return "Prakriti"
}

// Record is one scored pass. Records are appended to history and never
// modified.
type Record struct {
	ID        string
	UserID    string
	Sequence  int64
	Timestamp time.Time
	Type      Pass
	Scores    dosha.Tally
	Answers   map[string]dosha.Dosha
	Dominant  dosha.Dosha
}

// NewRecord scores answers and wraps the result as a record of type pass.
// The answer map is copied.
func NewRecord(userID string, pass Pass, answers map[string]dosha.Dosha, now time.Time) Record {
	res := dosha.Score(answers)
	return Record{
		ID:        uuid.NewString(),
		UserID:    userID,
		Timestamp: now,
		Type:      pass,
		Scores:    res.Tally,
		Answers:   maps.Clone(answers),
		Dominant:  res.Dominant,
	}
}

// Result returns the record's tally and dominant category.
func (r Record) Result() dosha.Result {
	return dosha.Result{Tally: r.Scores, Dominant: r.Dominant}
}

func (r Record) data() *store.AssessmentData {
	return &store.AssessmentData{
		ID:        r.ID,
		UserID:    r.UserID,
		Timestamp: r.Timestamp,
		Pass:      string(r.Type),
		Scores:    r.Scores,
		Dominant:  r.Dominant,
		Answers:   r.Answers,
	}
}

func recordFromData(d store.AssessmentData) Record {
	answers := d.Answers
	if answers == nil {
		answers = map[string]dosha.Dosha{}
	}
	return Record{
		ID:        d.ID,
		UserID:    d.UserID,
		Sequence:  d.Sequence,
		Timestamp: d.Timestamp,
		Type:      Pass(d.Pass),
		Scores:    d.Scores,
		Answers:   answers,
		Dominant:  d.Dominant,
	}
}
