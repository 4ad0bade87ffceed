package store

import (
	"context"
	"time"

	"github.com/ayurai/ayurai/internal/dosha"
)

// QueryOpts configures list queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// ProfileData is the persisted form of a user profile.
type ProfileData struct {
	UserID          string
	Name            string
	DOB             string
	BirthPlace      string
	CurrentLocation string
	Prakriti        string
	Scores          dosha.Tally
	LastUpdated     time.Time
}

// ProfileRepo stores one profile per user.
type ProfileRepo interface {
	// Get returns the profile for userID, or nil if none exists.
	Get(ctx context.Context, userID string) (*ProfileData, error)

	// Upsert inserts or replaces the profile.
	Upsert(ctx context.Context, p *ProfileData) error
}

// AssessmentData is one completed questionnaire pass.
type AssessmentData struct {
	ID        string
	UserID    string
	Sequence  int64
	Timestamp time.Time
	Pass      string
	Scores    dosha.Tally
	Dominant  dosha.Dosha
	Answers   map[string]dosha.Dosha
}

// AssessmentRepo is an append-only log of questionnaire results.
type AssessmentRepo interface {
	// Append stores a record, assigning its sequence number.
	Append(ctx context.Context, rec *AssessmentData) error

	// AppendWithProfile appends recs and upserts p in one transaction.
	// Nothing is stored when any write fails. A nil p skips the profile.
	AppendWithProfile(ctx context.Context, recs []*AssessmentData, p *ProfileData) error

	// List returns a user's records oldest first. An empty pass matches all.
	List(ctx context.Context, userID, pass string, opts QueryOpts) ([]AssessmentData, error)
}

// VitalData is one logged measurement.
type VitalData struct {
	ID        string
	UserID    string
	Sequence  int64
	Timestamp time.Time
	Kind      string
	Value     float64
	Secondary *float64
	Notes     string
}

// VitalRepo is an append-only log of measurements.
type VitalRepo interface {
	// Append stores a vital, assigning its sequence number.
	Append(ctx context.Context, v *VitalData) error

	// List returns a user's vitals newest first. An empty kind matches all.
	List(ctx context.Context, userID, kind string, opts QueryOpts) ([]VitalData, error)
}

// PlanItemData is one habit on a user's checklist.
type PlanItemData struct {
	ID          string
	UserID      string
	Category    string
	Title       string
	Description string
	Benefits    string
	Planned     bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// PlanRepo manages a user's habit checklist.
type PlanRepo interface {
	// Add inserts a new item.
	Add(ctx context.Context, item *PlanItemData) error

	// List returns a user's items in creation order.
	List(ctx context.Context, userID string) ([]PlanItemData, error)

	// Get returns one item, or nil if it does not exist.
	Get(ctx context.Context, userID, id string) (*PlanItemData, error)

	// SetCompleted sets or clears the completion time.
	SetCompleted(ctx context.Context, userID, id string, at *time.Time) error

	// SetPlanned sets the planned flag.
	SetPlanned(ctx context.Context, userID, id string, planned bool) error

	// Delete removes an item.
	Delete(ctx context.Context, userID, id string) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM calls grouped by a key (purpose or model).
type LLMUsage struct {
	Key          string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs float64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event by ID, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}

// Report is a saved narrative.
type Report struct {
	ID        int
	UserID    string
	Sequence  int64
	Timestamp time.Time
	Kind      string
	Mode      string
	Content   string
}

// ReportRepo keeps the most recent generated narratives.
type ReportRepo interface {
	// Save stores a report, assigning its sequence number.
	Save(ctx context.Context, r *Report) error

	// Latest returns the newest report of kind for userID, or nil.
	Latest(ctx context.Context, userID, kind string) (*Report, error)

	// Prune deletes all but the keep most recent reports of a user.
	Prune(ctx context.Context, userID string, keep int) error
}
