// Package deps bundles the services the TUI screens share.
package deps

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ayurai/ayurai/internal/narrative"
	"github.com/ayurai/ayurai/internal/questionbank"
)

// Deps is passed from screen to screen. Narrative may be nil, in which case
// report generation is unavailable.
type Deps struct {
	narrative.Sources

	UserID    string
	Bank      *questionbank.Bank
	Narrative *narrative.Service
	Mode      narrative.Mode
	Logger    *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Clock returns the current time.
func (d *Deps) Clock() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// Log returns the logger, never nil.
func (d *Deps) Log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// NarrativeInput collects the user's data for report generation.
func (d *Deps) NarrativeInput(ctx context.Context) (narrative.Input, error) {
	return d.Collect(ctx, d.UserID, d.Mode, d.Clock())
}

// NarrativeAvailable reports whether reports can be generated.
func (d *Deps) NarrativeAvailable() bool {
	return d.Narrative != nil && d.Narrative.Available()
}
