// Package depstest builds screen dependencies over a temporary store.
package depstest

import (
	"path/filepath"
	"testing"
	"time"

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

// UserID is the user every test dependency set acts for.
const UserID = "tester"

// Now is the fixed clock of test dependencies.
var Now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// New opens a store in t.TempDir and wires every service over it. provider
// may be nil to leave narratives unavailable.
func New(t testing.TB, provider llm.Provider) (*deps.Deps, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "screens.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	profiles := profile.NewService(st.ProfileRepo(), nil)
	d := &deps.Deps{
		Sources: narrative.Sources{
			Profiles:    profiles,
			Assessments: assessment.NewService(st.AssessmentRepo(), profiles, nil),
			Vitals:      vitals.NewService(st.VitalRepo(), nil),
			Habits:      habits.NewService(st.PlanRepo(), nil),
		},
		UserID: UserID,
		Bank:   questionbank.Default(),
		Mode:   narrative.DefaultMode,
		Now:    func() time.Time { return Now },
	}
	if provider != nil {
		d.Narrative = narrative.NewService(provider, st.ReportRepo(), narrative.DefaultConfig(), nil)
	}
	return d, st
}
