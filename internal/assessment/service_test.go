package assessment

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayurai/ayurai/internal/dosha"
	"github.com/ayurai/ayurai/internal/profile"
	"github.com/ayurai/ayurai/internal/store"
)

func newTestService(t *testing.T) (*Service, *profile.Service) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "assessment.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	profiles := profile.NewService(st.ProfileRepo(), nil)
	return NewService(st.AssessmentRepo(), profiles, nil), profiles
}

func completeSession(t *testing.T, svc *Service, userID string, base, cur map[string]dosha.Dosha, at time.Time) {
	t.Helper()
	b := NewRecord(userID, Baseline, base, at)
	c := NewRecord(userID, Current, cur, at)
	if _, err := svc.Complete(context.Background(), userID, profile.Bio{Name: "Asha"}, b, c); err != nil {
		t.Fatalf("complete: %v", err)
	}
}

func TestComplete_CreatesProfileAndHistory(t *testing.T) {
	svc, profiles := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	completeSession(t, svc, "u1",
		map[string]dosha.Dosha{"frame": dosha.Vata, "hair": dosha.Vata, "skin": dosha.Pitta},
		map[string]dosha.Dosha{"frame": dosha.Kapha},
		now)

	p, err := profiles.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.Bio.Name != "Asha" || p.Prakriti != dosha.Vata {
		t.Fatalf("profile = %+v", p)
	}
	if p.PrakritiScores != (dosha.Tally{Vata: 2, Pitta: 1}) {
		t.Fatalf("prakriti scores = %+v", p.PrakritiScores)
	}

	hist, err := svc.History(ctx, "u1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 || hist[0].Type != Baseline || hist[1].Type != Current {
		t.Fatalf("history = %+v", hist)
	}
	if hist[0].Sequence >= hist[1].Sequence {
		t.Errorf("sequences not increasing: %d, %d", hist[0].Sequence, hist[1].Sequence)
	}
}

func TestComplete_KeepsExistingBio(t *testing.T) {
	svc, profiles := newTestService(t)
	ctx := context.Background()

	if _, err := profiles.UpdateBio(ctx, "u1", profile.Bio{Name: "Ravi", BirthPlace: "Mysuru"}); err != nil {
		t.Fatal(err)
	}
	completeSession(t, svc, "u1",
		map[string]dosha.Dosha{"frame": dosha.Kapha},
		map[string]dosha.Dosha{"frame": dosha.Kapha},
		time.Now())

	p, _ := profiles.Get(ctx, "u1")
	if p.Bio.Name != "Ravi" || p.Bio.BirthPlace != "Mysuru" {
		t.Fatalf("bio overwritten: %+v", p.Bio)
	}
	if p.Prakriti != dosha.Kapha {
		t.Fatalf("prakriti = %s", p.Prakriti)
	}
}

func TestComplete_RejectsSwappedRecords(t *testing.T) {
	svc, _ := newTestService(t)
	b := NewRecord("u1", Baseline, nil, time.Now())
	c := NewRecord("u1", Current, nil, time.Now())
	if _, err := svc.Complete(context.Background(), "u1", profile.Bio{}, c, b); err == nil {
		t.Fatal("expected error for swapped records")
	}
}

func TestComplete_FailedWriteStoresNothing(t *testing.T) {
	svc, profiles := newTestService(t)
	ctx := context.Background()

	b := NewRecord("u1", Baseline, map[string]dosha.Dosha{"frame": dosha.Pitta}, time.Now())
	c := NewRecord("u1", Current, map[string]dosha.Dosha{"frame": dosha.Vata}, time.Now())
	dup := c
	dup.ID = b.ID
	if _, err := svc.Complete(ctx, "u1", profile.Bio{Name: "Asha"}, b, dup); err == nil {
		t.Fatal("expected the second insert to fail on a duplicate ID")
	}

	hist, err := svc.History(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 0 {
		t.Fatalf("history after failed save = %d records, want 0", len(hist))
	}
	if p, _ := profiles.Get(ctx, "u1"); p != nil {
		t.Fatalf("profile after failed save = %+v, want none", p)
	}

	// Retrying with the same records succeeds and stores each once.
	if _, err := svc.Complete(ctx, "u1", profile.Bio{Name: "Asha"}, b, c); err != nil {
		t.Fatalf("retry: %v", err)
	}
	hist, _ = svc.History(ctx, "u1")
	if len(hist) != 2 || hist[0].ID != b.ID || hist[1].ID != c.ID {
		t.Fatalf("history after retry = %+v", hist)
	}
	if p, _ := profiles.Get(ctx, "u1"); p.Prakriti != dosha.Pitta {
		t.Fatalf("prakriti after retry = %+v", p)
	}
}

func TestComparison_FirstBaselineLatestCurrent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Comparison(ctx, "u1"); !errors.Is(err, ErrNoComparison) {
		t.Fatalf("expected ErrNoComparison, got %v", err)
	}

	t0 := time.Now().UTC().Truncate(time.Second)
	completeSession(t, svc, "u1",
		map[string]dosha.Dosha{"a": dosha.Vata, "b": dosha.Vata},
		map[string]dosha.Dosha{"a": dosha.Pitta},
		t0)
	completeSession(t, svc, "u1",
		map[string]dosha.Dosha{"a": dosha.Kapha},
		map[string]dosha.Dosha{"a": dosha.Kapha, "b": dosha.Kapha, "c": dosha.Pitta},
		t0.Add(time.Hour))

	cmp, err := svc.Comparison(ctx, "u1")
	if err != nil {
		t.Fatalf("comparison: %v", err)
	}
	if cmp.Baseline.Scores != (dosha.Tally{Vata: 2}) {
		t.Errorf("baseline should be the first one, got %+v", cmp.Baseline.Scores)
	}
	if cmp.Current.Scores != (dosha.Tally{Pitta: 1, Kapha: 2}) {
		t.Errorf("current should be the latest one, got %+v", cmp.Current.Scores)
	}
	if cmp.Delta != (dosha.Tally{Vata: -2, Pitta: 1, Kapha: 2}) {
		t.Errorf("delta = %+v", cmp.Delta)
	}

	latestBase, err := svc.LatestBaseline(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if latestBase.Dominant != dosha.Kapha {
		t.Errorf("latest baseline dominant = %s", latestBase.Dominant)
	}

	if r, err := svc.LatestCurrent(ctx, "nobody"); err != nil || r != nil {
		t.Errorf("unknown user latest current = %+v, %v", r, err)
	}
}
