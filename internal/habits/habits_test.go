package habits

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayurai/ayurai/internal/store"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"Diet", Diet},
		{"movement", Movement},
		{" BREATH ", Breath},
		{"custom", Custom},
		{"Routine", Routine},
		{"", Routine},
		{"Sleep", Routine},
		{"dietary", Routine},
	}
	for _, tt := range tests {
		if got := ParseCategory(tt.in); got != tt.want {
			t.Errorf("ParseCategory(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestToggle(t *testing.T) {
	now := time.Date(2026, 5, 1, 7, 0, 0, 0, time.UTC)
	it := Item{Title: "Oil pulling"}

	it.Toggle(now)
	if !it.Done() || !it.CompletedAt.Equal(now) {
		t.Fatalf("after first toggle: %+v", it)
	}
	it.Toggle(now.Add(time.Hour))
	if it.Done() {
		t.Fatal("second toggle should clear completion")
	}
}

func TestPlannedAndCompletedCount(t *testing.T) {
	done := time.Now()
	items := []Item{
		{ID: "a", Planned: true, CompletedAt: &done},
		{ID: "b", Planned: true},
		{ID: "c", Planned: false, CompletedAt: &done},
	}
	planned := Planned(items)
	if len(planned) != 2 {
		t.Fatalf("planned = %d, want 2", len(planned))
	}
	if CompletedCount(planned) != 1 {
		t.Errorf("completed planned = %d, want 1", CompletedCount(planned))
	}
	if CompletedCount(items) != 2 {
		t.Errorf("completed all = %d, want 2", CompletedCount(items))
	}
}

func at(day int, hour int) *time.Time {
	t := time.Date(2026, 5, day, hour, 0, 0, 0, time.UTC)
	return &t
}

func TestActivity(t *testing.T) {
	now := time.Date(2026, 5, 10, 20, 0, 0, 0, time.UTC)
	items := []Item{
		{CompletedAt: at(10, 6)},
		{CompletedAt: at(10, 9)},
		{CompletedAt: at(8, 23)},
		{CompletedAt: at(1, 12)}, // outside the window
		{},
	}

	got := Activity(items, now, 7)
	if len(got) != 7 {
		t.Fatalf("days = %d, want 7", len(got))
	}
	if got[0].Day.Day() != 4 || got[6].Day.Day() != 10 {
		t.Fatalf("window = %v .. %v", got[0].Day, got[6].Day)
	}
	want := []int{0, 0, 0, 0, 1, 0, 2}
	for i, w := range want {
		if got[i].Count != w {
			t.Errorf("day %d count = %d, want %d", got[i].Day.Day(), got[i].Count, w)
		}
	}

	if Activity(items, now, 0) != nil {
		t.Error("zero days should return nil")
	}
}

func TestStreak(t *testing.T) {
	now := time.Date(2026, 5, 10, 20, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		items []Item
		want  int
	}{
		{"none", nil, 0},
		{"today only", []Item{{CompletedAt: at(10, 7)}}, 1},
		{"ends yesterday", []Item{{CompletedAt: at(9, 7)}, {CompletedAt: at(8, 7)}}, 2},
		{"gap breaks", []Item{{CompletedAt: at(10, 7)}, {CompletedAt: at(8, 7)}}, 1},
		{"three days", []Item{{CompletedAt: at(10, 7)}, {CompletedAt: at(9, 7)}, {CompletedAt: at(8, 7)}}, 3},
		{"stale", []Item{{CompletedAt: at(7, 7)}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Streak(tt.items, now); got != tt.want {
				t.Fatalf("Streak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFind(t *testing.T) {
	items := []Item{{ID: "abc123"}, {ID: "abd456"}, {ID: "xyz"}}

	if it, err := Find(items, "abc"); err != nil || it.ID != "abc123" {
		t.Errorf("prefix: %+v, %v", it, err)
	}
	if it, err := Find(items, "xyz"); err != nil || it.ID != "xyz" {
		t.Errorf("exact: %+v, %v", it, err)
	}
	if _, err := Find(items, "ab"); !errors.Is(err, ErrAmbiguous) {
		t.Errorf("expected ErrAmbiguous, got %v", err)
	}
	if _, err := Find(items, "q"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := Find(items, " "); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for blank ref, got %v", err)
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "habits.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewService(st.PlanRepo(), nil)
}

func TestService_ManualAddDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddManual(ctx, "u1", "   ", "Diet"); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}

	it, err := svc.AddManual(ctx, "u1", "  Abhyanga  ", "bogus")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if it.Title != "Abhyanga" || it.Category != Routine || !it.Planned {
		t.Fatalf("item = %+v", it)
	}
	if it.Description != ManualDescription || it.Benefits != ManualBenefits {
		t.Fatalf("defaults = %q / %q", it.Description, it.Benefits)
	}

	items, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != it.ID {
		t.Fatalf("items = %+v", items)
	}
}

func TestService_SuggestedThenPlanAndToggle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	added, err := svc.AddSuggested(ctx, "u1", []Item{
		{Category: Breath, Title: "Nadi shodhana", Description: "Alternate nostril breathing", Planned: true},
		{Category: Diet, Title: ""},
	})
	if err != nil {
		t.Fatalf("add suggested: %v", err)
	}
	if len(added) != 1 || added[0].Planned {
		t.Fatalf("added = %+v", added)
	}

	ref := added[0].ID[:8]
	it, err := svc.SetPlanned(ctx, "u1", ref, true)
	if err != nil {
		t.Fatalf("set planned: %v", err)
	}
	if !it.Planned {
		t.Fatal("item not planned")
	}

	it, err = svc.Toggle(ctx, "u1", ref)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !it.Done() {
		t.Fatal("toggle should complete the item")
	}
	items, _ := svc.List(ctx, "u1")
	if CompletedCount(Planned(items)) != 1 {
		t.Fatalf("stored items = %+v", items)
	}

	it, err = svc.Toggle(ctx, "u1", ref)
	if err != nil || it.Done() {
		t.Fatalf("second toggle: %+v, %v", it, err)
	}

	if _, err := svc.Remove(ctx, "u1", ref); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := svc.Toggle(ctx, "u1", ref); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
}
