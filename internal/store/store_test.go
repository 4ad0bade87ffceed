package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayurai/ayurai/internal/dosha"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"profiles", "assessments", "vitals", "plan_items", "llm_request_events", "reports", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.ProfileRepo().Upsert(ctx, &ProfileData{UserID: "u1", Name: "Asha"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	p, err := s.ProfileRepo().Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p == nil || p.Name != "Asha" {
		t.Fatalf("profile after reopen = %+v", p)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestProfileUpsert(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProfileRepo()
	ctx := context.Background()

	p, err := repo.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get (empty): %v", err)
	}
	if p != nil {
		t.Fatal("expected nil profile when none exists")
	}

	err = repo.Upsert(ctx, &ProfileData{
		UserID:   "u1",
		Name:     "Asha",
		DOB:      "1990-04-12",
		Prakriti: "Vata",
		Scores:   dosha.Tally{Vata: 10, Pitta: 8},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	err = repo.Upsert(ctx, &ProfileData{
		UserID:          "u1",
		Name:            "Asha",
		CurrentLocation: "Pune",
		Prakriti:        "Pitta",
		Scores:          dosha.Tally{Vata: 2, Pitta: 12, Kapha: 4},
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	p, err = repo.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Prakriti != "Pitta" || p.CurrentLocation != "Pune" {
		t.Errorf("profile = %+v", p)
	}
	if p.Scores != (dosha.Tally{Vata: 2, Pitta: 12, Kapha: 4}) {
		t.Errorf("scores = %+v", p.Scores)
	}
	if p.LastUpdated.IsZero() {
		t.Error("last updated not set")
	}

	if err := repo.Upsert(ctx, &ProfileData{}); err == nil {
		t.Error("expected error for empty user ID")
	}
}

func TestAssessmentAppendAndList(t *testing.T) {
	s := openTestStore(t)
	repo := s.AssessmentRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	records := []*AssessmentData{
		{ID: "a1", UserID: "u1", Pass: "baseline", Timestamp: base,
			Scores: dosha.Tally{Vata: 2}, Dominant: dosha.Vata,
			Answers: map[string]dosha.Dosha{"frame": dosha.Vata, "hair": dosha.Vata}},
		{ID: "a2", UserID: "u1", Pass: "current", Timestamp: base.Add(time.Minute),
			Scores: dosha.Tally{Kapha: 1}, Dominant: dosha.Kapha,
			Answers: map[string]dosha.Dosha{"frame": dosha.Kapha}},
		{ID: "a3", UserID: "u2", Pass: "baseline", Timestamp: base,
			Scores: dosha.Tally{Pitta: 1}, Dominant: dosha.Pitta,
			Answers: map[string]dosha.Dosha{"frame": dosha.Pitta}},
	}
	for _, rec := range records {
		if err := repo.Append(ctx, rec); err != nil {
			t.Fatalf("append %s: %v", rec.ID, err)
		}
		if rec.Sequence == 0 {
			t.Fatalf("sequence not assigned for %s", rec.ID)
		}
	}

	all, err := repo.List(ctx, "u1", "", QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("u1 records = %d, want 2", len(all))
	}
	if all[0].ID != "a1" || all[1].ID != "a2" {
		t.Errorf("order = %s,%s", all[0].ID, all[1].ID)
	}
	if all[0].Answers["hair"] != dosha.Vata || len(all[0].Answers) != 2 {
		t.Errorf("answers round trip = %+v", all[0].Answers)
	}
	if !all[0].Timestamp.Equal(base) {
		t.Errorf("timestamp = %v, want %v", all[0].Timestamp, base)
	}

	current, err := repo.List(ctx, "u1", "current", QueryOpts{})
	if err != nil {
		t.Fatalf("list current: %v", err)
	}
	if len(current) != 1 || current[0].Dominant != dosha.Kapha {
		t.Errorf("current = %+v", current)
	}

	after, err := repo.List(ctx, "u1", "", QueryOpts{After: all[0].Sequence})
	if err != nil {
		t.Fatalf("list after: %v", err)
	}
	if len(after) != 1 || after[0].ID != "a2" {
		t.Errorf("after = %+v", after)
	}
}

func TestAssessmentAppendWithProfile(t *testing.T) {
	s := openTestStore(t)
	repo := s.AssessmentRepo()
	ctx := context.Background()

	base := &AssessmentData{ID: "b1", UserID: "u1", Pass: "Baseline",
		Scores: dosha.Tally{Pitta: 1}, Dominant: dosha.Pitta}
	dup := &AssessmentData{ID: "b1", UserID: "u1", Pass: "Current",
		Scores: dosha.Tally{Vata: 1}, Dominant: dosha.Vata}
	prof := &ProfileData{UserID: "u1", Name: "Asha", Prakriti: "Pitta"}

	if err := repo.AppendWithProfile(ctx, []*AssessmentData{base, dup}, prof); err == nil {
		t.Fatal("expected duplicate ID to fail")
	}
	if base.Sequence != 0 {
		t.Errorf("sequence assigned on rollback: %d", base.Sequence)
	}
	recs, err := repo.List(ctx, "u1", "", QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Fatalf("records after rollback = %d, want 0", len(recs))
	}
	if p, _ := s.ProfileRepo().Get(ctx, "u1"); p != nil {
		t.Fatalf("profile after rollback = %+v", p)
	}

	cur := &AssessmentData{ID: "c1", UserID: "u1", Pass: "Current",
		Scores: dosha.Tally{Vata: 1}, Dominant: dosha.Vata}
	if err := repo.AppendWithProfile(ctx, []*AssessmentData{base, cur}, prof); err != nil {
		t.Fatalf("append with profile: %v", err)
	}
	if base.Sequence == 0 || cur.Sequence <= base.Sequence {
		t.Errorf("sequences = %d, %d", base.Sequence, cur.Sequence)
	}
	recs, _ = repo.List(ctx, "u1", "", QueryOpts{})
	if len(recs) != 2 {
		t.Fatalf("records = %d, want 2", len(recs))
	}
	p, err := s.ProfileRepo().Get(ctx, "u1")
	if err != nil || p == nil || p.Prakriti != "Pitta" {
		t.Fatalf("profile = %+v, %v", p, err)
	}

	// The counter keeps working outside a transaction afterwards.
	next, err := s.seq.Next(ctx)
	if err != nil || next <= cur.Sequence {
		t.Errorf("next = %d, %v", next, err)
	}
}

func TestVitalAppendAndList(t *testing.T) {
	s := openTestStore(t)
	repo := s.VitalRepo()
	ctx := context.Background()

	dia := 80.0
	vitals := []*VitalData{
		{ID: "v1", UserID: "u1", Kind: "bp", Value: 120, Secondary: &dia},
		{ID: "v2", UserID: "u1", Kind: "weight", Value: 64.5, Notes: "morning"},
		{ID: "v3", UserID: "u1", Kind: "weight", Value: 64.1},
	}
	for _, v := range vitals {
		if err := repo.Append(ctx, v); err != nil {
			t.Fatalf("append %s: %v", v.ID, err)
		}
	}

	weights, err := repo.List(ctx, "u1", "weight", QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(weights) != 2 || weights[0].ID != "v3" {
		t.Fatalf("weights = %+v", weights)
	}
	if weights[1].Notes != "morning" || weights[1].Secondary != nil {
		t.Errorf("v2 = %+v", weights[1])
	}

	bp, err := repo.List(ctx, "u1", "bp", QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("list bp: %v", err)
	}
	if len(bp) != 1 || bp[0].Secondary == nil || *bp[0].Secondary != 80 {
		t.Fatalf("bp = %+v", bp)
	}

	all, err := repo.List(ctx, "u1", "", QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("limit ignored: %d", len(all))
	}
}

func TestPlanItems(t *testing.T) {
	s := openTestStore(t)
	repo := s.PlanRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	if err := repo.Add(ctx, &PlanItemData{ID: "p1", UserID: "u1", Category: "Diet", Title: "Warm water", CreatedAt: base}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.Add(ctx, &PlanItemData{ID: "p2", UserID: "u1", Category: "Breath", Title: "Nadi shodhana", Planned: true, CreatedAt: base.Add(time.Second)}); err != nil {
		t.Fatalf("add: %v", err)
	}

	items, err := repo.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ID != "p1" || items[1].Planned != true {
		t.Fatalf("items = %+v", items)
	}

	done := base.Add(time.Hour)
	if err := repo.SetCompleted(ctx, "u1", "p1", &done); err != nil {
		t.Fatalf("set completed: %v", err)
	}
	if err := repo.SetPlanned(ctx, "u1", "p1", true); err != nil {
		t.Fatalf("set planned: %v", err)
	}
	it, err := repo.Get(ctx, "u1", "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if it.CompletedAt == nil || !it.CompletedAt.Equal(done) || !it.Planned {
		t.Fatalf("item = %+v", it)
	}

	if err := repo.SetCompleted(ctx, "u1", "p1", nil); err != nil {
		t.Fatalf("clear completed: %v", err)
	}
	it, _ = repo.Get(ctx, "u1", "p1")
	if it.CompletedAt != nil {
		t.Fatal("completion not cleared")
	}

	if err := repo.SetPlanned(ctx, "u2", "p1", false); !errors.Is(err, ErrNotFound) {
		t.Errorf("other user's item: got %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, "u1", "p2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if it, _ := repo.Get(ctx, "u1", "p2"); it != nil {
		t.Fatal("item still present after delete")
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "mock", Model: "m1", Purpose: "prakriti-report", InputTokens: 100, OutputTokens: 50, LatencyMs: 10, Success: true},
		{Provider: "mock", Model: "m1", Purpose: "prakriti-report", InputTokens: 200, OutputTokens: 70, LatencyMs: 30, Success: false, ErrorMessage: "boom"},
		{Provider: "mock", Model: "m2", Purpose: "chat", InputTokens: 10, OutputTokens: 5, LatencyMs: 5, Success: true, RequestBody: "{}", ResponseBody: "hi"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 || got[0].Purpose != "chat" {
		t.Fatalf("events = %+v", got)
	}
	if got[0].ResponseBody != "hi" {
		t.Errorf("response body = %q", got[0].ResponseBody)
	}

	one, err := repo.GetLLMEvent(ctx, got[1].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if one == nil || one.ErrorMessage != "boom" || one.Success {
		t.Fatalf("event = %+v", one)
	}
	if missing, err := repo.GetLLMEvent(ctx, 9999); err != nil || missing != nil {
		t.Fatalf("missing event = %+v, %v", missing, err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("usage rows = %d", len(byPurpose))
	}
	report := byPurpose[0]
	if report.Key != "prakriti-report" || report.Calls != 2 || report.Failures != 1 {
		t.Errorf("report usage = %+v", report)
	}
	if report.InputTokens != 300 || report.OutputTokens != 120 || report.AvgLatencyMs != 20 {
		t.Errorf("report totals = %+v", report)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Key != "m1" {
		t.Errorf("usage by model = %+v", byModel)
	}
}

func TestReportSaveLatestPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.ReportRepo()
	ctx := context.Background()

	rep, err := repo.Latest(ctx, "u1", "prakriti")
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if rep != nil {
		t.Fatal("expected nil report when none exist")
	}

	for i := 0; i < 7; i++ {
		err := repo.Save(ctx, &Report{UserID: "u1", Kind: "prakriti", Mode: "Integrated", Content: string(rune('a' + i))})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	if err := repo.Save(ctx, &Report{UserID: "u1", Kind: "comparative", Mode: "Modern", Content: "cmp"}); err != nil {
		t.Fatalf("save comparative: %v", err)
	}

	rep, err = repo.Latest(ctx, "u1", "prakriti")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if rep.Content != "g" {
		t.Errorf("latest content = %q, want g", rep.Content)
	}

	if err := repo.Prune(ctx, "u1", 5); err != nil {
		t.Fatalf("prune: %v", err)
	}
	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM reports WHERE user_id = 'u1'").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 5 {
		t.Errorf("remaining reports = %d, want 5", count)
	}

	// The newest comparative report survives since it is among the 5 newest.
	cmp, _ := repo.Latest(ctx, "u1", "comparative")
	if cmp == nil {
		t.Fatal("comparative report pruned")
	}

	// Prune with a large keep is a no-op.
	if err := repo.Prune(ctx, "u1", 50); err != nil {
		t.Fatalf("prune no-op: %v", err)
	}
}

func TestResetUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, user := range []string{"u1", "u2"} {
		if err := s.ProfileRepo().Upsert(ctx, &ProfileData{UserID: user, Name: user}); err != nil {
			t.Fatal(err)
		}
		if err := s.AssessmentRepo().Append(ctx, &AssessmentData{ID: "a-" + user, UserID: user, Pass: "baseline", Answers: map[string]dosha.Dosha{}}); err != nil {
			t.Fatal(err)
		}
		if err := s.VitalRepo().Append(ctx, &VitalData{ID: "v-" + user, UserID: user, Kind: "weight", Value: 60}); err != nil {
			t.Fatal(err)
		}
		if err := s.PlanRepo().Add(ctx, &PlanItemData{ID: "p-" + user, UserID: user, Category: "Diet", Title: "x"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Success: true}); err != nil {
		t.Fatal(err)
	}

	if err := s.ResetUser(ctx, "u1"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if p, _ := s.ProfileRepo().Get(ctx, "u1"); p != nil {
		t.Error("u1 profile survived reset")
	}
	if recs, _ := s.AssessmentRepo().List(ctx, "u1", "", QueryOpts{}); len(recs) != 0 {
		t.Error("u1 assessments survived reset")
	}
	if items, _ := s.PlanRepo().List(ctx, "u1"); len(items) != 0 {
		t.Error("u1 plan survived reset")
	}
	if p, _ := s.ProfileRepo().Get(ctx, "u2"); p == nil {
		t.Error("u2 profile removed by u1 reset")
	}
	if v, _ := s.VitalRepo().List(ctx, "u2", "", QueryOpts{}); len(v) != 1 {
		t.Error("u2 vitals removed by u1 reset")
	}
	if ev, _ := s.EventRepo().QueryLLMEvents(ctx, QueryOpts{}); len(ev) != 1 {
		t.Error("LLM events should survive reset")
	}
}
