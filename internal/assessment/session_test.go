package assessment

import (
	"errors"
	"testing"
	"time"

	"github.com/ayurai/ayurai/internal/dosha"
	"github.com/ayurai/ayurai/internal/questionbank"
)

func smallBank(t *testing.T) *questionbank.Bank {
	t.Helper()
	opts := []questionbank.Option{
		{Text: "v", Dosha: dosha.Vata},
		{Text: "p", Dosha: dosha.Pitta},
		{Text: "k", Dosha: dosha.Kapha},
	}
	b, err := questionbank.New([]questionbank.Question{
		{ID: "frame", Group: questionbank.GroupStructural, Prompt: "Frame?", Options: opts},
		{ID: "digestion", Group: questionbank.GroupMetabolic, Prompt: "Digestion?", Options: opts},
		{ID: "sleep", Group: questionbank.GroupMental, Prompt: "Sleep?", Options: opts},
	})
	if err != nil {
		t.Fatalf("bank: %v", err)
	}
	return b
}

// answerPass answers every remaining question of the current pass with the
// option index returned by pick.
func answerPass(t *testing.T, s *Session, pick func(i int) int) {
	t.Helper()
	start := s.Pass()
	for i := 0; s.Pass() == start && !s.Done(); i++ {
		if err := s.Choose(pick(i)); err != nil {
			t.Fatalf("choose %d: %v", i, err)
		}
	}
}

func TestSession_WalksBothPasses(t *testing.T) {
	s := NewSession(smallBank(t))

	if s.Pass() != Baseline {
		t.Fatalf("first pass = %s", s.Pass())
	}
	pos, total := s.Progress()
	if pos != 0 || total != 6 {
		t.Fatalf("progress = %d/%d", pos, total)
	}

	answerPass(t, s, func(int) int { return 0 })
	if s.Pass() != Current || s.Index() != 0 {
		t.Fatalf("after baseline: pass=%s index=%d", s.Pass(), s.Index())
	}
	if pos, _ := s.Progress(); pos != 3 {
		t.Fatalf("progress after baseline = %d", pos)
	}

	answerPass(t, s, func(int) int { return 2 })
	if !s.Done() {
		t.Fatal("expected session done")
	}
	if _, ok := s.Current(); ok {
		t.Fatal("Current should report false when done")
	}
	if err := s.Choose(0); err == nil {
		t.Fatal("expected error choosing after done")
	}

	base, cur := s.Results()
	if base.Tally != (dosha.Tally{Vata: 3}) || base.Dominant != dosha.Vata {
		t.Errorf("baseline = %+v", base)
	}
	if cur.Tally != (dosha.Tally{Kapha: 3}) || cur.Dominant != dosha.Kapha {
		t.Errorf("current = %+v", cur)
	}
}

func TestSession_PassesAreIndependent(t *testing.T) {
	bank := questionbank.Default()
	s := NewSession(bank)

	// Baseline: 10 Vata then 8 Pitta.
	answerPass(t, s, func(i int) int {
		if i < 10 {
			return 0
		}
		return 1
	})
	before, _ := s.Results()
	if before.Tally != (dosha.Tally{Vata: 10, Pitta: 8}) || before.Dominant != dosha.Vata {
		t.Fatalf("baseline = %+v", before)
	}

	answerPass(t, s, func(int) int { return 2 })

	after, cur := s.Results()
	if after != before {
		t.Fatalf("current pass changed baseline: %+v -> %+v", before, after)
	}
	if cur.Tally != (dosha.Tally{Kapha: 18}) {
		t.Fatalf("current = %+v", cur)
	}
	if got := dosha.Delta(after.Tally, cur.Tally); got != (dosha.Tally{Vata: -10, Pitta: -8, Kapha: 18}) {
		t.Fatalf("delta = %+v", got)
	}
}

func TestSession_BackAndReanswer(t *testing.T) {
	s := NewSession(smallBank(t))

	if s.Back() {
		t.Fatal("Back at first question should report false")
	}

	answerPass(t, s, func(int) int { return 0 })
	if s.Pass() != Current {
		t.Fatal("expected current pass")
	}

	// Back crosses into the last baseline question.
	if !s.Back() {
		t.Fatal("Back should move into baseline")
	}
	if s.Pass() != Baseline || s.Index() != 2 {
		t.Fatalf("pass=%s index=%d", s.Pass(), s.Index())
	}
	if s.Selected() != 0 {
		t.Fatalf("selected = %d, want 0", s.Selected())
	}

	// Last write wins.
	if err := s.Choose(1); err != nil {
		t.Fatal(err)
	}
	base, _ := s.Results()
	if base.Tally != (dosha.Tally{Vata: 2, Pitta: 1}) {
		t.Fatalf("baseline after re-answer = %+v", base)
	}
	if s.Selected() != -1 {
		t.Fatalf("unanswered current question selected = %d", s.Selected())
	}
}

func TestSession_SelectedWithSharedCategory(t *testing.T) {
	bank, err := questionbank.New([]questionbank.Question{{
		ID: "appetite", Group: questionbank.GroupMetabolic, Prompt: "Appetite?",
		Options: []questionbank.Option{
			{Text: "sharp", Dosha: dosha.Pitta},
			{Text: "irregular", Dosha: dosha.Vata},
			{Text: "intense", Dosha: dosha.Pitta},
		},
	}})
	if err != nil {
		t.Fatal(err)
	}
	s := NewSession(bank)
	if err := s.Choose(2); err != nil {
		t.Fatal(err)
	}
	if !s.Back() {
		t.Fatal("Back should return to the baseline question")
	}
	if s.Selected() != 2 {
		t.Errorf("selected = %d, want the chosen option 2", s.Selected())
	}
}

func TestSession_Records(t *testing.T) {
	s := NewSession(smallBank(t))
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	if _, _, err := s.Records("u1", now); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}

	answerPass(t, s, func(i int) int { return i % 3 })
	answerPass(t, s, func(int) int { return 1 })

	base, cur, err := s.Records("u1", now)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if base.Type != Baseline || cur.Type != Current {
		t.Fatalf("types = %s, %s", base.Type, cur.Type)
	}
	if base.ID == "" || base.ID == cur.ID {
		t.Fatalf("ids = %q, %q", base.ID, cur.ID)
	}
	if base.Scores != (dosha.Tally{1, 1, 1}) || base.Dominant != dosha.Vata {
		t.Errorf("baseline = %+v", base)
	}
	if cur.Dominant != dosha.Pitta || len(cur.Answers) != 3 {
		t.Errorf("current = %+v", cur)
	}
	if !base.Timestamp.Equal(now) {
		t.Errorf("timestamp = %v", base.Timestamp)
	}

	// Records own their answers.
	base.Answers["frame"] = dosha.Kapha
	again, _, _ := s.Records("u1", now)
	if again.Answers["frame"] != dosha.Vata {
		t.Fatal("record answers alias the session")
	}
}

func TestSession_InvalidChoice(t *testing.T) {
	s := NewSession(smallBank(t))
	if err := s.Choose(5); !errors.Is(err, questionbank.ErrOptionRange) {
		t.Fatalf("expected ErrOptionRange, got %v", err)
	}
	if pos, _ := s.Progress(); pos != 0 {
		t.Fatal("invalid choice advanced the session")
	}
}

func TestPassFraming(t *testing.T) {
	if Baseline.Framing() == Current.Framing() {
		t.Fatal("passes need distinct framing")
	}
	if Baseline.Term() != "Prakriti" || Current.Term() != "Vikriti" {
		t.Fatal("unexpected terms")
	}
}
