package questionbank

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayurai/ayurai/internal/dosha"
)

func threeQuestionBank(t *testing.T) *Bank {
	t.Helper()
	b, err := New([]Question{
		{ID: "frame", Group: GroupStructural, Prompt: "Frame?", Options: []Option{
			{Text: "thin", Dosha: dosha.Vata},
			{Text: "medium", Dosha: dosha.Pitta},
			{Text: "large", Dosha: dosha.Kapha},
		}},
		{ID: "digestion", Group: GroupMetabolic, Prompt: "Digestion?", Options: []Option{
			{Text: "irregular", Dosha: dosha.Vata},
			{Text: "strong", Dosha: dosha.Pitta},
		}},
		{ID: "sleep", Group: GroupMental, Prompt: "Sleep?", Options: []Option{
			{Text: "deep", Dosha: dosha.Kapha},
		}},
	})
	if err != nil {
		t.Fatalf("build bank: %v", err)
	}
	return b
}

func TestDefault_CanonicalBank(t *testing.T) {
	b := Default()
	if b.Len() != 18 {
		t.Fatalf("expected 18 questions, got %d", b.Len())
	}

	total := 0
	for _, g := range AllGroups() {
		n := len(b.ByGroup(g))
		if n == 0 {
			t.Errorf("group %s has no questions", g)
		}
		total += n
	}
	if total != b.Len() {
		t.Errorf("groups cover %d questions, bank has %d", total, b.Len())
	}

	for _, q := range b.Questions() {
		if len(q.Options) != 3 {
			t.Errorf("question %q has %d options, want 3", q.ID, len(q.Options))
		}
		for i, want := range dosha.Canonical() {
			if q.Options[i].Dosha != want {
				t.Errorf("question %q option %d = %s, want %s", q.ID, i, q.Options[i].Dosha, want)
			}
		}
	}

	if q := b.At(0); q.ID != "frame" {
		t.Errorf("first question = %q, want frame", q.ID)
	}
}

func TestResolve(t *testing.T) {
	b := threeQuestionBank(t)

	d, err := b.Resolve("digestion", 1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if d != dosha.Pitta {
		t.Fatalf("resolved %s, want Pitta", d)
	}

	if _, err := b.Resolve("nope", 0); !errors.Is(err, ErrUnknownQuestion) {
		t.Errorf("expected ErrUnknownQuestion, got %v", err)
	}
	if _, err := b.Resolve("sleep", 1); !errors.Is(err, ErrOptionRange) {
		t.Errorf("expected ErrOptionRange, got %v", err)
	}
	if _, err := b.Resolve("sleep", -1); !errors.Is(err, ErrOptionRange) {
		t.Errorf("expected ErrOptionRange for negative index, got %v", err)
	}
}

func TestQuestions_ReturnsCopy(t *testing.T) {
	b := threeQuestionBank(t)
	qs := b.Questions()
	qs[0].ID = "mutated"
	if _, ok := b.Get("frame"); !ok {
		t.Fatal("mutating the returned slice changed the bank")
	}
	if b.At(0).ID != "frame" {
		t.Fatalf("At(0) = %q", b.At(0).ID)
	}
}

func TestValidate(t *testing.T) {
	opt := []Option{{Text: "a", Dosha: dosha.Vata}}
	tests := []struct {
		name      string
		questions []Question
		wantSub   string
	}{
		{"empty bank", nil, "empty"},
		{"duplicate id", []Question{
			{ID: "a", Prompt: "p", Options: opt},
			{ID: "a", Prompt: "p", Options: opt},
		}, "duplicate"},
		{"empty id", []Question{{ID: " ", Prompt: "p", Options: opt}}, "empty ID"},
		{"no options", []Question{{ID: "a", Prompt: "p"}}, "no options"},
		{"bad dosha", []Question{{ID: "a", Prompt: "p", Options: []Option{{Text: "x", Dosha: dosha.Unknown}}}}, "invalid dosha"},
		{"empty prompt", []Question{{ID: "a", Options: opt}}, "empty prompt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.questions)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	data := `questions:
  - id: appetite
    group: Metabolic
    prompt: "Appetite?"
    options:
      - text: "variable"
        dosha: Vata
      - text: "sharp"
        dosha: Pitta
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if b.Len() != 1 {
		t.Fatalf("expected 1 question, got %d", b.Len())
	}
	q, _ := b.Get("appetite")
	if q.Group != GroupMetabolic || q.Options[1].Dosha != dosha.Pitta {
		t.Fatalf("unexpected question: %+v", q)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParse_DoshaNamesAnyCase(t *testing.T) {
	b, err := Parse([]byte(`questions:
  - id: appetite
    group: Metabolic
    prompt: "Appetite?"
    options:
      - {text: "variable", dosha: vata}
      - {text: "sharp", dosha: PITTA}
      - {text: "steady", dosha: " Kapha "}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for i, want := range dosha.Canonical() {
		if got, _ := b.Resolve("appetite", i); got != want {
			t.Errorf("option %d = %q, want %q", i, got, want)
		}
	}

	_, err = Parse([]byte(`questions:
  - id: appetite
    group: Metabolic
    prompt: "Appetite?"
    options:
      - {text: "variable", dosha: air}
      - {text: "sharp", dosha: pitta}
`))
	if err == nil || !strings.Contains(err.Error(), "air") {
		t.Fatalf("unknown category should fail validation, got %v", err)
	}
}
