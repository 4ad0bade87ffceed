package questionbank

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ayurai/ayurai/internal/dosha"
)

// Group is the UI grouping of a question. It plays no part in scoring.
type Group string

const (
	GroupStructural Group = "Structural"
	GroupMetabolic  Group = "Metabolic"
	GroupMental     Group = "Mental"
)

// AllGroups returns all groups in display order.
func AllGroups() []Group {
	return []Group{GroupStructural, GroupMetabolic, GroupMental}
}

// DisplayName returns the group label with its traditional term.
func (g Group) DisplayName() string {
	switch g {
	case GroupStructural:
		return "Structural (Deha)"
	case GroupMetabolic:
		return "Metabolic (Agni)"
	case GroupMental:
		return "Mental (Manas)"
	default:
		return string(g)
	}
}

var (
	ErrUnknownQuestion = errors.New("unknown question")
	ErrOptionRange     = errors.New("option index out of range")
)

// Option is one selectable answer, pre-weighted toward a single dosha.
type Option struct {
	Text  string      `yaml:"text"`
	Dosha dosha.Dosha `yaml:"dosha"`
}

// Question is one multiple-choice item in the bank.
type Question struct {
	ID      string   `yaml:"id"`
	Group   Group    `yaml:"group"`
	Prompt  string   `yaml:"prompt"`
	Options []Option `yaml:"options"`
}

// Bank is an ordered, read-only question set indexed by ID.
type Bank struct {
	questions []Question
	byID      map[string]int
}

type bankFile struct {
	Questions []Question `yaml:"questions"`
}

//go:embed questions.yaml
var defaultBankYAML []byte

// Default returns the canonical 18-question bank.
func Default() *Bank {
	b, err := Parse(defaultBankYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded question bank is invalid: %v", err))
	}
	return b
}

// LoadFile reads and validates a YAML question bank from disk.
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse decodes and validates a YAML question bank.
func Parse(data []byte) (*Bank, error) {
	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	return New(f.Questions)
}

// New builds a Bank from questions after validating them.
func New(questions []Question) (*Bank, error) {
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}

	qs := make([]Question, len(questions))
	copy(qs, questions)

	b := &Bank{
		questions: qs,
		byID:      make(map[string]int, len(qs)),
	}
	for i, q := range qs {
		b.byID[q.ID] = i
	}
	return b, nil
}

// Len returns the number of questions.
func (b *Bank) Len() int {
	return len(b.questions)
}

// Questions returns the questions in canonical order.
func (b *Bank) Questions() []Question {
	out := make([]Question, len(b.questions))
	copy(out, b.questions)
	return out
}

// At returns the question at position i.
func (b *Bank) At(i int) Question {
	return b.questions[i]
}

// Get looks up a question by ID.
func (b *Bank) Get(id string) (Question, bool) {
	i, ok := b.byID[id]
	if !ok {
		return Question{}, false
	}
	return b.questions[i], true
}

// ByGroup returns the questions in group g, in canonical order.
func (b *Bank) ByGroup(g Group) []Question {
	var out []Question
	for _, q := range b.questions {
		if q.Group == g {
			out = append(out, q)
		}
	}
	return out
}

// Resolve maps a chosen option to the dosha it weighs toward.
func (b *Bank) Resolve(questionID string, optionIndex int) (dosha.Dosha, error) {
	q, ok := b.Get(questionID)
	if !ok {
		return dosha.Unknown, fmt.Errorf("%w: %q", ErrUnknownQuestion, questionID)
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return dosha.Unknown, fmt.Errorf("%w: question %q has %d options, got %d",
			ErrOptionRange, questionID, len(q.Options), optionIndex)
	}
	return q.Options[optionIndex].Dosha, nil
}
