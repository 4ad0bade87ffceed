package assessment

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/ayurai/ayurai/internal/dosha"
	"github.com/ayurai/ayurai/internal/questionbank"
)

// AnswerSheet is a questionnaire filled in offline. Each pass maps question
// IDs to 1-based option numbers, as printed by "ayurai questions list".
type AnswerSheet struct {
	Baseline map[string]int `yaml:"baseline"`
	Current  map[string]int `yaml:"current"`
}

// ReadAnswerSheet decodes a YAML answer sheet.
func ReadAnswerSheet(r io.Reader) (*AnswerSheet, error) {
	var sheet AnswerSheet
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sheet); err != nil {
		if errors.Is(err, io.EOF) {
			return &sheet, nil
		}
		return nil, fmt.Errorf("decode answer sheet: %w", err)
	}
	return &sheet, nil
}

// Skipped is an answer sheet entry that the bank could not resolve.
type Skipped struct {
	Pass Pass
	ID   string
	Err  error
}

func (s Skipped) String() string {
	return fmt.Sprintf("%s answer %q skipped: %v", s.Pass.Term(), s.ID, s.Err)
}

// Resolve maps the sheet's option numbers to categories using bank.
// Entries with an unknown question ID or an out-of-range option count as
// unanswered and are returned in skipped, ordered by pass and ID. A pass
// with no usable answers resolves to nil.
func (s *AnswerSheet) Resolve(bank *questionbank.Bank) (baseline, current map[string]dosha.Dosha, skipped []Skipped) {
	baseline, skipped = resolvePass(bank, Baseline, s.Baseline, skipped)
	current, skipped = resolvePass(bank, Current, s.Current, skipped)
	return baseline, current, skipped
}

func resolvePass(bank *questionbank.Bank, pass Pass, picks map[string]int, skipped []Skipped) (map[string]dosha.Dosha, []Skipped) {
	out := make(map[string]dosha.Dosha, len(picks))
	for _, id := range slices.Sorted(maps.Keys(picks)) {
		d, err := bank.Resolve(id, picks[id]-1)
		if err != nil {
			skipped = append(skipped, Skipped{Pass: pass, ID: id, Err: err})
			continue
		}
		out[id] = d
	}
	if len(out) == 0 {
		return nil, skipped
	}
	return out, skipped
}
