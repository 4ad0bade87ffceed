package questionbank

import (
	"fmt"
	"strings"
)

// validateQuestions performs all structural checks on a question set.
// Returns a combined error describing all problems found, or nil if valid.
// Dosha coverage across the bank is not checked; that is a content concern.
func validateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("question bank validation failed: bank is empty")
	}

	var errs []string
	seen := make(map[string]bool, len(questions))

	for i, q := range questions {
		if strings.TrimSpace(q.ID) == "" {
			errs = append(errs, fmt.Sprintf("question #%d has an empty ID", i+1))
		} else if seen[q.ID] {
			errs = append(errs, fmt.Sprintf("duplicate question ID: %q", q.ID))
		}
		seen[q.ID] = true

		if strings.TrimSpace(q.Prompt) == "" {
			errs = append(errs, fmt.Sprintf("question %q has an empty prompt", q.ID))
		}
		if len(q.Options) == 0 {
			errs = append(errs, fmt.Sprintf("question %q has no options", q.ID))
		}
		for j, o := range q.Options {
			if strings.TrimSpace(o.Text) == "" {
				errs = append(errs, fmt.Sprintf("question %q option %d has empty text", q.ID, j+1))
			}
			if !o.Dosha.Valid() {
				errs = append(errs, fmt.Sprintf("question %q option %d has invalid dosha %q", q.ID, j+1, o.Dosha))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("question bank validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
