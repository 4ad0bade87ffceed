// Package narrative turns scored assessments, vitals and habits into
// generated guidance text: reports, suggestions, plan items and chat.
package narrative

import (
	"time"

	"github.com/ayurai/ayurai/internal/assessment"
	"github.com/ayurai/ayurai/internal/habits"
	"github.com/ayurai/ayurai/internal/llm"
	"github.com/ayurai/ayurai/internal/profile"
	"github.com/ayurai/ayurai/internal/vitals"
)

// Input is everything a prompt may draw on. Only Profile is required.
type Input struct {
	Profile *profile.Profile
	// Comparison is nil until the user has both a baseline and a current
	// record.
	Comparison *assessment.Comparison
	// Vitals holds the latest reading per kind.
	Vitals []vitals.Vital
	Plan   []habits.Item
	Mode   Mode
	Now    time.Time
}

// Report is the result of FullReport. The comparative section is generated
// independently; ComparativeErr holds its failure, if any.
type Report struct {
	Mode           Mode
	Prakriti       string
	Comparative    string
	ComparativeErr error
}

// Turn is one exchange in a chat conversation.
type Turn struct {
	Role    llm.Role
	Content string
}

// Report kinds saved in the store.
const (
	KindPrakriti    = "prakriti"
	KindComparative = "comparative"
)

// LLM purpose labels recorded in the event log.
const (
	PurposePrakriti    = "prakriti-report"
	PurposeComparative = "comparative"
	PurposeSuggestions = "suggestions"
	PurposePlan        = "plan"
	PurposeChat        = "chat"
)
