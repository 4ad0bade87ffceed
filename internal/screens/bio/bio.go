// Package bio collects the user's personal details before the first
// assessment.
package bio

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/ayurai/ayurai/internal/profile"
	"github.com/ayurai/ayurai/internal/router"
	"github.com/ayurai/ayurai/internal/screen"
	"github.com/ayurai/ayurai/internal/screens/deps"
	"github.com/ayurai/ayurai/internal/screens/quiz"
	"github.com/ayurai/ayurai/internal/ui/components"
	"github.com/ayurai/ayurai/internal/ui/layout"
	"github.com/ayurai/ayurai/internal/ui/theme"
)

const (
	fieldName = iota
	fieldDOB
	fieldBirthPlace
	fieldLocation
	fieldCount
)

// savedMsg reports the outcome of storing the bio.
type savedMsg struct {
	Bio profile.Bio
	Err error
}

// BioScreen is a four-field form. Submitting stores the bio and moves on to
// the questionnaire.
type BioScreen struct {
	deps    *deps.Deps
	inputs  [fieldCount]components.TextInput
	focus   int
	saving  bool
	saveErr string
}

var _ screen.Screen = (*BioScreen)(nil)
var _ screen.KeyHintProvider = (*BioScreen)(nil)

// New creates the form, prefilled from existing if non-nil.
func New(d *deps.Deps, existing *profile.Profile) *BioScreen {
	b := &BioScreen{deps: d}
	b.inputs[fieldName] = components.NewTextInput("Name", "Your name", 60)
	b.inputs[fieldDOB] = components.NewTextInput("Date of birth", "YYYY-MM-DD", 10)
	b.inputs[fieldDOB].Allowed = "0123456789-"
	b.inputs[fieldBirthPlace] = components.NewTextInput("Birth place", "City, country", 80)
	b.inputs[fieldLocation] = components.NewTextInput("Current location", "City, country", 80)

	if existing != nil {
		b.inputs[fieldName].Model.SetValue(existing.Bio.Name)
		b.inputs[fieldDOB].Model.SetValue(existing.Bio.DOB)
		b.inputs[fieldBirthPlace].Model.SetValue(existing.Bio.BirthPlace)
		b.inputs[fieldLocation].Model.SetValue(existing.Bio.CurrentLocation)
	}
	return b
}

func (b *BioScreen) Init() tea.Cmd {
	return b.inputs[b.focus].Focus()
}

func (b *BioScreen) Title() string {
	return "About You"
}

func (b *BioScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

// Bio returns the form contents.
func (b *BioScreen) Bio() profile.Bio {
	return profile.Bio{
		Name:            b.inputs[fieldName].Value(),
		DOB:             b.inputs[fieldDOB].Value(),
		BirthPlace:      b.inputs[fieldBirthPlace].Value(),
		CurrentLocation: b.inputs[fieldLocation].Value(),
	}
}

func (b *BioScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		b.saving = false
		if msg.Err != nil {
			b.saveErr = msg.Err.Error()
			return b, nil
		}
		next := quiz.New(b.deps, msg.Bio)
		return b, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyMsg:
		if b.saving {
			return b, nil
		}
		switch msg.String() {
		case "tab", "down":
			return b, b.moveFocus(1)
		case "shift+tab", "up":
			return b, b.moveFocus(-1)
		case "enter":
			if b.focus < fieldCount-1 {
				return b, b.moveFocus(1)
			}
			return b, b.submit()
		}
	}

	var cmd tea.Cmd
	b.inputs[b.focus], cmd = b.inputs[b.focus].Update(msg)
	return b, cmd
}

func (b *BioScreen) moveFocus(step int) tea.Cmd {
	b.inputs[b.focus].Blur()
	b.focus = (b.focus + step + fieldCount) % fieldCount
	return b.inputs[b.focus].Focus()
}

func (b *BioScreen) submit() tea.Cmd {
	for i := range b.inputs {
		b.inputs[i].SetError("")
	}
	b.saveErr = ""

	bio := b.Bio()
	if bio.Name == "" {
		b.inputs[fieldName].SetError("Please enter your name")
		return b.focusField(fieldName)
	}
	if err := bio.Validate(b.deps.Clock()); err != nil {
		b.inputs[fieldDOB].SetError(err.Error())
		return b.focusField(fieldDOB)
	}

	b.saving = true
	d := b.deps
	return func() tea.Msg {
		_, err := d.Profiles.UpdateBio(context.Background(), d.UserID, bio)
		if err != nil {
			d.Log().Error("failed to save bio", zap.Error(err))
		}
		return savedMsg{Bio: bio, Err: err}
	}
}

func (b *BioScreen) focusField(i int) tea.Cmd {
	b.inputs[b.focus].Blur()
	b.focus = i
	return b.inputs[i].Focus()
}

func (b *BioScreen) View(width, height int) string {
	var sections []string
	sections = append(sections,
		theme.Title.Render("Tell us about yourself"),
		theme.Subtitle.Render("Your details give context to your reports."),
	)
	for _, in := range b.inputs {
		sections = append(sections, in.View())
	}
	switch {
	case b.saving:
		sections = append(sections, theme.Hint.Render("Saving..."))
	case b.saveErr != "":
		sections = append(sections, theme.Failed.Render("Could not save: "+b.saveErr))
	}

	form := theme.Card.Width(min(width-8, 64)).Render(strings.Join(sections, "\n\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, form)
}
