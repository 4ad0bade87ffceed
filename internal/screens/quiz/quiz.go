// Package quiz runs the two-pass questionnaire.
package quiz

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ayurai/ayurai/internal/assessment"
	"github.com/ayurai/ayurai/internal/profile"
	"github.com/ayurai/ayurai/internal/router"
	"github.com/ayurai/ayurai/internal/screen"
	"github.com/ayurai/ayurai/internal/screens/deps"
	"github.com/ayurai/ayurai/internal/screens/summary"
	"github.com/ayurai/ayurai/internal/ui/components"
	"github.com/ayurai/ayurai/internal/ui/layout"
	"github.com/ayurai/ayurai/internal/ui/theme"
)

// QuizScreen asks every question once for the baseline pass and once for
// the current pass, then hands the records to the summary screen.
type QuizScreen struct {
	deps    *deps.Deps
	bio     profile.Bio
	session *assessment.Session
	choice  components.MultiChoice
	// intro is true while the pass introduction card is showing.
	intro  bool
	errMsg string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a quiz over d.Bank. bio is stored with the profile if the
// user has none yet.
func New(d *deps.Deps, bio profile.Bio) *QuizScreen {
	q := &QuizScreen{
		deps:    d,
		bio:     bio,
		session: assessment.NewSession(d.Bank),
		intro:   true,
	}
	q.syncChoice()
	return q
}

func (q *QuizScreen) Init() tea.Cmd {
	return nil
}

func (q *QuizScreen) Title() string {
	return "Assessment"
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	if q.intro {
		hints := []layout.KeyHint{
			{Key: "Enter", Description: "Begin"},
			{Key: "Esc", Description: "Quit"},
		}
		if q.session.Pass() == assessment.Current {
			hints = append(hints, layout.KeyHint{Key: "Backspace", Description: "Previous"})
		}
		return hints
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "A-" + string(rune('A'+max(len(q.choice.Options)-1, 0))), Description: "Choose"},
		{Key: "Enter", Description: "Select"},
		{Key: "Backspace", Description: "Previous"},
	}
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return q, nil
	}

	if kmsg.String() == "backspace" {
		if q.session.Back() {
			q.intro = false
			q.errMsg = ""
			q.syncChoice()
		}
		return q, nil
	}

	if q.intro {
		switch kmsg.String() {
		case "enter", "space", " ":
			q.intro = false
		}
		return q, nil
	}

	var cmd tea.Cmd
	q.choice, cmd = q.choice.Update(msg)
	if !q.choice.Confirmed() {
		return q, cmd
	}
	return q.answer(q.choice.Chosen)
}

func (q *QuizScreen) answer(option int) (screen.Screen, tea.Cmd) {
	pass := q.session.Pass()
	if err := q.session.Choose(option); err != nil {
		q.errMsg = err.Error()
		q.syncChoice()
		return q, nil
	}
	q.errMsg = ""

	if q.session.Done() {
		baseline, current, err := q.session.Records(q.deps.UserID, q.deps.Clock())
		if err != nil {
			q.errMsg = err.Error()
			return q, nil
		}
		next := summary.New(q.deps, q.bio, baseline, current)
		return q, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}

	if q.session.Pass() != pass {
		q.intro = true
	}
	q.syncChoice()
	return q, nil
}

// syncChoice rebuilds the option list for the current question, keeping
// any answer already given in this pass highlighted.
func (q *QuizScreen) syncChoice() {
	cur, ok := q.session.Current()
	if !ok {
		return
	}
	opts := make([]string, len(cur.Options))
	for i, o := range cur.Options {
		opts[i] = o.Text
	}
	q.choice = components.NewMultiChoice(cur.Prompt, opts, q.session.Selected())
}

func (q *QuizScreen) View(width, height int) string {
	if q.intro {
		return q.renderIntro(width, height)
	}
	cur, ok := q.session.Current()
	if !ok {
		return ""
	}

	pos, total := q.session.Progress()
	pass := q.session.Pass()
	cw := min(width-4, 76)

	var b strings.Builder

	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("%s  ·  %s", pass.Term(), cur.Group.DisplayName()))
	right := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("Question %d of %d", q.session.Index()+1, q.deps.Bank.Len()))
	gap := cw - lipgloss.Width(left) - lipgloss.Width(right)
	b.WriteString(left + strings.Repeat(" ", max(gap, 1)) + right)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw)))
	b.WriteString("\n")

	bar := components.NewProgressBar("Overall", pos, total, max(cw-24, 10))
	bar.Color = theme.Primary
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	b.WriteString(theme.Hint.Render(pass.Framing()))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(cw).Render(q.choice.View()))

	if q.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.Failed.Render(q.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.NewStyle().PaddingTop(1).Render(b.String()))
}

func (q *QuizScreen) renderIntro(width, height int) string {
	pass := q.session.Pass()
	step := 1
	if pass == assessment.Current {
		step = 2
	}

	lines := []string{
		theme.Title.Render(fmt.Sprintf("Part %d of 2: %s", step, pass.Term())),
		"",
		theme.Body.Render(pass.Framing()),
		"",
		theme.Hint.Render(fmt.Sprintf("%d questions. Press Enter to begin.", q.deps.Bank.Len())),
	}
	card := theme.Card.Width(min(width-8, 72)).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
