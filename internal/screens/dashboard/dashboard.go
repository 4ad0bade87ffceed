// Package dashboard shows the user's nature, current balance, vitals and
// daily plan.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/ayurai/ayurai/internal/habits"
	"github.com/ayurai/ayurai/internal/narrative"
	"github.com/ayurai/ayurai/internal/render"
	"github.com/ayurai/ayurai/internal/screen"
	"github.com/ayurai/ayurai/internal/screens/deps"
	"github.com/ayurai/ayurai/internal/ui/layout"
	"github.com/ayurai/ayurai/internal/ui/theme"
)

const (
	barWidth     = 20
	activityDays = 14
)

// loadedMsg carries everything the dashboard displays.
type loadedMsg struct {
	Input narrative.Input
	Err   error
}

// toggledMsg reports a completed checklist toggle.
type toggledMsg struct {
	Item habits.Item
	Err  error
}

// suggestionsMsg carries quick suggestions for today.
type suggestionsMsg struct {
	Tips []string
	Err  error
}

// DashboardScreen is the overview of one user.
type DashboardScreen struct {
	deps    *deps.Deps
	loading bool
	data    narrative.Input
	loadErr error

	planned []habits.Item
	cursor  int
	flash   string

	suggesting bool
	tips       []string
	tipsErr    error
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)

// New creates the dashboard. Data loads on Init.
func New(d *deps.Deps) *DashboardScreen {
	return &DashboardScreen{deps: d}
}

func (s *DashboardScreen) Init() tea.Cmd {
	s.loading = true
	return s.load()
}

func (s *DashboardScreen) Title() string {
	return "Dashboard"
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{}
	if len(s.planned) > 0 {
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Move"},
			layout.KeyHint{Key: "Space", Description: "Toggle done"},
		)
	}
	if s.deps.NarrativeAvailable() && s.data.Profile.Assessed() {
		hints = append(hints, layout.KeyHint{Key: "S", Description: "Suggestions"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *DashboardScreen) load() tea.Cmd {
	d := s.deps
	return func() tea.Msg {
		in, err := d.NarrativeInput(context.Background())
		return loadedMsg{Input: in, Err: err}
	}
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loading = false
		s.loadErr = msg.Err
		s.data = msg.Input
		s.planned = habits.Planned(msg.Input.Plan)
		s.cursor = min(s.cursor, max(len(s.planned)-1, 0))
		return s, nil

	case toggledMsg:
		if msg.Err != nil {
			s.flash = "Could not update: " + msg.Err.Error()
			return s, nil
		}
		if msg.Item.Done() {
			s.flash = "✓ " + msg.Item.Title
		} else {
			s.flash = "Unchecked " + msg.Item.Title
		}
		return s, s.load()

	case suggestionsMsg:
		s.suggesting = false
		s.tips = msg.Tips
		s.tipsErr = msg.Err
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.planned)-1 {
				s.cursor++
			}
		case "space", " ", "enter":
			if s.cursor < len(s.planned) {
				return s, s.toggle(s.planned[s.cursor].ID)
			}
		case "s":
			if !s.suggesting && s.deps.NarrativeAvailable() && s.data.Profile.Assessed() {
				s.suggesting = true
				s.tipsErr = nil
				return s, s.suggest()
			}
		case "r":
			s.loading = true
			return s, s.load()
		}
	}
	return s, nil
}

func (s *DashboardScreen) toggle(id string) tea.Cmd {
	d := s.deps
	return func() tea.Msg {
		it, err := d.Habits.Toggle(context.Background(), d.UserID, id)
		if err != nil {
			d.Log().Warn("failed to toggle habit", zap.String("id", id), zap.Error(err))
		}
		return toggledMsg{Item: it, Err: err}
	}
}

func (s *DashboardScreen) suggest() tea.Cmd {
	d, in := s.deps, s.data
	return func() tea.Msg {
		tips, err := d.Narrative.QuickSuggestions(context.Background(), in)
		return suggestionsMsg{Tips: tips, Err: err}
	}
}

func (s *DashboardScreen) View(width, height int) string {
	switch {
	case s.loading && s.data.Profile == nil:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading..."))
	case s.loadErr != nil:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Failed.Render("Could not load your data: "+s.loadErr.Error()))
	case !s.data.Profile.Assessed():
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Body.Render("No assessment yet.")+"\n\n"+
				theme.Hint.Render("Choose TAKE ASSESSMENT on the home screen to discover your prakriti."))
	}

	colWidth := (min(width, 120) - 6) / 2
	left := lipgloss.JoinVertical(lipgloss.Left,
		s.renderNature(colWidth),
		"",
		s.renderBalance(colWidth),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		s.renderPlan(colWidth),
		"",
		s.renderVitals(colWidth),
	)
	if s.suggesting || len(s.tips) > 0 || s.tipsErr != nil {
		right = lipgloss.JoinVertical(lipgloss.Left, right, "", s.renderTips(colWidth))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(colWidth).Render(left),
		"    ",
		lipgloss.NewStyle().Width(colWidth).Render(right),
	)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, "\n"+body)
}

func heading(s string) string {
	return lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(s)
}

func (s *DashboardScreen) renderNature(w int) string {
	p := s.data.Profile
	var b strings.Builder
	b.WriteString(heading("Your Nature"))
	b.WriteString("\n")

	dom := lipgloss.NewStyle().Foreground(theme.DoshaColor(p.Prakriti)).Bold(true).Render(string(p.Prakriti))
	fmt.Fprintf(&b, "%s  %s\n", dom, theme.Hint.Render(p.Prakriti.Element()))
	if p.Bio.Name != "" {
		line := p.Bio.Name
		if age := p.Age(s.deps.Clock()); age >= 0 {
			line += fmt.Sprintf(", %d", age)
		}
		if p.Bio.CurrentLocation != "" {
			line += "  ·  " + p.Bio.CurrentLocation
		}
		b.WriteString(theme.Body.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(theme.Body.Render(strings.TrimRight(render.TallyBars(p.PrakritiScores, min(barWidth, w-20)), "\n")))
	return b.String()
}

func (s *DashboardScreen) renderBalance(w int) string {
	var b strings.Builder
	b.WriteString(heading("Current Balance"))
	b.WriteString("\n")

	cmp := s.data.Comparison
	if cmp == nil {
		b.WriteString(theme.Hint.Render("Complete an assessment to see your vikriti."))
		return b.String()
	}
	cur := cmp.Current
	dom := lipgloss.NewStyle().Foreground(theme.DoshaColor(cur.Dominant)).Bold(true).Render(string(cur.Dominant))
	fmt.Fprintf(&b, "%s  %s\n", dom, theme.Hint.Render("as of "+cur.Timestamp.Local().Format("Jan 2")))
	b.WriteString(theme.Body.Render(strings.TrimRight(render.TallyBars(cur.Scores, min(barWidth, w-20)), "\n")))
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Change from your nature"))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(strings.TrimRight(render.DeltaBars(cmp.Delta, barWidth/2), "\n")))
	return b.String()
}

func (s *DashboardScreen) renderPlan(w int) string {
	var b strings.Builder
	now := s.deps.Clock()
	done := habits.CompletedCount(s.planned)
	b.WriteString(heading(fmt.Sprintf("Daily Plan  %d/%d", done, len(s.planned))))
	if streak := habits.Streak(s.data.Plan, now); streak > 0 {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("   %d-day streak", streak)))
	}
	b.WriteString("\n")

	if len(s.planned) == 0 {
		b.WriteString(theme.Hint.Render("No planned habits. Add some with: ayurai plan add"))
		return b.String()
	}
	for i, it := range s.planned {
		box := "[ ]"
		style := theme.Unselected
		if it.Done() {
			box = "[x]"
			style = theme.Done
		}
		prefix := "  "
		if i == s.cursor {
			prefix = "▸ "
			style = theme.Selected
		}
		line := fmt.Sprintf("%s%s %s", prefix, box, it.Title)
		b.WriteString(style.MaxWidth(max(w-10, 12)).Render(line))
		b.WriteString(theme.Hint.Render("  " + string(it.Category)))
		b.WriteString("\n")
	}
	if graph := render.ActivityGraph(habits.Activity(s.data.Plan, now, activityDays)); graph != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(strings.TrimRight(graph, "\n")))
	}
	if s.flash != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(s.flash))
	}
	return b.String()
}

func (s *DashboardScreen) renderVitals(int) string {
	var b strings.Builder
	b.WriteString(heading("Vitals"))
	b.WriteString("\n")
	if len(s.data.Vitals) == 0 {
		b.WriteString(theme.Hint.Render("Nothing logged. Try: ayurai vitals add weight 64"))
		return b.String()
	}
	for _, v := range s.data.Vitals {
		fmt.Fprintf(&b, "%-12s %s  %s\n", v.Kind.Label(), theme.Body.Render(v.Display()),
			theme.Hint.Render(v.Timestamp.Local().Format("Jan 2")))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *DashboardScreen) renderTips(w int) string {
	var b strings.Builder
	b.WriteString(heading("Today"))
	b.WriteString("\n")
	switch {
	case s.suggesting:
		b.WriteString(theme.Hint.Render("Thinking..."))
	case s.tipsErr != nil:
		b.WriteString(theme.Failed.Render(s.tipsErr.Error()))
	default:
		for _, t := range s.tips {
			b.WriteString(lipgloss.NewStyle().Width(w).Render("• " + t))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
