// Package history lists past assessments.
package history

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ayurai/ayurai/internal/assessment"
	"github.com/ayurai/ayurai/internal/dosha"
	"github.com/ayurai/ayurai/internal/render"
	"github.com/ayurai/ayurai/internal/screen"
	"github.com/ayurai/ayurai/internal/screens/deps"
	"github.com/ayurai/ayurai/internal/ui/layout"
	"github.com/ayurai/ayurai/internal/ui/theme"
)

// Entry is one completed session: a baseline record and the current
// record taken with it. Either may be nil for records stored out of pair.
type Entry struct {
	Baseline *assessment.Record
	Current  *assessment.Record
}

type historyLoadedMsg struct {
	Entries []Entry
	Err     error
}

// HistoryScreen displays past sessions, newest first.
type HistoryScreen struct {
	deps     *deps.Deps
	entries  []Entry
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(d *deps.Deps) *HistoryScreen {
	return &HistoryScreen{
		deps:     d,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	d := s.deps
	return func() tea.Msg {
		recs, err := d.Assessments.History(context.Background(), d.UserID)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		entries := Pair(recs)
		slices.Reverse(entries)
		return historyLoadedMsg{Entries: entries}
	}
}

// Pair groups records, oldest first, into sessions. A baseline record is
// paired with the current record that directly follows it.
func Pair(recs []assessment.Record) []Entry {
	var out []Entry
	for i := 0; i < len(recs); i++ {
		r := recs[i]
		if r.Type == assessment.Baseline {
			e := Entry{Baseline: &recs[i]}
			if i+1 < len(recs) && recs[i+1].Type == assessment.Current {
				e.Current = &recs[i+1]
				i++
			}
			out = append(out, e)
			continue
		}
		out = append(out, Entry{Current: &recs[i]})
	}
	return out
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.entries = msg.Entries
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.entries)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.entries) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No assessments yet. Take your first one from the home screen.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, e := range s.entries {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  Prakriti %-5s  Vikriti %-5s",
			prefix, e.when().Local().Format("Jan 02, 2006 15:04"),
			dominant(e.Baseline), dominant(e.Current))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderDetail(e)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (e Entry) when() time.Time {
	if e.Baseline != nil {
		return e.Baseline.Timestamp
	}
	return e.Current.Timestamp
}

func dominant(r *assessment.Record) string {
	if r == nil {
		return "-"
	}
	return string(r.Dominant)
}

func renderDetail(e Entry) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	var parts []string
	if e.Baseline != nil {
		parts = append(parts, dim.Render("Baseline")+"\n"+render.TallyBars(e.Baseline.Scores, 16))
	}
	if e.Current != nil {
		parts = append(parts, dim.Render("Current")+"\n"+render.TallyBars(e.Current.Scores, 16))
	}
	if e.Baseline != nil && e.Current != nil {
		delta := dosha.Delta(e.Baseline.Scores, e.Current.Scores)
		parts = append(parts, dim.Render("Change")+"\n"+render.DeltaBars(delta, 8))
	}
	return strings.TrimRight(strings.Join(parts, "\n"), "\n")
}
