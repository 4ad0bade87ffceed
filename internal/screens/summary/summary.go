// Package summary shows the results of a finished questionnaire and saves
// them to the user's history.
package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/ayurai/ayurai/internal/assessment"
	"github.com/ayurai/ayurai/internal/dosha"
	"github.com/ayurai/ayurai/internal/profile"
	"github.com/ayurai/ayurai/internal/render"
	"github.com/ayurai/ayurai/internal/router"
	"github.com/ayurai/ayurai/internal/screen"
	"github.com/ayurai/ayurai/internal/screens/deps"
	"github.com/ayurai/ayurai/internal/ui/layout"
	"github.com/ayurai/ayurai/internal/ui/theme"
)

const (
	barWidth    = 24
	reportWidth = 76
)

// savedMsg reports the outcome of persisting the session.
type savedMsg struct {
	Err error
}

// reportMsg carries a rendered narrative report.
type reportMsg struct {
	Rendered string
	Err      error
}

// SummaryScreen displays both tallies and the delta. The tallies are shown
// whether or not saving succeeds.
type SummaryScreen struct {
	deps     *deps.Deps
	bio      profile.Bio
	baseline assessment.Record
	current  assessment.Record

	saving  bool
	saved   bool
	saveErr error

	generating bool
	report     string
	reportErr  error

	offset int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a summary for a finished session.
func New(d *deps.Deps, bio profile.Bio, baseline, current assessment.Record) *SummaryScreen {
	return &SummaryScreen{
		deps:     d,
		bio:      bio,
		baseline: baseline,
		current:  current,
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	s.saving = true
	return s.save()
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Home"}}
	if s.saveErr != nil {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Retry save"})
	}
	if s.canGenerate() {
		hints = append(hints, layout.KeyHint{Key: "N", Description: "Narrative report"})
	}
	if s.report != "" {
		hints = append(hints, layout.KeyHint{Key: "↑↓", Description: "Scroll"})
	}
	return hints
}

func (s *SummaryScreen) canGenerate() bool {
	return s.saved && !s.generating && s.report == "" && s.deps.NarrativeAvailable()
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		s.saving = false
		s.saveErr = msg.Err
		s.saved = msg.Err == nil
		return s, nil

	case reportMsg:
		s.generating = false
		s.report = msg.Rendered
		s.reportErr = msg.Err
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		case "r":
			if s.saveErr != nil && !s.saving {
				s.saving = true
				s.saveErr = nil
				return s, s.save()
			}
			if s.reportErr != nil && !s.generating {
				s.generating = true
				s.reportErr = nil
				return s, s.generate()
			}
		case "n":
			if s.canGenerate() {
				s.generating = true
				s.reportErr = nil
				return s, s.generate()
			}
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			s.offset++
		}
	}
	return s, nil
}

func (s *SummaryScreen) save() tea.Cmd {
	d, bio, baseline, current := s.deps, s.bio, s.baseline, s.current
	return func() tea.Msg {
		_, err := d.Assessments.Complete(context.Background(), d.UserID, bio, baseline, current)
		if err != nil {
			d.Log().Error("failed to save assessment", zap.Error(err))
		}
		return savedMsg{Err: err}
	}
}

func (s *SummaryScreen) generate() tea.Cmd {
	d := s.deps
	return func() tea.Msg {
		ctx := context.Background()
		in, err := d.NarrativeInput(ctx)
		if err != nil {
			return reportMsg{Err: err}
		}
		rep, err := d.Narrative.FullReport(ctx, in)
		if err != nil {
			return reportMsg{Err: err}
		}

		md := "## Your Prakriti\n\n" + rep.Prakriti
		switch {
		case rep.Comparative != "":
			md += "\n\n## Current Balance\n\n" + rep.Comparative
		case rep.ComparativeErr != nil && !errors.Is(rep.ComparativeErr, assessment.ErrNoComparison):
			md += "\n\n_Comparative analysis unavailable: " + rep.ComparativeErr.Error() + "_"
		}

		r, err := render.NewMarkdown(reportWidth, false)
		if err != nil {
			return reportMsg{Rendered: md}
		}
		return reportMsg{Rendered: r.RenderOrRaw(md)}
	}
}

func (s *SummaryScreen) View(width, height int) string {
	cw := min(width-4, reportWidth)
	var sections []string

	sections = append(sections, theme.Title.Width(cw).Render("Assessment complete"))

	sections = append(sections,
		renderResult(assessment.Baseline, s.baseline),
		renderResult(assessment.Current, s.current),
	)

	delta := dosha.Delta(s.baseline.Scores, s.current.Scores)
	sections = append(sections,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Change from your nature")+"\n"+
			theme.Body.Render(strings.TrimRight(render.DeltaBars(delta, barWidth/2), "\n")))

	sections = append(sections, s.renderStatus())

	if s.report != "" {
		sections = append(sections, render.Rule(cw), s.report)
	}

	content := strings.Join(sections, "\n\n")
	lines := strings.Split(content, "\n")
	if len(lines) > height && height > 0 {
		maxOffset := len(lines) - height
		s.offset = min(s.offset, maxOffset)
		lines = lines[s.offset : s.offset+height]
	} else {
		s.offset = 0
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(lines, "\n"))
}

func renderResult(pass assessment.Pass, rec assessment.Record) string {
	heading := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("%s (%s)", pass.Term(), pass))
	dom := lipgloss.NewStyle().Foreground(theme.DoshaColor(rec.Dominant)).Bold(true).
		Render(string(rec.Dominant))
	line := fmt.Sprintf("%s  %s  %s", heading, dom,
		theme.Hint.Render(rec.Dominant.Element()))
	bars := strings.TrimRight(render.TallyBars(rec.Scores, barWidth), "\n")
	return line + "\n" + theme.Body.Render(bars)
}

func (s *SummaryScreen) renderStatus() string {
	var lines []string
	switch {
	case s.saving:
		lines = append(lines, theme.Hint.Render("Saving to your history..."))
	case s.saveErr != nil:
		lines = append(lines,
			theme.Failed.Render("Could not save results: "+s.saveErr.Error()),
			theme.Hint.Render("Press R to retry."))
	case s.saved:
		lines = append(lines, theme.Done.Render("✓ Saved to your history"))
	}

	switch {
	case s.generating:
		lines = append(lines, theme.Hint.Render("Writing your narrative report..."))
	case s.reportErr != nil:
		lines = append(lines,
			theme.Failed.Render("Report failed: "+s.reportErr.Error()),
			theme.Hint.Render("Press R to try again."))
	case s.saved && s.report == "" && !s.deps.NarrativeAvailable():
		lines = append(lines, theme.Hint.Render("Configure an LLM provider for narrative reports."))
	case s.canGenerate():
		lines = append(lines, theme.Hint.Render("Press N for a narrative report."))
	}
	return strings.Join(lines, "\n")
}
