package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/ayurai/ayurai/internal/dosha"
	"github.com/ayurai/ayurai/internal/habits"
	"github.com/ayurai/ayurai/internal/profile"
	"github.com/ayurai/ayurai/internal/router"
	"github.com/ayurai/ayurai/internal/screen"
	"github.com/ayurai/ayurai/internal/screens/bio"
	"github.com/ayurai/ayurai/internal/screens/dashboard"
	"github.com/ayurai/ayurai/internal/screens/deps"
	"github.com/ayurai/ayurai/internal/screens/history"
	"github.com/ayurai/ayurai/internal/screens/quiz"
	"github.com/ayurai/ayurai/internal/ui/components"
)

// status is the summary line shown on the home screen.
type status struct {
	prakriti dosha.Dosha
	vikriti  dosha.Dosha
	planned  int
	done     int
}

// loadedMsg carries the profile and status.
type loadedMsg struct {
	Profile *profile.Profile
	Status  status
	Err     error
}

// HomeScreen is the main menu. It reloads whenever it becomes the active
// screen again.
type HomeScreen struct {
	deps          *deps.Deps
	menu          components.Menu
	menuLabels    []string
	profile       *profile.Profile
	status        status
	loadErr       error
	updateVersion string
	// autoStart opens the assessment as soon as the profile has loaded.
	autoStart bool
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen. updateVersion, when set, is announced as an
// available update.
func New(d *deps.Deps, updateVersion string) *HomeScreen {
	h := &HomeScreen{
		deps:          d,
		updateVersion: updateVersion,
		menuLabels:    []string{"TAKE ASSESSMENT", "DASHBOARD", "HISTORY", "QUIT"},
	}

	items := []components.MenuItem{
		{Label: h.menuLabels[0], Action: func() tea.Cmd {
			next := h.assessmentScreen()
			return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}},
		{Label: h.menuLabels[1], Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: dashboard.New(d)} }
		}},
		{Label: h.menuLabels[2], Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: history.New(d)} }
		}},
		{Label: h.menuLabels[3], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

// assessmentScreen asks for the bio first when the user has not given a
// name yet.
func (h *HomeScreen) assessmentScreen() screen.Screen {
	if h.profile == nil || h.profile.Bio.Name == "" {
		return bio.New(h.deps, h.profile)
	}
	return quiz.New(h.deps, h.profile.Bio)
}

// StartAssessment makes the home screen open the assessment once it has
// loaded, skipping the menu.
func (h *HomeScreen) StartAssessment() {
	h.autoStart = true
}

// Profile returns the last loaded profile, or nil.
func (h *HomeScreen) Profile() *profile.Profile {
	return h.profile
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) load() tea.Cmd {
	d := h.deps
	return func() tea.Msg {
		ctx := context.Background()
		p, err := d.Profiles.Get(ctx, d.UserID)
		if err != nil {
			return loadedMsg{Err: err}
		}
		var st status
		if p != nil {
			st.prakriti = p.Prakriti
		}
		cur, err := d.Assessments.LatestCurrent(ctx, d.UserID)
		if err != nil {
			return loadedMsg{Profile: p, Status: st, Err: err}
		}
		if cur != nil {
			st.vikriti = cur.Dominant
		}
		items, err := d.Habits.List(ctx, d.UserID)
		if err != nil {
			return loadedMsg{Profile: p, Status: st, Err: err}
		}
		planned := habits.Planned(items)
		st.planned = len(planned)
		st.done = habits.CompletedCount(planned)
		return loadedMsg{Profile: p, Status: st}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		h.profile = msg.Profile
		h.status = msg.Status
		h.loadErr = msg.Err
		if h.autoStart && msg.Err == nil {
			h.autoStart = false
			next := h.assessmentScreen()
			return h, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}
		return h, nil
	case router.RootResumedMsg:
		return h, h.load()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := contentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, RenderEmblem(h.status.prakriti))
	}
	sections = append(sections, renderStatusBar(h.status, cw, compact))

	if compact {
		sections = append(sections, renderMenuCompact(h.menuLabels, h.menu.Selected, cw))
	} else {
		sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw))
	}

	if !h.deps.NarrativeAvailable() {
		sections = append(sections, renderLLMBanner(cw))
	}
	if h.updateVersion != "" {
		sections = append(sections, renderUpdateNote(h.updateVersion, cw))
	}
	if h.loadErr != nil {
		sections = append(sections, renderLoadError(h.loadErr, cw))
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// Greeting is shown in the header, naming the user and their prakriti.
func (h *HomeScreen) Greeting() string {
	if h.profile == nil {
		return ""
	}
	var parts []string
	if h.profile.Bio.Name != "" {
		parts = append(parts, h.profile.Bio.Name)
	}
	if h.profile.Assessed() {
		parts = append(parts, string(h.profile.Prakriti))
	}
	return strings.Join(parts, " · ")
}
