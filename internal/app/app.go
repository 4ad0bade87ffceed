// Package app runs the terminal UI.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/ayurai/ayurai/internal/router"
	"github.com/ayurai/ayurai/internal/screen"
	"github.com/ayurai/ayurai/internal/screens/deps"
	"github.com/ayurai/ayurai/internal/screens/home"
	"github.com/ayurai/ayurai/internal/screens/welcome"
	"github.com/ayurai/ayurai/internal/ui/layout"
)

// Options configures the UI.
type Options struct {
	Deps *deps.Deps
	// StartInQuiz skips the splash and menu and opens the assessment.
	StartInQuiz bool
	// UpdateVersion, when set, is announced on the home screen.
	UpdateVersion string
}

// greeter is implemented by screens that supply the header status.
type greeter interface {
	Greeting() string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates the root model. The welcome splash hands over to the
// home screen, which becomes the root of the stack.
func newAppModel(opts Options) AppModel {
	homeScreen := home.New(opts.Deps, opts.UpdateVersion)
	if opts.StartInQuiz {
		homeScreen.StartAssessment()
		return AppModel{router: router.New(homeScreen)}
	}
	splash := welcome.New(func() screen.Screen { return homeScreen })
	return AppModel{router: router.New(splash)}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// status returns the header status from the root screen.
func (m AppModel) status() string {
	if g, ok := m.router.Root().(greeter); ok {
		return g.Greeting()
	}
	return ""
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.TooSmall(m.width, m.height) {
		v.SetContent(layout.TooSmallMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	// The splash screen has no title and fills the terminal.
	if title == "" {
		v.SetContent(m.router.View(m.width, m.height))
		return v
	}

	frame := layout.Frame{Title: title, Status: m.status(), Hints: m.footerHints()}.
		Render(m.width, m.height, m.router.View)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		opts.Deps.Log().Error("tui exited with error", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
