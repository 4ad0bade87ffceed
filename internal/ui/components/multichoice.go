package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ayurai/ayurai/internal/ui/theme"
)

// MultiChoice is a single-select option list. Enter, or pressing an
// option's letter, confirms the highlighted option.
type MultiChoice struct {
	Question string
	Options  []string
	Selected int
	// Chosen is the confirmed index, or -1.
	Chosen int
}

// NewMultiChoice creates a selector. preselect highlights a previously
// chosen option; pass -1 for none.
func NewMultiChoice(question string, options []string, preselect int) MultiChoice {
	sel := 0
	if preselect >= 0 && preselect < len(options) {
		sel = preselect
	}
	return MultiChoice{
		Question: question,
		Options:  options,
		Selected: sel,
		Chosen:   -1,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.Chosen = m.Selected
	default:
		if len(key) == 1 {
			if i := int(key[0] - 'a'); i >= 0 && i < len(m.Options) {
				m.Selected = i
				m.Chosen = i
			}
		}
	}

	return m, nil
}

// Confirmed reports whether an option has been chosen.
func (m MultiChoice) Confirmed() bool {
	return m.Chosen >= 0
}

// View renders the selector.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question) + "\n\n"

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%c)  %s", prefix, 'A'+i, opt)

		if i == m.Selected {
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		} else {
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}

	return s
}
