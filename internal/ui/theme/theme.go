package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/ayurai/ayurai/internal/dosha"
)

// Color palette, warm and earthy
var (
	Primary   = lipgloss.Color("#D97706") // Turmeric
	Secondary = lipgloss.Color("#0D9488") // Tulsi teal
	Accent    = lipgloss.Color("#E11D48") // Hibiscus
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#1C1917") // Stone
	BgCard    = lipgloss.Color("#292524") // Warm slate
	Border    = lipgloss.Color("#44403C") // Stone border
)

// DoshaColor returns the display color for a category.
func DoshaColor(d dosha.Dosha) color.Color {
	return lipgloss.Color(d.Color())
}

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Done = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Failed = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)
