// Package layout draws the frame around every titled screen: a header bar
// with the app name, screen title and the user's status, and a footer of
// key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ayurai/ayurai/internal/ui/theme"
)

// Smallest terminal the frame is drawn in.
const (
	MinWidth  = 80
	MinHeight = 24
)

const brand = "AyurAI"

// KeyHint is one footer entry, e.g. {"Space", "Toggle done"}.
type KeyHint struct {
	Key         string
	Description string
}

// TooSmall reports whether the terminal is below MinWidth x MinHeight.
func TooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// TooSmallMessage asks the user to enlarge the terminal.
func TooSmallMessage(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("Please enlarge the terminal to at least %d x %d.\n\nNow: %d x %d",
			MinWidth, MinHeight, width, height))
}

// Frame is the chrome of a titled screen.
type Frame struct {
	Title string
	// Status is shown on the right of the header: name and prakriti.
	Status string
	Hints  []KeyHint
}

// Render draws the frame at width x height. body renders the screen into
// the rows left between header and footer.
func (f Frame) Render(width, height int, body func(width, height int) string) string {
	header := f.header(width)
	footer := f.footer(width)

	rows := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := lipgloss.NewStyle().Width(width).Height(rows).MaxHeight(rows).Render(body(width, rows))

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (f Frame) header(width int) string {
	inner := max(width-4, 0)
	side := inner / 4

	left := lipgloss.NewStyle().Width(side).Bold(true).Foreground(theme.Primary).Render(" " + brand)
	right := lipgloss.NewStyle().Width(side).Align(lipgloss.Right).Foreground(theme.Accent).Render(f.Status)
	center := lipgloss.NewStyle().Width(inner - 2*side).Align(lipgloss.Center).Foreground(theme.Text).Render(f.Title)

	return bar(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, left, center, right))
}

func (f Frame) footer(width int) string {
	key := lipgloss.NewStyle().Bold(true).Foreground(theme.Text)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(f.Hints))
	for i, h := range f.Hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar(width).Render(" " + strings.Join(parts, desc.Render("  ·  ")))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}
