package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ayurai/ayurai/internal/ui/theme"
)

// ProgressBar displays a horizontal bar for value out of total.
type ProgressBar struct {
	Label string
	// LabelWidth pads the label so stacked bars line up.
	LabelWidth int
	Value      int
	Total      int
	Width      int
	Color      color.Color
}

// NewProgressBar creates a progress bar in the secondary color.
func NewProgressBar(label string, value, total, width int) ProgressBar {
	return ProgressBar{
		Label: label,
		Value: value,
		Total: total,
		Width: width,
		Color: theme.Secondary,
	}
}

// Fraction returns Value/Total clamped to [0, 1].
func (p ProgressBar) Fraction() float64 {
	if p.Total <= 0 || p.Value <= 0 {
		return 0
	}
	return min(float64(p.Value)/float64(p.Total), 1)
}

// View renders the bar followed by "value/total".
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		label := p.Label
		if pad := p.LabelWidth - lipgloss.Width(label); pad > 0 {
			label += strings.Repeat(" ", pad)
		}
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(label) + "  "
	}

	counter := fmt.Sprintf("  %d/%d", p.Value, p.Total)
	barWidth := p.Width - lipgloss.Width(result) - len(counter)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Fraction())
	empty := barWidth - filled

	fill := p.Color
	if fill == nil {
		fill = theme.Secondary
	}
	result += lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", empty))
	result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(counter)

	return result
}
