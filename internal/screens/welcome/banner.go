package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/ayurai/ayurai/internal/ui/theme"
)

const bannerArt = `
  █████╗ ██╗   ██╗██╗   ██╗██████╗  █████╗ ██╗
 ██╔══██╗╚██╗ ██╔╝██║   ██║██╔══██╗██╔══██╗██║
 ███████║ ╚████╔╝ ██║   ██║██████╔╝███████║██║
 ██╔══██║  ╚██╔╝  ██║   ██║██╔══██╗██╔══██║██║
 ██║  ██║   ██║   ╚██████╔╝██║  ██║██║  ██║██║
 ╚═╝  ╚═╝   ╚═╝    ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝`

const bannerCompact = "A Y U R A I"

// Tagline is shown under the banner.
const Tagline = "Know your nature. Restore your balance."

// RenderBanner returns the banner in the primary color, or a compact
// fallback for terminals narrower than 50 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 50 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
