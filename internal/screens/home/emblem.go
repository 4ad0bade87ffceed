package home

import (
	"charm.land/lipgloss/v2"

	"github.com/ayurai/ayurai/internal/dosha"
	"github.com/ayurai/ayurai/internal/ui/theme"
)

const emblemVata = `  ~  ~  ~
 ~  ≈≈≈  ~
  ~  ~  ~`

const emblemPitta = `    (
   ) )
  ( ( (
 ▀▀▀▀▀▀▀`

const emblemKapha = `  .-~~-.
 (  ≋≋  )
  '-..-'`

const emblemUnknown = `   .-.
  ( ? )
   '-'`

// RenderEmblem returns the element art for a prakriti, or a question mark
// before the first assessment.
func RenderEmblem(d dosha.Dosha) string {
	art := emblemUnknown
	var fg = theme.TextDim

	switch d {
	case dosha.Vata:
		art = emblemVata
	case dosha.Pitta:
		art = emblemPitta
	case dosha.Kapha:
		art = emblemKapha
	}
	if d.Valid() {
		fg = theme.DoshaColor(d)
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
