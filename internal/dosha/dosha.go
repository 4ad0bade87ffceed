package dosha

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Dosha is one of the three constitutional categories an answer weighs toward.
type Dosha string

const (
	Vata  Dosha = "Vata"
	Pitta Dosha = "Pitta"
	Kapha Dosha = "Kapha"

	// Unknown marks a profile that has not completed an assessment yet.
	// It is never a valid answer category.
	Unknown Dosha = "Unknown"
)

// Canonical returns the three categories in tie-break precedence order.
func Canonical() []Dosha {
	return []Dosha{Vata, Pitta, Kapha}
}

// Valid reports whether d is one of the three canonical categories.
func (d Dosha) Valid() bool {
	switch d {
	case Vata, Pitta, Kapha:
		return true
	default:
		return false
	}
}

// Parse maps a case-insensitive name to a canonical category.
func Parse(s string) (Dosha, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vata":
		return Vata, true
	case "pitta":
		return Pitta, true
	case "kapha":
		return Kapha, true
	default:
		return Unknown, false
	}
}

// UnmarshalYAML accepts category names in any case. Unrecognized names are
// kept as written so validation can report them.
func (d *Dosha) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if parsed, ok := Parse(s); ok {
		*d = parsed
		return nil
	}
	*d = Dosha(s)
	return nil
}

// Element returns the elemental pairing used in report text.
func (d Dosha) Element() string {
	switch d {
	case Vata:
		return "Air + Space"
	case Pitta:
		return "Fire + Water"
	case Kapha:
		return "Earth + Water"
	default:
		return ""
	}
}

// Color returns the hex color used for this category in the terminal UI.
func (d Dosha) Color() string {
	switch d {
	case Vata:
		return "#60A5FA"
	case Pitta:
		return "#F87171"
	case Kapha:
		return "#4ADE80"
	default:
		return "#94A3B8"
	}
}
