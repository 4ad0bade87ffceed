package narrative

import (
	"fmt"
	"strings"
)

// Mode selects the register of generated guidance.
type Mode string

const (
	Modern      Mode = "Modern"
	Traditional Mode = "Traditional"
	Integrated  Mode = "Integrated"
)

// DefaultMode is used when no mode is configured.
const DefaultMode = Integrated

// Modes returns every mode in display order.
func Modes() []Mode {
	return []Mode{Modern, Traditional, Integrated}
}

// ParseMode matches s case-insensitively. An empty string yields DefaultMode.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultMode, nil
	}
	for _, m := range Modes() {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown guidance mode %q (want Modern, Traditional or Integrated)", s)
}

// instruction is appended to every system prompt.
func (m Mode) instruction() string {
	switch m {
	case Modern:
		return "Explain everything in plain modern wellness language: sleep, nutrition, stress, movement. Mention Sanskrit terms only in parentheses."
	case Traditional:
		return "Use classical Ayurvedic vocabulary (doshas, gunas, agni, dinacharya, ritucharya) and cite traditional practices, with short English glosses."
	default:
		return "Blend classical Ayurvedic concepts with modern lifestyle science, naming the traditional idea and its everyday equivalent side by side."
	}
}
