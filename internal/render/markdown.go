// Package render formats scores, charts and generated Markdown for the
// terminal.
package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

const (
	defaultWidth = 80
	maxWidth     = 110
)

// Markdown renders generated narratives.
type Markdown struct {
	renderer *glamour.TermRenderer
}

// NewMarkdown creates a renderer wrapping at width. plain disables colors,
// for output that is not a terminal.
func NewMarkdown(width int, plain bool) (*Markdown, error) {
	style := glamour.WithStandardStyle("dark")
	if plain {
		style = glamour.WithStandardStyle("notty")
	}
	if width <= 0 {
		width = defaultWidth
	}

	r, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Markdown{renderer: r}, nil
}

// ForFile creates a renderer sized and styled for f.
func ForFile(f *os.File) (*Markdown, error) {
	return NewMarkdown(Width(f), !IsTerminal(f))
}

// Render renders content. Empty content renders as an empty string.
func (m *Markdown) Render(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", nil
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// RenderOrRaw renders content, falling back to the raw text on error.
func (m *Markdown) RenderOrRaw(content string) string {
	out, err := m.Render(content)
	if err != nil {
		return content
	}
	return out
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Width returns a comfortable wrap width for f.
func Width(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	w -= 4
	if w > maxWidth {
		w = maxWidth
	}
	return w
}
