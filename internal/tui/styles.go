// Package tui provides terminal user interface components.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette shared by the try view and styled command output.
// Slots are named after what they color.
type Theme struct {
	Accent  lipgloss.AdaptiveColor // prompt, spinner, summaries
	Text    lipgloss.AdaptiveColor
	Muted   lipgloss.AdaptiveColor // labels, hints, metadata
	Tag     lipgloss.AdaptiveColor
	Handler lipgloss.AdaptiveColor // matched handler, warnings
	Guess   lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor
}

// DefaultTheme returns the built-in palette.
func DefaultTheme() Theme {
	return Theme{
		Accent:  lipgloss.AdaptiveColor{Light: "#1a73e8", Dark: "#8ab4f8"},
		Text:    lipgloss.AdaptiveColor{Light: "#202124", Dark: "#e8eaed"},
		Muted:   lipgloss.AdaptiveColor{Light: "#80868b", Dark: "#6e7681"},
		Tag:     lipgloss.AdaptiveColor{Light: "#5f6368", Dark: "#9aa0a6"},
		Handler: lipgloss.AdaptiveColor{Light: "#f9ab00", Dark: "#fdd663"},
		Guess:   lipgloss.AdaptiveColor{Light: "#1e8e3e", Dark: "#81c995"},
		Error:   lipgloss.AdaptiveColor{Light: "#d93025", Dark: "#f28b82"},
	}
}

// NoColorTheme returns a palette of empty colors, which lipgloss renders
// as plain text.
func NoColorTheme() Theme {
	return Theme{}
}

// Styles are the lipgloss styles of the try view.
type Styles struct {
	Prompt  lipgloss.Style
	Spinner lipgloss.Style
	Body    lipgloss.Style
	Muted   lipgloss.Style
	Word    lipgloss.Style
	Tag     lipgloss.Style
	Handler lipgloss.Style
	Guess   lipgloss.Style
	Miss    lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles derives the try view styles from a theme.
func NewStyles(theme Theme) *Styles {
	fg := func(c lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	return &Styles{
		Prompt:  fg(theme.Accent).Bold(true),
		Spinner: fg(theme.Accent),
		Body:    fg(theme.Text),
		Muted:   fg(theme.Muted),
		Word:    fg(theme.Text).Bold(true),
		Tag:     fg(theme.Tag),
		Handler: fg(theme.Handler),
		Guess:   fg(theme.Guess),
		Miss:    fg(theme.Handler),
		Error:   fg(theme.Error),
	}
}

// RenderToken renders a scanned word followed by its tags.
func (s *Styles) RenderToken(word string, tags []string) string {
	out := s.Word.Render(word)
	for _, t := range tags {
		out += " " + s.Tag.Render(t)
	}
	return out
}
