// ABOUTME: Shared lipgloss styles for consistent TUI appearance
// ABOUTME: Defines colors, borders, and text styles used across views

package styles

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	Primary   = lipgloss.Color("#14B8A6") // teal
	Secondary = lipgloss.Color("#22C55E") // completed
	Warning   = lipgloss.Color("#EAB308") // pending
	Danger    = lipgloss.Color("#F43F5E")
	Muted     = lipgloss.Color("#64748B")
	Text      = lipgloss.Color("#F1F5F9")
	Accent    = lipgloss.Color("#5EEAD4")
	Surface   = lipgloss.Color("#334155")
	Info      = lipgloss.Color("#38BDF8") // in progress

	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)
	Subtitle = lipgloss.NewStyle().Foreground(Muted).MarginBottom(1)

	StatusOK       = bold(Secondary)
	StatusWarning  = bold(Warning)
	StatusCritical = bold(Danger)

	// Panels use the rounded border; the focused one is tinted
	Panel       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Surface).Padding(1, 2)
	ActivePanel = Panel.BorderForeground(Primary)

	Help = lipgloss.NewStyle().Foreground(Muted).MarginTop(1)
)

func bold(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

// CompletionColor ramps from muted (not started) through blue to green (done)
func CompletionColor(percent float64) lipgloss.Color {
	switch {
	case percent >= 100:
		return Secondary
	case percent > 0:
		return Info
	default:
		return Muted
	}
}

// Error renders an inline error line
func Error(msg string) string {
	return StatusCritical.Render("Error: " + msg)
}
