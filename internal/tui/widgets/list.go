// ABOUTME: Cursor tracking and rendering for hand-drawn selectable lists
// ABOUTME: Used by lesson, enrollment, and pending-request lists

package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// List tracks a cursor over a list of n items
type List struct {
	cursor int
	n      int
}

// SetLen updates the item count and keeps the cursor in range
func (l *List) SetLen(n int) {
	l.n = max(0, n)
	l.cursor = max(0, min(l.cursor, l.n-1))
}

// Len returns the item count
func (l *List) Len() int {
	return l.n
}

// Cursor returns the selected index, or -1 for an empty list
func (l *List) Cursor() int {
	if l.n == 0 {
		return -1
	}
	return l.cursor
}

// Move handles navigation keys and reports whether key was consumed
func (l *List) Move(key string) bool {
	switch key {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}
	case "down", "j":
		if l.cursor < l.n-1 {
			l.cursor++
		}
	case "home", "g":
		l.cursor = 0
	case "end", "G":
		l.cursor = max(0, l.n-1)
	default:
		return false
	}
	return true
}

// Render draws lines with a "> " marker on the cursor row. An unfocused
// list keeps the marker but dims every row.
func (l *List) Render(lines []string, focused bool) string {
	var b strings.Builder
	for i, line := range lines {
		cursor := "  "
		style := normalStyle
		if !focused {
			style = dimStyle
		}
		if i == l.cursor {
			cursor = "> "
			if focused {
				style = selectedStyle
			}
		}
		b.WriteString(cursor + style.Render(line))
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
