// ABOUTME: Completion progress bars for courses and lessons
// ABOUTME: Colors shift from muted to blue to green as a course is finished

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBarConfig holds configuration for the progress bar
type ProgressBarConfig struct {
	Width        int
	StartedColor lipgloss.Color
	DoneColor    lipgloss.Color
	EmptyColor   lipgloss.Color
}

// DefaultProgressBarConfig returns sensible defaults
func DefaultProgressBarConfig() ProgressBarConfig {
	return ProgressBarConfig{
		Width:        20,
		StartedColor: lipgloss.Color("#3B82F6"), // Blue
		DoneColor:    lipgloss.Color("#10B981"), // Green
		EmptyColor:   lipgloss.Color("#374151"), // Dark gray
	}
}

// ProgressBar renders a bracketed completion bar
func ProgressBar(percent float64, config ProgressBarConfig) string {
	if config.Width <= 0 {
		config.Width = 20
	}
	percent = clampPercent(percent)

	filled := int(percent / 100.0 * float64(config.Width))
	color := config.StartedColor
	if percent >= 100 {
		color = config.DoneColor
	}

	var bar strings.Builder
	bar.WriteString("[")
	bar.WriteString(lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)))
	bar.WriteString(lipgloss.NewStyle().Foreground(config.EmptyColor).Render(strings.Repeat("░", config.Width-filled)))
	bar.WriteString("]")
	return bar.String()
}

// ProgressBarWithLabel renders progress bar followed by the percentage
// and, optionally, a lessons count such as "3/8"
func ProgressBarWithLabel(percent float64, completed, total int, config ProgressBarConfig) string {
	bar := ProgressBar(percent, config)

	color := config.EmptyColor
	switch {
	case percent >= 100:
		color = config.DoneColor
	case percent > 0:
		color = config.StartedColor
	}
	label := lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%3.0f%%", clampPercent(percent)))

	if total > 0 {
		return fmt.Sprintf("%s %s %d/%d", bar, label, completed, total)
	}
	return fmt.Sprintf("%s %s", bar, label)
}

// CompactProgressBar renders a minimal progress bar for table cells
func CompactProgressBar(percent float64, width int) string {
	if width <= 0 {
		width = 10
	}
	percent = clampPercent(percent)

	filled := int(percent / 100.0 * float64(width))
	return strings.Repeat("▓", filled) + strings.Repeat("░", width-filled)
}

func clampPercent(p float64) float64 {
	return max(0, min(p, 100))
}
