// ABOUTME: Compact metric block widget for dashboard displays
// ABOUTME: Draws titled cards holding a value, an optional bar, and a caption

package widgets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/course-progress/internal/tui/icons"
	"github.com/markalston/course-progress/internal/tui/styles"
)

// MetricBlockConfig holds configuration for a metric block
type MetricBlockConfig struct {
	Width       int
	BorderColor lipgloss.Color
	TitleColor  lipgloss.Color
	ValueColor  lipgloss.Color
}

// DefaultMetricBlockConfig returns sensible defaults
func DefaultMetricBlockConfig() MetricBlockConfig {
	return MetricBlockConfig{
		Width:       22,
		BorderColor: styles.Surface,
		TitleColor:  styles.Primary,
		ValueColor:  styles.Text,
	}
}

// MetricBlock renders a value with a muted caption
func MetricBlock(icon icons.Icon, title string, value string, subtitle string, config MetricBlockConfig) string {
	config = withDefaultWidth(config)
	value = lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true).Render(value)
	return card(icon, title, config, value, caption(subtitle, config))
}

// MetricBlockWithBar renders a completion percentage with a bar under it
func MetricBlockWithBar(icon icons.Icon, title string, percent float64, details string, config MetricBlockConfig) string {
	config = withDefaultWidth(config)
	percent = clampPercent(percent)

	color, mark := completionStatus(percent)
	tint := lipgloss.NewStyle().Foreground(color)
	value := tint.Bold(true).Render(fmt.Sprintf("%3.0f%%", percent)) + " " + tint.Render(mark)
	bar := tint.Render(CompactProgressBar(percent, max(1, config.Width-6)))

	return card(icon, title, config, value, bar, caption(details, config))
}

// CountBlock renders a simple count metric (like enrolled course counts)
func CountBlock(icon icons.Icon, title string, count int, label string, config MetricBlockConfig) string {
	return MetricBlock(icon, title, strconv.Itoa(count), label, config)
}

func withDefaultWidth(config MetricBlockConfig) MetricBlockConfig {
	if config.Width <= 0 {
		config.Width = 22
	}
	return config
}

func caption(s string, config MetricBlockConfig) string {
	return lipgloss.NewStyle().Foreground(styles.Muted).Render(truncate(s, config.Width-4))
}

// card draws a box config.Width cells wide with the title set into the
// top border and one body row per line
func card(icon icons.Icon, title string, config MetricBlockConfig, lines ...string) string {
	inner := config.Width - 4
	border := lipgloss.NewStyle().Foreground(config.BorderColor)

	label := truncate(icon.String()+" "+title, inner-1)
	rows := make([]string, 0, len(lines)+2)
	rows = append(rows, border.Render("┌─ ")+
		lipgloss.NewStyle().Foreground(config.TitleColor).Render(label)+
		border.Render(" "+strings.Repeat("─", max(0, inner-1-lipgloss.Width(label)))+"┐"))
	for _, line := range lines {
		rows = append(rows, border.Render("│  ")+padRight(line, inner)+border.Render("│"))
	}
	rows = append(rows, border.Render("└"+strings.Repeat("─", config.Width-2)+"┘"))
	return strings.Join(rows, "\n")
}

func completionStatus(percent float64) (lipgloss.Color, string) {
	mark := icons.Circle
	switch {
	case percent >= 100:
		mark = icons.CheckOK
	case percent > 0:
		mark = icons.Pending
	}
	return styles.CompletionColor(percent), mark.String()
}

// padRight pads a possibly styled string to width display cells
func padRight(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-lipgloss.Width(s)))
}

// truncate shortens a string to maxLen runes with ellipsis if needed
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:max(0, maxLen)])
	}
	return string(r[:maxLen-3]) + "..."
}
