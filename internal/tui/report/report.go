// ABOUTME: Student analytics view grouping approved courses by completion
// ABOUTME: Shows overall progress and side-by-side Completed / In Progress / Not Started columns

package report

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/course-progress/internal/analytics"
	"github.com/markalston/course-progress/internal/route"
	"github.com/markalston/course-progress/internal/tui/icons"
	"github.com/markalston/course-progress/internal/tui/nav"
	"github.com/markalston/course-progress/internal/tui/styles"
	"github.com/markalston/course-progress/internal/tui/widgets"
)

type builtMsg struct {
	report analytics.Report
}

// Report displays the analytics of a student's enrolled courses
type Report struct {
	ctx    context.Context
	src    analytics.Source
	report *analytics.Report
	width  int
	height int
}

// New creates the analytics view
func New(ctx context.Context, src analytics.Source) *Report {
	return &Report{ctx: ctx, src: src, width: 80}
}

// Init implements tea.Model
func (r *Report) Init() tea.Cmd {
	return r.build()
}

func (r *Report) build() tea.Cmd {
	return func() tea.Msg {
		rep, err := analytics.Build(r.ctx, r.src, analytics.DefaultConcurrency)
		if err != nil {
			return nav.Fail(fmt.Errorf("failed to build analytics: %w", err))
		}
		return builtMsg{report: rep}
	}
}

// Update implements tea.Model
func (r *Report) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case builtMsg:
		r.report = &msg.report
		return r, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			r.report = nil
			return r, r.build()
		case "esc", "b":
			return r, nav.Navigate(route.StudentDashboard)
		}
	}
	return r, nil
}

// SetSize implements nav.View
func (r *Report) SetSize(width, height int) {
	r.width = width
	r.height = height
}

// Shortcuts implements nav.View
func (r *Report) Shortcuts() []string {
	return []string{"r Reload", "b Back"}
}

// CapturesInput implements nav.View
func (r *Report) CapturesInput() bool {
	return false
}

// View renders the report
func (r *Report) View() string {
	if r.report == nil {
		return styles.Subtitle.Render("Crunching your progress...")
	}

	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Chart.String() + " Learning Analytics"))
	sb.WriteString("\n")

	rep := r.report
	if rep.Approved == 0 {
		sb.WriteString(styles.Subtitle.Render(fmt.Sprintf(
			"%d enrolled, none approved yet. Analytics cover approved courses only.", rep.Enrolled)))
		return sb.String()
	}

	cfg := widgets.DefaultMetricBlockConfig()
	blocks := []string{
		widgets.MetricBlockWithBar(icons.Gauge, "Overall", rep.Overall,
			fmt.Sprintf("%d of %d approved", rep.Approved, rep.Enrolled), cfg),
		widgets.CountBlock(icons.CheckOK, string(analytics.Completed), rep.Count(analytics.Completed), "courses", cfg),
		widgets.CountBlock(icons.Pending, string(analytics.InProgress), rep.Count(analytics.InProgress), "courses", cfg),
		widgets.CountBlock(icons.Circle, string(analytics.NotStarted), rep.Count(analytics.NotStarted), "courses", cfg),
	}
	sb.WriteString(joinBlocks(blocks, r.width, cfg.Width))
	sb.WriteString("\n\n")

	sb.WriteString(r.renderGroups())
	return sb.String()
}

func joinBlocks(blocks []string, width, blockWidth int) string {
	if width >= len(blocks)*(blockWidth+1) {
		parts := make([]string, 0, 2*len(blocks))
		for i, b := range blocks {
			if i > 0 {
				parts = append(parts, " ")
			}
			parts = append(parts, b)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top, blocks[0], " ", blocks[1])
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, blocks[2], " ", blocks[3])
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

// renderGroups lays non-empty buckets out side by side
func (r *Report) renderGroups() string {
	groups := r.report.Groups
	if len(groups) == 0 {
		return ""
	}

	colWidth := max(24, (r.width-2*(len(groups)-1))/len(groups))
	cols := make([]string, 0, 2*len(groups))
	for i, g := range groups {
		if i > 0 {
			cols = append(cols, "  ")
		}
		cols = append(cols, renderGroup(g, colWidth))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func renderGroup(g analytics.Group, width int) string {
	var sb strings.Builder

	color := styles.Muted
	switch g.Bucket {
	case analytics.Completed:
		color = styles.Secondary
	case analytics.InProgress:
		color = styles.Info
	}
	sb.WriteString(lipgloss.NewStyle().Foreground(color).Bold(true).Render(
		fmt.Sprintf("%s (%d)", g.Bucket, len(g.Courses))))
	sb.WriteString("\n")

	barWidth := 10
	titleWidth := max(8, width-barWidth-7)
	for _, c := range g.Courses {
		pct := c.CompletionPercentage()
		sb.WriteString(fmt.Sprintf("%-*s %s %3.0f%%\n",
			titleWidth, clip(c.Title, titleWidth),
			lipgloss.NewStyle().Foreground(styles.CompletionColor(pct)).Render(widgets.CompactProgressBar(pct, barWidth)),
			pct))
	}
	return lipgloss.NewStyle().Width(width).Render(strings.TrimRight(sb.String(), "\n"))
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
