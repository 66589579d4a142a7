// ABOUTME: Student dashboard with aggregate stats and enrolled courses
// ABOUTME: Shows metric blocks above a paged table of courses with completion bars

package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/markalston/course-progress/internal/models"
	"github.com/markalston/course-progress/internal/route"
	"github.com/markalston/course-progress/internal/tui/icons"
	"github.com/markalston/course-progress/internal/tui/nav"
	"github.com/markalston/course-progress/internal/tui/styles"
	"github.com/markalston/course-progress/internal/tui/widgets"
)

// PageSize is the number of enrolled courses per page
const PageSize = 10

// API is what the dashboard needs from the backend
type API interface {
	MyStats(ctx context.Context) (*models.StudentStats, error)
	RecalculateStats(ctx context.Context) error
	MyEnrolledCourses(ctx context.Context, page, limit int) (*models.Page[models.CourseWithProgress], error)
}

type statsLoadedMsg struct {
	stats *models.StudentStats
}

type pageLoadedMsg struct {
	page *models.Page[models.CourseWithProgress]
}

type recalculatedMsg struct{}

// Dashboard displays student stats and enrolled courses
type Dashboard struct {
	ctx context.Context
	api API

	stats   *models.StudentStats
	page    *models.Page[models.CourseWithProgress]
	pageNum int
	loading bool

	table  table.Model
	width  int
	height int
}

// New creates a student dashboard
func New(ctx context.Context, api API) *Dashboard {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(PageSize),
	)
	t.SetStyles(tableStyles())

	return &Dashboard{
		ctx:     ctx,
		api:     api,
		pageNum: 1,
		loading: true,
		table:   t,
		width:   80,
	}
}

func columns(width int) []table.Column {
	titleWidth := max(16, width-48)
	return []table.Column{
		{Title: "Course", Width: titleWidth},
		{Title: "Status", Width: 10},
		{Title: "Progress", Width: 18},
		{Title: "Lessons", Width: 8},
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(styles.Text).
		Background(styles.Primary).
		Bold(false)
	return s
}

// Init implements tea.Model
func (d *Dashboard) Init() tea.Cmd {
	return tea.Batch(d.loadStats(), d.loadPage(d.pageNum))
}

func (d *Dashboard) loadStats() tea.Cmd {
	return func() tea.Msg {
		stats, err := d.api.MyStats(d.ctx)
		if err != nil {
			return nav.Fail(fmt.Errorf("failed to load stats: %w", err))
		}
		return statsLoadedMsg{stats: stats}
	}
}

func (d *Dashboard) loadPage(page int) tea.Cmd {
	return func() tea.Msg {
		p, err := d.api.MyEnrolledCourses(d.ctx, page, PageSize)
		if err != nil {
			return nav.Fail(fmt.Errorf("failed to load courses: %w", err))
		}
		return pageLoadedMsg{page: p}
	}
}

func (d *Dashboard) recalculate() tea.Cmd {
	return func() tea.Msg {
		if err := d.api.RecalculateStats(d.ctx); err != nil {
			return nav.Fail(fmt.Errorf("failed to recalculate stats: %w", err))
		}
		return recalculatedMsg{}
	}
}

// Update implements tea.Model
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		d.stats = msg.stats
		return d, nil

	case pageLoadedMsg:
		// A slower response for a page we already left is dropped
		if msg.page.Page != 0 && msg.page.Page != d.pageNum {
			return d, nil
		}
		d.page = msg.page
		d.loading = false
		d.table.SetRows(rows(msg.page.Items))
		d.table.SetCursor(0)
		return d, nil

	case recalculatedMsg:
		return d, tea.Batch(d.loadStats(), nav.Flash("Stats recalculated"))

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if c, ok := d.selected(); ok {
				return d, nav.Navigate(route.StudentCourse.With(c.ID))
			}
			return d, nil
		case "n", "right":
			if d.page != nil && d.page.HasNext {
				d.pageNum++
				return d, d.loadPage(d.pageNum)
			}
			return d, nil
		case "p", "left":
			if d.pageNum > 1 {
				d.pageNum--
				return d, d.loadPage(d.pageNum)
			}
			return d, nil
		case "r":
			return d, d.recalculate()
		case "c":
			return d, nav.Navigate(route.StudentCourses)
		case "a":
			return d, nav.Navigate(route.StudentAnalytics)
		}
	}

	var cmd tea.Cmd
	d.table, cmd = d.table.Update(msg)
	return d, cmd
}

// selected returns the course under the table cursor
func (d *Dashboard) selected() (models.CourseWithProgress, bool) {
	if d.page == nil {
		return models.CourseWithProgress{}, false
	}
	i := d.table.Cursor()
	if i < 0 || i >= len(d.page.Items) {
		return models.CourseWithProgress{}, false
	}
	return d.page.Items[i], true
}

func rows(items []models.CourseWithProgress) []table.Row {
	out := make([]table.Row, 0, len(items))
	for _, c := range items {
		status := "-"
		if c.Enrollment != nil {
			status = string(c.Enrollment.Status)
		}
		lessons := "-"
		if c.Progress != nil {
			lessons = fmt.Sprintf("%d/%d", c.Progress.CompletedLessons, c.Progress.TotalLessons)
		}
		pct := c.CompletionPercentage()
		out = append(out, table.Row{
			c.Title,
			status,
			fmt.Sprintf("%s %3.0f%%", widgets.CompactProgressBar(pct, 12), pct),
			lessons,
		})
	}
	return out
}

// SetSize implements nav.View
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.table.SetColumns(columns(width))
	d.table.SetHeight(max(3, min(PageSize, height-10)))
}

// Shortcuts implements nav.View
func (d *Dashboard) Shortcuts() []string {
	return []string{"↑↓ Select", "Enter Open", "n/p Page", "c Courses", "a Analytics", "r Recalculate"}
}

// CapturesInput implements nav.View
func (d *Dashboard) CapturesInput() bool {
	return false
}

// View renders the dashboard
func (d *Dashboard) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Student.String() + " My Learning"))
	sb.WriteString("\n")

	sb.WriteString(d.renderStats())
	sb.WriteString("\n\n")

	sb.WriteString(styles.Title.Render(icons.Course.String() + " Enrolled Courses"))
	sb.WriteString("\n")

	switch {
	case d.loading:
		sb.WriteString(styles.Subtitle.Render("Loading courses..."))
	case d.page == nil || len(d.page.Items) == 0:
		sb.WriteString(styles.Subtitle.Render("You are not enrolled in any course yet. Press c to browse courses."))
	default:
		sb.WriteString(d.table.View())
		sb.WriteString("\n")
		sb.WriteString(styles.Help.Render(fmt.Sprintf("Page %d of %d · %d courses",
			d.page.Page, max(1, d.page.TotalPages), d.page.Total)))
	}

	return lipgloss.NewStyle().Width(d.width).Render(sb.String())
}

func (d *Dashboard) renderStats() string {
	if d.stats == nil {
		return styles.Subtitle.Render("Loading stats...")
	}

	cfg := widgets.DefaultMetricBlockConfig()
	if d.width >= 100 {
		cfg.Width = 24
	}

	s := d.stats
	blocks := []string{
		widgets.CountBlock(icons.Course, "Enrolled", s.TotalEnrolledCourses, "courses", cfg),
		widgets.CountBlock(icons.CheckOK, "Approved", s.TotalApprovedCourses, "courses", cfg),
		widgets.MetricBlock(icons.Lesson, "Lessons",
			fmt.Sprintf("%d/%d", s.TotalCompletedLessons, s.TotalAvailableLessons), "completed", cfg),
		widgets.MetricBlockWithBar(icons.Gauge, "Overall", s.OverallProgressPercentage, updatedLabel(s), cfg),
	}

	// Stack blocks in two rows on narrow terminals
	if d.width < 4*cfg.Width {
		top := lipgloss.JoinHorizontal(lipgloss.Top, blocks[0], " ", blocks[1])
		bottom := lipgloss.JoinHorizontal(lipgloss.Top, blocks[2], " ", blocks[3])
		return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks[0], " ", blocks[1], " ", blocks[2], " ", blocks[3])
}

func updatedLabel(s *models.StudentStats) string {
	if s.LastUpdated.IsZero() {
		return "not calculated yet"
	}
	return "updated " + humanize.Time(s.LastUpdated.Time)
}
