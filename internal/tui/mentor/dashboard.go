// ABOUTME: Mentor dashboard listing owned courses and pending enrollment requests
// ABOUTME: Opens courses, starts course creation, and approves or rejects requests

package mentor

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/markalston/course-progress/internal/models"
	"github.com/markalston/course-progress/internal/route"
	"github.com/markalston/course-progress/internal/tui/icons"
	"github.com/markalston/course-progress/internal/tui/nav"
	"github.com/markalston/course-progress/internal/tui/styles"
	"github.com/markalston/course-progress/internal/tui/widgets"
)

// DashboardAPI is what the mentor dashboard needs from the backend
type DashboardAPI interface {
	Approver
	MyCourses(ctx context.Context) ([]models.Course, error)
	PendingEnrollments(ctx context.Context) ([]models.Enrollment, error)
	EnrolledStudentsCount(ctx context.Context) (int, error)
}

var mutedStyle = lipgloss.NewStyle().Foreground(styles.Muted)

type pane int

const (
	paneCourses pane = iota
	paneRequests
)

type dashboardLoadedMsg struct {
	courses  []models.Course
	pending  []models.Enrollment
	students int
}

// Dashboard is the mentor home view
type Dashboard struct {
	ctx context.Context
	api DashboardAPI

	courses  []models.Course
	pending  []models.Enrollment
	students int
	loaded   bool
	deciding string // enrollment ID with a request in flight

	focus    pane
	courseLs widgets.List
	pendLs   widgets.List
	width    int
	height   int
}

// NewDashboard creates the mentor dashboard
func NewDashboard(ctx context.Context, api DashboardAPI) *Dashboard {
	return &Dashboard{ctx: ctx, api: api, width: 80}
}

// Init implements tea.Model
func (d *Dashboard) Init() tea.Cmd {
	return d.load()
}

func (d *Dashboard) load() tea.Cmd {
	return func() tea.Msg {
		var msg dashboardLoadedMsg
		g, ctx := errgroup.WithContext(d.ctx)
		g.Go(func() error {
			var err error
			msg.courses, err = d.api.MyCourses(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			msg.pending, err = d.api.PendingEnrollments(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			msg.students, err = d.api.EnrolledStudentsCount(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return nav.Fail(fmt.Errorf("failed to load dashboard: %w", err))
		}
		return msg
	}
}

// Update implements tea.Model
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		d.loaded = true
		d.courses = msg.courses
		d.pending = msg.pending
		d.students = msg.students
		d.courseLs.SetLen(len(d.courses))
		d.pendLs.SetLen(len(d.pending))
		return d, nil

	case decidedMsg:
		d.deciding = ""
		d.pending = removeEnrollment(d.pending, msg.enrollment.ID)
		d.pendLs.SetLen(len(d.pending))
		verb := "Rejected"
		if msg.approved {
			verb = "Approved"
		}
		return d, tea.Batch(d.load(), nav.Flash(verb+" enrollment request"))

	case nav.ErrMsg:
		d.deciding = ""
		return d, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "tab" {
			d.focus = 1 - d.focus
			return d, nil
		}
		if d.focused().Move(key) {
			return d, nil
		}
		switch key {
		case "n":
			return d, nav.Navigate(route.MentorNewCourse)
		case "r":
			return d, d.load()
		case "enter":
			if d.focus == paneCourses {
				if i := d.courseLs.Cursor(); i >= 0 {
					return d, nav.Navigate(route.MentorCourse.With(d.courses[i].ID))
				}
			}
		case "y", "x":
			if d.focus == paneRequests {
				return d, d.decideSelected(key == "y")
			}
		}
	}
	return d, nil
}

func (d *Dashboard) focused() *widgets.List {
	if d.focus == paneRequests {
		return &d.pendLs
	}
	return &d.courseLs
}

func (d *Dashboard) decideSelected(approve bool) tea.Cmd {
	i := d.pendLs.Cursor()
	if i < 0 || d.deciding != "" {
		return nil
	}
	e := d.pending[i]
	d.deciding = e.ID
	return decide(d.ctx, d.api, e, approve)
}

// courseTitle finds the title of one of the mentor's courses
func (d *Dashboard) courseTitle(id string) string {
	for _, c := range d.courses {
		if c.ID == id {
			return c.Title
		}
	}
	return ""
}

// SetSize implements nav.View
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// Shortcuts implements nav.View
func (d *Dashboard) Shortcuts() []string {
	if d.focus == paneRequests {
		return []string{"↑↓ Select", "y Approve", "x Reject", "Tab Courses", "r Reload"}
	}
	return []string{"↑↓ Select", "Enter Open", "n New course", "Tab Requests", "r Reload"}
}

// CapturesInput implements nav.View
func (d *Dashboard) CapturesInput() bool {
	return false
}

// View implements tea.Model
func (d *Dashboard) View() string {
	if !d.loaded {
		return styles.Subtitle.Render("Loading dashboard...")
	}

	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Mentor.String() + " Mentor Dashboard"))
	sb.WriteString("\n")

	cfg := widgets.DefaultMetricBlockConfig()
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		widgets.CountBlock(icons.Course, "Courses", len(d.courses), "published", cfg), " ",
		widgets.CountBlock(icons.Users, "Students", d.students, "enrolled", cfg), " ",
		widgets.CountBlock(icons.Pending, "Requests", len(d.pending), "pending", cfg),
	))
	sb.WriteString("\n\n")

	paneWidth := d.width
	if d.width >= 100 {
		paneWidth = d.width/2 - 2
	}
	left := d.renderCourses(paneWidth)
	right := d.renderRequests(paneWidth)
	if d.width >= 100 {
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	} else {
		sb.WriteString(left + "\n\n" + right)
	}
	return sb.String()
}

func (d *Dashboard) paneStyle(p pane, width int) lipgloss.Style {
	if d.focus == p {
		return styles.ActivePanel.Width(max(10, width-2))
	}
	return styles.Panel.Width(max(10, width-2))
}

func (d *Dashboard) renderCourses(width int) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Course.String() + " My Courses"))
	sb.WriteString("\n")

	if len(d.courses) == 0 {
		sb.WriteString(styles.Subtitle.Render("No courses yet. Press n to create one."))
	} else {
		lines := make([]string, len(d.courses))
		for i, c := range d.courses {
			lines[i] = c.Title
			if !c.CreatedAt.IsZero() {
				lines[i] += mutedStyle.Render(" · " + humanize.Time(c.CreatedAt.Time))
			}
		}
		sb.WriteString(d.courseLs.Render(lines, d.focus == paneCourses))
	}
	return d.paneStyle(paneCourses, width).Render(sb.String())
}

func (d *Dashboard) renderRequests(width int) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Pending.String() + " Pending Requests"))
	sb.WriteString("\n")

	if len(d.pending) == 0 {
		sb.WriteString(styles.Subtitle.Render("No pending enrollment requests."))
	} else {
		lines := make([]string, len(d.pending))
		for i, e := range d.pending {
			lines[i] = enrollmentLine(e, d.courseTitle(e.CourseID))
			if e.ID == d.deciding {
				lines[i] += " …"
			}
		}
		sb.WriteString(d.pendLs.Render(lines, d.focus == paneRequests))
	}
	return d.paneStyle(paneRequests, width).Render(sb.String())
}
