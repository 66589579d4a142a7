// ABOUTME: Student course catalog listing every course with enrollment status
// ABOUTME: Lets a student request enrollment or open an approved course

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/markalston/course-progress/internal/models"
	"github.com/markalston/course-progress/internal/route"
	"github.com/markalston/course-progress/internal/tui/icons"
	"github.com/markalston/course-progress/internal/tui/nav"
	"github.com/markalston/course-progress/internal/tui/styles"
)

// API is what the catalog needs from the backend
type API interface {
	Courses(ctx context.Context) ([]models.Course, error)
	MyEnrollments(ctx context.Context) ([]models.Enrollment, error)
	Enroll(ctx context.Context, courseID string) (*models.Enrollment, error)
}

type loadedMsg struct {
	courses     []models.Course
	enrollments map[string]models.Enrollment
}

type enrolledMsg struct {
	enrollment *models.Enrollment
	title      string
}

// Catalog lists available courses
type Catalog struct {
	ctx context.Context
	api API

	courses     []models.Course
	enrollments map[string]models.Enrollment // by course ID
	loading     bool
	enrolling   string // course ID with a request in flight

	table  table.Model
	width  int
	height int
}

// New creates the catalog view
func New(ctx context.Context, api API) *Catalog {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.Foreground(styles.Text).Background(styles.Primary).Bold(false)
	t.SetStyles(s)

	return &Catalog{
		ctx:         ctx,
		api:         api,
		enrollments: map[string]models.Enrollment{},
		loading:     true,
		table:       t,
		width:       80,
	}
}

func columns(width int) []table.Column {
	titleWidth := max(16, (width-14)/3)
	return []table.Column{
		{Title: "Course", Width: titleWidth},
		{Title: "Description", Width: max(16, width-titleWidth-18)},
		{Title: "Status", Width: 10},
	}
}

// Init implements tea.Model
func (c *Catalog) Init() tea.Cmd {
	return c.load()
}

func (c *Catalog) load() tea.Cmd {
	return func() tea.Msg {
		var (
			courses     []models.Course
			enrollments []models.Enrollment
		)
		g, ctx := errgroup.WithContext(c.ctx)
		g.Go(func() error {
			var err error
			courses, err = c.api.Courses(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			enrollments, err = c.api.MyEnrollments(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return nav.Fail(fmt.Errorf("failed to load courses: %w", err))
		}

		byCourse := make(map[string]models.Enrollment, len(enrollments))
		for _, e := range enrollments {
			byCourse[e.CourseID] = e
		}
		return loadedMsg{courses: courses, enrollments: byCourse}
	}
}

func (c *Catalog) enroll(course models.Course) tea.Cmd {
	c.enrolling = course.ID
	return func() tea.Msg {
		e, err := c.api.Enroll(c.ctx, course.ID)
		if err != nil {
			return nav.Fail(fmt.Errorf("failed to enroll in %s: %w", course.Title, err))
		}
		return enrolledMsg{enrollment: e, title: course.Title}
	}
}

// Update implements tea.Model
func (c *Catalog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		c.loading = false
		c.courses = msg.courses
		c.enrollments = msg.enrollments
		c.table.SetRows(c.rows())
		return c, nil

	case enrolledMsg:
		c.enrolling = ""
		if msg.enrollment != nil {
			c.enrollments[msg.enrollment.CourseID] = *msg.enrollment
		}
		c.table.SetRows(c.rows())
		return c, nav.Flash("Enrollment requested for " + msg.title)

	case nav.ErrMsg:
		c.enrolling = ""
		return c, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "e":
			return c, c.activate()
		case "r":
			return c, c.load()
		case "esc", "b":
			return c, nav.Navigate(route.StudentDashboard)
		}
	}

	var cmd tea.Cmd
	c.table, cmd = c.table.Update(msg)
	return c, cmd
}

// activate enrolls in an unrequested course or opens an approved one
func (c *Catalog) activate() tea.Cmd {
	i := c.table.Cursor()
	if i < 0 || i >= len(c.courses) || c.enrolling != "" {
		return nil
	}
	course := c.courses[i]

	e, ok := c.enrollments[course.ID]
	switch {
	case !ok:
		return c.enroll(course)
	case e.Status == models.EnrollmentApproved:
		return nav.Navigate(route.StudentCourse.With(course.ID))
	case e.Status == models.EnrollmentPending:
		return nav.Flash("Enrollment is awaiting mentor approval")
	default:
		return nav.Flash("Enrollment was rejected by the mentor")
	}
}

func (c *Catalog) rows() []table.Row {
	out := make([]table.Row, 0, len(c.courses))
	for _, course := range c.courses {
		status := "-"
		if e, ok := c.enrollments[course.ID]; ok {
			status = string(e.Status)
		}
		if course.ID == c.enrolling {
			status = "..."
		}
		desc := strings.Join(strings.Fields(course.Description), " ")
		out = append(out, table.Row{course.Title, desc, status})
	}
	return out
}

// SetSize implements nav.View
func (c *Catalog) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.table.SetColumns(columns(width))
	c.table.SetHeight(max(3, height-6))
}

// Shortcuts implements nav.View
func (c *Catalog) Shortcuts() []string {
	return []string{"↑↓ Select", "Enter Enroll/Open", "r Reload", "b Back"}
}

// CapturesInput implements nav.View
func (c *Catalog) CapturesInput() bool {
	return false
}

// View implements tea.Model
func (c *Catalog) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Course.String() + " Available Courses"))
	sb.WriteString("\n")

	switch {
	case c.loading:
		sb.WriteString(styles.Subtitle.Render("Loading courses..."))
	case len(c.courses) == 0:
		sb.WriteString(styles.Subtitle.Render("No courses have been published yet."))
	default:
		sb.WriteString(c.table.View())
		sb.WriteString("\n")
		sb.WriteString(styles.Help.Render(fmt.Sprintf("%d courses · %d enrollments", len(c.courses), len(c.enrollments))))
	}
	return sb.String()
}
