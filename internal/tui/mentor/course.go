// ABOUTME: Mentor course management view with lessons and enrollments
// ABOUTME: Adds lessons through the wizard and deletes lessons or the course after confirmation

package mentor

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/markalston/course-progress/internal/models"
	"github.com/markalston/course-progress/internal/route"
	"github.com/markalston/course-progress/internal/tui/icons"
	"github.com/markalston/course-progress/internal/tui/nav"
	"github.com/markalston/course-progress/internal/tui/styles"
	"github.com/markalston/course-progress/internal/tui/widgets"
	"github.com/markalston/course-progress/internal/tui/wizard"
)

// CourseAPI is what the course management view needs from the backend
type CourseAPI interface {
	Approver
	Course(ctx context.Context, id string) (*models.Course, error)
	Lessons(ctx context.Context, courseID string) ([]models.Lesson, error)
	CourseEnrollments(ctx context.Context, courseID string) ([]models.Enrollment, error)
	CreateLesson(ctx context.Context, courseID string, in models.LessonCreate) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, id string) error
	DeleteCourse(ctx context.Context, id string) error
}

type courseLoadedMsg struct {
	courseID    string
	course      *models.Course
	lessons     []models.Lesson
	enrollments []models.Enrollment
}

type lessonCreatedMsg struct {
	courseID string
	lesson   *models.Lesson
}

type lessonDeletedMsg struct {
	courseID string
	lessonID string
}

type courseDeletedMsg struct {
	courseID string
}

// confirmation is a destructive action waiting for y/n
type confirmation struct {
	prompt string
	run    tea.Cmd
}

// Course manages one of the mentor's courses
type Course struct {
	ctx context.Context
	api CourseAPI

	courseID    string
	course      *models.Course
	lessons     []models.Lesson
	enrollments []models.Enrollment
	loaded      bool
	deciding    string

	focus    pane
	lessonLs widgets.List
	enrollLs widgets.List
	wizard   *wizard.Wizard
	confirm  *confirmation

	width  int
	height int
}

// NewCourse creates the management view for courseID
func NewCourse(ctx context.Context, api CourseAPI, courseID string) *Course {
	return &Course{ctx: ctx, api: api, courseID: courseID, width: 80}
}

// Init implements tea.Model
func (c *Course) Init() tea.Cmd {
	return c.load()
}

func (c *Course) load() tea.Cmd {
	id := c.courseID
	return func() tea.Msg {
		msg := courseLoadedMsg{courseID: id}
		g, ctx := errgroup.WithContext(c.ctx)
		g.Go(func() error {
			var err error
			msg.course, err = c.api.Course(ctx, id)
			return err
		})
		g.Go(func() error {
			var err error
			msg.lessons, err = c.api.Lessons(ctx, id)
			return err
		})
		g.Go(func() error {
			var err error
			msg.enrollments, err = c.api.CourseEnrollments(ctx, id)
			return err
		})
		if err := g.Wait(); err != nil {
			return nav.Fail(fmt.Errorf("failed to load course: %w", err))
		}
		return msg
	}
}

// Update implements tea.Model
func (c *Course) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case courseLoadedMsg:
		if msg.courseID != c.courseID {
			return c, nil
		}
		c.loaded = true
		c.course = msg.course
		c.lessons = msg.lessons
		c.enrollments = msg.enrollments
		c.lessonLs.SetLen(len(c.lessons))
		c.enrollLs.SetLen(len(c.enrollments))
		return c, nil

	case lessonCreatedMsg:
		if msg.courseID != c.courseID {
			return c, nil
		}
		return c, tea.Batch(c.load(), nav.Flash("Added lesson "+msg.lesson.Title))

	case lessonDeletedMsg:
		if msg.courseID != c.courseID {
			return c, nil
		}
		return c, tea.Batch(c.load(), nav.Flash("Lesson deleted"))

	case courseDeletedMsg:
		if msg.courseID != c.courseID {
			return c, nil
		}
		return c, tea.Batch(nav.Flash("Course deleted"), nav.Navigate(route.MentorDashboard))

	case decidedMsg:
		c.deciding = ""
		c.enrollments = replaceEnrollment(c.enrollments, msg.enrollment)
		return c, nil

	case nav.ErrMsg:
		c.deciding = ""
		return c, nil

	case wizard.CompleteMsg:
		c.wizard = nil
		return c, c.createLesson(msg.Input)

	case wizard.CancelledMsg:
		c.wizard = nil
		return c, nil
	}

	if c.wizard != nil {
		w, cmd := c.wizard.Update(msg)
		if ww, ok := w.(*wizard.Wizard); ok {
			c.wizard = ww
		}
		return c, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	if c.confirm != nil {
		pending := c.confirm
		c.confirm = nil
		if key.String() == "y" {
			return c, pending.run
		}
		return c, nil
	}

	return c, c.handleKey(key.String())
}

func (c *Course) handleKey(key string) tea.Cmd {
	switch key {
	case "tab":
		c.focus = 1 - c.focus
		return nil
	case "esc", "b":
		return nav.Navigate(route.MentorDashboard)
	case "r":
		return c.load()
	}
	if !c.loaded {
		return nil
	}
	if c.focused().Move(key) {
		return nil
	}

	switch key {
	case "n":
		c.wizard = wizard.New(c.nextOrder())
		c.wizard.SetWidth(c.width)
		return c.wizard.Init()

	case "D":
		title := c.courseID
		if c.course != nil {
			title = c.course.Title
		}
		c.confirm = &confirmation{
			prompt: fmt.Sprintf("Delete course %q and all its lessons?", title),
			run:    c.deleteCourse(),
		}

	case "d":
		if c.focus != paneCourses {
			return nil
		}
		if i := c.lessonLs.Cursor(); i >= 0 {
			l := c.lessons[i]
			c.confirm = &confirmation{
				prompt: fmt.Sprintf("Delete lesson %q?", l.Title),
				run:    c.deleteLesson(l.ID),
			}
		}

	case "y", "x":
		if c.focus != paneRequests || c.deciding != "" {
			return nil
		}
		i := c.enrollLs.Cursor()
		if i < 0 {
			return nil
		}
		e := c.enrollments[i]
		approve := key == "y"
		if (approve && e.Status == models.EnrollmentApproved) || (!approve && e.Status == models.EnrollmentRejected) {
			return nav.Flash("Enrollment is already " + strings.ToLower(string(e.Status)))
		}
		c.deciding = e.ID
		return decide(c.ctx, c.api, e, approve)
	}
	return nil
}

func (c *Course) focused() *widgets.List {
	if c.focus == paneRequests {
		return &c.enrollLs
	}
	return &c.lessonLs
}

// nextOrder places new lessons after the last one
func (c *Course) nextOrder() int {
	next := 1
	for _, l := range c.lessons {
		next = max(next, l.Order+1)
	}
	return next
}

func (c *Course) createLesson(in models.LessonCreate) tea.Cmd {
	id := c.courseID
	return func() tea.Msg {
		l, err := c.api.CreateLesson(c.ctx, id, in)
		if err != nil {
			return nav.Fail(fmt.Errorf("failed to create lesson: %w", err))
		}
		return lessonCreatedMsg{courseID: id, lesson: l}
	}
}

func (c *Course) deleteLesson(lessonID string) tea.Cmd {
	id := c.courseID
	return func() tea.Msg {
		if err := c.api.DeleteLesson(c.ctx, lessonID); err != nil {
			return nav.Fail(fmt.Errorf("failed to delete lesson: %w", err))
		}
		return lessonDeletedMsg{courseID: id, lessonID: lessonID}
	}
}

func (c *Course) deleteCourse() tea.Cmd {
	id := c.courseID
	return func() tea.Msg {
		if err := c.api.DeleteCourse(c.ctx, id); err != nil {
			return nav.Fail(fmt.Errorf("failed to delete course: %w", err))
		}
		return courseDeletedMsg{courseID: id}
	}
}

// SetSize implements nav.View
func (c *Course) SetSize(width, height int) {
	c.width = width
	c.height = height
	if c.wizard != nil {
		c.wizard.SetWidth(width)
	}
}

// Shortcuts implements nav.View
func (c *Course) Shortcuts() []string {
	switch {
	case c.wizard != nil:
		return []string{"Enter Next", "Esc Cancel"}
	case c.confirm != nil:
		return []string{"y Confirm", "any key Cancel"}
	case c.focus == paneRequests:
		return []string{"↑↓ Select", "y Approve", "x Reject", "Tab Lessons", "b Back"}
	}
	return []string{"↑↓ Select", "n New lesson", "d Delete lesson", "D Delete course", "Tab Enrollments", "b Back"}
}

// CapturesInput implements nav.View
func (c *Course) CapturesInput() bool {
	return c.wizard != nil || c.confirm != nil
}

// View implements tea.Model
func (c *Course) View() string {
	if c.wizard != nil {
		return c.wizard.View()
	}
	if !c.loaded {
		return styles.Subtitle.Render("Loading course...")
	}

	var sb strings.Builder
	title := c.courseID
	if c.course != nil {
		title = c.course.Title
	}
	sb.WriteString(styles.Title.Render(icons.Course.String() + " " + title))
	sb.WriteString("\n")
	if c.course != nil && c.course.Description != "" {
		sb.WriteString(styles.Subtitle.Render(c.course.Description))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if c.confirm != nil {
		sb.WriteString(styles.StatusWarning.Render(icons.Delete.String() + " " + c.confirm.prompt + " (y/n)"))
		sb.WriteString("\n\n")
	}

	paneWidth := c.width
	if c.width >= 100 {
		paneWidth = c.width/2 - 2
	}
	left := c.renderLessons(paneWidth)
	right := c.renderEnrollments(paneWidth)
	if c.width >= 100 {
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	} else {
		sb.WriteString(left + "\n\n" + right)
	}
	return sb.String()
}

func (c *Course) paneStyle(p pane, width int) lipgloss.Style {
	if c.focus == p {
		return styles.ActivePanel.Width(max(10, width-2))
	}
	return styles.Panel.Width(max(10, width-2))
}

func (c *Course) renderLessons(width int) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s Lessons (%d)", icons.Lesson, len(c.lessons))))
	sb.WriteString("\n")
	if len(c.lessons) == 0 {
		sb.WriteString(styles.Subtitle.Render("No lessons yet. Press n to add one."))
	} else {
		lines := make([]string, len(c.lessons))
		for i, l := range c.lessons {
			line := fmt.Sprintf("%2d. %s %s", l.Order, widgets.LessonTypeIcon(l.Type), l.Title)
			if l.Duration != nil {
				line += fmt.Sprintf(" (%d min)", *l.Duration)
			}
			lines[i] = line
		}
		sb.WriteString(c.lessonLs.Render(lines, c.focus == paneCourses))
	}
	return c.paneStyle(paneCourses, width).Render(sb.String())
}

func (c *Course) renderEnrollments(width int) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s Enrollments (%d)", icons.Users, len(c.enrollments))))
	sb.WriteString("\n")
	if len(c.enrollments) == 0 {
		sb.WriteString(styles.Subtitle.Render("No enrollment requests yet."))
	} else {
		lines := make([]string, len(c.enrollments))
		for i, e := range c.enrollments {
			lines[i] = enrollmentLine(e, "")
			if e.ID == c.deciding {
				lines[i] += " …"
			}
		}
		sb.WriteString(c.enrollLs.Render(lines, c.focus == paneRequests))
	}
	return c.paneStyle(paneRequests, width).Render(sb.String())
}
