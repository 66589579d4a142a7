// ABOUTME: New-course form for mentors
// ABOUTME: Validates title and description, creates the course, then opens it

package mentor

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/markalston/course-progress/internal/models"
	"github.com/markalston/course-progress/internal/route"
	"github.com/markalston/course-progress/internal/tui/icons"
	"github.com/markalston/course-progress/internal/tui/nav"
	"github.com/markalston/course-progress/internal/tui/styles"
	"github.com/markalston/course-progress/internal/validation"
)

// CourseCreator creates courses
type CourseCreator interface {
	CreateCourse(ctx context.Context, in models.CourseCreate) (*models.Course, error)
}

type courseCreatedMsg struct {
	course *models.Course
	err    error
}

// CourseForm is the course creation view
type CourseForm struct {
	ctx context.Context
	api CourseCreator

	form        *huh.Form
	title       string
	description string
	submitting  bool
	err         string
	width       int
}

// NewCourseForm creates the course creation view
func NewCourseForm(ctx context.Context, api CourseCreator) *CourseForm {
	v := &CourseForm{ctx: ctx, api: api, width: 80}
	v.form = v.buildForm()
	return v
}

func (v *CourseForm) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Course title").
				Placeholder("e.g., Go for backend engineers").
				CharLimit(200).
				Value(&v.title).
				Validate(validation.Title),
			huh.NewText().
				Title("Description").
				Description("What the course covers").
				CharLimit(4000).
				Value(&v.description).
				Validate(validation.Field("description", "required,notblank")),
		),
	).WithTheme(styles.FormTheme()).WithWidth(v.formWidth())
}

func (v *CourseForm) formWidth() int {
	return max(40, min(v.width, 100))
}

// Init implements tea.Model
func (v *CourseForm) Init() tea.Cmd {
	return v.form.Init()
}

// Update implements tea.Model
func (v *CourseForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case courseCreatedMsg:
		v.submitting = false
		if msg.err != nil {
			v.err = msg.err.Error()
			v.form = v.buildForm()
			return v, v.form.Init()
		}
		return v, tea.Batch(
			nav.Flash("Created "+msg.course.Title),
			nav.Navigate(route.MentorCourse.With(msg.course.ID)),
		)

	case tea.KeyMsg:
		if v.submitting {
			return v, nil
		}
		if msg.String() == "esc" {
			return v, nav.Navigate(route.MentorDashboard)
		}
	}

	if v.submitting {
		return v, nil
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}
	if v.form.State == huh.StateCompleted {
		return v, v.submit()
	}
	return v, cmd
}

func (v *CourseForm) submit() tea.Cmd {
	in := models.CourseCreate{
		Title:       strings.TrimSpace(v.title),
		Description: strings.TrimSpace(v.description),
	}
	if err := validation.Struct(in); err != nil {
		v.err = err.Error()
		v.form = v.buildForm()
		return v.form.Init()
	}

	v.submitting = true
	v.err = ""
	ctx, api := v.ctx, v.api
	return func() tea.Msg {
		c, err := api.CreateCourse(ctx, in)
		if err != nil {
			return courseCreatedMsg{err: fmt.Errorf("failed to create course: %w", err)}
		}
		return courseCreatedMsg{course: c}
	}
}

// SetSize implements nav.View
func (v *CourseForm) SetSize(width, _ int) {
	v.width = width
	v.form = v.form.WithWidth(v.formWidth())
}

// Shortcuts implements nav.View
func (v *CourseForm) Shortcuts() []string {
	return []string{"Enter Next", "Esc Cancel"}
}

// CapturesInput implements nav.View
func (v *CourseForm) CapturesInput() bool {
	return true
}

// View implements tea.Model
func (v *CourseForm) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Add.String() + " New Course"))
	sb.WriteString("\n\n")
	if v.err != "" {
		sb.WriteString(styles.Error(v.err))
		sb.WriteString("\n\n")
	}
	if v.submitting {
		sb.WriteString(styles.Subtitle.Render("Creating course..."))
		return sb.String()
	}
	sb.WriteString(v.form.View())
	return sb.String()
}
