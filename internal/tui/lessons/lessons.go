// ABOUTME: Student course view listing lessons with completion state
// ABOUTME: Marks lessons complete and refreshes the course progress bar

package lessons

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/markalston/course-progress/internal/models"
	"github.com/markalston/course-progress/internal/route"
	"github.com/markalston/course-progress/internal/tui/icons"
	"github.com/markalston/course-progress/internal/tui/nav"
	"github.com/markalston/course-progress/internal/tui/styles"
	"github.com/markalston/course-progress/internal/tui/widgets"
)

// API is what the course view needs from the backend
type API interface {
	Course(ctx context.Context, id string) (*models.Course, error)
	Lessons(ctx context.Context, courseID string) ([]models.Lesson, error)
	CourseProgress(ctx context.Context, courseID string) (*models.CourseProgress, error)
	CourseProgressDetails(ctx context.Context, courseID string) ([]models.Progress, error)
	CompleteLesson(ctx context.Context, lessonID string) (*models.Progress, error)
}

type loadedMsg struct {
	courseID string
	course   *models.Course
	lessons  []models.Lesson
}

type progressMsg struct {
	courseID string
	progress *models.CourseProgress
	done     map[string]bool
}

type completedMsg struct {
	courseID string
	title    string
}

// View shows one course's lessons to a student
type View struct {
	ctx      context.Context
	api      API
	courseID string

	course     *models.Course
	lessons    []models.Lesson
	progress   *models.CourseProgress
	done       map[string]bool // lesson ID -> completed
	completing string          // lesson ID with a request in flight

	list   widgets.List
	width  int
	height int
}

// New creates the course view for courseID
func New(ctx context.Context, api API, courseID string) *View {
	return &View{
		ctx:      ctx,
		api:      api,
		courseID: courseID,
		done:     map[string]bool{},
		width:    80,
	}
}

// Init implements tea.Model
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.load(), v.loadProgress())
}

func (v *View) load() tea.Cmd {
	id := v.courseID
	return func() tea.Msg {
		var (
			course  *models.Course
			lessons []models.Lesson
		)
		g, ctx := errgroup.WithContext(v.ctx)
		g.Go(func() error {
			var err error
			course, err = v.api.Course(ctx, id)
			return err
		})
		g.Go(func() error {
			var err error
			lessons, err = v.api.Lessons(ctx, id)
			return err
		})
		if err := g.Wait(); err != nil {
			return nav.Fail(fmt.Errorf("failed to load course: %w", err))
		}
		return loadedMsg{courseID: id, course: course, lessons: lessons}
	}
}

func (v *View) loadProgress() tea.Cmd {
	id := v.courseID
	return func() tea.Msg {
		var (
			progress *models.CourseProgress
			details  []models.Progress
		)
		g, ctx := errgroup.WithContext(v.ctx)
		g.Go(func() error {
			var err error
			progress, err = v.api.CourseProgress(ctx, id)
			return err
		})
		g.Go(func() error {
			var err error
			details, err = v.api.CourseProgressDetails(ctx, id)
			return err
		})
		if err := g.Wait(); err != nil {
			return nav.Fail(fmt.Errorf("failed to load progress: %w", err))
		}

		done := make(map[string]bool, len(details))
		for _, p := range details {
			if p.Completed {
				done[p.LessonID] = true
			}
		}
		return progressMsg{courseID: id, progress: progress, done: done}
	}
}

func (v *View) complete(l models.Lesson) tea.Cmd {
	v.completing = l.ID
	id := v.courseID
	return func() tea.Msg {
		if _, err := v.api.CompleteLesson(v.ctx, l.ID); err != nil {
			return nav.Fail(fmt.Errorf("failed to complete %s: %w", l.Title, err))
		}
		return completedMsg{courseID: id, title: l.Title}
	}
}

// Update implements tea.Model
func (v *View) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.courseID != v.courseID {
			return v, nil
		}
		v.course = msg.course
		v.lessons = msg.lessons
		v.list.SetLen(len(msg.lessons))
		return v, nil

	case progressMsg:
		if msg.courseID != v.courseID {
			return v, nil
		}
		v.progress = msg.progress
		v.done = msg.done
		return v, nil

	case completedMsg:
		if msg.courseID != v.courseID {
			return v, nil
		}
		v.completing = ""
		return v, tea.Batch(v.loadProgress(), nav.Flash("Completed "+msg.title))

	case nav.ErrMsg:
		v.completing = ""
		return v, nil

	case tea.KeyMsg:
		if v.list.Move(msg.String()) {
			return v, nil
		}
		switch msg.String() {
		case "enter", " ", "m":
			return v, v.markSelected()
		case "r":
			return v, v.Init()
		case "esc", "b":
			return v, nav.Navigate(route.StudentDashboard)
		}
	}
	return v, nil
}

func (v *View) markSelected() tea.Cmd {
	i := v.list.Cursor()
	if i < 0 || v.completing != "" {
		return nil
	}
	l := v.lessons[i]
	if v.done[l.ID] {
		return nav.Flash(l.Title + " is already complete")
	}
	return v.complete(l)
}

// SetSize implements nav.View
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Shortcuts implements nav.View
func (v *View) Shortcuts() []string {
	return []string{"↑↓ Select", "Enter Mark complete", "r Reload", "b Back"}
}

// CapturesInput implements nav.View
func (v *View) CapturesInput() bool {
	return false
}

// View implements tea.Model
func (v *View) View() string {
	if v.course == nil {
		return styles.Subtitle.Render("Loading course...")
	}

	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Course.String() + " " + v.course.Title))
	sb.WriteString("\n")
	if v.course.Description != "" {
		sb.WriteString(styles.Subtitle.Render(v.course.Description))
		sb.WriteString("\n")
	}

	cfg := widgets.DefaultProgressBarConfig()
	cfg.Width = max(10, min(40, v.width-30))
	if v.progress != nil {
		sb.WriteString(widgets.ProgressBarWithLabel(v.progress.CompletionPercentage,
			v.progress.CompletedLessons, v.progress.TotalLessons, cfg))
	} else {
		sb.WriteString(styles.Subtitle.Render("Loading progress..."))
	}
	sb.WriteString("\n\n")

	if len(v.lessons) == 0 {
		sb.WriteString(styles.Subtitle.Render("This course has no lessons yet."))
		return sb.String()
	}

	lines := make([]string, len(v.lessons))
	for i, l := range v.lessons {
		marker := widgets.CompletionIndicator(v.done[l.ID])
		if l.ID == v.completing {
			marker = icons.Pending.String()
		}
		lines[i] = fmt.Sprintf("%s %2d. %s %s%s", marker, l.Order, widgets.LessonTypeIcon(l.Type), l.Title, duration(l))
	}
	sb.WriteString(v.list.Render(lines, true))

	if i := v.list.Cursor(); i >= 0 && v.lessons[i].Description != "" {
		sb.WriteString("\n\n")
		sb.WriteString(styles.Help.Render(v.lessons[i].Description))
	}
	return sb.String()
}

func duration(l models.Lesson) string {
	if l.Duration == nil || *l.Duration <= 0 {
		return ""
	}
	return fmt.Sprintf(" (%d min)", *l.Duration)
}
