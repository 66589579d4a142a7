// ABOUTME: New-lesson wizard as a bubbletea model
// ABOUTME: Collects details, material, and position across three huh forms

package wizard

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/course-progress/internal/models"
	"github.com/markalston/course-progress/internal/tui/icons"
	"github.com/markalston/course-progress/internal/tui/styles"
	"github.com/markalston/course-progress/internal/validation"
)

// CompleteMsg is sent when the wizard finishes successfully
type CompleteMsg struct {
	Input models.LessonCreate
}

// CancelledMsg is sent when the wizard is cancelled
type CancelledMsg struct{}

// Wizard manages the new-lesson flow as a bubbletea model
type Wizard struct {
	input models.LessonCreate
	form  *huh.Form
	step  int
	width int
	err   string

	// Form field values (strings for huh)
	title       string
	description string
	lessonType  models.LessonType
	duration    string
	order       string
}

// Step names for progress indicator
var stepNames = []string{"Details", "Material", "Position"}

// Lesson material types
var typeOptions = []huh.Option[models.LessonType]{
	huh.NewOption("Video", models.LessonVideo),
	huh.NewOption("PDF", models.LessonPDF),
	huh.NewOption("Slides (PPT)", models.LessonPPT),
	huh.NewOption("Document", models.LessonDocument),
	huh.NewOption("Other", models.LessonOther),
}

// New creates a wizard that places the lesson at nextOrder by default
func New(nextOrder int) *Wizard {
	w := &Wizard{
		input:      models.LessonCreate{Type: models.LessonVideo, Order: max(0, nextOrder)},
		step:       1,
		lessonType: models.LessonVideo,
		order:      strconv.Itoa(max(0, nextOrder)),
	}
	w.form = w.createStep1Form()
	return w
}

func (w *Wizard) createStep1Form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Lesson title").
				Placeholder("e.g., Goroutines and channels").
				CharLimit(200).
				Value(&w.title).
				Validate(validation.Title),
			huh.NewText().
				Title("Description").
				Description("Optional. What will students learn?").
				CharLimit(2000).
				Value(&w.description),
		).Title("Step 1: Details").
			Description("Name the lesson and describe it"),
	).WithTheme(styles.FormTheme())
}

func (w *Wizard) createStep2Form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.LessonType]().
				Title("Material type").
				Description("Use ↑/↓ to select, Enter to confirm").
				Options(typeOptions...).
				Value(&w.lessonType),
			huh.NewInput().
				Title("Duration in minutes").
				Description("Leave empty if unknown").
				Placeholder("e.g., 15").
				CharLimit(4).
				Value(&w.duration).
				Validate(validateOptionalNonNegative),
		).Title("Step 2: Material").
			Description("What kind of lesson is this?"),
	).WithTheme(styles.FormTheme())
}

func (w *Wizard) createStep3Form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Position in course").
				Description("Lessons are listed in ascending order").
				CharLimit(4).
				Value(&w.order).
				Validate(validateNonNegative),
		).Title("Step 3: Position").
			Description("Where should the lesson appear?"),
	).WithTheme(styles.FormTheme())
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		form, cmd := w.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			w.form = f
		}
		return w, cmd

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return w, func() tea.Msg { return CancelledMsg{} }
		}
	}

	// Update the current form
	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.form.State == huh.StateCompleted {
		return w.advanceStep()
	}

	return w, cmd
}

func (w *Wizard) advanceStep() (tea.Model, tea.Cmd) {
	switch w.step {
	case 1:
		w.input.Title = strings.TrimSpace(w.title)
		w.input.Description = strings.TrimSpace(w.description)
		w.step = 2
		w.form = w.createStep2Form()
		return w, w.form.Init()

	case 2:
		w.input.Type = w.lessonType
		w.input.Duration = nil
		if d, err := strconv.Atoi(strings.TrimSpace(w.duration)); err == nil {
			w.input.Duration = &d
		}
		w.step = 3
		w.form = w.createStep3Form()
		return w, w.form.Init()

	case 3:
		w.input.Order, _ = strconv.Atoi(strings.TrimSpace(w.order))
		if err := validation.Struct(w.input); err != nil {
			// Start over with the values kept
			w.err = err.Error()
			w.step = 1
			w.form = w.createStep1Form()
			return w, w.form.Init()
		}
		input := w.input
		return w, func() tea.Msg {
			return CompleteMsg{Input: input}
		}
	}

	return w, nil
}

// SetWidth sets the wizard width for proper rendering
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// View implements tea.Model
func (w *Wizard) View() string {
	var sb strings.Builder

	sb.WriteString(w.renderProgress())
	sb.WriteString("\n\n")

	if w.err != "" {
		sb.WriteString(styles.Error(w.err))
		sb.WriteString("\n\n")
	}

	sb.WriteString(w.form.View())

	return sb.String()
}

// renderProgress draws a box max(60, width-1) cells wide with the step
// names and a bar filled up to the current step
func (w *Wizard) renderProgress() string {
	width := max(60, w.width-1)
	inner := width - 4

	var steps []string
	for i, name := range stepNames {
		n := i + 1
		mark, style := "○", lipgloss.NewStyle().Foreground(styles.Muted)
		switch {
		case n < w.step:
			mark = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
		case n == w.step:
			style = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
			mark = style.Render("●")
		default:
			mark = style.Render(mark)
		}
		steps = append(steps, mark+" "+style.Render(name))
	}

	filled := w.step * inner / len(stepNames)
	bar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", inner-filled))

	title := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).
		Render(fmt.Sprintf("%s New lesson · step %d of %d", icons.Lesson.String(), w.step, len(stepNames)))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Surface).
		Padding(0, 1).
		Width(width - 2).
		Render(strings.Join([]string{title, strings.Join(steps, "    "), bar}, "\n"))
}

// Step returns the current step number
func (w *Wizard) Step() int {
	return w.step
}

// GetInput returns the collected lesson input
func (w *Wizard) GetInput() models.LessonCreate {
	return w.input
}

func validateNonNegative(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return fmt.Errorf("must be zero or a positive number")
	}
	return nil
}

func validateOptionalNonNegative(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return validateNonNegative(s)
}
