// ABOUTME: Public landing view shown at the home route to signed-out users
// ABOUTME: Offers role-specific login and sign up, or quit, through a huh select

package landing

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/course-progress/internal/models"
	"github.com/markalston/course-progress/internal/route"
	"github.com/markalston/course-progress/internal/tui/icons"
	"github.com/markalston/course-progress/internal/tui/nav"
	"github.com/markalston/course-progress/internal/tui/styles"
)

// Action is a landing menu choice
type Action int

const (
	ActionLogin Action = iota
	ActionSignup
	ActionQuit
	ActionLoginStudent
	ActionLoginMentor
	ActionSignupStudent
	ActionSignupMentor
)

// String returns the string representation of an Action
func (a Action) String() string {
	switch a {
	case ActionLogin:
		return "login"
	case ActionSignup:
		return "signup"
	case ActionQuit:
		return "quit"
	case ActionLoginStudent:
		return "login-student"
	case ActionLoginMentor:
		return "login-mentor"
	case ActionSignupStudent:
		return "signup-student"
	case ActionSignupMentor:
		return "signup-mentor"
	default:
		return "unknown"
	}
}

type option struct {
	label string
	value Action
}

// Landing is the public home view
type Landing struct {
	options  []option
	selected Action
	form     *huh.Form
	width    int
	height   int
}

// New creates the landing view
func New() *Landing {
	l := &Landing{
		options: []option{
			{label: icons.Student.String() + " Log in as Student", value: ActionLoginStudent},
			{label: icons.Mentor.String() + " Log in as Mentor", value: ActionLoginMentor},
			{label: icons.Add.String() + " Sign up as Student", value: ActionSignupStudent},
			{label: icons.Add.String() + " Sign up as Mentor", value: ActionSignupMentor},
			{label: icons.Quit.String() + " Quit", value: ActionQuit},
		},
		selected: ActionLoginStudent,
	}
	l.form = l.buildForm()
	return l
}

func (l *Landing) buildForm() *huh.Form {
	var options []huh.Option[Action]
	for _, opt := range l.options {
		options = append(options, huh.NewOption(opt.label, opt.value))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Action]().
				Title("What would you like to do?").
				Options(options...).
				Value(&l.selected),
		),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Init implements tea.Model
func (l *Landing) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Landing) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "l":
			return l, l.choose(ActionLogin)
		case "s":
			return l, l.choose(ActionSignup)
		}
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		choice := l.selected
		// Reset so the menu is usable again if navigation is refused
		l.form = l.buildForm()
		return l, tea.Batch(l.form.Init(), l.choose(choice))
	}
	return l, cmd
}

// choose maps a menu action to a navigation command
func (l *Landing) choose(a Action) tea.Cmd {
	switch a {
	case ActionLogin:
		return nav.Navigate(route.Login)
	case ActionSignup:
		return nav.Navigate(route.Signup)
	case ActionLoginStudent:
		return nav.NavigateAs(route.Login, models.RoleStudent)
	case ActionLoginMentor:
		return nav.NavigateAs(route.Login, models.RoleMentor)
	case ActionSignupStudent:
		return nav.NavigateAs(route.Signup, models.RoleStudent)
	case ActionSignupMentor:
		return nav.NavigateAs(route.Signup, models.RoleMentor)
	case ActionQuit:
		return tea.Quit
	}
	return nil
}

// SetSize implements nav.View
func (l *Landing) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Shortcuts implements nav.View
func (l *Landing) Shortcuts() []string {
	return []string{"↑↓ Navigate", "Enter Select", "l Login", "s Sign-up"}
}

// CapturesInput implements nav.View
func (l *Landing) CapturesInput() bool {
	return false
}

// View implements tea.Model
func (l *Landing) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.App.String() + " Course Progress"))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render("Track lessons, courses, and enrollments from your terminal."))
	sb.WriteString("\n\n")

	sb.WriteString(lipgloss.NewStyle().Foreground(styles.Text).Render(
		icons.Student.String() + " Students enroll in courses, complete lessons, and follow their progress."))
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Foreground(styles.Text).Render(
		icons.Mentor.String() + " Mentors publish courses, add lessons, and approve enrollments."))
	sb.WriteString("\n\n")

	sb.WriteString(l.form.View())
	return sb.String()
}
