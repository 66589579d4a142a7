// ABOUTME: Login and sign-up forms built on huh with client-side validation
// ABOUTME: Emits SubmitMsg; the app performs the session call and reports back via Done

package authform

import (
	"errors"
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

// Mode selects between the login and sign-up variants
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

// String returns the string representation of a Mode
func (m Mode) String() string {
	if m == ModeSignup {
		return "signup"
	}
	return "login"
}

// SubmitMsg carries validated credentials to the app
type SubmitMsg struct {
	Mode     Mode
	Email    string
	Password string
	Role     models.Role
}

// Form is the login or sign-up view
type Form struct {
	mode Mode

	// Form field values
	email    string
	password string
	confirm  string
	role     models.Role

	form       *huh.Form
	submitting bool
	err        string
	width      int
}

// New creates a form, prefilled with a remembered email and role
func New(mode Mode, email string, role models.Role) *Form {
	if !role.Valid() {
		role = models.RoleStudent
	}
	f := &Form{
		mode:  mode,
		email: email,
		role:  role,
	}
	f.form = f.buildForm()
	return f
}

func (f *Form) buildForm() *huh.Form {
	roleOptions := []huh.Option[models.Role]{
		huh.NewOption(icons.Student.String()+" Student", models.RoleStudent),
		huh.NewOption(icons.Mentor.String()+" Mentor", models.RoleMentor),
	}

	fields := []huh.Field{
		huh.NewSelect[models.Role]().
			Title(f.roleTitle()).
			Options(roleOptions...).
			Value(&f.role),
		huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&f.email).
			Validate(validation.Email),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&f.password).
			Validate(validation.Password),
	}

	if f.mode == ModeSignup {
		fields = append(fields, huh.NewInput().
			Title("Confirm password").
			EchoMode(huh.EchoModePassword).
			Value(&f.confirm).
			Validate(f.validateConfirm))
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(styles.FormTheme()).
		WithShowHelp(false)
}

func (f *Form) roleTitle() string {
	if f.mode == ModeSignup {
		return "I am a"
	}
	return "Sign in as"
}

func (f *Form) validateConfirm(s string) error {
	if s != f.password {
		return errors.New("passwords do not match")
	}
	return nil
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if f.submitting {
			return f, nil
		}
		switch key.String() {
		case "esc":
			return f, nav.Navigate(route.Home)
		case "ctrl+t":
			return f, nav.Navigate(f.otherPath())
		}
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted && !f.submitting {
		return f, f.submit()
	}
	return f, cmd
}

func (f *Form) submit() tea.Cmd {
	f.submitting = true
	f.err = ""
	msg := SubmitMsg{
		Mode:     f.mode,
		Email:    strings.TrimSpace(f.email),
		Password: f.password,
		Role:     f.role,
	}
	return func() tea.Msg { return msg }
}

// Done reports the outcome of the session call. On failure the error is
// shown inline and the form is rebuilt with the email kept.
func (f *Form) Done(err error) tea.Cmd {
	f.submitting = false
	if err == nil {
		return nil
	}
	f.err = err.Error()
	f.password = ""
	f.confirm = ""
	f.form = f.buildForm()
	return f.form.Init()
}

// Submitting reports whether a session call is in flight
func (f *Form) Submitting() bool {
	return f.submitting
}

// Mode returns the form variant
func (f *Form) Mode() Mode {
	return f.mode
}

// Role returns the selected role
func (f *Form) Role() models.Role {
	return f.role
}

// Err returns the inline error message, if any
func (f *Form) Err() string {
	return f.err
}

func (f *Form) otherPath() route.Path {
	if f.mode == ModeSignup {
		return route.Login
	}
	return route.Signup
}

// SetSize implements nav.View
func (f *Form) SetSize(width, height int) {
	f.width = width
	f.form = f.form.WithWidth(min(width, 60))
}

// Shortcuts implements nav.View
func (f *Form) Shortcuts() []string {
	other := "Sign-up"
	if f.mode == ModeSignup {
		other = "Login"
	}
	return []string{"Tab Next", "Enter Submit", "ctrl+t " + other, "Esc Back"}
}

// CapturesInput implements nav.View
func (f *Form) CapturesInput() bool {
	return true
}

// View implements tea.Model
func (f *Form) View() string {
	var sb strings.Builder

	if f.mode == ModeSignup {
		sb.WriteString(styles.Title.Render(icons.Add.String() + " Create an account"))
	} else {
		sb.WriteString(styles.Title.Render(icons.Login.String() + " Log in"))
	}
	sb.WriteString("\n")

	if f.submitting {
		verb := "Signing in"
		if f.mode == ModeSignup {
			verb = "Creating account"
		}
		sb.WriteString(styles.Subtitle.Render(icons.Pending.String() + " " + verb + " as " + f.email + "..."))
		return sb.String()
	}

	if f.err != "" {
		sb.WriteString(styles.Error(f.err))
		sb.WriteString("\n\n")
	}
	sb.WriteString(f.form.View())
	return sb.String()
}
