// ABOUTME: Messages and the view contract shared by every routed TUI screen
// ABOUTME: Views ask the app to navigate or report failures through these messages

package nav

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/course-progress/internal/models"
	"github.com/markalston/course-progress/internal/route"
)

// NavigateMsg asks the app to route to Path. Role, when set, preselects
// the role on the login and sign-up forms.
type NavigateMsg struct {
	Path route.Path
	Role models.Role
}

// ErrMsg reports a failed API call from a view. The app retries once
// after refreshing the session when the error is a 401.
type ErrMsg struct {
	Err error
}

// FlashMsg shows a short status line in the footer area
type FlashMsg struct {
	Text string
}

// View is a routed screen
type View interface {
	tea.Model
	// SetSize sets the content area available to the view
	SetSize(width, height int)
	// Shortcuts lists "key label" pairs for the footer
	Shortcuts() []string
	// CapturesInput reports whether plain keys belong to the view,
	// e.g. while a text field has focus
	CapturesInput() bool
}

// Navigate returns a command that routes to p
func Navigate(p route.Path) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Path: p}
	}
}

// NavigateAs routes to the login or sign-up form p with role preselected
func NavigateAs(p route.Path, role models.Role) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Path: p, Role: role}
	}
}

// Flash returns a command that shows text in the status line
func Flash(text string) tea.Cmd {
	return func() tea.Msg {
		return FlashMsg{Text: text}
	}
}

// Fail wraps err for the app; a nil err yields a nil message
func Fail(err error) tea.Msg {
	if err == nil {
		return nil
	}
	return ErrMsg{Err: err}
}
