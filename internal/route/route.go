// ABOUTME: Route guard deciding whether a view renders, waits, or redirects
// ABOUTME: Role mismatches redirect to the caller's own dashboard, never an error

package route

import (
	"fmt"

	"github.com/markalston/course-progress/internal/config"
	"github.com/markalston/course-progress/internal/models"
)

// Path addresses a view. Patterns may contain a single ":id" segment.
type Path string

const (
	Home             Path = "/"
	Login            Path = "/login"
	Signup           Path = "/signup"
	StudentDashboard Path = "/student/dashboard"
	StudentCourses   Path = "/student/courses"
	StudentCourse    Path = "/student/courses/:id"
	StudentAnalytics Path = "/student/analytics"
	MentorDashboard  Path = "/mentor/dashboard"
	MentorNewCourse  Path = "/mentor/courses/new"
	MentorCourse     Path = "/mentor/courses/:id"
)

// Session is the read-only view of session state the guard needs
type Session interface {
	IsLoading() bool
	CurrentUser() *models.User
}

// Kind is the outcome of a guard decision
type Kind int

const (
	ShowLoading Kind = iota
	RedirectTo
	Render
)

func (k Kind) String() string {
	switch k {
	case ShowLoading:
		return "show-loading"
	case RedirectTo:
		return "redirect"
	case Render:
		return "render"
	default:
		return "unknown"
	}
}

// Decision is what the router should do with a requested view.
// Path is set only for RedirectTo.
type Decision struct {
	Kind Kind
	Path Path
}

// DashboardPathFor maps each role to its dashboard. Sessions only admit
// users whose role is Valid, so any other role is a programming error.
func DashboardPathFor(role models.Role) Path {
	switch role {
	case models.RoleStudent:
		return StudentDashboard
	case models.RoleMentor:
		return MentorDashboard
	default:
		panic(fmt.Sprintf("route: no dashboard for role %q", role))
	}
}

// Decide guards a view that requires role. An empty role means any
// authenticated user may see it.
func Decide(s Session, required models.Role) Decision {
	if s.IsLoading() {
		return Decision{Kind: ShowLoading}
	}

	user := s.CurrentUser()
	if user == nil {
		return Decision{Kind: RedirectTo, Path: Login}
	}

	if required != "" && user.Role != required {
		return Decision{Kind: RedirectTo, Path: DashboardPathFor(user.Role)}
	}

	return Decision{Kind: Render}
}

// DecideHome guards the home route. Authenticated users go to their
// dashboard; everyone else sees the landing view or the login view
// depending on mode.
func DecideHome(s Session, mode config.HomeMode) Decision {
	if s.IsLoading() {
		return Decision{Kind: ShowLoading}
	}

	if user := s.CurrentUser(); user != nil {
		return Decision{Kind: RedirectTo, Path: DashboardPathFor(user.Role)}
	}

	if mode == config.HomeLogin {
		return Decision{Kind: RedirectTo, Path: Login}
	}
	return Decision{Kind: Render}
}
