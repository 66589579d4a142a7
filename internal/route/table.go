// ABOUTME: Declarative route table and the router that resolves paths against it
// ABOUTME: Follows guard redirects until a view renders or the session is loading

package route

import (
	"log/slog"
	"strings"

	"github.com/markalston/course-progress/internal/config"
	"github.com/markalston/course-progress/internal/models"
)

// Access describes who may see a route
type Access int

const (
	// AccessPublic routes always render
	AccessPublic Access = iota
	// AccessHome routes apply the home logic
	AccessHome
	// AccessRole routes require an authenticated user with Route.Role
	AccessRole
)

// Route defines a view with its access rule
type Route struct {
	Pattern Path        // e.g. "/student/courses/:id"
	Access  Access      // who may see it
	Role    models.Role // required role for AccessRole
	Title   string      // header title
}

// Routes returns every view in the client
func Routes() []Route {
	return []Route{
		// Public
		{Pattern: Home, Access: AccessHome, Title: "Progress"},
		{Pattern: Login, Access: AccessPublic, Title: "Login"},
		{Pattern: Signup, Access: AccessPublic, Title: "Sign Up"},

		// Student
		{Pattern: StudentDashboard, Access: AccessRole, Role: models.RoleStudent, Title: "Student Dashboard"},
		{Pattern: StudentCourses, Access: AccessRole, Role: models.RoleStudent, Title: "Available Courses"},
		{Pattern: StudentCourse, Access: AccessRole, Role: models.RoleStudent, Title: "Course"},
		{Pattern: StudentAnalytics, Access: AccessRole, Role: models.RoleStudent, Title: "Analytics"},

		// Mentor
		{Pattern: MentorDashboard, Access: AccessRole, Role: models.RoleMentor, Title: "Mentor Dashboard"},
		{Pattern: MentorNewCourse, Access: AccessRole, Role: models.RoleMentor, Title: "Create Course"},
		{Pattern: MentorCourse, Access: AccessRole, Role: models.RoleMentor, Title: "Course"},
	}
}

// Params holds values captured from ":name" segments
type Params map[string]string

// With fills the ":id" segment of a pattern
func (p Path) With(id string) Path {
	return Path(strings.Replace(string(p), ":id", id, 1))
}

// Match reports whether path fits the pattern and returns captured params
func (p Path) Match(path Path) (Params, bool) {
	pat := strings.Split(strings.Trim(string(p), "/"), "/")
	got := strings.Split(strings.Trim(string(path), "/"), "/")
	if len(pat) != len(got) {
		return nil, false
	}

	var params Params
	for i, seg := range pat {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			if got[i] == "" {
				return nil, false
			}
			if params == nil {
				params = Params{}
			}
			params[name] = got[i]
			continue
		}
		if seg != got[i] {
			return nil, false
		}
	}
	return params, true
}

// maxHops bounds redirect chains; the longest real chain is
// protected -> login or protected -> home -> dashboard
const maxHops = 4

// Resolution is the final outcome of routing a requested path
type Resolution struct {
	Decision Decision // ShowLoading or Render
	Path     Path     // concrete path after redirects
	Route    Route    // matched route for Path
	Params   Params
}

// Router resolves paths against the route table
type Router struct {
	routes []Route
	home   config.HomeMode
}

// NewRouter creates a router over the standard table
func NewRouter(home config.HomeMode) *Router {
	return &Router{routes: Routes(), home: home}
}

// Lookup finds the route a concrete path belongs to. Static patterns
// win over parameterized ones so /mentor/courses/new is not an id.
func (r *Router) Lookup(path Path) (Route, Params, bool) {
	var (
		fallback       Route
		fallbackParams Params
		found          bool
	)
	for _, rt := range r.routes {
		params, ok := rt.Pattern.Match(path)
		if !ok {
			continue
		}
		if params == nil {
			return rt, nil, true
		}
		if !found {
			fallback, fallbackParams, found = rt, params, true
		}
	}
	return fallback, fallbackParams, found
}

// Decide applies the route's access rule to the session
func (r *Router) Decide(rt Route, s Session) Decision {
	switch rt.Access {
	case AccessPublic:
		return Decision{Kind: Render}
	case AccessHome:
		return DecideHome(s, r.home)
	default:
		return Decide(s, rt.Role)
	}
}

// Resolve routes path for s, following redirects. Unknown paths go home.
func (r *Router) Resolve(path Path, s Session) Resolution {
	current := path
	for hop := 0; hop <= maxHops; hop++ {
		rt, params, ok := r.Lookup(current)
		if !ok {
			slog.Debug("No route matched, redirecting home", "path", current)
			current = Home
			continue
		}

		d := r.Decide(rt, s)
		if d.Kind != RedirectTo {
			return Resolution{Decision: d, Path: current, Route: rt, Params: params}
		}
		slog.Debug("Route redirect", "from", current, "to", d.Path)
		current = d.Path
	}

	slog.Warn("Redirect loop while resolving route", "path", path, "last", current)
	return Resolution{Decision: Decision{Kind: ShowLoading}, Path: current}
}
