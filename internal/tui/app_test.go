// ABOUTME: Integration tests for TUI app
// ABOUTME: Tests route resolution, auth flows, 401 recovery, and global keys

package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/course-progress/internal/client"
	"github.com/markalston/course-progress/internal/config"
	"github.com/markalston/course-progress/internal/models"
	"github.com/markalston/course-progress/internal/route"
	"github.com/markalston/course-progress/internal/session"
	"github.com/markalston/course-progress/internal/tui/authform"
	"github.com/markalston/course-progress/internal/tui/dashboard"
	"github.com/markalston/course-progress/internal/tui/landing"
	"github.com/markalston/course-progress/internal/tui/mentor"
	"github.com/markalston/course-progress/internal/tui/nav"
)

// fakeSession is a scripted session manager
type fakeSession struct {
	mu    sync.Mutex
	state session.State
	user  *models.User
	subs  []func(session.Snapshot)

	authErr    error
	refreshErr error
	refreshes  int
	logouts    int
	started    int
}

func (f *fakeSession) Snapshot() session.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return session.Snapshot{State: f.state, User: f.user}
}

func (f *fakeSession) IsLoading() bool           { return f.Snapshot().IsLoading() }
func (f *fakeSession) CurrentUser() *models.User { return f.Snapshot().User }

func (f *fakeSession) Subscribe(fn func(session.Snapshot)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
	return func() {}
}

func (f *fakeSession) set(state session.State, user *models.User) {
	f.mu.Lock()
	f.state, f.user = state, user
	subs := f.subs
	f.mu.Unlock()
	for _, fn := range subs {
		fn(f.Snapshot())
	}
}

func (f *fakeSession) Start(context.Context) {
	f.started++
	f.set(session.Unauthenticated, nil)
}

func (f *fakeSession) Login(_ context.Context, email, _ string, role models.Role) (route.Path, error) {
	if f.authErr != nil {
		return "", f.authErr
	}
	f.set(session.Authenticated, &models.User{ID: "u1", Email: email, Role: role})
	return route.DashboardPathFor(role), nil
}

func (f *fakeSession) Signup(ctx context.Context, email, password string, role models.Role) (route.Path, error) {
	return f.Login(ctx, email, password, role)
}

func (f *fakeSession) Logout() route.Path {
	f.logouts++
	f.set(session.Unauthenticated, nil)
	return route.Login
}

func (f *fakeSession) Refresh(context.Context) error {
	f.refreshes++
	return f.refreshErr
}

func (f *fakeSession) EnsureFresh(context.Context) error {
	return nil
}

// fakeAPI satisfies API; views are built but their loads never run here
type fakeAPI struct {
	API
}

func newApp(t *testing.T, sess *fakeSession) *App {
	t.Helper()
	cfg := &config.Config{HomeMode: config.HomeLanding, ConfigDir: t.TempDir()}
	app := New(sess, fakeAPI{}, cfg)
	t.Cleanup(app.Close)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return app
}

func signedIn(role models.Role) *fakeSession {
	return &fakeSession{
		state: session.Authenticated,
		user:  &models.User{ID: "u1", Email: "ada@example.com", Role: role},
	}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// collect runs cmd and expands batches into their messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if vm, ok := msg.(viewMsg); ok {
		return []tea.Msg{vm.msg}
	}
	return []tea.Msg{msg}
}

func TestAppShowsLoadingUntilSessionStarts(t *testing.T) {
	sess := &fakeSession{state: session.Bootstrapping}
	app := newApp(t, sess)
	app.Init()

	if app.rendering() {
		t.Fatal("expected loading while bootstrapping")
	}
	if !strings.Contains(app.View(), "Loading session") {
		t.Error("expected loading message")
	}

	sess.Start(context.Background())
	app.Update(sessionStartedMsg{})
	if _, ok := app.view.(*landing.Landing); !ok {
		t.Fatalf("expected landing view, got %T", app.view)
	}
}

func TestAppHomeLoginMode(t *testing.T) {
	sess := &fakeSession{state: session.Unauthenticated}
	app := New(sess, fakeAPI{}, &config.Config{HomeMode: config.HomeLogin})
	t.Cleanup(app.Close)
	app.Init()

	if _, ok := app.view.(*authform.Form); !ok {
		t.Fatalf("expected login form, got %T", app.view)
	}
	if app.path != route.Login {
		t.Errorf("expected path %s, got %s", route.Login, app.path)
	}
}

func TestAppGuardsProtectedRoutes(t *testing.T) {
	tests := []struct {
		name     string
		sess     *fakeSession
		path     route.Path
		wantPath route.Path
		wantView string
	}{
		{"anonymous to student dashboard", &fakeSession{state: session.Unauthenticated}, route.StudentDashboard, route.Login, "*authform.Form"},
		{"student at home", signedIn(models.RoleStudent), route.Home, route.StudentDashboard, "*dashboard.Dashboard"},
		{"mentor on student page", signedIn(models.RoleMentor), route.StudentCourses, route.MentorDashboard, "*mentor.Dashboard"},
		{"mentor course", signedIn(models.RoleMentor), route.MentorCourse.With("c1"), route.MentorCourse.With("c1"), "*mentor.Course"},
		{"new course is not an id", signedIn(models.RoleMentor), route.MentorNewCourse, route.MentorNewCourse, "*mentor.CourseForm"},
		{"unknown path", &fakeSession{state: session.Unauthenticated}, "/nowhere", route.Home, "*landing.Landing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(t, tt.sess)
			app.Update(nav.NavigateMsg{Path: tt.path})

			if app.path != tt.wantPath {
				t.Errorf("expected path %s, got %s", tt.wantPath, app.path)
			}
			if got := typeName(app.view); got != tt.wantView {
				t.Errorf("expected view %s, got %s", tt.wantView, got)
			}
		})
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *authform.Form:
		return "*authform.Form"
	case *dashboard.Dashboard:
		return "*dashboard.Dashboard"
	case *mentor.Dashboard:
		return "*mentor.Dashboard"
	case *mentor.Course:
		return "*mentor.Course"
	case *mentor.CourseForm:
		return "*mentor.CourseForm"
	case *landing.Landing:
		return "*landing.Landing"
	case nil:
		return "nil"
	default:
		return "other"
	}
}

func TestAppLoginNavigatesAndRemembersEmail(t *testing.T) {
	sess := &fakeSession{state: session.Unauthenticated}
	app := newApp(t, sess)
	app.Update(nav.NavigateMsg{Path: route.Login})

	submit := authform.SubmitMsg{Mode: authform.ModeLogin, Email: "ada@example.com", Password: "secret1", Role: models.RoleMentor}
	_, cmd := app.Update(submit)
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one auth result, got %v", msgs)
	}
	app.Update(msgs[0])

	if app.path != route.MentorDashboard {
		t.Errorf("expected mentor dashboard, got %s", app.path)
	}
	last, ok := app.recent.Last()
	if !ok || last.Email != "ada@example.com" || last.Role != models.RoleMentor {
		t.Errorf("expected login remembered, got %+v", last)
	}
}

func TestAppRoleHintPreselectsAuthForm(t *testing.T) {
	app := newApp(t, &fakeSession{state: session.Unauthenticated})
	if err := app.recent.Add("mentor@example.com", models.RoleMentor); err != nil {
		t.Fatal(err)
	}
	if err := app.recent.Add("student@example.com", models.RoleStudent); err != nil {
		t.Fatal(err)
	}

	app.Update(nav.NavigateMsg{Path: route.Signup, Role: models.RoleMentor})
	form, ok := app.view.(*authform.Form)
	if !ok {
		t.Fatalf("expected auth form, got %T", app.view)
	}
	if form.Mode() != authform.ModeSignup || form.Role() != models.RoleMentor {
		t.Errorf("expected mentor sign-up, got %v as %s", form.Mode(), form.Role())
	}

	// Without a hint the most recent login decides
	app.Update(nav.NavigateMsg{Path: route.Login})
	form = app.view.(*authform.Form)
	if form.Role() != models.RoleStudent {
		t.Errorf("expected the last used role, got %s", form.Role())
	}
}

func TestAppLoginFailureStaysOnForm(t *testing.T) {
	sess := &fakeSession{state: session.Unauthenticated, authErr: errors.New("invalid credentials")}
	app := newApp(t, sess)
	app.Update(nav.NavigateMsg{Path: route.Login})
	form := app.view.(*authform.Form)

	app.Update(authDoneMsg{mode: authform.ModeLogin, err: sess.authErr})
	if app.view != form {
		t.Fatal("expected the same form to stay")
	}
	if form.Err() != "invalid credentials" {
		t.Errorf("expected inline error, got %q", form.Err())
	}
	if app.path != route.Login {
		t.Errorf("expected to stay on login, got %s", app.path)
	}
}

func TestAppDropsSupersededAuthResult(t *testing.T) {
	sess := &fakeSession{state: session.Unauthenticated}
	app := newApp(t, sess)
	app.Update(nav.NavigateMsg{Path: route.Login})
	form := app.view.(*authform.Form)

	app.Update(authDoneMsg{err: session.ErrSuperseded})
	if form.Err() != "" || app.err != nil {
		t.Error("expected superseded result to be ignored")
	}
}

func TestAppRefreshesOnceOnUnauthorized(t *testing.T) {
	sess := signedIn(models.RoleStudent)
	app := newApp(t, sess)
	app.Update(nav.NavigateMsg{Path: route.StudentDashboard})
	first := app.view

	unauthorized := nav.ErrMsg{Err: &client.AuthError{Status: 401, Message: "token expired"}}
	_, cmd := app.Update(unauthorized)
	var done *refreshDoneMsg
	for _, msg := range collect(cmd) {
		if m, ok := msg.(refreshDoneMsg); ok {
			done = &m
		}
	}
	if done == nil {
		t.Fatal("expected a refresh")
	}
	if sess.refreshes != 1 {
		t.Errorf("expected 1 refresh, got %d", sess.refreshes)
	}
	if app.err != nil {
		t.Errorf("expected no error shown yet, got %v", app.err)
	}

	app.Update(*done)
	if app.view == first {
		t.Error("expected the view to be rebuilt after refresh")
	}

	// A second 401 on the same screen is shown, not retried
	_, cmd = app.Update(unauthorized)
	for _, msg := range collect(cmd) {
		if _, ok := msg.(refreshDoneMsg); ok {
			t.Error("expected no second refresh")
		}
	}
	if app.err == nil {
		t.Error("expected the error to be shown")
	}
}

func TestAppForbiddenIsNotRefreshed(t *testing.T) {
	sess := signedIn(models.RoleStudent)
	app := newApp(t, sess)
	app.Update(nav.NavigateMsg{Path: route.StudentDashboard})

	app.Update(nav.ErrMsg{Err: &client.AuthError{Status: 403, Message: "forbidden"}})
	if sess.refreshes != 0 {
		t.Error("expected no refresh for 403")
	}
	if !strings.Contains(app.View(), "forbidden") {
		t.Error("expected error in view")
	}
}

func TestAppFailedRefreshRedirectsToLogin(t *testing.T) {
	sess := signedIn(models.RoleStudent)
	app := newApp(t, sess)
	app.Update(nav.NavigateMsg{Path: route.StudentDashboard})

	// The manager signs out when the refresh token is rejected
	sess.set(session.Unauthenticated, nil)
	app.Update(refreshDoneMsg{err: &client.AuthError{Status: 401, Message: "refresh token expired"}})

	if app.path != route.Login {
		t.Errorf("expected redirect to login, got %s", app.path)
	}
	if app.err == nil {
		t.Error("expected the refresh error to be shown")
	}
}

func TestAppIgnoresErrorsFromReplacedView(t *testing.T) {
	sess := signedIn(models.RoleStudent)
	app := newApp(t, sess)
	app.Update(nav.NavigateMsg{Path: route.StudentDashboard})
	oldCtx := app.viewCtx

	// A request issued by the dashboard that fails after the user moved on
	late := stamp(app.gen, func() tea.Msg {
		return nav.Fail(&client.AuthError{Status: 401, Message: "token expired"})
	})
	app.Update(nav.NavigateMsg{Path: route.StudentCourses})

	if oldCtx.Err() == nil {
		t.Error("expected the replaced view's context to be cancelled")
	}
	if app.viewCtx.Err() != nil {
		t.Error("expected the new view's context to be live")
	}

	_, cmd := app.Update(late())
	if cmd != nil {
		t.Error("expected no command for a stale message")
	}
	if app.err != nil {
		t.Errorf("expected no error shown, got %v", app.err)
	}
	if app.refreshed || sess.refreshes != 0 {
		t.Error("expected no refresh for a stale 401")
	}

	// The same failure from the current view is shown
	app.Update(stamp(app.gen, func() tea.Msg { return nav.Fail(errors.New("server down")) })())
	if app.err == nil {
		t.Error("expected the current view's error to be shown")
	}
}

func TestAppStampKeepsBatches(t *testing.T) {
	flash := func() tea.Msg { return nav.FlashMsg{Text: "saved"} }
	msg := stamp(7, tea.Batch(flash, flash))()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected a batch, got %T", msg)
	}
	if len(batch) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(batch))
	}
	for _, c := range batch {
		vm, ok := c().(viewMsg)
		if !ok || vm.gen != 7 {
			t.Errorf("expected a message stamped with generation 7, got %#v", vm)
		}
	}
	if stamp(7, nil) != nil {
		t.Error("expected nil command to stay nil")
	}
}

func TestAppQuitFromViewReachesRuntime(t *testing.T) {
	app := newApp(t, &fakeSession{state: session.Unauthenticated})
	app.Update(nav.NavigateMsg{Path: route.Home})

	_, cmd := app.Update(stamp(app.gen, tea.Quit)())
	if cmd == nil {
		t.Fatal("expected quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestAppStaleRefreshResultIsDropped(t *testing.T) {
	sess := signedIn(models.RoleStudent)
	app := newApp(t, sess)
	app.Update(nav.NavigateMsg{Path: route.StudentDashboard})

	_, cmd := app.Update(nav.ErrMsg{Err: &client.AuthError{Status: 401, Message: "token expired"}})
	var done tea.Msg
	var walk func(tea.Cmd)
	walk = func(c tea.Cmd) {
		if c == nil {
			return
		}
		switch m := c().(type) {
		case tea.BatchMsg:
			for _, inner := range m {
				walk(inner)
			}
		case viewMsg:
			if _, ok := m.msg.(refreshDoneMsg); ok {
				done = m
			}
		}
	}
	walk(cmd)
	if done == nil {
		t.Fatal("expected a stamped refresh result")
	}

	app.Update(nav.NavigateMsg{Path: route.StudentAnalytics})
	view := app.view
	app.Update(done)
	if app.view != view {
		t.Error("expected the refresh result for the old view to be ignored")
	}
}

func TestAppSessionChangeKeepsRenderingView(t *testing.T) {
	sess := signedIn(models.RoleStudent)
	app := newApp(t, sess)
	app.Update(nav.NavigateMsg{Path: route.StudentDashboard})
	view := app.view

	app.Update(sessionChangedMsg{})
	if app.view != view {
		t.Error("expected the view to be kept when the route still renders")
	}

	sess.set(session.Unauthenticated, nil)
	app.Update(sessionChangedMsg{})
	if _, ok := app.view.(*authform.Form); !ok {
		t.Errorf("expected login form after sign-out, got %T", app.view)
	}
}

func TestAppGlobalKeys(t *testing.T) {
	t.Run("q quits outside text input", func(t *testing.T) {
		app := newApp(t, &fakeSession{state: session.Unauthenticated})
		app.Update(nav.NavigateMsg{Path: route.Home})
		_, cmd := app.Update(keyRune('q'))
		if cmd == nil {
			t.Fatal("expected quit")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected QuitMsg")
		}
	})

	t.Run("q is typed into forms", func(t *testing.T) {
		app := newApp(t, &fakeSession{state: session.Unauthenticated})
		app.Update(nav.NavigateMsg{Path: route.Login})
		_, cmd := app.Update(keyRune('q'))
		if cmd != nil {
			if _, ok := cmd().(tea.QuitMsg); ok {
				t.Error("expected q to reach the form")
			}
		}
	})

	t.Run("ctrl+c always quits", func(t *testing.T) {
		app := newApp(t, &fakeSession{state: session.Unauthenticated})
		app.Update(nav.NavigateMsg{Path: route.Login})
		_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected QuitMsg")
		}
	})

	t.Run("o logs out", func(t *testing.T) {
		sess := signedIn(models.RoleMentor)
		app := newApp(t, sess)
		app.Update(nav.NavigateMsg{Path: route.MentorDashboard})
		app.Update(keyRune('o'))
		if sess.logouts != 1 {
			t.Errorf("expected 1 logout, got %d", sess.logouts)
		}
		if app.path != route.Login {
			t.Errorf("expected login after logout, got %s", app.path)
		}
	})
}

func TestAppFlashClearsOnKey(t *testing.T) {
	sess := signedIn(models.RoleMentor)
	app := newApp(t, sess)
	app.Update(nav.NavigateMsg{Path: route.MentorDashboard})

	app.Update(nav.FlashMsg{Text: "Course deleted"})
	if !strings.Contains(app.View(), "Course deleted") {
		t.Error("expected flash in view")
	}
	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	if strings.Contains(app.View(), "Course deleted") {
		t.Error("expected flash cleared after a key")
	}
}

func TestAppHeaderShowsUser(t *testing.T) {
	app := newApp(t, signedIn(models.RoleStudent))
	app.Update(nav.NavigateMsg{Path: route.StudentDashboard})

	header := app.renderHeader()
	for _, want := range []string{"Course Progress", "Student Dashboard", "ada@example.com", "Student"} {
		if !strings.Contains(header, want) {
			t.Errorf("expected header to contain %q: %s", want, header)
		}
	}
	if !strings.Contains(app.renderFooter(), "Logout") {
		t.Error("expected logout shortcut for signed-in user")
	}
}
