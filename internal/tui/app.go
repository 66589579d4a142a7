// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Resolves routes against the session and hosts the current view in a frame

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/markalston/course-progress/internal/analytics"
	"github.com/markalston/course-progress/internal/client"
	"github.com/markalston/course-progress/internal/config"
	"github.com/markalston/course-progress/internal/models"
	"github.com/markalston/course-progress/internal/route"
	"github.com/markalston/course-progress/internal/session"
	"github.com/markalston/course-progress/internal/tui/authform"
	"github.com/markalston/course-progress/internal/tui/catalog"
	"github.com/markalston/course-progress/internal/tui/dashboard"
	"github.com/markalston/course-progress/internal/tui/icons"
	"github.com/markalston/course-progress/internal/tui/landing"
	"github.com/markalston/course-progress/internal/tui/lessons"
	"github.com/markalston/course-progress/internal/tui/mentor"
	"github.com/markalston/course-progress/internal/tui/nav"
	"github.com/markalston/course-progress/internal/tui/recentlogins"
	"github.com/markalston/course-progress/internal/tui/report"
	"github.com/markalston/course-progress/internal/tui/styles"
	"github.com/markalston/course-progress/internal/tui/widgets"
)

// Layout constants
const (
	minTerminalWidth = 80 // Frame never renders narrower than this
	frameOverhead    = 4  // Header, blank line, status line, footer
)

// Session is the session manager as seen by the TUI
type Session interface {
	route.Session
	Start(ctx context.Context)
	Snapshot() session.Snapshot
	Subscribe(fn func(session.Snapshot)) func()
	Login(ctx context.Context, email, password string, role models.Role) (route.Path, error)
	Signup(ctx context.Context, email, password string, role models.Role) (route.Path, error)
	Logout() route.Path
	Refresh(ctx context.Context) error
	EnsureFresh(ctx context.Context) error
}

// API is every backend call made by the views
type API interface {
	dashboard.API
	catalog.API
	lessons.API
	analytics.Source
	mentor.DashboardAPI
	mentor.CourseAPI
	mentor.CourseCreator
}

// sessionStartedMsg is sent once the stored session has been resolved
type sessionStartedMsg struct{}

// sessionChangedMsg is sent whenever the session state moves
type sessionChangedMsg struct{}

// authDoneMsg is the outcome of a login or sign-up
type authDoneMsg struct {
	mode  authform.Mode
	email string
	role  models.Role
	path  route.Path
	err   error
}

// refreshDoneMsg is the outcome of the one-shot refresh after a 401
type refreshDoneMsg struct {
	err error
}

// viewMsg is a message produced by a view's command, tagged with the
// generation of the view that issued it
type viewMsg struct {
	gen uint64
	msg tea.Msg
}

// App is the root model for the TUI
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	session Session
	api     API
	router  *route.Router
	recent  *recentlogins.RecentLogins
	changed chan struct{}
	unsub   func()

	path    route.Path       // requested path
	res     route.Resolution // where the router sent it
	view    nav.View
	spinner spinner.Model

	// gen numbers built views; viewCtx scopes the current view's requests
	// and is cancelled when the view is replaced
	gen        uint64
	viewCtx    context.Context
	viewCancel context.CancelFunc

	width      int
	height     int
	err        error
	flash      string
	refreshed  bool        // a 401 already triggered a refresh for this view
	roleHint   models.Role // preselected role for the next auth form
	lastUpdate time.Time
}

// New creates a new TUI application starting at the home route
func New(sess Session, api API, cfg *config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())

	home := config.HomeLanding
	dir := ""
	if cfg != nil {
		home = cfg.HomeMode
		dir = cfg.ConfigDir
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	a := &App{
		ctx:     ctx,
		cancel:  cancel,
		session: sess,
		api:     api,
		router:  route.NewRouter(home),
		recent:  recentlogins.New(dir),
		changed: make(chan struct{}, 1),
		path:    route.Home,
		spinner: sp,
	}
	a.unsub = sess.Subscribe(func(session.Snapshot) {
		select {
		case a.changed <- struct{}{}:
		default:
		}
	})
	if _, err := a.recent.Load(); err != nil {
		slog.Warn("Failed to load recent logins", "error", err)
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.resolve(true), a.start(), a.waitForSession())
}

// start bootstraps the session from stored tokens
func (a *App) start() tea.Cmd {
	return func() tea.Msg {
		a.session.Start(a.ctx)
		return sessionStartedMsg{}
	}
}

// waitForSession blocks until the next session change
func (a *App) waitForSession() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-a.changed:
			return sessionChangedMsg{}
		case <-a.ctx.Done():
			return nil
		}
	}
}

// Close cancels in-flight requests and drops the session subscription
func (a *App) Close() {
	if a.viewCancel != nil {
		a.viewCancel()
	}
	a.cancel()
	if a.unsub != nil {
		a.unsub()
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.view != nil {
			a.view.SetSize(a.contentWidth(), a.contentHeight())
		}
		return a.forward(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case sessionStartedMsg:
		return a, a.resolve(false)

	case sessionChangedMsg:
		if a.ctx.Err() != nil {
			return a, nil
		}
		return a, tea.Batch(a.resolve(false), a.waitForSession())

	case viewMsg:
		if msg.gen != a.gen {
			slog.Debug("Dropping message from a replaced view", "type", fmt.Sprintf("%T", msg.msg))
			return a, nil
		}
		return a.Update(msg.msg)

	case tea.QuitMsg:
		return a, tea.Quit

	case nav.NavigateMsg:
		return a, a.navigateAs(msg.Path, msg.Role)

	case nav.FlashMsg:
		a.flash = msg.Text
		return a, nil

	case nav.ErrMsg:
		return a.handleError(msg)

	case authform.SubmitMsg:
		return a, a.authenticate(msg)

	case authDoneMsg:
		return a.handleAuthDone(msg)

	case refreshDoneMsg:
		if msg.err != nil {
			slog.Warn("Refresh after 401 failed", "error", msg.err)
			a.err = msg.err
			return a, a.resolve(false)
		}
		return a, a.resolve(true)
	}

	return a.forward(msg)
}

// forward passes msg to the current view
func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.view == nil {
		return a, nil
	}
	_, cmd := a.view.Update(msg)
	return a, stamp(a.gen, cmd)
}

var cmdType = reflect.TypeFor[tea.Cmd]()

// stamp tags every message cmd produces with view generation gen.
// Batches and sequences are rebuilt with each member stamped so the
// runtime still expands them.
func stamp(gen uint64, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg {
		msg := cmd()
		if msg == nil {
			return nil
		}
		if v := reflect.ValueOf(msg); v.Kind() == reflect.Slice && v.Type().Elem() == cmdType {
			out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
			for i := range v.Len() {
				c, _ := v.Index(i).Interface().(tea.Cmd)
				out.Index(i).Set(reflect.ValueOf(stamp(gen, c)))
			}
			return out.Interface()
		}
		return viewMsg{gen: gen, msg: msg}
	}
}

// dropView cancels the current view's requests and retires its
// generation so late results are ignored
func (a *App) dropView() {
	if a.viewCancel != nil {
		a.viewCancel()
		a.viewCancel = nil
	}
	a.view = nil
	a.gen++
}

func (a *App) rendering() bool {
	return a.view != nil && a.res.Decision.Kind == route.Render
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if !a.rendering() || !a.view.CapturesInput() {
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "o":
			if a.session.Snapshot().IsAuthenticated() {
				return a, a.navigate(a.session.Logout())
			}
		}
	}

	if !a.rendering() {
		return a, nil
	}
	a.flash = ""
	return a.forward(msg)
}

// navigate switches to p and rebuilds the view
func (a *App) navigate(p route.Path) tea.Cmd {
	return a.navigateAs(p, "")
}

// navigateAs is navigate with a role to preselect on an auth form
func (a *App) navigateAs(p route.Path, role models.Role) tea.Cmd {
	a.path = p
	a.roleHint = role
	a.err = nil
	a.refreshed = false
	return a.resolve(true)
}

// resolve runs the route guard for the requested path. Unless force is
// set, a view that still renders at the same path is kept.
func (a *App) resolve(force bool) tea.Cmd {
	res := a.router.Resolve(a.path, a.session)
	if !force && a.rendering() && res.Decision.Kind == route.Render && res.Path == a.res.Path {
		a.res = res
		return nil
	}
	a.res = res

	if res.Decision.Kind != route.Render {
		if a.view != nil {
			a.dropView()
		}
		return a.spinner.Tick
	}

	if res.Path != a.path {
		slog.Debug("Route redirected", "from", a.path, "to", res.Path)
	}
	a.path = res.Path
	a.dropView()
	a.viewCtx, a.viewCancel = context.WithCancel(a.ctx)
	a.view = a.buildView(res)
	a.view.SetSize(a.contentWidth(), a.contentHeight())
	a.lastUpdate = time.Now()

	init := stamp(a.gen, a.view.Init())
	if res.Route.Access == route.AccessRole {
		return tea.Sequence(a.ensureFresh(), init)
	}
	return init
}

// buildView constructs the view for a resolved route
func (a *App) buildView(res route.Resolution) nav.View {
	id := res.Params["id"]
	switch res.Route.Pattern {
	case route.Login, route.Signup:
		mode := authform.ModeLogin
		if res.Route.Pattern == route.Signup {
			mode = authform.ModeSignup
		}
		email, role := "", models.RoleStudent
		if a.roleHint.Valid() {
			email, role = a.recent.ForRole(a.roleHint), a.roleHint
		} else if last, ok := a.recent.Last(); ok {
			email, role = last.Email, last.Role
		}
		return authform.New(mode, email, role)
	case route.StudentDashboard:
		return dashboard.New(a.viewCtx, a.api)
	case route.StudentCourses:
		return catalog.New(a.viewCtx, a.api)
	case route.StudentCourse:
		return lessons.New(a.viewCtx, a.api, id)
	case route.StudentAnalytics:
		return report.New(a.viewCtx, a.api)
	case route.MentorDashboard:
		return mentor.NewDashboard(a.viewCtx, a.api)
	case route.MentorNewCourse:
		return mentor.NewCourseForm(a.viewCtx, a.api)
	case route.MentorCourse:
		return mentor.NewCourse(a.viewCtx, a.api, id)
	default:
		return landing.New()
	}
}

// ensureFresh refreshes a near-expired access token before a view loads.
// A refresh that signs the user out reroutes through the subscription.
func (a *App) ensureFresh() tea.Cmd {
	return func() tea.Msg {
		if err := a.session.EnsureFresh(a.ctx); err != nil {
			slog.Warn("Token refresh before load failed", "error", err)
		}
		return nil
	}
}

// authenticate runs a login or sign-up for the auth form
func (a *App) authenticate(msg authform.SubmitMsg) tea.Cmd {
	return func() tea.Msg {
		call := a.session.Login
		if msg.Mode == authform.ModeSignup {
			call = a.session.Signup
		}
		path, err := call(a.ctx, msg.Email, msg.Password, msg.Role)
		return authDoneMsg{mode: msg.Mode, email: msg.Email, role: msg.Role, path: path, err: err}
	}
}

func (a *App) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, session.ErrSuperseded) || errors.Is(msg.err, session.ErrClosed) {
		slog.Debug("Dropping superseded auth result", "mode", msg.mode)
		return a, nil
	}

	if msg.err != nil {
		if form, ok := a.view.(*authform.Form); ok {
			return a, form.Done(msg.err)
		}
		a.err = msg.err
		return a, nil
	}

	if err := a.recent.Add(msg.email, msg.role); err != nil {
		slog.Warn("Failed to save recent login", "error", err)
	}
	return a, a.navigate(msg.path)
}

// handleError shows a view's failure. The first 401 on a view triggers a
// token refresh and a reload before the error is surfaced.
func (a *App) handleError(msg nav.ErrMsg) (tea.Model, tea.Cmd) {
	var authErr *client.AuthError
	if errors.As(msg.Err, &authErr) && authErr.Unauthorized() && !a.refreshed && a.session.Snapshot().IsAuthenticated() {
		a.refreshed = true
		slog.Debug("Request unauthorized, refreshing session")
		_, cmd := a.forward(msg)
		return a, tea.Batch(cmd, stamp(a.gen, func() tea.Msg {
			return refreshDoneMsg{err: a.session.Refresh(a.ctx)}
		}))
	}

	slog.Error("View request failed", "path", a.path, "error", msg.Err)
	a.err = msg.Err
	return a.forward(msg)
}

// View implements tea.Model
func (a *App) View() string {
	content := "\n  " + a.spinner.View() + " " + styles.Subtitle.Render("Loading session...")
	if a.rendering() {
		content = a.view.View()
	}

	var status string
	switch {
	case a.err != nil:
		status = styles.Error(a.err.Error())
	case a.flash != "":
		status = styles.StatusOK.Render(icons.Info.String() + " " + a.flash)
	}

	return a.wrapWithFrame(content, status)
}

// frameWidth leaves the last terminal column free to prevent wrapping
func (a *App) frameWidth() int {
	return max(minTerminalWidth, a.width-1)
}

func (a *App) contentWidth() int {
	return a.frameWidth() - 2
}

func (a *App) contentHeight() int {
	return max(0, a.height-frameOverhead)
}

// renderHeader creates the header bar with app branding and the user
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App, titleStyle.Render("Course Progress"))
	if a.rendering() && a.res.Path != route.Home {
		leftText += contextStyle.Render("· "+a.res.Route.Title) + " "
	}

	rightText := ""
	if u := a.session.CurrentUser(); u != nil {
		rightText = " " + widgets.RoleBadge(u.Role) + " " + contextStyle.Render(u.Email) + " "
		if lipgloss.Width(leftText)+lipgloss.Width(rightText) > width-4 {
			rightText = " " + widgets.RoleBadge(u.Role) + " "
		}
	}

	fillWidth := max(0, width-4-lipgloss.Width(leftText)-lipgloss.Width(rightText)) // -4 for ╭─ and ─╮
	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// shortcuts lists the view's footer keys and the global ones
func (a *App) shortcuts() (view, global []string) {
	capturing := false
	if a.rendering() {
		view = a.view.Shortcuts()
		capturing = a.view.CapturesInput()
	}
	if !capturing {
		if a.session.Snapshot().IsAuthenticated() {
			global = append(global, "o Logout")
		}
		global = append(global, "q Quit")
	}
	return view, global
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	// View shortcuts are dropped from the end until the footer fits
	view, global := a.shortcuts()
	shortcuts := slices.Concat(view, global)
	for len(view) > 0 && lipgloss.Width(" "+strings.Join(shortcuts, "  ")) > width-4 {
		view = view[:len(view)-1]
		shortcuts = slices.Concat(view, global)
	}

	var styled []string
	for _, s := range shortcuts {
		if key, label, ok := strings.Cut(s, " "); ok {
			styled = append(styled, keyStyle.Render(key)+" "+labelStyle.Render(label))
		} else {
			styled = append(styled, s)
		}
	}
	leftText := " " + strings.Join(styled, "  ")
	leftPlain := " " + strings.Join(shortcuts, "  ")

	rightText, rightPlain := "", ""
	if !a.lastUpdate.IsZero() && a.rendering() {
		since := "Updated " + humanize.Time(a.lastUpdate)
		rightText = statusStyle.Render(since) + " "
		rightPlain = since + " "
	}

	// Drop the status before letting the shortcuts overflow the frame
	if lipgloss.Width(leftPlain)+lipgloss.Width(rightPlain) > width-4 {
		rightText, rightPlain = "", ""
	}

	fillWidth := max(0, width-4-lipgloss.Width(leftPlain)-lipgloss.Width(rightPlain)) // -4 for ╰─ and ─╯
	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// wrapWithFrame wraps content with header, status line, and footer
func (a *App) wrapWithFrame(content, status string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	if status != "" {
		sb.WriteString(" " + status)
		sb.WriteString("\n")
	}
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI and blocks until it exits
func Run(sess Session, api API, cfg *config.Config) error {
	app := New(sess, api, cfg)
	defer app.Close()

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
