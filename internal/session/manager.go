// ABOUTME: Session state machine: bootstrapping, unauthenticated, authenticating, authenticated
// ABOUTME: Owns login/signup/logout/refresh and is the only writer of the token store

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/markalston/course-progress/internal/client"
	"github.com/markalston/course-progress/internal/models"
	"github.com/markalston/course-progress/internal/route"
)

var (
	// ErrClosed is returned for results that arrive after Close
	ErrClosed = errors.New("session closed")
	// ErrSuperseded is returned when a newer operation or a logout
	// already decided the session state
	ErrSuperseded = errors.New("session operation superseded")
	// ErrNotAuthenticated is returned by Refresh without a signed-in user
	ErrNotAuthenticated = errors.New("not signed in")
)

// State names the session lifecycle stage
type State int

const (
	Bootstrapping State = iota
	Unauthenticated
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Bootstrapping:
		return "bootstrapping"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the session. User is non-nil
// exactly in the Authenticated state.
type Snapshot struct {
	State State
	User  *models.User
}

// IsLoading reports whether a bootstrap or login is still resolving
func (s Snapshot) IsLoading() bool {
	return s.State == Bootstrapping || s.State == Authenticating
}

// IsAuthenticated reports whether a user is signed in
func (s Snapshot) IsAuthenticated() bool {
	return s.User != nil
}

// CurrentUser returns the signed-in user or nil
func (s Snapshot) CurrentUser() *models.User {
	return s.User
}

// Gateway performs the auth network calls
type Gateway interface {
	Login(ctx context.Context, email, password string, role models.Role) (*models.AuthResponse, error)
	Signup(ctx context.Context, email, password string, role models.Role) (*models.AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)
	Refresh(ctx context.Context, refreshToken string) (*models.RefreshResponse, error)
}

// Store persists the credential pair and cached user
type Store interface {
	Save(accessToken, refreshToken string, user models.User) error
	Clear() error
	HasAccessToken() bool
	CachedUser() (*models.User, bool)
	RefreshToken() (string, error)
	SetAccessToken(accessToken string) error
	AccessTokenExpired(leeway time.Duration) bool
}

// Manager is the process-wide session. All methods are safe for
// concurrent use; network calls run without holding the lock.
type Manager struct {
	store  Store
	gw     Gateway
	leeway time.Duration

	mu      sync.Mutex
	state   State
	user    *models.User
	started bool
	closed  bool

	// epoch changes on logout, teardown, and close; results started
	// under an older epoch are discarded
	epoch uint64

	// creds changes whenever a login or signup starts replacing the
	// stored credentials; refreshes begun under older credentials are
	// discarded
	creds uint64

	// seq numbers login/signup calls; applied is the newest one whose
	// result was applied and outcome is that result's user (nil on failure)
	seq      uint64
	applied  uint64
	inflight int
	outcome  *models.User

	subs   map[int]func(Snapshot)
	nextID int

	// refreshes coalesces concurrent Refresh calls into one round trip
	refreshes singleflight.Group
}

// Option configures a Manager
type Option func(*Manager)

// WithTokenLeeway sets how close to expiry EnsureFresh refreshes
func WithTokenLeeway(d time.Duration) Option {
	return func(m *Manager) {
		m.leeway = d
	}
}

// New creates a Manager in the Bootstrapping state
func New(store Store, gw Gateway, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		gw:     gw,
		leeway: 30 * time.Second,
		state:  Bootstrapping,
		subs:   make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot returns the current state
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// IsLoading implements route.Session
func (m *Manager) IsLoading() bool {
	return m.Snapshot().IsLoading()
}

// CurrentUser implements route.Session
func (m *Manager) CurrentUser() *models.User {
	return m.Snapshot().User
}

// Subscribe registers fn to receive every state change. The returned
// func removes the subscription.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Start resolves the initial state from the token store. Only the
// first call does anything. Failures are logged and leave the session
// unauthenticated with an empty store.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.started || m.closed {
		m.mu.Unlock()
		return
	}
	m.started = true
	epoch := m.epoch
	m.mu.Unlock()

	if !m.store.HasAccessToken() {
		slog.Debug("No stored access token")
		m.finishBootstrap(epoch, nil, false)
		return
	}

	if user, ok := m.store.CachedUser(); ok {
		slog.Debug("Restored session from cached user", "email", user.Email, "role", user.Role)
		m.finishBootstrap(epoch, user, false)
		return
	}

	user, err := m.gw.Me(ctx)
	if err == nil && !user.Role.Valid() {
		err = fmt.Errorf("unexpected role %q", user.Role)
	}
	if err != nil {
		slog.Warn("Session bootstrap failed, clearing stored credentials", "error", err)
		m.finishBootstrap(epoch, nil, true)
		return
	}
	slog.Debug("Restored session from API", "email", user.Email, "role", user.Role)
	m.finishBootstrap(epoch, user, false)
}

func (m *Manager) finishBootstrap(epoch uint64, user *models.User, clear bool) {
	m.mu.Lock()
	if m.closed || m.epoch != epoch || m.state != Bootstrapping {
		m.mu.Unlock()
		slog.Debug("Discarding bootstrap result")
		return
	}
	if clear {
		m.clearStoreLocked()
	}
	if user != nil {
		m.state, m.user = Authenticated, user
	} else {
		m.state, m.user = Unauthenticated, nil
	}
	m.unlockAndNotify()
}

// Login authenticates and, on success, returns the dashboard for the
// user's role. Gateway errors are returned unchanged.
func (m *Manager) Login(ctx context.Context, email, password string, role models.Role) (route.Path, error) {
	return m.authenticate(ctx, "login", email, func(ctx context.Context) (*models.AuthResponse, error) {
		return m.gw.Login(ctx, email, password, role)
	})
}

// Signup registers and signs in, returning the new user's dashboard
func (m *Manager) Signup(ctx context.Context, email, password string, role models.Role) (route.Path, error) {
	return m.authenticate(ctx, "signup", email, func(ctx context.Context) (*models.AuthResponse, error) {
		return m.gw.Signup(ctx, email, password, role)
	})
}

func (m *Manager) authenticate(ctx context.Context, op, email string, call func(context.Context) (*models.AuthResponse, error)) (route.Path, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return "", ErrClosed
	}
	if m.state == Authenticated {
		// New credentials replace the old ones wholesale
		m.clearStoreLocked()
	}
	m.seq++
	m.creds++
	seq, epoch := m.seq, m.epoch
	m.inflight++
	m.state, m.user = Authenticating, nil
	m.unlockAndNotify()

	resp, err := call(ctx)
	if err == nil && !resp.User.Role.Valid() {
		err = fmt.Errorf("unexpected role %q", resp.User.Role)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return "", ErrClosed
	}
	if m.epoch != epoch {
		m.mu.Unlock()
		slog.Debug("Discarding auth result after logout", "op", op, "email", email)
		return "", ErrSuperseded
	}
	m.inflight--

	if seq < m.applied {
		slog.Debug("Discarding stale auth result", "op", op, "email", email, "seq", seq, "applied", m.applied)
		m.settleLocked()
		m.unlockAndNotify()
		return "", ErrSuperseded
	}
	m.applied = seq

	if err == nil {
		if saveErr := m.store.Save(resp.AccessToken, resp.RefreshToken, resp.User); saveErr != nil {
			err = fmt.Errorf("failed to save credentials: %w", saveErr)
		}
	}

	if err != nil {
		slog.Info("Authentication failed", "op", op, "email", email, "error", err)
		m.clearStoreLocked()
		m.outcome = nil
		m.settleLocked()
		m.unlockAndNotify()
		return "", err
	}

	user := resp.User
	slog.Info("Authenticated", "op", op, "email", user.Email, "role", user.Role)
	m.outcome = &user
	m.settleLocked()
	m.unlockAndNotify()
	return route.DashboardPathFor(user.Role), nil
}

// settleLocked leaves Authenticating once no login or signup is in flight
func (m *Manager) settleLocked() {
	if m.inflight > 0 {
		return
	}
	if m.outcome != nil {
		m.state, m.user = Authenticated, m.outcome
	} else {
		m.state, m.user = Unauthenticated, nil
	}
}

// Logout clears credentials and returns the login path. Safe to call
// in any state, any number of times.
func (m *Manager) Logout() route.Path {
	m.mu.Lock()
	changed := m.state != Unauthenticated
	m.teardownLocked()
	if !changed {
		m.mu.Unlock()
		return route.Login
	}
	slog.Info("Signed out")
	m.unlockAndNotify()
	return route.Login
}

// Refresh exchanges the stored refresh token for a new access token.
// A rejected refresh token tears the session down. Concurrent callers
// share a single request.
func (m *Manager) Refresh(ctx context.Context) error {
	_, err, shared := m.refreshes.Do("refresh", func() (any, error) {
		return nil, m.refresh(ctx)
	})
	if shared {
		slog.Debug("Joined in-flight token refresh")
	}
	return err
}

func (m *Manager) refresh(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.state != Authenticated {
		m.mu.Unlock()
		return ErrNotAuthenticated
	}
	epoch, creds := m.epoch, m.creds
	m.mu.Unlock()

	refreshToken, err := m.store.RefreshToken()
	if err != nil {
		if !m.teardownIfCurrent(epoch, creds, err) {
			return ErrSuperseded
		}
		return err
	}

	resp, err := m.gw.Refresh(ctx, refreshToken)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if !m.currentLocked(epoch, creds) {
		m.mu.Unlock()
		slog.Debug("Discarding refresh result for replaced credentials")
		return ErrSuperseded
	}

	if err != nil {
		var authErr *client.AuthError
		if errors.As(err, &authErr) {
			slog.Warn("Refresh token rejected, signing out", "error", err)
			m.teardownLocked()
			m.unlockAndNotify()
			return err
		}
		m.mu.Unlock()
		slog.Warn("Token refresh failed", "error", err)
		return err
	}

	if err := m.store.SetAccessToken(resp.AccessToken); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to save access token: %w", err)
	}
	m.mu.Unlock()
	slog.Debug("Access token refreshed")
	return nil
}

// EnsureFresh refreshes only when the stored access token is expired
// or about to expire
func (m *Manager) EnsureFresh(ctx context.Context) error {
	if !m.store.AccessTokenExpired(m.leeway) {
		return nil
	}
	slog.Debug("Access token near expiry, refreshing", "leeway", m.leeway)
	return m.Refresh(ctx)
}

// currentLocked reports whether the session still holds the
// credentials a refresh started with
func (m *Manager) currentLocked(epoch, creds uint64) bool {
	return m.epoch == epoch && m.creds == creds && m.state == Authenticated
}

// teardownIfCurrent signs out unless the credentials were replaced in
// the meantime, and reports whether it did
func (m *Manager) teardownIfCurrent(epoch, creds uint64, cause error) bool {
	m.mu.Lock()
	if m.closed || !m.currentLocked(epoch, creds) {
		m.mu.Unlock()
		return false
	}
	slog.Warn("Cannot refresh session, signing out", "error", cause)
	m.teardownLocked()
	m.unlockAndNotify()
	return true
}

// Close stops the session from applying any further results
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.epoch++
	m.subs = make(map[int]func(Snapshot))
}

func (m *Manager) teardownLocked() {
	m.epoch++
	m.inflight = 0
	m.outcome = nil
	m.state, m.user = Unauthenticated, nil
	m.clearStoreLocked()
}

func (m *Manager) clearStoreLocked() {
	if err := m.store.Clear(); err != nil {
		slog.Warn("Failed to clear stored credentials", "error", err)
	}
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{State: m.state}
	if m.user != nil {
		u := *m.user
		snap.User = &u
	}
	return snap
}

// unlockAndNotify releases the lock and then informs subscribers
func (m *Manager) unlockAndNotify() {
	snap := m.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
