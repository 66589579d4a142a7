// ABOUTME: Token store holding the access token, refresh token, and cached user
// ABOUTME: All three are written together on login and removed together on logout

package tokenstore

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/markalston/course-progress/internal/models"
)

// Storage keys, shared with the web client's localStorage layout
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

// ErrNoRefreshToken is returned when a refresh is requested without a stored token
var ErrNoRefreshToken = errors.New("no refresh token stored")

// Store owns the credential pair and the cached user record
type Store struct {
	kv  KV
	now func() time.Time
}

// New creates a Store over the given backend
func New(kv KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

// Save persists both tokens and the user in one write
func (s *Store) Save(accessToken, refreshToken string, user models.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.kv.SetAll(map[string]string{
		KeyAccessToken:  accessToken,
		KeyRefreshToken: refreshToken,
		KeyUser:         string(userJSON),
	})
}

// Clear removes every stored item
func (s *Store) Clear() error {
	return s.kv.Delete(KeyAccessToken, KeyRefreshToken, KeyUser)
}

// HasAccessToken reports whether a non-empty access token is stored
func (s *Store) HasAccessToken() bool {
	return s.AccessToken() != ""
}

// AccessToken returns the stored access token or "" when absent.
// It satisfies client.TokenSource.
func (s *Store) AccessToken() string {
	tok, ok, err := s.kv.Get(KeyAccessToken)
	if err != nil {
		slog.Warn("Failed to read access token", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return tok
}

// RefreshToken returns the stored refresh token
func (s *Store) RefreshToken() (string, error) {
	tok, ok, err := s.kv.Get(KeyRefreshToken)
	if err != nil {
		return "", err
	}
	if !ok || tok == "" {
		return "", ErrNoRefreshToken
	}
	return tok, nil
}

// SetAccessToken replaces the access token after a refresh
func (s *Store) SetAccessToken(accessToken string) error {
	return s.kv.SetAll(map[string]string{KeyAccessToken: accessToken})
}

// CachedUser returns the stored user. A missing, malformed, or
// incomplete record is reported as absent so callers re-fetch it.
func (s *Store) CachedUser() (*models.User, bool) {
	raw, ok, err := s.kv.Get(KeyUser)
	if err != nil {
		slog.Warn("Failed to read cached user", "error", err)
		return nil, false
	}
	if !ok || raw == "" {
		return nil, false
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		slog.Debug("Cached user is malformed, ignoring", "error", err)
		return nil, false
	}
	if user.ID == "" || !user.Role.Valid() {
		slog.Debug("Cached user is incomplete, ignoring", "id", user.ID, "role", user.Role)
		return nil, false
	}
	return &user, true
}

// AccessTokenExpired reports whether the stored access token's exp claim
// falls within leeway of now. The signature is not verified; tokens
// without a readable exp are treated as still valid and left to the server.
func (s *Store) AccessTokenExpired(leeway time.Duration) bool {
	tok := s.AccessToken()
	if tok == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		slog.Debug("Access token is not a readable JWT", "error", err)
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !s.now().Add(leeway).Before(exp.Time)
}
