// ABOUTME: Fake course progress backend shared by the command tests
// ABOUTME: Serves auth, enrollment, progress, and course endpoints over httptest

package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/markalston/course-progress/internal/models"
)

type fakeBackend struct {
	mu sync.Mutex

	role      models.Role
	token     string // access token the backend currently accepts
	refreshes int
	loginFail bool

	enrolled []models.CourseWithProgress
	progress map[string]models.CourseProgress
	owned    []models.Course
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		role:     models.RoleStudent,
		token:    "at-1",
		progress: map[string]models.CourseProgress{},
	}
	srv := httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(srv.Close)
	useBackend(t, srv.URL)
	return b
}

// useBackend points the global flags at url and a fresh config dir
func useBackend(t *testing.T, url string) {
	t.Helper()
	apiURL = url
	configDir = t.TempDir()
	t.Cleanup(func() {
		apiURL = ""
		configDir = ""
		jsonOutput = false
		authEmail, authPassword, authRole = "", "", "student"
	})
}

// expireToken makes the backend reject the current access token
func (b *fakeBackend) expireToken() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = "at-rotated"
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case r.URL.Path == "/auth/login" || r.URL.Path == "/auth/signup":
		var creds models.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if b.loginFail {
			writeBody(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
			return
		}
		b.role = creds.Role
		writeBody(w, http.StatusOK, models.AuthResponse{
			AccessToken:  b.token,
			RefreshToken: "rt-1",
			TokenType:    "bearer",
			User:         models.User{ID: "user-0001", Email: creds.Email, Role: creds.Role},
		})
		return

	case r.URL.Path == "/auth/refresh":
		b.refreshes++
		b.token = "at-refreshed"
		writeBody(w, http.StatusOK, models.RefreshResponse{AccessToken: b.token, TokenType: "bearer"})
		return

	case r.URL.Path == "/api/services/progress":
		writeBody(w, http.StatusOK, models.ServiceDetails{"service": "progress", "status": "healthy"})
		return
	}

	if r.Header.Get("Authorization") != "Bearer "+b.token {
		writeBody(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
		return
	}

	switch {
	case r.URL.Path == "/enrollments/my-courses":
		writeBody(w, http.StatusOK, models.Page[models.CourseWithProgress]{
			Items: b.enrolled, Total: len(b.enrolled), Page: 1, Limit: models.MaxPageLimit, TotalPages: 1,
		})
	case strings.HasPrefix(r.URL.Path, "/progress/courses/"):
		id := strings.TrimPrefix(r.URL.Path, "/progress/courses/")
		p, ok := b.progress[id]
		if !ok {
			writeBody(w, http.StatusNotFound, map[string]string{"detail": "Not found"})
			return
		}
		writeBody(w, http.StatusOK, p)
	case r.URL.Path == "/courses/my-courses":
		writeBody(w, http.StatusOK, b.owned)
	default:
		http.NotFound(w, r)
	}
}

func writeBody(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// enrolledCourse builds a listing entry with the given status
func enrolledCourse(id, title string, status models.EnrollmentStatus) models.CourseWithProgress {
	return models.CourseWithProgress{
		Course:     models.Course{ID: id, Title: title},
		Enrollment: &models.Enrollment{ID: "enr-" + id, CourseID: id, Status: status},
	}
}
