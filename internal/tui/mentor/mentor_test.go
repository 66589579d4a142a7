// ABOUTME: Tests for the mentor dashboard, course form, and course management views
// ABOUTME: Drives each view through Update with a fake backend

package mentor

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/course-progress/internal/models"
	"github.com/markalston/course-progress/internal/route"
	"github.com/markalston/course-progress/internal/tui/nav"
	"github.com/markalston/course-progress/internal/tui/wizard"
)

type fakeAPI struct {
	courses     []models.Course
	lessons     []models.Lesson
	enrollments []models.Enrollment
	students    int

	approved       []string
	rejected       []string
	created        []models.LessonCreate
	createdCourses []models.CourseCreate
	deletedLessons []string
	deletedCourses []string
	createErr      error
}

func newAPI() *fakeAPI {
	return &fakeAPI{
		courses: []models.Course{
			{ID: "c1", Title: "Go Basics", Description: "Learn Go"},
			{ID: "c2", Title: "Concurrency"},
		},
		lessons: []models.Lesson{
			{ID: "l1", CourseID: "c1", Title: "Intro", Order: 1, Type: models.LessonVideo},
			{ID: "l2", CourseID: "c1", Title: "Slices", Order: 4, Type: models.LessonPDF},
		},
		enrollments: []models.Enrollment{
			{ID: "e1", StudentID: "student-0001", CourseID: "c1", Status: models.EnrollmentPending},
			{ID: "e2", StudentID: "student-0002", CourseID: "c2", Status: models.EnrollmentPending},
		},
		students: 7,
	}
}

func (f *fakeAPI) MyCourses(context.Context) ([]models.Course, error) {
	return f.courses, nil
}

func (f *fakeAPI) PendingEnrollments(context.Context) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range f.enrollments {
		if e.Status == models.EnrollmentPending {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAPI) EnrolledStudentsCount(context.Context) (int, error) {
	return f.students, nil
}

func (f *fakeAPI) setStatus(id string, status models.EnrollmentStatus) *models.Enrollment {
	for i := range f.enrollments {
		if f.enrollments[i].ID == id {
			f.enrollments[i].Status = status
			e := f.enrollments[i]
			return &e
		}
	}
	return nil
}

func (f *fakeAPI) ApproveEnrollment(_ context.Context, id string) (*models.Enrollment, error) {
	f.approved = append(f.approved, id)
	return f.setStatus(id, models.EnrollmentApproved), nil
}

func (f *fakeAPI) RejectEnrollment(_ context.Context, id string) (*models.Enrollment, error) {
	f.rejected = append(f.rejected, id)
	return f.setStatus(id, models.EnrollmentRejected), nil
}

func (f *fakeAPI) Course(_ context.Context, id string) (*models.Course, error) {
	for _, c := range f.courses {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeAPI) Lessons(context.Context, string) ([]models.Lesson, error) {
	return f.lessons, nil
}

func (f *fakeAPI) CourseEnrollments(_ context.Context, courseID string) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range f.enrollments {
		if e.CourseID == courseID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateLesson(_ context.Context, courseID string, in models.LessonCreate) (*models.Lesson, error) {
	f.created = append(f.created, in)
	l := models.Lesson{ID: "new", CourseID: courseID, Title: in.Title, Order: in.Order, Type: in.Type}
	f.lessons = append(f.lessons, l)
	return &l, nil
}

func (f *fakeAPI) DeleteLesson(_ context.Context, id string) error {
	f.deletedLessons = append(f.deletedLessons, id)
	return nil
}

func (f *fakeAPI) DeleteCourse(_ context.Context, id string) error {
	f.deletedCourses = append(f.deletedCourses, id)
	return nil
}

func (f *fakeAPI) CreateCourse(_ context.Context, in models.CourseCreate) (*models.Course, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdCourses = append(f.createdCourses, in)
	return &models.Course{ID: "c9", Title: in.Title, Description: in.Description}, nil
}

// drain runs cmd and feeds resulting messages back into m
func drain(m tea.Model, cmd tea.Cmd) []tea.Msg {
	var msgs []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		msgs = append(msgs, msg)
		_, next := m.Update(msg)
		queue = append(queue, next)
	}
	return msgs
}

func press(m tea.Model, key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func navigations(msgs []tea.Msg) []route.Path {
	var out []route.Path
	for _, msg := range msgs {
		if n, ok := msg.(nav.NavigateMsg); ok {
			out = append(out, n.Path)
		}
	}
	return out
}

func TestDashboardView(t *testing.T) {
	api := newAPI()
	d := NewDashboard(context.Background(), api)
	d.SetSize(120, 40)
	drain(d, d.Init())

	view := d.View()
	for _, want := range []string{"Mentor Dashboard", "Go Basics", "Concurrency", "Pending Requests", "PENDING", "0001"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q\nView:\n%s", want, view)
		}
	}
}

func TestDashboardOpensCourse(t *testing.T) {
	api := newAPI()
	d := NewDashboard(context.Background(), api)
	drain(d, d.Init())

	press(d, "down")
	got := navigations(drain(d, press(d, "enter")))
	if len(got) != 1 || got[0] != route.MentorCourse.With("c2") {
		t.Errorf("expected navigation to c2, got %v", got)
	}

	got = navigations(drain(d, press(d, "n")))
	if len(got) != 1 || got[0] != route.MentorNewCourse {
		t.Errorf("expected navigation to new course, got %v", got)
	}
}

func TestDashboardApproveAndReject(t *testing.T) {
	api := newAPI()
	d := NewDashboard(context.Background(), api)
	drain(d, d.Init())

	// y is ignored while the courses pane has focus
	if cmd := press(d, "y"); cmd != nil {
		t.Fatal("expected no command from courses pane")
	}

	press(d, "tab")
	drain(d, press(d, "y"))
	if len(api.approved) != 1 || api.approved[0] != "e1" {
		t.Fatalf("expected e1 approved, got %v", api.approved)
	}
	if len(d.pending) != 1 || d.pending[0].ID != "e2" {
		t.Fatalf("expected e2 left pending, got %+v", d.pending)
	}

	drain(d, press(d, "x"))
	if len(api.rejected) != 1 || api.rejected[0] != "e2" {
		t.Fatalf("expected e2 rejected, got %v", api.rejected)
	}
	if len(d.pending) != 0 {
		t.Errorf("expected no pending requests, got %d", len(d.pending))
	}
	if !strings.Contains(d.View(), "No pending enrollment requests") {
		t.Error("expected empty requests message")
	}
}

func TestDashboardErrorClearsInFlight(t *testing.T) {
	d := NewDashboard(context.Background(), newAPI())
	d.deciding = "e1"
	d.Update(nav.ErrMsg{Err: errors.New("boom")})
	if d.deciding != "" {
		t.Error("expected deciding cleared on error")
	}
}

func TestCourseFormCreatesAndNavigates(t *testing.T) {
	api := newAPI()
	v := NewCourseForm(context.Background(), api)
	v.title = "  Testing in Go "
	v.description = "Tables and fakes"

	msgs := drain(v, v.submit())
	if len(api.createdCourses) != 1 || api.createdCourses[0].Title != "Testing in Go" {
		t.Fatalf("expected trimmed course created, got %+v", api.createdCourses)
	}
	got := navigations(msgs)
	if len(got) != 1 || got[0] != route.MentorCourse.With("c9") {
		t.Errorf("expected navigation to new course, got %v", got)
	}
}

func TestCourseFormRejectsBlankDescription(t *testing.T) {
	api := newAPI()
	v := NewCourseForm(context.Background(), api)
	v.title = "Testing"
	v.description = "   "

	v.submit()
	if v.submitting {
		t.Error("expected no request for invalid input")
	}
	if !strings.Contains(v.err, "description") {
		t.Errorf("expected description error, got %q", v.err)
	}
	if len(api.createdCourses) != 0 {
		t.Error("expected no course created")
	}
}

func TestCourseFormShowsServerError(t *testing.T) {
	api := newAPI()
	api.createErr = errors.New("title taken")
	v := NewCourseForm(context.Background(), api)
	v.title = "Go"
	v.description = "Again"

	cmd := v.submit()
	if !v.submitting {
		t.Fatal("expected submitting")
	}
	v.Update(cmd())
	if v.submitting {
		t.Error("expected submitting cleared")
	}
	if !strings.Contains(v.View(), "title taken") {
		t.Errorf("expected inline error\nView:\n%s", v.View())
	}
}

func TestCourseFormEscGoesBack(t *testing.T) {
	v := NewCourseForm(context.Background(), newAPI())
	got := navigations(drain(v, press(v, "esc")))
	if len(got) != 1 || got[0] != route.MentorDashboard {
		t.Errorf("expected dashboard navigation, got %v", got)
	}
	if !v.CapturesInput() {
		t.Error("expected form to capture input")
	}
}

func newCourse(t *testing.T) (*Course, *fakeAPI) {
	t.Helper()
	api := newAPI()
	c := NewCourse(context.Background(), api, "c1")
	c.SetSize(120, 40)
	drain(c, c.Init())
	return c, api
}

func TestCourseView(t *testing.T) {
	c, _ := newCourse(t)
	view := c.View()
	for _, want := range []string{"Go Basics", "Learn Go", "Lessons (2)", "Intro", "Slices", "Enrollments (1)", "0001"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q\nView:\n%s", want, view)
		}
	}
}

func TestCourseAddLessonThroughWizard(t *testing.T) {
	c, api := newCourse(t)

	press(c, "n")
	if c.wizard == nil {
		t.Fatal("expected wizard open")
	}
	if !c.CapturesInput() {
		t.Error("expected wizard to capture input")
	}
	if got := c.wizard.GetInput().Order; got != 5 {
		t.Errorf("expected next order 5, got %d", got)
	}

	in := models.LessonCreate{Title: "Maps", Type: models.LessonDocument, Order: 5}
	msgs := drain(c, func() tea.Msg { return wizard.CompleteMsg{Input: in} })
	if c.wizard != nil {
		t.Error("expected wizard closed")
	}
	if len(api.created) != 1 || api.created[0].Title != "Maps" {
		t.Fatalf("expected lesson created, got %+v", api.created)
	}
	var flashed bool
	for _, msg := range msgs {
		if f, ok := msg.(nav.FlashMsg); ok && strings.Contains(f.Text, "Maps") {
			flashed = true
		}
	}
	if !flashed {
		t.Error("expected flash for created lesson")
	}
	if len(c.lessons) != 3 {
		t.Errorf("expected reload with 3 lessons, got %d", len(c.lessons))
	}
}

func TestCourseWizardCancel(t *testing.T) {
	c, api := newCourse(t)
	press(c, "n")
	c.Update(wizard.CancelledMsg{})
	if c.wizard != nil {
		t.Error("expected wizard closed")
	}
	if len(api.created) != 0 {
		t.Error("expected nothing created")
	}
}

func TestCourseDeleteLessonNeedsConfirm(t *testing.T) {
	c, api := newCourse(t)

	press(c, "d")
	if c.confirm == nil {
		t.Fatal("expected confirmation prompt")
	}
	if !strings.Contains(c.View(), `Delete lesson "Intro"?`) {
		t.Errorf("expected prompt in view\nView:\n%s", c.View())
	}

	// Any key other than y cancels
	if cmd := press(c, "n"); cmd != nil {
		t.Error("expected cancel to produce no command")
	}
	if c.confirm != nil || len(api.deletedLessons) != 0 {
		t.Fatal("expected delete cancelled")
	}

	press(c, "d")
	drain(c, press(c, "y"))
	if len(api.deletedLessons) != 1 || api.deletedLessons[0] != "l1" {
		t.Errorf("expected l1 deleted, got %v", api.deletedLessons)
	}
}

func TestCourseDeleteCourseNavigatesToDashboard(t *testing.T) {
	c, api := newCourse(t)

	press(c, "D")
	got := navigations(drain(c, press(c, "y")))
	if len(api.deletedCourses) != 1 || api.deletedCourses[0] != "c1" {
		t.Fatalf("expected c1 deleted, got %v", api.deletedCourses)
	}
	if len(got) != 1 || got[0] != route.MentorDashboard {
		t.Errorf("expected dashboard navigation, got %v", got)
	}
}

func TestCourseApproveEnrollment(t *testing.T) {
	c, api := newCourse(t)

	press(c, "tab")
	drain(c, press(c, "y"))
	if len(api.approved) != 1 || api.approved[0] != "e1" {
		t.Fatalf("expected e1 approved, got %v", api.approved)
	}
	if c.enrollments[0].Status != models.EnrollmentApproved {
		t.Errorf("expected row updated to approved, got %s", c.enrollments[0].Status)
	}

	// Approving again only flashes
	msgs := drain(c, press(c, "y"))
	if len(api.approved) != 1 {
		t.Error("expected no second approve request")
	}
	if len(msgs) != 1 {
		t.Fatalf("expected one flash, got %v", msgs)
	}
	if _, ok := msgs[0].(nav.FlashMsg); !ok {
		t.Errorf("expected flash, got %T", msgs[0])
	}
}

func TestCourseStaleLoadIgnored(t *testing.T) {
	c, _ := newCourse(t)
	c.Update(courseLoadedMsg{courseID: "other", lessons: nil})
	if len(c.lessons) != 2 {
		t.Errorf("expected stale load ignored, got %d lessons", len(c.lessons))
	}
}
