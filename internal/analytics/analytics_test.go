// ABOUTME: Tests for student completion analytics
// ABOUTME: Covers bucketing, pagination walking, and progress fetch failures

package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/markalston/course-progress/internal/models"
)

func course(id string, status models.EnrollmentStatus, pct *float64) models.CourseWithProgress {
	c := models.CourseWithProgress{
		Course:     models.Course{ID: id, Title: "Course " + id},
		Enrollment: &models.Enrollment{CourseID: id, Status: status},
	}
	if pct != nil {
		c.Progress = &models.CourseProgress{CourseID: id, CompletionPercentage: *pct}
	}
	return c
}

func pct(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		pct  *float64
		want Bucket
	}{
		{"no progress", nil, NotStarted},
		{"zero", pct(0), NotStarted},
		{"partial", pct(40), InProgress},
		{"almost", pct(99.9), InProgress},
		{"done", pct(100), Completed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(course("c", models.EnrollmentApproved, tt.pct)); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSummarize_OnlyApprovedCounted(t *testing.T) {
	report := Summarize([]models.CourseWithProgress{
		course("a", models.EnrollmentApproved, pct(100)),
		course("b", models.EnrollmentApproved, pct(50)),
		course("c", models.EnrollmentApproved, nil),
		course("d", models.EnrollmentPending, pct(100)),
		course("e", models.EnrollmentRejected, nil),
	})

	if report.Enrolled != 5 || report.Approved != 3 {
		t.Errorf("enrolled=%d approved=%d, want 5/3", report.Enrolled, report.Approved)
	}
	for bucket, want := range map[Bucket]int{Completed: 1, InProgress: 1, NotStarted: 1} {
		if got := report.Count(bucket); got != want {
			t.Errorf("%s = %d, want %d", bucket, got, want)
		}
	}
	if report.Overall != 50 {
		t.Errorf("overall = %v, want 50", report.Overall)
	}
}

func TestSummarize_OmitsEmptyBuckets(t *testing.T) {
	report := Summarize([]models.CourseWithProgress{course("a", models.EnrollmentApproved, pct(100))})
	if len(report.Groups) != 1 || report.Groups[0].Bucket != Completed {
		t.Errorf("unexpected groups: %+v", report.Groups)
	}

	empty := Summarize(nil)
	if len(empty.Groups) != 0 || empty.Overall != 0 {
		t.Errorf("unexpected empty report: %+v", empty)
	}
}

type fakeSource struct {
	mu          sync.Mutex
	courses     []models.CourseWithProgress
	progress    map[string]float64
	failFor     map[string]bool
	pageErr     error
	pages       []int
	progressHit []string
}

func (f *fakeSource) MyEnrolledCourses(ctx context.Context, page, limit int) (*models.Page[models.CourseWithProgress], error) {
	f.mu.Lock()
	f.pages = append(f.pages, page)
	f.mu.Unlock()
	if f.pageErr != nil && page > 1 {
		return nil, f.pageErr
	}

	start := (page - 1) * limit
	end := min(start+limit, len(f.courses))
	if start > end {
		start = end
	}
	return &models.Page[models.CourseWithProgress]{
		Items:      f.courses[start:end],
		Total:      len(f.courses),
		Page:       page,
		Limit:      limit,
		TotalPages: models.TotalPagesFor(len(f.courses), limit),
	}, nil
}

func (f *fakeSource) CourseProgress(ctx context.Context, courseID string) (*models.CourseProgress, error) {
	f.mu.Lock()
	f.progressHit = append(f.progressHit, courseID)
	f.mu.Unlock()
	if f.failFor[courseID] {
		return nil, errors.New("boom")
	}
	return &models.CourseProgress{CourseID: courseID, CompletionPercentage: f.progress[courseID]}, nil
}

func TestAllEnrolledCourses_WalksEveryPage(t *testing.T) {
	src := &fakeSource{}
	for i := range 250 {
		src.courses = append(src.courses, course(fmt.Sprintf("c%d", i), models.EnrollmentApproved, nil))
	}

	courses, err := AllEnrolledCourses(context.Background(), src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(courses) != 250 {
		t.Errorf("got %d courses, want 250", len(courses))
	}
	if len(src.pages) != 3 {
		t.Errorf("fetched pages %v, want 3 pages", src.pages)
	}
}

func TestAllEnrolledCourses_PageError(t *testing.T) {
	src := &fakeSource{pageErr: errors.New("down")}
	for i := range 150 {
		src.courses = append(src.courses, course(fmt.Sprintf("c%d", i), models.EnrollmentApproved, nil))
	}
	if _, err := AllEnrolledCourses(context.Background(), src); err == nil {
		t.Fatal("expected error from second page")
	}
}

func TestBuild(t *testing.T) {
	src := &fakeSource{
		courses: []models.CourseWithProgress{
			course("done", models.EnrollmentApproved, nil),
			course("half", models.EnrollmentApproved, nil),
			course("broken", models.EnrollmentApproved, pct(30)),
			course("pending", models.EnrollmentPending, nil),
		},
		progress: map[string]float64{"done": 100, "half": 50},
		failFor:  map[string]bool{"broken": true},
	}

	report, err := Build(context.Background(), src, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Count(Completed) != 1 || report.Count(InProgress) != 2 {
		t.Errorf("unexpected buckets: %+v", report.Groups)
	}
	if len(src.progressHit) != 3 {
		t.Errorf("expected progress fetched for 3 approved courses, got %v", src.progressHit)
	}
	for _, id := range src.progressHit {
		if id == "pending" {
			t.Error("progress fetched for a pending enrollment")
		}
	}
}
