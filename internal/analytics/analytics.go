// ABOUTME: Student completion analytics across all enrolled courses
// ABOUTME: Walks every page of enrolled courses and buckets approved ones by progress

package analytics

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/markalston/course-progress/internal/models"
)

// Bucket is a completion category
type Bucket string

const (
	Completed  Bucket = "Completed"
	InProgress Bucket = "In Progress"
	NotStarted Bucket = "Not Started"
)

// Buckets lists every bucket in display order
var Buckets = []Bucket{Completed, InProgress, NotStarted}

// DefaultConcurrency bounds parallel progress requests
const DefaultConcurrency = 8

// Source is the subset of the API client analytics needs
type Source interface {
	MyEnrolledCourses(ctx context.Context, page, limit int) (*models.Page[models.CourseWithProgress], error)
	CourseProgress(ctx context.Context, courseID string) (*models.CourseProgress, error)
}

// Group is one bucket and the courses in it
type Group struct {
	Bucket  Bucket                      `json:"bucket"`
	Courses []models.CourseWithProgress `json:"courses"`
}

// Report is the analytics view of a student's courses
type Report struct {
	Enrolled int     `json:"enrolled"`
	Approved int     `json:"approved"`
	Groups   []Group `json:"groups"`
	// Overall is the mean completion across approved courses
	Overall float64 `json:"overall_percentage"`
}

// Count returns how many courses fell into b
func (r Report) Count(b Bucket) int {
	for _, g := range r.Groups {
		if g.Bucket == b {
			return len(g.Courses)
		}
	}
	return 0
}

// Classify buckets a course by its attached progress. Missing progress
// counts as not started.
func Classify(c models.CourseWithProgress) Bucket {
	if c.Progress == nil {
		return NotStarted
	}
	pct := c.Progress.CompletionPercentage
	switch {
	case pct >= 100:
		return Completed
	case pct > 0:
		return InProgress
	default:
		return NotStarted
	}
}

// Summarize builds a report from courses that already carry progress.
// Only approved enrollments are counted; empty buckets are omitted.
func Summarize(courses []models.CourseWithProgress) Report {
	report := Report{Enrolled: len(courses)}
	byBucket := map[Bucket][]models.CourseWithProgress{}
	var total float64

	for _, c := range courses {
		if !c.Approved() {
			continue
		}
		report.Approved++
		total += c.CompletionPercentage()
		b := Classify(c)
		byBucket[b] = append(byBucket[b], c)
	}

	for _, b := range Buckets {
		if len(byBucket[b]) > 0 {
			report.Groups = append(report.Groups, Group{Bucket: b, Courses: byBucket[b]})
		}
	}
	if report.Approved > 0 {
		report.Overall = total / float64(report.Approved)
	}
	return report
}

// AllEnrolledCourses walks every page of the student's enrolled courses
func AllEnrolledCourses(ctx context.Context, src Source) ([]models.CourseWithProgress, error) {
	first, err := src.MyEnrolledCourses(ctx, 1, models.MaxPageLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch enrolled courses: %w", err)
	}

	courses := append([]models.CourseWithProgress{}, first.Items...)
	for page := 2; page <= first.TotalPages; page++ {
		next, err := src.MyEnrolledCourses(ctx, page, models.MaxPageLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch enrolled courses page %d: %w", page, err)
		}
		courses = append(courses, next.Items...)
	}
	return courses, nil
}

// Build fetches every enrolled course, refreshes progress for approved
// ones in parallel, and summarizes the result. A failed progress fetch
// keeps the course with whatever progress the listing carried.
func Build(ctx context.Context, src Source, concurrency int) (Report, error) {
	courses, err := AllEnrolledCourses(ctx, src)
	if err != nil {
		return Report{}, err
	}

	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range courses {
		if !courses[i].Approved() {
			continue
		}
		g.Go(func() error {
			p, err := src.CourseProgress(gctx, courses[i].ID)
			if err != nil {
				slog.Debug("Course progress unavailable", "course_id", courses[i].ID, "error", err)
				return nil
			}
			courses[i].Progress = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	slog.Debug("Analytics built", "courses", len(courses))
	return Summarize(courses), nil
}
