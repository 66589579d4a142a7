// ABOUTME: Enrollment resource calls
// ABOUTME: Students request enrollment, mentors approve or reject

package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/markalston/course-progress/internal/models"
)

// Enroll requests enrollment in a course; the result starts PENDING
func (c *Client) Enroll(ctx context.Context, courseID string) (*models.Enrollment, error) {
	var e models.Enrollment
	if err := c.do(ctx, http.MethodPost, "/enrollments", models.EnrollmentCreate{CourseID: courseID}, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// MyEnrollments lists the signed-in student's enrollments in every status
func (c *Client) MyEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	var out []models.Enrollment
	if err := c.get(ctx, "/enrollments/my-enrollments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyEnrolledCourses returns one page of the student's courses with progress.
// limit is clamped to 1..MaxPageLimit and page to >= 1.
func (c *Client) MyEnrolledCourses(ctx context.Context, page, limit int) (*models.Page[models.CourseWithProgress], error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > models.MaxPageLimit {
		limit = models.MaxPageLimit
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var out models.Page[models.CourseWithProgress]
	if err := c.get(ctx, "/enrollments/my-courses", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PendingEnrollments lists pending requests for the mentor's courses
func (c *Client) PendingEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	var out []models.Enrollment
	if err := c.get(ctx, "/enrollments/pending", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CourseEnrollments lists every enrollment for a mentor-owned course
func (c *Client) CourseEnrollments(ctx context.Context, courseID string) ([]models.Enrollment, error) {
	var out []models.Enrollment
	if err := c.get(ctx, "/enrollments/courses/"+escape(courseID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnrolledStudentsCount returns the number of distinct students across the mentor's courses
func (c *Client) EnrolledStudentsCount(ctx context.Context) (int, error) {
	var n int
	if err := c.get(ctx, "/enrollments/students-count", nil, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// ApproveEnrollment moves a pending enrollment to APPROVED
func (c *Client) ApproveEnrollment(ctx context.Context, id string) (*models.Enrollment, error) {
	var e models.Enrollment
	if err := c.do(ctx, http.MethodPut, "/enrollments/"+escape(id)+"/approve", nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// RejectEnrollment moves a pending enrollment to REJECTED
func (c *Client) RejectEnrollment(ctx context.Context, id string) (*models.Enrollment, error) {
	var e models.Enrollment
	if err := c.do(ctx, http.MethodPut, "/enrollments/"+escape(id)+"/reject", nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
