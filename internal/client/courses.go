// ABOUTME: Course resource calls
// ABOUTME: Public listing plus mentor-owned create, update, and delete

package client

import (
	"context"
	"net/http"

	"github.com/markalston/course-progress/internal/models"
)

// Courses lists every course
func (c *Client) Courses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := c.get(ctx, "/courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// MyCourses lists the courses owned by the signed-in mentor
func (c *Client) MyCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := c.get(ctx, "/courses/my-courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Course fetches one course by ID
func (c *Client) Course(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := c.get(ctx, "/courses/"+escape(id), nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// CreateCourse creates a course owned by the signed-in mentor
func (c *Client) CreateCourse(ctx context.Context, in models.CourseCreate) (*models.Course, error) {
	var course models.Course
	if err := c.do(ctx, http.MethodPost, "/courses", in, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// UpdateCourse applies the non-nil fields of in
func (c *Client) UpdateCourse(ctx context.Context, id string, in models.CourseUpdate) (*models.Course, error) {
	var course models.Course
	if err := c.do(ctx, http.MethodPut, "/courses/"+escape(id), in, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// DeleteCourse removes a course and everything under it
func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/courses/"+escape(id), nil, nil)
}
