// ABOUTME: Lesson resource calls
// ABOUTME: Lessons are listed per course and edited by the owning mentor

package client

import (
	"context"
	"net/http"
	"sort"

	"github.com/markalston/course-progress/internal/models"
)

// Lessons lists a course's lessons sorted by order
func (c *Client) Lessons(ctx context.Context, courseID string) ([]models.Lesson, error) {
	var lessons []models.Lesson
	if err := c.get(ctx, "/courses/"+escape(courseID)+"/lessons", nil, &lessons); err != nil {
		return nil, err
	}
	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].Order < lessons[j].Order
	})
	return lessons, nil
}

// Lesson fetches one lesson by ID
func (c *Client) Lesson(ctx context.Context, id string) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := c.get(ctx, "/lessons/"+escape(id), nil, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// CreateLesson adds a lesson to a course
func (c *Client) CreateLesson(ctx context.Context, courseID string, in models.LessonCreate) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := c.do(ctx, http.MethodPost, "/courses/"+escape(courseID)+"/lessons", in, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// UpdateLesson applies the non-nil fields of in
func (c *Client) UpdateLesson(ctx context.Context, id string, in models.LessonUpdate) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := c.do(ctx, http.MethodPut, "/lessons/"+escape(id), in, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// DeleteLesson removes a lesson
func (c *Client) DeleteLesson(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/lessons/"+escape(id), nil, nil)
}
