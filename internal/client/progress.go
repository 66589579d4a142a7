// ABOUTME: Progress resource calls
// ABOUTME: Lesson completion and per-course progress summaries

package client

import (
	"context"
	"net/http"

	"github.com/markalston/course-progress/internal/models"
)

// CompleteLesson marks a lesson complete for the signed-in student
func (c *Client) CompleteLesson(ctx context.Context, lessonID string) (*models.Progress, error) {
	var p models.Progress
	if err := c.do(ctx, http.MethodPost, "/progress/lessons/"+escape(lessonID)+"/complete", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CourseProgress returns the signed-in student's progress summary for a course
func (c *Client) CourseProgress(ctx context.Context, courseID string) (*models.CourseProgress, error) {
	var p models.CourseProgress
	if err := c.get(ctx, "/progress/courses/"+escape(courseID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CourseProgressDetails returns per-lesson progress records for a course
func (c *Client) CourseProgressDetails(ctx context.Context, courseID string) ([]models.Progress, error) {
	var out []models.Progress
	if err := c.get(ctx, "/progress/courses/"+escape(courseID)+"/details", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StudentCourseProgress returns a student's progress in a mentor-owned course
func (c *Client) StudentCourseProgress(ctx context.Context, studentID, courseID string) (*models.CourseProgress, error) {
	var p models.CourseProgress
	path := "/progress/students/" + escape(studentID) + "/courses/" + escape(courseID)
	if err := c.get(ctx, path, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
