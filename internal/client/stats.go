// ABOUTME: Student statistics calls
// ABOUTME: Aggregate progress across all of a student's courses

package client

import (
	"context"
	"net/http"

	"github.com/markalston/course-progress/internal/models"
)

// MyStats returns the signed-in student's aggregate statistics
func (c *Client) MyStats(ctx context.Context) (*models.StudentStats, error) {
	var s models.StudentStats
	if err := c.get(ctx, "/student-stats/my-stats", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// RecalculateStats asks the server to rebuild the student's statistics
func (c *Client) RecalculateStats(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/student-stats/recalculate", nil, nil)
}
