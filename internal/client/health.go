// ABOUTME: Service details call used as a health probe
// ABOUTME: Hits the unauthenticated /api/services/progress endpoint

package client

import (
	"context"

	"github.com/markalston/course-progress/internal/models"
)

// Health calls the /api/services/progress endpoint
func (c *Client) Health(ctx context.Context) (models.ServiceDetails, error) {
	details := models.ServiceDetails{}
	if err := c.get(ctx, "/api/services/progress", nil, &details); err != nil {
		return nil, err
	}
	return details, nil
}
