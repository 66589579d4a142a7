// ABOUTME: Auth gateway calls: login, signup, current user, and token refresh
// ABOUTME: Each is a single round trip with no retries

package client

import (
	"context"
	"net/http"

	"github.com/markalston/course-progress/internal/models"
)

// Login exchanges credentials for a token pair and the user record
func (c *Client) Login(ctx context.Context, email, password string, role models.Role) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	creds := models.Credentials{Email: email, Password: password, Role: role}
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new account and returns its token pair
func (c *Client) Signup(ctx context.Context, email, password string, role models.Role) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	creds := models.Credentials{Email: email, Password: password, Role: role}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me returns the user identified by the current access token
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Refresh exchanges a refresh token for a new access token
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.RefreshResponse, error) {
	var resp models.RefreshResponse
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", models.RefreshRequest{RefreshToken: refreshToken}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
