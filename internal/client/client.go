// ABOUTME: HTTP client for the course progress API
// ABOUTME: Wraps API calls with bearer auth, request IDs, and typed error mapping

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds every request when no other timeout is configured
const DefaultTimeout = 30 * time.Second

// TokenSource supplies the bearer access token for authenticated requests.
// An empty token means the request is sent without Authorization.
type TokenSource interface {
	AccessToken() string
}

// Client is the API client for the course progress backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithTokenSource attaches bearer tokens from ts to every request
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root this client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get issues a GET and decodes the JSON response into out
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// do sends one request. body is JSON-encoded when non-nil; out may be nil
// to discard the response body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.AccessToken(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("API request failed",
			"request_id", requestID, "method", method, "path", path,
			"duration", time.Since(start), "error", err)
		return networkError(ctx, c.baseURL, err)
	}
	defer resp.Body.Close()

	slog.Debug("API request",
		"request_id", requestID, "method", method, "path", path,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return classify(resp.StatusCode, data)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

func networkError(ctx context.Context, baseURL string, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return &NetworkError{Message: "request canceled", Err: err}
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &NetworkError{Message: "request timed out", Err: err}
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return &NetworkError{Message: "request timed out", Err: err}
	}
	return &NetworkError{Message: fmt.Sprintf("cannot connect to backend at %s", baseURL), Err: err}
}

func escape(id string) string {
	return url.PathEscape(id)
}
