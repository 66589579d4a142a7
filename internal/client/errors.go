// ABOUTME: Typed errors returned by the API client
// ABOUTME: Classifies HTTP statuses and extracts the server's detail message

package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// AuthError is returned for 401 and 403 responses
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// Unauthorized reports whether the credentials were rejected outright (401)
// as opposed to lacking permission (403)
func (e *AuthError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// ValidationError is returned when the server rejects input (400, 409, 422)
type ValidationError struct {
	Status  int
	Message string
	Fields  []FieldDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

// FieldDetail is one entry of a FastAPI validation detail array
type FieldDetail struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// Field returns the last element of Loc as the offending field name
func (d FieldDetail) Field() string {
	if len(d.Loc) == 0 {
		return ""
	}
	return fmt.Sprint(d.Loc[len(d.Loc)-1])
}

// NetworkError is returned when no HTTP response was received
type NetworkError struct {
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is returned for any other non-2xx status
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.Status, e.Message)
}

// errorBody covers {"detail": ...} bodies and plain {"error": ...} bodies
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Error  string          `json:"error"`
}

// classify maps a non-2xx status and body to a typed error
func classify(status int, body []byte) error {
	msg, fields := parseDetail(body)
	if msg == "" {
		msg = http.StatusText(status)
		if msg == "" {
			msg = fmt.Sprintf("status %d", status)
		}
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Status: status, Message: msg}
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return &ValidationError{Status: status, Message: msg, Fields: fields}
	default:
		return &APIError{Status: status, Message: msg}
	}
}

func parseDetail(body []byte) (string, []FieldDetail) {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return strings.TrimSpace(string(body)), nil
	}

	if len(eb.Detail) > 0 {
		var s string
		if err := json.Unmarshal(eb.Detail, &s); err == nil {
			return s, nil
		}
		var fields []FieldDetail
		if err := json.Unmarshal(eb.Detail, &fields); err == nil && len(fields) > 0 {
			msgs := make([]string, 0, len(fields))
			for _, f := range fields {
				if name := f.Field(); name != "" {
					msgs = append(msgs, fmt.Sprintf("%s: %s", name, f.Msg))
				} else {
					msgs = append(msgs, f.Msg)
				}
			}
			return strings.Join(msgs, "; "), fields
		}
	}
	return eb.Error, nil
}
