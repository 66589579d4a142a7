// ABOUTME: Auth request/response models for the course progress API
// ABOUTME: Defines users, roles, and the login/signup/refresh API contracts

package models

import (
	"fmt"
	"strings"
)

// Role is the fixed classification of a user
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleMentor  Role = "MENTOR"
)

// Roles lists every role in display order
var Roles = []Role{RoleStudent, RoleMentor}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleMentor
}

// Label returns the human-readable role name
func (r Role) Label() string {
	switch r {
	case RoleStudent:
		return "Student"
	case RoleMentor:
		return "Mentor"
	default:
		return string(r)
	}
}

// ParseRole accepts "student"/"mentor" in any case
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("invalid role %q (must be student or mentor)", s)
	}
	return r, nil
}

// User is the identity record returned by the API
type User struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt Timestamp `json:"created_at"`
}

// Credentials is the login and signup request body
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"required,oneof=STUDENT MENTOR"`
}

// AuthResponse is returned by /auth/login and /auth/signup
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	User         User   `json:"user"`
}

// RefreshRequest is the /auth/refresh request body
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse is returned by /auth/refresh
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
