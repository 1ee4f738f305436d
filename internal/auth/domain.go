// Package auth implements the login flow: credential verification, role
// assignment lookup and bearer token issuance.
package auth

import (
	"time"

	"github.com/northgate-io/northgate/internal/identity"
)

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned for both successful and failed logins; Success
// discriminates.
type LoginResponse struct {
	Success   bool               `json:"success"`
	Message   string             `json:"message"`
	Token     string             `json:"token,omitempty"`
	TokenType string             `json:"tokenType,omitempty"`
	ExpiresAt *time.Time         `json:"expiresAt,omitempty"`
	User      *identity.UserData `json:"user,omitempty"`
}
