// Package users implements user management behind the gateway: listing,
// lookup, creation and activation toggling, guarded by permission codes on
// the reconstructed principal.
package users

import (
	"time"

	"github.com/northgate-io/northgate/internal/identity"
)

// Management permission codes checked by the handlers.
const (
	PermUserRead   = "USER_READ"
	PermUserCreate = "USER_CREATE"
)

// CreateUserRequest is the creation payload.
type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=64"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// StatusRequest toggles the active flag.
type StatusRequest struct {
	IsActive bool `json:"isActive"`
}

// View is the wire shape of a managed user. The password hash never leaves
// the service.
type View struct {
	ID          string     `json:"id"`
	GeneratedID string     `json:"generatedId"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	IsActive    bool       `json:"isActive"`
	TenantID    string     `json:"tenantId"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// NewView projects a user row to its wire shape.
func NewView(u *identity.User) View {
	return View{
		ID:          u.ID,
		GeneratedID: u.GeneratedID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsActive:    u.IsActive,
		TenantID:    u.TenantID,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
