// Package identity resolves a validated subject into the caller's full
// identity: user record, tenant metadata, active role assignments and the
// union of permission codes granted by those roles.
package identity

import "time"

// RoleType partitions roles into system-wide and tenant-scoped kinds.
type RoleType string

const (
	RoleTypeSystem      RoleType = "SYSTEM"
	RoleTypeTenantAdmin RoleType = "TENANT_ADMIN"
	RoleTypeTenantUser  RoleType = "TENANT_USER"
	RoleTypeCustom      RoleType = "CUSTOM"
)

// User is an account row. TenantID references the tenant's generated id.
type User struct {
	ID           string
	GeneratedID  string
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsActive     bool
	TenantID     string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// Tenant is an isolated customer organization.
type Tenant struct {
	ID               string
	GeneratedID      string
	Name             string
	Domain           string
	Status           string
	SubscriptionPlan string
	MaxUsers         int
	CreatedAt        time.Time
}

// Role grants a set of permission codes. A role with an empty TenantID is
// system-wide.
type Role struct {
	ID              string
	GeneratedID     string
	TenantID        string
	RoleCode        string
	RoleName        string
	Description     string
	RoleType        RoleType
	Priority        int
	IsSystemRole    bool
	IsDefault       bool
	IsActive        bool
	PermissionCodes []string
}

// RoleAssignment joins a user to a role within a tenant, possibly
// time-limited. At most one assignment exists per (user, role, tenant) and at
// most one primary assignment per (user, tenant).
type RoleAssignment struct {
	ID          string
	GeneratedID string
	UserID      string
	RoleID      string
	TenantID    string
	AssignedBy  string
	AssignedAt  time.Time
	ExpiresAt   *time.Time
	IsActive    bool
	IsPrimary   bool
}

// TenantInfo is the tenant metadata attached to a resolved identity.
type TenantInfo struct {
	ID             string         `json:"id"`
	GeneratedID    string         `json:"generatedId"`
	Name           string         `json:"name"`
	Domain         string         `json:"domain"`
	Status         string         `json:"status"`
	Plan           string         `json:"plan"`
	EnabledModules []string       `json:"enabledModules"`
	Configuration  map[string]any `json:"configuration"`
}

// Identity is a fully resolved caller: the output of the resolver and the
// source for the gateway's forwarding headers. Tenant is nil when the user's
// tenant reference cannot be resolved.
type Identity struct {
	User        User
	Tenant      *TenantInfo
	Roles       []Role
	Permissions []string
}
