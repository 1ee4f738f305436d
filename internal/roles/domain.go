// Package roles implements role and assignment management. Changing a user's
// assignments drops their cached identity snapshot so the next resolution
// sees the new grants.
package roles

import (
	"time"

	"github.com/northgate-io/northgate/internal/identity"
)

// PermRoleManage guards every endpoint in this package.
const PermRoleManage = "ROLE_MANAGE"

// CreateRoleRequest is the role creation payload.
type CreateRoleRequest struct {
	RoleCode        string   `json:"roleCode" validate:"required,min=2,max=64"`
	RoleName        string   `json:"roleName" validate:"required"`
	Description     string   `json:"description"`
	RoleType        string   `json:"roleType" validate:"required,oneof=SYSTEM TENANT_ADMIN TENANT_USER CUSTOM"`
	Priority        int      `json:"priority"`
	PermissionCodes []string `json:"permissionCodes"`
}

// AssignRequest joins a user to a role within the caller's tenant.
type AssignRequest struct {
	UserID    string     `json:"userId" validate:"required"`
	RoleID    string     `json:"roleId" validate:"required"`
	ExpiresAt *time.Time `json:"expiresAt"`
	IsPrimary bool       `json:"isPrimary"`
}

// View is the wire shape of a role.
type View struct {
	ID              string   `json:"id"`
	GeneratedID     string   `json:"generatedId"`
	TenantID        string   `json:"tenantId,omitempty"`
	RoleCode        string   `json:"roleCode"`
	RoleName        string   `json:"roleName"`
	Description     string   `json:"description"`
	RoleType        string   `json:"roleType"`
	Priority        int      `json:"priority"`
	SystemRole      bool     `json:"systemRole"`
	PermissionCodes []string `json:"permissionCodes"`
}

// NewView projects a role to its wire shape.
func NewView(role *identity.Role) View {
	return View{
		ID:              role.ID,
		GeneratedID:     role.GeneratedID,
		TenantID:        role.TenantID,
		RoleCode:        role.RoleCode,
		RoleName:        role.RoleName,
		Description:     role.Description,
		RoleType:        string(role.RoleType),
		Priority:        role.Priority,
		SystemRole:      role.IsSystemRole,
		PermissionCodes: role.PermissionCodes,
	}
}
