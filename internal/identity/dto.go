package identity

import "time"

// UserData is the user block of the validate response.
type UserData struct {
	ID                string     `json:"id"`
	GeneratedID       string     `json:"generatedId"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	IsActive          bool       `json:"isActive"`
	TenantID          string     `json:"tenantId"`
	TenantGeneratedID string     `json:"tenantGeneratedId"`
	CreatedAt         time.Time  `json:"createdAt"`
	LastLoginAt       *time.Time `json:"lastLoginAt,omitempty"`
}

// RoleData is the role block of the validate response.
type RoleData struct {
	ID          string   `json:"id"`
	GeneratedID string   `json:"generatedId"`
	RoleCode    string   `json:"roleCode"`
	RoleName    string   `json:"roleName"`
	Description string   `json:"description"`
	Priority    int      `json:"priority"`
	RoleType    string   `json:"roleType"`
	SystemRole  bool     `json:"systemRole"`
	Default     bool     `json:"default"`
	Permissions []string `json:"permissions"`
}

// UserInfoResponse is the wire shape of the authority's validate endpoint.
// The gateway consumes it to build the forwarding headers.
type UserInfoResponse struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	User        *UserData   `json:"user,omitempty"`
	Tenant      *TenantInfo `json:"tenant,omitempty"`
	Roles       []RoleData  `json:"roles,omitempty"`
	Permissions []string    `json:"permissions,omitempty"`
}

// NewUserInfoResponse converts a resolved identity to the wire shape.
func NewUserInfoResponse(resolved *Identity) UserInfoResponse {
	user := resolved.User
	data := &UserData{
		ID:                user.ID,
		GeneratedID:       user.GeneratedID,
		Username:          user.Username,
		Email:             user.Email,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		IsActive:          user.IsActive,
		TenantID:          user.TenantID,
		TenantGeneratedID: user.TenantID,
		CreatedAt:         user.CreatedAt,
		LastLoginAt:       user.LastLoginAt,
	}
	roles := make([]RoleData, 0, len(resolved.Roles))
	for _, role := range resolved.Roles {
		roles = append(roles, RoleData{
			ID:          role.ID,
			GeneratedID: role.GeneratedID,
			RoleCode:    role.RoleCode,
			RoleName:    role.RoleName,
			Description: role.Description,
			Priority:    role.Priority,
			RoleType:    string(role.RoleType),
			SystemRole:  role.IsSystemRole,
			Default:     role.IsDefault,
			Permissions: role.PermissionCodes,
		})
	}
	return UserInfoResponse{
		Success:     true,
		Message:     "User information retrieved successfully",
		User:        data,
		Tenant:      resolved.Tenant,
		Roles:       roles,
		Permissions: resolved.Permissions,
	}
}
