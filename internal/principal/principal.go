// Package principal carries the per-request security identity reconstructed
// from the gateway's forwarding headers, together with the guard operations
// business handlers use to enforce policy.
//
// A Principal is built once per inbound request and travels only through the
// request context. It is never pooled, cached or shared across requests.
package principal

// Principal is the reconstructed identity of the caller for one request.
type Principal struct {
	UserID            string
	UserGeneratedID   string
	Username          string
	Email             string
	FirstName         string
	LastName          string
	IsActive          bool
	TenantID          string
	TenantGeneratedID string
	Roles             []string
	Permissions       []string
}

// IsAuthenticated reports whether a subject is present.
func (p *Principal) IsAuthenticated() bool {
	return p != nil && p.UserID != ""
}

// FullName returns "First Last", falling back to the username.
func (p *Principal) FullName() string {
	if p == nil {
		return ""
	}
	if p.FirstName != "" && p.LastName != "" {
		return p.FirstName + " " + p.LastName
	}
	return p.Username
}

// HasRole reports whether the principal holds the role code.
func (p *Principal) HasRole(code string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == code {
			return true
		}
	}
	return false
}

// HasPermission reports whether the principal holds the permission code.
func (p *Principal) HasPermission(code string) bool {
	if p == nil {
		return false
	}
	for _, perm := range p.Permissions {
		if perm == code {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the principal holds at least one of the codes.
func (p *Principal) HasAnyRole(codes ...string) bool {
	for _, c := range codes {
		if p.HasRole(c) {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the principal holds at least one of the codes.
func (p *Principal) HasAnyPermission(codes ...string) bool {
	for _, c := range codes {
		if p.HasPermission(c) {
			return true
		}
	}
	return false
}
