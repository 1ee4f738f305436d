package principal

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Forwarding headers set by the gateway and trusted unconditionally by
// internal services. The network boundary between gateway and services must
// be closed to untrusted clients for this trust model to hold.
const (
	HeaderUserID            = "X-User-ID"
	HeaderUserGeneratedID   = "X-User-Generated-ID"
	HeaderUsername          = "X-Username"
	HeaderEmail             = "X-Email"
	HeaderFirstName         = "X-First-Name"
	HeaderLastName          = "X-Last-Name"
	HeaderIsActive          = "X-Is-Active"
	HeaderTenantID          = "X-Tenant-ID"
	HeaderTenantGeneratedID = "X-Tenant-Generated-ID"
	HeaderRoles             = "X-User-Roles"
	HeaderPermissions       = "X-User-Permissions"
)

// Headers lists every forwarding header. The gateway strips these from
// inbound requests before injecting its own values, so clients cannot smuggle
// identity past the perimeter.
func Headers() []string {
	return []string{
		HeaderUserID,
		HeaderUserGeneratedID,
		HeaderUsername,
		HeaderEmail,
		HeaderFirstName,
		HeaderLastName,
		HeaderIsActive,
		HeaderTenantID,
		HeaderTenantGeneratedID,
		HeaderRoles,
		HeaderPermissions,
	}
}

// EncodeHeaders writes the principal onto h, replacing any previous values.
// Roles and permissions are serialized as JSON string arrays.
func EncodeHeaders(p *Principal, h http.Header) {
	if p == nil {
		return
	}
	h.Set(HeaderUserID, p.UserID)
	h.Set(HeaderUserGeneratedID, p.UserGeneratedID)
	h.Set(HeaderUsername, p.Username)
	h.Set(HeaderEmail, p.Email)
	h.Set(HeaderFirstName, p.FirstName)
	h.Set(HeaderLastName, p.LastName)
	h.Set(HeaderIsActive, strconv.FormatBool(p.IsActive))
	h.Set(HeaderTenantID, p.TenantID)
	h.Set(HeaderTenantGeneratedID, p.TenantGeneratedID)
	if data, err := json.Marshal(p.Roles); err == nil {
		h.Set(HeaderRoles, string(data))
	}
	if data, err := json.Marshal(p.Permissions); err == nil {
		h.Set(HeaderPermissions, string(data))
	}
}

// DecodeHeaders rebuilds a principal from the forwarding headers. Decoding is
// trust-on-read and lenient: a malformed role or permission list degrades to
// an empty set for this request instead of failing it.
func DecodeHeaders(h http.Header) *Principal {
	p := &Principal{
		UserID:            h.Get(HeaderUserID),
		UserGeneratedID:   h.Get(HeaderUserGeneratedID),
		Username:          h.Get(HeaderUsername),
		Email:             h.Get(HeaderEmail),
		FirstName:         h.Get(HeaderFirstName),
		LastName:          h.Get(HeaderLastName),
		TenantID:          h.Get(HeaderTenantID),
		TenantGeneratedID: h.Get(HeaderTenantGeneratedID),
	}
	if active, err := strconv.ParseBool(h.Get(HeaderIsActive)); err == nil {
		p.IsActive = active
	}
	p.Roles = decodeList(h.Get(HeaderRoles))
	p.Permissions = decodeList(h.Get(HeaderPermissions))
	return p
}

func decodeList(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}
