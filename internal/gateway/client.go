// Package gateway implements the edge of the system: bearer token admission,
// identity resolution against the authority service and reverse proxying to
// the internal upstreams.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/northgate-io/northgate/internal/identity"
	"github.com/northgate-io/northgate/internal/principal"
)

// Client resolves a bearer token to a principal by calling the authority's
// validate endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient constructs a Client for the authority at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Resolve calls the authority with the raw token. Any non-200 response or
// transport failure is an error; the caller treats every error as a rejection.
func (c *Client) Resolve(ctx context.Context, rawToken string) (*principal.Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/auth/validate", nil)
	if err != nil {
		return nil, fmt.Errorf("build validate request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+rawToken)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call authority: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("authority rejected token: status %d", res.StatusCode)
	}

	var info identity.UserInfoResponse
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode validate response: %w", err)
	}
	if !info.Success || info.User == nil {
		return nil, fmt.Errorf("authority returned no identity")
	}
	return fromUserInfo(&info), nil
}

func fromUserInfo(info *identity.UserInfoResponse) *principal.Principal {
	p := &principal.Principal{
		UserID:          info.User.ID,
		UserGeneratedID: info.User.GeneratedID,
		Username:        info.User.Username,
		Email:           info.User.Email,
		FirstName:       info.User.FirstName,
		LastName:        info.User.LastName,
		IsActive:        info.User.IsActive,
		TenantID:        info.User.TenantID,
		Permissions:     info.Permissions,
	}
	if info.Tenant != nil {
		p.TenantGeneratedID = info.Tenant.GeneratedID
	} else {
		p.TenantGeneratedID = info.User.TenantGeneratedID
	}
	p.Roles = make([]string, 0, len(info.Roles))
	for _, role := range info.Roles {
		p.Roles = append(p.Roles, role.RoleCode)
	}
	return p
}
