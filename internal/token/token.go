// Package token issues and validates the signed bearer tokens exchanged
// between clients, the gateway and the authority service.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL is the validity window applied when no explicit TTL is given.
const DefaultTTL = 24 * time.Hour

const issuer = "northgate-authority"

// Claims carries the subject, tenant and role assignments of a token.
type Claims struct {
	TenantID string   `json:"tenant_id,omitempty"`
	RoleIDs  []string `json:"role_ids,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a shared HMAC secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec constructs a Codec. A zero ttl falls back to DefaultTTL.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL exposes the configured validity window.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for the subject. It fails only when signing fails,
// which is an infrastructure error.
func (c *Codec) Issue(subjectID, tenantID string, roleIDs []string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	now := time.Now()
	claims := &Claims{
		TenantID: tenantID,
		RoleIDs:  roleIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			ID:        uuid.New().String(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate reports whether the token is well formed, unexpired and carries a
// valid signature. Every decode anomaly collapses to false so that admission
// decisions stay a boolean check.
func (c *Codec) Validate(raw string) bool {
	_, err := c.parse(raw)
	return err == nil
}

// SubjectID projects the subject claim. Defined only for validated tokens.
func (c *Codec) SubjectID(raw string) string {
	claims, err := c.parse(raw)
	if err != nil {
		return ""
	}
	return claims.Subject
}

// TenantID projects the tenant claim. Defined only for validated tokens.
func (c *Codec) TenantID(raw string) string {
	claims, err := c.parse(raw)
	if err != nil {
		return ""
	}
	return claims.TenantID
}

// RoleIDs projects the role assignment claim. Defined only for validated tokens.
func (c *Codec) RoleIDs(raw string) []string {
	claims, err := c.parse(raw)
	if err != nil {
		return nil
	}
	return claims.RoleIDs
}

func (c *Codec) parse(raw string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
