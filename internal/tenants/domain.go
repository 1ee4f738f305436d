// Package tenants implements tenant administration: provisioning, lookup and
// feature toggling.
package tenants

import (
	"time"

	"github.com/northgate-io/northgate/internal/identity"
)

// PermTenantManage guards the administrative endpoints.
const PermTenantManage = "TENANT_MANAGE"

// CreateTenantRequest is the provisioning payload.
type CreateTenantRequest struct {
	Name             string `json:"name" validate:"required,min=2,max=128"`
	Domain           string `json:"domain" validate:"required,fqdn"`
	SubscriptionPlan string `json:"subscriptionPlan" validate:"required,oneof=FREE BASIC PRO ENTERPRISE"`
	MaxUsers         int    `json:"maxUsers" validate:"required,min=1"`
}

// FeatureRequest toggles a feature for a tenant.
type FeatureRequest struct {
	FeatureCode string `json:"featureCode" validate:"required"`
	Enabled     bool   `json:"enabled"`
}

// View is the wire shape of a tenant.
type View struct {
	ID               string    `json:"id"`
	GeneratedID      string    `json:"generatedId"`
	Name             string    `json:"name"`
	Domain           string    `json:"domain"`
	Status           string    `json:"status"`
	SubscriptionPlan string    `json:"subscriptionPlan"`
	MaxUsers         int       `json:"maxUsers"`
	CreatedAt        time.Time `json:"createdAt"`
	EnabledFeatures  []string  `json:"enabledFeatures,omitempty"`
}

// NewView projects a tenant to its wire shape.
func NewView(t *identity.Tenant, features []string) View {
	return View{
		ID:               t.ID,
		GeneratedID:      t.GeneratedID,
		Name:             t.Name,
		Domain:           t.Domain,
		Status:           t.Status,
		SubscriptionPlan: t.SubscriptionPlan,
		MaxUsers:         t.MaxUsers,
		CreatedAt:        t.CreatedAt,
		EnabledFeatures:  features,
	}
}
