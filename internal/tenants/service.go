package tenants

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/northgate-io/northgate/internal/identity"
)

// Service handles tenant administration business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns every tenant.
func (s *Service) List(ctx context.Context) ([]View, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]View, 0, len(rows))
	for i := range rows {
		views = append(views, NewView(&rows[i], nil))
	}
	return views, nil
}

// Get returns a tenant with its enabled feature codes.
func (s *Service) Get(ctx context.Context, generatedID string) (*View, error) {
	tenant, err := s.repo.GetByGeneratedID(ctx, generatedID)
	if err != nil {
		return nil, err
	}
	features, err := s.repo.ListEnabledFeatureCodes(ctx, generatedID)
	if err != nil {
		return nil, err
	}
	view := NewView(tenant, features)
	return &view, nil
}

// Create provisions a tenant in ACTIVE status.
func (s *Service) Create(ctx context.Context, req CreateTenantRequest) (*View, error) {
	id := uuid.NewString()
	tenant := identity.Tenant{
		ID:               id,
		GeneratedID:      "TEN-" + strings.ToUpper(id[:8]),
		Name:             req.Name,
		Domain:           strings.ToLower(req.Domain),
		Status:           "ACTIVE",
		SubscriptionPlan: req.SubscriptionPlan,
		MaxUsers:         req.MaxUsers,
		CreatedAt:        time.Now().UTC(),
	}
	created, err := s.repo.Create(ctx, tenant)
	if err != nil {
		return nil, err
	}
	view := NewView(created, nil)
	return &view, nil
}

// SetFeature toggles a feature flag. Cached identities pick the change up
// when their snapshots expire.
func (s *Service) SetFeature(ctx context.Context, tenantGeneratedID string, req FeatureRequest) error {
	if _, err := s.repo.GetByGeneratedID(ctx, tenantGeneratedID); err != nil {
		return err
	}
	return s.repo.SetFeature(ctx, tenantGeneratedID, strings.ToUpper(req.FeatureCode), req.Enabled)
}
