package identity

import (
	"context"
	"errors"
	"log/slog"

	"github.com/northgate-io/northgate/internal/shared"
)

// Service orchestrates identity resolution.
type Service struct {
	repo   Repository
	cache  *Cache
	logger *slog.Logger
}

// NewService constructs a Service. cache may be nil to disable snapshots.
func NewService(repo Repository, cache *Cache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Resolve loads the full identity closure for an already-authenticated
// subject.
//
// Resolution aggregates role assignments across every tenant the subject
// belongs to, not just the tenant named in the presented token. Tenant
// metadata is best-effort: a dangling tenant reference degrades the tenant
// fields to nil instead of failing resolution. An assignment whose role row
// cannot be found is skipped; inconsistent joins shrink the permission set
// rather than aborting login.
func (s *Service) Resolve(ctx context.Context, subjectID string) (*Identity, error) {
	if snapshot, ok := s.cache.Get(ctx, subjectID); ok {
		return snapshot, nil
	}

	user, err := s.repo.GetUser(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	resolved := &Identity{User: *user, Permissions: []string{}}
	resolved.User.PasswordHash = ""

	if user.TenantID != "" {
		tenant, err := s.repo.GetTenantByGeneratedID(ctx, user.TenantID)
		switch {
		case err == nil:
			resolved.Tenant = s.buildTenantInfo(ctx, tenant)
		case errors.Is(err, shared.ErrTenantNotFound):
			if s.logger != nil {
				s.logger.Warn("tenant reference unresolved",
					slog.String("user_id", user.ID),
					slog.String("tenant_id", user.TenantID))
			}
		default:
			return nil, err
		}
	}

	assignments, err := s.repo.ListValidAssignments(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	permissions := make(map[string]struct{})
	for _, assignment := range assignments {
		role, err := s.repo.GetRoleByGeneratedID(ctx, assignment.RoleID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				if s.logger != nil {
					s.logger.Warn("assignment references unknown role",
						slog.String("user_id", user.ID),
						slog.String("role_id", assignment.RoleID))
				}
				continue
			}
			return nil, err
		}
		resolved.Roles = append(resolved.Roles, *role)
		for _, code := range role.PermissionCodes {
			permissions[code] = struct{}{}
		}
	}
	for code := range permissions {
		resolved.Permissions = append(resolved.Permissions, code)
	}

	if err := s.cache.Set(ctx, resolved); err != nil && s.logger != nil {
		s.logger.Warn("cache identity snapshot", slog.Any("error", err))
	}
	return resolved, nil
}

// Invalidate drops any cached snapshot for the subject. Callers mutating
// roles, assignments or user status must invoke this.
func (s *Service) Invalidate(ctx context.Context, subjectID string) error {
	return s.cache.Invalidate(ctx, subjectID)
}

func (s *Service) buildTenantInfo(ctx context.Context, tenant *Tenant) *TenantInfo {
	info := &TenantInfo{
		ID:          tenant.ID,
		GeneratedID: tenant.GeneratedID,
		Name:        tenant.Name,
		Domain:      tenant.Domain,
		Status:      tenant.Status,
		Plan:        tenant.SubscriptionPlan,
		Configuration: map[string]any{
			"maxUsers":         tenant.MaxUsers,
			"subscriptionPlan": tenant.SubscriptionPlan,
			"isActive":         tenant.Status == "ACTIVE",
		},
	}
	codes, err := s.repo.ListEnabledFeatureCodes(ctx, tenant.GeneratedID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("list tenant features", slog.Any("error", err))
		}
		return info
	}
	info.EnabledModules = codes
	return info
}
