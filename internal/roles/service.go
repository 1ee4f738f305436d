package roles

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/northgate-io/northgate/internal/identity"
)

// SnapshotInvalidator drops a cached identity snapshot after a grant change.
// A nil invalidator is a no-op.
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context, subjectID string) error
}

// Service handles role and assignment business logic.
type Service struct {
	repo        RepositoryPort
	invalidator SnapshotInvalidator
	logger      *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, invalidator SnapshotInvalidator, logger *slog.Logger) *Service {
	return &Service{repo: repo, invalidator: invalidator, logger: logger}
}

// List returns the tenant's roles plus system-wide roles.
func (s *Service) List(ctx context.Context, tenantGeneratedID string) ([]View, error) {
	rows, err := s.repo.List(ctx, tenantGeneratedID)
	if err != nil {
		return nil, err
	}
	views := make([]View, 0, len(rows))
	for i := range rows {
		views = append(views, NewView(&rows[i]))
	}
	return views, nil
}

// Create registers a tenant-scoped role with its permission codes.
func (s *Service) Create(ctx context.Context, tenantGeneratedID string, req CreateRoleRequest) (*View, error) {
	id := uuid.NewString()
	role := identity.Role{
		ID:              id,
		GeneratedID:     "ROL-" + strings.ToUpper(id[:8]),
		TenantID:        tenantGeneratedID,
		RoleCode:        strings.ToUpper(req.RoleCode),
		RoleName:        req.RoleName,
		Description:     req.Description,
		RoleType:        identity.RoleType(req.RoleType),
		Priority:        req.Priority,
		IsActive:        true,
		PermissionCodes: req.PermissionCodes,
	}
	created, err := s.repo.Create(ctx, role)
	if err != nil {
		return nil, err
	}
	view := NewView(created)
	return &view, nil
}

// Assign grants a role to a user and drops the user's cached identity so the
// grant is visible on the next resolution.
func (s *Service) Assign(ctx context.Context, tenantGeneratedID, assignedBy string, req AssignRequest) error {
	id := uuid.NewString()
	assignment := identity.RoleAssignment{
		ID:          id,
		GeneratedID: "ASG-" + strings.ToUpper(id[:8]),
		UserID:      req.UserID,
		RoleID:      req.RoleID,
		TenantID:    tenantGeneratedID,
		AssignedBy:  assignedBy,
		AssignedAt:  time.Now().UTC(),
		ExpiresAt:   req.ExpiresAt,
		IsActive:    true,
		IsPrimary:   req.IsPrimary,
	}
	if err := s.repo.Assign(ctx, assignment); err != nil {
		return err
	}
	s.invalidate(ctx, req.UserID)
	return nil
}

// Revoke deactivates an assignment and drops the user's cached identity.
func (s *Service) Revoke(ctx context.Context, tenantGeneratedID, userID, roleID string) error {
	if err := s.repo.Revoke(ctx, userID, roleID, tenantGeneratedID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *Service) invalidate(ctx context.Context, subjectID string) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx, subjectID); err != nil && s.logger != nil {
		s.logger.Warn("invalidate identity snapshot",
			slog.String("subject_id", subjectID),
			slog.Any("error", err))
	}
}
