package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/northgate-io/northgate/internal/identity"
)

// SnapshotInvalidator drops a cached identity snapshot after a change that
// affects resolution. A nil invalidator is a no-op.
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context, subjectID string) error
}

// Service handles user management business logic.
type Service struct {
	repo        RepositoryPort
	invalidator SnapshotInvalidator
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, invalidator SnapshotInvalidator) *Service {
	return &Service{repo: repo, invalidator: invalidator}
}

// List returns the tenant's users.
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

// Get returns a single user.
func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewView(user)
	return &view, nil
}

// Create registers a new user in the caller's tenant. The account starts
// active with no role assignments.
func (s *Service) Create(ctx context.Context, tenantGeneratedID string, req CreateUserRequest) (*View, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	id := uuid.NewString()
	user := identity.User{
		ID:           id,
		GeneratedID:  "USR-" + strings.ToUpper(id[:8]),
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hashed),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsActive:     true,
		TenantID:     tenantGeneratedID,
		CreatedAt:    time.Now().UTC(),
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	view := NewView(created)
	return &view, nil
}

// SetActive toggles the active flag and drops the user's cached identity so
// the change is visible on the next resolution.
func (s *Service) SetActive(ctx context.Context, id string, active bool) error {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return err
	}
	if s.invalidator != nil {
		_ = s.invalidator.Invalidate(ctx, id)
	}
	return nil
}
