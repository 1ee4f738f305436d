package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/northgate-io/northgate/internal/identity"
	"github.com/northgate-io/northgate/internal/shared"
	"github.com/northgate-io/northgate/jobs"
)

// Repository is the persistence surface the login flow needs. It is a subset
// of the identity repository.
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*identity.User, error)
	ListValidAssignments(ctx context.Context, userID string) ([]identity.RoleAssignment, error)
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
}

// TokenIssuer is the subset of the token codec the login flow needs.
type TokenIssuer interface {
	Issue(subjectID, tenantID string, roleIDs []string, ttl time.Duration) (string, error)
	TTL() time.Duration
}

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	codec  TokenIssuer
	audit  jobs.Auditor
	logger *slog.Logger
}

// NewService constructs a new Service. audit may be nil.
func NewService(repo Repository, codec TokenIssuer, audit jobs.Auditor, logger *slog.Logger) *Service {
	return &Service{repo: repo, codec: codec, audit: audit, logger: logger}
}

// Login validates credentials and issues a bearer token carrying the
// subject, tenant and generated role ids of the user's valid assignments.
func (s *Service) Login(ctx context.Context, req LoginRequest, ip, userAgent string) (*LoginResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrUserNotFound) {
			s.recordEvent(ctx, "", "login", false, "user not found", ip, userAgent)
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		s.recordEvent(ctx, user.ID, "login", false, "user inactive", ip, userAgent)
		return nil, shared.ErrUserNotActive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.recordEvent(ctx, user.ID, "login", false, "invalid password", ip, userAgent)
		return nil, shared.ErrInvalidCredentials
	}

	assignments, err := s.repo.ListValidAssignments(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	roleIDs := make([]string, 0, len(assignments))
	for _, assignment := range assignments {
		roleIDs = append(roleIDs, assignment.RoleID)
	}

	signed, err := s.codec.Issue(user.ID, user.TenantID, roleIDs, 0)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	now := time.Now()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil && s.logger != nil {
		s.logger.Warn("update last login", slog.String("user_id", user.ID), slog.Any("error", err))
	}
	s.recordEvent(ctx, user.ID, "login", true, "", ip, userAgent)

	expiresAt := now.Add(s.codec.TTL())
	return &LoginResponse{
		Success:   true,
		Message:   "Login successful",
		Token:     signed,
		TokenType: "Bearer",
		ExpiresAt: &expiresAt,
		User: &identity.UserData{
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
			LastLoginAt:       &now,
		},
	}, nil
}

func (s *Service) recordEvent(ctx context.Context, userID, action string, success bool, reason, ip, userAgent string) {
	if s.audit == nil {
		return
	}
	s.audit.RecordAuthEvent(ctx, jobs.AuthEventPayload{
		UserID:    userID,
		Action:    action,
		Success:   success,
		Reason:    reason,
		IP:        ip,
		UserAgent: userAgent,
		At:        time.Now().UTC(),
	})
}
