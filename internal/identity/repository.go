package identity

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/northgate-io/northgate/internal/shared"
)

// Repository defines the read surface the resolver needs, plus the last-login
// touch used by the login flow.
type Repository interface {
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetTenantByGeneratedID(ctx context.Context, generatedID string) (*Tenant, error)
	ListValidAssignments(ctx context.Context, userID string) ([]RoleAssignment, error)
	GetRoleByGeneratedID(ctx context.Context, generatedID string) (*Role, error)
	ListEnabledFeatureCodes(ctx context.Context, tenantGeneratedID string) ([]string, error)
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, generated_id, username, email, password_hash, first_name, last_name, is_active, tenant_id, created_at, last_login_at`

func (r *PGRepository) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.GeneratedID, &u.Username, &u.Email, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.IsActive, &u.TenantID, &u.CreatedAt, &u.LastLoginAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetUser fetches a user by primary id.
func (r *PGRepository) GetUser(ctx context.Context, id string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return r.scanUser(row)
}

// GetUserByEmail fetches a user by email.
func (r *PGRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return r.scanUser(row)
}

// GetTenantByGeneratedID fetches a tenant by its generated identifier.
func (r *PGRepository) GetTenantByGeneratedID(ctx context.Context, generatedID string) (*Tenant, error) {
	var t Tenant
	err := r.pool.QueryRow(ctx,
		`SELECT id, generated_id, name, domain, status, subscription_plan, max_users, created_at
		 FROM tenants WHERE generated_id = $1`, generatedID).
		Scan(&t.ID, &t.GeneratedID, &t.Name, &t.Domain, &t.Status, &t.SubscriptionPlan, &t.MaxUsers, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrTenantNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListValidAssignments returns every assignment for the user, across all
// tenants, that is active and unexpired.
func (r *PGRepository) ListValidAssignments(ctx context.Context, userID string) ([]RoleAssignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, generated_id, user_id, role_id, tenant_id, assigned_by, assigned_at, expires_at, is_active, is_primary
		 FROM user_tenant_roles
		 WHERE user_id = $1 AND is_active AND (expires_at IS NULL OR expires_at > now())
		 ORDER BY assigned_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var assignments []RoleAssignment
	for rows.Next() {
		var a RoleAssignment
		if err := rows.Scan(&a.ID, &a.GeneratedID, &a.UserID, &a.RoleID, &a.TenantID,
			&a.AssignedBy, &a.AssignedAt, &a.ExpiresAt, &a.IsActive, &a.IsPrimary); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// GetRoleByGeneratedID fetches a role with its permission codes.
func (r *PGRepository) GetRoleByGeneratedID(ctx context.Context, generatedID string) (*Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx,
		`SELECT r.id, r.generated_id, COALESCE(r.tenant_id, ''), r.role_code, r.role_name, r.description,
		        r.role_type, r.priority, r.is_system_role, r.is_default, r.is_active,
		        COALESCE(ARRAY_AGG(rp.permission_code) FILTER (WHERE rp.permission_code IS NOT NULL), '{}')
		 FROM roles r
		 LEFT JOIN role_permissions rp ON rp.role_id = r.id
		 WHERE r.generated_id = $1
		 GROUP BY r.id`, generatedID).
		Scan(&role.ID, &role.GeneratedID, &role.TenantID, &role.RoleCode, &role.RoleName, &role.Description,
			&role.RoleType, &role.Priority, &role.IsSystemRole, &role.IsDefault, &role.IsActive,
			&role.PermissionCodes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// ListEnabledFeatureCodes returns codes of features enabled for the tenant.
func (r *PGRepository) ListEnabledFeatureCodes(ctx context.Context, tenantGeneratedID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT feature_code FROM tenant_features WHERE tenant_id = $1 AND is_enabled ORDER BY feature_code`,
		tenantGeneratedID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// UpdateLastLogin stamps the user's last successful login.
func (r *PGRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`, userID, at.UTC())
	return err
}

var _ Repository = (*PGRepository)(nil)
