package roles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/northgate-io/northgate/internal/identity"
	"github.com/northgate-io/northgate/internal/platform/db"
	"github.com/northgate-io/northgate/internal/shared"
)

// RepositoryPort defines data access methods for role management.
type RepositoryPort interface {
	List(ctx context.Context, tenantGeneratedID string) ([]identity.Role, error)
	Create(ctx context.Context, role identity.Role) (*identity.Role, error)
	Assign(ctx context.Context, assignment identity.RoleAssignment) error
	Revoke(ctx context.Context, userID, roleGeneratedID, tenantGeneratedID string) error
}

// Repository provides PostgreSQL backed persistence for roles and
// assignments.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns the tenant's roles plus system-wide roles.
func (r *Repository) List(ctx context.Context, tenantGeneratedID string) ([]identity.Role, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.generated_id, COALESCE(r.tenant_id, ''), r.role_code, r.role_name, r.description,
		        r.role_type, r.priority, r.is_system_role, r.is_default, r.is_active,
		        COALESCE(ARRAY_AGG(rp.permission_code) FILTER (WHERE rp.permission_code IS NOT NULL), '{}')
		 FROM roles r
		 LEFT JOIN role_permissions rp ON rp.role_id = r.id
		 WHERE r.tenant_id = $1 OR r.is_system_role
		 GROUP BY r.id
		 ORDER BY r.priority DESC, r.role_code`, tenantGeneratedID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []identity.Role
	for rows.Next() {
		var role identity.Role
		if err := rows.Scan(&role.ID, &role.GeneratedID, &role.TenantID, &role.RoleCode, &role.RoleName,
			&role.Description, &role.RoleType, &role.Priority, &role.IsSystemRole, &role.IsDefault,
			&role.IsActive, &role.PermissionCodes); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// Create inserts a role and its permission codes in one transaction.
func (r *Repository) Create(ctx context.Context, role identity.Role) (*identity.Role, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO roles (id, generated_id, tenant_id, role_code, role_name, description, role_type, priority, is_system_role, is_default, is_active)
			 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11)`,
			role.ID, role.GeneratedID, role.TenantID, role.RoleCode, role.RoleName, role.Description,
			role.RoleType, role.Priority, role.IsSystemRole, role.IsDefault, role.IsActive)
		if err != nil {
			if isUniqueViolation(err) {
				return shared.ErrDuplicate
			}
			return err
		}
		for _, code := range role.PermissionCodes {
			if _, err := tx.Exec(ctx,
				`INSERT INTO role_permissions (role_id, permission_code) VALUES ($1, $2)`,
				role.ID, code); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// Assign creates an assignment. An existing (user, role, tenant) assignment
// maps to shared.ErrDuplicate.
func (r *Repository) Assign(ctx context.Context, a identity.RoleAssignment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_tenant_roles (id, generated_id, user_id, role_id, tenant_id, assigned_by, assigned_at, expires_at, is_active, is_primary)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.GeneratedID, a.UserID, a.RoleID, a.TenantID, a.AssignedBy,
		a.AssignedAt, a.ExpiresAt, a.IsActive, a.IsPrimary)
	if err != nil {
		if isUniqueViolation(err) {
			return shared.ErrDuplicate
		}
		return err
	}
	return nil
}

// Revoke deactivates the assignment. Revoking a missing assignment maps to
// shared.ErrNotFound.
func (r *Repository) Revoke(ctx context.Context, userID, roleGeneratedID, tenantGeneratedID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE user_tenant_roles SET is_active = false
		 WHERE user_id = $1 AND role_id = $2 AND tenant_id = $3 AND is_active`,
		userID, roleGeneratedID, tenantGeneratedID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ RepositoryPort = (*Repository)(nil)
