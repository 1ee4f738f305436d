package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/northgate-io/northgate/internal/identity"
	"github.com/northgate-io/northgate/internal/shared"
)

// RepositoryPort defines data access methods for user management.
type RepositoryPort interface {
	List(ctx context.Context, tenantGeneratedID string) ([]identity.User, error)
	Get(ctx context.Context, id string) (*identity.User, error)
	Create(ctx context.Context, user identity.User) (*identity.User, error)
	SetActive(ctx context.Context, id string, active bool) error
}

// Repository provides PostgreSQL backed persistence over the users table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, generated_id, username, email, password_hash, first_name, last_name, is_active, tenant_id, created_at, last_login_at`

// List returns every user of the tenant ordered by creation time.
func (r *Repository) List(ctx context.Context, tenantGeneratedID string) ([]identity.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE tenant_id = $1 ORDER BY created_at`, tenantGeneratedID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []identity.User
	for rows.Next() {
		var u identity.User
		if err := rows.Scan(&u.ID, &u.GeneratedID, &u.Username, &u.Email, &u.PasswordHash,
			&u.FirstName, &u.LastName, &u.IsActive, &u.TenantID, &u.CreatedAt, &u.LastLoginAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Get fetches a user by primary id.
func (r *Repository) Get(ctx context.Context, id string) (*identity.User, error) {
	var u identity.User
	err := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.GeneratedID, &u.Username, &u.Email, &u.PasswordHash,
			&u.FirstName, &u.LastName, &u.IsActive, &u.TenantID, &u.CreatedAt, &u.LastLoginAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. A username or email collision maps to
// shared.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, user identity.User) (*identity.User, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, generated_id, username, email, password_hash, first_name, last_name, is_active, tenant_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		user.ID, user.GeneratedID, user.Username, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.IsActive, user.TenantID, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, shared.ErrDuplicate
		}
		return nil, err
	}
	return &user, nil
}

// SetActive toggles the user's active flag.
func (r *Repository) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrUserNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
