package tenants

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/northgate-io/northgate/internal/identity"
	"github.com/northgate-io/northgate/internal/shared"
)

// RepositoryPort defines data access methods for tenant administration.
type RepositoryPort interface {
	List(ctx context.Context) ([]identity.Tenant, error)
	GetByGeneratedID(ctx context.Context, generatedID string) (*identity.Tenant, error)
	Create(ctx context.Context, tenant identity.Tenant) (*identity.Tenant, error)
	SetFeature(ctx context.Context, tenantGeneratedID, featureCode string, enabled bool) error
	ListEnabledFeatureCodes(ctx context.Context, tenantGeneratedID string) ([]string, error)
}

// Repository provides PostgreSQL backed persistence for tenants.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const tenantColumns = `id, generated_id, name, domain, status, subscription_plan, max_users, created_at`

// List returns every tenant ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]identity.Tenant, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+tenantColumns+` FROM tenants ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tenants []identity.Tenant
	for rows.Next() {
		var t identity.Tenant
		if err := rows.Scan(&t.ID, &t.GeneratedID, &t.Name, &t.Domain, &t.Status,
			&t.SubscriptionPlan, &t.MaxUsers, &t.CreatedAt); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

// GetByGeneratedID fetches a tenant by its generated identifier.
func (r *Repository) GetByGeneratedID(ctx context.Context, generatedID string) (*identity.Tenant, error) {
	var t identity.Tenant
	err := r.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE generated_id = $1`, generatedID).
		Scan(&t.ID, &t.GeneratedID, &t.Name, &t.Domain, &t.Status,
			&t.SubscriptionPlan, &t.MaxUsers, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrTenantNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Create inserts a tenant. A name or domain collision maps to
// shared.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, tenant identity.Tenant) (*identity.Tenant, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tenants (id, generated_id, name, domain, status, subscription_plan, max_users, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tenant.ID, tenant.GeneratedID, tenant.Name, tenant.Domain, tenant.Status,
		tenant.SubscriptionPlan, tenant.MaxUsers, tenant.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, shared.ErrDuplicate
		}
		return nil, err
	}
	return &tenant, nil
}

// SetFeature upserts a feature flag for the tenant.
func (r *Repository) SetFeature(ctx context.Context, tenantGeneratedID, featureCode string, enabled bool) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tenant_features (tenant_id, feature_code, is_enabled)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (tenant_id, feature_code) DO UPDATE SET is_enabled = EXCLUDED.is_enabled`,
		tenantGeneratedID, featureCode, enabled)
	return err
}

// ListEnabledFeatureCodes returns codes of features enabled for the tenant.
func (r *Repository) ListEnabledFeatureCodes(ctx context.Context, tenantGeneratedID string) ([]string, error) {
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

var _ RepositoryPort = (*Repository)(nil)
