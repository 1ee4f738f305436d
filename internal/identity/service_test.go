package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northgate-io/northgate/internal/shared"
	_ "github.com/northgate-io/northgate/testing"
)

type mockRepository struct {
	users       map[string]*User
	tenants     map[string]*Tenant
	assignments map[string][]RoleAssignment
	roles       map[string]*Role
	features    map[string][]string

	getUserCalls int
	userError    error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:       make(map[string]*User),
		tenants:     make(map[string]*Tenant),
		assignments: make(map[string][]RoleAssignment),
		roles:       make(map[string]*Role),
		features:    make(map[string][]string),
	}
}

func (m *mockRepository) GetUser(ctx context.Context, id string) (*User, error) {
	m.getUserCalls++
	if m.userError != nil {
		return nil, m.userError
	}
	user, ok := m.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (m *mockRepository) GetTenantByGeneratedID(ctx context.Context, generatedID string) (*Tenant, error) {
	tenant, ok := m.tenants[generatedID]
	if !ok {
		return nil, shared.ErrTenantNotFound
	}
	return tenant, nil
}

func (m *mockRepository) ListValidAssignments(ctx context.Context, userID string) ([]RoleAssignment, error) {
	return m.assignments[userID], nil
}

func (m *mockRepository) GetRoleByGeneratedID(ctx context.Context, generatedID string) (*Role, error) {
	role, ok := m.roles[generatedID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return role, nil
}

func (m *mockRepository) ListEnabledFeatureCodes(ctx context.Context, tenantGeneratedID string) ([]string, error) {
	return m.features[tenantGeneratedID], nil
}

func (m *mockRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	return nil
}

func seedUser(repo *mockRepository) {
	repo.users["u1"] = &User{
		ID: "u1", GeneratedID: "USR-1", Username: "jdoe", Email: "jdoe@acme.test",
		FirstName: "Jane", LastName: "Doe", IsActive: true, TenantID: "TEN-1",
	}
	repo.tenants["TEN-1"] = &Tenant{
		ID: "t1", GeneratedID: "TEN-1", Name: "Acme", Domain: "acme.test",
		Status: "ACTIVE", SubscriptionPlan: "PRO", MaxUsers: 50,
	}
	repo.features["TEN-1"] = []string{"BILLING", "REPORTS"}
}

func TestResolveUserNotFound(t *testing.T) {
	service := NewService(newMockRepository(), nil, nil)

	_, err := service.Resolve(context.Background(), "missing")
	assert.ErrorIs(t, err, shared.ErrUserNotFound)
}

func TestResolvePermissionUnion(t *testing.T) {
	repo := newMockRepository()
	seedUser(repo)
	repo.roles["R-A"] = &Role{GeneratedID: "R-A", RoleCode: "A", PermissionCodes: []string{"X", "USER_READ"}}
	repo.roles["R-B"] = &Role{GeneratedID: "R-B", RoleCode: "B", PermissionCodes: []string{"Y", "USER_READ"}}
	repo.assignments["u1"] = []RoleAssignment{
		{UserID: "u1", RoleID: "R-A", TenantID: "TEN-1", IsActive: true},
		{UserID: "u1", RoleID: "R-B", TenantID: "TEN-1", IsActive: true},
	}
	service := NewService(repo, nil, nil)

	resolved, err := service.Resolve(context.Background(), "u1")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"X", "Y", "USER_READ"}, resolved.Permissions)
	assert.Len(t, resolved.Roles, 2)
}

func TestResolveSkipsUnknownRoles(t *testing.T) {
	repo := newMockRepository()
	seedUser(repo)
	repo.roles["R-A"] = &Role{GeneratedID: "R-A", RoleCode: "A", PermissionCodes: []string{"X"}}
	repo.assignments["u1"] = []RoleAssignment{
		{UserID: "u1", RoleID: "R-A", TenantID: "TEN-1", IsActive: true},
		{UserID: "u1", RoleID: "R-GONE", TenantID: "TEN-1", IsActive: true},
	}
	service := NewService(repo, nil, nil)

	resolved, err := service.Resolve(context.Background(), "u1")
	require.NoError(t, err)

	assert.Len(t, resolved.Roles, 1)
	assert.ElementsMatch(t, []string{"X"}, resolved.Permissions)
}

func TestResolveTenantDegrades(t *testing.T) {
	repo := newMockRepository()
	seedUser(repo)
	delete(repo.tenants, "TEN-1")
	service := NewService(repo, nil, nil)

	resolved, err := service.Resolve(context.Background(), "u1")
	require.NoError(t, err)

	assert.Nil(t, resolved.Tenant)
	assert.Equal(t, "jdoe", resolved.User.Username)
}

func TestResolveNoAssignments(t *testing.T) {
	repo := newMockRepository()
	seedUser(repo)
	service := NewService(repo, nil, nil)

	resolved, err := service.Resolve(context.Background(), "u1")
	require.NoError(t, err)

	assert.Empty(t, resolved.Roles)
	assert.NotNil(t, resolved.Permissions)
	assert.Empty(t, resolved.Permissions)
}

func TestResolveTenantMetadata(t *testing.T) {
	repo := newMockRepository()
	seedUser(repo)
	service := NewService(repo, nil, nil)

	resolved, err := service.Resolve(context.Background(), "u1")
	require.NoError(t, err)

	require.NotNil(t, resolved.Tenant)
	assert.Equal(t, "Acme", resolved.Tenant.Name)
	assert.ElementsMatch(t, []string{"BILLING", "REPORTS"}, resolved.Tenant.EnabledModules)
	assert.Equal(t, 50, resolved.Tenant.Configuration["maxUsers"])
	assert.Equal(t, true, resolved.Tenant.Configuration["isActive"])
}

func TestResolveStripsPasswordHash(t *testing.T) {
	repo := newMockRepository()
	seedUser(repo)
	repo.users["u1"].PasswordHash = "bcrypt-hash"
	service := NewService(repo, nil, nil)

	resolved, err := service.Resolve(context.Background(), "u1")
	require.NoError(t, err)

	assert.Empty(t, resolved.User.PasswordHash)
}

func TestResolveCacheHitAndInvalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)

	repo := newMockRepository()
	seedUser(repo)
	service := NewService(repo, cache, nil)

	ctx := context.Background()

	first, err := service.Resolve(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, repo.getUserCalls)

	second, err := service.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getUserCalls, "second resolve must be served from cache")
	assert.Equal(t, first.User.Username, second.User.Username)

	require.NoError(t, service.Invalidate(ctx, "u1"))

	_, err = service.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.getUserCalls, "invalidation must force a fresh resolution")
}

func TestResolveRepositoryErrorPropagates(t *testing.T) {
	repo := newMockRepository()
	repo.userError = errors.New("connection reset")
	service := NewService(repo, nil, nil)

	_, err := service.Resolve(context.Background(), "u1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrUserNotFound)
}
