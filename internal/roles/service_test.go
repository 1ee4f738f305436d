package roles

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northgate-io/northgate/internal/identity"
	"github.com/northgate-io/northgate/internal/shared"
	_ "github.com/northgate-io/northgate/testing"
)

type mockRepository struct {
	roles       map[string]*identity.Role
	assignments map[string][]identity.RoleAssignment
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		roles:       map[string]*identity.Role{},
		assignments: map[string][]identity.RoleAssignment{},
	}
}

func (m *mockRepository) List(_ context.Context, tenantGeneratedID string) ([]identity.Role, error) {
	var out []identity.Role
	for _, role := range m.roles {
		if role.TenantID == tenantGeneratedID || role.IsSystemRole {
			out = append(out, *role)
		}
	}
	return out, nil
}

func (m *mockRepository) Create(_ context.Context, role identity.Role) (*identity.Role, error) {
	for _, existing := range m.roles {
		if existing.RoleCode == role.RoleCode && existing.TenantID == role.TenantID {
			return nil, shared.ErrDuplicate
		}
	}
	m.roles[role.ID] = &role
	return &role, nil
}

func (m *mockRepository) Assign(_ context.Context, a identity.RoleAssignment) error {
	for _, existing := range m.assignments[a.UserID] {
		if existing.RoleID == a.RoleID && existing.TenantID == a.TenantID {
			return shared.ErrDuplicate
		}
	}
	m.assignments[a.UserID] = append(m.assignments[a.UserID], a)
	return nil
}

func (m *mockRepository) Revoke(_ context.Context, userID, roleGeneratedID, tenantGeneratedID string) error {
	for i, existing := range m.assignments[userID] {
		if existing.RoleID == roleGeneratedID && existing.TenantID == tenantGeneratedID && existing.IsActive {
			m.assignments[userID][i].IsActive = false
			return nil
		}
	}
	return shared.ErrNotFound
}

func newCacheBackedService(t *testing.T, repo *mockRepository) (*Service, *identity.Cache) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := identity.NewCache(client, time.Minute)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, cache, logger), cache
}

func TestAssignDropsCachedSnapshot(t *testing.T) {
	repo := newMockRepository()
	service, cache := newCacheBackedService(t, repo)
	ctx := context.Background()

	snapshot := &identity.Identity{
		User:        identity.User{ID: "u1", Username: "jdoe", TenantID: "TEN-1"},
		Permissions: []string{"USER_READ"},
	}
	require.NoError(t, cache.Set(ctx, snapshot))
	_, cached := cache.Get(ctx, "u1")
	require.True(t, cached)

	err := service.Assign(ctx, "TEN-1", "admin", AssignRequest{UserID: "u1", RoleID: "R-A"})
	require.NoError(t, err)

	_, cached = cache.Get(ctx, "u1")
	assert.False(t, cached, "assignment change must drop the cached identity")
	require.Len(t, repo.assignments["u1"], 1)
	assert.Equal(t, "admin", repo.assignments["u1"][0].AssignedBy)
}

func TestRevokeDropsCachedSnapshot(t *testing.T) {
	repo := newMockRepository()
	repo.assignments["u1"] = []identity.RoleAssignment{
		{UserID: "u1", RoleID: "R-A", TenantID: "TEN-1", IsActive: true},
	}
	service, cache := newCacheBackedService(t, repo)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &identity.Identity{User: identity.User{ID: "u1"}}))

	require.NoError(t, service.Revoke(ctx, "TEN-1", "u1", "R-A"))

	_, cached := cache.Get(ctx, "u1")
	assert.False(t, cached)
	assert.False(t, repo.assignments["u1"][0].IsActive)
}

func TestRevokeMissingAssignment(t *testing.T) {
	service, _ := newCacheBackedService(t, newMockRepository())

	err := service.Revoke(context.Background(), "TEN-1", "u1", "R-A")

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAssignDuplicate(t *testing.T) {
	repo := newMockRepository()
	service, _ := newCacheBackedService(t, repo)
	ctx := context.Background()

	require.NoError(t, service.Assign(ctx, "TEN-1", "admin", AssignRequest{UserID: "u1", RoleID: "R-A"}))
	err := service.Assign(ctx, "TEN-1", "admin", AssignRequest{UserID: "u1", RoleID: "R-A"})

	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestCreateUppercasesRoleCode(t *testing.T) {
	repo := newMockRepository()
	service, _ := newCacheBackedService(t, repo)

	view, err := service.Create(context.Background(), "TEN-1", CreateRoleRequest{
		RoleCode: "auditor",
		RoleName: "Auditor",
		RoleType: "CUSTOM",
		Priority: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, "AUDITOR", view.RoleCode)
	assert.Equal(t, "TEN-1", view.TenantID)
}
