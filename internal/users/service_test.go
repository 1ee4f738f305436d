package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/northgate-io/northgate/internal/identity"
	"github.com/northgate-io/northgate/internal/shared"
	_ "github.com/northgate-io/northgate/testing"
)

type mockRepository struct {
	users map[string]*identity.User
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: map[string]*identity.User{}}
}

func (m *mockRepository) List(_ context.Context, tenantGeneratedID string) ([]identity.User, error) {
	var out []identity.User
	for _, u := range m.users {
		if u.TenantID == tenantGeneratedID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockRepository) Get(_ context.Context, id string) (*identity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockRepository) Create(_ context.Context, user identity.User) (*identity.User, error) {
	for _, existing := range m.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return nil, shared.ErrDuplicate
		}
	}
	m.users[user.ID] = &user
	return &user, nil
}

func (m *mockRepository) SetActive(_ context.Context, id string, active bool) error {
	u, ok := m.users[id]
	if !ok {
		return shared.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

type recordingInvalidator struct {
	subjects []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, subjectID string) error {
	r.subjects = append(r.subjects, subjectID)
	return nil
}

func TestCreateHashesPasswordAndActivates(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo, nil)

	view, err := service.Create(context.Background(), "TEN-1", CreateUserRequest{
		Username:  "jdoe",
		Email:     "JDoe@Example.com",
		Password:  "correct-horse",
		FirstName: "Jane",
		LastName:  "Doe",
	})

	require.NoError(t, err)
	assert.True(t, view.IsActive)
	assert.Equal(t, "jdoe@example.com", view.Email)
	assert.Equal(t, "TEN-1", view.TenantID)
	assert.NotEmpty(t, view.GeneratedID)

	stored := repo.users[view.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "correct-horse", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct-horse")))
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo, nil)
	req := CreateUserRequest{
		Username: "jdoe", Email: "jdoe@example.com", Password: "correct-horse",
		FirstName: "Jane", LastName: "Doe",
	}

	_, err := service.Create(context.Background(), "TEN-1", req)
	require.NoError(t, err)

	req.Username = "jdoe2"
	_, err = service.Create(context.Background(), "TEN-1", req)
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestSetActiveInvalidatesSnapshot(t *testing.T) {
	repo := newMockRepository()
	repo.users["u1"] = &identity.User{ID: "u1", TenantID: "TEN-1", IsActive: true, CreatedAt: time.Now()}
	invalidator := &recordingInvalidator{}
	service := NewService(repo, invalidator)

	require.NoError(t, service.SetActive(context.Background(), "u1", false))

	assert.False(t, repo.users["u1"].IsActive)
	assert.Equal(t, []string{"u1"}, invalidator.subjects)
}

func TestSetActiveUnknownUser(t *testing.T) {
	service := NewService(newMockRepository(), nil)

	err := service.SetActive(context.Background(), "ghost", false)

	assert.ErrorIs(t, err, shared.ErrUserNotFound)
}

func TestListScopedToTenant(t *testing.T) {
	repo := newMockRepository()
	repo.users["u1"] = &identity.User{ID: "u1", TenantID: "TEN-1"}
	repo.users["u2"] = &identity.User{ID: "u2", TenantID: "TEN-2"}
	service := NewService(repo, nil)

	views, err := service.List(context.Background(), "TEN-1")

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "u1", views[0].ID)
}
