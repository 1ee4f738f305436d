package users

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northgate-io/northgate/internal/identity"
	"github.com/northgate-io/northgate/internal/principal"
)

func newUsersServer(t *testing.T, repo *mockRepository, caller *principal.Principal) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, NewService(repo, nil))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(principal.NewContext(req.Context(), caller)))
		})
	})
	r.Route("/api/v1/users", handler.MountRoutes)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func adminCaller() *principal.Principal {
	return &principal.Principal{
		UserID:            "admin",
		TenantGeneratedID: "TEN-1",
		Roles:             []string{"TENANT_ADMIN"},
		Permissions:       []string{PermUserRead, PermUserCreate},
	}
}

func TestListUsersRequiresPermission(t *testing.T) {
	caller := &principal.Principal{UserID: "u1", Permissions: []string{"SOMETHING_ELSE"}}
	server := newUsersServer(t, newMockRepository(), caller)

	res, err := http.Get(server.URL + "/api/v1/users/")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestListUsersUnauthenticated(t *testing.T) {
	server := newUsersServer(t, newMockRepository(), &principal.Principal{})

	res, err := http.Get(server.URL + "/api/v1/users/")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestCreateUserEndpoint(t *testing.T) {
	repo := newMockRepository()
	server := newUsersServer(t, repo, adminCaller())

	body, err := json.Marshal(CreateUserRequest{
		Username: "jdoe", Email: "jdoe@example.com", Password: "correct-horse",
		FirstName: "Jane", LastName: "Doe",
	})
	require.NoError(t, err)

	res, err := http.Post(server.URL+"/api/v1/users/", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	var view View
	require.NoError(t, json.NewDecoder(res.Body).Decode(&view))
	assert.Equal(t, "TEN-1", view.TenantID)
	require.Len(t, repo.users, 1)
}

func TestGetUserNotFound(t *testing.T) {
	server := newUsersServer(t, newMockRepository(), adminCaller())

	res, err := http.Get(server.URL + "/api/v1/users/ghost")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestSetStatusEndpoint(t *testing.T) {
	repo := newMockRepository()
	repo.users["u1"] = &identity.User{ID: "u1", TenantID: "TEN-1", IsActive: true}
	server := newUsersServer(t, repo, adminCaller())

	body := bytes.NewReader([]byte(`{"isActive":false}`))
	req, err := http.NewRequest(http.MethodPatch, server.URL+"/api/v1/users/u1/status", body)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.False(t, repo.users["u1"].IsActive)
}
