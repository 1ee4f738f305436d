package identity

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northgate-io/northgate/internal/token"
	_ "github.com/northgate-io/northgate/testing"
)

func newValidateServer(t *testing.T, repo *mockRepository, codec *token.Codec) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, NewService(repo, nil, nil), codec)
	r := chi.NewRouter()
	r.Route("/api/v1/auth", handler.MountRoutes)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func getValidate(t *testing.T, server *httptest.Server, authorization string) (*http.Response, UserInfoResponse) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/v1/auth/validate", nil)
	require.NoError(t, err)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	var body UserInfoResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return res, body
}

func TestValidateMissingHeader(t *testing.T) {
	server := newValidateServer(t, newMockRepository(), token.NewCodec("secret", time.Hour))

	res, body := getValidate(t, server, "")

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.False(t, body.Success)
}

func TestValidateBadToken(t *testing.T) {
	server := newValidateServer(t, newMockRepository(), token.NewCodec("secret", time.Hour))

	res, body := getValidate(t, server, "Bearer not-a-token")

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.False(t, body.Success)
	assert.Equal(t, "Invalid or expired token", body.Message)
}

func TestValidateUnknownSubject(t *testing.T) {
	codec := token.NewCodec("secret", time.Hour)
	server := newValidateServer(t, newMockRepository(), codec)

	raw, err := codec.Issue("ghost", "TEN-1", nil, 0)
	require.NoError(t, err)

	res, body := getValidate(t, server, "Bearer "+raw)

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "User not found", body.Message)
}

func TestValidateSuccess(t *testing.T) {
	codec := token.NewCodec("secret", time.Hour)
	repo := newMockRepository()
	seedUser(repo)
	repo.roles["R-A"] = &Role{GeneratedID: "R-A", RoleCode: "TENANT_ADMIN", PermissionCodes: []string{"USER_READ", "USER_CREATE"}}
	repo.assignments["u1"] = []RoleAssignment{{UserID: "u1", RoleID: "R-A", TenantID: "TEN-1", IsActive: true}}
	server := newValidateServer(t, repo, codec)

	raw, err := codec.Issue("u1", "TEN-1", []string{"R-A"}, 0)
	require.NoError(t, err)

	res, body := getValidate(t, server, "Bearer "+raw)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	require.True(t, body.Success)
	require.NotNil(t, body.User)
	assert.Equal(t, "u1", body.User.ID)
	assert.Equal(t, "jdoe", body.User.Username)
	require.Len(t, body.Roles, 1)
	assert.Equal(t, "TENANT_ADMIN", body.Roles[0].RoleCode)
	assert.ElementsMatch(t, []string{"USER_READ", "USER_CREATE"}, body.Permissions)
	require.NotNil(t, body.Tenant)
	assert.Equal(t, "Acme", body.Tenant.Name)
}
