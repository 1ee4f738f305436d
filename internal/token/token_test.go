package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northgate-io/northgate/internal/token"
	_ "github.com/northgate-io/northgate/testing"
)

func TestIssueAndValidate(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)

	raw, err := codec.Issue("user-1", "tenant-1", []string{"ROLE-A", "ROLE-B"}, 0)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	assert.True(t, codec.Validate(raw))
	assert.Equal(t, "user-1", codec.SubjectID(raw))
	assert.Equal(t, "tenant-1", codec.TenantID(raw))
	assert.ElementsMatch(t, []string{"ROLE-A", "ROLE-B"}, codec.RoleIDs(raw))
}

func TestValidateExpired(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)

	raw, err := codec.Issue("user-1", "tenant-1", nil, -time.Minute)
	require.NoError(t, err)

	assert.False(t, codec.Validate(raw))
}

func TestValidateMalformed(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)

	for _, raw := range []string{"", "garbage", "a.b", "a.b.c"} {
		assert.False(t, codec.Validate(raw), "token %q should not validate", raw)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	issuing := token.NewCodec("secret-one", time.Hour)
	verifying := token.NewCodec("secret-two", time.Hour)

	raw, err := issuing.Issue("user-1", "tenant-1", nil, 0)
	require.NoError(t, err)

	assert.False(t, verifying.Validate(raw))
	assert.True(t, issuing.Validate(raw))
}

func TestDefaultTTL(t *testing.T) {
	codec := token.NewCodec("test-secret", 0)
	assert.Equal(t, token.DefaultTTL, codec.TTL())
}
