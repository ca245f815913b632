package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metacircle/metasync/internal/constants"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := IssueToken("secret", 7, constants.RoleSpecialist)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, constants.RoleSpecialist, claims.Role)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := IssueToken("secret", 7, constants.RoleMember)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("secret", "not.a.jwt")
	assert.Error(t, err)
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, (&UserClaims{Role: constants.RoleAdmin}).IsAdmin())
	assert.True(t, (&UserClaims{Role: constants.RoleMetaSyncAdmin}).IsAdmin())
	assert.False(t, (&UserClaims{Role: constants.RoleMember}).IsAdmin())
	assert.False(t, (&UserClaims{Role: constants.RoleSpecialist}).IsAdmin())
}

func TestClaimsContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetUserClaims(ctx))

	want := &UserClaims{UserID: 3, Role: constants.RoleMember}
	ctx = SetUserClaims(ctx, want)
	assert.Equal(t, want, GetUserClaims(ctx))
}
