package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comfortbites/backend/internal/testhelpers"
)

func setupAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	sessions := NewMemorySessionStore()
	t.Cleanup(sessions.Close)
	return NewAuthService(NewUserService(db), sessions)
}

func TestAuthService_SignupLogsUserIn(t *testing.T) {
	auth := setupAuthService(t)
	ctx := context.Background()

	user, token, err := auth.Signup(ctx, "alice", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Signup establishes the session itself, no separate login needed
	resolved, ok, err := auth.CurrentUser(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestAuthService_SignupValidation(t *testing.T) {
	auth := setupAuthService(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"short username", "ab", "hunter22"},
		{"invalid characters", "bad name!", "hunter22"},
		{"short password", "alice", "12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := auth.Signup(ctx, tc.username, tc.password)
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestAuthService_SignupDuplicateUsername(t *testing.T) {
	auth := setupAuthService(t)
	ctx := context.Background()

	_, _, err := auth.Signup(ctx, "alice", "hunter22")
	require.NoError(t, err)

	_, _, err = auth.Signup(ctx, "alice", "hunter22")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthService_Login(t *testing.T) {
	auth := setupAuthService(t)
	ctx := context.Background()

	created, _, err := auth.Signup(ctx, "alice", "hunter22")
	require.NoError(t, err)

	user, token, err := auth.Login(ctx, "alice", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotEmpty(t, token)
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	auth := setupAuthService(t)
	ctx := context.Background()

	_, _, err := auth.Signup(ctx, "alice", "hunter22")
	require.NoError(t, err)

	_, _, wrongPassword := auth.Login(ctx, "alice", "not-the-password")
	_, _, unknownUser := auth.Login(ctx, "mallory", "hunter22")

	// Same error either way, so the endpoint cannot be used to probe
	// which usernames exist
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
}

func TestAuthService_Logout(t *testing.T) {
	auth := setupAuthService(t)
	ctx := context.Background()

	_, token, err := auth.Signup(ctx, "alice", "hunter22")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, token))

	_, ok, err := auth.CurrentUser(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)

	// Stale and empty tokens are no-ops
	require.NoError(t, auth.Logout(ctx, token))
	require.NoError(t, auth.Logout(ctx, ""))
}
