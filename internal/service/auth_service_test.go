package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/msp-dashboard/internal/config"
	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/pkg/util/errorutil"
)

type recordingRevoker struct {
	revoked map[string]time.Time
}

func (r *recordingRevoker) RevokeSession(_ context.Context, tokenID string, until time.Time) error {
	r.revoked[tokenID] = until
	return nil
}

func newAuthFixture() (*AuthService, *fakeUsers, *recordingRevoker) {
	users := newFakeUsers()
	revoker := &recordingRevoker{revoked: map[string]time.Time{}}
	svc := NewAuthService(config.AuthConfig{
		JWTSecret:       "test-secret-value",
		SessionTTLHours: 1,
		CookieName:      "session",
		BcryptCost:      4,
	}, AuthDependencies{UserRepo: users, Revoker: revoker})
	return svc, users, revoker
}

func TestCreateUserAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, revoker := newAuthFixture()

	user, err := svc.CreateUser(ctx, " Dana Ops ", " Dana@Example.com ", "correct-horse", "")
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.Equal(t, domain.UserRoleEngineer, user.Role)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	_, err = svc.CreateUser(ctx, "Dana", "dana@example.com", "another-pass", domain.UserRoleAdmin)
	assert.Equal(t, "CONFLICT", errorutil.ToDomainError(err).Code)

	loggedIn, token, session, err := svc.Login(ctx, "DANA@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, session.UserID)

	parsed, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, session.TokenID, parsed.TokenID)

	me, err := svc.CurrentUser(ctx, parsed)
	require.NoError(t, err)
	assert.Equal(t, "Dana Ops", me.Name)

	require.NoError(t, svc.Logout(ctx, session))
	assert.Contains(t, revoker.revoked, session.TokenID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthFixture()
	_, err := svc.CreateUser(ctx, "Dana", "dana@example.com", "correct-horse", domain.UserRoleAdmin)
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "dana@example.com", "wrong-horse")
	assert.Equal(t, "UNAUTHORIZED", errorutil.ToDomainError(err).Code)

	_, _, _, err = svc.Login(ctx, "nobody@example.com", "correct-horse")
	assert.Equal(t, "UNAUTHORIZED", errorutil.ToDomainError(err).Code)

	_, _, _, err = svc.Login(ctx, "", "")
	assert.Equal(t, "VALIDATION_FAILED", errorutil.ToDomainError(err).Code)
}

func TestCreateUserValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthFixture()

	_, err := svc.CreateUser(ctx, "Dana", "dana@example.com", "short", "")
	derr := errorutil.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", derr.Code)
	assert.Contains(t, derr.Details, "password")

	_, err = svc.CreateUser(ctx, "Dana", "dana@example.com", "long-enough", domain.UserRole("root"))
	assert.Equal(t, "VALIDATION_FAILED", errorutil.ToDomainError(err).Code)

	_, err = svc.CreateUser(ctx, "", "dana@example.com", "long-enough", "")
	assert.Equal(t, "VALIDATION_FAILED", errorutil.ToDomainError(err).Code)
}

func TestCurrentUserMissingAccount(t *testing.T) {
	svc, _, _ := newAuthFixture()
	_, err := svc.CurrentUser(context.Background(), &domain.Session{UserID: "gone"})
	assert.Equal(t, "UNAUTHORIZED", errorutil.ToDomainError(err).Code)
}
