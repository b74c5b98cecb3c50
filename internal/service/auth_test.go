package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raakeshmj/vaultbox/internal/auth"
	"github.com/raakeshmj/vaultbox/internal/config"
	"github.com/raakeshmj/vaultbox/internal/kv"
	"github.com/raakeshmj/vaultbox/internal/logger"
	"github.com/raakeshmj/vaultbox/internal/repository/kvrepo"
)

func newTestAuth(t *testing.T, cfg config.Auth) (*AuthService, kv.Store) {
	t.Helper()
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = time.Hour
	}
	if cfg.CSRFTTL == 0 {
		cfg.CSRFTTL = 30 * time.Minute
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Lockout == 0 {
		cfg.Lockout = 10 * time.Minute
	}
	if cfg.AttemptWindow == 0 {
		cfg.AttemptWindow = 24 * time.Hour
	}

	store := kv.NewMemoryStore()
	log := logger.New(8)
	svc := NewAuthService(
		cfg,
		kvrepo.NewCredentialRepo(store),
		kvrepo.NewSettingsRepo(store, log),
		auth.NewSessionManager(store, cfg.SessionTTL, log),
		auth.NewCSRFManager(store, cfg.CSRFTTL),
		auth.NewGuard(store, cfg.MaxAttempts, cfg.Lockout, cfg.AttemptWindow, log),
		log,
	)
	return svc, store
}

func TestAuthService_LoginWithEnvPassword(t *testing.T) {
	svc, _ := newTestAuth(t, config.Auth{Password: "env-pw"})
	ctx := context.Background()

	res, err := svc.Login(ctx, "1.2.3.4", "agent", "env-pw")
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.CSRFToken)
	assert.Equal(t, res.Token, res.SessionID)
}

func TestAuthService_LoginWithStoredHash(t *testing.T) {
	svc, store := newTestAuth(t, config.Auth{})
	ctx := context.Background()

	hash, err := auth.HashPassword("stored-pw")
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "admin:password", hash, 0))

	res, err := svc.Login(ctx, "1.2.3.4", "agent", "stored-pw")
	require.NoError(t, err)
	assert.True(t, res.OK)

	res, err = svc.Login(ctx, "1.2.3.4", "agent", "wrong")
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, 4, res.Remaining)
}

func TestAuthService_LockoutAfterRepeatedFailures(t *testing.T) {
	svc, _ := newTestAuth(t, config.Auth{Password: "env-pw"})
	ctx := context.Background()

	var res *LoginResult
	var err error
	for i := 0; i < 5; i++ {
		res, err = svc.Login(ctx, "1.2.3.4", "agent", "wrong")
		require.NoError(t, err)
	}
	assert.True(t, res.Locked, "5th failure locks")
	assert.Greater(t, res.RetryAfter, time.Duration(0))

	// The 6th attempt is refused outright, even with the right password.
	res, err = svc.Login(ctx, "1.2.3.4", "agent", "env-pw")
	require.NoError(t, err)
	assert.True(t, res.Locked)

	// Another client is unaffected.
	res, err = svc.Login(ctx, "9.9.9.9", "agent", "env-pw")
	require.NoError(t, err)
	assert.True(t, res.OK)
}

func TestAuthService_SuccessResetsCounter(t *testing.T) {
	svc, _ := newTestAuth(t, config.Auth{Password: "env-pw"})
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := svc.Login(ctx, "1.2.3.4", "agent", "wrong")
		require.NoError(t, err)
	}
	res, err := svc.Login(ctx, "1.2.3.4", "agent", "env-pw")
	require.NoError(t, err)
	require.True(t, res.OK)

	// Counter is back to full after the success.
	res, err = svc.Login(ctx, "1.2.3.4", "agent", "wrong")
	require.NoError(t, err)
	assert.False(t, res.Locked)
	assert.Equal(t, 4, res.Remaining)
}

func TestAuthService_Verify(t *testing.T) {
	svc, _ := newTestAuth(t, config.Auth{Password: "env-pw", AccessUUID: "uuid-1"})
	ctx := context.Background()

	res, err := svc.Verify(ctx, "1.2.3.4", "agent", "uuid-1", "env-pw", "")
	require.NoError(t, err)
	assert.True(t, res.OK)

	res, err = svc.Verify(ctx, "1.2.3.4", "agent", "wrong-uuid", "env-pw", "")
	require.NoError(t, err)
	assert.False(t, res.OK)
}

func TestAuthService_VerifyMultiAuth(t *testing.T) {
	svc, _ := newTestAuth(t, config.Auth{Password: "env-pw", AccessUUID: "uuid-1", MultiAuthCode: "123456"})
	ctx := context.Background()

	// Correct credentials without the code prompt for the second step
	// and do not count as a failure.
	res, err := svc.Verify(ctx, "1.2.3.4", "agent", "uuid-1", "env-pw", "")
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.True(t, res.RequireMultiAuth)

	res, err = svc.Verify(ctx, "1.2.3.4", "agent", "uuid-1", "env-pw", "000000")
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.False(t, res.RequireMultiAuth)
	assert.Equal(t, 4, res.Remaining, "wrong code is a failed attempt")

	res, err = svc.Verify(ctx, "1.2.3.4", "agent", "uuid-1", "env-pw", "123456")
	require.NoError(t, err)
	assert.True(t, res.OK)
}

func TestAuthService_CheckSetup(t *testing.T) {
	svc, store := newTestAuth(t, config.Auth{})
	ctx := context.Background()

	res, err := svc.CheckSetup(ctx)
	require.NoError(t, err)
	assert.True(t, res.FirstTime)
	assert.Len(t, res.Password, 8)

	// The generated password is stored hashed and works for login.
	hash, err := store.Get(ctx, "admin:password")
	require.NoError(t, err)
	assert.True(t, auth.VerifyPassword(res.Password, hash))

	login, err := svc.Login(ctx, "1.2.3.4", "agent", res.Password)
	require.NoError(t, err)
	assert.True(t, login.OK)

	// Second call is not a first run anymore.
	res, err = svc.CheckSetup(ctx)
	require.NoError(t, err)
	assert.False(t, res.FirstTime)
	assert.Empty(t, res.Password)
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, _ := newTestAuth(t, config.Auth{Password: "env-pw"})
	ctx := context.Background()

	err := svc.ChangePassword(ctx, "wrong", "new-pw")
	assert.ErrorIs(t, err, ErrBadCredentials)

	err = svc.ChangePassword(ctx, "env-pw", " ")
	assert.True(t, IsValidation(err))

	require.NoError(t, svc.ChangePassword(ctx, "env-pw", "new-pw"))

	// The new password now works via the stored hash path.
	res, err := svc.Login(ctx, "1.2.3.4", "agent", "new-pw")
	require.NoError(t, err)
	assert.True(t, res.OK)
}

func TestAuthService_LogoutIdempotent(t *testing.T) {
	svc, _ := newTestAuth(t, config.Auth{Password: "env-pw"})
	ctx := context.Background()

	res, err := svc.Login(ctx, "1.2.3.4", "agent", "env-pw")
	require.NoError(t, err)

	svc.Logout(ctx, res.Token)
	svc.Logout(ctx, res.Token)
	svc.Logout(ctx, "")
}
