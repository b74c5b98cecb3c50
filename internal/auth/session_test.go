package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raakeshmj/vaultbox/internal/kv"
	"github.com/raakeshmj/vaultbox/internal/logger"
)

func newTestSessions(ttl time.Duration) (*SessionManager, *kv.MemoryStore) {
	store := kv.NewMemoryStore()
	return NewSessionManager(store, ttl, logger.New(8)), store
}

func TestSessionManager_CreateValidate(t *testing.T) {
	m, _ := newTestSessions(time.Hour)
	ctx := context.Background()

	token, err := m.Create(ctx, "1.2.3.4", "agent")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sess, ok := m.Validate(ctx, token, "1.2.3.4", "agent")
	require.True(t, ok)
	assert.Equal(t, "1.2.3.4", sess.IP)

	_, ok = m.Validate(ctx, "unknown-token", "1.2.3.4", "agent")
	assert.False(t, ok)
	_, ok = m.Validate(ctx, "", "1.2.3.4", "agent")
	assert.False(t, ok)
}

func TestSessionManager_FingerprintMismatch(t *testing.T) {
	m, _ := newTestSessions(time.Hour)
	ctx := context.Background()

	token, err := m.Create(ctx, "1.2.3.4", "agent")
	require.NoError(t, err)

	// One of the two changing is tolerated.
	_, ok := m.Validate(ctx, token, "5.6.7.8", "agent")
	assert.True(t, ok, "IP change alone should pass")

	// Both changing destroys the session.
	_, ok = m.Validate(ctx, token, "5.6.7.8", "other-agent")
	assert.False(t, ok)

	// And it stays destroyed even for the original fingerprint.
	_, ok = m.Validate(ctx, token, "1.2.3.4", "agent")
	assert.False(t, ok)
}

func TestSessionManager_Expiry(t *testing.T) {
	m, _ := newTestSessions(time.Hour)
	ctx := context.Background()

	base := time.Now()
	m.now = func() time.Time { return base }

	token, err := m.Create(ctx, "1.2.3.4", "agent")
	require.NoError(t, err)

	m.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, ok := m.Validate(ctx, token, "1.2.3.4", "agent")
	assert.False(t, ok)
}

func TestSessionManager_SlidingExpiry(t *testing.T) {
	m, store := newTestSessions(time.Hour)
	ctx := context.Background()

	base := time.Now()
	m.now = func() time.Time { return base }

	token, err := m.Create(ctx, "1.2.3.4", "agent")
	require.NoError(t, err)

	// Past the halfway mark the expiry slides forward.
	m.now = func() time.Time { return base.Add(45 * time.Minute) }
	sess, ok := m.Validate(ctx, token, "1.2.3.4", "agent")
	require.True(t, ok)
	assert.True(t, sess.ExpiresAt.After(base.Add(time.Hour)), "expiry should have slid")

	// Each touch before expiry keeps sliding, but never beyond twice
	// the TTL from creation.
	m.now = func() time.Time { return base.Add(100 * time.Minute) }
	sess, ok = m.Validate(ctx, token, "1.2.3.4", "agent")
	require.True(t, ok)
	assert.Equal(t, base.Add(2*time.Hour).Unix(), sess.ExpiresAt.Unix())

	m.now = func() time.Time { return base.Add(110 * time.Minute) }
	_, ok = m.Validate(ctx, token, "1.2.3.4", "agent")
	assert.True(t, ok, "still inside the capped expiry")

	// The slid record is what is stored.
	_, err = store.Get(ctx, sessionKeyPrefix+token)
	assert.NoError(t, err)

	// No amount of activity extends past the cap.
	m.now = func() time.Time { return base.Add(125 * time.Minute) }
	_, ok = m.Validate(ctx, token, "1.2.3.4", "agent")
	assert.False(t, ok)
}

func TestSessionManager_DestroyIdempotent(t *testing.T) {
	m, _ := newTestSessions(time.Hour)
	ctx := context.Background()

	token, err := m.Create(ctx, "1.2.3.4", "agent")
	require.NoError(t, err)

	m.Destroy(ctx, token)
	_, ok := m.Validate(ctx, token, "1.2.3.4", "agent")
	assert.False(t, ok)

	// Second destroy is a no-op, not a panic or error.
	m.Destroy(ctx, token)
	m.Destroy(ctx, "")
}
