package auth

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raakeshmj/vaultbox/internal/kv"
)

func TestCSRFManager_IssueFormat(t *testing.T) {
	m := NewCSRFManager(kv.NewMemoryStore(), 30*time.Minute)
	ctx := context.Background()

	token, err := m.Issue(ctx, "abcdefgh-1234-session")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3, "token format is timestamp.random.fragment")

	ts, err := strconv.ParseInt(parts[0], 10, 64)
	require.NoError(t, err)
	assert.InDelta(t, time.Now().UnixMilli(), ts, float64(5*time.Second/time.Millisecond))
	assert.Len(t, parts[1], 32) // 16 random bytes, hex
	assert.Equal(t, "abcdefgh", parts[2])
}

func TestCSRFManager_Validate(t *testing.T) {
	m := NewCSRFManager(kv.NewMemoryStore(), 30*time.Minute)
	ctx := context.Background()

	token, err := m.Issue(ctx, "session-1")
	require.NoError(t, err)

	assert.True(t, m.Validate(ctx, token, "session-1"))
	assert.False(t, m.Validate(ctx, "", "session-1"))
	assert.False(t, m.Validate(ctx, token, ""))
	assert.False(t, m.Validate(ctx, "forged", "session-1"))
}

func TestCSRFManager_WrongSessionBurnsToken(t *testing.T) {
	m := NewCSRFManager(kv.NewMemoryStore(), 30*time.Minute)
	ctx := context.Background()

	token, err := m.Issue(ctx, "session-1")
	require.NoError(t, err)

	assert.False(t, m.Validate(ctx, token, "session-2"))
	// The failed check deleted the record.
	assert.False(t, m.Validate(ctx, token, "session-1"))
}

func TestCSRFManager_Expiry(t *testing.T) {
	m := NewCSRFManager(kv.NewMemoryStore(), 30*time.Minute)
	ctx := context.Background()

	base := time.Now()
	m.now = func() time.Time { return base }

	token, err := m.Issue(ctx, "session-1")
	require.NoError(t, err)

	m.now = func() time.Time { return base.Add(time.Hour) }
	assert.False(t, m.Validate(ctx, token, "session-1"))
}
