package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a", "1", 0))

	val, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", val)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Now()
	s.now = func() time.Time { return base }

	require.NoError(t, s.Put(ctx, "a", "1", time.Minute))

	s.now = func() time.Time { return base.Add(30 * time.Second) }
	_, err := s.Get(ctx, "a")
	assert.NoError(t, err)

	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a", "1", 0))
	require.NoError(t, s.Delete(ctx, "a"))

	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting a missing key is not an error
	assert.NoError(t, s.Delete(ctx, "a"))
}

func TestMemoryStore_ListPrefix(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "item:1", "a", 0))
	require.NoError(t, s.Put(ctx, "item:2", "b", 0))
	require.NoError(t, s.Put(ctx, "session:x", "c", 0))

	keys, err := s.List(ctx, "item:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"item:1", "item:2"}, keys)
}

func TestMemoryStore_ExportImport(t *testing.T) {
	src := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, src.Put(ctx, "admin:password", "hash", 0))
	require.NoError(t, src.Put(ctx, "app:settings", "{}", 0))
	require.NoError(t, src.Put(ctx, "other", "x", 0))

	snap := src.Export([]string{"admin:password", "app:settings", "absent"})
	assert.Equal(t, map[string]string{
		"admin:password": "hash",
		"app:settings":   "{}",
	}, snap)

	dst := NewMemoryStore()
	require.NoError(t, dst.Put(ctx, "app:settings", "fresher", 0))
	dst.Import(snap)

	// present entries win over the imported snapshot
	val, err := dst.Get(ctx, "app:settings")
	require.NoError(t, err)
	assert.Equal(t, "fresher", val)

	val, err = dst.Get(ctx, "admin:password")
	require.NoError(t, err)
	assert.Equal(t, "hash", val)
}
