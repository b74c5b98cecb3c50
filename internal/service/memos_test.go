package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raakeshmj/vaultbox/internal/kv"
	"github.com/raakeshmj/vaultbox/internal/logger"
	"github.com/raakeshmj/vaultbox/internal/repository/kvrepo"
)

func newTestMemos() *MemoService {
	log := logger.New(8)
	return NewMemoService(kvrepo.NewMemoRepo(kv.NewMemoryStore(), log), log)
}

func TestMemoService_CreateDefaults(t *testing.T) {
	svc := newTestMemos()
	ctx := context.Background()

	memo, err := svc.Create(ctx, MemoInput{Title: "note", Content: "body"})
	require.NoError(t, err)

	assert.NotEmpty(t, memo.ID)
	assert.Equal(t, "general", memo.Category)
	assert.Equal(t, 1, memo.CategoryColor)
	assert.Greater(t, memo.CreatedAt, int64(0))
	assert.Zero(t, memo.UpdatedAt)
}

func TestMemoService_ColorClamped(t *testing.T) {
	svc := newTestMemos()
	ctx := context.Background()

	memo, err := svc.Create(ctx, MemoInput{Title: "a", Content: "b", CategoryColor: 99})
	require.NoError(t, err)
	assert.Equal(t, 5, memo.CategoryColor)

	memo, err = svc.Create(ctx, MemoInput{Title: "a", Content: "b", CategoryColor: -3})
	require.NoError(t, err)
	assert.Equal(t, 1, memo.CategoryColor)
}

func TestMemoService_CreateValidation(t *testing.T) {
	svc := newTestMemos()
	ctx := context.Background()

	_, err := svc.Create(ctx, MemoInput{Title: "", Content: "b"})
	assert.True(t, IsValidation(err))
	_, err = svc.Create(ctx, MemoInput{Title: "  ", Content: "b"})
	assert.True(t, IsValidation(err))
	_, err = svc.Create(ctx, MemoInput{Title: "a", Content: ""})
	assert.True(t, IsValidation(err))
}

func TestMemoService_Update(t *testing.T) {
	svc := newTestMemos()
	ctx := context.Background()

	base := time.Now()
	svc.now = func() time.Time { return base }

	memo, err := svc.Create(ctx, MemoInput{Title: "before", Content: "old", Category: "work", CategoryColor: 3})
	require.NoError(t, err)

	svc.now = func() time.Time { return base.Add(time.Hour) }
	updated, err := svc.Update(ctx, memo.ID, MemoInput{Title: "after", Content: "new"})
	require.NoError(t, err)

	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, "work", updated.Category, "omitted category keeps the old value")
	assert.Equal(t, 3, updated.CategoryColor, "omitted color keeps the old value")
	assert.Equal(t, memo.CreatedAt, updated.CreatedAt, "createdAt never changes")
	assert.Equal(t, base.Add(time.Hour).UnixMilli(), updated.UpdatedAt)

	_, err = svc.Update(ctx, "missing", MemoInput{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoService_Delete(t *testing.T) {
	svc := newTestMemos()
	ctx := context.Background()

	a, err := svc.Create(ctx, MemoInput{Title: "a", Content: "1"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, MemoInput{Title: "b", Content: "2"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, a.ID))

	memos, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, memos, 1)
	assert.Equal(t, b.ID, memos[0].ID)

	assert.ErrorIs(t, svc.Delete(ctx, a.ID), ErrNotFound)
}

func TestMemoService_Get(t *testing.T) {
	svc := newTestMemos()
	ctx := context.Background()

	memo, err := svc.Create(ctx, MemoInput{Title: "a", Content: "1"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, memo.ID)
	require.NoError(t, err)
	assert.Equal(t, memo.ID, got.ID)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoService_ImportDropsInvalid(t *testing.T) {
	svc := newTestMemos()
	ctx := context.Background()

	count, err := svc.Import(ctx, []MemoInput{
		{Title: "good", Content: "1"},
		{Title: "", Content: "no title"},
		{Title: "also good", Content: "2"},
		{Title: "no content"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	memos, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, memos, 2)
}

func TestMemoService_ImportNothingValid(t *testing.T) {
	svc := newTestMemos()
	ctx := context.Background()

	count, err := svc.Import(ctx, []MemoInput{{Title: "", Content: ""}})
	require.NoError(t, err)
	assert.Zero(t, count)
}
