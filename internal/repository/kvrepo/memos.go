package kvrepo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/raakeshmj/vaultbox/internal/kv"
	"github.com/raakeshmj/vaultbox/internal/logger"
	"github.com/raakeshmj/vaultbox/internal/model"
	"github.com/raakeshmj/vaultbox/internal/repository"
)

const memosKey = "all_memos"

// MemoRepo keeps the whole memo collection as one JSON array under
// a single key. Every mutation
// is a read-modify-write of the full document; concurrent writers
// are last-write-wins at document granularity.
type MemoRepo struct {
	store kv.Store
	log   *logger.Logger
}

func NewMemoRepo(store kv.Store, log *logger.Logger) *MemoRepo {
	return &MemoRepo{store: store, log: log}
}

// All returns the collection. A missing key or an unparseable
// document yields an empty collection rather than an error; the
// parse failure is logged because it can mask data loss.
func (r *MemoRepo) All(ctx context.Context) ([]model.Memo, error) {
	raw, err := r.store.Get(ctx, memosKey)
	if errors.Is(err, kv.ErrNotFound) {
		return []model.Memo{}, nil
	}
	if err != nil {
		return nil, err
	}
	var memos []model.Memo
	if err := json.Unmarshal([]byte(raw), &memos); err != nil {
		r.log.Error("corrupt memo collection, starting empty", "error", err)
		return []model.Memo{}, nil
	}
	return memos, nil
}

func (r *MemoRepo) SaveAll(ctx context.Context, memos []model.Memo) error {
	data, err := json.Marshal(memos)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, memosKey, string(data), 0)
}

var _ repository.MemoRepository = (*MemoRepo)(nil)
