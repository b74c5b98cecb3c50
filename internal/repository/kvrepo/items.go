package kvrepo

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/raakeshmj/vaultbox/internal/kv"
	"github.com/raakeshmj/vaultbox/internal/logger"
	"github.com/raakeshmj/vaultbox/internal/model"
	"github.com/raakeshmj/vaultbox/internal/repository"
)

const itemKeyPrefix = "item:"

// ItemRepo stores each item under its own "item:{id}" key.
type ItemRepo struct {
	store kv.Store
	log   *logger.Logger
}

func NewItemRepo(store kv.Store, log *logger.Logger) *ItemRepo {
	return &ItemRepo{store: store, log: log}
}

func (r *ItemRepo) Create(ctx context.Context, item *model.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, itemKeyPrefix+item.ID, string(data), 0)
}

// List returns all items, newest first. Unreadable entries are
// skipped so one corrupt record cannot take the whole list down.
func (r *ItemRepo) List(ctx context.Context) ([]model.Item, error) {
	keys, err := r.store.List(ctx, itemKeyPrefix)
	if err != nil {
		return nil, err
	}

	items := make([]model.Item, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.Get(ctx, key)
		if err != nil {
			if !errors.Is(err, kv.ErrNotFound) {
				r.log.Error("item read failed", "key", key, "error", err)
			}
			continue
		}
		var item model.Item
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			r.log.Error("corrupt item record", "key", key, "error", err)
			continue
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})
	return items, nil
}

func (r *ItemRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, err := r.store.Get(ctx, itemKeyPrefix+id)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, itemKeyPrefix+id)
}

var _ repository.ItemRepository = (*ItemRepo)(nil)
