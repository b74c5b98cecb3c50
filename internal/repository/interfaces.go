package repository

import (
	"context"

	"github.com/raakeshmj/vaultbox/internal/model"
)

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	List(ctx context.Context) ([]model.Item, error)
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// MemoRepository reads and writes the memo collection as one
// document. Callers own read-modify-write coordination.
type MemoRepository interface {
	All(ctx context.Context) ([]model.Memo, error)
	SaveAll(ctx context.Context, memos []model.Memo) error
}

type SettingsRepository interface {
	Get(ctx context.Context) (model.Settings, error)
	Put(ctx context.Context, settings model.Settings) error
}

// CredentialRepository holds the single stored password hash.
type CredentialRepository interface {
	PasswordHash(ctx context.Context) (string, error) // "" when not set
	SetPasswordHash(ctx context.Context, hash string) error
}
