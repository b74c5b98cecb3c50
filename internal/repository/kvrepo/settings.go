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

const (
	settingsKey = "app:settings"
	passwordKey = "admin:password"
)

// SettingsRepo stores the settings blob under "app:settings".
type SettingsRepo struct {
	store kv.Store
	log   *logger.Logger
}

func NewSettingsRepo(store kv.Store, log *logger.Logger) *SettingsRepo {
	return &SettingsRepo{store: store, log: log}
}

func (r *SettingsRepo) Get(ctx context.Context) (model.Settings, error) {
	raw, err := r.store.Get(ctx, settingsKey)
	if errors.Is(err, kv.ErrNotFound) {
		return model.Settings{}, nil
	}
	if err != nil {
		return nil, err
	}
	var settings model.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		r.log.Error("corrupt settings, starting empty", "error", err)
		return model.Settings{}, nil
	}
	return settings, nil
}

func (r *SettingsRepo) Put(ctx context.Context, settings model.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, settingsKey, string(data), 0)
}

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// CredentialRepo stores the admin password hash under
// "admin:password".
type CredentialRepo struct {
	store kv.Store
}

func NewCredentialRepo(store kv.Store) *CredentialRepo {
	return &CredentialRepo{store: store}
}

func (r *CredentialRepo) PasswordHash(ctx context.Context) (string, error) {
	hash, err := r.store.Get(ctx, passwordKey)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	return hash, err
}

func (r *CredentialRepo) SetPasswordHash(ctx context.Context, hash string) error {
	return r.store.Put(ctx, passwordKey, hash, 0)
}

var _ repository.CredentialRepository = (*CredentialRepo)(nil)
