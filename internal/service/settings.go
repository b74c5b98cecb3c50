package service

import (
	"context"
	"strings"
	"time"

	"github.com/raakeshmj/vaultbox/internal/logger"
	"github.com/raakeshmj/vaultbox/internal/model"
	"github.com/raakeshmj/vaultbox/internal/repository"
)

const maxBgImageBytes = 5 * 1024 * 1024

// SettingsService reads and shallow-merges the free-form settings
// blob. No auth by design: the login page needs the theme before a
// session exists.
type SettingsService struct {
	repo repository.SettingsRepository
	log  *logger.Logger
	now  func() time.Time
}

func NewSettingsService(repo repository.SettingsRepository, log *logger.Logger) *SettingsService {
	return &SettingsService{repo: repo, log: log, now: time.Now}
}

// Get returns the stored settings, or the default theme when nothing
// has been saved yet.
func (s *SettingsService) Get(ctx context.Context) (model.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if len(settings) == 0 {
		return model.Settings{
			"theme": map[string]any{
				"primaryColor":    "#4CAF50",
				"backgroundColor": "#f5f5f5",
			},
		}, nil
	}
	return settings, nil
}

// Save shallow-merges the incoming fields over the stored blob and
// stamps lastUpdated. Unknown fields pass through untouched.
func (s *SettingsService) Save(ctx context.Context, incoming model.Settings) (model.Settings, error) {
	if bg, ok := incoming["loginBgImage"].(string); ok && bg != "" {
		if err := checkImageSize(bg); err != nil {
			return nil, err
		}
	}

	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	for k, v := range incoming {
		current[k] = v
	}
	current["lastUpdated"] = s.now().UTC().Format(time.RFC3339)

	if err := s.repo.Put(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// checkImageSize bounds the base64 background image at 5MB decoded.
func checkImageSize(dataURL string) error {
	payload := dataURL
	if _, after, ok := strings.Cut(dataURL, ","); ok {
		payload = after
	}
	if len(payload)*3/4 > maxBgImageBytes {
		return invalid("background image must be at most 5MB")
	}
	return nil
}
