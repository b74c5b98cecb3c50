package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/raakeshmj/vaultbox/internal/logger"
	"github.com/raakeshmj/vaultbox/internal/model"
	"github.com/raakeshmj/vaultbox/internal/repository"
)

const (
	itemTitleMinLen   = 2
	itemTitleMaxLen   = 50
	itemContentMaxLen = 1000
)

type CreateItemInput struct {
	Platform string `json:"platform"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// ItemService implements the password-manager entries: create, list,
// delete. Items are never updated in place.
type ItemService struct {
	repo repository.ItemRepository
	log  *logger.Logger
	now  func() time.Time
}

func NewItemService(repo repository.ItemRepository, log *logger.Logger) *ItemService {
	return &ItemService{repo: repo, log: log, now: time.Now}
}

func (s *ItemService) Create(ctx context.Context, in CreateItemInput) (*model.Item, error) {
	platform := strings.TrimSpace(in.Platform)
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)

	if platform == "" || title == "" || content == "" {
		return nil, invalid("platform, title and content are required")
	}
	if n := utf8.RuneCountInString(title); n < itemTitleMinLen || n > itemTitleMaxLen {
		return nil, invalid("title must be 2-50 characters")
	}
	if utf8.RuneCountInString(content) > itemContentMaxLen {
		return nil, invalid("content must be at most 1000 characters")
	}

	item := &model.Item{
		ID:        uuid.NewString(),
		Platform:  platform,
		Title:     title,
		Content:   content,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) List(ctx context.Context) ([]model.Item, error) {
	return s.repo.List(ctx)
}

// Delete removes the item, reporting ErrNotFound for unknown ids so
// the handler can answer 404 instead of silently succeeding.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return invalid("missing id")
	}
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
