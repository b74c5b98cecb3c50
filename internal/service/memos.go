package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raakeshmj/vaultbox/internal/logger"
	"github.com/raakeshmj/vaultbox/internal/model"
	"github.com/raakeshmj/vaultbox/internal/repository"
)

const (
	defaultCategory      = "general"
	defaultCategoryColor = 1
	maxCategoryColor     = 5
)

type MemoInput struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	Category      string `json:"category"`
	CategoryColor int    `json:"categoryColor"`
}

// MemoService implements memo CRUD and bulk import over the
// single-document collection. The mutex serializes in-process
// read-modify-write cycles; across processes the document stays
// last-write-wins.
type MemoService struct {
	repo repository.MemoRepository
	mu   sync.Mutex
	log  *logger.Logger
	now  func() time.Time
}

func NewMemoService(repo repository.MemoRepository, log *logger.Logger) *MemoService {
	return &MemoService{repo: repo, log: log, now: time.Now}
}

func (s *MemoService) List(ctx context.Context) ([]model.Memo, error) {
	return s.repo.All(ctx)
}

func (s *MemoService) Get(ctx context.Context, id string) (*model.Memo, error) {
	memos, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range memos {
		if memos[i].ID == id {
			return &memos[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoService) Create(ctx context.Context, in MemoInput) (*model.Memo, error) {
	memo, err := s.build(in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	memos, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	memos = append(memos, *memo)
	if err := s.repo.SaveAll(ctx, memos); err != nil {
		return nil, err
	}
	return memo, nil
}

// Update merges the input into an existing memo. createdAt is set
// once at creation and never changes; updatedAt records the merge.
func (s *MemoService) Update(ctx context.Context, id string, in MemoInput) (*model.Memo, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, invalid("title and content are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	memos, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range memos {
		if memos[i].ID != id {
			continue
		}
		memos[i].Title = title
		memos[i].Content = content
		memos[i].Category = defaultString(in.Category, memos[i].Category)
		if in.CategoryColor != 0 {
			memos[i].CategoryColor = clampColor(in.CategoryColor)
		}
		memos[i].UpdatedAt = s.now().UnixMilli()
		if err := s.repo.SaveAll(ctx, memos); err != nil {
			return nil, err
		}
		return &memos[i], nil
	}
	return nil, ErrNotFound
}

func (s *MemoService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	memos, err := s.repo.All(ctx)
	if err != nil {
		return err
	}
	kept := memos[:0]
	found := false
	for _, m := range memos {
		if m.ID == id {
			found = true
			continue
		}
		kept = append(kept, m)
	}
	if !found {
		return ErrNotFound
	}
	return s.repo.SaveAll(ctx, kept)
}

// Import appends every valid entry and silently drops entries missing
// title or content, returning the number imported.
func (s *MemoService) Import(ctx context.Context, inputs []MemoInput) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	memos, err := s.repo.All(ctx)
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, in := range inputs {
		memo, err := s.build(in)
		if err != nil {
			continue
		}
		memos = append(memos, *memo)
		imported++
	}
	if imported == 0 {
		return 0, nil
	}
	if err := s.repo.SaveAll(ctx, memos); err != nil {
		return 0, err
	}
	return imported, nil
}

func (s *MemoService) build(in MemoInput) (*model.Memo, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, invalid("title and content are required")
	}
	return &model.Memo{
		ID:            uuid.NewString(),
		Title:         title,
		Content:       content,
		Category:      defaultString(in.Category, defaultCategory),
		CategoryColor: clampColor(in.CategoryColor),
		CreatedAt:     s.now().UnixMilli(),
	}, nil
}

func defaultString(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}

func clampColor(c int) int {
	if c < defaultCategoryColor {
		return defaultCategoryColor
	}
	if c > maxCategoryColor {
		return maxCategoryColor
	}
	return c
}
