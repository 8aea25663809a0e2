// Package category manages the category names prompts reference.
package category

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/promptvault/promptvault/internal/models"
)

var ErrDuplicateName = errors.New("category already exists")

type Store interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	CategoryExists(ctx context.Context, name string) (bool, error)
	InsertCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, id string, name, color *string) error
	DeleteCategory(ctx context.Context, id string) error
}

type Service struct {
	store Store
}

func NewService(s Store) *Service {
	return &Service{store: s}
}

func (s *Service) List(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Category, error) {
	return s.store.GetCategory(ctx, id)
}

func (s *Service) Create(ctx context.Context, name, color string) (*models.Category, error) {
	exists, err := s.store.CategoryExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateName
	}

	if color == "" {
		color = models.DefaultCategoryColor
	}
	c := &models.Category{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     color,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.InsertCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id string, name, color *string) (*models.Category, error) {
	if _, err := s.store.GetCategory(ctx, id); err != nil {
		return nil, err
	}
	if err := s.store.UpdateCategory(ctx, id, name, color); err != nil {
		return nil, err
	}
	return s.store.GetCategory(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteCategory(ctx, id)
}
