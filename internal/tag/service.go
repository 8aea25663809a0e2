// Package tag manages the tag records prompts reference by id.
package tag

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/promptvault/promptvault/internal/models"
)

var ErrDuplicateName = errors.New("tag already exists")

type Store interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id string) (*models.Tag, error)
	TagExistsByName(ctx context.Context, name string) (bool, error)
	InsertTag(ctx context.Context, t *models.Tag) error
	UpdateTag(ctx context.Context, id string, name, color *string) error
	DeleteTag(ctx context.Context, id string) error
	RemoveTagFromPrompts(ctx context.Context, tagID string) error
}

type Service struct {
	store Store
}

func NewService(s Store) *Service {
	return &Service{store: s}
}

func (s *Service) List(ctx context.Context) ([]models.Tag, error) {
	return s.store.ListTags(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Tag, error) {
	return s.store.GetTag(ctx, id)
}

func (s *Service) Create(ctx context.Context, name, color string) (*models.Tag, error) {
	exists, err := s.store.TagExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateName
	}

	if color == "" {
		color = models.DefaultTagColor
	}
	t := &models.Tag{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     color,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.InsertTag(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, id string, name, color *string) (*models.Tag, error) {
	if _, err := s.store.GetTag(ctx, id); err != nil {
		return nil, err
	}
	if err := s.store.UpdateTag(ctx, id, name, color); err != nil {
		return nil, err
	}
	return s.store.GetTag(ctx, id)
}

// Delete removes the tag and pulls its id out of every prompt that
// references it.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTag(ctx, id); err != nil {
		return err
	}
	return s.store.RemoveTagFromPrompts(ctx, id)
}
