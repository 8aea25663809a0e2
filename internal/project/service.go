// Package project manages the project records that own prompt
// lineages, including the history cascade on deletion.
package project

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/promptvault/promptvault/internal/models"
)

type Store interface {
	ListProjects(ctx context.Context, search string) ([]models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	InsertProject(ctx context.Context, p *models.Project) error
	UpdateProject(ctx context.Context, id string, name, description *string) error
	DeleteProject(ctx context.Context, id string) error
	ProjectPromptIDs(ctx context.Context, projectID string) ([]string, error)
	DeletePromptsByProject(ctx context.Context, projectID string) error
	DeletePromptHistoryByPromptIDs(ctx context.Context, promptIDs []string) error
	PromptSummaries(ctx context.Context, projectID string) ([]models.PromptSummary, error)
	ProjectTagIDs(ctx context.Context, projectID string) ([]string, error)
	TagsByIDs(ctx context.Context, ids []string) ([]models.Tag, error)
}

type Service struct {
	store Store
}

func NewService(s Store) *Service {
	return &Service{store: s}
}

// List returns projects matching the optional search term, each
// carrying its prompt summaries and the tags its prompts use.
func (s *Service) List(ctx context.Context, search string) ([]models.Project, error) {
	projects, err := s.store.ListProjects(ctx, search)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if err := s.decorate(ctx, &projects[i]); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, name, description string) (*models.Project, error) {
	now := time.Now().UTC()
	p := &models.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.InsertProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, name, description *string) (*models.Project, error) {
	if _, err := s.store.GetProject(ctx, id); err != nil {
		return nil, err
	}
	if err := s.store.UpdateProject(ctx, id, name, description); err != nil {
		return nil, err
	}
	return s.store.GetProject(ctx, id)
}

// Delete removes the project, every prompt row in it, and the audit
// records of those rows. Test histories are untouched.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.store.GetProject(ctx, id); err != nil {
		return err
	}

	promptIDs, err := s.store.ProjectPromptIDs(ctx, id)
	if err != nil {
		return err
	}
	if len(promptIDs) > 0 {
		if err := s.store.DeletePromptHistoryByPromptIDs(ctx, promptIDs); err != nil {
			return err
		}
		if err := s.store.DeletePromptsByProject(ctx, id); err != nil {
			return err
		}
	}

	return s.store.DeleteProject(ctx, id)
}

func (s *Service) decorate(ctx context.Context, p *models.Project) error {
	summaries, err := s.store.PromptSummaries(ctx, p.ID)
	if err != nil {
		return err
	}
	p.Prompts = summaries

	tagIDs, err := s.store.ProjectTagIDs(ctx, p.ID)
	if err != nil {
		return err
	}
	if len(tagIDs) > 0 {
		if p.Tags, err = s.store.TagsByIDs(ctx, tagIDs); err != nil {
			return err
		}
	}
	return nil
}
