// Package prompt implements the revision manager: the decision of
// whether an update mutates a prompt row in place or forks a new
// immutable revision, plus the audit trail both paths leave behind.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/promptvault/promptvault/internal/diff"
	"github.com/promptvault/promptvault/internal/models"
	"github.com/promptvault/promptvault/internal/semver"
	"github.com/promptvault/promptvault/internal/store"
)

const (
	OperationCreate   = "create"
	OperationUpdate   = "update"
	OperationRollback = "rollback"
)

var (
	ErrCategoryRequired = errors.New("category is required")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidTagIDs    = errors.New("invalid tag ids")
	ErrInvalidDate      = errors.New("invalid date filter")
	ErrNameRequired     = errors.New("name is required")
)

// Store is the slice of the store layer the revision manager needs.
// *store.Client satisfies it; tests use an in-memory fake.
type Store interface {
	GetProject(ctx context.Context, id string) (*models.Project, error)
	GetPrompt(ctx context.Context, id string) (*models.Prompt, error)
	LatestPrompt(ctx context.Context, projectID, name string) (*models.Prompt, error)
	ListPrompts(ctx context.Context, filter store.PromptFilter) ([]models.Prompt, error)
	InsertPrompt(ctx context.Context, p *models.Prompt) error
	UpdatePromptMeta(ctx context.Context, id string, patch store.PromptMetaPatch) error
	DeletePrompt(ctx context.Context, id string) error
	InsertPromptHistory(ctx context.Context, h *models.PromptHistory) error
	ListPromptHistory(ctx context.Context, promptID string) ([]models.PromptHistory, error)
	DeletePromptHistory(ctx context.Context, promptID string) error
	TagsByIDs(ctx context.Context, ids []string) ([]models.Tag, error)
	GetTagByName(ctx context.Context, name string) (*models.Tag, error)
	CategoryExists(ctx context.Context, name string) (bool, error)
}

type Service struct {
	store Store
}

func NewService(s Store) *Service {
	return &Service{store: s}
}

type CreateRequest struct {
	Name        string   `json:"name"`
	Content     string   `json:"content"`
	TagIDs      []string `json:"tag_ids"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
}

// Create inserts the first revision of a lineage at 1.0.0, or a patch
// bump off the latest revision when same-name rows already exist.
func (s *Service) Create(ctx context.Context, projectID string, req CreateRequest) (*models.Prompt, error) {
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.Category); err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, req.TagIDs)
	if err != nil {
		return nil, err
	}

	version := semver.DefaultVersion
	if last, err := s.store.LatestPrompt(ctx, projectID, req.Name); err == nil {
		version = semver.Next(last.Version, "patch")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	p := &models.Prompt{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		Name:        req.Name,
		Version:     version,
		Content:     req.Content,
		Description: req.Description,
		Category:    req.Category,
		TagIDs:      tagIDs(tags),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.InsertPrompt(ctx, p); err != nil {
		return nil, err
	}

	if err := s.appendHistory(ctx, p, OperationCreate, "", req.Content); err != nil {
		return nil, err
	}

	p.Tags = tags
	return p, nil
}

type UpdateRequest struct {
	Content     *string   `json:"content"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	TagIDs      *[]string `json:"tag_ids"`
	Bump        string    `json:"bump"`
}

// Update forks a new revision when content actually changes, and
// patches the existing row in place otherwise. Only the forking path
// bumps the version and appends an audit record; the prior row is
// never touched, recency alone decides which revision is current.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*models.Prompt, error) {
	existing, err := s.store.GetPrompt(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetProject(ctx, existing.ProjectID); err != nil {
		return nil, err
	}

	var tags []models.Tag
	if req.TagIDs != nil {
		if tags, err = s.resolveTags(ctx, *req.TagIDs); err != nil {
			return nil, err
		}
	}
	if req.Category != nil && *req.Category != "" {
		if err := s.checkCategory(ctx, *req.Category); err != nil {
			return nil, err
		}
	}

	contentChanged := req.Content != nil && *req.Content != existing.Content
	if !contentChanged {
		return s.patchInPlace(ctx, existing, req, tags)
	}

	bump := req.Bump
	if bump == "" {
		bump = "patch"
	}

	next := &models.Prompt{
		ID:          uuid.NewString(),
		ProjectID:   existing.ProjectID,
		Name:        existing.Name,
		Version:     semver.Next(existing.Version, bump),
		Content:     *req.Content,
		Description: existing.Description,
		Category:    existing.Category,
		TagIDs:      nonNilIDs(existing.TagIDs),
		CreatedAt:   time.Now().UTC(),
	}
	if req.Description != nil {
		next.Description = *req.Description
	}
	if req.Category != nil && *req.Category != "" {
		next.Category = *req.Category
	}
	// An empty tag list on the forking path inherits the prior
	// revision's tags rather than clearing them.
	if req.TagIDs != nil && len(tags) > 0 {
		next.TagIDs = tagIDs(tags)
	}

	if err := s.store.InsertPrompt(ctx, next); err != nil {
		return nil, err
	}
	if err := s.appendHistory(ctx, next, OperationUpdate, existing.Content, next.Content); err != nil {
		return nil, err
	}

	return s.decorate(ctx, next)
}

func (s *Service) patchInPlace(ctx context.Context, existing *models.Prompt, req UpdateRequest, tags []models.Tag) (*models.Prompt, error) {
	patch := store.PromptMetaPatch{
		Description: req.Description,
		Category:    req.Category,
	}
	if req.TagIDs != nil {
		patch.TagIDs = tagIDs(tags)
	}

	if patch.Description != nil || patch.Category != nil || patch.TagIDs != nil {
		if err := s.store.UpdatePromptMeta(ctx, existing.ID, patch); err != nil {
			return nil, err
		}
	}

	updated, err := s.store.GetPrompt(ctx, existing.ID)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, updated)
}

// Rollback forks a new revision copying the source row's content,
// versioned one patch past the current latest revision of the lineage.
func (s *Service) Rollback(ctx context.Context, id string) (*models.Prompt, error) {
	source, err := s.store.GetPrompt(ctx, id)
	if err != nil {
		return nil, err
	}

	latestVersion := ""
	if latest, err := s.store.LatestPrompt(ctx, source.ProjectID, source.Name); err == nil {
		latestVersion = latest.Version
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	next := &models.Prompt{
		ID:          uuid.NewString(),
		ProjectID:   source.ProjectID,
		Name:        source.Name,
		Version:     semver.Next(latestVersion, "patch"),
		Content:     source.Content,
		Description: fmt.Sprintf("Rollback to version %s", source.Version),
		Category:    source.Category,
		TagIDs:      nonNilIDs(source.TagIDs),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.InsertPrompt(ctx, next); err != nil {
		return nil, err
	}
	if err := s.appendHistory(ctx, next, OperationRollback, "", source.Content); err != nil {
		return nil, err
	}

	return s.decorate(ctx, next)
}

// Delete removes one revision and the audit records keyed to it.
// Sibling revisions and their history are left alone.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeletePromptHistory(ctx, id); err != nil {
		return err
	}
	return s.store.DeletePrompt(ctx, id)
}

// Get returns one revision with its tags, project and audit records.
func (s *Service) Get(ctx context.Context, id string) (*models.Prompt, error) {
	p, err := s.store.GetPrompt(ctx, id)
	if err != nil {
		return nil, err
	}
	if p, err = s.decorate(ctx, p); err != nil {
		return nil, err
	}
	if p.Project, err = s.store.GetProject(ctx, p.ProjectID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		p.Project = nil
	}
	if p.History, err = s.store.ListPromptHistory(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

type ListQuery struct {
	Name      string
	Version   string
	Category  string
	Tag       string // tag name, not id
	StartDate string
	EndDate   string
}

func (s *Service) List(ctx context.Context, projectID string, q ListQuery) ([]models.Prompt, error) {
	filter := store.PromptFilter{
		ProjectID: projectID,
		Name:      q.Name,
		Version:   q.Version,
		Category:  q.Category,
	}

	var err error
	if filter.StartDate, err = parseDate(q.StartDate); err != nil {
		return nil, err
	}
	if filter.EndDate, err = parseDate(q.EndDate); err != nil {
		return nil, err
	}

	if q.Tag != "" {
		tag, err := s.store.GetTagByName(ctx, q.Tag)
		if errors.Is(err, store.ErrNotFound) {
			return []models.Prompt{}, nil
		}
		if err != nil {
			return nil, err
		}
		filter.TagID = tag.ID
	}

	prompts, err := s.store.ListPrompts(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range prompts {
		if _, err := s.decorate(ctx, &prompts[i]); err != nil {
			return nil, err
		}
	}
	return prompts, nil
}

type DiffResponse struct {
	SourceVersion string      `json:"source_version"`
	TargetVersion string      `json:"target_version"`
	Diff          diff.Result `json:"diff"`
}

// Diff compares the content of two revisions.
func (s *Service) Diff(ctx context.Context, sourceID, targetID string) (*DiffResponse, error) {
	source, err := s.store.GetPrompt(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	target, err := s.store.GetPrompt(ctx, targetID)
	if err != nil {
		return nil, err
	}

	return &DiffResponse{
		SourceVersion: source.Version,
		TargetVersion: target.Version,
		Diff:          diff.Compare(source.Content, target.Content),
	}, nil
}

// SDKContent returns the content of the newest revision matching name
// and the optional version/tag filters, for SDK consumers that only
// want the text.
func (s *Service) SDKContent(ctx context.Context, projectID, name, version, tagName string) (string, error) {
	if name == "" {
		return "", ErrNameRequired
	}
	filter := store.PromptFilter{ProjectID: projectID, Name: name, Version: version}

	if tagName != "" {
		tag, err := s.store.GetTagByName(ctx, tagName)
		if err != nil {
			return "", err
		}
		filter.TagID = tag.ID
	}

	prompts, err := s.store.ListPrompts(ctx, filter)
	if err != nil {
		return "", err
	}
	if len(prompts) == 0 {
		return "", fmt.Errorf("sdk prompt: %w", store.ErrNotFound)
	}
	return prompts[0].Content, nil
}

func (s *Service) checkCategory(ctx context.Context, name string) error {
	if name == "" {
		return ErrCategoryRequired
	}
	exists, err := s.store.CategoryExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return ErrInvalidCategory
	}
	return nil
}

// resolveTags resolves all ids or none: a single unknown id fails the
// whole operation.
func (s *Service) resolveTags(ctx context.Context, ids []string) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tags, err := s.store.TagsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, ErrInvalidTagIDs
	}
	return tags, nil
}

func (s *Service) appendHistory(ctx context.Context, p *models.Prompt, operation, oldContent, newContent string) error {
	return s.store.InsertPromptHistory(ctx, &models.PromptHistory{
		ID:         uuid.NewString(),
		PromptID:   p.ID,
		ProjectID:  p.ProjectID,
		Operation:  operation,
		OldContent: oldContent,
		NewContent: newContent,
		CreatedAt:  time.Now().UTC(),
	})
}

func (s *Service) decorate(ctx context.Context, p *models.Prompt) (*models.Prompt, error) {
	if len(p.TagIDs) == 0 {
		return p, nil
	}
	tags, err := s.store.TagsByIDs(ctx, p.TagIDs)
	if err != nil {
		return nil, err
	}
	p.Tags = tags
	return p, nil
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, ErrInvalidDate
}

// tagIDs never returns nil: the tag_ids column is NOT NULL, and pgx
// encodes a nil slice as SQL NULL.
func tagIDs(tags []models.Tag) []string {
	ids := make([]string, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}

func nonNilIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
