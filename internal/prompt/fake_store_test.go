package prompt

import (
	"context"
	"fmt"
	"sort"

	"github.com/promptvault/promptvault/internal/models"
	"github.com/promptvault/promptvault/internal/store"
)

// fakeStore is an in-memory Store for exercising the revision manager
// without a database.
type fakeStore struct {
	projects   map[string]models.Project
	prompts    []models.Prompt
	histories  []models.PromptHistory
	tags       map[string]models.Tag
	categories map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects:   make(map[string]models.Project),
		tags:       make(map[string]models.Tag),
		categories: make(map[string]bool),
	}
}

func (f *fakeStore) GetProject(_ context.Context, id string) (*models.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, fmt.Errorf("get project: %w", store.ErrNotFound)
	}
	return &p, nil
}

func (f *fakeStore) GetPrompt(_ context.Context, id string) (*models.Prompt, error) {
	for i := range f.prompts {
		if f.prompts[i].ID == id {
			p := f.prompts[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("get prompt: %w", store.ErrNotFound)
}

func (f *fakeStore) LatestPrompt(_ context.Context, projectID, name string) (*models.Prompt, error) {
	var latest *models.Prompt
	for i := range f.prompts {
		p := &f.prompts[i]
		if p.ProjectID != projectID || p.Name != name {
			continue
		}
		if latest == nil || !p.CreatedAt.Before(latest.CreatedAt) {
			latest = p
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("latest prompt: %w", store.ErrNotFound)
	}
	p := *latest
	return &p, nil
}

func (f *fakeStore) ListPrompts(_ context.Context, filter store.PromptFilter) ([]models.Prompt, error) {
	var out []models.Prompt
	for _, p := range f.prompts {
		if filter.ProjectID != "" && p.ProjectID != filter.ProjectID {
			continue
		}
		if filter.Name != "" && p.Name != filter.Name {
			continue
		}
		if filter.Version != "" && p.Version != filter.Version {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.TagID != "" && !contains(p.TagIDs, filter.TagID) {
			continue
		}
		if filter.StartDate != nil && p.CreatedAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && p.CreatedAt.After(*filter.EndDate) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) InsertPrompt(_ context.Context, p *models.Prompt) error {
	f.prompts = append(f.prompts, *p)
	return nil
}

func (f *fakeStore) UpdatePromptMeta(_ context.Context, id string, patch store.PromptMetaPatch) error {
	for i := range f.prompts {
		if f.prompts[i].ID != id {
			continue
		}
		if patch.Description != nil {
			f.prompts[i].Description = *patch.Description
		}
		if patch.Category != nil {
			f.prompts[i].Category = *patch.Category
		}
		if patch.TagIDs != nil {
			f.prompts[i].TagIDs = patch.TagIDs
		}
		return nil
	}
	return fmt.Errorf("update prompt meta: %w", store.ErrNotFound)
}

func (f *fakeStore) DeletePrompt(_ context.Context, id string) error {
	kept := f.prompts[:0]
	for _, p := range f.prompts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.prompts = kept
	return nil
}

func (f *fakeStore) InsertPromptHistory(_ context.Context, h *models.PromptHistory) error {
	f.histories = append(f.histories, *h)
	return nil
}

func (f *fakeStore) ListPromptHistory(_ context.Context, promptID string) ([]models.PromptHistory, error) {
	var out []models.PromptHistory
	for _, h := range f.histories {
		if h.PromptID == promptID {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) DeletePromptHistory(_ context.Context, promptID string) error {
	kept := f.histories[:0]
	for _, h := range f.histories {
		if h.PromptID != promptID {
			kept = append(kept, h)
		}
	}
	f.histories = kept
	return nil
}

func (f *fakeStore) TagsByIDs(_ context.Context, ids []string) ([]models.Tag, error) {
	var out []models.Tag
	for _, id := range ids {
		if t, ok := f.tags[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) GetTagByName(_ context.Context, name string) (*models.Tag, error) {
	for _, t := range f.tags {
		if t.Name == name {
			tag := t
			return &tag, nil
		}
	}
	return nil, fmt.Errorf("get tag by name: %w", store.ErrNotFound)
}

func (f *fakeStore) CategoryExists(_ context.Context, name string) (bool, error) {
	return f.categories[name], nil
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
