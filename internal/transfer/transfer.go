// Package transfer converts the project/prompt/tag graph to and from
// JSON, CSV and a restricted YAML subtree, and reconstructs it with
// idempotent per-id upserts.
package transfer

import (
	"context"
	"errors"
	"time"

	"github.com/promptvault/promptvault/internal/models"
	"github.com/promptvault/promptvault/internal/store"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatYAML = "yaml"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrEmptyCSV          = errors.New("empty CSV file")
)

type Store interface {
	GetProject(ctx context.Context, id string) (*models.Project, error)
	ListPrompts(ctx context.Context, filter store.PromptFilter) ([]models.Prompt, error)
	TagsByIDs(ctx context.Context, ids []string) ([]models.Tag, error)
	GetTagByName(ctx context.Context, name string) (*models.Tag, error)
	InsertTag(ctx context.Context, t *models.Tag) error
	UpsertProject(ctx context.Context, p *models.Project) error
	UpsertTag(ctx context.Context, t *models.Tag) error
	UpsertPrompt(ctx context.Context, p *models.Prompt) error
}

type Service struct {
	store Store
}

func NewService(s Store) *Service {
	return &Service{store: s}
}

// Archive is the serialized form of the exported graph. Timestamps
// stay strings so that imports can tolerate foreign or missing values.
type Archive struct {
	ExportTime string            `json:"export_time"`
	Projects   []ArchivedProject `json:"projects"`
}

type ArchivedProject struct {
	ID          string            `json:"id,omitempty"`
	LegacyID    string            `json:"_id,omitempty"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	CreatedAt   string            `json:"created_at,omitempty"`
	UpdatedAt   string            `json:"updated_at,omitempty"`
	Prompts     []ArchivedPrompt  `json:"prompts"`
}

type ArchivedPrompt struct {
	ID          string        `json:"id,omitempty"`
	LegacyID    string        `json:"_id,omitempty"`
	Name        string        `json:"name"`
	Version     string        `json:"version"`
	Content     string        `json:"content"`
	Description string        `json:"description"`
	Category    string        `json:"category,omitempty"`
	Tags        []ArchivedTag `json:"tags"`
	CreatedAt   string        `json:"created_at,omitempty"`
}

type ArchivedTag struct {
	ID        string `json:"id,omitempty"`
	LegacyID  string `json:"_id,omitempty"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Result tallies a best-effort import: records missing identifying
// fields are skipped with a readable error instead of aborting the
// batch.
type Result struct {
	Success  bool     `json:"success"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// Build assembles the archive for the given project ids. Unknown ids
// are silently skipped.
func (s *Service) Build(ctx context.Context, projectIDs []string) (*Archive, error) {
	archive := &Archive{
		ExportTime: time.Now().UTC().Format(time.RFC3339),
		Projects:   []ArchivedProject{},
	}

	for _, id := range projectIDs {
		proj, err := s.store.GetProject(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		prompts, err := s.store.ListPrompts(ctx, store.PromptFilter{ProjectID: id})
		if err != nil {
			return nil, err
		}

		ap := ArchivedProject{
			ID:          proj.ID,
			Name:        proj.Name,
			Description: proj.Description,
			CreatedAt:   proj.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt:   proj.UpdatedAt.UTC().Format(time.RFC3339),
			Prompts:     []ArchivedPrompt{},
		}

		for _, p := range prompts {
			tags, err := s.store.TagsByIDs(ctx, p.TagIDs)
			if err != nil {
				return nil, err
			}
			archivedTags := make([]ArchivedTag, 0, len(tags))
			for _, t := range tags {
				archivedTags = append(archivedTags, ArchivedTag{
					ID:        t.ID,
					Name:      t.Name,
					Color:     t.Color,
					CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
				})
			}
			ap.Prompts = append(ap.Prompts, ArchivedPrompt{
				ID:          p.ID,
				Name:        p.Name,
				Version:     p.Version,
				Content:     p.Content,
				Description: p.Description,
				Category:    p.Category,
				Tags:        archivedTags,
				CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
			})
		}

		archive.Projects = append(archive.Projects, ap)
	}

	return archive, nil
}

// pickID prefers the legacy "_id" key over "id", matching imports of
// payloads produced by older exporters.
func pickID(legacy, id string) string {
	if legacy != "" {
		return legacy
	}
	return id
}

// parseTimestamp is forgiving: anything unparseable becomes now.
func parseTimestamp(value string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}
