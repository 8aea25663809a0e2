package store

import (
	"context"
	"fmt"
	"time"

	"github.com/promptvault/promptvault/internal/models"
)

const promptColumns = "id, project_id, name, version, content, description, category, tag_ids, created_at"

// PromptFilter narrows ListPrompts. Zero values are ignored.
type PromptFilter struct {
	ProjectID string
	Name      string
	Version   string
	Category  string
	TagID     string
	StartDate *time.Time
	EndDate   *time.Time
}

func (c *Client) ListPrompts(ctx context.Context, filter PromptFilter) ([]models.Prompt, error) {
	query := "SELECT " + promptColumns + " FROM prompts WHERE 1=1"
	var args []interface{}
	argIdx := 1

	add := func(clause string, value interface{}) {
		query += fmt.Sprintf(clause, argIdx)
		args = append(args, value)
		argIdx++
	}

	if filter.ProjectID != "" {
		add(" AND project_id = $%d", filter.ProjectID)
	}
	if filter.Name != "" {
		add(" AND name = $%d", filter.Name)
	}
	if filter.Version != "" {
		add(" AND version = $%d", filter.Version)
	}
	if filter.Category != "" {
		add(" AND category = $%d", filter.Category)
	}
	if filter.TagID != "" {
		add(" AND $%d = ANY(tag_ids)", filter.TagID)
	}
	if filter.StartDate != nil {
		add(" AND created_at >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add(" AND created_at <= $%d", *filter.EndDate)
	}

	query += " ORDER BY created_at DESC"

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	var prompts []models.Prompt
	for rows.Next() {
		var p models.Prompt
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.Name, &p.Version, &p.Content, &p.Description, &p.Category, &p.TagIDs, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}

func (c *Client) GetPrompt(ctx context.Context, id string) (*models.Prompt, error) {
	var p models.Prompt
	err := c.pool.QueryRow(ctx,
		"SELECT "+promptColumns+" FROM prompts WHERE id = $1", id,
	).Scan(&p.ID, &p.ProjectID, &p.Name, &p.Version, &p.Content, &p.Description, &p.Category, &p.TagIDs, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get prompt: %w", notFound(err))
	}
	return &p, nil
}

// LatestPrompt returns the most recent revision of a lineage, or
// ErrNotFound when the lineage has no rows.
func (c *Client) LatestPrompt(ctx context.Context, projectID, name string) (*models.Prompt, error) {
	var p models.Prompt
	err := c.pool.QueryRow(ctx,
		"SELECT "+promptColumns+` FROM prompts
		 WHERE project_id = $1 AND name = $2
		 ORDER BY created_at DESC LIMIT 1`,
		projectID, name,
	).Scan(&p.ID, &p.ProjectID, &p.Name, &p.Version, &p.Content, &p.Description, &p.Category, &p.TagIDs, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("latest prompt: %w", notFound(err))
	}
	return &p, nil
}

func (c *Client) InsertPrompt(ctx context.Context, p *models.Prompt) error {
	_, err := c.pool.Exec(ctx,
		`INSERT INTO prompts (id, project_id, name, version, content, description, category, tag_ids, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.ProjectID, p.Name, p.Version, p.Content, p.Description, p.Category, p.TagIDs, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert prompt: %w", err)
	}
	return nil
}

// PromptMetaPatch carries the non-content fields an in-place update may
// touch. Nil means "leave unchanged"; TagIDs nil likewise.
type PromptMetaPatch struct {
	Description *string
	Category    *string
	TagIDs      []string
}

func (c *Client) UpdatePromptMeta(ctx context.Context, id string, patch PromptMetaPatch) error {
	_, err := c.pool.Exec(ctx,
		`UPDATE prompts SET
			description = COALESCE($2, description),
			category = COALESCE($3, category),
			tag_ids = COALESCE($4, tag_ids)
		 WHERE id = $1`,
		id, patch.Description, patch.Category, patch.TagIDs,
	)
	if err != nil {
		return fmt.Errorf("update prompt meta: %w", err)
	}
	return nil
}

// UpsertPrompt writes an imported prompt row under its supplied id.
func (c *Client) UpsertPrompt(ctx context.Context, p *models.Prompt) error {
	_, err := c.pool.Exec(ctx,
		`INSERT INTO prompts (id, project_id, name, version, content, description, category, tag_ids, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
			project_id = EXCLUDED.project_id,
			name = EXCLUDED.name,
			version = EXCLUDED.version,
			content = EXCLUDED.content,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			tag_ids = EXCLUDED.tag_ids,
			created_at = EXCLUDED.created_at`,
		p.ID, p.ProjectID, p.Name, p.Version, p.Content, p.Description, p.Category, p.TagIDs, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert prompt: %w", err)
	}
	return nil
}

func (c *Client) DeletePrompt(ctx context.Context, id string) error {
	_, err := c.pool.Exec(ctx, "DELETE FROM prompts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}
	return nil
}

func (c *Client) DeletePromptsByProject(ctx context.Context, projectID string) error {
	_, err := c.pool.Exec(ctx, "DELETE FROM prompts WHERE project_id = $1", projectID)
	if err != nil {
		return fmt.Errorf("delete prompts by project: %w", err)
	}
	return nil
}

// ProjectPromptIDs lists the ids of every prompt row in a project,
// used for the history cascade on project deletion.
func (c *Client) ProjectPromptIDs(ctx context.Context, projectID string) ([]string, error) {
	rows, err := c.pool.Query(ctx, "SELECT id FROM prompts WHERE project_id = $1", projectID)
	if err != nil {
		return nil, fmt.Errorf("project prompt ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan prompt id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (c *Client) PromptSummaries(ctx context.Context, projectID string) ([]models.PromptSummary, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT id, project_id, name, created_at FROM prompts
		 WHERE project_id = $1 ORDER BY created_at DESC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("prompt summaries: %w", err)
	}
	defer rows.Close()

	var summaries []models.PromptSummary
	for rows.Next() {
		var s models.PromptSummary
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Name, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan prompt summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// ProjectTagIDs returns the distinct tag ids referenced by any prompt
// in the project.
func (c *Client) ProjectTagIDs(ctx context.Context, projectID string) ([]string, error) {
	rows, err := c.pool.Query(ctx,
		"SELECT DISTINCT unnest(tag_ids) FROM prompts WHERE project_id = $1",
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("project tag ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tag id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RemoveTagFromPrompts pulls a deleted tag's id out of every prompt.
func (c *Client) RemoveTagFromPrompts(ctx context.Context, tagID string) error {
	_, err := c.pool.Exec(ctx,
		"UPDATE prompts SET tag_ids = array_remove(tag_ids, $1) WHERE $1 = ANY(tag_ids)",
		tagID,
	)
	if err != nil {
		return fmt.Errorf("remove tag from prompts: %w", err)
	}
	return nil
}
