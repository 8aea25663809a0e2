package store

import (
	"context"
	"fmt"

	"github.com/promptvault/promptvault/internal/models"
)

const projectColumns = "id, name, description, created_at, updated_at"

func (c *Client) ListProjects(ctx context.Context, search string) ([]models.Project, error) {
	query := "SELECT " + projectColumns + " FROM projects"
	var args []interface{}
	if search != "" {
		query += " WHERE name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'"
		args = append(args, search)
	}
	query += " ORDER BY created_at DESC"

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (c *Client) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	err := c.pool.QueryRow(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id = $1", id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", notFound(err))
	}
	return &p, nil
}

func (c *Client) InsertProject(ctx context.Context, p *models.Project) error {
	_, err := c.pool.Exec(ctx,
		`INSERT INTO projects (id, name, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// UpdateProject patches the supplied fields in place and bumps
// updated_at. Nil pointers leave the stored value untouched.
func (c *Client) UpdateProject(ctx context.Context, id string, name, description *string) error {
	_, err := c.pool.Exec(ctx,
		`UPDATE projects SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			updated_at = now()
		 WHERE id = $1`,
		id, name, description,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// UpsertProject writes an imported project under its supplied id.
func (c *Client) UpsertProject(ctx context.Context, p *models.Project) error {
	_, err := c.pool.Exec(ctx,
		`INSERT INTO projects (id, name, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			updated_at = EXCLUDED.updated_at`,
		p.ID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert project: %w", err)
	}
	return nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	_, err := c.pool.Exec(ctx, "DELETE FROM projects WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
