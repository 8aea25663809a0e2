package store

import (
	"context"
	"fmt"

	"github.com/promptvault/promptvault/internal/models"
)

func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	rows, err := c.pool.Query(ctx,
		"SELECT id, name, color, created_at FROM tags ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (c *Client) GetTag(ctx context.Context, id string) (*models.Tag, error) {
	var t models.Tag
	err := c.pool.QueryRow(ctx,
		"SELECT id, name, color, created_at FROM tags WHERE id = $1", id,
	).Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", notFound(err))
	}
	return &t, nil
}

func (c *Client) GetTagByName(ctx context.Context, name string) (*models.Tag, error) {
	var t models.Tag
	err := c.pool.QueryRow(ctx,
		"SELECT id, name, color, created_at FROM tags WHERE name = $1", name,
	).Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get tag by name: %w", notFound(err))
	}
	return &t, nil
}

// TagsByIDs resolves a set of tag ids. Unknown ids are simply absent
// from the result; the caller decides whether that is an error.
func (c *Client) TagsByIDs(ctx context.Context, ids []string) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := c.pool.Query(ctx,
		"SELECT id, name, color, created_at FROM tags WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, fmt.Errorf("tags by ids: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (c *Client) InsertTag(ctx context.Context, t *models.Tag) error {
	_, err := c.pool.Exec(ctx,
		"INSERT INTO tags (id, name, color, created_at) VALUES ($1, $2, $3, $4)",
		t.ID, t.Name, t.Color, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tag: %w", err)
	}
	return nil
}

func (c *Client) UpdateTag(ctx context.Context, id string, name, color *string) error {
	_, err := c.pool.Exec(ctx,
		`UPDATE tags SET name = COALESCE($2, name), color = COALESCE($3, color) WHERE id = $1`,
		id, name, color,
	)
	if err != nil {
		return fmt.Errorf("update tag: %w", err)
	}
	return nil
}

// UpsertTag writes an imported tag under its supplied id.
func (c *Client) UpsertTag(ctx context.Context, t *models.Tag) error {
	_, err := c.pool.Exec(ctx,
		`INSERT INTO tags (id, name, color, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			color = EXCLUDED.color,
			created_at = EXCLUDED.created_at`,
		t.ID, t.Name, t.Color, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert tag: %w", err)
	}
	return nil
}

func (c *Client) DeleteTag(ctx context.Context, id string) error {
	_, err := c.pool.Exec(ctx, "DELETE FROM tags WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := c.pool.Query(ctx,
		"SELECT id, name, color, created_at FROM categories ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Color, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (c *Client) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var cat models.Category
	err := c.pool.QueryRow(ctx,
		"SELECT id, name, color, created_at FROM categories WHERE id = $1", id,
	).Scan(&cat.ID, &cat.Name, &cat.Color, &cat.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", notFound(err))
	}
	return &cat, nil
}

func (c *Client) CategoryExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := c.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM categories WHERE name = $1)", name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category exists: %w", err)
	}
	return exists, nil
}

func (c *Client) TagExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := c.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM tags WHERE name = $1)", name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("tag exists: %w", err)
	}
	return exists, nil
}

func (c *Client) InsertCategory(ctx context.Context, cat *models.Category) error {
	_, err := c.pool.Exec(ctx,
		"INSERT INTO categories (id, name, color, created_at) VALUES ($1, $2, $3, $4)",
		cat.ID, cat.Name, cat.Color, cat.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, name, color *string) error {
	_, err := c.pool.Exec(ctx,
		`UPDATE categories SET name = COALESCE($2, name), color = COALESCE($3, color) WHERE id = $1`,
		id, name, color,
	)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	_, err := c.pool.Exec(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
