package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/promptvault/promptvault/internal/models"
)

func (c *Client) InsertPromptHistory(ctx context.Context, h *models.PromptHistory) error {
	_, err := c.pool.Exec(ctx,
		`INSERT INTO prompt_histories (id, prompt_id, project_id, operation, old_content, new_content, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		h.ID, h.PromptID, h.ProjectID, h.Operation, h.OldContent, h.NewContent, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert prompt history: %w", err)
	}
	return nil
}

func (c *Client) ListPromptHistory(ctx context.Context, promptID string) ([]models.PromptHistory, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT id, prompt_id, project_id, operation, old_content, new_content, created_at
		 FROM prompt_histories WHERE prompt_id = $1 ORDER BY created_at DESC`,
		promptID,
	)
	if err != nil {
		return nil, fmt.Errorf("list prompt history: %w", err)
	}
	defer rows.Close()

	var records []models.PromptHistory
	for rows.Next() {
		var h models.PromptHistory
		if err := rows.Scan(&h.ID, &h.PromptID, &h.ProjectID, &h.Operation, &h.OldContent, &h.NewContent, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan prompt history: %w", err)
		}
		records = append(records, h)
	}
	return records, rows.Err()
}

// DeletePromptHistory removes the audit records keyed to one specific
// prompt row. Sibling revisions keep theirs.
func (c *Client) DeletePromptHistory(ctx context.Context, promptID string) error {
	_, err := c.pool.Exec(ctx, "DELETE FROM prompt_histories WHERE prompt_id = $1", promptID)
	if err != nil {
		return fmt.Errorf("delete prompt history: %w", err)
	}
	return nil
}

func (c *Client) DeletePromptHistoryByPromptIDs(ctx context.Context, promptIDs []string) error {
	if len(promptIDs) == 0 {
		return nil
	}
	_, err := c.pool.Exec(ctx, "DELETE FROM prompt_histories WHERE prompt_id = ANY($1)", promptIDs)
	if err != nil {
		return fmt.Errorf("delete prompt history by prompt ids: %w", err)
	}
	return nil
}

func (c *Client) InsertTestHistory(ctx context.Context, h *models.PromptTestHistory) error {
	messages, err := json.Marshal(h.Messages)
	if err != nil {
		return fmt.Errorf("marshal messages: %w", err)
	}

	_, err = c.pool.Exec(ctx,
		`INSERT INTO prompt_test_histories
			(id, prompt_id, project_id, title, messages, response, provider_id, provider_name,
			 model, temperature, top_p, max_tokens, token_count, cost, input_price, output_price, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		h.ID, h.PromptID, h.ProjectID, h.Title, messages, h.Response, h.ProviderID, h.ProviderName,
		h.Model, h.Temperature, h.TopP, h.MaxTokens, h.TokenCount, h.Cost, h.InputPrice, h.OutputPrice, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert test history: %w", err)
	}
	return nil
}

func (c *Client) ListTestHistory(ctx context.Context, promptID string, limit int) ([]models.PromptTestHistory, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT id, prompt_id, project_id, title, messages, response, provider_id, provider_name,
			model, temperature, top_p, max_tokens, token_count, cost, input_price, output_price, created_at
		 FROM prompt_test_histories WHERE prompt_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		promptID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list test history: %w", err)
	}
	defer rows.Close()

	var records []models.PromptTestHistory
	for rows.Next() {
		var h models.PromptTestHistory
		var messages []byte
		if err := rows.Scan(&h.ID, &h.PromptID, &h.ProjectID, &h.Title, &messages, &h.Response, &h.ProviderID, &h.ProviderName,
			&h.Model, &h.Temperature, &h.TopP, &h.MaxTokens, &h.TokenCount, &h.Cost, &h.InputPrice, &h.OutputPrice, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan test history: %w", err)
		}
		if err := json.Unmarshal(messages, &h.Messages); err != nil {
			return nil, fmt.Errorf("unmarshal messages: %w", err)
		}
		records = append(records, h)
	}
	return records, rows.Err()
}
