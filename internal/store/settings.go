package store

import (
	"context"
	"errors"
	"fmt"
)

// GetSetting returns the stored value for key, or fallback when the
// key is absent or empty.
func (c *Client) GetSetting(ctx context.Context, key, fallback string) (string, error) {
	var value string
	err := c.pool.QueryRow(ctx, "SELECT value FROM settings WHERE key = $1", key).Scan(&value)
	if err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return fallback, nil
		}
		return "", fmt.Errorf("get setting: %w", err)
	}
	if value == "" {
		return fallback, nil
	}
	return value, nil
}

func (c *Client) SetSetting(ctx context.Context, key, value string) error {
	_, err := c.pool.Exec(ctx,
		`INSERT INTO settings (key, value, created_at, updated_at)
		 VALUES ($1, $2, now(), now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

func (c *Client) SettingsMap(ctx context.Context) (map[string]string, error) {
	rows, err := c.pool.Query(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("settings map: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}
