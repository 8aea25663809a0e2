package models

import "time"

type Project struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// Populated on serialization, not stored.
	Prompts []PromptSummary `json:"prompts,omitempty"`
	Tags    []Tag           `json:"tags,omitempty"`
}

// PromptSummary is the lightweight prompt listing embedded in project
// responses.
type PromptSummary struct {
	ID        string    `json:"id" db:"id"`
	ProjectID string    `json:"project_id" db:"project_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
