package models

import "time"

// Prompt is one immutable revision within a lineage. Rows sharing
// (project_id, name) form the version history of one named prompt; the
// newest created_at wins as "current". Content edits never mutate a
// row — they insert a new one with a bumped version.
type Prompt struct {
	ID          string    `json:"id" db:"id"`
	ProjectID   string    `json:"project_id" db:"project_id"`
	Name        string    `json:"name" db:"name"`
	Version     string    `json:"version" db:"version"`
	Content     string    `json:"content" db:"content"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	TagIDs      []string  `json:"tag_ids" db:"tag_ids"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Populated on serialization, not stored.
	Tags    []Tag           `json:"tags,omitempty"`
	History []PromptHistory `json:"history,omitempty"`
	Project *Project        `json:"project,omitempty"`
}

// PromptHistory is an append-only audit record for a lineage-changing
// operation. PromptID refers to the row the operation produced.
type PromptHistory struct {
	ID         string    `json:"id" db:"id"`
	PromptID   string    `json:"prompt_id" db:"prompt_id"`
	ProjectID  string    `json:"project_id" db:"project_id"`
	Operation  string    `json:"operation" db:"operation"` // create, update, rollback
	OldContent string    `json:"old_content" db:"old_content"`
	NewContent string    `json:"new_content" db:"new_content"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// PromptTestHistory records one test invocation of a prompt against an
// LLM provider. Append-only.
type PromptTestHistory struct {
	ID           string        `json:"id" db:"id"`
	PromptID     string        `json:"prompt_id" db:"prompt_id"`
	ProjectID    string        `json:"project_id" db:"project_id"`
	Title        string        `json:"title" db:"title"`
	Messages     []ChatMessage `json:"messages" db:"messages"`
	Response     string        `json:"response" db:"response"`
	ProviderID   string        `json:"provider_id" db:"provider_id"`
	ProviderName string        `json:"provider_name" db:"provider_name"`
	Model        string        `json:"model" db:"model"`
	Temperature  *float64      `json:"temperature,omitempty" db:"temperature"`
	TopP         *float64      `json:"top_p,omitempty" db:"top_p"`
	MaxTokens    *int          `json:"max_tokens,omitempty" db:"max_tokens"`
	TokenCount   int           `json:"token_count" db:"token_count"`
	Cost         float64       `json:"cost" db:"cost"`
	InputPrice   float64       `json:"input_price" db:"input_price"`
	OutputPrice  float64       `json:"output_price" db:"output_price"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
}
