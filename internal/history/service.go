// Package history is the read surface over the append-only audit and
// test-invocation logs.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/promptvault/promptvault/internal/models"
)

const (
	defaultTestLimit = 20
	minTestLimit     = 1
	maxTestLimit     = 100

	titleMaxRunes = 30
)

type Store interface {
	ListPromptHistory(ctx context.Context, promptID string) ([]models.PromptHistory, error)
	ListTestHistory(ctx context.Context, promptID string, limit int) ([]models.PromptTestHistory, error)
	InsertTestHistory(ctx context.Context, h *models.PromptTestHistory) error
}

type Service struct {
	store Store
}

func NewService(s Store) *Service {
	return &Service{store: s}
}

// ListByPrompt returns the audit records for one prompt row, newest
// first.
func (s *Service) ListByPrompt(ctx context.Context, promptID string) ([]models.PromptHistory, error) {
	return s.store.ListPromptHistory(ctx, promptID)
}

// ListTests returns test invocations for a prompt, newest first. The
// limit defaults to 20 and is clamped to [1, 100]. Blank titles are
// filled in on the way out.
func (s *Service) ListTests(ctx context.Context, promptID string, limit int) ([]models.PromptTestHistory, error) {
	records, err := s.store.ListTestHistory(ctx, promptID, ClampLimit(limit))
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].Title == "" {
			records[i].Title = DeriveTitle(records[i])
		}
	}
	return records, nil
}

// RecordTest appends one test invocation, generating its id and
// deriving a title when the caller supplied none.
func (s *Service) RecordTest(ctx context.Context, rec models.PromptTestHistory) (*models.PromptTestHistory, error) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()
	if rec.Title == "" {
		rec.Title = DeriveTitle(rec)
	}
	if err := s.store.InsertTestHistory(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func ClampLimit(limit int) int {
	switch {
	case limit == 0:
		return defaultTestLimit
	case limit < minTestLimit:
		return minTestLimit
	case limit > maxTestLimit:
		return maxTestLimit
	}
	return limit
}

// DeriveTitle names a test record after its first user message,
// truncated to 30 characters with an ellipsis. Records without a user
// message fall back to "{provider or model or untitled} · {timestamp}".
func DeriveTitle(rec models.PromptTestHistory) string {
	for _, m := range rec.Messages {
		if m.Role != "user" || m.Content == "" {
			continue
		}
		runes := []rune(m.Content)
		if len(runes) > titleMaxRunes {
			return string(runes[:titleMaxRunes]) + "…"
		}
		return m.Content
	}

	label := rec.ProviderName
	if label == "" {
		label = rec.Model
	}
	if label == "" {
		label = "untitled"
	}
	return label + " · " + rec.CreatedAt.Format("01-02 15:04")
}
