package history

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptvault/promptvault/internal/models"
)

type fakeStore struct {
	tests     []models.PromptTestHistory
	lastLimit int
}

func (f *fakeStore) ListPromptHistory(context.Context, string) ([]models.PromptHistory, error) {
	return nil, nil
}

func (f *fakeStore) ListTestHistory(_ context.Context, promptID string, limit int) ([]models.PromptTestHistory, error) {
	f.lastLimit = limit
	var out []models.PromptTestHistory
	for _, rec := range f.tests {
		if rec.PromptID == promptID {
			out = append(out, rec)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) InsertTestHistory(_ context.Context, h *models.PromptTestHistory) error {
	f.tests = append(f.tests, *h)
	return nil
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 20, ClampLimit(0))
	assert.Equal(t, 1, ClampLimit(-5))
	assert.Equal(t, 1, ClampLimit(1))
	assert.Equal(t, 42, ClampLimit(42))
	assert.Equal(t, 100, ClampLimit(100))
	assert.Equal(t, 100, ClampLimit(500))
}

func TestDeriveTitleFromFirstUserMessage(t *testing.T) {
	rec := models.PromptTestHistory{
		Messages: []models.ChatMessage{
			{Role: "system", Content: "be brief"},
			{Role: "user", Content: "short question"},
			{Role: "user", Content: "second question"},
		},
	}
	assert.Equal(t, "short question", DeriveTitle(rec))
}

func TestDeriveTitleTruncatesLongMessages(t *testing.T) {
	rec := models.PromptTestHistory{
		Messages: []models.ChatMessage{
			{Role: "user", Content: strings.Repeat("a", 45)},
		},
	}
	got := DeriveTitle(rec)
	assert.Equal(t, strings.Repeat("a", 30)+"…", got)
}

func TestDeriveTitleCountsRunes(t *testing.T) {
	rec := models.PromptTestHistory{
		Messages: []models.ChatMessage{
			{Role: "user", Content: strings.Repeat("测", 31)},
		},
	}
	assert.Equal(t, strings.Repeat("测", 30)+"…", DeriveTitle(rec))
}

func TestDeriveTitleFallbacks(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	rec := models.PromptTestHistory{ProviderName: "openai", Model: "gpt-4o", CreatedAt: created}
	assert.Equal(t, "openai · 03-14 09:30", DeriveTitle(rec))

	rec = models.PromptTestHistory{Model: "gpt-4o", CreatedAt: created}
	assert.Equal(t, "gpt-4o · 03-14 09:30", DeriveTitle(rec))

	rec = models.PromptTestHistory{CreatedAt: created}
	assert.Equal(t, "untitled · 03-14 09:30", DeriveTitle(rec))
}

func TestRecordTestFillsIDAndTitle(t *testing.T) {
	fs := &fakeStore{}
	svc := NewService(fs)

	rec, err := svc.RecordTest(context.Background(), models.PromptTestHistory{
		PromptID:  "p-1",
		ProjectID: "proj-1",
		Messages:  []models.ChatMessage{{Role: "user", Content: "hi"}},
		Response:  "hello",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "hi", rec.Title)
	assert.False(t, rec.CreatedAt.IsZero())
	require.Len(t, fs.tests, 1)
}

func TestListTestsUsesClampedLimit(t *testing.T) {
	fs := &fakeStore{}
	svc := NewService(fs)

	_, err := svc.ListTests(context.Background(), "p-1", 500)
	require.NoError(t, err)
	assert.Equal(t, 100, fs.lastLimit)

	_, err = svc.ListTests(context.Background(), "p-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 20, fs.lastLimit)
}
