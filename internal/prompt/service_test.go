package prompt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptvault/promptvault/internal/models"
	"github.com/promptvault/promptvault/internal/store"
)

func seededStore() *fakeStore {
	fs := newFakeStore()
	now := time.Now().UTC()
	fs.projects["proj-1"] = models.Project{ID: "proj-1", Name: "Demo", CreatedAt: now, UpdatedAt: now}
	fs.categories["general"] = true
	fs.tags["tag-1"] = models.Tag{ID: "tag-1", Name: "draft", Color: "#3b82f6", CreatedAt: now}
	fs.tags["tag-2"] = models.Tag{ID: "tag-2", Name: "live", Color: "#3b82f6", CreatedAt: now}
	return fs
}

func TestCreateFirstRevision(t *testing.T) {
	fs := seededStore()
	svc := NewService(fs)
	ctx := context.Background()

	p, err := svc.Create(ctx, "proj-1", CreateRequest{
		Name:     "greeting",
		Content:  "hello",
		Category: "general",
		TagIDs:   []string{"tag-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", p.Version)
	assert.Equal(t, "greeting", p.Name)
	assert.Equal(t, []string{"tag-1"}, p.TagIDs)

	require.Len(t, fs.histories, 1)
	h := fs.histories[0]
	assert.Equal(t, OperationCreate, h.Operation)
	assert.Equal(t, p.ID, h.PromptID)
	assert.Equal(t, "", h.OldContent)
	assert.Equal(t, "hello", h.NewContent)
}

func TestCreateAgainstExistingLineageBumpsPatch(t *testing.T) {
	fs := seededStore()
	svc := NewService(fs)
	ctx := context.Background()

	_, err := svc.Create(ctx, "proj-1", CreateRequest{Name: "greeting", Content: "v1", Category: "general"})
	require.NoError(t, err)

	p, err := svc.Create(ctx, "proj-1", CreateRequest{Name: "greeting", Content: "v2", Category: "general"})
	require.NoError(t, err)
	assert.Equal(t, "1.0.1", p.Version)
}

func TestCreateValidation(t *testing.T) {
	fs := seededStore()
	svc := NewService(fs)
	ctx := context.Background()

	_, err := svc.Create(ctx, "missing", CreateRequest{Name: "x", Content: "y", Category: "general"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.Create(ctx, "proj-1", CreateRequest{Name: "x", Content: "y"})
	assert.ErrorIs(t, err, ErrCategoryRequired)

	_, err = svc.Create(ctx, "proj-1", CreateRequest{Name: "x", Content: "y", Category: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = svc.Create(ctx, "proj-1", CreateRequest{Name: "x", Content: "y", Category: "general", TagIDs: []string{"tag-1", "ghost"}})
	assert.ErrorIs(t, err, ErrInvalidTagIDs)
	assert.Empty(t, fs.prompts, "validation failures must not write")
}

func TestUpdateContentForksNewRevision(t *testing.T) {
	fs := seededStore()
	svc := NewService(fs)
	ctx := context.Background()

	first, err := svc.Create(ctx, "proj-1", CreateRequest{Name: "greeting", Content: "hello", Category: "general", TagIDs: []string{"tag-1"}})
	require.NoError(t, err)

	content := "hello world"
	next, err := svc.Update(ctx, first.ID, UpdateRequest{Content: &content})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, next.ID)
	assert.Equal(t, "1.0.1", next.Version)
	assert.Equal(t, "hello world", next.Content)
	assert.Equal(t, first.TagIDs, next.TagIDs, "tags inherited when patch has none")
	assert.Len(t, fs.prompts, 2, "prior revision coexists untouched")

	prior, err := fs.GetPrompt(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", prior.Content)
	assert.Equal(t, "1.0.0", prior.Version)

	updates := historiesByOp(fs, OperationUpdate)
	require.Len(t, updates, 1)
	assert.Equal(t, next.ID, updates[0].PromptID)
	assert.Equal(t, "hello", updates[0].OldContent)
	assert.Equal(t, "hello world", updates[0].NewContent)
}

func TestUpdateHonorsBumpHint(t *testing.T) {
	fs := seededStore()
	svc := NewService(fs)
	ctx := context.Background()

	first, err := svc.Create(ctx, "proj-1", CreateRequest{Name: "greeting", Content: "hello", Category: "general"})
	require.NoError(t, err)

	content := "rewritten"
	next, err := svc.Update(ctx, first.ID, UpdateRequest{Content: &content, Bump: "minor"})
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", next.Version)

	content = "rewritten again"
	next, err = svc.Update(ctx, next.ID, UpdateRequest{Content: &content, Bump: "major"})
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", next.Version)
}

func TestUpdateMetadataOnlyMutatesInPlace(t *testing.T) {
	fs := seededStore()
	svc := NewService(fs)
	ctx := context.Background()

	first, err := svc.Create(ctx, "proj-1", CreateRequest{Name: "greeting", Content: "hello", Category: "general"})
	require.NoError(t, err)

	desc := "new description"
	updated, err := svc.Update(ctx, first.ID, UpdateRequest{Description: &desc})
	require.NoError(t, err)

	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, "1.0.0", updated.Version)
	assert.Equal(t, "new description", updated.Description)
	assert.Len(t, fs.prompts, 1, "no new revision")
	assert.Len(t, historiesByOp(fs, OperationUpdate), 0, "no audit record")
}

func TestUpdateUnchangedContentIsMetadataOnly(t *testing.T) {
	fs := seededStore()
	svc := NewService(fs)
	ctx := context.Background()

	first, err := svc.Create(ctx, "proj-1", CreateRequest{Name: "greeting", Content: "hello", Category: "general"})
	require.NoError(t, err)

	same := "hello"
	updated, err := svc.Update(ctx, first.ID, UpdateRequest{Content: &same})
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.Len(t, fs.prompts, 1)
}

func TestUpdateReplacesTagsWithoutMerging(t *testing.T) {
	fs := seededStore()
	svc := NewService(fs)
	ctx := context.Background()

	first, err := svc.Create(ctx, "proj-1", CreateRequest{Name: "greeting", Content: "hello", Category: "general", TagIDs: []string{"tag-1"}})
	require.NoError(t, err)

	content := "hello 2"
	tags := []string{"tag-2"}
	next, err := svc.Update(ctx, first.ID, UpdateRequest{Content: &content, TagIDs: &tags})
	require.NoError(t, err)
	assert.Equal(t, []string{"tag-2"}, next.TagIDs)
}

func TestCreateWithoutTagsStoresEmptySlice(t *testing.T) {
	fs := seededStore()
	svc := NewService(fs)
	ctx := context.Background()

	_, err := svc.Create(ctx, "proj-1", CreateRequest{Name: "greeting", Content: "hello", Category: "general"})
	require.NoError(t, err)

	require.Len(t, fs.prompts, 1)
	assert.NotNil(t, fs.prompts[0].TagIDs, "tag_ids column is NOT NULL")
	assert.Empty(t, fs.prompts[0].TagIDs)
}

func TestForkAndRollbackCoalesceNilTagsFromOlderRows(t *testing.T) {
	fs := seededStore()
	svc := NewService(fs)
	ctx := context.Background()

	// Rows written before tag_ids was always populated carry nil.
	fs.prompts = append(fs.prompts, models.Prompt{
		ID:        "legacy-1",
		ProjectID: "proj-1",
		Name:      "greeting",
		Version:   "1.0.0",
		Content:   "v1",
		Category:  "general",
		CreatedAt: time.Now().UTC(),
	})

	content := "v2"
	next, err := svc.Update(ctx, "legacy-1", UpdateRequest{Content: &content})
	require.NoError(t, err)
	assert.NotNil(t, next.TagIDs)
	assert.Empty(t, next.TagIDs)

	rolled, err := svc.Rollback(ctx, "legacy-1")
	require.NoError(t, err)
	assert.NotNil(t, rolled.TagIDs)
	assert.Empty(t, rolled.TagIDs)
}

func TestContentUpdateWithEmptyTagListInheritsExisting(t *testing.T) {
	fs := seededStore()
	svc := NewService(fs)
	ctx := context.Background()

	first, err := svc.Create(ctx, "proj-1", CreateRequest{Name: "greeting", Content: "hello", Category: "general", TagIDs: []string{"tag-1"}})
	require.NoError(t, err)

	content := "hello 2"
	empty := []string{}
	next, err := svc.Update(ctx, first.ID, UpdateRequest{Content: &content, TagIDs: &empty})
	require.NoError(t, err)
	assert.Equal(t, []string{"tag-1"}, next.TagIDs, "empty list on a fork keeps the prior tags")
}

func TestMetadataUpdateWithEmptyTagListClears(t *testing.T) {
	fs := seededStore()
	svc := NewService(fs)
	ctx := context.Background()

	first, err := svc.Create(ctx, "proj-1", CreateRequest{Name: "greeting", Content: "hello", Category: "general", TagIDs: []string{"tag-1"}})
	require.NoError(t, err)

	empty := []string{}
	updated, err := svc.Update(ctx, first.ID, UpdateRequest{TagIDs: &empty})
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.NotNil(t, updated.TagIDs)
	assert.Empty(t, updated.TagIDs)
}

func TestRollbackCopiesSourceContent(t *testing.T) {
	fs := seededStore()
	svc := NewService(fs)
	ctx := context.Background()

	first, err := svc.Create(ctx, "proj-1", CreateRequest{Name: "greeting", Content: "v1", Category: "general"})
	require.NoError(t, err)

	content := "v2"
	second, err := svc.Update(ctx, first.ID, UpdateRequest{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "1.0.1", second.Version)

	rolled, err := svc.Rollback(ctx, first.ID)
	require.NoError(t, err)

	assert.Equal(t, "v1", rolled.Content)
	assert.Equal(t, "1.0.2", rolled.Version, "patch past the latest revision, not the source")
	assert.Equal(t, "Rollback to version 1.0.0", rolled.Description)

	rollbacks := historiesByOp(fs, OperationRollback)
	require.Len(t, rollbacks, 1)
	assert.Equal(t, rolled.ID, rollbacks[0].PromptID)
	assert.Equal(t, "", rollbacks[0].OldContent)
	assert.Equal(t, "v1", rollbacks[0].NewContent)
}

func TestDeleteRemovesOnlyOwnHistory(t *testing.T) {
	fs := seededStore()
	svc := NewService(fs)
	ctx := context.Background()

	first, err := svc.Create(ctx, "proj-1", CreateRequest{Name: "greeting", Content: "v1", Category: "general"})
	require.NoError(t, err)
	content := "v2"
	second, err := svc.Update(ctx, first.ID, UpdateRequest{Content: &content})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, second.ID))

	assert.Len(t, fs.prompts, 1, "sibling revision untouched")
	assert.Equal(t, first.ID, fs.prompts[0].ID)
	require.Len(t, fs.histories, 1, "only the deleted revision's records go")
	assert.Equal(t, first.ID, fs.histories[0].PromptID)
}

func TestDiffBetweenRevisions(t *testing.T) {
	fs := seededStore()
	svc := NewService(fs)
	ctx := context.Background()

	first, err := svc.Create(ctx, "proj-1", CreateRequest{Name: "greeting", Content: "hello", Category: "general"})
	require.NoError(t, err)
	content := "hello world"
	second, err := svc.Update(ctx, first.ID, UpdateRequest{Content: &content})
	require.NoError(t, err)

	resp, err := svc.Diff(ctx, first.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", resp.SourceVersion)
	assert.Equal(t, "1.0.1", resp.TargetVersion)
	assert.Equal(t, 6, resp.Diff.Additions)
	assert.Equal(t, 0, resp.Diff.Deletions)
}

func TestListFiltersByTagName(t *testing.T) {
	fs := seededStore()
	svc := NewService(fs)
	ctx := context.Background()

	_, err := svc.Create(ctx, "proj-1", CreateRequest{Name: "a", Content: "x", Category: "general", TagIDs: []string{"tag-1"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "proj-1", CreateRequest{Name: "b", Content: "y", Category: "general"})
	require.NoError(t, err)

	got, err := svc.List(ctx, "proj-1", ListQuery{Tag: "draft"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Name)

	// unknown tag name yields an empty result, not an error
	got, err = svc.List(ctx, "proj-1", ListQuery{Tag: "ghost"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSDKContentReturnsNewestMatch(t *testing.T) {
	fs := seededStore()
	svc := NewService(fs)
	ctx := context.Background()

	first, err := svc.Create(ctx, "proj-1", CreateRequest{Name: "greeting", Content: "v1", Category: "general"})
	require.NoError(t, err)
	// keep ordering deterministic for the fake's recency sort
	fs.prompts[0].CreatedAt = fs.prompts[0].CreatedAt.Add(-time.Second)

	content := "v2"
	_, err = svc.Update(ctx, first.ID, UpdateRequest{Content: &content})
	require.NoError(t, err)

	got, err := svc.SDKContent(ctx, "proj-1", "greeting", "", "")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	got, err = svc.SDKContent(ctx, "proj-1", "greeting", "1.0.0", "")
	require.NoError(t, err)
	assert.Equal(t, "v1", got)

	_, err = svc.SDKContent(ctx, "proj-1", "missing", "", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSDKContentRequiresName(t *testing.T) {
	fs := seededStore()
	svc := NewService(fs)

	_, err := svc.SDKContent(context.Background(), "proj-1", "", "", "")
	assert.ErrorIs(t, err, ErrNameRequired)
}

func historiesByOp(fs *fakeStore, op string) []models.PromptHistory {
	var out []models.PromptHistory
	for _, h := range fs.histories {
		if h.Operation == op {
			out = append(out, h)
		}
	}
	return out
}
