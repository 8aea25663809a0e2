package provider

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	settings map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{settings: map[string]string{}}
}

func (f *fakeStore) GetSetting(_ context.Context, key, fallback string) (string, error) {
	if v := f.settings[key]; v != "" {
		return v, nil
	}
	return fallback, nil
}

func (f *fakeStore) SetSetting(_ context.Context, key, value string) error {
	f.settings[key] = value
	return nil
}

func (f *fakeStore) SettingsMap(_ context.Context) (map[string]string, error) {
	out := make(map[string]string, len(f.settings))
	for k, v := range f.settings {
		out[k] = v
	}
	return out, nil
}

func storeWithProviders(t *testing.T, providers []Provider) *fakeStore {
	t.Helper()
	payload, err := json.Marshal(providers)
	require.NoError(t, err)
	f := newFakeStore()
	f.settings[settingsKey] = string(payload)
	return f
}

func TestListDropsIncompleteEntries(t *testing.T) {
	f := storeWithProviders(t, []Provider{
		{ID: "p1", Name: "good", APIKey: "sk-1", Model: "gpt-4o-mini"},
		{ID: "p2", Name: "no key", Model: "gpt-4o"},
		{ID: "", Name: "no id", APIKey: "sk-2", Model: "gpt-4o"},
	})

	providers, err := NewService(f, nil, LegacyConfig{}).List(context.Background())
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, "p1", providers[0].ID)
	assert.Equal(t, "custom", providers[0].Provider)
}

func TestListFallsBackToLegacyConfig(t *testing.T) {
	f := newFakeStore()
	f.settings["llm_model"] = "qwen-plus"

	legacy := LegacyConfig{APIKey: "sk-env", Model: "qwen-turbo", APIURL: "https://example.com/v1"}
	providers, err := NewService(f, nil, legacy).List(context.Background())
	require.NoError(t, err)

	require.Len(t, providers, 1)
	p := providers[0]
	assert.Equal(t, "legacy-default", p.ID)
	assert.True(t, p.IsDefault)
	assert.Equal(t, "sk-env", p.APIKey)
	// Settings values win over env values.
	assert.Equal(t, "qwen-plus", p.Model)
	assert.Equal(t, "https://example.com/v1", p.APIURL)
}

func TestListEmptyWithoutAnyKey(t *testing.T) {
	providers, err := NewService(newFakeStore(), nil, LegacyConfig{}).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, providers)
}

func TestSaveNormalizesDefaults(t *testing.T) {
	f := newFakeStore()
	svc := NewService(f, nil, LegacyConfig{})

	err := svc.Save(context.Background(), []Provider{
		{ID: "a", Name: "A", APIKey: "k", Model: "m", IsDefault: true},
		{ID: "b", Name: "B", APIKey: "k", Model: "m", IsDefault: true},
	})
	require.NoError(t, err)

	var saved []Provider
	require.NoError(t, json.Unmarshal([]byte(f.settings[settingsKey]), &saved))
	assert.True(t, saved[0].IsDefault)
	assert.False(t, saved[1].IsDefault)
}

func TestSavePromotesFirstWhenNoDefault(t *testing.T) {
	f := newFakeStore()
	err := NewService(f, nil, LegacyConfig{}).Save(context.Background(), []Provider{
		{ID: "a", Name: "A", APIKey: "k", Model: "m"},
		{ID: "b", Name: "B", APIKey: "k", Model: "m"},
	})
	require.NoError(t, err)

	var saved []Provider
	require.NoError(t, json.Unmarshal([]byte(f.settings[settingsKey]), &saved))
	assert.True(t, saved[0].IsDefault)
	assert.False(t, saved[1].IsDefault)
}

func TestResolve(t *testing.T) {
	f := storeWithProviders(t, []Provider{
		{ID: "a", Name: "A", APIKey: "k", Model: "m"},
		{ID: "b", Name: "B", APIKey: "k", Model: "m", IsDefault: true},
	})
	svc := NewService(f, nil, LegacyConfig{})
	ctx := context.Background()

	byID, err := svc.Resolve(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", byID.ID)

	def, err := svc.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "b", def.ID)

	_, err = svc.Resolve(ctx, "nope")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestResolveFirstWhenNoDefaultFlag(t *testing.T) {
	f := storeWithProviders(t, []Provider{
		{ID: "a", Name: "A", APIKey: "k", Model: "m"},
		{ID: "b", Name: "B", APIKey: "k", Model: "m"},
	})
	p, err := NewService(f, nil, LegacyConfig{}).Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "a", p.ID)
}

func TestResolveNoProviders(t *testing.T) {
	_, err := NewService(newFakeStore(), nil, LegacyConfig{}).Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoProvider)
}
