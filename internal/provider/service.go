// Package provider manages the OpenAI-compatible provider
// configurations. The full list is persisted as one JSON blob under
// the "llm_providers" settings key; a legacy single-provider config
// from env/settings keys is honored when no list exists yet.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/promptvault/promptvault/internal/cache"
)

const (
	settingsKey = "llm_providers"
	cacheKey    = "promptvault:llm_providers"
	cacheTTL    = 5 * time.Minute
)

var (
	ErrNoProvider      = errors.New("no LLM provider configured")
	ErrUnknownProvider = errors.New("invalid provider id")
)

// Provider is one OpenAI-compatible endpoint configuration.
// InputPrice/OutputPrice are USD per 1K tokens; zero means unknown.
type Provider struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Provider     string  `json:"provider"`
	APIKey       string  `json:"api_key"`
	APIURL       string  `json:"api_url,omitempty"`
	Model        string  `json:"model"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
	IsDefault    bool    `json:"is_default"`
	InputPrice   float64 `json:"input_price,omitempty"`
	OutputPrice  float64 `json:"output_price,omitempty"`
}

type Store interface {
	GetSetting(ctx context.Context, key, fallback string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	SettingsMap(ctx context.Context) (map[string]string, error)
}

// LegacyConfig carries the env-level fallback for installs that
// predate the serialized provider list.
type LegacyConfig struct {
	APIKey       string
	APIURL       string
	Model        string
	SystemPrompt string
}

type Service struct {
	store  Store
	cache  *cache.Cache // nil when redis is absent
	legacy LegacyConfig
}

func NewService(store Store, c *cache.Cache, legacy LegacyConfig) *Service {
	return &Service{store: store, cache: c, legacy: legacy}
}

// List returns all configured providers. Entries missing a required
// field are dropped rather than failing the whole list. When the list
// is empty, a legacy single-provider config assembled from settings
// and env is returned if an API key is available.
func (s *Service) List(ctx context.Context) ([]Provider, error) {
	if s.cache != nil {
		var cached []Provider
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	providers, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(providers) > 0 {
		_ = s.cache.Set(ctx, cacheKey, providers, cacheTTL)
	}
	return providers, nil
}

func (s *Service) load(ctx context.Context) ([]Provider, error) {
	raw, err := s.store.GetSetting(ctx, settingsKey, "")
	if err != nil {
		return nil, err
	}

	var providers []Provider
	if raw != "" {
		var items []Provider
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			for _, item := range items {
				if item.ID == "" || item.Name == "" || item.APIKey == "" || item.Model == "" {
					continue
				}
				if item.Provider == "" {
					item.Provider = "custom"
				}
				providers = append(providers, item)
			}
		}
	}
	if len(providers) > 0 {
		return providers, nil
	}

	return s.legacyProvider(ctx)
}

// legacyProvider assembles the pre-list fallback, settings values
// winning over env values.
func (s *Service) legacyProvider(ctx context.Context) ([]Provider, error) {
	settings, err := s.store.SettingsMap(ctx)
	if err != nil {
		return nil, err
	}

	pick := func(key, fallback string) string {
		if v := settings[key]; v != "" {
			return v
		}
		return fallback
	}

	apiKey := pick("llm_api_key", s.legacy.APIKey)
	if apiKey == "" {
		return []Provider{}, nil
	}

	return []Provider{{
		ID:           "legacy-default",
		Name:         pick("llm_display_name", "Default model"),
		Provider:     "custom",
		APIKey:       apiKey,
		APIURL:       pick("llm_api_url", s.legacy.APIURL),
		Model:        pick("llm_model", s.legacy.Model),
		SystemPrompt: pick("llm_system_prompt", s.legacy.SystemPrompt),
		IsDefault:    true,
	}}, nil
}

// Save persists the collection as a single settings value, after
// normalizing so that exactly one entry is the default.
func (s *Service) Save(ctx context.Context, providers []Provider) error {
	providers = normalizeDefaults(providers)

	payload, err := json.Marshal(providers)
	if err != nil {
		return fmt.Errorf("marshal providers: %w", err)
	}
	if err := s.store.SetSetting(ctx, settingsKey, string(payload)); err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, cacheKey)
	}
	return nil
}

// Resolve picks the provider for a request: by id when given, else the
// default, else the first configured one.
func (s *Service) Resolve(ctx context.Context, providerID string) (*Provider, error) {
	providers, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(providers) == 0 {
		return nil, ErrNoProvider
	}

	if providerID != "" {
		for i := range providers {
			if providers[i].ID == providerID {
				return &providers[i], nil
			}
		}
		return nil, ErrUnknownProvider
	}

	for i := range providers {
		if providers[i].IsDefault {
			return &providers[i], nil
		}
	}
	return &providers[0], nil
}

func normalizeDefaults(providers []Provider) []Provider {
	if len(providers) == 0 {
		return providers
	}

	seen := false
	for i := range providers {
		if !providers[i].IsDefault {
			continue
		}
		if seen {
			providers[i].IsDefault = false
			continue
		}
		seen = true
	}
	if !seen {
		providers[0].IsDefault = true
	}
	return providers
}
