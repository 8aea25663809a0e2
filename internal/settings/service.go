// Package settings exposes the freeform key-value store. Values are
// plain strings; callers serialize anything richer themselves.
package settings

import (
	"context"
	"fmt"
)

type Store interface {
	GetSetting(ctx context.Context, key, fallback string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	SettingsMap(ctx context.Context) (map[string]string, error)
}

type Service struct {
	store Store
}

func NewService(s Store) *Service {
	return &Service{store: s}
}

func (s *Service) Get(ctx context.Context, key, fallback string) (string, error) {
	return s.store.GetSetting(ctx, key, fallback)
}

func (s *Service) Map(ctx context.Context) (map[string]string, error) {
	return s.store.SettingsMap(ctx)
}

// SetAll upserts every pair in the payload.
func (s *Service) SetAll(ctx context.Context, values map[string]string) error {
	for key, value := range values {
		if err := s.store.SetSetting(ctx, key, value); err != nil {
			return fmt.Errorf("set %q: %w", key, err)
		}
	}
	return nil
}
