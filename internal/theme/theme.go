// Package theme holds the light/dark display preference.
package theme

import (
	"context"
	"errors"
	"sync"

	"github.com/petshop/storefront/internal/storage"
)

// themeKey is the storage key owned by the theme store.
const themeKey = "theme_preference"

// Theme is a display preference.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Store persists the active theme.
type Store struct {
	store storage.Store

	mu      sync.Mutex
	current Theme
}

// NewStore creates a theme store defaulting to light.
func NewStore(store storage.Store) *Store {
	return &Store{store: store, current: Light}
}

// Load restores the persisted preference. Anything but "light" or "dark"
// leaves the default in place.
func (s *Store) Load(ctx context.Context) error {
	var saved Theme
	err := s.store.Get(ctx, themeKey, &saved)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return s.store.Remove(ctx, themeKey)
	}
	if saved != Light && saved != Dark {
		return nil
	}

	s.mu.Lock()
	s.current = saved
	s.mu.Unlock()
	return nil
}

// Set activates and persists the given theme.
func (s *Store) Set(ctx context.Context, t Theme) error {
	if t != Light && t != Dark {
		t = Light
	}
	s.mu.Lock()
	s.current = t
	s.mu.Unlock()
	return s.store.Set(ctx, themeKey, t)
}

// Toggle flips between light and dark.
func (s *Store) Toggle(ctx context.Context) error {
	s.mu.Lock()
	next := Light
	if s.current == Light {
		next = Dark
	}
	s.mu.Unlock()
	return s.Set(ctx, next)
}

// Current returns the active theme.
func (s *Store) Current() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// IsDark reports whether the dark theme is active.
func (s *Store) IsDark() bool { return s.Current() == Dark }
