// internal/apps/store.go
package apps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/user/chatstream/internal/types"
)

var ErrNotFound = errors.New("app not found")

// Store is a JSON-file-backed application configuration store. It keeps
// the stored backend applications in apps.json under the data directory.
type Store struct {
	root string
	mu   sync.RWMutex
}

// NewStore creates a file-backed Store rooted at the given directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

func (s *Store) path() string {
	return filepath.Join(s.root, "apps.json")
}

// load reads apps.json. A missing file is an empty store.
func (s *Store) load() ([]*types.AppConfig, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read app store: %w", err)
	}
	var list []*types.AppConfig
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("unmarshal app store: %w", err)
	}
	return list, nil
}

// save marshals with indentation and writes atomically (temp file + rename).
func (s *Store) save(list []*types.AppConfig) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal app store: %w", err)
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp app store: %w", err)
	}
	if err := os.Rename(tmp, s.path()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp app store: %w", err)
	}
	return nil
}

// List returns all stored apps in insertion order.
func (s *Store) List(_ context.Context) ([]*types.AppConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

// Get returns the app with the given id.
func (s *Store) Get(_ context.Context, id types.AppID) (*types.AppConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, app := range list {
		if app.ID == id {
			return app, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// GetByName returns the app with the given name.
func (s *Store) GetByName(_ context.Context, name string) (*types.AppConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, app := range list {
		if app.Name == name {
			return app, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Add stores a new app. The id is assigned here when empty; names must be
// unique.
func (s *Store) Add(_ context.Context, app *types.AppConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load()
	if err != nil {
		return err
	}
	for _, existing := range list {
		if existing.Name == app.Name {
			return fmt.Errorf("app name already in use: %s", app.Name)
		}
	}
	if app.ID == "" {
		app.ID = types.NewAppID()
	}
	now := time.Now()
	app.CreatedAt = now
	app.UpdatedAt = now
	return s.save(append(list, app))
}

// Update persists changes to an existing app, setting UpdatedAt to now.
func (s *Store) Update(_ context.Context, app *types.AppConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load()
	if err != nil {
		return err
	}
	for i, existing := range list {
		if existing.ID == app.ID {
			app.CreatedAt = existing.CreatedAt
			app.UpdatedAt = time.Now()
			list[i] = app
			return s.save(list)
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, app.ID)
}

// Delete removes the app with the given id.
func (s *Store) Delete(_ context.Context, id types.AppID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load()
	if err != nil {
		return err
	}
	for i, existing := range list {
		if existing.ID == id {
			return s.save(append(list[:i], list[i+1:]...))
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
