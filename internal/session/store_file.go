package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists credentials as a JSON object of slots so a restart does
// not force re-authentication. A corrupt or partially written file reads as
// absent: the store removes it and the caller proceeds anonymous.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore constructs a file-backed credential store at path. The parent
// directory is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Save(_ context.Context, creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := s.load()
	for slot, value := range creds.slots() {
		slots[slot] = value
	}
	return s.write(slots)
}

func (s *FileStore) AccessToken(_ context.Context) (string, error) {
	return s.lookup(slotAccessToken)
}

func (s *FileStore) RefreshToken(_ context.Context) (string, error) {
	return s.lookup(slotRefreshToken)
}

func (s *FileStore) IdentityToken(_ context.Context) (string, error) {
	return s.lookup(slotIdentityToken)
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear credentials file: %w", err)
	}
	return nil
}

func (s *FileStore) Bootstrap(ctx context.Context) (string, error) {
	return s.AccessToken(ctx)
}

func (s *FileStore) lookup(slot string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := s.load()
	if value, ok := slots[slot]; ok && value != "" {
		return value, nil
	}
	return "", fmt.Errorf("%s: %w", slot, ErrNotFound)
}

// load reads the slot map from disk. Unreadable or malformed content is
// discarded so a damaged file can never wedge the client.
func (s *FileStore) load() map[string]string {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]string{}
	}
	var slots map[string]string
	if err := json.Unmarshal(raw, &slots); err != nil || slots == nil {
		os.Remove(s.path)
		return map[string]string{}
	}
	return slots
}

// write replaces the file atomically so readers never observe a partial write.
func (s *FileStore) write(slots map[string]string) error {
	raw, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write credentials file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace credentials file: %w", err)
	}
	return nil
}
