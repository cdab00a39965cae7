// Package tokenfile persists the token pair as a single JSON document on
// disk, the client-process equivalent of the browser's localStorage keys.
package tokenfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

type Store struct {
	mu   sync.Mutex
	path string
}

type payload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func New(path string) *Store {
	return &Store{path: path}
}

// Save writes the pair atomically: marshal to a temp file in the same
// directory, then rename, so a crash never leaves a torn token file.
func (s *Store) Save(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(payload{AccessToken: access, RefreshToken: refresh})
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod token file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close token file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename token file: %w", err)
	}
	return nil
}

func (s *Store) Load() (string, string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, fmt.Errorf("read token file: %w", err)
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		// A corrupt file is treated as absent rather than wedging startup.
		return "", "", false, fmt.Errorf("parse token file: %w", err)
	}
	if p.AccessToken == "" {
		return "", "", false, nil
	}
	return p.AccessToken, p.RefreshToken, true, nil
}

// Clear removes the file. Missing is fine: clearing twice is safe.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
