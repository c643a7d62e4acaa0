package api

import (
	"os"
	"path/filepath"
)

// TokenStore persists the session token between CLI invocations.
type TokenStore struct {
	dir string
}

// NewTokenStore creates a store under the user config directory.
func NewTokenStore() (*TokenStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	p := filepath.Join(dir, "coursefolio")
	if err := os.MkdirAll(p, 0o700); err != nil {
		return nil, err
	}
	return &TokenStore{dir: p}, nil
}

// NewTokenStoreAt creates a store rooted at an explicit directory. Used by
// tests.
func NewTokenStoreAt(dir string) (*TokenStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &TokenStore{dir: dir}, nil
}

func (s *TokenStore) path() string {
	return filepath.Join(s.dir, "session_token")
}

// Save writes the token to disk.
func (s *TokenStore) Save(token string) error {
	return os.WriteFile(s.path(), []byte(token), 0o600)
}

// Load returns the stored token, or empty when none is saved.
func (s *TokenStore) Load() string {
	b, err := os.ReadFile(s.path())
	if err != nil {
		return ""
	}
	return string(b)
}

// Clear removes the stored token. Clearing a missing token is not an error.
func (s *TokenStore) Clear() error {
	err := os.Remove(s.path())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
