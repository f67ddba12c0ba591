// package session persists the delegated user token between runs.
//
// The cache is a single JSON file holding an [oauth2.Token]; a missing file
// simply means no session yet.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

const (
	configDirName = "timewarp"
	tokenFileName = "session.json"
)

// Cache handles persistent storage of the delegated OAuth token.
type Cache struct {
	path string
}

// DefaultCache returns a Cache at ~/.config/timewarp/session.json.
func DefaultCache() (*Cache, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return &Cache{path: filepath.Join(configDir, configDirName, tokenFileName)}, nil
}

// NewCache creates a Cache with a custom path.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Path returns the file path where the session is stored.
func (c *Cache) Path() string {
	return c.path
}

// Load reads the cached token from disk.
//
// Returns (nil, nil) if no session file exists.
func (c *Cache) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	return &token, nil
}

// Save writes the token to disk, creating the parent directory if needed.
func (c *Cache) Save(token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("cannot save nil token")
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Clear removes the session file. Returns nil if the file does not exist.
func (c *Cache) Clear() error {
	err := os.Remove(c.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
