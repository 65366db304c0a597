// Package auth stores OAuth tokens on disk and provides access tokens
// with automatic refresh for Google API calls.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
)

// TokenStore persists a single OAuth token as JSON in the config
// directory. The file is 0600: it holds a live refresh token.
type TokenStore struct {
	filePath string
}

// NewTokenStore creates a token store. An empty configDir defaults to
// ~/.google-gmail-tool.
func NewTokenStore(configDir string) (*TokenStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".google-gmail-tool")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &TokenStore{filePath: filepath.Join(configDir, "token.json")}, nil
}

// Load reads the stored token. Returns ErrAuthRequired when no token
// has been saved yet.
func (s *TokenStore) Load() (*domain.OAuthToken, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrAuthRequired
		}
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var token domain.OAuthToken
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parse token file: %w", err)
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, domain.ErrAuthRequired
	}
	return &token, nil
}

// Save writes the token to disk.
func (s *TokenStore) Save(token *domain.OAuthToken) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an absent token is not an
// error.
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// Path returns the token file path.
func (s *TokenStore) Path() string {
	return s.filePath
}
