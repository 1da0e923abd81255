// Package auth keeps CLI session tokens in the OS keychain/credential
// manager, one slot per API URL.
package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/manas-foundation/manas-admin/internal/session"
)

const (
	service = "manas-admin-cli"
)

// ErrNotAuthenticated is returned by LoadToken when no token is stored
var ErrNotAuthenticated = errors.New("not authenticated. Please run 'manas-admin login' first")

// TokenStore defines the interface for token storage operations
// This allows us to mock the keyring in tests
type TokenStore interface {
	SaveToken(apiURL, token string) error
	LoadToken(apiURL string) (string, error)
	DeleteToken(apiURL string) error
}

// keyringTokenStore implements TokenStore using the OS keyring
type keyringTokenStore struct{}

var Default TokenStore = &keyringTokenStore{}

// getKeyringKey returns a unique key for storing JWT tokens per API
func getKeyringKey(apiURL string) string {
	return fmt.Sprintf("jwt-%s", apiURL)
}

// SaveToken persists the JWT token securely in the OS keychain/credential manager
func (k *keyringTokenStore) SaveToken(apiURL, token string) error {
	if err := keyring.Set(service, getKeyringKey(apiURL), token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// LoadToken retrieves the JWT token from the OS keychain/credential manager
func (k *keyringTokenStore) LoadToken(apiURL string) (string, error) {
	token, err := keyring.Get(service, getKeyringKey(apiURL))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotAuthenticated
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

// DeleteToken removes the JWT token from the OS keychain/credential manager
func (k *keyringTokenStore) DeleteToken(apiURL string) error {
	if err := keyring.Delete(service, getKeyringKey(apiURL)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// KeyringStore binds one API URL's slot of a TokenStore to the
// session.CredentialStore interface so the gate can read and clear it
type KeyringStore struct {
	tokens TokenStore
	apiURL string
}

// NewKeyringStore returns the credential slot for apiURL
func NewKeyringStore(tokens TokenStore, apiURL string) *KeyringStore {
	if tokens == nil {
		tokens = Default
	}
	return &KeyringStore{tokens: tokens, apiURL: apiURL}
}

func (s *KeyringStore) Read() (string, error) {
	token, err := s.tokens.LoadToken(s.apiURL)
	if err != nil {
		if errors.Is(err, ErrNotAuthenticated) {
			return "", session.ErrNoToken
		}
		return "", err
	}
	if token == "" {
		return "", session.ErrNoToken
	}
	return token, nil
}

func (s *KeyringStore) Write(token string) error {
	return s.tokens.SaveToken(s.apiURL, token)
}

func (s *KeyringStore) Clear() error {
	return s.tokens.DeleteToken(s.apiURL)
}
