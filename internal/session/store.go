package session

import (
	"errors"
	"sync"
)

// ErrNoToken is returned by CredentialStore.Read when the slot is empty
var ErrNoToken = errors.New("no session token stored")

// CredentialStore holds the current session token. Read, Write and Clear
// are the only operations the gate and the REST collaborator use.
type CredentialStore interface {
	Read() (string, error)
	Write(token string) error
	Clear() error
}

// MemoryStore is an in-process CredentialStore
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore returns a store holding token (empty means absent)
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (s *MemoryStore) Read() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

func (s *MemoryStore) Write(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
