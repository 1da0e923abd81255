// Package allowlist caches the authorization directory between gate
// evaluations. A cache entry only ever comes from a successful fetch.
package allowlist

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Memory is a process-local cache with a fixed time to live
type Memory struct {
	mu        sync.RWMutex
	ttl       time.Duration
	now       func() time.Time
	emails    []string
	expiresAt time.Time
}

// NewMemory creates an in-process cache
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now}
}

func (m *Memory) Get(_ context.Context) ([]string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.emails == nil || !m.now().Before(m.expiresAt) {
		return nil, false
	}
	return slices.Clone(m.emails), true
}

func (m *Memory) Set(_ context.Context, emails []string) {
	if m.ttl <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.emails = slices.Clone(emails)
	if m.emails == nil {
		m.emails = []string{}
	}
	m.expiresAt = m.now().Add(m.ttl)
}

func (m *Memory) Invalidate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.emails = nil
	m.expiresAt = time.Time{}
	return nil
}
