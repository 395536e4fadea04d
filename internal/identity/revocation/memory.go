// Package revocation provides the session-credential revocation lists
// consulted during verification. The in-memory list serves tests and
// single-instance development; the Redis list is the production
// implementation shared across instances.
package revocation

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-memory revocation list. Entries expire lazily on read.
type Memory struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *Memory) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = m.now().Add(ttl)
	return nil
}

func (m *Memory) IsRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	m.mu.RLock()
	until, ok := m.revoked[jti]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if m.now().After(until) {
		m.mu.Lock()
		delete(m.revoked, jti)
		m.mu.Unlock()
		return false, nil
	}
	return true, nil
}
