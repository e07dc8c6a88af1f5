package cache

import (
	"context"
	"sync"
	"time"

	"github.com/amirasaad/cinema/pkg/cache"
)

// MemoryTokenDenylist implements cache.TokenDenylist in process memory.
// Entries are dropped lazily once their TTL has passed.
type MemoryTokenDenylist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryTokenDenylist creates an empty in-memory denylist.
func NewMemoryTokenDenylist() *MemoryTokenDenylist {
	return &MemoryTokenDenylist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke implements cache.TokenDenylist.
func (m *MemoryTokenDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl < 0 {
		return nil
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[jti] = expiresAt
	m.mu.Unlock()
	return nil
}

// IsRevoked implements cache.TokenDenylist.
func (m *MemoryTokenDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.RLock()
	expiresAt, ok := m.entries[jti]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if !expiresAt.IsZero() && m.now().After(expiresAt) {
		m.mu.Lock()
		delete(m.entries, jti)
		m.mu.Unlock()
		return false, nil
	}
	return true, nil
}

var _ cache.TokenDenylist = (*MemoryTokenDenylist)(nil)
