package lock

import (
	"context"
	"sync"
	"time"
)

// MemoryLock is a single-process Locker for tests and single-node runs.
// Leases expire lazily: an expired key is treated as free on the next Lock.
type MemoryLock struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

func NewMemoryLock() *MemoryLock {
	return &MemoryLock{held: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryLock) Lock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if expiry, ok := m.held[key]; ok && m.now().Before(expiry) {
		return false, nil
	}

	m.held[key] = m.now().Add(ttl)
	return true, nil
}

func (m *MemoryLock) Unlock(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.held, key)
	return nil
}
