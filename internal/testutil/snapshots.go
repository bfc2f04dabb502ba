package testutil

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemorySnapshots is an in-memory snapshots.Store with an injectable clock.
type MemorySnapshots struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	writes  int
	now     func() time.Time
}

// NewMemorySnapshots returns an empty store reading time from now.
func NewMemorySnapshots(now func() time.Time) *MemorySnapshots {
	if now == nil {
		now = time.Now
	}
	return &MemorySnapshots{entries: map[string]memoryEntry{}, now: now}
}

func (m *MemorySnapshots) SetWithExpiry(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	m.entries[key] = memoryEntry{value: append([]byte(nil), value...), expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemorySnapshots) GetWithExpiry(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok || m.now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.value, true, nil
}

// Writes reports how many SetWithExpiry calls were made.
func (m *MemorySnapshots) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
