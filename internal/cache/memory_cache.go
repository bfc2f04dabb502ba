package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// entry is immutable once stored; Set swaps in a new pointer instead of mutating.
type entry struct {
	value    any
	storedAt time.Time
}

// Manager is a process-local key/value cache with lazy TTL expiry.
// Keys are independent: there is no lock spanning more than one key.
type Manager struct {
	entries    sync.Map
	size       atomic.Int64
	defaultTTL time.Duration
	now        func() time.Time
}

// New builds a cache whose Get uses defaultTTL unless the caller overrides it.
func New(defaultTTL time.Duration) *Manager {
	return &Manager{defaultTTL: defaultTTL, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	if now != nil {
		m.now = now
	}
	return m
}

// DefaultTTL reports the TTL applied when Get receives no override.
func (m *Manager) DefaultTTL() time.Duration {
	return m.defaultTTL
}

// Get returns the value stored under key if it is no older than ttl.
// A ttl <= 0 uses the default. Expired entries are removed and reported absent.
func (m *Manager) Get(key string, ttl time.Duration) (any, bool) {
	raw, ok := m.entries.Load(key)
	if !ok {
		return nil, false
	}
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	e := raw.(*entry)
	if m.now().Sub(e.storedAt) > ttl {
		// Only the entry we judged stale is removed; a concurrent Set survives.
		if m.entries.CompareAndDelete(key, e) {
			m.size.Add(-1)
		}
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, replacing any previous entry wholesale.
func (m *Manager) Set(key string, value any) {
	if _, loaded := m.entries.Swap(key, &entry{value: value, storedAt: m.now()}); !loaded {
		m.size.Add(1)
	}
}

// Invalidate drops key. It reports whether an entry was present.
func (m *Manager) Invalidate(key string) bool {
	if _, loaded := m.entries.LoadAndDelete(key); loaded {
		m.size.Add(-1)
		return true
	}
	return false
}

// Clear drops every entry and returns how many were removed.
func (m *Manager) Clear() int {
	removed := 0
	m.entries.Range(func(key, _ any) bool {
		if _, loaded := m.entries.LoadAndDelete(key); loaded {
			m.size.Add(-1)
			removed++
		}
		return true
	})
	return removed
}

// Len is the number of stored entries, expired or not.
func (m *Manager) Len() int {
	return int(m.size.Load())
}
