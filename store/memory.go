package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type memEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryStore is an in-process [Store] with lazy expiry. It suits tests and
// single-process deployments; it is never Unavailable.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

// NewMemoryStore returns an empty store. now may be nil.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{entries: make(map[string]memEntry), now: now}
}

// live returns the entry for key, evicting it if expired. Caller holds mu.
func (m *MemoryStore) live(key string, now time.Time) (memEntry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return memEntry{}, false
	}
	if e.expired(now) {
		delete(m.entries, key)
		return memEntry{}, false
	}
	return e, true
}

// Put stores a copy of value. A non-positive ttl never expires.
func (m *MemoryStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = e
	return Found
}

// Get returns a copy of the live value under key.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, Status) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key, m.now())
	if !ok {
		return nil, Absent
	}
	return append([]byte(nil), e.value...), Found
}

// Replace overwrites a live key and keeps its expiry.
func (m *MemoryStore) Replace(_ context.Context, key string, value []byte) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key, m.now())
	if !ok {
		return Absent
	}
	e.value = append([]byte(nil), value...)
	m.entries[key] = e
	return Found
}

// Delete removes key.
func (m *MemoryStore) Delete(_ context.Context, key string) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.live(key, m.now()); !ok {
		return Absent
	}
	delete(m.entries, key)
	return Found
}

// TTL reports the remaining lifetime of key.
func (m *MemoryStore) TTL(_ context.Context, key string) (time.Duration, Status) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.live(key, now)
	if !ok {
		return Missing, Absent
	}
	if e.expiresAt.IsZero() {
		return NoExpiry, Found
	}
	return e.expiresAt.Sub(now), Found
}

// Extend pushes the expiry of a live key out by extra.
func (m *MemoryStore) Extend(_ context.Context, key string, extra time.Duration) Status {
	if extra <= 0 {
		return Absent
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key, m.now())
	if !ok || e.expiresAt.IsZero() {
		return Absent
	}
	e.expiresAt = e.expiresAt.Add(extra)
	m.entries[key] = e
	return Found
}

// Keys lists live keys starting with prefix.
func (m *MemoryStore) Keys(_ context.Context, prefix string) ([]string, Status) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	keys := make([]string, 0)
	for k := range m.entries {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if _, ok := m.live(k, now); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, Found
}

// DeleteMatching removes every live key starting with prefix.
func (m *MemoryStore) DeleteMatching(_ context.Context, prefix string) (int, Status) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for k := range m.entries {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if _, ok := m.live(k, now); ok {
			delete(m.entries, k)
			removed++
		}
	}
	return removed, Found
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error {
	return nil
}
