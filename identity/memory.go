package identity

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps accounts in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	bySubject map[string]*Record
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bySubject: make(map[string]*Record)}
}

// Put inserts or replaces rec.
func (m *MemoryStore) Put(rec Record) error {
	if err := validateRecord(rec); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := rec
	m.bySubject[rec.Subject] = &cp
	return nil
}

// Seed inserts rec unless the subject or alias is already taken.
func (m *MemoryStore) Seed(_ context.Context, rec Record) (bool, error) {
	if err := validateRecord(rec); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.bySubject[rec.Subject]; ok {
		return false, nil
	}
	if rec.Alias != "" && m.findAliasLocked(rec.Alias) != nil {
		return false, ErrDuplicate
	}
	cp := rec
	m.bySubject[rec.Subject] = &cp
	return true, nil
}

// SetActive flips the activation flag of subject.
func (m *MemoryStore) SetActive(subject string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.bySubject[subject]
	if !ok {
		return ErrNotFound
	}
	rec.Active = active
	return nil
}

func (m *MemoryStore) FindBySubject(_ context.Context, subject string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.bySubject[subject]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (m *MemoryStore) FindBySubjectOrAlias(_ context.Context, identifier string) (*Record, error) {
	if identifier == "" {
		return nil, ErrNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rec, ok := m.bySubject[identifier]; ok {
		return cloneRecord(rec), nil
	}
	if rec := m.findAliasLocked(identifier); rec != nil {
		return cloneRecord(rec), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) UpdateLastLogin(_ context.Context, subject string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.bySubject[subject]
	if !ok {
		return ErrNotFound
	}
	t := at.UTC()
	rec.LastLogin = &t
	return nil
}

func (m *MemoryStore) findAliasLocked(alias string) *Record {
	for _, rec := range m.bySubject {
		if rec.Alias != "" && strings.EqualFold(rec.Alias, alias) {
			return rec
		}
	}
	return nil
}

func cloneRecord(rec *Record) *Record {
	cp := *rec
	if rec.LastLogin != nil {
		t := *rec.LastLogin
		cp.LastLogin = &t
	}
	return &cp
}
