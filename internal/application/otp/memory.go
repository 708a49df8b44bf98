package otp

import (
	"context"
	"fmt"
	"sync"

	"github.com/otp-auth-api/internal/domain"
)

// MemoryStore is a process-local Store for development and tests.
// Expired records are left in place; Verify treats them as absent and purges them.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]domain.OTPRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]domain.OTPRecord)}
}

func (m *MemoryStore) Upsert(_ context.Context, rec *domain.OTPRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.Identifier] = *rec
	return nil
}

func (m *MemoryStore) Get(_ context.Context, identifier string) (*domain.OTPRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[identifier]
	if !ok {
		return nil, fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	return &rec, nil
}

func (m *MemoryStore) DeleteIfMatch(_ context.Context, rec *domain.OTPRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.records[rec.Identifier]
	if !ok || cur != *rec {
		return false, nil
	}
	delete(m.records, rec.Identifier)
	return true, nil
}

// Len reports how many records are held, live or expired.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
