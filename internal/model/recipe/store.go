package recipe

import (
	"context"
	"sync"
)

// Store is the persistent catalog. Put upserts by ID, Delete is idempotent and
// ScanAll returns every record in no particular order.
type Store interface {
	Put(ctx context.Context, record Record) error
	Delete(ctx context.Context, id string) error
	ScanAll(ctx context.Context) ([]Record, error)
}

// MemoryStore implements Store with an in-memory map, suitable for local runs.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Record
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied records.
func NewMemoryStore(items []Record) *MemoryStore {
	s := &MemoryStore{items: make(map[string]Record, len(items))}
	for _, item := range items {
		s.items[item.ID] = item
	}
	return s
}

// Put stores record, replacing any record with the same ID.
func (s *MemoryStore) Put(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[record.ID] = record
	return nil
}

// Delete removes the record; deleting a missing id is a no-op.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

// ScanAll returns a copy of every stored record.
func (s *MemoryStore) ScanAll(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	return out, nil
}
