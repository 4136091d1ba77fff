package logstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/yanqian/cosmo-uplink/internal/domain/missionlog"
)

// MemoryStore keeps log entries in process memory for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]missionlog.Entry
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[uuid.UUID]missionlog.Entry)}
}

// Save implements missionlog.Store.
func (s *MemoryStore) Save(_ context.Context, entry missionlog.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.Minerals = append([]string(nil), entry.Minerals...)
	s.entries[entry.ID] = entry
	return nil
}

// Get implements missionlog.Store.
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (missionlog.Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	return entry, ok, nil
}

// Recent returns the newest entries first.
func (s *MemoryStore) Recent(_ context.Context, limit int) ([]missionlog.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]missionlog.Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		items = append(items, entry)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID.String() < items[j].ID.String()
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

var _ missionlog.Store = (*MemoryStore)(nil)
