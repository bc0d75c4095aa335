package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used when no database is
// configured, and in tests. Semantics mirror PostgresStore: Get counts
// a hit, Save upserts.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

// NewMemoryStore creates an empty in-memory cache.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*Entry)}
}

// Get returns a copy of the entry after recording the hit, or
// (nil, nil) on a miss.
func (s *MemoryStore) Get(ctx context.Context, fingerprint string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[fingerprint]
	if !ok {
		return nil, nil
	}

	entry.HitCount++
	cp := *entry
	return &cp, nil
}

// Save upserts the entry, preserving the hit count of any existing
// entry for the same fingerprint.
func (s *MemoryStore) Save(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *entry
	if existing, ok := s.entries[entry.Fingerprint]; ok {
		cp.HitCount = existing.HitCount
		cp.CreatedAt = existing.CreatedAt
	} else if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	s.entries[entry.Fingerprint] = &cp
	return nil
}

// Stats aggregates over all entries. Storage size is approximated by
// the JSON encoding of each stored result.
func (s *MemoryStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &Stats{EntryCount: int64(len(s.entries))}
	var timeSavedMS int64
	for _, entry := range s.entries {
		if encoded, err := json.Marshal(entry.Result); err == nil {
			stats.StorageBytes += int64(len(encoded))
		}
		stats.HitCount += entry.HitCount
		timeSavedMS += entry.HitCount * entry.ElapsedMS
	}
	stats.TimeSaved = msToDuration(timeSavedMS)
	return stats, nil
}

// Clear removes every entry and returns how many were deleted.
func (s *MemoryStore) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.entries))
	s.entries = make(map[string]*Entry)
	return n, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() {}

func msToDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
