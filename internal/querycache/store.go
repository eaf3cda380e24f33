package querycache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Entry is one cached query result.
type Entry struct {
	Value      json.RawMessage `json:"value"`
	FetchedAt  time.Time       `json:"fetched_at"`
	StaleAfter time.Duration   `json:"stale_after"`
}

// Fresh reports whether e may be served without revalidation at now.
func (e Entry) Fresh(now time.Time) bool {
	return now.Sub(e.FetchedAt) < e.StaleAfter
}

// Store persists entries by canonical key.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, e Entry) error
	// DeletePrefix removes every key matching the prefix stem.
	DeletePrefix(ctx context.Context, prefix Key) (int, error)
	// Sweep removes entries not read since before cutoff.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
	// Len is the entry count, or -1 when the store cannot count cheaply.
	Len() int
}

type memoryEntry struct {
	Entry
	accessedAt time.Time
}

// MemoryStore keeps entries in process.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return Entry{}, false, nil
	}
	e.accessedAt = s.now()
	return e.Entry, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &memoryEntry{Entry: e, accessedAt: s.now()}
	return nil
}

func (s *MemoryStore) DeletePrefix(_ context.Context, prefix Key) (int, error) {
	stem := prefixStem(prefix)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k := range s.entries {
		if matchesStem(k, stem) {
			delete(s.entries, k)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Sweep(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k, e := range s.entries {
		if e.accessedAt.Before(cutoff) {
			delete(s.entries, k)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
