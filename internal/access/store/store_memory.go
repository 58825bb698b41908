package store

import (
	"context"
	"sync"

	"ballotaccess/internal/access"
	"ballotaccess/internal/passport"
)

// InMemoryStore serves a fixed set of records. Later duplicates of the same
// fingerprint are ignored so the first record wins, matching SQLStore.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]bool
}

// NewInMemoryStore builds a store seeded with records.
func NewInMemoryStore(records ...access.Record) *InMemoryStore {
	s := &InMemoryStore{records: make(map[string]bool, len(records))}
	for _, r := range records {
		if _, exists := s.records[r.Fingerprint.String()]; exists {
			continue
		}
		s.records[r.Fingerprint.String()] = r.AccessGranted
	}
	return s
}

func (s *InMemoryStore) Lookup(ctx context.Context, fp passport.Fingerprint) (*access.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	granted, ok := s.records[fp.String()]
	if !ok {
		return nil, ErrNotFound
	}
	return &access.Record{Fingerprint: fp, AccessGranted: granted}, nil
}

func (s *InMemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
