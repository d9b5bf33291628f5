package memstore

import (
	"context"
	"sync"

	"github.com/cognicore/lens/pkg/lens/snapshot"
)

// Store is an in-memory implementation of snapshot.Store for tests.
type Store struct {
	mu       sync.RWMutex
	payloads map[string][]byte
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{payloads: make(map[string][]byte)}
}

// Close implements snapshot.Store.
func (s *Store) Close() error { return nil }

// Put stores a payload copy under (runID, resource).
func (s *Store) Put(ctx context.Context, runID string, res snapshot.Resource, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(payload))
	copy(cp, payload)
	s.payloads[key(runID, res)] = cp
	return nil
}

// Get returns the stored payload, if any.
func (s *Store) Get(ctx context.Context, runID string, res snapshot.Resource) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payloads[key(runID, res)]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(p))
	copy(cp, p)
	return cp, true, nil
}

func key(runID string, res snapshot.Resource) string {
	return runID + "\x00" + string(res)
}
