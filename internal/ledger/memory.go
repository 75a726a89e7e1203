package ledger

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps the ledger in process memory. It gives best-effort
// continuity across warm requests and is the silent fallback when the
// durable store is unavailable; it does not survive a restart.
type MemoryStore struct {
	mu   sync.Mutex
	data record
	set  bool
}

// NewMemoryStore creates an empty in-memory ledger store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored snapshot
func (s *MemoryStore) Load(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.set {
		return NewSnapshot(nil, time.Time{}), nil
	}
	return fromRecord(s.data), nil
}

// Save stores a copy of the snapshot
func (s *MemoryStore) Save(ctx context.Context, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = toRecord(snap)
	s.set = true
	return nil
}

// Reset clears the ledger
func (s *MemoryStore) Reset(ctx context.Context) error {
	return s.Save(ctx, NewSnapshot(nil, time.Time{}))
}
