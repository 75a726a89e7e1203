package ledger

import (
	"context"

	"woolfeed/logger"
	apperrors "woolfeed/pkg/errors"
)

// FallbackStore wraps a durable store with an in-memory substitute.
// Reads prefer the durable store; writes go to both so the memory copy
// stays current for the next request if the durable store drops out.
// Store failures are logged and never surface to the caller.
type FallbackStore struct {
	primary  Store
	fallback Store
	log      *logger.Logger
}

// NewFallbackStore wraps primary with an in-memory fallback
func NewFallbackStore(primary Store) *FallbackStore {
	return &FallbackStore{
		primary:  primary,
		fallback: NewMemoryStore(),
		log:      logger.ForLedger(),
	}
}

// Load reads from the durable store, falling back to memory
func (s *FallbackStore) Load(ctx context.Context) (*Snapshot, error) {
	snap, err := s.primary.Load(ctx)
	if err == nil {
		return snap, nil
	}
	s.log.Warn().Err(apperrors.NewStorage("ledger", "load failed", err)).Msg("using in-memory copy")
	return s.fallback.Load(ctx)
}

// Save writes to both stores; the durable write is best-effort
func (s *FallbackStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := s.primary.Save(ctx, snap); err != nil {
		s.log.Warn().Err(apperrors.NewStorage("ledger", "save failed", err)).Msg("keeping in-memory copy only")
	}
	return s.fallback.Save(ctx, snap)
}

// Reset clears both stores
func (s *FallbackStore) Reset(ctx context.Context) error {
	if err := s.primary.Reset(ctx); err != nil {
		s.log.Warn().Err(apperrors.NewStorage("ledger", "reset failed", err)).Msg("durable store not cleared")
	}
	return s.fallback.Reset(ctx)
}
