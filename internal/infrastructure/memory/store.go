package memory

import (
	"context"
	"sync"

	"github.com/smartsupply/supply-core/internal/domain"
	apperrors "github.com/smartsupply/supply-core/pkg/errors"
)

// SnapshotStore keeps the latest snapshot in memory. Useful in tests and in
// deployments that run without MongoDB.
type SnapshotStore struct {
	mu       sync.RWMutex
	snapshot *domain.Snapshot
}

// NewSnapshotStore creates an empty in-memory snapshot store
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Save replaces the stored snapshot
func (s *SnapshotStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
	return nil
}

// Load returns the stored snapshot, or a not-found error when nothing has
// been saved yet
func (s *SnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, apperrors.ErrNotFound("snapshot")
	}
	return s.snapshot, nil
}
