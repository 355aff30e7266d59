package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRunLease implements integration.RunLease with a process-local map.
// Suitable for single-instance deployments and tests; it provides no
// protection across instances.
type InMemoryRunLease struct {
	mu    sync.Mutex
	held  map[uuid.UUID]time.Time
	clock func() time.Time
}

// NewInMemoryRunLease creates an in-memory run lease
func NewInMemoryRunLease() *InMemoryRunLease {
	return &InMemoryRunLease{
		held:  make(map[uuid.UUID]time.Time),
		clock: time.Now,
	}
}

// Acquire takes the lease unless a non-expired holder exists.
func (l *InMemoryRunLease) Acquire(_ context.Context, integrationID uuid.UUID, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if expiry, ok := l.held[integrationID]; ok && now.Before(expiry) {
		return false, nil
	}
	l.held[integrationID] = now.Add(ttl)
	return true, nil
}

// Release frees the lease. Releasing an unheld lease is a no-op.
func (l *InMemoryRunLease) Release(_ context.Context, integrationID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, integrationID)
	return nil
}
