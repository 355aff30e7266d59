package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Result types
// ---------------------------------------------------------------------------

// SyncResult is the tally returned to the caller of a sync operation.
type SyncResult struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

// Add folds a single entity outcome into the tally.
func (r *SyncResult) Add(ok bool) {
	if ok {
		r.Synced++
	} else {
		r.Failed++
	}
}

// Merge folds another tally into this one.
func (r *SyncResult) Merge(other SyncResult) {
	r.Synced += other.Synced
	r.Failed += other.Failed
}

// Status derives the run-level status for the tally.
func (r SyncResult) Status() SyncStatus {
	return RunStatus(r.Synced, r.Failed)
}

// ---------------------------------------------------------------------------
// Repository ports
// ---------------------------------------------------------------------------

// Repository loads integration configuration and persists run state.
type Repository interface {
	// FindActiveByID loads an integration by id. Returns
	// ErrIntegrationNotFound when no active integration matches.
	FindActiveByID(ctx context.Context, id uuid.UUID) (*Integration, error)

	// UpdateRunState writes LastSyncAt and LastSyncStatus after a full run.
	UpdateRunState(ctx context.Context, id uuid.UUID, at time.Time, status SyncStatus) error
}

// EntityRepository reads invoice and purchase-order snapshots.
type EntityRepository interface {
	// FetchEligible returns entities whose business status makes them
	// eligible for sync, newest first, capped at FetchLimit.
	FetchEligible(ctx context.Context, entityType EntityType) ([]SyncableEntity, error)

	// FindByID loads a single entity snapshot. Returns ErrEntityNotFound
	// when no row matches.
	FindByID(ctx context.Context, entityType EntityType, id uuid.UUID) (*SyncableEntity, error)
}

// SyncLogFilter narrows and pages sync log listings. SortBy and SortOrder
// are validated against a whitelist by the repository; invalid values fall
// back to started_at descending.
type SyncLogFilter struct {
	EntityType *EntityType
	Status     *LogStatus
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

// SyncLogRepository persists the per-attempt audit trail.
type SyncLogRepository interface {
	// Create inserts the in_progress row opened by NewSyncLogEntry.
	Create(ctx context.Context, entry *SyncLogEntry) error

	// Complete writes the terminal state of the entry. Called exactly once
	// per Create.
	Complete(ctx context.Context, entry *SyncLogEntry) error

	// FindByIntegration lists entries for an integration, newest first.
	FindByIntegration(ctx context.Context, integrationID uuid.UUID, filter SyncLogFilter) ([]SyncLogEntry, int64, error)
}

// ---------------------------------------------------------------------------
// Dispatcher port
// ---------------------------------------------------------------------------

// Request describes one outbound ERP call including its retry policy.
type Request struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    []byte

	Timeout       time.Duration
	RetryAttempts int
}

// Result is the observable outcome of a dispatch. HasResponse is false when
// every attempt failed at the network level.
type Result struct {
	HasResponse bool
	StatusCode  int
	Body        []byte

	// Attempts is the number of HTTP calls actually issued.
	Attempts int

	// OK is true for a 2xx/3xx final response.
	OK bool

	// Err is the last transient error when the retry budget was exhausted
	// without a response.
	Err error
}

// Dispatcher performs the outbound HTTP call with bounded timeout and
// bounded exponential-backoff retries. Implementations retry network
// failures, timeouts, and 5xx responses; a 4xx response is terminal.
type Dispatcher interface {
	Send(ctx context.Context, req Request) Result
}

// ---------------------------------------------------------------------------
// Run lease port
// ---------------------------------------------------------------------------

// RunLease is an advisory per-integration lock preventing two overlapping
// full sync runs from racing on the integration's run state.
type RunLease interface {
	// Acquire takes the lease for an integration. Returns false when
	// another run already holds it.
	Acquire(ctx context.Context, integrationID uuid.UUID, ttl time.Duration) (bool, error)

	// Release frees the lease. Releasing an unheld lease is a no-op.
	Release(ctx context.Context, integrationID uuid.UUID) error
}
