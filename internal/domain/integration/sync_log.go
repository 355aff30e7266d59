package integration

import (
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// LogStatus
// ---------------------------------------------------------------------------

// LogStatus is the lifecycle state of one sync attempt's audit record.
type LogStatus string

const (
	// LogStatusInProgress indicates the attempt has started
	LogStatusInProgress LogStatus = "in_progress"
	// LogStatusSuccess indicates the ERP accepted the record
	LogStatusSuccess LogStatus = "success"
	// LogStatusFailed indicates the attempt ended without acceptance
	LogStatusFailed LogStatus = "failed"
)

// IsValid returns true if the status is valid
func (s LogStatus) IsValid() bool {
	switch s {
	case LogStatusInProgress, LogStatusSuccess, LogStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for the two completed states
func (s LogStatus) IsTerminal() bool {
	return s == LogStatusSuccess || s == LogStatusFailed
}

// String returns the string representation of LogStatus
func (s LogStatus) String() string {
	return string(s)
}

// SyncDirectionOutbound is the only direction the engine currently performs.
const SyncDirectionOutbound = "outbound"

// ---------------------------------------------------------------------------
// SyncLogEntry
// ---------------------------------------------------------------------------

// SyncLogEntry is the durable audit record of one entity sync attempt.
// It is inserted in_progress, completed exactly once into success or failed,
// and never reopened or deleted.
type SyncLogEntry struct {
	ID              uuid.UUID
	IntegrationID   uuid.UUID
	EntityType      EntityType
	EntityID        uuid.UUID
	EntityReference string
	SyncDirection   string
	Status          LogStatus

	RequestPayload  string
	ResponsePayload string
	ResponseCode    *int

	ErrorMessage string
	ErrorDetails string

	// RetryCount is the number of HTTP attempts actually made, including
	// the first.
	RetryCount int

	ERPReferenceID     string
	ERPReferenceNumber string

	TriggeredBy string
	StartedAt   time.Time
	CompletedAt *time.Time
	DurationMs  *int64
}

// NewSyncLogEntry opens the audit record for one attempt.
func NewSyncLogEntry(integrationID uuid.UUID, entity SyncableEntity, triggeredBy string) *SyncLogEntry {
	return &SyncLogEntry{
		ID:              uuid.New(),
		IntegrationID:   integrationID,
		EntityType:      entity.Type,
		EntityID:        entity.ID,
		EntityReference: entity.ReferenceNumber,
		SyncDirection:   SyncDirectionOutbound,
		Status:          LogStatusInProgress,
		TriggeredBy:     triggeredBy,
		StartedAt:       time.Now().UTC(),
	}
}

// CompleteParams carries the terminal outcome of one attempt.
type CompleteParams struct {
	Status          LogStatus
	RequestPayload  string
	ResponsePayload string
	ResponseCode    *int
	ErrorMessage    string
	ErrorDetails    string
	RetryCount      int
	ERPReferenceID  string
	ERPReferenceNum string
	DurationMs      int64
}

// Complete transitions the entry to a terminal state. It fails if the entry
// has already been completed or the target status is not terminal.
func (e *SyncLogEntry) Complete(p CompleteParams) error {
	if e.Status.IsTerminal() {
		return ErrLogAlreadyCompleted
	}
	if !p.Status.IsTerminal() {
		return ErrLogNotInProgress
	}

	now := time.Now().UTC()
	e.Status = p.Status
	e.RequestPayload = p.RequestPayload
	e.ResponsePayload = p.ResponsePayload
	e.ResponseCode = p.ResponseCode
	e.ErrorMessage = p.ErrorMessage
	e.ErrorDetails = p.ErrorDetails
	e.RetryCount = p.RetryCount
	e.ERPReferenceID = p.ERPReferenceID
	e.ERPReferenceNumber = p.ERPReferenceNum
	e.CompletedAt = &now
	e.DurationMs = &p.DurationMs
	return nil
}
