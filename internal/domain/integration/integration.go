package integration

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// Integration errors
	ErrIntegrationNotFound = errors.New("integration: integration not found or inactive")
	ErrIntegrationInactive = errors.New("integration: integration is not active")
	ErrInvalidBaseURL      = errors.New("integration: base URL is required")
	ErrInvalidName         = errors.New("integration: name is required")
	ErrInvalidRetryPolicy  = errors.New("integration: retry attempts must not be negative")
	ErrInvalidTimeout      = errors.New("integration: request timeout must be positive")

	// Entity errors
	ErrEntityNotFound    = errors.New("integration: entity not found")
	ErrInvalidEntityType = errors.New("integration: invalid entity type")

	// Sync log errors
	ErrLogNotFound         = errors.New("integration: sync log entry not found")
	ErrLogAlreadyCompleted = errors.New("integration: sync log entry already completed")
	ErrLogNotInProgress    = errors.New("integration: sync log entry is not in progress")

	// Run errors
	ErrSyncRunInProgress = errors.New("integration: a sync run is already in progress")
)

// ---------------------------------------------------------------------------
// SyncStatus
// ---------------------------------------------------------------------------

// SyncStatus is the outcome of a full sync run, stored on the integration.
type SyncStatus string

const (
	// SyncStatusSuccess indicates every attempted entity synced (or none were eligible)
	SyncStatusSuccess SyncStatus = "success"
	// SyncStatusPartial indicates some entities synced and some failed
	SyncStatusPartial SyncStatus = "partial"
	// SyncStatusFailed indicates every attempted entity failed
	SyncStatusFailed SyncStatus = "failed"
)

// IsValid returns true if the status is valid
func (s SyncStatus) IsValid() bool {
	switch s {
	case SyncStatusSuccess, SyncStatusPartial, SyncStatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of SyncStatus
func (s SyncStatus) String() string {
	return string(s)
}

// RunStatus derives the integration-level status from a run tally.
// Zero attempted entities count as success.
func RunStatus(synced, failed int) SyncStatus {
	switch {
	case failed == 0:
		return SyncStatusSuccess
	case synced > 0:
		return SyncStatusPartial
	default:
		return SyncStatusFailed
	}
}

// ---------------------------------------------------------------------------
// Endpoint routing
// ---------------------------------------------------------------------------

// EndpointMapping routes one entity type to ERP endpoints.
type EndpointMapping struct {
	CreatePath string `json:"create_path"`
	UpdatePath string `json:"update_path"`
	HTTPMethod string `json:"http_method"`
}

// ---------------------------------------------------------------------------
// Integration
// ---------------------------------------------------------------------------

// Integration is the configuration for one external ERP connection. It is
// authored by an administrator and read-only to the sync engine apart from
// its run state (LastSyncAt, LastSyncStatus).
type Integration struct {
	ID      uuid.UUID
	Name    string
	ERPType string
	BaseURL string

	AuthType   AuthType
	AuthConfig map[string]string

	// EndpointMappings routes entity types to ERP paths; unmapped types fall
	// back to DefaultEndpoint.
	EndpointMappings map[EntityType]EndpointMapping

	// FieldMappings translates internal field names to (possibly dotted)
	// ERP target paths, per entity type. An empty table means the entity
	// snapshot is sent verbatim.
	FieldMappings map[EntityType]map[string]string

	RequestHeaders        map[string]string
	RequestTimeoutSeconds int
	RetryAttempts         int

	SyncInvoices       bool
	SyncPurchaseOrders bool

	IsActive       bool
	LastSyncAt     *time.Time
	LastSyncStatus SyncStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the configuration invariants the engine relies on.
func (i *Integration) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(i.BaseURL) == "" {
		return ErrInvalidBaseURL
	}
	if i.RequestTimeoutSeconds <= 0 {
		return ErrInvalidTimeout
	}
	if i.RetryAttempts < 0 {
		return ErrInvalidRetryPolicy
	}
	return nil
}

// SyncsEntityType reports whether the integration's scope flags include the
// given entity type in a full sync run.
func (i *Integration) SyncsEntityType(t EntityType) bool {
	switch t {
	case EntityTypeInvoice:
		return i.SyncInvoices
	case EntityTypePurchaseOrder:
		return i.SyncPurchaseOrders
	default:
		return false
	}
}

// EndpointFor resolves the path and HTTP method for an entity type.
// Unmapped types default to "/api/{type}s" with POST.
func (i *Integration) EndpointFor(t EntityType) (path, method string) {
	if m, ok := i.EndpointMappings[t]; ok {
		path = m.CreatePath
		method = m.HTTPMethod
	}
	if path == "" {
		path = "/api/" + string(t) + "s"
	}
	if method == "" {
		method = "POST"
	}
	return path, strings.ToUpper(method)
}

// TargetURL joins the base URL and an endpoint path.
func (i *Integration) TargetURL(path string) string {
	return strings.TrimRight(i.BaseURL, "/") + path
}

// FieldMappingsFor returns the mapping table for an entity type, which may
// be empty (identity transform).
func (i *Integration) FieldMappingsFor(t EntityType) map[string]string {
	return i.FieldMappings[t]
}

// RecordRun updates the integration's run state after a full sync run.
func (i *Integration) RecordRun(at time.Time, status SyncStatus) {
	i.LastSyncAt = &at
	i.LastSyncStatus = status
	i.UpdatedAt = at
}
