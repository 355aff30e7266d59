package integration

import (
	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// EntityType
// ---------------------------------------------------------------------------

// EntityType identifies which kind of procurement record is being synced.
type EntityType string

const (
	// EntityTypeInvoice represents an approved supplier invoice
	EntityTypeInvoice EntityType = "invoice"
	// EntityTypePurchaseOrder represents an issued purchase order
	EntityTypePurchaseOrder EntityType = "purchase_order"
)

// IsValid returns true if the entity type is valid
func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeInvoice, EntityTypePurchaseOrder:
		return true
	default:
		return false
	}
}

// String returns the string representation of EntityType
func (t EntityType) String() string {
	return string(t)
}

// EligibleStatuses returns the business statuses that make an entity of this
// type eligible for outbound sync.
func (t EntityType) EligibleStatuses() []string {
	switch t {
	case EntityTypeInvoice:
		return []string{"approved", "paid"}
	case EntityTypePurchaseOrder:
		return []string{"approved", "sent", "acknowledged"}
	default:
		return nil
	}
}

// AllEntityTypes lists the entity types a full sync run may cover, in the
// order they are processed.
func AllEntityTypes() []EntityType {
	return []EntityType{EntityTypeInvoice, EntityTypePurchaseOrder}
}

// FetchLimit caps how many entities one sync run picks up per entity type.
const FetchLimit = 50

// ---------------------------------------------------------------------------
// SyncableEntity
// ---------------------------------------------------------------------------

// SyncableEntity is a read-only snapshot of an invoice or purchase order.
// The attribute set is open-ended: the engine knows nothing about the
// business schema beyond an id and a reference number, because the field
// mapping table decides what is sent.
type SyncableEntity struct {
	ID              uuid.UUID
	Type            EntityType
	ReferenceNumber string
	Attributes      map[string]any
}
