package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/procureflow/backend/internal/domain/integration"
)

// InvoiceModel is the read-only snapshot of an invoice as the sync engine
// sees it. The procurement workflows own these rows; the engine only reads
// and flattens them into syncable attributes.
type InvoiceModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceNumber string          `gorm:"type:varchar(100);not null"`
	VendorName    string          `gorm:"type:varchar(255)"`
	VendorTaxID   string          `gorm:"type:varchar(50);column:vendor_tax_id"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Status        string          `gorm:"type:varchar(20);not null;index"`
	IssueDate     *time.Time
	DueDate       *time.Time
	CreatedAt     time.Time `gorm:"not null;index"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToSyncable flattens the invoice into the open-ended attribute form the
// field mapper consumes.
func (m *InvoiceModel) ToSyncable() integration.SyncableEntity {
	attrs := map[string]any{
		"invoiceNumber": m.InvoiceNumber,
		"vendorName":    m.VendorName,
		"vendorTaxId":   m.VendorTaxID,
		"subtotal":      m.Subtotal,
		"taxAmount":     m.TaxAmount,
		"totalAmount":   m.TotalAmount,
		"currency":      m.Currency,
		"status":        m.Status,
	}
	if m.IssueDate != nil {
		attrs["issueDate"] = m.IssueDate.Format("2006-01-02")
	}
	if m.DueDate != nil {
		attrs["dueDate"] = m.DueDate.Format("2006-01-02")
	}

	return integration.SyncableEntity{
		ID:              m.ID,
		Type:            integration.EntityTypeInvoice,
		ReferenceNumber: m.InvoiceNumber,
		Attributes:      attrs,
	}
}

// PurchaseOrderModel is the read-only snapshot of a purchase order as the
// sync engine sees it.
type PurchaseOrderModel struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primary_key"`
	PONumber             string          `gorm:"type:varchar(100);not null;column:po_number"`
	VendorName           string          `gorm:"type:varchar(255)"`
	TotalAmount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency             string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Status               string          `gorm:"type:varchar(20);not null;index"`
	OrderDate            *time.Time
	ExpectedDeliveryDate *time.Time
	CreatedAt            time.Time `gorm:"not null;index"`
	UpdatedAt            time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToSyncable flattens the purchase order into the open-ended attribute form
// the field mapper consumes.
func (m *PurchaseOrderModel) ToSyncable() integration.SyncableEntity {
	attrs := map[string]any{
		"poNumber":    m.PONumber,
		"vendorName":  m.VendorName,
		"totalAmount": m.TotalAmount,
		"currency":    m.Currency,
		"status":      m.Status,
	}
	if m.OrderDate != nil {
		attrs["orderDate"] = m.OrderDate.Format("2006-01-02")
	}
	if m.ExpectedDeliveryDate != nil {
		attrs["expectedDeliveryDate"] = m.ExpectedDeliveryDate.Format("2006-01-02")
	}

	return integration.SyncableEntity{
		ID:              m.ID,
		Type:            integration.EntityTypePurchaseOrder,
		ReferenceNumber: m.PONumber,
		Attributes:      attrs,
	}
}
