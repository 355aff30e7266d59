package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/procureflow/backend/internal/domain/integration"
)

// SyncLogModel is the persistence model for one sync attempt's audit record.
// Rows are append-only: inserted in_progress and updated exactly once into a
// terminal state.
type SyncLogModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	IntegrationID   uuid.UUID `gorm:"type:uuid;not null;index:idx_sync_logs_integration,priority:1"`
	EntityType      string    `gorm:"type:varchar(20);not null;index"`
	EntityID        uuid.UUID `gorm:"type:uuid;not null;index"`
	EntityReference string    `gorm:"type:varchar(100)"`
	SyncDirection   string    `gorm:"type:varchar(10);not null"`
	Status          string    `gorm:"type:varchar(20);not null;index"`

	RequestPayload  string `gorm:"type:text"`
	ResponsePayload string `gorm:"type:text"`
	ResponseCode    *int

	ErrorMessage string `gorm:"type:text"`
	ErrorDetails string `gorm:"type:text"`

	RetryCount int `gorm:"not null;default:0"`

	ERPReferenceID     string `gorm:"type:varchar(100);column:erp_reference_id"`
	ERPReferenceNumber string `gorm:"type:varchar(100);column:erp_reference_number"`

	TriggeredBy string    `gorm:"type:varchar(100)"`
	StartedAt   time.Time `gorm:"not null;index:idx_sync_logs_integration,priority:2,sort:desc"`
	CompletedAt *time.Time
	DurationMs  *int64
}

// TableName returns the table name for GORM
func (SyncLogModel) TableName() string {
	return "sync_logs"
}

// ToDomain converts the persistence model to a domain SyncLogEntry.
func (m *SyncLogModel) ToDomain() *integration.SyncLogEntry {
	return &integration.SyncLogEntry{
		ID:                 m.ID,
		IntegrationID:      m.IntegrationID,
		EntityType:         integration.EntityType(m.EntityType),
		EntityID:           m.EntityID,
		EntityReference:    m.EntityReference,
		SyncDirection:      m.SyncDirection,
		Status:             integration.LogStatus(m.Status),
		RequestPayload:     m.RequestPayload,
		ResponsePayload:    m.ResponsePayload,
		ResponseCode:       m.ResponseCode,
		ErrorMessage:       m.ErrorMessage,
		ErrorDetails:       m.ErrorDetails,
		RetryCount:         m.RetryCount,
		ERPReferenceID:     m.ERPReferenceID,
		ERPReferenceNumber: m.ERPReferenceNumber,
		TriggeredBy:        m.TriggeredBy,
		StartedAt:          m.StartedAt,
		CompletedAt:        m.CompletedAt,
		DurationMs:         m.DurationMs,
	}
}

// FromDomain populates the persistence model from a domain SyncLogEntry.
func (m *SyncLogModel) FromDomain(e *integration.SyncLogEntry) {
	m.ID = e.ID
	m.IntegrationID = e.IntegrationID
	m.EntityType = string(e.EntityType)
	m.EntityID = e.EntityID
	m.EntityReference = e.EntityReference
	m.SyncDirection = e.SyncDirection
	m.Status = string(e.Status)
	m.RequestPayload = e.RequestPayload
	m.ResponsePayload = e.ResponsePayload
	m.ResponseCode = e.ResponseCode
	m.ErrorMessage = e.ErrorMessage
	m.ErrorDetails = e.ErrorDetails
	m.RetryCount = e.RetryCount
	m.ERPReferenceID = e.ERPReferenceID
	m.ERPReferenceNumber = e.ERPReferenceNumber
	m.TriggeredBy = e.TriggeredBy
	m.StartedAt = e.StartedAt
	m.CompletedAt = e.CompletedAt
	m.DurationMs = e.DurationMs
}

// SyncLogModelFromDomain creates a new persistence model from a domain SyncLogEntry.
func SyncLogModelFromDomain(e *integration.SyncLogEntry) *SyncLogModel {
	m := &SyncLogModel{}
	m.FromDomain(e)
	return m
}
