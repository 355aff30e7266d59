package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/procureflow/backend/internal/domain/integration"
)

// IntegrationModel is the persistence model for the Integration aggregate.
// Mapping tables and auth material are stored as jsonb columns so a new ERP
// target never needs a schema change.
type IntegrationModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	Name    string    `gorm:"type:varchar(255);not null"`
	ERPType string    `gorm:"type:varchar(50);not null"`
	BaseURL string    `gorm:"type:varchar(500);not null"`

	AuthType       string `gorm:"type:varchar(20);not null"`
	AuthConfigJSON string `gorm:"type:jsonb;column:auth_config"`

	EndpointMappingsJSON string `gorm:"type:jsonb;column:endpoint_mappings"`
	FieldMappingsJSON    string `gorm:"type:jsonb;column:field_mappings"`
	RequestHeadersJSON   string `gorm:"type:jsonb;column:request_headers"`

	RequestTimeoutSeconds int `gorm:"not null;default:30"`
	RetryAttempts         int `gorm:"not null;default:3"`

	SyncInvoices       bool `gorm:"not null;default:true"`
	SyncPurchaseOrders bool `gorm:"not null;default:true"`

	IsActive       bool       `gorm:"not null;default:true;index"`
	LastSyncAt     *time.Time `gorm:"index"`
	LastSyncStatus string     `gorm:"type:varchar(20)"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (IntegrationModel) TableName() string {
	return "erp_integrations"
}

// ToDomain converts the persistence model to a domain Integration.
func (m *IntegrationModel) ToDomain() *integration.Integration {
	out := &integration.Integration{
		ID:                    m.ID,
		Name:                  m.Name,
		ERPType:               m.ERPType,
		BaseURL:               m.BaseURL,
		AuthType:              integration.AuthType(m.AuthType),
		AuthConfig:            map[string]string{},
		EndpointMappings:      map[integration.EntityType]integration.EndpointMapping{},
		FieldMappings:         map[integration.EntityType]map[string]string{},
		RequestHeaders:        map[string]string{},
		RequestTimeoutSeconds: m.RequestTimeoutSeconds,
		RetryAttempts:         m.RetryAttempts,
		SyncInvoices:          m.SyncInvoices,
		SyncPurchaseOrders:    m.SyncPurchaseOrders,
		IsActive:              m.IsActive,
		LastSyncAt:            m.LastSyncAt,
		LastSyncStatus:        integration.SyncStatus(m.LastSyncStatus),
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}

	if m.AuthConfigJSON != "" {
		var cfg map[string]string
		if err := json.Unmarshal([]byte(m.AuthConfigJSON), &cfg); err == nil {
			out.AuthConfig = cfg
		}
	}
	if m.EndpointMappingsJSON != "" {
		var em map[integration.EntityType]integration.EndpointMapping
		if err := json.Unmarshal([]byte(m.EndpointMappingsJSON), &em); err == nil {
			out.EndpointMappings = em
		}
	}
	if m.FieldMappingsJSON != "" {
		var fm map[integration.EntityType]map[string]string
		if err := json.Unmarshal([]byte(m.FieldMappingsJSON), &fm); err == nil {
			out.FieldMappings = fm
		}
	}
	if m.RequestHeadersJSON != "" {
		var hd map[string]string
		if err := json.Unmarshal([]byte(m.RequestHeadersJSON), &hd); err == nil {
			out.RequestHeaders = hd
		}
	}

	return out
}

// FromDomain populates the persistence model from a domain Integration.
func (m *IntegrationModel) FromDomain(in *integration.Integration) {
	m.ID = in.ID
	m.Name = in.Name
	m.ERPType = in.ERPType
	m.BaseURL = in.BaseURL
	m.AuthType = string(in.AuthType)
	m.RequestTimeoutSeconds = in.RequestTimeoutSeconds
	m.RetryAttempts = in.RetryAttempts
	m.SyncInvoices = in.SyncInvoices
	m.SyncPurchaseOrders = in.SyncPurchaseOrders
	m.IsActive = in.IsActive
	m.LastSyncAt = in.LastSyncAt
	m.LastSyncStatus = string(in.LastSyncStatus)
	m.CreatedAt = in.CreatedAt
	m.UpdatedAt = in.UpdatedAt

	m.AuthConfigJSON = marshalOrEmptyObject(in.AuthConfig)
	m.EndpointMappingsJSON = marshalOrEmptyObject(in.EndpointMappings)
	m.FieldMappingsJSON = marshalOrEmptyObject(in.FieldMappings)
	m.RequestHeadersJSON = marshalOrEmptyObject(in.RequestHeaders)
}

// IntegrationModelFromDomain creates a new persistence model from a domain Integration.
func IntegrationModelFromDomain(in *integration.Integration) *IntegrationModel {
	m := &IntegrationModel{}
	m.FromDomain(in)
	return m
}

func marshalOrEmptyObject(v any) string {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return "{}"
	}
	return string(b)
}
