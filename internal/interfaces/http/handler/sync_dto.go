package handler

import (
	"github.com/procureflow/backend/internal/domain/integration"
)

// SyncRequest is the body of POST /erp-sync.
type SyncRequest struct {
	IntegrationID string `json:"integrationId" binding:"required,uuid"`
	Action        string `json:"action" binding:"required,oneof=sync_all sync_entity"`
	EntityType    string `json:"entityType" binding:"omitempty,oneof=invoice purchase_order"`
	EntityID      string `json:"entityId" binding:"omitempty,uuid"`
}

// SyncActionAll pushes every eligible entity; SyncActionEntity pushes one.
const (
	SyncActionAll    = "sync_all"
	SyncActionEntity = "sync_entity"
)

// SyncResultResponse reports how many entities were pushed in a run.
type SyncResultResponse struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

func newSyncResultResponse(r integration.SyncResult) SyncResultResponse {
	return SyncResultResponse{Synced: r.Synced, Failed: r.Failed}
}

// IntegrationResponse is a read-only view of an ERP integration.
type IntegrationResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	ERPType            string `json:"erp_type"`
	BaseURL            string `json:"base_url"`
	AuthType           string `json:"auth_type"`
	SyncInvoices       bool   `json:"sync_invoices"`
	SyncPurchaseOrders bool   `json:"sync_purchase_orders"`
	IsActive           bool   `json:"is_active"`
	LastSyncAt         string `json:"last_sync_at,omitempty"`
	LastSyncStatus     string `json:"last_sync_status,omitempty"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

func newIntegrationResponse(in *integration.Integration) IntegrationResponse {
	resp := IntegrationResponse{
		ID:                 in.ID.String(),
		Name:               in.Name,
		ERPType:            in.ERPType,
		BaseURL:            in.BaseURL,
		AuthType:           string(in.AuthType),
		SyncInvoices:       in.SyncInvoices,
		SyncPurchaseOrders: in.SyncPurchaseOrders,
		IsActive:           in.IsActive,
		LastSyncStatus:     string(in.LastSyncStatus),
		CreatedAt:          in.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:          in.UpdatedAt.UTC().Format(timeFormat),
	}
	if in.LastSyncAt != nil {
		resp.LastSyncAt = in.LastSyncAt.UTC().Format(timeFormat)
	}
	return resp
}

// SyncLogResponse is one audit row for a sync attempt.
type SyncLogResponse struct {
	ID                 string `json:"id"`
	IntegrationID      string `json:"integration_id"`
	EntityType         string `json:"entity_type"`
	EntityID           string `json:"entity_id"`
	EntityReference    string `json:"entity_reference,omitempty"`
	Status             string `json:"status"`
	ResponseCode       *int   `json:"response_code,omitempty"`
	ErrorMessage       string `json:"error_message,omitempty"`
	RetryCount         int    `json:"retry_count"`
	ERPReferenceID     string `json:"erp_reference_id,omitempty"`
	ERPReferenceNumber string `json:"erp_reference_number,omitempty"`
	TriggeredBy        string `json:"triggered_by"`
	StartedAt          string `json:"started_at"`
	CompletedAt        string `json:"completed_at,omitempty"`
	DurationMs         *int64 `json:"duration_ms,omitempty"`
}

func newSyncLogResponse(e integration.SyncLogEntry) SyncLogResponse {
	resp := SyncLogResponse{
		ID:                 e.ID.String(),
		IntegrationID:      e.IntegrationID.String(),
		EntityType:         string(e.EntityType),
		EntityID:           e.EntityID.String(),
		EntityReference:    e.EntityReference,
		Status:             string(e.Status),
		ResponseCode:       e.ResponseCode,
		ErrorMessage:       e.ErrorMessage,
		RetryCount:         e.RetryCount,
		ERPReferenceID:     e.ERPReferenceID,
		ERPReferenceNumber: e.ERPReferenceNumber,
		TriggeredBy:        e.TriggeredBy,
		StartedAt:          e.StartedAt.UTC().Format(timeFormat),
		DurationMs:         e.DurationMs,
	}
	if e.CompletedAt != nil {
		resp.CompletedAt = e.CompletedAt.UTC().Format(timeFormat)
	}
	return resp
}

func newSyncLogListResponse(entries []integration.SyncLogEntry) []SyncLogResponse {
	out := make([]SyncLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, newSyncLogResponse(e))
	}
	return out
}

// TestConnectionResponse reports whether the ERP endpoint answered at all.
type TestConnectionResponse struct {
	Reachable  bool `json:"reachable"`
	StatusCode int  `json:"status_code,omitempty"`
}

const timeFormat = "2006-01-02T15:04:05Z07:00"
