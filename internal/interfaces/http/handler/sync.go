package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appintegration "github.com/procureflow/backend/internal/application/integration"
	"github.com/procureflow/backend/internal/domain/integration"
	"github.com/procureflow/backend/internal/infrastructure/logger"
	"github.com/procureflow/backend/internal/interfaces/http/dto"
	"github.com/procureflow/backend/internal/interfaces/http/middleware"
)

// SyncHandler exposes the outbound ERP sync API.
type SyncHandler struct {
	BaseHandler
	service *appintegration.SyncService
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(service *appintegration.SyncService) *SyncHandler {
	return &SyncHandler{service: service}
}

// RegisterRoutes registers all ERP sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/erp-sync")
	{
		sync.POST("", h.Sync)
		sync.GET("/integrations/:id", h.GetIntegration)
		sync.GET("/integrations/:id/logs", h.ListLogs)
		sync.POST("/integrations/:id/test", h.TestConnection)
	}
}

// Sync triggers a push of approved documents to the configured ERP.
// The request is validated before any integration or entity lookup.
func (h *SyncHandler) Sync(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	integrationID, err := uuid.Parse(req.IntegrationID)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "integrationId must be a valid UUID")
		return
	}

	actor := triggeredBy(c)
	log := logger.L(c.Request.Context())

	var result integration.SyncResult
	switch req.Action {
	case SyncActionAll:
		result, err = h.service.SyncAll(c.Request.Context(), integrationID, actor)
	case SyncActionEntity:
		if req.EntityType == "" || req.EntityID == "" {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation,
				"entityType and entityId are required for sync_entity")
			return
		}
		entityID, parseErr := uuid.Parse(req.EntityID)
		if parseErr != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "entityId must be a valid UUID")
			return
		}
		result, err = h.service.SyncEntity(c.Request.Context(),
			integrationID, integration.EntityType(req.EntityType), entityID, actor)
	default:
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "unknown action")
		return
	}

	if err != nil {
		h.handleSyncError(c, err)
		return
	}

	log.Info("sync request completed",
		zap.String("integration_id", integrationID.String()),
		zap.String("action", req.Action),
		zap.Int("synced", result.Synced),
		zap.Int("failed", result.Failed))
	h.Success(c, newSyncResultResponse(result))
}

// GetIntegration returns a read-only view of one ERP integration.
func (h *SyncHandler) GetIntegration(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "invalid integration ID")
		return
	}
	integrationID, _ := uuid.Parse(req.ID)

	in, err := h.service.GetIntegration(c.Request.Context(), integrationID)
	if err != nil {
		h.handleSyncError(c, err)
		return
	}
	h.Success(c, newIntegrationResponse(in))
}

// ListLogsRequest holds the query filters for the sync log listing.
type ListLogsRequest struct {
	dto.ListRequest
	EntityType string `form:"entity_type" binding:"omitempty,oneof=invoice purchase_order"`
	Status     string `form:"status" binding:"omitempty,oneof=in_progress success failed"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// ListLogs returns the audit trail for an integration, newest first.
func (h *SyncHandler) ListLogs(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "invalid integration ID")
		return
	}
	integrationID, _ := uuid.Parse(idReq.ID)

	req := ListLogsRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	filter := integration.SyncLogFilter{
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if req.EntityType != "" {
		et := integration.EntityType(req.EntityType)
		filter.EntityType = &et
	}
	if req.Status != "" {
		st := integration.LogStatus(req.Status)
		filter.Status = &st
	}

	entries, total, err := h.service.ListLogs(c.Request.Context(), integrationID, filter)
	if err != nil {
		h.handleSyncError(c, err)
		return
	}

	h.SuccessWithMeta(c, newSyncLogListResponse(entries), total, filter.Page, filter.PageSize)
}

// TestConnection probes the ERP base endpoint with the integration's
// credentials. Any HTTP response, including an auth failure, counts as
// reachable.
func (h *SyncHandler) TestConnection(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "invalid integration ID")
		return
	}
	integrationID, _ := uuid.Parse(req.ID)

	reachable, statusCode, err := h.service.TestConnection(c.Request.Context(), integrationID)
	if err != nil {
		h.handleSyncError(c, err)
		return
	}
	h.Success(c, TestConnectionResponse{Reachable: reachable, StatusCode: statusCode})
}

func (h *SyncHandler) handleSyncError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, integration.ErrIntegrationNotFound):
		h.NotFound(c, "Integration not found or inactive")
	case errors.Is(err, integration.ErrEntityNotFound):
		h.NotFound(c, "Entity not found")
	case errors.Is(err, integration.ErrInvalidEntityType):
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "unsupported entity type")
	case errors.Is(err, integration.ErrSyncRunInProgress):
		h.Conflict(c, dto.ErrCodeSyncInProgress, "A sync run is already in progress for this integration")
	default:
		h.HandleError(c, err)
	}
}
