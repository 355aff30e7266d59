package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procureflow/backend/internal/domain/integration"
	"github.com/procureflow/backend/internal/infrastructure/persistence/models"
)

// GormSyncLogRepository implements integration.SyncLogRepository using GORM
type GormSyncLogRepository struct {
	db *gorm.DB
}

// NewGormSyncLogRepository creates a new GormSyncLogRepository
func NewGormSyncLogRepository(db *gorm.DB) *GormSyncLogRepository {
	return &GormSyncLogRepository{db: db}
}

// Create inserts the in_progress audit row.
func (r *GormSyncLogRepository) Create(ctx context.Context, entry *integration.SyncLogEntry) error {
	model := models.SyncLogModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// Complete writes the terminal state of the entry. The row keeps its
// original in_progress fields except those filled in by completion.
func (r *GormSyncLogRepository) Complete(ctx context.Context, entry *integration.SyncLogEntry) error {
	model := models.SyncLogModelFromDomain(entry)
	result := r.db.WithContext(ctx).
		Model(&models.SyncLogModel{}).
		Where("id = ?", entry.ID).
		Updates(map[string]any{
			"status":               model.Status,
			"request_payload":      model.RequestPayload,
			"response_payload":     model.ResponsePayload,
			"response_code":        model.ResponseCode,
			"error_message":        model.ErrorMessage,
			"error_details":        model.ErrorDetails,
			"retry_count":          model.RetryCount,
			"erp_reference_id":     model.ERPReferenceID,
			"erp_reference_number": model.ERPReferenceNumber,
			"completed_at":         model.CompletedAt,
			"duration_ms":          model.DurationMs,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return integration.ErrLogNotInProgress
	}
	return nil
}

// FindByIntegration lists audit rows for an integration, newest first
// unless the filter asks for a different whitelisted ordering.
func (r *GormSyncLogRepository) FindByIntegration(ctx context.Context, integrationID uuid.UUID, filter integration.SyncLogFilter) ([]integration.SyncLogEntry, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.SyncLogModel{}).
		Where("integration_id = ?", integrationID)

	if filter.EntityType != nil {
		query = query.Where("entity_type = ?", string(*filter.EntityType))
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	sortField := ValidateSortField(filter.SortBy, SyncLogSortFields, "started_at")
	sortOrder := ValidateSortOrder(filter.SortOrder)

	var rows []models.SyncLogModel
	if err := query.
		Order(sortField + " " + sortOrder).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]integration.SyncLogEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, *rows[i].ToDomain())
	}
	return entries, total, nil
}
