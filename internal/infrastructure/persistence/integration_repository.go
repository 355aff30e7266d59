package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procureflow/backend/internal/domain/integration"
	"github.com/procureflow/backend/internal/infrastructure/persistence/models"
)

// GormIntegrationRepository implements integration.Repository using GORM
type GormIntegrationRepository struct {
	db *gorm.DB
}

// NewGormIntegrationRepository creates a new GormIntegrationRepository
func NewGormIntegrationRepository(db *gorm.DB) *GormIntegrationRepository {
	return &GormIntegrationRepository{db: db}
}

// FindActiveByID loads an active integration by id. Inactive and missing
// rows are indistinguishable to callers.
func (r *GormIntegrationRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*integration.Integration, error) {
	var model models.IntegrationModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrIntegrationNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// UpdateRunState writes the run outcome onto the integration row.
func (r *GormIntegrationRepository) UpdateRunState(ctx context.Context, id uuid.UUID, at time.Time, status integration.SyncStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.IntegrationModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_sync_at":     at,
			"last_sync_status": string(status),
			"updated_at":       at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return integration.ErrIntegrationNotFound
	}
	return nil
}
