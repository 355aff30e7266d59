package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procureflow/backend/internal/domain/integration"
	"github.com/procureflow/backend/internal/infrastructure/persistence/models"
)

// GormEntityRepository implements integration.EntityRepository against the
// procurement snapshot tables.
type GormEntityRepository struct {
	db *gorm.DB
}

// NewGormEntityRepository creates a new GormEntityRepository
func NewGormEntityRepository(db *gorm.DB) *GormEntityRepository {
	return &GormEntityRepository{db: db}
}

// FetchEligible returns entities whose business status makes them eligible
// for sync, newest first, capped at integration.FetchLimit.
func (r *GormEntityRepository) FetchEligible(ctx context.Context, entityType integration.EntityType) ([]integration.SyncableEntity, error) {
	statuses := entityType.EligibleStatuses()

	switch entityType {
	case integration.EntityTypeInvoice:
		var rows []models.InvoiceModel
		if err := r.db.WithContext(ctx).
			Where("status IN ?", statuses).
			Order("created_at DESC").
			Limit(integration.FetchLimit).
			Find(&rows).Error; err != nil {
			return nil, err
		}
		entities := make([]integration.SyncableEntity, 0, len(rows))
		for i := range rows {
			entities = append(entities, rows[i].ToSyncable())
		}
		return entities, nil

	case integration.EntityTypePurchaseOrder:
		var rows []models.PurchaseOrderModel
		if err := r.db.WithContext(ctx).
			Where("status IN ?", statuses).
			Order("created_at DESC").
			Limit(integration.FetchLimit).
			Find(&rows).Error; err != nil {
			return nil, err
		}
		entities := make([]integration.SyncableEntity, 0, len(rows))
		for i := range rows {
			entities = append(entities, rows[i].ToSyncable())
		}
		return entities, nil

	default:
		return nil, integration.ErrInvalidEntityType
	}
}

// FindByID loads a single entity snapshot regardless of its status.
func (r *GormEntityRepository) FindByID(ctx context.Context, entityType integration.EntityType, id uuid.UUID) (*integration.SyncableEntity, error) {
	switch entityType {
	case integration.EntityTypeInvoice:
		var row models.InvoiceModel
		if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, integration.ErrEntityNotFound
			}
			return nil, err
		}
		entity := row.ToSyncable()
		return &entity, nil

	case integration.EntityTypePurchaseOrder:
		var row models.PurchaseOrderModel
		if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, integration.ErrEntityNotFound
			}
			return nil, err
		}
		entity := row.ToSyncable()
		return &entity, nil

	default:
		return nil, integration.ErrInvalidEntityType
	}
}
