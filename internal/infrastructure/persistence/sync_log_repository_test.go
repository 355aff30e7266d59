package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/procureflow/backend/internal/domain/integration"
)

// newMockSyncLogRepository creates a GormSyncLogRepository with a mocked SQL connection
func newMockSyncLogRepository(t *testing.T) (*GormSyncLogRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormSyncLogRepository(gormDB), mock, mockDB
}

func testLogEntry() *integration.SyncLogEntry {
	entity := integration.SyncableEntity{
		ID:              uuid.New(),
		Type:            integration.EntityTypeInvoice,
		ReferenceNumber: "INV-1001",
		Attributes:      map[string]any{"invoiceNumber": "INV-1001"},
	}
	return integration.NewSyncLogEntry(uuid.New(), entity, "user:alice")
}

func TestGormSyncLogRepository_Create(t *testing.T) {
	t.Run("inserts in_progress row", func(t *testing.T) {
		repo, mock, mockDB := newMockSyncLogRepository(t)
		defer mockDB.Close()

		entry := testLogEntry()

		mock.ExpectExec(`INSERT INTO "sync_logs"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(context.Background(), entry)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		repo, mock, mockDB := newMockSyncLogRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`INSERT INTO "sync_logs"`).
			WillReturnError(gorm.ErrInvalidDB)

		err := repo.Create(context.Background(), testLogEntry())

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSyncLogRepository_Complete(t *testing.T) {
	t.Run("writes terminal state", func(t *testing.T) {
		repo, mock, mockDB := newMockSyncLogRepository(t)
		defer mockDB.Close()

		entry := testLogEntry()
		code := 201
		require.NoError(t, entry.Complete(integration.CompleteParams{
			Status:         integration.LogStatusSuccess,
			RequestPayload: `{"tranId":"INV-1001"}`,
			ResponseCode:   &code,
			RetryCount:     1,
			ERPReferenceID: "erp-77",
			DurationMs:     320,
		}))

		mock.ExpectExec(`UPDATE "sync_logs" SET .* WHERE id = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Complete(context.Background(), entry)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrLogNotInProgress when row is missing", func(t *testing.T) {
		repo, mock, mockDB := newMockSyncLogRepository(t)
		defer mockDB.Close()

		entry := testLogEntry()
		require.NoError(t, entry.Complete(integration.CompleteParams{
			Status:       integration.LogStatusFailed,
			ErrorMessage: "connection refused",
			RetryCount:   4,
			DurationMs:   15000,
		}))

		mock.ExpectExec(`UPDATE "sync_logs" SET .* WHERE id = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Complete(context.Background(), entry)

		assert.ErrorIs(t, err, integration.ErrLogNotInProgress)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSyncLogRepository_FindByIntegration(t *testing.T) {
	t.Run("lists newest first with pagination", func(t *testing.T) {
		repo, mock, mockDB := newMockSyncLogRepository(t)
		defer mockDB.Close()

		integrationID := uuid.New()
		logID := uuid.New()
		entityID := uuid.New()
		started := time.Now().UTC()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "sync_logs" WHERE integration_id = \$1`).
			WithArgs(integrationID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows([]string{
			"id", "integration_id", "entity_type", "entity_id", "entity_reference",
			"sync_direction", "status", "retry_count", "triggered_by", "started_at",
		}).AddRow(
			logID, integrationID, "invoice", entityID, "INV-1001",
			"outbound", "success", 1, "user:alice", started,
		)

		mock.ExpectQuery(`SELECT \* FROM "sync_logs" WHERE integration_id = \$1 ORDER BY started_at DESC LIMIT .*`).
			WillReturnRows(rows)

		entries, total, err := repo.FindByIntegration(context.Background(), integrationID, integration.SyncLogFilter{
			Page:     1,
			PageSize: 20,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, entries, 1)
		assert.Equal(t, logID, entries[0].ID)
		assert.Equal(t, integration.LogStatusSuccess, entries[0].Status)
		assert.Equal(t, "INV-1001", entries[0].EntityReference)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies entity type and status filters", func(t *testing.T) {
		repo, mock, mockDB := newMockSyncLogRepository(t)
		defer mockDB.Close()

		integrationID := uuid.New()
		entityType := integration.EntityTypePurchaseOrder
		status := integration.LogStatusFailed

		mock.ExpectQuery(`SELECT count\(\*\) FROM "sync_logs" WHERE integration_id = \$1 AND entity_type = \$2 AND status = \$3`).
			WithArgs(integrationID, "purchase_order", "failed").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery(`SELECT \* FROM "sync_logs" WHERE integration_id = \$1 AND entity_type = \$2 AND status = \$3 ORDER BY started_at DESC LIMIT .*`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		entries, total, err := repo.FindByIntegration(context.Background(), integrationID, integration.SyncLogFilter{
			EntityType: &entityType,
			Status:     &status,
		})

		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, entries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("honors a whitelisted sort override", func(t *testing.T) {
		repo, mock, mockDB := newMockSyncLogRepository(t)
		defer mockDB.Close()

		integrationID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "sync_logs" WHERE integration_id = \$1`).
			WithArgs(integrationID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery(`SELECT \* FROM "sync_logs" WHERE integration_id = \$1 ORDER BY duration_ms ASC LIMIT .*`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, _, err := repo.FindByIntegration(context.Background(), integrationID, integration.SyncLogFilter{
			SortBy:    "duration_ms",
			SortOrder: "asc",
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("falls back to default ordering for an unknown sort field", func(t *testing.T) {
		repo, mock, mockDB := newMockSyncLogRepository(t)
		defer mockDB.Close()

		integrationID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "sync_logs" WHERE integration_id = \$1`).
			WithArgs(integrationID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery(`SELECT \* FROM "sync_logs" WHERE integration_id = \$1 ORDER BY started_at DESC LIMIT .*`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, _, err := repo.FindByIntegration(context.Background(), integrationID, integration.SyncLogFilter{
			SortBy:    "response_payload; DROP TABLE sync_logs",
			SortOrder: "sideways",
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
