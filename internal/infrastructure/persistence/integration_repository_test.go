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

// newMockIntegrationRepository creates a GormIntegrationRepository with a mocked SQL connection
func newMockIntegrationRepository(t *testing.T) (*GormIntegrationRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormIntegrationRepository(gormDB), mock, mockDB
}

func TestGormIntegrationRepository_FindActiveByID(t *testing.T) {
	t.Run("finds active integration and decodes jsonb columns", func(t *testing.T) {
		repo, mock, mockDB := newMockIntegrationRepository(t)
		defer mockDB.Close()

		id := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "name", "erp_type", "base_url", "auth_type", "auth_config",
			"endpoint_mappings", "field_mappings", "request_headers",
			"request_timeout_seconds", "retry_attempts",
			"sync_invoices", "sync_purchase_orders", "is_active", "last_sync_status",
		}).AddRow(
			id, "NetSuite Prod", "netsuite", "https://erp.example.com/", "api_key",
			`{"api_key":"secret"}`,
			`{"invoice":{"create_path":"/rest/invoices","http_method":"post"}}`,
			`{"invoice":{"invoiceNumber":"tranId"}}`,
			`{"X-Env":"prod"}`,
			45, 2, true, false, true, "success",
		)

		mock.ExpectQuery(`SELECT \* FROM "erp_integrations" WHERE id = \$1 AND is_active = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(id, true, 1).
			WillReturnRows(rows)

		in, err := repo.FindActiveByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, "NetSuite Prod", in.Name)
		assert.Equal(t, integration.AuthTypeAPIKey, in.AuthType)
		assert.Equal(t, "secret", in.AuthConfig["api_key"])
		assert.Equal(t, "/rest/invoices", in.EndpointMappings[integration.EntityTypeInvoice].CreatePath)
		assert.Equal(t, "tranId", in.FieldMappings[integration.EntityTypeInvoice]["invoiceNumber"])
		assert.Equal(t, "prod", in.RequestHeaders["X-Env"])
		assert.Equal(t, 45, in.RequestTimeoutSeconds)
		assert.Equal(t, 2, in.RetryAttempts)
		assert.False(t, in.SyncPurchaseOrders)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrIntegrationNotFound for missing row", func(t *testing.T) {
		repo, mock, mockDB := newMockIntegrationRepository(t)
		defer mockDB.Close()

		id := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "erp_integrations" WHERE id = \$1 AND is_active = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(id, true, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		in, err := repo.FindActiveByID(context.Background(), id)

		assert.Nil(t, in)
		assert.ErrorIs(t, err, integration.ErrIntegrationNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormIntegrationRepository_UpdateRunState(t *testing.T) {
	t.Run("updates last sync fields", func(t *testing.T) {
		repo, mock, mockDB := newMockIntegrationRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		at := time.Now().UTC()

		mock.ExpectExec(`UPDATE "erp_integrations" SET .* WHERE id = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateRunState(context.Background(), id, at, integration.SyncStatusPartial)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrIntegrationNotFound when no row matches", func(t *testing.T) {
		repo, mock, mockDB := newMockIntegrationRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "erp_integrations" SET .* WHERE id = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateRunState(context.Background(), uuid.New(), time.Now(), integration.SyncStatusSuccess)

		assert.ErrorIs(t, err, integration.ErrIntegrationNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
