// Package integration implements the application-level sync orchestration:
// full runs over eligible entities, single-entity pushes, and the supporting
// read operations for the HTTP layer.
package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/procureflow/backend/internal/domain/integration"
	"github.com/procureflow/backend/internal/infrastructure/erp"
)

// DefaultRunLeaseTTL bounds how long a crashed run can block subsequent runs.
const DefaultRunLeaseTTL = 10 * time.Minute

// SyncService orchestrates outbound ERP sync runs.
type SyncService struct {
	integrations integration.Repository
	entities     integration.EntityRepository
	logs         integration.SyncLogRepository
	dispatcher   integration.Dispatcher
	lease        integration.RunLease
	logger       *zap.Logger

	leaseTTL time.Duration
	now      func() time.Time
}

// SyncServiceOption configures a SyncService
type SyncServiceOption func(*SyncService)

// WithLeaseTTL overrides the run lease TTL.
func WithLeaseTTL(ttl time.Duration) SyncServiceOption {
	return func(s *SyncService) {
		s.leaseTTL = ttl
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) SyncServiceOption {
	return func(s *SyncService) {
		s.now = now
	}
}

// NewSyncService creates a new SyncService
func NewSyncService(
	integrations integration.Repository,
	entities integration.EntityRepository,
	logs integration.SyncLogRepository,
	dispatcher integration.Dispatcher,
	lease integration.RunLease,
	logger *zap.Logger,
	opts ...SyncServiceOption,
) *SyncService {
	s := &SyncService{
		integrations: integrations,
		entities:     entities,
		logs:         logs,
		dispatcher:   dispatcher,
		lease:        lease,
		logger:       logger.Named("sync.orchestrator"),
		leaseTTL:     DefaultRunLeaseTTL,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ---------------------------------------------------------------------------
// Public operations
// ---------------------------------------------------------------------------

// SyncAll pushes every eligible entity of every enabled type to the ERP and
// records the run outcome on the integration row. A second run for the same
// integration started while this one holds the lease fails with
// ErrSyncRunInProgress.
func (s *SyncService) SyncAll(ctx context.Context, integrationID uuid.UUID, triggeredBy string) (integration.SyncResult, error) {
	var result integration.SyncResult

	in, err := s.integrations.FindActiveByID(ctx, integrationID)
	if err != nil {
		return result, err
	}

	acquired, err := s.lease.Acquire(ctx, in.ID, s.leaseTTL)
	if err != nil {
		return result, fmt.Errorf("acquire run lease: %w", err)
	}
	if !acquired {
		return result, integration.ErrSyncRunInProgress
	}
	defer func() {
		if err := s.lease.Release(ctx, in.ID); err != nil {
			s.logger.Warn("failed to release run lease",
				zap.String("integration_id", in.ID.String()),
				zap.Error(err))
		}
	}()

	s.logger.Info("sync run started",
		zap.String("integration_id", in.ID.String()),
		zap.String("integration", in.Name),
		zap.String("triggered_by", triggeredBy),
	)

	for _, entityType := range integration.AllEntityTypes() {
		if !in.SyncsEntityType(entityType) {
			continue
		}

		entities, err := s.entities.FetchEligible(ctx, entityType)
		if err != nil {
			return result, fmt.Errorf("fetch eligible %s entities: %w", entityType, err)
		}

		// Sequential on purpose: deterministic log ordering, no request
		// bursts against a rate-limited ERP.
		for i := range entities {
			ok := s.syncOne(ctx, in, entities[i], triggeredBy)
			result.Add(ok)
		}
	}

	at := s.now().UTC()
	status := result.Status()
	in.RecordRun(at, status)
	if err := s.integrations.UpdateRunState(ctx, in.ID, at, status); err != nil {
		return result, fmt.Errorf("update run state: %w", err)
	}

	s.logger.Info("sync run finished",
		zap.String("integration_id", in.ID.String()),
		zap.Int("synced", result.Synced),
		zap.Int("failed", result.Failed),
		zap.String("status", status.String()),
	)
	return result, nil
}

// SyncEntity pushes one entity to the ERP. It does not touch the
// integration's run state; that belongs to full runs.
func (s *SyncService) SyncEntity(ctx context.Context, integrationID uuid.UUID, entityType integration.EntityType, entityID uuid.UUID, triggeredBy string) (integration.SyncResult, error) {
	var result integration.SyncResult

	if !entityType.IsValid() {
		return result, integration.ErrInvalidEntityType
	}

	in, err := s.integrations.FindActiveByID(ctx, integrationID)
	if err != nil {
		return result, err
	}

	entity, err := s.entities.FindByID(ctx, entityType, entityID)
	if err != nil {
		return result, err
	}

	ok := s.syncOne(ctx, in, *entity, triggeredBy)
	result.Add(ok)
	return result, nil
}

// TestConnection issues one unauthenticated-failure-tolerant request against
// the integration's base URL with its configured auth headers. Any HTTP
// response at all means the endpoint is reachable.
func (s *SyncService) TestConnection(ctx context.Context, integrationID uuid.UUID) (reachable bool, statusCode int, err error) {
	in, err := s.integrations.FindActiveByID(ctx, integrationID)
	if err != nil {
		return false, 0, err
	}

	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range in.RequestHeaders {
		headers[k] = v
	}
	for k, v := range integration.AuthHeaders(in.AuthType, in.AuthConfig) {
		headers[k] = v
	}

	res := s.dispatcher.Send(ctx, integration.Request{
		URL:           in.TargetURL("/"),
		Method:        "GET",
		Headers:       headers,
		Timeout:       time.Duration(in.RequestTimeoutSeconds) * time.Second,
		RetryAttempts: 0,
	})
	if !res.HasResponse {
		return false, 0, nil
	}
	return true, res.StatusCode, nil
}

// GetIntegration loads an active integration for the read endpoints.
func (s *SyncService) GetIntegration(ctx context.Context, integrationID uuid.UUID) (*integration.Integration, error) {
	return s.integrations.FindActiveByID(ctx, integrationID)
}

// ListLogs returns the audit trail of an integration, newest first.
func (s *SyncService) ListLogs(ctx context.Context, integrationID uuid.UUID, filter integration.SyncLogFilter) ([]integration.SyncLogEntry, int64, error) {
	if _, err := s.integrations.FindActiveByID(ctx, integrationID); err != nil {
		return nil, 0, err
	}
	return s.logs.FindByIntegration(ctx, integrationID, filter)
}

// ---------------------------------------------------------------------------
// Per-entity sync
// ---------------------------------------------------------------------------

// syncOne performs one audited sync attempt. It never returns an error: any
// failure is recorded on the log entry and reported as false so a single
// entity cannot abort a batch.
func (s *SyncService) syncOne(ctx context.Context, in *integration.Integration, entity integration.SyncableEntity, triggeredBy string) bool {
	started := s.now()

	entry := integration.NewSyncLogEntry(in.ID, entity, triggeredBy)
	if err := s.logs.Create(ctx, entry); err != nil {
		s.logger.Error("failed to open sync log entry",
			zap.String("integration_id", in.ID.String()),
			zap.String("entity_id", entity.ID.String()),
			zap.Error(err))
		return false
	}

	payload := integration.MapFields(entity.Attributes, in.FieldMappingsFor(entity.Type))
	body, err := json.Marshal(payload)
	if err != nil {
		s.completeEntry(ctx, entry, integration.CompleteParams{
			Status:       integration.LogStatusFailed,
			ErrorMessage: "failed to serialize mapped payload",
			ErrorDetails: err.Error(),
			DurationMs:   s.sinceMs(started),
		})
		return false
	}

	path, method := in.EndpointFor(entity.Type)

	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range in.RequestHeaders {
		headers[k] = v
	}
	for k, v := range integration.AuthHeaders(in.AuthType, in.AuthConfig) {
		headers[k] = v
	}

	res := s.dispatcher.Send(ctx, integration.Request{
		URL:           in.TargetURL(path),
		Method:        method,
		Headers:       headers,
		Body:          body,
		Timeout:       time.Duration(in.RequestTimeoutSeconds) * time.Second,
		RetryAttempts: in.RetryAttempts,
	})

	params := integration.CompleteParams{
		RequestPayload: string(body),
		RetryCount:     res.Attempts,
		DurationMs:     s.sinceMs(started),
	}

	if res.HasResponse {
		params.ResponsePayload = string(res.Body)
		code := res.StatusCode
		params.ResponseCode = &code

		parsed := erp.ParseBody(res.Body)
		params.ERPReferenceID, params.ERPReferenceNum = erp.ExtractReferences(parsed)
	}

	ok := res.HasResponse && res.OK
	if ok {
		params.Status = integration.LogStatusSuccess
	} else {
		params.Status = integration.LogStatusFailed
		switch {
		case res.HasResponse:
			params.ErrorMessage = fmt.Sprintf("ERP rejected %s %s with status %d", entity.Type, entity.ReferenceNumber, res.StatusCode)
		case res.Err != nil:
			params.ErrorMessage = "request to ERP failed"
			params.ErrorDetails = res.Err.Error()
		default:
			params.ErrorMessage = "request to ERP produced no response"
		}
	}

	s.completeEntry(ctx, entry, params)
	return ok
}

func (s *SyncService) completeEntry(ctx context.Context, entry *integration.SyncLogEntry, params integration.CompleteParams) {
	if err := entry.Complete(params); err != nil {
		s.logger.Error("failed to finalize sync log entry",
			zap.String("log_id", entry.ID.String()),
			zap.Error(err))
		return
	}
	if err := s.logs.Complete(ctx, entry); err != nil {
		s.logger.Error("failed to persist sync log completion",
			zap.String("log_id", entry.ID.String()),
			zap.Error(err))
	}
}

func (s *SyncService) sinceMs(started time.Time) int64 {
	elapsed := s.now().Sub(started)
	if elapsed < 0 {
		return 0
	}
	return elapsed.Milliseconds()
}
