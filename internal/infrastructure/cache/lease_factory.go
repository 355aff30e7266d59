// Package cache provides the sync-run lease implementations: a Redis-backed
// lease for distributed deployments and a process-local one for tests and
// single-instance setups.
package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/procureflow/backend/internal/domain/integration"
	"github.com/procureflow/backend/internal/infrastructure/config"
)

// NewRunLease creates a run lease based on configuration. With Redis
// enabled the lease is shared across instances; otherwise, or when Redis is
// unreachable and fallback is allowed, a process-local lease is used.
func NewRunLease(cfg config.RedisConfig, logger *zap.Logger, allowInMemoryFallback bool) (integration.RunLease, error) {
	if !cfg.Enabled {
		logger.Info("Redis disabled, using in-memory sync run lease")
		return NewInMemoryRunLease(), nil
	}

	lease, err := NewRedisRunLease(RedisConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		if !allowInMemoryFallback {
			return nil, fmt.Errorf("failed to create Redis run lease: %w", err)
		}
		logger.Warn("Redis unavailable, falling back to in-memory sync run lease",
			zap.Error(err))
		return NewInMemoryRunLease(), nil
	}

	logger.Info("Using Redis sync run lease",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
	)
	return lease, nil
}
