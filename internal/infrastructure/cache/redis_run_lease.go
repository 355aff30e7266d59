package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisRunLease implements integration.RunLease using Redis. Suitable for
// distributed deployments where multiple instances must agree on which one
// is running a sync for an integration.
type RedisRunLease struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisRunLease creates a Redis-backed run lease
func NewRedisRunLease(cfg RedisConfig) (*RedisRunLease, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRunLease{
		client:    client,
		keyPrefix: "erpsync:run:",
	}, nil
}

// NewRedisRunLeaseWithClient creates a lease with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisRunLeaseWithClient(client *redis.Client, keyPrefix string) *RedisRunLease {
	if keyPrefix == "" {
		keyPrefix = "erpsync:run:"
	}
	return &RedisRunLease{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Acquire takes the lease via SETNX so acquisition is atomic across
// instances. The TTL bounds how long a crashed run can block others.
func (l *RedisRunLease) Acquire(ctx context.Context, integrationID uuid.UUID, ttl time.Duration) (bool, error) {
	key := l.keyPrefix + integrationID.String()

	acquired, err := l.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire sync run lease: %w", err)
	}
	return acquired, nil
}

// Release frees the lease. Releasing an unheld lease is a no-op.
func (l *RedisRunLease) Release(ctx context.Context, integrationID uuid.UUID) error {
	key := l.keyPrefix + integrationID.String()

	if err := l.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release sync run lease: %w", err)
	}
	return nil
}
