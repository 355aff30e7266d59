package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRunLease(t *testing.T) {
	ctx := context.Background()

	t.Run("Acquire and release", func(t *testing.T) {
		lease := NewInMemoryRunLease()
		id := uuid.New()

		ok, err := lease.Acquire(ctx, id, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = lease.Acquire(ctx, id, time.Minute)
		require.NoError(t, err)
		assert.False(t, ok, "held lease must not be re-acquired")

		require.NoError(t, lease.Release(ctx, id))

		ok, err = lease.Acquire(ctx, id, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "released lease is available again")
	})

	t.Run("Leases are per integration", func(t *testing.T) {
		lease := NewInMemoryRunLease()

		ok, err := lease.Acquire(ctx, uuid.New(), time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = lease.Acquire(ctx, uuid.New(), time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Expired lease can be taken over", func(t *testing.T) {
		lease := NewInMemoryRunLease()
		id := uuid.New()

		now := time.Now()
		lease.clock = func() time.Time { return now }

		ok, err := lease.Acquire(ctx, id, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		lease.clock = func() time.Time { return now.Add(2 * time.Minute) }

		ok, err = lease.Acquire(ctx, id, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "expired lease is free")
	})

	t.Run("Releasing an unheld lease is a no-op", func(t *testing.T) {
		lease := NewInMemoryRunLease()
		assert.NoError(t, lease.Release(ctx, uuid.New()))
	})
}
