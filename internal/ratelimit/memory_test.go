package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Increment(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()

	ctx := context.Background()

	t.Run("counts up per key", func(t *testing.T) {
		for want := int64(1); want <= 3; want++ {
			count, err := store.Increment(ctx, "client-a", time.Minute)
			require.NoError(t, err)
			assert.Equal(t, want, count)
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		count, err := store.Increment(ctx, "client-b", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("expired window restarts", func(t *testing.T) {
		count, err := store.Increment(ctx, "short", time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		time.Sleep(5 * time.Millisecond)

		count, err = store.Increment(ctx, "short", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestMemoryStore_Reset(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()

	ctx := context.Background()

	_, err := store.Increment(ctx, "client", time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Reset(ctx, "client"))

	count, err := store.Increment(ctx, "client", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryStore_Close(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	require.NoError(t, store.Close())
	// Double close must be a no-op.
	require.NoError(t, store.Close())
}
