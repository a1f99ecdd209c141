package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	_, found, err := store.Get(ctx, "sess-1", "key")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "sess-1", "key", "value", time.Minute))

	val, found, err := store.Get(ctx, "sess-1", "key")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "value", val)

	require.NoError(t, store.Delete(ctx, "sess-1", "key"))

	_, found, err = store.Get(ctx, "sess-1", "key")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreIsolatesSessions(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "sess-1", "key", "one", time.Minute))
	require.NoError(t, store.Set(ctx, "sess-2", "key", "two", time.Minute))

	val, _, err := store.Get(ctx, "sess-1", "key")
	require.NoError(t, err)
	assert.Equal(t, "one", val)

	require.NoError(t, store.Delete(ctx, "sess-1", "key"))

	val, found, err := store.Get(ctx, "sess-2", "key")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "two", val)
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "sess-1", "key", "value", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, found, err := store.Get(ctx, "sess-1", "key")
	require.NoError(t, err)
	assert.False(t, found)
}
