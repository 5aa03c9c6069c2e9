package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore_CreateAndResolve(t *testing.T) {
	store := NewMemorySessionStore()
	defer store.Close()
	ctx := context.Background()

	token, err := store.Create(ctx, 42)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, ok, err := store.Resolve(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(42), userID)
}

func TestMemorySessionStore_TokensAreUnique(t *testing.T) {
	store := NewMemorySessionStore()
	defer store.Close()
	ctx := context.Background()

	first, err := store.Create(ctx, 1)
	require.NoError(t, err)
	second, err := store.Create(ctx, 1)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestMemorySessionStore_ResolveUnknownToken(t *testing.T) {
	store := NewMemorySessionStore()
	defer store.Close()

	_, ok, err := store.Resolve(context.Background(), "no-such-token")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemorySessionStore_ExpiredTokenIsAnonymous(t *testing.T) {
	store := NewMemorySessionStore()
	defer store.Close()
	ctx := context.Background()

	token, err := store.Create(ctx, 7)
	require.NoError(t, err)

	store.mu.Lock()
	entry := store.entries[token]
	entry.expiresAt = time.Now().Add(-time.Minute)
	store.entries[token] = entry
	store.mu.Unlock()

	_, ok, err := store.Resolve(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)

	// Lazy expiry should have removed the entry
	store.mu.Lock()
	_, present := store.entries[token]
	store.mu.Unlock()
	assert.False(t, present)
}

func TestMemorySessionStore_DestroyIsIdempotent(t *testing.T) {
	store := NewMemorySessionStore()
	defer store.Close()
	ctx := context.Background()

	token, err := store.Create(ctx, 9)
	require.NoError(t, err)

	require.NoError(t, store.Destroy(ctx, token))
	require.NoError(t, store.Destroy(ctx, token))
	require.NoError(t, store.Destroy(ctx, "never-existed"))

	_, ok, err := store.Resolve(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
}
