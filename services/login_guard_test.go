package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGuardWindowCap(t *testing.T) {
	store := NewMemoryRateLimitStore()
	ctx := context.Background()
	now := time.Now()

	for i := 1; i <= LoginMaxAttempts; i++ {
		allowed, err := store.CheckAndConsume(ctx, "a@example.com", now)
		require.NoError(t, err)
		assert.True(t, allowed, "attempt %d should be allowed", i)
	}

	allowed, err := store.CheckAndConsume(ctx, "a@example.com", now)
	require.NoError(t, err)
	assert.False(t, allowed, "6th attempt should be denied")

	// A different identifier has its own window.
	allowed, err = store.CheckAndConsume(ctx, "b@example.com", now)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryGuardWindowExpiry(t *testing.T) {
	store := NewMemoryRateLimitStore()
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < LoginMaxAttempts; i++ {
		_, err := store.CheckAndConsume(ctx, "a@example.com", now)
		require.NoError(t, err)
	}
	allowed, _ := store.CheckAndConsume(ctx, "a@example.com", now)
	require.False(t, allowed)

	// One second past the window boundary a fresh window opens.
	later := now.Add(LoginWindow + time.Second)
	allowed, err := store.CheckAndConsume(ctx, "a@example.com", later)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryGuardReset(t *testing.T) {
	store := NewMemoryRateLimitStore()
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < LoginMaxAttempts; i++ {
		_, err := store.CheckAndConsume(ctx, "a@example.com", now)
		require.NoError(t, err)
	}
	allowed, _ := store.CheckAndConsume(ctx, "a@example.com", now)
	require.False(t, allowed)

	require.NoError(t, store.Reset(ctx, "a@example.com"))

	allowed, err := store.CheckAndConsume(ctx, "a@example.com", now)
	require.NoError(t, err)
	assert.True(t, allowed)
}

// Two concurrent requests must never both observe count < cap and both
// succeed when only one should: exactly LoginMaxAttempts of 100 racing
// attempts may pass.
func TestMemoryGuardConcurrentAttempts(t *testing.T) {
	store := NewMemoryRateLimitStore()
	ctx := context.Background()
	now := time.Now()

	var allowedCount int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, err := store.CheckAndConsume(ctx, "a@example.com", now)
			require.NoError(t, err)
			if allowed {
				atomic.AddInt64(&allowedCount, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(LoginMaxAttempts), allowedCount)
}

func TestMemoryGuardCleanup(t *testing.T) {
	store := NewMemoryRateLimitStore()
	ctx := context.Background()
	now := time.Now()

	_, err := store.CheckAndConsume(ctx, "a@example.com", now)
	require.NoError(t, err)

	store.Cleanup(now.Add(LoginWindow + time.Second))

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Empty(t, store.windows)
}
