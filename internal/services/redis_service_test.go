package services

import (
	"context"
	"testing"
	"time"

	"gradpolls/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisService(t *testing.T) *RedisService {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := database.NewRedisConnection("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return NewRedisService(client)
}

func TestCheckRateLimit(t *testing.T) {
	svc := newTestRedisService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := svc.CheckRateLimit(ctx, "rate_limit:test", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := svc.CheckRateLimit(ctx, "rate_limit:test", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	// Separate keys have separate budgets.
	allowed, err = svc.CheckRateLimit(ctx, "rate_limit:other", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}
