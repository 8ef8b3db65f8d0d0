package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	port, err := strconv.Atoi(server.Port())
	require.NoError(t, err)

	client, err := NewClient(NewRedisConfig().WithHost(server.Host()).WithPort(port))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client, server
}

func TestRateLimiterAllowsUpToMaxRequests(t *testing.T) {
	client, _ := newTestClient(t)
	limiter, err := NewRateLimiter(client, NewRateLimiterOptions().
		WithMaxRequests(2).
		WithWindow(time.Minute).
		WithNamespace("test"))
	require.NoError(t, err)

	ctx := context.Background()

	first, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	assert.Equal(t, 1, first.Remaining)
	assert.Equal(t, 2, first.Limit)
	assert.Greater(t, first.ResetAfter, time.Duration(0))

	second, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, second.Allowed)
	assert.Equal(t, 0, second.Remaining)

	third, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, third.Allowed)
	assert.Equal(t, 0, third.Remaining)
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	client, _ := newTestClient(t)
	limiter, err := NewRateLimiter(client, NewRateLimiterOptions().WithMaxRequests(1))
	require.NoError(t, err)

	ctx := context.Background()

	a, err := limiter.Allow(ctx, "a")
	require.NoError(t, err)
	b, err := limiter.Allow(ctx, "b")
	require.NoError(t, err)

	assert.True(t, a.Allowed)
	assert.True(t, b.Allowed)
}

func TestRateLimiterWindowResets(t *testing.T) {
	client, server := newTestClient(t)
	limiter, err := NewRateLimiter(client, NewRateLimiterOptions().
		WithMaxRequests(1).
		WithWindow(time.Second))
	require.NoError(t, err)

	ctx := context.Background()

	_, err = limiter.Allow(ctx, "ip")
	require.NoError(t, err)
	blocked, err := limiter.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, blocked.Allowed)

	server.FastForward(2 * time.Second)

	again, err := limiter.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, again.Allowed)
}

func TestRateLimiterNamespacedKey(t *testing.T) {
	client, server := newTestClient(t)
	limiter, err := NewRateLimiter(client, NewRateLimiterOptions().WithNamespace("todo-api"))
	require.NoError(t, err)

	_, err = limiter.Allow(context.Background(), "127.0.0.1")
	require.NoError(t, err)

	assert.True(t, server.Exists("todo-api::ratelimit::127.0.0.1"))
}

func TestRateLimiterReturnsErrorWhenRedisIsDown(t *testing.T) {
	client, server := newTestClient(t)
	limiter, err := NewRateLimiter(client, nil)
	require.NoError(t, err)

	server.Close()

	_, err = limiter.Allow(context.Background(), "ip")
	assert.Error(t, err)
}

func TestRateLimiterOptionsValidate(t *testing.T) {
	_, err := NewRateLimiter(nil, NewRateLimiterOptions().WithMaxRequests(0))
	assert.Error(t, err)

	_, err = NewRateLimiter(nil, NewRateLimiterOptions().WithWindow(0))
	assert.Error(t, err)
}

func TestHealthDetails(t *testing.T) {
	client, server := newTestClient(t)

	details, err := client.HealthDetails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, server.Addr(), details["address"])
	assert.Contains(t, details, "ping_latency")

	server.Close()

	details, err = client.HealthDetails(context.Background())
	assert.Error(t, err)
	assert.Contains(t, details, "error")
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, NewRedisConfig().Validate())
	assert.Error(t, NewRedisConfig().WithHost("").Validate())
	assert.Error(t, NewRedisConfig().WithPort(0).Validate())
	assert.Error(t, NewRedisConfig().WithDatabase(16).Validate())

	_, err := NewClient(NewRedisConfig().WithPort(70000))
	assert.Error(t, err)
}
