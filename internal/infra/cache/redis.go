package cache

import (
	"context"
	"fmt"

	"todo-api/pkg/redis"
	"todo-api/pkg/resource"
)

// NewRedisClient builds the client from app.redis.* and checks the connection
func NewRedisClient(ctx context.Context) (*redis.Client, error) {
	config := redis.NewRedisConfig().
		WithHost(resource.GetString("app.redis.host")).
		WithPort(resource.GetInt("app.redis.port")).
		WithPassword(resource.GetString("app.redis.password")).
		WithDatabase(resource.GetInt("app.redis.database"))

	client, err := redis.NewClient(config)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", config.Addr(), err)
	}
	return client, nil
}

// NewRateLimiter builds the request rate limiter from app.rate-limit.*
func NewRateLimiter(client *redis.Client) (*redis.RateLimiter, error) {
	return redis.NewRateLimiter(client, redis.NewRateLimiterOptions().
		WithMaxRequests(resource.GetInt("app.rate-limit.max-requests")).
		WithWindow(resource.GetDuration("app.rate-limit.window")).
		WithNamespace(resource.GetString("app.rate-limit.namespace")))
}
