package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiterOptions configures a fixed-window rate limiter
type RateLimiterOptions struct {
	// MaxRequests is the number of hits allowed per window for a single key
	MaxRequests int
	Window      time.Duration
	// Namespace prefixes every counter key
	Namespace string
}

// NewRateLimiterOptions creates rate limiter options with default values
func NewRateLimiterOptions() *RateLimiterOptions {
	return &RateLimiterOptions{
		MaxRequests: 120,
		Window:      time.Minute,
	}
}

func (rlo *RateLimiterOptions) WithMaxRequests(max int) *RateLimiterOptions {
	rlo.MaxRequests = max
	return rlo
}

func (rlo *RateLimiterOptions) WithWindow(window time.Duration) *RateLimiterOptions {
	rlo.Window = window
	return rlo
}

func (rlo *RateLimiterOptions) WithNamespace(namespace string) *RateLimiterOptions {
	rlo.Namespace = namespace
	return rlo
}

// Validate validates the rate limiter options
func (rlo *RateLimiterOptions) Validate() error {
	if rlo.MaxRequests < 1 {
		return fmt.Errorf("invalid max requests: %d, must be positive", rlo.MaxRequests)
	}
	if rlo.Window < time.Millisecond {
		return fmt.Errorf("invalid window: %v, must be at least 1ms", rlo.Window)
	}
	return nil
}

// Decision is the outcome of a single Allow call
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAfter time.Duration
}

// RateLimiter counts hits per key in redis. The counter is created with the
// window as its TTL on the first hit, so every key resets independently.
type RateLimiter struct {
	client *Client
	opts   *RateLimiterOptions
	script *redis.Script
}

// KEYS[1] counter key, ARGV[1] window in milliseconds.
// Returns {hits, ttl_ms}.
const fixedWindowScript = `
	local hits = redis.call("INCR", KEYS[1])
	if hits == 1 then
		redis.call("PEXPIRE", KEYS[1], ARGV[1])
	end
	local ttl = redis.call("PTTL", KEYS[1])
	if ttl < 0 then
		redis.call("PEXPIRE", KEYS[1], ARGV[1])
		ttl = tonumber(ARGV[1])
	end
	return {hits, ttl}
`

// NewRateLimiter creates a new distributed rate limiter
func NewRateLimiter(client *Client, opts *RateLimiterOptions) (*RateLimiter, error) {
	if opts == nil {
		opts = NewRateLimiterOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &RateLimiter{
		client: client,
		opts:   opts,
		script: redis.NewScript(fixedWindowScript),
	}, nil
}

// buildKey constructs the full key using Namespace::ratelimit::key format
func (rl *RateLimiter) buildKey(key string) string {
	if rl.opts.Namespace != "" {
		return rl.opts.Namespace + "::ratelimit::" + key
	}
	return "ratelimit::" + key
}

// Allow records one hit for key and reports whether it fits in the current window
func (rl *RateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	result, err := rl.script.Run(ctx, rl.client.GetClient(),
		[]string{rl.buildKey(key)},
		rl.opts.Window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("failed to evaluate rate limiter: %w", err)
	}
	if len(result) != 2 {
		return Decision{}, fmt.Errorf("unexpected rate limiter reply: %v", result)
	}

	hits, ttl := int(result[0]), time.Duration(result[1])*time.Millisecond
	remaining := rl.opts.MaxRequests - hits
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:    hits <= rl.opts.MaxRequests,
		Limit:      rl.opts.MaxRequests,
		Remaining:  remaining,
		ResetAfter: ttl,
	}, nil
}
