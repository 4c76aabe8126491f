package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultFailureWindow = 15 * time.Minute

// LoginFailureCounter counts failed logins per identifier within a fixed
// window that starts at the first failure.
// Key format: login_failures:<lower-cased identifier>
type LoginFailureCounter struct {
	client *redis.Client
	window time.Duration
}

// NewLoginFailureCounter wraps client. If window <= 0, defaultFailureWindow is used.
func NewLoginFailureCounter(client *redis.Client, window time.Duration) *LoginFailureCounter {
	if window <= 0 {
		window = defaultFailureWindow
	}
	return &LoginFailureCounter{client: client, window: window}
}

// RecordFailure increments the counter for identifier and returns the new
// count. The increment and the TTL read run in one transaction; a counter
// found without an expiry (first failure, or an earlier EXPIRE that never
// landed) gets the window applied, so no key outlives its window for good.
func (c *LoginFailureCounter) RecordFailure(ctx context.Context, identifier string) (int64, error) {
	key := c.key(identifier)

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	if _, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	}); err != nil {
		return 0, fmt.Errorf("record login failure: %w", err)
	}

	n := incr.Val()
	if ttl.Val() < 0 {
		if err := c.client.Expire(ctx, key, c.window).Err(); err != nil {
			return n, fmt.Errorf("expire login failures: %w", err)
		}
	}
	return n, nil
}

// Reset clears the counter for identifier.
func (c *LoginFailureCounter) Reset(ctx context.Context, identifier string) error {
	return c.client.Del(ctx, c.key(identifier)).Err()
}

func (c *LoginFailureCounter) key(identifier string) string {
	return "login_failures:" + strings.ToLower(identifier)
}
