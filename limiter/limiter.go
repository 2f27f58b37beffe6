// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package limiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable indicates the limiter backend is unreachable
var ErrUnavailable = errors.New("login limiter unavailable")

type Config struct {
	MaxAttempts int
	// Window for counting attempts; the counter expires this long after the first one
	Cooldown time.Duration
}

// LoginLimiter counts login attempts per identity in Redis.
// Successful logins reset the count, so only failures accumulate.
type LoginLimiter struct {
	redis  redis.UniversalClient
	config Config
}

func New(redisClient redis.UniversalClient, cfg Config) *LoginLimiter {
	return &LoginLimiter{redis: redisClient, config: cfg}
}

// Connect parses url, creates a client and pings it
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return client, nil
}

func (l *LoginLimiter) key(identity string) string {
	return "vlf:" + identity
}

// Reserve counts one login attempt for identity and reports whether it may
// proceed. The decision comes from the INCR result, so concurrent attempts
// each see a distinct count and at most MaxAttempts get through per window.
func (l *LoginLimiter) Reserve(ctx context.Context, identity string) (bool, error) {
	count, err := l.redis.Incr(ctx, l.key(identity)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if count == 1 {
		// TTL starts at the first attempt so the window rolls over on its own
		if err := l.redis.Expire(ctx, l.key(identity), l.config.Cooldown).Err(); err != nil {
			return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return count <= int64(l.config.MaxAttempts), nil
}

// Reset clears the attempt counter (after a successful login)
func (l *LoginLimiter) Reset(ctx context.Context, identity string) error {
	if err := l.redis.Del(ctx, l.key(identity)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Failures returns the attempts counted for identity in the current window
func (l *LoginLimiter) Failures(ctx context.Context, identity string) (int, error) {
	count, err := l.redis.Get(ctx, l.key(identity)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return int(count), nil
}
