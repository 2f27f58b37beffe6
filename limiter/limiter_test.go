// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package limiter

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, cfg Config) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	return New(rdb, cfg), mr
}

func TestLoginLimiter_LocksAtThreshold(t *testing.T) {
	l, _ := newTestLimiter(t, Config{MaxAttempts: 3, Cooldown: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := l.Reserve(ctx, "voter-1")
		if err != nil {
			t.Fatal(err)
		}
		if !allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}

	allowed, err := l.Reserve(ctx, "voter-1")
	if err != nil {
		t.Fatal(err)
	}
	if allowed {
		t.Error("expected lockout after 3 attempts")
	}

	// Other identities are unaffected
	allowed, _ = l.Reserve(ctx, "voter-2")
	if !allowed {
		t.Error("lockout leaked to another identity")
	}
}

func TestLoginLimiter_ConcurrentReserve(t *testing.T) {
	l, _ := newTestLimiter(t, Config{MaxAttempts: 3, Cooldown: time.Minute})
	ctx := context.Background()

	var wg sync.WaitGroup
	var allowed, denied int64
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := l.Reserve(ctx, "voter-1")
			if err != nil {
				t.Errorf("Reserve() error = %v", err)
				return
			}
			if ok {
				atomic.AddInt64(&allowed, 1)
			} else {
				atomic.AddInt64(&denied, 1)
			}
		}()
	}
	wg.Wait()

	if allowed != 3 || denied != 47 {
		t.Errorf("allowed = %d, denied = %d, want 3 and 47", allowed, denied)
	}
}

func TestLoginLimiter_CooldownExpires(t *testing.T) {
	l, mr := newTestLimiter(t, Config{MaxAttempts: 1, Cooldown: time.Minute})
	ctx := context.Background()

	if allowed, _ := l.Reserve(ctx, "voter-1"); !allowed {
		t.Fatal("first attempt should be allowed")
	}
	if allowed, _ := l.Reserve(ctx, "voter-1"); allowed {
		t.Fatal("expected lockout")
	}
	if ttl := mr.TTL("vlf:voter-1"); ttl <= 0 || ttl > time.Minute {
		t.Errorf("counter TTL = %v, want within cooldown", ttl)
	}

	mr.FastForward(time.Minute + time.Second)

	if allowed, _ := l.Reserve(ctx, "voter-1"); !allowed {
		t.Error("expected lockout to expire after cooldown")
	}
}

func TestLoginLimiter_Reset(t *testing.T) {
	l, _ := newTestLimiter(t, Config{MaxAttempts: 5, Cooldown: time.Minute})
	ctx := context.Background()

	_, _ = l.Reserve(ctx, "voter-1")
	_, _ = l.Reserve(ctx, "voter-1")

	n, err := l.Failures(ctx, "voter-1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Failures() = %d, want 2", n)
	}

	if err := l.Reset(ctx, "voter-1"); err != nil {
		t.Fatal(err)
	}
	n, _ = l.Failures(ctx, "voter-1")
	if n != 0 {
		t.Errorf("Failures() after reset = %d, want 0", n)
	}
}

func TestLoginLimiter_Unavailable(t *testing.T) {
	l, mr := newTestLimiter(t, Config{MaxAttempts: 5, Cooldown: time.Minute})
	mr.Close()

	ctx := context.Background()
	if _, err := l.Reserve(ctx, "voter-1"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Reserve() error = %v, want ErrUnavailable", err)
	}
	if err := l.Reset(ctx, "voter-1"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Reset() error = %v, want ErrUnavailable", err)
	}
}

func TestConnect(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	defer mr.Close()

	client, err := Connect(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	client.Close()

	if _, err := Connect(context.Background(), "not a url"); err == nil {
		t.Error("expected error for invalid url")
	}
}
