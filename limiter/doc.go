// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package limiter throttles failed logins per identity using Redis counters.
// Each attempt is counted with INCR before the secret is checked and the
// count it returns decides the attempt, so concurrent guesses cannot share
// one slot.
// It is optional: with no REDIS_URL configured the service runs without it.
package limiter
