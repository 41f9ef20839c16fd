// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package fabric

import (
	"context"
	"fmt"
	"time"
)

// DefaultRateLimitMax and DefaultRateLimitWindow are the fixed-window rate
// limiter's defaults (spec §4.5 "Rate limiting").
const (
	DefaultRateLimitMax    = 60
	DefaultRateLimitWindow = 60 * time.Second
)

// CheckRateLimit increments a per-user, per-endpoint fixed-window counter
// and reports whether the request is allowed plus how many requests remain
// in the window. On a Redis error it fails open (allowed=true) — a
// momentarily unavailable rate limiter should not itself take the service
// down.
func (f *Fabric) CheckRateLimit(ctx context.Context, userID, endpoint string, max int, window time.Duration) (allowed bool, remaining int, err error) {
	if max <= 0 {
		max = DefaultRateLimitMax
	}
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	key := fmt.Sprintf("ratelimit:%s:%s", userID, endpoint)

	count, incrErr := f.redis.Incr(ctx, key).Result()
	if incrErr != nil {
		return true, max, nil
	}
	if count == 1 || f.redis.TTL(ctx, key).Val() < 0 {
		f.redis.Expire(ctx, key, window) // best-effort; a key left without a TTL gets one on its next INCR
	}
	if int(count) > max {
		return false, 0, nil
	}
	return true, max - int(count), nil
}

// ResetRateLimit clears a user/endpoint's counter, used by tests and
// administrative overrides.
func (f *Fabric) ResetRateLimit(ctx context.Context, userID, endpoint string) error {
	key := fmt.Sprintf("ratelimit:%s:%s", userID, endpoint)
	if err := f.redis.Del(ctx, key).Err(); err != nil {
		return f.classify(err)
	}
	return nil
}
