// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package fabric

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	cieerrors "github.com/kraklabs/cie-review/internal/errors"
)

// releaseScript deletes the lock only if it is still owned by lockID —
// an atomic check-and-delete so a worker can never release a lock another
// worker has since acquired after this one's TTL expired.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("del", KEYS[1])
else
    return 0
end
`)

// extendScript atomically extends the lock's TTL only if still owned by
// lockID, so a worker running a long LLM call can keep its per-PR lock
// alive without risking stealing it back from a new owner.
var extendScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("expire", KEYS[1], ARGV[2])
else
    return 0
end
`)

// AcquireLock attempts the per-PR single-flight lock (spec §4.5). resource
// is typically "pr:{prId}"; lockID should be unique per worker attempt
// (e.g. workerId + task attempt) so a stale holder can never be mistaken
// for the current one.
func (f *Fabric) AcquireLock(ctx context.Context, resource, lockID string, ttl time.Duration) (bool, error) {
	key := lockKey(resource)
	ok, err := f.redis.SetNX(ctx, key, lockID, ttl).Result()
	if err != nil {
		return false, f.classify(err)
	}
	if !ok {
		return false, cieerrors.WithKind(cieerrors.KindLockUnavailable, fmt.Errorf("lock %q already held", resource))
	}
	return true, nil
}

// ReleaseLock releases the lock only if still owned by lockID. A failed
// release (lock expired and re-acquired by someone else) is not an error —
// it is the expected outcome of a worker that took too long.
func (f *Fabric) ReleaseLock(ctx context.Context, resource, lockID string) error {
	_, err := releaseScript.Run(ctx, f.redis, []string{lockKey(resource)}, lockID).Result()
	if err != nil && err != redis.Nil {
		return f.classify(err)
	}
	return nil
}

// ExtendLock re-checks ownership and extends the TTL, for workers whose
// LLM call is running long. Returns false (not an error) if ownership was
// already lost.
func (f *Fabric) ExtendLock(ctx context.Context, resource, lockID string, ttl time.Duration) (bool, error) {
	res, err := extendScript.Run(ctx, f.redis, []string{lockKey(resource)}, lockID, int(ttl.Seconds())).Result()
	if err != nil && err != redis.Nil {
		return false, f.classify(err)
	}
	extended, _ := res.(int64)
	return extended == 1, nil
}

func lockKey(resource string) string {
	return fmt.Sprintf("lock:%s", resource)
}
