// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package fabric

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	cieerrors "github.com/kraklabs/cie-review/internal/errors"
)

// Cache key conventions (spec §6): session:{userId} (24h), analysis:{prId}
// (7d), graph:{projectId}:{queryHash} (1h), queue:pr_analysis (list),
// ratelimit:{userId}:{endpoint} (window-scoped), lock:{resource} (task
// deadline), webhook:delivery:{id} (24h).
const (
	sessionTTL        = 24 * time.Hour
	webhookDedupTTL   = 24 * time.Hour
	contextBundleTTL  = time.Hour
)

// Fabric owns the Redis client every Task Fabric primitive is built on.
type Fabric struct {
	redis *redis.Client

	hits   int64
	misses int64
}

func New(client *redis.Client) *Fabric {
	return &Fabric{redis: client}
}

func (f *Fabric) classify(err error) error {
	if err == nil {
		return nil
	}
	if err == context.DeadlineExceeded {
		return cieerrors.WithKind(cieerrors.KindTimeout, err)
	}
	return cieerrors.WithKind(cieerrors.KindStoreUnavailable, err)
}

func isRedisNil(err error) bool {
	return err == redis.Nil
}
