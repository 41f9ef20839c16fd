// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package fabric

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

const analysisResultTTL = 7 * 24 * time.Hour

// AnalysisBuilder produces the value to memoize when the cache misses.
type AnalysisBuilder func(ctx context.Context) (any, error)

// AnalysisCache memoizes one value per pull request (spec §4.5 "Analysis
// results cache", key pattern analysis:{prId}, 7 day TTL); the orchestrator
// stores the PR's context bundle in it. A cache hit returns the stored
// value; a miss builds it, stores it, and collapses concurrent misses for
// the same PR within this process into a single build via singleflight.
type AnalysisCache struct {
	fabric *Fabric
	group  singleflight.Group
}

func NewAnalysisCache(f *Fabric) *AnalysisCache {
	return &AnalysisCache{fabric: f}
}

// GetOrBuild returns the cached analysis result for prID, building and
// storing it via build on a miss. out must be a pointer; the cached JSON is
// unmarshaled into it on a hit, and the built value is round-tripped through
// JSON so both paths hand the caller an identically-shaped value.
func (c *AnalysisCache) GetOrBuild(ctx context.Context, prID string, out any, build AnalysisBuilder) error {
	key := analysisResultKey(prID)

	cached, err := c.fabric.redis.Get(ctx, key).Bytes()
	if err == nil {
		c.fabric.recordHit()
		return json.Unmarshal(cached, out)
	}
	if !isRedisNil(err) {
		return c.fabric.classify(err)
	}
	c.fabric.recordMiss()

	result, err, _ := c.group.Do(prID, func() (any, error) {
		value, buildErr := build(ctx)
		if buildErr != nil {
			return nil, buildErr
		}
		payload, marshalErr := json.Marshal(value)
		if marshalErr != nil {
			return nil, fmt.Errorf("marshal analysis result: %w", marshalErr)
		}
		if setErr := c.fabric.redis.Set(ctx, key, payload, analysisResultTTL).Err(); setErr != nil {
			return nil, c.fabric.classify(setErr)
		}
		return payload, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(result.([]byte), out)
}

// Invalidate drops a PR's memoized analysis, used when the PR is updated
// with new commits and previously-cached findings go stale.
func (c *AnalysisCache) Invalidate(ctx context.Context, prID string) error {
	if err := c.fabric.redis.Del(ctx, analysisResultKey(prID)).Err(); err != nil {
		return c.fabric.classify(err)
	}
	return nil
}

func analysisResultKey(prID string) string {
	return fmt.Sprintf("analysis:%s", prID)
}
