// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package fabric

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// graphQueryTTL matches contextBundleTTL's 1 hour window — the window
// belongs conceptually to graph query results, cache.go just names it after
// the cross-cutting constant it shares.
const graphQueryTTL = contextBundleTTL

// GetGraphQuery returns a previously cached CozoDB query result for project,
// keyed by a hash of the query text and its parameters (spec §4.5 "Graph
// query cache", key pattern graph:{projectId}:{queryHash}, 1h TTL). Returns
// ok=false on a cache miss.
func (f *Fabric) GetGraphQuery(ctx context.Context, projectID, query string, params map[string]any, out any) (ok bool, err error) {
	key := graphQueryKey(projectID, query, params)
	data, err := f.redis.Get(ctx, key).Bytes()
	if err != nil {
		if isRedisNil(err) {
			f.recordMiss()
			return false, nil
		}
		return false, f.classify(err)
	}
	f.recordHit()
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("unmarshal cached graph query result: %w", err)
	}
	return true, nil
}

// SetGraphQuery stores a query result under the same hash GetGraphQuery
// reads from.
func (f *Fabric) SetGraphQuery(ctx context.Context, projectID, query string, params map[string]any, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal graph query result: %w", err)
	}
	key := graphQueryKey(projectID, query, params)
	if err := f.redis.Set(ctx, key, payload, graphQueryTTL).Err(); err != nil {
		return f.classify(err)
	}
	return nil
}

// InvalidateProjectQueries drops every cached query result for project —
// called after an UpsertParsedFile or DeleteProjectGraph changes the
// underlying graph, since any prior query result may now be stale.
func (f *Fabric) InvalidateProjectQueries(ctx context.Context, projectID string) (int, error) {
	pattern := fmt.Sprintf("graph:%s:*", projectID)
	iter := f.redis.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, f.classify(err)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := f.redis.Del(ctx, keys...).Result()
	if err != nil {
		return 0, f.classify(err)
	}
	return int(n), nil
}

func graphQueryKey(projectID, query string, params map[string]any) string {
	h := sha256.New()
	h.Write([]byte(query))
	if len(params) > 0 {
		// encoding/json marshals map[string]any keys in sorted order, matching
		// the original's sort_keys=True JSON dump so identical parameters
		// always hash to the same digest regardless of map iteration order.
		if encoded, err := json.Marshal(params); err == nil {
			h.Write(encoded)
		}
	}
	digest := hex.EncodeToString(h.Sum(nil))[:16]
	return fmt.Sprintf("graph:%s:%s", projectID, digest)
}
