// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package fabric

import "sync/atomic"

// CacheMetrics is a point-in-time hit/miss snapshot (spec §4.5 "Cache
// metrics"), for a status or health endpoint to report cache effectiveness.
type CacheMetrics struct {
	Hits          int64
	Misses        int64
	TotalRequests int64
	HitRate       float64
}

func (f *Fabric) recordHit()  { atomic.AddInt64(&f.hits, 1) }
func (f *Fabric) recordMiss() { atomic.AddInt64(&f.misses, 1) }

// Metrics reports the accumulated hit/miss counts across every cache-backed
// call on this Fabric (sessions, analysis results, graph queries).
func (f *Fabric) Metrics() CacheMetrics {
	hits := atomic.LoadInt64(&f.hits)
	misses := atomic.LoadInt64(&f.misses)
	total := hits + misses
	var rate float64
	if total > 0 {
		rate = float64(hits) / float64(total) * 100
	}
	return CacheMetrics{Hits: hits, Misses: misses, TotalRequests: total, HitRate: rate}
}

// ResetMetrics zeroes the accumulated counters.
func (f *Fabric) ResetMetrics() {
	atomic.StoreInt64(&f.hits, 0)
	atomic.StoreInt64(&f.misses, 0)
}
