// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package fabric is the Task Fabric (spec §4.5): the queue, webhook
// dedup, per-PR distributed lock, retry/backoff, rate limiter, and
// context-memoization cache that make PR analysis reliable under
// concurrent traffic. All state lives in Redis so any number of worker
// processes share it; this package only ever holds the client, an
// in-process singleflight group, and in-process cache hit/miss counters.
package fabric
