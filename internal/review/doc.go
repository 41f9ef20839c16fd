// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package review drives one pull request through the analysis state
// machine: PENDING -> ANALYZING -> REVIEWED, with transient failures
// returning the PR to PENDING for a later re-drive. It is the consumer
// side of internal/fabric's queue and lock, and the producer of the
// graph upserts, review results, and commit statuses the rest of the
// system reads.
package review
