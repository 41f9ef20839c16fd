// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package fabric

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const prAnalysisQueueKey = "queue:pr_analysis"

// AnalysisTask is one unit of queued work: analyze a PR at a given commit.
type AnalysisTask struct {
	PullRequestID string `json:"pull_request_id"`
	ProjectID     string `json:"project_id"`
	CommitSHA     string `json:"commit_sha"`
	Attempt       int    `json:"attempt"`
}

// Enqueue pushes a task onto the logical at-least-once queue. Producers:
// the webhook handler, the manual re-analysis API, and new-commit events
// (spec §4.5).
func (f *Fabric) Enqueue(ctx context.Context, task AnalysisTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal analysis task: %w", err)
	}
	if err := f.redis.RPush(ctx, prAnalysisQueueKey, payload).Err(); err != nil {
		return f.classify(err)
	}
	return nil
}

// Dequeue blocks up to timeout waiting for a task. Returns (nil, nil) on a
// timeout with no task available — not an error, just an empty poll.
func (f *Fabric) Dequeue(ctx context.Context, timeout time.Duration) (*AnalysisTask, error) {
	result, err := f.redis.BLPop(ctx, timeout, prAnalysisQueueKey).Result()
	if err != nil {
		if isRedisNil(err) {
			return nil, nil
		}
		return nil, f.classify(err)
	}
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BLPOP result shape: %v", result)
	}
	var task AnalysisTask
	if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
		return nil, fmt.Errorf("unmarshal analysis task: %w", err)
	}
	return &task, nil
}

// EnqueueDelayed requeues a task after a delay, used when a worker loses a
// lock race and must back off rather than busy-loop. Blocks for delay, so
// callers that must keep consuming the queue should invoke this in its own
// goroutine rather than awaiting it inline.
func (f *Fabric) EnqueueDelayed(ctx context.Context, task AnalysisTask, delay time.Duration) error {
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	return f.Enqueue(ctx, task)
}

// QueueLength reports the current backlog size, for health/metrics surfaces.
func (f *Fabric) QueueLength(ctx context.Context) (int64, error) {
	n, err := f.redis.LLen(ctx, prAnalysisQueueKey).Result()
	if err != nil {
		return 0, f.classify(err)
	}
	return n, nil
}
