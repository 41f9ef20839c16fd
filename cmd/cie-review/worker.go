// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/kraklabs/cie-review/internal/fabric"
	"github.com/kraklabs/cie-review/internal/relstore"
	"github.com/kraklabs/cie-review/internal/review"
	"github.com/kraklabs/cie-review/pkg/analytics"
)

const dequeueTimeout = 5 * time.Second

// runWorkerLoop repeatedly dequeues an analysis task from the Task Fabric
// and hands it to the orchestrator, until ctx is cancelled. A task whose
// orchestrator run fails transiently is already back in PENDING by the time
// Run returns (internal/review.Orchestrator.failTransient), and a future
// webhook delivery is what re-enqueues it — the worker itself never retries
// in place.
func runWorkerLoop(ctx context.Context, store *relstore.Store, fab *fabric.Fabric, orch *review.Orchestrator, logger *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		task, err := fab.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			logger.Error("worker.dequeue_failed", "err", err)
			continue
		}
		if task == nil {
			continue // poll timeout, nothing queued
		}

		reviewTask, err := buildReviewTask(ctx, store, *task)
		if err != nil {
			logger.Error("worker.build_task_failed", "pull_request_id", task.PullRequestID, "err", err)
			continue
		}

		logger.Info("worker.task_started", "pull_request_id", task.PullRequestID, "attempt", task.Attempt)
		if err := orch.Run(ctx, reviewTask); err != nil {
			logger.Error("worker.task_failed", "pull_request_id", task.PullRequestID, "err", err)
			continue
		}
		logger.Info("worker.task_completed", "pull_request_id", task.PullRequestID)
	}
}

// buildReviewTask enriches a fabric.AnalysisTask with the PR metadata the
// orchestrator needs but the queue entry itself doesn't carry (spec §4.5
// keeps the queue payload minimal: pull_request_id, project_id, commit_sha,
// attempt).
func buildReviewTask(ctx context.Context, store *relstore.Store, task fabric.AnalysisTask) (review.Task, error) {
	pr, err := store.PullRequests.ByID(ctx, task.PullRequestID)
	if err != nil {
		return review.Task{}, err
	}

	rt := review.Task{
		PullRequestID:    task.PullRequestID,
		ProjectID:        task.ProjectID,
		ExternalPRNumber: pr.ExternalPRNumber,
		CommitSHA:        task.CommitSHA,
		RepoIdentity:     task.ProjectID,
		Attempt:          task.Attempt,
	}

	baseline, err := store.Baselines.Latest(ctx, task.ProjectID)
	if err == nil && baseline != nil {
		var schema analytics.LayerSchema
		if jsonErr := json.Unmarshal(baseline.LayerSchema, &schema); jsonErr == nil {
			rt.LayerSchema = &schema
		}
	}

	return rt, nil
}
