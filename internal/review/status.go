// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package review

import (
	"context"
	"fmt"

	"github.com/kraklabs/cie-review/pkg/analytics"
	"github.com/kraklabs/cie-review/pkg/graphstore"
)

const (
	statusContextReview = "ai-code-review"
	statusContextDrift  = "architectural-drift"

	// riskFailureThreshold is the risk_score (0-100 scale, pre-normalization)
	// at or above which the posted commit status is "failure" (spec §4.4 step 10).
	riskFailureThreshold = 70
)

// postReviewStatus implements spec §4.4 step 10, guarding against a race
// where a newer commit's analysis has already superseded this one (spec §5
// "Ordering guarantees": "the orchestrator must therefore post status only
// if the PR's currently-stored commit_sha still matches the SHA it
// analyzed").
func (o *Orchestrator) postReviewStatus(ctx context.Context, task Task, payload ReviewPayload) error {
	pr, err := o.store.PullRequests.ByID(ctx, task.PullRequestID)
	if err != nil {
		return err
	}
	if pr.CommitSHA != task.CommitSHA {
		return nil // a newer commit has already superseded this analysis
	}

	state := CommitStatusSuccess
	if payload.RiskScore >= riskFailureThreshold {
		state = CommitStatusFailure
	}
	description := fmt.Sprintf("%d issue(s) found, risk score %.0f", len(payload.Issues), payload.RiskScore)

	return o.host.PostCommitStatus(ctx, task.ProjectID, task.CommitSHA, CommitStatus{
		Context:     statusContextReview,
		State:       state,
		Description: description,
	})
}

// postDriftStatus implements spec §4.4 step 11: run the §4.3 drift
// evaluation against the project's golden-standard schema and post a
// separate status whose state follows fail_ci. idx is the same per-task
// cycle index buildContextBundle used, so the cyclic-violation pass here
// reads the same cached adjacency rather than rebuilding it.
func (o *Orchestrator) postDriftStatus(ctx context.Context, task Task, snap *graphstore.GraphSnapshot, schema analytics.LayerSchema, idx *analytics.CycleIndex) error {
	violations := analytics.FindLayerViolations(snap, schema, idx)
	drift := analytics.ComputeDriftScore(violations, schema.Thresholds)

	state := CommitStatusSuccess
	if drift.FailCI {
		state = CommitStatusFailure
	}
	description := fmt.Sprintf("drift score %d, %d violation(s)", drift.Score, len(violations.Violations))

	return o.host.PostCommitStatus(ctx, task.ProjectID, task.CommitSHA, CommitStatus{
		Context:     statusContextDrift,
		State:       state,
		Description: description,
	})
}
