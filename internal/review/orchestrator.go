// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package review

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	cieerrors "github.com/kraklabs/cie-review/internal/errors"
	"github.com/kraklabs/cie-review/internal/fabric"
	"github.com/kraklabs/cie-review/internal/relstore"
	"github.com/kraklabs/cie-review/pkg/analytics"
	"github.com/kraklabs/cie-review/pkg/ast"
	"github.com/kraklabs/cie-review/pkg/graphstore"
	"github.com/kraklabs/cie-review/pkg/llm"
)

// DefaultTaskDeadline and DefaultLockTTL are the per-task deadline and lock
// TTL from spec §5 "Cancellation and timeouts" / §4.5; the lock lives as long
// as the task may run. lockRequeueDelay is how long a task that lost the lock
// race waits before it is put back on the queue.
const (
	DefaultTaskDeadline = 30 * time.Minute
	DefaultLockTTL      = DefaultTaskDeadline
	lockRequeueDelay    = 30 * time.Second
)

// Parser is the subset of *ast.Registry the orchestrator depends on.
type Parser interface {
	ParseFile(projectID, path string, content []byte) (*ast.ParsedFile, error)
}

// Task is one unit of work the orchestrator drives to a terminal state.
type Task struct {
	PullRequestID    string
	ProjectID        string
	ExternalPRNumber int
	CommitSHA        string
	RepoIdentity     string
	Attempt          int

	// LayerSchema and BaselineRules are optional: when nil/empty, drift
	// evaluation and baseline-rule injection are skipped for this task.
	LayerSchema   *analytics.LayerSchema
	BaselineRules string
}

// Orchestrator drives Task.Run end to end (spec §4.4).
type Orchestrator struct {
	store   *relstore.Store
	graph   *graphstore.Adapter
	parsers Parser
	llm     llm.Provider
	host    SourceHost
	fabric  *fabric.Fabric
	cache   *fabric.AnalysisCache
	logger  *slog.Logger
}

func New(store *relstore.Store, graph *graphstore.Adapter, parsers Parser, provider llm.Provider, host SourceHost, fab *fabric.Fabric, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		store:   store,
		graph:   graph,
		parsers: parsers,
		llm:     provider,
		host:    host,
		fabric:  fab,
		cache:   fabric.NewAnalysisCache(fab),
		logger:  logger,
	}
}

// Run executes one task's per-task algorithm (spec §4.4). Parse failures and
// LLM failures are absorbed in-line. A lock held by another worker is not an
// error: the task is put back on the queue after lockRequeueDelay and Run
// returns nil. Once the PR is marked ANALYZING, a failing step returns it to
// PENDING (failTransient) before its error is returned; Run itself never
// retries a step.
func (o *Orchestrator) Run(ctx context.Context, task Task) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTaskDeadline)
	defer cancel()

	lockID := uuid.NewString()
	resource := fmt.Sprintf("pr:%s", task.PullRequestID)
	acquired, err := o.fabric.AcquireLock(ctx, resource, lockID, DefaultLockTTL)
	if !acquired {
		if err != nil && cieerrors.KindOf(err) != cieerrors.KindLockUnavailable {
			return err
		}
		// another worker owns it; requeue this task after a delay
		go func() {
			_ = o.fabric.EnqueueDelayed(context.Background(), fabric.AnalysisTask{
				PullRequestID: task.PullRequestID,
				ProjectID:     task.ProjectID,
				CommitSHA:     task.CommitSHA,
				Attempt:       task.Attempt,
			}, lockRequeueDelay)
		}()
		return nil
	}
	defer o.fabric.ReleaseLock(context.Background(), resource, lockID)

	if err := o.store.PullRequests.SetStatus(ctx, task.PullRequestID, StatusAnalyzing); err != nil {
		return err
	}

	files, err := o.host.ListChangedFiles(ctx, task.ProjectID, task.ExternalPRNumber)
	if err != nil {
		return o.failTransient(ctx, task, "list_changed_files", err)
	}

	parsedCount, failedCount := o.projectChangedFiles(ctx, task.ProjectID, task.CommitSHA, files)
	o.logger.Info("review.orchestrator.projected_files",
		"project_id", task.ProjectID, "pull_request_id", task.PullRequestID,
		"parsed", parsedCount, "failed", failedCount)

	snap, err := o.snapshotGraph(ctx, task.ProjectID)
	if err != nil {
		return o.failTransient(ctx, task, "snapshot_graph", err)
	}

	idx := o.openCycleIndex(task.ProjectID, snap)
	if idx != nil {
		defer idx.Close()
	}

	var bundle string
	cacheErr := o.cache.GetOrBuild(ctx, task.PullRequestID, &bundle, func(ctx context.Context) (any, error) {
		return buildContextBundle(snap, task.LayerSchema, idx), nil
	})
	if cacheErr != nil {
		bundle = buildContextBundle(snap, task.LayerSchema, idx)
	}

	diff, err := o.host.FetchUnifiedDiff(ctx, task.ProjectID, task.ExternalPRNumber)
	if err != nil {
		return o.failTransient(ctx, task, "fetch_diff", err)
	}
	maxLines := DefaultDiffMaxLines
	if v, convErr := strconv.Atoi(os.Getenv("DIFF_MAX_LINES")); convErr == nil && v > 0 {
		maxLines = v
	}
	truncated := truncateDiff(diff, maxLines)

	pr, err := o.store.PullRequests.ByID(ctx, task.PullRequestID)
	if err != nil {
		return o.failTransient(ctx, task, "load_pull_request", err)
	}

	prompt := buildReviewPrompt(task.RepoIdentity, pr.Title, pr.Description, len(files), primaryLanguage(files), bundle, task.BaselineRules, truncated)
	payload := o.runLLMReview(ctx, reviewSystemPrompt, prompt)

	if err := o.persistReview(ctx, task.PullRequestID, payload); err != nil {
		return o.failTransient(ctx, task, "persist_review", err)
	}

	if err := o.postReviewStatus(ctx, task, payload); err != nil {
		o.logger.Warn("review.orchestrator.status_post_failed", "err", err)
	}

	if task.LayerSchema != nil {
		if err := o.postDriftStatus(ctx, task, snap, *task.LayerSchema, idx); err != nil {
			o.logger.Warn("review.orchestrator.drift_status_post_failed", "err", err)
		}
	}

	return nil
}

// openCycleIndex opens and rebuilds this task's cycle index, returning nil
// (never an error) on any failure: the analytics package falls back to an
// in-memory adjacency whenever idx is nil, so a badger problem degrades
// this task's analytics rather than failing it.
func (o *Orchestrator) openCycleIndex(projectID string, snap *graphstore.GraphSnapshot) *analytics.CycleIndex {
	idx, err := analytics.OpenCycleIndex(cycleIndexDir(projectID), projectID)
	if err != nil {
		o.logger.Warn("review.orchestrator.cycle_index_unavailable", "project_id", projectID, "err", err)
		return nil
	}
	if err := idx.Rebuild(snap); err != nil {
		o.logger.Warn("review.orchestrator.cycle_index_rebuild_failed", "project_id", projectID, "err", err)
		idx.Close()
		return nil
	}
	return idx
}

// persistReview stores the ReviewResult row and marks the PR REVIEWED
// (spec §4.4 step 9).
func (o *Orchestrator) persistReview(ctx context.Context, pullRequestID string, payload ReviewPayload) error {
	critical := 0
	var confidenceSum float64
	for _, issue := range payload.Issues {
		if issue.Severity == "critical" {
			critical++
		}
		confidenceSum += issue.Confidence
	}
	avgConfidence := 0.0
	if len(payload.Issues) > 0 {
		avgConfidence = confidenceSum / float64(len(payload.Issues)) / 100
	}

	suggestions, err := json.Marshal(payload.Issues)
	if err != nil {
		return fmt.Errorf("marshal ai suggestions: %w", err)
	}

	if _, err := o.store.ReviewResults.Upsert(ctx, relstore.ReviewResult{
		PullRequestID:   pullRequestID,
		AISuggestions:   suggestions,
		ConfidenceScore: &avgConfidence,
		TotalIssues:     len(payload.Issues),
		CriticalIssues:  critical,
	}); err != nil {
		return err
	}

	normalizedRisk := payload.RiskScore / 100
	if err := o.store.PullRequests.SetRiskScore(ctx, pullRequestID, normalizedRisk); err != nil {
		return err
	}
	return o.store.PullRequests.SetStatus(ctx, pullRequestID, StatusReviewed)
}

// failTransient records the failure to the audit trail and returns the PR
// to PENDING for a future re-drive (spec §4.4 "Error handling per step").
func (o *Orchestrator) failTransient(ctx context.Context, task Task, step string, cause error) error {
	changes, _ := json.Marshal(map[string]string{"step": step, "error": cause.Error()})
	_ = o.store.AuditLogs.Record(ctx, relstore.AuditLogEntry{
		Action:     "review.task.failed_transient",
		EntityType: "pull_request",
		EntityID:   task.PullRequestID,
		Changes:    changes,
	})
	_ = o.store.PullRequests.SetStatus(ctx, task.PullRequestID, StatusPending)
	return cieerrors.WithKind(cieerrors.KindStoreUnavailable, fmt.Errorf("%s: %w", step, cause))
}
