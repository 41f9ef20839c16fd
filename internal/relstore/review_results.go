// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package relstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	cieerrors "github.com/kraklabs/cie-review/internal/errors"
)

// ReviewResult is one row of review_results; ai_suggestions is kept as raw
// JSON bytes so the orchestrator controls its own schema evolution.
type ReviewResult struct {
	ID              string
	PullRequestID   string
	AISuggestions   []byte // JSON
	ConfidenceScore *float64
	TotalIssues     int
	CriticalIssues  int
	CreatedAt       time.Time
}

type ReviewResultStore struct {
	pool *pgxpool.Pool
}

// Upsert replaces the single review_results row for a PR (UNIQUE on
// pull_request_id) — a new commit's review supersedes the previous one,
// matching "the review API always returns a review if one was ever
// produced" (spec §4.4 propagation policy): there is exactly one row to
// return per PR, always the latest.
func (s *ReviewResultStore) Upsert(ctx context.Context, r ReviewResult) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, `
INSERT INTO review_results (pull_request_id, ai_suggestions, confidence_score, total_issues, critical_issues)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (pull_request_id) DO UPDATE SET
    ai_suggestions = EXCLUDED.ai_suggestions,
    confidence_score = EXCLUDED.confidence_score,
    total_issues = EXCLUDED.total_issues,
    critical_issues = EXCLUDED.critical_issues,
    created_at = now()
RETURNING id`,
		r.PullRequestID, r.AISuggestions, r.ConfidenceScore, r.TotalIssues, r.CriticalIssues,
	).Scan(&id)
	if err != nil {
		return "", cieerrors.WithKind(cieerrors.KindStoreUnavailable, fmt.Errorf("upsert review result: %w", err))
	}
	return id, nil
}

func (s *ReviewResultStore) ByPullRequestID(ctx context.Context, pullRequestID string) (*ReviewResult, error) {
	var r ReviewResult
	err := s.pool.QueryRow(ctx, `SELECT id, pull_request_id, ai_suggestions, confidence_score, total_issues, critical_issues, created_at FROM review_results WHERE pull_request_id = $1`, pullRequestID).
		Scan(&r.ID, &r.PullRequestID, &r.AISuggestions, &r.ConfidenceScore, &r.TotalIssues, &r.CriticalIssues, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, cieerrors.WithKind(cieerrors.KindNotFound, err)
	}
	if err != nil {
		return nil, cieerrors.WithKind(cieerrors.KindStoreUnavailable, fmt.Errorf("query review result: %w", err))
	}
	return &r, nil
}
