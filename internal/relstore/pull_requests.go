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

// PullRequest is one row of pull_requests (spec §6 persisted relational
// schema).
type PullRequest struct {
	ID                string
	ProjectID         string
	ExternalPRNumber  int
	Title             string
	Description       string
	Status            string
	RiskScore         *float64
	BranchName        string
	CommitSHA         string
	FilesChanged      int
	LinesAdded        int
	LinesDeleted      int
	CreatedAt         time.Time
	AnalyzedAt        *time.Time
	ReviewedAt        *time.Time
}

type PullRequestStore struct {
	pool *pgxpool.Pool
}

// Upsert creates a PR row on first webhook delivery or updates the mutable
// fields (title/description/branch/commit/diff stats) on later deliveries,
// per spec §3 "A PR row is created on first webhook, mutated by later
// deliveries and by the orchestrator, never deleted by the core."
func (s *PullRequestStore) Upsert(ctx context.Context, pr PullRequest) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, `
INSERT INTO pull_requests (project_id, external_pr_number, title, description, branch_name, commit_sha, files_changed, lines_added, lines_deleted)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (project_id, external_pr_number) DO UPDATE SET
    title = EXCLUDED.title,
    description = EXCLUDED.description,
    branch_name = EXCLUDED.branch_name,
    commit_sha = EXCLUDED.commit_sha,
    files_changed = EXCLUDED.files_changed,
    lines_added = EXCLUDED.lines_added,
    lines_deleted = EXCLUDED.lines_deleted
RETURNING id`,
		pr.ProjectID, pr.ExternalPRNumber, pr.Title, pr.Description, pr.BranchName, pr.CommitSHA,
		pr.FilesChanged, pr.LinesAdded, pr.LinesDeleted,
	).Scan(&id)
	if err != nil {
		return "", cieerrors.WithKind(cieerrors.KindStoreUnavailable, fmt.Errorf("upsert pull request: %w", err))
	}
	return id, nil
}

// SetStatus transitions the PR's state-machine status (spec §4.4), and
// stamps analyzed_at/reviewed_at when moving into those states.
func (s *PullRequestStore) SetStatus(ctx context.Context, id, status string) error {
	var stampCol string
	switch status {
	case "ANALYZING":
		stampCol = "analyzed_at"
	case "REVIEWED":
		stampCol = "reviewed_at"
	default:
		stampCol = ""
	}

	query := `UPDATE pull_requests SET status = $2`
	args := []any{id, status}
	if stampCol != "" {
		query += fmt.Sprintf(`, %s = now()`, stampCol)
	}
	query += ` WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return cieerrors.WithKind(cieerrors.KindStoreUnavailable, fmt.Errorf("set pull request status: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return cieerrors.WithKind(cieerrors.KindNotFound, fmt.Errorf("pull request %s not found", id))
	}
	return nil
}

// SetRiskScore records the orchestrator's computed risk score, clamped to
// [0,1] by the caller before this call (the column constraint enforces it
// as a last line of defense).
func (s *PullRequestStore) SetRiskScore(ctx context.Context, id string, riskScore float64) error {
	_, err := s.pool.Exec(ctx, `UPDATE pull_requests SET risk_score = $2 WHERE id = $1`, id, riskScore)
	if err != nil {
		return cieerrors.WithKind(cieerrors.KindStoreUnavailable, fmt.Errorf("set risk score: %w", err))
	}
	return nil
}

func (s *PullRequestStore) ByID(ctx context.Context, id string) (*PullRequest, error) {
	return s.scanOne(ctx, `SELECT id, project_id, external_pr_number, title, description, status, risk_score, branch_name, commit_sha, files_changed, lines_added, lines_deleted, created_at, analyzed_at, reviewed_at FROM pull_requests WHERE id = $1`, id)
}

func (s *PullRequestStore) ByProjectAndNumber(ctx context.Context, projectID string, externalPRNumber int) (*PullRequest, error) {
	return s.scanOne(ctx, `SELECT id, project_id, external_pr_number, title, description, status, risk_score, branch_name, commit_sha, files_changed, lines_added, lines_deleted, created_at, analyzed_at, reviewed_at FROM pull_requests WHERE project_id = $1 AND external_pr_number = $2`, projectID, externalPRNumber)
}

func (s *PullRequestStore) scanOne(ctx context.Context, query string, args ...any) (*PullRequest, error) {
	var pr PullRequest
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&pr.ID, &pr.ProjectID, &pr.ExternalPRNumber, &pr.Title, &pr.Description, &pr.Status,
		&pr.RiskScore, &pr.BranchName, &pr.CommitSHA, &pr.FilesChanged, &pr.LinesAdded, &pr.LinesDeleted,
		&pr.CreatedAt, &pr.AnalyzedAt, &pr.ReviewedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, cieerrors.WithKind(cieerrors.KindNotFound, err)
	}
	if err != nil {
		return nil, cieerrors.WithKind(cieerrors.KindStoreUnavailable, fmt.Errorf("query pull request: %w", err))
	}
	return &pr, nil
}

// ListByProject returns PR summaries filtered by state, per spec §6's
// `GET /projects/{id}/pulls?state=open|closed|all`.
func (s *PullRequestStore) ListByProject(ctx context.Context, projectID, state string) ([]PullRequest, error) {
	query := `SELECT id, project_id, external_pr_number, title, description, status, risk_score, branch_name, commit_sha, files_changed, lines_added, lines_deleted, created_at, analyzed_at, reviewed_at FROM pull_requests WHERE project_id = $1`
	args := []any{projectID}
	switch state {
	case "open":
		query += ` AND status <> 'CLOSED'`
	case "closed":
		query += ` AND status = 'CLOSED'`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, cieerrors.WithKind(cieerrors.KindStoreUnavailable, fmt.Errorf("list pull requests: %w", err))
	}
	defer rows.Close()

	var out []PullRequest
	for rows.Next() {
		var pr PullRequest
		if err := rows.Scan(&pr.ID, &pr.ProjectID, &pr.ExternalPRNumber, &pr.Title, &pr.Description, &pr.Status,
			&pr.RiskScore, &pr.BranchName, &pr.CommitSHA, &pr.FilesChanged, &pr.LinesAdded, &pr.LinesDeleted,
			&pr.CreatedAt, &pr.AnalyzedAt, &pr.ReviewedAt); err != nil {
			return nil, fmt.Errorf("scan pull request: %w", err)
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}
