// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package relstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	cieerrors "github.com/kraklabs/cie-review/internal/errors"
)

// ProjectBaseline is a read-only snapshot of a project's golden-standard
// layer schema and drift state at the time it was captured. The worker uses
// the LayerSchema of a project's latest baseline as the schema a task's
// drift verdict is computed against; the stored DriftScore and
// ViolationCounts are history only and never feed a verdict.
type ProjectBaseline struct {
	ID              string
	ProjectID       string
	LayerSchema     []byte // JSON
	DriftScore      int
	ViolationCounts []byte // JSON
	CapturedAt      time.Time
}

type ProjectBaselineStore struct {
	pool *pgxpool.Pool
}

func (s *ProjectBaselineStore) Capture(ctx context.Context, b ProjectBaseline) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, `
INSERT INTO project_baselines (project_id, layer_schema, drift_score, violation_counts)
VALUES ($1, $2, $3, $4) RETURNING id`,
		b.ProjectID, b.LayerSchema, b.DriftScore, b.ViolationCounts,
	).Scan(&id)
	if err != nil {
		return "", cieerrors.WithKind(cieerrors.KindStoreUnavailable, fmt.Errorf("capture baseline: %w", err))
	}
	return id, nil
}

// Latest returns the most recently captured baseline for a project, or
// KindNotFound if none has ever been captured.
func (s *ProjectBaselineStore) Latest(ctx context.Context, projectID string) (*ProjectBaseline, error) {
	var b ProjectBaseline
	err := s.pool.QueryRow(ctx, `
SELECT id, project_id, layer_schema, drift_score, violation_counts, captured_at
FROM project_baselines WHERE project_id = $1 ORDER BY captured_at DESC LIMIT 1`, projectID).
		Scan(&b.ID, &b.ProjectID, &b.LayerSchema, &b.DriftScore, &b.ViolationCounts, &b.CapturedAt)
	if err != nil {
		return nil, cieerrors.WithKind(cieerrors.KindNotFound, fmt.Errorf("no baseline for project %s: %w", projectID, err))
	}
	return &b, nil
}
