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

// SecurityAuditResult is one stored security-scan ingest (spec §6
// Compliance API `process-audit`).
type SecurityAuditResult struct {
	ID                 string
	ProjectID          string
	CommitSHA          string
	DeveloperID        string
	RawAudit           []byte // JSON
	ComplianceScore    float64
	VulnerabilityCount int
	RiskLevel          string
	SeverityBreakdown  []byte // JSON
	CreatedAt          time.Time
}

type SecurityAuditStore struct {
	pool *pgxpool.Pool
}

func (s *SecurityAuditStore) Insert(ctx context.Context, r SecurityAuditResult) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, `
INSERT INTO security_audit_results (project_id, commit_sha, developer_id, raw_audit, compliance_score, vulnerability_count, risk_level, severity_breakdown)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		r.ProjectID, r.CommitSHA, r.DeveloperID, r.RawAudit, r.ComplianceScore, r.VulnerabilityCount, r.RiskLevel, r.SeverityBreakdown,
	).Scan(&id)
	if err != nil {
		return "", cieerrors.WithKind(cieerrors.KindStoreUnavailable, fmt.Errorf("insert security audit: %w", err))
	}
	return id, nil
}

// AggregateForProject sums vulnerability counts by severity across every
// audit ever recorded for a project — the input to the quality-grade
// endpoint (spec §6).
func (s *SecurityAuditStore) AggregateForProject(ctx context.Context, projectID string) (critical, high, totalAudits int, avgCompliance float64, err error) {
	row := s.pool.QueryRow(ctx, `
SELECT
    COALESCE(SUM((severity_breakdown->>'critical')::int), 0),
    COALESCE(SUM((severity_breakdown->>'high')::int), 0),
    COUNT(*),
    COALESCE(AVG(compliance_score), 100)
FROM security_audit_results WHERE project_id = $1`, projectID)
	if scanErr := row.Scan(&critical, &high, &totalAudits, &avgCompliance); scanErr != nil {
		return 0, 0, 0, 0, cieerrors.WithKind(cieerrors.KindStoreUnavailable, fmt.Errorf("aggregate security audits: %w", scanErr))
	}
	return critical, high, totalAudits, avgCompliance, nil
}
