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

// AuditLogEntry is one append-only row of audit_logs. Entries are never
// mutated after insert (spec §3 "Lifecycles").
type AuditLogEntry struct {
	ID         int64
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	Changes    []byte // JSON
	IPAddress  string
	UserAgent  string
	Timestamp  time.Time
}

type AuditLogStore struct {
	pool *pgxpool.Pool
}

// Record appends one audit entry. It is called when the orchestrator returns
// a PR to PENDING after a failed step and for every webhook
// signature-validation failure; a PR reaching REVIEWED and a compliance
// audit ingest write no entry. There is no Update or Delete on this store.
func (s *AuditLogStore) Record(ctx context.Context, e AuditLogEntry) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO audit_logs (user_id, action, entity_type, entity_id, changes, ip_address, user_agent)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.UserID, e.Action, e.EntityType, e.EntityID, e.Changes, e.IPAddress, e.UserAgent,
	)
	if err != nil {
		return cieerrors.WithKind(cieerrors.KindStoreUnavailable, fmt.Errorf("record audit log: %w", err))
	}
	return nil
}

// ByEntity returns audit entries for one entity, most recent first. (The
// GDPR audit export is built on ByUser, not on this method.)
func (s *AuditLogStore) ByEntity(ctx context.Context, entityType, entityID string) ([]AuditLogEntry, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, user_id, action, entity_type, entity_id, changes, ip_address, user_agent, timestamp
FROM audit_logs WHERE entity_type = $1 AND entity_id = $2 ORDER BY timestamp DESC`, entityType, entityID)
	if err != nil {
		return nil, cieerrors.WithKind(cieerrors.KindStoreUnavailable, fmt.Errorf("query audit logs: %w", err))
	}
	defer rows.Close()

	var out []AuditLogEntry
	for rows.Next() {
		var e AuditLogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.EntityType, &e.EntityID, &e.Changes, &e.IPAddress, &e.UserAgent, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ByUser supports the GDPR export: every action a user is named as the
// actor for, across every entity type.
func (s *AuditLogStore) ByUser(ctx context.Context, userID string) ([]AuditLogEntry, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, user_id, action, entity_type, entity_id, changes, ip_address, user_agent, timestamp
FROM audit_logs WHERE user_id = $1 ORDER BY timestamp DESC`, userID)
	if err != nil {
		return nil, cieerrors.WithKind(cieerrors.KindStoreUnavailable, fmt.Errorf("query audit logs by user: %w", err))
	}
	defer rows.Close()

	var out []AuditLogEntry
	for rows.Next() {
		var e AuditLogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.EntityType, &e.EntityID, &e.Changes, &e.IPAddress, &e.UserAgent, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
