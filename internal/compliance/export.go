// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package compliance

import (
	"context"

	"github.com/kraklabs/cie-review/internal/relstore"
)

// ExportDeveloperAuditTrail returns every audit_logs row naming developerID
// as the acting user — the supplemented GDPR/data-subject export feature
// (original_source's audit_trail.py supports exporting one actor's history;
// audit_logs already schema-carries user_id for exactly this purpose).
func (s *Service) ExportDeveloperAuditTrail(ctx context.Context, developerID string) ([]relstore.AuditLogEntry, error) {
	return s.store.AuditLogs.ByUser(ctx, developerID)
}
