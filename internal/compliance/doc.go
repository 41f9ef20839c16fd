// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package compliance implements the Compliance API (spec §6): security
// audit ingestion, the compliance-score/risk-level report, the
// quality-grade letter computation, and the supplemented GDPR/data-subject
// audit export feature grounded on original_source's audit trail service.
package compliance
