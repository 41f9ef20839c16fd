// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package compliance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kraklabs/cie-review/internal/relstore"
)

// severityWeights and the critical/high per-vulnerability penalties are
// carried from original_source's SecurityComplianceService.calculate_compliance_score
// — a compliance score is 100 minus a severity-weighted total impact, with
// an extra flat penalty per critical/high finding.
var severityWeights = map[string]int{
	"low":      5,
	"moderate": 15,
	"high":     40,
	"critical": 80,
}

const (
	criticalPenaltyPerFinding = 20
	highPenaltyPerFinding     = 10
)

// npmAuditVulnerability is the subset of an `npm audit --json` vulnerability
// entry this service consumes.
type npmAuditVulnerability struct {
	Severity string `json:"severity"`
}

type npmAuditReport struct {
	Vulnerabilities map[string]npmAuditVulnerability `json:"vulnerabilities"`
}

// ComplianceReport is the §6 "POST /security-compliance/process-audit"
// response shape.
type ComplianceReport struct {
	ProjectID          string         `json:"project_id"`
	ComplianceScore    int            `json:"compliance_score"`
	VulnerabilityCount int            `json:"vulnerability_count"`
	RiskLevel          string         `json:"risk_level"`
	SeverityBreakdown  map[string]int `json:"severity_breakdown"`
}

// Service implements the Compliance API against the relational plane.
type Service struct {
	store *relstore.Store
}

func New(store *relstore.Store) *Service {
	return &Service{store: store}
}

// ProcessAudit parses a raw npm-audit-shaped JSON document, computes a
// compliance report, and persists the scan result (spec §6).
func (s *Service) ProcessAudit(ctx context.Context, projectID string, auditJSON []byte, commitSHA, developerID string) (*ComplianceReport, error) {
	var report npmAuditReport
	if err := json.Unmarshal(auditJSON, &report); err != nil {
		return nil, fmt.Errorf("parse audit json: %w", err)
	}

	breakdown := map[string]int{}
	totalImpact := 0
	critical, high := 0, 0
	for _, vuln := range report.Vulnerabilities {
		severity := strings.ToLower(vuln.Severity)
		weight, ok := severityWeights[severity]
		if !ok {
			severity = "low"
			weight = severityWeights["low"]
		}
		breakdown[severity]++
		totalImpact += weight
		switch severity {
		case "critical":
			critical++
		case "high":
			high++
		}
	}

	score := 100
	if len(report.Vulnerabilities) > 0 {
		penalty := totalImpact + critical*criticalPenaltyPerFinding + high*highPenaltyPerFinding
		score = 100 - penalty
		if score < 0 {
			score = 0
		}
	}

	out := &ComplianceReport{
		ProjectID:          projectID,
		ComplianceScore:    score,
		VulnerabilityCount: len(report.Vulnerabilities),
		RiskLevel:          riskLevel(score),
		SeverityBreakdown:  breakdown,
	}

	severityJSON, err := json.Marshal(breakdown)
	if err != nil {
		return nil, fmt.Errorf("marshal severity breakdown: %w", err)
	}

	if _, err := s.store.SecurityAudits.Insert(ctx, relstore.SecurityAuditResult{
		ProjectID:          projectID,
		CommitSHA:          commitSHA,
		DeveloperID:        developerID,
		RawAudit:           auditJSON,
		ComplianceScore:    float64(score),
		VulnerabilityCount: len(report.Vulnerabilities),
		RiskLevel:          out.RiskLevel,
		SeverityBreakdown:  severityJSON,
	}); err != nil {
		return nil, err
	}

	return out, nil
}

// riskLevel applies original_source's compliance-score-to-risk-level bands
// unchanged.
func riskLevel(complianceScore int) string {
	switch {
	case complianceScore >= 90:
		return "LOW"
	case complianceScore >= 70:
		return "MEDIUM"
	case complianceScore >= 50:
		return "HIGH"
	default:
		return "CRITICAL"
	}
}
