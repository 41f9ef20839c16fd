// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package compliance

import "context"

// QualityGrade is the §6 "GET /security-audit/quality-grade/{project_id}"
// response.
type QualityGrade struct {
	ProjectID       string `json:"project_id"`
	Grade           string `json:"grade"`
	CriticalCount   int    `json:"critical_count"`
	HighCount       int    `json:"high_count"`
	ComplianceScore int    `json:"compliance_score"`
}

// QualityGrade computes the letter grade from spec §6's thresholds, over
// the aggregate of every security audit ever recorded for the project.
func (s *Service) QualityGrade(ctx context.Context, projectID string) (*QualityGrade, error) {
	critical, high, _, avgCompliance, err := s.store.SecurityAudits.AggregateForProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	compliance := int(avgCompliance)
	return &QualityGrade{
		ProjectID:       projectID,
		Grade:           letterGrade(critical, high, compliance),
		CriticalCount:   critical,
		HighCount:       high,
		ComplianceScore: compliance,
	}, nil
}

// letterGrade applies spec §6's thresholds literally, evaluated in order
// from strictest to loosest — the first matching band wins.
func letterGrade(critical, high, compliance int) string {
	switch {
	case critical == 0 && high <= 2 && compliance >= 95:
		return "A+"
	case critical == 0 && high <= 5 && compliance >= 90:
		return "A"
	case critical <= 1 && high <= 10 && compliance >= 80:
		return "B"
	case critical <= 3 && high <= 20 && compliance >= 70:
		return "C"
	case critical <= 5 && high <= 30 && compliance >= 60:
		return "D"
	default:
		return "F"
	}
}
