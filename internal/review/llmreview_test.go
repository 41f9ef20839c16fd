// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package review

import "testing"

func TestExtractJSON_StripsSurroundingProse(t *testing.T) {
	text := "Here is my analysis:\n```json\n{\"summary\":\"ok\",\"risk_score\":10,\"issues\":[]}\n```\nEnd."
	got := extractJSON(text)
	want := `{"summary":"ok","risk_score":10,"issues":[]}`
	if got != want {
		t.Errorf("extractJSON = %q, want %q", got, want)
	}
}

func TestExtractJSON_NoObjectReturnsInputUnchanged(t *testing.T) {
	text := "no json here"
	if got := extractJSON(text); got != text {
		t.Errorf("extractJSON = %q, want unchanged input", got)
	}
}

func TestNeutralReview_RiskScoreIsFifty(t *testing.T) {
	r := neutralReview()
	if r.RiskScore != neutralReviewRiskScore {
		t.Errorf("RiskScore = %v, want %v", r.RiskScore, neutralReviewRiskScore)
	}
	if len(r.Issues) != 1 {
		t.Fatalf("expected exactly one fallback issue, got %d", len(r.Issues))
	}
}
