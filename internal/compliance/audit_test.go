// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package compliance

import "testing"

func TestRiskLevel_Bands(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, "LOW"},
		{90, "LOW"},
		{89, "MEDIUM"},
		{70, "MEDIUM"},
		{69, "HIGH"},
		{50, "HIGH"},
		{49, "CRITICAL"},
		{0, "CRITICAL"},
	}
	for _, c := range cases {
		if got := riskLevel(c.score); got != c.want {
			t.Errorf("riskLevel(%d) = %q, want %q", c.score, got, c.want)
		}
	}
}
