// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// With thresholds {critical:0, high:3, medium:10, low:25} and counts
// {critical:0, high:4}, the specification's worked example expects
// fail_ci=true and drift_score>=75.
func TestComputeDriftScore_WorkedExample(t *testing.T) {
	report := ViolationReport{Counts: map[Severity]int{SeverityHigh: 4}}
	thresholds := DriftThresholds{Critical: 0, High: 3, Medium: 10, Low: 25}

	drift := ComputeDriftScore(report, thresholds)

	assert.True(t, drift.FailCI)
	assert.GreaterOrEqual(t, drift.Score, 75)
}

func TestComputeDriftScore_NoViolationsIsZeroAndPasses(t *testing.T) {
	report := ViolationReport{Counts: map[Severity]int{}}
	thresholds := DriftThresholds{Critical: 0, High: 3, Medium: 10, Low: 25}

	drift := ComputeDriftScore(report, thresholds)

	assert.Equal(t, 0, drift.Score)
	assert.False(t, drift.FailCI)
}

func TestComputeDriftScore_VolumeBumpClampedAt100(t *testing.T) {
	report := ViolationReport{Counts: map[Severity]int{SeverityCritical: 1, SeverityHigh: 60}}
	thresholds := DriftThresholds{Critical: 0, High: 0, Medium: 0, Low: 0}

	drift := ComputeDriftScore(report, thresholds)

	assert.Equal(t, 100, drift.Score)
	assert.True(t, drift.FailCI)
}

func TestComputeDriftScore_CriticalOverThresholdAlwaysFailsCI(t *testing.T) {
	report := ViolationReport{Counts: map[Severity]int{SeverityCritical: 1}}
	thresholds := DriftThresholds{Critical: 0, High: 100, Medium: 100, Low: 100}

	drift := ComputeDriftScore(report, thresholds)
	assert.True(t, drift.FailCI)
}
