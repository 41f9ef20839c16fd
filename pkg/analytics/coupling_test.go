// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/cie-review/pkg/ast"
)

func TestComputeCoupling_PureSourceIsFullyUnstable(t *testing.T) {
	snap := snapshotWithDeps([2]string{"a", "b"}, [2]string{"a", "c"})
	report := ComputeCoupling(snap, nil)

	var a CouplingMetrics
	for _, m := range report.Modules {
		if m.ID == "a" {
			a = m
		}
	}
	require.Equal(t, 2, a.Efferent)
	require.Equal(t, 0, a.Afferent)
	assert.InDelta(t, 1.0, a.Instability, 0.0001)
	assert.True(t, a.HighlyUnstable)
}

func TestComputeCoupling_PureSinkIsFullyStable(t *testing.T) {
	snap := snapshotWithDeps([2]string{"a", "b"}, [2]string{"c", "b"})
	report := ComputeCoupling(snap, nil)

	var b CouplingMetrics
	for _, m := range report.Modules {
		if m.ID == "b" {
			b = m
		}
	}
	require.Equal(t, 0, b.Efferent)
	require.Equal(t, 2, b.Afferent)
	assert.InDelta(t, 0.0, b.Instability, 0.0001)
	assert.False(t, b.HighlyUnstable)
}

func TestComputeCoupling_IsolatedNodeHasZeroInstability(t *testing.T) {
	snap := snapshotWithDeps([2]string{"a", "b"})
	snap.Files = append(snap.Files, ast.FileNode{ID: "isolated", Path: "isolated"})
	report := ComputeCoupling(snap, nil)
	for _, m := range report.Modules {
		if m.ID == "isolated" {
			assert.Equal(t, 0.0, m.Instability)
		}
		assert.GreaterOrEqual(t, m.Instability, 0.0)
		assert.LessOrEqual(t, m.Instability, 1.0)
	}
}
