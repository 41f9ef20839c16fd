// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/cie-review/pkg/ast"
	"github.com/kraklabs/cie-review/pkg/graphstore"
)

func snapshotWithDeps(edges ...[2]string) *graphstore.GraphSnapshot {
	snap := &graphstore.GraphSnapshot{}
	seen := map[string]bool{}
	for _, e := range edges {
		for _, id := range e {
			if !seen[id] {
				seen[id] = true
				snap.Files = append(snap.Files, ast.FileNode{ID: id, Path: id})
			}
		}
		snap.DependsOn = append(snap.DependsOn, ast.DependsOnEdge{FromFileID: e[0], ToModuleID: e[1], Weight: 1})
	}
	return snap
}

func TestFindCircularDependencies_TwoNodeCycleIsCritical(t *testing.T) {
	snap := snapshotWithDeps([2]string{"a", "b"}, [2]string{"b", "a"})
	report := FindCircularDependencies(snap, 0, 0, 0, nil)

	require.Len(t, report.Cycles, 1)
	assert.Equal(t, 2, report.Cycles[0].Length)
	assert.Equal(t, SeverityCritical, report.Cycles[0].Severity)
	assert.False(t, report.Truncated)
}

// Scenario C from the specification: a.py -> b.py -> c.py -> a.py yields
// exactly one 3-length cycle, severity high, no duplicate rotations.
func TestFindCircularDependencies_ThreeNodeCycleNoDuplicateRotations(t *testing.T) {
	snap := snapshotWithDeps(
		[2]string{"a.py", "b.py"},
		[2]string{"b.py", "c.py"},
		[2]string{"c.py", "a.py"},
	)
	report := FindCircularDependencies(snap, 2, 10, 100, nil)

	require.Len(t, report.Cycles, 1)
	assert.Equal(t, 3, report.Cycles[0].Length)
	assert.Equal(t, SeverityHigh, report.Cycles[0].Severity)
	assert.ElementsMatch(t, []string{"a.py", "b.py", "c.py"}, report.Cycles[0].Nodes)
}

func TestFindCircularDependencies_NoCycleInDAG(t *testing.T) {
	snap := snapshotWithDeps([2]string{"a", "b"}, [2]string{"b", "c"})
	report := FindCircularDependencies(snap, 2, 10, 100, nil)
	assert.Empty(t, report.Cycles)
}

func TestFindCircularDependencies_CapSetsTruncated(t *testing.T) {
	// Five independent 2-cycles; cap at 3 should truncate and flag it.
	snap := snapshotWithDeps(
		[2]string{"a1", "a2"}, [2]string{"a2", "a1"},
		[2]string{"b1", "b2"}, [2]string{"b2", "b1"},
		[2]string{"c1", "c2"}, [2]string{"c2", "c1"},
		[2]string{"d1", "d2"}, [2]string{"d2", "d1"},
		[2]string{"e1", "e2"}, [2]string{"e2", "e1"},
	)
	report := FindCircularDependencies(snap, 2, 10, 3, nil)
	assert.Len(t, report.Cycles, 3)
	assert.True(t, report.Truncated)
}

func TestFindCircularDependencies_OrderedByLengthThenLexicographic(t *testing.T) {
	snap := snapshotWithDeps(
		[2]string{"x", "y"}, [2]string{"y", "x"},
		[2]string{"a", "b"}, [2]string{"b", "a"},
	)
	report := FindCircularDependencies(snap, 2, 10, 100, nil)
	require.Len(t, report.Cycles, 2)
	assert.Equal(t, []string{"a", "b"}, report.Cycles[0].Nodes)
	assert.Equal(t, []string{"x", "y"}, report.Cycles[1].Nodes)
}
