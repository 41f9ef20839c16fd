// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLongestPaths_LinearChain(t *testing.T) {
	snap := snapshotWithDeps([2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "d"})
	report := LongestPaths(snap, 0)

	require.NotEmpty(t, report.Paths)
	assert.Equal(t, 3, report.Paths[0].Length)
	assert.Equal(t, []string{"a", "b", "c", "d"}, report.Paths[0].Nodes)
	assert.False(t, report.Truncated)
}

func TestLongestPaths_BranchingPicksLongestFirst(t *testing.T) {
	snap := snapshotWithDeps(
		[2]string{"a", "b"}, [2]string{"b", "c"},
		[2]string{"a", "x"},
	)
	report := LongestPaths(snap, 0)
	require.NotEmpty(t, report.Paths)
	assert.Equal(t, 2, report.Paths[0].Length)
}
