// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycleIndex_RebuildAndNeighbors(t *testing.T) {
	idx, err := OpenCycleIndex(t.TempDir(), "proj")
	require.NoError(t, err)
	defer idx.Close()

	snap := snapshotWithDeps([2]string{"a", "b"}, [2]string{"a", "c"})
	require.NoError(t, idx.Rebuild(snap))

	neighbors, err := idx.Neighbors("a")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b", "c"}, neighbors)

	none, err := idx.Neighbors("does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestCycleIndex_DependentsIsReverseOfNeighbors(t *testing.T) {
	idx, err := OpenCycleIndex(t.TempDir(), "proj")
	require.NoError(t, err)
	defer idx.Close()

	snap := snapshotWithDeps([2]string{"a", "c"}, [2]string{"b", "c"})
	require.NoError(t, idx.Rebuild(snap))

	dependents, err := idx.Dependents("c")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, dependents)
}

// FindCircularDependencies and ComputeCoupling must agree whether they read
// an adjacency from the cycle index or derive one from snap directly.
func TestCycleIndex_BackedQueriesMatchInMemory(t *testing.T) {
	snap := snapshotWithDeps(
		[2]string{"a.py", "b.py"},
		[2]string{"b.py", "c.py"},
		[2]string{"c.py", "a.py"},
	)

	idx, err := OpenCycleIndex(t.TempDir(), "proj")
	require.NoError(t, err)
	defer idx.Close()
	require.NoError(t, idx.Rebuild(snap))

	withIndex := FindCircularDependencies(snap, 2, 10, 100, idx)
	withoutIndex := FindCircularDependencies(snap, 2, 10, 100, nil)
	assert.Equal(t, withoutIndex, withIndex)

	couplingWithIndex := ComputeCoupling(snap, idx)
	couplingWithoutIndex := ComputeCoupling(snap, nil)
	assert.Equal(t, couplingWithoutIndex, couplingWithIndex)
}
