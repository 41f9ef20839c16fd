// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analytics

import (
	"fmt"
	"sort"

	"github.com/kraklabs/cie-review/pkg/graphstore"
)

// adjacency is a plain directed-graph representation built once per
// analytics run from a GraphSnapshot, so every algorithm below walks an
// in-memory map instead of re-querying the store — mirrors the teacher's
// trace.go caching callees per source function during one trace.
type adjacency struct {
	nodes []string          // sorted node IDs, for deterministic iteration order
	out   map[string][]string
}

// buildModuleAdjacency builds the DEPENDS_ON graph over files/modules that
// cycle detection, layer violations, and coupling all operate on.
func buildModuleAdjacency(snap *graphstore.GraphSnapshot) *adjacency {
	out := map[string][]string{}
	seen := map[string]map[string]bool{}
	nodeSet := map[string]bool{}

	for _, f := range snap.Files {
		nodeSet[f.ID] = true
		if _, ok := out[f.ID]; !ok {
			out[f.ID] = nil
		}
	}
	for _, d := range snap.DependsOn {
		nodeSet[d.FromFileID] = true
		nodeSet[d.ToModuleID] = true
		if seen[d.FromFileID] == nil {
			seen[d.FromFileID] = map[string]bool{}
		}
		if seen[d.FromFileID][d.ToModuleID] {
			continue
		}
		seen[d.FromFileID][d.ToModuleID] = true
		out[d.FromFileID] = append(out[d.FromFileID], d.ToModuleID)
	}

	nodes := make([]string, 0, len(nodeSet))
	for id := range nodeSet {
		nodes = append(nodes, id)
	}
	sort.Strings(nodes)
	for _, adj := range out {
		sort.Strings(adj)
	}

	return &adjacency{nodes: nodes, out: out}
}

// resolveAdjacency walks the in-memory snapshot directly when idx is nil
// (unit tests, or an analytics call made outside a Review Orchestrator
// task), and otherwise reads neighbor lists back from the cycle index —
// the path that makes a task's repeated cycle/coupling/drift calls share
// one badger-backed adjacency instead of each re-deriving it from snap.
func resolveAdjacency(snap *graphstore.GraphSnapshot, idx *CycleIndex) (*adjacency, error) {
	if idx == nil {
		return buildModuleAdjacency(snap), nil
	}
	return buildIndexedAdjacency(snap, idx)
}

// buildIndexedAdjacency reconstructs the node/out-edge view FindCircularDependencies
// and LongestPaths walk, using idx.Neighbors instead of snap.DependsOn for the
// edges themselves.
func buildIndexedAdjacency(snap *graphstore.GraphSnapshot, idx *CycleIndex) (*adjacency, error) {
	nodeSet := map[string]bool{}
	for _, f := range snap.Files {
		nodeSet[f.ID] = true
	}
	for _, d := range snap.DependsOn {
		nodeSet[d.FromFileID] = true
		nodeSet[d.ToModuleID] = true
	}

	nodes := make([]string, 0, len(nodeSet))
	for id := range nodeSet {
		nodes = append(nodes, id)
	}
	sort.Strings(nodes)

	out := map[string][]string{}
	for _, node := range nodes {
		neighbors, err := idx.Neighbors(node)
		if err != nil {
			return nil, fmt.Errorf("cycle index neighbors for %q: %w", node, err)
		}
		out[node] = neighbors
	}

	return &adjacency{nodes: nodes, out: out}, nil
}
