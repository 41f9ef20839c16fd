// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analytics

import (
	"sort"
	"strings"

	"github.com/kraklabs/cie-review/pkg/graphstore"
)

const (
	// DefaultMinCycleLen and DefaultMaxCycleLen match the findCircularDependencies
	// default signature.
	DefaultMinCycleLen = 2
	DefaultMaxCycleLen = 10
	// DefaultCycleCap bounds result count to protect downstream consumers.
	DefaultCycleCap = 100
	// maxCycleSearchSteps is a safety valve against pathological graphs,
	// mirroring the teacher's maxNodesExplored cap in pkg/tools/trace.go.
	maxCycleSearchSteps = 200000
)

// FindCircularDependencies returns all simple cycles of length ℓ with
// minLen ≤ ℓ ≤ maxLen reachable among the project's files/modules,
// de-duplicated under rotation. Each cycle is found exactly once by only
// starting the search at the lexicographically minimum node of the cycle
// and restricting the walk to nodes no smaller than that start — any other
// rotation of the same cycle would otherwise visit a node smaller than its
// own start and is excluded.
//
// idx, when non-nil, must already have been Rebuild'ed from snap; the walk
// then reads neighbor lists back from it instead of re-deriving them from
// snap, so the cycle/coupling/drift calls within one Review Orchestrator
// task share a single badger-backed adjacency. A nil idx (unit tests,
// standalone callers) falls back to an in-memory adjacency built from snap.
func FindCircularDependencies(snap *graphstore.GraphSnapshot, minLen, maxLen, cap int, idx *CycleIndex) CycleReport {
	if minLen <= 0 {
		minLen = DefaultMinCycleLen
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxCycleLen
	}
	if cap <= 0 {
		cap = DefaultCycleCap
	}

	g, err := resolveAdjacency(snap, idx)
	if err != nil {
		g = buildModuleAdjacency(snap)
	}
	var found []Cycle
	steps := 0

	for _, start := range g.nodes {
		if steps >= maxCycleSearchSteps {
			break
		}
		visited := map[string]bool{start: true}
		path := []string{start}
		searchFrom(g, start, start, path, visited, minLen, maxLen, &found, &steps)
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].Length != found[j].Length {
			return found[i].Length < found[j].Length
		}
		return strings.Join(found[i].Nodes, "->") < strings.Join(found[j].Nodes, "->")
	})

	truncated := len(found) > cap
	if truncated {
		found = found[:cap]
	}
	return CycleReport{Cycles: found, Truncated: truncated}
}

func searchFrom(g *adjacency, start, current string, path []string, visited map[string]bool, minLen, maxLen int, found *[]Cycle, steps *int) {
	if *steps >= maxCycleSearchSteps {
		return
	}
	*steps++

	for _, next := range g.out[current] {
		if next < start {
			continue // would belong to a cycle whose canonical start is smaller
		}
		if next == start {
			if len(path) >= minLen {
				cycle := append([]string(nil), path...)
				*found = append(*found, Cycle{Nodes: cycle, Length: len(cycle), Severity: cycleSeverity(len(cycle))})
			}
			continue
		}
		if visited[next] || len(path) >= maxLen {
			continue
		}
		visited[next] = true
		searchFrom(g, start, next, append(path, next), visited, minLen, maxLen, found, steps)
		visited[next] = false
	}
}

func cycleSeverity(length int) Severity {
	switch {
	case length == 2:
		return SeverityCritical
	case length <= 4:
		return SeverityHigh
	case length <= 6:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
