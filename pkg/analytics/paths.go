// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analytics

import (
	"sort"
	"strings"

	"github.com/kraklabs/cie-review/pkg/graphstore"
)

// DefaultLongestPathCap bounds how many longest-path entries are reported.
const DefaultLongestPathCap = 20

// maxPathDepth bounds the DFS depth explored per starting node; dependency
// chains longer than this are vanishingly rare and would otherwise make the
// search pathological on a densely connected project.
const maxPathDepth = 30

// LongestPaths lists the longest acyclic DEPENDS_ON chains in a project,
// longest first, ties broken lexicographically for stable output. Bounded
// by cap the same way cycle detection is, for the same reason: protecting
// downstream consumers from an unbounded report.
func LongestPaths(snap *graphstore.GraphSnapshot, cap int) PathReport {
	if cap <= 0 {
		cap = DefaultLongestPathCap
	}
	g := buildModuleAdjacency(snap)

	var all []Path
	for _, start := range g.nodes {
		visited := map[string]bool{start: true}
		longestPathsFrom(g, start, []string{start}, visited, &all)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Length != all[j].Length {
			return all[i].Length > all[j].Length
		}
		return strings.Join(all[i].Nodes, "->") < strings.Join(all[j].Nodes, "->")
	})

	truncated := len(all) > cap
	if truncated {
		all = all[:cap]
	}
	return PathReport{Paths: all, Truncated: truncated}
}

// longestPathsFrom walks every simple path from start (up to maxPathDepth)
// and records each one that cannot be extended further: its last node has
// no unvisited successor, or the depth limit is reached.
func longestPathsFrom(g *adjacency, start string, path []string, visited map[string]bool, all *[]Path) {
	extended := false
	if len(path) < maxPathDepth {
		for _, next := range g.out[path[len(path)-1]] {
			if visited[next] {
				continue
			}
			extended = true
			visited[next] = true
			longestPathsFrom(g, start, append(path, next), visited, all)
			visited[next] = false
		}
	}
	if !extended && len(path) > 1 {
		*all = append(*all, Path{Nodes: append([]string(nil), path...), Length: len(path) - 1})
	}
}
