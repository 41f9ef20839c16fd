// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analytics

import (
	"sort"

	"github.com/kraklabs/cie-review/pkg/graphstore"
)

// HighlyUnstableThreshold is the instability value above which a module is
// flagged informationally (spec §4.3 "Coupling metrics").
const HighlyUnstableThreshold = 0.8

// ComputeCoupling computes afferent/efferent/instability for every
// module/file reachable through DEPENDS_ON edges, ranked most unstable
// first.
//
// idx, when non-nil, must already have been Rebuild'ed from snap; counts are
// then read back from it (both the forward and reverse adjacency it caches)
// instead of re-walking snap.DependsOn, the same sharing FindCircularDependencies
// does within one Review Orchestrator task. A nil idx derives counts directly
// from snap.
func ComputeCoupling(snap *graphstore.GraphSnapshot, idx *CycleIndex) CouplingReport {
	nodes := map[string]bool{}
	for _, f := range snap.Files {
		nodes[f.ID] = true
	}
	for _, d := range snap.DependsOn {
		nodes[d.FromFileID] = true
		nodes[d.ToModuleID] = true
	}

	efferent, afferent, err := couplingCounts(snap, idx, nodes)
	if err != nil {
		efferent, afferent, _ = couplingCounts(snap, nil, nodes)
	}

	var metrics []CouplingMetrics
	for id := range nodes {
		e, a := efferent[id], afferent[id]
		instability := 0.0
		if a+e > 0 {
			instability = float64(e) / float64(a+e)
		}
		metrics = append(metrics, CouplingMetrics{
			ID: id, Afferent: a, Efferent: e,
			Instability:    instability,
			HighlyUnstable: instability > HighlyUnstableThreshold,
		})
	}

	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].Instability != metrics[j].Instability {
			return metrics[i].Instability > metrics[j].Instability
		}
		return metrics[i].ID < metrics[j].ID
	})

	return CouplingReport{Modules: metrics}
}

// couplingCounts returns efferent/afferent edge counts per node, either read
// from idx (both directions it caches) or derived directly from snap.DependsOn
// when idx is nil.
func couplingCounts(snap *graphstore.GraphSnapshot, idx *CycleIndex, nodes map[string]bool) (efferent, afferent map[string]int, err error) {
	efferent = map[string]int{}
	afferent = map[string]int{}

	if idx != nil {
		for id := range nodes {
			out, e := idx.Neighbors(id)
			if e != nil {
				return nil, nil, e
			}
			in, e := idx.Dependents(id)
			if e != nil {
				return nil, nil, e
			}
			efferent[id] = len(out)
			afferent[id] = len(in)
		}
		return efferent, afferent, nil
	}

	efferentSet := map[string]map[string]bool{}
	afferentSet := map[string]map[string]bool{}
	for _, d := range snap.DependsOn {
		if efferentSet[d.FromFileID] == nil {
			efferentSet[d.FromFileID] = map[string]bool{}
		}
		efferentSet[d.FromFileID][d.ToModuleID] = true
		if afferentSet[d.ToModuleID] == nil {
			afferentSet[d.ToModuleID] = map[string]bool{}
		}
		afferentSet[d.ToModuleID][d.FromFileID] = true
	}
	for id := range nodes {
		efferent[id] = len(efferentSet[id])
		afferent[id] = len(afferentSet[id])
	}
	return efferent, afferent, nil
}
