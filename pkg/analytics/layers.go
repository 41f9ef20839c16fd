// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analytics

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/kraklabs/cie-review/pkg/graphstore"
)

// ClassifyLayer tests a file path and its basename against each layer's
// patterns in declaration order; the first match wins. Returns "" when no
// layer matches.
func ClassifyLayer(schema LayerSchema, filePath string) string {
	base := filepath.Base(filePath)
	for _, layer := range schema.Layers {
		for _, pattern := range layer.PathPatterns {
			if matched, _ := path.Match(pattern, filePath); matched {
				return layer.Name
			}
			if matched, _ := path.Match(pattern, base); matched {
				return layer.Name
			}
		}
	}
	return ""
}

func layerByName(schema LayerSchema, name string) (Layer, bool) {
	for _, l := range schema.Layers {
		if l.Name == name {
			return l, true
		}
	}
	return Layer{}, false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// FindLayerViolations classifies every file by the golden-standard schema
// and evaluates each DEPENDS_ON edge from a classified source against the
// source layer's allow/forbid lists, then folds in the cycle detector's
// findings as severity-critical cyclic_dependency violations (spec §4.3
// step 3). idx is forwarded to FindCircularDependencies unchanged — see
// its doc comment.
func FindLayerViolations(snap *graphstore.GraphSnapshot, schema LayerSchema, idx *CycleIndex) ViolationReport {
	fileLayer := map[string]string{}
	fileLayerByPath := map[string]string{}
	for _, f := range snap.Files {
		layer := ClassifyLayer(schema, f.Path)
		fileLayer[f.ID] = layer
		fileLayerByPath[f.Path] = layer
	}

	var violations []Violation
	for _, dep := range snap.DependsOn {
		srcLayer, ok := fileLayer[dep.FromFileID]
		if !ok || srcLayer == "" {
			continue
		}
		tgtLayer, ok := fileLayer[dep.ToModuleID]
		if !ok || tgtLayer == "" {
			// Target is a module (not a classified file); infer its layer from
			// the module name using the same pattern match (spec §4.3 step 2).
			tgtLayer = ClassifyLayer(schema, dep.ToModuleID)
		}
		if tgtLayer == "" {
			continue
		}

		layer, ok := layerByName(schema, srcLayer)
		if !ok {
			continue
		}

		switch {
		case contains(layer.ForbiddenDependencies, tgtLayer):
			violations = append(violations, Violation{
				Type: ViolationForbidden, Severity: SeverityHigh,
				SourceLayer: srcLayer, TargetLayer: tgtLayer,
				SourceID: dep.FromFileID, TargetID: dep.ToModuleID,
				Reason: fmt.Sprintf("layer %q forbids depending on layer %q", srcLayer, tgtLayer),
			})
		case len(layer.AllowedDependencies) > 0 && !contains(layer.AllowedDependencies, tgtLayer):
			violations = append(violations, Violation{
				Type: ViolationDisallowed, Severity: SeverityHigh,
				SourceLayer: srcLayer, TargetLayer: tgtLayer,
				SourceID: dep.FromFileID, TargetID: dep.ToModuleID,
				Reason: fmt.Sprintf("layer %q only allows %v, got %q", srcLayer, layer.AllowedDependencies, tgtLayer),
			})
		}
	}

	cycles := FindCircularDependencies(snap, DefaultMinCycleLen, DefaultMaxCycleLen, DefaultCycleCap, idx)
	for _, c := range cycles.Cycles {
		violations = append(violations, Violation{
			Type:     ViolationCyclic,
			Severity: SeverityCritical,
			SourceID: c.Nodes[0],
			TargetID: c.Nodes[len(c.Nodes)-1],
			Reason:   fmt.Sprintf("cyclic dependency of length %d: %s", c.Length, strings.Join(c.Nodes, " -> ")),
		})
	}

	counts := map[Severity]int{}
	for _, v := range violations {
		counts[v.Severity]++
	}
	return ViolationReport{Violations: violations, Counts: counts}
}
