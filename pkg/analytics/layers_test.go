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

func uiRepoSchema() LayerSchema {
	return LayerSchema{
		Layers: []Layer{
			{Name: "ui", PathPatterns: []string{"ui/*"}, AllowedDependencies: []string{"service"}, ForbiddenDependencies: []string{"repository"}},
			{Name: "service", PathPatterns: []string{"service/*"}},
			{Name: "repository", PathPatterns: []string{"repository/*"}},
		},
	}
}

// Scenario B from the specification: golden schema declares ui -> {service},
// forbidden: {repository}. Five UI files each DEPENDS_ON a repository file
// should yield five "high" severity layer violations.
func TestFindLayerViolations_ForbiddenDependencyScenarioB(t *testing.T) {
	schema := uiRepoSchema()
	snap := &graphstore.GraphSnapshot{}
	for i := 0; i < 5; i++ {
		uiPath := "ui/page" + string(rune('a'+i)) + ".go"
		repoPath := "repository/store" + string(rune('a'+i)) + ".go"
		snap.Files = append(snap.Files,
			ast.FileNode{ID: uiPath, Path: uiPath},
			ast.FileNode{ID: repoPath, Path: repoPath},
		)
		snap.DependsOn = append(snap.DependsOn, ast.DependsOnEdge{FromFileID: uiPath, ToModuleID: repoPath, Weight: 1})
	}

	report := FindLayerViolations(snap, schema, nil)

	forbiddenCount := 0
	for _, v := range report.Violations {
		if v.Type == ViolationForbidden {
			forbiddenCount++
			assert.Equal(t, SeverityHigh, v.Severity)
		}
	}
	assert.Equal(t, 5, forbiddenCount)
}

func TestFindLayerViolations_DisallowedWhenAllowListNonEmpty(t *testing.T) {
	schema := LayerSchema{Layers: []Layer{
		{Name: "ui", PathPatterns: []string{"ui/*"}, AllowedDependencies: []string{"service"}},
		{Name: "service", PathPatterns: []string{"service/*"}},
		{Name: "repository", PathPatterns: []string{"repository/*"}},
	}}
	snap := &graphstore.GraphSnapshot{
		Files: []ast.FileNode{{ID: "ui/page.go", Path: "ui/page.go"}, {ID: "repository/store.go", Path: "repository/store.go"}},
		DependsOn: []ast.DependsOnEdge{{FromFileID: "ui/page.go", ToModuleID: "repository/store.go", Weight: 1}},
	}

	report := FindLayerViolations(snap, schema, nil)
	require.NotEmpty(t, report.Violations)
	assert.Equal(t, ViolationDisallowed, report.Violations[0].Type)
}

// Per the open-question resolution, an empty allowed_dependencies list
// imposes no allow-list constraint at all.
func TestFindLayerViolations_EmptyAllowListImposesNoConstraint(t *testing.T) {
	schema := LayerSchema{Layers: []Layer{
		{Name: "ui", PathPatterns: []string{"ui/*"}},
		{Name: "repository", PathPatterns: []string{"repository/*"}},
	}}
	snap := &graphstore.GraphSnapshot{
		Files: []ast.FileNode{{ID: "ui/page.go", Path: "ui/page.go"}, {ID: "repository/store.go", Path: "repository/store.go"}},
		DependsOn: []ast.DependsOnEdge{{FromFileID: "ui/page.go", ToModuleID: "repository/store.go", Weight: 1}},
	}
	report := FindLayerViolations(snap, schema, nil)
	assert.Empty(t, report.Violations)
}

func TestFindLayerViolations_UnmatchedFilesExcluded(t *testing.T) {
	schema := uiRepoSchema()
	snap := &graphstore.GraphSnapshot{
		Files: []ast.FileNode{{ID: "misc/tool.go", Path: "misc/tool.go"}, {ID: "repository/store.go", Path: "repository/store.go"}},
		DependsOn: []ast.DependsOnEdge{{FromFileID: "misc/tool.go", ToModuleID: "repository/store.go", Weight: 1}},
	}
	report := FindLayerViolations(snap, schema, nil)
	assert.Empty(t, report.Violations)
}

func TestFindLayerViolations_IncludesCyclicDependencyFindings(t *testing.T) {
	schema := LayerSchema{Layers: []Layer{{Name: "x", PathPatterns: []string{"*"}}}}
	snap := snapshotWithDeps([2]string{"a", "b"}, [2]string{"b", "a"})

	report := FindLayerViolations(snap, schema, nil)
	var cyclic int
	for _, v := range report.Violations {
		if v.Type == ViolationCyclic {
			cyclic++
			assert.Equal(t, SeverityCritical, v.Severity)
		}
	}
	assert.Equal(t, 1, cyclic)
}
