// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package graphstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/kraklabs/cie-review/pkg/ast"
)

// Adapter is the Graph Store Adapter (spec §4.2): it hides all store query
// syntax behind a small set of project-scoped operations and enforces the
// identifier schemes pkg/ast emits.
type Adapter struct {
	backend Backend
}

func NewAdapter(backend Backend) *Adapter {
	return &Adapter{backend: backend}
}

// UpsertParsedFile idempotently applies one file's projection to the graph.
// Stale children (methods/functions/classes/imports no longer present) are
// deleted first so a reparse never leaves orphaned nodes; re-observed CALLS
// edges have their frequency incremented; DEPENDS_ON edges are created with
// weight 1 and preserved across reparses when already present.
func (a *Adapter) UpsertParsedFile(ctx context.Context, projectID string, pf *ast.ParsedFile) error {
	if err := a.deleteStaleChildren(ctx, pf.File.ID, pf); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "?[id] <- [[%q]] :put project {id}\n", projectID)
	fmt.Fprintf(&b, "?[id, project_id, path, language, lines_of_code, comment_lines, comment_ratio] <- [[%s]] :put file {id, project_id, path, language, lines_of_code, comment_lines, comment_ratio}\n",
		cozoRow(pf.File.ID, projectID, pf.File.Path, pf.File.Language, pf.File.LinesOfCode, pf.File.CommentLines, pf.File.CommentRatio))

	for _, c := range pf.Classes {
		fmt.Fprintf(&b, "?[id, name, file_path, start_line] <- [[%s]] :put class {id, name, file_path, start_line}\n",
			cozoRow(c.ID, c.Name, c.FilePath, c.StartLine))
	}
	for _, fn := range pf.Functions {
		fmt.Fprintf(&b, "?[id, name, signature, file_path, class_id, is_method, is_async, start_line, end_line, complexity] <- [[%s]] :put function {id, name, signature, file_path, class_id, is_method, is_async, start_line, end_line, complexity}\n",
			cozoRow(fn.ID, fn.Name, fn.Signature, fn.FilePath, fn.ClassID, fn.IsMethod, fn.IsAsync, fn.StartLine, fn.EndLine, fn.Complexity))
		if fn.CodeText != "" {
			fmt.Fprintf(&b, "?[function_id, code_text] <- [[%s]] :put function_code {function_id, code_text}\n",
				cozoRow(fn.ID, fn.CodeText))
		}
	}
	for _, im := range pf.Imports {
		fmt.Fprintf(&b, "?[id, file_path, module, alias, import_type] <- [[%s]] :put import {id, file_path, module, alias, import_type}\n",
			cozoRow(im.ID, im.FilePath, im.Module, im.Alias, im.ImportType))
		fmt.Fprintf(&b, "?[id, name] <- [[%s]] :put module {id, name}\n", cozoRow(im.Module, im.Module))
	}
	for _, edge := range pf.Contains {
		fmt.Fprintf(&b, "?[id, from_id, to_id, level] <- [[%s]] :put contains {id, from_id, to_id, level}\n",
			cozoRow(edge.FromID+"->"+edge.ToID, edge.FromID, edge.ToID, edge.Level))
	}
	for _, edge := range pf.Inherits {
		fmt.Fprintf(&b, "?[id, from_class_id, to_class_id] <- [[%s]] :put inherits_from {id, from_class_id, to_class_id}\n",
			cozoRow(edge.FromClassID+"->"+edge.ToClassID, edge.FromClassID, edge.ToClassID))
	}

	for _, err := range []error{a.upsertDependsOn(ctx, pf.DependsOn), a.upsertCalls(ctx, pf.Calls)} {
		if err != nil {
			return err
		}
	}

	if b.Len() == 0 {
		return nil
	}
	return a.backend.Execute(ctx, b.String())
}

// upsertDependsOn creates new DEPENDS_ON edges with weight 1; it never
// overwrites the weight of an edge the caller has already adjusted, since
// spec §4.2 says existing DEPENDS_ON edges are "preserved" across reparses.
func (a *Adapter) upsertDependsOn(ctx context.Context, edges []ast.DependsOnEdge) error {
	if len(edges) == 0 {
		return nil
	}
	var b strings.Builder
	for _, e := range edges {
		id := e.FromFileID + "->" + e.ToModuleID
		fmt.Fprintf(&b, `
exists[] := *depends_on{id: %s}
?[id, from_file_id, to_module_id, weight] := not exists[], id = %s, from_file_id = %s, to_module_id = %s, weight = 1
:put depends_on {id, from_file_id, to_module_id, weight}
`, cozoStr(id), cozoStr(id), cozoStr(e.FromFileID), cozoStr(e.ToModuleID))
	}
	return a.backend.Execute(ctx, b.String())
}

// upsertCalls increments frequency for re-observed CALLS edges and inserts
// new ones at frequency 1, per spec §4.2.
func (a *Adapter) upsertCalls(ctx context.Context, edges []ast.CallEdge) error {
	if len(edges) == 0 {
		return nil
	}
	var b strings.Builder
	for _, e := range edges {
		id := e.FromID + "->" + e.ToID + "::" + e.Resolution
		fmt.Fprintf(&b, `
prior[freq] := *calls{id: %s, frequency: freq}
?[id, from_id, to_id, frequency, resolution] := prior[freq], id = %s, from_id = %s, to_id = %s, frequency = freq + 1, resolution = %s
?[id, from_id, to_id, frequency, resolution] := not prior[_], id = %s, from_id = %s, to_id = %s, frequency = 1, resolution = %s
:put calls {id, from_id, to_id, frequency, resolution}
`, cozoStr(id), cozoStr(id), cozoStr(e.FromID), cozoStr(e.ToID), cozoStr(e.Resolution),
			cozoStr(id), cozoStr(e.FromID), cozoStr(e.ToID), cozoStr(e.Resolution))
	}
	return a.backend.Execute(ctx, b.String())
}

// deleteStaleChildren removes methods/functions/classes/imports previously
// recorded for this file but absent from the current parse, so a reparse
// never leaves orphans — part of UpsertParsedFile's idempotence contract.
func (a *Adapter) deleteStaleChildren(ctx context.Context, fileID string, pf *ast.ParsedFile) error {
	keep := map[string]bool{}
	for _, c := range pf.Classes {
		keep[c.ID] = true
	}
	for _, fn := range pf.Functions {
		keep[fn.ID] = true
	}
	for _, im := range pf.Imports {
		keep[im.ID] = true
	}

	res, err := a.backend.Query(ctx, fmt.Sprintf(`?[id] := *contains{from_id: %s, to_id: id}`, cozoStr(fileID)))
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, row := range res.Rows {
		id, _ := row[0].(string)
		if id == "" || keep[id] {
			continue
		}
		fmt.Fprintf(&b, "?[id] <- [[%s]] :rm function {id}\n", cozoStr(id))
		fmt.Fprintf(&b, "?[id] <- [[%s]] :rm class {id}\n", cozoStr(id))
		fmt.Fprintf(&b, "?[id] <- [[%s]] :rm import {id}\n", cozoStr(id))
		fmt.Fprintf(&b, "?[from_id, to_id] := *contains{from_id: %s, to_id: to_id}, to_id = %s :rm contains {from_id, to_id}\n", cozoStr(fileID), cozoStr(id))
	}
	if b.Len() == 0 {
		return nil
	}
	return a.backend.Execute(ctx, b.String())
}

// DeleteProjectGraph removes a project and every transitively-contained
// node and incident edge. Runs as a single Execute call so no partial
// project state is visible to a concurrent reader.
func (a *Adapter) DeleteProjectGraph(ctx context.Context, projectID string) error {
	script := fmt.Sprintf(`
files[id] := *file{id, project_id: %s}
classes[id] := *class{id}, *contains{from_id: fid, to_id: id}, files[fid]
functions[id] := *function{id}, *contains{from_id: fid, to_id: id}, files[fid]
functions[id] := *function{id, class_id: cid}, classes[cid]
imports[id] := *import{id}, *contains{from_id: fid, to_id: id}, files[fid]

?[id] := files[id] :rm file {id}
?[id] := classes[id] :rm class {id}
?[id] := functions[id] :rm function {id}
?[id] := imports[id] :rm import {id}
?[id] <- [[%s]] :rm project {id}
`, cozoStr(projectID), cozoStr(projectID))
	return a.backend.Execute(ctx, script)
}

// GraphSnapshot is the adapter's plain-data return shape for downstream
// analytics and external visualization (spec §4.2: getDependencyGraph).
type GraphSnapshot struct {
	Files     []ast.FileNode
	Classes   []ast.ClassNode
	Functions []ast.FunctionNode
	Imports   []ast.ImportNode
	DependsOn []ast.DependsOnEdge
	Calls     []ast.CallEdge
	Inherits  []ast.InheritsEdge
}

// GetDependencyGraph returns the full current-HEAD projection for a
// project.
func (a *Adapter) GetDependencyGraph(ctx context.Context, projectID string) (*GraphSnapshot, error) {
	snap := &GraphSnapshot{}

	fileRes, err := a.backend.Query(ctx, fmt.Sprintf(`?[id, path, language, loc, cl, cr] := *file{id, project_id: %s, path, language, lines_of_code: loc, comment_lines: cl, comment_ratio: cr}`, cozoStr(projectID)))
	if err != nil {
		return nil, err
	}
	for _, row := range fileRes.Rows {
		snap.Files = append(snap.Files, ast.FileNode{
			ID: str(row[0]), ProjectID: projectID, Path: str(row[1]), Language: str(row[2]),
			LinesOfCode: toInt(row[3]), CommentLines: toInt(row[4]), CommentRatio: toFloat(row[5]),
		})
	}

	depRes, err := a.backend.Query(ctx, fmt.Sprintf(`
files[id] := *file{id, project_id: %s}
?[from_file_id, to_module_id, weight] := *depends_on{from_file_id, to_module_id, weight}, files[from_file_id]`, cozoStr(projectID)))
	if err != nil {
		return nil, err
	}
	for _, row := range depRes.Rows {
		snap.DependsOn = append(snap.DependsOn, ast.DependsOnEdge{FromFileID: str(row[0]), ToModuleID: str(row[1]), Weight: toInt(row[2])})
	}

	callRes, err := a.backend.Query(ctx, fmt.Sprintf(`
project_paths[path] := *file{path, project_id: %s}
project_funcs[id] := *function{id, file_path: fp}, project_paths[fp]
?[from_id, to_id, frequency, resolution] := *calls{from_id, to_id, frequency, resolution}, project_funcs[from_id]`, cozoStr(projectID)))
	if err != nil {
		return nil, err
	}
	for _, row := range callRes.Rows {
		snap.Calls = append(snap.Calls, ast.CallEdge{FromID: str(row[0]), ToID: str(row[1]), Frequency: toInt(row[2]), Resolution: str(row[3])})
	}

	classRes, err := a.backend.Query(ctx, fmt.Sprintf(`
project_paths[path] := *file{path, project_id: %s}
?[id, name, file_path, start_line] := *class{id, name, file_path, start_line}, project_paths[file_path]`, cozoStr(projectID)))
	if err != nil {
		return nil, err
	}
	for _, row := range classRes.Rows {
		snap.Classes = append(snap.Classes, ast.ClassNode{ID: str(row[0]), Name: str(row[1]), FilePath: str(row[2]), StartLine: toInt(row[3])})
	}

	funcRes, err := a.backend.Query(ctx, fmt.Sprintf(`
project_paths[path] := *file{path, project_id: %s}
?[id, name, signature, file_path, class_id, is_method, is_async, start_line, end_line, complexity] := *function{id, name, signature, file_path, class_id, is_method, is_async, start_line, end_line, complexity}, project_paths[file_path]`, cozoStr(projectID)))
	if err != nil {
		return nil, err
	}
	for _, row := range funcRes.Rows {
		snap.Functions = append(snap.Functions, ast.FunctionNode{
			ID: str(row[0]), Name: str(row[1]), Signature: str(row[2]), FilePath: str(row[3]),
			ClassID: str(row[4]), IsMethod: toBool(row[5]), IsAsync: toBool(row[6]),
			StartLine: toInt(row[7]), EndLine: toInt(row[8]), Complexity: toInt(row[9]),
		})
	}

	importRes, err := a.backend.Query(ctx, fmt.Sprintf(`
project_paths[path] := *file{path, project_id: %s}
?[id, file_path, module, alias, import_type] := *import{id, file_path, module, alias, import_type}, project_paths[file_path]`, cozoStr(projectID)))
	if err != nil {
		return nil, err
	}
	for _, row := range importRes.Rows {
		snap.Imports = append(snap.Imports, ast.ImportNode{ID: str(row[0]), FilePath: str(row[1]), Module: str(row[2]), Alias: str(row[3]), ImportType: str(row[4])})
	}

	inheritsRes, err := a.backend.Query(ctx, fmt.Sprintf(`
project_paths[path] := *file{path, project_id: %s}
project_classes[id] := *class{id, file_path: fp}, project_paths[fp]
?[from_class_id, to_class_id] := *inherits_from{from_class_id, to_class_id}, project_classes[from_class_id]`, cozoStr(projectID)))
	if err != nil {
		return nil, err
	}
	for _, row := range inheritsRes.Rows {
		snap.Inherits = append(snap.Inherits, ast.InheritsEdge{FromClassID: str(row[0]), ToClassID: str(row[1])})
	}

	return snap, nil
}

// CountNodesByLabel supports metrics endpoints (spec §4.2).
func (a *Adapter) CountNodesByLabel(ctx context.Context, projectID string) (map[string]int, error) {
	counts := map[string]int{}
	for label, query := range map[string]string{
		"file":     fmt.Sprintf(`?[count(id)] := *file{id, project_id: %s}`, cozoStr(projectID)),
		"function": fmt.Sprintf(`files[id] := *file{id, project_id: %s}; ?[count(fid)] := *function{id: fid, file_path: fp}, *file{path: fp, project_id: %s}`, cozoStr(projectID), cozoStr(projectID)),
	} {
		res, err := a.backend.Query(ctx, query)
		if err != nil {
			return nil, err
		}
		if len(res.Rows) > 0 {
			counts[label] = toInt(res.Rows[0][0])
		}
	}
	return counts, nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func toBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
