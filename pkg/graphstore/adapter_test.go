// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package graphstore

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/cie-review/pkg/ast"
)

// recordingBackend captures every Execute/Query call so Adapter's query
// construction can be asserted without a live CozoDB instance.
type recordingBackend struct {
	executed  []string
	queryFunc func(datalog string) (*QueryResult, error)
}

func (r *recordingBackend) Query(ctx context.Context, datalog string) (*QueryResult, error) {
	if r.queryFunc != nil {
		return r.queryFunc(datalog)
	}
	return &QueryResult{}, nil
}

func (r *recordingBackend) Execute(ctx context.Context, datalog string) error {
	r.executed = append(r.executed, datalog)
	return nil
}

func (r *recordingBackend) Close() error { return nil }

func samplePF() *ast.ParsedFile {
	return &ast.ParsedFile{
		File: ast.FileNode{ID: "proj::a.go", ProjectID: "proj", Path: "a.go", Language: "go", LinesOfCode: 10},
		Functions: []ast.FunctionNode{
			{ID: "proj::a.go::Foo", Name: "Foo", FilePath: "a.go", StartLine: 1, EndLine: 5, Complexity: 2, CodeText: "func Foo() {}"},
		},
		Imports: []ast.ImportNode{
			{ID: "proj::a.go::fmt", FilePath: "a.go", Module: "fmt", ImportType: "absolute"},
		},
		Contains: []ast.ContainsEdge{
			{FromID: "proj::a.go", ToID: "proj::a.go::Foo", Level: "file_function"},
		},
		DependsOn: []ast.DependsOnEdge{
			{FromFileID: "proj::a.go", ToModuleID: "fmt", Weight: 1},
		},
	}
}

func TestUpsertParsedFile_EmitsPutForEveryEntity(t *testing.T) {
	backend := &recordingBackend{}
	adapter := NewAdapter(backend)

	err := adapter.UpsertParsedFile(context.Background(), "proj", samplePF())
	require.NoError(t, err)

	require.NotEmpty(t, backend.executed)
	joined := strings.Join(backend.executed, "\n")
	assert.Contains(t, joined, ":put file")
	assert.Contains(t, joined, ":put function")
	assert.Contains(t, joined, ":put function_code")
	assert.Contains(t, joined, ":put import")
	assert.Contains(t, joined, ":put contains")
}

func TestUpsertParsedFile_EscapesCodeTextContainingQuotes(t *testing.T) {
	backend := &recordingBackend{}
	adapter := NewAdapter(backend)

	pf := samplePF()
	pf.Functions[0].CodeText = `func Foo() { fmt.Println("hi") }`

	err := adapter.UpsertParsedFile(context.Background(), "proj", pf)
	require.NoError(t, err)

	joined := strings.Join(backend.executed, "\n")
	assert.Contains(t, joined, `\"hi\"`)
}

func TestDeleteProjectGraph_ScopesRemovalToProject(t *testing.T) {
	backend := &recordingBackend{}
	adapter := NewAdapter(backend)

	err := adapter.DeleteProjectGraph(context.Background(), "proj")
	require.NoError(t, err)

	require.Len(t, backend.executed, 1)
	assert.Contains(t, backend.executed[0], `project_id: "proj"`)
	assert.Contains(t, backend.executed[0], ":rm project")
}

func TestGetDependencyGraph_MapsRowsToSnapshot(t *testing.T) {
	backend := &recordingBackend{
		queryFunc: func(datalog string) (*QueryResult, error) {
			switch {
			case strings.Contains(datalog, "*depends_on{"):
				return &QueryResult{Rows: [][]any{{"proj::a.go", "fmt", 1}}}, nil
			case strings.Contains(datalog, "*calls{"):
				return &QueryResult{Rows: [][]any{{"proj::a.go::Foo", "proj::a.go::Bar", 3, "local"}}}, nil
			case strings.Contains(datalog, "*inherits_from{"):
				return &QueryResult{Rows: [][]any{{"proj::a.go::T", "proj::b.go::Base"}}}, nil
			case strings.Contains(datalog, "*class{"):
				return &QueryResult{Rows: [][]any{{"proj::a.go::T", "T", "a.go", 4}}}, nil
			case strings.Contains(datalog, "*function{"):
				return &QueryResult{Rows: [][]any{{"proj::a.go::Foo", "Foo", "func Foo()", "a.go", "", false, false, 1, 5, 2}}}, nil
			case strings.Contains(datalog, "*import{"):
				return &QueryResult{Rows: [][]any{{"proj::a.go::fmt", "a.go", "fmt", "", "absolute"}}}, nil
			case strings.Contains(datalog, "*file{"):
				return &QueryResult{Rows: [][]any{{"proj::a.go", "a.go", "go", 10, 2, 0.2}}}, nil
			}
			return &QueryResult{}, nil
		},
	}
	adapter := NewAdapter(backend)

	snap, err := adapter.GetDependencyGraph(context.Background(), "proj")
	require.NoError(t, err)
	require.Len(t, snap.Files, 1)
	assert.Equal(t, "a.go", snap.Files[0].Path)
	require.Len(t, snap.DependsOn, 1)
	assert.Equal(t, "fmt", snap.DependsOn[0].ToModuleID)
	require.Len(t, snap.Calls, 1)
	assert.Equal(t, "local", snap.Calls[0].Resolution)
	assert.Equal(t, 3, snap.Calls[0].Frequency)
	require.Len(t, snap.Classes, 1)
	assert.Equal(t, "T", snap.Classes[0].Name)
	require.Len(t, snap.Functions, 1)
	assert.Equal(t, 2, snap.Functions[0].Complexity)
	require.Len(t, snap.Imports, 1)
	assert.Equal(t, "fmt", snap.Imports[0].Module)
	require.Len(t, snap.Inherits, 1)
	assert.Equal(t, "proj::b.go::Base", snap.Inherits[0].ToClassID)
}
