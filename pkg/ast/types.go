// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package ast

// EdgeLabel names the directed, labeled edges a parsed file can emit.
type EdgeLabel string

const (
	EdgeContains   EdgeLabel = "CONTAINS"
	EdgeCalls      EdgeLabel = "CALLS"
	EdgeInherits   EdgeLabel = "INHERITS_FROM"
	EdgeDependsOn  EdgeLabel = "DEPENDS_ON"
)

// FileNode is the graph node for a parsed source file.
type FileNode struct {
	ID            string
	ProjectID     string
	Path          string
	Language      string
	LinesOfCode   int
	CommentLines  int
	CommentRatio  float64
}

// ClassNode is the graph node for a class/struct/interface declaration.
type ClassNode struct {
	ID        string
	Name      string
	FilePath  string
	StartLine int
	Bases     []string
}

// FunctionNode is the graph node for a function, method, or closure.
type FunctionNode struct {
	ID         string
	Name       string
	Signature  string
	FilePath   string
	ClassID    string // non-empty when IsMethod
	IsMethod   bool
	IsAsync    bool
	Parameters []string
	StartLine  int
	EndLine    int
	StartCol   int
	EndCol     int
	Complexity int
	CodeText   string
	// Decorators/annotations are carried as opaque strings; they never emit edges.
	Decorators []string
}

// ImportNode is the graph node for an import/require/use statement.
type ImportNode struct {
	ID         string
	FilePath   string
	Module     string // resolved target module identifier
	Alias      string
	ImportType string // "absolute" | "relative"
}

// ContainsEdge links a parent (Project/File/Class) to a child it directly contains.
type ContainsEdge struct {
	FromID string
	ToID   string
	Level  string // "project_file" | "file_class" | "file_function" | "file_import" | "class_function"
}

// CallEdge records a resolved call from one function to another.
// Resolution distinguishes same-file ("local") from cross-file/cross-package
// ("cross_file") resolution, per the call-edge-resolution open question.
type CallEdge struct {
	FromID     string
	ToID       string
	Frequency  int
	Resolution string
}

// UnresolvedCall is a call site whose callee could not be matched within the
// file being parsed; it is handed to a cross-file resolver in a later phase.
type UnresolvedCall struct {
	CallerID   string
	CalleeName string
	FilePath   string
}

// DependsOnEdge records a file's dependency on a module, from an import.
type DependsOnEdge struct {
	FromFileID string
	ToModuleID string
	Weight     int
}

// InheritsEdge records a class's inheritance/interface-embedding relationship.
type InheritsEdge struct {
	FromClassID string
	ToClassID   string
}

// SyntaxError is a recoverable parse error: the parser kept going and
// returned whatever it could extract up to and around this point.
type SyntaxError struct {
	Line    int
	Message string
}

// FileMetrics are file-level counts independent of any single node.
type FileMetrics struct {
	TotalLines   int
	CommentLines int
	CommentRatio float64
}

// ParsedFile is the AST Projector's full output for one file.
type ParsedFile struct {
	File            FileNode
	Classes         []ClassNode
	Functions       []FunctionNode
	Imports         []ImportNode
	Contains        []ContainsEdge
	Calls           []CallEdge
	UnresolvedCalls []UnresolvedCall
	DependsOn       []DependsOnEdge
	Inherits        []InheritsEdge
	Metrics         FileMetrics
	Errors          []SyntaxError
	Truncated       bool
}
