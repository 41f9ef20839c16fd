// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

type pythonParser struct {
	logger    *slog.Logger
	lang      *sitter.Language
	useNative bool
}

func newPythonParser(logger *slog.Logger, treeSitter bool) *pythonParser {
	p := &pythonParser{logger: logger, useNative: treeSitter}
	if treeSitter {
		p.lang = python.GetLanguage()
	}
	return p
}

func (p *pythonParser) Language() string { return "python" }

func (p *pythonParser) ParseFile(projectID, path string, content []byte) (*ParsedFile, error) {
	pf := &ParsedFile{
		File:    FileNode{ID: FileID(projectID, path), ProjectID: projectID, Path: path, Language: "python"},
		Metrics: fileMetrics(content, "#"),
	}
	pf.File.LinesOfCode = pf.Metrics.TotalLines
	pf.File.CommentLines = pf.Metrics.CommentLines
	pf.File.CommentRatio = pf.Metrics.CommentRatio

	if !p.useNative || p.lang == nil {
		return pf, nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(p.lang)
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}
	defer tree.Close()
	root := tree.RootNode()
	if root.HasError() {
		pf.Errors = append(pf.Errors, SyntaxError{Line: int(root.StartPoint().Row) + 1, Message: "syntax errors present; partial AST returned"})
	}

	collisions := newCollisionTracker()
	nameToID := map[string]string{}

	var classStack []string // class IDs, innermost last
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "import_statement", "import_from_statement":
			p.extractImport(n, content, projectID, path, pf, collisions)
		case "class_definition":
			nameNode := n.ChildByFieldName("name")
			if nameNode != nil {
				name := string(content[nameNode.StartByte():nameNode.EndByte()])
				line := int(n.StartPoint().Row) + 1
				collision := collisions.Observe("class:" + name)
				id := ClassID(projectID, path, name, line, collision)
				bases := pythonBases(n, content)
				pf.Classes = append(pf.Classes, ClassNode{ID: id, Name: name, FilePath: path, StartLine: line, Bases: bases})
				pf.Contains = append(pf.Contains, ContainsEdge{FromID: pf.File.ID, ToID: id, Level: "file_class"})
				classStack = append(classStack, id)
				bodyNode := n.ChildByFieldName("body")
				if bodyNode != nil {
					walk(bodyNode)
				}
				classStack = classStack[:len(classStack)-1]
				return
			}
		case "function_definition":
			var classID string
			if len(classStack) > 0 {
				classID = classStack[len(classStack)-1]
			}
			fn := p.extractFunction(n, content, projectID, path, classID, collisions)
			nameToID[fn.Name] = fn.ID
			pf.Functions = append(pf.Functions, fn)
			level := "file_function"
			parent := pf.File.ID
			if classID != "" {
				level = "class_function"
				parent = classID
			}
			pf.Contains = append(pf.Contains, ContainsEdge{FromID: parent, ToID: fn.ID, Level: level})
			p.extractCalls(n, content, pf, fn.ID, nameToID, path)
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)

	for _, c := range pf.Classes {
		for _, base := range c.Bases {
			if baseID := findClassID(pf, base); baseID != "" {
				pf.Inherits = append(pf.Inherits, InheritsEdge{FromClassID: c.ID, ToClassID: baseID})
			}
		}
	}
	return pf, nil
}

func pythonBases(classNode *sitter.Node, content []byte) []string {
	superclasses := classNode.ChildByFieldName("superclasses")
	if superclasses == nil {
		return nil
	}
	var bases []string
	for i := 0; i < int(superclasses.ChildCount()); i++ {
		c := superclasses.Child(i)
		if c.Type() == "identifier" {
			bases = append(bases, string(content[c.StartByte():c.EndByte()]))
		}
	}
	return bases
}

func (p *pythonParser) extractImport(n *sitter.Node, content []byte, projectID, path string, pf *ParsedFile, collisions *collisionTracker) {
	text := string(content[n.StartByte():n.EndByte()])
	line := int(n.StartPoint().Row) + 1
	modules := parsePythonImportModules(text)
	for _, mod := range modules {
		collision := collisions.Observe("import:" + mod)
		id := ImportID(projectID, path, mod, line, collision)
		itype := "absolute"
		if strings.HasPrefix(mod, ".") {
			itype = "relative"
		}
		im := ImportNode{ID: id, FilePath: path, Module: ModuleID(path, mod), ImportType: itype}
		pf.Imports = append(pf.Imports, im)
		pf.Contains = append(pf.Contains, ContainsEdge{FromID: pf.File.ID, ToID: id, Level: "file_import"})
		pf.DependsOn = append(pf.DependsOn, DependsOnEdge{FromFileID: pf.File.ID, ToModuleID: im.Module, Weight: 1})
	}
}

func parsePythonImportModules(stmt string) []string {
	stmt = strings.TrimSpace(stmt)
	switch {
	case strings.HasPrefix(stmt, "from "):
		rest := strings.TrimPrefix(stmt, "from ")
		parts := strings.SplitN(rest, " import", 2)
		return []string{strings.TrimSpace(parts[0])}
	case strings.HasPrefix(stmt, "import "):
		rest := strings.TrimPrefix(stmt, "import ")
		var mods []string
		for _, m := range strings.Split(rest, ",") {
			m = strings.TrimSpace(m)
			if idx := strings.Index(m, " as "); idx >= 0 {
				m = m[:idx]
			}
			mods = append(mods, strings.TrimSpace(m))
		}
		return mods
	}
	return nil
}

func (p *pythonParser) extractFunction(n *sitter.Node, content []byte, projectID, path, classID string, collisions *collisionTracker) FunctionNode {
	nameNode := n.ChildByFieldName("name")
	name := ""
	if nameNode != nil {
		name = string(content[nameNode.StartByte():nameNode.EndByte()])
	}
	startLine := int(n.StartPoint().Row) + 1
	endLine := int(n.EndPoint().Row) + 1
	collision := collisions.Observe("func:" + name)
	id := FunctionID(projectID, path, classID, name, startLine, collision)

	isAsync := false
	if prev := n.PrevSibling(); prev != nil && prev.Type() == "async" {
		isAsync = true
	}

	var params []string
	if paramsNode := n.ChildByFieldName("parameters"); paramsNode != nil {
		for i := 0; i < int(paramsNode.ChildCount()); i++ {
			c := paramsNode.Child(i)
			if c.Type() == "identifier" {
				params = append(params, string(content[c.StartByte():c.EndByte()]))
			}
		}
	}

	codeText, _ := truncateCodeText(string(content[n.StartByte():n.EndByte()]), maxCodeTextBytes)
	complexity := ComputeComplexity("python", n.ChildByFieldName("body"), content)
	return FunctionNode{
		ID: id, Name: name, Signature: "def " + name, FilePath: path, ClassID: classID,
		IsMethod: classID != "", IsAsync: isAsync, Parameters: params,
		StartLine: startLine, EndLine: endLine, Complexity: complexity, CodeText: codeText,
	}
}

func (p *pythonParser) extractCalls(fnNode *sitter.Node, content []byte, pf *ParsedFile, callerID string, nameToID map[string]string, path string) {
	body := fnNode.ChildByFieldName("body")
	if body == nil {
		return
	}
	seen := map[string]bool{}
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "call" {
			fnExpr := n.ChildByFieldName("function")
			if fnExpr != nil {
				name := pythonCalleeName(fnExpr, content)
				if name != "" {
					if targetID, ok := nameToID[name]; ok {
						key := callerID + "|" + targetID
						if !seen[key] {
							seen[key] = true
							pf.Calls = append(pf.Calls, CallEdge{FromID: callerID, ToID: targetID, Frequency: 1, Resolution: "local"})
						}
					} else {
						pf.UnresolvedCalls = append(pf.UnresolvedCalls, UnresolvedCall{CallerID: callerID, CalleeName: name, FilePath: path})
					}
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(body)
}

func pythonCalleeName(fnExpr *sitter.Node, content []byte) string {
	switch fnExpr.Type() {
	case "identifier":
		return string(content[fnExpr.StartByte():fnExpr.EndByte()])
	case "attribute":
		attr := fnExpr.ChildByFieldName("attribute")
		if attr != nil {
			return string(content[attr.StartByte():attr.EndByte()])
		}
	}
	return ""
}
