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
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

type typeScriptParser struct {
	logger    *slog.Logger
	lang      *sitter.Language
	useNative bool
}

func newTypeScriptParser(logger *slog.Logger, treeSitter bool) *typeScriptParser {
	p := &typeScriptParser{logger: logger, useNative: treeSitter}
	if treeSitter {
		p.lang = typescript.GetLanguage()
	}
	return p
}

func (p *typeScriptParser) Language() string { return "typescript" }

func (p *typeScriptParser) ParseFile(projectID, path string, content []byte) (*ParsedFile, error) {
	language := "typescript"
	if strings.HasSuffix(path, ".js") || strings.HasSuffix(path, ".jsx") {
		language = "javascript"
	}
	pf := &ParsedFile{
		File:    FileNode{ID: FileID(projectID, path), ProjectID: projectID, Path: path, Language: language},
		Metrics: fileMetrics(content, "//"),
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

	var walk func(n *sitter.Node, classID string)
	walk = func(n *sitter.Node, classID string) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "import_statement":
			p.extractImport(n, content, projectID, path, pf, collisions)
		case "class_declaration":
			nameNode := n.ChildByFieldName("name")
			if nameNode != nil {
				name := string(content[nameNode.StartByte():nameNode.EndByte()])
				line := int(n.StartPoint().Row) + 1
				collision := collisions.Observe("class:" + name)
				id := ClassID(projectID, path, name, line, collision)
				pf.Classes = append(pf.Classes, ClassNode{ID: id, Name: name, FilePath: path, StartLine: line, Bases: tsHeritage(n, content)})
				pf.Contains = append(pf.Contains, ContainsEdge{FromID: pf.File.ID, ToID: id, Level: "file_class"})
				if body := n.ChildByFieldName("body"); body != nil {
					walk(body, id)
				}
				return
			}
		case "function_declaration", "method_definition":
			fn := p.extractFunction(n, content, projectID, path, classID, collisions)
			if fn.Name != "" {
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
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i), classID)
		}
	}
	walk(root, "")

	for _, c := range pf.Classes {
		for _, base := range c.Bases {
			if baseID := findClassID(pf, base); baseID != "" {
				pf.Inherits = append(pf.Inherits, InheritsEdge{FromClassID: c.ID, ToClassID: baseID})
			}
		}
	}
	return pf, nil
}

func tsHeritage(classNode *sitter.Node, content []byte) []string {
	var bases []string
	heritage := classNode.ChildByFieldName("heritage")
	if heritage == nil {
		return bases
	}
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "identifier" || n.Type() == "type_identifier" {
			bases = append(bases, string(content[n.StartByte():n.EndByte()]))
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(heritage)
	return bases
}

func (p *typeScriptParser) extractImport(n *sitter.Node, content []byte, projectID, path string, pf *ParsedFile, collisions *collisionTracker) {
	sourceNode := n.ChildByFieldName("source")
	if sourceNode == nil {
		return
	}
	mod := strings.Trim(string(content[sourceNode.StartByte():sourceNode.EndByte()]), `"'`)
	line := int(n.StartPoint().Row) + 1
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

func (p *typeScriptParser) extractFunction(n *sitter.Node, content []byte, projectID, path, classID string, collisions *collisionTracker) FunctionNode {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return FunctionNode{}
	}
	name := string(content[nameNode.StartByte():nameNode.EndByte()])
	startLine := int(n.StartPoint().Row) + 1
	endLine := int(n.EndPoint().Row) + 1
	collision := collisions.Observe("func:" + name)
	id := FunctionID(projectID, path, classID, name, startLine, collision)

	isAsync := false
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "async" {
			isAsync = true
		}
	}

	codeText, _ := truncateCodeText(string(content[n.StartByte():n.EndByte()]), maxCodeTextBytes)
	complexity := ComputeComplexity("typescript", n.ChildByFieldName("body"), content)
	return FunctionNode{
		ID: id, Name: name, Signature: "function " + name, FilePath: path, ClassID: classID,
		IsMethod: classID != "", IsAsync: isAsync, StartLine: startLine, EndLine: endLine,
		Complexity: complexity, CodeText: codeText,
	}
}

func (p *typeScriptParser) extractCalls(fnNode *sitter.Node, content []byte, pf *ParsedFile, callerID string, nameToID map[string]string, path string) {
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
		if n.Type() == "call_expression" {
			fnExpr := n.ChildByFieldName("function")
			if fnExpr != nil {
				name := tsCalleeName(fnExpr, content)
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

func tsCalleeName(fnExpr *sitter.Node, content []byte) string {
	switch fnExpr.Type() {
	case "identifier":
		return string(content[fnExpr.StartByte():fnExpr.EndByte()])
	case "member_expression":
		prop := fnExpr.ChildByFieldName("property")
		if prop != nil {
			return string(content[prop.StartByte():prop.EndByte()])
		}
	}
	return ""
}
