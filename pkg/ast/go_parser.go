// Copyright 2026 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

const maxCodeTextBytes = 64 * 1024

// goParser is the primary Go projector: tree-sitter when available, a
// brace-counting fallback otherwise (ModeSimplified / CGO-less hosts).
type goParser struct {
	logger     *slog.Logger
	lang       *sitter.Language
	useNative  bool
}

func newGoParser(logger *slog.Logger, treeSitter bool) *goParser {
	p := &goParser{logger: logger, useNative: treeSitter}
	if treeSitter {
		p.lang = golang.GetLanguage()
	}
	return p
}

func (p *goParser) Language() string { return "go" }

func (p *goParser) ParseFile(projectID, path string, content []byte) (*ParsedFile, error) {
	if p.useNative && p.lang != nil {
		return p.parseNative(projectID, path, content)
	}
	return p.parseSimplified(projectID, path, content)
}

type goWalkCtx struct {
	projectID    string
	path         string
	content      []byte
	collisions   *collisionTracker
	funcNameToID map[string]string
	anonCounter  int
}

func (p *goParser) parseNative(projectID, path string, content []byte) (*ParsedFile, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(p.lang)
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}
	defer tree.Close()
	root := tree.RootNode()

	var syntaxErrs []SyntaxError
	if root.HasError() {
		syntaxErrs = append(syntaxErrs, SyntaxError{Line: int(root.StartPoint().Row) + 1, Message: "syntax errors present; partial AST returned"})
	}

	pf := &ParsedFile{
		File:    FileNode{ID: FileID(projectID, path), ProjectID: projectID, Path: path, Language: "go"},
		Metrics: fileMetrics(content, "//"),
		Errors:  syntaxErrs,
	}
	pf.File.LinesOfCode = pf.Metrics.TotalLines
	pf.File.CommentLines = pf.Metrics.CommentLines
	pf.File.CommentRatio = pf.Metrics.CommentRatio

	wc := &goWalkCtx{projectID: projectID, path: path, content: content, collisions: newCollisionTracker(), funcNameToID: map[string]string{}}

	p.extractImports(root, wc, pf)
	p.extractTypes(root, wc, pf)
	p.walkFunctions(root, wc, pf)

	for _, fn := range pf.Functions {
		level := "file_function"
		parent := pf.File.ID
		if fn.IsMethod {
			level = "class_function"
			parent = fn.ClassID
		}
		pf.Contains = append(pf.Contains, ContainsEdge{FromID: parent, ToID: fn.ID, Level: level})
	}
	for _, c := range pf.Classes {
		pf.Contains = append(pf.Contains, ContainsEdge{FromID: pf.File.ID, ToID: c.ID, Level: "file_class"})
	}
	for _, im := range pf.Imports {
		pf.Contains = append(pf.Contains, ContainsEdge{FromID: pf.File.ID, ToID: im.ID, Level: "file_import"})
	}

	return pf, nil
}

func (p *goParser) walkFunctions(node *sitter.Node, wc *goWalkCtx, pf *ParsedFile) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "function_declaration":
		p.extractFunction(node, wc, pf, "")
	case "method_declaration":
		p.extractMethod(node, wc, pf)
	case "func_literal":
		p.extractFuncLiteral(node, wc, pf)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		p.walkFunctions(node.Child(i), wc, pf)
	}
}

func (p *goParser) extractFunction(node *sitter.Node, wc *goWalkCtx, pf *ParsedFile, classID string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := string(wc.content[nameNode.StartByte():nameNode.EndByte()])
	signature := p.buildSignature(node, wc.content, "func "+name)
	fn := p.buildFunctionNode(node, wc, pf, name, signature, classID)
	wc.funcNameToID[name] = fn.ID
	pf.Functions = append(pf.Functions, fn)
	p.extractCalls(node, wc, pf, fn.ID)
}

func (p *goParser) extractMethod(node *sitter.Node, wc *goWalkCtx, pf *ParsedFile) {
	nameNode := node.ChildByFieldName("name")
	receiverNode := node.ChildByFieldName("receiver")
	if nameNode == nil {
		return
	}
	methodName := string(wc.content[nameNode.StartByte():nameNode.EndByte()])
	receiverType := extractReceiverType(receiverNode, wc.content)

	fullName := methodName
	if receiverType != "" {
		fullName = receiverType + "." + methodName
	}
	var receiverText string
	if receiverNode != nil {
		receiverText = string(wc.content[receiverNode.StartByte():receiverNode.EndByte()])
	}
	signature := p.buildSignature(node, wc.content, fmt.Sprintf("func %s %s", receiverText, methodName))

	classID := findClassID(pf, receiverType)
	fn := p.buildFunctionNode(node, wc, pf, fullName, signature, classID)
	fn.IsMethod = classID != ""
	pf.Functions = append(pf.Functions, fn)
	wc.funcNameToID[methodName] = fn.ID
	p.extractCalls(node, wc, pf, fn.ID)
}

func (p *goParser) extractFuncLiteral(node *sitter.Node, wc *goWalkCtx, pf *ParsedFile) {
	wc.anonCounter++
	name := fmt.Sprintf("$anon_%d", wc.anonCounter)
	signature := p.buildSignature(node, wc.content, "func")
	fn := p.buildFunctionNode(node, wc, pf, name, signature, "")
	pf.Functions = append(pf.Functions, fn)
	// Anonymous functions aren't called by name, so they don't enter funcNameToID.
	p.extractCalls(node, wc, pf, fn.ID)
}

func (p *goParser) buildSignature(node *sitter.Node, content []byte, prefix string) string {
	var b strings.Builder
	b.WriteString(prefix)
	if tp := node.ChildByFieldName("type_parameters"); tp != nil {
		b.WriteString(string(content[tp.StartByte():tp.EndByte()]))
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		b.WriteString(string(content[params.StartByte():params.EndByte()]))
	}
	if result := node.ChildByFieldName("result"); result != nil {
		b.WriteString(" ")
		b.WriteString(string(content[result.StartByte():result.EndByte()]))
	}
	return b.String()
}

func (p *goParser) buildFunctionNode(node *sitter.Node, wc *goWalkCtx, pf *ParsedFile, name, signature, classID string) FunctionNode {
	startLine := int(node.StartPoint().Row) + 1
	endLine := int(node.EndPoint().Row) + 1
	startCol := int(node.StartPoint().Column) + 1
	endCol := int(node.EndPoint().Column) + 1
	codeText, truncated := truncateCodeText(string(wc.content[node.StartByte():node.EndByte()]), maxCodeTextBytes)
	if truncated {
		pf.Truncated = true
	}
	collision := wc.collisions.Observe(name)
	id := FunctionID(wc.projectID, wc.path, classID, name, startLine, collision)
	complexity := ComputeComplexity("go", node.ChildByFieldName("body"), wc.content)
	return FunctionNode{
		ID: id, Name: name, Signature: signature, FilePath: wc.path, ClassID: classID,
		IsMethod: classID != "", StartLine: startLine, EndLine: endLine, StartCol: startCol, EndCol: endCol,
		Complexity: complexity, CodeText: codeText,
	}
}

func findClassID(pf *ParsedFile, typeName string) string {
	if typeName == "" {
		return ""
	}
	for _, c := range pf.Classes {
		if c.Name == typeName {
			return c.ID
		}
	}
	return ""
}

func extractReceiverType(receiverNode *sitter.Node, content []byte) string {
	if receiverNode == nil {
		return ""
	}
	for i := 0; i < int(receiverNode.ChildCount()); i++ {
		child := receiverNode.Child(i)
		if child.Type() == "parameter_declaration" {
			if typeNode := child.ChildByFieldName("type"); typeNode != nil {
				return baseTypeName(typeNode, content)
			}
		}
	}
	return ""
}

func baseTypeName(typeNode *sitter.Node, content []byte) string {
	if typeNode == nil {
		return ""
	}
	switch typeNode.Type() {
	case "pointer_type":
		for i := 0; i < int(typeNode.ChildCount()); i++ {
			child := typeNode.Child(i)
			if child.Type() != "*" {
				return baseTypeName(child, content)
			}
		}
	case "generic_type":
		if tn := typeNode.ChildByFieldName("type"); tn != nil {
			return string(content[tn.StartByte():tn.EndByte()])
		}
	case "type_identifier":
		return string(content[typeNode.StartByte():typeNode.EndByte()])
	}
	name := string(content[typeNode.StartByte():typeNode.EndByte()])
	name = strings.TrimPrefix(name, "*")
	if idx := strings.Index(name, "["); idx > 0 {
		name = name[:idx]
	}
	return name
}

func (p *goParser) extractImports(root *sitter.Node, wc *goWalkCtx, pf *ParsedFile) {
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "import_spec" {
			pathNode := n.ChildByFieldName("path")
			if pathNode != nil {
				raw := string(wc.content[pathNode.StartByte():pathNode.EndByte()])
				modulePath := strings.Trim(raw, `"`)
				alias := ""
				if nameNode := n.ChildByFieldName("name"); nameNode != nil {
					alias = string(wc.content[nameNode.StartByte():nameNode.EndByte()])
				}
				line := int(n.StartPoint().Row) + 1
				collision := wc.collisions.Observe("import:" + modulePath)
				im := ImportNode{
					ID: ImportID(wc.projectID, wc.path, modulePath, line, collision),
					FilePath: wc.path, Module: ModuleID(wc.path, modulePath), Alias: alias,
					ImportType: importType(modulePath),
				}
				pf.Imports = append(pf.Imports, im)
				pf.DependsOn = append(pf.DependsOn, DependsOnEdge{FromFileID: pf.File.ID, ToModuleID: im.Module, Weight: 1})
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
}

func importType(modulePath string) string {
	if strings.HasPrefix(modulePath, ".") {
		return "relative"
	}
	return "absolute"
}

func (p *goParser) extractTypes(root *sitter.Node, wc *goWalkCtx, pf *ParsedFile) {
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "type_spec" {
			nameNode := n.ChildByFieldName("name")
			typeNode := n.ChildByFieldName("type")
			if nameNode != nil && typeNode != nil && (typeNode.Type() == "struct_type" || typeNode.Type() == "interface_type") {
				name := string(wc.content[nameNode.StartByte():nameNode.EndByte()])
				line := int(n.StartPoint().Row) + 1
				collision := wc.collisions.Observe("type:" + name)
				var bases []string
				if typeNode.Type() == "interface_type" {
					bases = embeddedInterfaces(typeNode, wc.content)
				}
				pf.Classes = append(pf.Classes, ClassNode{
					ID: ClassID(wc.projectID, wc.path, name, line, collision),
					Name: name, FilePath: wc.path, StartLine: line, Bases: bases,
				})
			}
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
}

func embeddedInterfaces(interfaceType *sitter.Node, content []byte) []string {
	var names []string
	for i := 0; i < int(interfaceType.ChildCount()); i++ {
		child := interfaceType.Child(i)
		if child.Type() == "type_identifier" {
			names = append(names, string(content[child.StartByte():child.EndByte()]))
		}
	}
	return names
}

// extractCalls walks a function body for call expressions resolvable to a
// name already seen in this file. Unresolved calls are collected for later
// cross-file resolution; unresolvable dynamic calls are skipped silently.
func (p *goParser) extractCalls(fnNode *sitter.Node, wc *goWalkCtx, pf *ParsedFile, callerID string) {
	body := fnNode.ChildByFieldName("body")
	if body == nil {
		return
	}
	seenLocal := map[string]bool{}
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "call_expression" {
			fnExpr := n.ChildByFieldName("function")
			if fnExpr != nil {
				name := calleeName(fnExpr, wc.content)
				if name != "" {
					if targetID, ok := wc.funcNameToID[name]; ok {
						key := callerID + "|" + targetID
						if !seenLocal[key] {
							seenLocal[key] = true
							pf.Calls = append(pf.Calls, CallEdge{FromID: callerID, ToID: targetID, Frequency: 1, Resolution: "local"})
						}
					} else if isIdentifierCall(name) {
						pf.UnresolvedCalls = append(pf.UnresolvedCalls, UnresolvedCall{CallerID: callerID, CalleeName: name, FilePath: wc.path})
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

func calleeName(fnExpr *sitter.Node, content []byte) string {
	switch fnExpr.Type() {
	case "identifier":
		return string(content[fnExpr.StartByte():fnExpr.EndByte()])
	case "selector_expression":
		field := fnExpr.ChildByFieldName("field")
		if field != nil {
			return string(content[field.StartByte():field.EndByte()])
		}
	}
	return ""
}

func isIdentifierCall(name string) bool {
	return name != "" && name[0] != '('
}

// parseSimplified is the CGO-free fallback: brace-counted, regex-adjacent
// pattern matching over "func " declarations. Limitations: no calls are
// extracted, generics/receivers with embedded braces may mis-split.
func (p *goParser) parseSimplified(projectID, path string, content []byte) (*ParsedFile, error) {
	pf := &ParsedFile{
		File:    FileNode{ID: FileID(projectID, path), ProjectID: projectID, Path: path, Language: "go"},
		Metrics: fileMetrics(content, "//"),
	}
	pf.File.LinesOfCode = pf.Metrics.TotalLines
	pf.File.CommentLines = pf.Metrics.CommentLines
	pf.File.CommentRatio = pf.Metrics.CommentRatio

	lines := strings.Split(string(content), "\n")
	collisions := newCollisionTracker()
	var current *FunctionNode
	var bodyLines []string
	var braceDepth int

	flush := func(endLine int) {
		if current == nil {
			return
		}
		current.EndLine = endLine
		codeText, truncated := truncateCodeText(strings.Join(bodyLines, "\n"), maxCodeTextBytes)
		if truncated {
			pf.Truncated = true
		}
		current.CodeText = codeText
		current.Complexity = simplifiedComplexity(bodyLines)
		pf.Functions = append(pf.Functions, *current)
		pf.Contains = append(pf.Contains, ContainsEdge{FromID: pf.File.ID, ToID: current.ID, Level: "file_function"})
		current = nil
		bodyLines = nil
	}

	for i, line := range lines {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)
		if current == nil && strings.HasPrefix(trimmed, "func ") {
			name, sig := parseGoSignatureLine(trimmed)
			if name != "" {
				collision := collisions.Observe(name)
				current = &FunctionNode{
					ID: FunctionID(projectID, path, "", name, lineNum, collision),
					Name: name, Signature: sig, FilePath: path, StartLine: lineNum, StartCol: 1, EndCol: len(line),
				}
				bodyLines = []string{line}
				braceDepth = strings.Count(line, "{") - strings.Count(line, "}")
				if braceDepth <= 0 && strings.Contains(line, "{") {
					flush(lineNum)
				}
				continue
			}
		}
		if current != nil {
			bodyLines = append(bodyLines, line)
			braceDepth += strings.Count(line, "{") - strings.Count(line, "}")
			if braceDepth <= 0 {
				flush(lineNum)
			}
		}
	}
	flush(len(lines))
	return pf, nil
}

func parseGoSignatureLine(line string) (name, signature string) {
	rest := strings.TrimPrefix(line, "func ")
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "(") {
		// method: (r *T) Name(...)
		close := strings.Index(rest, ")")
		if close < 0 {
			return "", ""
		}
		rest = strings.TrimSpace(rest[close+1:])
	}
	parenIdx := strings.Index(rest, "(")
	if parenIdx < 0 {
		return "", ""
	}
	name = strings.TrimSpace(rest[:parenIdx])
	name = strings.TrimSuffix(name, "[T any]")
	if braceIdx := strings.Index(rest, "{"); braceIdx > 0 {
		signature = "func " + strings.TrimSpace(rest[:braceIdx])
	} else {
		signature = "func " + rest
	}
	return name, signature
}

func simplifiedComplexity(lines []string) int {
	complexity := 1
	for _, l := range lines {
		t := strings.TrimSpace(l)
		switch {
		case strings.HasPrefix(t, "if "), strings.HasPrefix(t, "} else if "):
			complexity++
		case strings.HasPrefix(t, "for "), t == "for {":
			complexity++
		case strings.HasPrefix(t, "case "):
			complexity++
		}
		complexity += strings.Count(t, "&&") + strings.Count(t, "||")
	}
	return complexity
}
