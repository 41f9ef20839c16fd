// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package ast

import sitter "github.com/smacker/go-tree-sitter"

// decisionNodeTypes maps each language's tree-sitter node type names to how
// many decision points a single occurrence contributes. Most constructs
// contribute 1 (if/for/while/case/catch); boolean short-circuit operators
// contribute n-1 for n operands, which for a single binary node is 1.
var decisionNodeTypes = map[string]map[string]int{
	"go": {
		"if_statement": 1, "for_statement": 1, "expression_case": 1,
		"default_case": 0, "communication_case": 1, "type_case": 1,
		"binary_expression": 0, // only && / || count; handled specially below
	},
	"python": {
		"if_statement": 1, "elif_clause": 1, "for_statement": 1, "while_statement": 1,
		"except_clause": 1, "comprehension_if": 1, "case_clause": 1,
	},
	"typescript": {
		"if_statement": 1, "for_statement": 1, "for_in_statement": 1,
		"while_statement": 1, "do_statement": 1, "switch_case": 1,
		"catch_clause": 1, "conditional_expression": 1,
	},
}

var shortCircuitOperators = map[string]map[string]bool{
	"go":         {"&&": true, "||": true},
	"python":     {"and": true, "or": true},
	"typescript": {"&&": true, "||": true, "??": true},
}

// ComputeComplexity walks a function body's subtree and returns McCabe
// complexity per spec §4.1 step 4: complexity = 1 + sum(decision points),
// where decision points are branches, loops, switch/case arms, exception
// handlers, each short-circuit boolean operator beyond the first operand,
// and each `if` clause in a comprehension.
func ComputeComplexity(language string, root *sitter.Node, content []byte) int {
	complexity := 1
	nodeWeights := decisionNodeTypes[language]
	operators := shortCircuitOperators[language]
	if nodeWeights == nil {
		nodeWeights = map[string]int{}
	}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		nodeType := n.Type()
		if weight, ok := nodeWeights[nodeType]; ok {
			complexity += weight
		}
		switch nodeType {
		case "binary_expression":
			opNode := n.ChildByFieldName("operator")
			if opNode != nil && operators[string(content[opNode.StartByte():opNode.EndByte()])] {
				complexity++
			}
		case "boolean_operator": // python and/or
			if operators != nil {
				complexity++
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return complexity
}
