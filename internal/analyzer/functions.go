package analyzer

import (
	"github.com/ludo-technologies/complexitylens/internal/parser"
)

// FunctionScope selects which functions of a document are scored
type FunctionScope string

const (
	// ScopeTopLevel selects function declarations that are statements of the
	// program, including exported ones
	ScopeTopLevel FunctionScope = "top_level"

	// ScopeAll selects every function-like node in the document
	ScopeAll FunctionScope = "all"
)

// CollectFunctions returns the functions of a program in document order
func CollectFunctions(root *parser.Node, scope FunctionScope) []*parser.Node {
	if root == nil {
		return nil
	}

	if scope == ScopeAll {
		var functions []*parser.Node
		root.Walk(func(n *parser.Node) bool {
			if n.IsFunction() {
				functions = append(functions, n)
			}
			return true
		})
		return functions
	}

	var functions []*parser.Node
	for _, stmt := range root.Children {
		switch stmt.Type {
		case parser.NodeFunction, parser.NodeGeneratorFunction:
			functions = append(functions, stmt)
		case parser.NodeExportNamedDeclaration, parser.NodeExportDefaultDeclaration:
			for _, child := range stmt.Children {
				if isDeclaredFunction(child, stmt.Type == parser.NodeExportDefaultDeclaration) {
					functions = append(functions, child)
				}
			}
		}
	}
	return functions
}

// isDeclaredFunction reports whether an export child declares a function.
// `export default function () {}` parses as a function expression.
func isDeclaredFunction(n *parser.Node, isDefault bool) bool {
	switch n.Type {
	case parser.NodeFunction, parser.NodeGeneratorFunction:
		return true
	case parser.NodeFunctionExpression:
		return isDefault
	}
	return false
}
