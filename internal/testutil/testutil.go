// Package testutil provides helper functions for testing complexitylens components
package testutil

import (
	"context"
	"testing"

	"github.com/ludo-technologies/complexitylens/internal/parser"
)

// CreateTestAST creates a test AST from JavaScript source code
func CreateTestAST(t *testing.T, source string) *parser.Node {
	t.Helper()
	p := parser.NewParser()
	defer p.Close()

	ast, err := p.ParseString(source)
	if err != nil {
		t.Fatalf("Failed to parse test code: %v", err)
	}
	return ast
}

// CreateTestASTForFile parses source with the grammar matching filename's extension
func CreateTestASTForFile(t *testing.T, filename, source string) *parser.Node {
	t.Helper()
	ast, err := parser.ParseForLanguage(context.Background(), filename, []byte(source))
	if err != nil {
		t.Fatalf("Failed to parse %s: %v", filename, err)
	}
	return ast
}

// FindFunctionInAST finds the first function node with the given name
func FindFunctionInAST(ast *parser.Node, name string) *parser.Node {
	var found *parser.Node
	ast.Walk(func(n *parser.Node) bool {
		if found != nil {
			return false
		}
		if n.IsFunction() && n.Name == name {
			found = n
			return false
		}
		return true
	})
	return found
}

// CountFunctionsInAST counts the function-like nodes of an AST
func CountFunctionsInAST(ast *parser.Node) int {
	count := 0
	ast.Walk(func(n *parser.Node) bool {
		if n.IsFunction() {
			count++
		}
		return true
	})
	return count
}
