package parser

import "fmt"

// NodeType represents the kind of AST node
type NodeType string

// JavaScript/TypeScript AST node kinds
const (
	// Program
	NodeProgram NodeType = "Program"

	// Function-like nodes
	NodeFunction           NodeType = "FunctionDeclaration"
	NodeGeneratorFunction  NodeType = "GeneratorFunctionDeclaration"
	NodeFunctionExpression NodeType = "FunctionExpression"
	NodeArrowFunction      NodeType = "ArrowFunctionExpression"
	NodeMethodDefinition   NodeType = "MethodDefinition"

	// Declarations
	NodeClass                    NodeType = "ClassDeclaration"
	NodeExportNamedDeclaration   NodeType = "ExportNamedDeclaration"
	NodeExportDefaultDeclaration NodeType = "ExportDefaultDeclaration"

	// Control flow statements
	NodeIfStatement      NodeType = "IfStatement"
	NodeElseClause       NodeType = "ElseClause"
	NodeSwitchStatement  NodeType = "SwitchStatement"
	NodeCaseClause       NodeType = "SwitchCase"
	NodeDefaultClause    NodeType = "SwitchDefault"
	NodeForStatement     NodeType = "ForStatement"
	NodeForInStatement   NodeType = "ForInStatement"
	NodeForOfStatement   NodeType = "ForOfStatement"
	NodeWhileStatement   NodeType = "WhileStatement"
	NodeDoWhileStatement NodeType = "DoWhileStatement"
	NodeTryStatement     NodeType = "TryStatement"
	NodeCatchClause      NodeType = "CatchClause"
	NodeReturnStatement  NodeType = "ReturnStatement"
	NodeBlockStatement   NodeType = "BlockStatement"

	// Expressions
	NodeBinaryExpression      NodeType = "BinaryExpression"
	NodeConditionalExpression NodeType = "ConditionalExpression"
	NodeCallExpression        NodeType = "CallExpression"
	NodeIdentifier            NodeType = "Identifier"
)

// Location represents the position of a node in the source code.
// Lines are 1-based, columns are 0-based byte offsets.
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String returns a string representation of the location
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// Node is a parsed AST node. Children are stored in document order.
type Node struct {
	Type     NodeType
	Children []*Node
	Location Location
	Parent   *Node

	// Name holds the declared name of functions, classes and identifiers
	Name string

	// Operator holds the operator token text of binary expressions
	Operator string

	// HasError is set on the root when tree-sitter recovered from syntax errors
	HasError bool
}

// NewNode creates a new AST node
func NewNode(nodeType NodeType) *Node {
	return &Node{
		Type:     nodeType,
		Children: []*Node{},
	}
}

// AddChild adds a child node
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Walk traverses the AST depth-first in document order and calls the visitor
// for each node, including n itself. If the visitor returns false, the
// children of that node are skipped.
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil {
		return
	}
	if !visitor(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(visitor)
	}
}

// String returns a string representation of the node
func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s(%s) at %s", n.Type, n.Name, n.Location)
	}
	return fmt.Sprintf("%s at %s", n.Type, n.Location)
}

// IsFunction returns true if the node is a function
func (n *Node) IsFunction() bool {
	return IsFunctionKind(n.Type)
}

// IsFunctionKind reports whether a node kind introduces a function body
func IsFunctionKind(kind NodeType) bool {
	switch kind {
	case NodeFunction, NodeGeneratorFunction, NodeFunctionExpression,
		NodeArrowFunction, NodeMethodDefinition:
		return true
	}
	return false
}

// DisplayName returns the function name, or "<anonymous>" when it has none
func (n *Node) DisplayName() string {
	if n.Name == "" {
		return "<anonymous>"
	}
	return n.Name
}
