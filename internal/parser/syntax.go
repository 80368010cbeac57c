package parser

// SyntaxNode is the read-only view of a parsed node that metric code works
// against. Implementations must guarantee that descendant traversal terminates.
type SyntaxNode interface {
	// Kind returns the construct kind of the node.
	Kind() NodeType

	// OperatorText returns the operator token of binary expressions and ""
	// for every other node.
	OperatorText() string

	// ForEachDescendant visits every descendant in document order, excluding
	// the node itself. Returning false from visit skips that descendant's
	// subtree.
	ForEachDescendant(visit func(SyntaxNode) bool)

	// Pos returns the source location of the node.
	Pos() Location
}

var _ SyntaxNode = (*Node)(nil)

// Kind implements SyntaxNode
func (n *Node) Kind() NodeType { return n.Type }

// OperatorText implements SyntaxNode
func (n *Node) OperatorText() string { return n.Operator }

// Pos implements SyntaxNode
func (n *Node) Pos() Location { return n.Location }

// ForEachDescendant implements SyntaxNode
func (n *Node) ForEachDescendant(visit func(SyntaxNode) bool) {
	if n == nil {
		return
	}
	for _, child := range n.Children {
		child.Walk(func(d *Node) bool {
			return visit(d)
		})
	}
}
