package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// kindByTreeSitterType maps tree-sitter node types onto our AST node kinds.
// Types that are not listed keep their tree-sitter name as the node kind.
var kindByTreeSitterType = map[string]NodeType{
	"program":                        NodeProgram,
	"function_declaration":           NodeFunction,
	"generator_function_declaration": NodeGeneratorFunction,
	"function":                       NodeFunctionExpression,
	"function_expression":            NodeFunctionExpression,
	"generator_function":             NodeFunctionExpression,
	"arrow_function":                 NodeArrowFunction,
	"method_definition":              NodeMethodDefinition,
	"class_declaration":              NodeClass,
	"if_statement":                   NodeIfStatement,
	"else_clause":                    NodeElseClause,
	"switch_statement":               NodeSwitchStatement,
	"switch_case":                    NodeCaseClause,
	"switch_default":                 NodeDefaultClause,
	"for_statement":                  NodeForStatement,
	"for_in_statement":               NodeForInStatement,
	"while_statement":                NodeWhileStatement,
	"do_statement":                   NodeDoWhileStatement,
	"try_statement":                  NodeTryStatement,
	"catch_clause":                   NodeCatchClause,
	"return_statement":               NodeReturnStatement,
	"statement_block":                NodeBlockStatement,
	"binary_expression":              NodeBinaryExpression,
	"ternary_expression":             NodeConditionalExpression,
	"conditional_expression":         NodeConditionalExpression,
	"call_expression":                NodeCallExpression,
	"identifier":                     NodeIdentifier,
	"export_statement":               NodeExportNamedDeclaration,
}

// ASTBuilder builds our internal AST from tree-sitter CST
type ASTBuilder struct {
	filename string
	source   []byte
}

// NewASTBuilder creates a new AST builder
func NewASTBuilder(filename string, source []byte) *ASTBuilder {
	return &ASTBuilder{
		filename: filename,
		source:   source,
	}
}

// Build builds the AST from a tree-sitter node
func (b *ASTBuilder) Build(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}

	node := b.buildNode(tsNode)
	node.HasError = tsNode.HasError()
	return node
}

// buildNode converts a tree-sitter node and its named children
func (b *ASTBuilder) buildNode(tsNode *sitter.Node) *Node {
	tsType := tsNode.Type()
	kind, ok := kindByTreeSitterType[tsType]
	if !ok {
		kind = NodeType(tsType)
	}

	node := NewNode(kind)
	node.Location = b.getLocation(tsNode)

	switch kind {
	case NodeFunction, NodeGeneratorFunction, NodeFunctionExpression,
		NodeMethodDefinition, NodeClass:
		if nameNode := tsNode.ChildByFieldName("name"); nameNode != nil {
			node.Name = nameNode.Content(b.source)
		}
	case NodeIdentifier:
		node.Name = tsNode.Content(b.source)
	case NodeBinaryExpression:
		node.Operator = b.binaryOperator(tsNode)
	case NodeForInStatement:
		if b.hasToken(tsNode, "of") {
			node.Type = NodeForOfStatement
		}
	case NodeExportNamedDeclaration:
		if b.hasToken(tsNode, "default") {
			node.Type = NodeExportDefaultDeclaration
		}
	}

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || !child.IsNamed() || b.isTrivia(child) {
			continue
		}
		node.AddChild(b.buildNode(child))
	}

	b.nameAnonymousValue(tsNode, node)

	return node
}

// nameAnonymousValue gives `const f = () => {}` and `{ f: function () {} }`
// the name of the binding they are assigned to.
func (b *ASTBuilder) nameAnonymousValue(tsNode *sitter.Node, node *Node) {
	var keyField, valueField string
	switch tsNode.Type() {
	case "variable_declarator":
		keyField, valueField = "name", "value"
	case "pair":
		keyField, valueField = "key", "value"
	case "assignment_expression":
		keyField, valueField = "left", "right"
	default:
		return
	}

	keyNode := tsNode.ChildByFieldName(keyField)
	valueNode := tsNode.ChildByFieldName(valueField)
	if keyNode == nil || valueNode == nil {
		return
	}

	for _, child := range node.Children {
		if child.IsFunction() && child.Name == "" &&
			child.Location.StartLine == int(valueNode.StartPoint().Row)+1 &&
			child.Location.StartCol == int(valueNode.StartPoint().Column) {
			child.Name = keyNode.Content(b.source)
			return
		}
	}
}

// binaryOperator extracts the operator token of a binary expression
func (b *ASTBuilder) binaryOperator(tsNode *sitter.Node) string {
	if opNode := tsNode.ChildByFieldName("operator"); opNode != nil {
		return opNode.Content(b.source)
	}
	left := tsNode.ChildByFieldName("left")
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || child.IsNamed() {
			continue
		}
		if left == nil || child.StartByte() >= left.EndByte() {
			return child.Content(b.source)
		}
	}
	return ""
}

// hasToken reports whether an anonymous child token of the given type exists
func (b *ASTBuilder) hasToken(tsNode *sitter.Node, token string) bool {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !child.IsNamed() && child.Type() == token {
			return true
		}
	}
	return false
}

// getLocation extracts location information from a tree-sitter node
func (b *ASTBuilder) getLocation(tsNode *sitter.Node) Location {
	return Location{
		File:      b.filename,
		StartLine: int(tsNode.StartPoint().Row) + 1,
		StartCol:  int(tsNode.StartPoint().Column),
		EndLine:   int(tsNode.EndPoint().Row) + 1,
		EndCol:    int(tsNode.EndPoint().Column),
	}
}

// isTrivia checks if a node is trivia (comments and the like)
func (b *ASTBuilder) isTrivia(tsNode *sitter.Node) bool {
	nodeType := tsNode.Type()
	return nodeType == "comment" ||
		nodeType == "line_comment" ||
		nodeType == "block_comment" ||
		nodeType == ""
}
