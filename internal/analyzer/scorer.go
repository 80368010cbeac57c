package analyzer

import (
	"github.com/ludo-technologies/complexitylens/internal/parser"
)

// Construct is a syntactic construct that adds one decision point to a
// function's cyclomatic complexity
type Construct int

const (
	// ConstructDecision is an if statement. Each `else if` is its own if.
	ConstructDecision Construct = iota
	// ConstructLoop is a for, for-in, for-of, while or do-while loop
	ConstructLoop
	// ConstructSwitch is a switch statement, counted once regardless of cases
	ConstructSwitch
	// ConstructConditional is a ternary conditional expression
	ConstructConditional
	// ConstructShortCircuit is a binary expression using && or ||
	ConstructShortCircuit
)

// constructByKind is the single table of node kinds that count towards
// complexity. Binary expressions are handled separately because only some
// operators count.
var constructByKind = map[parser.NodeType]Construct{
	parser.NodeIfStatement:           ConstructDecision,
	parser.NodeForStatement:          ConstructLoop,
	parser.NodeForInStatement:        ConstructLoop,
	parser.NodeForOfStatement:        ConstructLoop,
	parser.NodeWhileStatement:        ConstructLoop,
	parser.NodeDoWhileStatement:      ConstructLoop,
	parser.NodeSwitchStatement:       ConstructSwitch,
	parser.NodeConditionalExpression: ConstructConditional,
}

// shortCircuitOperators are the binary operators that introduce a branch
var shortCircuitOperators = map[string]bool{
	"&&": true,
	"||": true,
}

// String returns the name used in detailed output
func (c Construct) String() string {
	switch c {
	case ConstructDecision:
		return "if_statements"
	case ConstructLoop:
		return "loop_statements"
	case ConstructSwitch:
		return "switch_statements"
	case ConstructConditional:
		return "ternary_operators"
	case ConstructShortCircuit:
		return "logical_operators"
	default:
		return "unknown"
	}
}

// ConstructOf reports which counted construct a node is, if any
func ConstructOf(node parser.SyntaxNode) (Construct, bool) {
	if node.Kind() == parser.NodeBinaryExpression {
		if shortCircuitOperators[node.OperatorText()] {
			return ConstructShortCircuit, true
		}
		return 0, false
	}
	c, ok := constructByKind[node.Kind()]
	return c, ok
}

// ScoreOptions controls how the descendant walk treats nested functions
type ScoreOptions struct {
	// IncludeNested counts decision points inside nested functions and
	// closures towards the enclosing function
	IncludeNested bool
}

// DefaultScoreOptions returns the options used when nothing is configured
func DefaultScoreOptions() ScoreOptions {
	return ScoreOptions{IncludeNested: true}
}

// ConstructCounts holds the number of counted constructs found in a function
type ConstructCounts struct {
	IfStatements     int `json:"if_statements" yaml:"if_statements"`
	LoopStatements   int `json:"loop_statements" yaml:"loop_statements"`
	SwitchStatements int `json:"switch_statements" yaml:"switch_statements"`
	TernaryOperators int `json:"ternary_operators" yaml:"ternary_operators"`
	LogicalOperators int `json:"logical_operators" yaml:"logical_operators"`
}

func (c *ConstructCounts) add(construct Construct) {
	switch construct {
	case ConstructDecision:
		c.IfStatements++
	case ConstructLoop:
		c.LoopStatements++
	case ConstructSwitch:
		c.SwitchStatements++
	case ConstructConditional:
		c.TernaryOperators++
	case ConstructShortCircuit:
		c.LogicalOperators++
	}
}

// Total returns the number of decision points
func (c ConstructCounts) Total() int {
	return c.IfStatements + c.LoopStatements + c.SwitchStatements +
		c.TernaryOperators + c.LogicalOperators
}

// Breakdown counts the decision points below fn, by construct
func Breakdown(fn parser.SyntaxNode, opts ScoreOptions) ConstructCounts {
	var counts ConstructCounts
	if fn == nil {
		return counts
	}

	fn.ForEachDescendant(func(node parser.SyntaxNode) bool {
		if !opts.IncludeNested && parser.IsFunctionKind(node.Kind()) {
			return false
		}
		if construct, ok := ConstructOf(node); ok {
			counts.add(construct)
		}
		return true
	})

	return counts
}

// Score returns the cyclomatic complexity of fn: one plus the number of
// decision points among its descendants. The result is never below 1.
func Score(fn parser.SyntaxNode, opts ScoreOptions) int {
	return 1 + Breakdown(fn, opts).Total()
}
