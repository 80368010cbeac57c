package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/complexitylens/internal/parser"
)

// ComplexityResult holds cyclomatic complexity metrics for a function or method
type ComplexityResult struct {
	Complexity     int
	FunctionName   string
	Kind           parser.NodeType
	StartLine      int
	StartCol       int
	EndLine        int
	Breakdown      ConstructCounts
	Classification Classification
	Annotation     Annotation
}

func (cr *ComplexityResult) GetRiskLevel() string { return cr.Classification.Tier.String() }

// GetDetailedMetrics returns the construct counts keyed by construct name
func (cr *ComplexityResult) GetDetailedMetrics() map[string]int {
	return map[string]int{
		ConstructDecision.String():     cr.Breakdown.IfStatements,
		ConstructLoop.String():         cr.Breakdown.LoopStatements,
		ConstructSwitch.String():       cr.Breakdown.SwitchStatements,
		ConstructConditional.String():  cr.Breakdown.TernaryOperators,
		ConstructShortCircuit.String(): cr.Breakdown.LogicalOperators,
	}
}

func (cr *ComplexityResult) String() string {
	return fmt.Sprintf("Function: %s, Complexity: %d, Risk: %s",
		cr.FunctionName, cr.Complexity, cr.GetRiskLevel())
}

// Options bundles the settings of one document pass
type Options struct {
	Scope      FunctionScope
	Score      ScoreOptions
	Thresholds Thresholds
	Styles     TierStyles
}

// DefaultOptions returns the built-in pass settings
func DefaultOptions() Options {
	return Options{
		Scope:      ScopeTopLevel,
		Score:      DefaultScoreOptions(),
		Thresholds: DefaultThresholds(),
		Styles:     DefaultTierStyles(),
	}
}

// CalculateComplexity scores a single function with the default settings
func CalculateComplexity(fn *parser.Node) *ComplexityResult {
	return CalculateComplexityWithOptions(fn, nil, DefaultOptions())
}

// CalculateComplexityWithOptions scores, classifies and annotates one function.
// lines may be nil when no annotation column is needed.
func CalculateComplexityWithOptions(fn *parser.Node, lines []string, opts Options) *ComplexityResult {
	breakdown := Breakdown(fn, opts.Score)
	score := 1 + breakdown.Total()
	classification := Classify(score, opts.Thresholds, opts.Styles)

	return &ComplexityResult{
		Complexity:     score,
		FunctionName:   fn.DisplayName(),
		Kind:           fn.Type,
		StartLine:      fn.Location.StartLine,
		StartCol:       fn.Location.StartCol,
		EndLine:        fn.Location.EndLine,
		Breakdown:      breakdown,
		Classification: classification,
		Annotation:     Annotate(fn, lines, score, classification),
	}
}

// AnalyzeFunctions runs one document pass: enumerate the functions of root,
// then score, classify and annotate each in document order
func AnalyzeFunctions(root *parser.Node, source []byte, opts Options) []*ComplexityResult {
	lines := SplitLines(source)
	functions := CollectFunctions(root, opts.Scope)

	results := make([]*ComplexityResult, 0, len(functions))
	for _, fn := range functions {
		results = append(results, CalculateComplexityWithOptions(fn, lines, opts))
	}
	return results
}
