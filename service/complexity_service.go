package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ludo-technologies/complexitylens/domain"
	"github.com/ludo-technologies/complexitylens/internal/analyzer"
	"github.com/ludo-technologies/complexitylens/internal/logging"
	"github.com/ludo-technologies/complexitylens/internal/parser"
	"github.com/ludo-technologies/complexitylens/internal/version"
)

// ComplexityServiceImpl implements the ComplexityService interface
type ComplexityServiceImpl struct {
	progress domain.ProgressManager
	logger   *zap.Logger
}

var _ domain.ComplexityService = (*ComplexityServiceImpl)(nil)

// NewComplexityService creates a new complexity service implementation
func NewComplexityService(logger *zap.Logger) *ComplexityServiceImpl {
	return &ComplexityServiceImpl{
		logger: logging.OrNop(logger),
	}
}

// NewComplexityServiceWithProgress creates a new complexity service with progress reporting
func NewComplexityServiceWithProgress(logger *zap.Logger, pm domain.ProgressManager) *ComplexityServiceImpl {
	return &ComplexityServiceImpl{
		progress: pm,
		logger:   logging.OrNop(logger),
	}
}

// fileResult is the outcome of one document pass
type fileResult struct {
	functions []domain.FunctionComplexity
	warnings  []string
	done      bool
}

// documentTask runs one document pass inside the parallel executor
type documentTask struct {
	service *ComplexityServiceImpl
	path    string
	req     domain.ComplexityRequest
	opts    analyzer.Options
	out     *fileResult
}

func (t *documentTask) Name() string    { return t.path }
func (t *documentTask) IsEnabled() bool { return true }

func (t *documentTask) Execute(ctx context.Context) (any, error) {
	functions, warnings, err := t.service.analyzeFile(ctx, t.path, t.req, t.opts)
	if err != nil {
		return nil, err
	}
	t.out.functions = functions
	t.out.warnings = warnings
	t.out.done = true
	return functions, nil
}

// Analyze performs complexity analysis on multiple files. Files are analysed
// concurrently, results keep the order of req.Paths.
func (s *ComplexityServiceImpl) Analyze(ctx context.Context, req domain.ComplexityRequest) (*domain.ComplexityResponse, error) {
	if len(req.Paths) == 0 {
		return nil, domain.NewInvalidInputError("no files to analyze", nil)
	}

	start := time.Now()
	opts := analyzerOptions(req)

	results := make([]fileResult, len(req.Paths))
	tasks := make([]domain.ExecutableTask, len(req.Paths))
	for i, path := range req.Paths {
		tasks[i] = &documentTask{
			service: s,
			path:    path,
			req:     req,
			opts:    opts,
			out:     &results[i],
		}
	}

	executor := NewParallelExecutor()
	executor.SetMaxConcurrency(req.MaxWorkers)
	executor.SetDescription("Analyzing complexity")
	executor.progress = s.progress

	var errs []string
	if err := executor.Execute(ctx, tasks); err != nil {
		var cancelled *CancelledError
		if errors.As(err, &cancelled) {
			return nil, fmt.Errorf("complexity analysis cancelled: %w", err)
		}

		var agg *AggregatedError
		if !errors.As(err, &agg) {
			return nil, domain.NewAnalysisError("complexity analysis failed", err)
		}
		for _, te := range agg.Errors {
			s.logger.Warn("skipping file", zap.String("file", te.TaskName), zap.Error(te.Err))
			errs = append(errs, te.Error())
		}
	}

	var allFunctions []domain.FunctionComplexity
	var warnings []string
	filesProcessed := 0
	for _, r := range results {
		if !r.done {
			continue
		}
		allFunctions = append(allFunctions, r.functions...)
		warnings = append(warnings, r.warnings...)
		filesProcessed++
	}

	if filesProcessed == 0 && len(req.Paths) > 0 {
		return nil, domain.NewAnalysisError("no files could be analyzed", errors.New(strings.Join(errs, "; ")))
	}

	filtered := s.filterFunctions(allFunctions, req)
	sorted := s.sortFunctions(filtered, req.SortBy)
	summary := s.generateSummary(sorted, filesProcessed)

	s.logger.Debug("analysis pass complete",
		zap.Int("files", filesProcessed),
		zap.Int("functions", len(allFunctions)),
		zap.Int("errors", len(errs)),
		zap.Duration("elapsed", time.Since(start)))

	return &domain.ComplexityResponse{
		Functions:   sorted,
		Summary:     summary,
		Warnings:    warnings,
		Errors:      errs,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
		Config:      s.buildConfigForResponse(req, opts),
	}, nil
}

// AnalyzeFile analyzes a single JavaScript/TypeScript file
func (s *ComplexityServiceImpl) AnalyzeFile(ctx context.Context, filePath string, req domain.ComplexityRequest) (*domain.ComplexityResponse, error) {
	singleFileReq := req
	singleFileReq.Paths = []string{filePath}

	return s.Analyze(ctx, singleFileReq)
}

// analyzeFile runs one document pass: parse, enumerate, score, classify and
// annotate each function in document order
func (s *ComplexityServiceImpl) analyzeFile(ctx context.Context, filePath string, req domain.ComplexityRequest, opts analyzer.Options) ([]domain.FunctionComplexity, []string, error) {
	var warnings []string

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	ast, err := parser.ParseForLanguage(ctx, filePath, content)
	if err != nil {
		return nil, nil, domain.NewParseError(filePath, err)
	}
	if ast.HasError {
		warnings = append(warnings, fmt.Sprintf("[%s] contains syntax errors; results may be incomplete", filePath))
	}

	lines := analyzer.SplitLines(content)
	results := analyzer.AnalyzeFunctions(ast, content, opts)

	functions := make([]domain.FunctionComplexity, 0, len(results))
	for _, result := range results {
		fn := toFunctionComplexity(filePath, result)
		if req.ShowSource && result.StartLine >= 1 && result.StartLine <= len(lines) {
			fn.Source = strings.TrimRight(lines[result.StartLine-1], " \t")
		}
		functions = append(functions, fn)
	}

	return functions, warnings, nil
}

// toFunctionComplexity converts an analyzer result to the domain model
func toFunctionComplexity(filePath string, result *analyzer.ComplexityResult) domain.FunctionComplexity {
	return domain.FunctionComplexity{
		Name:        result.FunctionName,
		FilePath:    filePath,
		StartLine:   result.StartLine,
		StartColumn: result.StartCol,
		EndLine:     result.EndLine,
		Metrics: domain.ComplexityMetrics{
			Complexity:       result.Complexity,
			IfStatements:     result.Breakdown.IfStatements,
			LoopStatements:   result.Breakdown.LoopStatements,
			SwitchStatements: result.Breakdown.SwitchStatements,
			TernaryOperators: result.Breakdown.TernaryOperators,
			LogicalOperators: result.Breakdown.LogicalOperators,
		},
		RiskLevel: domain.RiskLevel(result.Classification.Tier.String()),
		Annotation: domain.Annotation{
			Line:   result.Annotation.Line,
			Column: result.Annotation.Column,
			Text:   result.Annotation.Text,
			Label:  result.Annotation.Label,
			Color:  result.Annotation.Color,
			Icon:   result.Annotation.Icon,
		},
	}
}

// analyzerOptions builds the pass settings from a request. Zero thresholds
// and an empty tier table fall back to the built-in defaults.
func analyzerOptions(req domain.ComplexityRequest) analyzer.Options {
	opts := analyzer.DefaultOptions()

	if req.FunctionScope == domain.FunctionScopeAll {
		opts.Scope = analyzer.ScopeAll
	}
	opts.Score.IncludeNested = !req.ExcludeNested

	if req.WarningThreshold > 0 && req.ErrorThreshold > 0 {
		opts.Thresholds = analyzer.Thresholds{
			Warning: req.WarningThreshold,
			Error:   req.ErrorThreshold,
		}
	}

	if req.Tiers != (domain.TierStyles{}) {
		opts.Styles = analyzer.TierStyles{
			Low:     analyzer.TierStyle(req.Tiers.Low),
			Warning: analyzer.TierStyle(req.Tiers.Warning),
			Error:   analyzer.TierStyle(req.Tiers.Error),
		}
	}

	return opts
}

// filterFunctions filters functions based on request criteria
func (s *ComplexityServiceImpl) filterFunctions(functions []domain.FunctionComplexity, req domain.ComplexityRequest) []domain.FunctionComplexity {
	filtered := make([]domain.FunctionComplexity, 0, len(functions))

	for _, fn := range functions {
		if req.MinComplexity > 0 && fn.Metrics.Complexity < req.MinComplexity {
			continue
		}

		if req.OnlyTier != "" && fn.RiskLevel != req.OnlyTier {
			continue
		}

		filtered = append(filtered, fn)
	}

	return filtered
}

// sortFunctions sorts functions based on the specified criteria. Location
// keeps the pass order: input file order, then document order.
func (s *ComplexityServiceImpl) sortFunctions(functions []domain.FunctionComplexity, sortBy domain.SortCriteria) []domain.FunctionComplexity {
	sorted := make([]domain.FunctionComplexity, len(functions))
	copy(sorted, functions)

	switch sortBy {
	case domain.SortByComplexity:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Metrics.Complexity > sorted[j].Metrics.Complexity
		})
	case domain.SortByName:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Name < sorted[j].Name
		})
	case domain.SortByRisk:
		sort.SliceStable(sorted, func(i, j int) bool {
			ri, rj := sorted[i].RiskLevel.Rank(), sorted[j].RiskLevel.Rank()
			if ri != rj {
				return ri > rj
			}
			return sorted[i].Metrics.Complexity > sorted[j].Metrics.Complexity
		})
	}

	return sorted
}

// generateSummary generates a summary of the complexity analysis
func (s *ComplexityServiceImpl) generateSummary(functions []domain.FunctionComplexity, filesProcessed int) domain.ComplexitySummary {
	summary := domain.ComplexitySummary{
		FilesAnalyzed:  filesProcessed,
		TotalFunctions: len(functions),
	}

	if len(functions) == 0 {
		return summary
	}

	totalComplexity := 0
	maxComplexity := 0
	minComplexity := functions[0].Metrics.Complexity

	for _, fn := range functions {
		totalComplexity += fn.Metrics.Complexity

		if fn.Metrics.Complexity > maxComplexity {
			maxComplexity = fn.Metrics.Complexity
		}
		if fn.Metrics.Complexity < minComplexity {
			minComplexity = fn.Metrics.Complexity
		}

		switch fn.RiskLevel {
		case domain.RiskLevelError:
			summary.ErrorRiskFunctions++
		case domain.RiskLevelWarning:
			summary.WarningRiskFunctions++
		case domain.RiskLevelLow:
			summary.LowRiskFunctions++
		}
	}

	summary.AverageComplexity = float64(totalComplexity) / float64(len(functions))
	summary.MaxComplexity = maxComplexity
	summary.MinComplexity = minComplexity

	return summary
}

// buildConfigForResponse builds the configuration section for the response
func (s *ComplexityServiceImpl) buildConfigForResponse(req domain.ComplexityRequest, opts analyzer.Options) map[string]any {
	return map[string]any{
		"warning_threshold":        opts.Thresholds.Warning,
		"error_threshold":          opts.Thresholds.Error,
		"include_nested_functions": opts.Score.IncludeNested,
		"function_scope":           string(opts.Scope),
		"sort_by":                  string(req.SortBy),
		"min_complexity":           req.MinComplexity,
	}
}
