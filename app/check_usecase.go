package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ludo-technologies/complexitylens/domain"
	"github.com/ludo-technologies/complexitylens/internal/version"
)

// Check exit codes
const (
	ExitCodePass      = 0
	ExitCodeViolation = 1
	ExitCodeError     = 2
)

// CheckUseCase turns a complexity pass into a pass/fail verdict for CI
type CheckUseCase struct {
	complexity *ComplexityUseCase
}

// NewCheckUseCase creates a check use case
func NewCheckUseCase(complexity *ComplexityUseCase) *CheckUseCase {
	return &CheckUseCase{complexity: complexity}
}

// Execute runs a pass over every function and records a violation for each
// function whose tier is failOn or worse. An empty failOn means error.
// Files that could not be analysed fail the check with ExitCodeError.
func (uc *CheckUseCase) Execute(ctx context.Context, req domain.ComplexityRequest, failOn domain.RiskLevel) (*domain.CheckResult, error) {
	start := time.Now()

	if failOn == "" {
		failOn = domain.RiskLevelError
	}
	if failOn != domain.RiskLevelError && failOn != domain.RiskLevelWarning {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid fail-on tier: %s (must be warning or error)", failOn), nil)
	}

	// Every function is checked regardless of report filters
	req.MinComplexity = 0
	req.OnlyTier = ""
	req.SortBy = domain.SortByRisk

	resp, err := uc.complexity.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &domain.CheckResult{
		Passed:     true,
		Violations: []domain.CheckViolation{},
		Errors:     resp.Errors,
		Summary: domain.CheckSummary{
			FilesAnalyzed:    resp.Summary.FilesAnalyzed,
			FunctionsChecked: resp.Summary.TotalFunctions,
			ErrorFunctions:   resp.Summary.ErrorRiskFunctions,
			WarningFunctions: resp.Summary.WarningRiskFunctions,
		},
	}

	for _, fn := range resp.Functions {
		if fn.RiskLevel.Rank() < failOn.Rank() {
			continue
		}

		threshold := req.ErrorThreshold
		if fn.RiskLevel == domain.RiskLevelWarning {
			threshold = req.WarningThreshold
		}

		result.Passed = false
		result.Violations = append(result.Violations, domain.CheckViolation{
			Rule:      "max-complexity",
			Severity:  string(fn.RiskLevel),
			Message:   fmt.Sprintf("Function '%s' has complexity %d (%s tier)", fn.Name, fn.Metrics.Complexity, fn.RiskLevel),
			Function:  fn.Name,
			Location:  fmt.Sprintf("%s:%d", fn.FilePath, fn.StartLine),
			Actual:    strconv.Itoa(fn.Metrics.Complexity),
			Threshold: thresholdText(threshold),
		})
	}

	result.Summary.TotalViolations = len(result.Violations)
	// A pass that skipped files is incomplete and cannot pass
	switch {
	case len(result.Errors) > 0:
		result.Passed = false
		result.ExitCode = ExitCodeError
	case !result.Passed:
		result.ExitCode = ExitCodeViolation
	default:
		result.ExitCode = ExitCodePass
	}
	result.Duration = time.Since(start).Milliseconds()
	result.GeneratedAt = time.Now().Format(time.RFC3339)
	result.Version = version.Version

	return result, nil
}

func thresholdText(threshold int) string {
	if threshold <= 0 {
		return ""
	}
	return strconv.Itoa(threshold)
}
