package app

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/complexitylens/domain"
)

// ComplexityUseCase orchestrates the complexity analysis workflow
type ComplexityUseCase struct {
	service    domain.ComplexityService
	fileHelper *FileHelper
}

// NewComplexityUseCase creates a new complexity use case. Files are collected
// with a helper that follows each request's gitignore setting.
func NewComplexityUseCase(service domain.ComplexityService) *ComplexityUseCase {
	return &ComplexityUseCase{
		service: service,
	}
}

// Execute performs the complete complexity analysis workflow
func (uc *ComplexityUseCase) Execute(ctx context.Context, req domain.ComplexityRequest) (*domain.ComplexityResponse, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	files, err := ResolveFilePaths(
		uc.helperFor(req),
		req.Paths,
		req.Recursive,
		req.IncludePatterns,
		req.ExcludePatterns,
	)
	if err != nil {
		return nil, domain.NewInvalidInputError("failed to collect files", err)
	}

	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no JavaScript/TypeScript files found in the specified paths", nil)
	}

	req.Paths = files

	response, err := uc.service.Analyze(ctx, req)
	if err != nil {
		return nil, domain.NewAnalysisError("complexity analysis failed", err)
	}

	return response, nil
}

// AnalyzeFile analyzes a single file
func (uc *ComplexityUseCase) AnalyzeFile(ctx context.Context, filePath string, req domain.ComplexityRequest) (*domain.ComplexityResponse, error) {
	helper := uc.helperFor(req)

	if !helper.IsValidJSFile(filePath) {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("not a valid JavaScript/TypeScript file: %s", filePath), nil)
	}

	exists, err := helper.FileExists(filePath)
	if err != nil {
		return nil, domain.NewFileNotFoundError(filePath, err)
	}
	if !exists {
		return nil, domain.NewFileNotFoundError(filePath, fmt.Errorf("file does not exist"))
	}

	return uc.service.AnalyzeFile(ctx, filePath, req)
}

func (uc *ComplexityUseCase) helperFor(req domain.ComplexityRequest) *FileHelper {
	if uc.fileHelper != nil {
		return uc.fileHelper
	}
	return NewFileHelperWithGitignore(req.RespectGitignore)
}

// validateRequest validates the complexity request
func (uc *ComplexityUseCase) validateRequest(req domain.ComplexityRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}

	if req.MinComplexity < 0 {
		return fmt.Errorf("minimum complexity cannot be negative")
	}

	// Zero thresholds select the defaults
	if req.WarningThreshold == 0 && req.ErrorThreshold == 0 {
		return nil
	}

	if req.WarningThreshold < 1 {
		return fmt.Errorf("warning threshold must be at least 1")
	}

	if req.ErrorThreshold <= req.WarningThreshold {
		return fmt.Errorf("error threshold must be greater than warning threshold")
	}

	return nil
}

// ComplexityUseCaseBuilder provides a builder pattern for creating ComplexityUseCase
type ComplexityUseCaseBuilder struct {
	service    domain.ComplexityService
	fileHelper *FileHelper
}

// NewComplexityUseCaseBuilder creates a new builder
func NewComplexityUseCaseBuilder() *ComplexityUseCaseBuilder {
	return &ComplexityUseCaseBuilder{}
}

// WithService sets the complexity service
func (b *ComplexityUseCaseBuilder) WithService(service domain.ComplexityService) *ComplexityUseCaseBuilder {
	b.service = service
	return b
}

// WithFileHelper sets a fixed file helper, overriding the per-request one
func (b *ComplexityUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *ComplexityUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// Build creates the ComplexityUseCase with the configured dependencies
func (b *ComplexityUseCaseBuilder) Build() (*ComplexityUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("complexity service is required")
	}

	return &ComplexityUseCase{
		service:    b.service,
		fileHelper: b.fileHelper,
	}, nil
}
