package service

import (
	"os"

	"github.com/ludo-technologies/complexitylens/domain"
	"github.com/ludo-technologies/complexitylens/internal/config"
)

// ConfigurationLoaderImpl implements the ConfigurationLoader interface
type ConfigurationLoaderImpl struct{}

var _ domain.ConfigurationLoader = (*ConfigurationLoaderImpl)(nil)

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path. An empty path
// discovers a configuration file starting at targetPath.
func (c *ConfigurationLoaderImpl) LoadConfig(path, targetPath string) (*domain.ComplexityRequest, error) {
	if path == "" {
		path = config.FindDefaultConfig(targetPath)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}

	req := RequestFromConfig(cfg)
	req.ConfigPath = path
	return req, nil
}

// LoadDefaultConfig loads the discovered configuration, falling back to the
// built-in defaults when it cannot be read
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.ComplexityRequest {
	if req, err := c.LoadConfig("", ""); err == nil {
		return req
	}

	return RequestFromConfig(config.DefaultConfig())
}

// MergeConfig applies command line overrides on top of a loaded request
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.ComplexityRequest, override *domain.ComplexityOverrides) *domain.ComplexityRequest {
	merged := *base
	if override == nil {
		return &merged
	}

	if override.OutputFormat != nil {
		merged.OutputFormat = *override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.ShowDetails != nil {
		merged.ShowDetails = *override.ShowDetails
	}
	if override.ShowSource != nil {
		merged.ShowSource = *override.ShowSource
	}
	if override.Color != nil {
		merged.Color = *override.Color
	}
	if override.MinComplexity != nil {
		merged.MinComplexity = *override.MinComplexity
	}
	if override.OnlyTier != nil {
		merged.OnlyTier = *override.OnlyTier
	}
	if override.SortBy != nil {
		merged.SortBy = *override.SortBy
	}
	if override.WarningThreshold != nil {
		merged.WarningThreshold = *override.WarningThreshold
	}
	if override.ErrorThreshold != nil {
		merged.ErrorThreshold = *override.ErrorThreshold
	}
	if override.IncludeNested != nil {
		merged.ExcludeNested = !*override.IncludeNested
	}
	if override.FunctionScope != nil {
		merged.FunctionScope = *override.FunctionScope
	}
	if override.Recursive != nil {
		merged.Recursive = *override.Recursive
	}
	if override.MaxWorkers != nil {
		merged.MaxWorkers = *override.MaxWorkers
	}

	return &merged
}

// ValidateConfig validates a merged request. Command line overrides can
// produce combinations the configuration file would have rejected.
func (c *ConfigurationLoaderImpl) ValidateConfig(req *domain.ComplexityRequest) error {
	if req.WarningThreshold < 1 {
		return domain.NewValidationError("warning threshold must be at least 1")
	}
	if req.ErrorThreshold <= req.WarningThreshold {
		return domain.NewValidationError("error threshold must be greater than warning threshold")
	}
	if req.MinComplexity < 0 {
		return domain.NewValidationError("min complexity cannot be negative")
	}
	if req.MaxWorkers < 0 {
		return domain.NewValidationError("max workers cannot be negative")
	}

	switch req.OutputFormat {
	case domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML, domain.OutputFormatCSV:
	default:
		return domain.NewUnsupportedFormatError(string(req.OutputFormat))
	}

	switch req.SortBy {
	case domain.SortByLocation, domain.SortByComplexity, domain.SortByName, domain.SortByRisk:
	default:
		return domain.NewValidationError("invalid sort criteria: " + string(req.SortBy))
	}

	switch req.FunctionScope {
	case domain.FunctionScopeTopLevel, domain.FunctionScopeAll:
	default:
		return domain.NewValidationError("invalid function scope: " + string(req.FunctionScope))
	}

	switch req.OnlyTier {
	case "", domain.RiskLevelLow, domain.RiskLevelWarning, domain.RiskLevelError:
	default:
		return domain.NewValidationError("invalid tier: " + string(req.OnlyTier))
	}

	return nil
}

// RequestFromConfig converts a Config to a ComplexityRequest. Paths are set
// by the caller.
func RequestFromConfig(cfg *config.Config) *domain.ComplexityRequest {
	return &domain.ComplexityRequest{
		Paths: []string{},

		OutputFormat: domain.OutputFormat(cfg.Output.Format),
		ShowDetails:  cfg.Output.ShowDetails,
		ShowSource:   cfg.Output.ShowSource,
		Color:        ShouldColor(cfg.Output.Color, os.Stdout),

		MinComplexity: cfg.Output.MinComplexity,
		SortBy:        domain.SortCriteria(cfg.Output.SortBy),

		WarningThreshold: cfg.Complexity.WarningThreshold,
		ErrorThreshold:   cfg.Complexity.ErrorThreshold,
		ExcludeNested:    !cfg.Complexity.IncludeNestedFunctions,
		FunctionScope:    domain.FunctionScope(cfg.Complexity.FunctionScope),
		Tiers: domain.TierStyles{
			Low:     domain.TierStyle(cfg.Tiers.Low),
			Warning: domain.TierStyle(cfg.Tiers.Warning),
			Error:   domain.TierStyle(cfg.Tiers.Error),
		},

		Recursive:        cfg.Analysis.Recursive,
		RespectGitignore: cfg.Analysis.RespectGitignore,
		IncludePatterns:  cfg.Analysis.IncludePatterns,
		ExcludePatterns:  cfg.Analysis.ExcludePatterns,
		MaxWorkers:       cfg.Analysis.MaxWorkers,
	}
}
