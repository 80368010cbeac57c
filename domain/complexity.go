package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// SortCriteria represents the criteria for sorting results
type SortCriteria string

const (
	SortByLocation   SortCriteria = "location"
	SortByComplexity SortCriteria = "complexity"
	SortByName       SortCriteria = "name"
	SortByRisk       SortCriteria = "risk"
)

// FunctionScope selects which functions of a file are analysed
type FunctionScope string

const (
	FunctionScopeTopLevel FunctionScope = "top_level"
	FunctionScopeAll      FunctionScope = "all"
)

// RiskLevel represents the complexity risk tier
type RiskLevel string

const (
	RiskLevelLow     RiskLevel = "low"
	RiskLevelWarning RiskLevel = "warning"
	RiskLevelError   RiskLevel = "error"
)

// Rank orders risk levels from least to most severe
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLevelError:
		return 2
	case RiskLevelWarning:
		return 1
	default:
		return 0
	}
}

// TierStyle is the presentation of one risk tier
type TierStyle struct {
	Label string `json:"label" yaml:"label"`
	Color string `json:"color" yaml:"color"`
	Icon  string `json:"icon" yaml:"icon"`
}

// TierStyles is the presentation of every risk tier
type TierStyles struct {
	Low     TierStyle `json:"low" yaml:"low"`
	Warning TierStyle `json:"warning" yaml:"warning"`
	Error   TierStyle `json:"error" yaml:"error"`
}

// ComplexityRequest represents a request for complexity analysis
type ComplexityRequest struct {
	// Input files or directories to analyze
	Paths []string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	ShowDetails  bool
	ShowSource   bool
	Color        bool

	// Filtering and sorting
	MinComplexity int
	OnlyTier      RiskLevel // empty means every tier
	SortBy        SortCriteria

	// Scoring and classification
	WarningThreshold int
	ErrorThreshold   int
	ExcludeNested    bool // nested function bodies count unless set
	FunctionScope    FunctionScope
	Tiers            TierStyles

	// Configuration
	ConfigPath string

	// Analysis options
	Recursive        bool
	RespectGitignore bool
	IncludePatterns  []string
	ExcludePatterns  []string
	MaxWorkers       int
}

// ComplexityMetrics represents detailed complexity metrics for a function
type ComplexityMetrics struct {
	// McCabe cyclomatic complexity
	Complexity int `json:"complexity" yaml:"complexity"`

	// Construct counts
	IfStatements     int `json:"if_statements" yaml:"if_statements"`
	LoopStatements   int `json:"loop_statements" yaml:"loop_statements"`
	SwitchStatements int `json:"switch_statements" yaml:"switch_statements"`
	TernaryOperators int `json:"ternary_operators" yaml:"ternary_operators"`
	LogicalOperators int `json:"logical_operators" yaml:"logical_operators"`
}

// Annotation is the text an editor shows at the end of the line preceding a function
type Annotation struct {
	// Line is 0-based
	Line int `json:"line" yaml:"line"`
	// Column is the end of Line in UTF-16 code units
	Column int    `json:"column" yaml:"column"`
	Text   string `json:"text" yaml:"text"`
	Label  string `json:"label" yaml:"label"`
	Color  string `json:"color" yaml:"color"`
	Icon   string `json:"icon" yaml:"icon"`
}

// FunctionComplexity represents complexity analysis result for a single function
type FunctionComplexity struct {
	// Function identification
	Name        string `json:"name" yaml:"name"`
	FilePath    string `json:"file_path" yaml:"file_path"`
	StartLine   int    `json:"start_line" yaml:"start_line"`
	StartColumn int    `json:"start_column" yaml:"start_column"`
	EndLine     int    `json:"end_line" yaml:"end_line"`

	// Complexity metrics
	Metrics ComplexityMetrics `json:"metrics" yaml:"metrics"`

	// Risk assessment
	RiskLevel  RiskLevel  `json:"risk_level" yaml:"risk_level"`
	Annotation Annotation `json:"annotation" yaml:"annotation"`

	// Source is the first source line of the function
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// ComplexitySummary represents aggregate statistics
type ComplexitySummary struct {
	TotalFunctions    int     `json:"total_functions" yaml:"total_functions"`
	AverageComplexity float64 `json:"average_complexity" yaml:"average_complexity"`
	MaxComplexity     int     `json:"max_complexity" yaml:"max_complexity"`
	MinComplexity     int     `json:"min_complexity" yaml:"min_complexity"`
	FilesAnalyzed     int     `json:"files_analyzed" yaml:"files_analyzed"`

	// Risk distribution
	LowRiskFunctions     int `json:"low_risk_functions" yaml:"low_risk_functions"`
	WarningRiskFunctions int `json:"warning_risk_functions" yaml:"warning_risk_functions"`
	ErrorRiskFunctions   int `json:"error_risk_functions" yaml:"error_risk_functions"`
}

// ComplexityResponse represents the complete analysis result
type ComplexityResponse struct {
	// Analysis results
	Functions []FunctionComplexity `json:"functions" yaml:"functions"`
	Summary   ComplexitySummary    `json:"summary" yaml:"summary"`

	// Warnings and issues
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Disabled is set when the pass was skipped because annotations are off
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty"`

	// Metadata
	GeneratedAt string         `json:"generated_at" yaml:"generated_at"`
	Version     string         `json:"version" yaml:"version"`
	Config      map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// ComplexityService defines the core business logic for complexity analysis
type ComplexityService interface {
	// Analyze performs complexity analysis on the given request
	Analyze(ctx context.Context, req ComplexityRequest) (*ComplexityResponse, error)

	// AnalyzeFile analyzes a single JavaScript/TypeScript file
	AnalyzeFile(ctx context.Context, filePath string, req ComplexityRequest) (*ComplexityResponse, error)
}

// JSFileReader defines JavaScript/TypeScript-specific file operations.
type JSFileReader interface {
	CollectJSFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)
	ReadFile(path string) ([]byte, error)
	IsValidJSFile(path string) bool
	FileExists(path string) (bool, error)
}

// OutputFormatter defines the interface for formatting analysis results
type OutputFormatter interface {
	// Write writes the formatted output to the writer
	Write(response *ComplexityResponse, format OutputFormat, writer io.Writer) error
}

// ConfigurationLoader defines the interface for loading configuration
type ConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path, discovering a
	// config file from targetPath when path is empty
	LoadConfig(path, targetPath string) (*ComplexityRequest, error)

	// LoadDefaultConfig loads the default configuration
	LoadDefaultConfig() *ComplexityRequest

	// MergeConfig merges CLI flags with configuration file
	MergeConfig(base *ComplexityRequest, override *ComplexityOverrides) *ComplexityRequest

	// ValidateConfig checks a merged request before it reaches the analysis
	ValidateConfig(req *ComplexityRequest) error
}

// ComplexityOverrides holds values given explicitly on the command line.
// Nil fields leave the configured value in place.
type ComplexityOverrides struct {
	OutputFormat     *OutputFormat
	OutputWriter     io.Writer
	ShowDetails      *bool
	ShowSource       *bool
	Color            *bool
	MinComplexity    *int
	OnlyTier         *RiskLevel
	SortBy           *SortCriteria
	WarningThreshold *int
	ErrorThreshold   *int
	IncludeNested    *bool
	FunctionScope    *FunctionScope
	Recursive        *bool
	MaxWorkers       *int
}
