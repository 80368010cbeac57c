package domain

// CheckResult represents the result of a quality check
type CheckResult struct {
	Passed      bool             `json:"passed" yaml:"passed"`
	ExitCode    int              `json:"exit_code" yaml:"exit_code"`
	Violations  []CheckViolation `json:"violations" yaml:"violations"`
	Summary     CheckSummary     `json:"summary" yaml:"summary"`
	Errors      []string         `json:"errors,omitempty" yaml:"errors,omitempty"`
	Duration    int64            `json:"duration_ms" yaml:"duration_ms"`
	GeneratedAt string           `json:"generated_at" yaml:"generated_at"`
	Version     string           `json:"version" yaml:"version"`
}

// CheckViolation represents a single threshold violation
type CheckViolation struct {
	Rule      string `json:"rule" yaml:"rule"`                               // max-complexity
	Severity  string `json:"severity" yaml:"severity"`                       // error, warning
	Message   string `json:"message" yaml:"message"`                         // Human-readable description
	Function  string `json:"function" yaml:"function"`                       // Function name
	Location  string `json:"location,omitempty" yaml:"location,omitempty"`   // File:line
	Actual    string `json:"actual" yaml:"actual"`                           // Actual value
	Threshold string `json:"threshold,omitempty" yaml:"threshold,omitempty"` // Configured threshold
}

// CheckSummary provides aggregate statistics
type CheckSummary struct {
	FilesAnalyzed    int `json:"files_analyzed" yaml:"files_analyzed"`
	FunctionsChecked int `json:"functions_checked" yaml:"functions_checked"`
	TotalViolations  int `json:"total_violations" yaml:"total_violations"`
	ErrorFunctions   int `json:"error_functions" yaml:"error_functions"`
	WarningFunctions int `json:"warning_functions" yaml:"warning_functions"`
}
