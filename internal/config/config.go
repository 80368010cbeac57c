package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ludo-technologies/complexitylens/internal/constants"
)

// Default complexity thresholds
const (
	// DefaultWarningThreshold is the lowest score classified as warning
	DefaultWarningThreshold = 10

	// DefaultErrorThreshold is the lowest score classified as error
	DefaultErrorThreshold = 15

	// DefaultMinComplexityFilter reports every function
	DefaultMinComplexityFilter = 1

	// DefaultDebounceMs coalesces bursts of file events in watch mode
	DefaultDebounceMs = 200

	// DefaultTierLabel is the label shown for every tier
	DefaultTierLabel = "Risk"
)

// Function scopes
const (
	// ScopeTopLevel analyses function declarations at the top of a module
	ScopeTopLevel = "top_level"

	// ScopeAll analyses every function-like node in a module
	ScopeAll = "all"
)

// Color modes for text output
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the main configuration structure
type Config struct {
	// Complexity holds scoring and threshold configuration
	Complexity ComplexityConfig `json:"complexity" mapstructure:"complexity" yaml:"complexity"`

	// Tiers holds the presentation of each risk tier
	Tiers TiersConfig `json:"tiers" mapstructure:"tiers" yaml:"tiers"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Analysis holds file collection and scheduling configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`

	// Watch holds live re-analysis configuration
	Watch WatchConfig `json:"watch" mapstructure:"watch" yaml:"watch"`
}

// ComplexityConfig holds configuration for cyclomatic complexity scoring
type ComplexityConfig struct {
	// WarningThreshold is the lowest score in the warning tier (inclusive)
	WarningThreshold int `json:"warning_threshold" mapstructure:"warning_threshold" yaml:"warning_threshold"`

	// ErrorThreshold is the lowest score in the error tier (inclusive).
	// Must be greater than WarningThreshold.
	ErrorThreshold int `json:"error_threshold" mapstructure:"error_threshold" yaml:"error_threshold"`

	// IncludeNestedFunctions counts decision points of nested functions and
	// closures towards the enclosing function
	IncludeNestedFunctions bool `json:"include_nested_functions" mapstructure:"include_nested_functions" yaml:"include_nested_functions"`

	// FunctionScope selects which functions are scored: top_level or all
	FunctionScope string `json:"function_scope" mapstructure:"function_scope" yaml:"function_scope"`
}

// TierConfig holds the presentation attributes of one risk tier
type TierConfig struct {
	Label string `json:"label" mapstructure:"label" yaml:"label"`
	Color string `json:"color" mapstructure:"color" yaml:"color"`
	Icon  string `json:"icon" mapstructure:"icon" yaml:"icon"`
}

// TiersConfig holds the presentation attributes of all risk tiers
type TiersConfig struct {
	Low     TierConfig `json:"low" mapstructure:"low" yaml:"low"`
	Warning TierConfig `json:"warning" mapstructure:"warning" yaml:"warning"`
	Error   TierConfig `json:"error" mapstructure:"error" yaml:"error"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// SortBy specifies how to sort results: location, complexity, name, risk
	SortBy string `json:"sort_by" mapstructure:"sort_by" yaml:"sort_by"`

	// MinComplexity is the minimum complexity to report
	MinComplexity int `json:"min_complexity" mapstructure:"min_complexity" yaml:"min_complexity"`

	// ShowDetails adds the per-construct breakdown to text output
	ShowDetails bool `json:"show_details" mapstructure:"show_details" yaml:"show_details"`

	// ShowSource prints the highlighted first line of each function
	ShowSource bool `json:"show_source" mapstructure:"show_source" yaml:"show_source"`

	// Color controls ANSI colouring of text output: auto, always, never
	Color string `json:"color" mapstructure:"color" yaml:"color"`
}

// AnalysisConfig holds general analysis configuration
type AnalysisConfig struct {
	// IncludePatterns specifies file patterns to include
	IncludePatterns []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns specifies file patterns to exclude
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// Recursive controls whether to analyze directories recursively
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive"`

	// RespectGitignore skips files ignored by .gitignore files under the analysed roots
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`

	// MaxWorkers bounds the number of documents analysed concurrently (0 = NumCPU)
	MaxWorkers int `json:"max_workers" mapstructure:"max_workers" yaml:"max_workers"`
}

// WatchConfig holds configuration for watch mode
type WatchConfig struct {
	// DebounceMs is the quiet period before a burst of file events triggers a pass
	DebounceMs int `json:"debounce_ms" mapstructure:"debounce_ms" yaml:"debounce_ms"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Complexity: ComplexityConfig{
			WarningThreshold:       DefaultWarningThreshold,
			ErrorThreshold:         DefaultErrorThreshold,
			IncludeNestedFunctions: true,
			FunctionScope:          ScopeTopLevel,
		},
		Tiers: TiersConfig{
			Low:     TierConfig{Label: DefaultTierLabel, Color: "green", Icon: "✅"},
			Warning: TierConfig{Label: DefaultTierLabel, Color: "orange", Icon: "⚠️"},
			Error:   TierConfig{Label: DefaultTierLabel, Color: "red", Icon: "❌"},
		},
		Output: OutputConfig{
			Format:        "text",
			SortBy:        "location",
			MinComplexity: DefaultMinComplexityFilter,
			ShowDetails:   false,
			ShowSource:    false,
			Color:         ColorAuto,
		},
		Analysis: AnalysisConfig{
			IncludePatterns: []string{
				"**/*.js", "**/*.ts", "**/*.jsx", "**/*.tsx",
				"**/*.mjs", "**/*.cjs", "**/*.mts", "**/*.cts",
			},
			ExcludePatterns: []string{
				"node_modules",
				"vendor",
				"dist",
				"build",
				"out",
				".next",
				".cache",
				"coverage",
				".git",
				"*.min.js",
				"*.bundle.js",
				"*.d.ts",
			},
			Recursive:        true,
			RespectGitignore: true,
			MaxWorkers:       0,
		},
		Watch: WatchConfig{
			DebounceMs: DefaultDebounceMs,
		},
	}
}

// Settings flattens a configuration into dotted keys, as used by viper
// defaults, environment overrides and `config set`.
func Settings(c *Config) map[string]any {
	return map[string]any{
		"complexity.warning_threshold":        c.Complexity.WarningThreshold,
		"complexity.error_threshold":          c.Complexity.ErrorThreshold,
		"complexity.include_nested_functions": c.Complexity.IncludeNestedFunctions,
		"complexity.function_scope":           c.Complexity.FunctionScope,
		"tiers.low.label":                     c.Tiers.Low.Label,
		"tiers.low.color":                     c.Tiers.Low.Color,
		"tiers.low.icon":                      c.Tiers.Low.Icon,
		"tiers.warning.label":                 c.Tiers.Warning.Label,
		"tiers.warning.color":                 c.Tiers.Warning.Color,
		"tiers.warning.icon":                  c.Tiers.Warning.Icon,
		"tiers.error.label":                   c.Tiers.Error.Label,
		"tiers.error.color":                   c.Tiers.Error.Color,
		"tiers.error.icon":                    c.Tiers.Error.Icon,
		"output.format":                       c.Output.Format,
		"output.sort_by":                      c.Output.SortBy,
		"output.min_complexity":               c.Output.MinComplexity,
		"output.show_details":                 c.Output.ShowDetails,
		"output.show_source":                  c.Output.ShowSource,
		"output.color":                        c.Output.Color,
		"analysis.include_patterns":           c.Analysis.IncludePatterns,
		"analysis.exclude_patterns":           c.Analysis.ExcludePatterns,
		"analysis.recursive":                  c.Analysis.Recursive,
		"analysis.respect_gitignore":          c.Analysis.RespectGitignore,
		"analysis.max_workers":                c.Analysis.MaxWorkers,
		"watch.debounce_ms":                   c.Watch.DebounceMs,
	}
}

// newViper creates an isolated viper instance with defaults and environment
// overrides registered
func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range Settings(DefaultConfig()) {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context.
// An empty configPath triggers discovery starting at targetPath.
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	loadEnvFiles()

	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}

	return loadConfigFromFile(configPath)
}

// loadEnvFiles loads .env files from the working directory. Variables that
// are already set are not overridden.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}

// loadConfigFromFile reads, merges and validates a configuration file.
// An empty path yields defaults plus environment overrides.
func loadConfigFromFile(configPath string) (*Config, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	config := DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// FindDefaultConfig returns the configuration file that applies to targetPath,
// or "" when none exists
func FindDefaultConfig(targetPath string) string {
	return findDefaultConfig(targetPath)
}

// findDefaultConfig looks for default configuration files in common locations
func findDefaultConfig(targetPath string) string {
	candidates := constants.ConfigFileNames

	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), candidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", constants.ToolName)
		if config := searchConfigInDirectory(configDir, candidates); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Complexity.WarningThreshold < 1 {
		return fmt.Errorf("complexity.warning_threshold must be >= 1, got %d", c.Complexity.WarningThreshold)
	}

	if c.Complexity.ErrorThreshold <= c.Complexity.WarningThreshold {
		return fmt.Errorf("complexity.error_threshold (%d) must be > warning_threshold (%d)",
			c.Complexity.ErrorThreshold, c.Complexity.WarningThreshold)
	}

	if c.Complexity.FunctionScope != ScopeTopLevel && c.Complexity.FunctionScope != ScopeAll {
		return fmt.Errorf("invalid complexity.function_scope '%s', must be one of: %s, %s",
			c.Complexity.FunctionScope, ScopeTopLevel, ScopeAll)
	}

	tiers := []struct {
		name string
		tier TierConfig
	}{
		{"low", c.Tiers.Low},
		{"warning", c.Tiers.Warning},
		{"error", c.Tiers.Error},
	}
	for _, t := range tiers {
		if !IsValidColor(t.tier.Color) {
			return fmt.Errorf("invalid tiers.%s.color '%s', must be a CSS color name or hex value", t.name, t.tier.Color)
		}
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
		"csv":  true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, csv", c.Output.Format)
	}

	validSortBy := map[string]bool{
		"location":   true,
		"complexity": true,
		"name":       true,
		"risk":       true,
	}
	if !validSortBy[c.Output.SortBy] {
		return fmt.Errorf("invalid output.sort_by '%s', must be one of: location, complexity, name, risk", c.Output.SortBy)
	}

	if c.Output.MinComplexity < 1 {
		return fmt.Errorf("output.min_complexity must be >= 1, got %d", c.Output.MinComplexity)
	}

	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid output.color '%s', must be one of: auto, always, never", c.Output.Color)
	}

	if len(c.Analysis.IncludePatterns) == 0 {
		return fmt.Errorf("analysis.include_patterns cannot be empty")
	}

	if c.Analysis.MaxWorkers < 0 {
		return fmt.Errorf("analysis.max_workers must be >= 0, got %d", c.Analysis.MaxWorkers)
	}

	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMs)
	}

	return nil
}

// Tier returns the presentation attributes for a tier name (low, warning, error)
func (t *TiersConfig) Tier(name string) (TierConfig, bool) {
	switch name {
	case "low":
		return t.Low, true
	case "warning":
		return t.Warning, true
	case "error":
		return t.Error, true
	}
	return TierConfig{}, false
}
