package config

import (
	"strconv"
	"strings"
)

// ProjectType represents the type of JavaScript/TypeScript project
type ProjectType string

const (
	ProjectTypeGeneric     ProjectType = "generic"
	ProjectTypeReact       ProjectType = "react"
	ProjectTypeVue         ProjectType = "vue"
	ProjectTypeNodeBackend ProjectType = "node"
)

// Strictness represents the analysis strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ProjectPreset holds configuration presets for different project types
type ProjectPreset struct {
	IncludePatterns []string
	ExcludePatterns []string
}

// StrictnessPreset holds threshold values for different strictness levels
type StrictnessPreset struct {
	WarningThreshold int
	ErrorThreshold   int
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	common := []string{"node_modules", "dist", "build", "*.min.js", "*.bundle.js", "*.d.ts"}
	with := func(extra ...string) []string {
		return append(append([]string{}, common...), extra...)
	}

	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric: {
			IncludePatterns: []string{"**/*.js", "**/*.ts", "**/*.jsx", "**/*.tsx"},
			ExcludePatterns: with(),
		},
		ProjectTypeReact: {
			IncludePatterns: []string{"**/*.js", "**/*.ts", "**/*.jsx", "**/*.tsx"},
			ExcludePatterns: with(".next", "coverage"),
		},
		ProjectTypeVue: {
			IncludePatterns: []string{"**/*.js", "**/*.ts", "**/*.jsx", "**/*.tsx"},
			ExcludePatterns: with(".nuxt", "coverage"),
		},
		ProjectTypeNodeBackend: {
			IncludePatterns: []string{"**/*.js", "**/*.ts", "**/*.mjs", "**/*.cjs", "**/*.mts", "**/*.cts"},
			ExcludePatterns: with("test", "tests", "__tests__"),
		},
	}
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			WarningThreshold: 15,
			ErrorThreshold:   25,
		},
		StrictnessStandard: {
			WarningThreshold: DefaultWarningThreshold,
			ErrorThreshold:   DefaultErrorThreshold,
		},
		StrictnessStrict: {
			WarningThreshold: 5,
			ErrorThreshold:   10,
		},
	}
}

// GetFullConfigTemplate returns a commented YAML config for the given presets
func GetFullConfigTemplate(projectType ProjectType, strictness Strictness) string {
	project, ok := GetProjectPresets()[projectType]
	if !ok {
		project = GetProjectPresets()[ProjectTypeGeneric]
	}
	strict, ok := GetStrictnessPresets()[strictness]
	if !ok {
		strict = GetStrictnessPresets()[StrictnessStandard]
	}

	return GetConfigTemplate(project, strict)
}

// GetConfigTemplate renders a commented YAML config from explicit presets
func GetConfigTemplate(project ProjectPreset, strict StrictnessPreset) string {
	defaults := DefaultConfig()

	return `# complexitylens configuration
# Place this file at the root of your project. Values can be overridden with
# COMPLEXITYLENS_<SECTION>_<KEY> environment variables.

# ============================================================================
# COMPLEXITY SCORING
# ============================================================================
complexity:
  # Lowest score shown as a warning (inclusive)
  warning_threshold: ` + strconv.Itoa(strict.WarningThreshold) + `

  # Lowest score shown as an error (inclusive, must be > warning_threshold)
  error_threshold: ` + strconv.Itoa(strict.ErrorThreshold) + `

  # Count decision points of nested functions and closures towards the
  # enclosing function
  include_nested_functions: ` + strconv.FormatBool(defaults.Complexity.IncludeNestedFunctions) + `

  # Which functions are scored: "top_level" declarations or "all" functions
  function_scope: ` + defaults.Complexity.FunctionScope + `

# ============================================================================
# RISK TIERS
# ============================================================================
# Colours accept CSS colour names or hex values (#rgb, #rrggbb, #rrggbbaa)
tiers:
  low:
    label: ` + defaults.Tiers.Low.Label + `
    color: ` + defaults.Tiers.Low.Color + `
    icon: "` + defaults.Tiers.Low.Icon + `"
  warning:
    label: ` + defaults.Tiers.Warning.Label + `
    color: ` + defaults.Tiers.Warning.Color + `
    icon: "` + defaults.Tiers.Warning.Icon + `"
  error:
    label: ` + defaults.Tiers.Error.Label + `
    color: ` + defaults.Tiers.Error.Color + `
    icon: "` + defaults.Tiers.Error.Icon + `"

# ============================================================================
# OUTPUT SETTINGS
# ============================================================================
output:
  # Output format: "text", "json", "yaml", "csv"
  format: text

  # Sort order: "location", "complexity", "name", "risk"
  sort_by: location

  # Hide functions scoring below this value
  min_complexity: 1

  # Show per-construct breakdown in text output
  show_details: false

  # Print the highlighted first line of each function
  show_source: false

  # Terminal colours: "auto", "always", "never"
  color: auto

# ============================================================================
# ANALYSIS SCOPE
# ============================================================================
analysis:
  # File patterns to include (glob patterns)
  include_patterns:
` + formatYAMLList(project.IncludePatterns) + `
  # File or directory patterns to exclude
  exclude_patterns:
` + formatYAMLList(project.ExcludePatterns) + `
  recursive: true

  # Skip files listed in .gitignore
  respect_gitignore: true

  # Number of files analysed concurrently (0 = number of CPUs)
  max_workers: 0

# ============================================================================
# WATCH MODE
# ============================================================================
watch:
  # Quiet period before a burst of file changes triggers re-analysis
  debounce_ms: ` + strconv.Itoa(defaults.Watch.DebounceMs) + `
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return DefaultConfigYAML
}

// formatYAMLList formats a string slice as an indented YAML sequence
func formatYAMLList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(`    - "` + item + `"` + "\n")
	}
	return b.String()
}
