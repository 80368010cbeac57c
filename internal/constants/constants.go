package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "complexitylens"

	// ConfigFileName is the default config file name written by init
	ConfigFileName = "complexitylens.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "COMPLEXITYLENS"
)

// ConfigFileNames lists the configuration file names searched in each directory, in priority order
var ConfigFileNames = []string{
	"complexitylens.yaml",
	"complexitylens.yml",
	".complexitylens.yaml",
	".complexitylens.toml",
	"complexitylens.json",
}

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
	OutputFormatCSV  = "csv"
)

// Sort key constants
const (
	SortByLocation   = "location"
	SortByComplexity = "complexity"
	SortByName       = "name"
	SortByRisk       = "risk"
)

// SupportedExtensions lists the source file extensions that are analysed
var SupportedExtensions = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts"}
