package main

import (
	"github.com/ludo-technologies/complexitylens/domain"
	"github.com/ludo-technologies/complexitylens/service"
	"github.com/spf13/cobra"
)

// analysisFlags are the command line settings shared by analyze, check and watch.
// Only flags given explicitly override the configuration file.
type analysisFlags struct {
	configPath       string
	format           string
	json             bool
	details          bool
	source           bool
	noColor          bool
	minComplexity    int
	only             string
	sortBy           string
	warningThreshold int
	errorThreshold   int
	scope            string
	nested           bool
	workers          int
	recursive        bool

	// report is set when the report flags are registered; check shares the
	// names format and json for its own output
	report bool
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.configPath, "config", "c", "",
		"Configuration file path (default: discovered from the first path)")
	flags.IntVar(&f.warningThreshold, "warning-threshold", 0,
		"Lowest complexity in the warning tier")
	flags.IntVar(&f.errorThreshold, "error-threshold", 0,
		"Lowest complexity in the error tier")
	flags.StringVar(&f.scope, "scope", "",
		"Functions to score: top_level, all")
	flags.BoolVar(&f.nested, "nested", true,
		"Count nested functions towards the enclosing function")
	flags.IntVar(&f.workers, "workers", 0,
		"Files analysed concurrently (0 = number of CPUs)")
	flags.BoolVarP(&f.recursive, "recursive", "r", true,
		"Analyse directories recursively")
}

// registerReport adds the flags that shape a complexity report
func (f *analysisFlags) registerReport(cmd *cobra.Command) {
	f.report = true
	flags := cmd.Flags()
	flags.StringVarP(&f.format, "format", "f", "text",
		"Output format: text, json, yaml, csv")
	flags.BoolVar(&f.json, "json", false,
		"Shorthand for --format json")
	flags.BoolVar(&f.details, "details", false,
		"Show the per-construct breakdown")
	flags.BoolVar(&f.source, "show-source", false,
		"Print the highlighted first line of each function")
	flags.BoolVar(&f.noColor, "no-color", false,
		"Disable coloured output")
	flags.IntVar(&f.minComplexity, "min-complexity", 0,
		"Hide functions scoring below this value")
	flags.StringVar(&f.only, "only", "",
		"Show a single tier: low, warning, error")
	flags.StringVar(&f.sortBy, "sort", "",
		"Sort order: location, complexity, name, risk")
}

// overrides turns explicitly set flags into configuration overrides
func (f *analysisFlags) overrides(cmd *cobra.Command) *domain.ComplexityOverrides {
	changed := cmd.Flags().Changed
	o := &domain.ComplexityOverrides{}

	if f.report {
		f.reportOverrides(changed, o)
	}
	if changed("warning-threshold") {
		o.WarningThreshold = &f.warningThreshold
	}
	if changed("error-threshold") {
		o.ErrorThreshold = &f.errorThreshold
	}
	if changed("scope") {
		scope := domain.FunctionScope(f.scope)
		o.FunctionScope = &scope
	}
	if changed("nested") {
		o.IncludeNested = &f.nested
	}
	if changed("workers") {
		o.MaxWorkers = &f.workers
	}
	if changed("recursive") {
		o.Recursive = &f.recursive
	}

	return o
}

func (f *analysisFlags) reportOverrides(changed func(string) bool, o *domain.ComplexityOverrides) {
	if changed("format") {
		format := domain.OutputFormat(f.format)
		o.OutputFormat = &format
	}
	if f.json {
		format := domain.OutputFormatJSON
		o.OutputFormat = &format
	}
	if changed("details") {
		o.ShowDetails = &f.details
	}
	if changed("show-source") {
		o.ShowSource = &f.source
	}
	if f.noColor {
		color := false
		o.Color = &color
	}
	if changed("min-complexity") {
		o.MinComplexity = &f.minComplexity
	}
	if changed("only") {
		tier := domain.RiskLevel(f.only)
		o.OnlyTier = &tier
	}
	if changed("sort") {
		sortBy := domain.SortCriteria(f.sortBy)
		o.SortBy = &sortBy
	}
}

// loadRequest loads the configuration for paths, applies the flags and
// validates the result
func (f *analysisFlags) loadRequest(cmd *cobra.Command, paths []string) (*domain.ComplexityRequest, error) {
	var loader domain.ConfigurationLoader = service.NewConfigurationLoader()

	req, err := loader.LoadConfig(f.configPath, paths[0])
	if err != nil {
		return nil, err
	}

	req = loader.MergeConfig(req, f.overrides(cmd))
	req.Paths = paths

	if err := loader.ValidateConfig(req); err != nil {
		return nil, err
	}
	return req, nil
}
