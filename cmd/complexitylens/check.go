package main

import (
	"fmt"

	"github.com/ludo-technologies/complexitylens/app"
	"github.com/ludo-technologies/complexitylens/domain"
	"github.com/ludo-technologies/complexitylens/service"
	"github.com/spf13/cobra"
)

// CheckExitError is a custom error type for check command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

func checkCmd() *cobra.Command {
	flags := &analysisFlags{}
	var (
		failOn  string
		format  string
		asJSON  bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Fail when functions exceed the complexity thresholds",
		Long: `Score every function and fail when one reaches the --fail-on tier. Intended
for CI/CD pipelines.

Exit codes:
  0 - All functions below the fail-on tier
  1 - At least one function in the fail-on tier or worse
  2 - Analysis error (invalid configuration, no files, unreadable files)

Examples:
  # Fail on error tier functions
  complexitylens check src/

  # Fail on warnings as well, with tighter thresholds
  complexitylens check --fail-on warning --warning-threshold 8 --error-threshold 12 src/

  # JSON output for machine parsing
  complexitylens check --json src/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				format = string(domain.OutputFormatJSON)
			}
			return runCheck(cmd, args, flags, domain.RiskLevel(failOn), domain.OutputFormat(format), verbose)
		},
		SilenceUsage:  true, // Don't print usage on errors (we handle our own output)
		SilenceErrors: true, // Don't print error messages (we handle our own output)
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&failOn, "fail-on", string(domain.RiskLevelError),
		"Lowest tier that fails the check: warning, error")
	cmd.Flags().StringVarP(&format, "format", "f", string(domain.OutputFormatText),
		"Output format: text, json, yaml")
	cmd.Flags().BoolVar(&asJSON, "json", false,
		"Shorthand for --format json")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Show violation locations and a summary")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, flags *analysisFlags, failOn domain.RiskLevel, format domain.OutputFormat, verbose bool) error {
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	switch format {
	case domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML:
	default:
		return &CheckExitError{Code: app.ExitCodeError, Message: fmt.Sprintf("unsupported check format: %s", format)}
	}

	req, err := flags.loadRequest(cmd, args)
	if err != nil {
		return &CheckExitError{Code: app.ExitCodeError, Message: err.Error()}
	}

	useCase := app.NewCheckUseCase(app.NewComplexityUseCase(service.NewComplexityService(logger)))
	result, err := useCase.Execute(cmd.Context(), *req, failOn)
	if err != nil {
		return &CheckExitError{Code: app.ExitCodeError, Message: err.Error()}
	}

	formatter := service.NewOutputFormatterWithOptions(service.TextOptionsFromRequest(req))
	if err := formatter.WriteCheck(result, format, cmd.OutOrStdout(), verbose); err != nil {
		return &CheckExitError{Code: app.ExitCodeError, Message: err.Error()}
	}

	if !result.Passed {
		return &CheckExitError{Code: result.ExitCode}
	}
	return nil
}
