package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ludo-technologies/complexitylens/app"
	"github.com/ludo-technologies/complexitylens/domain"
	"github.com/ludo-technologies/complexitylens/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func analyzeCmd() *cobra.Command {
	flags := &analysisFlags{}
	var outputPath string

	cmd := &cobra.Command{
		Use:   "analyze [path...]",
		Short: "Score and annotate every function",
		Long: `Analyze JavaScript and TypeScript files and report the cyclomatic complexity,
risk tier and annotation of every function.

Settings come from complexitylens.yaml (discovered from the first path upwards)
and can be overridden per run with flags.

Examples:
  # Analyze the current directory
  complexitylens analyze .

  # Breakdown and highlighted source for every function
  complexitylens analyze --details --show-source src/

  # Only functions in the error tier, most complex first
  complexitylens analyze --only error --sort complexity src/

  # Machine readable output
  complexitylens analyze --json src/ > complexity.json
  complexitylens analyze --format csv -o complexity.csv src/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, flags, outputPath)
		},
	}

	flags.register(cmd)
	flags.registerReport(cmd)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Write the report to a file instead of stdout")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, flags *analysisFlags, outputPath string) error {
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	req, err := flags.loadRequest(cmd, args)
	if err != nil {
		return err
	}

	var writer io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		writer = file
		req.Color = false
	}

	progress := service.NewProgressManager(req.OutputFormat == domain.OutputFormatText && outputPath == "")
	defer progress.Close()

	useCase := app.NewComplexityUseCase(service.NewComplexityServiceWithProgress(logger, progress))
	resp, err := useCase.Execute(cmd.Context(), *req)
	if err != nil {
		return err
	}
	logger.Debug("analysis complete",
		zap.Int("files", resp.Summary.FilesAnalyzed),
		zap.Int("functions", resp.Summary.TotalFunctions))

	formatter := service.NewOutputFormatterWithOptions(service.TextOptionsFromRequest(req))
	if err := formatter.Write(resp, req.OutputFormat, writer); err != nil {
		return err
	}

	if outputPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", outputPath)
	}
	return nil
}
