package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ludo-technologies/complexitylens/app"
	"github.com/ludo-technologies/complexitylens/domain"
	"github.com/ludo-technologies/complexitylens/internal/config"
	"github.com/ludo-technologies/complexitylens/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func watchCmd() *cobra.Command {
	flags := &analysisFlags{}
	var debounceMs int

	cmd := &cobra.Command{
		Use:   "watch [path...]",
		Short: "Re-annotate functions whenever sources or configuration change",
		Long: `Watch files and directories and re-run the analysis after every change.
Creating or editing complexitylens.yaml takes effect on the next pass.

Commands (type and press enter):
  t  toggle annotations on and off
  q  quit

Examples:
  complexitylens watch src/
  complexitylens watch --debounce 500 --only error .`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, args, flags, debounceMs)
		},
	}

	flags.register(cmd)
	flags.registerReport(cmd)
	cmd.Flags().IntVar(&debounceMs, "debounce", 0,
		"Quiet period in milliseconds before re-analysing (default from config)")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, args []string, flags *analysisFlags, debounceMs int) error {
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	// Validate once up front so a broken setup fails fast
	initial, err := flags.loadRequest(cmd, args)
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("debounce") {
		cfg, err := config.LoadConfigWithTarget(flags.configPath, args[0])
		if err != nil {
			return err
		}
		debounceMs = cfg.Watch.DebounceMs
	}

	useCase := app.NewComplexityUseCase(service.NewComplexityService(logger))
	controller := service.NewController(func() (*domain.ComplexityRequest, error) {
		return flags.loadRequest(cmd, args)
	}, useCase, logger)

	out := cmd.OutOrStdout()
	watcher := service.NewWatchService(controller, service.WatchOptions{
		Paths:          args,
		ConfigPath:     initial.ConfigPath,
		DiscoverConfig: flags.configPath == "",
		Debounce:       time.Duration(debounceMs) * time.Millisecond,
		Status:         out,
		OnPass:         passPrinter(out, logger),
	}, logger)

	fmt.Fprintf(out, "Watching %d path(s). Commands: t (toggle annotations), q (quit)\n", len(args))
	return watcher.Run(ctx, cmd.InOrStdin())
}

// passPrinter writes every pass with the report options of the request that
// produced it, so configuration edits change the output as well
func passPrinter(w io.Writer, logger *zap.Logger) service.PassHandler {
	return func(req *domain.ComplexityRequest, resp *domain.ComplexityResponse, err error) {
		fmt.Fprintf(w, "\n--- %s ---\n", time.Now().Format(time.TimeOnly))
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return
		}
		formatter := service.NewOutputFormatterWithOptions(service.TextOptionsFromRequest(req))
		if err := formatter.Write(resp, req.OutputFormat, w); err != nil {
			logger.Warn("failed to write pass", zap.Error(err))
		}
	}
}
