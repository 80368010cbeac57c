package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ludo-technologies/complexitylens/internal/logging"
	"github.com/ludo-technologies/complexitylens/internal/version"
	"github.com/ludo-technologies/complexitylens/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Version information (set via ldflags during build)
	Version = version.Version

	debugLogging bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Handle custom exit codes from check command
		var exitErr *CheckExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
			}
			// Silently exit with the specified code (output already printed)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "complexitylens",
		Short: "complexitylens - cyclomatic complexity annotations for JavaScript/TypeScript",
		Long: `complexitylens scores every function of a JavaScript or TypeScript code base
with McCabe cyclomatic complexity, classifies it into a risk tier and places
an annotation such as "⚠️ Risk 12" at the end of the line above it.`,
		Version: Version,
	}

	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false,
		"Enable debug logging on stderr")

	// Add subcommands
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// newLogger builds the command logger, falling back to a no-op logger
func newLogger() *zap.Logger {
	logger, err := logging.New(debugLogging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialise logging: %v\n", err)
		return zap.NewNop()
	}
	return logger
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			asJSON, _ := cmd.Flags().GetBool("json")
			out := cmd.OutOrStdout()

			switch {
			case asJSON:
				return service.WriteJSON(out, version.GetInfo())
			case verbose:
				fmt.Fprintln(out, version.GetFullVersion())
			default:
				fmt.Fprintf(out, "complexitylens version %s\n", version.GetVersion())
			}
			return nil
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	cmd.Flags().Bool("json", false, "Print version information as JSON")
	return cmd
}
