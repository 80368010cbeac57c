package main

import (
	"fmt"

	"github.com/ludo-technologies/complexitylens/internal/config"
	"github.com/ludo-technologies/complexitylens/internal/constants"
	"github.com/ludo-technologies/complexitylens/service"
	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit the configuration",
		Long: `Show the effective configuration or edit a configuration file.

Without --config the file is discovered from the current directory upwards;
set and reset fall back to ./complexitylens.yaml when none is found.

Examples:
  complexitylens config show
  complexitylens config set complexity.warning_threshold 8
  complexitylens config set tiers.error.icon "🔥"
  complexitylens config reset`,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Configuration file path")

	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configSetCmd())
	cmd.AddCommand(configResetCmd())
	cmd.AddCommand(configKeysCmd())

	return cmd
}

func configShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [path]",
		Short: "Print the effective configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			asJSON, _ := cmd.Flags().GetBool("json")

			target := "."
			if len(args) > 0 {
				target = args[0]
			}
			if configPath == "" {
				configPath = config.FindDefaultConfig(target)
			}

			cfg, err := config.LoadConfigWithTarget(configPath, target)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return service.WriteJSON(out, cfg)
			}
			if configPath == "" {
				fmt.Fprintln(out, "# source: built-in defaults")
			} else {
				fmt.Fprintf(out, "# source: %s\n", configPath)
			}
			return service.WriteYAML(out, cfg)
		},
	}

	cmd.Flags().Bool("json", false, "Print as JSON")
	return cmd
}

func configSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a single configuration value. Lists take comma separated values.
Run 'complexitylens config keys' for the available keys.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := editablePath(cmd)
			if _, err := config.SetValue(path, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", args[0], args[1], path)
			return nil
		},
	}
}

func configResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Overwrite the configuration file with defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := editablePath(cmd)
			if err := config.Reset(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset %s to defaults\n", path)
			return nil
		},
	}
}

func configKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List configurable keys with their defaults",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			defaults := config.Settings(config.DefaultConfig())
			for _, key := range config.Keys() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-38s %v\n", key, defaults[key])
			}
		},
	}
}

// editablePath resolves the file edited by set and reset
func editablePath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	if path := config.FindDefaultConfig("."); path != "" {
		return path
	}
	return constants.ConfigFileName
}
