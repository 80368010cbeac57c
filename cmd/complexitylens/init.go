package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ludo-technologies/complexitylens/internal/config"
	"github.com/ludo-technologies/complexitylens/internal/constants"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// strictnessCustom selects thresholds typed in by the user
const strictnessCustom config.Strictness = "custom"

// initChoices is the outcome of the interactive setup
type initChoices struct {
	project    config.ProjectPreset
	strictness config.StrictnessPreset
	configPath string
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a complexitylens configuration file",
		Long: `Generate a documented complexitylens configuration file with sensible defaults.

By default, creates complexitylens.yaml in the current directory with full
documentation. Use --interactive for a guided setup wizard.

Examples:
  # Create complexitylens.yaml in current directory
  complexitylens init

  # Custom output path
  complexitylens init --config custom.yaml

  # Overwrite existing file
  complexitylens init --force

  # Generate smaller config with essential options only
  complexitylens init --minimal

  # Interactive setup wizard
  complexitylens init --interactive
  complexitylens init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")
	cmd.Flags().String("project", string(config.ProjectTypeGeneric),
		"Project preset: generic, react, vue, node")
	cmd.Flags().String("strictness", string(config.StrictnessStandard),
		"Threshold preset: relaxed, standard, strict")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	// Get flag values from command
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")
	projectName, _ := cmd.Flags().GetString("project")
	strictnessName, _ := cmd.Flags().GetString("strictness")

	project, ok := config.GetProjectPresets()[config.ProjectType(projectName)]
	if !ok {
		return fmt.Errorf("unknown project preset: %s", projectName)
	}
	strictness, ok := config.GetStrictnessPresets()[config.Strictness(strictnessName)]
	if !ok {
		return fmt.Errorf("unknown strictness preset: %s", strictnessName)
	}

	out := cmd.OutOrStdout()

	// Run interactive setup if requested
	if interactive {
		choices, err := runInteractiveSetup(out, configPath)
		if err != nil {
			return err
		}
		project, strictness, configPath = choices.project, choices.strictness, choices.configPath
	}

	// Check if file exists
	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	// Check if parent directory exists
	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	// Generate config content
	var content string
	if minimal {
		content = config.GetMinimalConfigTemplate()
	} else {
		content = config.GetConfigTemplate(project, strictness)
	}

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Print success message with absolute path if possible, otherwise use relative path
	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Fprintf(out, "Created %s\n", displayPath)
	fmt.Fprintln(out, "\nRun 'complexitylens analyze .' to analyze your project.")

	return nil
}

func runInteractiveSetup(out io.Writer, defaultConfigPath string) (*initChoices, error) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "complexitylens Configuration Setup")
	fmt.Fprintln(out, "==================================")
	fmt.Fprintln(out)

	// Project type selection
	projectTypes := []struct {
		Label string
		Value config.ProjectType
	}{
		{"Generic JavaScript/TypeScript", config.ProjectTypeGeneric},
		{"React/Next.js", config.ProjectTypeReact},
		{"Vue/Nuxt", config.ProjectTypeVue},
		{"Node.js Backend", config.ProjectTypeNodeBackend},
	}

	projectPrompt := promptui.Select{
		Label: "What type of project is this?",
		Items: projectTypes,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "\U0001F449 {{ .Label | cyan }}",
			Inactive: "   {{ .Label | white }}",
			Selected: "\U00002705 {{ .Label | green }}",
		},
	}

	projectIdx, _, err := projectPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("project selection cancelled: %w", err)
	}
	choices := &initChoices{
		project: config.GetProjectPresets()[projectTypes[projectIdx].Value],
	}

	fmt.Fprintln(out)

	// Strictness selection
	strictnessLevels := []struct {
		Label       string
		Description string
		Value       config.Strictness
	}{
		{"Standard (recommended)", "Warning at 10, error at 15", config.StrictnessStandard},
		{"Relaxed", "Warning at 15, error at 25", config.StrictnessRelaxed},
		{"Strict", "Warning at 5, error at 10", config.StrictnessStrict},
		{"Custom", "Enter your own thresholds", strictnessCustom},
	}

	strictnessPrompt := promptui.Select{
		Label: "How strict should the thresholds be?",
		Items: strictnessLevels,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
			Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
			Selected: "\U00002705 {{ .Label | green }}",
		},
	}

	strictnessIdx, _, err := strictnessPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("strictness selection cancelled: %w", err)
	}

	selected := strictnessLevels[strictnessIdx].Value
	if selected == strictnessCustom {
		choices.strictness, err = promptThresholds()
		if err != nil {
			return nil, err
		}
	} else {
		choices.strictness = config.GetStrictnessPresets()[selected]
	}

	fmt.Fprintln(out)

	// Output path prompt
	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}

	outputPath, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output path input cancelled: %w", err)
	}

	// Use default if empty
	if outputPath == "" {
		outputPath = defaultConfigPath
	}
	choices.configPath = outputPath

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Creating %s... ", outputPath)

	return choices, nil
}

// promptThresholds asks for a warning threshold, then an error threshold
// above it
func promptThresholds() (config.StrictnessPreset, error) {
	defaults := config.GetStrictnessPresets()[config.StrictnessStandard]

	warningPrompt := promptui.Prompt{
		Label:    "Warning threshold",
		Default:  strconv.Itoa(defaults.WarningThreshold),
		Validate: validateWarningThreshold,
	}
	warningText, err := warningPrompt.Run()
	if err != nil {
		return config.StrictnessPreset{}, fmt.Errorf("warning threshold input cancelled: %w", err)
	}
	warning, _ := strconv.Atoi(warningText)

	errorDefault := defaults.ErrorThreshold
	if errorDefault <= warning {
		errorDefault = warning + 5
	}
	errorPrompt := promptui.Prompt{
		Label:    "Error threshold",
		Default:  strconv.Itoa(errorDefault),
		Validate: errorThresholdValidator(warning),
	}
	errorText, err := errorPrompt.Run()
	if err != nil {
		return config.StrictnessPreset{}, fmt.Errorf("error threshold input cancelled: %w", err)
	}
	errorThreshold, _ := strconv.Atoi(errorText)

	return config.StrictnessPreset{
		WarningThreshold: warning,
		ErrorThreshold:   errorThreshold,
	}, nil
}

func validateWarningThreshold(input string) error {
	value, err := strconv.Atoi(input)
	if err != nil {
		return errors.New("enter a whole number")
	}
	if value < 1 {
		return errors.New("the warning threshold must be at least 1")
	}
	return nil
}

// errorThresholdValidator rejects error thresholds that do not exceed warning
func errorThresholdValidator(warning int) promptui.ValidateFunc {
	return func(input string) error {
		value, err := strconv.Atoi(input)
		if err != nil {
			return errors.New("enter a whole number")
		}
		if value <= warning {
			return fmt.Errorf("the error threshold must be greater than %d", warning)
		}
		return nil
	}
}
