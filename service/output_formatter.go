package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/complexitylens/domain"
	"github.com/ludo-technologies/complexitylens/internal/config"
)

// TextOptions controls the text output format
type TextOptions struct {
	// Color enables ANSI colours
	Color bool

	// ShowDetails prints the per-construct breakdown of each function
	ShowDetails bool

	// ShowSource prints the highlighted first line of each function
	ShowSource bool
}

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct {
	text TextOptions
}

var _ domain.OutputFormatter = (*OutputFormatterImpl)(nil)

// NewOutputFormatter creates a new output formatter with plain text output
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// NewOutputFormatterWithOptions creates an output formatter with text options
func NewOutputFormatterWithOptions(opts TextOptions) *OutputFormatterImpl {
	return &OutputFormatterImpl{text: opts}
}

// TextOptionsFromRequest extracts the text options of a request
func TextOptionsFromRequest(req *domain.ComplexityRequest) TextOptions {
	return TextOptions{
		Color:       req.Color,
		ShowDetails: req.ShowDetails,
		ShowSource:  req.ShowSource,
	}
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data any) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data any) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// Write writes the complexity response in the specified format
func (f *OutputFormatterImpl) Write(response *domain.ComplexityResponse, format domain.OutputFormat, writer io.Writer) error {
	var err error
	switch format {
	case domain.OutputFormatJSON:
		err = WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		err = WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		err = f.writeComplexityCSV(response, writer)
	case domain.OutputFormatText:
		err = f.writeComplexityText(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}

	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to write %s output", format), err)
	}
	return nil
}

// csvHeader lists the columns of the CSV format
var csvHeader = []string{
	"file", "function", "start_line", "start_column", "end_line",
	"complexity", "risk_level",
	"if_statements", "loop_statements", "switch_statements", "ternary_operators", "logical_operators",
	"annotation_line", "annotation_column", "annotation",
}

// writeComplexityCSV writes one row per function
func (f *OutputFormatterImpl) writeComplexityCSV(response *domain.ComplexityResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, fn := range response.Functions {
		row := []string{
			fn.FilePath,
			fn.Name,
			strconv.Itoa(fn.StartLine),
			strconv.Itoa(fn.StartColumn),
			strconv.Itoa(fn.EndLine),
			strconv.Itoa(fn.Metrics.Complexity),
			string(fn.RiskLevel),
			strconv.Itoa(fn.Metrics.IfStatements),
			strconv.Itoa(fn.Metrics.LoopStatements),
			strconv.Itoa(fn.Metrics.SwitchStatements),
			strconv.Itoa(fn.Metrics.TernaryOperators),
			strconv.Itoa(fn.Metrics.LogicalOperators),
			strconv.Itoa(fn.Annotation.Line),
			strconv.Itoa(fn.Annotation.Column),
			fn.Annotation.Text,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// newRenderer returns a lipgloss renderer bound to writer with the colour
// profile chosen by the text options
func (f *OutputFormatterImpl) newRenderer(writer io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(writer)
	if f.text.Color {
		r.SetColorProfile(termenv.TrueColor)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

// tierStyle colours an annotation with the tier colour
func tierStyle(r *lipgloss.Renderer, color string) lipgloss.Style {
	style := r.NewStyle()
	if hex, ok := config.ResolveColor(color); ok && hex != "" {
		style = style.Foreground(lipgloss.Color(hex))
	}
	return style
}

// writeComplexityText writes complexity response as plain text
func (f *OutputFormatterImpl) writeComplexityText(response *domain.ComplexityResponse, writer io.Writer) error {
	r := f.newRenderer(writer)
	heading := r.NewStyle().Bold(true)
	dim := r.NewStyle().Faint(true)

	if response.Disabled {
		fmt.Fprintln(writer, "Complexity annotations are disabled.")
		return nil
	}

	fmt.Fprintf(writer, "\n%s\n\n", heading.Render("=== Complexity Analysis ==="))
	fmt.Fprintf(writer, "Generated: %s\n", response.GeneratedAt)
	fmt.Fprintf(writer, "Version: %s\n\n", response.Version)

	fmt.Fprintf(writer, "%s\n", heading.Render("Summary:"))
	fmt.Fprintf(writer, "  Files analyzed: %d\n", response.Summary.FilesAnalyzed)
	fmt.Fprintf(writer, "  Total functions: %d\n", response.Summary.TotalFunctions)
	fmt.Fprintf(writer, "  Average complexity: %.2f\n", response.Summary.AverageComplexity)
	fmt.Fprintf(writer, "  Max complexity: %d\n", response.Summary.MaxComplexity)
	fmt.Fprintf(writer, "  Min complexity: %d\n", response.Summary.MinComplexity)
	fmt.Fprintf(writer, "\n")

	fmt.Fprintf(writer, "%s\n", heading.Render("Risk Distribution:"))
	fmt.Fprintf(writer, "  Error: %d\n", response.Summary.ErrorRiskFunctions)
	fmt.Fprintf(writer, "  Warning: %d\n", response.Summary.WarningRiskFunctions)
	fmt.Fprintf(writer, "  Low: %d\n", response.Summary.LowRiskFunctions)

	if len(response.Functions) > 0 {
		fmt.Fprintf(writer, "\n%s\n", heading.Render("Functions:"))
		for _, fn := range response.Functions {
			annotation := tierStyle(r, fn.Annotation.Color).Render(fn.Annotation.Text)
			fmt.Fprintf(writer, "  %s  %s\n", fn.Name, annotation)
			fmt.Fprintf(writer, "    %s\n", dim.Render(fmt.Sprintf("%s:%d:%d-%d", fn.FilePath, fn.StartLine, fn.StartColumn+1, fn.EndLine)))

			if f.text.ShowDetails {
				m := fn.Metrics
				fmt.Fprintf(writer, "    if: %d, loops: %d, switch: %d, ternary: %d, logical: %d\n",
					m.IfStatements, m.LoopStatements, m.SwitchStatements, m.TernaryOperators, m.LogicalOperators)
				fmt.Fprintf(writer, "    annotation at %d:%d\n", fn.Annotation.Line, fn.Annotation.Column)
			}

			if f.text.ShowSource && fn.Source != "" {
				fmt.Fprintf(writer, "    %s %s\n", dim.Render("│"), HighlightLine(fn.FilePath, fn.Source, r))
			}
		}
	}

	if len(response.Warnings) > 0 {
		fmt.Fprintf(writer, "\n%s\n", heading.Render("Warnings:"))
		for _, w := range response.Warnings {
			fmt.Fprintf(writer, "  - %s\n", w)
		}
	}

	if len(response.Errors) > 0 {
		fmt.Fprintf(writer, "\n%s\n", heading.Render("Errors:"))
		for _, e := range response.Errors {
			fmt.Fprintf(writer, "  - %s\n", e)
		}
	}

	return nil
}

// WriteCheck writes a check result. Text output lists violations; verbose
// adds their locations and the summary.
func (f *OutputFormatterImpl) WriteCheck(result *domain.CheckResult, format domain.OutputFormat, writer io.Writer, verbose bool) error {
	var err error
	switch format {
	case domain.OutputFormatJSON:
		err = WriteJSON(writer, result)
	case domain.OutputFormatYAML:
		err = WriteYAML(writer, result)
	case domain.OutputFormatText:
		err = f.writeCheckText(result, writer, verbose)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}

	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to write %s output", format), err)
	}
	return nil
}

func (f *OutputFormatterImpl) writeCheckText(result *domain.CheckResult, writer io.Writer, verbose bool) error {
	r := f.newRenderer(writer)

	if result.Passed {
		fmt.Fprintln(writer, tierStyle(r, "green").Render("PASS: All complexity checks passed"))
	} else {
		fmt.Fprintln(writer, tierStyle(r, "red").Render("FAIL: Complexity check failed"))
		fmt.Fprintf(writer, "  Violations: %d\n", result.Summary.TotalViolations)
		if len(result.Errors) > 0 {
			fmt.Fprintf(writer, "  Skipped files: %d\n", len(result.Errors))
		}
	}

	for _, v := range result.Violations {
		severity, color := "ERROR", "red"
		if v.Severity == string(domain.RiskLevelWarning) {
			severity, color = "WARN", "orange"
		}
		fmt.Fprintf(writer, "  [%s] %s\n", tierStyle(r, color).Render(severity), v.Message)
		if verbose && v.Location != "" {
			fmt.Fprintf(writer, "         at %s\n", v.Location)
		}
	}

	for _, e := range result.Errors {
		fmt.Fprintf(writer, "  [SKIP] %s\n", e)
	}

	if verbose {
		fmt.Fprintf(writer, "\nSummary:\n")
		fmt.Fprintf(writer, "  Files: %d\n", result.Summary.FilesAnalyzed)
		fmt.Fprintf(writer, "  Functions: %d\n", result.Summary.FunctionsChecked)
		fmt.Fprintf(writer, "  Error tier functions: %d\n", result.Summary.ErrorFunctions)
		fmt.Fprintf(writer, "  Warning tier functions: %d\n", result.Summary.WarningFunctions)
		fmt.Fprintf(writer, "  Duration: %dms\n", result.Duration)
	}

	return nil
}
