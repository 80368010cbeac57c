package analyzer

import (
	"strings"
	"unicode/utf16"

	"github.com/ludo-technologies/complexitylens/internal/parser"
)

// Annotation is the per-function result shown next to the source
type Annotation struct {
	FunctionName string `json:"function" yaml:"function"`
	File         string `json:"file" yaml:"file"`

	// StartLine and EndLine are the 1-based lines of the function
	StartLine int `json:"start_line" yaml:"start_line"`
	EndLine   int `json:"end_line" yaml:"end_line"`

	// Line is the 0-based line the annotation is attached to: the line
	// before the function, or 0 when the function starts on the first line
	Line int `json:"line" yaml:"line"`

	// Column is the end of Line in UTF-16 code units
	Column int `json:"column" yaml:"column"`

	Score int    `json:"score" yaml:"score"`
	Tier  string `json:"tier" yaml:"tier"`
	Label string `json:"label" yaml:"label"`
	Color string `json:"color" yaml:"color"`
	Icon  string `json:"icon" yaml:"icon"`
	Text  string `json:"text" yaml:"text"`
}

// Annotate places the classification of fn at the end of the line that
// precedes it
func Annotate(fn *parser.Node, lines []string, score int, c Classification) Annotation {
	loc := fn.Location
	line, column := AnchorPosition(loc.StartLine, lines)

	return Annotation{
		FunctionName: fn.DisplayName(),
		File:         loc.File,
		StartLine:    loc.StartLine,
		EndLine:      loc.EndLine,
		Line:         line,
		Column:       column,
		Score:        score,
		Tier:         c.Tier.String(),
		Label:        c.Label,
		Color:        c.Color,
		Icon:         c.Icon,
		Text:         c.Text(score),
	}
}

// AnchorPosition returns the 0-based anchor line and its end column for a
// function starting at the 1-based startLine
func AnchorPosition(startLine int, lines []string) (line, column int) {
	line = startLine - 2
	if line < 0 {
		line = 0
	}
	if line < len(lines) {
		column = UTF16Len(lines[line])
	}
	return line, column
}

// UTF16Len returns the length of s in UTF-16 code units
func UTF16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// SplitLines splits source into lines without their terminators
func SplitLines(source []byte) []string {
	text := strings.ReplaceAll(string(source), "\r\n", "\n")
	return strings.Split(text, "\n")
}
