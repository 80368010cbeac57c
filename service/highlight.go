package service

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// highlightStyle is the chroma style used for source lines
const highlightStyle = "dracula"

// HighlightLine renders one source line with syntax colours. The line is
// returned unchanged when no lexer matches the file or the renderer has no
// colour support.
func HighlightLine(filename, line string, r *lipgloss.Renderer) string {
	lexer := lexerForFile(filename)
	if lexer == nil {
		return line
	}

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	style := styles.Get(highlightStyle)
	if style == nil {
		style = styles.Fallback
	}

	var b strings.Builder
	for _, token := range iterator.Tokens() {
		text := strings.TrimSuffix(token.Value, "\n")
		if text == "" {
			continue
		}
		color := tokenColor(style, token.Type)
		if color == "" {
			b.WriteString(text)
			continue
		}
		b.WriteString(r.NewStyle().Foreground(lipgloss.Color(color)).Render(text))
	}
	return b.String()
}

func lexerForFile(filename string) chroma.Lexer {
	lexer := lexers.Match(filename)
	if lexer == nil {
		if ext := filepath.Ext(filename); ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer == nil {
		lexer = lexers.Get("javascript")
	}
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
	}
	return lexer
}

func tokenColor(style *chroma.Style, tt chroma.TokenType) string {
	entry := style.Get(tt)
	if entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return ""
}
