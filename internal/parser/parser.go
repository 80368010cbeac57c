package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language identifies the grammar a file is parsed with
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageTSX        Language = "tsx"
)

// Parser wraps tree-sitter parser for JavaScript/TypeScript
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a new JavaScript parser
func NewParser() *Parser {
	return NewParserForLanguage(LanguageJavaScript)
}

// NewParserForLanguage creates a parser for the given grammar
func NewParserForLanguage(lang Language) *Parser {
	parser := sitter.NewParser()
	switch lang {
	case LanguageTypeScript:
		parser.SetLanguage(typescript.GetLanguage())
	case LanguageTSX:
		parser.SetLanguage(tsx.GetLanguage())
	default:
		parser.SetLanguage(javascript.GetLanguage())
	}

	return &Parser{parser: parser}
}

// ParseFile parses a JavaScript/TypeScript file
func (p *Parser) ParseFile(ctx context.Context, filename string, source []byte) (*Node, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file %s: %v", filename, err)
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, fmt.Errorf("no root node in parse tree for %s", filename)
	}

	builder := NewASTBuilder(filename, source)
	return builder.Build(rootNode), nil
}

// ParseString parses source code from a string
func (p *Parser) ParseString(source string) (*Node, error) {
	return p.ParseFile(context.Background(), "<input>", []byte(source))
}

// Close closes the parser and frees resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// LanguageForFile selects the grammar from a file extension
func LanguageForFile(filename string) Language {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ts", ".mts", ".cts":
		return LanguageTypeScript
	case ".tsx":
		return LanguageTSX
	default:
		return LanguageJavaScript
	}
}

// ParseForLanguage parses a file with the grammar matching its extension
func ParseForLanguage(ctx context.Context, filename string, source []byte) (*Node, error) {
	parser := NewParserForLanguage(LanguageForFile(filename))
	defer parser.Close()

	return parser.ParseFile(ctx, filename, source)
}
