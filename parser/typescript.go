package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

type TypeScriptParser struct {
	BaseParser
}

// NewTypeScriptParser handles .ts and .d.ts sources
func NewTypeScriptParser() (*TypeScriptParser, error) {
	parser := sitter.NewParser()
	language := typescript.GetLanguage()
	parser.SetLanguage(language)

	return &TypeScriptParser{
		BaseParser: BaseParser{
			parser:   parser,
			language: language,
			langName: "typescript",
		},
	}, nil
}

func (p *TypeScriptParser) Close() {
}

func (p *TypeScriptParser) ParseFile(filePath string) (*ParseResult, error) {
	return p.ParseFileGeneric(filePath)
}

type TSXParser struct {
	BaseParser
}

// NewTSXParser handles .tsx sources, which need the dedicated grammar
// because JSX and type assertions are ambiguous in plain TypeScript.
func NewTSXParser() (*TSXParser, error) {
	parser := sitter.NewParser()
	language := tsx.GetLanguage()
	parser.SetLanguage(language)

	return &TSXParser{
		BaseParser: BaseParser{
			parser:   parser,
			language: language,
			langName: "tsx",
		},
	}, nil
}

func (p *TSXParser) Close() {
}

func (p *TSXParser) ParseFile(filePath string) (*ParseResult, error) {
	return p.ParseFileGeneric(filePath)
}
