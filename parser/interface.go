package parser

import sitter "github.com/smacker/go-tree-sitter"

// Parser defines the interface for language-specific source code parsers
type Parser interface {
	GetLanguage() string
	Close()
	ParseFile(filePath string) (*ParseResult, error)
}

// BaseParser provides common functionality for all language parsers
type BaseParser struct {
	parser   *sitter.Parser
	language *sitter.Language
	langName string
}

// ParseResult contains the parsed syntax tree and metadata for a source file
type ParseResult struct {
	Tree     *sitter.Tree
	Source   []byte
	Language string
	FilePath string
	// Errors lists syntax problems found in the tree. Tree-sitter always
	// produces a tree; a non-empty list means the tree is degraded.
	Errors []string
}

// HasErrors reports whether the parse produced syntax errors.
func (r *ParseResult) HasErrors() bool {
	return len(r.Errors) > 0
}
