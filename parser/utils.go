package parser

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
)

// ExtractStringValue removes quotes from string literals in syntax tree nodes
func ExtractStringValue(node *sitter.Node, source []byte) string {
	text := string(source[node.StartByte():node.EndByte()])
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'' || text[0] == '`') {
		text = text[1 : len(text)-1] // Remove surrounding quotes
	}
	return text
}

// WalkTree recursively traverses a syntax tree and applies a visitor function to each node
func WalkTree(node *sitter.Node, visitor func(*sitter.Node)) {
	visitor(node)

	for i := 0; i < int(node.ChildCount()); i++ {
		WalkTree(node.Child(i), visitor)
	}
}

// collectSyntaxErrors gathers every ERROR and missing node in the tree
// so callers can degrade gracefully instead of trusting a broken parse.
func collectSyntaxErrors(root *sitter.Node, source []byte) []string {
	var errors []string

	WalkTree(root, func(n *sitter.Node) {
		if n.IsError() {
			point := n.StartPoint()
			snippet := string(source[n.StartByte():n.EndByte()])
			if len(snippet) > 40 {
				snippet = snippet[:40]
			}
			errors = append(errors, fmt.Sprintf("syntax error at line %d: %q", point.Row+1, snippet))
		} else if n.IsMissing() {
			point := n.StartPoint()
			errors = append(errors, fmt.Sprintf("missing %s at line %d", n.Type(), point.Row+1))
		}
	})

	return errors
}

// ParseFileGeneric provides common file parsing functionality for all language parsers
func (bp *BaseParser) ParseFileGeneric(filePath string) (*ParseResult, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return bp.ParseSource(filePath, source)
}

// ParseSource parses source text that has already been read.
func (bp *BaseParser) ParseSource(filePath string, source []byte) (*ParseResult, error) {
	tree, err := bp.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", filePath, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file %s", filePath)
	}

	return &ParseResult{
		Tree:     tree,
		Source:   source,
		Language: bp.langName,
		FilePath: filePath,
		Errors:   collectSyntaxErrors(tree.RootNode(), source),
	}, nil
}

// GetLanguage returns the language name for this parser
func (bp *BaseParser) GetLanguage() string {
	return bp.langName
}

func (bp *BaseParser) Close() {
}
