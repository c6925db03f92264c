package parser

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CreateParser creates the appropriate parser based on file extension
func CreateParser(filePath string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".js", ".jsx", ".mjs", ".cjs":
		return NewJavaScriptParser()
	case ".ts":
		return NewTypeScriptParser()
	case ".tsx":
		return NewTSXParser()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}
