package graph

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/depscope/depscope/classifier"
)

// FileKind is the detected file flavor, keyed off the extension.
type FileKind string

const (
	KindJavaScript            FileKind = "javascript"
	KindJavaScriptModule      FileKind = "javascript_module" // .mjs
	KindJavaScriptCommon      FileKind = "javascript_common" // .cjs
	KindJavaScriptReact       FileKind = "jsx"
	KindTypeScript            FileKind = "typescript"
	KindTypeScriptReact       FileKind = "tsx"
	KindTypeScriptDeclaration FileKind = "dts"
	KindJSON                  FileKind = "json"
	KindOther                 FileKind = "other"
)

// KindFromPath determines the file kind from its name.
func KindFromPath(path string) FileKind {
	if strings.HasSuffix(path, ".d.ts") {
		return KindTypeScriptDeclaration
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".js":
		return KindJavaScript
	case ".mjs":
		return KindJavaScriptModule
	case ".cjs":
		return KindJavaScriptCommon
	case ".jsx":
		return KindJavaScriptReact
	case ".ts":
		return KindTypeScript
	case ".tsx":
		return KindTypeScriptReact
	case ".json":
		return KindJSON
	default:
		return KindOther
	}
}

// IsTypeScript reports whether the kind is a TypeScript flavor.
func (k FileKind) IsTypeScript() bool {
	return k == KindTypeScript || k == KindTypeScriptReact || k == KindTypeScriptDeclaration
}

// IsJavaScript reports whether the kind is a JavaScript flavor.
func (k FileKind) IsJavaScript() bool {
	return k == KindJavaScript || k == KindJavaScriptModule ||
		k == KindJavaScriptCommon || k == KindJavaScriptReact
}

// FileRecord is the analysis result for one file. A record is created
// the first time a file is visited and never re-parsed; only the two
// reachability fields are filled in later, by the finalize pass.
type FileRecord struct {
	RelativePath string    `json:"relative_path"`
	AbsolutePath string    `json:"absolute_path"`
	FileName     string    `json:"file_name"`
	Kind         FileKind  `json:"kind"`
	SizeBytes    int64     `json:"size_bytes"`
	Created      time.Time `json:"created,omitempty"`
	Modified     time.Time `json:"modified,omitempty"`

	ModuleSystem classifier.ModuleSystem `json:"module_system"`

	// Dependency names the external package this file belongs to.
	// Empty means the file is part of the core package.
	Dependency string `json:"dependency,omitempty"`

	Exports []classifier.ExportedSymbol `json:"exports"`
	Imports []classifier.ImportedSymbol `json:"imports"`

	HasParseErrors bool     `json:"has_parse_errors,omitempty"`
	ParseErrors    []string `json:"parse_errors,omitempty"`

	// Populated by Graph.CalculateReachability.
	IsReferenced   bool `json:"is_referenced"`
	ReferenceCount int  `json:"reference_count"`
}

// IsDependencyFile reports whether the file lives inside an external package.
func (r *FileRecord) IsDependencyFile() bool {
	return r.Dependency != ""
}

// IsTreeShakeable reports whether a bundler can drop unused exports:
// ESM with at least one non-default export.
func (r *FileRecord) IsTreeShakeable() bool {
	if r.ModuleSystem != classifier.ESM {
		return false
	}
	for _, export := range r.Exports {
		if !export.IsDefault {
			return true
		}
	}
	return false
}

// HasSideEffects is a heuristic, not a guarantee: importing without
// exporting, or CommonJS at all, suggests the file runs code on load.
func (r *FileRecord) HasSideEffects() bool {
	if len(r.Exports) == 0 && len(r.Imports) > 0 {
		return true
	}
	return r.ModuleSystem == classifier.CommonJS
}

// ComplexityScore is a cheap structural weight used for ranking files.
func (r *FileRecord) ComplexityScore() int {
	moduleWeight := 1
	switch r.ModuleSystem {
	case classifier.Mixed:
		moduleWeight = 5
	case classifier.Unknown:
		moduleWeight = 3
	}
	return len(r.Imports) + len(r.Exports) + moduleWeight
}
