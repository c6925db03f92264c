package classifier

// ModuleSystem is the module-convention verdict for one file.
type ModuleSystem string

const (
	ESM      ModuleSystem = "esm"
	CommonJS ModuleSystem = "commonjs"
	Mixed    ModuleSystem = "mixed"
	Unknown  ModuleSystem = "unknown"
)

// SymbolKind describes what an exported symbol is.
type SymbolKind string

const (
	KindFunction  SymbolKind = "function"
	KindClass     SymbolKind = "class"
	KindVariable  SymbolKind = "variable"
	KindType      SymbolKind = "type"
	KindInterface SymbolKind = "interface"
	KindNamespace SymbolKind = "namespace"
	KindEnum      SymbolKind = "enum"
	KindUnknown   SymbolKind = "unknown"
)

// ExportedSymbol is one export recorded from a file.
type ExportedSymbol struct {
	Name      string     `json:"name"`
	Kind      SymbolKind `json:"kind"`
	IsDefault bool       `json:"is_default"`
	Line      int        `json:"line"`
}

// ImportedSymbol is one import statement recorded from a file.
type ImportedSymbol struct {
	Source        string   `json:"source"`
	ImportedNames []string `json:"imported_names"`
	IsDynamic     bool     `json:"is_dynamic"`
	IsTypeOnly    bool     `json:"is_type_only,omitempty"`
	Line          int      `json:"line"`
}

// Analysis is the classifier's result for one file.
type Analysis struct {
	ModuleSystem ModuleSystem     `json:"module_system"`
	Imports      []ImportedSymbol `json:"imports"`
	Exports      []ExportedSymbol `json:"exports"`
	HasErrors    bool             `json:"has_errors"`
	ParseErrors  []string         `json:"parse_errors,omitempty"`
}
