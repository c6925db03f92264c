package classifier

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/depscope/depscope/parser"
)

// detector accumulates module-system evidence over one tree walk.
type detector struct {
	source       []byte
	hasESMSyntax bool
	hasCJSSyntax bool
	imports      []ImportedSymbol
	exports      []ExportedSymbol
}

// Classify inspects a parsed syntax tree and decides which module system
// the file uses, collecting its import and export symbols along the way.
// The verdict is purely syntactic: ambiguous files come back Unknown.
// A parse with syntax errors degrades to Unknown with the errors attached.
func Classify(result *parser.ParseResult) Analysis {
	if result.HasErrors() {
		return Analysis{
			ModuleSystem: Unknown,
			HasErrors:    true,
			ParseErrors:  result.Errors,
		}
	}

	d := &detector{source: result.Source}
	parser.WalkTree(result.Tree.RootNode(), d.visit)

	return Analysis{
		ModuleSystem: d.verdict(),
		Imports:      d.imports,
		Exports:      d.exports,
	}
}

func (d *detector) verdict() ModuleSystem {
	switch {
	case d.hasESMSyntax && d.hasCJSSyntax:
		return Mixed
	case d.hasESMSyntax:
		return ESM
	case d.hasCJSSyntax:
		return CommonJS
	default:
		return Unknown
	}
}

func (d *detector) visit(n *sitter.Node) {
	switch n.Type() {
	case "import_statement":
		d.visitImportStatement(n)
	case "export_statement":
		d.visitExportStatement(n)
	case "call_expression":
		d.visitCallExpression(n)
	case "assignment_expression":
		d.visitAssignmentExpression(n)
	case "member_expression":
		d.visitMemberAccess(n)
	case "subscript_expression":
		d.visitMemberAccess(n)
	}
}

func (d *detector) text(n *sitter.Node) string {
	return string(d.source[n.StartByte():n.EndByte()])
}

func (d *detector) line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// visitImportStatement handles `import ... from "x"` including default,
// namespace, named, bare and type-only forms.
func (d *detector) visitImportStatement(n *sitter.Node) {
	d.hasESMSyntax = true

	var source string
	var names []string
	typeOnly := false

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "type":
			typeOnly = true
		case "import_clause":
			names = d.collectImportClause(child)
		case "string":
			source = parser.ExtractStringValue(child, d.source)
		}
	}

	if source == "" {
		return
	}

	d.imports = append(d.imports, ImportedSymbol{
		Source:        source,
		ImportedNames: names,
		IsTypeOnly:    typeOnly,
		Line:          d.line(n),
	})
}

func (d *detector) collectImportClause(n *sitter.Node) []string {
	var names []string

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "identifier":
			// Default import: import foo from "module"
			names = append(names, "default")
		case "namespace_import":
			// Namespace import: import * as foo from "module"
			for j := 0; j < int(child.ChildCount()); j++ {
				if inner := child.Child(j); inner.Type() == "identifier" {
					names = append(names, "* as "+d.text(inner))
				}
			}
		case "named_imports":
			names = append(names, d.collectNamedImports(child)...)
		}
	}

	return names
}

func (d *detector) collectNamedImports(n *sitter.Node) []string {
	var names []string

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() != "import_specifier" {
			continue
		}
		// First identifier is the source-side name, an optional second
		// one after "as" is the local alias. The source name is what
		// matters for tree-shaking.
		for j := 0; j < int(child.ChildCount()); j++ {
			inner := child.Child(j)
			if inner.Type() == "identifier" {
				names = append(names, d.text(inner))
				break
			}
		}
	}

	return names
}

// visitExportStatement handles every `export` form: clauses, declarations,
// defaults and re-exports.
func (d *detector) visitExportStatement(n *sitter.Node) {
	d.hasESMSyntax = true

	isDefault := false
	var source string
	hasStar := false

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "default":
			isDefault = true
		case "*":
			hasStar = true
		case "string":
			source = parser.ExtractStringValue(child, d.source)
		case "export_clause":
			d.collectExportClause(child)
		case "lexical_declaration", "variable_declaration":
			d.collectVariableExports(child)
		case "function_declaration", "generator_function_declaration":
			d.appendDeclarationExport(child, KindFunction, isDefault)
		case "class_declaration", "abstract_class_declaration":
			d.appendDeclarationExport(child, KindClass, isDefault)
		case "interface_declaration":
			d.appendDeclarationExport(child, KindInterface, isDefault)
		case "type_alias_declaration":
			d.appendDeclarationExport(child, KindType, isDefault)
		case "enum_declaration":
			d.appendDeclarationExport(child, KindEnum, isDefault)
		case "internal_module":
			d.appendDeclarationExport(child, KindNamespace, isDefault)
		}
	}

	// export * from "x" re-exports everything: record the import edge.
	if hasStar && source != "" {
		d.imports = append(d.imports, ImportedSymbol{
			Source:        source,
			ImportedNames: []string{"*"},
			Line:          d.line(n),
		})
		return
	}

	// export default <expression> without a named declaration.
	if isDefault && !d.lastExportIsDefault() {
		d.exports = append(d.exports, ExportedSymbol{
			Name:      "default",
			Kind:      KindUnknown,
			IsDefault: true,
			Line:      d.line(n),
		})
	}
}

func (d *detector) lastExportIsDefault() bool {
	return len(d.exports) > 0 && d.exports[len(d.exports)-1].IsDefault
}

func (d *detector) collectExportClause(n *sitter.Node) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() != "export_specifier" {
			continue
		}
		// Last identifier wins: `export { a as b }` exports b.
		var name string
		for j := 0; j < int(child.ChildCount()); j++ {
			inner := child.Child(j)
			if inner.Type() == "identifier" {
				name = d.text(inner)
			}
		}
		if name != "" {
			d.exports = append(d.exports, ExportedSymbol{
				Name: name,
				Kind: KindUnknown,
				Line: d.line(child),
			})
		}
	}
}

func (d *detector) collectVariableExports(n *sitter.Node) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		if name := child.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
			d.exports = append(d.exports, ExportedSymbol{
				Name: d.text(name),
				Kind: KindVariable,
				Line: d.line(child),
			})
		}
	}
}

func (d *detector) appendDeclarationExport(n *sitter.Node, kind SymbolKind, isDefault bool) {
	name := "default"
	if id := n.ChildByFieldName("name"); id != nil {
		name = d.text(id)
	}
	if isDefault {
		name = "default"
	}

	d.exports = append(d.exports, ExportedSymbol{
		Name:      name,
		Kind:      kind,
		IsDefault: isDefault,
		Line:      d.line(n),
	})
}

// visitCallExpression catches require("x") and dynamic import("x").
func (d *detector) visitCallExpression(n *sitter.Node) {
	callee := n.ChildByFieldName("function")
	args := n.ChildByFieldName("arguments")
	if callee == nil || args == nil {
		return
	}

	switch callee.Type() {
	case "identifier":
		if d.text(callee) != "require" || args.NamedChildCount() == 0 {
			return
		}
		d.hasCJSSyntax = true
		if source := d.firstStringArgument(args); source != "" {
			d.imports = append(d.imports, ImportedSymbol{
				Source:        source,
				ImportedNames: []string{"*"},
				Line:          d.line(n),
			})
		}
	case "import":
		// Dynamic import() is recorded regardless of the other flags.
		source := d.firstStringArgument(args)
		if source == "" {
			source = "<dynamic>"
		}
		d.imports = append(d.imports, ImportedSymbol{
			Source:        source,
			ImportedNames: []string{"<dynamic>"},
			IsDynamic:     true,
			Line:          d.line(n),
		})
	}
}

func (d *detector) firstStringArgument(args *sitter.Node) string {
	for i := 0; i < int(args.ChildCount()); i++ {
		child := args.Child(i)
		if child.Type() == "string" {
			return parser.ExtractStringValue(child, d.source)
		}
	}
	return ""
}

// visitAssignmentExpression catches exports.foo = ... and module.exports = ...
func (d *detector) visitAssignmentExpression(n *sitter.Node) {
	left := n.ChildByFieldName("left")
	if left == nil || left.Type() != "member_expression" {
		return
	}

	object := left.ChildByFieldName("object")
	property := left.ChildByFieldName("property")
	if object == nil || object.Type() != "identifier" {
		return
	}

	name := d.text(object)
	if name != "exports" && name != "module" {
		return
	}

	d.hasCJSSyntax = true
	if property != nil && property.Type() == "property_identifier" {
		d.exports = append(d.exports, ExportedSymbol{
			Name: d.text(property),
			Kind: KindUnknown,
			Line: d.line(n),
		})
	}
}

// visitMemberAccess flags any static or computed access on the exports or
// module identifiers as CommonJS evidence. It records no export entry;
// only assignments do that.
func (d *detector) visitMemberAccess(n *sitter.Node) {
	object := n.ChildByFieldName("object")
	if object == nil || object.Type() != "identifier" {
		return
	}

	if name := d.text(object); name == "exports" || name == "module" {
		d.hasCJSSyntax = true
	}
}
