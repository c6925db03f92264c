package graph

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ToDOT renders the graph in Graphviz DOT form. Entry points are green,
// unreachable files red, everything else black; tree-shakeable files get
// a solid outline, non-tree-shakeable a dashed one. Dynamic-import edges
// are dotted, type-only edges dashed, the rest solid. Circular pairs are
// always bold red on top of their underlying edge.
func (g *Graph) ToDOT() string {
	var b strings.Builder
	b.WriteString("digraph dependencies {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box];\n\n")

	for _, path := range g.SortedPaths() {
		node := g.Nodes[path]
		label := filepath.Base(path)

		color := "black"
		if g.IsEntryPoint(path) {
			color = "green"
		} else if g.Unreachable[path] {
			color = "red"
		}

		style := "dashed"
		if node.Record.IsTreeShakeable() {
			style = "solid"
		}

		fmt.Fprintf(&b, "  %q [label=%q, color=%s, style=%s];\n", path, label, color, style)
	}

	b.WriteString("\n")

	for _, edge := range g.Edges {
		style := "solid"
		switch edge.Type {
		case DynamicImport:
			style = "dotted"
		case TypeImport:
			style = "dashed"
		}

		fmt.Fprintf(&b, "  %q -> %q [style=%s];\n", edge.From, edge.To, style)
	}

	for _, pair := range g.CircularPairs {
		fmt.Fprintf(&b, "  %q -> %q [color=red, style=bold];\n", pair.From, pair.To)
	}

	b.WriteString("}\n")
	return b.String()
}
