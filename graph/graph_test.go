package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depscope/depscope/classifier"
)

func record(path string, system classifier.ModuleSystem) *FileRecord {
	return &FileRecord{
		AbsolutePath: path,
		FileName:     path,
		Kind:         KindFromPath(path),
		ModuleSystem: system,
	}
}

func TestAddEdge(t *testing.T) {
	g := New()
	g.AddNode("a.js", record("a.js", classifier.ESM))
	g.AddNode("b.js", record("b.js", classifier.ESM))

	g.AddEdge("a.js", "b.js", StaticImport)
	g.AddEdge("a.js", "b.js", DynamicImport)

	// Two edges, but adjacency lists stay deduplicated by path.
	assert.Len(t, g.Edges, 2)
	assert.Equal(t, []string{"b.js"}, g.Nodes["a.js"].Dependencies)
	assert.Equal(t, []string{"a.js"}, g.Nodes["b.js"].Dependents)
}

func TestCalculateReachability(t *testing.T) {
	t.Run("partitions reachable and unreachable", func(t *testing.T) {
		g := New()
		for _, path := range []string{"entry.js", "used.js", "dead.js"} {
			g.AddNode(path, record(path, classifier.ESM))
		}
		g.AddEntryPoint("entry.js")
		g.AddEdge("entry.js", "used.js", StaticImport)

		g.CalculateReachability()

		assert.True(t, g.Reachable["entry.js"])
		assert.True(t, g.Reachable["used.js"])
		assert.True(t, g.Unreachable["dead.js"])
		assert.False(t, g.Reachable["dead.js"])

		assert.True(t, g.Nodes["used.js"].Record.IsReferenced)
		assert.False(t, g.Nodes["dead.js"].Record.IsReferenced)
		assert.Equal(t, 1, g.Nodes["used.js"].Record.ReferenceCount)
	})

	t.Run("depth is the minimum over all entry paths", func(t *testing.T) {
		g := New()
		for _, path := range []string{"a.js", "b.js", "c.js", "shared.js"} {
			g.AddNode(path, record(path, classifier.ESM))
		}
		g.AddEntryPoint("a.js")
		g.AddEntryPoint("c.js")

		// a -> b -> shared (depth 2) but c -> shared directly (depth 1).
		g.AddEdge("a.js", "b.js", StaticImport)
		g.AddEdge("b.js", "shared.js", StaticImport)
		g.AddEdge("c.js", "shared.js", StaticImport)

		g.CalculateReachability()

		assert.Equal(t, 0, g.ImportDepths["a.js"])
		assert.Equal(t, 0, g.ImportDepths["c.js"])
		assert.Equal(t, 1, g.ImportDepths["b.js"])
		assert.Equal(t, 1, g.ImportDepths["shared.js"])
	})

	t.Run("terminates on cyclic graphs", func(t *testing.T) {
		g := New()
		g.AddNode("a.js", record("a.js", classifier.ESM))
		g.AddNode("b.js", record("b.js", classifier.ESM))
		g.AddEntryPoint("a.js")
		g.AddEdge("a.js", "b.js", StaticImport)
		g.AddEdge("b.js", "a.js", StaticImport)

		g.CalculateReachability()

		assert.True(t, g.Reachable["a.js"])
		assert.True(t, g.Reachable["b.js"])
		assert.Empty(t, g.Unreachable)
	})
}

func TestStatistics(t *testing.T) {
	g := New()
	for _, path := range []string{"a.js", "b.js", "c.js"} {
		g.AddNode(path, record(path, classifier.ESM))
	}
	g.AddEntryPoint("a.js")
	g.AddEdge("a.js", "c.js", StaticImport)
	g.AddEdge("b.js", "c.js", StaticImport)
	g.AddUnresolvedImport("a.js", "./ghost")
	g.AddCircularPair("c.js", "a.js")
	g.CalculateReachability()

	stats := g.Statistics()

	assert.Equal(t, 3, stats.TotalNodes)
	assert.Equal(t, 2, stats.TotalEdges)
	assert.Equal(t, 1, stats.CircularCount)
	assert.Equal(t, 1, stats.UnresolvedCount)
	assert.Equal(t, "c.js", stats.MaxFanInFile)
	assert.Equal(t, 2, stats.MaxFanIn)
	// a.js and b.js both have fan-out 1; the tie breaks to the smaller path.
	assert.Equal(t, "a.js", stats.MaxFanOutFile)
}

func TestCircularPairDedup(t *testing.T) {
	g := New()
	g.AddCircularPair("a.js", "b.js")
	g.AddCircularPair("a.js", "b.js")
	g.AddCircularPair("b.js", "a.js")

	assert.Len(t, g.CircularPairs, 2)
}

func TestFindPaths(t *testing.T) {
	g := New()
	for _, path := range []string{"a", "b", "c", "d"} {
		g.AddNode(path, record(path, classifier.ESM))
	}
	g.AddEdge("a", "b", StaticImport)
	g.AddEdge("a", "c", StaticImport)
	g.AddEdge("b", "d", StaticImport)
	g.AddEdge("c", "d", StaticImport)
	g.AddEdge("d", "a", StaticImport) // cycle back to the start

	paths := g.FindPaths("a", "d")

	require.Len(t, paths, 2)
	assert.Contains(t, paths, []string{"a", "b", "d"})
	assert.Contains(t, paths, []string{"a", "c", "d"})

	t.Run("identical endpoints yield the trivial path", func(t *testing.T) {
		paths := g.FindPaths("a", "a")
		require.Len(t, paths, 1)
		assert.Equal(t, []string{"a"}, paths[0])
	})

	t.Run("unconnected nodes yield nothing", func(t *testing.T) {
		assert.Empty(t, g.FindPaths("d", "nonexistent"))
	})
}

func TestToDOT(t *testing.T) {
	g := New()
	entry := record("entry.js", classifier.ESM)
	entry.Exports = []classifier.ExportedSymbol{{Name: "run"}}
	g.AddNode("entry.js", entry)
	g.AddNode("dead.js", record("dead.js", classifier.CommonJS))
	g.AddNode("lazy.js", record("lazy.js", classifier.ESM))
	g.AddEntryPoint("entry.js")
	g.AddEdge("entry.js", "lazy.js", DynamicImport)
	g.AddCircularPair("lazy.js", "entry.js")
	g.CalculateReachability()

	dot := g.ToDOT()

	assert.True(t, strings.HasPrefix(dot, "digraph dependencies {"))
	assert.Contains(t, dot, `"entry.js" [label="entry.js", color=green, style=solid];`)
	assert.Contains(t, dot, `"dead.js" [label="dead.js", color=red, style=dashed];`)
	assert.Contains(t, dot, `"entry.js" -> "lazy.js" [style=dotted];`)
	assert.Contains(t, dot, `"lazy.js" -> "entry.js" [color=red, style=bold];`)
}

func TestFileRecordHeuristics(t *testing.T) {
	t.Run("tree-shakeable requires ESM and a named export", func(t *testing.T) {
		esm := record("a.js", classifier.ESM)
		esm.Exports = []classifier.ExportedSymbol{{Name: "run"}}
		assert.True(t, esm.IsTreeShakeable())

		defaultOnly := record("b.js", classifier.ESM)
		defaultOnly.Exports = []classifier.ExportedSymbol{{Name: "default", IsDefault: true}}
		assert.False(t, defaultOnly.IsTreeShakeable())

		cjs := record("c.js", classifier.CommonJS)
		cjs.Exports = []classifier.ExportedSymbol{{Name: "run"}}
		assert.False(t, cjs.IsTreeShakeable())
	})

	t.Run("side effects from imports without exports or CommonJS", func(t *testing.T) {
		sideEffect := record("init.js", classifier.ESM)
		sideEffect.Imports = []classifier.ImportedSymbol{{Source: "./polyfill"}}
		assert.True(t, sideEffect.HasSideEffects())

		cjs := record("legacy.js", classifier.CommonJS)
		assert.True(t, cjs.HasSideEffects())

		clean := record("lib.js", classifier.ESM)
		clean.Exports = []classifier.ExportedSymbol{{Name: "run"}}
		assert.False(t, clean.HasSideEffects())
	})

	t.Run("kind detection", func(t *testing.T) {
		assert.Equal(t, KindTypeScriptDeclaration, KindFromPath("types.d.ts"))
		assert.Equal(t, KindTypeScript, KindFromPath("app.ts"))
		assert.Equal(t, KindJavaScriptModule, KindFromPath("mod.mjs"))
		assert.Equal(t, KindJSON, KindFromPath("data.json"))
		assert.Equal(t, KindOther, KindFromPath("style.css"))
		assert.True(t, KindFromPath("view.tsx").IsTypeScript())
		assert.True(t, KindFromPath("view.jsx").IsJavaScript())
	})
}
