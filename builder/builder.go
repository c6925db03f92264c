package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"

	"github.com/depscope/depscope/classifier"
	"github.com/depscope/depscope/graph"
	"github.com/depscope/depscope/parser"
	"github.com/depscope/depscope/resolver"
)

// Builder constructs a dependency graph by depth-first traversal from a
// set of entry points. Traversal is strictly single-threaded: cycle
// detection depends on the ordered import chain, so the visited set and
// the resolver caches are mutated without synchronization.
type Builder struct {
	packageRoot string
	resolver    *resolver.Resolver
	config      Config
	log         *logrus.Entry

	files    map[string]*graph.FileRecord
	visited  map[string]bool
	circular []graph.CircularPair
}

// New creates a builder. The resolver is constructed by the caller and
// passed in so independent runs never share cache state.
func New(packageRoot string, res *resolver.Resolver, config Config) *Builder {
	return &Builder{
		packageRoot: packageRoot,
		resolver:    res,
		config:      config,
		log:         logrus.WithField("component", "builder"),
		files:       make(map[string]*graph.FileRecord),
		visited:     make(map[string]bool),
	}
}

// Build traverses from every entry point, assembles the graph from the
// collected records, and finalizes reachability. The returned graph is
// read-only from the caller's perspective.
func (b *Builder) Build(entryPoints []string) (*graph.Graph, error) {
	for _, entry := range entryPoints {
		if err := b.traverse(entry, nil); err != nil {
			return nil, err
		}
	}

	g, err := b.assembleGraph(entryPoints)
	if err != nil {
		return nil, err
	}

	g.CalculateReachability()

	b.log.WithFields(logrus.Fields{
		"nodes":    len(g.Nodes),
		"edges":    len(g.Edges),
		"circular": len(g.CircularPairs),
	}).Debug("dependency graph built")

	return g, nil
}

// traverse processes one file with the chain of paths that led here.
func (b *Builder) traverse(path string, chain []string) error {
	// A file already on the active chain closes a cycle. Record the
	// pair and stop: its own dependencies are handled from its first
	// visit.
	if containsPath(chain, path) {
		if len(chain) > 0 {
			b.circular = append(b.circular, graph.CircularPair{
				From: chain[len(chain)-1],
				To:   path,
			})
		}
		return nil
	}

	if b.visited[path] {
		return nil
	}
	b.visited[path] = true

	if b.shouldIgnore(path) {
		return nil
	}

	analysis, err := b.classifyFile(path)
	if err != nil {
		return err
	}

	record, err := b.newFileRecord(path, analysis)
	if err != nil {
		return err
	}
	b.files[path] = record

	chain = append(chain, path)
	if b.config.MaxDepth > 0 && len(chain) >= b.config.MaxDepth {
		b.log.WithField("path", path).Warn("maximum traversal depth reached")
		return nil
	}

	for _, imp := range analysis.Imports {
		if imp.IsDynamic && !b.config.FollowDynamicImports {
			continue
		}

		resolved, err := b.resolver.Resolve(imp.Source, path)
		if err != nil {
			return fmt.Errorf("resolving %q from %s: %w", imp.Source, path, err)
		}
		if resolved == "" {
			continue
		}
		if !b.config.IncludeNodeModules && isNodeModulesPath(resolved) {
			continue
		}

		if err := b.traverse(resolved, chain); err != nil {
			return err
		}
	}

	return nil
}

// classifyFile parses and classifies one file. Unsupported kinds (JSON,
// assets) and files with syntax errors degrade to an Unknown record with
// empty symbol lists rather than aborting the traversal.
func (b *Builder) classifyFile(path string) (classifier.Analysis, error) {
	fileParser, err := parser.CreateParser(path)
	if err != nil {
		return classifier.Analysis{ModuleSystem: classifier.Unknown}, nil
	}
	defer fileParser.Close()

	result, err := fileParser.ParseFile(path)
	if err != nil {
		return classifier.Analysis{}, err
	}
	defer result.Tree.Close()

	analysis := classifier.Classify(result)
	if analysis.HasErrors {
		b.log.WithFields(logrus.Fields{
			"path":   path,
			"errors": len(analysis.ParseErrors),
		}).Warn("parse errors, file recorded without dependencies")
	}

	return analysis, nil
}

func (b *Builder) newFileRecord(path string, analysis classifier.Analysis) (*graph.FileRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	relative, err := filepath.Rel(b.packageRoot, path)
	if err != nil {
		relative = path
	}

	return &graph.FileRecord{
		RelativePath:   relative,
		AbsolutePath:   path,
		FileName:       filepath.Base(path),
		Kind:           graph.KindFromPath(path),
		SizeBytes:      info.Size(),
		Modified:       info.ModTime(),
		ModuleSystem:   analysis.ModuleSystem,
		Dependency:     packageNameFromPath(path),
		Exports:        analysis.Exports,
		Imports:        analysis.Imports,
		HasParseErrors: analysis.HasErrors,
		ParseErrors:    analysis.ParseErrors,
	}, nil
}

// assembleGraph derives nodes and edges from the accumulated records.
// Edges are re-derived against the complete node set so they only ever
// connect two files that are both in the graph; imports that resolve to
// nothing become unresolved entries on the referencing file.
func (b *Builder) assembleGraph(entryPoints []string) (*graph.Graph, error) {
	g := graph.New()

	for _, entry := range entryPoints {
		g.AddEntryPoint(entry)
	}

	for path, record := range b.files {
		g.AddNode(path, record)
	}

	// Deterministic edge order: iterate files lexicographically.
	for _, from := range g.SortedPaths() {
		record := b.files[from]
		for _, imp := range record.Imports {
			if imp.IsDynamic && (!b.config.FollowDynamicImports || imp.Source == "<dynamic>") {
				continue
			}

			resolved, err := b.resolver.Resolve(imp.Source, from)
			if err != nil {
				return nil, fmt.Errorf("resolving %q from %s: %w", imp.Source, from, err)
			}
			if resolved == "" {
				g.AddUnresolvedImport(from, imp.Source)
				continue
			}
			if _, ok := b.files[resolved]; !ok {
				continue
			}

			g.AddEdge(from, resolved, importTypeFor(imp, record))
		}
	}

	for _, pair := range b.circular {
		g.AddCircularPair(pair.From, pair.To)
	}

	return g, nil
}

// importTypeFor picks the edge type: the import's own dynamic/type-only
// markers win, otherwise the importing file's module system decides
// between require and static import.
func importTypeFor(imp classifier.ImportedSymbol, record *graph.FileRecord) graph.ImportType {
	switch {
	case imp.IsDynamic:
		return graph.DynamicImport
	case imp.IsTypeOnly:
		return graph.TypeImport
	case record.ModuleSystem == classifier.CommonJS:
		return graph.Require
	default:
		return graph.StaticImport
	}
}

func (b *Builder) shouldIgnore(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range b.config.IgnorePatterns {
		if matched, err := doublestar.Match(pattern, slashed); err == nil && matched {
			return true
		}
	}
	return false
}

func isNodeModulesPath(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "node_modules" {
			return true
		}
	}
	return false
}

// packageNameFromPath extracts the dependency package name for files
// under node_modules, handling scoped packages. Returns "" for core
// package files.
func packageNameFromPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for i, part := range parts {
		if part != "node_modules" || i+1 >= len(parts) {
			continue
		}
		name := parts[i+1]
		if strings.HasPrefix(name, "@") && i+2 < len(parts) {
			return name + "/" + parts[i+2]
		}
		return name
	}
	return ""
}

func containsPath(chain []string, path string) bool {
	for _, entry := range chain {
		if entry == path {
			return true
		}
	}
	return false
}
