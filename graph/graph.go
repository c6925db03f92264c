package graph

import (
	"sort"
)

// ImportType is the mechanism through which one file pulls in another.
type ImportType string

const (
	StaticImport  ImportType = "static_import"
	DynamicImport ImportType = "dynamic_import"
	Require       ImportType = "require"
	TypeImport    ImportType = "type_import"
)

// Node wraps a FileRecord with its adjacency lists. Both lists hold
// path keys, not pointers, so cycles need no special handling, and both
// are deduplicated by path.
type Node struct {
	Record       *FileRecord `json:"record"`
	Dependencies []string    `json:"dependencies"`
	Dependents   []string    `json:"dependents"`
}

// Edge is a directed import relation. Multiple edges between the same
// pair with different import types are preserved.
type Edge struct {
	From string     `json:"from"`
	To   string     `json:"to"`
	Type ImportType `json:"import_type"`
}

// CircularPair records that To was reached while already on the active
// traversal chain; From is the file that closed the cycle.
type CircularPair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the package dependency graph. It is mutable during
// construction and during the single CalculateReachability pass, and
// read-only afterwards.
type Graph struct {
	Nodes             map[string]*Node    `json:"nodes"`
	Edges             []Edge              `json:"edges"`
	EntryPoints       []string            `json:"entry_points"`
	Reachable         map[string]bool     `json:"reachable_files"`
	Unreachable       map[string]bool     `json:"unreachable_files"`
	CircularPairs     []CircularPair      `json:"circular_dependencies"`
	ImportDepths      map[string]int      `json:"import_depths"`
	UnresolvedImports map[string][]string `json:"unresolved_imports"`

	circularSeen map[CircularPair]bool
}

// New creates an empty dependency graph.
func New() *Graph {
	return &Graph{
		Nodes:             make(map[string]*Node),
		Reachable:         make(map[string]bool),
		Unreachable:       make(map[string]bool),
		ImportDepths:      make(map[string]int),
		UnresolvedImports: make(map[string][]string),
		circularSeen:      make(map[CircularPair]bool),
	}
}

// AddNode registers a file record under its absolute path.
func (g *Graph) AddNode(path string, record *FileRecord) {
	g.Nodes[path] = &Node{Record: record}
}

// AddEdge appends an edge and updates both adjacency lists, keeping them
// deduplicated by path.
func (g *Graph) AddEdge(from, to string, importType ImportType) {
	g.Edges = append(g.Edges, Edge{From: from, To: to, Type: importType})

	if fromNode, ok := g.Nodes[from]; ok && !contains(fromNode.Dependencies, to) {
		fromNode.Dependencies = append(fromNode.Dependencies, to)
	}
	if toNode, ok := g.Nodes[to]; ok && !contains(toNode.Dependents, from) {
		toNode.Dependents = append(toNode.Dependents, from)
	}
}

// AddEntryPoint marks a path as an entry point.
func (g *Graph) AddEntryPoint(path string) {
	if !contains(g.EntryPoints, path) {
		g.EntryPoints = append(g.EntryPoints, path)
	}
}

// AddCircularPair records one circular-reference pair, deduplicated.
func (g *Graph) AddCircularPair(from, to string) {
	pair := CircularPair{From: from, To: to}
	if g.circularSeen[pair] {
		return
	}
	g.circularSeen[pair] = true
	g.CircularPairs = append(g.CircularPairs, pair)
}

// AddUnresolvedImport attaches a specifier that failed resolution to the
// file that referenced it.
func (g *Graph) AddUnresolvedImport(file, specifier string) {
	g.UnresolvedImports[file] = append(g.UnresolvedImports[file], specifier)
}

// IsEntryPoint reports whether path is one of the graph's entry points.
func (g *Graph) IsEntryPoint(path string) bool {
	return contains(g.EntryPoints, path)
}

// CalculateReachability runs a breadth-first traversal from all entry
// points at once, each at depth 0. A node's recorded depth is the
// minimum over all entry paths that reach it; anything never dequeued
// is unreachable. This runs exactly once, after traversal completes,
// because edges are not final until then. It also fills in the two
// reachability fields on every FileRecord.
func (g *Graph) CalculateReachability() {
	queue := make([]string, 0, len(g.EntryPoints))
	for _, entry := range g.EntryPoints {
		if _, ok := g.Nodes[entry]; !ok {
			continue
		}
		g.ImportDepths[entry] = 0
		queue = append(queue, entry)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if g.Reachable[current] {
			continue
		}
		g.Reachable[current] = true

		node := g.Nodes[current]
		if node == nil {
			continue
		}

		nextDepth := g.ImportDepths[current] + 1
		for _, dep := range node.Dependencies {
			if g.Reachable[dep] {
				continue
			}
			if depth, ok := g.ImportDepths[dep]; !ok || nextDepth < depth {
				g.ImportDepths[dep] = nextDepth
			}
			queue = append(queue, dep)
		}
	}

	for path, node := range g.Nodes {
		if !g.Reachable[path] {
			g.Unreachable[path] = true
		}
		node.Record.IsReferenced = g.Reachable[path]
		node.Record.ReferenceCount = len(node.Dependents)
	}
}

// Statistics summarizes the finished graph in one pass. Nodes are
// visited in lexicographic path order so fan-in/fan-out ties break
// deterministically toward the smallest path.
func (g *Graph) Statistics() Statistics {
	stats := Statistics{
		TotalNodes:       len(g.Nodes),
		TotalEdges:       len(g.Edges),
		ReachableCount:   len(g.Reachable),
		UnreachableCount: len(g.Unreachable),
		CircularCount:    len(g.CircularPairs),
	}

	for _, specifiers := range g.UnresolvedImports {
		stats.UnresolvedCount += len(specifiers)
	}

	if len(g.ImportDepths) > 0 {
		total := 0
		for _, depth := range g.ImportDepths {
			total += depth
			if depth > stats.MaxDepth {
				stats.MaxDepth = depth
			}
		}
		stats.AvgDepth = float64(total) / float64(len(g.ImportDepths))
	}

	for _, path := range g.SortedPaths() {
		node := g.Nodes[path]
		if fanIn := len(node.Dependents); fanIn > stats.MaxFanIn {
			stats.MaxFanIn = fanIn
			stats.MaxFanInFile = path
		}
		if fanOut := len(node.Dependencies); fanOut > stats.MaxFanOut {
			stats.MaxFanOut = fanOut
			stats.MaxFanOutFile = path
		}
	}

	return stats
}

// SortedPaths returns every node path in lexicographic order.
func (g *Graph) SortedPaths() []string {
	paths := make([]string, 0, len(g.Nodes))
	for path := range g.Nodes {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Statistics holds the derived counters for a finished graph.
type Statistics struct {
	TotalNodes       int     `json:"total_nodes"`
	TotalEdges       int     `json:"total_edges"`
	ReachableCount   int     `json:"reachable_count"`
	UnreachableCount int     `json:"unreachable_count"`
	CircularCount    int     `json:"circular_count"`
	UnresolvedCount  int     `json:"unresolved_count"`
	MaxDepth         int     `json:"max_depth"`
	AvgDepth         float64 `json:"avg_depth"`
	MaxFanIn         int     `json:"max_fan_in"`
	MaxFanInFile     string  `json:"max_fan_in_file,omitempty"`
	MaxFanOut        int     `json:"max_fan_out"`
	MaxFanOutFile    string  `json:"max_fan_out_file,omitempty"`
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
