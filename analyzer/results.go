package analyzer

import (
	"fmt"
	"sort"
	"time"

	"github.com/depscope/depscope/bundle"
	"github.com/depscope/depscope/classifier"
	"github.com/depscope/depscope/graph"
)

// fanRankLimit bounds the retained fan-in/fan-out rankings.
const fanRankLimit = 10

// Statistics aggregates file and graph counters for one analysis run.
type Statistics struct {
	TotalFiles           int     `json:"total_files"`
	ESMFiles             int     `json:"esm_files"`
	CJSFiles             int     `json:"cjs_files"`
	MixedFiles           int     `json:"mixed_files"`
	TypeScriptFiles      int     `json:"typescript_files"`
	ReferencedFiles      int     `json:"referenced_files"`
	UnreferencedFiles    int     `json:"unreferenced_files"`
	TotalExports         int     `json:"total_exports"`
	TotalImports         int     `json:"total_imports"`
	EntryPointCount      int     `json:"entry_point_count"`
	CircularCount        int     `json:"circular_dependency_count"`
	UnresolvedCount      int     `json:"unresolved_import_count"`
	AverageImportDepth   float64 `json:"average_import_depth"`
	MaxImportDepth       int     `json:"max_import_depth"`
	FilesWithSideEffects int     `json:"files_with_side_effects"`
}

// FileComplexity is the structural weight of one file. The cyclomatic
// fields are reserved and stay zero: computing them needs flow analysis
// this tool does not perform.
type FileComplexity struct {
	CyclomaticComplexity int `json:"cyclomatic_complexity"`
	LinesOfCode          int `json:"lines_of_code"`
	ImportCount          int `json:"import_count"`
	ExportCount          int `json:"export_count"`
}

// FanRank is one entry in a fan-in/fan-out ranking.
type FanRank struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// Complexity collects per-file weights and the top fan rankings.
type Complexity struct {
	FileComplexity  map[string]FileComplexity `json:"file_complexity"`
	HighFanOutFiles []FanRank                 `json:"high_fan_out_files"`
	HighFanInFiles  []FanRank                 `json:"high_fan_in_files"`
}

// ErrorType classifies a non-fatal analysis finding.
type ErrorType string

const (
	ErrorParse      ErrorType = "parse_error"
	ErrorUnresolved ErrorType = "unresolved_import"
	ErrorCircular   ErrorType = "circular_dependency"
)

// AnalysisError is a non-fatal finding attached to the results.
type AnalysisError struct {
	FilePath     string    `json:"file_path"`
	Type         ErrorType `json:"type"`
	Message      string    `json:"message"`
	ImportChain  []string  `json:"import_chain,omitempty"`
	SuggestedFix string    `json:"suggested_fix,omitempty"`
}

// Results is the complete output of one package analysis.
type Results struct {
	PackagePath string              `json:"package_path"`
	Files       []*graph.FileRecord `json:"files"`
	Graph       *graph.Graph        `json:"dependency_graph"`
	Statistics  Statistics          `json:"statistics"`
	Complexity  Complexity          `json:"complexity_metrics"`
	Bundle      bundle.Impact       `json:"bundle_impact"`
	Errors      []AnalysisError     `json:"analysis_errors"`
	AnalyzedAt  time.Time           `json:"analyzed_at"`
}

// newResults assembles Results from a finished graph.
func newResults(packagePath string, g *graph.Graph) *Results {
	results := &Results{
		PackagePath: packagePath,
		Graph:       g,
		Complexity: Complexity{
			FileComplexity: make(map[string]FileComplexity),
		},
		AnalyzedAt: time.Now().UTC(),
	}

	graphStats := g.Statistics()
	results.Statistics.EntryPointCount = len(g.EntryPoints)
	results.Statistics.CircularCount = graphStats.CircularCount
	results.Statistics.UnresolvedCount = graphStats.UnresolvedCount
	results.Statistics.AverageImportDepth = graphStats.AvgDepth
	results.Statistics.MaxImportDepth = graphStats.MaxDepth

	var fanOut, fanIn []FanRank

	for _, path := range g.SortedPaths() {
		node := g.Nodes[path]
		record := node.Record
		results.Files = append(results.Files, record)
		results.updateFileStatistics(record)

		results.Complexity.FileComplexity[path] = FileComplexity{
			ImportCount: len(record.Imports),
			ExportCount: len(record.Exports),
		}
		fanOut = append(fanOut, FanRank{Path: path, Count: len(node.Dependencies)})
		fanIn = append(fanIn, FanRank{Path: path, Count: len(node.Dependents)})
	}

	results.Complexity.HighFanOutFiles = topRanks(fanOut)
	results.Complexity.HighFanInFiles = topRanks(fanIn)

	results.collectErrors(g)
	results.Bundle = bundle.Analyze(g)

	return results
}

func (r *Results) updateFileStatistics(record *graph.FileRecord) {
	r.Statistics.TotalFiles++

	switch record.ModuleSystem {
	case classifier.ESM:
		r.Statistics.ESMFiles++
	case classifier.CommonJS:
		r.Statistics.CJSFiles++
	case classifier.Mixed:
		r.Statistics.MixedFiles++
	}

	if record.Kind.IsTypeScript() {
		r.Statistics.TypeScriptFiles++
	}

	if record.IsReferenced {
		r.Statistics.ReferencedFiles++
	} else {
		r.Statistics.UnreferencedFiles++
	}

	r.Statistics.TotalExports += len(record.Exports)
	r.Statistics.TotalImports += len(record.Imports)

	if record.HasSideEffects() {
		r.Statistics.FilesWithSideEffects++
	}
}

func (r *Results) collectErrors(g *graph.Graph) {
	for _, path := range g.SortedPaths() {
		record := g.Nodes[path].Record
		if record.HasParseErrors {
			r.Errors = append(r.Errors, AnalysisError{
				FilePath: path,
				Type:     ErrorParse,
				Message:  fmt.Sprintf("file has %d parse errors", len(record.ParseErrors)),
			})
		}

		for _, specifier := range g.UnresolvedImports[path] {
			r.Errors = append(r.Errors, AnalysisError{
				FilePath:     path,
				Type:         ErrorUnresolved,
				Message:      fmt.Sprintf("cannot resolve import: %s", specifier),
				ImportChain:  []string{path},
				SuggestedFix: fmt.Sprintf("check if %q is installed or if the path is correct", specifier),
			})
		}
	}

	for _, pair := range g.CircularPairs {
		r.Errors = append(r.Errors, AnalysisError{
			FilePath:     pair.From,
			Type:         ErrorCircular,
			Message:      fmt.Sprintf("circular dependency detected: %s -> %s", pair.From, pair.To),
			ImportChain:  []string{pair.From, pair.To},
			SuggestedFix: "consider refactoring to break the circular dependency",
		})
	}
}

func topRanks(ranks []FanRank) []FanRank {
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Count > ranks[j].Count
	})
	if len(ranks) > fanRankLimit {
		ranks = ranks[:fanRankLimit]
	}
	return ranks
}

// Summary renders a human-readable overview of the results.
func (r *Results) Summary() string {
	return fmt.Sprintf(`Dependency Analysis Summary
===========================
Package: %s
Analyzed at: %s

Files:
  Total: %d
  ESM: %d
  CommonJS: %d
  Mixed: %d
  TypeScript: %d

Reachability:
  Entry points: %d
  Referenced: %d
  Unreferenced: %d (potential dead code)

Dependencies:
  Circular: %d
  Unresolved imports: %d
  Average depth: %.2f
  Max depth: %d

Bundle Impact:
  Files with side effects: %d
  Tree-shakeable files: %d
  Non-tree-shakeable: %d

Findings: %d
`,
		r.PackagePath,
		r.AnalyzedAt.Format("2006-01-02 15:04:05 UTC"),
		r.Statistics.TotalFiles,
		r.Statistics.ESMFiles,
		r.Statistics.CJSFiles,
		r.Statistics.MixedFiles,
		r.Statistics.TypeScriptFiles,
		r.Statistics.EntryPointCount,
		r.Statistics.ReferencedFiles,
		r.Statistics.UnreferencedFiles,
		r.Statistics.CircularCount,
		r.Statistics.UnresolvedCount,
		r.Statistics.AverageImportDepth,
		r.Statistics.MaxImportDepth,
		r.Statistics.FilesWithSideEffects,
		len(r.Bundle.TreeShakeableExports),
		len(r.Bundle.NonTreeShakeable),
		len(r.Errors),
	)
}
