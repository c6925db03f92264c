// Package bundle derives bundler-relevant facts from a finished
// dependency graph: which files a bundler can tree-shake, which look
// like they run code on import, and how much each external dependency
// contributes to the bundle.
package bundle

import (
	"sort"

	"github.com/depscope/depscope/graph"
)

// heaviestLimit bounds the retained heaviest-dependencies prefix.
const heaviestLimit = 20

// DependencyImpact sums the size contribution of one external package.
type DependencyImpact struct {
	PackageName string `json:"package_name"`
	TotalSize   int64  `json:"total_size"`
	FileCount   int    `json:"file_count"`
}

// Contribution is the per-file bundle cost.
type Contribution struct {
	DirectSize int64 `json:"direct_size"`
	// TransitiveSize is reserved; it currently mirrors the direct size.
	TransitiveSize int64 `json:"transitive_size"`
	TreeShakeable  bool  `json:"is_tree_shakeable"`
}

// Impact is the bundle analysis over a whole graph. The side-effect and
// tree-shake verdicts are heuristics, not guarantees: they come from
// module syntax alone.
type Impact struct {
	HeaviestDependencies []DependencyImpact      `json:"heaviest_dependencies"`
	SideEffectFiles      []string                `json:"side_effect_files"`
	TreeShakeableExports map[string][]string     `json:"tree_shakeable_exports"`
	NonTreeShakeable     []string                `json:"non_tree_shakeable_files"`
	Contributions        map[string]Contribution `json:"bundle_contribution"`
}

// Analyze makes a single read-only pass over the finished graph.
func Analyze(g *graph.Graph) Impact {
	impact := Impact{
		TreeShakeableExports: make(map[string][]string),
		Contributions:        make(map[string]Contribution),
	}

	dependencySizes := make(map[string]*DependencyImpact)

	for _, path := range g.SortedPaths() {
		record := g.Nodes[path].Record

		if record.HasSideEffects() {
			impact.SideEffectFiles = append(impact.SideEffectFiles, path)
		}

		if record.IsTreeShakeable() {
			var names []string
			for _, export := range record.Exports {
				if !export.IsDefault {
					names = append(names, export.Name)
				}
			}
			impact.TreeShakeableExports[path] = names
		} else if len(record.Exports) > 0 {
			impact.NonTreeShakeable = append(impact.NonTreeShakeable, path)
		}

		impact.Contributions[path] = Contribution{
			DirectSize:     record.SizeBytes,
			TransitiveSize: record.SizeBytes,
			TreeShakeable:  record.IsTreeShakeable(),
		}

		if record.IsDependencyFile() {
			entry := dependencySizes[record.Dependency]
			if entry == nil {
				entry = &DependencyImpact{PackageName: record.Dependency}
				dependencySizes[record.Dependency] = entry
			}
			entry.TotalSize += record.SizeBytes
			entry.FileCount++
		}
	}

	heaviest := make([]DependencyImpact, 0, len(dependencySizes))
	for _, entry := range dependencySizes {
		heaviest = append(heaviest, *entry)
	}
	sort.Slice(heaviest, func(i, j int) bool {
		if heaviest[i].TotalSize != heaviest[j].TotalSize {
			return heaviest[i].TotalSize > heaviest[j].TotalSize
		}
		return heaviest[i].PackageName < heaviest[j].PackageName
	})
	if len(heaviest) > heaviestLimit {
		heaviest = heaviest[:heaviestLimit]
	}
	impact.HeaviestDependencies = heaviest

	return impact
}
