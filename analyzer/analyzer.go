// Package analyzer orchestrates a full package analysis: entry point
// discovery, graph construction, and result assembly.
package analyzer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/depscope/depscope/builder"
	"github.com/depscope/depscope/resolver"
)

// Analyzer runs full-package dependency analysis.
type Analyzer struct {
	config builder.Config
	log    *logrus.Entry
}

// New creates an analyzer with the given traversal configuration.
func New(config builder.Config) *Analyzer {
	return &Analyzer{
		config: config,
		log:    logrus.WithField("component", "analyzer"),
	}
}

// AnalyzePackage analyzes the npm package rooted at packagePath. The
// path must contain a package.json that yields at least one entry
// point. Each call builds a fresh resolver so runs never share cache
// state.
func (a *Analyzer) AnalyzePackage(packagePath string) (*Results, error) {
	absPath, err := filepath.Abs(packagePath)
	if err != nil {
		return nil, fmt.Errorf("resolving package path %s: %w", packagePath, err)
	}
	if info, err := os.Stat(absPath); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("package path is not a directory: %s", absPath)
	}

	entryPoints, err := FindEntryPoints(absPath)
	if err != nil {
		return nil, err
	}
	if len(entryPoints) == 0 {
		return nil, fmt.Errorf("no entry points found in %s", absPath)
	}

	a.log.WithFields(logrus.Fields{
		"package": absPath,
		"entries": len(entryPoints),
	}).Info("starting package analysis")

	res := resolver.New(absPath)
	b := builder.New(absPath, res, a.config)

	g, err := b.Build(entryPoints)
	if err != nil {
		return nil, fmt.Errorf("building dependency graph for %s: %w", absPath, err)
	}

	results := newResults(absPath, g)

	a.log.WithFields(logrus.Fields{
		"files":      results.Statistics.TotalFiles,
		"referenced": results.Statistics.ReferencedFiles,
		"circular":   results.Statistics.CircularCount,
		"unresolved": results.Statistics.UnresolvedCount,
	}).Info("package analysis complete")

	return results, nil
}
