package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
)

// TSConfig carries the compilerOptions subset that affects module
// resolution: the base directory and the alias pattern table.
type TSConfig struct {
	BaseURL string
	Paths   map[string][]string
}

type tsconfigFile struct {
	CompilerOptions struct {
		BaseURL string              `json:"baseUrl"`
		Paths   map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

// LoadTSConfig reads tsconfig.json from the package root if present.
// Absence or an undecodable file disables alias resolution, so both
// return nil rather than an error.
func LoadTSConfig(packageRoot string) *TSConfig {
	data, err := os.ReadFile(filepath.Join(packageRoot, "tsconfig.json"))
	if err != nil {
		return nil
	}

	var file tsconfigFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil
	}

	baseURL := packageRoot
	if file.CompilerOptions.BaseURL != "" {
		baseURL = filepath.Join(packageRoot, file.CompilerOptions.BaseURL)
	}

	return &TSConfig{
		BaseURL: baseURL,
		Paths:   file.CompilerOptions.Paths,
	}
}

// SortedPatterns returns the alias patterns in lexicographic order so
// resolution does not depend on map iteration order.
func (c *TSConfig) SortedPatterns() []string {
	patterns := make([]string, 0, len(c.Paths))
	for pattern := range c.Paths {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)
	return patterns
}
