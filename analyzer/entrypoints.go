package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/depscope/depscope/manifest"
)

var entryExtensions = []string{".js", ".ts", ".mjs", ".cjs", ".jsx", ".tsx"}

var entryIndexFiles = []string{"index.js", "index.ts", "index.mjs", "index.cjs"}

var entryDefaults = []string{"index.js", "index.ts", "src/index.js", "src/index.ts"}

// FindEntryPoints derives a package's entry points from its manifest:
// main, module, browser, the exports map, and bin, each with extension
// and index fallback, deduplicated and sorted. When nothing declares an
// entry, the conventional index locations are probed.
func FindEntryPoints(packageRoot string) ([]string, error) {
	manifestPath := filepath.Join(packageRoot, "package.json")
	if _, err := os.Stat(manifestPath); err != nil {
		return nil, fmt.Errorf("no package.json in %s: %w", packageRoot, err)
	}

	details, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	var entries []string

	if details.Main != "" {
		if path := resolveEntry(packageRoot, details.Main); path != "" {
			entries = append(entries, path)
		}
	}
	if details.Module != "" {
		if path := resolveEntry(packageRoot, details.Module); path != "" {
			entries = append(entries, path)
		}
	}
	if browser, ok := details.Browser.(string); ok && browser != "" {
		if path := resolveEntry(packageRoot, browser); path != "" {
			entries = append(entries, path)
		}
	}

	entries = append(entries, entryPointsFromExports(details.Exports, packageRoot)...)
	entries = append(entries, entryPointsFromBin(details.Bin, packageRoot)...)

	entries = dedupeSorted(entries)

	if len(entries) == 0 {
		for _, candidate := range entryDefaults {
			path := filepath.Join(packageRoot, candidate)
			if _, err := os.Stat(path); err == nil {
				entries = append(entries, path)
				break
			}
		}
	}

	return entries, nil
}

// resolveEntry probes an entry field value: exact path, then common
// extensions, then index files if it names a directory.
func resolveEntry(packageRoot, entry string) string {
	path := filepath.Join(packageRoot, entry)

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}

	for _, ext := range entryExtensions {
		withExt := path + ext
		if _, err := os.Stat(withExt); err == nil {
			return withExt
		}
	}

	for _, index := range entryIndexFiles {
		indexPath := filepath.Join(path, index)
		if _, err := os.Stat(indexPath); err == nil {
			return indexPath
		}
	}

	return ""
}

// entryPointsFromExports walks an exports value: the "." key, the
// conditional keys, and every "./" subpath key.
func entryPointsFromExports(exports any, packageRoot string) []string {
	var entries []string

	switch value := exports.(type) {
	case string:
		if path := resolveEntry(packageRoot, value); path != "" {
			entries = append(entries, path)
		}
	case map[string]any:
		if dot, ok := value["."]; ok {
			entries = append(entries, entryPointsFromExports(dot, packageRoot)...)
		}

		for _, condition := range []string{"import", "require", "default", "node", "browser"} {
			if target, ok := value[condition].(string); ok {
				if path := resolveEntry(packageRoot, target); path != "" {
					entries = append(entries, path)
				}
			}
		}

		// Subpath exports are additional public entries.
		keys := make([]string, 0, len(value))
		for key := range value {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if len(key) > 2 && key[:2] == "./" {
				entries = append(entries, entryPointsFromExports(value[key], packageRoot)...)
			}
		}
	}

	return entries
}

func entryPointsFromBin(bin any, packageRoot string) []string {
	var entries []string

	switch value := bin.(type) {
	case string:
		if path := resolveEntry(packageRoot, value); path != "" {
			entries = append(entries, path)
		}
	case map[string]any:
		keys := make([]string, 0, len(value))
		for key := range value {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if target, ok := value[key].(string); ok {
				if path := resolveEntry(packageRoot, target); path != "" {
					entries = append(entries, path)
				}
			}
		}
	}

	return entries
}

func dedupeSorted(paths []string) []string {
	sort.Strings(paths)
	var out []string
	for i, path := range paths {
		if i == 0 || path != paths[i-1] {
			out = append(out, path)
		}
	}
	return out
}
