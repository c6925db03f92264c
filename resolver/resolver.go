package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/depscope/depscope/manifest"
)

// manifestCacheSize bounds the parsed package.json cache.
const manifestCacheSize = 100

// extensionProbes is the fixed priority order for extensionless
// relative specifiers. TypeScript sources win over their compiled output.
var extensionProbes = []string{"ts", "tsx", "d.ts", "js", "jsx", "mjs", "cjs", "json"}

// indexProbes is the fixed priority order for directory imports.
var indexProbes = []string{
	"index.ts", "index.tsx", "index.d.ts",
	"index.js", "index.jsx", "index.mjs", "index.cjs",
}

// exportConditions is the fixed priority order for conditional exports.
var exportConditions = []string{"import", "require", "node", "default"}

// Resolver maps module specifiers to absolute file paths, reproducing
// Node.js and TypeScript resolution semantics. One Resolver serves one
// analysis run; its caches are never invalidated mid-run, so results
// stay stable for the duration of a traversal. Discard it between runs.
type Resolver struct {
	packageRoot string
	tsconfig    *manifest.TSConfig

	// packageDirs memoizes the ancestor node_modules walk by package
	// name alone. Nested, differently-versioned copies of one package
	// therefore resolve to the first directory found.
	packageDirs map[string]string
	fileExists  map[string]bool
	manifests   *lru.Cache[string, *manifest.Details]
}

// New constructs a resolver rooted at packageRoot, loading tsconfig.json
// path aliases if the file exists.
func New(packageRoot string) *Resolver {
	manifests, _ := lru.New[string, *manifest.Details](manifestCacheSize)

	return &Resolver{
		packageRoot: packageRoot,
		tsconfig:    manifest.LoadTSConfig(packageRoot),
		packageDirs: make(map[string]string),
		fileExists:  make(map[string]bool),
		manifests:   manifests,
	}
}

// Resolve maps (specifier, referencing file) to an absolute path. An
// empty result with a nil error means the specifier could not be
// resolved; that is an expected outcome, not an error. The only error
// case is a package manifest that exists but cannot be read or decoded.
func (r *Resolver) Resolve(specifier, from string) (string, error) {
	if specifier == "" {
		return "", nil
	}

	// TypeScript path aliases take priority over everything else.
	if r.tsconfig != nil {
		if resolved := r.resolveTypeScriptPaths(specifier); resolved != "" {
			return resolved, nil
		}
	}

	switch {
	case strings.HasPrefix(specifier, "."):
		return r.resolveRelative(specifier, filepath.Dir(from)), nil
	case strings.HasPrefix(specifier, "#"):
		// Subpath imports are intentionally unresolved.
		return "", nil
	default:
		return r.resolvePackage(specifier, from)
	}
}

// resolveRelative joins the specifier against baseDir and probes
// extensions, then index files, in fixed priority order.
func (r *Resolver) resolveRelative(specifier, baseDir string) string {
	candidate := filepath.Clean(filepath.Join(baseDir, specifier))

	if r.exists(candidate) && !r.isDir(candidate) {
		return candidate
	}

	if !hasRecognizedExtension(candidate) {
		for _, ext := range extensionProbes {
			withExt := candidate + "." + ext
			if r.exists(withExt) {
				return withExt
			}
		}
	}

	if r.isDir(candidate) {
		for _, index := range indexProbes {
			indexPath := filepath.Join(candidate, index)
			if r.exists(indexPath) {
				return indexPath
			}
		}
	}

	return ""
}

func hasRecognizedExtension(path string) bool {
	for _, ext := range extensionProbes {
		if strings.HasSuffix(path, "."+ext) {
			return true
		}
	}
	return false
}

// resolvePackage handles bare specifiers: walk ancestors for the package
// directory, then resolve the requested subpath or entry point.
func (r *Resolver) resolvePackage(specifier, from string) (string, error) {
	packageName, subpath := splitPackageSpecifier(specifier)

	packageDir, ok := r.packageDirs[packageName]
	if !ok {
		packageDir = r.findPackageDir(packageName, filepath.Dir(from))
		if packageDir == "" {
			return "", nil
		}
		// Package names resolve at most once per run.
		r.packageDirs[packageName] = packageDir
	}

	return r.resolvePackageSubpath(packageDir, subpath)
}

// findPackageDir walks upward through every ancestor checking
// <ancestor>/node_modules/<name>. Unreadable directories count as "not
// found here" and the search continues upward.
func (r *Resolver) findPackageDir(packageName, startDir string) string {
	dir := startDir
	for {
		candidate := filepath.Join(dir, "node_modules", packageName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func (r *Resolver) resolvePackageSubpath(packageDir, subpath string) (string, error) {
	manifestPath := filepath.Join(packageDir, "package.json")
	if !r.exists(manifestPath) {
		return "", nil
	}

	details, err := r.loadManifest(manifestPath)
	if err != nil {
		return "", err
	}

	// An exports field is authoritative: no fallback past it.
	if details.Exports != nil {
		return r.resolveExportsField(details.Exports, subpath, packageDir), nil
	}

	if subpath != "" {
		return r.resolveRelative("./"+subpath, packageDir), nil
	}

	return r.resolvePackageMain(details, packageDir), nil
}

func (r *Resolver) loadManifest(path string) (*manifest.Details, error) {
	if details, ok := r.manifests.Get(path); ok {
		return details, nil
	}

	details, err := manifest.Load(path)
	if err != nil {
		return nil, fmt.Errorf("resolving against %s: %w", path, err)
	}

	r.manifests.Add(path, details)
	return details, nil
}

// resolveExportsField evaluates a package.json exports value. With no
// subpath the "." key and then the conditional keys are consulted; with
// a subpath only the "./<subpath>" key is.
func (r *Resolver) resolveExportsField(exports any, subpath, packageDir string) string {
	switch value := exports.(type) {
	case string:
		if subpath != "" {
			return ""
		}
		return r.existingTarget(packageDir, value)
	case map[string]any:
		key := "."
		if subpath != "" {
			key = "./" + subpath
		}
		if entry, ok := value[key]; ok {
			return r.resolveExportValue(entry, packageDir)
		}

		if subpath == "" {
			for _, condition := range exportConditions {
				if entry, ok := value[condition]; ok {
					if resolved := r.resolveExportValue(entry, packageDir); resolved != "" {
						return resolved
					}
				}
			}
		}
	}

	return ""
}

// resolveExportValue resolves a single exports entry, recursing through
// nested condition objects until a string target or exhaustion.
func (r *Resolver) resolveExportValue(entry any, packageDir string) string {
	switch value := entry.(type) {
	case string:
		return r.existingTarget(packageDir, value)
	case map[string]any:
		for _, condition := range exportConditions {
			if nested, ok := value[condition]; ok {
				if resolved := r.resolveExportValue(nested, packageDir); resolved != "" {
					return resolved
				}
			}
		}
	}

	return ""
}

func (r *Resolver) existingTarget(packageDir, target string) string {
	resolved := filepath.Clean(filepath.Join(packageDir, target))
	if r.exists(resolved) {
		return resolved
	}
	return ""
}

// resolvePackageMain resolves a package's entry when no exports field is
// present: module preferred over main, then index fallbacks.
func (r *Resolver) resolvePackageMain(details *manifest.Details, packageDir string) string {
	for _, entry := range []string{details.Module, details.Main} {
		if entry == "" {
			continue
		}

		exact := filepath.Clean(filepath.Join(packageDir, entry))
		if r.exists(exact) && !r.isDir(exact) {
			return exact
		}

		if resolved := r.resolveRelative("./"+entry, packageDir); resolved != "" {
			return resolved
		}
	}

	index := filepath.Join(packageDir, "index.js")
	if r.exists(index) {
		return index
	}

	return r.resolveRelative("./index", packageDir)
}

// resolveTypeScriptPaths applies tsconfig path aliases: each pattern may
// contain one wildcard, and replacements are tried in configured order,
// accepting the first one whose target exists.
func (r *Resolver) resolveTypeScriptPaths(specifier string) string {
	for _, pattern := range r.tsconfig.SortedPatterns() {
		if !matchesPathPattern(specifier, pattern) {
			continue
		}
		for _, replacement := range r.tsconfig.Paths[pattern] {
			candidate := applyPathMapping(specifier, pattern, replacement, r.tsconfig.BaseURL)
			if candidate != "" && r.exists(candidate) {
				return candidate
			}
		}
	}

	return ""
}

func matchesPathPattern(specifier, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return specifier == pattern
	}

	prefix, suffix, _ := strings.Cut(pattern, "*")
	return strings.HasPrefix(specifier, prefix) && strings.HasSuffix(specifier, suffix) &&
		len(specifier) >= len(prefix)+len(suffix)
}

func applyPathMapping(specifier, pattern, replacement, baseDir string) string {
	if !strings.Contains(pattern, "*") || !strings.Contains(replacement, "*") {
		return filepath.Clean(filepath.Join(baseDir, replacement))
	}

	prefix, suffix, _ := strings.Cut(pattern, "*")
	wildcard := specifier[len(prefix) : len(specifier)-len(suffix)]
	return filepath.Clean(filepath.Join(baseDir, strings.Replace(replacement, "*", wildcard, 1)))
}

// exists is a memoized existence check. Entries are write-once: results
// are stable for the lifetime of the resolver.
func (r *Resolver) exists(path string) bool {
	if cached, ok := r.fileExists[path]; ok {
		return cached
	}

	_, err := os.Stat(path)
	exists := err == nil
	r.fileExists[path] = exists
	return exists
}

func (r *Resolver) isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// splitPackageSpecifier separates a bare specifier into package name and
// optional subpath. A scoped name (@scope/name) counts as one unit.
func splitPackageSpecifier(specifier string) (string, string) {
	if strings.HasPrefix(specifier, "@") {
		parts := strings.SplitN(specifier, "/", 3)
		if len(parts) >= 2 {
			name := parts[0] + "/" + parts[1]
			if len(parts) == 3 {
				return name, parts[2]
			}
			return name, ""
		}
		return specifier, ""
	}

	name, subpath, found := strings.Cut(specifier, "/")
	if found {
		return name, subpath
	}
	return specifier, ""
}
