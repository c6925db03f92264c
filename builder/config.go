package builder

// Config controls traversal policy. Depth limits and ignore patterns are
// configuration, not algorithm: callers adjust them per run.
type Config struct {
	// FollowDynamicImports descends into import() targets when set.
	FollowDynamicImports bool `json:"follow_dynamic_imports" mapstructure:"follow_dynamic_imports"`

	// IncludeNodeModules descends into resolved dependency-package files.
	IncludeNodeModules bool `json:"include_node_modules" mapstructure:"include_node_modules"`

	// MaxDepth caps the import-chain length from any entry point.
	MaxDepth int `json:"max_depth" mapstructure:"max_depth"`

	// IgnorePatterns are doublestar globs; matching files contribute
	// nothing to the graph.
	IgnorePatterns []string `json:"ignore_patterns" mapstructure:"ignore_patterns"`
}

// DefaultConfig mirrors the usual bundler expectations: skip tests and
// build output, stay out of node_modules, generous depth ceiling.
func DefaultConfig() Config {
	return Config{
		FollowDynamicImports: false,
		IncludeNodeModules:   false,
		MaxDepth:             100,
		IgnorePatterns: []string{
			"**/*.test.js",
			"**/*.spec.ts",
			"**/test/**",
			"**/__tests__/**",
			"**/dist/**",
			"**/build/**",
			"**/coverage/**",
		},
	}
}
