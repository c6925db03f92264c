package cli

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/depscope/depscope/builder"
)

// loadConfig layers the traversal configuration: built-in defaults,
// then .depscope.yaml from the analyzed package (when present), then
// DEPSCOPE_* environment variables, then explicit flags, which the
// caller applies on top of the returned value.
func loadConfig(packagePath string) (builder.Config, error) {
	config := builder.DefaultConfig()

	v := viper.New()
	v.SetConfigName(".depscope")
	v.SetConfigType("yaml")
	v.AddConfigPath(packagePath)
	v.AddConfigPath(".")

	v.SetDefault("follow_dynamic_imports", config.FollowDynamicImports)
	v.SetDefault("include_node_modules", config.IncludeNodeModules)
	v.SetDefault("max_depth", config.MaxDepth)
	v.SetDefault("ignore_patterns", config.IgnorePatterns)

	v.SetEnvPrefix("DEPSCOPE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return config, fmt.Errorf("reading .depscope.yaml: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("parsing configuration: %w", err)
	}

	return config, nil
}
