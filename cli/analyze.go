package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/depscope/depscope/analyzer"
)

var analyzeFlags struct {
	followDynamic      bool
	includeNodeModules bool
	maxDepth           int
	ignore             []string
	format             string
	output             string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [package-path]",
	Short: "Analyze the dependency graph of an npm package",
	Long: `Analyze discovers the package's entry points from package.json,
walks every static import, and reports the resulting graph. The
package path defaults to the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeFlags.followDynamic, "follow-dynamic", false, "Follow dynamic import() targets")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.includeNodeModules, "include-node-modules", false, "Traverse into resolved dependency packages")
	analyzeCmd.Flags().IntVar(&analyzeFlags.maxDepth, "max-depth", 0, "Maximum import chain depth (0 = configured default)")
	analyzeCmd.Flags().StringSliceVar(&analyzeFlags.ignore, "ignore", nil, "Additional ignore glob patterns")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.format, "format", "f", "text", "Output format: text, json, or dot")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.output, "output", "o", "", "Write output to file instead of stdout")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	packagePath := "."
	if len(args) == 1 {
		packagePath = args[0]
	}

	config, err := loadConfig(packagePath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("follow-dynamic") {
		config.FollowDynamicImports = analyzeFlags.followDynamic
	}
	if cmd.Flags().Changed("include-node-modules") {
		config.IncludeNodeModules = analyzeFlags.includeNodeModules
	}
	if cmd.Flags().Changed("max-depth") {
		config.MaxDepth = analyzeFlags.maxDepth
	}
	config.IgnorePatterns = append(config.IgnorePatterns, analyzeFlags.ignore...)

	results, err := analyzer.New(config).AnalyzePackage(packagePath)
	if err != nil {
		return err
	}

	rendered, err := renderResults(results, analyzeFlags.format)
	if err != nil {
		return err
	}

	if analyzeFlags.output != "" {
		if err := os.WriteFile(analyzeFlags.output, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", analyzeFlags.output, err)
		}
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

func renderResults(results *analyzer.Results, format string) (string, error) {
	switch format {
	case "text":
		return results.Summary(), nil
	case "json":
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding results: %w", err)
		}
		return string(data) + "\n", nil
	case "dot":
		return results.Graph.ToDOT(), nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json, or dot)", format)
	}
}
