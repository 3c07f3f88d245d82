// errlens analyzes error flow and coverage in TypeScript/JavaScript
// repositories.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"errlens/internal/analyze"
	"errlens/internal/classify"
	"errlens/internal/config"
	"errlens/internal/discover"
	"errlens/internal/index"
	"errlens/internal/lang"
	"errlens/internal/model"
)

var version = "dev"

var (
	flagConfig      string
	flagLangs       []string
	flagExclude     []string
	flagJobs        int
	flagMaxFileSize int
	flagNoColor     bool
)

var rootCmd = &cobra.Command{
	Use:           "errlens",
	Short:         "Error-flow coverage analyzer for TypeScript and JavaScript",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagNoColor {
			color.NoColor = true
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the errlens version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "errlens %s\n", version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "errlens.yaml", "path to the configuration file")
	pf.StringSliceVar(&flagLangs, "langs", nil, "comma-separated languages to include (typescript, tsx, javascript)")
	pf.StringSliceVar(&flagExclude, "exclude", nil, "path globs to exclude (in addition to the config)")
	pf.IntVar(&flagJobs, "jobs", 0, "maximum concurrent file workers (0 = number of CPUs)")
	pf.IntVar(&flagMaxFileSize, "max-file-size", 0, "skip files larger than this many bytes (0 = config default)")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable colorized output")

	rootCmd.AddCommand(scanCmd, flowCmd, reportCmd, summarizeCmd, versionCmd)
}

// runEnv is the resolved per-invocation environment shared by all commands.
type runEnv struct {
	cfg  *config.Config
	root string
}

// setup loads configuration and resolves the positional root argument.
func setup(args []string) (*runEnv, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", root)
	}

	for _, name := range flagLangs {
		if _, ok := lang.Languages[name]; !ok {
			return nil, fmt.Errorf("unsupported language %q", name)
		}
	}

	return &runEnv{cfg: cfg, root: root}, nil
}

// analyzeRoot runs discovery and the full analysis pipeline for env.
func analyzeRoot(ctx context.Context, env *runEnv) (*model.Analysis, error) {
	excludes := append(append([]string{}, env.cfg.Analyze.Exclude...), flagExclude...)
	entries, err := discover.Files(env.root, flagLangs, excludes)
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no analyzable files found")
	}

	maxSize := env.cfg.Analyze.MaxFileSize
	if flagMaxFileSize > 0 {
		maxSize = flagMaxFileSize
	}
	jobs := env.cfg.Analyze.Jobs
	if flagJobs > 0 {
		jobs = flagJobs
	}
	matcher := classify.DefaultMatcher()
	if len(env.cfg.Analyze.Supertypes) > 0 {
		matcher = classify.Matcher{Supertypes: env.cfg.Analyze.Supertypes}
	}

	idx := index.New(env.root, int64(maxSize))
	return analyze.Run(ctx, idx, entries, analyze.Options{Jobs: jobs, Matcher: matcher})
}
