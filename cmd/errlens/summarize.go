package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"errlens/internal/cache"
	"errlens/internal/coverage"
	"errlens/internal/flow"
	"errlens/internal/gitlog"
	"errlens/internal/model"
	"errlens/internal/narrate"
	"errlens/internal/remote"
)

var summarizeNoCache bool

var summarizeCmd = &cobra.Command{
	Use:   "summarize [path]",
	Short: "Generate a narrative summary of the coverage report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSummarize(cmd.Context(), args, os.Stdout, os.Stderr)
	},
}

func init() {
	summarizeCmd.Flags().BoolVar(&summarizeNoCache, "no-cache", false, "bypass the summary cache")
}

func runSummarize(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	env, err := setup(args)
	if err != nil {
		return err
	}
	a, err := analyzeRoot(ctx, env)
	if err != nil {
		return err
	}

	r := coverage.Compute(a)
	flows := make([]model.ErrorFlow, 0, len(r.PerError))
	for _, pe := range r.PerError {
		fl, err := flow.Build(a, pe.ErrorName)
		if err != nil {
			continue
		}
		flows = append(flows, *fl)
	}

	extras := gatherExtras(ctx, env, r, stderr)

	reportJSON, err := json.Marshal(r)
	if err != nil {
		return err
	}
	extrasJSON, err := json.Marshal(extras)
	if err != nil {
		return err
	}

	c, err := cache.Open("errlens")
	if err != nil {
		return fmt.Errorf("opening summary cache: %w", err)
	}
	key := cache.Key(reportJSON, extrasJSON, []byte(env.cfg.AI.Model))

	if !summarizeNoCache {
		if summary, hit := cachedSummary(c, key, stderr); hit {
			fmt.Fprintln(stdout, summary)
			return nil
		}
	}

	s, err := narrate.NewSummarizer(ctx, narrate.Options{
		Provider: env.cfg.AI.Provider,
		APIKey:   env.cfg.AI.APIKey,
		Model:    env.cfg.AI.Model,
	})
	if err != nil {
		return err
	}
	summary, err := s.Summarize(ctx, r, flows, extras)
	if err != nil {
		return fmt.Errorf("generating summary: %w", err)
	}

	if err := c.Put(key, env.cfg.AI.Model, summary); err != nil {
		fmt.Fprintf(stderr, "warning: caching summary: %v\n", err)
	}
	fmt.Fprintln(stdout, summary)
	return nil
}

// cachedSummary looks up key, reporting read errors as warnings. A damaged
// entry degrades to a miss and the summary is regenerated.
func cachedSummary(c *cache.Cache, key string, stderr io.Writer) (string, bool) {
	summary, hit, err := c.Get(key)
	if err != nil {
		fmt.Fprintf(stderr, "warning: reading summary cache: %v\n", err)
	}
	return summary, hit
}

// gatherExtras collects the optional git and GitHub annotations. Both
// sources degrade to empty: the summary proceeds without them.
func gatherExtras(ctx context.Context, env *runEnv, r *model.CoverageReport, stderr io.Writer) narrate.Extras {
	extras := narrate.Extras{
		History:  make(map[string][]gitlog.Commit),
		Mentions: make(map[string][]remote.Item),
	}

	for _, pe := range r.PerError {
		for _, file := range pe.RiskyFiles {
			if _, done := extras.History[file]; done {
				continue
			}
			if commits := gitlog.Recent(ctx, env.root, file, 3); len(commits) > 0 {
				extras.History[file] = commits
			}
		}
	}

	if env.cfg.GitHub.Repo != "" {
		client := remote.NewClient(env.cfg.GitHub.Repo, env.cfg.GitHub.Token, env.cfg.GitHub.APIBase)
		for _, pe := range r.PerError {
			items, err := client.SearchMentions(ctx, pe.ErrorName)
			if err != nil {
				fmt.Fprintf(stderr, "warning: github lookup for %s: %v\n", pe.ErrorName, err)
				continue
			}
			if len(items) > 0 {
				extras.Mentions[pe.ErrorName] = items
			}
		}
	}

	return extras
}
