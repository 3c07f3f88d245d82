package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"errlens/internal/flow"
	"errlens/internal/gitlog"
	"errlens/internal/render"
)

var flowHistory bool

var flowCmd = &cobra.Command{
	Use:   "flow <error> [path]",
	Short: "Trace a single error type across the project",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFlow(cmd.Context(), args, os.Stdout, os.Stderr)
	},
}

func init() {
	flowCmd.Flags().BoolVar(&flowHistory, "history", false, "annotate unguarded files with recent git history")
}

func runFlow(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	target := args[0]
	env, err := setup(args[1:])
	if err != nil {
		return err
	}
	a, err := analyzeRoot(ctx, env)
	if err != nil {
		return err
	}

	fl, err := flow.Build(a, target)
	if err != nil {
		// UnknownTarget propagates: "no such error" is a failed lookup, not
		// an empty-but-valid flow.
		return err
	}

	var history map[string][]gitlog.Commit
	if flowHistory {
		history = make(map[string][]gitlog.Commit, len(fl.UnguardedIn))
		for _, file := range fl.UnguardedIn {
			history[file] = gitlog.Recent(ctx, env.root, file, 3)
		}
	}

	render.NewTerminal(stdout).Flow(fl, history)
	render.NewTerminal(stderr).Failures(a.Failures)
	return nil
}
