package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"errlens/internal/coverage"
	"errlens/internal/render"
)

var (
	reportMarkdown string
	reportJSONPath string
)

var reportCmd = &cobra.Command{
	Use:   "report [path]",
	Short: "Compute project-wide error coverage",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd.Context(), args, os.Stdout, os.Stderr)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportMarkdown, "markdown", "", "write (or update in place) a Markdown report at this path")
	reportCmd.Flags().StringVar(&reportJSONPath, "json", "", "archive the report as JSON at this path")
}

func runReport(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	env, err := setup(args)
	if err != nil {
		return err
	}
	a, err := analyzeRoot(ctx, env)
	if err != nil {
		return err
	}

	r := coverage.Compute(a)
	render.NewTerminal(stdout).Coverage(r)
	render.NewTerminal(stderr).Failures(a.Failures)

	if reportMarkdown != "" {
		if err := render.WriteMarkdown(reportMarkdown, r, a.Failures); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "wrote coverage section to %s\n", reportMarkdown)
	}
	if reportJSONPath != "" {
		if err := render.WriteJSON(reportJSONPath, r); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "archived report to %s\n", reportJSONPath)
	}
	return nil
}
