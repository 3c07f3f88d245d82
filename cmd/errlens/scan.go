package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"errlens/internal/render"
)

var scanJSON bool

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Report declared, raised, and intercepted errors per file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd.Context(), args, os.Stdout, os.Stderr)
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "emit the raw per-file analysis as JSON")
}

func runScan(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	env, err := setup(args)
	if err != nil {
		return err
	}
	a, err := analyzeRoot(ctx, env)
	if err != nil {
		return err
	}

	if scanJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}

	render.NewTerminal(stdout).FileReports(a)
	render.NewTerminal(stderr).Failures(a.Failures)
	return nil
}
