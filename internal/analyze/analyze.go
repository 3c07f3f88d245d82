// Package analyze orchestrates the analysis pipeline: per-file
// classification and site collection fan out across a worker group, join,
// and assemble into one Analysis.
package analyze

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"errlens/internal/classify"
	"errlens/internal/collect"
	"errlens/internal/discover"
	"errlens/internal/index"
	"errlens/internal/model"
)

// Options configures a run.
type Options struct {
	// Jobs caps concurrent per-file workers; <= 0 means GOMAXPROCS.
	Jobs int
	// Matcher is the classification policy; zero value means the default set.
	Matcher classify.Matcher
}

// Run analyzes the discovered entries and returns the joined Analysis, with
// file reports in discovery order. Classification and collection are pure
// per-file functions, so files run concurrently; aggregation happens only
// after the join barrier, over immutable results.
//
// A file whose source is unavailable becomes a FileFailure and the run
// proceeds without it. Cancellation aborts the whole run with an error and
// no Analysis — partial results are never surfaced as complete.
func Run(ctx context.Context, idx *index.Index, entries []discover.FileEntry, opts Options) (*model.Analysis, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	matcher := opts.Matcher
	if len(matcher.Supertypes) == 0 {
		matcher = classify.DefaultMatcher()
	}

	reports := make([]*model.FileReport, len(entries))
	failures := make([]*model.FileFailure, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, e := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			f, err := idx.Lookup(e.Path)
			if err != nil {
				var su *index.SourceUnavailable
				if errors.As(err, &su) {
					failures[i] = &model.FileFailure{Path: e.Path, Err: err}
					return nil
				}
				return err
			}

			defined := classify.Classify(f, matcher)
			raised, intercepted := collect.Collect(f)
			reports[i] = &model.FileReport{
				Path:        e.Path,
				Language:    e.Language,
				Defined:     defined,
				Raised:      raised,
				Intercepted: intercepted,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	a := &model.Analysis{}
	for i := range entries {
		if reports[i] != nil {
			a.Files = append(a.Files, *reports[i])
		}
		if failures[i] != nil {
			a.Failures = append(a.Failures, *failures[i])
		}
	}
	return a, nil
}
