// Package narrate generates a natural-language summary of a coverage report
// through a text-generation provider.
package narrate

import (
	"context"

	"errlens/internal/gitlog"
	"errlens/internal/model"
	"errlens/internal/remote"
)

// Extras carries optional annotations woven into the summary prompt, keyed
// by file path (History) or error name (Mentions).
type Extras struct {
	History  map[string][]gitlog.Commit
	Mentions map[string][]remote.Item
}

// Summarizer turns an analysis result into prose.
type Summarizer interface {
	Summarize(ctx context.Context, report *model.CoverageReport, flows []model.ErrorFlow, extras Extras) (string, error)
}
