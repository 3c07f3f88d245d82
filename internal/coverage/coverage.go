// Package coverage reduces aggregated error flows into a project-wide
// coverage report.
package coverage

import (
	"math"

	"errlens/internal/flow"
	"errlens/internal/model"
)

// Compute derives the CoverageReport for a completed analysis. Error types
// are taken from declarations across all files in declaration-discovery
// order (file order, then declaration order within a file); a name is
// counted once at first discovery. An error type counts as intercepted when
// its flow's InterceptedIn is non-empty.
//
// OverallPercentage is round(100 * intercepted / total); zero declared types
// yields 0 by convention, not a division fault. Per-error CoverageRatio is
// round(100 * |InterceptedIn| / |RaisedIn|), 0 when nothing raises the
// error.
func Compute(a *model.Analysis) *model.CoverageReport {
	var names []string
	seen := make(map[string]struct{})
	for i := range a.Files {
		for j := range a.Files[i].Defined {
			name := a.Files[i].Defined[j].Name
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	report := &model.CoverageReport{TotalErrorTypes: len(names)}

	for _, name := range names {
		fl, err := flow.Build(a, name)
		if err != nil {
			// Declared names always have a flow; nothing to skip in practice.
			continue
		}
		if len(fl.InterceptedIn) > 0 {
			report.InterceptedErrorTypeCount++
		} else {
			report.UninterceptedErrorTypeCount++
		}
		report.PerError = append(report.PerError, model.ErrorCoverage{
			ErrorName:     name,
			CoverageRatio: ratio(len(fl.InterceptedIn), len(fl.RaisedIn)),
			RiskyFiles:    fl.UnguardedIn,
		})
	}

	report.OverallPercentage = ratio(report.InterceptedErrorTypeCount, report.TotalErrorTypes)
	return report
}

// ratio returns round(100 * part / whole), or 0 when whole is zero.
func ratio(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}
