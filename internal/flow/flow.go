// Package flow joins classifier and collector output across all files into a
// per-error-type view: where the error is defined, raised, intercepted, and
// raised without interception.
package flow

import (
	"fmt"
	"sort"
	"strings"

	"errlens/internal/model"
)

// UnknownTarget reports a requested error name with zero declarations and
// zero raise sites anywhere in the file set. It distinguishes "no such error
// exists" from "tracked, zero risk" (which is a normal, empty-set flow).
type UnknownTarget struct {
	Name string
}

func (e *UnknownTarget) Error() string {
	return fmt.Sprintf("unknown error type %q: no declaration and no raise site found", e.Name)
}

// Build derives the ErrorFlow for target from a completed analysis. It is
// pure: no I/O, same inputs always yield the same flow.
//
// DefinedIn is the file of the first declaration whose name equals target,
// in file-iteration order (analysis files are in sorted discovery order, so
// duplicate declarations resolve deterministically; an accepted ambiguity).
// RaisedIn collects files with a raise site whose name contains target;
// InterceptedIn collects files with an intercept site whose name equals
// target exactly. UnguardedIn = RaisedIn − InterceptedIn.
func Build(a *model.Analysis, target string) (*model.ErrorFlow, error) {
	definedIn := ""
	declared := false
	raisedSet := make(map[string]struct{})
	interceptedSet := make(map[string]struct{})

	for i := range a.Files {
		fr := &a.Files[i]

		for j := range fr.Defined {
			if fr.Defined[j].Name == target {
				if definedIn == "" {
					definedIn = fr.Path
				}
				declared = true
			}
		}

		for j := range fr.Raised {
			if strings.Contains(fr.Raised[j].Name, target) {
				raisedSet[fr.Path] = struct{}{}
			}
		}

		for j := range fr.Intercepted {
			if fr.Intercepted[j].Name == target {
				interceptedSet[fr.Path] = struct{}{}
			}
		}
	}

	if !declared && len(raisedSet) == 0 {
		return nil, &UnknownTarget{Name: target}
	}

	unguarded := make(map[string]struct{}, len(raisedSet))
	for path := range raisedSet {
		if _, ok := interceptedSet[path]; !ok {
			unguarded[path] = struct{}{}
		}
	}

	return &model.ErrorFlow{
		ErrorName:     target,
		DefinedIn:     definedIn,
		RaisedIn:      sortedKeys(raisedSet),
		InterceptedIn: sortedKeys(interceptedSet),
		UnguardedIn:   sortedKeys(unguarded),
	}, nil
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
