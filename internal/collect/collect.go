// Package collect scans a parsed file for error sites: throw statements
// (raise sites) and catch clauses (intercept sites).
package collect

import (
	"strings"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"

	"errlens/internal/index"
	"errlens/internal/lang"
	"errlens/internal/model"
)

// Collect returns every raise site and intercept site in the file, in
// document order. It never fails; an empty file yields empty sequences.
//
// Raise sites: a thrown new-expression records the constructed type
// (kind raised); a thrown bare identifier records the identifier
// (kind re-raised), modeling a caught error forwarded without its concrete
// type; any other thrown expression records its collapsed source text
// (kind raised) so no throw is dropped.
//
// Intercept sites: each distinct T in an `x instanceof T` test anywhere in a
// catch clause emits one site. A clause with no instanceof test emits a
// single fallback site named after the parameter's declared type annotation,
// or the parameter identifier, or "unknown" for a parameterless catch — it
// records that some catch exists even when the code does not discriminate by
// type.
func Collect(f *index.File) (raised, intercepted []model.ErrorSite) {
	q, err := f.Lang.GetErrorQuery()
	if err != nil {
		return nil, nil
	}

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, f.Root())

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, f.Source)

		for _, c := range match.Captures {
			switch q.CaptureNameForId(c.Index) {
			case "raise":
				if site := raiseSite(c.Node, f); site != nil {
					raised = append(raised, *site)
				}
			case "intercept":
				intercepted = append(intercepted, interceptSites(c.Node, f)...)
			}
		}
	}
	return raised, intercepted
}

func raiseSite(throw *sitter.Node, f *index.File) *model.ErrorSite {
	expr := throw.NamedChild(0)
	if expr == nil {
		return nil
	}

	loc := model.SourceLocation{File: f.Path, Line: lineOf(throw)}

	switch expr.Type() {
	case "new_expression":
		name := ""
		if ctor := expr.ChildByFieldName("constructor"); ctor != nil {
			name = lang.NodeText(ctor, f.Source)
		}
		if name == "" {
			name = lang.CollapseWhitespace(lang.NodeText(expr, f.Source))
		}
		return &model.ErrorSite{Name: name, Kind: model.Raised, Location: loc}
	case "identifier":
		return &model.ErrorSite{
			Name:     lang.NodeText(expr, f.Source),
			Kind:     model.ReRaised,
			Location: loc,
		}
	default:
		return &model.ErrorSite{
			Name:     lang.CollapseWhitespace(lang.NodeText(expr, f.Source)),
			Kind:     model.Raised,
			Location: loc,
		}
	}
}

func interceptSites(clause *sitter.Node, f *index.File) []model.ErrorSite {
	var sites []model.ErrorSite
	seen := make(map[string]struct{})

	walk(clause, func(n *sitter.Node) {
		if n.Type() != "binary_expression" {
			return
		}
		op := n.ChildByFieldName("operator")
		if op == nil || op.Type() != "instanceof" {
			return
		}
		right := n.ChildByFieldName("right")
		if right == nil {
			return
		}
		name := lang.NodeText(right, f.Source)
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		sites = append(sites, model.ErrorSite{
			Name:     name,
			Kind:     model.Intercepted,
			Location: model.SourceLocation{File: f.Path, Line: lineOf(n)},
		})
	})

	if len(sites) > 0 {
		return sites
	}

	// No discriminating test anywhere in the clause body: one fallback site.
	return []model.ErrorSite{{
		Name:     fallbackName(clause, f),
		Kind:     model.Intercepted,
		Location: model.SourceLocation{File: f.Path, Line: lineOf(clause)},
	}}
}

// fallbackName resolves the name for a catch clause without instanceof
// tests: the parameter's declared type annotation when present, else the
// parameter identifier, else "unknown" for a bare catch {}.
func fallbackName(clause *sitter.Node, f *index.File) string {
	param := clause.ChildByFieldName("parameter")
	if param == nil {
		return "unknown"
	}

	// The annotation hangs off the clause or the parameter depending on the
	// grammar; look for it in either place.
	var annotation *sitter.Node
	if ta := clause.ChildByFieldName("type"); ta != nil && ta.Type() == "type_annotation" {
		annotation = ta
	} else {
		walk(param, func(n *sitter.Node) {
			if annotation == nil && n.Type() == "type_annotation" {
				annotation = n
			}
		})
	}
	if annotation != nil {
		text := strings.TrimSpace(strings.TrimPrefix(lang.NodeText(annotation, f.Source), ":"))
		if text != "" {
			return text
		}
	}
	return lang.CollapseWhitespace(lang.NodeText(param, f.Source))
}

func walk(n *sitter.Node, fn func(*sitter.Node)) {
	fn(n)
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), fn)
	}
}

func lineOf(node *sitter.Node) int {
	return safecast.MustConvert[int](node.StartPoint().Row) + 1
}
