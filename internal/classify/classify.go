// Package classify scans a parsed file for error-like type declarations: top
// level class declarations whose extends clause names a recognized error
// supertype.
package classify

import (
	"strings"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"

	"errlens/internal/index"
	"errlens/internal/lang"
	"errlens/internal/model"
)

// Matcher is the classification policy. A declared supertype counts as
// error-like when it contains one of the recognized names as a case-sensitive
// substring. Substring rather than exact match keeps recall high: declared
// supertypes are frequently qualified or generic-parameterized
// (e.g. CustomError<T>), and a false positive only inflates the inventory.
type Matcher struct {
	Supertypes []string
}

// DefaultMatcher returns the fixed recognized supertype set.
func DefaultMatcher() Matcher {
	return Matcher{Supertypes: []string{
		"Error", "TypedError", "TypeError", "RangeError", "ReferenceError",
	}}
}

// Match reports whether a cleaned supertype name is error-like.
func (m Matcher) Match(supertype string) bool {
	for _, s := range m.Supertypes {
		if strings.Contains(supertype, s) {
			return true
		}
	}
	return false
}

// Classify returns an ErrorTypeInfo for every class declaration in the file
// whose supertype matches the policy. It never fails: a file without such
// declarations yields an empty sequence (parse failures are the source
// index's responsibility and cannot reach here).
func Classify(f *index.File, m Matcher) []model.ErrorTypeInfo {
	q, err := f.Lang.GetErrorQuery()
	if err != nil {
		return nil
	}

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, f.Root())

	var infos []model.ErrorTypeInfo
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, f.Source)

		var nameNode, heritageNode *sitter.Node
		for _, c := range match.Captures {
			switch q.CaptureNameForId(c.Index) {
			case "name":
				nameNode = c.Node
			case "heritage":
				heritageNode = c.Node
			}
		}
		if nameNode == nil || heritageNode == nil {
			continue
		}
		if !topLevel(nameNode.Parent()) {
			continue
		}

		supertype := SupertypeName(lang.NodeText(heritageNode, f.Source))
		if supertype == "" || !m.Match(supertype) {
			continue
		}

		infos = append(infos, model.ErrorTypeInfo{
			Name:          lang.NodeText(nameNode, f.Source),
			SupertypeName: supertype,
			Location: model.SourceLocation{
				File: f.Path,
				Line: lineOf(nameNode),
			},
		})
	}
	return infos
}

// SupertypeName extracts the extended type's name from a heritage clause:
// the extends keyword, any implements list, and any type arguments are
// stripped.
func SupertypeName(heritage string) string {
	s := lang.CollapseWhitespace(heritage)
	if i := strings.Index(s, "implements "); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimPrefix(s, "extends")
	if i := strings.Index(s, "<"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// topLevel reports whether a class declaration sits directly under the
// program node, looking through any export_statement wrapper. Classes
// declared inside a function or block are not part of the file's error
// inventory.
func topLevel(decl *sitter.Node) bool {
	p := decl.Parent()
	for p != nil && p.Type() == "export_statement" {
		p = p.Parent()
	}
	return p != nil && p.Type() == "program"
}

func lineOf(node *sitter.Node) int {
	return safecast.MustConvert[int](node.StartPoint().Row) + 1
}
