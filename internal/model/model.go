// Package model defines core data structures for errlens.
package model

// SourceLocation identifies a single syntactic occurrence in a source file.
type SourceLocation struct {
	File string `json:"file"`
	Line int    `json:"line"` // 1-based
}

// ErrorTypeInfo describes one declared error-like type.
type ErrorTypeInfo struct {
	Name          string         `json:"name"`
	SupertypeName string         `json:"supertype"`
	Location      SourceLocation `json:"location"`
}

// SiteKind classifies an error site.
type SiteKind string

const (
	// Raised marks a site that constructs and throws a fresh error value.
	Raised SiteKind = "raised"
	// ReRaised marks a throw of a bare identifier: an already-caught error
	// forwarded without naming its concrete type.
	ReRaised SiteKind = "re-raised"
	// Intercepted marks a catch clause (or an instanceof test inside one).
	Intercepted SiteKind = "intercepted"
)

// ErrorSite is a single raise or intercept occurrence. Name is the
// best-effort textual identifier of the error value: the constructor name for
// a fresh raise, the bound variable for a re-raise, or the type tested
// against for an intercept.
type ErrorSite struct {
	Name     string         `json:"name"`
	Kind     SiteKind       `json:"kind"`
	Location SourceLocation `json:"location"`
}

// FileReport is the per-file analysis output.
type FileReport struct {
	Path        string          `json:"path"`
	Language    string          `json:"language"`
	Defined     []ErrorTypeInfo `json:"defined,omitempty"`
	Raised      []ErrorSite     `json:"raised,omitempty"`
	Intercepted []ErrorSite     `json:"intercepted,omitempty"`
}

// FileFailure records a file that could not be analyzed. The run proceeds
// without it; renderers must surface the omission.
type FileFailure struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

// Analysis is the joined result of one full run over a file set.
// Files preserves discovery order.
type Analysis struct {
	Files    []FileReport  `json:"files"`
	Failures []FileFailure `json:"failures,omitempty"`
}

// ErrorFlow is the cross-file view of one error type: where it is defined,
// raised, intercepted, and raised without any interception. File sets are
// stored as sorted slices. UnguardedIn is always a subset of RaisedIn.
// DefinedIn is empty when no declaration was found (the type may come from an
// external library).
type ErrorFlow struct {
	ErrorName     string   `json:"errorName"`
	DefinedIn     string   `json:"definedIn,omitempty"`
	RaisedIn      []string `json:"raisedIn"`
	InterceptedIn []string `json:"interceptedIn"`
	UnguardedIn   []string `json:"unguardedIn"`
}

// ErrorCoverage is the per-error-type entry of a CoverageReport.
// CoverageRatio is a rounded percentage: intercepting files over raising
// files, 0 by convention when nothing raises the error.
type ErrorCoverage struct {
	ErrorName     string   `json:"errorName"`
	CoverageRatio int      `json:"coverageRatio"`
	RiskyFiles    []string `json:"riskyFiles"`
}

// CoverageReport is the project-wide coverage summary. PerError is ordered by
// declaration-discovery order so output is deterministic regardless of how
// the aggregation iterates internally.
type CoverageReport struct {
	TotalErrorTypes             int             `json:"totalErrorTypes"`
	InterceptedErrorTypeCount   int             `json:"interceptedErrorTypes"`
	UninterceptedErrorTypeCount int             `json:"uninterceptedErrorTypes"`
	OverallPercentage           int             `json:"overallPercentage"`
	PerError                    []ErrorCoverage `json:"perError"`
}
