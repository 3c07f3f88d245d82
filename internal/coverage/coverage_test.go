package coverage

import (
	"reflect"
	"testing"

	"errlens/internal/model"
)

func loc(file string, line int) model.SourceLocation {
	return model.SourceLocation{File: file, Line: line}
}

func TestComputeEmptyAnalysis(t *testing.T) {
	t.Parallel()

	r := Compute(&model.Analysis{})
	if r.TotalErrorTypes != 0 {
		t.Errorf("total = %d", r.TotalErrorTypes)
	}
	// Zero declared types is the documented zero case, not a division fault.
	if r.OverallPercentage != 0 {
		t.Errorf("overall = %d", r.OverallPercentage)
	}
	if len(r.PerError) != 0 {
		t.Errorf("perError = %+v", r.PerError)
	}
}

func TestComputeUnguardedScenario(t *testing.T) {
	t.Parallel()

	a := &model.Analysis{Files: []model.FileReport{
		{Path: "a.ts", Defined: []model.ErrorTypeInfo{{Name: "LoginError", SupertypeName: "Error", Location: loc("a.ts", 1)}}},
		{Path: "b.ts", Raised: []model.ErrorSite{{Name: "LoginError", Kind: model.Raised, Location: loc("b.ts", 3)}}},
	}}

	r := Compute(a)
	if r.TotalErrorTypes != 1 || r.InterceptedErrorTypeCount != 0 || r.UninterceptedErrorTypeCount != 1 {
		t.Errorf("counts = %d/%d/%d", r.TotalErrorTypes, r.InterceptedErrorTypeCount, r.UninterceptedErrorTypeCount)
	}
	if r.OverallPercentage != 0 {
		t.Errorf("overall = %d", r.OverallPercentage)
	}
	if len(r.PerError) != 1 {
		t.Fatalf("perError = %+v", r.PerError)
	}
	pe := r.PerError[0]
	if pe.ErrorName != "LoginError" || pe.CoverageRatio != 0 {
		t.Errorf("perError[0] = %+v", pe)
	}
	if !reflect.DeepEqual(pe.RiskyFiles, []string{"b.ts"}) {
		t.Errorf("riskyFiles = %v", pe.RiskyFiles)
	}
}

func TestComputeInterceptedScenario(t *testing.T) {
	t.Parallel()

	a := &model.Analysis{Files: []model.FileReport{
		{Path: "a.ts", Defined: []model.ErrorTypeInfo{{Name: "LoginError", SupertypeName: "Error", Location: loc("a.ts", 1)}}},
		{Path: "b.ts", Raised: []model.ErrorSite{{Name: "LoginError", Kind: model.Raised, Location: loc("b.ts", 3)}}},
		{Path: "c.ts", Intercepted: []model.ErrorSite{{Name: "LoginError", Kind: model.Intercepted, Location: loc("c.ts", 5)}}},
	}}

	r := Compute(a)
	if r.OverallPercentage != 100 {
		t.Errorf("overall = %d", r.OverallPercentage)
	}
	pe := r.PerError[0]
	// One intercepting file over one raising file.
	if pe.CoverageRatio != 100 {
		t.Errorf("ratio = %d", pe.CoverageRatio)
	}
	// Risk at the raise site is not cleared by interception elsewhere.
	if !reflect.DeepEqual(pe.RiskyFiles, []string{"b.ts"}) {
		t.Errorf("riskyFiles = %v", pe.RiskyFiles)
	}
}

func TestComputeRounding(t *testing.T) {
	t.Parallel()

	// 1 of 3 declared types intercepted: round(33.33) = 33.
	a := &model.Analysis{Files: []model.FileReport{
		{Path: "types.ts", Defined: []model.ErrorTypeInfo{
			{Name: "AError", SupertypeName: "Error", Location: loc("types.ts", 1)},
			{Name: "BError", SupertypeName: "Error", Location: loc("types.ts", 2)},
			{Name: "CError", SupertypeName: "Error", Location: loc("types.ts", 3)},
		}},
		{Path: "h.ts", Intercepted: []model.ErrorSite{{Name: "AError", Kind: model.Intercepted, Location: loc("h.ts", 1)}}},
	}}
	r := Compute(a)
	if r.OverallPercentage != 33 {
		t.Errorf("overall = %d, want 33", r.OverallPercentage)
	}

	// 2 of 3: round(66.67) = 67.
	a.Files[1].Intercepted = append(a.Files[1].Intercepted,
		model.ErrorSite{Name: "BError", Kind: model.Intercepted, Location: loc("h.ts", 2)})
	r = Compute(a)
	if r.OverallPercentage != 67 {
		t.Errorf("overall = %d, want 67", r.OverallPercentage)
	}
}

func TestComputeDiscoveryOrder(t *testing.T) {
	t.Parallel()

	// PerError follows declaration discovery order, not coverage value.
	a := &model.Analysis{Files: []model.FileReport{
		{Path: "a.ts", Defined: []model.ErrorTypeInfo{
			{Name: "ZetaError", SupertypeName: "Error", Location: loc("a.ts", 1)},
		}},
		{Path: "b.ts", Defined: []model.ErrorTypeInfo{
			{Name: "AlphaError", SupertypeName: "Error", Location: loc("b.ts", 1)},
			{Name: "ZetaError", SupertypeName: "Error", Location: loc("b.ts", 2)}, // duplicate, counted once
		}},
		{Path: "h.ts", Intercepted: []model.ErrorSite{{Name: "AlphaError", Kind: model.Intercepted, Location: loc("h.ts", 1)}}},
	}}

	r := Compute(a)
	if r.TotalErrorTypes != 2 {
		t.Fatalf("total = %d", r.TotalErrorTypes)
	}
	if r.PerError[0].ErrorName != "ZetaError" || r.PerError[1].ErrorName != "AlphaError" {
		t.Errorf("order = %q, %q", r.PerError[0].ErrorName, r.PerError[1].ErrorName)
	}
}

func TestComputeMonotonicity(t *testing.T) {
	t.Parallel()

	a := &model.Analysis{Files: []model.FileReport{
		{Path: "a.ts", Defined: []model.ErrorTypeInfo{{Name: "LoginError", SupertypeName: "Error", Location: loc("a.ts", 1)}}},
		{Path: "b.ts", Raised: []model.ErrorSite{{Name: "LoginError", Kind: model.Raised, Location: loc("b.ts", 3)}}},
		{Path: "c.ts", Intercepted: []model.ErrorSite{{Name: "LoginError", Kind: model.Intercepted, Location: loc("c.ts", 5)}}},
	}}
	before := Compute(a).PerError[0]

	// Adding a raise site in a new file can only grow the risky set and
	// lower (or hold) the ratio.
	a.Files = append(a.Files, model.FileReport{
		Path:   "d.ts",
		Raised: []model.ErrorSite{{Name: "LoginError", Kind: model.Raised, Location: loc("d.ts", 9)}},
	})
	after := Compute(a).PerError[0]

	if after.CoverageRatio > before.CoverageRatio {
		t.Errorf("ratio rose from %d to %d after adding a raise", before.CoverageRatio, after.CoverageRatio)
	}
	if after.CoverageRatio != 50 {
		t.Errorf("ratio = %d, want 50", after.CoverageRatio)
	}
	for _, f := range before.RiskyFiles {
		found := false
		for _, g := range after.RiskyFiles {
			if f == g {
				found = true
			}
		}
		if !found {
			t.Errorf("risky file %q disappeared", f)
		}
	}
}

func TestComputeIdempotent(t *testing.T) {
	t.Parallel()

	a := &model.Analysis{Files: []model.FileReport{
		{Path: "a.ts", Defined: []model.ErrorTypeInfo{{Name: "LoginError", SupertypeName: "Error", Location: loc("a.ts", 1)}}},
		{Path: "b.ts", Raised: []model.ErrorSite{{Name: "LoginError", Kind: model.Raised, Location: loc("b.ts", 3)}}},
	}}
	if !reflect.DeepEqual(Compute(a), Compute(a)) {
		t.Error("reports differ across identical runs")
	}
}
