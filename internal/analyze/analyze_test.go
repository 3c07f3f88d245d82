package analyze

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"errlens/internal/coverage"
	"errlens/internal/discover"
	"errlens/internal/flow"
	"errlens/internal/index"
	"errlens/internal/model"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func sampleRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "a.ts", "export class LoginError extends Error {}\n")
	writeFile(t, dir, "b.ts", `import { LoginError } from "./a";
export function login() {
  throw new LoginError();
}
`)
	writeFile(t, dir, "c.ts", `try {
  login();
} catch (e) {
  if (e instanceof LoginError) { retry(); }
}
`)
	return dir
}

func analyzeRepo(t *testing.T, dir string) *model.Analysis {
	t.Helper()
	entries, err := discover.Files(dir, nil, nil)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	a, err := Run(context.Background(), index.New(dir, 0), entries, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return a
}

func TestRunFullPipeline(t *testing.T) {
	t.Parallel()

	a := analyzeRepo(t, sampleRepo(t))
	if len(a.Files) != 3 {
		t.Fatalf("files = %d", len(a.Files))
	}
	if len(a.Failures) != 0 {
		t.Fatalf("failures = %+v", a.Failures)
	}

	// Reports come back in discovery (sorted) order.
	for i, want := range []string{"a.ts", "b.ts", "c.ts"} {
		if a.Files[i].Path != want {
			t.Errorf("file %d = %q, want %q", i, a.Files[i].Path, want)
		}
	}

	if len(a.Files[0].Defined) != 1 || a.Files[0].Defined[0].Name != "LoginError" {
		t.Errorf("a.ts defined = %+v", a.Files[0].Defined)
	}
	if len(a.Files[1].Raised) != 1 || a.Files[1].Raised[0].Kind != model.Raised {
		t.Errorf("b.ts raised = %+v", a.Files[1].Raised)
	}
	if len(a.Files[2].Intercepted) != 1 || a.Files[2].Intercepted[0].Name != "LoginError" {
		t.Errorf("c.ts intercepted = %+v", a.Files[2].Intercepted)
	}

	fl, err := flow.Build(a, "LoginError")
	if err != nil {
		t.Fatalf("flow: %v", err)
	}
	if fl.DefinedIn != "a.ts" {
		t.Errorf("definedIn = %q", fl.DefinedIn)
	}
	if !reflect.DeepEqual(fl.RaisedIn, []string{"b.ts"}) {
		t.Errorf("raisedIn = %v", fl.RaisedIn)
	}
	if !reflect.DeepEqual(fl.InterceptedIn, []string{"c.ts"}) {
		t.Errorf("interceptedIn = %v", fl.InterceptedIn)
	}
	if !reflect.DeepEqual(fl.UnguardedIn, []string{"b.ts"}) {
		t.Errorf("unguardedIn = %v", fl.UnguardedIn)
	}

	r := coverage.Compute(a)
	if r.OverallPercentage != 100 {
		t.Errorf("overall = %d", r.OverallPercentage)
	}
}

func TestRunEmptyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "blank.ts", "const x = 1;\n")
	a := analyzeRepo(t, dir)

	if len(a.Files) != 1 {
		t.Fatalf("files = %d", len(a.Files))
	}
	fr := a.Files[0]
	if len(fr.Defined) != 0 || len(fr.Raised) != 0 || len(fr.Intercepted) != 0 {
		t.Errorf("expected empty report, got %+v", fr)
	}
}

func TestRunCollectsFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "good.ts", "throw new Error('x');\n")
	entries := []discover.FileEntry{
		{Path: "good.ts", Language: "typescript"},
		{Path: "missing.ts", Language: "typescript"},
	}

	a, err := Run(context.Background(), index.New(dir, 0), entries, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(a.Files) != 1 || a.Files[0].Path != "good.ts" {
		t.Errorf("files = %+v", a.Files)
	}
	// The unreadable file is isolated as data, not an aborted run.
	if len(a.Failures) != 1 || a.Failures[0].Path != "missing.ts" {
		t.Fatalf("failures = %+v", a.Failures)
	}
	if a.Failures[0].Err == nil {
		t.Error("failure without cause")
	}
}

func TestRunCanceledContext(t *testing.T) {
	t.Parallel()

	dir := sampleRepo(t)
	entries, err := discover.Files(dir, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a, err := Run(ctx, index.New(dir, 0), entries, Options{})
	if err == nil {
		t.Fatal("expected error from canceled run")
	}
	// A canceled run must never surface partial results.
	if a != nil {
		t.Errorf("analysis = %+v, want nil", a)
	}
}

func TestRunIdempotent(t *testing.T) {
	t.Parallel()

	dir := sampleRepo(t)
	first := analyzeRepo(t, dir)
	second := analyzeRepo(t, dir)
	if !reflect.DeepEqual(first, second) {
		t.Error("analyses differ across identical runs")
	}

	r1 := coverage.Compute(first)
	r2 := coverage.Compute(second)
	if !reflect.DeepEqual(r1, r2) {
		t.Error("coverage reports differ across identical runs")
	}
}

func TestRunSingleJob(t *testing.T) {
	t.Parallel()

	dir := sampleRepo(t)
	entries, err := discover.Files(dir, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	a, err := Run(context.Background(), index.New(dir, 0), entries, Options{Jobs: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(a.Files) != 3 {
		t.Errorf("files = %d", len(a.Files))
	}
}
