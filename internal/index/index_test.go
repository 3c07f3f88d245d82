package index

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
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

func TestLookupParsesFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "a.ts", "class LoginError extends Error {}\n")

	ix := New(dir, 0)
	f, err := ix.Lookup("a.ts")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if f.Path != "a.ts" {
		t.Errorf("path = %q", f.Path)
	}
	if f.Lang == nil || f.Lang.Name != "typescript" {
		t.Errorf("lang = %+v, want typescript", f.Lang)
	}
	if f.Root() == nil {
		t.Error("nil root node")
	}
	if len(f.Digest) != 64 {
		t.Errorf("digest = %q, want 64 hex chars", f.Digest)
	}
}

func TestLookupCachesPerPath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "a.ts", "throw new Error('x');\n")

	ix := New(dir, 0)
	first, err := ix.Lookup("a.ts")
	if err != nil {
		t.Fatalf("first Lookup: %v", err)
	}

	// Mutate the file on disk; a cached index must not notice.
	writeFile(t, dir, "a.ts", "// changed\n")

	second, err := ix.Lookup("a.ts")
	if err != nil {
		t.Fatalf("second Lookup: %v", err)
	}
	if first != second {
		t.Error("repeated Lookup returned a different *File (re-parsed)")
	}
}

func TestLookupMissingFile(t *testing.T) {
	t.Parallel()
	ix := New(t.TempDir(), 0)

	_, err := ix.Lookup("nope.ts")
	var su *SourceUnavailable
	if !errors.As(err, &su) {
		t.Fatalf("err = %v, want *SourceUnavailable", err)
	}
	if su.Path != "nope.ts" {
		t.Errorf("path = %q", su.Path)
	}
}

func TestLookupUnsupportedExtension(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "a.rb", "puts 'hi'\n")

	ix := New(dir, 0)
	_, err := ix.Lookup("a.rb")
	var su *SourceUnavailable
	if !errors.As(err, &su) {
		t.Fatalf("err = %v, want *SourceUnavailable", err)
	}
}

func TestLookupSizeLimit(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "big.ts", strings.Repeat("// padding\n", 100))

	ix := New(dir, 16)
	_, err := ix.Lookup("big.ts")
	var su *SourceUnavailable
	if !errors.As(err, &su) {
		t.Fatalf("err = %v, want *SourceUnavailable", err)
	}
	if !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("err = %v, want size message", err)
	}
}
