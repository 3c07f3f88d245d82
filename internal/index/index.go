// Package index implements the source index: it resolves a repository path
// to a parsed, queryable syntax tree. Parsed trees are cached per path for
// the lifetime of one Index, so repeated lookups never re-parse.
package index

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"errlens/internal/lang"
)

// SourceUnavailable reports a file that could not be read or parsed. It is
// fatal for that one file only; callers skip the file and record the
// omission rather than aborting the run.
type SourceUnavailable struct {
	Path string
	Err  error
}

func (e *SourceUnavailable) Error() string {
	return fmt.Sprintf("source unavailable: %s: %v", e.Path, e.Err)
}

func (e *SourceUnavailable) Unwrap() error { return e.Err }

// File is one parsed source file. Tree stays alive as long as the Index does;
// it is never closed mid-run because cached lookups hand out the same tree.
type File struct {
	Path   string // repo-relative
	Lang   *lang.Language
	Source []byte
	Tree   *sitter.Tree
	Digest string // hex sha256 of Source
}

// Root returns the tree's root node.
func (f *File) Root() *sitter.Node {
	return f.Tree.RootNode()
}

// Index caches parsed files per repo-relative path. Safe for concurrent use:
// each path's entry is populated through a sync.Once, so a path parses at
// most once even under concurrent lookups.
type Index struct {
	root        string
	maxFileSize int64

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	once sync.Once
	file *File
	err  error
}

// New creates an Index rooted at the given directory. Files larger than
// maxFileSize bytes are refused; maxFileSize <= 0 disables the limit.
func New(root string, maxFileSize int64) *Index {
	return &Index{
		root:        root,
		maxFileSize: maxFileSize,
		entries:     make(map[string]*entry),
	}
}

// Lookup returns the parsed file for a repo-relative path, parsing it on
// first use. Failures are cached too: a file that could not be read once is
// not retried within the same run.
func (ix *Index) Lookup(path string) (*File, error) {
	ix.mu.Lock()
	e := ix.entries[path]
	if e == nil {
		e = &entry{}
		ix.entries[path] = e
	}
	ix.mu.Unlock()

	e.once.Do(func() {
		e.file, e.err = ix.load(path)
	})
	return e.file, e.err
}

func (ix *Index) load(path string) (*File, error) {
	langName := lang.ForExtension(filepath.Ext(path))
	if langName == "" {
		return nil, &SourceUnavailable{Path: path, Err: fmt.Errorf("unsupported extension %q", filepath.Ext(path))}
	}
	l := lang.Languages[langName]

	abs := filepath.Join(ix.root, path)
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &SourceUnavailable{Path: path, Err: err}
	}
	if ix.maxFileSize > 0 && info.Size() > ix.maxFileSize {
		return nil, &SourceUnavailable{Path: path, Err: fmt.Errorf("file exceeds %d bytes", ix.maxFileSize)}
	}

	source, err := os.ReadFile(abs)
	if err != nil {
		return nil, &SourceUnavailable{Path: path, Err: err}
	}

	// Each load gets its own parser: tree-sitter parsers are not
	// goroutine-safe, and loads for distinct paths may run concurrently.
	parser := l.NewParser()
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		if err == nil {
			err = fmt.Errorf("parser produced no tree")
		}
		return nil, &SourceUnavailable{Path: path, Err: err}
	}

	sum := sha256.Sum256(source)
	return &File{
		Path:   path,
		Lang:   l,
		Source: source,
		Tree:   tree,
		Digest: hex.EncodeToString(sum[:]),
	}, nil
}
