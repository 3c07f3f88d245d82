// Package cache memoizes generated summaries in a content-addressed file
// cache: the key is a digest of everything that influenced the summary, so a
// changed report or prompt naturally misses.
package cache

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/blake3"
)

// Increment when the payload format changes; older entries then read as
// misses instead of garbage.
const schemaVersion uint16 = 1

// payload is the on-disk entry format.
type payload struct {
	Schema    uint16
	CreatedAt time.Time
	Model     string
	Summary   string
}

// Cache is a digest-keyed summary store under the user cache directory.
type Cache struct {
	dir string
	log *slog.Logger
}

// Open initializes the cache at ${XDG_CACHE_HOME:-~/.cache}/<app>.
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{
		dir: dir,
		log: slog.Default().With("component", "cache"),
	}, nil
}

// OpenAt initializes the cache at an explicit directory (used by tests).
func OpenAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, log: slog.Default().With("component", "cache")}, nil
}

// Key derives the content address for a summary from every input that
// shaped it.
func Key(parts ...[]byte) string {
	h := blake3.New()
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) pathFor(key string) string {
	return filepath.Join(c.dir, "summaries", key+".mp")
}

// Get returns the cached summary for key. Absent keys and schema mismatches
// are misses, not errors.
func (c *Cache) Get(key string) (string, bool, error) {
	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	defer f.Close()

	var p payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return "", false, fmt.Errorf("decoding cache entry: %w", err)
	}
	if p.Schema != schemaVersion {
		c.log.Debug("schema mismatch, treating as miss", "key", key, "schema", p.Schema)
		return "", false, nil
	}
	return p.Summary, true, nil
}

// Put stores a summary under key via temp file and atomic rename.
func (c *Cache) Put(key, model, summary string) error {
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	entry := payload{
		Schema:    schemaVersion,
		CreatedAt: time.Now().UTC(),
		Model:     model,
		Summary:   summary,
	}
	if err := msgpack.NewEncoder(f).Encode(&entry); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}
