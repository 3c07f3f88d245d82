// Package gitlog reads recent commit history for individual files by
// shelling out to git. Outside a git repository it degrades to empty
// results; history is an annotation, never a precondition.
package gitlog

import (
	"context"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Commit is one history entry for a file.
type Commit struct {
	Hash    string `json:"hash"`
	Author  string `json:"author"`
	Date    string `json:"date"` // YYYY-MM-DD
	Subject string `json:"subject"`
}

const logTimeout = 10 * time.Second

var logger = slog.Default().With("component", "gitlog")

// Recent returns up to n commits touching path, newest first. dir is the
// repository root; path is repo-relative. Any git failure yields nil.
func Recent(ctx context.Context, dir, path string, n int) []Commit {
	if n <= 0 {
		n = 3
	}

	ctx, cancel := context.WithTimeout(ctx, logTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "log",
		"--max-count", strconv.Itoa(n),
		"--format=%H%x09%an%x09%as%x09%s",
		"--", path)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		logger.Debug("git log failed", "path", path, "err", err)
		return nil
	}
	return parseLog(string(out))
}

// parseLog parses tab-separated `%H %an %as %s` lines.
func parseLog(out string) []Commit {
	var commits []Commit
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 4)
		if len(parts) != 4 {
			continue
		}
		commits = append(commits, Commit{
			Hash:    parts[0],
			Author:  parts[1],
			Date:    parts[2],
			Subject: parts[3],
		})
	}
	return commits
}
