// Package gitlog parses `git log --numstat` output into commit records.
//
// The expected input is one tab-delimited header line per commit
// (hash, author name, author email, ISO-8601 date, subject) followed by
// zero or more numstat lines (`<additions>\t<deletions>\t<path>`), as
// produced by contract.LogArgs. The header shape here and the pretty
// format there are a single contract; change both or neither.
package gitlog

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/devlog/schema"
)

const (
	headerFieldCount = 5
	hashLength       = 40

	// maxLineBytes bounds a single log line; subjects and paths are far
	// shorter in practice but scanner defaults are too small for pathological
	// histories.
	maxLineBytes = 1 << 20
)

// Stats summarizes one parsing pass.
type Stats struct {
	Parsed  int // Commits emitted
	Skipped int // Commits dropped due to a malformed header
}

// EmitFunc receives each fully-parsed commit. Returning an error aborts the
// parse; per-commit recoverable failures should be handled inside the
// callback and reported as nil.
type EmitFunc func(*schema.Commit) error

// Parse consumes the log stream front to back exactly once, emitting one
// commit record per well-formed header block. Parsing is fault-tolerant per
// commit: a malformed header increments Stats.Skipped, drops any numstat
// lines up to the next header, and never fails the whole pass. Empty input
// yields zero emissions and no error.
func Parse(r io.Reader, emit EmitFunc) (Stats, error) {
	var stats Stats
	var current *schema.Commit

	flush := func() error {
		if current == nil {
			return nil
		}
		c := current
		current = nil
		for _, f := range c.Files {
			c.Additions += f.Additions
			c.Deletions += f.Deletions
		}
		c.FilesChanged = len(c.Files)
		stats.Parsed++
		return emit(c)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, "\t", headerFieldCount)

		if isCommitHash(parts[0]) {
			// Header line. Finish the previous commit first.
			if err := flush(); err != nil {
				return stats, err
			}
			c, ok := parseHeader(parts)
			if !ok {
				// Malformed header: skip this commit and everything up to
				// the next header.
				stats.Skipped++
				continue
			}
			current = c
			continue
		}

		if current == nil {
			continue // Numstat lines of a skipped commit, or leading noise
		}
		if f, ok := parseNumstat(line); ok {
			current.Files = append(current.Files, f)
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, err
	}

	// Final commit has no trailing header to flush it.
	err := flush()
	return stats, err
}

// parseHeader validates a header candidate and coerces every field to its
// declared type at the parse boundary. A wrong field count or an unparseable
// timestamp rejects the whole commit.
func parseHeader(parts []string) (*schema.Commit, bool) {
	if len(parts) != headerFieldCount {
		return nil, false
	}
	authoredAt, err := time.Parse(time.RFC3339, parts[3])
	if err != nil {
		return nil, false
	}
	return &schema.Commit{
		Hash:        strings.ToLower(parts[0]),
		AuthorName:  parts[1],
		AuthorEmail: parts[2],
		AuthoredAt:  authoredAt.UTC().Format(time.RFC3339),
		Message:     parts[4],
	}, true
}

// parseNumstat parses an `<additions>\t<deletions>\t<path>` line. Binary
// files report "-" for both counters; those and any other non-numeric
// placeholders count as zero while the path is still recorded.
func parseNumstat(line string) (schema.FileChange, bool) {
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) != 3 || parts[2] == "" {
		return schema.FileChange{}, false
	}
	return schema.FileChange{
		Path:      parts[2],
		Additions: parseStat(parts[0]),
		Deletions: parseStat(parts[1]),
	}, true
}

// parseStat converts a numstat counter to int, treating the binary-file
// placeholder "-" and anything else non-numeric as 0.
func parseStat(s string) int {
	if val, err := strconv.Atoi(s); err == nil && val >= 0 {
		return val
	}
	return 0
}

// isCommitHash reports whether s looks like a full 40-char hex commit hash.
func isCommitHash(s string) bool {
	if len(s) != hashLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
