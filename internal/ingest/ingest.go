// Package ingest drives one ingestion run: it invokes the external git log
// process, streams its output through the parser and classifier, and writes
// each commit through the store's upsert writer.
package ingest

import (
	"context"
	"fmt"

	"github.com/huangsam/devlog/internal/classify"
	"github.com/huangsam/devlog/internal/contract"
	"github.com/huangsam/devlog/internal/gitlog"
	"github.com/huangsam/devlog/internal/store"
	"github.com/huangsam/devlog/schema"
)

// Driver orchestrates a single ingestion run. It is single-threaded by
// design: one pass over the log, one transaction per commit.
type Driver struct {
	Git        contract.GitClient
	Store      *store.Store
	Classifier *classify.Classifier
}

// NewDriver assembles a driver from its collaborators.
func NewDriver(git contract.GitClient, st *store.Store, cl *classify.Classifier) *Driver {
	return &Driver{Git: git, Store: st, Classifier: cl}
}

// Run ingests the repository at repoPath and returns summary counts.
//
// Failure to resolve the repository or to invoke git is fatal for the run.
// A single commit failing at the store is counted and skipped — it must not
// abort ingestion of subsequent commits.
func (d *Driver) Run(ctx context.Context, repoPath string) (schema.Summary, error) {
	var sum schema.Summary

	root, err := d.Git.RepoRoot(ctx, repoPath)
	if err != nil {
		return sum, err
	}

	stream, err := d.Git.Log(ctx, root)
	if err != nil {
		return sum, err
	}

	stats, parseErr := gitlog.Parse(stream, func(c *schema.Commit) error {
		isFix, tags := d.Classifier.Classify(c.Message)
		c.IsFix = isFix
		c.ErrorTags = classify.JoinTags(tags)

		filesWritten, err := d.Store.UpsertCommit(ctx, c)
		if err != nil {
			// Per-commit recoverable failure: count it, keep going. It is
			// surfaced in the final summary, not per commit.
			sum.CommitsFailed++
			return nil
		}
		sum.CommitsWritten++
		sum.FilesWritten += filesWritten
		return nil
	})
	sum.CommitsParsed = stats.Parsed
	sum.CommitsSkipped = stats.Skipped

	if parseErr != nil {
		_ = stream.Close()
		return sum, fmt.Errorf("failed reading git log output: %w", parseErr)
	}
	// Close reports the git process's exit status; a failed process is a
	// run-level error even if partial output parsed cleanly.
	if err := stream.Close(); err != nil {
		return sum, err
	}
	return sum, nil
}
