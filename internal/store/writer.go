package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/huangsam/devlog/schema"
)

// UpsertCommit atomically replaces one commit and its file rows: the commit
// row is written-or-overwritten by hash, all existing commit_files rows for
// that hash are deleted, and the new rows inserted — all in one transaction,
// so a failure partway leaves the prior state intact. Running it twice with
// identical input leaves the store in the same observable state.
//
// Duplicate paths within the file list (distinct hunks reported for the same
// final path) are collapsed by summing additions and deletions before the
// unique (commit_hash, file_path) constraint is reached. The stored totals
// are recomputed from the collapsed rows, never trusted from the input.
//
// It returns the number of commit_files rows written.
func (s *Store) UpsertCommit(ctx context.Context, c *schema.Commit) (int, error) {
	files := collapseFileChanges(c.Files)

	additions, deletions := 0, 0
	for _, f := range files {
		additions += f.Additions
		deletions += f.Deletions
	}
	c.Additions = additions
	c.Deletions = deletions
	c.FilesChanged = len(files)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.rebind(upsertCommitQuery(s.backend)),
		c.Hash, c.AuthorName, c.AuthorEmail, c.AuthoredAt, c.Message,
		c.Additions, c.Deletions, c.FilesChanged, boolToInt(c.IsFix), nullableTags(c.ErrorTags),
	); err != nil {
		return 0, fmt.Errorf("failed to upsert commit %s: %w", c.Hash, err)
	}

	// Full replace of child rows: a re-run may reflect a different numstat
	// (e.g. after a history rewrite) and stale file rows must not linger.
	if _, err := tx.ExecContext(ctx,
		s.rebind(`DELETE FROM commit_files WHERE commit_hash = ?`), c.Hash,
	); err != nil {
		return 0, fmt.Errorf("failed to delete file rows for %s: %w", c.Hash, err)
	}

	for _, f := range files {
		if _, err := tx.ExecContext(ctx,
			s.rebind(`INSERT INTO commit_files (commit_hash, file_path, additions, deletions) VALUES (?, ?, ?, ?)`),
			c.Hash, f.Path, f.Additions, f.Deletions,
		); err != nil {
			return 0, fmt.Errorf("failed to insert file row %s for %s: %w", f.Path, c.Hash, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction for %s: %w", c.Hash, err)
	}
	return len(files), nil
}

// upsertCommitQuery returns the backend-specific insert-or-update statement
// keyed on the hash primary key.
func upsertCommitQuery(backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return `
			INSERT INTO commits (hash, author_name, author_email, authored_at, message,
				additions, deletions, files_changed, is_fix, error_tags)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				author_name = VALUES(author_name),
				author_email = VALUES(author_email),
				authored_at = VALUES(authored_at),
				message = VALUES(message),
				additions = VALUES(additions),
				deletions = VALUES(deletions),
				files_changed = VALUES(files_changed),
				is_fix = VALUES(is_fix),
				error_tags = VALUES(error_tags)`
	}
	// SQLite and PostgreSQL share the excluded-row conflict syntax.
	return `
		INSERT INTO commits (hash, author_name, author_email, authored_at, message,
			additions, deletions, files_changed, is_fix, error_tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (hash) DO UPDATE SET
			author_name = excluded.author_name,
			author_email = excluded.author_email,
			authored_at = excluded.authored_at,
			message = excluded.message,
			additions = excluded.additions,
			deletions = excluded.deletions,
			files_changed = excluded.files_changed,
			is_fix = excluded.is_fix,
			error_tags = excluded.error_tags`
}

// collapseFileChanges merges duplicate paths by summing their counters,
// preserving first-seen order.
func collapseFileChanges(in []schema.FileChange) []schema.FileChange {
	if len(in) < 2 {
		return in
	}
	index := make(map[string]int, len(in))
	out := make([]schema.FileChange, 0, len(in))
	for _, f := range in {
		if i, ok := index[f.Path]; ok {
			out[i].Additions += f.Additions
			out[i].Deletions += f.Deletions
			continue
		}
		index[f.Path] = len(out)
		out = append(out, f)
	}
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullableTags stores an empty tag list as NULL rather than an empty string.
func nullableTags(tags string) sql.NullString {
	return sql.NullString{String: tags, Valid: tags != ""}
}
