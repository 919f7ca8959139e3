package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/huangsam/devlog/schema"
)

// The query layer is read-only. Every filter input is passed as a bound
// parameter; nothing user-supplied is ever concatenated into SQL text.

// dayExpr extracts the UTC calendar day from an ISO-8601 authored_at column.
// substr is portable across SQLite, MySQL and PostgreSQL because the column
// is stored as normalized ISO-8601 UTC text.
const dayExpr = "substr(%s.authored_at, 1, 10)"

// buildCommitFilter returns WHERE conditions and bound args for the filter,
// with commits aliased as "c". The file pattern is applied through EXISTS so
// commit-level aggregates are not inflated by multi-file joins.
func buildCommitFilter(f schema.Filter) ([]string, []any) {
	var conds []string
	var args []any

	day := fmt.Sprintf(dayExpr, "c")
	if f.Start != "" {
		conds = append(conds, day+" >= ?")
		args = append(args, f.Start)
	}
	if f.End != "" {
		conds = append(conds, day+" <= ?")
		args = append(args, f.End)
	}
	if len(f.Authors) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(f.Authors)), ", ")
		conds = append(conds, "c.author_email IN ("+placeholders+")")
		for _, a := range f.Authors {
			args = append(args, a)
		}
	}
	if f.FilePattern != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM commit_files cf WHERE cf.commit_hash = c.hash AND cf.file_path LIKE ?)")
		args = append(args, f.FilePattern)
	}
	if f.FixOnly {
		conds = append(conds, "c.is_fix = 1")
	}
	return conds, args
}

// whereClause renders conditions as a WHERE clause, or nothing when empty.
func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// KPIs returns the aggregate tiles for commits matching the filter.
func (s *Store) KPIs(ctx context.Context, f schema.Filter) (schema.KPIResult, error) {
	conds, args := buildCommitFilter(f)
	query := `
		SELECT COUNT(*),
			COALESCE(SUM(c.additions), 0),
			COALESCE(SUM(c.deletions), 0),
			COALESCE(SUM(c.is_fix), 0)
		FROM commits c` + whereClause(conds)

	var kpis schema.KPIResult
	row := s.db.QueryRowContext(ctx, s.rebind(query), args...)
	if err := row.Scan(&kpis.Commits, &kpis.Additions, &kpis.Deletions, &kpis.FixCommits); err != nil {
		return schema.KPIResult{}, fmt.Errorf("kpi query failed: %w", err)
	}
	return kpis, nil
}

// CommitVolume returns per-day commit counts for the volume-over-time chart,
// in ascending day order.
func (s *Store) CommitVolume(ctx context.Context, f schema.Filter) ([]schema.VolumePoint, error) {
	conds, args := buildCommitFilter(f)
	query := fmt.Sprintf(`
		SELECT %s AS day, COUNT(*)
		FROM commits c%s
		GROUP BY day
		ORDER BY day`, fmt.Sprintf(dayExpr, "c"), whereClause(conds))

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("volume query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []schema.VolumePoint
	for rows.Next() {
		var p schema.VolumePoint
		if err := rows.Scan(&p.Day, &p.Commits); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// TopAuthors returns the most frequent authors by commit count under the
// filter, ties broken by email for stable output.
func (s *Store) TopAuthors(ctx context.Context, f schema.Filter, limit int) ([]schema.AuthorActivity, error) {
	conds, args := buildCommitFilter(f)
	query := `
		SELECT c.author_name, c.author_email, COUNT(*) AS commit_count
		FROM commits c` + whereClause(conds) + `
		GROUP BY c.author_email, c.author_name
		ORDER BY commit_count DESC, c.author_email
		LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("top authors query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var authors []schema.AuthorActivity
	for rows.Next() {
		var a schema.AuthorActivity
		if err := rows.Scan(&a.Name, &a.Email, &a.Commits); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// TopFiles returns the paths touched by the most distinct commits under the
// filter. A file pattern narrows the ranked paths themselves, while date and
// author bounds narrow the commits that count.
func (s *Store) TopFiles(ctx context.Context, f schema.Filter, limit int) ([]schema.FileActivity, error) {
	pattern := f.FilePattern
	f.FilePattern = "" // ranked paths are constrained directly below
	conds, args := buildCommitFilter(f)

	if pattern != "" {
		conds = append(conds, "cf.file_path LIKE ?")
		args = append(args, pattern)
	}
	query := `
		SELECT cf.file_path, COUNT(DISTINCT cf.commit_hash) AS commit_count
		FROM commit_files cf
		JOIN commits c ON c.hash = cf.commit_hash` + whereClause(conds) + `
		GROUP BY cf.file_path
		ORDER BY commit_count DESC, cf.file_path
		LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("top files query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var files []schema.FileActivity
	for rows.Next() {
		var fa schema.FileActivity
		if err := rows.Scan(&fa.Path, &fa.Commits); err != nil {
			return nil, err
		}
		files = append(files, fa)
	}
	return files, rows.Err()
}

// FileTrend returns the per-day additions+deletions series over file rows
// matching the filter's pattern. The pattern is required; date and author
// bounds apply as usual.
func (s *Store) FileTrend(ctx context.Context, f schema.Filter) ([]schema.TrendPoint, error) {
	pattern := f.FilePattern
	if pattern == "" {
		return nil, fmt.Errorf("file trend requires a file pattern")
	}
	f.FilePattern = ""
	conds, args := buildCommitFilter(f)
	conds = append(conds, "cf.file_path LIKE ?")
	args = append(args, pattern)

	query := fmt.Sprintf(`
		SELECT %s AS day, COALESCE(SUM(cf.additions + cf.deletions), 0)
		FROM commit_files cf
		JOIN commits c ON c.hash = cf.commit_hash%s
		GROUP BY day
		ORDER BY day`, fmt.Sprintf(dayExpr, "c"), whereClause(conds))

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("file trend query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []schema.TrendPoint
	for rows.Next() {
		var p schema.TrendPoint
		if err := rows.Scan(&p.Day, &p.Churn); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// Meta describes the ingested data set: date bounds, every distinct author
// with commit counts, and the most-touched paths for quick-select controls.
func (s *Store) Meta(ctx context.Context) (schema.Meta, error) {
	var meta schema.Meta

	var minDay, maxDay sql.NullString
	boundsQuery := fmt.Sprintf("SELECT MIN(%[1]s), MAX(%[1]s) FROM commits c", fmt.Sprintf(dayExpr, "c"))
	if err := s.db.QueryRowContext(ctx, boundsQuery).Scan(&minDay, &maxDay); err != nil {
		return schema.Meta{}, fmt.Errorf("meta bounds query failed: %w", err)
	}
	meta.MinDay = minDay.String
	meta.MaxDay = maxDay.String

	authors, err := s.TopAuthors(ctx, schema.Filter{}, MaxMetaAuthors)
	if err != nil {
		return schema.Meta{}, err
	}
	meta.Authors = authors

	files, err := s.TopFiles(ctx, schema.Filter{}, MaxMetaFiles)
	if err != nil {
		return schema.Meta{}, err
	}
	meta.PopularFiles = make([]string, 0, len(files))
	for _, f := range files {
		meta.PopularFiles = append(meta.PopularFiles, f.Path)
	}
	return meta, nil
}

// Limits for the dashboard's quick-select metadata.
const (
	MaxMetaAuthors = 500
	MaxMetaFiles   = 50
)

// ListCommits returns commit detail rows matching the filter, newest first.
func (s *Store) ListCommits(ctx context.Context, f schema.Filter, limit int) ([]schema.Commit, error) {
	conds, args := buildCommitFilter(f)
	query := `
		SELECT c.hash, c.author_name, c.author_email, c.authored_at, c.message,
			c.additions, c.deletions, c.files_changed, c.is_fix, c.error_tags
		FROM commits c` + whereClause(conds) + `
		ORDER BY c.authored_at DESC, c.hash
		LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("commit list query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanCommits(rows)
}

// AllCommits returns every commit row, newest first, for exports.
func (s *Store) AllCommits(ctx context.Context) ([]schema.Commit, error) {
	query := `
		SELECT c.hash, c.author_name, c.author_email, c.authored_at, c.message,
			c.additions, c.deletions, c.files_changed, c.is_fix, c.error_tags
		FROM commits c
		ORDER BY c.authored_at DESC, c.hash`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("commit export query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanCommits(rows)
}

// AllFileRows returns every commit_files row for exports, grouped by commit.
func (s *Store) AllFileRows(ctx context.Context) ([]schema.FileRow, error) {
	query := `
		SELECT cf.commit_hash, cf.file_path, cf.additions, cf.deletions
		FROM commit_files cf
		ORDER BY cf.commit_hash, cf.file_path`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("file export query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.FileRow
	for rows.Next() {
		var fr schema.FileRow
		if err := rows.Scan(&fr.CommitHash, &fr.Path, &fr.Additions, &fr.Deletions); err != nil {
			return nil, err
		}
		out = append(out, fr)
	}
	return out, rows.Err()
}

func scanCommits(rows *sql.Rows) ([]schema.Commit, error) {
	var commits []schema.Commit
	for rows.Next() {
		var c schema.Commit
		var isFix int
		var tags sql.NullString
		if err := rows.Scan(&c.Hash, &c.AuthorName, &c.AuthorEmail, &c.AuthoredAt, &c.Message,
			&c.Additions, &c.Deletions, &c.FilesChanged, &isFix, &tags); err != nil {
			return nil, err
		}
		c.IsFix = isFix != 0
		c.ErrorTags = tags.String
		commits = append(commits, c)
	}
	return commits, rows.Err()
}
