// Package schema has configs, models and shared types for all parts of devlog.
package schema

// Commit represents one ingested commit with its per-file changes.
// Additions, Deletions and FilesChanged are always recomputed from the
// Files slice at write time, never trusted from any other source.
type Commit struct {
	Hash         string       `json:"hash"`          // Full 40-char hex commit hash
	AuthorName   string       `json:"author_name"`   // Author display name
	AuthorEmail  string       `json:"author_email"`  // Author email, used as the author identifier in filters
	AuthoredAt   string       `json:"authored_at"`   // Author timestamp, ISO-8601 in UTC
	Message      string       `json:"message"`       // Commit subject line
	Additions    int          `json:"additions"`     // Sum of additions over Files
	Deletions    int          `json:"deletions"`     // Sum of deletions over Files
	FilesChanged int          `json:"files_changed"` // Count of Files entries
	IsFix        bool         `json:"is_fix"`        // True when at least one error keyword matched
	ErrorTags    string       `json:"error_tags"`    // Comma-joined matched keywords in first-match order, empty when none
	Files        []FileChange `json:"files,omitempty"`
}

// FileChange represents one (commit, path) numstat entry.
type FileChange struct {
	Path      string `json:"path"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// FileRow is a flattened commit_files row used by exports.
type FileRow struct {
	CommitHash string `json:"commit_hash"`
	Path       string `json:"path"`
	Additions  int    `json:"additions"`
	Deletions  int    `json:"deletions"`
}

// Summary reports the outcome of one ingestion run.
type Summary struct {
	CommitsParsed  int `json:"commits_parsed"`  // Well-formed headers seen by the parser
	CommitsSkipped int `json:"commits_skipped"` // Malformed headers skipped by the parser
	CommitsWritten int `json:"commits_written"` // Commits upserted successfully
	CommitsFailed  int `json:"commits_failed"`  // Commits that failed at the store and were skipped
	FilesWritten   int `json:"files_written"`   // commit_files rows inserted
}
