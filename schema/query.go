package schema

// Filter narrows query results. All fields are optional; the zero value
// matches every commit. Dates are inclusive calendar days ("2006-01-02")
// compared against the UTC day of authored_at. Authors match author_email.
// FilePattern is a SQL LIKE pattern matched against commit_files.file_path.
// FixOnly restricts results to fix-tagged commits.
type Filter struct {
	Start       string   `json:"start,omitempty"`
	End         string   `json:"end,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	FilePattern string   `json:"file_pattern,omitempty"`
	FixOnly     bool     `json:"fix_only,omitempty"`
}

// KPIResult holds the aggregate tiles for a filtered set of commits.
type KPIResult struct {
	Commits    int `json:"commits"`
	Additions  int `json:"additions"`
	Deletions  int `json:"deletions"`
	FixCommits int `json:"fix_commits"`
}

// VolumePoint is one day bucket of the commit-volume series.
type VolumePoint struct {
	Day     string `json:"day"` // "2006-01-02", UTC
	Commits int    `json:"commits"`
}

// AuthorActivity is one row of the top-authors ranking.
type AuthorActivity struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Commits int    `json:"commits"`
}

// FileActivity is one row of the top-files ranking. Commits counts
// distinct commits touching the path.
type FileActivity struct {
	Path    string `json:"path"`
	Commits int    `json:"commits"`
}

// TrendPoint is one day bucket of the file-change trend series. Churn is
// the sum of additions+deletions over matching file rows for that day.
type TrendPoint struct {
	Day   string `json:"day"`
	Churn int    `json:"churn"`
}

// Report bundles the aggregates rendered by the report command.
type Report struct {
	Filter  Filter           `json:"filter"`
	KPIs    KPIResult        `json:"kpis"`
	Authors []AuthorActivity `json:"authors"`
	Files   []FileActivity   `json:"files"`
	Commits []Commit         `json:"commits"`
}

// Meta describes the ingested data set, used by the dashboard to seed
// its filter controls.
type Meta struct {
	MinDay       string           `json:"min_day"` // Empty when the store has no commits
	MaxDay       string           `json:"max_day"`
	Authors      []AuthorActivity `json:"authors"`
	PopularFiles []string         `json:"popular_files"`
}
