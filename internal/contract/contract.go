// Package contract provides interfaces and shared utilities for the devlog CLI's internal architecture.
package contract

import (
	"fmt"
	"strings"

	"github.com/huangsam/devlog/schema"
)

// Default values for configuration.
const (
	DefaultDBFile      = "devlog.db"
	DefaultAddr        = ":8080"
	DefaultResultLimit = 10
	MaxResultLimit     = 1000
)

// Config holds the runtime configuration for ingestion, reporting and the
// dashboard. This struct remains the "final, validated" config.
type Config struct {
	RepoPath  string                 // Path to the repository to ingest
	Backend   schema.DatabaseBackend // Relational backend for the commit store
	DBPath    string                 // SQLite database file path
	DBConnect string                 // Connection string for mysql/postgresql
	Addr      string                 // Listen address for the dashboard server
	Keywords  []string               // Error/fix keyword vocabulary for the classifier

	Filter      schema.Filter // Shared read filter for report/export
	ResultLimit int           // Top-N limit for ranking queries
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	Backend    string `mapstructure:"backend"`
	DB         string `mapstructure:"db"`
	DBConnect  string `mapstructure:"db-connect"`
	Addr       string `mapstructure:"addr"`
	Keywords   string `mapstructure:"keywords"`
	Start      string `mapstructure:"start"`
	End        string `mapstructure:"end"`
	Authors    string `mapstructure:"authors"`
	Pattern    string `mapstructure:"pattern"`
	FixOnly    bool   `mapstructure:"fix-only"`
	Limit      int    `mapstructure:"limit"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Width      int    `mapstructure:"width"`
}

// ProcessAndValidate parses the raw input into the final config, rejecting
// invalid values before anything reaches the store.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(input.Backend)))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidBackends[backend]; !ok {
		return fmt.Errorf("invalid backend %q: must be sqlite, mysql or postgresql", input.Backend)
	}
	if backend != schema.SQLiteBackend && input.DBConnect == "" {
		return fmt.Errorf("--db-connect is required for the %s backend", backend)
	}
	cfg.Backend = backend
	cfg.DBConnect = input.DBConnect

	cfg.DBPath = input.DB
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBFile
	}

	cfg.Addr = input.Addr
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	output := schema.OutputMode(strings.ToLower(strings.TrimSpace(input.Output)))
	if output == "" {
		output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return fmt.Errorf("invalid output %q: must be text, csv or json", input.Output)
	}
	cfg.Output = output
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultResultLimit
	}
	if limit > MaxResultLimit {
		limit = MaxResultLimit
	}
	cfg.ResultLimit = limit

	filter, err := ParseFilter(input.Start, input.End, input.Authors, input.Pattern)
	if err != nil {
		return err
	}
	filter.FixOnly = input.FixOnly
	cfg.Filter = filter

	cfg.Keywords = SplitList(input.Keywords)

	cfg.RepoPath = input.RepoPathStr
	if cfg.RepoPath == "" {
		cfg.RepoPath = "."
	}

	return nil
}

// ParseFilter validates raw filter inputs and assembles a schema.Filter.
// Malformed dates are rejected here, never passed through to the store.
// A pattern without LIKE wildcards is treated as a substring and wrapped
// in %...%, so "main.go" matches anywhere in a path.
func ParseFilter(start, end, authors, pattern string) (schema.Filter, error) {
	var f schema.Filter
	var err error

	if start != "" {
		if f.Start, err = ParseDay(start); err != nil {
			return schema.Filter{}, err
		}
	}
	if end != "" {
		if f.End, err = ParseDay(end); err != nil {
			return schema.Filter{}, err
		}
	}
	if f.Start != "" && f.End != "" && f.Start > f.End {
		return schema.Filter{}, fmt.Errorf("start date %s is after end date %s", f.Start, f.End)
	}

	f.Authors = SplitList(authors)
	f.FilePattern = strings.TrimSpace(pattern)
	if f.FilePattern != "" && !strings.ContainsAny(f.FilePattern, "%_") {
		f.FilePattern = "%" + f.FilePattern + "%"
	}
	return f, nil
}
