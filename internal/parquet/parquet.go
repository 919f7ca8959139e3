// Package parquet provides data structures and functions for exporting ingested
// commit data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/huangsam/devlog/schema"
)

// CommitRecord represents a single ingested commit for export.
// This struct maps to the commits database table.
type CommitRecord struct {
	// Hash is the full 40-character hex commit hash
	Hash string `parquet:"hash,snappy"`

	// AuthorName is the author display name
	AuthorName string `parquet:"author_name,snappy"`

	// AuthorEmail is the author email used as the author identifier
	AuthorEmail string `parquet:"author_email,snappy"`

	// AuthoredAt is the ISO-8601 UTC author timestamp
	AuthoredAt string `parquet:"authored_at,snappy"`

	// Message is the commit subject line
	Message string `parquet:"message,snappy"`

	// Additions is the total lines added across all files in the commit
	Additions int32 `parquet:"additions,snappy"`

	// Deletions is the total lines deleted across all files in the commit
	Deletions int32 `parquet:"deletions,snappy"`

	// FilesChanged is the number of distinct file paths touched
	FilesChanged int32 `parquet:"files_changed,snappy"`

	// IsFix indicates whether the message matched an error keyword
	IsFix bool `parquet:"is_fix,snappy"`

	// ErrorTags holds the comma-joined matched keywords (nullable)
	ErrorTags *string `parquet:"error_tags,optional,snappy"`
}

// FileChangeRecord represents a per-file change row for export.
// This struct maps to the commit_files database table.
type FileChangeRecord struct {
	// CommitHash references the parent commit
	CommitHash string `parquet:"commit_hash,snappy"`

	// FilePath is the repository-relative path of the changed file
	FilePath string `parquet:"file_path,snappy"`

	// Additions is the lines added to this file in the commit
	Additions int32 `parquet:"additions,snappy"`

	// Deletions is the lines deleted from this file in the commit
	Deletions int32 `parquet:"deletions,snappy"`
}

// WriteCommitsParquet writes a slice of CommitRecord structs to a Parquet file.
func WriteCommitsParquet(data []CommitRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the CommitRecord struct tags
	writer := parquet.NewGenericWriter[CommitRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteFileChangesParquet writes a slice of FileChangeRecord structs to a Parquet file.
func WriteFileChangesParquet(data []FileChangeRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the FileChangeRecord struct tags
	writer := parquet.NewGenericWriter[FileChangeRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertCommits converts schema.Commit rows to CommitRecord for Parquet export.
func ConvertCommits(commits []schema.Commit) []CommitRecord {
	result := make([]CommitRecord, len(commits))
	for i, c := range commits {
		var tags *string
		if c.ErrorTags != "" {
			t := c.ErrorTags
			tags = &t
		}
		result[i] = CommitRecord{
			Hash:         c.Hash,
			AuthorName:   c.AuthorName,
			AuthorEmail:  c.AuthorEmail,
			AuthoredAt:   c.AuthoredAt,
			Message:      c.Message,
			Additions:    int32(c.Additions),
			Deletions:    int32(c.Deletions),
			FilesChanged: int32(c.FilesChanged),
			IsFix:        c.IsFix,
			ErrorTags:    tags,
		}
	}
	return result
}

// ConvertFileRows converts schema.FileRow rows to FileChangeRecord for Parquet export.
func ConvertFileRows(rows []schema.FileRow) []FileChangeRecord {
	result := make([]FileChangeRecord, len(rows))
	for i, r := range rows {
		result[i] = FileChangeRecord{
			CommitHash: r.CommitHash,
			FilePath:   r.Path,
			Additions:  int32(r.Additions),
			Deletions:  int32(r.Deletions),
		}
	}
	return result
}
