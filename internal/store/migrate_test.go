package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/devlog/schema"
)

func TestMigrateUnknownBackend(t *testing.T) {
	err := Migrate(schema.DatabaseBackend("oracle"), "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestMigrateSQLite(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test_migration.db")

	// Migrate to the latest version
	err := Migrate(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)

	// The migrated schema accepts writes
	st, err := Open(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	_, err = st.UpsertCommit(context.Background(),
		testCommit(hashA, "alice@example.com", "2026-01-10", "Add parser",
			schema.FileChange{Path: "parser.go", Additions: 1, Deletions: 0}))
	assert.NoError(t, err)
	require.NoError(t, st.Close())

	// Migrating again is a no-op
	err = Migrate(schema.SQLiteBackend, dbPath, -1)
	assert.NoError(t, err)

	// Migrate to version 1 explicitly
	err = Migrate(schema.SQLiteBackend, dbPath, 1)
	assert.NoError(t, err)

	// Roll back to version 0: the tables are dropped
	err = Migrate(schema.SQLiteBackend, dbPath, 0)
	assert.NoError(t, err)

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	var n int
	err = db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('commits', 'commit_files')").Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// Migrate back up
	err = Migrate(schema.SQLiteBackend, dbPath, 1)
	assert.NoError(t, err)
}

func TestMigrateSQLiteInMemory(t *testing.T) {
	err := Migrate(schema.SQLiteBackend, ":memory:", -1)
	require.NoError(t, err)
}
