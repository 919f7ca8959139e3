package ingest

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/devlog/internal/classify"
	"github.com/huangsam/devlog/internal/contract"
	"github.com/huangsam/devlog/internal/store"
	"github.com/huangsam/devlog/schema"
)

const (
	hashA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	hashB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

// fixtureLog is a canned numstat log with one fix commit, one plain commit
// and one malformed header in between.
var fixtureLog = strings.Join([]string{
	hashA + "\tAlice\talice@example.com\t2026-02-01T09:00:00Z\tFix crash in exporter",
	"4\t1\texport.go",
	"20\t0\texport_test.go",
	"nothash\tgarbage line",
	hashB + "\tBob\tbob@example.com\t2026-02-02T09:00:00Z\tAdd dashboard",
	"100\t0\tweb/server.go",
}, "\n")

func newTestDriver(t *testing.T, log string) (*Driver, *contract.MockGitClient) {
	t.Helper()
	st, err := store.Open(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	classifier, err := classify.New(nil)
	require.NoError(t, err)

	git := &contract.MockGitClient{}
	git.On("RepoRoot", mock.Anything, ".").Return("/repo", nil)
	git.On("Log", mock.Anything, "/repo").Return(io.NopCloser(strings.NewReader(log)), nil)

	return NewDriver(git, st, classifier), git
}

func TestRunIngestsAndClassifies(t *testing.T) {
	driver, git := newTestDriver(t, fixtureLog)
	ctx := context.Background()

	sum, err := driver.Run(ctx, ".")
	require.NoError(t, err)
	git.AssertExpectations(t)

	assert.Equal(t, 2, sum.CommitsParsed)
	assert.Equal(t, 2, sum.CommitsWritten)
	assert.Equal(t, 0, sum.CommitsSkipped, "garbage line is not a header candidate")
	assert.Equal(t, 0, sum.CommitsFailed)
	assert.Equal(t, 3, sum.FilesWritten)

	commits, err := driver.Store.ListCommits(ctx, schema.Filter{}, 10)
	require.NoError(t, err)
	require.Len(t, commits, 2)

	assert.Equal(t, hashB, commits[0].Hash, "newest first")
	assert.False(t, commits[0].IsFix)
	assert.Equal(t, hashA, commits[1].Hash)
	assert.True(t, commits[1].IsFix)
	assert.Equal(t, "fix,crash", commits[1].ErrorTags)
	assert.Equal(t, 24, commits[1].Additions)
	assert.Equal(t, 2, commits[1].FilesChanged)
}

func TestRunIsIdempotent(t *testing.T) {
	driver, _ := newTestDriver(t, fixtureLog)
	ctx := context.Background()

	_, err := driver.Run(ctx, ".")
	require.NoError(t, err)

	// Re-run over the same history with a fresh stream
	driver.Git = func() contract.GitClient {
		git := &contract.MockGitClient{}
		git.On("RepoRoot", mock.Anything, ".").Return("/repo", nil)
		git.On("Log", mock.Anything, "/repo").Return(io.NopCloser(strings.NewReader(fixtureLog)), nil)
		return git
	}()
	sum, err := driver.Run(ctx, ".")
	require.NoError(t, err)
	assert.Equal(t, 2, sum.CommitsWritten)

	kpis, err := driver.Store.KPIs(ctx, schema.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, kpis.Commits, "re-running must not duplicate commits")
}

func TestRunEmptyLog(t *testing.T) {
	driver, _ := newTestDriver(t, "")

	sum, err := driver.Run(context.Background(), ".")
	require.NoError(t, err)
	assert.Equal(t, schema.Summary{}, sum)
}

func TestRunRepoRootFailure(t *testing.T) {
	st, err := store.Open(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	classifier, err := classify.New(nil)
	require.NoError(t, err)

	git := &contract.MockGitClient{}
	git.On("RepoRoot", mock.Anything, "/nope").Return("", errors.New("not a git repository"))

	driver := NewDriver(git, st, classifier)
	_, err = driver.Run(context.Background(), "/nope")
	assert.Error(t, err)
	git.AssertNotCalled(t, "Log", mock.Anything, mock.Anything)
}

// failingCloser simulates a git process that exits non-zero after its
// output was fully read.
type failingCloser struct {
	io.Reader
}

func (f *failingCloser) Close() error {
	return errors.New("git log failed: exit status 128")
}

func TestRunProcessFailureSurfaces(t *testing.T) {
	st, err := store.Open(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	classifier, err := classify.New(nil)
	require.NoError(t, err)

	git := &contract.MockGitClient{}
	git.On("RepoRoot", mock.Anything, ".").Return("/repo", nil)
	git.On("Log", mock.Anything, "/repo").Return(&failingCloser{strings.NewReader(fixtureLog)}, nil)

	driver := NewDriver(git, st, classifier)
	_, err = driver.Run(context.Background(), ".")
	assert.Error(t, err)
}
