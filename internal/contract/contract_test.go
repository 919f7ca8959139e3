package contract

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/devlog/schema"
)

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	input := &ConfigRawInput{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, schema.SQLiteBackend, cfg.Backend)
	assert.Equal(t, DefaultDBFile, cfg.DBPath)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, DefaultResultLimit, cfg.ResultLimit)
	assert.Equal(t, ".", cfg.RepoPath)
}

func TestProcessAndValidateBackends(t *testing.T) {
	t.Run("unknown backend rejected", func(t *testing.T) {
		err := ProcessAndValidate(&Config{}, &ConfigRawInput{Backend: "oracle"})
		assert.Error(t, err)
	})

	t.Run("mysql requires connection string", func(t *testing.T) {
		err := ProcessAndValidate(&Config{}, &ConfigRawInput{Backend: "mysql"})
		assert.Error(t, err)
	})

	t.Run("postgresql with connection string", func(t *testing.T) {
		cfg := &Config{}
		input := &ConfigRawInput{Backend: "PostgreSQL", DBConnect: "postgres://localhost/devlog"}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, schema.PostgreSQLBackend, cfg.Backend)
	})
}

func TestProcessAndValidateOutput(t *testing.T) {
	err := ProcessAndValidate(&Config{}, &ConfigRawInput{Output: "xml"})
	assert.Error(t, err)

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, &ConfigRawInput{Output: "JSON"}))
	assert.Equal(t, schema.JSONOut, cfg.Output)
}

func TestProcessAndValidateLimitClamped(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, &ConfigRawInput{Limit: -5}))
	assert.Equal(t, DefaultResultLimit, cfg.ResultLimit)

	require.NoError(t, ProcessAndValidate(cfg, &ConfigRawInput{Limit: 999999}))
	assert.Equal(t, MaxResultLimit, cfg.ResultLimit)
}

func TestProcessAndValidateKeywords(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, &ConfigRawInput{Keywords: "fix, bug , ,oops"}))
	assert.Equal(t, []string{"fix", "bug", "oops"}, cfg.Keywords)
}

func TestParseFilter(t *testing.T) {
	t.Run("valid range", func(t *testing.T) {
		f, err := ParseFilter("2026-01-01", "2026-02-01", "a@x.com,b@x.com", "%.go")
		require.NoError(t, err)
		assert.Equal(t, "2026-01-01", f.Start)
		assert.Equal(t, "2026-02-01", f.End)
		assert.Equal(t, []string{"a@x.com", "b@x.com"}, f.Authors)
		assert.Equal(t, "%.go", f.FilePattern)
	})

	t.Run("empty filter", func(t *testing.T) {
		f, err := ParseFilter("", "", "", "")
		require.NoError(t, err)
		assert.Equal(t, schema.Filter{}, f)
	})

	t.Run("malformed date rejected", func(t *testing.T) {
		_, err := ParseFilter("01/02/2026", "", "", "")
		assert.Error(t, err)
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		_, err := ParseFilter("2026-02-01", "2026-01-01", "", "")
		assert.Error(t, err)
	})

	t.Run("bare pattern wrapped as substring", func(t *testing.T) {
		f, err := ParseFilter("", "", "", "main.go")
		require.NoError(t, err)
		assert.Equal(t, "%main.go%", f.FilePattern)
	})

	t.Run("wildcard patterns kept verbatim", func(t *testing.T) {
		for _, pattern := range []string{"%.go", "src/%", "parser_%.go"} {
			f, err := ParseFilter("", "", "", pattern)
			require.NoError(t, err)
			assert.Equal(t, pattern, f.FilePattern)
		}
	})
}

func TestProcessAndValidateFixOnly(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, &ConfigRawInput{FixOnly: true}))
	assert.True(t, cfg.Filter.FixOnly)

	require.NoError(t, ProcessAndValidate(cfg, &ConfigRawInput{}))
	assert.False(t, cfg.Filter.FixOnly)
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay(" 2026-03-09 ")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-09", day)

	_, err = ParseDay("2026-13-40")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a , b ,"))
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList(" , "))
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "short.go", TruncatePath("short.go", 20))
	assert.Equal(t, "...al/store/query.go", TruncatePath("internal/store/query.go", 20))
	assert.Equal(t, ".go", TruncatePath("main.go", 3))
}

func TestFixLabel(t *testing.T) {
	assert.Contains(t, FixLabel(true), "FIX")
	assert.Empty(t, FixLabel(false))
}

func TestLogWarn(t *testing.T) {
	old := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w
	defer func() { os.Stderr = old }()

	LogWarn("2 commits could not be written", nil)
	LogWarn("closing output file", errors.New("disk full"))
	require.NoError(t, w.Close())
	os.Stderr = old

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Warning 2 commits could not be written")
	assert.Contains(t, string(out), "Warning closing output file: disk full")
}
