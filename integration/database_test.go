//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDevlogWithMySQL tests the devlog CLI with a MySQL backend.
func TestDevlogWithMySQL(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "devlog",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/devlog?parseTime=true", host, port.Port())

	// Set environment variables
	_ = os.Setenv("DEVLOG_BACKEND", "mysql")
	_ = os.Setenv("DEVLOG_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("DEVLOG_BACKEND") }()
	defer func() { _ = os.Unsetenv("DEVLOG_DB_CONNECT") }()

	runBackendSuite(t)
}

// TestDevlogWithPostgres tests the devlog CLI with a PostgreSQL backend.
func TestDevlogWithPostgres(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://postgres@%s:%s/postgres?sslmode=disable", host, port.Port())

	// Set environment variables
	_ = os.Setenv("DEVLOG_BACKEND", "postgresql")
	_ = os.Setenv("DEVLOG_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("DEVLOG_BACKEND") }()
	defer func() { _ = os.Unsetenv("DEVLOG_DB_CONNECT") }()

	runBackendSuite(t)
}

// runBackendSuite migrates, ingests a fixture repo and reports against the
// backend configured through the environment.
func runBackendSuite(t *testing.T) {
	t.Helper()
	repoDir := gitFixtureRepo(t)
	workDir := t.TempDir()

	require.NoError(t, runDevlogCommand(t, workDir, "migrate"))
	require.NoError(t, runDevlogCommand(t, workDir, "ingest", repoDir))
	require.NoError(t, runDevlogCommand(t, workDir, "report", "--output", "json"))
}
