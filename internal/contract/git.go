package contract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/stretchr/testify/mock"
)

// logPrettyFormat is the header format for the ingestion log command:
// hash, author name, author email, author date and subject, tab-separated.
// The parser in internal/gitlog depends on this exact shape; the two must
// be kept in sync or parsing silently breaks.
const logPrettyFormat = "%H%x09%an%x09%ae%x09%ad%x09%s"

// LogArgs are the git arguments used to produce the ingestion input:
// one tab-delimited header line per commit followed by its numstat lines.
var LogArgs = []string{
	"log",
	"--numstat",
	"--date=iso-strict",
	"--pretty=format:" + logPrettyFormat,
}

// GitClient defines the git operations needed by the ingestion driver.
// This allows the driver to be tested without a real git executable.
type GitClient interface {
	// RepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	RepoRoot(ctx context.Context, contextPath string) (string, error)

	// Log starts the numstat log command for the repository and returns its
	// stdout stream. Closing the stream waits for the process and reports
	// its exit status.
	Log(ctx context.Context, repoPath string) (io.ReadCloser, error)
}

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// RepoRoot implements the GitClient interface by executing 'git rev-parse --show-toplevel'.
func (c *LocalGitClient) RepoRoot(ctx context.Context, contextPath string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", contextPath, "rev-parse", "--show-toplevel")
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.Stderr != nil {
			errMsg := strings.TrimSpace(string(exitErr.Stderr))
			return "", fmt.Errorf("not a git repository at %q: %s: %w", contextPath, errMsg, err)
		}
		return "", fmt.Errorf("could not execute git (is git installed and in PATH?): %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Log implements the GitClient interface.
func (c *LocalGitClient) Log(ctx context.Context, repoPath string) (io.ReadCloser, error) {
	fullArgs := append([]string{"-C", repoPath}, LogArgs...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("could not open git log pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("could not execute git (is git installed and in PATH?): %w", err)
	}
	return &logStream{stdout: stdout, cmd: cmd, stderr: &stderr}, nil
}

// logStream wraps the stdout of a running git log process. Close drains the
// pipe and waits for the process so that a non-zero exit is not lost.
type logStream struct {
	stdout io.ReadCloser
	cmd    *exec.Cmd
	stderr *bytes.Buffer
}

func (s *logStream) Read(p []byte) (int, error) {
	return s.stdout.Read(p)
}

func (s *logStream) Close() error {
	_, _ = io.Copy(io.Discard, s.stdout)
	if err := s.cmd.Wait(); err != nil {
		errMsg := strings.TrimSpace(s.stderr.String())
		// A repository with no commits yet is an empty log, not a failure.
		if strings.Contains(errMsg, "does not have any commits yet") {
			return nil
		}
		if errMsg != "" {
			return fmt.Errorf("git log failed: %s: %w", errMsg, err)
		}
		return fmt.Errorf("git log failed: %w", err)
	}
	return nil
}

// MockGitClient is a testify mock for the GitClient type.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// RepoRoot implements the GitClient interface.
func (m *MockGitClient) RepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	root, _ := ret.Get(0).(string)
	return root, ret.Error(1)
}

// Log implements the GitClient interface.
func (m *MockGitClient) Log(ctx context.Context, repoPath string) (io.ReadCloser, error) {
	ret := m.Called(ctx, repoPath)
	stream, _ := ret.Get(0).(io.ReadCloser)
	return stream, ret.Error(1)
}
