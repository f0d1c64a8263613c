package git

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRunGit replays scripted results, recording each invocation.
type mockRunGit struct {
	calls   [][]string
	results []mockResult
}

type mockResult struct {
	code   int
	stderr string
	err    error
}

func (m *mockRunGit) run(ctx context.Context, dir string, stdout, stderr io.Writer, args ...string) (int, error) {
	m.calls = append(m.calls, args)
	if len(m.results) == 0 {
		return 0, nil
	}
	result := m.results[0]
	if len(m.results) > 1 {
		m.results = m.results[1:]
	}
	if result.stderr != "" {
		fmt.Fprint(stderr, result.stderr)
	}
	return result.code, result.err
}

func withMock(t *testing.T, m *mockRunGit) {
	t.Helper()
	original := runGit
	runGit = m.run
	t.Cleanup(func() { runGit = original })
}

func TestCloneValidatesOptions(t *testing.T) {
	tests := []struct {
		name string
		opts CloneOptions
	}{
		{name: "missing URL", opts: CloneOptions{Dir: "/tmp/ws"}},
		{name: "missing dir", opts: CloneOptions{URL: "git@host:owner/repo.git"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, Clone(tt.opts))
		})
	}
}

func TestCloneSuccess(t *testing.T) {
	mock := &mockRunGit{}
	withMock(t, mock)

	var out bytes.Buffer
	err := Clone(CloneOptions{
		URL:    "git@git.example.com:acme/rover-ws.git",
		Dir:    "/tmp/ws/src/rover",
		Output: &out,
	})
	require.NoError(t, err)
	require.Len(t, mock.calls, 1)
	assert.Equal(t, []string{"clone", "--progress", "git@git.example.com:acme/rover-ws.git", "/tmp/ws/src/rover"}, mock.calls[0])
}

func TestCloneDoesNotRetryPermanentFailure(t *testing.T) {
	mock := &mockRunGit{results: []mockResult{
		{code: 128, stderr: "fatal: repository not found", err: fmt.Errorf("exit status 128")},
	}}
	withMock(t, mock)

	err := Clone(CloneOptions{URL: "git@host:a/b.git", Dir: t.TempDir() + "/dst", Output: io.Discard})
	assert.ErrorContains(t, err, "git clone failed")
	assert.Len(t, mock.calls, 1)
}

func TestCloneRetriesTransientFailure(t *testing.T) {
	mock := &mockRunGit{results: []mockResult{
		{code: 128, stderr: "fatal: early EOF", err: fmt.Errorf("exit status 128")},
		{code: 0},
	}}
	withMock(t, mock)

	err := Clone(CloneOptions{URL: "git@host:a/b.git", Dir: t.TempDir() + "/dst", Output: io.Discard})
	require.NoError(t, err)
	assert.Len(t, mock.calls, 2)
}

func TestCloneRemovesPartialDestinationOnFailure(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "middleware")

	original := runGit
	runGit = func(ctx context.Context, dir string, stdout, stderr io.Writer, args ...string) (int, error) {
		// leave a partial clone behind, the way a killed git process does
		require.NoError(t, os.MkdirAll(filepath.Join(dst, "objects"), 0755))
		fmt.Fprint(stderr, "fatal: the remote end hung up")
		return 128, fmt.Errorf("exit status 128")
	}
	t.Cleanup(func() { runGit = original })

	err := Clone(CloneOptions{URL: "git@host:a/b.git", Dir: dst, Output: io.Discard})
	require.Error(t, err)
	assert.NoDirExists(t, dst, "a failed clone must not leave a partial destination")
}

func TestCloneKeepsPreexistingDestinationOnFailure(t *testing.T) {
	dst := t.TempDir()
	keep := filepath.Join(dst, "keep.txt")
	require.NoError(t, os.WriteFile(keep, []byte("x"), 0644))

	mock := &mockRunGit{results: []mockResult{
		{code: 128, stderr: "fatal: destination path already exists and is not an empty directory", err: fmt.Errorf("exit status 128")},
	}}
	withMock(t, mock)

	err := Clone(CloneOptions{URL: "git@host:a/b.git", Dir: dst, Output: io.Discard})
	require.Error(t, err)
	assert.FileExists(t, keep, "a destination the clone did not create is never removed")
}

func TestCheckAccess(t *testing.T) {
	tests := []struct {
		name   string
		result mockResult
		want   Access
	}{
		{
			name:   "accessible",
			result: mockResult{code: 0},
			want:   AccessOK,
		},
		{
			name:   "empty repository is accessible",
			result: mockResult{code: 2, err: fmt.Errorf("exit status 2")},
			want:   AccessOK,
		},
		{
			name:   "denied",
			result: mockResult{code: 128, stderr: "ERROR: Repository not found.", err: fmt.Errorf("exit status 128")},
			want:   AccessDenied,
		},
		{
			name:   "unreachable",
			result: mockResult{code: 128, stderr: "ssh: Could not resolve hostname git.example.com", err: fmt.Errorf("exit status 128")},
			want:   AccessUnreachable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockRunGit{results: []mockResult{tt.result}}
			withMock(t, mock)

			access, err := CheckAccess(context.Background(), "git@git.example.com:acme/rover-ws.git")
			assert.Equal(t, tt.want, access)
			if tt.want == AccessOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
			require.Len(t, mock.calls, 1)
			assert.Equal(t, "ls-remote", mock.calls[0][0])
		})
	}
}
