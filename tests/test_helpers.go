package tests

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// runGit executes a git command in dir with identity and config pinned so
// the fixtures do not depend on the machine's git configuration.
func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test",
		"GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test",
		"GIT_COMMITTER_EMAIL=test@example.com",
		"GIT_CONFIG_GLOBAL=/dev/null",
		"GIT_CONFIG_SYSTEM=/dev/null",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
}

// createSourceRepo builds a local repository with one commit and returns
// its path, standing in for the private workspace repository.
func createSourceRepo(t *testing.T, base string) string {
	t.Helper()

	src := filepath.Join(base, "origin")
	if err := os.MkdirAll(src, 0755); err != nil {
		t.Fatal(err)
	}

	runGit(t, src, "init", "--initial-branch=main", ".")
	if err := os.WriteFile(filepath.Join(src, "README.md"), []byte("# middleware workspace\n"), 0644); err != nil {
		t.Fatal(err)
	}
	runGit(t, src, "add", "README.md")
	runGit(t, src, "commit", "-m", "initial commit")
	return src
}

// requireGit skips the test when no git binary is available.
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}
