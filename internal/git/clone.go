package git

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/robokits/go-wstools/internal/errors"
)

const (
	defaultTimeout = 10 * time.Minute
	maxRetries     = 3
)

// CloneOptions contains configuration for cloning the workspace repository
type CloneOptions struct {
	URL     string          // SSH clone URL
	Dir     string          // Destination directory
	Context context.Context // Context for cancellation/timeout
	Timeout time.Duration   // Used when Context carries no deadline
	Output  io.Writer       // Progress output; defaults to os.Stderr
}

// runGit is a variable so it can be mocked in tests. It returns the exit
// code of the git process alongside the error.
var runGit = func(ctx context.Context, dir string, stdout, stderr io.Writer, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			return exitErr.ExitCode(), err
		}
		return -1, err
	}
	return 0, nil
}

// Clone clones the repository into opts.Dir. Transient network failures are
// retried with a linear backoff; everything else fails immediately.
func Clone(opts CloneOptions) error {
	if opts.URL == "" || opts.Dir == "" {
		return errors.New("clone", fmt.Errorf("clone URL and destination must be specified"))
	}

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	progress := newProgressWriter("  ", out)

	// A killed or failed git process can leave a partial destination behind,
	// which would surface as a conflict on the next run. Only a destination
	// this clone created may be removed; a pre-existing one is never touched.
	_, statErr := os.Stat(opts.Dir)
	preexisting := statErr == nil
	cleanup := func() {
		if !preexisting {
			os.RemoveAll(opts.Dir)
		}
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		var stderr strings.Builder
		_, err := runGit(ctx, "", io.Discard, io.MultiWriter(progress, &stderr),
			"clone", "--progress", opts.URL, opts.Dir)
		if err == nil {
			return nil
		}
		lastErr = fmt.Errorf("%v: %s", err, strings.TrimSpace(stderr.String()))

		if !isTransient(stderr.String()) {
			cleanup()
			return errors.New("clone", fmt.Errorf("git clone failed: %w", lastErr))
		}

		cleanup()

		select {
		case <-ctx.Done():
			return errors.New("clone", fmt.Errorf("operation cancelled: %w", ctx.Err()))
		case <-time.After(time.Duration(attempt+1) * 2 * time.Second):
		}
	}

	cleanup()
	return errors.New("clone", fmt.Errorf("exceeded retry attempts: %w", lastErr))
}

// isTransient reports whether a git failure looks like a temporary network
// condition worth retrying.
func isTransient(stderr string) bool {
	for _, marker := range []string{
		"Connection reset",
		"Connection timed out",
		"early EOF",
		"Could not resolve hostname",
		"The remote end hung up unexpectedly",
	} {
		if strings.Contains(stderr, marker) {
			return true
		}
	}
	return false
}
