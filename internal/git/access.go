package git

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/robokits/go-wstools/internal/errors"
)

// Access describes the outcome of the repository access probe
type Access int

const (
	// AccessOK means the repository exists and is readable
	AccessOK Access = iota
	// AccessDenied means the server answered but refused access
	// (missing repository and no read permission are indistinguishable)
	AccessDenied
	// AccessUnreachable means the server could not be contacted
	AccessUnreachable
)

const accessTimeout = 30 * time.Second

// CheckAccess verifies read access to the repository at url with
// `git ls-remote`, over the same SSH transport a clone would use.
func CheckAccess(ctx context.Context, url string) (Access, error) {
	ctx, cancel := context.WithTimeout(ctx, accessTimeout)
	defer cancel()

	var stderr strings.Builder
	code, err := runGit(ctx, "", io.Discard, &stderr, "ls-remote", "--exit-code", url, "HEAD")
	switch {
	case err == nil:
		return AccessOK, nil
	case code == 2:
		// --exit-code: the repository answered but has no HEAD yet.
		// An empty repository is still an accessible one.
		return AccessOK, nil
	}

	detail := strings.TrimSpace(stderr.String())
	if isTransient(detail) || ctx.Err() != nil {
		return AccessUnreachable, errors.New("repo-access", fmt.Errorf("cannot reach %s: %s", url, detail))
	}
	return AccessDenied, errors.New("repo-access", fmt.Errorf("read access to %s denied: %s", url, detail))
}
