// Package workspace manages the destination directory tree for the clone.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robokits/go-wstools/internal/errors"
)

// CloneState describes what occupies the clone destination
type CloneState int

const (
	// StateAbsent means the destination does not exist or is an empty directory
	StateAbsent CloneState = iota
	// StatePresent means a git clone already occupies the destination
	StatePresent
	// StateConflict means a non-empty, non-git directory occupies the destination
	StateConflict
)

// Choice is the user's decision for an existing clone
type Choice int

const (
	// ChoiceSkip leaves the existing clone untouched
	ChoiceSkip Choice = iota
	// ChoiceOverwrite replaces the existing clone with a fresh one
	ChoiceOverwrite
)

func (c Choice) String() string {
	if c == ChoiceOverwrite {
		return "overwrite"
	}
	return "skip"
}

// Prepare creates the workspace directory tree
func Prepare(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.New("workspace", fmt.Errorf("failed to create workspace directory: %w", err))
	}
	return nil
}

// DetectClone inspects the clone destination. A directory containing .git
// counts as a present clone; a non-empty directory without .git is a
// conflict that is never silently overwritten; a file at the path is also
// a conflict.
func DetectClone(path string) (CloneState, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return StateAbsent, nil
		}
		return StateAbsent, errors.New("workspace", fmt.Errorf("failed to inspect %s: %w", path, err))
	}
	if !info.IsDir() {
		return StateConflict, nil
	}

	if _, err := os.Stat(filepath.Join(path, ".git")); err == nil {
		return StatePresent, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return StateAbsent, errors.New("workspace", fmt.Errorf("failed to read %s: %w", path, err))
	}
	if len(entries) == 0 {
		return StateAbsent, nil
	}
	return StateConflict, nil
}

// TempCloneDir returns a sibling path for the fresh clone used during an
// overwrite, so a failed clone never destroys the existing copy.
func TempCloneDir(dst string) string {
	return fmt.Sprintf("%s.wsinit-%d", dst, time.Now().Unix())
}

// Swap replaces the existing clone with the freshly cloned directory.
// The existing clone is removed only after the fresh clone succeeded.
func Swap(existing, fresh string) error {
	if _, err := os.Stat(fresh); err != nil {
		return errors.New("workspace", fmt.Errorf("fresh clone missing at %s: %w", fresh, err))
	}
	if err := os.RemoveAll(existing); err != nil {
		return errors.New("workspace", fmt.Errorf("failed to remove existing clone: %w", err))
	}
	if err := os.Rename(fresh, existing); err != nil {
		return errors.New("workspace", fmt.Errorf("failed to move fresh clone into place: %w", err))
	}
	return nil
}
