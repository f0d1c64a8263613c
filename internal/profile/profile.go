// Package profile performs idempotent edits to the user's shell profile.
//
// The profile is treated as an unordered bag of lines: membership, not
// position, is the invariant. A line already present anywhere in the file
// is never appended again, so repeated runs converge to the same content.
// Before the first real edit of a run, the file is copied to a timestamped
// backup next to it.
package profile

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robokits/go-wstools/internal/errors"
)

const marker = "# Added by wsinit - robotics workspace environment"

// now is a variable so tests get stable backup names
var now = time.Now

// Patch describes an idempotent append to a shell profile
type Patch struct {
	Path  string
	Lines []string
}

// Report describes what a patch actually did
type Report struct {
	Added      []string // lines appended by this run
	Present    []string // lines that were already in the file
	BackupPath string   // empty when no edit happened
	Created    bool     // the profile file did not exist before
}

// Changed reports whether the file was modified
func (r *Report) Changed() bool {
	return len(r.Added) > 0
}

// Apply appends the missing lines to the profile. When every line is
// already present the file is left byte-for-byte untouched and no backup
// is made.
func Apply(p Patch) (*Report, error) {
	report := &Report{}

	content, err := os.ReadFile(p.Path)
	switch {
	case os.IsNotExist(err):
		report.Created = true
		content = nil
	case err != nil:
		return nil, errors.New("profile", fmt.Errorf("failed to read %s: %w", p.Path, err))
	}

	existing := lineSet(content)
	for _, line := range p.Lines {
		if existing[strings.TrimSpace(line)] {
			report.Present = append(report.Present, line)
		} else {
			report.Added = append(report.Added, line)
		}
	}
	if !report.Changed() {
		return report, nil
	}

	if !report.Created {
		backup, err := writeBackup(p.Path, content)
		if err != nil {
			return nil, err
		}
		report.BackupPath = backup
	} else if err := os.MkdirAll(filepath.Dir(p.Path), 0755); err != nil {
		return nil, errors.New("profile", fmt.Errorf("failed to create profile directory: %w", err))
	}

	var buf bytes.Buffer
	buf.Write(content)
	if len(content) > 0 && !bytes.HasSuffix(content, []byte("\n")) {
		buf.WriteByte('\n')
	}
	if !existing[marker] {
		buf.WriteString("\n" + marker + "\n")
	}
	for _, line := range report.Added {
		buf.WriteString(line + "\n")
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(p.Path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(p.Path, buf.Bytes(), mode); err != nil {
		return nil, errors.New("profile", fmt.Errorf("failed to write %s: %w", p.Path, err))
	}
	return report, nil
}

// Missing returns the lines not yet present in the profile, without
// modifying anything. A missing file means every line is missing.
func Missing(path string, lines []string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.New("profile", fmt.Errorf("failed to read %s: %w", path, err))
	}

	existing := lineSet(content)
	var missing []string
	for _, line := range lines {
		if !existing[strings.TrimSpace(line)] {
			missing = append(missing, line)
		}
	}
	return missing, nil
}

// lineSet indexes the trimmed lines of the file. Commented-out copies of a
// line do not count as present.
func lineSet(content []byte) map[string]bool {
	set := make(map[string]bool)
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		set[strings.TrimSpace(scanner.Text())] = true
	}
	return set
}

// writeBackup copies the profile to <path>.wsinit.bak.<unix-ts> with the
// same permissions.
func writeBackup(path string, content []byte) (string, error) {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}

	backup := fmt.Sprintf("%s.wsinit.bak.%d", path, now().Unix())
	if err := os.WriteFile(backup, content, mode); err != nil {
		return "", errors.New("profile", fmt.Errorf("failed to write backup %s: %w", backup, err))
	}
	return backup, nil
}
