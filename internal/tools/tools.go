// Package tools performs the external tool preflight check.
package tools

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/robokits/go-wstools/internal/errors"
)

// lookPath is a variable so it can be mocked in tests
var lookPath = exec.LookPath

// Tool describes the lookup result for one required external tool
type Tool struct {
	Name  string
	Path  string
	Found bool
}

// Check resolves each named tool on PATH and reports the result.
// It never fails; callers decide what a missing tool means.
func Check(names []string) []Tool {
	results := make([]Tool, 0, len(names))
	for _, name := range names {
		path, err := lookPath(name)
		results = append(results, Tool{
			Name:  name,
			Path:  path,
			Found: err == nil,
		})
	}
	return results
}

// Verify returns an error naming every required tool missing from PATH
func Verify(names []string) error {
	var missing []string
	for _, tool := range Check(names) {
		if !tool.Found {
			missing = append(missing, tool.Name)
		}
	}
	if len(missing) > 0 {
		return errors.New("tool-preflight", fmt.Errorf("required tools not found on PATH: %s", strings.Join(missing, ", ")))
	}
	return nil
}
