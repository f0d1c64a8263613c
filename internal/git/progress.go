package git

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// progressWriter reformats git's clone progress stream. Git rewrites its
// transfer lines in place with carriage returns; this writer emits only the
// lines worth keeping, each prefixed for the step output.
type progressWriter struct {
	prefix string
	w      io.Writer
	last   string
}

var (
	// Receiving objects:  67% (35484/52960), 236.76 MiB | 78.92 MiB/s
	transferRegex = regexp.MustCompile(`(Receiving objects|Resolving deltas):\s*(\d+)%`)
)

func newProgressWriter(prefix string, w io.Writer) *progressWriter {
	return &progressWriter{prefix: prefix, w: w}
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	for _, line := range strings.FieldsFunc(string(p), func(r rune) bool { return r == '\n' || r == '\r' }) {
		line = strings.TrimPrefix(strings.TrimSpace(line), "remote: ")
		if line == "" || strings.HasPrefix(line, "Cloning into") {
			continue
		}

		if matches := transferRegex.FindStringSubmatch(line); matches != nil {
			// Emit each transfer phase once at completion, not every rewrite.
			if matches[2] != "100" {
				continue
			}
			line = fmt.Sprintf("%s: done", matches[1])
		}

		if line == pw.last {
			continue
		}
		pw.last = line
		fmt.Fprintf(pw.w, "%s%s\n", pw.prefix, line)
	}
	return len(p), nil
}
