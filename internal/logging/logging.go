// Package logging configures the structured logger shared by wsinit commands.
package logging

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// New creates the logger used by wsinit commands. When stderr is a terminal
// it uses a text handler for human-readable output; when stderr is piped or
// redirected (CI, provisioning scripts) it switches to JSON so the output
// stays machine-parseable.
//
// Callers scope the logger with command context via With():
//
//	logger := logging.New(verbose).With("command", "run")
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	options := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}
