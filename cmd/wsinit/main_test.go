package main

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestRootCommandListsSubcommands(t *testing.T) {
	cmd := newRootCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	for _, name := range []string{"run", "doctor", "env", "status"} {
		assert.Contains(t, out.String(), name)
	}
}

func TestRootCommandRejectsUnknownSubcommand(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"nonsense"})

	assert.Error(t, cmd.Execute())
}

func TestSubcommandsRejectPositionalArgs(t *testing.T) {
	for _, sub := range []string{"run", "doctor", "env", "status"} {
		t.Run(sub, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetOut(io.Discard)
			cmd.SetErr(io.Discard)
			cmd.SetArgs([]string{sub, "unexpected"})

			assert.Error(t, cmd.Execute())
		})
	}
}
