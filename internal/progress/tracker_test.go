package progress

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTracker(t *testing.T) {
	tracker := &DefaultTracker{}

	tracker.Start("ssh authentication")
	tracker.Complete()

	tracker.Start("clone repository")
	tracker.Skip("existing clone kept")

	tracker.Start("patch shell profile")
	tracker.Error(fmt.Errorf("permission denied"))

	require.Len(t, tracker.Steps, 3)
	assert.Equal(t, StatusCompleted, tracker.Steps[0].Status)
	assert.Equal(t, StatusSkipped, tracker.Steps[1].Status)
	assert.Equal(t, "existing clone kept", tracker.Steps[1].Reason)
	assert.Equal(t, StatusFailed, tracker.Steps[2].Status)
	assert.Equal(t, "permission denied", tracker.Steps[2].Reason)
}

func TestDefaultTrackerWithoutStart(t *testing.T) {
	tracker := &DefaultTracker{}
	// must not panic
	tracker.Complete()
	tracker.Skip("nothing")
	tracker.Error(fmt.Errorf("boom"))
	assert.Empty(t, tracker.Steps)
}

func TestConsoleTracker(t *testing.T) {
	var out bytes.Buffer
	tracker := NewConsoleTracker(&out)

	tracker.Start("tool preflight")
	tracker.Complete()
	tracker.Start("clone repository")
	tracker.Skip("existing clone kept")
	tracker.Start("ssh authentication")
	tracker.Error(fmt.Errorf("no usable SSH identity found"))

	output := out.String()
	assert.Contains(t, output, "==> tool preflight")
	assert.Contains(t, output, "ok (")
	assert.Contains(t, output, "skipped: existing clone kept")
	assert.Contains(t, output, "failed: no usable SSH identity found")
}
