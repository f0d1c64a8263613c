package progress

import (
	"fmt"
	"io"
	"time"
)

// Tracker interface defines methods for tracking bootstrap step progress
type Tracker interface {
	Start(step string)
	Complete()
	Skip(reason string)
	Error(err error)
}

// Step statuses
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusSkipped    = "skipped"
	StatusFailed     = "failed"
)

// Step represents one tracked bootstrap step
type Step struct {
	Name      string
	Status    string
	Reason    string
	StartTime time.Time
}

// DefaultTracker records steps without producing output
type DefaultTracker struct {
	Steps []Step
}

func (t *DefaultTracker) current() *Step {
	if len(t.Steps) == 0 {
		return nil
	}
	return &t.Steps[len(t.Steps)-1]
}

// Start begins tracking a new step
func (t *DefaultTracker) Start(step string) {
	t.Steps = append(t.Steps, Step{
		Name:      step,
		Status:    StatusInProgress,
		StartTime: time.Now(),
	})
}

// Complete marks the current step as completed
func (t *DefaultTracker) Complete() {
	if step := t.current(); step != nil {
		step.Status = StatusCompleted
	}
}

// Skip marks the current step as skipped
func (t *DefaultTracker) Skip(reason string) {
	if step := t.current(); step != nil {
		step.Status = StatusSkipped
		step.Reason = reason
	}
}

// Error marks the current step as failed
func (t *DefaultTracker) Error(err error) {
	if step := t.current(); step != nil {
		step.Status = StatusFailed
		if err != nil {
			step.Reason = err.Error()
		}
	}
}

// ConsoleTracker implements Tracker for console output
type ConsoleTracker struct {
	Out     io.Writer
	started time.Time
	name    string
}

// NewConsoleTracker creates a console-based step tracker
func NewConsoleTracker(out io.Writer) *ConsoleTracker {
	return &ConsoleTracker{Out: out}
}

// Start begins tracking a new step
func (t *ConsoleTracker) Start(step string) {
	t.name = step
	t.started = time.Now()
	fmt.Fprintf(t.Out, "==> %s\n", step)
}

// Complete marks the current step as completed
func (t *ConsoleTracker) Complete() {
	fmt.Fprintf(t.Out, "    ok (%v)\n", time.Since(t.started).Round(time.Millisecond))
}

// Skip marks the current step as skipped
func (t *ConsoleTracker) Skip(reason string) {
	fmt.Fprintf(t.Out, "    skipped: %s\n", reason)
}

// Error marks the current step as failed
func (t *ConsoleTracker) Error(err error) {
	fmt.Fprintf(t.Out, "    failed: %v\n", err)
}
