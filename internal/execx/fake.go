package execx

import (
	"context"
	"fmt"
)

// RecordingRunner is a CommandRunner that records every invocation instead
// of spawning processes. Useful for testing bridge wiring and failure
// propagation.
type RecordingRunner struct {
	// Commands holds every command passed to Run, in order.
	Commands []Command

	// FailAt, when >= 0, makes the FailAt-th Run call (zero-based) return
	// an error, emulating a non-zero exit.
	FailAt int

	// Err overrides the error returned on failure.
	Err error
}

// NewRecordingRunner creates a fake runner that never fails.
func NewRecordingRunner() *RecordingRunner {
	return &RecordingRunner{FailAt: -1}
}

// Run records cmd and fails if this call index matches FailAt.
func (r *RecordingRunner) Run(_ context.Context, cmd Command) error {
	index := len(r.Commands)
	r.Commands = append(r.Commands, cmd)
	if r.FailAt >= 0 && index == r.FailAt {
		if r.Err != nil {
			return r.Err
		}
		return fmt.Errorf("execx: %q exited with status 1", cmd.String())
	}
	return nil
}
