// Package execx runs external package-manager commands behind a capability
// interface, so pipelines can be tested with a fake runner that records
// argument vectors instead of spawning processes.
package execx

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
)

// Command is one subprocess invocation: an argument vector executed in a
// working directory with an explicit environment.
type Command struct {
	// Argv is the full argument vector; Argv[0] is the executable.
	Argv []string

	// Dir is the working directory for the child process.
	Dir string

	// Env is the complete child environment in "KEY=value" form.
	// Nil means inherit the host environment.
	Env []string
}

// String renders the command for log and error messages.
func (c Command) String() string {
	return strings.Join(c.Argv, " ")
}

// CommandRunner executes commands in sequence on behalf of the bridge.
type CommandRunner interface {
	// Run executes cmd and blocks until it exits. A non-zero exit status or
	// a missing executable is returned as an error.
	Run(ctx context.Context, cmd Command) error
}

// Runner is the real CommandRunner backed by os/exec.
//
// Child output streams to Stdout/Stderr as the command runs; build tools
// want package-manager output visible, not captured and dropped.
type Runner struct {
	// Stdout and Stderr receive child output. Nil defaults to the host
	// process streams.
	Stdout io.Writer
	Stderr io.Writer

	// Log receives one entry per executed command.
	Log zerolog.Logger
}

// Run executes cmd, blocking until it exits or ctx is cancelled.
// On cancellation the entire child process group is killed.
func (r *Runner) Run(ctx context.Context, cmd Command) error {
	if len(cmd.Argv) == 0 {
		return fmt.Errorf("execx: empty argument vector")
	}
	if cmd.Argv[0] == "" {
		return fmt.Errorf("execx: empty executable name")
	}

	c := exec.Command(cmd.Argv[0], cmd.Argv[1:]...)
	c.Dir = cmd.Dir
	c.Env = cmd.Env
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}

	// Own process group so cancellation can kill the whole child tree.
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	r.Log.Info().Str("dir", cmd.Dir).Str("command", cmd.String()).Msg("running package manager command")

	if err := c.Start(); err != nil {
		return fmt.Errorf("execx: start %q: %w", cmd.String(), err)
	}

	done := make(chan error, 1)
	go func() {
		done <- c.Wait()
	}()

	select {
	case <-ctx.Done():
		if c.Process != nil {
			_ = syscall.Kill(-c.Process.Pid, syscall.SIGKILL)
		}
		<-done
		return fmt.Errorf("execx: %q cancelled: %w", cmd.String(), ctx.Err())
	case err := <-done:
		if err != nil {
			if exitErr, ok := err.(*exec.ExitError); ok {
				return fmt.Errorf("execx: %q exited with status %d", cmd.String(), exitErr.ExitCode())
			}
			return fmt.Errorf("execx: run %q: %w", cmd.String(), err)
		}
	}
	return nil
}
