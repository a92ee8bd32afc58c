package cli

import (
	"context"

	"github.com/mwarren/staticforge/pkg/logger"
)

// Run is a high-level CLI entrypoint suitable for black-box tests.
// It accepts the argument slice (excluding argv[0]) and returns the semantic
// exit code plus any error.
func Run(ctx context.Context, args []string) (Result, error) {
	inv, err := ParseInvocation(args)
	if err != nil {
		return Result{ExitCode: exitCodeOf(err)}, err
	}

	level := inv.Config.LogLevel
	if inv.Verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Pretty: true})

	return Execute(ctx, inv, log)
}

func exitCodeOf(err error) int {
	if invErr, ok := err.(*InvocationError); ok {
		return invErr.ExitCode
	}
	return ExitInternalError
}
