package executor

import "context"

// ProcessResult is what a ProcessRunner reports back about one
// completed (or terminated) invocation.
type ProcessResult struct {
	PID      int
	ExitCode int
	// Signal is nonzero when the process was terminated by a signal
	// (e.g. the graceful-shutdown escalation below) rather than
	// exiting normally.
	Signal int
	Output string
}

// ProcessRunner executes argv (argv[0] is the executable) with the
// given extra environment variables merged over the driver's own
// environment, honoring ctx cancellation with a graceful-shutdown
// escalation. onStart is invoked with the real OS pid as soon as the
// process has started, so the caller can report a "began" event
// without waiting for completion. Exposed as a function type so tests
// can substitute a fake without spawning real processes.
type ProcessRunner func(ctx context.Context, argv []string, extraEnv map[string]string, onStart func(pid int)) (*ProcessResult, error)
