package main

import (
	"fmt"
	"os"

	"github.com/detentsh/driver/cmd"
	"github.com/detentsh/driver/internal/telemetry"
	"github.com/detentsh/driver/internal/tui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Defers execute in LIFO order: RecoverAndPanic is deferred first so
	// it executes last, letting cleanup() flush events before re-panic.
	defer telemetry.RecoverAndPanic()
	cleanup := telemetry.Init(cmd.Version)
	defer cleanup()

	if err := cmd.Execute(os.Args[0], os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, tui.ExitError(err.Error()))
		return cmd.ExitCode(err)
	}
	return 0
}
