// Package cmd wires the driver's personalities onto a cobra command
// tree. The driver modes (swiftc batch compilation, frontend
// passthrough, autolink-extract, indent, module-wrap) are subcommands;
// Execute maps the historical argv[0]-suffix and --driver-mode= mode
// selection onto them before dispatch so both spellings keep working.
package cmd

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/detentsh/driver/internal/executor"
	"github.com/detentsh/driver/internal/signal"
	"github.com/detentsh/driver/internal/telemetry"
)

// Version is stamped by the release build via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "swift-driver",
	Short: "Plan and execute Swift compilation pipelines",
	Long: `swift-driver translates a high-level compile request into a dependency
graph of frontend, linker, and tool invocations, then executes that
graph with bounded parallelism, incremental reuse, and parseable
progress output.

The compiler options themselves (-emit-module, -o, -target, ...) belong
to each subcommand and are parsed by the driver's own option table, not
by this command tree; run 'swift-driver compile -help' for the full
listing.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		telemetry.SetTag("mode", cmd.Name())
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(frontendCmd)
	rootCmd.AddCommand(autolinkExtractCmd)
	rootCmd.AddCommand(indentCmd)
	rootCmd.AddCommand(moduleWrapCmd)
	rootCmd.AddCommand(graphCmd)
}

// Execute dispatches argv, honoring the two historical mode-selection
// spellings before cobra sees the arguments: the invoked binary's name
// (a swiftc symlink compiles, a swift-modulewrap symlink wraps) and an
// explicit --driver-mode= first argument.
func Execute(argv0 string, args []string) error {
	ctx := signal.SetupSignalHandler(context.Background())
	rootCmd.SetArgs(normalizeArgs(argv0, args))
	return rootCmd.ExecuteContext(ctx)
}

// modeForSuffix maps an argv[0] basename suffix or --driver-mode=
// value to the subcommand that implements it. Ordering matters:
// longer, more specific suffixes come first so "swift-autolink-extract"
// is not swallowed by a bare "swift" match.
var modeForSuffix = []struct {
	suffix, command string
}{
	{"swift-autolink-extract", "autolink-extract"},
	{"swift-modulewrap", "module-wrap"},
	{"swift-indent", "indent"},
	{"swiftc", "compile"},
}

func normalizeArgs(argv0 string, args []string) []string {
	if len(args) > 0 {
		if mode, ok := strings.CutPrefix(args[0], "--driver-mode="); ok {
			return append([]string{commandForMode(mode)}, args[1:]...)
		}
		if args[0] == "-frontend" {
			return append([]string{"frontend"}, args[1:]...)
		}
	}

	base := filepath.Base(argv0)
	base = strings.TrimSuffix(base, ".exe")
	for _, m := range modeForSuffix {
		if strings.HasSuffix(base, m.suffix) {
			return append([]string{m.command}, args...)
		}
	}
	return args
}

func commandForMode(mode string) string {
	switch mode {
	case "swiftc":
		return "compile"
	case "swift-autolink-extract":
		return "autolink-extract"
	case "swift-indent":
		return "indent"
	case "swift-modulewrap":
		return "module-wrap"
	default:
		return mode
	}
}

// ExitCode classifies err per the documented contract: 0 success, 1 a
// job failed (including the input-modified-during-build guard), 2
// driver-internal errors (bad arguments, plan cycle, missing tool).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var jobFailure *executor.JobFailure
	var inputModified *executor.InputUnexpectedlyModifiedError
	if errors.As(err, &jobFailure) || errors.As(err, &inputModified) {
		return 1
	}
	return 2
}
