package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/detentsh/driver/internal/argsresolver"
	"github.com/detentsh/driver/internal/executor"
	"github.com/detentsh/driver/internal/filetype"
	"github.com/detentsh/driver/internal/incremental"
	"github.com/detentsh/driver/internal/job"
	"github.com/detentsh/driver/internal/option"
	"github.com/detentsh/driver/internal/planner"
	"github.com/detentsh/driver/internal/progress"
	"github.com/detentsh/driver/internal/vpath"
)

// The specialized driver personalities each wrap exactly one external
// tool invocation. They still go through the planner's Toolchain, the
// ArgsResolver, and the executor so mode-specific behavior (response
// files, progress records, signal handling) stays uniform with compile.

var frontendCmd = &cobra.Command{
	Use:                "frontend [frontend-options]",
	Short:              "Pass arguments through to a single frontend invocation",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		tool, err := planner.PathToolchain{SwiftExecOverride: os.Getenv("SWIFT_EXEC")}.Frontend()
		if err != nil {
			return err
		}
		return runPassthrough(cmd.Context(), tool, job.KindFrontendPassthrough,
			append([]string{"-frontend"}, args...))
	},
}

var indentCmd = &cobra.Command{
	Use:                "indent [options] <inputs>",
	Short:              "Reformat Swift source files",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		tool, err := planner.PathToolchain{}.Indent()
		if err != nil {
			return err
		}
		return runPassthrough(cmd.Context(), tool, job.KindIndent, args)
	},
}

var autolinkExtractCmd = &cobra.Command{
	Use:                "autolink-extract [options] <objects>",
	Short:              "Extract autolink metadata from object files",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSingleToolMode(cmd.Context(), args, option.ModeAutolinkExtract,
			job.KindAutolinkExtract, filetype.Object, filetype.Autolink,
			func(t planner.Toolchain) (string, error) { return t.AutolinkExtractTool() },
			cmd.OutOrStdout())
	},
}

var moduleWrapCmd = &cobra.Command{
	Use:                "module-wrap [options] <module>",
	Short:              "Wrap a .swiftmodule into an object file for debug info",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSingleToolMode(cmd.Context(), args, option.ModuleWrap,
			job.KindModuleWrap, filetype.SwiftModule, filetype.Object,
			func(t planner.Toolchain) (string, error) { return t.ModuleWrapTool() },
			cmd.OutOrStdout())
	},
}

// runPassthrough executes one job whose argv is args verbatim. The
// tool writes its results to the paths named in its own argv, so there
// is nothing for the driver to copy to stdout.
func runPassthrough(ctx context.Context, tool string, kind job.Kind, args []string) error {
	cache := vpath.New()
	pieces := make([]job.ArgPiece, 0, len(args))
	for _, a := range args {
		pieces = append(pieces, job.Lit(a))
	}
	j := &job.Job{
		Kind:        kind,
		DisplayName: kind.String(),
		Tool:        cache.Intern(tool),
		ArgTemplate: pieces,
	}
	return runOneJob(ctx, cache, j)
}

// runSingleToolMode parses args under mode's option subset, builds one
// job from the positional inputs and -o output, and runs it.
func runSingleToolMode(
	ctx context.Context,
	args []string,
	mode option.DriverMode,
	kind job.Kind,
	inType, outType filetype.FileType,
	toolOf func(planner.Toolchain) (string, error),
	stdout io.Writer,
) error {
	table := option.NewTable()
	opts, err := option.Parse(args, mode, table)
	if err != nil {
		return err
	}
	if option.Has(opts, option.IDHelp) {
		fmt.Fprint(stdout, table.RenderHelp(mode, false))
		return nil
	}

	inputs := option.Inputs(opts)
	if len(inputs) == 0 {
		return &planner.NoInputsError{}
	}

	tool, err := toolOf(planner.PathToolchain{})
	if err != nil {
		return err
	}

	cache := vpath.New()
	j := &job.Job{
		Kind:           kind,
		DisplayName:    kind.String(),
		Tool:           cache.Intern(tool),
		RequiresInputs: true,
	}
	for _, in := range inputs {
		tv := cache.InternTyped(in, inType)
		j.Inputs = append(j.Inputs, tv)
		j.ArgTemplate = append(j.ArgTemplate, job.PathArg(tv.Handle, ""))
	}
	if v, ok := option.Get(opts, option.IDOutput); ok {
		out := cache.InternTyped(v.Value, outType)
		j.Outputs = append(j.Outputs, out)
		j.ArgTemplate = append(j.ArgTemplate, job.Lit("-o"), job.PathArg(out.Handle, ""))
	}
	return runOneJob(ctx, cache, j)
}

func runOneJob(ctx context.Context, cache *vpath.Cache, j *job.Job) error {
	graph := job.NewGraph()
	if _, err := graph.Add(j); err != nil {
		return err
	}
	tempDir, err := os.MkdirTemp("", "swift-driver-")
	if err != nil {
		return fmt.Errorf("creating temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	ex := executor.New(graph, executor.Options{
		NumParallelJobs: 1,
		Cache:           cache,
		Resolver:        argsresolver.New(cache, tempDir, 0),
		Reporter:        progress.NewReporter(io.Discard),
	})
	return ex.Run(ctx, incremental.NewAllWorkload(graph.Jobs, false))
}
