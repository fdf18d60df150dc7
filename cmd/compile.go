package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/detentsh/driver/internal/argsresolver"
	"github.com/detentsh/driver/internal/config"
	"github.com/detentsh/driver/internal/executor"
	"github.com/detentsh/driver/internal/incremental"
	"github.com/detentsh/driver/internal/job"
	"github.com/detentsh/driver/internal/ofm"
	"github.com/detentsh/driver/internal/option"
	"github.com/detentsh/driver/internal/planner"
	"github.com/detentsh/driver/internal/progress"
	"github.com/detentsh/driver/internal/signal"
	"github.com/detentsh/driver/internal/telemetry"
	"github.com/detentsh/driver/internal/timepoint"
	"github.com/detentsh/driver/internal/triple"
	"github.com/detentsh/driver/internal/tui"
	"github.com/detentsh/driver/internal/vpath"
)

var compileCmd = &cobra.Command{
	Use:     "compile [options] <inputs>",
	Aliases: []string{"swiftc"},
	Short:   "Compile Swift sources into objects, modules, and executables",
	// The compiler option surface (-emit-module, -o, -I, ...) uses
	// single-dash long spellings cobra cannot represent, so tokens pass
	// through untouched to the driver's own longest-prefix parser.
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompile(cmd.Context(), args, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// invocation carries everything a planned compile shares between the
// compile and graph subcommands.
type invocation struct {
	opts   []option.ParsedOption
	cache  *vpath.Cache
	cfg    *config.Config
	result *planner.Result
	cwd    string
}

// planInvocation parses args and plans the job graph, or reports that
// the invocation was fully handled (help/version) with handled=true.
func planInvocation(args []string, out io.Writer) (inv *invocation, handled bool, err error) {
	table := option.NewTable()
	opts, err := option.Parse(args, option.ModeBatchCompile, table)
	if err != nil {
		return nil, false, err
	}

	switch {
	case option.Has(opts, option.IDHelp):
		fmt.Fprint(out, table.RenderHelp(option.ModeBatchCompile, false))
		return nil, true, nil
	case option.Has(opts, option.IDHelpHidden):
		fmt.Fprint(out, table.RenderHelp(option.ModeBatchCompile, true))
		return nil, true, nil
	case option.Has(opts, option.IDVersion):
		fmt.Fprintf(out, "swift-driver version %s\n", Version)
		return nil, true, nil
	}

	// SDKROOT supplies the SDK when no -sdk flag is given.
	if !option.Has(opts, option.IDSDK) {
		if sdk := os.Getenv("SDKROOT"); sdk != "" {
			opts = append(opts, option.ParsedOption{ID: option.IDSDK, Spelling: "-sdk", Kind: option.GenSeparate, Value: sdk})
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, false, fmt.Errorf("resolving working directory: %w", err)
	}

	cfg, err := config.Load(cwd, runtime.NumCPU())
	if err != nil {
		return nil, false, err
	}

	target := triple.Parse(hostTriple())
	if v, ok := option.Get(opts, option.IDTarget); ok {
		target = triple.Parse(v.Value)
	}
	telemetry.SetTag("target", target.Raw())

	var outputMap *ofm.Map
	if v, ok := option.Get(opts, option.IDOutputFileMap); ok {
		outputMap, err = ofm.Load(v.Value)
		if err != nil {
			return nil, false, err
		}
	}

	var batchSeed uint64
	if v, ok := option.Get(opts, option.IDDriverBatchSeed); ok {
		batchSeed, err = strconv.ParseUint(v.Value, 10, 64)
		if err != nil {
			return nil, false, fmt.Errorf("invalid -driver-batch-seed %q: %w", v.Value, err)
		}
	}

	cache := vpath.New()
	req := planner.Request{
		Target:            target,
		WorkDir:           cwd,
		Toolchain:         planner.PathToolchain{SwiftExecOverride: os.Getenv("SWIFT_EXEC")},
		BatchSeed:         batchSeed,
		FilelistThreshold: cfg.FilelistThreshold,
		OutputFileMap:     outputMap,
	}
	result, err := planner.Plan(opts, cache, req)
	if err != nil {
		telemetry.CaptureError(err)
		return nil, false, err
	}
	telemetry.AddBreadcrumb("plan", fmt.Sprintf("planned %d jobs for module %s", len(result.Graph.Jobs), result.ModuleName))

	return &invocation{opts: opts, cache: cache, cfg: cfg, result: result, cwd: cwd}, false, nil
}

func runCompile(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	inv, handled, err := planInvocation(args, stdout)
	if handled || err != nil {
		return err
	}

	forceResponseFiles := inv.cfg.ForceResponseFiles || option.Has(inv.opts, option.IDForceResponseFiles)
	frontendParseable := option.Has(inv.opts, option.IDUseFrontendParseableOutput)
	for _, j := range inv.result.Graph.Jobs {
		if forceResponseFiles && j.SupportsResponseFiles == job.ResponseFilesSupported {
			j.SupportsResponseFiles = job.ResponseFilesForced
		}
		if frontendParseable && j.Kind == job.KindCompile {
			if j.ExtraEnv == nil {
				j.ExtraEnv = make(map[string]string)
			}
			j.ExtraEnv["SWIFT_DRIVER_FRONTEND_PARSEABLE_OUTPUT"] = "1"
			j.ArgTemplate = append(j.ArgTemplate, job.Lit("-use-frontend-parseable-output"))
		}
	}

	saveTemps := inv.cfg.SaveTemps || option.Has(inv.opts, option.IDSaveTemps)
	tempDir, err := os.MkdirTemp("", "swift-driver-")
	if err != nil {
		return fmt.Errorf("creating temp directory: %w", err)
	}
	if !saveTemps {
		defer os.RemoveAll(tempDir)
	}

	resolver := argsresolver.New(inv.cache, tempDir, 0)

	verbose := option.Has(inv.opts, option.IDVerbose)
	printOnly := option.Has(inv.opts, option.IDDriverPrintJobs) // -###
	if verbose || printOnly {
		echoTo := stderr
		if printOnly {
			echoTo = stdout
		}
		order, err := inv.result.Graph.TopoSort()
		if err != nil {
			return err
		}
		for _, idx := range order {
			resolved, err := resolver.Resolve(inv.result.Graph.Jobs[idx])
			if err != nil {
				return err
			}
			fmt.Fprintln(echoTo, argsresolver.EchoCommand(resolved))
		}
		if printOnly {
			return nil
		}
	}

	parallel := inv.cfg.NumParallelJobs
	if v, ok := option.Get(inv.opts, option.IDParallelJobs); ok {
		n, err := strconv.Atoi(v.Value)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid -j value %q", v.Value)
		}
		parallel = n
	}

	parseable := option.Has(inv.opts, option.IDParseableOutput)
	progressOut := io.Discard
	if parseable {
		progressOut = stdout
	}
	reporter := progress.NewReporter(progressOut)
	if frontendParseable {
		reporter.SetUseFrontendParseableOutput(true)
	}

	continueOnError := option.Has(inv.opts, option.IDContinueBuildingAfterErrors)
	var mandatory, postCompile []*job.Job
	for _, j := range inv.result.Graph.Jobs {
		if j.Kind.IsPostCompile() {
			postCompile = append(postCompile, j)
		} else {
			mandatory = append(mandatory, j)
		}
	}

	oracle := incremental.Oracle(incremental.NullOracle{})
	var skipped []*job.Job
	if option.Has(inv.opts, option.IDIncremental) {
		record, recErr := incremental.Load(buildRecordPath(inv))
		if recErr != nil {
			// Corrupt or version-mismatched records fall back to a full
			// build rather than aborting.
			fmt.Fprintf(stderr, "%s %s\n",
				tui.WarningStyle.Render("!"), tui.MutedStyle.Render(recErr.Error()))
		} else {
			mandatory, skipped = partitionStale(mandatory, record, inv.cache)
			oracle = &recordOracle{allClean: len(skipped) > 0 && !anyCompiles(mandatory)}
		}
	}
	workload := incremental.NewIncrementalWorkload(mandatory, postCompile, oracle, continueOnError)

	ex := executor.New(inv.result.Graph, executor.Options{
		NumParallelJobs: parallel,
		Cache:           inv.cache,
		Resolver:        resolver,
		Reporter:        reporter,
	})
	runErr := ex.Run(ctx, workload)
	if ctx.Err() != nil {
		signal.PrintCancellationMessage("swift-driver")
	}

	// Skipped records are emitted at build end, not at schedule time.
	for _, j := range skipped {
		_ = reporter.Skipped(j)
	}

	if runErr == nil {
		if err := writeBuildRecord(inv); err != nil {
			fmt.Fprintf(stderr, "%s could not save build record: %s\n",
				tui.WarningStyle.Render("!"), tui.MutedStyle.Render(err.Error()))
		}
	}

	if !parseable {
		printSummary(stderr, inv, runErr)
	}
	if runErr != nil {
		telemetry.CaptureError(runErr)
	}
	return runErr
}

// recordOracle is the coarse, whole-build staleness policy backed by
// the previous invocation's build record: when every compile came out
// clean, post-compile jobs may be vetoed too. The fine-grained
// dependency oracle is an external collaborator; this one only answers
// the two interface questions from prior-mtime state.
type recordOracle struct {
	allClean bool
}

func (o *recordOracle) CanSkip(*job.Job) bool                          { return o.allClean }
func (o *recordOracle) AdditionalJobs(*job.Job, *job.Graph) []*job.Job { return nil }

// partitionStale splits the mandatory set into jobs that must run and
// compile jobs whose every source input is unchanged since the record
// was written. Non-compile jobs are never skipped here; they are cheap
// relative to a frontend run and their staleness is not input-driven.
func partitionStale(jobs []*job.Job, record *incremental.Record, cache *vpath.Cache) (mandatory, skipped []*job.Job) {
	for _, j := range jobs {
		if j.Kind == job.KindCompile && jobIsClean(j, record, cache) {
			skipped = append(skipped, j)
			continue
		}
		mandatory = append(mandatory, j)
	}
	return mandatory, skipped
}

func jobIsClean(j *job.Job, record *incremental.Record, cache *vpath.Cache) bool {
	sources := 0
	for _, in := range j.Inputs {
		if !in.Type.IsPartOfSwiftCompilation() {
			continue
		}
		sources++
		path := cache.Lookup(in.Handle).String()
		mtime, err := timepoint.ForPath(path)
		if err != nil || record.StaleAgainst(path, mtime) {
			return false
		}
	}
	return sources > 0
}

func anyCompiles(jobs []*job.Job) bool {
	for _, j := range jobs {
		if j.Kind == job.KindCompile {
			return true
		}
	}
	return false
}

// writeBuildRecord persists each source input's mtime so the next
// invocation's incremental oracle has a baseline to compare against.
func writeBuildRecord(inv *invocation) error {
	record := incremental.NewRecord()
	seen := make(map[string]bool)
	for _, j := range inv.result.Graph.Jobs {
		for _, in := range j.Inputs {
			if !in.Type.IsPartOfSwiftCompilation() {
				continue
			}
			path := inv.cache.Lookup(in.Handle).String()
			if seen[path] {
				continue
			}
			seen[path] = true
			mtime, err := timepoint.ForPath(path)
			if err != nil {
				continue
			}
			record.Note(path, mtime, "")
		}
	}
	return incremental.Save(buildRecordPath(inv), record)
}

func buildRecordPath(inv *invocation) string {
	return filepath.Join(inv.cwd, "."+inv.result.ModuleName+".build-record.yaml")
}

func printSummary(stderr io.Writer, inv *invocation, runErr error) {
	jobs := len(inv.result.Graph.Jobs)
	if runErr == nil {
		fmt.Fprintf(stderr, "%s %s %s\n",
			tui.StatusIcon(true),
			tui.BoldStyle.Render(inv.result.ModuleName),
			tui.MutedStyle.Render(fmt.Sprintf("(%d jobs)", jobs)))
		return
	}
	fmt.Fprintf(stderr, "%s %s %s\n",
		tui.StatusIcon(false),
		tui.BoldStyle.Render(inv.result.ModuleName),
		tui.MutedStyle.Render("(use -v to see invocations)"))
}

// hostTriple derives the default target when no -target flag is given.
func hostTriple() string {
	arch := map[string]string{
		"amd64": "x86_64",
		"arm64": "aarch64",
		"386":   "i386",
	}[runtime.GOARCH]
	if arch == "" {
		arch = runtime.GOARCH
	}
	switch runtime.GOOS {
	case "darwin":
		if arch == "aarch64" {
			arch = "arm64"
		}
		return arch + "-apple-macosx"
	case "windows":
		return arch + "-unknown-windows-msvc"
	default:
		return arch + "-unknown-linux-gnu"
	}
}
