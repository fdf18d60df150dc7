// Package executor runs a planned job.Graph to completion: it honors
// the producer-map dependency order, bounds concurrency to a fixed
// worker count, and executes each Job as an external process with
// process-group isolation and graceful SIGTERM-then-SIGKILL shutdown
// on cancellation, reporting every state transition through a
// progress.Reporter and consulting an incremental.Oracle to decide
// whether post-compile work may be skipped.
package executor

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/detentsh/driver/internal/argsresolver"
	"github.com/detentsh/driver/internal/incremental"
	"github.com/detentsh/driver/internal/job"
	"github.com/detentsh/driver/internal/progress"
	"github.com/detentsh/driver/internal/vpath"
)

// Options configures an Executor.
type Options struct {
	// NumParallelJobs bounds how many Jobs may run their external
	// process concurrently. Values <= 0 are treated as 1.
	NumParallelJobs int

	Cache    *vpath.Cache
	Resolver *argsresolver.Resolver
	Reporter *progress.Reporter

	// Runner executes one resolved Job's command. Defaults to
	// runProcess (a real os/exec invocation) when nil; tests supply a
	// fake to avoid spawning real processes.
	Runner ProcessRunner
}

// Executor runs the Jobs in a job.Graph, respecting their producer-map
// dependencies and an incremental.Workload's mandatory/post-compile
// split.
type Executor struct {
	graph  *job.Graph
	opts   Options
	runner ProcessRunner
}

// New builds an Executor for graph.
func New(graph *job.Graph, opts Options) *Executor {
	if opts.NumParallelJobs <= 0 {
		opts.NumParallelJobs = 1
	}
	runner := opts.Runner
	if runner == nil {
		runner = runProcess
	}
	return &Executor{graph: graph, opts: opts, runner: runner}
}

// JobFailure records one Job's execution failure, keyed by its index
// in the Graph so callers can correlate it with Dependencies/producer
// lookups.
type JobFailure struct {
	JobIndex int
	Job      *job.Job
	Err      error
}

func (f *JobFailure) Error() string {
	return fmt.Sprintf("executor: job %q failed: %v", f.Job.DisplayName, f.Err)
}

// Run executes workload to completion. It returns the first failure
// when ContinueOnError is false (and stops scheduling further jobs
// whose inputs are not yet satisfied); when true it runs everything
// the dependency graph allows and returns a joined error of every
// failure observed.
//
// Before the first job starts, the modification time of every declared
// input is snapshotted; after the build loop drains, any input whose
// mtime changed is reported as InputUnexpectedlyModifiedError and
// fails the build regardless of job results. The check runs after
// post-compile jobs even under ContinueOnError.
func (e *Executor) Run(ctx context.Context, workload incremental.Workload) error {
	guard := snapshotInputs(e.graph, e.opts.Cache, workload.Jobs())
	err := e.run(ctx, workload)
	if merr := guard.verify(); merr != nil {
		if err == nil {
			return merr
		}
		return fmt.Errorf("%w; %v", err, merr)
	}
	return err
}

func (e *Executor) run(ctx context.Context, workload incremental.Workload) error {
	switch workload.Kind {
	case incremental.WorkloadAll:
		_, err := e.runPhase(ctx, workload.All, nil, workload.ContinueOnError)
		return err

	case incremental.WorkloadIncremental:
		ranCompile, err := e.runPhase(ctx, workload.Mandatory, workload.Oracle, workload.ContinueOnError)
		if err != nil && !workload.ContinueOnError {
			return err
		}

		postCompile := workload.PostCompile
		if !ranCompile {
			oracle := workload.Oracle
			if oracle == nil {
				oracle = incremental.NullOracle{}
			}
			var kept []*job.Job
			for _, j := range postCompile {
				if oracle.CanSkip(j) {
					if rerr := e.opts.Reporter.Skipped(j); rerr != nil && err == nil {
						err = rerr
					}
					continue
				}
				kept = append(kept, j)
			}
			postCompile = kept
		}

		_, perr := e.runPhase(ctx, postCompile, nil, workload.ContinueOnError)
		if perr != nil {
			if err == nil {
				err = perr
			} else {
				err = fmt.Errorf("%w; %v", err, perr)
			}
		}
		return err

	default:
		return fmt.Errorf("executor: unknown workload kind %v", workload.Kind)
	}
}

// runPhase runs jobs (a subset of e.graph's Jobs, matched by pointer
// identity) to completion, respecting dependencies among themselves.
// A dependency outside the subset is assumed already satisfied by an
// earlier phase. When oracle is non-nil, each successful completion
// may contribute additional jobs: they are added to the graph (so
// their outputs register in the producer map) and enqueued into this
// same phase. It reports
// whether any KindCompile job in the subset ran and succeeded (a
// compile job that failed, or was skipped by upstream failure, does
// not count) and the first or joined error per continueOnError.
func (e *Executor) runPhase(ctx context.Context, jobs []*job.Job, oracle incremental.Oracle, continueOnError bool) (ranCompile bool, err error) {
	if len(jobs) == 0 {
		return false, nil
	}

	indexOf := make(map[*job.Job]int, len(e.graph.Jobs))
	for i, j := range e.graph.Jobs {
		indexOf[j] = i
	}

	inSet := make(map[int]bool, len(jobs))
	for _, j := range jobs {
		inSet[indexOf[j]] = true
	}

	remaining := make(map[int]int, len(inSet))
	dependents := make(map[int][]int, len(inSet))
	var ready []int
	for idx := range inSet {
		deps := e.graph.Dependencies(idx)
		count := 0
		for _, d := range deps {
			if inSet[d] {
				count++
				dependents[d] = append(dependents[d], idx)
			}
		}
		remaining[idx] = count
		if count == 0 {
			ready = append(ready, idx)
		}
	}

	sem := semaphore.NewWeighted(int64(e.opts.NumParallelJobs))
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	failed := make(map[int]bool, len(inSet))
	var errs []error
	var wg sync.WaitGroup
	doneCh := make(chan int, len(inSet)+16)

	var schedule func(idx int)
	schedule = func(idx int) {
		wg.Add(1)
		go func() {
			defer wg.Done()

			mu.Lock()
			blocked := false
			for _, d := range e.graph.Dependencies(idx) {
				if inSet[d] && failed[d] {
					blocked = true
					break
				}
			}
			if blocked {
				failed[idx] = true
			}
			mu.Unlock()

			if blocked {
				doneCh <- idx
				return
			}

			if err := sem.Acquire(runCtx, 1); err != nil {
				mu.Lock()
				failed[idx] = true
				errs = append(errs, err)
				mu.Unlock()
				doneCh <- idx
				return
			}

			j := e.graph.Jobs[idx]
			runErr := e.runOne(ctx, j)
			sem.Release(1)

			mu.Lock()
			if runErr != nil {
				failed[idx] = true
				errs = append(errs, &JobFailure{JobIndex: idx, Job: j, Err: runErr})
				if !continueOnError {
					cancel()
				}
			} else if j.Kind == job.KindCompile {
				ranCompile = true
			}
			mu.Unlock()

			doneCh <- idx
		}()
	}

	for _, idx := range ready {
		schedule(idx)
	}

	pending := len(inSet)
	completedSet := make(map[int]bool, pending)
	for completed := 0; completed < pending; {
		idx := <-doneCh
		completed++
		completedSet[idx] = true
		for _, dep := range dependents[idx] {
			remaining[dep]--
			if remaining[dep] == 0 {
				schedule(dep)
			}
		}

		mu.Lock()
		succeeded := !failed[idx]
		mu.Unlock()
		if oracle == nil || !succeeded {
			continue
		}
		for _, nj := range oracle.AdditionalJobs(e.graph.Jobs[idx], e.graph) {
			newIdx, addErr := e.graph.Add(nj)
			if addErr != nil {
				mu.Lock()
				errs = append(errs, addErr)
				mu.Unlock()
				continue
			}
			inSet[newIdx] = true
			pending++
			count := 0
			for _, d := range e.graph.Dependencies(newIdx) {
				if inSet[d] && !completedSet[d] {
					count++
					dependents[d] = append(dependents[d], newIdx)
				}
			}
			remaining[newIdx] = count
			if count == 0 {
				schedule(newIdx)
			}
		}
	}

	wg.Wait()

	if len(errs) == 0 {
		return ranCompile, nil
	}
	if continueOnError {
		joined := errs[0]
		for _, e2 := range errs[1:] {
			joined = fmt.Errorf("%w; %v", joined, e2)
		}
		return ranCompile, joined
	}
	return ranCompile, errs[0]
}

// runOne resolves and executes a single Job, reporting its lifecycle
// through the configured progress.Reporter.
func (e *Executor) runOne(ctx context.Context, j *job.Job) error {
	resolved, err := e.opts.Resolver.Resolve(j)
	if err != nil {
		return fmt.Errorf("resolving args: %w", err)
	}

	pid := syntheticOrRealPID(j)

	var beganErr error
	onStart := func(realPID int) {
		beganErr = e.opts.Reporter.Began(j, e.opts.Cache, pid, realPID, resolved.Argv[0], resolved.Argv[1:])
	}

	result, runErr := e.runner(ctx, resolved.Argv, j.ExtraEnv, onStart)
	if beganErr != nil {
		return beganErr
	}
	realPID := 0
	if result != nil {
		realPID = result.PID
	}

	if runErr != nil {
		if result != nil && result.Signal != 0 {
			_ = e.opts.Reporter.Signalled(j, pid, realPID, result.Signal, runErr.Error(), result.Output)
			return fmt.Errorf("%s command failed due to signal %d: %w", j.DisplayName, result.Signal, runErr)
		}
		exitStatus := 1
		if result != nil {
			exitStatus = result.ExitCode
		}
		_ = e.opts.Reporter.Finished(j, pid, realPID, exitStatus, result.outputOrEmpty())
		return fmt.Errorf("%s command failed with exit code %d (use -v to see invocation): %w", j.DisplayName, exitStatus, runErr)
	}

	return e.opts.Reporter.Finished(j, pid, realPID, 0, result.outputOrEmpty())
}

// syntheticOrRealPID returns the progress-stream logical pid for j: a
// synthetic negative pid derived from its BatchIndex for every compile
// job, so each compile job reports a distinct logical pid, or 0 for
// every other kind. A compile job with several primaries reports one
// pid for all of them, not one per primary.
func syntheticOrRealPID(j *job.Job) int {
	if j.Kind == job.KindCompile {
		return progress.SyntheticPID(j.BatchIndex)
	}
	return 0
}

func (r *ProcessResult) outputOrEmpty() string {
	if r == nil {
		return ""
	}
	return r.Output
}
