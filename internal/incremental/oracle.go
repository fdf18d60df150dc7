package incremental

import "github.com/detentsh/driver/internal/job"

// Oracle is the external policy object the executor consults
// throughout a build. Its internal fine-grained dependency model lives
// outside this driver; only the interface by which the executor asks
// "may this job be skipped" and "what further jobs does this completed
// job unlock" is defined here.
type Oracle interface {
	// CanSkip reports whether j (a post-compile job: merge-modules,
	// link, autolink-extract, …) may be skipped given prior build
	// state. Only consulted when no compile ran this build.
	CanSkip(j *job.Job) bool

	// AdditionalJobs returns jobs to insert into the graph after
	// finished has completed successfully. Returning nil is always
	// valid and means "nothing further unlocked".
	AdditionalJobs(finished *job.Job, g *job.Graph) []*job.Job
}

// NullOracle never skips anything and never contributes additional
// jobs; it is the Oracle used by an All-jobs Workload, where every
// planned job is mandatory by construction.
type NullOracle struct{}

func (NullOracle) CanSkip(*job.Job) bool { return false }
func (NullOracle) AdditionalJobs(*job.Job, *job.Graph) []*job.Job { return nil }

// WorkloadKind discriminates the two Workload variants.
type WorkloadKind int

const (
	WorkloadAll WorkloadKind = iota
	WorkloadIncremental
)

// Workload is what the planner hands the executor: either every
// planned job must run (All), or a split between jobs that must run
// this invocation (Mandatory) and jobs gated on "did any compile run"
// (PostCompile), consulting Oracle throughout.
type Workload struct {
	Kind WorkloadKind

	All []*job.Job

	Mandatory   []*job.Job
	PostCompile []*job.Job
	Oracle      Oracle

	// ContinueOnError: when false, the first job failure cancels the
	// build; when true, failures are recorded but do not gate
	// unrelated work except through the producer map.
	ContinueOnError bool
}

// NewAllWorkload builds a Workload where every job in jobs is
// mandatory.
func NewAllWorkload(jobs []*job.Job, continueOnError bool) Workload {
	return Workload{Kind: WorkloadAll, All: jobs, ContinueOnError: continueOnError}
}

// NewIncrementalWorkload builds a Workload split into mandatory and
// post-compile phases, consulting oracle.
func NewIncrementalWorkload(mandatory, postCompile []*job.Job, oracle Oracle, continueOnError bool) Workload {
	return Workload{
		Kind:            WorkloadIncremental,
		Mandatory:       mandatory,
		PostCompile:     postCompile,
		Oracle:          oracle,
		ContinueOnError: continueOnError,
	}
}

// Jobs returns every job this Workload may run, mandatory jobs first,
// used by the executor to snapshot input modification times across the
// whole planned set regardless of which phase a job belongs to.
func (w Workload) Jobs() []*job.Job {
	switch w.Kind {
	case WorkloadAll:
		return w.All
	case WorkloadIncremental:
		out := make([]*job.Job, 0, len(w.Mandatory)+len(w.PostCompile))
		out = append(out, w.Mandatory...)
		out = append(out, w.PostCompile...)
		return out
	default:
		return nil
	}
}
