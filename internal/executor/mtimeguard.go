package executor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/detentsh/driver/internal/job"
	"github.com/detentsh/driver/internal/timepoint"
	"github.com/detentsh/driver/internal/vpath"
)

// InputUnexpectedlyModifiedError reports inputs whose modification time
// changed while the build was running; the guard protects incremental
// state from being poisoned by concurrent edits. It is raised after the
// build loop completes and fails the build regardless of job results.
type InputUnexpectedlyModifiedError struct {
	Paths []string
}

func (e *InputUnexpectedlyModifiedError) Error() string {
	return fmt.Sprintf("executor: input file(s) modified during build: %s", strings.Join(e.Paths, ", "))
}

// mtimeGuard snapshots the modification time of every declared input
// before execution and re-checks them afterward.
type mtimeGuard struct {
	snapshot map[string]timepoint.TimePoint
}

// snapshotInputs records the mtime of every input of every job in jobs
// that exists on disk right now. Inputs produced by another job in the
// graph are the build's own intermediates and are excluded; so are
// temporaries, filelists, and the standard streams, none of which name
// a pre-existing file a user could be editing.
func snapshotInputs(g *job.Graph, cache *vpath.Cache, jobs []*job.Job) *mtimeGuard {
	guard := &mtimeGuard{snapshot: make(map[string]timepoint.TimePoint)}
	for _, j := range jobs {
		for _, in := range j.Inputs {
			if _, produced := g.ProducerOf(in.Handle); produced {
				continue
			}
			vp := cache.Lookup(in.Handle)
			if vp.IsTemporary() || vp.Kind == vpath.KindStandardInput || vp.Kind == vpath.KindStandardOutput {
				continue
			}
			path := vp.String()
			if _, seen := guard.snapshot[path]; seen {
				continue
			}
			tp, err := timepoint.ForPath(path)
			if err != nil {
				// An input that does not exist yet cannot be "modified
				// during the build" in the sense the guard protects
				// against; the frontend will diagnose it.
				continue
			}
			guard.snapshot[path] = tp
		}
	}
	return guard
}

// verify re-stats every snapshotted input and returns an
// InputUnexpectedlyModifiedError naming each one whose mtime changed,
// or nil. Deletion mid-build counts as modification.
func (g *mtimeGuard) verify() error {
	var changed []string
	for path, before := range g.snapshot {
		after, err := timepoint.ForPath(path)
		if err != nil || !after.Equal(before) {
			changed = append(changed, path)
		}
	}
	if len(changed) == 0 {
		return nil
	}
	sort.Strings(changed)
	return &InputUnexpectedlyModifiedError{Paths: changed}
}
