package job

import (
	"fmt"

	"github.com/detentsh/driver/internal/vpath"
)

// Graph is an arena of Jobs addressed by index, plus the producer map
// (output handle -> index of the unique Job that produces it) that
// forms the build DAG's adjacency structure. Cross-references between
// jobs are integer indices into the arena, never pointers.
type Graph struct {
	Jobs     []*Job
	producer map[vpath.Handle]int
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{producer: make(map[vpath.Handle]int)}
}

// ErrDuplicateOutput is returned by Add when two Jobs claim the same
// output handle, violating the producer-map invariant that an output
// appears in at most one Job's outputs.
type ErrDuplicateOutput struct {
	Handle       vpath.Handle
	ExistingJob  int
	AttemptedJob int
}

func (e *ErrDuplicateOutput) Error() string {
	return fmt.Sprintf("job: output handle %v already produced by job %d, cannot also be produced by job %d",
		e.Handle, e.ExistingJob, e.AttemptedJob)
}

// Add appends j to the arena and registers its outputs in the producer
// map, returning j's index. Standard output is exempt from the
// at-most-one-producer rule, since many frontend invocations may
// legitimately write to stdout.
func (g *Graph) Add(j *Job) (int, error) {
	idx := len(g.Jobs)
	for _, out := range j.Outputs {
		if out.Handle == vpath.HandleStandardOutput {
			continue
		}
		if existing, ok := g.producer[out.Handle]; ok {
			return -1, &ErrDuplicateOutput{Handle: out.Handle, ExistingJob: existing, AttemptedJob: idx}
		}
	}
	for _, out := range j.Outputs {
		if out.Handle == vpath.HandleStandardOutput {
			continue
		}
		g.producer[out.Handle] = idx
	}
	g.Jobs = append(g.Jobs, j)
	return idx, nil
}

// ProducerOf returns the index of the Job that produces h, if any.
func (g *Graph) ProducerOf(h vpath.Handle) (int, bool) {
	idx, ok := g.producer[h]
	return idx, ok
}

// Dependencies returns the indices of every Job that j depends on:
// for each of j's input handles that some other Job produces, that
// Job's index (deduplicated, in first-seen order).
func (g *Graph) Dependencies(jobIdx int) []int {
	seen := make(map[int]bool)
	var deps []int
	j := g.Jobs[jobIdx]
	for _, in := range j.Inputs {
		if producer, ok := g.producer[in.Handle]; ok && producer != jobIdx && !seen[producer] {
			seen[producer] = true
			deps = append(deps, producer)
		}
	}
	return deps
}

// TopoSort returns a topological ordering of every Job index, or an
// error if the producer map contains a cycle.
func (g *Graph) TopoSort() ([]int, error) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, len(g.Jobs))
	var order []int
	var visit func(n int) error
	visit = func(n int) error {
		switch color[n] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("job: producer-map cycle detected at job %d (%s)", n, g.Jobs[n].DisplayName)
		}
		color[n] = gray
		for _, dep := range g.Dependencies(n) {
			if err := visit(dep); err != nil {
				return err
			}
		}
		color[n] = black
		order = append(order, n)
		return nil
	}
	for n := range g.Jobs {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Validate asserts the Graph is acyclic; the planner calls it once
// the full job set is constructed.
func (g *Graph) Validate() error {
	_, err := g.TopoSort()
	return err
}
