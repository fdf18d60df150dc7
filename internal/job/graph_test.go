package job

import (
	"testing"

	"github.com/detentsh/driver/internal/filetype"
	"github.com/detentsh/driver/internal/vpath"
)

func TestGraphLinearDependency(t *testing.T) {
	c := vpath.New()
	a := c.InternTyped("a.swift", filetype.Swift)
	aObj := c.InternTyped("a.o", filetype.Object)
	prog := c.InternTyped("prog", filetype.Executable)

	g := NewGraph()
	compileIdx, err := g.Add(&Job{Kind: KindCompile, DisplayName: "compile", Inputs: []vpath.TypedVirtualPath{a}, Outputs: []vpath.TypedVirtualPath{aObj}})
	if err != nil {
		t.Fatal(err)
	}
	linkIdx, err := g.Add(&Job{Kind: KindLink, DisplayName: "link", Inputs: []vpath.TypedVirtualPath{aObj}, Outputs: []vpath.TypedVirtualPath{prog}})
	if err != nil {
		t.Fatal(err)
	}

	deps := g.Dependencies(linkIdx)
	if len(deps) != 1 || deps[0] != compileIdx {
		t.Fatalf("link should depend only on compile, got %v", deps)
	}

	order, err := g.TopoSort()
	if err != nil {
		t.Fatal(err)
	}
	posCompile, posLink := -1, -1
	for i, idx := range order {
		if idx == compileIdx {
			posCompile = i
		}
		if idx == linkIdx {
			posLink = i
		}
	}
	if posCompile >= posLink {
		t.Errorf("compile must precede link in topo order: %v", order)
	}
}

func TestGraphDuplicateOutputRejected(t *testing.T) {
	c := vpath.New()
	out := c.InternTyped("a.o", filetype.Object)
	g := NewGraph()
	if _, err := g.Add(&Job{DisplayName: "j1", Outputs: []vpath.TypedVirtualPath{out}}); err != nil {
		t.Fatal(err)
	}
	_, err := g.Add(&Job{DisplayName: "j2", Outputs: []vpath.TypedVirtualPath{out}})
	if err == nil {
		t.Fatal("expected duplicate output error")
	}
}

func TestGraphCycleDetected(t *testing.T) {
	c := vpath.New()
	x := c.InternTyped("x", filetype.Object)
	y := c.InternTyped("y", filetype.Object)

	g := NewGraph()
	g.Jobs = append(g.Jobs, &Job{DisplayName: "j0", Inputs: []vpath.TypedVirtualPath{y}, Outputs: []vpath.TypedVirtualPath{x}})
	g.Jobs = append(g.Jobs, &Job{DisplayName: "j1", Inputs: []vpath.TypedVirtualPath{x}, Outputs: []vpath.TypedVirtualPath{y}})
	g.producer = map[vpath.Handle]int{x.Handle: 0, y.Handle: 1}

	if err := g.Validate(); err == nil {
		t.Fatal("expected cycle error")
	}
}

func TestStandardOutputExemptFromDuplicateRule(t *testing.T) {
	c := vpath.New()
	stdout := vpath.TypedVirtualPath{Handle: c.StandardOutput(), Type: filetype.Nothing}
	g := NewGraph()
	if _, err := g.Add(&Job{DisplayName: "j1", Outputs: []vpath.TypedVirtualPath{stdout}}); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Add(&Job{DisplayName: "j2", Outputs: []vpath.TypedVirtualPath{stdout}}); err != nil {
		t.Fatalf("stdout should be exempt from duplicate-output check: %v", err)
	}
}
