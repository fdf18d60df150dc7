package planner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/detentsh/driver/internal/job"
	"github.com/detentsh/driver/internal/ofm"
	"github.com/detentsh/driver/internal/option"
	"github.com/detentsh/driver/internal/triple"
	"github.com/detentsh/driver/internal/vpath"
)

type fakeToolchain struct{}

func (fakeToolchain) Frontend() (string, error)            { return "/usr/bin/swift-frontend", nil }
func (fakeToolchain) Linker() (string, error)               { return "/usr/bin/clang", nil }
func (fakeToolchain) AutolinkExtractTool() (string, error)  { return "/usr/bin/swift-autolink-extract", nil }
func (fakeToolchain) ModuleWrapTool() (string, error)       { return "/usr/bin/swift-modulewrap", nil }
func (fakeToolchain) Indent() (string, error)               { return "/usr/bin/swift-indent", nil }

func parseArgs(t *testing.T, argv []string) []option.ParsedOption {
	t.Helper()
	table := option.NewTable()
	opts, err := option.Parse(argv, option.ModeBatchCompile, table)
	if err != nil {
		t.Fatalf("parse %v: %v", argv, err)
	}
	return opts
}

// TestSimplePlanProducesThreeJobs: a.swift b.swift -o prog on a Linux
// target produces one compile job per input plus a link job, wired
// a.o -> J1, b.o -> J2, prog -> J3 in the producer map.
func TestSimplePlanProducesThreeJobs(t *testing.T) {
	opts := parseArgs(t, []string{"a.swift", "b.swift", "-o", "prog"})
	cache := vpath.New()
	req := Request{
		Target:    triple.Parse("x86_64-unknown-linux-gnu"),
		WorkDir:   "/work",
		Toolchain: fakeToolchain{},
	}

	result, err := Plan(opts, cache, req)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	var compileCount, linkCount int
	for _, j := range result.Graph.Jobs {
		switch j.Kind {
		case job.KindCompile:
			compileCount++
		case job.KindLink:
			linkCount++
		}
	}
	if compileCount != 2 {
		t.Errorf("expected 2 compile jobs, got %d", compileCount)
	}
	if linkCount != 1 {
		t.Errorf("expected 1 link job, got %d", linkCount)
	}
	if len(result.Graph.Jobs) != 3 {
		t.Errorf("expected 3 total jobs, got %d", len(result.Graph.Jobs))
	}

	if err := result.Graph.Validate(); err != nil {
		t.Errorf("graph should be acyclic: %v", err)
	}

	var linkJobIdx = -1
	for i, j := range result.Graph.Jobs {
		if j.Kind == job.KindLink {
			linkJobIdx = i
		}
	}
	if linkJobIdx == -1 {
		t.Fatal("no link job found")
	}
	deps := result.Graph.Dependencies(linkJobIdx)
	if len(deps) != 2 {
		t.Errorf("link job should depend on both compile jobs, got %d deps", len(deps))
	}
}

func TestCompileOnlyProducesNoLinkJob(t *testing.T) {
	opts := parseArgs(t, []string{"-c", "a.swift"})
	cache := vpath.New()
	req := Request{
		Target:    triple.Parse("x86_64-unknown-linux-gnu"),
		WorkDir:   "/work",
		Toolchain: fakeToolchain{},
	}

	result, err := Plan(opts, cache, req)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	for _, j := range result.Graph.Jobs {
		if j.Kind == job.KindLink {
			t.Error("-c should not produce a link job")
		}
	}
}

func TestConflictingPrimaryModeFlagsRejected(t *testing.T) {
	opts := parseArgs(t, []string{"-c", "-emit-assembly", "a.swift"})
	cache := vpath.New()
	req := Request{
		Target:    triple.Parse("x86_64-unknown-linux-gnu"),
		WorkDir:   "/work",
		Toolchain: fakeToolchain{},
	}

	_, err := Plan(opts, cache, req)
	if err == nil {
		t.Fatal("expected ConflictingOptionsError")
	}
	if _, ok := err.(*ConflictingOptionsError); !ok {
		t.Errorf("expected *ConflictingOptionsError, got %T: %v", err, err)
	}
}

func TestNoInputsRejected(t *testing.T) {
	opts := parseArgs(t, []string{"-o", "prog"})
	cache := vpath.New()
	req := Request{
		Target:    triple.Parse("x86_64-unknown-linux-gnu"),
		WorkDir:   "/work",
		Toolchain: fakeToolchain{},
	}

	_, err := Plan(opts, cache, req)
	if _, ok := err.(*NoInputsError); !ok {
		t.Errorf("expected *NoInputsError, got %T: %v", err, err)
	}
}

func TestWholeModuleOptimizationProducesOneCompileJob(t *testing.T) {
	opts := parseArgs(t, []string{"-wmo", "a.swift", "b.swift", "c.swift", "-o", "prog"})
	cache := vpath.New()
	req := Request{
		Target:    triple.Parse("x86_64-unknown-linux-gnu"),
		WorkDir:   "/work",
		Toolchain: fakeToolchain{},
	}

	result, err := Plan(opts, cache, req)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	var compileCount int
	for _, j := range result.Graph.Jobs {
		if j.Kind == job.KindCompile {
			compileCount++
			if len(j.PrimaryInputs) != 3 {
				t.Errorf("WMO compile job should carry all 3 primaries, got %d", len(j.PrimaryInputs))
			}
		}
	}
	if compileCount != 1 {
		t.Errorf("expected exactly 1 compile job under WMO, got %d", compileCount)
	}
}

func TestEmitModuleInsertsMergeModulesJob(t *testing.T) {
	opts := parseArgs(t, []string{"-emit-module", "a.swift", "b.swift", "-module-name", "Foo"})
	cache := vpath.New()
	req := Request{
		Target:    triple.Parse("x86_64-unknown-linux-gnu"),
		WorkDir:   "/work",
		Toolchain: fakeToolchain{},
	}

	result, err := Plan(opts, cache, req)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	var mergeCount int
	for _, j := range result.Graph.Jobs {
		if j.Kind == job.KindMergeModules {
			mergeCount++
		}
	}
	if mergeCount != 1 {
		t.Errorf("expected 1 merge-modules job, got %d", mergeCount)
	}
	if result.ModuleName != "Foo" {
		t.Errorf("expected module name Foo, got %q", result.ModuleName)
	}
}

func TestBatchModePartitionsAcrossExplicitCount(t *testing.T) {
	opts := parseArgs(t, []string{
		"-driver-batch-count", "2",
		"a.swift", "b.swift", "c.swift", "d.swift", "-o", "prog",
	})
	cache := vpath.New()
	req := Request{
		Target:    triple.Parse("x86_64-unknown-linux-gnu"),
		WorkDir:   "/work",
		Toolchain: fakeToolchain{},
		BatchSeed: 42,
	}

	result, err := Plan(opts, cache, req)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	var compileCount int
	total := 0
	for _, j := range result.Graph.Jobs {
		if j.Kind == job.KindCompile {
			compileCount++
			total += len(j.PrimaryInputs)
		}
	}
	if compileCount != 2 {
		t.Errorf("expected 2 batches, got %d compile jobs", compileCount)
	}
	if total != 4 {
		t.Errorf("expected all 4 primaries distributed across batches, got %d", total)
	}
}

func TestBatchSizeLimitDrivesBatchCount(t *testing.T) {
	opts := parseArgs(t, []string{
		"-driver-batch-size-limit", "2",
		"a.swift", "b.swift", "c.swift", "d.swift", "e.swift", "-c",
	})
	cache := vpath.New()
	req := Request{
		Target:    triple.Parse("x86_64-unknown-linux-gnu"),
		WorkDir:   "/work",
		Toolchain: fakeToolchain{},
	}

	result, err := Plan(opts, cache, req)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	var compileCount int
	for _, j := range result.Graph.Jobs {
		if j.Kind == job.KindCompile {
			compileCount++
			if len(j.PrimaryInputs) > 2 {
				t.Errorf("batch carries %d primaries, limit is 2", len(j.PrimaryInputs))
			}
		}
	}
	if compileCount != 3 {
		t.Errorf("expected ceil(5/2) = 3 batches, got %d", compileCount)
	}
}

func TestOutputFileMapOverridesObjectPath(t *testing.T) {
	m, err := ofm.Parse([]byte(`{
		"a.swift": {"object": "/custom/a-renamed.o"}
	}`), "test")
	if err != nil {
		t.Fatalf("ofm.Parse: %v", err)
	}

	opts := parseArgs(t, []string{"-c", "a.swift", "b.swift"})
	cache := vpath.New()
	req := Request{
		Target:        triple.Parse("x86_64-unknown-linux-gnu"),
		WorkDir:       "/work",
		Toolchain:     fakeToolchain{},
		OutputFileMap: m,
	}

	result, err := Plan(opts, cache, req)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	var outputs []string
	for _, j := range result.Graph.Jobs {
		for _, out := range j.Outputs {
			outputs = append(outputs, cache.Lookup(out.Handle).String())
		}
	}
	wantMapped, wantDefault := false, false
	for _, o := range outputs {
		if o == "/custom/a-renamed.o" {
			wantMapped = true
		}
		if o == "b.o" {
			wantDefault = true
		}
	}
	if !wantMapped {
		t.Errorf("a.swift's object should come from the output file map, got %v", outputs)
	}
	if !wantDefault {
		t.Errorf("b.swift's object should fall back to default derivation, got %v", outputs)
	}
}

func TestExpandInputsGlobs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.swift", "b.swift", "not-source.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := expandInputs([]string{filepath.Join(dir, "*.swift"), "plain.swift"})
	if err != nil {
		t.Fatalf("expandInputs: %v", err)
	}
	want := []string{filepath.Join(dir, "a.swift"), filepath.Join(dir, "b.swift"), "plain.swift"}
	if len(got) != len(want) {
		t.Fatalf("expandInputs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expandInputs[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := expandInputs([]string{filepath.Join(dir, "*.nomatch")}); err == nil {
		t.Error("expected an error for a glob matching nothing")
	}
}
