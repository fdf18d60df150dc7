package argsresolver

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/detentsh/driver/internal/filetype"
	"github.com/detentsh/driver/internal/job"
	"github.com/detentsh/driver/internal/vpath"
)

func TestResolveSimpleCompileJob(t *testing.T) {
	cache := vpath.New()
	tool := cache.Intern("/usr/bin/swift-frontend")
	in := cache.InternTyped("/src/a.swift", filetype.Swift)
	out := cache.InternTyped("/build/a.o", filetype.Object)

	j := &job.Job{
		Kind:        job.KindCompile,
		DisplayName: "compile",
		Tool:        tool,
		Inputs:      []vpath.TypedVirtualPath{in},
		Outputs:     []vpath.TypedVirtualPath{out},
		ArgTemplate: []job.ArgPiece{
			job.Lit("-frontend"), job.Lit("-c"),
			job.Lit("-primary-file"), job.PathArg(in.Handle, ""),
			job.Lit("-o"), job.PathArg(out.Handle, ""),
		},
	}

	r := New(cache, t.TempDir(), 0)
	resolved, err := r.Resolve(j)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"/usr/bin/swift-frontend", "-frontend", "-c", "-primary-file", "/src/a.swift", "-o", "/build/a.o"}
	if len(resolved.Argv) != len(want) {
		t.Fatalf("argv = %v, want %v", resolved.Argv, want)
	}
	for i := range want {
		if resolved.Argv[i] != want[i] {
			t.Errorf("argv[%d] = %q, want %q", i, resolved.Argv[i], want[i])
		}
	}
	if len(resolved.GeneratedFiles) != 0 {
		t.Errorf("expected no generated files, got %v", resolved.GeneratedFiles)
	}
}

func TestResolveForcesResponseFileWhenRequired(t *testing.T) {
	cache := vpath.New()
	tool := cache.Intern("/usr/bin/clang")
	out := cache.InternTyped("/build/prog", filetype.Executable)

	j := &job.Job{
		Kind:                  job.KindLink,
		DisplayName:           "link",
		Tool:                  tool,
		Outputs:               []vpath.TypedVirtualPath{out},
		SupportsResponseFiles: job.ResponseFilesForced,
		ArgTemplate: []job.ArgPiece{
			job.Lit("-o"), job.PathArg(out.Handle, ""),
		},
	}

	r := New(cache, t.TempDir(), 0)
	resolved, err := r.Resolve(j)
	if err != nil {
		t.Fatal(err)
	}
	if len(resolved.Argv) != 2 {
		t.Fatalf("expected [tool, @rsp], got %v", resolved.Argv)
	}
	if !strings.HasPrefix(resolved.Argv[1], "@") {
		t.Errorf("expected response-file indirection, got %q", resolved.Argv[1])
	}
	if len(resolved.GeneratedFiles) != 1 {
		t.Fatalf("expected exactly one generated response file, got %v", resolved.GeneratedFiles)
	}
	data, err := os.ReadFile(resolved.GeneratedFiles[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "-o") {
		t.Errorf("response file should contain the literal args, got %q", data)
	}
}

func TestResolveOversizedArgvFallsBackToResponseFile(t *testing.T) {
	cache := vpath.New()
	tool := cache.Intern("/usr/bin/clang")
	out := cache.InternTyped("/build/prog", filetype.Executable)

	template := []job.ArgPiece{job.Lit("-o"), job.PathArg(out.Handle, "")}
	for i := 0; i < 100; i++ {
		template = append(template, job.Lit(strings.Repeat("x", 50)))
	}

	j := &job.Job{
		Kind:                  job.KindLink,
		DisplayName:           "link",
		Tool:                  tool,
		Outputs:               []vpath.TypedVirtualPath{out},
		SupportsResponseFiles: job.ResponseFilesSupported,
		ArgTemplate:           template,
	}

	r := New(cache, t.TempDir(), 1000) // tiny budget forces the fallback
	resolved, err := r.Resolve(j)
	if err != nil {
		t.Fatal(err)
	}
	if len(resolved.Argv) != 2 {
		t.Fatalf("expected oversized argv to collapse to a response file, got %d args", len(resolved.Argv))
	}
}

func TestResolveAllRunsJobsConcurrently(t *testing.T) {
	cache := vpath.New()
	tool := cache.Intern("/usr/bin/swift-frontend")

	var jobs []*job.Job
	for i := 0; i < 5; i++ {
		out := cache.InternTyped("/build/out.o", filetype.Object)
		jobs = append(jobs, &job.Job{
			Kind:        job.KindCompile,
			DisplayName: "compile",
			Tool:        tool,
			Outputs:     []vpath.TypedVirtualPath{out},
			ArgTemplate: []job.ArgPiece{job.Lit("-c")},
		})
	}

	r := New(cache, t.TempDir(), 0)
	results, err := r.ResolveAll(context.Background(), jobs)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 resolutions, got %d", len(results))
	}
	for i, res := range results {
		if res == nil {
			t.Errorf("result %d is nil", i)
		}
	}
}
