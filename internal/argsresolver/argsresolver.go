// Package argsresolver turns a Job's ArgTemplate into a concrete argv,
// materializing filelists and response files along the way. Path
// placeholders resolve against a vpath.Cache; each Job's resolution is
// independent of every other's, so Resolver runs them concurrently
// with an errgroup.
package argsresolver

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/pretty"
	"golang.org/x/sync/errgroup"

	"github.com/detentsh/driver/internal/job"
	"github.com/detentsh/driver/internal/vpath"
)

// DefaultArgMaxBudget is the conservative argv byte-length ceiling past
// which a Job's arguments are forced into a response file even when the
// tool's ResponseFileSupport is merely Supported rather than Forced.
// Real ARG_MAX is much larger (~2MB on Linux, ~256KB on Darwin); this
// value is deliberately conservative so response files kick in with
// margin to spare for environment variables and the exec path itself.
const DefaultArgMaxBudget = 200 * 1024

// Resolved is the concrete result of resolving one Job: the argv to
// exec, plus the paths of any filelist/response files the resolver
// materialized under its temp directory. Neither the resolver nor the
// executor removes them; the compile command deletes the whole temp
// directory unless -save-temps is active.
type Resolved struct {
	Argv           []string
	GeneratedFiles []string
}

// Resolver materializes ArgTemplates against a Cache.
type Resolver struct {
	cache        *vpath.Cache
	paths        *vpath.Resolver
	argMaxBudget int
	tempDir      string
}

// New builds a Resolver. tempDir is where filelists, response files,
// and known-contents temporaries are written; argMaxBudget <= 0 uses
// DefaultArgMaxBudget.
func New(cache *vpath.Cache, tempDir string, argMaxBudget int) *Resolver {
	if argMaxBudget <= 0 {
		argMaxBudget = DefaultArgMaxBudget
	}
	cwd, _ := os.Getwd()
	return &Resolver{
		cache:        cache,
		paths:        vpath.NewResolver(cache, cwd, tempDir),
		argMaxBudget: argMaxBudget,
		tempDir:      tempDir,
	}
}

// ResolveAll resolves every Job in jobs concurrently and returns the
// first error once all resolutions have finished; an error in one
// resolution does not stop the others.
func (r *Resolver) ResolveAll(ctx context.Context, jobs []*job.Job) ([]*Resolved, error) {
	out := make([]*Resolved, len(jobs))
	g, _ := errgroup.WithContext(ctx)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			res, err := r.Resolve(j)
			if err != nil {
				return fmt.Errorf("argsresolver: job %q: %w", j.DisplayName, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Resolve materializes a single Job's ArgTemplate into a concrete argv.
func (r *Resolver) Resolve(j *job.Job) (*Resolved, error) {
	tool := r.cache.Lookup(j.Tool).String()

	var plain []string
	var generated []string
	for _, piece := range j.ArgTemplate {
		switch piece.Kind {
		case job.ArgLiteral:
			plain = append(plain, piece.Literal)

		case job.ArgPathPlaceholder:
			vp := r.cache.Lookup(piece.Path)
			resolved := vp.String()
			if vp.Kind == vpath.KindTemporaryKnownContents {
				// First use writes the recorded bytes to disk.
				path, err := r.paths.MaterializeKnownContents(piece.Path)
				if err != nil {
					return nil, err
				}
				resolved = path
				generated = append(generated, path)
			} else if vp.IsTemporary() {
				path, err := r.paths.Resolve(piece.Path)
				if err != nil {
					return nil, err
				}
				resolved = path
			}
			if piece.Prefix != "" {
				plain = append(plain, piece.Prefix+resolved)
			} else {
				plain = append(plain, resolved)
			}

		case job.ArgFilelistPlaceholder:
			// Every remaining path-shaped piece referencing the same
			// base path family is collapsed here; for this driver the
			// planner only ever emits one FilelistArg per template, so
			// gather the Job's full Inputs list, primaries included (the
			// planner also names each primary literally via -primary-file
			// so the frontend can identify them).
			listPath, err := r.writeFilelist(j)
			if err != nil {
				return nil, err
			}
			generated = append(generated, listPath)
			arg := "@" + listPath
			if piece.Prefix != "" {
				plain = append(plain, piece.Prefix, arg)
			} else {
				plain = append(plain, arg)
			}

		case job.ArgResponseFileMarker:
			// handled below, once the full plain argv is known.
		}
	}

	argv := append([]string{tool}, plain...)

	forced := j.SupportsResponseFiles == job.ResponseFilesForced
	oversized := argvByteLength(argv) > r.argMaxBudget
	if j.SupportsResponseFiles != job.ResponseFilesUnsupported && (forced || oversized) {
		rspPath, err := r.writeResponseFile(j, plain)
		if err != nil {
			return nil, err
		}
		generated = append(generated, rspPath)
		argv = []string{tool, "@" + rspPath}
	}

	return &Resolved{Argv: argv, GeneratedFiles: generated}, nil
}

// writeFilelist materializes one newline-delimited file of every
// resolved Input path belonging to j, returning its path.
func (r *Resolver) writeFilelist(j *job.Job) (string, error) {
	var b strings.Builder
	for _, in := range j.Inputs {
		b.WriteString(r.cache.Lookup(in.Handle).String())
		b.WriteByte('\n')
	}
	if err := os.MkdirAll(r.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("argsresolver: creating temp dir: %w", err)
	}
	f, err := os.CreateTemp(r.tempDir, j.DisplayName+"-filelist-*.txt")
	if err != nil {
		return "", fmt.Errorf("argsresolver: writing filelist: %w", err)
	}
	_, err = f.WriteString(b.String())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("argsresolver: writing filelist: %w", err)
	}
	return f.Name(), nil
}

// writeResponseFile materializes plain (whitespace-separated, each
// argument individually quoted if it contains a space) into a response
// file, returning its path.
func (r *Resolver) writeResponseFile(j *job.Job, plain []string) (string, error) {
	var b strings.Builder
	for i, arg := range plain {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(quoteResponseFileArg(arg))
	}
	if err := os.MkdirAll(r.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("argsresolver: creating temp dir: %w", err)
	}
	f, err := os.CreateTemp(r.tempDir, j.DisplayName+"-*.rsp")
	if err != nil {
		return "", fmt.Errorf("argsresolver: writing response file: %w", err)
	}
	_, err = f.WriteString(b.String())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("argsresolver: writing response file: %w", err)
	}
	return f.Name(), nil
}

// quoteResponseFileArg quotes arg if it contains whitespace, matching
// the GNU response-file quoting convention every response-file-capable
// Swift frontend build also follows.
func quoteResponseFileArg(arg string) string {
	if !strings.ContainsAny(arg, " \t\n\"") {
		return arg
	}
	escaped := strings.ReplaceAll(arg, `"`, `\"`)
	return `"` + escaped + `"`
}

func argvByteLength(argv []string) int {
	n := 0
	for _, a := range argv {
		n += len(a) + 1 // +1 for the separating space/NUL
	}
	return n
}

// EchoCommand renders a Resolved invocation the way -v prints it:
// space-joined argv, with any generated file's contents pretty-printed
// beneath it if it happens to hold JSON (args.json bookkeeping output
// can end up referenced this way); otherwise the line is left as-is,
// since response files are plain whitespace-delimited text, not JSON.
func EchoCommand(resolved *Resolved) string {
	quoted := make([]string, len(resolved.Argv))
	for i, a := range resolved.Argv {
		quoted[i] = quoteForEcho(a)
	}
	line := strings.Join(quoted, " ")
	for _, g := range resolved.GeneratedFiles {
		if !strings.HasSuffix(g, ".json") {
			continue
		}
		data, err := os.ReadFile(g) // #nosec G304 -- g is a file this resolver just wrote
		if err != nil {
			continue
		}
		line += "\n" + string(pretty.Pretty(data))
	}
	return line
}
