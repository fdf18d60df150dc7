package vpath

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/detentsh/driver/internal/timepoint"
)

// Resolution errors, distinguished so callers (the executor's
// modification-time guard, the ArgsResolver) can tell a missing
// working directory from an attempt to stat a standard stream.
var (
	ErrNoCurrentWorkingDirectory = errors.New("vpath: no current working directory")
	ErrCannotResolveTempPath     = errors.New("vpath: cannot resolve temporary path outside the driver's temp directory")
	ErrCannotResolveStandardInput  = errors.New("vpath: cannot resolve standard input to a filesystem path")
	ErrCannotResolveStandardOutput = errors.New("vpath: cannot resolve standard output to a filesystem path")
)

// Resolver turns VirtualPaths into absolute filesystem paths. tempDir
// is the driver-owned temporary directory that Temporary,
// TemporaryWithKnownContents, and Filelist entries resolve beneath.
type Resolver struct {
	cache   *Cache
	cwd     string
	tempDir string
}

// NewResolver builds a Resolver rooted at cwd (the driver's working
// directory at startup) with tempDir as the base for materialized
// temporaries. cwd empty means the process has no usable working
// directory; every relative-path resolution then fails with
// ErrNoCurrentWorkingDirectory.
func NewResolver(cache *Cache, cwd, tempDir string) *Resolver {
	return &Resolver{cache: cache, cwd: cwd, tempDir: tempDir}
}

// Resolve returns the absolute filesystem path that h denotes.
func (r *Resolver) Resolve(h Handle) (string, error) {
	vp := r.cache.Lookup(h)
	switch vp.Kind {
	case KindAbsolute:
		return vp.Path, nil
	case KindRelative:
		if r.cwd == "" {
			return "", ErrNoCurrentWorkingDirectory
		}
		return filepath.Join(r.cwd, vp.Path), nil
	case KindTemporary, KindTemporaryKnownContents, KindFilelist:
		if r.tempDir == "" {
			return "", ErrCannotResolveTempPath
		}
		return filepath.Join(r.tempDir, vp.RelName), nil
	case KindStandardInput:
		return "", ErrCannotResolveStandardInput
	case KindStandardOutput:
		return "", ErrCannotResolveStandardOutput
	default:
		return "", ErrCannotResolveTempPath
	}
}

// WithResolved looks up h's absolute path and invokes fn with it,
// useful for call sites that need the path only transiently (reading
// file contents to embed in a diagnostic, say) and want the resolution
// error and the closure's error unified into one return.
func (r *Resolver) WithResolved(h Handle, fn func(path string) error) error {
	path, err := r.Resolve(h)
	if err != nil {
		return err
	}
	return fn(path)
}

// LastModificationTime resolves h and stats it, returning the
// TimePoint used by the executor's staleness and
// InputUnexpectedlyModified checks. Symlinks are resolved by the
// underlying os.Stat, so a symlink whose target changed (not the link
// itself) is what triggers a rebuild.
func (r *Resolver) LastModificationTime(h Handle) (timepoint.TimePoint, error) {
	path, err := r.Resolve(h)
	if err != nil {
		return timepoint.TimePoint{}, err
	}
	return timepoint.ForPath(path)
}

// MaterializeKnownContents writes a TemporaryWithKnownContents path's
// recorded bytes to disk if they have not been written yet. Called by
// the ArgsResolver the first time such a path appears in a Job's
// argument list.
func (r *Resolver) MaterializeKnownContents(h Handle) (string, error) {
	vp := r.cache.Lookup(h)
	if vp.Kind != KindTemporaryKnownContents {
		return r.Resolve(h)
	}
	path, err := r.Resolve(h)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if _, statErr := os.Stat(path); statErr == nil {
		return path, nil
	}
	if err := os.WriteFile(path, vp.Contents, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
