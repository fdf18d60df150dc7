// Package incremental defines the build-record file format and the
// Oracle interface the executor consults to decide which jobs may be
// skipped and which further jobs a finished job unlocks. The oracle's
// internal fine-grained dependency model is an external collaborator;
// this package only names the interface and the on-disk record format
// that carries state between invocations.
package incremental

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/nightlyone/lockfile"

	"github.com/detentsh/driver/internal/timepoint"
)

// buildRecordVersion is bumped whenever the on-disk shape changes
// incompatibly; a mismatch is reported as ErrVersionMismatch rather
// than silently misinterpreted.
const buildRecordVersion = 1

// ErrCorrupt and ErrVersionMismatch are both non-fatal: the caller
// falls back to a full build rather than aborting.
var (
	ErrCorrupt         = errors.New("incremental: build record is corrupt")
	ErrVersionMismatch = errors.New("incremental: build record version mismatch")
)

// Entry records one source file's state as of the last successful
// build: its modification time as a (seconds, nanos) pair and an
// optional content hash for a finer-grained staleness check than
// mtime alone.
type Entry struct {
	MTimeSeconds int64  `yaml:"mtime_seconds"`
	MTimeNanos   int64  `yaml:"mtime_nanos"`
	Hash         string `yaml:"hash,omitempty"`
}

// MTime reconstructs the TimePoint this Entry was recorded at.
func (e Entry) MTime() timepoint.TimePoint {
	return timepoint.Unix(e.MTimeSeconds, e.MTimeNanos)
}

// Record is the full on-disk build record: one Entry per source file,
// keyed by its path as it appeared in the compile invocation.
type Record struct {
	Version int              `yaml:"version"`
	Entries map[string]Entry `yaml:"entries"`
}

// NewRecord returns an empty Record at the current version.
func NewRecord() *Record {
	return &Record{Version: buildRecordVersion, Entries: make(map[string]Entry)}
}

// Note records path's current state from a TimePoint and optional
// hash.
func (r *Record) Note(path string, mtime timepoint.TimePoint, hash string) {
	if r.Entries == nil {
		r.Entries = make(map[string]Entry)
	}
	r.Entries[path] = Entry{MTimeSeconds: mtime.Seconds(), MTimeNanos: mtime.Nanoseconds(), Hash: hash}
}

// Load reads and parses the build record at path. A missing file
// returns a fresh empty Record (first build, nothing to compare
// against) rather than an error. A parse failure or version mismatch
// returns a fresh empty Record alongside ErrCorrupt/ErrVersionMismatch so
// the caller can fall back to a full build without treating it as
// fatal.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewRecord(), nil
		}
		return NewRecord(), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return NewRecord(), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if r.Version != buildRecordVersion {
		return NewRecord(), fmt.Errorf("%w: record has version %d, driver expects %d", ErrVersionMismatch, r.Version, buildRecordVersion)
	}
	if r.Entries == nil {
		r.Entries = make(map[string]Entry)
	}
	return &r, nil
}

// lockSuffix names the advisory lock file placed alongside the build
// record during Save's read-modify-write.
const lockSuffix = ".lock"

// Save persists r to path, holding an advisory lock for the duration
// so two concurrent driver invocations targeting the same build
// directory do not interleave writes.
func Save(path string, r *Record) error {
	lockPath, err := filepath.Abs(path + lockSuffix)
	if err != nil {
		return fmt.Errorf("incremental: resolving lock path: %w", err)
	}
	lock, err := lockfile.New(lockPath)
	if err != nil {
		return fmt.Errorf("incremental: creating lock: %w", err)
	}
	if err := lock.TryLock(); err != nil {
		return fmt.Errorf("incremental: locking build record: %w", err)
	}
	defer lock.Unlock()

	if r.Version == 0 {
		r.Version = buildRecordVersion
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("incremental: marshaling build record: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("incremental: creating build record directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("incremental: writing build record: %w", err)
	}
	return nil
}

// StaleAgainst reports whether path's entry (if any) is older than
// currentMTime, meaning the source changed since the last recorded
// build and anything it produces needs to be rebuilt. A path absent
// from the record is always stale (first build).
func (r *Record) StaleAgainst(path string, currentMTime timepoint.TimePoint) bool {
	entry, ok := r.Entries[path]
	if !ok {
		return true
	}
	return entry.MTime().Before(currentMTime)
}
