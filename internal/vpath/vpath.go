// Package vpath implements the virtual-path model: a tagged union
// covering absolute paths, relative paths, the standard streams,
// driver-generated temporaries, and filelist indirection, plus the
// engine-wide interning cache that assigns each distinct path a
// monotonically increasing integer Handle.
//
// Handles, not path strings, are the currency every Job's inputs and
// outputs are expressed in. This keeps
// job construction cheap (copying an int32) and lets the planner
// compare producer-map keys by identity instead of string equality.
package vpath

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/detentsh/driver/internal/filetype"
)

// Handle is an opaque, process-lifetime identifier for an interned
// VirtualPath. Handles are only meaningful relative to the Cache that
// produced them.
type Handle int32

// Reserved sentinel handles for the standard streams. These are
// pre-registered by New so Lookup never needs a special case.
const (
	HandleStandardInput  Handle = 0
	HandleStandardOutput Handle = 1
	// HandleInvalid is returned by failed lookups; no Cache ever
	// assigns it to a real entry.
	HandleInvalid Handle = -1
)

// Kind discriminates the VirtualPath tagged union.
type Kind int

const (
	KindAbsolute Kind = iota
	KindRelative
	KindStandardInput
	KindStandardOutput
	KindTemporary
	KindTemporaryKnownContents
	KindFilelist
)

// FileList is either an explicit ordered list of paths or a reference
// into an output-file-map entry (identified by the FileType key it was
// derived from).
type FileList struct {
	Paths  []Handle
	OFMKey string // non-empty iff this list was derived from the output file map
}

// VirtualPath is one entry in the path tagged union. Only the fields
// relevant to Kind are populated.
type VirtualPath struct {
	Kind     Kind
	Path     string    // Absolute, Relative
	RelName  string    // Temporary, TemporaryWithKnownContents, Filelist
	Contents []byte    // TemporaryWithKnownContents
	List     FileList  // Filelist
}

func (vp VirtualPath) String() string {
	switch vp.Kind {
	case KindAbsolute, KindRelative:
		return vp.Path
	case KindStandardInput:
		return "-"
	case KindStandardOutput:
		return "-"
	case KindTemporary, KindTemporaryKnownContents:
		return vp.RelName
	case KindFilelist:
		return vp.RelName
	default:
		return ""
	}
}

// IsTemporary reports whether this path was created by
// CreateUniqueTemporaryFile or CreateUniqueFilelist.
func (vp VirtualPath) IsTemporary() bool {
	switch vp.Kind {
	case KindTemporary, KindTemporaryKnownContents, KindFilelist:
		return true
	default:
		return false
	}
}

// Cache is the engine-wide, append-only interning table. The zero
// value is not usable; construct one with New. Multiple readers may
// call Lookup concurrently with writers calling Intern, guarded by an
// internal RWMutex; the table is read-mostly with rare writes.
type Cache struct {
	mu    sync.RWMutex
	byKey map[string]Handle
	paths []VirtualPath

	tempMu       sync.Mutex
	tempCounters map[string]int
}

// New builds a Cache with the standard-stream sentinels pre-registered
// at their reserved handles.
func New() *Cache {
	c := &Cache{
		byKey:        make(map[string]Handle),
		tempCounters: make(map[string]int),
	}
	c.paths = append(c.paths, VirtualPath{Kind: KindStandardInput})
	c.paths = append(c.paths, VirtualPath{Kind: KindStandardOutput})
	return c
}

// StandardInput and StandardOutput return the reserved handles for the
// standard streams.
func (c *Cache) StandardInput() Handle  { return HandleStandardInput }
func (c *Cache) StandardOutput() Handle { return HandleStandardOutput }

// Lookup returns the VirtualPath registered at h. Panics on an out of
// range handle, which indicates a programming error (a Handle minted
// by one Cache used against another, or fabricated out of thin air).
func (c *Cache) Lookup(h Handle) VirtualPath {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if int(h) < 0 || int(h) >= len(c.paths) {
		panic(fmt.Sprintf("vpath: handle %d out of range", h))
	}
	return c.paths[h]
}

// Intern registers raw (an absolute or relative filesystem path
// string) and returns its Handle, reusing an existing entry if raw
// canonicalizes to a path string already known to the cache. An empty
// string interns as Relative(".").
func (c *Cache) Intern(raw string) Handle {
	if raw == "" {
		raw = "."
	}
	clean := filepath.Clean(raw)
	key := "path:" + clean

	c.mu.RLock()
	if h, ok := c.byKey[key]; ok {
		c.mu.RUnlock()
		return h
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if h, ok := c.byKey[key]; ok {
		return h
	}

	kind := KindRelative
	if filepath.IsAbs(clean) {
		kind = KindAbsolute
	}
	h := Handle(len(c.paths))
	c.paths = append(c.paths, VirtualPath{Kind: kind, Path: clean})
	c.byKey[key] = h
	return h
}

// InternTyped interns raw and pairs it with ft, returning a
// TypedVirtualPath ready to use as a Job input or output.
func (c *Cache) InternTyped(raw string, ft filetype.FileType) TypedVirtualPath {
	h := c.Intern(raw)
	return TypedVirtualPath{Handle: h, Type: ft}
}

// CreateUniqueTemporaryFile mints a fresh temporary path under relName
// (e.g. "a.o" or "tmp/a.o"). The counter is keyed by the base name
// (without extension) and is process-wide, so repeated calls with the
// same base produce "base-1.ext", "base-2.ext", etc. Temporaries occupy
// a distinct cache-key namespace from ordinary interned paths so they
// can never collide with a real path string, and each call always
// mints a new handle (uniqueness, not deduplication, is the point).
func (c *Cache) CreateUniqueTemporaryFile(relName string) Handle {
	dir, base, ext := splitDirBaseExt(relName)
	n := c.nextTempCounter("temp:" + base)
	name := fmt.Sprintf("%s-%d", base, n)
	if ext != "" {
		name += "." + ext
	}
	full := name
	if dir != "" {
		full = filepath.Join(dir, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	h := Handle(len(c.paths))
	c.paths = append(c.paths, VirtualPath{Kind: KindTemporary, RelName: full})
	return h
}

// CreateUniqueTemporaryFileWithKnownContents behaves like
// CreateUniqueTemporaryFile but additionally records the bytes to be
// written when the ArgsResolver first materializes this path, so the
// resolver need not be told the contents out of band.
func (c *Cache) CreateUniqueTemporaryFileWithKnownContents(relName string, contents []byte) Handle {
	h := c.CreateUniqueTemporaryFile(relName)
	c.mu.Lock()
	defer c.mu.Unlock()
	vp := c.paths[h]
	vp.Kind = KindTemporaryKnownContents
	vp.Contents = contents
	c.paths[h] = vp
	return h
}

// CreateUniqueFilelist mints a fresh filelist path (named, e.g.,
// "sources.txt") whose indirection target is list. Filelists share the
// temporary-name counter namespace, keyed by the filelist's base name,
// so repeated calls with relName "sources.txt" produce
// "sources-1.txt", "sources-2.txt", etc.
func (c *Cache) CreateUniqueFilelist(relName string, list FileList) Handle {
	dir, base, ext := splitDirBaseExt(relName)
	n := c.nextTempCounter("filelist:" + base)
	name := fmt.Sprintf("%s-%d", base, n)
	if ext != "" {
		name += "." + ext
	}
	full := name
	if dir != "" {
		full = filepath.Join(dir, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	h := Handle(len(c.paths))
	c.paths = append(c.paths, VirtualPath{Kind: KindFilelist, RelName: full, List: list})
	return h
}

func (c *Cache) nextTempCounter(key string) int {
	c.tempMu.Lock()
	defer c.tempMu.Unlock()
	c.tempCounters[key]++
	return c.tempCounters[key]
}

// ResetTempCounters is a test-only hook that zeroes every
// temporary-name counter so tests asserting on exact "-N" suffixes
// are reproducible regardless of run order.
func (c *Cache) ResetTempCounters() {
	c.tempMu.Lock()
	defer c.tempMu.Unlock()
	c.tempCounters = make(map[string]int)
}

// --- path-string manipulation, operating on the interned string form ---

// Appending interns h's path with component joined onto it.
func (c *Cache) Appending(h Handle, component string) Handle {
	base := c.Lookup(h).String()
	return c.Intern(filepath.Join(base, component))
}

// AppendingToBaseName interns h's path with suffix appended directly
// to the base name (before any extension is considered), e.g.
// "a.swift" + "-part2" => "a-part2.swift" is NOT what this does;
// rather it appends after the full name: "a.swift" -> "a.swift-part2".
// Used for deriving sibling artifact names like ".swiftdeps~partial".
func (c *Cache) AppendingToBaseName(h Handle, suffix string) Handle {
	p := c.Lookup(h).String()
	return c.Intern(p + suffix)
}

// ParentDirectory interns the directory component of h's path.
func (c *Cache) ParentDirectory(h Handle) Handle {
	p := c.Lookup(h).String()
	return c.Intern(filepath.Dir(p))
}

// Extension returns h's path extension without the leading dot, or ""
// if it has none.
func (c *Cache) Extension(h Handle) string {
	p := c.Lookup(h).String()
	ext := filepath.Ext(p)
	return strings.TrimPrefix(ext, ".")
}

// Basename returns the final path component, including its extension.
func (c *Cache) Basename(h Handle) string {
	return filepath.Base(c.Lookup(h).String())
}

// BasenameWithoutAllExts strips every extension-looking suffix
// (everything from the first '.' in the base name onward), so
// "a.swiftmodule" and "a.emit-module.dia" both reduce to "a".
func (c *Cache) BasenameWithoutAllExts(h Handle) string {
	base := filepath.Base(c.Lookup(h).String())
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

// ReplacingExtension interns a new path equal to h's path with its
// trailing extension (if any) stripped and ft's default extension
// appended, satisfying the law
// replacingExtension(p, t).extension == defaultExtension(t).
// Compound extensions in ft's table (e.g. "private.swiftinterface")
// are treated as a single atomic suffix: the existing single trailing
// extension is stripped first, then the new one appended whole.
func (c *Cache) ReplacingExtension(h Handle, ft filetype.FileType) Handle {
	p := c.Lookup(h).String()
	if ext := filepath.Ext(p); ext != "" {
		p = strings.TrimSuffix(p, ext)
	}
	newExt := ft.DefaultExtension()
	if newExt == "" {
		return c.Intern(p)
	}
	return c.Intern(p + "." + newExt)
}

func splitDirBaseExt(relName string) (dir, base, ext string) {
	dir, file := filepath.Split(relName)
	dir = strings.TrimSuffix(dir, "/")
	if idx := strings.IndexByte(file, '.'); idx >= 0 {
		return dir, file[:idx], file[idx+1:]
	}
	return dir, file, ""
}

// TypedVirtualPath pairs a Handle with the FileType it is known to
// hold, the primary identity used throughout Job inputs and outputs.
type TypedVirtualPath struct {
	Handle Handle
	Type   filetype.FileType
}

func (t TypedVirtualPath) String() string {
	return fmt.Sprintf("%s(%s)", t.Type, t.Handle)
}

func (h Handle) String() string {
	return fmt.Sprintf("#%d", int(h))
}
