// Package timepoint provides a modification-time type used throughout
// the driver to compare file ages: deciding whether a compile output is
// stale relative to its inputs, and detecting inputs that changed out
// from under a running build.
package timepoint

import (
	"fmt"
	"os"
	"time"
)

// TimePoint is a monotonic-comparable point in wall-clock time, derived
// from a file's modification time. Two TimePoints from the same
// filesystem are always comparable even across processes, which plain
// time.Time is not guaranteed to be once its monotonic reading is lost
// (e.g. after being persisted to a build record and reloaded).
type TimePoint struct {
	seconds     int64
	nanoseconds int64
}

// Zero is the earliest representable TimePoint; every real file's mtime
// compares After it.
var Zero = TimePoint{}

// FromTime converts a time.Time (as returned by os.FileInfo.ModTime) to
// a TimePoint, discarding its monotonic reading so the result compares
// consistently after being serialized and reloaded in a build record.
func FromTime(t time.Time) TimePoint {
	return TimePoint{seconds: t.Unix(), nanoseconds: int64(t.Nanosecond())}
}

// Unix builds a TimePoint directly from a (seconds, nanoseconds) pair,
// the representation used by the build record file format.
func Unix(seconds, nanoseconds int64) TimePoint {
	return TimePoint{seconds: seconds, nanoseconds: nanoseconds}
}

// Seconds and Nanoseconds expose the underlying components for
// serialization into the build record's (mtime_seconds, mtime_nanos)
// pairs.
func (t TimePoint) Seconds() int64     { return t.seconds }
func (t TimePoint) Nanoseconds() int64 { return t.nanoseconds }

// Time converts back to a time.Time for display purposes.
func (t TimePoint) Time() time.Time {
	return time.Unix(t.seconds, t.nanoseconds).UTC()
}

// Before, After, and Equal provide the three comparisons the executor's
// staleness and unexpected-modification checks need.
func (t TimePoint) Before(u TimePoint) bool {
	if t.seconds != u.seconds {
		return t.seconds < u.seconds
	}
	return t.nanoseconds < u.nanoseconds
}

func (t TimePoint) After(u TimePoint) bool { return u.Before(t) }

func (t TimePoint) Equal(u TimePoint) bool {
	return t.seconds == u.seconds && t.nanoseconds == u.nanoseconds
}

func (t TimePoint) String() string {
	return fmt.Sprintf("%d.%09d", t.seconds, t.nanoseconds)
}

// ForPath stats the resolved absolute path and returns its modification
// time as a TimePoint. Symlinks are resolved first (via os.Stat, which
// already follows symlinks) so touching a symlink's target, not the
// link itself, is what triggers a rebuild. On Windows this goes
// through the Win32 attribute API with the NT-epoch offset applied
// explicitly; elsewhere it uses the standard os.Stat path.
func ForPath(path string) (TimePoint, error) {
	return forPathPlatform(path)
}

// statModTime is the POSIX fallback shared by the !windows build; kept
// here so both platform files can call a single stdlib-backed helper.
func statModTime(path string) (TimePoint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return TimePoint{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return FromTime(info.ModTime()), nil
}
