//go:build !windows

package timepoint

// forPathPlatform delegates to the stdlib os.Stat based implementation
// on POSIX platforms, where time.Time.ModTime already carries
// Unix-epoch seconds/nanoseconds with no further offset needed.
func forPathPlatform(path string) (TimePoint, error) {
	return statModTime(path)
}
