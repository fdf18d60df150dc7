//go:build windows

package timepoint

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// ntEpochOffsetSeconds is the number of seconds between the Windows NT
// epoch (1601-01-01) and the Unix epoch (1970-01-01).
const ntEpochOffsetSeconds int64 = 11644473600

// fromFiletime converts a Windows FILETIME value (100ns intervals since
// the NT epoch) to a TimePoint in Unix-epoch seconds/nanoseconds,
// applying the NT-epoch offset explicitly.
func fromFiletime(ft windows.Filetime) TimePoint {
	ticks := int64(ft.HighDateTime)<<32 | int64(ft.LowDateTime)
	unix100ns := ticks - ntEpochOffsetSeconds*10_000_000
	seconds := unix100ns / 10_000_000
	nanoseconds := (unix100ns % 10_000_000) * 100
	return TimePoint{seconds: seconds, nanoseconds: nanoseconds}
}

// forPathPlatform queries the file's modification time via the Win32
// attribute-data API directly, converting the raw FILETIME with the
// NT-epoch offset rather than delegating to the Go runtime's own
// FILETIME-to-time.Time conversion inside os.Stat.
func forPathPlatform(path string) (TimePoint, error) {
	namePtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return TimePoint{}, fmt.Errorf("converting path %s: %w", path, err)
	}

	var data windows.Win32FileAttributeData
	if err := windows.GetFileAttributesEx(namePtr, windows.GetFileExInfoStandard, (*byte)(unsafe.Pointer(&data))); err != nil {
		return TimePoint{}, fmt.Errorf("GetFileAttributesEx %s: %w", path, err)
	}

	return fromFiletime(data.LastWriteTime), nil
}
