//go:build windows

package vfs

import (
	"os"
	"syscall"
	"time"
)

// createdTime extracts the file creation time from the Win32 file data.
func createdTime(info os.FileInfo) (time.Time, bool) {
	stat, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(0, stat.CreationTime.Nanoseconds()), true
}
