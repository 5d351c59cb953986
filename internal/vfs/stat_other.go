//go:build !linux && !windows

package vfs

import (
	"os"
	"time"
)

// createdTime is unavailable on this platform; callers fall back to
// omitting the creation timestamp.
func createdTime(os.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
