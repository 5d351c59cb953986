//go:build linux

package vfs

import (
	"os"
	"syscall"
	"time"
)

// createdTime extracts the inode change time as the closest portable
// stand-in for a creation timestamp. True birth time is not exposed
// through os.FileInfo on every unix.
func createdTime(info os.FileInfo) (time.Time, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec), true
}
