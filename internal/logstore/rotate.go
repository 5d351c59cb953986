package logstore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// rotateIfNeeded archives the current file under numbered suffixes once
// it reaches the size threshold: the oldest backup (suffix K) is removed,
// every backup i shifts to i+1, and the current file becomes suffix 1.
// Every step is best-effort — a failed rename or delete is logged to the
// side channel and the chain continues. Caller holds s.mu.
func (s *Store) rotateIfNeeded() {
	info, err := os.Stat(s.filePath)
	if err != nil {
		// No current file (first write, or just rotated) — nothing to do.
		return
	}
	if info.Size() < s.maxBytes {
		return
	}

	oldest := backupName(s.filePath, s.maxBackups)
	if _, err := os.Lstat(oldest); err == nil {
		if err := os.Remove(oldest); err != nil {
			logrus.WithError(err).WithField("file", oldest).Warn("log rotation: removing oldest backup failed")
		}
	}

	for i := s.maxBackups - 1; i >= 1; i-- {
		from := backupName(s.filePath, i)
		if _, err := os.Lstat(from); err != nil {
			continue
		}
		to := backupName(s.filePath, i+1)
		if err := os.Rename(from, to); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"from": from,
				"to":   to,
			}).Warn("log rotation: shifting backup failed")
		}
	}

	if err := os.Rename(s.filePath, backupName(s.filePath, 1)); err != nil {
		logrus.WithError(err).WithField("file", s.filePath).Warn("log rotation: archiving current file failed")
	}
}

// writeEntry appends the formatted entry to the current file through a
// scoped handle. Failures are logged and swallowed. Caller holds s.mu.
func (s *Store) writeEntry(entry Entry) {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o755); err != nil {
		logrus.WithError(err).Warn("log write: creating log directory failed")
		return
	}
	f, err := os.OpenFile(s.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logrus.WithError(err).Warn("log write: opening log file failed")
		return
	}
	defer f.Close()

	if _, err := f.WriteString(formatEntry(entry)); err != nil {
		logrus.WithError(err).Warn("log write: appending entry failed")
	}
}

// formatEntry renders the plain-text line format:
// <ISO-8601 timestamp> [<LEVEL>] <message>, optionally followed by
// indented Error and Stack lines.
func formatEntry(entry Entry) string {
	line := fmt.Sprintf("%s [%s] %s\n", entry.Timestamp.Format(time.RFC3339), entry.Level, entry.Message)
	if entry.Error != nil {
		line += fmt.Sprintf("  Error: %s: %s\n", entry.Error.Name, entry.Error.Message)
		if entry.Error.Stack != "" {
			line += fmt.Sprintf("  Stack: %s\n", entry.Error.Stack)
		}
	}
	return line
}

// backupName returns the numbered rotation name: file.1, file.2, ...
func backupName(path string, i int) string {
	return fmt.Sprintf("%s.%d", path, i)
}

// currentFileSize returns the on-disk size of the current log file, or
// zero when it does not exist.
func currentFileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
