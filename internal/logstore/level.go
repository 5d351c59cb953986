package logstore

import (
	"fmt"
	"strings"
)

// Level is the severity of a log entry.
//
// SUCCESS is deliberately ranked at INFO's tier: it is a user-facing,
// informational event, and filtering at INFO must not hide it. (The
// alternative — ranking it below DEBUG — would drop success events from
// the default view.)
type Level string

const (
	LevelError   Level = "ERROR"
	LevelWarning Level = "WARNING"
	LevelInfo    Level = "INFO"
	LevelDebug   Level = "DEBUG"
	LevelSuccess Level = "SUCCESS"
)

// ranks orders levels by ascending verbosity. Lower rank = more severe.
var ranks = map[Level]int{
	LevelError:   0,
	LevelWarning: 1,
	LevelInfo:    2,
	LevelSuccess: 2,
	LevelDebug:   3,
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := ranks[l]; !ok {
		return "", fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// rank returns the numeric verbosity tier of l. Unknown levels rank as
// INFO so malformed entries are neither hidden nor promoted.
func (l Level) rank() int {
	if r, ok := ranks[l]; ok {
		return r
	}
	return ranks[LevelInfo]
}
