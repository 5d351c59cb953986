// Package logstore implements the bounded, live-tailable log store: an
// in-memory ring of structured entries mirrored to a rotating on-disk
// file, with per-subscriber bounded delivery queues.
//
// Failures on the disk path are a deliberate contract, not an oversight:
// they are diverted to the diagnostic side channel and never surface to
// the caller whose operation triggered the log call.
package logstore

import (
	"crypto/rand"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/hangarhq/hangar/internal/config"
	"github.com/hangarhq/hangar/internal/vfs"
)

// LogFileName is the current log file's name inside the "logs" category.
const LogFileName = "hangar.log"

// ErrorDetail captures a failure attached to a log entry.
type ErrorDetail struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// CaptureError builds an ErrorDetail from an error, recording the
// caller's stack. Returns nil for a nil error.
func CaptureError(err error) *ErrorDetail {
	if err == nil {
		return nil
	}
	return &ErrorDetail{
		Name:    fmt.Sprintf("%T", err),
		Message: err.Error(),
		Stack:   string(debug.Stack()),
	}
}

// Entry is a single immutable log record.
type Entry struct {
	Timestamp time.Time    `json:"timestamp"`
	Level     Level        `json:"level"`
	Message   string       `json:"message"`
	Error     *ErrorDetail `json:"error,omitempty"`
}

// subscriber is a live-tail listener with a bounded delivery queue.
// The queue drops its oldest entry on overflow so a slow consumer can
// never stall Append.
type subscriber struct {
	id      string
	queue   chan Entry
	done    chan struct{}
	dropped atomic.Uint64
}

// Store is the log store. All methods are safe for concurrent use.
type Store struct {
	mu          sync.Mutex
	ring        *ring
	minLevel    Level
	subscribers map[string]*subscriber
	filePath    string
	maxBytes    int64
	maxBackups  int
	queueSize   int
	// droppedTotal counts entries dropped across all subscriber queues.
	droppedTotal atomic.Uint64
}

// New creates a log store whose on-disk file lives in the "logs"
// category of the given resolver.
func New(resolver *vfs.Resolver, cfg *config.Config) (*Store, error) {
	filePath, err := resolver.FilePath("logs", LogFileName, vfs.FileOpts{})
	if err != nil {
		return nil, err
	}

	minLevel := LevelInfo
	if cfg.LogMinLevel != "" {
		parsed, err := ParseLevel(cfg.LogMinLevel)
		if err != nil {
			return nil, err
		}
		minLevel = parsed
	}

	return &Store{
		ring:        newRing(cfg.LogBufferCapacity),
		minLevel:    minLevel,
		subscribers: make(map[string]*subscriber),
		filePath:    filePath,
		maxBytes:    cfg.LogMaxFileBytes,
		maxBackups:  cfg.LogMaxBackups,
		queueSize:   cfg.LogSubscriberQueueSize,
	}, nil
}

// FilePath returns the current on-disk log file location.
func (s *Store) FilePath() string {
	return s.filePath
}

// Append records a log entry: ring push, subscriber fan-out, then the
// disk write (with rotation first when the file is at the threshold).
// Disk failures never propagate; logging must not break its caller.
func (s *Store) Append(level Level, message string, detail *ErrorDetail) {
	s.mu.Lock()

	if level.rank() > s.minLevel.rank() {
		s.mu.Unlock()
		return
	}

	entry := Entry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
		Error:     detail,
	}
	s.ring.push(entry)

	for _, sub := range s.subscribers {
		s.enqueue(sub, entry)
	}

	// Write under the lock so file line order matches append order.
	s.rotateIfNeeded()
	s.writeEntry(entry)

	s.mu.Unlock()
}

// enqueue delivers an entry to one subscriber queue, dropping the oldest
// queued entry on overflow. Caller holds s.mu.
func (s *Store) enqueue(sub *subscriber, entry Entry) {
	for {
		select {
		case sub.queue <- entry:
			return
		default:
		}
		select {
		case <-sub.queue:
			sub.dropped.Add(1)
			s.droppedTotal.Add(1)
		default:
		}
	}
}

// Query filters the buffered entries.
type Query struct {
	// Level is the maximum severity tier to include (inclusive); empty
	// means everything.
	Level string
	// Search is a case-insensitive substring match over the message and
	// any attached error message.
	Search string
	// Limit keeps only the last N matches when positive.
	Limit int
}

// GetLogs returns a filtered view over the ring buffer. Pure read.
func (s *Store) GetLogs(q Query) ([]Entry, error) {
	var maxRank = ranks[LevelDebug]
	if q.Level != "" {
		level, err := ParseLevel(q.Level)
		if err != nil {
			return nil, err
		}
		maxRank = level.rank()
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))

	s.mu.Lock()
	entries := s.ring.snapshot()
	s.mu.Unlock()

	matched := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Level.rank() > maxRank {
			continue
		}
		if search != "" && !entryMatches(e, search) {
			continue
		}
		matched = append(matched, e)
	}

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[len(matched)-q.Limit:]
	}
	return matched, nil
}

func entryMatches(e Entry, search string) bool {
	if strings.Contains(strings.ToLower(e.Message), search) {
		return true
	}
	return e.Error != nil && strings.Contains(strings.ToLower(e.Error.Message), search)
}

// Subscribe registers a live-tail listener. The buffer's current
// contents are replayed before live entries so a late subscriber sees
// recent history up to ring capacity. The returned function removes the
// listener; no deliveries occur after it returns.
//
// The callback runs on a dedicated goroutine per subscriber; a panic in
// it is caught and logged and does not affect other subscribers.
func (s *Store) Subscribe(fn func(Entry)) func() {
	sub := &subscriber{
		id:    ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String(),
		queue: make(chan Entry, s.queueSize),
		done:  make(chan struct{}),
	}

	s.mu.Lock()
	replay := s.ring.snapshot()
	s.subscribers[sub.id] = sub
	s.mu.Unlock()

	go sub.run(replay, fn)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, sub.id)
			s.mu.Unlock()
			close(sub.done)
		})
	}
}

// run delivers the replay slice, then drains the live queue until the
// subscriber is removed.
func (sub *subscriber) run(replay []Entry, fn func(Entry)) {
	for _, e := range replay {
		select {
		case <-sub.done:
			return
		default:
		}
		deliver(sub.id, fn, e)
	}
	for {
		select {
		case <-sub.done:
			return
		case e := <-sub.queue:
			// Re-check cancellation so an unsubscribe racing the receive
			// wins over the delivery.
			select {
			case <-sub.done:
				return
			default:
			}
			deliver(sub.id, fn, e)
		}
	}
}

// deliver invokes one callback with panic isolation.
func deliver(id string, fn func(Entry), e Entry) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"subscriber": id,
				"panic":      r,
			}).Error("log subscriber callback panicked")
		}
	}()
	fn(e)
}

// SetMinimumLevel updates the append filter. Invalid names are rejected
// and the prior threshold is retained.
func (s *Store) SetMinimumLevel(name string) error {
	level, err := ParseLevel(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.minLevel = level
	s.mu.Unlock()
	return nil
}

// MinimumLevel returns the current append filter.
func (s *Store) MinimumLevel() Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minLevel
}

// Stats describes the store's current state for health reporting.
type Stats struct {
	BufferedEntries int    `json:"buffered_entries"`
	BufferCapacity  int    `json:"buffer_capacity"`
	Subscribers     int    `json:"subscribers"`
	DroppedTotal    uint64 `json:"dropped_total"`
	FilePath        string `json:"file_path"`
	FileSize        int64  `json:"file_size"`
	MinimumLevel    Level  `json:"minimum_level"`
}

// GetStats snapshots the store for the health endpoint.
func (s *Store) GetStats() Stats {
	s.mu.Lock()
	stats := Stats{
		BufferedEntries: s.ring.len(),
		BufferCapacity:  s.ring.capacity,
		Subscribers:     len(s.subscribers),
		DroppedTotal:    s.droppedTotal.Load(),
		FilePath:        s.filePath,
		MinimumLevel:    s.minLevel,
	}
	s.mu.Unlock()

	stats.FileSize = currentFileSize(s.filePath)
	return stats
}
