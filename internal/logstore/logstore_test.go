package logstore

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hangarhq/hangar/internal/category"
	"github.com/hangarhq/hangar/internal/config"
	"github.com/hangarhq/hangar/internal/vfs"
)

func newTestStore(t *testing.T, mutate func(*config.Config)) *Store {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.LogMinLevel = "debug"
	if mutate != nil {
		mutate(cfg)
	}
	reg := category.NewRegistry(t.TempDir(), nil)
	resolver, err := vfs.NewResolver(reg)
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	s, err := New(resolver, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestAppend_RingEviction(t *testing.T) {
	s := newTestStore(t, func(cfg *config.Config) { cfg.LogBufferCapacity = 3 })

	// Concrete scenario: capacity 3, append 4 → entries 2,3,4 remain, in order.
	for i := 1; i <= 4; i++ {
		s.Append(LevelInfo, fmt.Sprintf("entry %d", i), nil)
	}

	entries, err := s.GetLogs(Query{})
	if err != nil {
		t.Fatalf("GetLogs failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	for i, want := range []string{"entry 2", "entry 3", "entry 4"} {
		if entries[i].Message != want {
			t.Errorf("entries[%d] = %q, want %q", i, entries[i].Message, want)
		}
	}
}

func TestAppend_MinimumLevelDiscard(t *testing.T) {
	s := newTestStore(t, func(cfg *config.Config) { cfg.LogMinLevel = "warning" })

	s.Append(LevelDebug, "too verbose", nil)
	s.Append(LevelInfo, "still too verbose", nil)
	s.Append(LevelWarning, "kept", nil)
	s.Append(LevelError, "also kept", nil)

	entries, err := s.GetLogs(Query{})
	if err != nil {
		t.Fatalf("GetLogs failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Message != "kept" || entries[1].Message != "also kept" {
		t.Errorf("unexpected entries: %v", entries)
	}

	// Discarded entries never reach the disk either.
	data, _ := os.ReadFile(s.FilePath())
	if strings.Contains(string(data), "too verbose") {
		t.Error("discarded entry was written to disk")
	}
}

func TestAppend_SuccessFiltersAtInfoTier(t *testing.T) {
	s := newTestStore(t, func(cfg *config.Config) { cfg.LogMinLevel = "info" })

	s.Append(LevelSuccess, "deployed", nil)
	s.Append(LevelDebug, "noise", nil)

	entries, err := s.GetLogs(Query{})
	if err != nil {
		t.Fatalf("GetLogs failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Level != LevelSuccess {
		t.Errorf("SUCCESS should pass an INFO filter, got %v", entries)
	}
}

func TestGetLogs_LevelFilterInclusive(t *testing.T) {
	s := newTestStore(t, nil)

	s.Append(LevelError, "e", nil)
	s.Append(LevelWarning, "w", nil)
	s.Append(LevelInfo, "i", nil)
	s.Append(LevelDebug, "d", nil)

	entries, err := s.GetLogs(Query{Level: "warning"})
	if err != nil {
		t.Fatalf("GetLogs failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2 (ERROR and WARNING)", len(entries))
	}
}

func TestGetLogs_SearchAndLimit(t *testing.T) {
	s := newTestStore(t, nil)

	s.Append(LevelInfo, "fetch started", nil)
	s.Append(LevelError, "request failed", CaptureError(fmt.Errorf("connection REFUSED")))
	s.Append(LevelInfo, "fetch finished", nil)

	// Search matches the attached error message too, case-insensitively.
	entries, err := s.GetLogs(Query{Search: "refused"})
	if err != nil {
		t.Fatalf("GetLogs failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Level != LevelError {
		t.Fatalf("search over error message failed: %v", entries)
	}

	entries, err = s.GetLogs(Query{Search: "fetch", Limit: 1})
	if err != nil {
		t.Fatalf("GetLogs failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Message != "fetch finished" {
		t.Errorf("limit should keep the last match, got %v", entries)
	}
}

func TestGetLogs_InvalidLevel(t *testing.T) {
	s := newTestStore(t, nil)

	if _, err := s.GetLogs(Query{Level: "loud"}); err == nil {
		t.Error("GetLogs should reject an unknown level")
	}
}

func TestSetMinimumLevel_InvalidRetainsPrior(t *testing.T) {
	s := newTestStore(t, func(cfg *config.Config) { cfg.LogMinLevel = "warning" })

	if err := s.SetMinimumLevel("nope"); err == nil {
		t.Error("SetMinimumLevel should reject an unknown level")
	}
	if s.MinimumLevel() != LevelWarning {
		t.Errorf("MinimumLevel = %q, want retained WARNING", s.MinimumLevel())
	}

	if err := s.SetMinimumLevel("debug"); err != nil {
		t.Fatalf("SetMinimumLevel failed: %v", err)
	}
	if s.MinimumLevel() != LevelDebug {
		t.Errorf("MinimumLevel = %q, want DEBUG", s.MinimumLevel())
	}
}

func TestSubscribe_ReplayAndLive(t *testing.T) {
	s := newTestStore(t, nil)

	s.Append(LevelInfo, "before-1", nil)
	s.Append(LevelInfo, "before-2", nil)

	var mu sync.Mutex
	var got []string
	unsubscribe := s.Subscribe(func(e Entry) {
		mu.Lock()
		got = append(got, e.Message)
		mu.Unlock()
	})
	defer unsubscribe()

	s.Append(LevelInfo, "after-1", nil)

	want := []string{"before-1", "before-2", "after-1"}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n == len(want) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != len(want) {
		t.Fatalf("received %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q (replay must precede live entries)", i, got[i], want[i])
		}
	}
}

func TestSubscribe_UnsubscribeStopsDelivery(t *testing.T) {
	s := newTestStore(t, nil)

	var mu sync.Mutex
	var got []string
	unsubscribe := s.Subscribe(func(e Entry) {
		mu.Lock()
		got = append(got, e.Message)
		mu.Unlock()
	})

	s.Append(LevelInfo, "delivered", nil)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	unsubscribe()
	s.Append(LevelInfo, "never delivered", nil)
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != "delivered" {
		t.Errorf("got %v, want only the pre-unsubscribe entry", got)
	}
}

func TestSubscribe_PanickingCallbackIsIsolated(t *testing.T) {
	s := newTestStore(t, nil)

	var mu sync.Mutex
	var healthy []string

	unsubBad := s.Subscribe(func(Entry) { panic("bad listener") })
	defer unsubBad()
	unsubGood := s.Subscribe(func(e Entry) {
		mu.Lock()
		healthy = append(healthy, e.Message)
		mu.Unlock()
	})
	defer unsubGood()

	s.Append(LevelInfo, "one", nil)
	s.Append(LevelInfo, "two", nil)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(healthy)
		mu.Unlock()
		if n == 2 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Errorf("healthy subscriber received %v, want both entries", healthy)
}

func TestAppend_WritesFormattedLine(t *testing.T) {
	s := newTestStore(t, nil)

	s.Append(LevelWarning, "disk almost full", nil)

	data, err := os.ReadFile(s.FilePath())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "[WARNING] disk almost full") {
		t.Errorf("line = %q, want level tag and message", line)
	}
	// Timestamp prefix parses as RFC 3339.
	fields := strings.SplitN(line, " ", 2)
	if _, err := time.Parse(time.RFC3339, fields[0]); err != nil {
		t.Errorf("timestamp %q not RFC 3339: %v", fields[0], err)
	}
}

func TestAppend_WritesErrorLines(t *testing.T) {
	s := newTestStore(t, nil)

	s.Append(LevelError, "operation failed", &ErrorDetail{
		Name:    "*os.PathError",
		Message: "open /x: permission denied",
		Stack:   "goroutine 1 [running]",
	})

	data, err := os.ReadFile(s.FilePath())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "  Error: *os.PathError: open /x: permission denied") {
		t.Errorf("missing Error line in %q", content)
	}
	if !strings.Contains(content, "  Stack: goroutine 1 [running]") {
		t.Errorf("missing Stack line in %q", content)
	}
}

func TestGetStats(t *testing.T) {
	s := newTestStore(t, func(cfg *config.Config) { cfg.LogBufferCapacity = 10 })

	s.Append(LevelInfo, "x", nil)
	unsub := s.Subscribe(func(Entry) {})
	defer unsub()

	stats := s.GetStats()
	if stats.BufferedEntries != 1 {
		t.Errorf("BufferedEntries = %d, want 1", stats.BufferedEntries)
	}
	if stats.BufferCapacity != 10 {
		t.Errorf("BufferCapacity = %d, want 10", stats.BufferCapacity)
	}
	if stats.Subscribers != 1 {
		t.Errorf("Subscribers = %d, want 1", stats.Subscribers)
	}
	if stats.FileSize == 0 {
		t.Error("FileSize should reflect the written entry")
	}
}
