package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// MaxFileBytes is the maximum size of a single stored file.
	// Applies to reads, writes, and the combined size in append mode.
	MaxFileBytes int64 `json:"max_file_bytes"`

	// AllowDangerousExtensions disables the executable-extension denylist
	// (.exe, .sh, .bat, ...). Off by default.
	AllowDangerousExtensions bool `json:"allow_dangerous_extensions,omitempty"`

	// LogBufferCapacity is the number of entries retained in the in-memory
	// log ring buffer.
	LogBufferCapacity int `json:"log_buffer_capacity"`

	// LogMaxFileBytes is the on-disk log file size at which rotation occurs.
	LogMaxFileBytes int64 `json:"log_max_file_bytes"`

	// LogMaxBackups is the number of rotated log files kept (suffixes 1..K,
	// 1 = most recent).
	LogMaxBackups int `json:"log_max_backups"`

	// LogMinLevel is the minimum severity recorded by the log store.
	// One of: error, warning, info, debug, success.
	LogMinLevel string `json:"log_min_level"`

	// LogSubscriberQueueSize bounds each live-tail subscriber's delivery
	// queue. The oldest queued entry is dropped on overflow.
	LogSubscriberQueueSize int `json:"log_subscriber_queue_size"`

	// ExtraCategories maps additional category names to relative paths,
	// registered at startup alongside the built-in set.
	ExtraCategories map[string]string `json:"extra_categories,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxFileBytes:           10 * 1024 * 1024,
		LogBufferCapacity:      1000,
		LogMaxFileBytes:        5 * 1024 * 1024,
		LogMaxBackups:          5,
		LogMinLevel:            "info",
		LogSubscriberQueueSize: 128,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.hangar.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; collections are merged.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.MaxFileBytes = overlay.MaxFileBytes
	if result.MaxFileBytes == 0 {
		result.MaxFileBytes = base.MaxFileBytes
	}

	result.LogBufferCapacity = overlay.LogBufferCapacity
	if result.LogBufferCapacity == 0 {
		result.LogBufferCapacity = base.LogBufferCapacity
	}

	result.LogMaxFileBytes = overlay.LogMaxFileBytes
	if result.LogMaxFileBytes == 0 {
		result.LogMaxFileBytes = base.LogMaxFileBytes
	}

	result.LogMaxBackups = overlay.LogMaxBackups
	if result.LogMaxBackups == 0 {
		result.LogMaxBackups = base.LogMaxBackups
	}

	result.LogMinLevel = overlay.LogMinLevel
	if result.LogMinLevel == "" {
		result.LogMinLevel = base.LogMinLevel
	}

	result.LogSubscriberQueueSize = overlay.LogSubscriberQueueSize
	if result.LogSubscriberQueueSize == 0 {
		result.LogSubscriberQueueSize = base.LogSubscriberQueueSize
	}

	// Booleans: overlay wins if true, else base
	result.AllowDangerousExtensions = base.AllowDangerousExtensions || overlay.AllowDangerousExtensions

	// Maps: overlay entries win on key collision
	result.ExtraCategories = mergeStringMap(base.ExtraCategories, overlay.ExtraCategories)

	// Arrays: merge and deduplicate
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringMap combines two maps; overlay entries win on key collision.
func mergeStringMap(a, b map[string]string) map[string]string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	result := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		result[k] = v
	}
	for k, v := range b {
		result[k] = v
	}
	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
