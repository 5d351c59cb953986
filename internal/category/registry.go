// Package category maintains the table of named virtual subdirectories
// that confine every file operation under a single base root.
package category

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/hangarhq/hangar/internal/errors"
)

// Defaults is the category set seeded at startup. Collaborators drop
// scraped pages, screenshots, generated scripts, formatted sources, and
// test reports into these; "logs" holds the log store's own files.
var Defaults = map[string]string{
	"scraped":     "scraped",
	"screenshots": "screenshots",
	"scripts":     "scripts",
	"formatted":   "formatted",
	"reports":     "reports",
	"logs":        "logs",
	"uploads":     "uploads",
}

// Registry maps category names to relative subpaths under the base root.
// Entries are added at runtime and live for the process lifetime; nothing
// is persisted or removed. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	baseDir string
	entries map[string]string
}

// NewRegistry creates a registry rooted at baseDir, seeded with the
// default categories plus any extras. Extras with invalid relative paths
// are skipped and logged.
func NewRegistry(baseDir string, extras map[string]string) *Registry {
	r := &Registry{
		baseDir: baseDir,
		entries: make(map[string]string, len(Defaults)+len(extras)),
	}
	for name, rel := range Defaults {
		if err := r.Register(name, rel); err != nil {
			logrus.WithError(err).WithField("category", name).Warn("skipping default category")
		}
	}
	for name, rel := range extras {
		if err := r.Register(name, rel); err != nil {
			logrus.WithError(err).WithField("category", name).Warn("skipping configured category")
		}
	}
	return r
}

// BaseDir returns the base root all categories are confined beneath.
func (r *Registry) BaseDir() string {
	return r.baseDir
}

// Register inserts or overwrites a category. It fails only if the
// relative path fails component validation; re-registering an existing
// name is not a conflict.
//
// Registering a brand-new name kicks off best-effort directory creation
// in the background. A mkdir failure is logged and does not fail the
// registration; the directory is created lazily on first write instead.
func (r *Registry) Register(name, relativePath string) error {
	name = Normalize(name)
	if name == "" {
		return errors.NewInvalidRequest("category name must not be empty")
	}
	relativePath = filepath.ToSlash(strings.TrimSpace(relativePath))
	if err := ValidateRelativePath(relativePath); err != nil {
		return err
	}

	r.mu.Lock()
	_, existed := r.entries[name]
	r.entries[name] = relativePath
	r.mu.Unlock()

	if !existed {
		dir := filepath.Join(r.baseDir, filepath.FromSlash(relativePath))
		go func() {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				logrus.WithError(err).WithField("dir", dir).Warn("category directory creation failed")
			}
		}()
	}
	return nil
}

// Resolve looks up the relative path registered for name.
func (r *Registry) Resolve(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rel, ok := r.entries[Normalize(name)]
	return rel, ok
}

// Names returns a sorted snapshot of registered category names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}
