// Package vfs implements the sandboxed virtual file store: every
// operation is addressed by a (category, filename) pair and resolved to
// an absolute path guaranteed to stay under the base root.
package vfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hangarhq/hangar/internal/category"
	"github.com/hangarhq/hangar/internal/errors"
)

// dangerousExtensions is the denylist of executable-style extensions
// rejected unless AllowDangerousExtensions is set.
var dangerousExtensions = map[string]bool{
	".exe": true, ".sh": true, ".bat": true, ".cmd": true,
	".ps1": true, ".jar": true, ".dll": true, ".com": true,
}

// FileOpts controls per-call resolution behavior.
type FileOpts struct {
	// AllowDangerousExtensions disables the executable-extension denylist.
	AllowDangerousExtensions bool
}

// Resolver turns (category, filename) pairs into absolute paths confined
// to the registry's base root.
type Resolver struct {
	categories *category.Registry
	// baseDir is the registry's base root with symlinks resolved, so the
	// containment check compares canonical paths.
	baseDir string
}

// NewResolver creates a resolver over the given registry. The base root
// is created if missing and canonicalized once up front.
func NewResolver(reg *category.Registry) (*Resolver, error) {
	base, err := filepath.Abs(reg.BaseDir())
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("resolve base dir: %w", err))
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("create base dir: %w", err))
	}
	canonical, err := filepath.EvalSymlinks(base)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("canonicalize base dir: %w", err))
	}
	return &Resolver{categories: reg, baseDir: canonical}, nil
}

// BaseDir returns the canonical base root.
func (r *Resolver) BaseDir() string {
	return r.baseDir
}

// CategoryPath resolves a category name to an absolute directory path.
// An empty category means the base root itself. Unknown names are treated
// as raw relative paths and validated component by component.
func (r *Resolver) CategoryPath(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return r.baseDir, nil
	}

	if rel, ok := r.categories.Resolve(name); ok {
		return r.confine(rel)
	}

	// Not registered: validate as a raw relative path.
	if err := category.ValidateRelativePath(name); err != nil {
		return "", err
	}
	return r.confine(name)
}

// FilePath resolves (category, fileName) to an absolute file path. The
// file name may itself be a nested relative path; every component is
// validated with the same rules as category paths.
func (r *Resolver) FilePath(categoryName, fileName string, opts FileOpts) (string, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return "", errors.NewInvalidRequest("file name is required")
	}
	if err := category.ValidateRelativePath(fileName); err != nil {
		return "", err
	}
	if !opts.AllowDangerousExtensions {
		ext := strings.ToLower(filepath.Ext(fileName))
		if dangerousExtensions[ext] {
			return "", errors.NewInvalidPath(fmt.Sprintf("file extension %s is not allowed", ext))
		}
	}

	dir, err := r.CategoryPath(categoryName)
	if err != nil {
		return "", err
	}

	abs := filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(fileName, `\`, "/")))
	if err := r.checkContainment(abs); err != nil {
		return "", err
	}
	return abs, nil
}

// confine joins a validated relative path to the base root and verifies
// the result is still a descendant.
func (r *Resolver) confine(rel string) (string, error) {
	abs := filepath.Join(r.baseDir, filepath.FromSlash(strings.ReplaceAll(rel, `\`, "/")))
	if err := r.checkContainment(abs); err != nil {
		return "", err
	}
	return abs, nil
}

// checkContainment verifies that p is a true descendant of the base root.
// The comparison is separator-boundary aware (a raw string prefix would
// let /base/foobar pass for root /base/foo), and the deepest existing
// ancestor of p is symlink-resolved first so a link planted inside a
// category cannot point the path out of the root.
func (r *Resolver) checkContainment(p string) error {
	resolved, err := resolveExistingPrefix(p)
	if err != nil {
		return errors.NewInternal(fmt.Errorf("canonicalize path: %w", err))
	}
	if !isWithin(r.baseDir, resolved) {
		return errors.NewInvalidPath("path escapes the storage root")
	}
	return nil
}

// isWithin reports whether p equals base or is a descendant of it,
// comparing at path-separator boundaries.
func isWithin(base, p string) bool {
	rel, err := filepath.Rel(base, p)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// resolveExistingPrefix canonicalizes the deepest existing ancestor of p
// and rejoins the non-existent remainder. The final component is not
// required to exist (it usually doesn't yet for writes).
func resolveExistingPrefix(p string) (string, error) {
	remainder := make([]string, 0, 4)
	current := p
	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			return filepath.Join(append([]string{resolved}, remainder...)...), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(current)
		if parent == current {
			// Walked to the filesystem root without finding anything.
			return p, nil
		}
		remainder = append([]string{filepath.Base(current)}, remainder...)
		current = parent
	}
}
