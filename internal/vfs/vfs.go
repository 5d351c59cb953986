package vfs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hangarhq/hangar/internal/category"
	"github.com/hangarhq/hangar/internal/config"
	"github.com/hangarhq/hangar/internal/errors"
)

// FileRecord describes a single directory entry. Produced transiently by
// list and get operations; never cached.
type FileRecord struct {
	FileName     string     `json:"file_name"`
	AbsolutePath string     `json:"absolute_path"`
	RelativePath string     `json:"relative_path"`
	IsDirectory  bool       `json:"is_directory,omitempty"`
	Size         *int64     `json:"size,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	ModifiedAt   *time.Time `json:"modified_at,omitempty"`
}

// Store is the virtual file store. All operations address files by
// (category, filename) through the resolver; nothing outside the base
// root is ever touched.
//
// There is no per-file locking: two concurrent writers to the same
// (category, filename) race and the last completed write wins. This is
// the documented contract, not an oversight — collaborators address
// disjoint artifacts, and in-process locking could not order writers
// from other processes anyway.
type Store struct {
	resolver *Resolver
	registry *category.Registry
	cfg      *config.Config
}

// NewStore creates a file store over the given registry and config.
func NewStore(reg *category.Registry, cfg *config.Config) (*Store, error) {
	resolver, err := NewResolver(reg)
	if err != nil {
		return nil, err
	}
	return &Store{resolver: resolver, registry: reg, cfg: cfg}, nil
}

// Resolver exposes the store's path resolver for collaborators that need
// confined paths without going through a CRUD operation (the log store's
// own file location, for one).
func (s *Store) Resolver() *Resolver {
	return s.resolver
}

// fileOpts returns the per-call resolution options derived from config.
func (s *Store) fileOpts() FileOpts {
	return FileOpts{AllowDangerousExtensions: s.cfg.AllowDangerousExtensions}
}

// relativeTo returns p relative to the base root, slash-separated.
func (s *Store) relativeTo(p string) string {
	rel, err := filepath.Rel(s.resolver.BaseDir(), p)
	if err != nil {
		return ""
	}
	return filepath.ToSlash(rel)
}

// serializePayload turns arbitrary save data into bytes: byte slices and
// strings pass through, anything else is encoded as indented JSON.
func serializePayload(data any) ([]byte, error) {
	switch v := data.(type) {
	case nil:
		return nil, errors.NewInvalidRequest("data is required")
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("data is not serializable: %v", err))
		}
		return b, nil
	}
}

func derefInt64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefTime(v *time.Time) time.Time {
	if v == nil {
		return time.Time{}
	}
	return *v
}

// ensureParentDir creates the parent directory of path if missing.
func ensureParentDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewInternal(fmt.Errorf("create parent directory: %w", err))
	}
	return nil
}
