package vfs

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hangarhq/hangar/internal/errors"
)

// Sort keys accepted by List.
const (
	SortByName = "name"
	SortBySize = "size"
	SortByDate = "date"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Category     string
	Search       string // case-insensitive substring match on file name
	IncludeStats bool
	SortBy       string // name|size|date; empty = directory order
	SortOrder    string // asc|desc, default asc
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Category string       `json:"category"`
	Path     string       `json:"path"`
	Files    []FileRecord `json:"files"`
	Total    int          `json:"total"`
}

// List enumerates the entries of a category directory. Entries whose
// names fail path validation are skipped and logged rather than failing
// the whole listing.
func (s *Store) List(input ListInput) (*ListOutput, error) {
	if input.SortBy != "" && input.SortBy != SortByName && input.SortBy != SortBySize && input.SortBy != SortByDate {
		return nil, errors.NewInvalidRequest("sort_by must be one of: name, size, date")
	}
	if input.SortOrder != "" && input.SortOrder != "asc" && input.SortOrder != "desc" {
		return nil, errors.NewInvalidRequest("sort_order must be one of: asc, desc")
	}

	dir, err := s.resolver.CategoryPath(input.Category)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(fmt.Sprintf("category %q", input.Category))
		}
		return nil, errors.NewInternal(fmt.Errorf("read directory: %w", err))
	}

	needStats := input.IncludeStats || input.SortBy == SortBySize || input.SortBy == SortByDate
	search := strings.ToLower(strings.TrimSpace(input.Search))

	files := make([]FileRecord, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if search != "" && !strings.Contains(strings.ToLower(name), search) {
			continue
		}

		abs, err := s.resolver.FilePath(input.Category, name, FileOpts{AllowDangerousExtensions: true})
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"category": input.Category,
				"entry":    name,
			}).Warn("skipping unresolvable directory entry")
			continue
		}

		record := FileRecord{
			FileName:     name,
			AbsolutePath: abs,
			RelativePath: s.relativeTo(abs),
			IsDirectory:  entry.IsDir(),
		}
		if needStats {
			if info, err := entry.Info(); err == nil {
				size := info.Size()
				mod := info.ModTime()
				record.Size = &size
				record.ModifiedAt = &mod
				if created, ok := createdTime(info); ok {
					record.CreatedAt = &created
				}
			}
		}
		files = append(files, record)
	}

	sortRecords(files, input.SortBy, input.SortOrder)

	return &ListOutput{
		Category: input.Category,
		Path:     dir,
		Files:    files,
		Total:    len(files),
	}, nil
}

// sortRecords orders records in place by the given key and direction.
func sortRecords(files []FileRecord, sortBy, sortOrder string) {
	if sortBy == "" {
		return
	}
	desc := sortOrder == "desc"
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		if desc {
			a, b = b, a
		}
		switch sortBy {
		case SortBySize:
			return derefInt64(a.Size) < derefInt64(b.Size)
		case SortByDate:
			return derefTime(a.ModifiedAt).Before(derefTime(b.ModifiedAt))
		default:
			return strings.ToLower(a.FileName) < strings.ToLower(b.FileName)
		}
	})
}
