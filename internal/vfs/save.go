package vfs

import (
	"fmt"
	"os"

	"github.com/hangarhq/hangar/internal/errors"
)

// SaveInput contains parameters for the Save operation.
type SaveInput struct {
	Category string
	FileName string
	// Data is the payload: []byte and string pass through unchanged,
	// anything else is serialized as indented JSON.
	Data any
	// Overwrite allows replacing an existing file. Defaults to true via
	// NewSaveInput; the zero value is kept honest by Save itself.
	Overwrite bool
	// Append appends to an existing file instead of replacing it.
	Append bool
	// SanitizeFilename rewrites the file name into a safe single
	// component before resolving.
	SanitizeFilename bool
}

// NewSaveInput returns a SaveInput with the default collision behavior
// (overwrite enabled), matching the store's documented contract.
func NewSaveInput(categoryName, fileName string, data any) SaveInput {
	return SaveInput{
		Category:  categoryName,
		FileName:  fileName,
		Data:      data,
		Overwrite: true,
	}
}

// SaveOutput contains the result of the Save operation.
type SaveOutput struct {
	FileName     string `json:"file_name"`
	Path         string `json:"path"`
	RelativePath string `json:"relative_path"`
	Size         int64  `json:"size"`
	Appended     bool   `json:"appended,omitempty"`
}

// Save writes a file under the given category. The write goes through a
// scoped O_NOFOLLOW handle that is closed on every exit path.
func (s *Store) Save(input SaveInput) (*SaveOutput, error) {
	fileName := input.FileName
	if input.SanitizeFilename {
		fileName = SanitizeFilename(fileName)
	}

	target, err := s.resolver.FilePath(input.Category, fileName, s.fileOpts())
	if err != nil {
		return nil, err
	}

	data, err := serializePayload(input.Data)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.cfg.MaxFileBytes {
		return nil, errors.NewTooLarge(s.cfg.MaxFileBytes, int64(len(data)))
	}

	info, statErr := os.Stat(target)
	exists := statErr == nil
	if exists && info.IsDir() {
		return nil, errors.NewConflict(fmt.Sprintf("%s is a directory", fileName))
	}
	if exists && !input.Overwrite && !input.Append {
		return nil, errors.NewConflict(fmt.Sprintf("file %s already exists", fileName))
	}
	if exists && input.Append {
		// Append mode enforces the combined size limit.
		combined := info.Size() + int64(len(data))
		if combined > s.cfg.MaxFileBytes {
			return nil, errors.NewTooLarge(s.cfg.MaxFileBytes, combined)
		}
	}

	if err := ensureParentDir(target); err != nil {
		return nil, err
	}

	flags := os.O_CREATE | os.O_WRONLY
	if input.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := openFileNoFollow(target, flags, 0o644)
	if err != nil {
		if _, ok := err.(*errors.HangarError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("open file: %w", err))
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("write file: %w", err))
	}

	written, err := os.Stat(target)
	size := int64(len(data))
	if err == nil {
		size = written.Size()
	}

	return &SaveOutput{
		FileName:     fileName,
		Path:         target,
		RelativePath: s.relativeTo(target),
		Size:         size,
		Appended:     exists && input.Append,
	}, nil
}
