package vfs

import (
	"fmt"
	"os"

	"github.com/hangarhq/hangar/internal/errors"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	Category string
	FileName string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	Path    string `json:"path"`
}

// Delete removes a stored file.
func (s *Store) Delete(input DeleteInput) (*DeleteOutput, error) {
	path, err := s.resolver.FilePath(input.Category, input.FileName, s.fileOpts())
	if err != nil {
		return nil, err
	}

	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(fmt.Sprintf("%s/%s", input.Category, input.FileName))
		}
		return nil, errors.NewInternal(fmt.Errorf("stat file: %w", err))
	}
	if info.IsDir() {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("%s is a directory", input.FileName))
	}

	if err := os.Remove(path); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("remove file: %w", err))
	}

	return &DeleteOutput{Deleted: true, Path: path}, nil
}
