package vfs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hangarhq/hangar/internal/errors"
)

// CreateFolderInput contains parameters for the CreateFolder operation.
type CreateFolderInput struct {
	Category   string
	FolderName string
}

// CreateFolderOutput contains the result of the CreateFolder operation.
type CreateFolderOutput struct {
	Path string `json:"path"`
	// Category is the name the new folder was registered under; later
	// operations can address it directly.
	Category string `json:"category"`
}

// CreateFolder creates a subdirectory under a category and registers it
// as a category of its own, named by its root-relative path.
func (s *Store) CreateFolder(input CreateFolderInput) (*CreateFolderOutput, error) {
	folderName := SanitizeFilename(input.FolderName)
	if folderName == "unnamed" && input.FolderName == "" {
		return nil, errors.NewInvalidRequest("folder name is required")
	}

	parent, err := s.resolver.CategoryPath(input.Category)
	if err != nil {
		return nil, err
	}

	target := filepath.Join(parent, folderName)
	if _, err := os.Lstat(target); err == nil {
		return nil, errors.NewConflict(fmt.Sprintf("folder %s already exists", folderName))
	} else if !os.IsNotExist(err) {
		return nil, errors.NewInternal(fmt.Errorf("stat folder: %w", err))
	}

	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("create folder: %w", err))
	}

	// Register under the root-relative path so names cannot collide
	// across parents.
	categoryName := s.relativeTo(target)
	if err := s.registry.Register(categoryName, categoryName); err != nil {
		return nil, err
	}

	return &CreateFolderOutput{Path: target, Category: categoryName}, nil
}
