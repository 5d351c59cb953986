package vfs

import (
	"fmt"
	"io"
	"os"

	"github.com/hangarhq/hangar/internal/errors"
)

// CopyInput contains parameters for the Copy operation.
type CopyInput struct {
	SourceCategory string
	SourceFileName string
	TargetCategory string
	// TargetFileName defaults to the source file name.
	TargetFileName string
	Overwrite      bool
}

// CopyOutput contains the result of the Copy operation.
type CopyOutput struct {
	SourcePath string `json:"source_path"`
	TargetPath string `json:"target_path"`
	Size       int64  `json:"size"`
}

// Copy duplicates a stored file into another category.
func (s *Store) Copy(input CopyInput) (*CopyOutput, error) {
	targetName := input.TargetFileName
	if targetName == "" {
		targetName = input.SourceFileName
	}

	source, err := s.resolver.FilePath(input.SourceCategory, input.SourceFileName, s.fileOpts())
	if err != nil {
		return nil, err
	}
	target, err := s.resolver.FilePath(input.TargetCategory, targetName, s.fileOpts())
	if err != nil {
		return nil, err
	}
	if source == target {
		return nil, errors.NewInvalidRequest("source and target are the same file")
	}

	info, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(fmt.Sprintf("%s/%s", input.SourceCategory, input.SourceFileName))
		}
		return nil, errors.NewInternal(fmt.Errorf("stat source: %w", err))
	}
	if info.IsDir() {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("%s is a directory", input.SourceFileName))
	}

	if _, err := os.Lstat(target); err == nil && !input.Overwrite {
		return nil, errors.NewConflict(fmt.Sprintf("file %s already exists", targetName))
	}

	if err := ensureParentDir(target); err != nil {
		return nil, err
	}

	size, err := copyBytes(source, target)
	if err != nil {
		return nil, err
	}

	return &CopyOutput{SourcePath: source, TargetPath: target, Size: size}, nil
}

// copyBytes streams source into target through scoped handles.
func copyBytes(source, target string) (int64, error) {
	in, err := openFileNoFollowRead(source)
	if err != nil {
		if _, ok := err.(*errors.HangarError); ok {
			return 0, err
		}
		return 0, errors.NewInternal(fmt.Errorf("open source: %w", err))
	}
	defer in.Close()

	out, err := openFileNoFollow(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		if _, ok := err.(*errors.HangarError); ok {
			return 0, err
		}
		return 0, errors.NewInternal(fmt.Errorf("open target: %w", err))
	}
	defer out.Close()

	size, err := io.Copy(out, in)
	if err != nil {
		return 0, errors.NewInternal(fmt.Errorf("copy bytes: %w", err))
	}
	return size, nil
}
