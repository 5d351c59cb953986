package vfs

import (
	"os"

	"github.com/sirupsen/logrus"
)

// MoveInput contains parameters for the Move operation.
type MoveInput struct {
	SourceCategory string
	SourceFileName string
	TargetCategory string
	TargetFileName string
	Overwrite      bool
}

// MoveOutput contains the result of the Move operation. The outcome is
// tri-state: full success, partial success (copied but the source could
// not be removed), or failure — callers must be able to tell "moved"
// from "copied with the original still present".
type MoveOutput struct {
	SourcePath string `json:"source_path"`
	TargetPath string `json:"target_path"`
	Size       int64  `json:"size"`
	// PartialSuccess is set when the copy succeeded but deleting the
	// source failed; DeleteError carries the distinct failure.
	PartialSuccess bool   `json:"partial_success,omitempty"`
	DeleteError    string `json:"delete_error,omitempty"`
}

// Move relocates a file, composed as copy-then-delete-source.
func (s *Store) Move(input MoveInput) (*MoveOutput, error) {
	copied, err := s.Copy(CopyInput{
		SourceCategory: input.SourceCategory,
		SourceFileName: input.SourceFileName,
		TargetCategory: input.TargetCategory,
		TargetFileName: input.TargetFileName,
		Overwrite:      input.Overwrite,
	})
	if err != nil {
		return nil, err
	}

	out := &MoveOutput{
		SourcePath: copied.SourcePath,
		TargetPath: copied.TargetPath,
		Size:       copied.Size,
	}

	if err := os.Remove(copied.SourcePath); err != nil {
		logrus.WithError(err).WithField("path", copied.SourcePath).
			Warn("move copied the file but could not remove the source")
		out.PartialSuccess = true
		out.DeleteError = err.Error()
	}

	return out, nil
}
