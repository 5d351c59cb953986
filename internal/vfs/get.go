package vfs

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hangarhq/hangar/internal/errors"
)

// GetInput contains parameters for the Get operation.
type GetInput struct {
	Category string
	FileName string
	// Raw returns the exact stored bytes with no decoding.
	Raw bool
}

// GetOutput contains the result of the Get operation.
type GetOutput struct {
	FileName   string    `json:"file_name"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
	// Content is the decoded representation: structured data for
	// .json/.yaml/.yml names that parse, text otherwise. Nil in raw mode.
	Content any `json:"content,omitempty"`
	// Raw holds the stored bytes in raw mode.
	Raw []byte `json:"-"`
}

// Get reads a stored file. Non-raw reads of structured-data extensions
// are decoded best-effort, falling back to plain text when the content
// does not parse.
func (s *Store) Get(input GetInput) (*GetOutput, error) {
	path, err := s.resolver.FilePath(input.Category, input.FileName, s.fileOpts())
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(fmt.Sprintf("%s/%s", input.Category, input.FileName))
		}
		return nil, errors.NewInternal(fmt.Errorf("stat file: %w", err))
	}
	if info.IsDir() {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("%s is a directory", input.FileName))
	}
	if info.Size() > s.cfg.MaxFileBytes {
		return nil, errors.NewTooLarge(s.cfg.MaxFileBytes, info.Size())
	}

	f, err := openFileNoFollowRead(path)
	if err != nil {
		if _, ok := err.(*errors.HangarError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("open file: %w", err))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("read file: %w", err))
	}

	out := &GetOutput{
		FileName:   input.FileName,
		Path:       path,
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
	}
	if input.Raw {
		out.Raw = data
		return out, nil
	}

	out.Content = decodeContent(input.FileName, data)
	return out, nil
}

// decodeContent decodes structured-data extensions best-effort and falls
// back to the text itself.
func decodeContent(fileName string, data []byte) any {
	text := string(data)
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".json":
		var v any
		if err := json.Unmarshal(data, &v); err == nil {
			return v
		}
	case ".yaml", ".yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err == nil {
			return v
		}
	}
	return text
}
