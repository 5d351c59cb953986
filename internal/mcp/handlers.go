package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hangarhq/hangar/internal/config"
	"github.com/hangarhq/hangar/internal/errors"
	"github.com/hangarhq/hangar/internal/logstore"
	"github.com/hangarhq/hangar/internal/vfs"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	files *vfs.Store
	logs  *logstore.Store
	cfg   *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(files *vfs.Store, logs *logstore.Store, cfg *config.Config) *Handlers {
	return &Handlers{files: files, logs: logs, cfg: cfg}
}

// Request types for each tool

// SaveRequest represents the arguments for file_save.
type SaveRequest struct {
	Category         string `json:"category"`
	FileName         string `json:"file_name"`
	Content          string `json:"content"`
	Overwrite        *bool  `json:"overwrite,omitempty"`
	Append           bool   `json:"append,omitempty"`
	SanitizeFilename bool   `json:"sanitize_filename,omitempty"`
}

// GetRequest represents the arguments for file_get.
type GetRequest struct {
	Category string `json:"category"`
	FileName string `json:"file_name"`
}

// ListRequest represents the arguments for file_list.
type ListRequest struct {
	Category     string `json:"category,omitempty"`
	Search       string `json:"search,omitempty"`
	IncludeStats bool   `json:"include_stats,omitempty"`
	SortBy       string `json:"sort_by,omitempty"`
	SortOrder    string `json:"sort_order,omitempty"`
}

// DeleteRequest represents the arguments for file_delete.
type DeleteRequest struct {
	Category string `json:"category"`
	FileName string `json:"file_name"`
}

// TransferRequest represents the arguments for file_copy and file_move.
type TransferRequest struct {
	SourceCategory string `json:"source_category"`
	SourceFileName string `json:"source_file_name"`
	TargetCategory string `json:"target_category"`
	TargetFileName string `json:"target_file_name,omitempty"`
	Overwrite      bool   `json:"overwrite,omitempty"`
}

// CreateFolderRequest represents the arguments for folder_create.
type CreateFolderRequest struct {
	Category   string `json:"category"`
	FolderName string `json:"folder_name"`
}

// LogQueryRequest represents the arguments for log_query.
type LogQueryRequest struct {
	Level  string `json:"level,omitempty"`
	Search string `json:"search,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// LogSetLevelRequest represents the arguments for log_set_level.
type LogSetLevelRequest struct {
	Level string `json:"level"`
}

// Handler implementations

// HandleSave handles the file_save tool call.
func (h *Handlers) HandleSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SaveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	saveInput := vfs.NewSaveInput(input.Category, input.FileName, input.Content)
	if input.Overwrite != nil {
		saveInput.Overwrite = *input.Overwrite
	}
	saveInput.Append = input.Append
	saveInput.SanitizeFilename = input.SanitizeFilename

	result, err := h.files.Save(saveInput)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleGet handles the file_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.files.Get(vfs.GetInput{
		Category: input.Category,
		FileName: input.FileName,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleList handles the file_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.files.List(vfs.ListInput{
		Category:     input.Category,
		Search:       input.Search,
		IncludeStats: input.IncludeStats,
		SortBy:       input.SortBy,
		SortOrder:    input.SortOrder,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDelete handles the file_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.files.Delete(vfs.DeleteInput{
		Category: input.Category,
		FileName: input.FileName,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleCopy handles the file_copy tool call.
func (h *Handlers) HandleCopy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TransferRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.files.Copy(vfs.CopyInput{
		SourceCategory: input.SourceCategory,
		SourceFileName: input.SourceFileName,
		TargetCategory: input.TargetCategory,
		TargetFileName: input.TargetFileName,
		Overwrite:      input.Overwrite,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleMove handles the file_move tool call.
func (h *Handlers) HandleMove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TransferRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.files.Move(vfs.MoveInput{
		SourceCategory: input.SourceCategory,
		SourceFileName: input.SourceFileName,
		TargetCategory: input.TargetCategory,
		TargetFileName: input.TargetFileName,
		Overwrite:      input.Overwrite,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleCreateFolder handles the folder_create tool call.
func (h *Handlers) HandleCreateFolder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateFolderRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.files.CreateFolder(vfs.CreateFolderInput{
		Category:   input.Category,
		FolderName: input.FolderName,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleLogQuery handles the log_query tool call.
func (h *Handlers) HandleLogQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LogQueryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	entries, err := h.logs.GetLogs(logstore.Query{
		Level:  input.Level,
		Search: input.Search,
		Limit:  input.Limit,
	})
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return successResult(map[string]any{
		"entries": entries,
		"total":   len(entries),
	})
}

// HandleLogSetLevel handles the log_set_level tool call.
func (h *Handlers) HandleLogSetLevel(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LogSetLevelRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if err := h.logs.SetMinimumLevel(input.Level); err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return successResult(map[string]any{"minimum_level": h.logs.MinimumLevel()})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if hErr, ok := err.(*errors.HangarError); ok {
		errorObj := map[string]any{
			"code":    hErr.Code,
			"message": hErr.Message,
			"status":  hErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like absolute paths
		if hErr.Code != errors.ErrInternal && hErr.Details != nil {
			errorObj["details"] = hErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
