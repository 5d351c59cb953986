package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/hangarhq/hangar/internal/category"
	"github.com/hangarhq/hangar/internal/config"
	"github.com/hangarhq/hangar/internal/errors"
	"github.com/hangarhq/hangar/internal/logstore"
	"github.com/hangarhq/hangar/internal/vfs"
)

// Handlers contains HTTP route handlers for the Hangar API.
type Handlers struct {
	files    *vfs.Store
	logs     *logstore.Store
	registry *category.Registry
	cfg      *config.Config
	version  string
}

// writeJSON renders a success payload.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError renders the error envelope {"error": ..., "code": ...}.
func writeError(w http.ResponseWriter, err error) {
	status := errors.StatusOf(err)
	writeJSON(w, status, map[string]any{
		"error": err.Error(),
		"code":  status,
	})
}

// decodeBody unmarshals a JSON request body into a typed struct.
func decodeBody[T any](r *http.Request) (T, error) {
	var result T
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		return result, errors.NewInvalidRequest("invalid JSON body: " + err.Error())
	}
	return result, nil
}

func parseBoolParam(r *http.Request, name string) bool {
	v := strings.ToLower(r.URL.Query().Get(name))
	return v == "1" || v == "true" || v == "yes"
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "hangar",
		"version": h.version,
		"logs":    h.logs.GetStats(),
	})
}

// HandleListCategories handles GET /api/categories.
func (h *Handlers) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": h.registry.Names()})
}

// RegisterCategoryRequest is the body for POST /api/categories.
type RegisterCategoryRequest struct {
	Name         string `json:"name"`
	RelativePath string `json:"relative_path"`
}

// HandleRegisterCategory handles POST /api/categories.
func (h *Handlers) HandleRegisterCategory(w http.ResponseWriter, r *http.Request) {
	input, err := decodeBody[RegisterCategoryRequest](r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.registry.Register(input.Name, input.RelativePath); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"registered": input.Name})
}

// HandleList handles GET /api/files — list a category's entries.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	result, err := h.files.List(vfs.ListInput{
		Category:     r.URL.Query().Get("category"),
		Search:       r.URL.Query().Get("search"),
		IncludeStats: parseBoolParam(r, "stats"),
		SortBy:       r.URL.Query().Get("sort_by"),
		SortOrder:    r.URL.Query().Get("sort_order"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleGet handles GET /api/file — read one file. With raw=1 the exact
// stored bytes are returned as a download; otherwise a JSON payload with
// decoded content.
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	input := vfs.GetInput{
		Category: r.URL.Query().Get("category"),
		FileName: r.URL.Query().Get("name"),
		Raw:      parseBoolParam(r, "raw"),
	}

	result, err := h.files.Get(input)
	if err != nil {
		writeError(w, err)
		return
	}

	if input.Raw {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Raw)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleSave handles PUT /api/file — the request body is stored as the
// file's content.
func (h *Handlers) HandleSave(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, h.cfg.MaxFileBytes+1))
	if err != nil {
		writeError(w, errors.NewInternal(err))
		return
	}

	input := vfs.SaveInput{
		Category:         r.URL.Query().Get("category"),
		FileName:         r.URL.Query().Get("name"),
		Data:             body,
		Overwrite:        true,
		Append:           parseBoolParam(r, "append"),
		SanitizeFilename: parseBoolParam(r, "sanitize"),
	}
	if r.URL.Query().Has("overwrite") {
		input.Overwrite = parseBoolParam(r, "overwrite")
	}

	result, err := h.files.Save(input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// HandleDelete handles DELETE /api/file.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	result, err := h.files.Delete(vfs.DeleteInput{
		Category: r.URL.Query().Get("category"),
		FileName: r.URL.Query().Get("name"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CopyRequest is the body for POST /api/files/copy and /api/files/move.
type CopyRequest struct {
	SourceCategory string `json:"source_category"`
	SourceFileName string `json:"source_file_name"`
	TargetCategory string `json:"target_category"`
	TargetFileName string `json:"target_file_name,omitempty"`
	Overwrite      bool   `json:"overwrite,omitempty"`
}

// HandleCopy handles POST /api/files/copy.
func (h *Handlers) HandleCopy(w http.ResponseWriter, r *http.Request) {
	input, err := decodeBody[CopyRequest](r)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.files.Copy(vfs.CopyInput{
		SourceCategory: input.SourceCategory,
		SourceFileName: input.SourceFileName,
		TargetCategory: input.TargetCategory,
		TargetFileName: input.TargetFileName,
		Overwrite:      input.Overwrite,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleMove handles POST /api/files/move. A partial success (copied,
// but the source could not be removed) still returns 200; the payload's
// partial_success and delete_error fields carry the distinction.
func (h *Handlers) HandleMove(w http.ResponseWriter, r *http.Request) {
	input, err := decodeBody[CopyRequest](r)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.files.Move(vfs.MoveInput{
		SourceCategory: input.SourceCategory,
		SourceFileName: input.SourceFileName,
		TargetCategory: input.TargetCategory,
		TargetFileName: input.TargetFileName,
		Overwrite:      input.Overwrite,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CreateFolderRequest is the body for POST /api/folders.
type CreateFolderRequest struct {
	Category   string `json:"category"`
	FolderName string `json:"folder_name"`
}

// HandleCreateFolder handles POST /api/folders.
func (h *Handlers) HandleCreateFolder(w http.ResponseWriter, r *http.Request) {
	input, err := decodeBody[CreateFolderRequest](r)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.files.CreateFolder(vfs.CreateFolderInput{
		Category:   input.Category,
		FolderName: input.FolderName,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// HandleGetLogs handles GET /api/logs.
func (h *Handlers) HandleGetLogs(w http.ResponseWriter, r *http.Request) {
	entries, err := h.logs.GetLogs(logstore.Query{
		Level:  r.URL.Query().Get("level"),
		Search: r.URL.Query().Get("search"),
		Limit:  parseIntParam(r, "limit", 0),
	})
	if err != nil {
		writeError(w, errors.NewInvalidRequest(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   len(entries),
	})
}

// AppendLogRequest is the body for POST /api/logs.
type AppendLogRequest struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Error   *struct {
		Name    string `json:"name"`
		Message string `json:"message"`
		Stack   string `json:"stack,omitempty"`
	} `json:"error,omitempty"`
}

// HandleAppendLog handles POST /api/logs — collaborators record entries
// through this endpoint rather than touching the log file.
func (h *Handlers) HandleAppendLog(w http.ResponseWriter, r *http.Request) {
	input, err := decodeBody[AppendLogRequest](r)
	if err != nil {
		writeError(w, err)
		return
	}
	level, err := logstore.ParseLevel(input.Level)
	if err != nil {
		writeError(w, errors.NewInvalidRequest(err.Error()))
		return
	}
	if strings.TrimSpace(input.Message) == "" {
		writeError(w, errors.NewInvalidRequest("message is required"))
		return
	}

	var detail *logstore.ErrorDetail
	if input.Error != nil {
		detail = &logstore.ErrorDetail{
			Name:    input.Error.Name,
			Message: input.Error.Message,
			Stack:   input.Error.Stack,
		}
	}
	h.logs.Append(level, input.Message, detail)
	writeJSON(w, http.StatusAccepted, map[string]any{"accepted": true})
}

// SetLogLevelRequest is the body for PUT /api/logs/level.
type SetLogLevelRequest struct {
	Level string `json:"level"`
}

// HandleSetLogLevel handles PUT /api/logs/level.
func (h *Handlers) HandleSetLogLevel(w http.ResponseWriter, r *http.Request) {
	input, err := decodeBody[SetLogLevelRequest](r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.logs.SetMinimumLevel(input.Level); err != nil {
		writeError(w, errors.NewInvalidRequest(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"minimum_level": h.logs.MinimumLevel()})
}
