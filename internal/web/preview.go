package web

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/hangarhq/hangar/internal/errors"
	"github.com/hangarhq/hangar/internal/vfs"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
)

// HandlePreview handles GET /api/preview — renders a stored Markdown
// file to HTML. Non-Markdown names are rejected; use /api/file for
// everything else.
func (h *Handlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("name")
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != ".md" && ext != ".markdown" {
		writeError(w, errors.NewInvalidRequest("preview supports Markdown files only"))
		return
	}

	result, err := h.files.Get(vfs.GetInput{
		Category: r.URL.Query().Get("category"),
		FileName: fileName,
		Raw:      true,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	var rendered bytes.Buffer
	if err := markdown.Convert(result.Raw, &rendered); err != nil {
		writeError(w, errors.NewInternal(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = rendered.WriteTo(w)
}
