package web

import (
	"encoding/json"
	"net/http"

	"github.com/hangarhq/hangar/internal/errors"
	"github.com/hangarhq/hangar/internal/logstore"
)

// HandleLogStream handles GET /api/logs/stream — a server-sent events
// feed of log entries. Buffered history is replayed first, then live
// entries until the client disconnects.
func (h *Handlers) HandleLogStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, errors.NewInternal(nil))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// The subscriber callback runs on the store's goroutine; bridge it
	// onto this handler's goroutine so only one writer touches w.
	entryCh := make(chan logstore.Entry, 64)
	unsubscribe := h.logs.Subscribe(func(e logstore.Entry) {
		select {
		case entryCh <- e:
		case <-r.Context().Done():
		}
	})
	defer unsubscribe()

	for {
		select {
		case <-r.Context().Done():
			return
		case e := <-entryCh:
			payload, err := json.Marshal(e)
			if err != nil {
				continue
			}
			if _, err := w.Write([]byte("data: ")); err != nil {
				return
			}
			if _, err := w.Write(payload); err != nil {
				return
			}
			if _, err := w.Write([]byte("\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
