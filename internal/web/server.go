package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hangarhq/hangar/internal/category"
	"github.com/hangarhq/hangar/internal/config"
	"github.com/hangarhq/hangar/internal/logstore"
	"github.com/hangarhq/hangar/internal/vfs"
)

// NewServer creates and configures the Hangar HTTP API server.
func NewServer(files *vfs.Store, logs *logstore.Store, reg *category.Registry, cfg *config.Config, version, bind string, port int) *http.Server {
	h := &Handlers{
		files:    files,
		logs:     logs,
		registry: reg,
		cfg:      cfg,
		version:  version,
	}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("GET /health", h.HandleHealth)

	mux.HandleFunc("GET /api/categories", h.HandleListCategories)
	mux.HandleFunc("POST /api/categories", h.HandleRegisterCategory)

	mux.HandleFunc("GET /api/files", h.HandleList)
	mux.HandleFunc("GET /api/file", h.HandleGet)
	mux.HandleFunc("PUT /api/file", h.HandleSave)
	mux.HandleFunc("DELETE /api/file", h.HandleDelete)
	mux.HandleFunc("POST /api/files/copy", h.HandleCopy)
	mux.HandleFunc("POST /api/files/move", h.HandleMove)
	mux.HandleFunc("POST /api/folders", h.HandleCreateFolder)
	mux.HandleFunc("GET /api/preview", h.HandlePreview)

	mux.HandleFunc("GET /api/logs", h.HandleGetLogs)
	mux.HandleFunc("POST /api/logs", h.HandleAppendLog)
	mux.HandleFunc("GET /api/logs/stream", h.HandleLogStream)
	mux.HandleFunc("PUT /api/logs/level", h.HandleSetLogLevel)

	handler := requestLog(securityHeaders(mux))

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", bind, port),
		Handler: handler,
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// requestLog logs each request to the diagnostic channel.
func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("request handled")
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logrus.Infof("Hangar API running at http://%s", srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		logrus.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		logrus.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
