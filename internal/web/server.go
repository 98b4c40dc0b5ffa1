package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/scrawl/internal/config"
	"github.com/hpungsan/scrawl/internal/metrics"
	"github.com/hpungsan/scrawl/internal/notify"
	"github.com/hpungsan/scrawl/internal/ops"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// NewServer creates and configures the HTTP server for the Scrawl web UI and
// JSON API. The websocket endpoint is only mounted when hub is non-nil.
func NewServer(deps ops.Deps, hub *notify.Hub, version string) (*http.Server, error) {
	if deps.Config == nil {
		deps.Config = config.DefaultConfig()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	handler, err := newHandler(deps, hub, version)
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:              deps.Config.WebAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

func newHandler(deps ops.Deps, hub *notify.Hub, version string) (http.Handler, error) {
	// Create sub-FS for templates (strip "templates/" prefix)
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create template sub-FS: %w", err)
	}

	// Create sub-FS for static files (strip "static/" prefix)
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to create static sub-FS: %w", err)
	}

	h := &Handlers{
		deps:     deps,
		hub:      hub,
		renderer: NewRenderer(templateSub, version, deps.Logger),
	}

	mux := http.NewServeMux()

	// HTML pages
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/games", http.StatusFound)
	})
	mux.HandleFunc("GET /games", h.HandleList)
	mux.HandleFunc("GET /games/{id}", h.HandleGame)
	mux.HandleFunc("DELETE /games/{id}", h.HandleDelete)
	mux.HandleFunc("POST /games/purge", h.HandlePurge)
	mux.HandleFunc("GET /games/{id}/players/{player}", h.HandleActivity)
	mux.HandleFunc("POST /games/{id}/players/{player}/{action}", h.HandlePlayerAction)

	// JSON API
	mux.HandleFunc("POST /api/games", h.HandleAPICreateGame)
	mux.HandleFunc("GET /api/games", h.HandleAPIListGames)
	mux.HandleFunc("POST /api/games/purge", h.HandleAPIPurgeGames)
	mux.HandleFunc("GET /api/games/{id}", h.HandleAPIFetchGame)
	mux.HandleFunc("DELETE /api/games/{id}", h.HandleAPIDeleteGame)
	mux.HandleFunc("POST /api/games/{id}/join", h.HandleAPIJoinGame)
	mux.HandleFunc("POST /api/games/{id}/start", h.HandleAPIStartGame)
	mux.HandleFunc("POST /api/games/{id}/export", h.HandleAPIExport)
	mux.HandleFunc("POST /api/games/{id}/stories", h.HandleAPIStartStory)
	mux.HandleFunc("POST /api/games/{id}/stories/{story}/censor", h.HandleAPICensor)
	mux.HandleFunc("POST /api/games/{id}/stories/{story}/truncate", h.HandleAPITruncate)
	mux.HandleFunc("POST /api/games/{id}/stories/{story}/repair", h.HandleAPIRepair)
	mux.HandleFunc("POST /api/games/{id}/stories/{story}/continue", h.HandleAPIContinue)
	mux.HandleFunc("GET /api/games/{id}/stories/{story}/entries/{entry}", h.HandleAPIStoryEntry)
	mux.HandleFunc("GET /api/games/{id}/players/{player}/activity", h.HandleAPIActivity)
	mux.HandleFunc("POST /api/games/{id}/players/{player}/subscribe", h.HandleAPISubscribe)
	mux.HandleFunc("GET /api/words", h.HandleAPIWords)

	if hub != nil {
		mux.HandleFunc("GET /ws", h.HandleEvents)
	}
	mux.Handle("GET /metrics", metrics.Handler())

	// Static file server
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	return logRequests(deps.Logger, securityHeaders(mux)), nil
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// logRequests logs one line per request. Websocket and metrics requests are
// skipped: the first outlives the request and the second is scraped often.
func logRequests(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		fields := []zap.Field{
			zap.Int("status", rec.status),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("latency", time.Since(start)),
		}
		if rec.status >= http.StatusInternalServerError {
			logger.Error("request served", fields...)
			return
		}
		logger.Info("request served", fields...)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, logger *zap.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("scrawl web server running", zap.String("url", "http://"+srv.Addr))

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		logger.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
