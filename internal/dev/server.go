package dev

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flatroutes-dev/flatroutes/internal/config"
	"github.com/flatroutes-dev/flatroutes/pkg/deferred"
	"github.com/flatroutes-dev/flatroutes/pkg/flatroutes"
)

// ServerOptions configures the development server.
type ServerOptions struct {
	// Config is the project configuration.
	Config *config.Config

	// Logger receives server logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics receives compile and watcher metrics. Optional.
	Metrics *Metrics

	// OnCompile is called after every compile attempt.
	OnCompile func(manifest flatroutes.RouteManifest, err error)
}

// Server is the development server. It watches the routes directory,
// recompiles the manifest on every change, and serves the result over
// HTTP and WebSocket.
type Server struct {
	config  *config.Config
	logger  *slog.Logger
	metrics *Metrics
	walker  *flatroutes.Walker
	watcher *Watcher
	hub     *Hub
	options ServerOptions

	httpServer *http.Server

	mu       sync.RWMutex
	manifest flatroutes.RouteManifest
	lastErr  error
	compiled time.Time
	running  bool
}

// NewServer creates a new development server.
func NewServer(options ServerOptions) *Server {
	cfg := options.Config

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	watcher := NewWatcher(WatcherConfig{
		Dir:      cfg.RoutesPath(),
		Debounce: time.Duration(cfg.Dev.DebounceMs) * time.Millisecond,
	})

	return &Server{
		config:  cfg,
		logger:  logger,
		metrics: options.Metrics,
		walker:  cfg.Walker(),
		watcher: watcher,
		hub:     NewHub(),
		options: options,
	}
}

// Start compiles once, starts the watcher, and serves HTTP until the
// context ends.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	s.Recompile(ctx)

	s.watcher.OnChange(func(change Change) {
		s.metrics.RecordWatchEvent()
		s.logger.Debug("route file changed", "path", change.Path, "op", change.Op)
		s.Recompile(ctx)
	})
	go s.watcher.Start(ctx)

	s.httpServer = &http.Server{
		Addr:    s.config.DevAddress(),
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dev server listening", "addr", s.config.DevAddress())
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Stop shuts the server down.
func (s *Server) Stop() {
	s.watcher.Stop()
	s.hub.Close()
	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// Recompile rescans the routes directory and rebuilds the manifest.
// Results are broadcast to connected WebSocket clients.
func (s *Server) Recompile(ctx context.Context) {
	_, span := startCompileSpan(ctx, s.config.RoutesPath())
	start := time.Now()

	files, err := s.walker.Walk()
	var manifest flatroutes.RouteManifest
	if err == nil {
		manifest, err = flatroutes.CompileWithOptions(s.config.RoutesPath(), files, flatroutes.CompileOptions{
			Validate: true,
		})
	}

	duration := time.Since(start)
	endCompileSpan(span, len(manifest), err)
	s.metrics.RecordCompile(duration, len(manifest), err)

	s.mu.Lock()
	hadErr := s.lastErr != nil
	s.lastErr = err
	if err == nil {
		s.manifest = manifest
		s.compiled = time.Now()
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("compile failed", "error", err, "duration", duration)
		s.hub.NotifyError(err.Error())
	} else {
		s.logger.Info("compiled manifest", "routes", len(manifest), "duration", duration)
		if hadErr {
			s.hub.ClearError()
		}
		s.hub.NotifyManifest(manifest)
	}
	s.metrics.SetClientCount(s.hub.ClientCount())

	if s.options.OnCompile != nil {
		s.options.OnCompile(manifest, err)
	}
}

// Manifest returns the last successfully compiled manifest.
func (s *Server) Manifest() flatroutes.RouteManifest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manifest
}

// LastError returns the error from the most recent compile, if any.
func (s *Server) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Router builds the HTTP API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/manifest", s.handleManifest)
	r.Get("/manifest/stream", s.handleManifestStream())
	r.Get("/routes", s.handleRoutes)
	r.Get("/ws", s.hub.HandleWebSocket)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	status := map[string]any{
		"status":   "ok",
		"routes":   len(s.manifest),
		"compiled": s.compiled,
	}
	if s.lastErr != nil {
		status["status"] = "error"
		status["error"] = s.lastErr.Error()
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// handleManifest serves the current manifest as JSON.
func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	manifest := s.manifest
	lastErr := s.lastErr
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if lastErr != nil {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": lastErr.Error()})
		return
	}
	json.NewEncoder(w).Encode(manifest)
}

// handleManifestStream streams the manifest immediately and the route
// statistics as they are computed.
func (s *Server) handleManifestStream() http.HandlerFunc {
	return deferred.Handler(func(r *http.Request) *deferred.Deferred {
		s.mu.RLock()
		manifest := s.manifest
		s.mu.RUnlock()

		d := deferred.New()
		d.Set("manifest", manifest)
		d.SetAsync("stats", func(ctx context.Context) (any, error) {
			return manifestStats(manifest), nil
		})
		return d
	})
}

// handleRoutes serves a human-readable route tree.
func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	manifest := s.manifest
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(flatroutes.FormatTree(manifest)))
}

// manifestStats summarizes a manifest for the stream endpoint.
func manifestStats(manifest flatroutes.RouteManifest) map[string]int {
	stats := map[string]int{
		"routes": len(manifest),
	}
	for _, route := range manifest {
		if route.Index {
			stats["index"]++
		}
		if route.Path == "" && !route.Index {
			stats["layouts"]++
		}
	}
	return stats
}
