// Package server exposes a loaded snapshot over HTTP.
//
// Routes:
//
//	GET  /healthz               build info and task count
//	GET  /tasks                 every task with its resolved date
//	GET  /tasks/{id}            one task
//	GET  /tasks/{id}/edges      dependency connectors of a task in the current layout
//	GET  /tasks/{id}/related    IDs that stay highlighted while the task is selected
//	GET  /layout                layout JSON
//	GET  /timeline.svg          timeline drawing
//	GET  /deps.svg              dependency graph
//	POST /reload                re-import the snapshot file
//
// Layout routes accept start, end, zoom, width, buffer, focus and select
// query parameters with the same meaning as the CLI flags.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/eventline/pkg/pipeline"
	"github.com/matzehuels/eventline/pkg/task"
)

// Server serves one snapshot. It is safe for concurrent use; Reload swaps
// the snapshot atomically with respect to in-flight requests.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	path   string
	now    func() time.Time
	width  float64
	buffer float64

	mu   sync.RWMutex
	snap task.Snapshot

	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithSource records the file the snapshot was imported from, enabling
// POST /reload.
func WithSource(path string) Option { return func(s *Server) { s.path = path } }

// WithClock overrides time.Now for the default view.
func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

// WithDefaults sets the width and buffer used when a request gives none.
func WithDefaults(width, buffer float64) Option {
	return func(s *Server) { s.width = width; s.buffer = buffer }
}

// New builds a server over snap.
func New(snap task.Snapshot, runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		logger: logger,
		now:    time.Now,
		snap:   snap,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/layout", s.handleLayout)
	r.Get("/timeline.svg", s.handleTimelineSVG)
	r.Get("/deps.svg", s.handleDepsSVG)
	r.Post("/reload", s.handleReload)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.handleTasks)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleTask)
			r.Get("/edges", s.handleEdges)
			r.Get("/related", s.handleRelated)
		})
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Snapshot returns the snapshot currently served.
func (s *Server) Snapshot() task.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Reload re-imports the source file. The served snapshot is left untouched
// if the file no longer validates.
func (s *Server) Reload(ctx context.Context) error {
	if s.path == "" {
		return errNoSource
	}
	snap, err := s.runner.Import(ctx, s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	s.logger.Info("reloaded snapshot", "path", s.path, "tasks", len(snap.Tasks))
	return nil
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
