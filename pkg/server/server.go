// Package server exposes a read-only JSON API over a document store.
//
// # Routes
//
//	GET /healthz                                  liveness probe
//	GET /elements                                 snapshots of every element
//	GET /elements/{id}                            one element by shape or marker ID
//	GET /groups                                   every group with members
//	GET /groups/tree?mode=inferred|explicit       a group forest as nodes and edges
//	GET /groups/shared                            pairs of groups sharing members
//
// Errors are JSON objects {"error": "...", "code": "..."} with the status
// derived from the error code: NOT_FOUND is 404, INVALID_* is 400, and
// attribute or frame errors are 422.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/joinery/pkg/docstore"
)

// ShutdownTimeout bounds how long ListenAndServe waits for open requests
// after its context is cancelled.
const ShutdownTimeout = 5 * time.Second

// Server serves the API for one store.
type Server struct {
	store  docstore.Store
	logger *log.Logger
	router chi.Router
}

// New creates a server over store. logger may be nil.
func New(store docstore.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{store: store, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/elements", func(r chi.Router) {
		r.Get("/", s.handleElements)
		r.Get("/{id}", s.handleElement)
	})
	r.Route("/groups", func(r chi.Router) {
		r.Get("/", s.handleGroups)
		r.Get("/tree", s.handleTree)
		r.Get("/shared", s.handleShared)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "no such route", "")
	})
	return r
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
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
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
