// Package api serves the radiative pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz
//	POST /v1/einstein                    body: .str text
//	POST /v1/linestrength?q=&t=          body: .cat text
//	GET  /v1/partition/linear?b=&t=
//	GET  /v1/partition/top?a=&b=&c=&t=&sigma=
//	GET  /v1/catalog/frequency?f=&prox=&relative=
//
// Errors are JSON objects {"code": ..., "message": ...} with a status
// derived from the error code.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/spectools/pkg/cache"
	"github.com/matzehuels/spectools/pkg/catalog"
	"github.com/matzehuels/spectools/pkg/pipeline"
)

// DefaultMaxBody bounds uploaded .str/.cat bodies.
const DefaultMaxBody = 32 << 20

// Options configure a Server.
type Options struct {
	// Cache stores computed tables. Nil disables caching.
	Cache cache.Cache

	// Catalog backs the frequency search route. Nil disables the route.
	Catalog *catalog.Catalog

	Logger  *log.Logger
	Timeout time.Duration // per request; zero means no limit
	MaxBody int64         // zero means DefaultMaxBody
}

// Server is the HTTP front end of the pipeline.
type Server struct {
	runner  *pipeline.Runner
	catalog *catalog.Catalog
	logger  *log.Logger
	maxBody int64
	router  chi.Router
}

// New builds a server and its routes. Cache keys are scoped with "api:" so
// API results never collide with CLI entries in a shared cache.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	maxBody := opts.MaxBody
	if maxBody <= 0 {
		maxBody = DefaultMaxBody
	}

	s := &Server{
		runner:  pipeline.NewRunner(opts.Cache, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "api:"), logger),
		catalog: opts.Catalog,
		logger:  logger,
		maxBody: maxBody,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	if opts.Timeout > 0 {
		r.Use(middleware.Timeout(opts.Timeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/einstein", s.handleEinstein)
		r.Post("/linestrength", s.handleLineStrength)
		r.Get("/partition/linear", s.handlePartitionLinear)
		r.Get("/partition/top", s.handlePartitionTop)
		r.Get("/catalog/frequency", s.handleCatalogFrequency)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Code: "METHOD_NOT_ALLOWED", Message: r.Method + " not allowed on " + r.URL.Path})
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Close releases the server's cache.
func (s *Server) Close() error {
	return s.runner.Close()
}
