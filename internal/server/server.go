// Package server implements the photogrid HTTP API.
//
// The API exposes the layout pipeline over REST: a stateless /v1/pack
// endpoint for ad-hoc packing requests, and an album collection backed by a
// Store for saved photo sets with derived layouts.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/photogrid/photogrid/pkg/album"
	"github.com/photogrid/photogrid/pkg/pipeline"
)

// Config holds server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// ReadTimeout bounds request header and body reads.
	ReadTimeout time.Duration

	// WriteTimeout bounds response writes. Large PNG renders need headroom.
	WriteTimeout time.Duration
}

// DefaultConfig returns the standard server settings.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
}

// Server wires the HTTP handlers to the pipeline runner and album store.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	store  album.Store
	logger *log.Logger
	http   *http.Server
}

// New creates a server. The store may be nil, in which case the album
// endpoints respond 503 and only stateless packing is available.
func New(cfg Config, runner *pipeline.Runner, store album.Store, logger *log.Logger) *Server {
	if cfg.Addr == "" {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:    cfg,
		runner: runner,
		store:  store,
		logger: logger,
	}
	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Routes builds the chi router with the full endpoint surface.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/pack", s.handlePack)

		r.Route("/albums", func(r chi.Router) {
			r.Get("/", s.handleListAlbums)
			r.Post("/", s.handleCreateAlbum)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetAlbum)
				r.Delete("/", s.handleDeleteAlbum)
				r.Get("/layout", s.handleAlbumLayout)
				r.Get("/gallery", s.handleAlbumGallery)
			})
		})
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled, then drains
// in-flight requests before returning.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return s.http.Shutdown(shutdownCtx)
	}
}
